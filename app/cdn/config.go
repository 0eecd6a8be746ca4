package cdn

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/simplecdn/core/server"
	"github.com/dmitrymomot/simplecdn/integration/storage/s3"
)

// Access guard variants.
const (
	AuthBasic = "basic"
	AuthHosts = "hosts"
)

// DefaultAdminPassword is the placeholder shipped in the example environment.
// Starting with it logs a warning.
const DefaultAdminPassword = "changeme"

var ErrInvalidConfig = errors.New("cdn: invalid configuration")

type Config struct {
	Server server.Config
	S3     s3.Config

	AppName  string `env:"APP_NAME" envDefault:"simplecdn"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StorageRoot     string `env:"STORAGE_ROOT" envDefault:"/data"`
	MaxUploadSize   int64  `env:"MAX_UPLOAD_SIZE" envDefault:"104857600"`
	PublicBaseURL   string `env:"PUBLIC_BASE_URL"`
	CDNCacheControl string `env:"CDN_CACHE_CONTROL" envDefault:"public, max-age=3600"`

	AuthMode          string   `env:"AUTH_MODE" envDefault:"basic"`
	AllowedHosts      []string `env:"ALLOWED_HOSTS" envSeparator:","`
	AdminUser         string   `env:"ADMIN_USER"`
	AdminPassword     string   `env:"ADMIN_PASSWORD" envDefault:"changeme"`
	AdminPasswordHash string   `env:"ADMIN_PASSWORD_HASH"`

	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	RateLimitEnabled  bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitBurst    int           `env:"RATE_LIMIT_BURST" envDefault:"120"`
	RateLimitRefill   int           `env:"RATE_LIMIT_REFILL" envDefault:"2"`
	RateLimitInterval time.Duration `env:"RATE_LIMIT_INTERVAL" envDefault:"1s"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// Validate reports the first configuration problem.
func (c Config) Validate() error {
	switch {
	case c.StorageRoot == "":
		return fmt.Errorf("%w: STORAGE_ROOT is empty", ErrInvalidConfig)
	case c.MaxUploadSize <= 0:
		return fmt.Errorf("%w: MAX_UPLOAD_SIZE must be positive", ErrInvalidConfig)
	case c.AuthMode != AuthBasic && c.AuthMode != AuthHosts:
		return fmt.Errorf("%w: AUTH_MODE must be %q or %q, got %q", ErrInvalidConfig, AuthBasic, AuthHosts, c.AuthMode)
	case c.AuthMode == AuthBasic && c.AdminPassword == "" && c.AdminPasswordHash == "":
		return fmt.Errorf("%w: ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required", ErrInvalidConfig)
	case c.RateLimitEnabled && (c.RateLimitBurst <= 0 || c.RateLimitRefill <= 0 || c.RateLimitInterval <= 0):
		return fmt.Errorf("%w: rate limit values must be positive", ErrInvalidConfig)
	}
	return nil
}

// IsProduction reports whether APP_ENV is "production" or "prod".
func (c Config) IsProduction() bool {
	env := strings.ToLower(c.Env)
	return env == "production" || env == "prod"
}
