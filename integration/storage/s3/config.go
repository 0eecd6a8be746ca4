package s3

import "time"

// Config configures the bucket mirror. An empty Bucket disables mirroring.
type Config struct {
	Bucket          string        `env:"S3_BUCKET"`
	Region          string        `env:"S3_REGION" envDefault:"us-east-1"`
	Endpoint        string        `env:"S3_ENDPOINT"`
	AccessKeyID     string        `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string        `env:"S3_SECRET_ACCESS_KEY"`
	Prefix          string        `env:"S3_PREFIX"`
	ForcePathStyle  bool          `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
	UploadTimeout   time.Duration `env:"S3_UPLOAD_TIMEOUT" envDefault:"5m"`
}

// Enabled reports whether a bucket is configured.
func (c Config) Enabled() bool {
	return c.Bucket != ""
}
