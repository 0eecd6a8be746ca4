package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNilConfig is returned when Load is called with a nil pointer.
var ErrNilConfig = errors.New("config: nil pointer")

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> *entry
)

type entry struct {
	once  sync.Once
	value any
	err   error
}

// Load populates cfg from the environment. The first call for a given type
// parses the environment; subsequent calls reuse that result.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}

	typ := reflect.TypeFor[T]()
	v, _ := cache.LoadOrStore(typ, &entry{})
	e := v.(*entry)

	e.once.Do(func() {
		var loaded T
		e.err = Parse(&loaded)
		e.value = loaded
	})
	if e.err != nil {
		return e.err
	}

	*cfg = e.value.(T)
	return nil
}

// MustLoad is like Load but panics on failure.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Parse populates cfg from the environment without caching.
func Parse[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}
	loadDotenv()
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %T: %w", *cfg, err)
	}
	return nil
}

// loadDotenv reads .env once. A missing file is not an error; variables
// already set in the process environment win.
func loadDotenv() {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
}
