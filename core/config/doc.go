// Package config loads typed configuration from environment variables.
//
// A .env file in the working directory is read once on first use, then
// caarlos0/env parses variables into the struct fields. Each configuration
// type is loaded once and cached; later calls with the same type copy the
// cached value.
//
//	type Config struct {
//		StorageRoot string `env:"STORAGE_ROOT" envDefault:"/data"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Use Parse to bypass the cache, which is what tests usually want.
package config
