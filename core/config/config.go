package config

import (
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// Load reads environment variables into cfg, which must be a pointer to a struct.
// A .env file in the working directory is loaded once per process before the first parse;
// its absence is not an error. Fields whose variables are unset keep their current values
// unless the field declares an envDefault tag.
func Load(cfg any) error {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrEnv, err)
	}
	return nil
}

// LoadEnviron behaves like Load but reads from the given map instead of the process
// environment and skips the .env file. Useful for tests.
func LoadEnviron(cfg any, environ map[string]string) error {
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("%w: %w", ErrEnv, err)
	}
	return nil
}
