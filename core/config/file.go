package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"
)

// FromFile decodes a JSON, YAML or TOML file into cfg using mapstructure tags.
// Keys missing from the file leave the corresponding fields untouched, so cfg can be
// pre-populated with defaults. The format is chosen by file extension.
func FromFile(path string, cfg any) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformed, path, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformed, path, err)
	}

	return nil
}
