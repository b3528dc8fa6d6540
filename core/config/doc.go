// Package config loads configuration structs from files and environment variables.
//
// Environment parsing uses caarlos0/env struct tags; a .env file is loaded with
// joho/godotenv on first use. File parsing uses spf13/viper and mapstructure tags,
// so JSON, YAML and TOML files are all accepted.
//
// Typical layering, lowest precedence first:
//
//	cfg := DefaultConfig()
//	if err := config.FromFile("config.json", &cfg); err != nil {
//		log.Warn("using defaults", logger.Error(err))
//	}
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Struct definition:
//
//	type Config struct {
//		URL         string `mapstructure:"url"          env:"FRAMECAST_URL"`
//		FrameHeight int    `mapstructure:"frame_height" env:"FRAMECAST_FRAME_HEIGHT"`
//	}
//
// Avoid envDefault tags on fields that are also read from a file: the env default
// would overwrite the file value whenever the variable is unset.
//
// FromFile distinguishes a missing file (ErrFileNotFound) from an unreadable or
// undecodable one (ErrMalformed) so callers can choose how loudly to report each.
package config
