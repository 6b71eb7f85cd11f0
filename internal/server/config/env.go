package config

import (
	"errors"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// dotEnvPathKey names a .env file other than the one in the working directory.
const dotEnvPathKey = "CMS_DOTENV"

// loadDotEnv copies variables from the .env file into the process
// environment. Variables that are already set win; a missing file is fine.
func loadDotEnv() error {
	path := os.Getenv(dotEnvPathKey)
	if path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// parseEnv overlays CMS_* environment variables. Unset variables leave the
// current values untouched. Durations take whole seconds, like the -t flag,
// or a Go duration string such as "30m".
func parseEnv(config *Config) error {
	return env.ParseWithOptions(config, env.Options{
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(time.Duration(0)): parseSecondsOrDuration,
		},
	})
}

func parseSecondsOrDuration(v string) (any, error) {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
