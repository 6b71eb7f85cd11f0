package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/contactkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address; empty disables it
//	-D string   database driver, "pgx" or "sqlite"
//	-d string   database DSN
//	-s string   base64 token signing key
//	-t int      token validity, seconds
//	-p string   password hash algorithm, "bcrypt" or "argon2id"
//	-k int      bcrypt cost
//	-o string   comma separated CORS origins
//	-l string   log level (debug, info, warn, error)
//	-dev        development mode
//
// os.Args is first filtered down to these flags with flagx.FilterArgs so
// -c/-config and unknown flags do not break parsing.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:],
		[]string{"-a", "-g", "-D", "-d", "-s", "-t", "-p", "-k", "-o", "-l"},
		[]string{"-dev"},
	)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run the HTTP server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port of the gRPC health server")
	fs.StringVar(&config.DatabaseDriver, "D", config.DatabaseDriver, "database driver (pgx or sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "base64 secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Seconds()), "token_validity_duration (in seconds)")

	fs.StringVar(&config.PasswordHashAlgorithm, "p", config.PasswordHashAlgorithm, "password hash algorithm")
	fs.IntVar(&config.PasswordHashCost, "k", config.PasswordHashCost, "bcrypt cost")
	fs.Func("o", "comma separated CORS origins", func(s string) error {
		config.AllowedOrigins = splitList(s)
		return nil
	})
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.Development, "dev", config.Development, "development mode")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Only an explicit -t replaces the TTL, so sub-second values from the
	// earlier layers survive.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Second
		}
	})
	return nil
}
