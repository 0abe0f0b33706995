package config

import (
	"flag"
	"io"
	"time"
)

// parseFlags reads the command-line overrides into a Config whose unset
// fields stay zero so that mergo fills them from the environment.
//
//	-a               listen address, e.g. ":3000"
//	-d               database DSN
//	-db-type         mysql, postgres or sqlite
//	-token-duration  token lifetime, e.g. "24h"
//	-env             environment name
func parseFlags(args []string) (*Config, error) {
	var (
		address       string
		dsn           string
		dbType        string
		tokenDuration time.Duration
		appEnv        string
	)

	fs := flag.NewFlagSet("dragnotes", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&address, "a", "", "HTTP listen address host:port")
	fs.StringVar(&dsn, "d", "", "Database DSN")
	fs.StringVar(&dbType, "db-type", "", "Database type (mysql, postgres, sqlite)")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token lifetime (e.g. 24h)")
	fs.StringVar(&appEnv, "env", "", "Environment name")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &Config{
		App: App{
			Env:           appEnv,
			TokenDuration: tokenDuration,
		},
		Server: Server{
			Address: address,
		},
		DB: DB{
			Type: dbType,
			DSN:  dsn,
		},
	}, nil
}
