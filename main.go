package main

import (
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/anicoll/vrm-integration/cmd"
)

func main() {
	app := &cli.App{
		Name:   "vrm-collector",
		Usage:  "collects VRM installation telemetry and writes it to configured sinks",
		Action: cmd.VrmCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "auth-mode",
				EnvVars: []string{"VRM_AUTH_MODE"},
				Usage:   "token or credentials; defaults to token when an auth token is set",
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "auth-token",
				EnvVars: []string{"VRM_AUTH_TOKEN"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "username",
				EnvVars: []string{"VRM_USERNAME"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "password",
				EnvVars: []string{"VRM_PASSWORD"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "api-url",
				EnvVars: []string{"VRM_API_URL"},
				Value:   "https://vrmapi.victronenergy.com",
			},
			&cli.StringFlag{
				Name:    "token-cache",
				EnvVars: []string{"VRM_TOKEN_CACHE"},
				Value:   ".vrm_token_cache",
			},
			&cli.DurationFlag{
				Name:    "collection-interval",
				EnvVars: []string{"DATA_COLLECTION_INTERVAL"},
				Value:   5 * time.Second,
			},
			&cli.StringFlag{
				Name:    "database-url",
				EnvVars: []string{"DATABASE_URL"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "migrations-folder",
				EnvVars: []string{"MIGRATIONS_FOLDER"},
				Value:   "migrations",
			},
			&cli.StringFlag{
				Name:    "http-address",
				EnvVars: []string{"HTTP_ADDRESS"},
				Value:   "0.0.0.0:8000",
			},
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "INFO",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
