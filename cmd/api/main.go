package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"github.com/yigit/unihub/internal/pkg/logger"
	"github.com/yigit/unihub/internal/server"
)

// @title UniHub API
// @version 1.0
// @description Clubs, channels and announcements for a university campus
// @BasePath /api/v1

func main() {
	app := &cli.App{
		Name:  "unihub-api",
		Usage: "serve the UniHub REST API and change feed",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   filepath.Join("configs", "config.yaml"),
				EnvVars: []string{"CONFIG_PATH"},
				Usage:   "path to the YAML config file",
			},
		},
		Action: func(c *cli.Context) error {
			srv, err := server.NewServer(c.String("config"))
			if err != nil {
				logger.Error().Err(err).Msg("Failed to initialize server")
				return err
			}
			return srv.Run()
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
