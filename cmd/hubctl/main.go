package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/yigit/unihub/internal/app/repositories"
	"github.com/yigit/unihub/internal/app/services"
	"github.com/yigit/unihub/internal/bootstrap"
	"github.com/yigit/unihub/internal/pkg/blobstore"
	"github.com/yigit/unihub/internal/pkg/logger"
	"github.com/yigit/unihub/internal/seed"
)

// env bundles what every command needs
type env struct {
	store    blobstore.Store
	repos    *repositories.Repositories
	services *services.Services
	logger   zerolog.Logger
}

func open(c *cli.Context) (*env, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
	if err != nil {
		return nil, err
	}
	store, err := bootstrap.OpenStore(c.Context, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}
	repos := repositories.NewRepositories(store, nil, lgr)
	return &env{
		store:    store,
		repos:    repos,
		services: services.NewServices(repos, lgr),
		logger:   lgr,
	}, nil
}

// withEnv opens the configured store around fn
func withEnv(fn func(ctx context.Context, e *env, c *cli.Context) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := open(c)
		if err != nil {
			return err
		}
		defer func() {
			if err := blobstore.Close(e.store); err != nil {
				e.logger.Error().Err(err).Msg("Failed to close blob store")
			}
		}()
		return fn(c.Context, e, c)
	}
}

func seedCmd(ctx context.Context, e *env, c *cli.Context) error {
	result, err := seed.CreateDefaultData(ctx, e.repos, e.logger)
	fmt.Fprintf(c.App.Writer, "clubs=%t queue=%t announcements=%t\n", result.Clubs, result.Queue, result.Announcements)
	return err
}

// dumpKey writes the raw blob under key, indented when it is JSON
func dumpKey(ctx context.Context, store blobstore.Store, key string, w io.Writer) error {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, blobstore.ErrKeyNotFound) {
		return cli.Exit(fmt.Sprintf("key %q not found", key), 2)
	}
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", key, err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		out.Reset()
		out.Write(raw)
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(w)
	return err
}

func dumpCmd(ctx context.Context, e *env, c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: hubctl dump <key>", 2)
	}
	return dumpKey(ctx, e.store, c.Args().First(), c.App.Writer)
}

func recoverCmd(ctx context.Context, e *env, c *cli.Context) error {
	n := e.services.ClubService.RecoverPendingApprovals(ctx)
	fmt.Fprintf(c.App.Writer, "recovered %d club(s)\n", n)
	return nil
}

func adoptCmd(ctx context.Context, e *env, c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: hubctl adopt-legacy-posts <channel-id>", 2)
	}
	n, err := e.services.PostService.AdoptLegacyPosts(ctx, c.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "adopted %d post(s)\n", n)
	return nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "hubctl",
		Usage: "operate on a UniHub blob store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   filepath.Join("configs", "config.yaml"),
				EnvVars: []string{"CONFIG_PATH"},
				Usage:   "path to the YAML config file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "write default clubs, club requests and announcements where empty",
				Action: withEnv(seedCmd),
			},
			{
				Name:      "dump",
				Usage:     "print the blob stored under a key",
				ArgsUsage: "<key>",
				Action:    withEnv(dumpCmd),
			},
			{
				Name:   "recover",
				Usage:  "finish club approvals interrupted by a failed write",
				Action: withEnv(recoverCmd),
			},
			{
				Name:      "adopt-legacy-posts",
				Usage:     "move posts from the pre-partition list into a channel",
				ArgsUsage: "<channel-id>",
				Action:    withEnv(adoptCmd),
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("hubctl failed")
		os.Exit(1)
	}
}
