package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/nxpack/internal/api"
	"github.com/samcharles93/nxpack/internal/catalog"
	"github.com/samcharles93/nxpack/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		preload     int64
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the containers in the data directory over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.Int64Flag{
				Name:        "preload",
				Usage:       "load every container at startup with this many workers (0 to load on demand)",
				Destination: &preload,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, LoadConfig(), &addr, &preload)

			dir := strings.TrimSpace(dataDir)
			if dir == "" {
				return cli.Exit(fmt.Sprintf("error: --data-dir is required unless %s is set", envDataDir), 1)
			}

			cat := catalog.New(dir, log)
			if preload > 0 {
				start := time.Now()
				if err := cat.Preload(ctx, int(preload)); err != nil {
					return cli.Exit(fmt.Sprintf("error: preload: %v", err), 1)
				}
				log.Info("preloaded containers", "count", len(cat.Loaded()), "duration", time.Since(start))
			}

			server := api.NewServer(cat, log)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr, "data_dir", dir)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
