package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/nxpack/internal/catalog"
	"github.com/samcharles93/nxpack/internal/logger"
	"github.com/samcharles93/nxpack/internal/render"
)

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the containers in the data directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := strings.TrimSpace(dataDir)
			if dir == "" {
				return cli.Exit(fmt.Sprintf("error: --data-dir is required unless %s is set", envDataDir), 1)
			}

			entries, err := catalog.New(dir, logger.FromContext(ctx)).List()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			w := outWriter(cmd)
			if jsonOut {
				if entries == nil {
					entries = []catalog.Entry{}
				}
				return render.JSON(w, entries, true)
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintf(w, "no .nx containers found in %s\n", dir)
				return nil
			}
			for _, e := range entries {
				_, _ = fmt.Fprintf(w, "%-20s %10d  %s\n", e.Name, e.Size, e.ModTime.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}
