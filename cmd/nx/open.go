package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/nxpack/internal/logger"
	"github.com/samcharles93/nxpack/pkg/nx"
)

// openArg loads the container named by the first positional argument.
func openArg(ctx context.Context, cmd *cli.Command) (*nx.File, error) {
	if cmd.NArg() < 1 {
		return nil, cli.Exit(fmt.Sprintf("error: usage: nx %s %s", cmd.Name, cmd.ArgsUsage), 1)
	}
	path, err := resolveContainer(cmd.Args().First(), dataDir)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}

	log := logger.FromContext(ctx)
	start := time.Now()
	f, err := nx.Open(path)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("error: open %s: %v", path, err), 1)
	}
	log.Debug("container loaded", "path", path, "nodes", f.Len(), "duration", time.Since(start))
	return f, nil
}

// resolveArg resolves positional argument i as a node path, defaulting to the root.
func resolveArg(cmd *cli.Command, f *nx.File, i int) (nx.Node, string, error) {
	path := cmd.Args().Get(i)
	n, err := f.Resolve(path)
	if err != nil {
		return nx.Node{}, "", cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	return n, path, nil
}
