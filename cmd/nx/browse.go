package main

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/nxpack/internal/render"
	"github.com/samcharles93/nxpack/pkg/nx"
)

func lsCmd() *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Usage:     "List the children of a node",
		ArgsUsage: "<container> [path]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, err := openArg(ctx, cmd)
			if err != nil {
				return err
			}
			n, p, err := resolveArg(cmd, f, 1)
			if err != nil {
				return err
			}

			w := outWriter(cmd)
			if jsonOut {
				view, err := render.NewNodeView(n, p, 1)
				if err != nil {
					return err
				}
				return render.JSON(w, view, true)
			}
			children, err := n.Children()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			for _, c := range children {
				_, _ = fmt.Fprintln(w, render.Line(c))
			}
			return nil
		},
	}
}

func treeCmd() *cli.Command {
	var depth int64

	return &cli.Command{
		Name:      "tree",
		Usage:     "Print the subtree under a node",
		ArgsUsage: "<container> [path]",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:        "depth",
				Usage:       "levels to descend (negative for unlimited)",
				Value:       2,
				Destination: &depth,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, err := openArg(ctx, cmd)
			if err != nil {
				return err
			}
			n, p, err := resolveArg(cmd, f, 1)
			if err != nil {
				return err
			}

			w := outWriter(cmd)
			if jsonOut {
				view, err := render.NewNodeView(n, p, int(depth))
				if err != nil {
					return err
				}
				return render.JSON(w, view, true)
			}
			return render.Tree(w, n, p, int(depth))
		},
	}
}

func findCmd() *cli.Command {
	var limit int64

	return &cli.Command{
		Name:      "find",
		Usage:     "Print the paths of nodes whose name matches a glob pattern",
		ArgsUsage: "<container> <pattern>",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:        "limit",
				Usage:       "stop after this many matches (0 for no limit)",
				Destination: &limit,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, err := openArg(ctx, cmd)
			if err != nil {
				return err
			}
			if cmd.NArg() < 2 {
				return cli.Exit("error: usage: nx find <container> <pattern>", 1)
			}
			pattern := cmd.Args().Get(1)
			if _, err := path.Match(pattern, ""); err != nil {
				return cli.Exit(fmt.Sprintf("error: bad pattern %q: %v", pattern, err), 1)
			}

			matches, err := findNodes(f, pattern, int(limit))
			if err != nil {
				return err
			}
			w := outWriter(cmd)
			if jsonOut {
				if matches == nil {
					matches = []string{}
				}
				return render.JSON(w, matches, true)
			}
			for _, m := range matches {
				_, _ = fmt.Fprintln(w, m)
			}
			return nil
		},
	}
}

var errLimit = errors.New("limit reached")

// findNodes returns the paths of nodes whose name matches pattern, in walk order.
func findNodes(f *nx.File, pattern string, limit int) ([]string, error) {
	var out []string
	err := f.Walk(f.Root(), "", -1, func(p string, n nx.Node, depth int) error {
		if depth == 0 {
			return nil
		}
		if ok, _ := path.Match(pattern, n.Name()); ok {
			out = append(out, p)
			if limit > 0 && len(out) >= limit {
				return errLimit
			}
		}
		return nil
	})
	if err != nil && err != errLimit {
		return nil, err
	}
	return out, nil
}

func stringsCmd() *cli.Command {
	var limit int64

	return &cli.Command{
		Name:      "strings",
		Usage:     "Dump the string table",
		ArgsUsage: "<container>",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:        "limit",
				Usage:       "print at most this many strings (0 for all)",
				Destination: &limit,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, err := openArg(ctx, cmd)
			if err != nil {
				return err
			}

			type entry struct {
				ID    uint32 `json:"id"`
				Value string `json:"value"`
			}
			var entries []entry
			f.Strings(func(id uint32, s string) bool {
				entries = append(entries, entry{ID: id, Value: s})
				return limit <= 0 || int64(len(entries)) < limit
			})

			w := outWriter(cmd)
			if jsonOut {
				if entries == nil {
					entries = []entry{}
				}
				return render.JSON(w, entries, true)
			}
			for _, e := range entries {
				_, _ = fmt.Fprintf(w, "%d\t%s\n", e.ID, strconv.Quote(e.Value))
			}
			return nil
		},
	}
}
