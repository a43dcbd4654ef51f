package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/nxpack/internal/render"
	"github.com/samcharles93/nxpack/pkg/nx"
)

func getCmd() *cli.Command {
	var as string

	return &cli.Command{
		Name:      "get",
		Usage:     "Print the value of a node",
		ArgsUsage: "<container> <path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "as",
				Usage:       "convert the value (int64, double, text, bool, vector, bitmap, audio)",
				Destination: &as,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, err := openArg(ctx, cmd)
			if err != nil {
				return err
			}
			n, path, err := resolveArg(cmd, f, 1)
			if err != nil {
				return err
			}

			w := outWriter(cmd)
			if as == "" {
				if jsonOut {
					view, err := render.NewNodeView(n, path, 0)
					if err != nil {
						return err
					}
					return render.JSON(w, view, true)
				}
				_, _ = fmt.Fprintln(w, n.Value().String())
				return nil
			}

			kind, ok := nx.ParseKind(as)
			if !ok {
				return cli.Exit(fmt.Sprintf("error: unknown kind %q", as), 1)
			}
			out, err := n.As(kind)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %s: %v", path, err), 1)
			}
			if jsonOut {
				return render.JSON(w, map[string]any{"path": path, "as": kind.String(), "value": render.CoercedJSON(out)}, true)
			}
			_, _ = fmt.Fprintln(w, formatCoerced(out))
			return nil
		},
	}
}

func formatCoerced(out any) string {
	switch v := out.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case nx.Vector:
		return nx.VectorValue(v).String()
	case nx.BitmapRef:
		return nx.BitmapValue(v).String()
	case nx.AudioRef:
		return nx.AudioValue(v).String()
	default:
		return fmt.Sprint(out)
	}
}
