package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/nxpack/internal/render"
)

type infoOutput struct {
	Magic        string `json:"magic"`
	Nodes        uint32 `json:"nodes"`
	NodeOffset   uint64 `json:"node_offset"`
	Strings      uint32 `json:"strings"`
	StringOffset uint64 `json:"string_offset"`
	Bitmaps      uint32 `json:"bitmaps"`
	BitmapOffset uint64 `json:"bitmap_offset"`
	Audio        uint32 `json:"audio"`
	AudioOffset  uint64 `json:"audio_offset"`
}

func infoCmd() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Print the container header",
		ArgsUsage: "<container>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			f, err := openArg(ctx, cmd)
			if err != nil {
				return err
			}
			h := f.Header()
			info := infoOutput{
				Magic:        string(h.Magic[:]),
				Nodes:        h.NodeCount,
				NodeOffset:   h.NodeOffset,
				Strings:      h.StringCount,
				StringOffset: h.StringOffset,
				Bitmaps:      h.BitmapCount,
				BitmapOffset: h.BitmapOffset,
				Audio:        h.AudioCount,
				AudioOffset:  h.AudioOffset,
			}

			w := outWriter(cmd)
			if jsonOut {
				return render.JSON(w, info, true)
			}
			_, _ = fmt.Fprintf(w, "magic:   %s\n", info.Magic)
			_, _ = fmt.Fprintf(w, "nodes:   %d @ %#x\n", info.Nodes, info.NodeOffset)
			_, _ = fmt.Fprintf(w, "strings: %d @ %#x\n", info.Strings, info.StringOffset)
			_, _ = fmt.Fprintf(w, "bitmaps: %d @ %#x\n", info.Bitmaps, info.BitmapOffset)
			_, _ = fmt.Fprintf(w, "audio:   %d @ %#x\n", info.Audio, info.AudioOffset)
			return nil
		},
	}
}
