//go:build !unix

package nx

import (
	"errors"
	"os"
)

var errNoMmap = errors.New("mmap not supported on this platform")

func mapFile(*os.File, int) ([]byte, func() error, error) {
	return nil, nil, errNoMmap
}
