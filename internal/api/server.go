// Package api serves a read-only HTTP view of a container catalog.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/nxpack/internal/assets"
	"github.com/samcharles93/nxpack/internal/catalog"
	"github.com/samcharles93/nxpack/internal/logger"
	"github.com/samcharles93/nxpack/internal/render"
	"github.com/samcharles93/nxpack/pkg/nx"
)

// MaxDepth caps the subtree depth a single node request may ask for.
const MaxDepth = 16

type Server struct {
	catalog *catalog.Catalog
	log     logger.Logger
}

func NewServer(cat *catalog.Catalog, log logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{catalog: cat, log: log.With("component", "api")}
}

func (s *Server) Register(e *echo.Echo) {
	e.Use(RequestID())

	e.GET("/v1/containers", s.handleListContainers)
	e.GET("/v1/containers/:name", s.handleGetContainer)

	e.GET("/v1/nodes/:name", s.handleGetNode)
	e.GET("/v1/nodes/:name/*", s.handleGetNode)

	e.GET("/v1/assets/:name/bitmap/:id", s.handleGetBitmap)
	e.GET("/v1/assets/:name/audio/:id", s.handleGetAudio)
}

func (s *Server) handleListContainers(c *echo.Context) error {
	entries, err := s.catalog.List()
	if err != nil {
		return s.writeFailure(c, err)
	}
	if entries == nil {
		entries = []catalog.Entry{}
	}
	return writeJSON(c, http.StatusOK, ContainerList{Object: "list", Data: entries})
}

func (s *Server) handleGetContainer(c *echo.Context) error {
	name := c.Param("name")
	f, err := s.catalog.Open(name)
	if err != nil {
		return s.writeFailure(c, err)
	}
	h := f.Header()
	return writeJSON(c, http.StatusOK, ContainerInfo{
		Object:  "container",
		Name:    name,
		Magic:   string(h.Magic[:]),
		Nodes:   TableInfo{Count: h.NodeCount, Offset: h.NodeOffset},
		Strings: TableInfo{Count: h.StringCount, Offset: h.StringOffset},
		Bitmaps: TableInfo{Count: h.BitmapCount, Offset: h.BitmapOffset},
		Audio:   TableInfo{Count: h.AudioCount, Offset: h.AudioOffset},
	})
}

func (s *Server) handleGetNode(c *echo.Context) error {
	name := c.Param("name")
	path := strings.Trim(c.Param("*"), "/")

	depth, err := parseDepth(c.QueryParam("depth"))
	if err != nil {
		return s.writeFailure(c, err)
	}
	if depth < 0 || depth > MaxDepth {
		return writeBadRequest(c, fmt.Sprintf("depth must be between 0 and %d", MaxDepth))
	}

	var kind nx.Kind
	if raw := c.QueryParam("as"); raw != "" {
		k, ok := nx.ParseKind(raw)
		if !ok {
			return writeBadRequest(c, fmt.Sprintf("unknown kind %q", raw))
		}
		kind = k
	}

	f, err := s.catalog.Open(name)
	if err != nil {
		return s.writeFailure(c, err)
	}
	n, err := f.Resolve(path)
	if err != nil {
		return s.writeFailure(c, err)
	}
	view, err := render.NewNodeView(n, path, depth)
	if err != nil {
		return s.writeFailure(c, err)
	}

	resp := NodeResponse{Object: "node", Container: name, NodeView: view}
	if kind != 0 {
		out, err := n.As(kind)
		if err != nil {
			return s.writeFailure(c, err)
		}
		resp.As = kind.String()
		resp.Coerced = render.CoercedJSON(out)
	}
	return writeJSON(c, http.StatusOK, resp)
}

func (s *Server) handleGetBitmap(c *echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return s.writeFailure(c, err)
	}
	return s.serveAsset(c, func(src assets.Loader) ([]byte, error) {
		if id >= src.Header().BitmapCount {
			return nil, fmt.Errorf("%w: bitmap %d", nx.ErrNotFound, id)
		}
		return src.Bitmap(nx.BitmapRef{ID: id})
	})
}

// handleGetAudio serves audio id. The stored length comes from the ?length
// query parameter or, when absent, from the first audio node referencing id.
func (s *Server) handleGetAudio(c *echo.Context) error {
	name := c.Param("name")
	id, err := parseID(c.Param("id"))
	if err != nil {
		return s.writeFailure(c, err)
	}

	var length uint32
	if raw := c.QueryParam("length"); raw != "" {
		n, err := parseID(raw)
		if err != nil {
			return writeBadRequest(c, "length must be an unsigned 32-bit integer")
		}
		length = n
	} else {
		f, err := s.catalog.Open(name)
		if err != nil {
			return s.writeFailure(c, err)
		}
		ref, err := findAudio(f, id)
		if err != nil {
			return s.writeFailure(c, err)
		}
		length = ref.Length
	}

	return s.serveAsset(c, func(src assets.Loader) ([]byte, error) {
		if id >= src.Header().AudioCount {
			return nil, fmt.Errorf("%w: audio %d", nx.ErrNotFound, id)
		}
		return src.Audio(nx.AudioRef{ID: id, Length: length})
	})
}

func (s *Server) serveAsset(c *echo.Context, read func(assets.Loader) ([]byte, error)) error {
	src, err := s.catalog.Assets(c.Param("name"))
	if err != nil {
		return s.writeFailure(c, err)
	}
	defer func() { _ = src.Close() }()

	data, err := read(src)
	if err != nil {
		return s.writeFailure(c, err)
	}
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, data)
}

var errFound = errors.New("found")

func findAudio(f *nx.File, id uint32) (nx.AudioRef, error) {
	var ref nx.AudioRef
	err := f.Walk(f.Root(), "", -1, func(_ string, n nx.Node, _ int) error {
		if a, ok := n.Value().Audio(); ok && a.ID == id {
			ref = a
			return errFound
		}
		return nil
	})
	switch {
	case errors.Is(err, errFound):
		return ref, nil
	case err != nil:
		return nx.AudioRef{}, err
	default:
		return nx.AudioRef{}, fmt.Errorf("%w: no node references audio %d", nx.ErrNotFound, id)
	}
}
