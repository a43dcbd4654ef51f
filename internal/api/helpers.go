package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/nxpack/internal/render"
)

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": ResponseError{
			Message:   msg,
			Type:      errType,
			RequestID: requestID(c),
		},
	})
}

// writeFailure logs err and writes it with the status classify picks.
func (s *Server) writeFailure(c *echo.Context, err error) error {
	status, errType := classify(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", c.Request().URL.Path, "request_id", requestID(c), "error", err)
	}
	return writeError(c, status, errType, err.Error())
}

// writeJSON encodes documents with the same encoder the nx command uses.
func writeJSON(c *echo.Context, status int, v any) error {
	var buf bytes.Buffer
	if err := render.JSON(&buf, v, false); err != nil {
		return err
	}
	return c.Blob(status, echo.MIMEApplicationJSON, buf.Bytes())
}

func parseDepth(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	d, err := strconv.Atoi(raw)
	if err != nil {
		return 0, newInvalidRequest("depth must be an integer")
	}
	return d, nil
}

func parseID(raw string) (uint32, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, newInvalidRequest("asset id must be an unsigned 32-bit integer")
	}
	return uint32(id), nil
}
