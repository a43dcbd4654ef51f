package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/nxpack/internal/catalog"
	"github.com/samcharles93/nxpack/internal/logger"
	"github.com/samcharles93/nxpack/internal/nxtest"
)

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	dir := t.TempDir()
	nxtest.WriteFile(t, dir, "String.nx", nxtest.Dir("",
		nxtest.Dir("Cash.img",
			nxtest.Dir("5000000",
				nxtest.Text("name", "Meso Bag"),
				nxtest.Text("price", "250"),
				nxtest.Vector("origin", 4, 5),
			),
		),
	), nxtest.Options{})
	nxtest.WriteFile(t, dir, "Sound.nx", nxtest.Dir("",
		nxtest.Audio("bgm", 0, 4),
		nxtest.Bitmap("icon", 0, 1, 1),
	), nxtest.Options{
		Bitmaps: [][]byte{{9, 8, 7}},
		Audio:   [][]byte{[]byte("RIFF")},
	})
	if err := os.WriteFile(filepath.Join(dir, "Broken.nx"), []byte("PKG4"), 0o644); err != nil {
		t.Fatalf("write broken container: %v", err)
	}

	server := NewServer(catalog.New(dir, logger.Discard()), logger.Discard())
	e := echo.New()
	server.Register(e)
	return e
}

func doGet(t *testing.T, e *echo.Echo, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

type errorBody struct {
	Error ResponseError `json:"error"`
}

func TestListContainers(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)
	rec := doGet(t, e, "/v1/containers")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	list := decode[ContainerList](t, rec)
	if list.Object != "list" {
		t.Fatalf("object: got %q", list.Object)
	}
	var names []string
	for _, c := range list.Data {
		names = append(names, c.Name)
	}
	if len(names) != 3 || names[0] != "Broken" || names[1] != "Sound" || names[2] != "String" {
		t.Fatalf("names: got %v", names)
	}
}

func TestGetContainer(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)
	rec := doGet(t, e, "/v1/containers/Sound")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	info := decode[ContainerInfo](t, rec)
	if info.Magic != "PKG4" || info.Nodes.Count != 3 || info.Audio.Count != 1 || info.Bitmaps.Count != 1 {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestGetNode(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)

	rec := doGet(t, e, "/v1/nodes/String/Cash.img/5000000?depth=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	node := decode[NodeResponse](t, rec)
	if node.Container != "String" || node.Path != "Cash.img/5000000" || node.ChildCount != 3 {
		t.Fatalf("unexpected node: %+v", node)
	}
	if len(node.Children) != 3 || node.Children[0].Value != "Meso Bag" {
		t.Fatalf("unexpected children: %+v", node.Children)
	}

	rec = doGet(t, e, "/v1/nodes/String")
	if rec.Code != http.StatusOK {
		t.Fatalf("root status: got %d body=%s", rec.Code, rec.Body.String())
	}
	root := decode[NodeResponse](t, rec)
	if root.Index != 0 || len(root.Children) != 1 || !root.Children[0].Truncated {
		t.Fatalf("unexpected root: %+v", root)
	}
}

func TestGetNodeCoercion(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)

	rec := doGet(t, e, "/v1/nodes/String/Cash.img/5000000/price?as=int64&depth=0")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	node := decode[NodeResponse](t, rec)
	if node.As != "int64" || node.Coerced != float64(250) {
		t.Fatalf("coerced: got %q %v", node.As, node.Coerced)
	}

	rec = doGet(t, e, "/v1/nodes/String/Cash.img/5000000/origin?as=vector")
	if rec.Code != http.StatusOK {
		t.Fatalf("vector status: got %d body=%s", rec.Code, rec.Body.String())
	}
	vec := decode[NodeResponse](t, rec)
	m, ok := vec.Coerced.(map[string]any)
	if !ok || m["x"] != float64(4) || m["y"] != float64(5) {
		t.Fatalf("vector coerced: got %#v", vec.Coerced)
	}
}

func TestErrorStatuses(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)

	tests := []struct {
		name    string
		path    string
		status  int
		errType string
	}{
		{"missing container", "/v1/containers/Nope", http.StatusNotFound, "not_found_error"},
		{"missing node", "/v1/nodes/String/Cash.img/404", http.StatusNotFound, "not_found_error"},
		{"type mismatch", "/v1/nodes/String/Cash.img/5000000/origin?as=int64", http.StatusBadRequest, "conversion_error"},
		{"parse failure", "/v1/nodes/String/Cash.img/5000000/name?as=double", http.StatusBadRequest, "conversion_error"},
		{"unknown kind", "/v1/nodes/String?as=matrix", http.StatusBadRequest, "invalid_request_error"},
		{"bad depth", "/v1/nodes/String?depth=x", http.StatusBadRequest, "invalid_request_error"},
		{"depth too deep", "/v1/nodes/String?depth=99", http.StatusBadRequest, "invalid_request_error"},
		{"corrupt container", "/v1/containers/Broken", http.StatusInternalServerError, "server_error"},
		{"bitmap out of range", "/v1/assets/Sound/bitmap/1", http.StatusNotFound, "not_found_error"},
		{"bad asset id", "/v1/assets/Sound/bitmap/-1", http.StatusBadRequest, "invalid_request_error"},
		{"unreferenced audio", "/v1/assets/Sound/audio/7", http.StatusNotFound, "not_found_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := doGet(t, e, tt.path)
			if rec.Code != tt.status {
				t.Fatalf("status: got %d want %d body=%s", rec.Code, tt.status, rec.Body.String())
			}
			body := decode[errorBody](t, rec)
			if body.Error.Type != tt.errType {
				t.Fatalf("error type: got %q want %q", body.Error.Type, tt.errType)
			}
			if body.Error.Message == "" {
				t.Fatalf("empty error message")
			}
			if body.Error.RequestID != rec.Header().Get(echo.HeaderXRequestID) {
				t.Fatalf("request id mismatch: body %q header %q", body.Error.RequestID, rec.Header().Get(echo.HeaderXRequestID))
			}
		})
	}
}

func TestGetAssets(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)

	rec := doGet(t, e, "/v1/assets/Sound/bitmap/0")
	if rec.Code != http.StatusOK {
		t.Fatalf("bitmap status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.Bytes(); string(got) != "\x09\x08\x07" {
		t.Fatalf("bitmap bytes: got %v", got)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != echo.MIMEOctetStream {
		t.Fatalf("content type: got %q", ct)
	}

	rec = doGet(t, e, "/v1/assets/Sound/audio/0")
	if rec.Code != http.StatusOK || rec.Body.String() != "RIFF" {
		t.Fatalf("audio: got %d %q", rec.Code, rec.Body.String())
	}

	rec = doGet(t, e, "/v1/assets/Sound/audio/0?length=2")
	if rec.Code != http.StatusOK || rec.Body.String() != "RI" {
		t.Fatalf("audio with length: got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)

	rec := doGet(t, e, "/v1/containers")
	id := rec.Header().Get(echo.HeaderXRequestID)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("generated request id %q: %v", id, err)
	}

	want := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/v1/containers", nil)
	req.Header.Set(echo.HeaderXRequestID, want)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(echo.HeaderXRequestID); got != want {
		t.Fatalf("request id: got %q want %q", got, want)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/containers", nil)
	req.Header.Set(echo.HeaderXRequestID, "not a uuid\r\n")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(echo.HeaderXRequestID); got == "not a uuid\r\n" {
		t.Fatalf("malformed request id echoed back")
	}
}

func TestOverlappingSpansFailFast(t *testing.T) {
	t.Parallel()

	const n = 40
	leaves := make([]nxtest.Entry, n-1)
	for i := range leaves {
		leaves[i] = nxtest.Int(fmt.Sprintf("n%d", i+1), int64(i))
	}
	data, layout := nxtest.BuildLayout(t, nxtest.Dir("", leaves...), nxtest.Options{
		Audio: [][]byte{[]byte("x")},
	})
	for i := 1; i < n-1; i++ {
		nxtest.PatchChildren(data, layout.Header, uint32(i), uint32(i+1), uint16(n-1-i))
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Dag.nx"), data, 0o644); err != nil {
		t.Fatalf("write container: %v", err)
	}

	e := echo.New()
	NewServer(catalog.New(dir, logger.Discard()), logger.Discard()).Register(e)

	for _, path := range []string{
		"/v1/nodes/Dag?depth=16",
		"/v1/assets/Dag/audio/0",
	} {
		rec := doGet(t, e, path)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s: got %d body=%s", path, rec.Code, rec.Body.String())
		}
	}
}
