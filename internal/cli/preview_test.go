package cli

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doppelganger/archviz/pkg/config"
	"github.com/doppelganger/archviz/pkg/diagram/batch"
	"github.com/doppelganger/archviz/pkg/errors"
)

func testReport() *batch.Report {
	return &batch.Report{
		RunID: "test-run",
		Results: []batch.Result{
			{Name: "High Level Architecture", Stem: "advanced_web_service", Path: "diagrams/advanced_web_service.png"},
			{
				Name: "Broken Diagram",
				Stem: "broken",
				Path: "diagrams/broken.png",
				Err:  errors.New(errors.ErrCodeRenderFailed, "graphviz exploded"),
			},
		},
	}
}

func TestIndexMarkdown(t *testing.T) {
	md := indexMarkdown(testReport(), "png")

	assert.Contains(t, md, "# Architecture Diagrams")
	assert.Contains(t, md, "[High Level Architecture](/diagrams/advanced_web_service.png)")
	assert.Contains(t, md, "Broken Diagram")
	assert.Contains(t, md, "graphviz exploded")
	assert.NotContains(t, md, "/diagrams/broken.png", "failed diagrams must not be linked")
}

func TestIndexMarkdown_NoReport(t *testing.T) {
	md := indexMarkdown(nil, "png")
	assert.Contains(t, md, "No diagrams generated yet")
}

func TestHandleIndex(t *testing.T) {
	ps := &previewServer{cfg: config.Default(), report: testReport()}

	rec := httptest.NewRecorder()
	ps.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "<h1")
	assert.Contains(t, body, "advanced_web_service.png")
}

func TestHandleDiagram_ServesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "edge_plane.svg"), []byte("<svg/>"), 0o644))

	cfg := config.Default()
	cfg.OutputDir = dir
	ps := &previewServer{cfg: cfg}

	rec := httptest.NewRecorder()
	ps.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/diagrams/edge_plane.svg", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, "<svg/>", string(body))
}

func TestHandleDiagram_RejectsTraversal(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	ps := &previewServer{cfg: cfg}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/diagrams/sub%2F..%2Fsecret.png", nil)
	ps.handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRelevantEvent(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"topology write", fsnotify.Event{Name: "topologies/edge.yaml", Op: fsnotify.Write}, true},
		{"config write", fsnotify.Event{Name: "archviz.toml", Op: fsnotify.Write}, true},
		{"yml create", fsnotify.Event{Name: "new.YML", Op: fsnotify.Create}, true},
		{"chmod only", fsnotify.Event{Name: "edge.yaml", Op: fsnotify.Chmod}, false},
		{"unrelated file", fsnotify.Event{Name: "notes.md", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevantEvent(tt.ev))
		})
	}
}
