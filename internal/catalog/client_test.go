package catalog

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ppe-monitor/internal/models"
)

func TestListActiveCameras(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/cameras" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"cam-1","name":"Gate-1","location":"North Gate","status":"active"},
			{"id":"cam-2","name":"Dock-3","location":"Loading Dock","status":"maintenance"},
			{"id":"cam-3","name":"Yard-2","location":"Yard","status":"inactive"},
			{"id":"cam-4","name":"Gate-2","location":"South Gate","status":"active"}
		]`))
	}))
	defer server.Close()

	client := NewClient(models.CatalogConfig{URL: server.URL})
	cameras, err := client.ListActiveCameras()
	if err != nil {
		t.Fatalf("ListActiveCameras: %v", err)
	}

	if len(cameras) != 2 {
		t.Fatalf("expected 2 active cameras, got %d", len(cameras))
	}
	if cameras[0].ID != "cam-1" || cameras[1].ID != "cam-4" {
		t.Errorf("unexpected cameras: %+v", cameras)
	}
}

func TestListActiveCamerasServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(models.CatalogConfig{URL: server.URL})
	if _, err := client.ListActiveCameras(); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestListActiveCamerasUnreachable(t *testing.T) {
	client := NewClient(models.CatalogConfig{URL: "http://127.0.0.1:1"})
	if _, err := client.ListActiveCameras(); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}
