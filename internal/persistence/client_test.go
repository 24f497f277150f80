package persistence

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ppe-monitor/internal/models"
)

func TestSaveDetection(t *testing.T) {
	var received models.DetectionRecord
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/detections" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"detection saved"}`))
	}))
	defer server.Close()

	client := NewClient(models.PersistenceConfig{URL: server.URL})
	record := models.DetectionRecord{
		RequestID:         "req-1",
		CameraID:          "cam-1",
		PersonDetected:    true,
		NoHardhatDetected: true,
	}

	message, err := client.SaveDetection(record)
	if err != nil {
		t.Fatalf("SaveDetection: %v", err)
	}
	if message != "detection saved" {
		t.Errorf("unexpected message: %q", message)
	}
	if received.CameraID != "cam-1" || !received.NoHardhatDetected {
		t.Errorf("unexpected payload: %+v", received)
	}
}

func TestSaveDetectionRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"camera does not exist"}`))
	}))
	defer server.Close()

	client := NewClient(models.PersistenceConfig{URL: server.URL})
	_, err := client.SaveDetection(models.DetectionRecord{CameraID: "ghost"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "camera does not exist") {
		t.Errorf("reason not surfaced: %v", err)
	}
}

func TestSaveDetectionUnreachable(t *testing.T) {
	client := NewClient(models.PersistenceConfig{URL: "http://127.0.0.1:1"})
	if _, err := client.SaveDetection(models.DetectionRecord{}); err == nil {
		t.Fatal("expected error")
	}
}
