package simulator

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strings"
	"time"

	"ppe-monitor/internal/logger"
	"ppe-monitor/internal/models"

	"github.com/gorilla/websocket"
)

// Config controls the fake detection stream server.
type Config struct {
	Addr       string
	PathPrefix string
	Rate       float64 // frames per second
}

// message mirrors the wire protocol the monitoring client consumes.
type message struct {
	Type    string                  `json:"type"`
	Frame   string                  `json:"frame,omitempty"`
	Results *models.DetectionResult `json:"results,omitempty"`
	Message string                  `json:"message,omitempty"`
}

// framesPerScenario is how long each synthetic scenario plays before
// rotating to the next.
const framesPerScenario = 10

// Scenarios rotates through the situations a PPE camera sees: full
// compliance, each violation type, and an empty scene.
func Scenarios(labels models.LabelSet) []models.DetectionResult {
	missingHardhat := "missing hardhat"
	missingVest := "missing safety vest"
	return []models.DetectionResult{
		{
			DetectedClasses: []string{labels.Person, labels.Hardhat, labels.SafetyVest},
			IsCompliant:     true,
			SafetyStatus:    "compliant",
			ConfidenceScores: map[string]float64{
				labels.Person:     0.97,
				labels.Hardhat:    0.91,
				labels.SafetyVest: 0.88,
			},
		},
		{
			DetectedClasses: []string{labels.Person, labels.NoHardhat, labels.SafetyVest},
			IsCompliant:     false,
			SafetyStatus:    "violation",
			ViolationType:   &missingHardhat,
			ConfidenceScores: map[string]float64{
				labels.Person:     0.95,
				labels.NoHardhat:  0.82,
				labels.SafetyVest: 0.86,
			},
		},
		{
			DetectedClasses: []string{labels.Person, labels.Hardhat, labels.NoSafetyVest},
			IsCompliant:     false,
			SafetyStatus:    "violation",
			ViolationType:   &missingVest,
			ConfidenceScores: map[string]float64{
				labels.Person:       0.94,
				labels.Hardhat:      0.89,
				labels.NoSafetyVest: 0.79,
			},
		},
		{
			IsCompliant:  true,
			SafetyStatus: "no person in frame",
		},
	}
}

// Server speaks the detection-stream protocol over websocket for any
// camera id, for local development without the real backend.
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader
	labels   models.LabelSet
}

func NewServer(cfg Config, labels models.LabelSet) *Server {
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = "/ws/monitor"
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 2
	}
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		labels: labels,
	}
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.PathPrefix+"/", s.handleStream)

	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Infof("simulator: listening on %s%s/{camera_id}", s.cfg.Addr, s.cfg.PathPrefix)
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	cameraID := strings.TrimPrefix(r.URL.Path, s.cfg.PathPrefix+"/")
	if cameraID == "" {
		http.Error(w, "missing camera id", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	logger.Infof("simulator: stream opened for camera %s", cameraID)
	defer logger.Infof("simulator: stream closed for camera %s", cameraID)

	_ = conn.WriteJSON(message{
		Type:    "status",
		Message: "simulated stream for camera " + cameraID,
	})

	scenarios := Scenarios(s.labels)
	interval := time.Duration(float64(time.Second) / s.cfg.Rate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	frameCount := 0
	for range ticker.C {
		results := scenarios[(frameCount/framesPerScenario)%len(scenarios)]
		msg := message{
			Type:    "frame",
			Frame:   base64.StdEncoding.EncodeToString(syntheticFrame(frameCount)),
			Results: &results,
		}
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
		frameCount++
	}
}

// syntheticFrame renders a small PNG whose shade varies per frame, so
// a viewer can tell frames apart.
func syntheticFrame(n int) []byte {
	const width, height = 64, 48
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	shade := uint8(40 + (n*16)%160)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: shade, G: shade, B: shade + 40, A: 255})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
