package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ppe-monitor/internal/catalog"
	"ppe-monitor/internal/commit"
	"ppe-monitor/internal/config"
	"ppe-monitor/internal/logger"
	"ppe-monitor/internal/models"
	"ppe-monitor/internal/persistence"
	"ppe-monitor/internal/session"
	"ppe-monitor/internal/stream"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	cameraFlag := flag.String("camera", "", "Camera id or name to monitor (overrides config)")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("Error loading config: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)
	logger.Infof("Loaded config from %s", *configPath)

	// 2. Load Camera Catalog
	catalogClient := catalog.NewClient(cfg.Catalog)
	cameras, err := catalogClient.ListActiveCameras()
	if err != nil {
		logger.Warnf("%v", err)
	}
	if len(cameras) == 0 {
		logger.Infof("No active cameras available, nothing to monitor")
		return
	}

	// 3. Pick Camera
	preferred := *cameraFlag
	if preferred == "" {
		preferred = cfg.Camera
	}
	camera := pickCamera(cameras, preferred)
	logger.Infof("Monitoring camera %s (%s) at %s", camera.Name, camera.ID, camera.Location)

	// 4. Wire Session Controller and Commit Gate
	dialer := stream.NewDialer(cfg.Stream)
	controller := session.NewController(session.DialerFunc(func(cameraID string) (session.Conn, error) {
		return dialer.Dial(cameraID)
	}))
	gate := commit.NewGate(controller, persistence.NewClient(cfg.Persistence), cfg.Labels)

	// 5. Start Monitoring
	if err := controller.Start(camera); err != nil {
		logger.Fatalf("Failed to start session: %v", err)
	}
	defer controller.Stop()

	// 6. Operator Loop: SIGUSR1 commits the current result,
	//    SIGINT/SIGTERM stops the session and exits.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)

	statusTicker := time.NewTicker(5 * time.Second)
	defer statusTicker.Stop()

	for {
		select {
		case sig := <-sigChan:
			if sig == syscall.SIGUSR1 {
				if _, err := gate.TryCommit(); err != nil {
					logger.Warnf("Commit refused: %v", err)
				}
				continue
			}
			logger.Infof("Received signal %v, shutting down...", sig)
			controller.Stop()
			gate.Wait()
			return
		case <-statusTicker.C:
			result := controller.Result()
			logger.Infof("state=%s status=%q classes=%v compliant=%t",
				controller.State(), controller.Status(), result.DetectedClasses, result.IsCompliant)
		}
	}
}

func pickCamera(cameras []models.Camera, preferred string) models.Camera {
	if preferred != "" {
		for _, cam := range cameras {
			if cam.ID == preferred || cam.Name == preferred {
				return cam
			}
		}
		logger.Warnf("Camera %q not found among active cameras, using default", preferred)
	}
	return cameras[0]
}
