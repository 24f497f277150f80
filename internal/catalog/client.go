package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ppe-monitor/internal/models"

	"github.com/samber/lo"
)

// ErrCatalogUnavailable marks a failed catalog fetch. Callers treat
// the catalog as empty rather than failing the whole client.
var ErrCatalogUnavailable = errors.New("camera catalog unavailable")

type Client struct {
	config models.CatalogConfig
	client *http.Client
}

func NewClient(cfg models.CatalogConfig) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ListActiveCameras fetches the camera catalog and keeps only cameras
// in the active operational state. Loaded on demand, never cached.
func (c *Client) ListActiveCameras() ([]models.Camera, error) {
	url := fmt.Sprintf("%s/api/cameras", c.config.URL)

	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: catalog returned status %d", ErrCatalogUnavailable, resp.StatusCode)
	}

	var cameras []models.Camera
	if err := json.NewDecoder(resp.Body).Decode(&cameras); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrCatalogUnavailable, err)
	}

	return lo.Filter(cameras, func(cam models.Camera, _ int) bool {
		return cam.Status == models.CameraActive
	}), nil
}
