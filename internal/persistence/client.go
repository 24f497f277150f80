package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ppe-monitor/internal/models"
)

type Client struct {
	config models.PersistenceConfig
	client *http.Client
}

func NewClient(cfg models.PersistenceConfig) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type saveResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// SaveDetection submits one detection record and returns the backend's
// success message.
func (c *Client) SaveDetection(record models.DetectionRecord) (string, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal detection record: %w", err)
	}

	url := fmt.Sprintf("%s/api/detections", c.config.URL)
	resp, err := c.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("save detection: %w", err)
	}
	defer resp.Body.Close()

	var parsed saveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil && resp.StatusCode == http.StatusOK {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		reason := parsed.Detail
		if reason == "" {
			reason = resp.Status
		}
		return "", fmt.Errorf("save detection rejected: %s", reason)
	}

	if parsed.Message == "" {
		parsed.Message = "detection saved"
	}
	return parsed.Message, nil
}
