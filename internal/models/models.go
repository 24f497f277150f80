package models

import "strings"

// Config defines the user settings
type Config struct {
	LogLevel    string            `yaml:"log_level" env:"LOG_LEVEL"`
	Camera      string            `yaml:"camera" env:"MONITOR_CAMERA"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Stream      StreamConfig      `yaml:"stream"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Labels      LabelSet          `yaml:"labels"`
}

type CatalogConfig struct {
	URL string `yaml:"url" env:"CATALOG_URL"`
}

type StreamConfig struct {
	Host       string `yaml:"host" env:"STREAM_HOST"`
	PathPrefix string `yaml:"path_prefix" env:"STREAM_PATH_PREFIX"`
	TLS        bool   `yaml:"tls" env:"STREAM_TLS"`
}

type PersistenceConfig struct {
	URL string `yaml:"url" env:"PERSISTENCE_URL"`
}

// LabelSet is the PPE class vocabulary the detection backend emits.
// Kept configurable because the upstream model's label names are not
// under this client's control.
type LabelSet struct {
	Person       string `yaml:"person"`
	Hardhat      string `yaml:"hardhat"`
	NoHardhat    string `yaml:"no_hardhat"`
	SafetyVest   string `yaml:"safety_vest"`
	NoSafetyVest string `yaml:"no_safety_vest"`
}

// DefaultLabels returns the vocabulary observed from the stock model.
func DefaultLabels() LabelSet {
	return LabelSet{
		Person:       "person",
		Hardhat:      "hardhat",
		NoHardhat:    "no-hardhat",
		SafetyVest:   "safety-vest",
		NoSafetyVest: "no-safety-vest",
	}
}

// Camera is one entry from the camera-management collaborator.
type Camera struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Status   string `json:"status"` // "active", "inactive" or "maintenance"
}

const CameraActive = "active"

// DetectionResult is the latest inference output for the current frame.
// Produced by the remote stream and never mutated here.
type DetectionResult struct {
	DetectedClasses  []string           `json:"detected_classes"`
	IsCompliant      bool               `json:"is_compliant"`
	SafetyStatus     string             `json:"safety_status"`
	ViolationType    *string            `json:"violation_type"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
}

// NeutralResult is the placeholder used when no inference has been
// received yet: compliant, no classes, only a status line.
func NeutralResult(status string) DetectionResult {
	return DetectionResult{
		IsCompliant:  true,
		SafetyStatus: status,
	}
}

// HasClass reports whether label appears in DetectedClasses, compared
// case-insensitively on the exact label.
func (r DetectionResult) HasClass(label string) bool {
	for _, c := range r.DetectedClasses {
		if strings.EqualFold(c, label) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Commit snapshots rely on this so that
// later stream events cannot alter an in-flight request.
func (r DetectionResult) Clone() DetectionResult {
	out := r
	if r.DetectedClasses != nil {
		out.DetectedClasses = append([]string(nil), r.DetectedClasses...)
	}
	if r.ConfidenceScores != nil {
		out.ConfidenceScores = make(map[string]float64, len(r.ConfidenceScores))
		for k, v := range r.ConfidenceScores {
			out.ConfidenceScores[k] = v
		}
	}
	if r.ViolationType != nil {
		v := *r.ViolationType
		out.ViolationType = &v
	}
	return out
}

// DetectionRecord is the persistence request body: a point-in-time
// copy of one DetectionResult reduced to the dashboard's schema.
type DetectionRecord struct {
	RequestID            string             `json:"client_request_id"`
	CameraID             string             `json:"camera_id"`
	PersonDetected       bool               `json:"person_detected"`
	HardhatDetected      bool               `json:"hardhat_detected"`
	NoHardhatDetected    bool               `json:"no_hardhat_detected"`
	SafetyVestDetected   bool               `json:"safety_vest_detected"`
	NoSafetyVestDetected bool               `json:"no_safety_vest_detected"`
	IsCompliant          bool               `json:"is_compliant"`
	ViolationType        *string            `json:"violation_type"`
	ConfidenceScores     map[string]float64 `json:"confidence_scores"`
}

// NewDetectionRecord maps a DetectionResult onto the persistence
// schema using the configured label vocabulary.
func NewDetectionRecord(requestID, cameraID string, result DetectionResult, labels LabelSet) DetectionRecord {
	return DetectionRecord{
		RequestID:            requestID,
		CameraID:             cameraID,
		PersonDetected:       result.HasClass(labels.Person),
		HardhatDetected:      result.HasClass(labels.Hardhat),
		NoHardhatDetected:    result.HasClass(labels.NoHardhat),
		SafetyVestDetected:   result.HasClass(labels.SafetyVest),
		NoSafetyVestDetected: result.HasClass(labels.NoSafetyVest),
		IsCompliant:          result.IsCompliant,
		ViolationType:        result.ViolationType,
		ConfidenceScores:     result.ConfidenceScores,
	}
}
