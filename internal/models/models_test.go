package models

import "testing"

func TestHasClass(t *testing.T) {
	result := DetectionResult{
		DetectedClasses: []string{"Person", "no-hardhat"},
	}

	tests := []struct {
		name  string
		label string
		want  bool
	}{
		{"Case Insensitive Match", "person", true},
		{"Exact Label Match", "no-hardhat", true},
		{"No Substring Match", "hardhat", false},
		{"Absent Label", "safety-vest", false},
		{"Empty Label", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := result.HasClass(tt.label); got != tt.want {
				t.Errorf("HasClass(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	violation := "missing hardhat"
	original := DetectionResult{
		DetectedClasses:  []string{"person", "no-hardhat"},
		IsCompliant:      false,
		ViolationType:    &violation,
		ConfidenceScores: map[string]float64{"person": 0.9},
	}

	clone := original.Clone()

	original.DetectedClasses[0] = "changed"
	original.ConfidenceScores["person"] = 0.1
	*original.ViolationType = "changed"

	if clone.DetectedClasses[0] != "person" {
		t.Errorf("clone classes affected by mutation: %v", clone.DetectedClasses)
	}
	if clone.ConfidenceScores["person"] != 0.9 {
		t.Errorf("clone scores affected by mutation: %v", clone.ConfidenceScores)
	}
	if *clone.ViolationType != "missing hardhat" {
		t.Errorf("clone violation affected by mutation: %v", *clone.ViolationType)
	}
}

func TestNeutralResult(t *testing.T) {
	result := NeutralResult("stopped")

	if !result.IsCompliant {
		t.Error("neutral result must be compliant")
	}
	if len(result.DetectedClasses) != 0 {
		t.Errorf("neutral result must have no classes, got %v", result.DetectedClasses)
	}
	if result.SafetyStatus != "stopped" {
		t.Errorf("unexpected status: %q", result.SafetyStatus)
	}
}

func TestNewDetectionRecord(t *testing.T) {
	violation := "missing hardhat"
	result := DetectionResult{
		DetectedClasses: []string{"person", "no-hardhat"},
		IsCompliant:     false,
		ViolationType:   &violation,
		ConfidenceScores: map[string]float64{
			"person":     0.95,
			"no-hardhat": 0.82,
		},
	}

	record := NewDetectionRecord("req-1", "cam-1", result, DefaultLabels())

	if record.CameraID != "cam-1" || record.RequestID != "req-1" {
		t.Errorf("unexpected identity fields: %+v", record)
	}
	if !record.PersonDetected {
		t.Error("person_detected should be true")
	}
	if !record.NoHardhatDetected {
		t.Error("no_hardhat_detected should be true")
	}
	if record.HardhatDetected {
		t.Error("hardhat_detected should be false")
	}
	if record.SafetyVestDetected || record.NoSafetyVestDetected {
		t.Error("vest flags should be false")
	}
	if record.IsCompliant {
		t.Error("is_compliant should be false")
	}
	if record.ViolationType == nil || *record.ViolationType != "missing hardhat" {
		t.Errorf("unexpected violation type: %v", record.ViolationType)
	}
}
