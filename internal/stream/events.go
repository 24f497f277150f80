package stream

import "ppe-monitor/internal/models"

// Event is the tagged union of messages a detection stream can emit.
// Exactly one concrete type per wire message type, so the session
// controller can dispatch exhaustively instead of branching on raw
// JSON fields.
type Event interface {
	isEvent()
}

// FrameEvent carries a decoded image and, when the backend ran
// inference on it, the accompanying results. Results is nil for
// frame-only messages.
type FrameEvent struct {
	Image   []byte
	Results *models.DetectionResult
}

// StatusEvent carries an informational status line from the backend.
type StatusEvent struct {
	Message string
}

// NoticeEvent is the backend's in-band "error" message. It is a
// problem notice, not a disconnect: the connection stays open and the
// session keeps streaming.
type NoticeEvent struct {
	Message string
}

func (FrameEvent) isEvent()  {}
func (StatusEvent) isEvent() {}
func (NoticeEvent) isEvent() {}
