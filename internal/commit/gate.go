package commit

import (
	"errors"
	"sync"
	"time"

	"ppe-monitor/internal/logger"
	"ppe-monitor/internal/models"
	"ppe-monitor/internal/session"

	"github.com/google/uuid"
)

var (
	// ErrUnavailable means the gate is closed: no streaming session
	// with at least one detected class. No request is built.
	ErrUnavailable = errors.New("commit unavailable: no detections in a streaming session")

	// ErrInFlight means a previous commit has not completed yet.
	ErrInFlight = errors.New("commit already in flight")
)

// Snapshotter produces point-in-time copies of the live session state.
// Satisfied by *session.Controller.
type Snapshotter interface {
	Snapshot() (session.Snapshot, bool)
}

// Saver is the narrow save-one-detection persistence call.
type Saver interface {
	SaveDetection(record models.DetectionRecord) (string, error)
}

// Outcome records how the most recent commit ended. It is transient
// operator feedback and never feeds back into session state.
type Outcome struct {
	RequestID string
	CameraID  string
	Message   string
	Err       error
	At        time.Time
}

// Gate guards the operator-triggered persistence of one detection
// result. Commits run in the background so the live stream is never
// paused, and only one may be outstanding at a time.
type Gate struct {
	source Snapshotter
	saver  Saver
	labels models.LabelSet

	mu       sync.Mutex
	inFlight bool
	last     *Outcome
	pending  sync.WaitGroup
}

func NewGate(source Snapshotter, saver Saver, labels models.LabelSet) *Gate {
	return &Gate{
		source: source,
		saver:  saver,
		labels: labels,
	}
}

// TryCommit snapshots the current detection result and submits it in
// the background. The snapshot is taken at invocation time, so stream
// events arriving while the request is in flight cannot alter what was
// submitted. Returns the request id, or ErrUnavailable/ErrInFlight
// without issuing any network call.
func (g *Gate) TryCommit() (string, error) {
	snapshot, ok := g.source.Snapshot()
	if !ok {
		return "", ErrUnavailable
	}

	g.mu.Lock()
	if g.inFlight {
		g.mu.Unlock()
		return "", ErrInFlight
	}
	g.inFlight = true
	g.pending.Add(1)
	g.mu.Unlock()

	requestID := uuid.NewString()
	record := models.NewDetectionRecord(requestID, snapshot.Camera.ID, snapshot.Result, g.labels)
	logger.Infof("commit %s: submitting detections for camera %s", requestID, snapshot.Camera.ID)

	go g.send(requestID, record)
	return requestID, nil
}

func (g *Gate) send(requestID string, record models.DetectionRecord) {
	defer g.pending.Done()

	message, err := g.saver.SaveDetection(record)
	if err != nil {
		logger.Errorf("commit %s: %v", requestID, err)
	} else {
		logger.Infof("commit %s: %s", requestID, message)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.inFlight = false
	g.last = &Outcome{
		RequestID: requestID,
		CameraID:  record.CameraID,
		Message:   message,
		Err:       err,
		At:        time.Now(),
	}
}

// LastOutcome returns the most recent commit outcome, or nil if none
// has completed yet.
func (g *Gate) LastOutcome() *Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last == nil {
		return nil
	}
	out := *g.last
	return &out
}

func (g *Gate) InFlight() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight
}

// Wait blocks until no commit is outstanding. An issued commit is
// never cancelled; it runs to completion or failure.
func (g *Gate) Wait() {
	g.pending.Wait()
}
