package session

import (
	"sync"
	"time"

	"ppe-monitor/internal/logger"
	"ppe-monitor/internal/models"
	"ppe-monitor/internal/stream"

	"github.com/google/uuid"
)

type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateStreaming  State = "streaming"
	StateErrored    State = "errored"
	StateStopped    State = "stopped"
)

// Conn is the slice of the stream transport the controller needs.
type Conn interface {
	Events() <-chan stream.Event
	Err() error
	Close() error
}

// Dialer opens one detection stream per camera identity.
type Dialer interface {
	Dial(cameraID string) (Conn, error)
}

// DialerFunc adapts a dial function to the Dialer interface.
type DialerFunc func(cameraID string) (Conn, error)

func (f DialerFunc) Dial(cameraID string) (Conn, error) {
	return f(cameraID)
}

// Snapshot is a point-in-time copy of the live state, taken for a
// commit. It shares nothing with the session and is unaffected by
// events that arrive after it was taken.
type Snapshot struct {
	Camera  models.Camera
	Result  models.DetectionResult
	TakenAt time.Time
}

// Controller owns the lifecycle of at most one live session at a time:
// it alone opens and closes the stream transport, and it holds the
// single source of truth for the current frame and detection result.
type Controller struct {
	dialer Dialer

	mu            sync.Mutex
	sessionID     string
	camera        models.Camera
	state         State
	conn          Conn
	stopRequested bool
	frame         []byte
	result        models.DetectionResult
	statusText    string
}

func NewController(dialer Dialer) *Controller {
	return &Controller{
		dialer:     dialer,
		state:      StateIdle,
		result:     models.NeutralResult(""),
		statusText: "idle",
	}
}

// Start opens a session for the given camera. Starting with no camera
// is a no-op. If a session is already connecting or streaming it is
// stopped first; two simultaneous transports are never open.
func (c *Controller) Start(camera models.Camera) error {
	if camera.ID == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		logger.Infof("session: switching camera %s -> %s", c.camera.ID, camera.ID)
		c.stopLocked()
	}

	id := uuid.NewString()
	c.sessionID = id
	c.camera = camera
	c.state = StateConnecting
	c.stopRequested = false
	c.statusText = "connecting"
	logger.Infof("session %s: connecting to camera %s", id, camera.ID)

	conn, err := c.dialer.Dial(camera.ID)
	if err != nil {
		c.statusText = "connection failed: " + err.Error()
		c.state = StateErrored
		logger.Warnf("session %s: %s", id, c.statusText)
		c.state = StateIdle
		c.sessionID = ""
		c.result = models.NeutralResult(c.statusText)
		return err
	}

	c.conn = conn
	c.state = StateStreaming
	c.frame = nil
	c.result = models.NeutralResult("connected, analyzing")
	c.statusText = "connected, analyzing"
	logger.Infof("session %s: streaming from camera %s", id, camera.ID)

	go c.consume(id, conn)
	return nil
}

// Stop ends the current session, if any, closing the transport and
// resetting the live state to its neutral placeholder.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	c.stopRequested = true
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.frame = nil
	c.result = models.NeutralResult("stopped")
	c.statusText = "stopped"
	if c.state != StateIdle {
		logger.Infof("session %s: stopped", c.sessionID)
		c.state = StateStopped
	}
	// Invalidate callbacks from the old session's read loop.
	c.sessionID = ""
}

func (c *Controller) consume(id string, conn Conn) {
	for event := range conn.Events() {
		c.handleEvent(id, event)
	}
	c.connClosed(id, conn.Err())
}

// handleEvent applies one stream event to the live state. Events from
// a superseded session are discarded.
func (c *Controller) handleEvent(id string, event stream.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sessionID != id || c.state != StateStreaming {
		return
	}

	switch ev := event.(type) {
	case stream.FrameEvent:
		// Last write wins; a late frame simply overwrites the
		// displayed one.
		c.frame = ev.Image
		if ev.Results != nil {
			c.result = *ev.Results
		}
	case stream.StatusEvent:
		c.statusText = ev.Message
	case stream.NoticeEvent:
		// In-band problem notice; the connection is still open.
		c.statusText = ev.Message
		logger.Warnf("session %s: backend notice: %s", id, ev.Message)
	}
}

// connClosed runs once the transport's event channel closes. A stop we
// requested lands in Stopped; an unsolicited closure or a transport
// error lands in Idle, ready for a manual restart.
func (c *Controller) connClosed(id string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sessionID != id {
		return
	}
	c.conn = nil
	c.sessionID = ""
	c.frame = nil

	if c.stopRequested {
		return
	}

	if err != nil {
		c.statusText = "connection error: " + err.Error()
		c.state = StateErrored
		logger.Warnf("session %s: %s", id, c.statusText)
	} else {
		c.statusText = "disconnected"
		logger.Infof("session %s: stream closed by remote", id)
	}
	c.state = StateIdle
	c.result = models.NeutralResult(c.statusText)
}

// Snapshot copies the current camera and detection result for a
// commit. It reports false while no session is streaming or the
// result holds no detected classes; no request may be built then.
func (c *Controller) Snapshot() (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateStreaming || len(c.result.DetectedClasses) == 0 {
		return Snapshot{}, false
	}
	return Snapshot{
		Camera:  c.camera,
		Result:  c.result.Clone(),
		TakenAt: time.Now(),
	}, true
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusText
}

// Frame returns the most recently received image payload. Callers must
// treat it as read-only.
func (c *Controller) Frame() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

func (c *Controller) Result() models.DetectionResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result.Clone()
}

func (c *Controller) Camera() models.Camera {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.camera
}
