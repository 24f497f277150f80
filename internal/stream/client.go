package stream

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"

	"ppe-monitor/internal/logger"
	"ppe-monitor/internal/models"

	"github.com/gorilla/websocket"
)

// wireMessage mirrors the detection backend's JSON protocol. Frame and
// results may arrive together or frame-only.
type wireMessage struct {
	Type    string                  `json:"type"`
	Frame   string                  `json:"frame,omitempty"`
	Results *models.DetectionResult `json:"results,omitempty"`
	Message string                  `json:"message,omitempty"`
}

const (
	msgFrame  = "frame"
	msgStatus = "status"
	msgError  = "error"
)

// Conn is one live detection stream. Events closes when the underlying
// connection drops; Err then reports why (nil after a local Close).
type Conn struct {
	ws     *websocket.Conn
	events chan Event
	err    error
}

// Dialer opens detection streams keyed by camera identity.
type Dialer struct {
	cfg models.StreamConfig
}

func NewDialer(cfg models.StreamConfig) *Dialer {
	return &Dialer{cfg: cfg}
}

// Dial connects to the camera's stream endpoint. The scheme follows
// the deployment's own scheme (wss behind TLS, ws otherwise).
func (d *Dialer) Dial(cameraID string) (*Conn, error) {
	scheme := "ws"
	if d.cfg.TLS {
		scheme = "wss"
	}
	u := url.URL{
		Scheme: scheme,
		Host:   d.cfg.Host,
		Path:   d.cfg.PathPrefix + "/" + cameraID,
	}

	ws, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}

	conn := &Conn{
		ws:     ws,
		events: make(chan Event, 16),
	}
	go conn.readLoop()
	return conn, nil
}

// Events returns the inbound event channel. It is closed when the
// connection ends, for any reason.
func (c *Conn) Events() <-chan Event {
	return c.events
}

// Err reports the terminal read error, if any. Only meaningful after
// Events has closed.
func (c *Conn) Err() error {
	return c.err
}

// Close tears down the connection. The read loop notices the closed
// socket and closes the event channel.
func (c *Conn) Close() error {
	return c.ws.Close()
}

func (c *Conn) readLoop() {
	defer close(c.events)
	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if !isExpectedClose(err) {
				c.err = err
			}
			return
		}

		event, ok := decodeMessage(payload)
		if !ok {
			continue
		}
		c.events <- event
	}
}

// isExpectedClose separates deliberate shutdown (a close handshake or
// our own Close call) from a genuine transport failure.
func isExpectedClose(err error) bool {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return true
	}
	return errors.Is(err, net.ErrClosed)
}

// decodeMessage maps one wire message to an Event. Malformed payloads
// are dropped without ending the stream.
func decodeMessage(payload []byte) (Event, bool) {
	var msg wireMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		logger.Debugf("stream: dropping undecodable message: %v", err)
		return nil, false
	}

	switch msg.Type {
	case msgFrame:
		image, err := base64.StdEncoding.DecodeString(msg.Frame)
		if err != nil {
			logger.Debugf("stream: dropping frame with bad image encoding: %v", err)
			return nil, false
		}
		return FrameEvent{Image: image, Results: msg.Results}, true
	case msgStatus:
		return StatusEvent{Message: msg.Message}, true
	case msgError:
		return NoticeEvent{Message: msg.Message}, true
	default:
		logger.Debugf("stream: ignoring message type %q", msg.Type)
		return nil, false
	}
}
