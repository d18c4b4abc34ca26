package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hpungsan/floorplan/internal/floorplan"
	"github.com/hpungsan/floorplan/internal/geometry"
	"github.com/hpungsan/floorplan/internal/tools"
)

const (
	wsMaxPayloadBytes = 1 << 16
	wsPongWait        = 60 * time.Second
	wsPingInterval    = 45 * time.Second
	wsWriteWait       = 10 * time.Second
	wsSendBuffer      = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  8192,
	WriteBufferSize: 8192,
}

// clientFrame is a pointer or toolbar event from the canvas.
type clientFrame struct {
	Type      string  `json:"type"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Mode      string  `json:"mode,omitempty"`
	Furniture string  `json:"furniture,omitempty"`
	Scale     float64 `json:"scale,omitempty"`
}

// serverFrame is pushed to the canvas.
type serverFrame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type modePayload struct {
	Mode         tools.Mode         `json:"mode"`
	State        string             `json:"state"`
	Presentation tools.Presentation `json:"presentation"`
}

type previewPayload struct {
	Phase string          `json:"phase"`
	Start *geometry.Point `json:"start,omitempty"`
	End   *geometry.Point `json:"end,omitempty"`
}

// gestureSession binds one websocket to one tool machine.
type gestureSession struct {
	id      string
	conn    *websocket.Conn
	machine *tools.Machine
	logger  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

// HandleGestures handles GET /ws: the canvas gesture stream.
//
// Every connection gets its own tool machine. Document changes from any
// source are pushed to every connection as snapshot frames.
func (h *Handlers) HandleGestures(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	s := &gestureSession{
		id:     uuid.NewString(),
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
		send:   make(chan []byte, wsSendBuffer),
	}
	s.logger = h.logger.With(zap.String("session_id", s.id))
	s.machine = tools.NewMachine(h.editor, &wsPreview{session: s}, tools.OptionsFromConfig(h.cfg), s.logger)

	unsubscribe := h.editor.OnChange(func(doc *floorplan.Floorplan) {
		s.push("snapshot", doc)
	})

	s.logger.Debug("gesture session opened")
	s.push("snapshot", h.editor.Snapshot())
	s.pushMode()

	s.run(unsubscribe)
	s.logger.Debug("gesture session closed")
}

func (s *gestureSession) run(unsubscribe func()) {
	defer s.close()
	defer unsubscribe()
	go s.writeLoop()
	s.readLoop()
}

func (s *gestureSession) close() {
	s.cancel()
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
	s.mu.Unlock()
	_ = s.conn.Close()
}

func (s *gestureSession) readLoop() {
	s.conn.SetReadLimit(wsMaxPayloadBytes)
	_ = s.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.pushError("invalid_frame", err.Error())
			continue
		}
		if err := s.handle(frame); err != nil {
			s.pushError("request_failed", err.Error())
		}
	}
}

func (s *gestureSession) writeLoop() {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case msg, ok := <-s.send:
			if !ok {
				return
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *gestureSession) handle(f clientFrame) error {
	p := geometry.Point{X: f.X, Y: f.Y}

	switch f.Type {
	case "mode":
		mode, ok := tools.ParseMode(f.Mode)
		if !ok {
			return fmt.Errorf("unknown mode %q", f.Mode)
		}
		s.machine.SetMode(mode)
		s.pushMode()
	case "furniture":
		s.machine.SetFurnitureType(f.Furniture)
	case "scale":
		if f.Scale <= 0 {
			return fmt.Errorf("scale must be positive")
		}
		s.machine.SetScale(f.Scale)
	case "press":
		s.pushOutcome(s.machine.Press(p))
		s.pushMode()
	case "move":
		s.machine.Move(p)
	case "release":
		s.pushOutcome(s.machine.Release(p))
		s.pushMode()
	default:
		return fmt.Errorf("unsupported frame type %q", f.Type)
	}
	return nil
}

func (s *gestureSession) pushMode() {
	mode := s.machine.Mode()
	s.push("mode", modePayload{
		Mode:         mode,
		State:        s.machine.State().String(),
		Presentation: mode.Presentation(),
	})
}

func (s *gestureSession) pushOutcome(o tools.Outcome) {
	if o.ElementID == "" && o.Measurement == nil {
		return
	}
	s.push("outcome", o)
}

func (s *gestureSession) pushError(code, message string) {
	s.push("error", map[string]string{"code": code, "message": message})
}

// push drops the frame when the session is closed or the client is too slow.
func (s *gestureSession) push(frameType string, payload any) {
	data, err := json.Marshal(serverFrame{Type: frameType, Payload: payload})
	if err != nil {
		s.logger.Error("encode frame", zap.String("type", frameType), zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.send <- data:
	default:
		s.logger.Warn("send buffer full, dropping frame", zap.String("type", frameType))
	}
}

// wsPreview forwards the machine's transient overlay to the client.
type wsPreview struct {
	session *gestureSession
}

func (p *wsPreview) Begin(start geometry.Point) {
	p.session.push("preview", previewPayload{Phase: "begin", Start: &start})
}

func (p *wsPreview) Update(start, end geometry.Point) {
	p.session.push("preview", previewPayload{Phase: "update", Start: &start, End: &end})
}

func (p *wsPreview) Cancel() { p.session.push("preview", previewPayload{Phase: "cancel"}) }
func (p *wsPreview) Commit() { p.session.push("preview", previewPayload{Phase: "commit"}) }
