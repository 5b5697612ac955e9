package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/authentiq/portal/internal/notify"
)

// WebSocket message types for the visit stream
const (
	// Client -> Server messages
	MsgTypePing = "ping"

	// Server -> Client messages
	MsgTypeConnected    = "connected"
	MsgTypeNotification = "notification"
	MsgTypeState        = "state"
	MsgTypePong         = "pong"
	MsgTypeError        = "error"
)

// WebSocket message structure
type WSMessage struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// WebSocket error response
type WSErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

const (
	wsWriteTimeout = 10 * time.Second
	wsEventBuffer  = 32
)

// StreamHandlerImpl streams visit events to the page
type StreamHandlerImpl struct {
	visits   VisitManager
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewStreamHandler creates a new WebSocket stream handler
func NewStreamHandler(visits VisitManager, logger *slog.Logger) StreamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamHandlerImpl{
		visits: visits,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
		},
		log: logger.With("component", "api.ws"),
	}
}

// HandleVisitStream upgrades the connection and forwards the visit's
// notifications and desk state changes until either side goes away.
func (wsh *StreamHandlerImpl) HandleVisitStream(c echo.Context) error {
	id := c.Param("visitId")
	visit, ok := wsh.visits.GetVisit(id)
	if !ok {
		return NewNotFoundError("visit", id)
	}

	ws, err := wsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	events, cancel := visit.Feed.Subscribe(wsEventBuffer)
	defer cancel()

	log := wsh.log.With("visit", id[:min(8, len(id))])
	log.Debug("client connected")

	snap, err := wsh.visits.Snapshot(id)
	if err != nil {
		// Visit ended between lookup and upgrade.
		wsh.sendError(ws, id, "visit ended", "NOT_FOUND")
		return nil
	}
	if err := wsh.send(ws, MsgTypeConnected, id, snap); err != nil {
		return nil
	}

	// Only this goroutine writes; the reader hands pings over.
	pings := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg WSMessage
			if err := ws.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn("connection error", "error", err)
				}
				return
			}
			wsh.visits.TouchVisit(id)
			if msg.Type == MsgTypePing {
				select {
				case pings <- struct{}{}:
				default:
				}
			}
		}
	}()

	for {
		select {
		case <-done:
			log.Debug("client disconnected")
			return nil
		case <-pings:
			if err := wsh.send(ws, MsgTypePong, "", nil); err != nil {
				return nil
			}
		case ev, open := <-events:
			if !open {
				// Visit ended.
				ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "visit ended"),
					time.Now().Add(wsWriteTimeout))
				return nil
			}
			if err := wsh.sendEvent(ws, ev); err != nil {
				return nil
			}
		}
	}
}

func (wsh *StreamHandlerImpl) sendEvent(ws *websocket.Conn, ev notify.Event) error {
	switch ev.Type {
	case notify.EventNotification:
		return wsh.send(ws, MsgTypeNotification, "", ev.Notification)
	case notify.EventState:
		return wsh.send(ws, MsgTypeState, "", map[string]string{"state": string(ev.State)})
	default:
		return nil
	}
}

func (wsh *StreamHandlerImpl) send(ws *websocket.Conn, msgType, id string, payload interface{}) error {
	msg := WSMessage{
		Type:      msgType,
		ID:        id,
		Timestamp: time.Now().UnixMilli(),
	}
	if payload != nil {
		msg.Payload = mustJSON(payload)
	}
	ws.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return ws.WriteJSON(msg)
}

func (wsh *StreamHandlerImpl) sendError(ws *websocket.Conn, id, message, code string) error {
	return wsh.send(ws, MsgTypeError, id, WSErrorResponse{Message: message, Code: code})
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
