// internal/httpserver/ws.go
//
// Observer stream over websocket.
//   - Server → client: a "connected" greeting, then every arena event as
//     {"type": ..., "data": ...}.
//   - Client → server: {"type":"start_game"} starts a match,
//     {"type":"log_event","message":...} writes a debug log line.
//
// One writer goroutine owns the connection for writes; the read loop only
// parses commands and hands replies to the writer.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-arena/internal/events"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsMaxMessage = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin policy is handled by CLIENT_ORIGIN on the HTTP side.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsCommand is a client → server message.
type wsCommand struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// handleWS upgrades the request and streams events until either side closes.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	sub, cancel := s.deps.Broker.Subscribe(events.DefaultBuffer)
	defer cancel()

	s.deps.Metrics.Observers.Inc()
	defer s.deps.Metrics.Observers.Dec()
	log.Info().Str("remote", r.RemoteAddr).Msg("observer connected")

	if !writeEvent(conn, events.Connected{Status: "Connected to Wordle arena"}) {
		return
	}

	// Replies to this client only (command errors).
	direct := make(chan events.Event, 4)

	readDone := make(chan struct{})
	go s.readCommands(conn, direct, readDone)

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-readDone:
			log.Info().Str("remote", r.RemoteAddr).Msg("observer disconnected")
			return
		case e := <-direct:
			if !writeEvent(conn, e) {
				return
			}
		case e, ok := <-sub:
			if !ok {
				return
			}
			if !writeEvent(conn, e) {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readCommands handles client messages until the connection fails.
func (s *Server) readCommands(conn *websocket.Conn, direct chan<- events.Event, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(wsMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("websocket read")
			}
			return
		}
		var cmd wsCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			reply(direct, events.Failure{Message: "invalid message"})
			continue
		}
		switch cmd.Type {
		case "start_game":
			// Success and failure are both broadcast by the arena.
			if _, err := s.deps.Arena.Start(); err != nil {
				log.Warn().Err(err).Msg("start_game")
			}
		case "log_event":
			logFrontend(cmd.Message)
		default:
			reply(direct, events.Failure{Message: "unknown command: " + cmd.Type})
		}
	}
}

// reply queues e for this client, dropping it if the queue is full.
func reply(direct chan<- events.Event, e events.Event) {
	select {
	case direct <- e:
	default:
	}
}

func writeEvent(conn *websocket.Conn, e events.Event) bool {
	payload, err := events.Marshal(e)
	if err != nil {
		log.Error().Err(err).Str("event", string(e.Kind())).Msg("marshal event")
		return true
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Debug().Err(err).Msg("websocket write")
		return false
	}
	return true
}
