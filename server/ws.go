package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const wsIdlePingInterval = 30 * time.Second

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type wsMovePayload struct {
	Move string `json:"move"`
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &Client{hub: s.hub, send: make(chan []byte, 16)}
	s.hub.Register(client)
	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(s.session.Status())})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			s.log.Debug().Err(err).Msg("websocket write stopped")
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			s.hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(s.session.Status())})
		case "move":
			var payload wsMovePayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				client.sendJSON(errorMessage("invalid payload"))
				continue
			}
			if err := s.session.PlayerMoveUCI(payload.Move); err != nil {
				client.sendJSON(errorMessage(err.Error()))
				continue
			}
			s.session.ScheduleBot(s.botDelay())
		}
	}
}

func errorMessage(text string) wsMessage {
	return wsMessage{Type: "error", Payload: mustMarshal(map[string]string{"error": text})}
}

func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(wsMessage{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
