package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/targoons/rnb-helper/internal/planner"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleStream auto-plays a session over a websocket, sending one message
// per simulated node and a final "done" message before closing.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id, tree, ok := s.loadTree(w, r)
	if !ok {
		return
	}
	turns := planner.DefaultAutoPlayTurns
	if q := r.URL.Query().Get("turns"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "turns must be a positive integer")
			return
		}
		turns = n
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger().Printf("stream %s: upgrade failed: %v", id, err)
		return
	}
	defer conn.Close()

	code, reason := websocket.CloseNormalClosure, "done"
	for i := 0; i < turns; i++ {
		node, err := tree.Step()
		if errors.Is(err, planner.ErrBattleOver) {
			break
		}
		if err != nil {
			_ = s.send(conn, StreamMessage{Type: "error", Error: err.Error()})
			code, reason = websocket.CloseInternalServerErr, "step failed"
			break
		}
		if err := s.send(conn, StreamMessage{Type: "node", Node: &node}); err != nil {
			s.logger().Printf("stream %s: write failed: %v", id, err)
			return
		}
	}
	if code == websocket.CloseNormalClosure {
		if err := s.send(conn, StreamMessage{Type: "done"}); err != nil {
			s.logger().Printf("stream %s: write failed: %v", id, err)
			return
		}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
}

func (s *Server) send(conn *websocket.Conn, msg StreamMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
