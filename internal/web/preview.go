package web

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"ledscroller/internal/matrix"
)

const previewWriteWait = 10 * time.Second

// previewHeader is the first message on a preview connection, telling the
// client how to interpret the binary frames that follow.
type previewHeader struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// handlePreview upgrades to WebSocket and streams row-major RGB frames as
// binary messages. Frames are tapped before wiring reorder, so the preview
// always shows the logical image regardless of the serpentine flag.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: preview upgrade: %v", err)
		return
	}
	defer conn.Close()

	frames, unsubscribe := s.ctrl.Preview().Subscribe()
	defer unsubscribe()

	conn.SetWriteDeadline(time.Now().Add(previewWriteWait))
	if err := conn.WriteJSON(previewHeader{Width: matrix.Width, Height: matrix.Height}); err != nil {
		return
	}

	// Read pump: the client sends nothing meaningful, but reading is how
	// close frames surface.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(previewWriteWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return
			}
		}
	}
}
