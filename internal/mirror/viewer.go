package mirror

import (
	"time"

	"github.com/gorilla/websocket"
)

type viewer struct {
	conn *websocket.Conn
	addr string
	send chan []byte
}

// offer queues data, replacing a frame the viewer has not taken yet.
// The caller holds the server lock, so send is open.
func (v *viewer) offer(data []byte) {
	for {
		select {
		case v.send <- data:
			return
		default:
		}
		select {
		case <-v.send:
		default:
		}
	}
}

func (v *viewer) writeLoop() {
	defer v.conn.Close()
	for data := range v.send {
		_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := v.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			return
		}
	}
}
