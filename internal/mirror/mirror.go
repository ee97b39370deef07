// Package mirror streams composited frames to viewers on the local network.
// Each viewer only ever receives the newest frame; a slow viewer skips frames
// and never holds up the drawing engine.
package mirror

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	xdraw "golang.org/x/image/draw"
)

const writeWait = 5 * time.Second

type Options struct {
	// MaxWidth downscales wider frames before they are sent. Zero disables scaling.
	MaxWidth int
	Logger   *slog.Logger
}

// Server receives frames as an engine presenter and fans them out over websockets.
type Server struct {
	log      *slog.Logger
	maxWidth int
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	latest atomic.Pointer[image.NRGBA]
	wake   chan struct{}

	mu      sync.RWMutex
	viewers map[*viewer]struct{}
	encoded []byte
}

func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		log:      log.With("component", "mirror"),
		maxWidth: opts.MaxWidth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		mux:     http.NewServeMux(),
		wake:    make(chan struct{}, 1),
		viewers: make(map[*viewer]struct{}),
	}
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/ws", s.handleWS)
	s.mux.HandleFunc("/frame.png", s.handleFrame)
	return s
}

// Present stores the frame and wakes the encoder. It never blocks.
func (s *Server) Present(frame *image.NRGBA) {
	s.latest.Store(frame)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run encodes presented frames and sends them to the viewers until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return ctx.Err()
		case <-s.wake:
			frame := s.latest.Load()
			if frame == nil {
				continue
			}
			data, err := s.encode(frame)
			if err != nil {
				s.log.Error("encode frame", "err", err)
				continue
			}
			s.broadcast(data)
		}
	}
}

// Viewers is the number of connected viewers.
func (s *Server) Viewers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.viewers)
}

func (s *Server) encode(frame *image.NRGBA) ([]byte, error) {
	var img image.Image = frame
	if b := frame.Bounds(); s.maxWidth > 0 && b.Dx() > s.maxWidth {
		h := b.Dy() * s.maxWidth / b.Dx()
		if h < 1 {
			h = 1
		}
		dst := image.NewNRGBA(image.Rect(0, 0, s.maxWidth, h))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), frame, b, xdraw.Src, nil)
		img = dst
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Server) broadcast(data []byte) {
	s.mu.Lock()
	s.encoded = data
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for v := range s.viewers {
		v.offer(data)
	}
}

func (s *Server) add(v *viewer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewers[v] = struct{}{}
	if s.encoded != nil {
		v.offer(s.encoded)
	}
	s.log.Info("viewer connected", "addr", v.addr, "viewers", len(s.viewers))
}

func (s *Server) remove(v *viewer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.viewers[v]; !ok {
		return
	}
	delete(s.viewers, v)
	close(v.send)
	s.log.Info("viewer disconnected", "addr", v.addr, "viewers", len(s.viewers))
}

func (s *Server) closeAll() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for v := range s.viewers {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "mirror stopped")
		_ = v.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		_ = v.conn.Close()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "addr", r.RemoteAddr, "err", err)
		return
	}
	v := &viewer{conn: conn, addr: r.RemoteAddr, send: make(chan []byte, 1)}
	s.add(v)
	go v.writeLoop()

	// Viewers only listen; reading surfaces the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.remove(v)
	_ = conn.Close()
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	data := s.encoded
	s.mu.RUnlock()
	if data == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!doctype html>
<html><head><title>SketchBoard</title></head>
<body style="margin:0;background:#fff">
<img id="frame" alt="">
<script>
const img = document.getElementById("frame");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.binaryType = "blob";
ws.onmessage = (ev) => {
  const url = URL.createObjectURL(ev.data);
  img.onload = () => URL.revokeObjectURL(url);
  img.src = url;
};
</script>
</body></html>
`
