package mirror

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func start(t *testing.T, opts Options) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(opts)
	srv := httptest.NewServer(s)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		srv.Close()
	})
	return s, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) image.Image {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	kind, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, kind)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestViewerReceivesFrames(t *testing.T) {
	s, srv := start(t, Options{})
	conn := dial(t, srv)
	require.Eventually(t, func() bool { return s.Viewers() == 1 }, 5*time.Second, 10*time.Millisecond)

	red := color.NRGBA{R: 0xff, A: 0xff}
	s.Present(solid(8, 6, red))
	img := readFrame(t, conn)
	assert.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())
	assert.Equal(t, red, color.NRGBAModel.Convert(img.At(3, 3)))
}

func TestLateViewerGetsLatestFrame(t *testing.T) {
	s, srv := start(t, Options{})
	s.Present(solid(4, 4, color.NRGBA{B: 0xff, A: 0xff}))
	require.Eventually(t, func() bool {
		resp, err := http.Get(srv.URL + "/frame.png")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)

	conn := dial(t, srv)
	img := readFrame(t, conn)
	assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
}

func TestFrameEndpointBeforeFirstFrame(t *testing.T) {
	_, srv := start(t, Options{})
	resp, err := http.Get(srv.URL + "/frame.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp2.Body.Close()
	body, err := io.ReadAll(resp2.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/ws")
}

func TestFramesAreDownscaled(t *testing.T) {
	s := NewServer(Options{MaxWidth: 50})
	data, err := s.encode(solid(200, 100, color.NRGBA{G: 0xff, A: 0xff}))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 50, 25), img.Bounds())

	data, err = s.encode(solid(40, 10, color.NRGBA{A: 0xff}))
	require.NoError(t, err)
	img, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 10), img.Bounds(), "narrow frames are sent as is")
}

func TestOfferKeepsNewest(t *testing.T) {
	v := &viewer{send: make(chan []byte, 1)}
	v.offer([]byte("one"))
	v.offer([]byte("two"))
	v.offer([]byte("three"))
	assert.Equal(t, []byte("three"), <-v.send)
	select {
	case extra := <-v.send:
		t.Fatalf("unexpected queued frame %q", extra)
	default:
	}
}

func TestViewerDisconnect(t *testing.T) {
	s, srv := start(t, Options{})
	conn := dial(t, srv)
	require.Eventually(t, func() bool { return s.Viewers() == 1 }, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return s.Viewers() == 0 }, 5*time.Second, 10*time.Millisecond)
}
