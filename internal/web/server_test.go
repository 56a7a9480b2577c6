package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"ledscroller/internal/fonts"
	"ledscroller/internal/matrix"
	"ledscroller/internal/scroller"
)

func newTestServer(t *testing.T) (*httptest.Server, *scroller.Controller) {
	t.Helper()
	ctrl := scroller.New(nil)
	t.Cleanup(ctrl.Stop)
	srv := NewServer(testServerConfig(), ctrl, fonts.NewIndex(nil), nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, ctrl
}

func newSink(t *testing.T) (*net.UDPConn, int) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("listening: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, conn.LocalAddr().(*net.UDPAddr).Port
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// TestStartStopRoundTrip checks a full activation through the HTTP surface.
func TestStartStopRoundTrip(t *testing.T) {
	ts, ctrl := newTestServer(t)
	sink, port := newSink(t)

	body := fmt.Sprintf(`{"text":"HI","display_mode":"static","ip":"127.0.0.1","port":%d}`, port)
	resp := postJSON(t, ts.URL+"/start", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /start status = %d, want 200", resp.StatusCode)
	}
	var ok struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ok); err != nil || !ok.OK {
		t.Fatalf("POST /start body decode = %v, ok = %v", err, ok.OK)
	}
	if !ctrl.Running() {
		t.Error("controller not running after /start")
	}

	buf := make([]byte, 65535)
	sink.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := sink.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("no datagram after /start: %v", err)
	}
	if !bytes.HasPrefix(buf[:n], []byte("ST16x64")) {
		t.Errorf("datagram prefix = %q, want magic header", buf[:7])
	}

	resp = postJSON(t, ts.URL+"/stop", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("POST /stop status = %d, want 200", resp.StatusCode)
	}
	if ctrl.Running() {
		t.Error("controller still running after /stop")
	}
}

// TestStartRejects checks malformed and invalid requests come back 400 with
// the error envelope.
func TestStartRejects(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "bad json", body: `{not json`},
		{name: "empty text", body: `{"text":""}`},
		{name: "bad protocol", body: `{"text":"hi","mode":"artnet"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/start", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			var body struct {
				OK    bool   `json:"ok"`
				Error string `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decoding error envelope: %v", err)
			}
			if body.OK || body.Error == "" {
				t.Errorf("envelope = %+v, want ok=false with an error", body)
			}
		})
	}
}

// TestStopIdleOK checks stopping an idle system is a clean 200.
func TestStopIdleOK(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := postJSON(t, ts.URL+"/stop", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("POST /stop status = %d, want 200", resp.StatusCode)
	}
}

// TestListEndpoints checks /fonts, /gradients and /healthz.
func TestListEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/fonts")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /fonts status = %d, want 200", resp.StatusCode)
	}
	var fontsBody struct {
		Fonts []fonts.Entry `json:"fonts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&fontsBody); err != nil {
		t.Errorf("decoding /fonts: %v", err)
	}

	resp, err = http.Get(ts.URL + "/gradients")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var gradBody struct {
		Gradients []string `json:"gradients"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&gradBody); err != nil {
		t.Fatalf("decoding /gradients: %v", err)
	}
	if len(gradBody.Gradients) == 0 || gradBody.Gradients[0] != "rainbow" {
		t.Errorf("gradients = %v, want rainbow first", gradBody.Gradients)
	}

	resp, err = http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /healthz status = %d, want 200", resp.StatusCode)
	}
}

// TestDailyQuoteUnconfigured checks the endpoint 404s when no generator is
// wired.
func TestDailyQuoteUnconfigured(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := postJSON(t, ts.URL+"/daily-quote-start", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("POST /daily-quote-start status = %d, want 404", resp.StatusCode)
	}
}

// TestPreviewStream checks the WebSocket handshake, the geometry header and
// a binary frame from a running activation.
func TestPreviewStream(t *testing.T) {
	ts, _ := newTestServer(t)
	_, port := newSink(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/preview"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing preview: %v", err)
	}
	defer conn.Close()

	var header previewHeader
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&header); err != nil {
		t.Fatalf("reading header: %v", err)
	}
	if header.Width != matrix.Width || header.Height != matrix.Height {
		t.Errorf("header = %+v, want %dx%d", header, matrix.Width, matrix.Height)
	}

	body := fmt.Sprintf(`{"text":"HI","display_mode":"static","ip":"127.0.0.1","port":%d}`, port)
	if resp := postJSON(t, ts.URL+"/start", body); resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /start status = %d", resp.StatusCode)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Errorf("message type = %d, want binary", kind)
	}
	if len(frame) != matrix.FrameBytes {
		t.Errorf("frame length = %d, want %d", len(frame), matrix.FrameBytes)
	}
}
