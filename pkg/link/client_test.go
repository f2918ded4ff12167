// ABOUTME: Tests for the sensor websocket client
// ABOUTME: Uses an in-process websocket server to verify chunk delivery
package link

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// newSensor starts a server that runs fn on each connection
func newSensor(t *testing.T, fn func(conn *websocket.Conn)) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		fn(conn)
	}))
	t.Cleanup(srv.Close)

	return strings.TrimPrefix(srv.URL, "http://")
}

func collect(t *testing.T, c *Client) [][]byte {
	t.Helper()

	var chunks [][]byte
	timeout := time.After(5 * time.Second)
	for {
		select {
		case chunk, ok := <-c.Chunks:
			if !ok {
				return chunks
			}
			chunks = append(chunks, chunk)
		case <-timeout:
			t.Fatal("timed out waiting for chunks")
		}
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient(Config{Endpoint: "localhost:81"})
	if client == nil {
		t.Fatal("expected client to be created")
	}
	if client.config.DialTimeout != DefaultDialTimeout {
		t.Errorf("expected default dial timeout, got %v", client.config.DialTimeout)
	}
	if client.IsConnected() {
		t.Error("new client must not report connected")
	}
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "192.168.4.1:81", want: "ws://192.168.4.1:81/"},
		{in: "ws://192.168.4.1:81/", want: "ws://192.168.4.1:81/"},
		{in: " wss://sensor.local/emg ", want: "wss://sensor.local/emg"},
		{in: "http://host:9000", want: "ws://host:9000/"},
		{in: "https://host", want: "wss://host/"},
		{in: "", wantErr: true},
		{in: "ftp://host", wantErr: true},
		{in: "ws://", wantErr: true},
	}

	for _, tt := range tests {
		got, err := EndpointURL(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("EndpointURL(%q) expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("EndpointURL(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("EndpointURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestChunksDeliveredInOrder(t *testing.T) {
	payloads := [][]byte{[]byte("EMG1"), {1, 2, 3}, {4}}

	addr := newSensor(t, func(conn *websocket.Conn) {
		for i, p := range payloads {
			if i == 1 {
				conn.WriteMessage(websocket.TextMessage, []byte("hello"))
			}
			conn.WriteMessage(websocket.BinaryMessage, p)
		}
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		conn.ReadMessage() // wait for the client's close reply
	})

	client := NewClient(Config{Endpoint: addr})
	if err := client.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	chunks := collect(t, client)
	if len(chunks) != len(payloads) {
		t.Fatalf("expected %d chunks, got %d", len(payloads), len(chunks))
	}
	for i := range payloads {
		if !bytes.Equal(chunks[i], payloads[i]) {
			t.Errorf("chunk %d = %v, want %v", i, chunks[i], payloads[i])
		}
	}

	<-client.Done()
	if client.Err() != nil {
		t.Errorf("expected clean close, got %v", client.Err())
	}
	if client.IsConnected() {
		t.Error("expected client disconnected after close")
	}
}

func TestAbnormalCloseReportsError(t *testing.T) {
	addr := newSensor(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.BinaryMessage, []byte{1})
		// Drop the TCP connection without a close frame
		conn.UnderlyingConn().Close()
	})

	client := NewClient(Config{Endpoint: addr})
	if err := client.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	collect(t, client)
	<-client.Done()

	if client.Err() == nil {
		t.Error("expected an error after abnormal close")
	}
}

func TestLocalCloseIsClean(t *testing.T) {
	release := make(chan struct{})
	addr := newSensor(t, func(conn *websocket.Conn) {
		<-release
	})
	defer close(release)

	client := NewClient(Config{Endpoint: addr})
	if err := client.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	client.Close()

	select {
	case <-client.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("reader did not stop after Close")
	}
	if client.Err() != nil {
		t.Errorf("expected no error after local close, got %v", client.Err())
	}
	if err := client.Send("x"); err != ErrNotConnected {
		t.Errorf("Send after close = %v, want ErrNotConnected", err)
	}
}

func TestConnectFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	client := NewClient(Config{Endpoint: addr, DialTimeout: time.Second})
	if err := client.Connect(); err == nil {
		t.Error("expected dial error for a closed server")
	}
}
