package api

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/nirbhay18/gutenberg/core/blocks"
	"github.com/nirbhay18/gutenberg/core/parser"
	"github.com/nirbhay18/gutenberg/internal/logging"
)

const (
	// writeWait is the deadline for writing a message to the peer.
	writeWait = 10 * time.Second

	// readWait is the deadline for reading the next document from the peer.
	readWait = 60 * time.Second

	// maxMessageSize caps inbound document size.
	maxMessageSize = DefaultMaxDocumentSize
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkWebSocketOrigin,
}

// checkWebSocketOrigin validates the Origin header against the configured
// allowed origins. An empty allow list permits all origins.
func checkWebSocketOrigin(r *http.Request) bool {
	if len(ServerConfig.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range ServerConfig.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// StreamMessage is a single message in a parse stream. The server emits
// one "block" message per parsed block, then a "complete" message, or an
// "error" message if the document cannot be parsed.
type StreamMessage struct {
	Type      string        `json:"type"` // "block", "complete", "error"
	Index     int           `json:"index,omitempty"`
	Block     *blocks.Block `json:"block,omitempty"`
	Total     int           `json:"total,omitempty"`
	Invalid   int           `json:"invalid,omitempty"`
	Message   string        `json:"message,omitempty"`
	Timestamp string        `json:"timestamp"`
}

// handleWebSocket upgrades the connection and streams parse results. Each
// text message from the client is treated as a document; the server
// responds with one message per block followed by a completion message.
func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	logging.WebSocketEvent("client_connected", "remote_addr", r.RemoteAddr)
	defer logging.WebSocketEvent("client_disconnected", "remote_addr", r.RemoteAddr)

	conn.SetReadLimit(maxMessageSize)

	for {
		conn.SetReadDeadline(time.Now().Add(readWait))
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Error("websocket unexpected close", "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		if err := streamParse(conn, string(data)); err != nil {
			logging.Error("websocket stream failed", "error", err)
			return
		}
	}
}

// streamParse parses a document and writes one message per block.
func streamParse(conn *websocket.Conn, document string) error {
	parsed, err := parser.Parse(serverRegistry, document)
	if err != nil {
		return writeStreamMessage(conn, StreamMessage{
			Type:    "error",
			Message: err.Error(),
		})
	}

	invalid := 0
	for i, b := range parsed {
		if !b.IsValid {
			invalid++
		}
		msg := StreamMessage{
			Type:  "block",
			Index: i,
			Block: b,
		}
		if err := writeStreamMessage(conn, msg); err != nil {
			return err
		}
	}

	return writeStreamMessage(conn, StreamMessage{
		Type:    "complete",
		Total:   len(parsed),
		Invalid: invalid,
	})
}

func writeStreamMessage(conn *websocket.Conn, msg StreamMessage) error {
	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}
