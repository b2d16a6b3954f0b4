package main

import (
	"log"
	"net/http"

	"github.com/nmehta-dev/weatherchat/internal/chat"
	"github.com/nmehta-dev/weatherchat/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ChatHandler owns the client-facing endpoints: the chat page and the
// websocket channel.
type ChatHandler struct {
	pipeline chat.Pipeline
	sink     store.Sink
	upgrader websocket.Upgrader
}

func NewChatHandler(pipeline chat.Pipeline, sink store.Sink) *ChatHandler {
	return &ChatHandler{
		pipeline: pipeline,
		sink:     sink,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleIndex serves the chat page.
func (h *ChatHandler) HandleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": "Intelligent Weather Chatbot",
	})
}

// HandleWebSocket runs one connection's receive/dispatch/send loop.
// Messages are processed strictly sequentially: the loop awaits the full
// pipeline before reading the next message, and writes exactly one reply
// per message received. The session ID is a per-connection correlation key
// for persisted records; it carries no conversational state.
func (h *ChatHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	log.Printf("WebSocket connection established with session_id: %s", sessionID)

	ctx := c.Request.Context()
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("WebSocket disconnected (session %s)", sessionID)
			} else {
				log.Printf("WebSocket error (session %s): %v", sessionID, err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		message := string(data)
		log.Printf("Received message: %s", message)

		h.sink.StoreMessage(ctx, sessionID, "user", message)
		reply := h.pipeline.Respond(ctx, message)
		h.sink.StoreMessage(ctx, sessionID, "assistant", reply)

		if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
			log.Printf("WebSocket write error (session %s): %v", sessionID, err)
			return
		}
	}
}
