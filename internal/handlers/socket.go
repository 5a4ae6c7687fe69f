package handlers

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/brendanx22/homeswift-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
)

// SocketServer pushes new-message and read-receipt events to connected
// clients. Delivery is best-effort; the HTTP endpoints remain the source
// of truth and clients re-fetch on reconnect.
var SocketServer *socketio.Server

// Presence tracking
var (
	onlineUsers   = make(map[string]string) // userId -> socketId
	onlineUsersMu sync.RWMutex
)

// Typing throttle: minimum interval between typing events per user
var (
	lastTypingEmit         = make(map[string]time.Time)
	lastTypingMu           sync.RWMutex
	typingThrottleDuration = 3 * time.Second
)

// IsUserOnline checks if a user has an active socket
func IsUserOnline(userId string) bool {
	onlineUsersMu.RLock()
	defer onlineUsersMu.RUnlock()
	_, exists := onlineUsers[userId]
	return exists
}

// notifyParticipants pushes an event to both participants' personal rooms.
func notifyParticipants(event string, participants []string, data map[string]interface{}) {
	if SocketServer == nil {
		return
	}
	for _, userId := range participants {
		SocketServer.BroadcastToRoom("/", userId, event, data)
	}
}

func InitSocketServer() *socketio.Server {
	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&websocket.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
			&polling.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		url := s.URL()

		// Token rides the handshake query; headers are unreliable for ws.
		token := url.Query().Get("token")
		if token == "" {
			log.Println("Socket Connection Rejected: No token provided", s.ID())
			return fmt.Errorf("authentication required")
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			log.Println("Socket Connection Rejected: Invalid token", s.ID())
			return fmt.Errorf("invalid token")
		}

		userId := claims.UserID
		s.SetContext(userId)

		onlineUsersMu.Lock()
		onlineUsers[userId] = s.ID()
		onlineUsersMu.Unlock()

		// Personal room: new messages and read receipts land here
		s.Join(userId)

		return nil
	})

	server.OnEvent("/", "join_chat", func(s socketio.Conn, chatId string) {
		s.Join(chatId)
	})

	server.OnEvent("/", "typing", func(s socketio.Conn, data map[string]interface{}) {
		recipientID, _ := data["recipientId"].(string)
		if recipientID == "" {
			return
		}

		senderID, _ := s.Context().(string)
		if senderID == "" {
			return
		}

		lastTypingMu.RLock()
		lastTime, exists := lastTypingEmit[senderID]
		lastTypingMu.RUnlock()

		if exists && time.Since(lastTime) < typingThrottleDuration {
			return
		}

		lastTypingMu.Lock()
		lastTypingEmit[senderID] = time.Now()
		lastTypingMu.Unlock()

		server.BroadcastToRoom("/", recipientID, "user_typing", map[string]interface{}{
			"userId":    senderID,
			"expiresAt": time.Now().Add(4 * time.Second).Unix(),
		})
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		onlineUsersMu.Lock()
		for userId, socketId := range onlineUsers {
			if socketId == s.ID() {
				delete(onlineUsers, userId)
				break
			}
		}
		onlineUsersMu.Unlock()
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		log.Println("socket error:", e)
	})

	go server.Serve()
	SocketServer = server
	return server
}

// SocketHandler wraps the socket.io server for gin
func SocketHandler(server *socketio.Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		server.ServeHTTP(c.Writer, c.Request)
	}
}
