package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/petvetapp/petvet-backend/internal/database"
	"github.com/petvetapp/petvet-backend/internal/middleware"
	"github.com/petvetapp/petvet-backend/internal/models"
	"github.com/petvetapp/petvet-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson"
)

var messageUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer already.
		return true
	},
}

// MessagesWebSocket streams new-message events to the authenticated user.
// Authentication uses the normal bearer token, with a `token` query parameter
// fallback for browser WebSocket clients that cannot set headers. The socket
// is receive-only; sending still goes through POST /api/messages.
func MessagesWebSocket(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		errorJSON(w, http.StatusUnauthorized, "Not authorized, no token or token failed")
		return
	}

	subject, err := services.ParseToken(token)
	if err != nil {
		errorJSON(w, http.StatusUnauthorized, "Not authorized, no token or token failed")
		return
	}
	userID, ok := parseID(subject)
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "Not authorized, no token or token failed")
		return
	}

	var user models.User
	if err := database.DB.Collection(database.UsersCollection).
		FindOne(r.Context(), bson.M{"_id": userID}).Decode(&user); err != nil {
		errorJSON(w, http.StatusUnauthorized, "Not authorized, no token or token failed")
		return
	}

	conn, err := messageUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	key := user.ID.Hex()
	services.RegisterMessageConnection(key, conn)
	defer services.UnregisterMessageConnection(key, conn)

	// The hub owns all writes; this loop only keeps the connection alive and
	// detects disconnects.
	conn.SetReadLimit(4 * 1024)
	_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	}
}
