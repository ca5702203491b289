package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/petvetapp/petvet-backend/internal/database"
	"github.com/petvetapp/petvet-backend/internal/middleware"
	"github.com/petvetapp/petvet-backend/internal/models"
	"github.com/petvetapp/petvet-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SendMessageRequest struct {
	Receiver string `json:"receiver"`
	Content  string `json:"content"`
}

// SendMessage handles POST /api/messages. Any authenticated user may message
// any other existing user; delivery to a connected receiver happens through
// the realtime channel on a best-effort basis.
func SendMessage(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	var req SendMessageRequest
	if err := decodeBody(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Content == "" {
		errorJSON(w, http.StatusBadRequest, "Please provide message content")
		return
	}

	receiverID, ok := parseID(req.Receiver)
	if !ok {
		errorJSON(w, http.StatusNotFound, "Receiver not found")
		return
	}
	var receiver models.User
	err := database.DB.Collection(database.UsersCollection).
		FindOne(r.Context(), bson.M{"_id": receiverID}).Decode(&receiver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			errorJSON(w, http.StatusNotFound, "Receiver not found")
		} else {
			serverError(w, err)
		}
		return
	}

	now := time.Now().UTC()
	message := models.Message{
		CreatedAt: now,
		UpdatedAt: now,
		Sender:    user.ID,
		Receiver:  receiver.ID,
		Content:   req.Content,
		IsRead:    false,
	}

	result, err := database.DB.Collection(database.MessagesCollection).InsertOne(r.Context(), message)
	if err != nil {
		serverError(w, err)
		return
	}
	message.ID = result.InsertedID.(primitive.ObjectID)

	views, err := messageViews(r.Context(), []models.Message{message})
	if err != nil {
		serverError(w, err)
		return
	}

	// Persisted delivery is the contract; the push is opportunistic.
	publishCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := services.PublishMessageEvent(publishCtx, receiver.ID.Hex(), services.MessageEvent{
		Type:      "message",
		Message:   &views[0],
		Timestamp: now,
	}); err != nil {
		log.Printf("message publish failed: %v", err)
	}

	writeJSON(w, http.StatusCreated, views[0])
}

// GetMessages handles GET /api/messages. With ?with={userId} it returns the
// two-way thread with that user; otherwise every message the caller sent or
// received. Oldest first either way.
func GetMessages(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	filter := bson.M{"$or": []bson.M{
		{"sender": user.ID},
		{"receiver": user.ID},
	}}
	if with := r.URL.Query().Get("with"); with != "" {
		peerID, ok := parseID(with)
		if !ok {
			errorJSON(w, http.StatusNotFound, "User not found")
			return
		}
		filter = bson.M{"$or": []bson.M{
			{"sender": user.ID, "receiver": peerID},
			{"sender": peerID, "receiver": user.ID},
		}}
	}

	cur, err := database.DB.Collection(database.MessagesCollection).
		Find(r.Context(), filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		serverError(w, err)
		return
	}
	defer cur.Close(r.Context())

	var messages []models.Message
	if err := cur.All(r.Context(), &messages); err != nil {
		serverError(w, err)
		return
	}

	views, err := messageViews(r.Context(), messages)
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// GetConversations handles GET /api/messages/conversations: one entry per
// peer, carrying the newest message, ordered most recent first.
func GetConversations(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	cur, err := database.DB.Collection(database.MessagesCollection).
		Find(r.Context(), bson.M{"$or": []bson.M{
			{"sender": user.ID},
			{"receiver": user.ID},
		}}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		serverError(w, err)
		return
	}
	defer cur.Close(r.Context())

	var messages []models.Message
	if err := cur.All(r.Context(), &messages); err != nil {
		serverError(w, err)
		return
	}

	peers, latest := latestMessagePerPeer(user.ID, messages)

	users, err := userRefs(r.Context(), peers)
	if err != nil {
		serverError(w, err)
		return
	}

	conversations := make([]models.Conversation, 0, len(peers))
	for _, peer := range peers {
		msg := latest[peer]
		conversations = append(conversations, models.Conversation{
			User: users[peer],
			LastMessage: models.ConversationMessage{
				Content:   msg.Content,
				CreatedAt: msg.CreatedAt,
				IsRead:    msg.IsRead,
			},
		})
	}

	writeJSON(w, http.StatusOK, conversations)
}

// latestMessagePerPeer groups messages by the non-caller participant, keeping
// the first (newest, given descending input order) per peer. The returned
// slice preserves that recency order.
func latestMessagePerPeer(caller primitive.ObjectID, messages []models.Message) ([]primitive.ObjectID, map[primitive.ObjectID]models.Message) {
	peers := []primitive.ObjectID{}
	latest := map[primitive.ObjectID]models.Message{}
	for _, msg := range messages {
		peer := msg.Sender
		if peer == caller {
			peer = msg.Receiver
		}
		if _, seen := latest[peer]; seen {
			continue
		}
		latest[peer] = msg
		peers = append(peers, peer)
	}
	return peers, latest
}

type MarkMessagesReadRequest struct {
	Sender string `json:"sender"`
}

// MarkMessagesRead handles PUT /api/messages/read: flips every unread message
// from the given sender to the caller. Only the receiver can do this, which
// the filter itself guarantees.
func MarkMessagesRead(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	var req MarkMessagesReadRequest
	if err := decodeBody(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	senderID, ok := parseID(req.Sender)
	if !ok {
		errorJSON(w, http.StatusNotFound, "User not found")
		return
	}

	_, err := database.DB.Collection(database.MessagesCollection).
		UpdateMany(r.Context(), bson.M{
			"sender":   senderID,
			"receiver": user.ID,
			"isRead":   false,
		}, bson.M{"$set": bson.M{
			"isRead":    true,
			"updatedAt": time.Now().UTC(),
		}})
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Messages marked as read"})
}
