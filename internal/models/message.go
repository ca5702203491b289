package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a directed text between two users. Immutable once created except
// for the isRead flag, which the receiver flips in bulk per sender.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Sender   primitive.ObjectID `bson:"sender" json:"sender"`
	Receiver primitive.ObjectID `bson:"receiver" json:"receiver"`
	Content  string             `bson:"content" json:"content"`
	IsRead   bool               `bson:"isRead" json:"isRead"`
}

// MessageView is a message with both participants populated.
type MessageView struct {
	ID        primitive.ObjectID `json:"_id"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`

	Sender   *UserRef `json:"sender"`
	Receiver *UserRef `json:"receiver"`
	Content  string   `json:"content"`
	IsRead   bool     `json:"isRead"`
}

// Conversation is the latest exchange with a single peer, derived on read by
// grouping messages on the non-caller participant.
type Conversation struct {
	User        *UserRef            `json:"user"`
	LastMessage ConversationMessage `json:"lastMessage"`
}

// ConversationMessage is the trimmed form of the newest message in a conversation.
type ConversationMessage struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	IsRead    bool      `json:"isRead"`
}
