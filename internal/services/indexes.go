package services

import (
	"context"

	"github.com/petvetapp/petvet-backend/internal/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes configures indexes for all collections.
// Called on startup from main after Mongo has connected.
func EnsureIndexes(ctx context.Context) error {
	byCollection := map[string][]mongo.IndexModel{
		database.UsersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("idx_email_unique").SetUnique(true),
			},
		},
		database.PetsCollection: {
			{
				Keys:    bson.D{{Key: "owner", Value: 1}},
				Options: options.Index().SetName("idx_owner"),
			},
		},
		database.AppointmentsCollection: {
			// Dashboard and list queries scope by party and sort by date.
			{
				Keys: bson.D{
					{Key: "owner", Value: 1},
					{Key: "date", Value: 1},
				},
				Options: options.Index().SetName("idx_owner_date"),
			},
			{
				Keys: bson.D{
					{Key: "veterinarian", Value: 1},
					{Key: "date", Value: 1},
				},
				Options: options.Index().SetName("idx_veterinarian_date"),
			},
		},
		database.HealthRecordsCollection: {
			{
				Keys: bson.D{
					{Key: "pet", Value: 1},
					{Key: "date", Value: -1},
				},
				Options: options.Index().SetName("idx_pet_date"),
			},
		},
		database.MessagesCollection: {
			{
				Keys: bson.D{
					{Key: "sender", Value: 1},
					{Key: "receiver", Value: 1},
					{Key: "createdAt", Value: 1},
				},
				Options: options.Index().SetName("idx_sender_receiver_created"),
			},
			// Unread counters scan by receiver.
			{
				Keys: bson.D{
					{Key: "receiver", Value: 1},
					{Key: "isRead", Value: 1},
				},
				Options: options.Index().SetName("idx_receiver_read"),
			},
		},
	}

	for name, indexes := range byCollection {
		col := database.DB.Collection(name)
		for _, m := range indexes {
			if _, err := col.Indexes().CreateOne(ctx, m); err != nil {
				return err
			}
		}
	}
	return nil
}
