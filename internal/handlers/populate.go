package handlers

import (
	"context"

	"github.com/petvetapp/petvet-backend/internal/database"
	"github.com/petvetapp/petvet-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Reference population. Appointment and message responses embed display
// fields of the documents they point at; these helpers batch-load them so a
// list response costs a fixed number of queries.

func petRefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.PetRef, error) {
	refs := make(map[primitive.ObjectID]*models.PetRef)
	if len(ids) == 0 {
		return refs, nil
	}

	opts := options.Find().SetProjection(bson.M{
		"name": 1, "species": 1, "breed": 1, "image": 1,
	})
	cur, err := database.DB.Collection(database.PetsCollection).
		Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var ref models.PetRef
		if err := cur.Decode(&ref); err != nil {
			continue
		}
		refs[ref.ID] = &ref
	}
	return refs, cur.Err()
}

func userRefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.UserRef, error) {
	refs := make(map[primitive.ObjectID]*models.UserRef)
	if len(ids) == 0 {
		return refs, nil
	}

	opts := options.Find().SetProjection(bson.M{
		"firstName": 1, "lastName": 1, "profileImage": 1, "role": 1,
	})
	cur, err := database.DB.Collection(database.UsersCollection).
		Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var ref models.UserRef
		if err := cur.Decode(&ref); err != nil {
			continue
		}
		refs[ref.ID] = &ref
	}
	return refs, cur.Err()
}

// appointmentViews populates pet/owner/veterinarian references for a batch of
// appointments.
func appointmentViews(ctx context.Context, appointments []models.Appointment) ([]models.AppointmentView, error) {
	petIDs := make([]primitive.ObjectID, 0, len(appointments))
	userIDs := make([]primitive.ObjectID, 0, len(appointments)*2)
	for _, a := range appointments {
		petIDs = append(petIDs, a.Pet)
		userIDs = append(userIDs, a.Owner)
		if a.Veterinarian != nil {
			userIDs = append(userIDs, *a.Veterinarian)
		}
	}

	pets, err := petRefs(ctx, petIDs)
	if err != nil {
		return nil, err
	}
	users, err := userRefs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.AppointmentView, 0, len(appointments))
	for _, a := range appointments {
		view := models.AppointmentView{
			ID:        a.ID,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
			Pet:       pets[a.Pet],
			Owner:     users[a.Owner],
			Type:      a.Type,
			Date:      a.Date,
			Time:      a.Time,
			Status:    a.Status,
			Notes:     a.Notes,
		}
		if a.Veterinarian != nil {
			view.Veterinarian = users[*a.Veterinarian]
		}
		views = append(views, view)
	}
	return views, nil
}

// messageViews populates both participants for a batch of messages.
func messageViews(ctx context.Context, messages []models.Message) ([]models.MessageView, error) {
	userIDs := make([]primitive.ObjectID, 0, len(messages)*2)
	for _, m := range messages {
		userIDs = append(userIDs, m.Sender, m.Receiver)
	}

	users, err := userRefs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, models.MessageView{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
			Sender:    users[m.Sender],
			Receiver:  users[m.Receiver],
			Content:   m.Content,
			IsRead:    m.IsRead,
		})
	}
	return views, nil
}
