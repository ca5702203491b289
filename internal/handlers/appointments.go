package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/petvetapp/petvet-backend/internal/database"
	"github.com/petvetapp/petvet-backend/internal/middleware"
	"github.com/petvetapp/petvet-backend/internal/models"
	"github.com/petvetapp/petvet-backend/internal/policy"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreateAppointmentRequest struct {
	Pet   string `json:"pet"`
	Type  string `json:"type"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Notes string `json:"notes"`
}

// appointmentDateFormats are the accepted date encodings, tried in order.
var appointmentDateFormats = []string{time.RFC3339, "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	for _, layout := range appointmentDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format")
}

// CreateAppointment handles POST /api/appointments. The caller becomes the
// owner; a veterinarian is assigned later through update. Status always
// starts as pending.
func CreateAppointment(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	var req CreateAppointmentRequest
	if err := decodeBody(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Pet == "" || req.Type == "" || req.Date == "" || req.Time == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "Please provide all required fields",
			"missingFields": map[string]bool{
				"pet":  req.Pet == "",
				"type": req.Type == "",
				"date": req.Date == "",
				"time": req.Time == "",
			},
		})
		return
	}

	if !models.ValidAppointmentType(req.Type) {
		errorJSON(w, http.StatusBadRequest, "Please provide a valid type (check-up, vaccination, grooming, surgery, other)")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "Please provide a valid date")
		return
	}

	// Referential integrity is checked at write time, not enforced by the store.
	pet, ok := findPet(w, r, req.Pet)
	if !ok {
		return
	}

	now := time.Now().UTC()
	appointment := models.Appointment{
		CreatedAt: now,
		UpdatedAt: now,
		Pet:       pet.ID,
		Owner:     user.ID,
		Type:      req.Type,
		Date:      date,
		Time:      req.Time,
		Status:    models.StatusPending,
		Notes:     req.Notes,
	}

	result, err := database.DB.Collection(database.AppointmentsCollection).InsertOne(r.Context(), appointment)
	if err != nil {
		serverError(w, err)
		return
	}
	appointment.ID = result.InsertedID.(primitive.ObjectID)

	writeJSON(w, http.StatusCreated, appointment)
}

// GetAppointments handles GET /api/appointments. Pet owners see their own
// appointments; veterinarians see appointments assigned to them.
func GetAppointments(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	filter := bson.M{"owner": user.ID}
	if user.Role == models.RoleVeterinarian {
		filter = bson.M{"veterinarian": user.ID}
	}

	cur, err := database.DB.Collection(database.AppointmentsCollection).
		Find(r.Context(), filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		serverError(w, err)
		return
	}
	defer cur.Close(r.Context())

	var appointments []models.Appointment
	if err := cur.All(r.Context(), &appointments); err != nil {
		serverError(w, err)
		return
	}

	views, err := appointmentViews(r.Context(), appointments)
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// GetAppointmentByID handles GET /api/appointments/{id}
func GetAppointmentByID(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	appointment, ok := findAppointment(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	caller := policy.Identity{ID: user.ID, Role: user.Role}
	if !policy.CanReadAppointment(caller, appointment.Owner, appointment.Veterinarian) {
		notAuthorized(w)
		return
	}

	views, err := appointmentViews(r.Context(), []models.Appointment{*appointment})
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views[0])
}

// UpdateAppointment handles PUT /api/appointments/{id}. The owner or the
// assigned veterinarian may change any field, including setting the status to
// any enum value; there is deliberately no transition graph.
func UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	appointment, ok := findAppointment(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	caller := policy.Identity{ID: user.ID, Role: user.Role}
	if !policy.CanUpdateAppointment(caller, appointment.Owner, appointment.Veterinarian) {
		notAuthorized(w)
		return
	}

	var patch models.AppointmentPatch
	if err := decodeBody(r, &patch); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if patch.Type != nil && !models.ValidAppointmentType(*patch.Type) {
		errorJSON(w, http.StatusBadRequest, "Please provide a valid type (check-up, vaccination, grooming, surgery, other)")
		return
	}
	if patch.Status != nil && !models.ValidAppointmentStatus(*patch.Status) {
		errorJSON(w, http.StatusBadRequest, "Please provide a valid status (pending, confirmed, cancelled, completed)")
		return
	}

	var petID *primitive.ObjectID
	if patch.Pet != nil {
		pet, ok := findPet(w, r, *patch.Pet)
		if !ok {
			return
		}
		petID = &pet.ID
	}

	var vetID *primitive.ObjectID
	if patch.Veterinarian != nil {
		vet, ok := findUserByID(w, r, *patch.Veterinarian)
		if !ok {
			return
		}
		vetID = &vet.ID
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Appointment
	err := database.DB.Collection(database.AppointmentsCollection).
		FindOneAndUpdate(r.Context(), bson.M{"_id": appointment.ID}, bson.M{"$set": patch.SetUpdates(petID, vetID)}, opts).
		Decode(&updated)
	if err != nil {
		serverError(w, err)
		return
	}

	views, err := appointmentViews(r.Context(), []models.Appointment{updated})
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views[0])
}

// DeleteAppointment handles DELETE /api/appointments/{id}. Owner only; the
// assigned veterinarian may update but never delete.
func DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	appointment, ok := findAppointment(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	caller := policy.Identity{ID: user.ID, Role: user.Role}
	if !policy.CanDeleteAppointment(caller, appointment.Owner) {
		notAuthorized(w)
		return
	}

	if _, err := database.DB.Collection(database.AppointmentsCollection).
		DeleteOne(r.Context(), bson.M{"_id": appointment.ID}); err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment removed"})
}

func findAppointment(w http.ResponseWriter, r *http.Request, idParam string) (*models.Appointment, bool) {
	id, ok := parseID(idParam)
	if !ok {
		errorJSON(w, http.StatusNotFound, "Appointment not found")
		return nil, false
	}

	var appointment models.Appointment
	err := database.DB.Collection(database.AppointmentsCollection).
		FindOne(r.Context(), bson.M{"_id": id}).Decode(&appointment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			errorJSON(w, http.StatusNotFound, "Appointment not found")
		} else {
			serverError(w, err)
		}
		return nil, false
	}
	return &appointment, true
}

func findUserByID(w http.ResponseWriter, r *http.Request, idParam string) (*models.User, bool) {
	id, ok := parseID(idParam)
	if !ok {
		errorJSON(w, http.StatusNotFound, "User not found")
		return nil, false
	}

	var user models.User
	err := database.DB.Collection(database.UsersCollection).
		FindOne(r.Context(), bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			errorJSON(w, http.StatusNotFound, "User not found")
		} else {
			serverError(w, err)
		}
		return nil, false
	}
	return &user, true
}
