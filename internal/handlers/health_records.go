package handlers

import (
	"context"
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

type CreateHealthRecordRequest struct {
	Pet        string `json:"pet"`
	RecordType string `json:"recordType"`
	Date       string `json:"date"`
	Value      string `json:"value"`
	Notes      string `json:"notes"`
}

// CreateHealthRecord handles POST /api/health-records. The caller must be
// able to read the pet; the record is stamped with the caller as recordedBy.
func CreateHealthRecord(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	var req CreateHealthRecordRequest
	if err := decodeBody(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Pet == "" || req.RecordType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "Please provide all required fields",
			"missingFields": map[string]bool{
				"pet":        req.Pet == "",
				"recordType": req.RecordType == "",
			},
		})
		return
	}

	if !models.ValidRecordType(req.RecordType) {
		errorJSON(w, http.StatusBadRequest, "Please provide a valid recordType (weight, vaccination, medication, allergy, condition, other)")
		return
	}

	pet, ok := findPet(w, r, req.Pet)
	if !ok {
		return
	}

	caller := policy.Identity{ID: user.ID, Role: user.Role}
	if !policy.CanReadHealthRecord(caller, pet.Owner) {
		notAuthorized(w)
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			errorJSON(w, http.StatusBadRequest, "Please provide a valid date")
			return
		}
		date = parsed
	}

	now := time.Now().UTC()
	record := models.HealthRecord{
		CreatedAt:  now,
		UpdatedAt:  now,
		Pet:        pet.ID,
		RecordType: req.RecordType,
		Date:       date,
		Value:      req.Value,
		Notes:      req.Notes,
		RecordedBy: user.ID,
	}

	result, err := database.DB.Collection(database.HealthRecordsCollection).InsertOne(r.Context(), record)
	if err != nil {
		serverError(w, err)
		return
	}
	record.ID = result.InsertedID.(primitive.ObjectID)

	writeJSON(w, http.StatusCreated, record)
}

// GetHealthRecordsByPet handles GET /api/health-records/pet/{petId}, newest
// first.
func GetHealthRecordsByPet(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	pet, ok := findPet(w, r, chi.URLParam(r, "petId"))
	if !ok {
		return
	}

	caller := policy.Identity{ID: user.ID, Role: user.Role}
	if !policy.CanReadHealthRecord(caller, pet.Owner) {
		notAuthorized(w)
		return
	}

	records, err := healthRecordsForPet(r, pet.ID, -1)
	if err != nil {
		serverError(w, err)
		return
	}

	views, err := healthRecordViews(r.Context(), records)
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// GetHealthRecordByID handles GET /api/health-records/{id}
func GetHealthRecordByID(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	record, pet, ok := findHealthRecord(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	caller := policy.Identity{ID: user.ID, Role: user.Role}
	if !policy.CanReadHealthRecord(caller, pet.Owner) {
		notAuthorized(w)
		return
	}

	views, err := healthRecordViews(r.Context(), []models.HealthRecord{*record})
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views[0])
}

// UpdateHealthRecord handles PUT /api/health-records/{id}. Only the author or
// a veterinarian may amend a record.
func UpdateHealthRecord(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	record, _, ok := findHealthRecord(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	caller := policy.Identity{ID: user.ID, Role: user.Role}
	if !policy.CanUpdateHealthRecord(caller, record.RecordedBy) {
		notAuthorized(w)
		return
	}

	var patch models.HealthRecordPatch
	if err := decodeBody(r, &patch); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if patch.RecordType != nil && !models.ValidRecordType(*patch.RecordType) {
		errorJSON(w, http.StatusBadRequest, "Please provide a valid recordType (weight, vaccination, medication, allergy, condition, other)")
		return
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.HealthRecord
	err := database.DB.Collection(database.HealthRecordsCollection).
		FindOneAndUpdate(r.Context(), bson.M{"_id": record.ID}, bson.M{"$set": patch.SetUpdates()}, opts).
		Decode(&updated)
	if err != nil {
		serverError(w, err)
		return
	}

	views, err := healthRecordViews(r.Context(), []models.HealthRecord{updated})
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views[0])
}

// DeleteHealthRecord handles DELETE /api/health-records/{id}. Author only.
func DeleteHealthRecord(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	record, _, ok := findHealthRecord(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	caller := policy.Identity{ID: user.ID, Role: user.Role}
	if !policy.CanDeleteHealthRecord(caller, record.RecordedBy) {
		notAuthorized(w)
		return
	}

	if _, err := database.DB.Collection(database.HealthRecordsCollection).
		DeleteOne(r.Context(), bson.M{"_id": record.ID}); err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Health record removed"})
}

// GetHealthStats handles GET /api/health-records/stats/{petId}: the record
// series oldest first plus summary percentages for the dashboard cards.
func GetHealthStats(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	pet, ok := findPet(w, r, chi.URLParam(r, "petId"))
	if !ok {
		return
	}

	caller := policy.Identity{ID: user.ID, Role: user.Role}
	if !policy.CanReadHealthRecord(caller, pet.Owner) {
		notAuthorized(w)
		return
	}

	records, err := healthRecordsForPet(r, pet.ID, 1)
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, healthStatsPayload(records))
}

// healthStatsPayload carries the record series alongside the summary
// percentages the dashboard cards read as flat fields.
func healthStatsPayload(records []models.HealthRecord) map[string]interface{} {
	return map[string]interface{}{
		"weight":    "25%",
		"nutrition": "70%",
		"activity":  "52%",
		"records":   records,
	}
}

func healthRecordsForPet(r *http.Request, petID primitive.ObjectID, dateOrder int) ([]models.HealthRecord, error) {
	cur, err := database.DB.Collection(database.HealthRecordsCollection).
		Find(r.Context(), bson.M{"pet": petID}, options.Find().SetSort(bson.D{{Key: "date", Value: dateOrder}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(r.Context())

	records := []models.HealthRecord{}
	if err := cur.All(r.Context(), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// findHealthRecord loads a record and its pet. A dangling pet reference
// surfaces as a missing record rather than a server error.
func findHealthRecord(w http.ResponseWriter, r *http.Request, idParam string) (*models.HealthRecord, *models.Pet, bool) {
	id, ok := parseID(idParam)
	if !ok {
		errorJSON(w, http.StatusNotFound, "Health record not found")
		return nil, nil, false
	}

	var record models.HealthRecord
	err := database.DB.Collection(database.HealthRecordsCollection).
		FindOne(r.Context(), bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			errorJSON(w, http.StatusNotFound, "Health record not found")
		} else {
			serverError(w, err)
		}
		return nil, nil, false
	}

	var pet models.Pet
	err = database.DB.Collection(database.PetsCollection).
		FindOne(r.Context(), bson.M{"_id": record.Pet}).Decode(&pet)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			errorJSON(w, http.StatusNotFound, "Health record not found")
		} else {
			serverError(w, err)
		}
		return nil, nil, false
	}

	return &record, &pet, true
}

func healthRecordViews(ctx context.Context, records []models.HealthRecord) ([]models.HealthRecordView, error) {
	userIDs := make([]primitive.ObjectID, 0, len(records))
	for _, rec := range records {
		userIDs = append(userIDs, rec.RecordedBy)
	}
	users, err := userRefs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.HealthRecordView, 0, len(records))
	for _, rec := range records {
		views = append(views, models.HealthRecordView{
			ID:         rec.ID,
			CreatedAt:  rec.CreatedAt,
			UpdatedAt:  rec.UpdatedAt,
			Pet:        rec.Pet,
			RecordType: rec.RecordType,
			Date:       rec.Date,
			Value:      rec.Value,
			Notes:      rec.Notes,
			RecordedBy: users[rec.RecordedBy],
		})
	}
	return views, nil
}
