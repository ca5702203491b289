package handlers

import (
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

type CreatePetRequest struct {
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Description string `json:"description"`
	Gender      string `json:"gender"`
	Size        string `json:"size"`
	Health      string `json:"health"`
	Age         string `json:"age"`
	Temperament string `json:"temperament"`
	Image       string `json:"image"`
}

// AddPet handles POST /api/pets
func AddPet(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	var req CreatePetRequest
	if err := decodeBody(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Species == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "Please provide all required fields",
			"missingFields": map[string]bool{
				"name":    req.Name == "",
				"species": req.Species == "",
			},
		})
		return
	}

	gender, ok := models.NormalizeGender(req.Gender)
	if !ok {
		errorJSON(w, http.StatusBadRequest, "Please provide a valid gender (male, female, unknown)")
		return
	}

	now := time.Now().UTC()
	pet := models.Pet{
		CreatedAt:   now,
		UpdatedAt:   now,
		Owner:       user.ID,
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		Description: req.Description,
		Gender:      gender,
		Size:        req.Size,
		Health:      req.Health,
		Age:         req.Age,
		Temperament: req.Temperament,
		Image:       req.Image,
	}

	result, err := database.DB.Collection(database.PetsCollection).InsertOne(r.Context(), pet)
	if err != nil {
		serverError(w, err)
		return
	}
	pet.ID = result.InsertedID.(primitive.ObjectID)

	// Creating a first pet completes the onboarding wizard for pet owners.
	// One-way ratchet: the step never moves backwards.
	if user.Role == models.RolePetOwner && user.OnboardingStep < 2 {
		_, err := database.DB.Collection(database.UsersCollection).UpdateOne(r.Context(),
			bson.M{"_id": user.ID},
			bson.M{"$set": bson.M{"onboardingStep": 2, "updatedAt": now}})
		if err != nil {
			serverError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, pet)
}

// GetPets handles GET /api/pets. Results are scoped by the read rule:
// pet owners see their own pets, veterinarians may read any pet.
func GetPets(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	filter := bson.M{"owner": user.ID}
	if user.Role == models.RoleVeterinarian {
		filter = bson.M{}
	}

	cur, err := database.DB.Collection(database.PetsCollection).
		Find(r.Context(), filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		serverError(w, err)
		return
	}
	defer cur.Close(r.Context())

	pets := make([]models.Pet, 0)
	if err := cur.All(r.Context(), &pets); err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pets)
}

// GetPetByID handles GET /api/pets/{id}
func GetPetByID(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	pet, ok := findPet(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if !policy.CanReadPet(policy.Identity{ID: user.ID, Role: user.Role}, pet.Owner) {
		notAuthorized(w)
		return
	}

	writeJSON(w, http.StatusOK, pet)
}

// UpdatePet handles PUT /api/pets/{id}
func UpdatePet(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	pet, ok := findPet(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if !policy.CanWritePet(policy.Identity{ID: user.ID, Role: user.Role}, pet.Owner) {
		notAuthorized(w)
		return
	}

	var patch models.PetPatch
	if err := decodeBody(r, &patch); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var gender string
	if patch.Gender != nil {
		var valid bool
		gender, valid = models.NormalizeGender(*patch.Gender)
		if !valid {
			errorJSON(w, http.StatusBadRequest, "Please provide a valid gender (male, female, unknown)")
			return
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Pet
	err := database.DB.Collection(database.PetsCollection).
		FindOneAndUpdate(r.Context(), bson.M{"_id": pet.ID}, bson.M{"$set": patch.SetUpdates(gender)}, opts).
		Decode(&updated)
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeletePet handles DELETE /api/pets/{id}
func DeletePet(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	pet, ok := findPet(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if !policy.CanWritePet(policy.Identity{ID: user.ID, Role: user.Role}, pet.Owner) {
		notAuthorized(w)
		return
	}

	if _, err := database.DB.Collection(database.PetsCollection).
		DeleteOne(r.Context(), bson.M{"_id": pet.ID}); err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Pet removed"})
}

// findPet loads a pet by path id, responding with 404 when it does not exist.
// Existence is always settled before ownership.
func findPet(w http.ResponseWriter, r *http.Request, idParam string) (*models.Pet, bool) {
	id, ok := parseID(idParam)
	if !ok {
		errorJSON(w, http.StatusNotFound, "Pet not found")
		return nil, false
	}

	var pet models.Pet
	err := database.DB.Collection(database.PetsCollection).
		FindOne(r.Context(), bson.M{"_id": id}).Decode(&pet)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			errorJSON(w, http.StatusNotFound, "Pet not found")
		} else {
			serverError(w, err)
		}
		return nil, false
	}
	return &pet, true
}
