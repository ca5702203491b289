package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/petvetapp/petvet-backend/internal/database"
	"github.com/petvetapp/petvet-backend/internal/middleware"
	"github.com/petvetapp/petvet-backend/internal/models"
	"github.com/petvetapp/petvet-backend/internal/services"
	"github.com/petvetapp/petvet-backend/pkg/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OnboardingStep1Request carries the profile fields collected by the first
// step of the onboarding wizard.
type OnboardingStep1Request struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	PhoneNumber  *string `json:"phoneNumber"`
	Location     *string `json:"location"`
	ProfileImage *string `json:"profileImage"`
}

// userPayload is the identity shape returned by auth and profile endpoints.
// token is present only when the operation (re)issues one.
func userPayload(u *models.User, token string) map[string]interface{} {
	payload := map[string]interface{}{
		"_id":            u.ID,
		"firstName":      u.FirstName,
		"lastName":       u.LastName,
		"email":          u.Email,
		"role":           u.Role,
		"phoneNumber":    u.PhoneNumber,
		"location":       u.Location,
		"profileImage":   u.ProfileImage,
		"onboardingStep": u.OnboardingStep,
	}
	if token != "" {
		payload["token"] = token
	}
	return payload
}

// RegisterUser handles POST /api/users
func RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Validate required fields, reporting exactly which are missing
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "Please provide all required fields",
			"missingFields": map[string]bool{
				"firstName": req.FirstName == "",
				"lastName":  req.LastName == "",
				"email":     req.Email == "",
				"password":  req.Password == "",
			},
		})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RolePetOwner
	}
	if !models.ValidRole(role) {
		errorJSON(w, http.StatusBadRequest, "Please provide a valid role (pet_owner, veterinarian)")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Check if user already exists
	err := database.DB.Collection(database.UsersCollection).
		FindOne(r.Context(), bson.M{"email": email}).Err()
	if err == nil {
		errorJSON(w, http.StatusBadRequest, "User already exists")
		return
	} else if err != mongo.ErrNoDocuments {
		serverError(w, err)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		serverError(w, err)
		return
	}

	now := time.Now().UTC()
	user := models.User{
		CreatedAt:      now,
		UpdatedAt:      now,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          email,
		Password:       hashedPassword,
		Role:           role,
		OnboardingStep: 0,
	}

	result, err := database.DB.Collection(database.UsersCollection).InsertOne(r.Context(), user)
	if err != nil {
		// The unique index on email closes the race between the existence
		// check and the insert.
		if mongo.IsDuplicateKeyError(err) {
			errorJSON(w, http.StatusBadRequest, "User already exists")
			return
		}
		serverError(w, err)
		return
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	token, err := services.IssueToken(user.ID.Hex())
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, userPayload(&user, token))
}

// LoginUser handles POST /api/users/login
func LoginUser(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "Please provide email and password",
			"missingFields": map[string]bool{
				"email":    req.Email == "",
				"password": req.Password == "",
			},
		})
		return
	}

	var user models.User
	err := database.DB.Collection(database.UsersCollection).
		FindOne(r.Context(), bson.M{"email": strings.ToLower(strings.TrimSpace(req.Email))}).
		Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Identical response for unknown email and wrong password:
			// no account-existence leakage.
			errorJSON(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		serverError(w, err)
		return
	}

	valid, err := utils.VerifyPassword(req.Password, user.Password)
	if err != nil || !valid {
		errorJSON(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := services.IssueToken(user.ID.Hex())
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userPayload(&user, token))
}

// GetUserProfile handles GET /api/users/profile
func GetUserProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)
	writeJSON(w, http.StatusOK, userPayload(user, ""))
}

// UpdateUserProfile handles PUT /api/users/profile.
// Partial-update semantics: only fields present in the request overwrite
// stored values; a fresh token is issued on every successful update.
func UpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	var patch models.UserPatch
	if err := decodeBody(r, &patch); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var hashedPassword string
	if patch.Password != nil && *patch.Password != "" {
		var err error
		hashedPassword, err = utils.HashPassword(*patch.Password)
		if err != nil {
			serverError(w, err)
			return
		}
	}
	if patch.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*patch.Email))
		patch.Email = &normalized
	}

	updated, err := applyUserUpdate(r, user, patch.SetUpdates(hashedPassword))
	if err != nil {
		serverError(w, err)
		return
	}

	token, err := services.IssueToken(updated.ID.Hex())
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userPayload(updated, token))
}

// CompleteOnboardingStep1 handles PUT /api/users/onboarding/step1.
// Merges the provided profile fields and records the wizard progress.
func CompleteOnboardingStep1(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	var req OnboardingStep1Request
	if err := decodeBody(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"onboardingStep": 1, "updatedAt": time.Now().UTC()}
	if req.FirstName != nil {
		set["firstName"] = *req.FirstName
	}
	if req.LastName != nil {
		set["lastName"] = *req.LastName
	}
	if req.PhoneNumber != nil {
		set["phoneNumber"] = *req.PhoneNumber
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	if req.ProfileImage != nil {
		set["profileImage"] = *req.ProfileImage
	}

	updated, err := applyUserUpdate(r, user, set)
	if err != nil {
		serverError(w, err)
		return
	}

	token, err := services.IssueToken(updated.ID.Hex())
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userPayload(updated, token))
}

func applyUserUpdate(r *http.Request, user *models.User, set bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.User
	err := database.DB.Collection(database.UsersCollection).
		FindOneAndUpdate(r.Context(), bson.M{"_id": user.ID}, bson.M{"$set": set}, opts).
		Decode(&updated)
	if err != nil {
		return nil, err
	}
	log.Printf("profile updated for user %s", updated.ID.Hex())
	return &updated, nil
}
