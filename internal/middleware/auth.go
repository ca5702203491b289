package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/petvetapp/petvet-backend/internal/database"
	"github.com/petvetapp/petvet-backend/internal/models"
	"github.com/petvetapp/petvet-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// Protect authenticates every protected route: it extracts the bearer token,
// verifies signature and expiry, and resolves the subject to a stored user.
// The token is used for authentication only; identity fields always come from
// the store so stale claims can never leak into responses.
// Resource-level checks belong to the handlers, not here.
func Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractBearerToken(r.Header.Get("Authorization"))
		if token == "" {
			unauthorized(w)
			return
		}

		subject, err := services.ParseToken(token)
		if err != nil {
			unauthorized(w)
			return
		}

		userID, err := primitive.ObjectIDFromHex(subject)
		if err != nil {
			unauthorized(w)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err = database.DB.Collection(database.UsersCollection).
			FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err != nil {
			// Token may be valid while the user no longer exists.
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, &user)))
	})
}

// CurrentUser returns the authenticated user attached by Protect.
func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

// ExtractBearerToken pulls the token out of an "Authorization: Bearer <token>" header.
func ExtractBearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{"message": "Not authorized, no token or token failed"}); err != nil {
		log.Printf("error writing unauthorized response: %v", err)
	}
}
