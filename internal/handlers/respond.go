package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/petvetapp/petvet-backend/internal/config"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var appConfig *config.Config

// Configure wires handler-level configuration: environment (controls error
// detail in 500 responses) and the Cloudinary upload service.
func Configure(cfg *config.Config) {
	appConfig = cfg
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("error encoding response: %v", err)
	}
}

func errorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// notAuthorized is the ownership-violation response. It returns 401 rather
// than 403 to match the behavior existing clients rely on.
func notAuthorized(w http.ResponseWriter) {
	errorJSON(w, http.StatusUnauthorized, "Not authorized")
}

// serverError logs the fault and returns a generic body; the error detail is
// echoed only outside production.
func serverError(w http.ResponseWriter, err error) {
	log.Printf("server error: %v", err)
	body := map[string]string{"message": "Server Error"}
	if appConfig != nil && !appConfig.IsProduction() {
		body["error"] = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, body)
}

// parseID parses a path parameter as an ObjectID. An unparseable id can never
// exist in the store, so callers treat ok=false as NotFound.
func parseID(hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	return id, err == nil
}

func decodeBody(r *http.Request, dest interface{}) error {
	return json.NewDecoder(r.Body).Decode(dest)
}
