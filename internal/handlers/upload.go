package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/petvetapp/petvet-backend/internal/config"
	"github.com/petvetapp/petvet-backend/internal/services"
)

var cloudinaryService *services.CloudinaryService

func InitCloudinaryService(cfg *config.Config) error {
	service, err := services.NewCloudinaryService(
		cfg.CloudinaryName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
	if err != nil {
		return err
	}
	cloudinaryService = service
	return nil
}

// UploadFile handles POST /api/upload: a multipart image upload to Cloudinary.
// The returned URL is meant to be stored in profileImage or a pet's image
// field by a follow-up update.
func UploadFile(w http.ResponseWriter, r *http.Request) {
	if cloudinaryService == nil {
		errorJSON(w, http.StatusInternalServerError, "Upload service not configured")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		errorJSON(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	folder := r.URL.Query().Get("folder")
	if folder == "" {
		folder = "petvet"
	}

	url, err := cloudinaryService.UploadFile(r.Context(), file, folder, uuid.NewString())
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "File uploaded successfully",
		"url":     url,
	})
}
