package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/pet-health-api/api"
	"github.com/linesmerrill/pet-health-api/config"
	"github.com/linesmerrill/pet-health-api/databases"
	"github.com/linesmerrill/pet-health-api/models"
)

const maxImageSize = 10 << 20

// Pet exported for testing purposes
type Pet struct {
	DB       databases.PetDatabase
	Uploader ImageUploader
}

// PetsHandler lists the pets of the authenticated user
func (p Pet) PetsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	pets, err := p.DB.FindByUser(ctx, userID)
	if err != nil {
		config.ErrorStatus("failed to get pets", http.StatusInternalServerError, w, err)
		return
	}
	if pets == nil {
		pets = []models.Pet{}
	}
	writeJSON(w, http.StatusOK, pets)
}

// PetByIDHandler returns a single pet
func (p Pet) PetByIDHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}
	petID := mux.Vars(r)["pet_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	pet, err := p.DB.FindByID(ctx, petID, userID)
	if err != nil {
		config.ErrorStatus("failed to get pet by ID", lookupStatus(err), w, err)
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

// CreatePetHandler stores a new pet for the authenticated user
func (p Pet) CreatePetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	var pet models.Pet
	if err := json.NewDecoder(r.Body).Decode(&pet); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validatePet(&pet); err != nil {
		config.ErrorStatus("invalid pet", http.StatusBadRequest, w, err)
		return
	}
	pet.ID = primitive.NilObjectID
	pet.UserID = userID
	pet.Image = ""

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := p.DB.InsertOne(ctx, &pet); err != nil {
		config.ErrorStatus("failed to create pet", http.StatusInternalServerError, w, err)
		return
	}
	zap.S().Infow("pet created", "petId", pet.ID.Hex(), "userId", userID)
	writeJSON(w, http.StatusCreated, pet)
}

// UpdatePetHandler replaces the editable fields of a pet
func (p Pet) UpdatePetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}
	petID := mux.Vars(r)["pet_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, err := p.DB.FindByID(ctx, petID, userID)
	if err != nil {
		config.ErrorStatus("failed to get pet by ID", lookupStatus(err), w, err)
		return
	}

	updated := *existing
	if err = json.NewDecoder(r.Body).Decode(&updated); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err = validatePet(&updated); err != nil {
		config.ErrorStatus("invalid pet", http.StatusBadRequest, w, err)
		return
	}
	updated.ID = existing.ID
	updated.UserID = existing.UserID
	updated.Image = existing.Image
	updated.CreatedAt = existing.CreatedAt

	if err = p.DB.Update(ctx, &updated); err != nil {
		config.ErrorStatus("failed to update pet", lookupStatus(err), w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeletePetHandler removes a pet
func (p Pet) DeletePetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}
	petID := mux.Vars(r)["pet_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := p.DB.DeleteOne(ctx, petID, userID); err != nil {
		config.ErrorStatus("failed to delete pet", lookupStatus(err), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "pet deleted successfully"})
}

// UploadPetImageHandler uploads the multipart "image" field and stores the
// hosted url on the pet
func (p Pet) UploadPetImageHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}
	petID := mux.Vars(r)["pet_id"]

	if p.Uploader == nil {
		config.ErrorStatus("image uploads are disabled", http.StatusServiceUnavailable, w, errors.New("no image uploader configured"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := p.DB.FindByID(ctx, petID, userID); err != nil {
		config.ErrorStatus("failed to get pet by ID", lookupStatus(err), w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		config.ErrorStatus("failed to parse multipart form", http.StatusBadRequest, w, err)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		config.ErrorStatus("failed to read image", http.StatusBadRequest, w, err)
		return
	}
	defer file.Close()
	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		config.ErrorStatus("invalid image", http.StatusBadRequest, w, fmt.Errorf("unsupported content type %q", ct))
		return
	}

	url, err := p.Uploader.UploadPetImage(ctx, petID, file)
	if err != nil {
		config.ErrorStatus("failed to upload image", http.StatusBadGateway, w, err)
		return
	}
	if err = p.DB.SetImage(ctx, petID, userID, url); err != nil {
		config.ErrorStatus("failed to save image", lookupStatus(err), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"image": url})
}

func validatePet(p *models.Pet) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	if p.Weight < 0 {
		return fmt.Errorf("weight must not be negative, got %v", p.Weight)
	}
	return nil
}
