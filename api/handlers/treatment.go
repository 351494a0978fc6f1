package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/pet-health-api/api"
	"github.com/linesmerrill/pet-health-api/config"
	"github.com/linesmerrill/pet-health-api/databases"
	"github.com/linesmerrill/pet-health-api/models"
	"github.com/linesmerrill/pet-health-api/reminders"
)

// Treatment exported for testing purposes
type Treatment struct {
	DB      databases.TreatmentDatabase
	MDB     databases.MedicationDatabase
	PetDB   databases.PetDatabase
	Manager *reminders.Manager
}

// CreateTreatmentHandler stores a treatment and its medications in one
// transaction and then generates the follow-up and dose reminders
func (t Treatment) CreateTreatmentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	var treatment models.Treatment
	if err := json.NewDecoder(r.Body).Decode(&treatment); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	medications := treatment.Medications
	treatment.Medications = nil
	treatment.UserID = userID

	if err := validateTreatment(&treatment); err != nil {
		config.ErrorStatus("invalid treatment", http.StatusBadRequest, w, err)
		return
	}
	for i := range medications {
		if err := validateMedication(&medications[i], &treatment); err != nil {
			config.ErrorStatus("invalid medication", http.StatusBadRequest, w, err)
			return
		}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := t.PetDB.FindByID(ctx, treatment.PetID, userID); err != nil {
		config.ErrorStatus("failed to get pet by ID", lookupStatus(err), w, err)
		return
	}

	if err := t.DB.CreateWithMedications(ctx, &treatment, medications); err != nil {
		config.ErrorStatus("failed to create treatment", http.StatusInternalServerError, w, err)
		return
	}
	zap.S().Infow("treatment created",
		"treatmentId", treatment.ID.Hex(),
		"petId", treatment.PetID,
		"medications", len(treatment.Medications))

	t.Manager.OnTreatmentCreated(ctx, &treatment, treatment.Medications)

	writeJSON(w, http.StatusCreated, treatment)
}

// TreatmentByIDHandler returns a treatment with its medications
func (t Treatment) TreatmentByIDHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}
	treatmentID := mux.Vars(r)["treatment_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	treatment, err := t.DB.FindByID(ctx, treatmentID, userID)
	if err != nil {
		config.ErrorStatus("failed to get treatment by ID", lookupStatus(err), w, err)
		return
	}
	treatment.Medications, err = t.MDB.FindByTreatment(ctx, treatmentID)
	if err != nil {
		config.ErrorStatus("failed to get medications", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, http.StatusOK, treatment)
}

// TreatmentsByPetIDHandler lists the treatments of a pet
func (t Treatment) TreatmentsByPetIDHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}
	petID := mux.Vars(r)["pet_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	treatments, err := t.DB.FindByPet(ctx, petID, userID)
	if err != nil {
		config.ErrorStatus("failed to get treatments", http.StatusInternalServerError, w, err)
		return
	}
	if treatments == nil {
		treatments = []models.Treatment{}
	}
	writeJSON(w, http.StatusOK, treatments)
}

// UpdateTreatmentHandler edits a treatment. A change to its dates replaces
// the follow-up reminder.
func (t Treatment) UpdateTreatmentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}
	treatmentID := mux.Vars(r)["treatment_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	before, err := t.DB.FindByID(ctx, treatmentID, userID)
	if err != nil {
		config.ErrorStatus("failed to get treatment by ID", lookupStatus(err), w, err)
		return
	}

	after := *before
	after.EndDate = cloneTime(before.EndDate)
	if err = json.NewDecoder(r.Body).Decode(&after); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	after.ID = before.ID
	after.PetID = before.PetID
	after.UserID = before.UserID
	after.CreatedAt = before.CreatedAt
	after.Medications = nil
	if err = validateTreatment(&after); err != nil {
		config.ErrorStatus("invalid treatment", http.StatusBadRequest, w, err)
		return
	}

	if err = t.DB.Update(ctx, &after); err != nil {
		config.ErrorStatus("failed to update treatment", lookupStatus(err), w, err)
		return
	}

	t.Manager.OnTreatmentUpdated(ctx, before, &after)

	writeJSON(w, http.StatusOK, after)
}

// DeleteTreatmentHandler removes a treatment, its medications and every
// reminder derived from them
func (t Treatment) DeleteTreatmentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}
	treatmentID := mux.Vars(r)["treatment_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := t.DB.FindByID(ctx, treatmentID, userID); err != nil {
		config.ErrorStatus("failed to get treatment by ID", lookupStatus(err), w, err)
		return
	}
	if err := t.Manager.CascadeDeleteForTreatment(ctx, treatmentID); err != nil {
		config.ErrorStatus("failed to delete treatment", lookupStatus(err), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "treatment deleted successfully"})
}

func validateTreatment(t *models.Treatment) error {
	if strings.TrimSpace(t.PetID) == "" {
		return errors.New("petId is required")
	}
	if strings.TrimSpace(t.Cause) == "" {
		return errors.New("cause is required")
	}
	if t.StartDate.IsZero() {
		return errors.New("startDate is required")
	}
	if t.EndDate != nil && t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("endDate %s is before startDate %s", t.EndDate, t.StartDate)
	}
	return nil
}
