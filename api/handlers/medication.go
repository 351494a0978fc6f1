package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/pet-health-api/api"
	"github.com/linesmerrill/pet-health-api/config"
	"github.com/linesmerrill/pet-health-api/databases"
	"github.com/linesmerrill/pet-health-api/models"
	"github.com/linesmerrill/pet-health-api/reminders"
)

// Medication exported for testing purposes
type Medication struct {
	DB      databases.MedicationDatabase
	TDB     databases.TreatmentDatabase
	Manager *reminders.Manager
}

// CreateMedicationHandler adds a medication to a treatment and generates its
// dose reminders
func (m Medication) CreateMedicationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}
	treatmentID := mux.Vars(r)["treatment_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	treatment, err := m.TDB.FindByID(ctx, treatmentID, userID)
	if err != nil {
		config.ErrorStatus("failed to get treatment by ID", lookupStatus(err), w, err)
		return
	}

	var med models.Medication
	if err = json.NewDecoder(r.Body).Decode(&med); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err = validateMedication(&med, treatment); err != nil {
		config.ErrorStatus("invalid medication", http.StatusBadRequest, w, err)
		return
	}
	med.ID = primitive.NilObjectID
	med.TreatmentID = treatment.ID.Hex()

	if err = m.DB.InsertOne(ctx, &med); err != nil {
		config.ErrorStatus("failed to create medication", http.StatusInternalServerError, w, err)
		return
	}
	zap.S().Infow("medication created",
		"medicationId", med.ID.Hex(),
		"treatmentId", med.TreatmentID)

	m.Manager.OnMedicationCreated(ctx, treatment, &med)

	writeJSON(w, http.StatusCreated, med)
}

// UpdateMedicationHandler edits a medication and replaces its dose reminders
func (m Medication) UpdateMedicationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, treatment, ok := m.ownedMedication(w, r, userID)
	if !ok {
		return
	}

	updated := *existing
	updated.EndDate = cloneTime(existing.EndDate)
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	updated.ID = existing.ID
	updated.TreatmentID = existing.TreatmentID
	updated.CreatedAt = existing.CreatedAt
	if err := validateMedication(&updated, treatment); err != nil {
		config.ErrorStatus("invalid medication", http.StatusBadRequest, w, err)
		return
	}

	if err := m.DB.Update(ctx, &updated); err != nil {
		config.ErrorStatus("failed to update medication", lookupStatus(err), w, err)
		return
	}

	m.Manager.OnMedicationUpdated(ctx, treatment, &updated)

	writeJSON(w, http.StatusOK, updated)
}

// DeleteMedicationHandler removes a medication and its dose reminders
func (m Medication) DeleteMedicationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	med, _, ok := m.ownedMedication(w, r, userID)
	if !ok {
		return
	}
	if err := m.Manager.CascadeDeleteForMedication(ctx, med.ID.Hex()); err != nil {
		config.ErrorStatus("failed to delete medication", lookupStatus(err), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "medication deleted successfully"})
}

// ownedMedication loads the medication named in the route and the treatment
// it belongs to, answering 404 when the treatment is not the user's
func (m Medication) ownedMedication(w http.ResponseWriter, r *http.Request, userID string) (*models.Medication, *models.Treatment, bool) {
	medicationID := mux.Vars(r)["medication_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	med, err := m.DB.FindByID(ctx, medicationID)
	if err != nil {
		config.ErrorStatus("failed to get medication by ID", lookupStatus(err), w, err)
		return nil, nil, false
	}
	treatment, err := m.TDB.FindByID(ctx, med.TreatmentID, userID)
	if err != nil {
		config.ErrorStatus("failed to get medication by ID", lookupStatus(err), w, err)
		return nil, nil, false
	}
	return med, treatment, true
}

// validateMedication checks the required fields and defaults the start date
// to the treatment's
func validateMedication(med *models.Medication, t *models.Treatment) error {
	if strings.TrimSpace(med.Name) == "" {
		return errors.New("name is required")
	}
	if med.StartDate.IsZero() {
		med.StartDate = t.StartDate
	}
	return nil
}
