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
	"github.com/linesmerrill/pet-health-api/reminders"
)

// Vaccine exported for testing purposes
type Vaccine struct {
	DB      databases.VaccineDatabase
	PetDB   databases.PetDatabase
	Manager *reminders.Manager
}

// CreateVaccineHandler records a vaccination and schedules its booster
func (v Vaccine) CreateVaccineHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	var record models.VaccineRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validateVaccine(&record); err != nil {
		config.ErrorStatus("invalid vaccine record", http.StatusBadRequest, w, err)
		return
	}
	record.ID = primitive.NilObjectID
	record.UserID = userID

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := v.PetDB.FindByID(ctx, record.PetID, userID); err != nil {
		config.ErrorStatus("failed to get pet by ID", lookupStatus(err), w, err)
		return
	}
	if err := v.DB.InsertOne(ctx, &record); err != nil {
		config.ErrorStatus("failed to create vaccine record", http.StatusInternalServerError, w, err)
		return
	}
	zap.S().Infow("vaccine recorded",
		"vaccineRecordId", record.ID.Hex(),
		"petId", record.PetID)

	v.Manager.OnVaccineRecorded(ctx, &record)

	writeJSON(w, http.StatusCreated, record)
}

// VaccinesByPetIDHandler lists the vaccine records of a pet
func (v Vaccine) VaccinesByPetIDHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}
	petID := mux.Vars(r)["pet_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	records, err := v.DB.FindByPet(ctx, petID, userID)
	if err != nil {
		config.ErrorStatus("failed to get vaccine records", http.StatusInternalServerError, w, err)
		return
	}
	if records == nil {
		records = []models.VaccineRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// UpdateVaccineHandler edits a vaccine record and replaces its booster reminder
func (v Vaccine) UpdateVaccineHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}
	vaccineID := mux.Vars(r)["vaccine_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	existing, err := v.DB.FindByID(ctx, vaccineID, userID)
	if err != nil {
		config.ErrorStatus("failed to get vaccine record by ID", lookupStatus(err), w, err)
		return
	}

	updated := *existing
	updated.NextDueDate = cloneTime(existing.NextDueDate)
	updated.ValidUntil = cloneTime(existing.ValidUntil)
	if err = json.NewDecoder(r.Body).Decode(&updated); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	updated.ID = existing.ID
	updated.PetID = existing.PetID
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	if err = validateVaccine(&updated); err != nil {
		config.ErrorStatus("invalid vaccine record", http.StatusBadRequest, w, err)
		return
	}

	if err = v.DB.Update(ctx, &updated); err != nil {
		config.ErrorStatus("failed to update vaccine record", lookupStatus(err), w, err)
		return
	}

	v.Manager.OnVaccineUpdated(ctx, &updated)

	writeJSON(w, http.StatusOK, updated)
}

// DeleteVaccineHandler removes a vaccine record and its booster reminder
func (v Vaccine) DeleteVaccineHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}
	vaccineID := mux.Vars(r)["vaccine_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	record, err := v.DB.FindByID(ctx, vaccineID, userID)
	if err != nil {
		config.ErrorStatus("failed to get vaccine record by ID", lookupStatus(err), w, err)
		return
	}
	if err = v.Manager.CascadeDeleteForVaccine(ctx, record); err != nil {
		config.ErrorStatus("failed to delete vaccine record", lookupStatus(err), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "vaccine record deleted successfully"})
}

func validateVaccine(v *models.VaccineRecord) error {
	if strings.TrimSpace(v.PetID) == "" {
		return errors.New("petId is required")
	}
	if strings.TrimSpace(v.VaccineName) == "" {
		return errors.New("vaccineName is required")
	}
	if v.AdministrationDate.IsZero() {
		return errors.New("administrationDate is required")
	}
	if v.NextDueDate != nil && v.NextDueDate.Before(v.AdministrationDate) {
		return fmt.Errorf("nextDueDate %s is before administrationDate %s", v.NextDueDate, v.AdministrationDate)
	}
	return nil
}
