package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/pet-health-api/api"
	"github.com/linesmerrill/pet-health-api/config"
	"github.com/linesmerrill/pet-health-api/databases"
	"github.com/linesmerrill/pet-health-api/models"
)

const (
	defaultLookaheadMinutes = 5
	maxLookaheadMinutes     = 24 * 60
)

// DueLister answers on-demand due reminder queries
type DueLister interface {
	DueReminders(ctx context.Context, lookahead time.Duration) ([]models.Reminder, error)
}

// Reminder exported for testing purposes
type Reminder struct {
	DB    databases.ReminderDatabase
	PetDB databases.PetDatabase
	Due   DueLister
}

// RemindersHandler lists reminders with optional petId, reminderType,
// priority, isCompleted and isUnread filters
func (rm Reminder) RemindersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	filter, err := reminderFilterFromQuery(r)
	if err != nil {
		config.ErrorStatus("invalid reminder filter", http.StatusBadRequest, w, err)
		return
	}
	filter.UserID = userID
	rm.list(w, r, filter)
}

// UnreadRemindersHandler lists reminders that are neither viewed nor completed
func (rm Reminder) UnreadRemindersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}
	unread, completed := true, false
	rm.list(w, r, models.ReminderFilter{
		UserID:      userID,
		IsUnread:    &unread,
		IsCompleted: &completed,
	})
}

// PetRemindersHandler lists the reminders of one pet
func (rm Reminder) PetRemindersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}
	petID := mux.Vars(r)["pet_id"]

	filter, err := reminderFilterFromQuery(r)
	if err != nil {
		config.ErrorStatus("invalid reminder filter", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	if _, err = rm.PetDB.FindByID(ctx, petID, userID); err != nil {
		config.ErrorStatus("failed to get pet by ID", lookupStatus(err), w, err)
		return
	}

	filter.UserID = userID
	filter.PetID = petID
	rm.list(w, r, filter)
}

func (rm Reminder) list(w http.ResponseWriter, r *http.Request, filter models.ReminderFilter) {
	page, limit := pageParams(r)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := rm.DB.List(ctx, filter, page, limit)
	if err != nil {
		config.ErrorStatus("failed to get reminders", http.StatusInternalServerError, w, err)
		return
	}
	if resp.Reminders == nil {
		resp.Reminders = []models.Reminder{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// DueRemindersHandler returns the user's incomplete reminders due within the
// next lookahead_minutes (default 5)
func (rm Reminder) DueRemindersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	minutes, err := getInt64Param(r, "lookahead_minutes", defaultLookaheadMinutes)
	if err != nil {
		config.ErrorStatus("invalid lookahead_minutes", http.StatusBadRequest, w, err)
		return
	}
	if minutes < 1 || minutes > maxLookaheadMinutes {
		config.ErrorStatus("invalid lookahead_minutes", http.StatusBadRequest, w,
			fmt.Errorf("lookahead_minutes must be between 1 and %d, got %d", maxLookaheadMinutes, minutes))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	due, err := rm.Due.DueReminders(ctx, time.Duration(minutes)*time.Minute)
	if err != nil {
		config.ErrorStatus("failed to get due reminders", http.StatusInternalServerError, w, err)
		return
	}

	mine := []models.Reminder{}
	for _, reminder := range due {
		if reminder.UserID == userID {
			mine = append(mine, reminder)
		}
	}
	writeJSON(w, http.StatusOK, mine)
}

// ReminderByIDHandler returns a single reminder
func (rm Reminder) ReminderByIDHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	reminder, err := rm.DB.FindByID(ctx, mux.Vars(r)["reminder_id"], userID)
	if err != nil {
		config.ErrorStatus("failed to get reminder by ID", lookupStatus(err), w, err)
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}

// CreateReminderHandler stores a reminder entered by the user
func (rm Reminder) CreateReminderHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	var reminder models.Reminder
	if err := json.NewDecoder(r.Body).Decode(&reminder); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	reminder.ID = primitive.NilObjectID
	reminder.UserID = userID
	if reminder.Priority == "" {
		reminder.Priority = models.PriorityMedium
	}
	if reminder.ReminderType == "" {
		reminder.ReminderType = models.ReminderTypeGeneral
	}
	syncCompletion(&reminder)
	if err := reminder.Validate(); err != nil {
		config.ErrorStatus("invalid reminder", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if reminder.PetID != "" {
		if _, err := rm.PetDB.FindByID(ctx, reminder.PetID, userID); err != nil {
			config.ErrorStatus("failed to get pet by ID", lookupStatus(err), w, err)
			return
		}
	}
	if err := rm.DB.InsertOne(ctx, &reminder); err != nil {
		config.ErrorStatus("failed to create reminder", http.StatusInternalServerError, w, err)
		return
	}
	zap.S().Infow("reminder created", "reminderId", reminder.ID.Hex(), "userId", userID)
	writeJSON(w, http.StatusCreated, reminder)
}

// UpdateReminderHandler edits a reminder. The owner and the record it was
// derived from cannot change.
func (rm Reminder) UpdateReminderHandler(w http.ResponseWriter, r *http.Request) {
	rm.modify(w, r, func(reminder *models.Reminder, r *http.Request) error {
		existing := *reminder
		if err := json.NewDecoder(r.Body).Decode(reminder); err != nil {
			return err
		}
		reminder.ID = existing.ID
		reminder.UserID = existing.UserID
		reminder.RelatedRecordID = existing.RelatedRecordID
		reminder.RelatedRecordType = existing.RelatedRecordType
		reminder.MedicationID = existing.MedicationID
		reminder.CreatedAt = existing.CreatedAt
		syncCompletion(reminder)
		return nil
	})
}

// CompleteReminderHandler marks a reminder as completed
func (rm Reminder) CompleteReminderHandler(w http.ResponseWriter, r *http.Request) {
	rm.modify(w, r, func(reminder *models.Reminder, _ *http.Request) error {
		reminder.IsCompleted = true
		syncCompletion(reminder)
		return nil
	})
}

// IncompleteReminderHandler clears the completion of a reminder
func (rm Reminder) IncompleteReminderHandler(w http.ResponseWriter, r *http.Request) {
	rm.modify(w, r, func(reminder *models.Reminder, _ *http.Request) error {
		reminder.IsCompleted = false
		syncCompletion(reminder)
		return nil
	})
}

// ViewedReminderHandler records the first time a reminder was seen
func (rm Reminder) ViewedReminderHandler(w http.ResponseWriter, r *http.Request) {
	rm.modify(w, r, func(reminder *models.Reminder, _ *http.Request) error {
		if reminder.ViewedAt == nil {
			now := time.Now()
			reminder.ViewedAt = &now
		}
		return nil
	})
}

// DeleteReminderHandler removes a reminder
func (rm Reminder) DeleteReminderHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := rm.DB.DeleteOne(ctx, mux.Vars(r)["reminder_id"], userID); err != nil {
		config.ErrorStatus("failed to delete reminder", lookupStatus(err), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "reminder deleted successfully"})
}

// modify loads the user's reminder, applies change and stores the result
func (rm Reminder) modify(w http.ResponseWriter, r *http.Request, change func(*models.Reminder, *http.Request) error) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	reminder, err := rm.DB.FindByID(ctx, mux.Vars(r)["reminder_id"], userID)
	if err != nil {
		config.ErrorStatus("failed to get reminder by ID", lookupStatus(err), w, err)
		return
	}
	if err = change(reminder, r); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err = reminder.Validate(); err != nil {
		config.ErrorStatus("invalid reminder", http.StatusBadRequest, w, err)
		return
	}
	if err = rm.DB.Update(ctx, reminder); err != nil {
		config.ErrorStatus("failed to update reminder", lookupStatus(err), w, err)
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}

// syncCompletion keeps completedAt set exactly when the reminder is completed
func syncCompletion(reminder *models.Reminder) {
	if !reminder.IsCompleted {
		reminder.CompletedAt = nil
		return
	}
	if reminder.CompletedAt == nil {
		now := time.Now()
		reminder.CompletedAt = &now
	}
}

func reminderFilterFromQuery(r *http.Request) (models.ReminderFilter, error) {
	q := r.URL.Query()
	filter := models.ReminderFilter{
		PetID:        q.Get("petId"),
		ReminderType: models.ReminderType(q.Get("reminderType")),
		Priority:     models.Priority(q.Get("priority")),
	}
	if filter.ReminderType != "" && !filter.ReminderType.Valid() {
		return filter, fmt.Errorf("unknown reminderType %q", filter.ReminderType)
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return filter, fmt.Errorf("unknown priority %q", filter.Priority)
	}

	var err error
	if filter.IsCompleted, err = getBoolParam(r, "isCompleted"); err != nil {
		return filter, fmt.Errorf("invalid isCompleted: %w", err)
	}
	if filter.IsUnread, err = getBoolParam(r, "isUnread"); err != nil {
		return filter, fmt.Errorf("invalid isUnread: %w", err)
	}
	return filter, nil
}
