package reminders

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/linesmerrill/pet-health-api/models"
)

// ReminderStore is the part of the reminder database the manager writes to
type ReminderStore interface {
	InsertOne(ctx context.Context, reminder *models.Reminder) error
	InsertMany(ctx context.Context, reminders []models.Reminder) error
	DeleteByRelation(ctx context.Context, recordID, recordType string) (int64, error)
	DeleteByMedication(ctx context.Context, medicationID string) (int64, error)
}

// TreatmentStore loads and deletes treatments. Delete must also remove the
// treatment's medications.
type TreatmentStore interface {
	FindByID(ctx context.Context, id, userID string) (*models.Treatment, error)
	Delete(ctx context.Context, id string) error
}

// MedicationStore loads and deletes medications
type MedicationStore interface {
	FindByTreatment(ctx context.Context, treatmentID string) ([]models.Medication, error)
	DeleteOne(ctx context.Context, id string) error
}

// VaccineStore deletes vaccine records
type VaccineStore interface {
	DeleteOne(ctx context.Context, id, userID string) error
}

// Manager keeps derived reminders in step with the records they come from.
//
// The On* methods run after the record write has committed and never report
// failure: the record is authoritative and its reminders are best effort, so
// errors are logged with the record id and swallowed. The Cascade* and
// Regenerate* methods are called in place of a plain delete or by internal
// callers and do return errors.
type Manager struct {
	Reminders   ReminderStore
	Treatments  TreatmentStore
	Medications MedicationStore
	Vaccines    VaccineStore
}

// NewManager wires a Manager to its stores
func NewManager(r ReminderStore, t TreatmentStore, m MedicationStore, v VaccineStore) *Manager {
	return &Manager{
		Reminders:   r,
		Treatments:  t,
		Medications: m,
		Vaccines:    v,
	}
}

// OnTreatmentCreated generates the follow-up reminder and the dose reminders
// of every medication of a freshly committed treatment
func (m *Manager) OnTreatmentCreated(ctx context.Context, t *models.Treatment, meds []models.Medication) {
	if err := m.createFollowUp(ctx, t); err != nil {
		zap.S().Errorw("failed to create treatment reminders",
			"treatmentId", t.ID.Hex(),
			"error", err)
	}
	for i := range meds {
		m.OnMedicationCreated(ctx, t, &meds[i])
	}
}

// OnTreatmentUpdated regenerates the follow-up reminder when the treatment
// dates moved. Dose reminders are left alone; they only follow direct
// medication edits.
func (m *Manager) OnTreatmentUpdated(ctx context.Context, before, after *models.Treatment) {
	if !after.DatesChanged(before) {
		return
	}
	if err := m.regenerateFollowUp(ctx, after); err != nil {
		zap.S().Errorw("failed to regenerate treatment reminders",
			"treatmentId", after.ID.Hex(),
			"error", err)
	}
}

// RegenerateForTreatment replaces the follow-up reminder of a treatment with
// one built from its current dates
func (m *Manager) RegenerateForTreatment(ctx context.Context, treatmentID string) error {
	t, err := m.Treatments.FindByID(ctx, treatmentID, "")
	if err != nil {
		return fmt.Errorf("failed to load treatment %s: %w", treatmentID, err)
	}
	return m.regenerateFollowUp(ctx, t)
}

// CascadeDeleteForTreatment removes the dose reminders of every medication,
// then the follow-up reminder, then the treatment itself. The treatment is
// kept when any cleanup step fails so that no reminder is left pointing at a
// deleted record.
func (m *Manager) CascadeDeleteForTreatment(ctx context.Context, treatmentID string) error {
	meds, err := m.Medications.FindByTreatment(ctx, treatmentID)
	if err != nil {
		return fmt.Errorf("failed to load medications of treatment %s: %w", treatmentID, err)
	}
	for _, med := range meds {
		if _, err := m.Reminders.DeleteByMedication(ctx, med.ID.Hex()); err != nil {
			return err
		}
	}
	if _, err := m.Reminders.DeleteByRelation(ctx, treatmentID, models.RelatedTreatment); err != nil {
		return err
	}
	if err := m.Treatments.Delete(ctx, treatmentID); err != nil {
		return fmt.Errorf("failed to delete treatment %s: %w", treatmentID, err)
	}
	zap.S().Infow("treatment deleted",
		"treatmentId", treatmentID,
		"medications", len(meds))
	return nil
}

// CascadeDeleteForMedication removes the dose reminders of a medication and
// then the medication
func (m *Manager) CascadeDeleteForMedication(ctx context.Context, medicationID string) error {
	if _, err := m.Reminders.DeleteByMedication(ctx, medicationID); err != nil {
		return err
	}
	if err := m.Medications.DeleteOne(ctx, medicationID); err != nil {
		return fmt.Errorf("failed to delete medication %s: %w", medicationID, err)
	}
	return nil
}

// OnMedicationCreated generates the dose reminders of a committed medication
func (m *Manager) OnMedicationCreated(ctx context.Context, t *models.Treatment, med *models.Medication) {
	if err := m.createDoses(ctx, t, med); err != nil {
		zap.S().Errorw("failed to create medication reminders",
			"treatmentId", t.ID.Hex(),
			"medicationId", med.ID.Hex(),
			"error", err)
	}
}

// OnMedicationUpdated replaces the dose reminders of an edited medication
func (m *Manager) OnMedicationUpdated(ctx context.Context, t *models.Treatment, med *models.Medication) {
	err := m.replaceDoses(ctx, t, med)
	if err != nil {
		zap.S().Errorw("failed to regenerate medication reminders",
			"treatmentId", t.ID.Hex(),
			"medicationId", med.ID.Hex(),
			"error", err)
	}
}

// OnVaccineRecorded creates the booster reminder of a vaccine record, if it
// has a next due date
func (m *Manager) OnVaccineRecorded(ctx context.Context, v *models.VaccineRecord) {
	if err := m.createBooster(ctx, v); err != nil {
		zap.S().Errorw("failed to create booster reminder",
			"vaccineRecordId", v.ID.Hex(),
			"error", err)
	}
}

// OnVaccineUpdated replaces the booster reminder of a vaccine record
func (m *Manager) OnVaccineUpdated(ctx context.Context, v *models.VaccineRecord) {
	if _, err := m.Reminders.DeleteByRelation(ctx, v.ID.Hex(), models.RelatedVaccine); err != nil {
		zap.S().Errorw("failed to clear booster reminder",
			"vaccineRecordId", v.ID.Hex(),
			"error", err)
		return
	}
	m.OnVaccineRecorded(ctx, v)
}

// CascadeDeleteForVaccine removes the booster reminder and then the record
func (m *Manager) CascadeDeleteForVaccine(ctx context.Context, v *models.VaccineRecord) error {
	if _, err := m.Reminders.DeleteByRelation(ctx, v.ID.Hex(), models.RelatedVaccine); err != nil {
		return err
	}
	if err := m.Vaccines.DeleteOne(ctx, v.ID.Hex(), v.UserID); err != nil {
		return fmt.Errorf("failed to delete vaccine record %s: %w", v.ID.Hex(), err)
	}
	return nil
}

func (m *Manager) regenerateFollowUp(ctx context.Context, t *models.Treatment) error {
	if _, err := m.Reminders.DeleteByRelation(ctx, t.ID.Hex(), models.RelatedTreatment); err != nil {
		return err
	}
	return m.createFollowUp(ctx, t)
}

func (m *Manager) createFollowUp(ctx context.Context, t *models.Treatment) error {
	followUp := ExpandTreatmentFollowUp(t)
	return m.Reminders.InsertOne(ctx, &followUp)
}

func (m *Manager) replaceDoses(ctx context.Context, t *models.Treatment, med *models.Medication) error {
	if _, err := m.Reminders.DeleteByMedication(ctx, med.ID.Hex()); err != nil {
		return err
	}
	return m.createDoses(ctx, t, med)
}

func (m *Manager) createDoses(ctx context.Context, t *models.Treatment, med *models.Medication) error {
	doses, freq := ExpandMedicationDoses(t, med)
	if !freq.Valid() {
		zap.S().Warnw("invalid medication frequency, using default interval",
			"medicationId", med.ID.Hex(),
			"frequency", med.Frequency,
			"intervalHours", freq.Hours,
			"error", freq.Err)
	}
	if err := m.Reminders.InsertMany(ctx, doses); err != nil {
		return err
	}
	zap.S().Debugw("medication reminders created",
		"medicationId", med.ID.Hex(),
		"count", len(doses))
	return nil
}

func (m *Manager) createBooster(ctx context.Context, v *models.VaccineRecord) error {
	booster, ok := ExpandVaccineBooster(v)
	if !ok {
		return nil
	}
	return m.Reminders.InsertOne(ctx, &booster)
}
