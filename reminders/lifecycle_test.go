package reminders_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/pet-health-api/databases"
	"github.com/linesmerrill/pet-health-api/models"
	"github.com/linesmerrill/pet-health-api/reminders"
)

// memDB is an in-memory stand-in for the mongo collections the manager uses
type memDB struct {
	reminders   []models.Reminder
	treatments  map[string]models.Treatment
	medications map[string]models.Medication
	vaccines    map[string]models.VaccineRecord

	insertManyErr error
	deleteMedErr  error
}

func newMemDB() *memDB {
	return &memDB{
		treatments:  map[string]models.Treatment{},
		medications: map[string]models.Medication{},
		vaccines:    map[string]models.VaccineRecord{},
	}
}

func (db *memDB) InsertOne(_ context.Context, r *models.Reminder) error {
	r.ID = primitive.NewObjectID()
	db.reminders = append(db.reminders, *r)
	return nil
}

func (db *memDB) InsertMany(_ context.Context, rs []models.Reminder) error {
	if db.insertManyErr != nil {
		return db.insertManyErr
	}
	for i := range rs {
		rs[i].ID = primitive.NewObjectID()
	}
	db.reminders = append(db.reminders, rs...)
	return nil
}

func (db *memDB) DeleteByRelation(_ context.Context, recordID, recordType string) (int64, error) {
	return db.deleteWhere(func(r models.Reminder) bool {
		return r.RelatedRecordID == recordID && r.RelatedRecordType == recordType
	}), nil
}

func (db *memDB) DeleteByMedication(_ context.Context, medicationID string) (int64, error) {
	if db.deleteMedErr != nil {
		return 0, db.deleteMedErr
	}
	return db.deleteWhere(func(r models.Reminder) bool {
		return r.MedicationID == medicationID
	}), nil
}

func (db *memDB) deleteWhere(match func(models.Reminder) bool) int64 {
	kept := db.reminders[:0]
	var n int64
	for _, r := range db.reminders {
		if match(r) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	db.reminders = kept
	return n
}

func (db *memDB) where(match func(models.Reminder) bool) []models.Reminder {
	var out []models.Reminder
	for _, r := range db.reminders {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

func (db *memDB) relatedTo(id string) []models.Reminder {
	return db.where(func(r models.Reminder) bool { return r.RelatedRecordID == id })
}

type memTreatments struct{ db *memDB }

func (s memTreatments) FindByID(_ context.Context, id, _ string) (*models.Treatment, error) {
	t, ok := s.db.treatments[id]
	if !ok {
		return nil, databases.ErrNotFound
	}
	return &t, nil
}

func (s memTreatments) Delete(_ context.Context, id string) error {
	if _, ok := s.db.treatments[id]; !ok {
		return databases.ErrNotFound
	}
	delete(s.db.treatments, id)
	for medID, m := range s.db.medications {
		if m.TreatmentID == id {
			delete(s.db.medications, medID)
		}
	}
	return nil
}

type memMedications struct{ db *memDB }

func (s memMedications) FindByTreatment(_ context.Context, treatmentID string) ([]models.Medication, error) {
	meds := []models.Medication{}
	for _, m := range s.db.medications {
		if m.TreatmentID == treatmentID {
			meds = append(meds, m)
		}
	}
	return meds, nil
}

func (s memMedications) DeleteOne(_ context.Context, id string) error {
	if _, ok := s.db.medications[id]; !ok {
		return databases.ErrNotFound
	}
	delete(s.db.medications, id)
	return nil
}

type memVaccines struct{ db *memDB }

func (s memVaccines) DeleteOne(_ context.Context, id, _ string) error {
	if _, ok := s.db.vaccines[id]; !ok {
		return databases.ErrNotFound
	}
	delete(s.db.vaccines, id)
	return nil
}

func newManager(db *memDB) *reminders.Manager {
	return reminders.NewManager(db, memTreatments{db}, memMedications{db}, memVaccines{db})
}

// commitTreatment does what the treatment database does inside its transaction
func commitTreatment(db *memDB, t *models.Treatment, meds []models.Medication) {
	t.ID = primitive.NewObjectID()
	db.treatments[t.ID.Hex()] = *t
	for i := range meds {
		meds[i].ID = primitive.NewObjectID()
		meds[i].TreatmentID = t.ID.Hex()
		db.medications[meds[i].ID.Hex()] = meds[i]
	}
}

type reminderShape struct {
	Title        string
	ReminderDate time.Time
	Type         models.ReminderType
	Relation     string
}

func shapes(rs []models.Reminder) []reminderShape {
	out := make([]reminderShape, 0, len(rs))
	for _, r := range rs {
		out = append(out, reminderShape{r.Title, r.ReminderDate, r.ReminderType, r.RelatedRecordType})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReminderDate.Equal(out[j].ReminderDate) {
			return out[i].ReminderDate.Before(out[j].ReminderDate)
		}
		return out[i].Title < out[j].Title
	})
	return out
}

func amoxicillinTreatment(db *memDB) (*models.Treatment, []models.Medication) {
	t := &models.Treatment{
		PetID:     "pet-1",
		UserID:    "user-1",
		Cause:     "Otitis",
		StartDate: date(2024, 1, 1, 0),
	}
	meds := []models.Medication{{
		Name:      "Amoxicillin",
		Dosage:    "250mg",
		Frequency: "A cada 12h",
		StartDate: date(2024, 1, 1, 12),
	}}
	commitTreatment(db, t, meds)
	return t, meds
}

func TestManager_OnTreatmentCreated(t *testing.T) {
	db := newMemDB()
	m := newManager(db)
	treatment, meds := amoxicillinTreatment(db)

	m.OnTreatmentCreated(context.Background(), treatment, meds)

	followUps := db.where(func(r models.Reminder) bool {
		return r.ReminderType == models.ReminderTypeTreatmentFollowUp
	})
	require.Len(t, followUps, 1)
	assert.Equal(t, date(2024, 1, 1, 9), followUps[0].ReminderDate)

	doses := db.where(func(r models.Reminder) bool { return r.MedicationID == meds[0].ID.Hex() })
	assert.Len(t, doses, 61)
	assert.Len(t, db.reminders, 62)
}

func TestManager_OnTreatmentCreated_GenerationFailureIsSwallowed(t *testing.T) {
	db := newMemDB()
	db.insertManyErr = errors.New("mongo unavailable")
	m := newManager(db)
	treatment, meds := amoxicillinTreatment(db)

	assert.NotPanics(t, func() {
		m.OnTreatmentCreated(context.Background(), treatment, meds)
	})
	assert.Len(t, db.reminders, 1, "the follow-up is written even though the doses failed")
	assert.Contains(t, db.treatments, treatment.ID.Hex())
}

func TestManager_OnTreatmentCreated_InvalidFrequencyUsesDefault(t *testing.T) {
	db := newMemDB()
	m := newManager(db)
	end := date(2024, 1, 3, 0)
	treatment := &models.Treatment{Cause: "Cough", StartDate: date(2024, 1, 1, 0), EndDate: &end}
	meds := []models.Medication{{Name: "Syrup", Frequency: "when needed", StartDate: date(2024, 1, 1, 20)}}
	commitTreatment(db, treatment, meds)

	m.OnTreatmentCreated(context.Background(), treatment, meds)

	doses := db.where(func(r models.Reminder) bool { return r.ReminderType == models.ReminderTypeMedication })
	assert.Len(t, doses, 3)
}

func TestManager_RegenerateForTreatment_Idempotent(t *testing.T) {
	db := newMemDB()
	m := newManager(db)
	treatment, meds := amoxicillinTreatment(db)
	ctx := context.Background()

	m.OnTreatmentCreated(ctx, treatment, meds)
	before := shapes(db.reminders)

	require.NoError(t, m.RegenerateForTreatment(ctx, treatment.ID.Hex()))
	m.OnMedicationUpdated(ctx, treatment, &meds[0])

	assert.Equal(t, before, shapes(db.reminders))
}

func TestManager_RegenerateForTreatment_NotFound(t *testing.T) {
	m := newManager(newMemDB())
	err := m.RegenerateForTreatment(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, databases.ErrNotFound)
}

func TestManager_OnTreatmentUpdated_MovesFollowUpOnly(t *testing.T) {
	db := newMemDB()
	m := newManager(db)
	treatment, meds := amoxicillinTreatment(db)
	ctx := context.Background()
	m.OnTreatmentCreated(ctx, treatment, meds)
	doseShapes := shapes(db.where(func(r models.Reminder) bool { return r.MedicationID != "" }))

	updated := *treatment
	end := date(2024, 1, 10, 16)
	updated.EndDate = &end
	m.OnTreatmentUpdated(ctx, treatment, &updated)

	followUps := db.where(func(r models.Reminder) bool { return r.RelatedRecordType == models.RelatedTreatment })
	require.Len(t, followUps, 1)
	assert.Equal(t, date(2024, 1, 10, 9), followUps[0].ReminderDate)
	assert.Equal(t, "Treatment: Otitis - Follow-up", followUps[0].Title)

	// dose reminders still follow the old 30 day fallback; only a medication
	// edit regenerates them
	assert.Equal(t, doseShapes, shapes(db.where(func(r models.Reminder) bool { return r.MedicationID != "" })))
}

func TestManager_OnTreatmentUpdated_SameDates(t *testing.T) {
	db := newMemDB()
	m := newManager(db)
	treatment, _ := amoxicillinTreatment(db)
	ctx := context.Background()
	m.OnTreatmentCreated(ctx, treatment, nil)
	id := db.reminders[0].ID

	updated := *treatment
	updated.Cause = "Ear infection"
	m.OnTreatmentUpdated(ctx, treatment, &updated)

	require.Len(t, db.reminders, 1)
	assert.Equal(t, id, db.reminders[0].ID)
}

func TestManager_CascadeDeleteForTreatment(t *testing.T) {
	db := newMemDB()
	m := newManager(db)
	ctx := context.Background()
	end := date(2024, 1, 5, 0)
	treatment := &models.Treatment{Cause: "Infection", StartDate: date(2024, 1, 1, 0), EndDate: &end}
	meds := []models.Medication{
		{Name: "Amoxicillin", Frequency: "A cada 12h", StartDate: date(2024, 1, 1, 0)},
		{Name: "Meloxicam", Frequency: "2 vezes ao dia", StartDate: date(2024, 1, 1, 0)},
	}
	commitTreatment(db, treatment, meds)
	m.OnTreatmentCreated(ctx, treatment, meds)
	for _, med := range meds {
		require.Len(t, db.where(func(r models.Reminder) bool { return r.MedicationID == med.ID.Hex() }), 10)
	}
	require.Len(t, db.reminders, 21)

	// a reminder of another treatment survives
	other := &models.Treatment{Cause: "Checkup", StartDate: date(2024, 2, 1, 0)}
	commitTreatment(db, other, nil)
	m.OnTreatmentCreated(ctx, other, nil)

	require.NoError(t, m.CascadeDeleteForTreatment(ctx, treatment.ID.Hex()))

	assert.Empty(t, db.relatedTo(treatment.ID.Hex()))
	assert.NotContains(t, db.treatments, treatment.ID.Hex())
	assert.Empty(t, db.medications)
	assert.Len(t, db.reminders, 1)
	assert.Equal(t, other.ID.Hex(), db.reminders[0].RelatedRecordID)
}

func TestManager_CascadeDeleteForTreatment_CleanupFailureKeepsRecord(t *testing.T) {
	db := newMemDB()
	m := newManager(db)
	ctx := context.Background()
	treatment, meds := amoxicillinTreatment(db)
	m.OnTreatmentCreated(ctx, treatment, meds)
	db.deleteMedErr = errors.New("mongo unavailable")

	err := m.CascadeDeleteForTreatment(ctx, treatment.ID.Hex())

	assert.EqualError(t, err, "mongo unavailable")
	assert.Contains(t, db.treatments, treatment.ID.Hex())
	assert.Len(t, db.reminders, 62)
}

func TestManager_CascadeDeleteForMedication(t *testing.T) {
	db := newMemDB()
	m := newManager(db)
	ctx := context.Background()
	end := date(2024, 1, 5, 0)
	treatment := &models.Treatment{Cause: "Infection", StartDate: date(2024, 1, 1, 0), EndDate: &end}
	meds := []models.Medication{
		{Name: "Amoxicillin", Frequency: "A cada 12h", StartDate: date(2024, 1, 1, 0)},
		{Name: "Meloxicam", Frequency: "Diariamente", StartDate: date(2024, 1, 1, 0)},
	}
	commitTreatment(db, treatment, meds)
	m.OnTreatmentCreated(ctx, treatment, meds)

	require.NoError(t, m.CascadeDeleteForMedication(ctx, meds[0].ID.Hex()))

	assert.Empty(t, db.where(func(r models.Reminder) bool { return r.MedicationID == meds[0].ID.Hex() }))
	assert.Len(t, db.where(func(r models.Reminder) bool { return r.MedicationID == meds[1].ID.Hex() }), 5)
	assert.NotContains(t, db.medications, meds[0].ID.Hex())
	assert.Contains(t, db.treatments, treatment.ID.Hex())

	err := m.CascadeDeleteForMedication(ctx, meds[0].ID.Hex())
	assert.ErrorIs(t, err, databases.ErrNotFound)
}

func TestManager_OnMedicationUpdated_ReplacesDoses(t *testing.T) {
	db := newMemDB()
	m := newManager(db)
	ctx := context.Background()
	treatment, meds := amoxicillinTreatment(db)
	m.OnTreatmentCreated(ctx, treatment, meds)

	med := meds[0]
	med.Frequency = "Diariamente"
	medEnd := date(2024, 1, 3, 0)
	med.EndDate = &medEnd
	m.OnMedicationUpdated(ctx, treatment, &med)

	doses := db.where(func(r models.Reminder) bool { return r.MedicationID == med.ID.Hex() })
	assert.Len(t, doses, 3)
	assert.Len(t, db.reminders, 4)
}

func TestManager_VaccineBooster(t *testing.T) {
	db := newMemDB()
	m := newManager(db)
	ctx := context.Background()

	noBooster := models.VaccineRecord{ID: primitive.NewObjectID(), VaccineName: "Leptospirosis"}
	m.OnVaccineRecorded(ctx, &noBooster)
	assert.Empty(t, db.reminders)

	v := models.VaccineRecord{ID: primitive.NewObjectID(), UserID: "u", VaccineName: "Rabies", NextDueDate: ptr(date(2025, 1, 1, 0))}
	db.vaccines[v.ID.Hex()] = v
	m.OnVaccineRecorded(ctx, &v)
	require.Len(t, db.reminders, 1)

	v.NextDueDate = ptr(date(2025, 3, 1, 0))
	m.OnVaccineUpdated(ctx, &v)
	require.Len(t, db.reminders, 1)
	assert.Equal(t, date(2025, 3, 1, 0), db.reminders[0].ReminderDate)

	require.NoError(t, m.CascadeDeleteForVaccine(ctx, &v))
	assert.Empty(t, db.reminders)
	assert.NotContains(t, db.vaccines, v.ID.Hex())
}
