package reminders

import (
	"fmt"
	"time"

	"github.com/linesmerrill/pet-health-api/models"
)

const (
	// MaxDoseReminders bounds the reminders generated for one medication
	MaxDoseReminders = 1000

	// FallbackCourseDays is the course length assumed when neither the
	// medication nor its treatment has an end date
	FallbackCourseDays = 30

	followUpHour = 9
)

// ExpandTreatmentFollowUp builds the single follow-up reminder of a treatment.
// It is due at 09:00 on the end date, or on the start date while the
// treatment is open-ended.
func ExpandTreatmentFollowUp(t *models.Treatment) models.Reminder {
	due := t.StartDate
	title := fmt.Sprintf("Treatment: %s", t.Cause)
	description := "Check on the ongoing treatment"
	if t.EndDate != nil {
		due = *t.EndDate
		title += " - Follow-up"
		description = "Follow-up after the treatment is completed"
	}

	return models.Reminder{
		Title:             title,
		Description:       description,
		ReminderDate:      atHour(due, followUpHour),
		Priority:          models.PriorityMedium,
		ReminderType:      models.ReminderTypeTreatmentFollowUp,
		UserID:            t.UserID,
		PetID:             t.PetID,
		RelatedRecordID:   t.ID.Hex(),
		RelatedRecordType: models.RelatedTreatment,
	}
}

// DoseTimes expands a dosing course into due times. The course ends on the
// medication end date, else the treatment end date, else FallbackCourseDays
// after start, and always includes the whole final day. An unusable frequency
// still produces doses at the default interval; the returned Frequency carries
// the parse error.
func DoseTimes(start time.Time, end, treatmentEnd *time.Time, frequency string) ([]time.Time, Frequency) {
	freq := ParseFrequency(frequency)
	step := freq.Interval()
	last := courseEnd(start, end, treatmentEnd)

	times := []time.Time{}
	for i := 0; i < MaxDoseReminders; i++ {
		// i*step rather than a running sum, so 8h steps never drift
		due := start.Add(time.Duration(i) * step)
		if due.After(last) {
			break
		}
		times = append(times, due)
	}
	return times, freq
}

// ExpandMedicationDoses builds one reminder per dose of m. The reminders are
// related to the owning treatment and carry the medication id.
func ExpandMedicationDoses(t *models.Treatment, m *models.Medication) ([]models.Reminder, Frequency) {
	times, freq := DoseTimes(m.StartDate, m.EndDate, t.EndDate, m.Frequency)

	title := fmt.Sprintf("Medication: %s", m.Name)
	description := fmt.Sprintf("Give %s", m.Name)
	if m.Dosage != "" {
		title += fmt.Sprintf(" (%s)", m.Dosage)
		description += " - " + m.Dosage
	}
	if m.Frequency != "" {
		description += " - " + m.Frequency
	}

	doses := make([]models.Reminder, 0, len(times))
	for _, due := range times {
		doses = append(doses, models.Reminder{
			Title:             title,
			Description:       description,
			ReminderDate:      due,
			Priority:          models.PriorityHigh,
			ReminderType:      models.ReminderTypeMedication,
			UserID:            t.UserID,
			PetID:             t.PetID,
			RelatedRecordID:   t.ID.Hex(),
			RelatedRecordType: models.RelatedMedication,
			MedicationID:      m.ID.Hex(),
		})
	}
	return doses, freq
}

// ExpandVaccineBooster builds the booster reminder of a vaccine record. The
// second value is false when the record has no next due date.
func ExpandVaccineBooster(v *models.VaccineRecord) (models.Reminder, bool) {
	if v.NextDueDate == nil {
		return models.Reminder{}, false
	}
	return models.Reminder{
		Title:             fmt.Sprintf("Booster: %s", v.VaccineName),
		Description:       fmt.Sprintf("Time for the %s booster dose", v.VaccineName),
		ReminderDate:      *v.NextDueDate,
		Priority:          models.PriorityHigh,
		ReminderType:      models.ReminderTypeVaccineBooster,
		UserID:            v.UserID,
		PetID:             v.PetID,
		RelatedRecordID:   v.ID.Hex(),
		RelatedRecordType: models.RelatedVaccine,
	}, true
}

func courseEnd(start time.Time, end, treatmentEnd *time.Time) time.Time {
	var last time.Time
	switch {
	case end != nil:
		last = *end
	case treatmentEnd != nil:
		last = *treatmentEnd
	default:
		last = start.AddDate(0, 0, FallbackCourseDays)
	}
	return endOfDay(last)
}

func atHour(t time.Time, hour int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
