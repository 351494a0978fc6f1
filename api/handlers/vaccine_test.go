package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/pet-health-api/api/handlers"
	"github.com/linesmerrill/pet-health-api/databases"
	"github.com/linesmerrill/pet-health-api/models"
)

func vaccineHandler(s stores) handlers.Vaccine {
	return handlers.Vaccine{DB: s.vaccines, PetDB: s.pets, Manager: s.manager()}
}

func TestVaccine_CreateVaccineHandler(t *testing.T) {
	t.Run("with booster", func(t *testing.T) {
		s := newStores()
		s.pets.On("FindByID", mock.Anything, "pet-1", testUserID).Return(&models.Pet{}, nil)
		s.vaccines.On("InsertOne", mock.Anything, mock.AnythingOfType("*models.VaccineRecord")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.VaccineRecord).ID = primitive.NewObjectID()
			}).Return(nil)
		s.reminders.On("InsertOne", mock.Anything, mock.MatchedBy(func(r *models.Reminder) bool {
			return r.Title == "Booster: Rabies" && r.ReminderDate.Equal(day(2025, 3, 1, 0)) && r.UserID == testUserID
		})).Return(nil)

		body := `{"petId": "pet-1", "vaccineName": "Rabies", "administrationDate": "2024-03-01T00:00:00Z", "nextDueDate": "2025-03-01T00:00:00Z"}`
		req := authedRequest(t, "POST", "/api/v1/vaccines", body, nil)
		rr := serve(vaccineHandler(s).CreateVaccineHandler, req)

		assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		s.reminders.AssertExpectations(t)
	})

	t.Run("without next due date", func(t *testing.T) {
		s := newStores()
		s.pets.On("FindByID", mock.Anything, "pet-1", testUserID).Return(&models.Pet{}, nil)
		s.vaccines.On("InsertOne", mock.Anything, mock.Anything).Return(nil)

		body := `{"petId": "pet-1", "vaccineName": "V10", "administrationDate": "2024-03-01T00:00:00Z"}`
		req := authedRequest(t, "POST", "/api/v1/vaccines", body, nil)
		rr := serve(vaccineHandler(s).CreateVaccineHandler, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		s.reminders.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
	})

	t.Run("next due before administration", func(t *testing.T) {
		s := newStores()
		body := `{"petId": "pet-1", "vaccineName": "V10", "administrationDate": "2024-03-01T00:00:00Z", "nextDueDate": "2024-01-01T00:00:00Z"}`
		req := authedRequest(t, "POST", "/api/v1/vaccines", body, nil)
		rr := serve(vaccineHandler(s).CreateVaccineHandler, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestVaccine_UpdateVaccineHandler(t *testing.T) {
	s := newStores()
	id := primitive.NewObjectID()
	existing := &models.VaccineRecord{ID: id, PetID: "pet-1", UserID: testUserID, VaccineName: "Rabies", AdministrationDate: day(2024, 3, 1, 0)}
	s.vaccines.On("FindByID", mock.Anything, id.Hex(), testUserID).Return(existing, nil)
	s.vaccines.On("Update", mock.Anything, mock.Anything).Return(nil)
	s.reminders.On("DeleteByRelation", mock.Anything, id.Hex(), models.RelatedVaccine).Return(int64(1), nil)
	s.reminders.On("InsertOne", mock.Anything, mock.MatchedBy(func(r *models.Reminder) bool {
		return r.ReminderDate.Equal(day(2025, 4, 1, 0)) && r.RelatedRecordID == id.Hex()
	})).Return(nil)

	req := authedRequest(t, "PUT", "/api/v1/vaccines/"+id.Hex(), `{"nextDueDate": "2025-04-01T00:00:00Z"}`, map[string]string{"vaccine_id": id.Hex()})
	rr := serve(vaccineHandler(s).UpdateVaccineHandler, req)

	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	s.reminders.AssertExpectations(t)
}

func TestVaccine_UpdateVaccineHandlerKeepsStoredRecord(t *testing.T) {
	s := newStores()
	id := primitive.NewObjectID()
	due := day(2025, 3, 1, 0)
	existing := &models.VaccineRecord{ID: id, PetID: "pet-1", UserID: testUserID, VaccineName: "Rabies", AdministrationDate: day(2024, 3, 1, 0), NextDueDate: &due}
	s.vaccines.On("FindByID", mock.Anything, id.Hex(), testUserID).Return(existing, nil)
	s.vaccines.On("Update", mock.Anything, mock.Anything).Return(nil)
	s.reminders.On("DeleteByRelation", mock.Anything, id.Hex(), models.RelatedVaccine).Return(int64(1), nil)
	s.reminders.On("InsertOne", mock.Anything, mock.Anything).Return(nil)

	req := authedRequest(t, "PUT", "/api/v1/vaccines/"+id.Hex(), `{"nextDueDate": "2025-06-01T00:00:00Z"}`, map[string]string{"vaccine_id": id.Hex()})
	rr := serve(vaccineHandler(s).UpdateVaccineHandler, req)

	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, existing.NextDueDate.Equal(day(2025, 3, 1, 0)))
}

func TestVaccine_DeleteVaccineHandler(t *testing.T) {
	s := newStores()
	id := primitive.NewObjectID()
	s.vaccines.On("FindByID", mock.Anything, id.Hex(), testUserID).Return(&models.VaccineRecord{ID: id, UserID: testUserID}, nil)
	s.reminders.On("DeleteByRelation", mock.Anything, id.Hex(), models.RelatedVaccine).Return(int64(1), nil)
	s.vaccines.On("DeleteOne", mock.Anything, id.Hex(), testUserID).Return(nil)

	req := authedRequest(t, "DELETE", "/api/v1/vaccines/"+id.Hex(), nil, map[string]string{"vaccine_id": id.Hex()})
	rr := serve(vaccineHandler(s).DeleteVaccineHandler, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	s.vaccines.AssertExpectations(t)
	s.reminders.AssertExpectations(t)
}

func TestVaccine_DeleteVaccineHandlerNotFound(t *testing.T) {
	s := newStores()
	s.vaccines.On("FindByID", mock.Anything, "1234", testUserID).Return(nil, databases.ErrNotFound)

	req := authedRequest(t, "DELETE", "/api/v1/vaccines/1234", nil, map[string]string{"vaccine_id": "1234"})
	rr := serve(vaccineHandler(s).DeleteVaccineHandler, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	s.reminders.AssertNotCalled(t, "DeleteByRelation", mock.Anything, mock.Anything, mock.Anything)
}

func TestVaccine_VaccinesByPetIDHandler(t *testing.T) {
	s := newStores()
	s.vaccines.On("FindByPet", mock.Anything, "pet-1", testUserID).Return([]models.VaccineRecord{{VaccineName: "Rabies"}}, nil)

	req := authedRequest(t, "GET", "/api/v1/pets/pet-1/vaccines", nil, map[string]string{"pet_id": "pet-1"})
	rr := serve(vaccineHandler(s).VaccinesByPetIDHandler, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"vaccineName":"Rabies"`)
}
