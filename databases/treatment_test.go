package databases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/pet-health-api/databases"
	"github.com/linesmerrill/pet-health-api/databases/mocks"
	"github.com/linesmerrill/pet-health-api/models"
)

type treatmentMocks struct {
	db          *mocks.DatabaseHelper
	client      *mocks.ClientHelper
	treatments  *mocks.CollectionHelper
	medications *mocks.CollectionHelper
}

func newTreatmentMocks(txErr error) treatmentMocks {
	m := treatmentMocks{
		db:          &mocks.DatabaseHelper{},
		client:      &mocks.ClientHelper{},
		treatments:  &mocks.CollectionHelper{},
		medications: &mocks.CollectionHelper{},
	}
	m.db.On("Client").Return(m.client)
	m.db.On("Collection", "treatments").Return(m.treatments)
	m.db.On("Collection", "medications").Return(m.medications)
	m.client.On("UseTransaction", mock.Anything, mock.Anything).Return(txErr)
	return m
}

func TestTreatmentDatabase_CreateWithMedications(t *testing.T) {
	m := newTreatmentMocks(nil)
	m.treatments.On("InsertOne", mock.Anything, mock.AnythingOfType("*models.Treatment")).Return(nil, nil)
	m.medications.On("InsertMany", mock.Anything, mock.MatchedBy(func(docs []interface{}) bool {
		return len(docs) == 2
	})).Return([]interface{}{}, nil)

	treatment := &models.Treatment{PetID: "p1", UserID: "u1", Cause: "Otitis", StartDate: time.Now()}
	meds := []models.Medication{{Name: "Amoxicillin"}, {Name: "Meloxicam"}}

	err := databases.NewTreatmentDatabase(m.db).CreateWithMedications(context.Background(), treatment, meds)

	require.NoError(t, err)
	assert.False(t, treatment.ID.IsZero())
	require.Len(t, treatment.Medications, 2)
	for _, med := range treatment.Medications {
		assert.False(t, med.ID.IsZero())
		assert.Equal(t, treatment.ID.Hex(), med.TreatmentID)
	}
	m.medications.AssertExpectations(t)
}

func TestTreatmentDatabase_CreateWithMedicationsRollsBack(t *testing.T) {
	m := newTreatmentMocks(nil)
	m.treatments.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)
	m.medications.On("InsertMany", mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))

	treatment := &models.Treatment{Cause: "Otitis"}
	err := databases.NewTreatmentDatabase(m.db).CreateWithMedications(context.Background(), treatment, []models.Medication{{Name: "x"}})

	assert.EqualError(t, err, "failed to insert medications: mocked-error")
	assert.Nil(t, treatment.Medications)
}

func TestTreatmentDatabase_CreateWithoutMedications(t *testing.T) {
	m := newTreatmentMocks(nil)
	m.treatments.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)

	err := databases.NewTreatmentDatabase(m.db).CreateWithMedications(context.Background(), &models.Treatment{Cause: "Checkup"}, nil)

	require.NoError(t, err)
	m.medications.AssertNotCalled(t, "InsertMany", mock.Anything, mock.Anything)
}

func TestTreatmentDatabase_Delete(t *testing.T) {
	m := newTreatmentMocks(nil)
	id := primitive.NewObjectID()
	m.medications.On("DeleteMany", mock.Anything, bson.M{"treatmentId": id.Hex()}).Return(int64(2), nil)
	m.treatments.On("DeleteOne", mock.Anything, bson.M{"_id": id}).Return(int64(0), nil)

	err := databases.NewTreatmentDatabase(m.db).Delete(context.Background(), id.Hex())

	assert.ErrorIs(t, err, databases.ErrNotFound)
	m.medications.AssertExpectations(t)
}

func TestTreatmentDatabase_FindByIDScopes(t *testing.T) {
	m := newTreatmentMocks(nil)
	srHelper := &mocks.SingleResultHelper{}
	id := primitive.NewObjectID()
	srHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Treatment).Cause = "Otitis"
	})
	m.treatments.On("FindOne", mock.Anything, bson.M{"_id": id}).Return(srHelper)
	m.treatments.On("FindOne", mock.Anything, bson.M{"_id": id, "userId": "u1"}).Return(srHelper)

	tdb := databases.NewTreatmentDatabase(m.db)

	treatment, err := tdb.FindByID(context.Background(), id.Hex(), "")
	require.NoError(t, err)
	assert.Equal(t, "Otitis", treatment.Cause)

	_, err = tdb.FindByID(context.Background(), id.Hex(), "u1")
	require.NoError(t, err)
	m.treatments.AssertExpectations(t)
}
