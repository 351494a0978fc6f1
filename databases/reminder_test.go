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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/pet-health-api/databases"
	"github.com/linesmerrill/pet-health-api/databases/mocks"
	"github.com/linesmerrill/pet-health-api/models"
)

func reminderCollection() (*mocks.DatabaseHelper, *mocks.CollectionHelper) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	dbHelper.On("Collection", "reminders").Return(collectionHelper)
	return dbHelper, collectionHelper
}

func TestReminderDatabase_List(t *testing.T) {
	dbHelper, collectionHelper := reminderCollection()
	cursorHelper := &mocks.CursorHelper{}

	unread, completed := true, false
	filter := models.ReminderFilter{UserID: "u1", PetID: "p1", IsCompleted: &completed, IsUnread: &unread}
	query := bson.M{"userId": "u1", "petId": "p1", "isCompleted": false, "viewedAt": nil}

	var opts *options.FindOptions
	collectionHelper.On("CountDocuments", mock.Anything, query).Return(int64(12), nil)
	collectionHelper.On("Find", mock.Anything, query, mock.AnythingOfType("*options.FindOptions")).
		Run(func(args mock.Arguments) {
			opts = args.Get(2).(*options.FindOptions)
		}).Return(cursorHelper, nil)
	cursorHelper.On("All", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.Reminder)
		*arg = []models.Reminder{{Title: "a"}, {Title: "b"}}
	}).Return(nil)
	cursorHelper.On("Close", mock.Anything).Return(nil)

	res, err := databases.NewReminderDatabase(dbHelper).List(context.Background(), filter, 2, 5)

	require.NoError(t, err)
	assert.Len(t, res.Reminders, 2)
	assert.Equal(t, models.Pagination{
		CurrentPage:     2,
		TotalPages:      3,
		TotalCount:      12,
		Limit:           5,
		HasNextPage:     true,
		HasPreviousPage: true,
	}, res.Pagination)
	require.NotNil(t, opts)
	assert.Equal(t, int64(5), *opts.Skip)
	assert.Equal(t, int64(5), *opts.Limit)
	cursorHelper.AssertExpectations(t)
}

func TestReminderDatabase_ListViewedOnly(t *testing.T) {
	dbHelper, collectionHelper := reminderCollection()
	unread := false
	query := bson.M{"userId": "u1", "priority": models.PriorityHigh, "viewedAt": bson.M{"$ne": nil}}
	collectionHelper.On("CountDocuments", mock.Anything, query).Return(int64(0), errors.New("mocked-error"))

	_, err := databases.NewReminderDatabase(dbHelper).List(context.Background(),
		models.ReminderFilter{UserID: "u1", Priority: models.PriorityHigh, IsUnread: &unread}, 1, 10)

	assert.EqualError(t, err, "failed to count reminders: mocked-error")
	collectionHelper.AssertExpectations(t)
}

func TestReminderDatabase_FindDue(t *testing.T) {
	dbHelper, collectionHelper := reminderCollection()
	cursorHelper := &mocks.CursorHelper{}
	from := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	to := from.Add(5 * time.Minute)

	collectionHelper.On("Find", mock.Anything, bson.M{
		"reminderDate": bson.M{"$gte": from, "$lte": to},
		"isCompleted":  false,
	}, mock.Anything).Return(cursorHelper, nil)
	cursorHelper.On("All", mock.Anything, mock.Anything).Return(nil)
	cursorHelper.On("Close", mock.Anything).Return(nil)

	due, err := databases.NewReminderDatabase(dbHelper).FindDue(context.Background(), from, to)

	require.NoError(t, err)
	assert.NotNil(t, due)
	assert.Empty(t, due)
}

func TestReminderDatabase_FindByID(t *testing.T) {
	dbHelper, collectionHelper := reminderCollection()
	srHelper := &mocks.SingleResultHelper{}
	id := primitive.NewObjectID()

	srHelper.On("Decode", mock.Anything).Return(databases.ErrNotFound)
	collectionHelper.On("FindOne", mock.Anything, bson.M{"_id": id, "userId": "u1"}).Return(srHelper)

	rdb := databases.NewReminderDatabase(dbHelper)

	reminder, err := rdb.FindByID(context.Background(), id.Hex(), "u1")
	assert.Nil(t, reminder)
	assert.ErrorIs(t, err, databases.ErrNotFound)

	reminder, err = rdb.FindByID(context.Background(), "not-hex", "u1")
	assert.Nil(t, reminder)
	assert.ErrorIs(t, err, databases.ErrNotFound)
	collectionHelper.AssertNumberOfCalls(t, "FindOne", 1)
}

func TestReminderDatabase_InsertMany(t *testing.T) {
	dbHelper, collectionHelper := reminderCollection()
	collectionHelper.On("InsertMany", mock.Anything, mock.MatchedBy(func(docs []interface{}) bool {
		return len(docs) == 2
	})).Return([]interface{}{}, nil)

	rdb := databases.NewReminderDatabase(dbHelper)
	require.NoError(t, rdb.InsertMany(context.Background(), nil))
	collectionHelper.AssertNotCalled(t, "InsertMany", mock.Anything, mock.Anything)

	reminders := []models.Reminder{{Title: "dose 1"}, {Title: "dose 2"}}
	require.NoError(t, rdb.InsertMany(context.Background(), reminders))
	for _, r := range reminders {
		assert.False(t, r.ID.IsZero())
		assert.False(t, r.CreatedAt.IsZero())
	}
}

func TestReminderDatabase_Update(t *testing.T) {
	dbHelper, collectionHelper := reminderCollection()
	reminder := &models.Reminder{ID: primitive.NewObjectID(), UserID: "u1", Title: "x"}
	collectionHelper.On("UpdateOne", mock.Anything, bson.M{"_id": reminder.ID, "userId": "u1"}, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	err := databases.NewReminderDatabase(dbHelper).Update(context.Background(), reminder)

	assert.ErrorIs(t, err, databases.ErrNotFound)
}

func TestReminderDatabase_DeleteByMedication(t *testing.T) {
	dbHelper, collectionHelper := reminderCollection()
	collectionHelper.On("DeleteMany", mock.Anything, bson.M{"medicationId": "m1"}).Return(int64(61), nil)
	collectionHelper.On("DeleteMany", mock.Anything, bson.M{"relatedRecordId": "v1", "relatedRecordType": models.RelatedVaccine}).
		Return(int64(0), errors.New("mocked-error"))

	rdb := databases.NewReminderDatabase(dbHelper)

	n, err := rdb.DeleteByMedication(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, int64(61), n)

	_, err = rdb.DeleteByRelation(context.Background(), "v1", models.RelatedVaccine)
	assert.EqualError(t, err, "failed to delete reminders for vaccine v1: mocked-error")
}
