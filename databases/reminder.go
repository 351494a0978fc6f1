package databases

// go generate: mockery --name ReminderDatabase

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/pet-health-api/models"
)

const reminderName = "reminders"

// ReminderDatabase contains the methods to use with the reminder database
type ReminderDatabase interface {
	FindByID(ctx context.Context, id, userID string) (*models.Reminder, error)
	List(ctx context.Context, filter models.ReminderFilter, page, limit int64) (*models.ReminderResponse, error)
	FindDue(ctx context.Context, from, to time.Time) ([]models.Reminder, error)
	FindByRelation(ctx context.Context, recordID, recordType string) ([]models.Reminder, error)
	InsertOne(ctx context.Context, reminder *models.Reminder) error
	InsertMany(ctx context.Context, reminders []models.Reminder) error
	Update(ctx context.Context, reminder *models.Reminder) error
	DeleteOne(ctx context.Context, id, userID string) error
	DeleteByRelation(ctx context.Context, recordID, recordType string) (int64, error)
	DeleteByMedication(ctx context.Context, medicationID string) (int64, error)
}

type reminderDatabase struct {
	db DatabaseHelper
}

// NewReminderDatabase initializes a new instance of reminder database with the provided db connection
func NewReminderDatabase(db DatabaseHelper) ReminderDatabase {
	return &reminderDatabase{
		db: db,
	}
}

func (c *reminderDatabase) FindByID(ctx context.Context, id, userID string) (*models.Reminder, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	reminder := &models.Reminder{}
	err = c.db.Collection(reminderName).FindOne(ctx, bson.M{"_id": oid, "userId": userID}).Decode(reminder)
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

func (c *reminderDatabase) List(ctx context.Context, filter models.ReminderFilter, page, limit int64) (*models.ReminderResponse, error) {
	p := newMongoPaginate(limit, page)
	query := buildReminderFilter(filter)

	total, err := c.db.Collection(reminderName).CountDocuments(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count reminders: %w", err)
	}

	reminders, err := c.find(ctx, query, p.sortedBy("reminderDate", 1))
	if err != nil {
		return nil, err
	}

	return &models.ReminderResponse{
		Reminders:  reminders,
		Pagination: models.NewPagination(p.page, p.limit, total),
	}, nil
}

// FindDue returns every incomplete reminder due within [from, to], viewed or not
func (c *reminderDatabase) FindDue(ctx context.Context, from, to time.Time) ([]models.Reminder, error) {
	filter := bson.M{
		"reminderDate": bson.M{"$gte": from, "$lte": to},
		"isCompleted":  false,
	}
	return c.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "reminderDate", Value: 1}}))
}

func (c *reminderDatabase) FindByRelation(ctx context.Context, recordID, recordType string) ([]models.Reminder, error) {
	filter := bson.M{"relatedRecordId": recordID, "relatedRecordType": recordType}
	return c.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "reminderDate", Value: 1}}))
}

func (c *reminderDatabase) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Reminder, error) {
	reminders := []models.Reminder{}
	cur, err := c.db.Collection(reminderName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to find reminders: %w", err)
	}
	defer cur.Close(ctx)
	if err = cur.All(ctx, &reminders); err != nil {
		return nil, fmt.Errorf("failed to decode reminders: %w", err)
	}
	return reminders, nil
}

func (c *reminderDatabase) InsertOne(ctx context.Context, reminder *models.Reminder) error {
	stampNew(reminder)
	_, err := c.db.Collection(reminderName).InsertOne(ctx, reminder)
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}

func (c *reminderDatabase) InsertMany(ctx context.Context, reminders []models.Reminder) error {
	if len(reminders) == 0 {
		return nil
	}
	docs := make([]interface{}, len(reminders))
	for i := range reminders {
		stampNew(&reminders[i])
		docs[i] = reminders[i]
	}
	_, err := c.db.Collection(reminderName).InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to insert %d reminders: %w", len(reminders), err)
	}
	return nil
}

func (c *reminderDatabase) Update(ctx context.Context, reminder *models.Reminder) error {
	reminder.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"title":             reminder.Title,
		"description":       reminder.Description,
		"reminderDate":      reminder.ReminderDate,
		"priority":          reminder.Priority,
		"reminderType":      reminder.ReminderType,
		"petId":             reminder.PetID,
		"relatedRecordId":   reminder.RelatedRecordID,
		"relatedRecordType": reminder.RelatedRecordType,
		"medicationId":      reminder.MedicationID,
		"isCompleted":       reminder.IsCompleted,
		"completedAt":       reminder.CompletedAt,
		"viewedAt":          reminder.ViewedAt,
		"updatedAt":         reminder.UpdatedAt,
	}}
	res, err := c.db.Collection(reminderName).UpdateOne(ctx, bson.M{"_id": reminder.ID, "userId": reminder.UserID}, update)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *reminderDatabase) DeleteOne(ctx context.Context, id, userID string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	n, err := c.db.Collection(reminderName).DeleteOne(ctx, bson.M{"_id": oid, "userId": userID})
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByRelation removes every reminder derived from the given record
func (c *reminderDatabase) DeleteByRelation(ctx context.Context, recordID, recordType string) (int64, error) {
	n, err := c.db.Collection(reminderName).DeleteMany(ctx, bson.M{
		"relatedRecordId":   recordID,
		"relatedRecordType": recordType,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete reminders for %s %s: %w", recordType, recordID, err)
	}
	return n, nil
}

// DeleteByMedication removes every dose reminder of a medication
func (c *reminderDatabase) DeleteByMedication(ctx context.Context, medicationID string) (int64, error) {
	n, err := c.db.Collection(reminderName).DeleteMany(ctx, bson.M{"medicationId": medicationID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete reminders for medication %s: %w", medicationID, err)
	}
	return n, nil
}

func buildReminderFilter(f models.ReminderFilter) bson.M {
	filter := bson.M{"userId": f.UserID}
	if f.PetID != "" {
		filter["petId"] = f.PetID
	}
	if f.ReminderType != "" {
		filter["reminderType"] = f.ReminderType
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}
	if f.IsCompleted != nil {
		filter["isCompleted"] = *f.IsCompleted
	}
	if f.IsUnread != nil {
		if *f.IsUnread {
			filter["viewedAt"] = nil
		} else {
			filter["viewedAt"] = bson.M{"$ne": nil}
		}
	}
	return filter
}

func stampNew(r *models.Reminder) {
	now := time.Now()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	r.CreatedAt = now
	r.UpdatedAt = now
}
