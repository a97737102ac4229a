package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
	"github.com/svce/alumniconnect/internal/pkg/logger"
)

// meetingDoc is the stored shape of a meeting
type meetingDoc struct {
	ID              primitive.ObjectID `bson:"_id"`
	Title           string             `bson:"title"`
	Description     *string            `bson:"description,omitempty"`
	HostID          string             `bson:"host_id"`
	MeetingDate     time.Time          `bson:"meeting_date"`
	DurationMinutes int                `bson:"duration_minutes"`
	MaxParticipants int                `bson:"max_participants"`
	MeetingURL      string             `bson:"meeting_url"`
	ExternalID      string             `bson:"meeting_id"`
	Password        string             `bson:"password"`
	Status          models.Status      `bson:"status"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func newMeetingDoc(m *models.Meeting, id primitive.ObjectID) meetingDoc {
	return meetingDoc{
		ID:              id,
		Title:           m.Title,
		Description:     m.Description,
		HostID:          m.HostID,
		MeetingDate:     m.MeetingDate,
		DurationMinutes: m.DurationMinutes,
		MaxParticipants: m.MaxParticipants,
		MeetingURL:      m.MeetingURL,
		ExternalID:      m.ExternalID,
		Password:        m.Password,
		Status:          m.Status,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func (d meetingDoc) toModel() *models.Meeting {
	return &models.Meeting{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Description:     d.Description,
		HostID:          d.HostID,
		MeetingDate:     d.MeetingDate.UTC(),
		DurationMinutes: d.DurationMinutes,
		MaxParticipants: d.MaxParticipants,
		MeetingURL:      d.MeetingURL,
		ExternalID:      d.ExternalID,
		Password:        d.Password,
		Status:          d.Status,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
}

// meetingFilterDoc translates a MeetingFilter into a query. Archived meetings never match.
func meetingFilterDoc(f models.MeetingFilter) bson.M {
	q := bson.M{"status": models.StatusActive}
	if f.HostID != "" {
		q["host_id"] = f.HostID
	}
	if f.IDs != nil {
		oids := make([]primitive.ObjectID, 0, len(f.IDs))
		for _, id := range f.IDs {
			if oid, err := primitive.ObjectIDFromHex(id); err == nil {
				oids = append(oids, oid)
			}
		}
		q["_id"] = bson.M{"$in": oids}
	}
	date := bson.M{}
	if !f.From.IsZero() {
		date["$gte"] = f.From
	}
	if !f.Until.IsZero() {
		date["$lt"] = f.Until
	}
	if len(date) > 0 {
		q["meeting_date"] = date
	}
	return q
}

func meetingPatchSet(p models.MeetingPatch, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = optionalString(*p.Description)
	}
	if p.MeetingDate != nil {
		set["meeting_date"] = *p.MeetingDate
	}
	if p.DurationMinutes != nil {
		set["duration_minutes"] = *p.DurationMinutes
	}
	if p.MaxParticipants != nil {
		set["max_participants"] = *p.MaxParticipants
	}
	return set
}

// MongoMeetingRepository stores meetings in the "meetings" collection
type MongoMeetingRepository struct {
	c *mongo.Collection
}

// NewMeetingRepository creates a new MongoMeetingRepository
func NewMeetingRepository(db *mongo.Database) *MongoMeetingRepository {
	return &MongoMeetingRepository{c: db.Collection("meetings")}
}

// EnsureIndexes creates the indexes used by the meeting listings
func (r *MongoMeetingRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "meeting_date", Value: 1}},
			Options: options.Index().SetName("idx_meetings_status_date"),
		},
		{
			Keys:    bson.D{{Key: "host_id", Value: 1}, {Key: "meeting_date", Value: 1}},
			Options: options.Index().SetName("idx_meetings_host"),
		},
	}
	if _, err := r.c.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create meeting indexes: %w", err)
	}
	return nil
}

// Create inserts a meeting and assigns its id
func (r *MongoMeetingRepository) Create(ctx context.Context, m *models.Meeting) error {
	id := primitive.NewObjectID()
	if _, err := r.c.InsertOne(ctx, newMeetingDoc(m, id)); err != nil {
		logger.Error().Err(err).Str("title", m.Title).Msg("Error inserting meeting")
		return fmt.Errorf("error creating meeting: %w", err)
	}
	m.ID = id.Hex()
	return nil
}

// GetByID returns a meeting regardless of its status
func (r *MongoMeetingRepository) GetByID(ctx context.Context, id string) (*models.Meeting, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrMeetingNotFound
	}

	var doc meetingDoc
	if err := r.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrMeetingNotFound
		}
		logger.Error().Err(err).Str("meetingID", id).Msg("Error finding meeting")
		return nil, fmt.Errorf("error getting meeting: %w", err)
	}
	return doc.toModel(), nil
}

// List returns active meetings matching filter, soonest first
func (r *MongoMeetingRepository) List(ctx context.Context, f models.MeetingFilter) ([]*models.Meeting, error) {
	opts := options.Find().SetSort(bson.D{{Key: "meeting_date", Value: 1}, {Key: "_id", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cur, err := r.c.Find(ctx, meetingFilterDoc(f), opts)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying meetings")
		return nil, fmt.Errorf("error querying meetings: %w", err)
	}
	defer cur.Close(ctx)

	var docs []meetingDoc
	if err := cur.All(ctx, &docs); err != nil {
		logger.Error().Err(err).Msg("Error decoding meetings")
		return nil, fmt.Errorf("error decoding meetings: %w", err)
	}

	meetings := make([]*models.Meeting, 0, len(docs))
	for _, d := range docs {
		meetings = append(meetings, d.toModel())
	}
	return meetings, nil
}

// Count returns the number of active meetings matching filter
func (r *MongoMeetingRepository) Count(ctx context.Context, f models.MeetingFilter) (int64, error) {
	n, err := r.c.CountDocuments(ctx, meetingFilterDoc(f))
	if err != nil {
		logger.Error().Err(err).Msg("Error counting meetings")
		return 0, fmt.Errorf("error counting meetings: %w", err)
	}
	return n, nil
}

func (r *MongoMeetingRepository) updateActive(ctx context.Context, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrMeetingNotFound
	}

	res, err := r.c.UpdateOne(ctx, bson.M{"_id": oid, "status": models.StatusActive}, bson.M{"$set": set})
	if err != nil {
		logger.Error().Err(err).Str("meetingID", id).Msg("Error updating meeting")
		return fmt.Errorf("error updating meeting: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrMeetingNotFound
	}
	return nil
}

// Update applies patch to an active meeting
func (r *MongoMeetingRepository) Update(ctx context.Context, id string, patch models.MeetingPatch, now time.Time) error {
	return r.updateActive(ctx, id, meetingPatchSet(patch, now))
}

// Archive soft-deletes an active meeting
func (r *MongoMeetingRepository) Archive(ctx context.Context, id string, now time.Time) error {
	return r.updateActive(ctx, id, bson.M{"status": models.StatusArchived, "updated_at": now})
}
