package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/svce/alumniconnect/internal/app/models"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
	"github.com/svce/alumniconnect/internal/pkg/logger"
)

// jobDoc is the stored shape of a job
type jobDoc struct {
	ID              primitive.ObjectID     `bson:"_id"`
	Title           string                 `bson:"title"`
	Company         string                 `bson:"company"`
	Location        string                 `bson:"location"`
	JobType         models.JobType         `bson:"job_type"`
	ExperienceLevel models.ExperienceLevel `bson:"experience_level"`
	SalaryRange     *string                `bson:"salary_range,omitempty"`
	ApplicationURL  *string                `bson:"application_url,omitempty"`
	ContactEmail    *string                `bson:"contact_email,omitempty"`
	Description     string                 `bson:"description"`
	Requirements    string                 `bson:"requirements"`
	PostedBy        string                 `bson:"posted_by"`
	IsApproved      bool                   `bson:"is_approved"`
	Status          models.Status          `bson:"status"`
	CreatedAt       time.Time              `bson:"created_at"`
	UpdatedAt       time.Time              `bson:"updated_at"`
}

func newJobDoc(j *models.Job, id primitive.ObjectID) jobDoc {
	return jobDoc{
		ID:              id,
		Title:           j.Title,
		Company:         j.Company,
		Location:        j.Location,
		JobType:         j.JobType,
		ExperienceLevel: j.ExperienceLevel,
		SalaryRange:     j.SalaryRange,
		ApplicationURL:  j.ApplicationURL,
		ContactEmail:    j.ContactEmail,
		Description:     j.Description,
		Requirements:    j.Requirements,
		PostedBy:        j.PostedBy,
		IsApproved:      j.IsApproved,
		Status:          j.Status,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
}

func (d jobDoc) toModel() *models.Job {
	return &models.Job{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Company:         d.Company,
		Location:        d.Location,
		JobType:         d.JobType,
		ExperienceLevel: d.ExperienceLevel,
		SalaryRange:     d.SalaryRange,
		ApplicationURL:  d.ApplicationURL,
		ContactEmail:    d.ContactEmail,
		Description:     d.Description,
		Requirements:    d.Requirements,
		PostedBy:        d.PostedBy,
		IsApproved:      d.IsApproved,
		Status:          d.Status,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
}

// jobFilterDoc translates a JobFilter into a query. Archived jobs never match.
func jobFilterDoc(f models.JobFilter) bson.M {
	q := bson.M{"status": models.StatusActive}
	if f.JobType != "" {
		q["job_type"] = f.JobType
	}
	if f.ExperienceLevel != "" {
		q["experience_level"] = f.ExperienceLevel
	}
	if f.PostedBy != "" {
		q["posted_by"] = f.PostedBy
	}
	if f.Approved != nil {
		q["is_approved"] = *f.Approved
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"title": rx},
			bson.M{"company": rx},
			bson.M{"location": rx},
		}
	}
	return q
}

// jobPatchSet translates a JobPatch into a $set document
func jobPatchSet(p models.JobPatch, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Company != nil {
		set["company"] = *p.Company
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.JobType != nil {
		set["job_type"] = *p.JobType
	}
	if p.ExperienceLevel != nil {
		set["experience_level"] = *p.ExperienceLevel
	}
	if p.SalaryRange != nil {
		set["salary_range"] = optionalString(*p.SalaryRange)
	}
	if p.ApplicationURL != nil {
		set["application_url"] = optionalString(*p.ApplicationURL)
	}
	if p.ContactEmail != nil {
		set["contact_email"] = optionalString(*p.ContactEmail)
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Requirements != nil {
		set["requirements"] = *p.Requirements
	}
	return set
}

// optionalString stores an empty value as null
func optionalString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// MongoJobRepository stores jobs in the "jobs" collection
type MongoJobRepository struct {
	c *mongo.Collection
}

// NewJobRepository creates a new MongoJobRepository
func NewJobRepository(db *mongo.Database) *MongoJobRepository {
	return &MongoJobRepository{c: db.Collection("jobs")}
}

// EnsureIndexes creates the indexes used by the job listings
func (r *MongoJobRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "is_approved", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_jobs_status_approved_created"),
		},
		{
			Keys:    bson.D{{Key: "posted_by", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_jobs_posted_by"),
		},
	}
	if _, err := r.c.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create job indexes: %w", err)
	}
	return nil
}

// Create inserts a job and assigns its id
func (r *MongoJobRepository) Create(ctx context.Context, job *models.Job) error {
	id := primitive.NewObjectID()
	if _, err := r.c.InsertOne(ctx, newJobDoc(job, id)); err != nil {
		logger.Error().Err(err).Str("title", job.Title).Msg("Error inserting job")
		return fmt.Errorf("error creating job: %w", err)
	}
	job.ID = id.Hex()
	return nil
}

// GetByID returns a job regardless of its status
func (r *MongoJobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrJobNotFound
	}

	var doc jobDoc
	if err := r.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrJobNotFound
		}
		logger.Error().Err(err).Str("jobID", id).Msg("Error finding job")
		return nil, fmt.Errorf("error getting job: %w", err)
	}
	return doc.toModel(), nil
}

// List returns active jobs matching filter, newest first
func (r *MongoJobRepository) List(ctx context.Context, f models.JobFilter) ([]*models.Job, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cur, err := r.c.Find(ctx, jobFilterDoc(f), opts)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying jobs")
		return nil, fmt.Errorf("error querying jobs: %w", err)
	}
	defer cur.Close(ctx)

	var docs []jobDoc
	if err := cur.All(ctx, &docs); err != nil {
		logger.Error().Err(err).Msg("Error decoding jobs")
		return nil, fmt.Errorf("error decoding jobs: %w", err)
	}

	jobs := make([]*models.Job, 0, len(docs))
	for _, d := range docs {
		jobs = append(jobs, d.toModel())
	}
	return jobs, nil
}

// Count returns the number of active jobs matching filter
func (r *MongoJobRepository) Count(ctx context.Context, f models.JobFilter) (int64, error) {
	n, err := r.c.CountDocuments(ctx, jobFilterDoc(f))
	if err != nil {
		logger.Error().Err(err).Msg("Error counting jobs")
		return 0, fmt.Errorf("error counting jobs: %w", err)
	}
	return n, nil
}

// updateActive applies set to an active job, reporting not-found when nothing matched
func (r *MongoJobRepository) updateActive(ctx context.Context, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrJobNotFound
	}

	res, err := r.c.UpdateOne(ctx, bson.M{"_id": oid, "status": models.StatusActive}, bson.M{"$set": set})
	if err != nil {
		logger.Error().Err(err).Str("jobID", id).Msg("Error updating job")
		return fmt.Errorf("error updating job: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrJobNotFound
	}
	return nil
}

// Update applies patch to an active job
func (r *MongoJobRepository) Update(ctx context.Context, id string, patch models.JobPatch, now time.Time) error {
	return r.updateActive(ctx, id, jobPatchSet(patch, now))
}

// Archive soft-deletes an active job
func (r *MongoJobRepository) Archive(ctx context.Context, id string, now time.Time) error {
	return r.updateActive(ctx, id, bson.M{"status": models.StatusArchived, "updated_at": now})
}

// SetApproved updates the approval flag of an active job
func (r *MongoJobRepository) SetApproved(ctx context.Context, id string, approved bool, now time.Time) error {
	return r.updateActive(ctx, id, bson.M{"is_approved": approved, "updated_at": now})
}
