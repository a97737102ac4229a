package dto

import (
	"strings"

	"github.com/svce/alumniconnect/internal/app/models"
)

// CreateJobRequest is the job posting form
type CreateJobRequest struct {
	Title           string                 `json:"title" example:"Backend Engineer"`
	Company         string                 `json:"company" example:"Zoho"`
	Location        string                 `json:"location" example:"Chennai"`
	JobType         models.JobType         `json:"job_type" binding:"omitempty,oneof=full-time part-time internship contract" example:"full-time"`
	ExperienceLevel models.ExperienceLevel `json:"experience_level" binding:"omitempty,oneof=entry mid senior executive" example:"mid"`
	SalaryRange     *string                `json:"salary_range,omitempty" binding:"omitempty,max=100" example:"12-18 LPA"`
	ApplicationURL  *string                `json:"application_url,omitempty" binding:"omitempty,url" example:"https://careers.zoho.com/123"`
	ContactEmail    *string                `json:"contact_email,omitempty" binding:"omitempty,email" example:"hr@zoho.com"`
	Description     string                 `json:"description"`
	Requirements    string                 `json:"requirements"`
}

// ToModel copies the trimmed form into a new Job
func (r CreateJobRequest) ToModel() *models.Job {
	return &models.Job{
		Title:           strings.TrimSpace(r.Title),
		Company:         strings.TrimSpace(r.Company),
		Location:        strings.TrimSpace(r.Location),
		JobType:         models.JobType(strings.TrimSpace(string(r.JobType))),
		ExperienceLevel: models.ExperienceLevel(strings.TrimSpace(string(r.ExperienceLevel))),
		SalaryRange:     trimmedOrNil(r.SalaryRange),
		ApplicationURL:  trimmedOrNil(r.ApplicationURL),
		ContactEmail:    trimmedOrNil(r.ContactEmail),
		Description:     strings.TrimSpace(r.Description),
		Requirements:    strings.TrimSpace(r.Requirements),
	}
}

// UpdateJobRequest is a partial job update
type UpdateJobRequest struct {
	Title           *string                 `json:"title,omitempty"`
	Company         *string                 `json:"company,omitempty"`
	Location        *string                 `json:"location,omitempty"`
	JobType         *models.JobType         `json:"job_type,omitempty"`
	ExperienceLevel *models.ExperienceLevel `json:"experience_level,omitempty"`
	SalaryRange     *string                 `json:"salary_range,omitempty"`
	ApplicationURL  *string                 `json:"application_url,omitempty"`
	ContactEmail    *string                 `json:"contact_email,omitempty"`
	Description     *string                 `json:"description,omitempty"`
	Requirements    *string                 `json:"requirements,omitempty"`
}

// ToPatch converts the request into a model patch
func (r UpdateJobRequest) ToPatch() models.JobPatch {
	return models.JobPatch{
		Title:           trimmed(r.Title),
		Company:         trimmed(r.Company),
		Location:        trimmed(r.Location),
		JobType:         r.JobType,
		ExperienceLevel: r.ExperienceLevel,
		SalaryRange:     trimmed(r.SalaryRange),
		ApplicationURL:  trimmed(r.ApplicationURL),
		ContactEmail:    trimmed(r.ContactEmail),
		Description:     trimmed(r.Description),
		Requirements:    trimmed(r.Requirements),
	}
}

// JobListQuery filters the job board
type JobListQuery struct {
	JobType         models.JobType         `form:"job_type"`
	ExperienceLevel models.ExperienceLevel `form:"experience_level"`
	PostedBy        string                 `form:"posted_by"`
	Query           string                 `form:"q"`
}

// JobResponse adds derived fields to a Job
type JobResponse struct {
	*models.Job
	IsActive bool `json:"is_active"`
}

// NewJobResponse wraps j
func NewJobResponse(j *models.Job) *JobResponse {
	return &JobResponse{Job: j, IsActive: j.IsActive()}
}

// NewJobResponses wraps a list
func NewJobResponses(jobs []*models.Job) []*JobResponse {
	out := make([]*JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewJobResponse(j))
	}
	return out
}

// JobCreatedResponse is returned by POST /jobs
type JobCreatedResponse struct {
	Success bool         `json:"success" example:"true"`
	ID      string       `json:"id"`
	Job     *JobResponse `json:"job"`
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
