package models

import "time"

// JobType is the employment type of a posting
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeInternship JobType = "internship"
	JobTypeContract   JobType = "contract"
)

// Valid reports whether t is a known job type
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeInternship, JobTypeContract:
		return true
	}
	return false
}

// ExperienceLevel is the seniority a posting targets
type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "entry"
	ExperienceMid       ExperienceLevel = "mid"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceExecutive ExperienceLevel = "executive"
)

// Valid reports whether l is a known experience level
func (l ExperienceLevel) Valid() bool {
	switch l {
	case ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceExecutive:
		return true
	}
	return false
}

// Job is a career-opportunity posting, stored in the 'jobs' collection
type Job struct {
	ID              string          `json:"id" example:"665f1c2e9b1d4c3a2f0e1d2c"`
	Title           string          `json:"title" example:"Backend Engineer"`
	Company         string          `json:"company" example:"Zoho"`
	Location        string          `json:"location" example:"Chennai"`
	JobType         JobType         `json:"job_type" example:"full-time"`
	ExperienceLevel ExperienceLevel `json:"experience_level" example:"mid"`
	SalaryRange     *string         `json:"salary_range,omitempty"`
	ApplicationURL  *string         `json:"application_url,omitempty"`
	ContactEmail    *string         `json:"contact_email,omitempty"`
	Description     string          `json:"description"`
	Requirements    string          `json:"requirements"`
	PostedBy        string          `json:"posted_by"`
	IsApproved      bool            `json:"is_approved"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// IsActive reports whether the job is still listed
func (j *Job) IsActive() bool {
	return j.Status == StatusActive
}

// JobFilter narrows job listings. Only active jobs are ever listed.
type JobFilter struct {
	JobType         JobType
	ExperienceLevel ExperienceLevel
	PostedBy        string
	// Approved restricts to approved (true) or pending (false) jobs when set
	Approved *bool
	// Query matches title, company or location case-insensitively
	Query string
	Limit int64
}

// JobPatch holds the fields an update may change. Nil means unchanged.
type JobPatch struct {
	Title           *string
	Company         *string
	Location        *string
	JobType         *JobType
	ExperienceLevel *ExperienceLevel
	SalaryRange     *string
	ApplicationURL  *string
	ContactEmail    *string
	Description     *string
	Requirements    *string
}

// Empty reports whether the patch changes nothing
func (p JobPatch) Empty() bool {
	return p.Title == nil && p.Company == nil && p.Location == nil &&
		p.JobType == nil && p.ExperienceLevel == nil && p.SalaryRange == nil &&
		p.ApplicationURL == nil && p.ContactEmail == nil &&
		p.Description == nil && p.Requirements == nil
}

// Apply merges the patch into j
func (p JobPatch) Apply(j *Job) {
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.Company != nil {
		j.Company = *p.Company
	}
	if p.Location != nil {
		j.Location = *p.Location
	}
	if p.JobType != nil {
		j.JobType = *p.JobType
	}
	if p.ExperienceLevel != nil {
		j.ExperienceLevel = *p.ExperienceLevel
	}
	if p.SalaryRange != nil {
		j.SalaryRange = nilIfEmpty(*p.SalaryRange)
	}
	if p.ApplicationURL != nil {
		j.ApplicationURL = nilIfEmpty(*p.ApplicationURL)
	}
	if p.ContactEmail != nil {
		j.ContactEmail = nilIfEmpty(*p.ContactEmail)
	}
	if p.Description != nil {
		j.Description = *p.Description
	}
	if p.Requirements != nil {
		j.Requirements = *p.Requirements
	}
}
