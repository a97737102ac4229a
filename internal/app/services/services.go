package services

import (
	"github.com/svce/alumniconnect/internal/config"
	"github.com/svce/alumniconnect/internal/pkg/helpers"
)

// Services defined in this package:
// - AuthService: self-registration and login
// - ProfileService: own profile, network directory
// - JobService: job board lifecycle
// - MeetingService: meeting lifecycle and registrations
// - NotificationService: polled notifications and workflow hooks
// - AdminService: approval queues and portal stats
// - DashboardService: landing summary

// Options carries the portal rules the services enforce
type Options struct {
	AllowedEmailDomain     string
	DefaultMeetingDuration int
	DefaultMaxParticipants int
	// JobsGated hides new jobs until an admin approves them
	JobsGated bool
	// PasswordCost is the bcrypt cost for new hashes; zero means the package default
	PasswordCost int
	Clock        helpers.Clock
}

// OptionsFromConfig maps configuration onto Options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		AllowedEmailDomain:     cfg.Portal.AllowedEmailDomain,
		DefaultMeetingDuration: cfg.Portal.DefaultMeetingDuration,
		DefaultMaxParticipants: cfg.Portal.DefaultMaxParticipants,
		JobsGated:              cfg.JobsGated(),
		Clock:                  helpers.UTCNow,
	}
}

func (o Options) now() helpers.Clock {
	if o.Clock == nil {
		return helpers.UTCNow
	}
	return o.Clock
}
