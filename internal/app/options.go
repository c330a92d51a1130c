package service

import (
	"time"

	"github.com/okian/skillboard/internal/adapters/snapshot"
	"github.com/okian/skillboard/internal/adapters/source"
	"github.com/okian/skillboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSnapshotStore replaces the store opened from configuration. The
// service does not close a store passed this way.
func WithSnapshotStore(st snapshot.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithParticipantSource replaces the participant fetcher built from configuration.
func WithParticipantSource(f source.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.participantSource = f
		}
	}
}

// WithVolunteerSource replaces the volunteer fetcher and enables the
// volunteer board even when no volunteer source is configured.
func WithVolunteerSource(f source.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.volunteerSource = f
		}
	}
}

// WithClock replaces the clock used for timestamps and snapshot age.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
