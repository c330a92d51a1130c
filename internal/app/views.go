package service

import (
	"context"
	"io"
	"time"

	"github.com/okian/skillboard/internal/adapters/repository"
	"github.com/okian/skillboard/internal/domain/export"
	"github.com/okian/skillboard/internal/domain/model"
	"github.com/okian/skillboard/internal/domain/stats"
	"github.com/okian/skillboard/internal/domain/view"
)

// BoardStatus summarizes one board for health and status output.
type BoardStatus struct {
	Board     string    `json:"board"`
	Entries   int       `json:"entries"`
	Version   uint64    `json:"version"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
	FromCache bool      `json:"fromCache"`
	Running   bool      `json:"refreshing"`
	Pending   int       `json:"pendingTriggers"`
}

// ParticipantState returns the published participant state, or nil.
func (s *Service) ParticipantState() *repository.State[model.Participant] {
	return s.participants.Store().Current()
}

// VolunteerState returns the published volunteer state, or nil when the
// board is disabled or not yet loaded.
func (s *Service) VolunteerState() *repository.State[model.Volunteer] {
	if s.volunteers == nil {
		return nil
	}
	return s.volunteers.Store().Current()
}

// projected returns the display view of the current participants.
func (s *Service) projected() []model.Participant {
	st := s.ParticipantState()
	if st == nil {
		return []model.Participant{}
	}
	return view.Project(st.Items, s.confirmed, s.scorer)
}

// Leaderboard returns the display view filtered and sorted by vs.
func (s *Service) Leaderboard(vs view.State) []model.Participant {
	return view.Apply(s.projected(), vs)
}

// TopParticipants returns the first limit entries of the view selected by vs.
// The default view is already the published order, so it is served from the
// store's leading items without projecting the rest.
func (s *Service) TopParticipants(ctx context.Context, vs view.State, limit int) ([]model.Participant, error) {
	if vs == view.Initial() {
		top, err := s.participants.Store().TopN(ctx, limit)
		if err != nil {
			return nil, err
		}
		return view.Project(top, s.confirmed, s.scorer), nil
	}
	if limit < 1 {
		return nil, repository.ErrInvalidLimit
	}
	out := s.Leaderboard(vs)
	return out[:min(limit, len(out))], nil
}

// ParticipantStats aggregates the whole display view.
func (s *Service) ParticipantStats() stats.Participants {
	return stats.ForParticipants(s.projected(), s.cfg.TierLimits.Tier1)
}

// Participant returns one participant, as displayed, by email.
func (s *Service) Participant(ctx context.Context, email string) (model.Participant, error) {
	p, err := s.participants.Store().Lookup(ctx, model.Participant{Email: email}.Key())
	if err != nil {
		return model.Participant{}, err
	}
	return view.Project([]model.Participant{p}, s.confirmed, s.scorer)[0], nil
}

// Volunteers returns the current volunteers matching query and status.
func (s *Service) Volunteers(query string, status view.VolunteerStatus) []model.Volunteer {
	st := s.VolunteerState()
	if st == nil {
		return []model.Volunteer{}
	}
	return view.FilterVolunteers(st.Items, query, status)
}

// VolunteerStats aggregates all current volunteers.
func (s *Service) VolunteerStats() stats.Volunteers {
	st := s.VolunteerState()
	if st == nil {
		return stats.ForVolunteers(nil)
	}
	return stats.ForVolunteers(st.Items)
}

// ExportParticipants writes the filtered display view as CSV. A positive
// limit keeps only the leading entries.
func (s *Service) ExportParticipants(ctx context.Context, w io.Writer, vs view.State, limit int) error {
	rows := s.Leaderboard(vs)
	if limit > 0 {
		var err error
		if rows, err = s.TopParticipants(ctx, vs, limit); err != nil {
			return err
		}
	}
	return export.Participants(w, rows, export.WithMaxRows(s.cfg.MaxExportRows))
}

// ExportVolunteers writes the filtered volunteers as CSV.
func (s *Service) ExportVolunteers(w io.Writer, query string, status view.VolunteerStatus) error {
	return export.Volunteers(w, s.Volunteers(query, status), export.WithMaxRows(s.cfg.MaxExportRows))
}

// Status reports every enabled board.
func (s *Service) Status(ctx context.Context) []BoardStatus {
	out := make([]BoardStatus, 0, 2)
	out = append(out, boardStatus(ctx, s.participants, s.queue.Pending(BoardParticipants)))
	if s.volunteers != nil {
		out = append(out, boardStatus(ctx, s.volunteers, s.queue.Pending(BoardVolunteers)))
	}
	return out
}

func boardStatus[T any](ctx context.Context, b *Board[T], pending int) BoardStatus {
	store := b.Store()
	bs := BoardStatus{Board: store.Board(), Running: b.Running(), Pending: pending}
	bs.Entries = store.Count(ctx)
	if st := store.Current(); st != nil {
		bs.Version = st.Version
		bs.UpdatedAt = st.UpdatedAt
		bs.FromCache = st.FromCache
	}
	return bs
}
