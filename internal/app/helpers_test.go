package service_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/okian/skillboard/internal/adapters/source"
	service "github.com/okian/skillboard/internal/app"
	"github.com/okian/skillboard/internal/config"
	"github.com/okian/skillboard/internal/domain/normalize"
)

// fakeSource serves a settable CSV body or error. When gate is set, Fetch
// blocks until it is closed.
type fakeSource struct {
	mu      sync.Mutex
	body    string
	err     error
	calls   int
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeSource) Location() string { return "memory://sheet" }

func (f *fakeSource) Fetch(ctx context.Context) (string, error) {
	f.mu.Lock()
	f.calls++
	gate, entered := f.gate, f.entered
	f.mu.Unlock()

	if entered != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.body, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSource) set(body string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.body, f.err = body, err
}

// participantsCSV renders name,email,badges,arcade tuples as a sheet.
func participantsCSV(rows ...[4]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(normalize.ParticipantHeaders, ","))
	for _, r := range rows {
		b.WriteString("\n" + strings.Join([]string{r[0], r[1], "https://profile/" + r[0], r[2], r[3], "", "Yes", "No"}, ","))
	}
	return b.String()
}

// volunteersCSV renders name,courses,credentials,students tuples as a sheet.
func volunteersCSV(rows ...[4]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(normalize.VolunteerHeaders, ","))
	for _, r := range rows {
		b.WriteString("\n" + strings.Join([]string{r[0], r[1], r[2], r[3], "Owner", "-"}, ","))
	}
	return b.String()
}

func testConfig() *config.Config {
	cfg := config.New()
	cfg.SnapshotBackend = "memory"
	cfg.SnapshotPath = ""
	cfg.VolunteerRefreshIntervalMS = 0
	return cfg
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// awaitUpdate consumes update signals until board publishes or timeout
// passes.
func awaitUpdate(svc *service.Service, board string, timeout time.Duration) (service.Update, bool) {
	deadline := time.After(timeout)
	for {
		select {
		case <-svc.Updates():
			for _, u := range svc.TakeUpdates() {
				if u.Board == board {
					return u, true
				}
			}
		case <-deadline:
			return service.Update{}, false
		}
	}
}

var _ source.Fetcher = (*fakeSource)(nil)
