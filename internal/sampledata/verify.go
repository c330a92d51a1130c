package sampledata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrMismatch is returned when a feed disagrees with the sheet it was fed.
var ErrMismatch = errors.New("feed does not match sample")

// feedEntry is the subset of a leaderboard entry the check reads.
type feedEntry struct {
	Rank   int    `json:"rank"`
	Email  string `json:"email"`
	Badges int    `json:"badgesEarned"`
	Arcade int    `json:"arcadeGames"`
}

type feedPage struct {
	Total   int         `json:"total"`
	Entries []feedEntry `json:"entries"`
}

// CheckResult summarizes a feed check.
type CheckResult struct {
	Entries  int
	Missing  []string
	Problems []string
}

// OK reports whether the check found nothing wrong.
func (r CheckResult) OK() bool {
	return len(r.Missing) == 0 && len(r.Problems) == 0
}

// Check fetches the participant board from baseURL and verifies it against
// rows: every email present, ranks dense from 1, and entries after the first
// pinned ones ordered by badges then arcade games.
func Check(ctx context.Context, client *http.Client, baseURL string, rows []Participant, pinned int) (CheckResult, error) {
	if client == nil {
		client = http.DefaultClient
	}
	url := strings.TrimRight(baseURL, "/") + "/api/leaderboard?sort=rank"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return CheckResult{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return CheckResult{}, fmt.Errorf("get %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return CheckResult{}, fmt.Errorf("get %s: status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var page feedPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return CheckResult{}, fmt.Errorf("decode %s: %w", url, err)
	}

	res := verify(page.Entries, rows, pinned)
	if !res.OK() {
		return res, fmt.Errorf("%w: %d missing, %d problems", ErrMismatch, len(res.Missing), len(res.Problems))
	}
	return res, nil
}

func verify(entries []feedEntry, rows []Participant, pinned int) CheckResult {
	res := CheckResult{Entries: len(entries)}

	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		seen[strings.ToLower(e.Email)] = struct{}{}
		if e.Rank != i+1 {
			res.Problems = append(res.Problems, fmt.Sprintf("position %d has rank %d", i+1, e.Rank))
		}
		if i <= pinned {
			continue
		}
		prev := entries[i-1]
		if e.Badges > prev.Badges || (e.Badges == prev.Badges && e.Arcade > prev.Arcade) {
			res.Problems = append(res.Problems, fmt.Sprintf("rank %d (%d/%d) outranks rank %d (%d/%d)",
				e.Rank, e.Badges, e.Arcade, prev.Rank, prev.Badges, prev.Arcade))
		}
	}
	for _, r := range rows {
		if _, ok := seen[strings.ToLower(r.Email)]; !ok {
			res.Missing = append(res.Missing, r.Email)
		}
	}
	return res
}
