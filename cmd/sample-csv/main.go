// Command sample-csv writes synthetic participant and volunteer sheets and
// can check a running feed against them.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/skillboard/internal/sampledata"
	"github.com/okian/skillboard/pkg/logger"
)

const (
	defaultParticipants = 200
	defaultVolunteers   = 25
	defaultTotalCourses = 20
	defaultSettle       = 2 * time.Second
	httpTimeout         = 30 * time.Second
)

type options struct {
	out          string
	participants int
	volunteers   int
	seed         uint64
	totalCourses int
	verifyURL    string
	pinned       int
	settle       time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:          "sample-csv",
		Short:        "Generate sample leaderboard sheets",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.out, "out", "data", "directory for leaderboard.csv and volunteers.csv")
	f.IntVar(&o.participants, "participants", defaultParticipants, "number of participant rows")
	f.IntVar(&o.volunteers, "volunteers", defaultVolunteers, "number of volunteer rows")
	f.Uint64Var(&o.seed, "seed", uint64(time.Now().UnixNano()), "random seed")
	f.IntVar(&o.totalCourses, "total-courses", defaultTotalCourses, "completion denominator")
	f.StringVar(&o.verifyURL, "verify", "", "base URL of a running feed to check after writing")
	f.IntVar(&o.pinned, "pinned", 0, "number of leading entries placed by custom ranking")
	f.DurationVar(&o.settle, "settle", defaultSettle, "wait between the refresh request and the check")
	return cmd
}

func run(ctx context.Context, o options) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.Get().Named("sample-csv")

	gen := sampledata.NewGenerator(o.seed, o.totalCourses)
	participants := gen.Participants(o.participants)
	volunteers := gen.Volunteers(o.volunteers)

	pPath, vPath, err := sampledata.WriteFiles(o.out, participants, volunteers)
	if err != nil {
		return err
	}
	log.Info(ctx, "sample sheets written",
		logger.String("participants", pPath),
		logger.String("volunteers", vPath),
		logger.Int("rows", len(participants)),
		logger.Any("seed", o.seed),
	)

	if o.verifyURL == "" {
		return nil
	}

	client := &http.Client{Timeout: httpTimeout}
	if err := requestRefresh(ctx, client, o.verifyURL); err != nil {
		log.Warn(ctx, "refresh request failed; checking current feed", logger.Error(err))
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(o.settle):
	}

	res, err := sampledata.Check(ctx, client, o.verifyURL, participants, o.pinned)
	for _, m := range res.Missing {
		log.Warn(ctx, "missing from feed", logger.String("email", m))
	}
	for _, p := range res.Problems {
		log.Warn(ctx, "feed problem", logger.String("detail", p))
	}
	if err != nil {
		return err
	}
	log.Info(ctx, "feed matches sample", logger.Int("entries", res.Entries))
	return nil
}

func requestRefresh(ctx context.Context, client *http.Client, baseURL string) error {
	url := strings.TrimRight(baseURL, "/") + "/api/refresh/participants"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("post %s: status %d", url, resp.StatusCode)
	}
	return nil
}
