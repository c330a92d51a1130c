package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	service "github.com/okian/skillboard/internal/app"
	"github.com/okian/skillboard/internal/domain/view"
	"github.com/okian/skillboard/pkg/logger"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

func newExportCmd(configPath *string) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Refresh every board once and write JSON and CSV files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runExport(ctx, *configPath, outDir)
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "out", "output directory")
	return cmd
}

func runExport(ctx context.Context, configPath, outDir string) (err error) {
	cfg, log, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	svc, err := service.New(cfg, service.WithLogger(log.Named("service")))
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer func() {
		if serr := svc.Stop(ctx); serr != nil && err == nil {
			err = serr
		}
	}()

	if err := svc.RefreshAll(ctx); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}

	files := map[string]func() ([]byte, error){
		"leaderboard.json": func() ([]byte, error) { return marshal(svc.Leaderboard(view.Initial())) },
		"stats.json":       func() ([]byte, error) { return marshal(svc.ParticipantStats()) },
		"status.json":      func() ([]byte, error) { return marshal(svc.Status(ctx)) },
		"leaderboard.csv": func() ([]byte, error) {
			var buf bytes.Buffer
			err := svc.ExportParticipants(ctx, &buf, view.Initial(), 0)
			return buf.Bytes(), err
		},
	}
	if svc.HasBoard(service.BoardVolunteers) {
		files["volunteers.json"] = func() ([]byte, error) { return marshal(svc.Volunteers("", view.StatusAll)) }
		files["volunteer-stats.json"] = func() ([]byte, error) { return marshal(svc.VolunteerStats()) }
		files["volunteers.csv"] = func() ([]byte, error) {
			var buf bytes.Buffer
			err := svc.ExportVolunteers(&buf, "", view.StatusAll)
			return buf.Bytes(), err
		}
	}

	for name, render := range files {
		data, err := render()
		if err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, data, filePerm); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Info(ctx, "exported", logger.String("file", path), logger.Int("bytes", len(data)))
	}
	return nil
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
