package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/skillboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.TotalCourses, convey.ShouldEqual, 20)
				convey.So(cfg.StudentMultiplier, convey.ShouldEqual, 2)
				convey.So(cfg.CoreTeamThreshold, convey.ShouldEqual, 3)
				convey.So(cfg.CacheFreshnessMS, convey.ShouldEqual, 86_400_000)
				convey.So(cfg.TierThresholds, convey.ShouldResemble, []int{1, 7, 13, 19})
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SKILLBOARD_ADDR", ":8080")
			_ = os.Setenv("SKILLBOARD_TOTAL_COURSES", "24")
			_ = os.Setenv("SKILLBOARD_STUDENT_MULTIPLIER", "3")
			_ = os.Setenv("SKILLBOARD_REFRESH_INTERVAL_MS", "30000")
			_ = os.Setenv("SKILLBOARD_SNAPSHOT_BACKEND", "memory")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.TotalCourses, convey.ShouldEqual, 24)
				convey.So(cfg.StudentMultiplier, convey.ShouldEqual, 3)
				convey.So(cfg.RefreshInterval().Seconds(), convey.ShouldEqual, 30)
				convey.So(cfg.SnapshotBackend, convey.ShouldEqual, "memory")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
addr: ":9090"
leaderboard_data_source: "https://example.com/pub?output=csv"
total_courses: 20
tier_limits:
  tier1: 120
custom_ranking:
  - name: "Krish Gupta"
    position: 1
  - name: "Vinit Surve"
    position: 2
confirmed_names:
  - "Sakthi Bala"
  - "Ayush"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SKILLBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LeaderboardDataSource, convey.ShouldEqual, "https://example.com/pub?output=csv")
				convey.So(cfg.TierLimits.Tier1, convey.ShouldEqual, 120)
				convey.So(cfg.TierLimits.Tier2, convey.ShouldEqual, 70)
				convey.So(cfg.ConfirmedNames, convey.ShouldResemble, []string{"Sakthi Bala", "Ayush"})
				convey.So(cfg.RankOverrides(), convey.ShouldResemble, map[string]int{"Krish Gupta": 1, "Vinit Surve": 2})
			})
		})

		convey.Convey("When the path argument and SKILLBOARD_CONFIG disagree", func() {
			fromArg := createTempConfigFile(`addr: ":7000"`)
			fromEnv := createTempConfigFile(`addr: ":7001"`)
			defer func() { _ = os.Remove(fromArg); _ = os.Remove(fromEnv) }()

			_ = os.Setenv("SKILLBOARD_CONFIG", fromEnv)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, fromArg)

			convey.Convey("Then the explicit path should win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7000")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
total_courses: 30
core_team_threshold: 5
`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SKILLBOARD_CONFIG", tmpFile)
			_ = os.Setenv("SKILLBOARD_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")         // env
				convey.So(cfg.TotalCourses, convey.ShouldEqual, 30)      // file
				convey.So(cfg.CoreTeamThreshold, convey.ShouldEqual, 5)  // file
				convey.So(cfg.StudentMultiplier, convey.ShouldEqual, 2)  // default
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			cfg, err := config.Load(ctx, tmpFile)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.Load(ctx, "/non/existent/file.yaml")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("SKILLBOARD_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SKILLBOARD_TOTAL_COURSES", "twenty")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given a valid default config", t, func() {
		cfg := config.New()
		convey.So(config.Validate(cfg), convey.ShouldBeNil)

		convey.Convey("When total courses is zero", func() {
			cfg.TotalCourses = 0
			convey.So(errors.Is(config.Validate(cfg), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the snapshot backend is unknown", func() {
			cfg.SnapshotBackend = "redis"
			convey.So(config.Validate(cfg), convey.ShouldNotBeNil)
		})

		convey.Convey("When the memory backend has no path", func() {
			cfg.SnapshotBackend = "memory"
			cfg.SnapshotPath = ""
			convey.So(config.Validate(cfg), convey.ShouldBeNil)
		})

		convey.Convey("When the file backend has no path", func() {
			cfg.SnapshotPath = ""
			convey.So(config.Validate(cfg), convey.ShouldNotBeNil)
		})

		convey.Convey("When tier thresholds decrease", func() {
			cfg.TierThresholds = []int{1, 13, 7, 19}
			convey.So(config.Validate(cfg), convey.ShouldNotBeNil)
		})

		convey.Convey("When tier thresholds have the wrong length", func() {
			cfg.TierThresholds = []int{1, 7}
			convey.So(config.Validate(cfg), convey.ShouldNotBeNil)
		})

		convey.Convey("When two names share a custom position", func() {
			cfg.CustomRanking = []config.RankPin{{Name: "a", Position: 1}, {Name: "b", Position: 1}}
			convey.So(config.Validate(cfg), convey.ShouldNotBeNil)
		})

		convey.Convey("When a custom position is not positive", func() {
			cfg.CustomRanking = []config.RankPin{{Name: "a", Position: 0}}
			convey.So(config.Validate(cfg), convey.ShouldNotBeNil)
		})

		convey.Convey("When the log format is unknown", func() {
			cfg.LogFormat = "xml"
			convey.So(config.Validate(cfg), convey.ShouldNotBeNil)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"SKILLBOARD_CONFIG",
		"SKILLBOARD_ADDR",
		"SKILLBOARD_TOTAL_COURSES",
		"SKILLBOARD_STUDENT_MULTIPLIER",
		"SKILLBOARD_REFRESH_INTERVAL_MS",
		"SKILLBOARD_SNAPSHOT_BACKEND",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "skillboard-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
