// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and the environment on top of the defaults.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"time"
)

// TierLimits holds the display caps for swag tiers. Tier1 is also the
// denominator of the tier-1 progress statistic.
type TierLimits struct {
	Tier1 int `koanf:"tier1" validate:"gt=0"`
	Tier2 int `koanf:"tier2" validate:"gte=0"`
	Tier3 int `koanf:"tier3" validate:"gte=0"`
}

// RankPin forces a participant name to a ranking position.
type RankPin struct {
	Name     string `koanf:"name" validate:"required"`
	Position int    `koanf:"position" validate:"gt=0"`
}

// RankOverrides flattens CustomRanking into a name to position map.
func (c *Config) RankOverrides() map[string]int {
	out := make(map[string]int, len(c.CustomRanking))
	for _, p := range c.CustomRanking {
		out[p.Name] = p.Position
	}
	return out
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address of the preview feed, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// LeaderboardDataSource is a local CSV path or a published-sheet URL.
	LeaderboardDataSource string `koanf:"leaderboard_data_source" validate:"required"`

	// VolunteerDataSource is optional; the volunteer board is disabled when empty.
	VolunteerDataSource string `koanf:"volunteer_data_source"`

	// TotalCourses is the completion denominator.
	TotalCourses int `koanf:"total_courses" validate:"gt=0"`

	TierLimits TierLimits `koanf:"tier_limits"`

	// TierThresholds are the badge counts for beginner, intermediate,
	// advanced and expert, in that order.
	TierThresholds []int `koanf:"tier_thresholds" validate:"len=4,dive,gte=0"`

	StudentMultiplier int `koanf:"student_multiplier" validate:"gte=0"`
	CoreTeamThreshold int `koanf:"core_team_threshold" validate:"gte=0"`

	// RefreshIntervalMS drives participant polling. Zero disables it.
	RefreshIntervalMS int `koanf:"refresh_interval_ms" validate:"gte=0"`

	// VolunteerRefreshIntervalMS drives volunteer polling. Zero disables it.
	VolunteerRefreshIntervalMS int `koanf:"volunteer_refresh_interval_ms" validate:"gte=0"`

	// CacheFreshnessMS is how long a snapshot may stand in for a failed fetch.
	CacheFreshnessMS int64 `koanf:"cache_freshness_ms" validate:"gt=0"`

	// FetchCacheTTLMS keeps fetched CSV bodies in memory. Zero disables it.
	FetchCacheTTLMS int `koanf:"fetch_cache_ttl_ms" validate:"gte=0"`

	FetchTimeoutMS int `koanf:"fetch_timeout_ms" validate:"gt=0"`

	// SnapshotBackend is one of file, sqlite, memory.
	SnapshotBackend string `koanf:"snapshot_backend" validate:"oneof=file sqlite memory"`

	// SnapshotPath is a directory for the file backend or a database file for sqlite.
	SnapshotPath string `koanf:"snapshot_path" validate:"required_unless=SnapshotBackend memory"`

	// CustomRanking pins names (case-insensitive) to fixed positions.
	CustomRanking []RankPin `koanf:"custom_ranking" validate:"dive"`

	// ConfirmedNames are shown as complete everywhere.
	ConfirmedNames []string `koanf:"confirmed_names"`

	// WatchFiles enables fsnotify triggers for local CSV sources.
	WatchFiles bool `koanf:"watch_files"`

	// TriggerQueueSize bounds pending refresh triggers.
	TriggerQueueSize int `koanf:"trigger_queue_size" validate:"gt=0"`

	// MaxExportRows caps CSV export size. Zero means unlimited.
	MaxExportRows int `koanf:"max_export_rows" validate:"gte=0"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:                   "info",
		LogFormat:                  "text",
		Addr:                       ":9080",
		LeaderboardDataSource:      "data/leaderboard.csv",
		VolunteerDataSource:        "",
		TotalCourses:               20,
		TierLimits:                 TierLimits{Tier1: 100, Tier2: 70, Tier3: 50},
		TierThresholds:             []int{1, 7, 13, 19},
		StudentMultiplier:          2,
		CoreTeamThreshold:          3,
		RefreshIntervalMS:          0,
		VolunteerRefreshIntervalMS: 60_000,
		CacheFreshnessMS:           86_400_000,
		FetchCacheTTLMS:            60_000,
		FetchTimeoutMS:             15_000,
		SnapshotBackend:            "file",
		SnapshotPath:               ".skillboard",
		CustomRanking:              nil,
		ConfirmedNames:             nil,
		WatchFiles:                 false,
		TriggerQueueSize:           1,
		MaxExportRows:              0,
	}
}

// RefreshInterval returns the participant polling interval.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMS) * time.Millisecond
}

// VolunteerRefreshInterval returns the volunteer polling interval.
func (c *Config) VolunteerRefreshInterval() time.Duration {
	return time.Duration(c.VolunteerRefreshIntervalMS) * time.Millisecond
}

// CacheFreshness returns the snapshot freshness window.
func (c *Config) CacheFreshness() time.Duration {
	return time.Duration(c.CacheFreshnessMS) * time.Millisecond
}

// FetchCacheTTL returns the in-memory fetch cache lifetime.
func (c *Config) FetchCacheTTL() time.Duration {
	return time.Duration(c.FetchCacheTTLMS) * time.Millisecond
}

// FetchTimeout returns the per-fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}
