// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// RankChange describes how an entity moved since the previous refresh.
type RankChange string

// Rank change kinds. The zero value means detection has not run.
const (
	RankUnknown RankChange = ""
	RankUp      RankChange = "up"
	RankDown    RankChange = "down"
	RankSame    RankChange = "same"
	RankNew     RankChange = "new"
)

// Participant is a normalized, ranked leaderboard entry.
// CompletionPercentage and BadgeTypes are always derived from the counts.
type Participant struct {
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	ProfileURL           string     `json:"profileUrl"`
	TotalCourses         int        `json:"totalCourses"`
	CompletedCourses     int        `json:"completedCourses"`
	CompletionPercentage int        `json:"completionPercentage"`
	BadgesEarned         int        `json:"badgesEarned"`
	ArcadeGames          int        `json:"arcadeGames"`
	BadgeTypes           []string   `json:"badgeTypes"`
	BadgeNames           string     `json:"badgeNames"`
	AccessCodeRedeemed   bool       `json:"accessCodeRedeemed"`
	AllCompleted         bool       `json:"allCompleted"`
	Confirmed            bool       `json:"confirmed"`
	LastUpdated          time.Time  `json:"lastUpdated"`
	AvatarColor          string     `json:"avatarColor"`
	Initials             string     `json:"initials"`
	Rank                 int        `json:"rank"`
	RankChange           RankChange `json:"rankChange,omitempty"`
	RankDiff             int        `json:"rankDiff"`
}

// Key is the identity used to match a participant across refreshes.
// Emails compare case-insensitively.
func (p Participant) Key() string {
	return strings.ToLower(strings.TrimSpace(p.Email))
}

// Clone returns a copy that does not share the BadgeTypes backing array.
func (p Participant) Clone() Participant {
	if p.BadgeTypes != nil {
		p.BadgeTypes = append([]string(nil), p.BadgeTypes...)
	}
	return p
}
