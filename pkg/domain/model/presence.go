package model

import (
	"time"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/types"
)

// PresenceRecord tracks when an identity completed authentication and when
// it was last active. Records are created on the first successful OAuth
// exchange and never deleted by this process; the remote copy may expire
// under a retention window.
type PresenceRecord struct {
	TeamID      types.TeamID `json:"team_id"`
	UserID      types.UserID `json:"user_id"`
	TeamName    string       `json:"team_name"`
	UserName    string       `json:"user_name"`
	ConnectedAt time.Time    `json:"connected_at"`
	LastSeen    time.Time    `json:"last_seen"`
}

// NewPresenceRecord builds a record for a first-time connection, with
// connected_at and last_seen both set to now.
func NewPresenceRecord(id Identity, now time.Time) *PresenceRecord {
	return &PresenceRecord{
		TeamID:      id.TeamID,
		UserID:      id.UserID,
		TeamName:    id.TeamName,
		UserName:    id.UserName,
		ConnectedAt: now,
		LastSeen:    now,
	}
}

// Identity reconstructs the identity key of the record.
func (x *PresenceRecord) Identity() Identity {
	return Identity{
		TeamID:   x.TeamID,
		TeamName: x.TeamName,
		UserID:   x.UserID,
		UserName: x.UserName,
	}
}
