package model

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Caleb5Mathew/slack-search-proxy/pkg/domain/types"
)

// Identity is the resolved (team, user) pair for a workspace member.
// Immutable once resolved for a given session; uniquely keyed by
// (TeamID, UserID).
type Identity struct {
	TeamID   types.TeamID `json:"team_id"`
	TeamName string       `json:"team_name"`
	UserID   types.UserID `json:"user_id"`
	UserName string       `json:"user_name"`
}

// Key returns the composite identity key used across all backends.
func (x Identity) Key() string {
	return fmt.Sprintf("%s:%s", x.TeamID, x.UserID)
}

// Validate checks that both ID components are present.
func (x Identity) Validate() error {
	if err := x.TeamID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid identity")
	}
	if err := x.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid identity")
	}
	return nil
}

// SplitName splits a display name on the first space into a first name and
// the remainder. A name without a space yields an empty last name.
func SplitName(name string) (firstName, lastName string) {
	first, rest, found := strings.Cut(name, " ")
	if !found {
		return name, ""
	}
	return first, rest
}
