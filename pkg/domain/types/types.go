package types

import "github.com/m-mizutani/goerr/v2"

// TeamID is a Slack workspace ID (e.g. "T0123456789").
type TeamID string

func (x TeamID) String() string { return string(x) }

// Validate checks if the TeamID is non-empty.
func (x TeamID) Validate() error {
	if x == "" {
		return goerr.New("team ID is empty")
	}
	return nil
}

// UserID is a Slack member ID (e.g. "U0123456789").
type UserID string

func (x UserID) String() string { return string(x) }

// Validate checks if the UserID is non-empty.
func (x UserID) Validate() error {
	if x == "" {
		return goerr.New("user ID is empty")
	}
	return nil
}

// Revision is the opaque tag a content store returns on read and requires
// on write to detect concurrent modification. Empty means "the file does
// not exist yet".
type Revision string

func (x Revision) String() string { return string(x) }
