package model

import (
	"time"
)

// UsageEntry is the per-user aggregate stored in the document ledger. One
// entry per (team_id, user_id); questionCount starts at 1 on creation and
// only the "last" timestamps move on subsequent questions.
type UsageEntry struct {
	UserID          string    `firestore:"userId" json:"userId"`
	UserName        string    `firestore:"userName" json:"userName"`
	FirstName       string    `firestore:"firstName" json:"firstName"`
	LastName        string    `firestore:"lastName" json:"lastName"`
	TeamID          string    `firestore:"teamId" json:"teamId"`
	TeamName        string    `firestore:"teamName" json:"teamName"`
	QuestionCount   int64     `firestore:"questionCount" json:"questionCount"`
	FirstQuestionAt time.Time `firestore:"firstQuestionAt" json:"firstQuestionAt"`
	LastQuestionAt  time.Time `firestore:"lastQuestionAt" json:"lastQuestionAt"`
	FirstSeen       time.Time `firestore:"firstSeen" json:"firstSeen"`
	LastSeen        time.Time `firestore:"lastSeen" json:"lastSeen"`
}

// NewUsageEntry builds the first-question entry for an identity, with all
// timestamps set to now.
func NewUsageEntry(id Identity, now time.Time) *UsageEntry {
	firstName, lastName := SplitName(id.UserName)
	return &UsageEntry{
		UserID:          id.UserID.String(),
		UserName:        id.UserName,
		FirstName:       firstName,
		LastName:        lastName,
		TeamID:          id.TeamID.String(),
		TeamName:        id.TeamName,
		QuestionCount:   1,
		FirstQuestionAt: now,
		LastQuestionAt:  now,
		FirstSeen:       now,
		LastSeen:        now,
	}
}

// RecordQuestion applies one more question to an existing entry. The
// "first" fields are untouched.
func (x *UsageEntry) RecordQuestion(now time.Time) {
	x.QuestionCount++
	x.LastQuestionAt = now
	x.LastSeen = now
}
