package models

import (
	"time"
)

// Account owns the token balance and the daily-challenge streak.
// Tokens never go below zero; the repository enforces that with a
// conditional decrement rather than a read-then-write.
type Account struct {
	ID              string     `json:"id" db:"id"`
	Tokens          int        `json:"tokens" db:"tokens"`
	CurrentStreak   int        `json:"current_streak" db:"current_streak"`
	LastChallengeAt *time.Time `json:"last_challenge_at,omitempty" db:"last_challenge_at"` // NULL = never attempted
	LastActivityAt  time.Time  `json:"last_activity_at" db:"last_activity_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}
