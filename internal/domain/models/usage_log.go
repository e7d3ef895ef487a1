package models

import (
	"time"
)

// UsageAction tags a ledger mutation with its kind.
type UsageAction string

const (
	ActionEarn      UsageAction = "earn"
	ActionSpend     UsageAction = "spend"
	ActionChallenge UsageAction = "challenge"
)

// UsageLog is an immutable audit record written by every ledger mutation.
// Detail carries the kind-specific context: the earn reason, the spent
// feature tag, or the challenge ID.
type UsageLog struct {
	ID        string      `json:"id" db:"id"`
	AccountID string      `json:"account_id" db:"account_id"`
	Action    UsageAction `json:"action" db:"action"`
	Amount    int         `json:"amount" db:"amount"`
	Detail    string      `json:"detail" db:"detail"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}
