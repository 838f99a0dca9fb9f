// Package audit emits one structured record per authentication attempt.
// Records travel over the message broker and land in the document store;
// the whole pipeline is fire-and-forget, so a broken broker or sink can
// never fail the auth operation that produced the record.
package audit

import "time"

// Queue is the broker queue carrying audit events.
const Queue = "auth.audit"

// Outcome tags used in events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Event is the structured audit record for a login/refresh/logout attempt.
// UserID is zero when the attempt never resolved to an account.
type Event struct {
	Action  string    `json:"action" bson:"action"`
	Module  string    `json:"module" bson:"module"`
	UserID  uint64    `json:"user_id,omitempty" bson:"userId,omitempty"`
	IP      string    `json:"ip" bson:"ip"`
	Outcome string    `json:"outcome" bson:"outcome"`
	Message string    `json:"message" bson:"message"`
	At      time.Time `json:"at" bson:"createdAt"`
}
