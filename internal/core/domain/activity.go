package domain

import "time"

// ActivityAction names the kind of mutation recorded in the activity trail.
type ActivityAction string

const (
	ActionCreated ActivityAction = "created"
	ActionUpdated ActivityAction = "updated"
	ActionDeleted ActivityAction = "deleted"
)

// Activity is one entry of an engineer's audit trail.
type Activity struct {
	ID         string         `json:"id"`
	EngineerID string         `json:"engineerId"`
	UserID     string         `json:"userId"`
	Action     ActivityAction `json:"action"`
	At         time.Time      `json:"at"`
}
