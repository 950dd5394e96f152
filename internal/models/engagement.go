package models

import "time"

// EngagementSample holds the additive activity counters recorded for one
// user on one calendar day. Counters cover that day only, they are not
// cumulative across days.
type EngagementSample struct {
	ID                 string `db:"id" json:"id"`
	UserID             string `db:"user_id" json:"user_id"`
	Date               string `db:"date" json:"date"`
	LoginCount         int    `db:"login_count" json:"login_count"`
	TimeSpentMinutes   int    `db:"time_spent_minutes" json:"time_spent_minutes"`
	InteractionCount   int    `db:"interaction_count" json:"interaction_count"`
	TasksCompleted     int    `db:"tasks_completed" json:"tasks_completed"`
	ResponsesSubmitted int    `db:"responses_submitted" json:"responses_submitted"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EngagementFilter scopes engagement listing queries.
type EngagementFilter struct {
	UserID   string
	DateFrom string
	DateTo   string
	Page     int
	PageSize int
}
