package dto

// RecordEngagementRequest captures the POST /engagement payload. Counters
// are deltas added to the sample already stored for (user, date).
type RecordEngagementRequest struct {
	UserID             string `json:"user_id" binding:"required"`
	Date               string `json:"date"`
	LoginCount         int    `json:"login_count"`
	TimeSpentMinutes   int    `json:"time_spent_minutes"`
	InteractionCount   int    `json:"interaction_count"`
	TasksCompleted     int    `json:"tasks_completed"`
	ResponsesSubmitted int    `json:"responses_submitted"`
}
