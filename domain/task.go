package domain

import "time"

// Task is a unit of work escrowed against an activity. The reward is locked
// in native units at creation and released to the assignee exactly once on
// completion, together with a credit score reward.
type Task struct {
	ID          int64   `json:"id"`
	ActivityID  int64   `json:"activity_id"`
	Assignee    Address `json:"assignee"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`

	// RewardAmount is the escrowed native amount (8 decimals) captured at
	// creation from the owner's payment.
	RewardAmount      int64     `json:"reward_amount"`
	CreditScoreReward int64     `json:"credit_score_reward"`
	DueDate           time.Time `json:"due_date"`

	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
