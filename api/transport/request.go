package transport

type AuthLoginRequest struct {
	Address string `json:"address"`
	TTL     int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}

type CreateActivityRequest struct {
	PublicID              string `json:"public_id"`
	Username              string `json:"username"`
	Title                 string `json:"title"`
	Description           string `json:"description"`
	TotalTimeInMonths     int    `json:"total_time_in_months"`
	FiatPrice             int64  `json:"fiat_price"`
	Level                 int    `json:"level"`
	MaxMembers            int    `json:"max_members"`
	WaitingPeriodInMonths int    `json:"waiting_period_in_months"`
}

type JoinActivityRequest struct {
	DisplayName    string `json:"display_name"`
	TenureInMonths int    `json:"tenure_in_months"`
	Payment        int64  `json:"payment"`
}

type AddTermRequest struct {
	Titles       []string `json:"titles"`
	Descriptions []string `json:"descriptions"`
}

type WhitelistRequest struct {
	Addresses []string `json:"addresses"`
}

type DonateRequest struct {
	DonorPublicID string `json:"donor_public_id"`
	Amount        int64  `json:"amount"`
}

type WithdrawRequest struct {
	Amount int64 `json:"amount"`
}

type CreateTaskRequest struct {
	Assignee          string `json:"assignee"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	FiatReward        int64  `json:"fiat_reward"`
	DueInDays         int    `json:"due_in_days"`
	CreditScoreReward int64  `json:"credit_score_reward"`
	Payment           int64  `json:"payment"`
}

type DepositRequest struct {
	Amount int64 `json:"amount"`
}
