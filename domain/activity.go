package domain

import "time"

// Activity is a tiered, owner-created unit of membership with its own fund
// custody, terms, and tasks. IDs are monotonic and 1-based; 0 is the
// "not found" sentinel.
type Activity struct {
	ID          int64   `json:"id"`
	Owner       Address `json:"owner"`
	PublicID    string  `json:"public_id,omitempty"`
	Username    string  `json:"username,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Level       Level   `json:"level"`

	// FiatPrice is the creation price in whole fiat units; JoinPrice is the
	// fiat cost to become a member, converted to native at join time.
	FiatPrice int64 `json:"fiat_price"`
	JoinPrice int64 `json:"join_price"`

	MaxMembers            int `json:"max_members"`
	TotalTimeInMonths     int `json:"total_time_in_months"`
	WaitingPeriodInMonths int `json:"waiting_period_in_months"`

	Members   []Address `json:"members"`
	Whitelist []Address `json:"whitelist,omitempty"`
	Terms     []Term    `json:"terms"`

	// DonationBalance is the custody balance in native units (8 decimals),
	// net of the platform fee. TotalDonationReceived is gross.
	DonationBalance       int64 `json:"donation_balance"`
	TotalDonationReceived int64 `json:"total_donation_received"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Term is one atomically appended record of parallel titles/descriptions.
type Term struct {
	Titles       []string  `json:"titles"`
	Descriptions []string  `json:"descriptions"`
	AddedAt      time.Time `json:"added_at"`
}

// HasMember reports membership of addr.
func (a *Activity) HasMember(addr Address) bool {
	if a == nil {
		return false
	}
	for _, m := range a.Members {
		if m == addr {
			return true
		}
	}
	return false
}

// IsWhitelisted reports whether addr is on the activity's join allow-list.
// The owner is always allowed.
func (a *Activity) IsWhitelisted(addr Address) bool {
	if a == nil {
		return false
	}
	if addr == a.Owner {
		return true
	}
	for _, w := range a.Whitelist {
		if w == addr {
			return true
		}
	}
	return false
}

// IsFull reports whether the member limit has been reached.
func (a *Activity) IsFull() bool {
	return a != nil && a.MaxMembers > 0 && len(a.Members) >= a.MaxMembers
}
