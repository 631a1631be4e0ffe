package domain

import "time"

// Address is an opaque account identity. The core treats it as a key and
// never inspects its encoding.
type Address string

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool {
	return a == ""
}

// User represents a registered identity with its credit balance.
// Credits are the internal, non-transferable spending unit; they are never
// purchasable with native currency.
type User struct {
	Address    Address   `json:"address"`
	Registered bool      `json:"registered"`
	Credits    int64     `json:"credits"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
