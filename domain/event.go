package domain

import (
	"encoding/json"
	"time"
)

// LedgerEvent records one applied state mutation for the audit journal.
type LedgerEvent struct {
	ID        string          `json:"id"`
	Module    string          `json:"module"`
	Operation string          `json:"operation"`
	Principal Address         `json:"principal"`
	Sender    Address         `json:"sender,omitempty"`
	Subject   int64           `json:"subject,omitempty"`
	Amount    int64           `json:"amount,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
