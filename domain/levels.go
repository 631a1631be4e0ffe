package domain

// Level is the activity tier. Each tier bounds the maximum fiat creation
// price and fixes the credit cost of creating an activity at that tier.
type Level int

const (
	LevelMin Level = 1
	LevelMax Level = 5
)

// StartingCredits is granted once at registration.
const StartingCredits int64 = 10

// DonationFeePercent is the platform cut taken from every donation.
const DonationFeePercent int64 = 25

// TaskTaxPercent is the platform tax levied on a task reward amount.
const TaskTaxPercent int64 = 20

// TaxOnTaskReward returns the truncating tax share of a reward amount.
// Non-positive amounts carry no tax.
func TaxOnTaskReward(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	return amount * TaskTaxPercent / 100
}

// Valid reports whether the level is within the supported tier range.
func (l Level) Valid() bool {
	return l >= LevelMin && l <= LevelMax
}

// PriceCeiling returns the maximum allowed fiat creation price for the tier.
func (l Level) PriceCeiling() int64 {
	return int64(l) * 5
}

// CreditCost returns the credit debit for creating an activity at the tier.
func (l Level) CreditCost() int64 {
	return int64(l) * 2
}
