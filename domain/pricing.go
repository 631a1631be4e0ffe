package domain

import (
	"math/big"
	"time"
)

// NativeDecimals is the fixed-point scale of native-currency amounts.
const NativeDecimals = 8

// QuoteDecimals is the fixed-point scale of oracle prices, by convention.
const QuoteDecimals = 8

// Quote is the latest native/fiat price reported by the oracle: one whole
// native unit costs Price/10^Decimals fiat units.
type Quote struct {
	Price     int64     `json:"price"`
	Decimals  int       `json:"decimals"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Age returns how old the quote is relative to now.
func (q Quote) Age(now time.Time) time.Duration {
	return now.Sub(q.UpdatedAt)
}

// ConvertFiatToNative converts a whole-fiat amount into native units
// (8 decimals) at the quoted price, rounding down. A non-positive price is
// rejected so a broken oracle read can never default to zero cost.
func ConvertFiatToNative(fiatAmount int64, q Quote) (int64, error) {
	if fiatAmount < 0 {
		return 0, ErrInvalidPayload
	}
	if q.Price <= 0 {
		return 0, NewError(ErrCodeInternal, "oracle returned a non-positive price")
	}

	decimals := q.Decimals
	if decimals <= 0 {
		decimals = QuoteDecimals
	}

	// native = fiat * 10^NativeDecimals * 10^decimals / price, computed in
	// big.Int so large fiat amounts cannot overflow the intermediate.
	num := new(big.Int).SetInt64(fiatAmount)
	num.Mul(num, pow10(NativeDecimals))
	num.Mul(num, pow10(decimals))
	num.Quo(num, big.NewInt(q.Price))

	if !num.IsInt64() {
		return 0, NewError(ErrCodeInvalid, "converted amount exceeds native range")
	}
	return num.Int64(), nil
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
