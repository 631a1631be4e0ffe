package pricefeed

import (
	"context"
	"time"

	"github.com/activityhub/backend/domain"
)

// Static serves a fixed quote. Meant for development and tests where no
// external feed is reachable.
type Static struct {
	price    int64
	decimals int
	now      func() time.Time
}

func NewStatic(price int64, decimals int) *Static {
	if decimals <= 0 {
		decimals = domain.QuoteDecimals
	}
	return &Static{
		price:    price,
		decimals: decimals,
		now:      time.Now,
	}
}

func (s *Static) LatestQuote(ctx context.Context) (domain.Quote, error) {
	if s.price <= 0 {
		return domain.Quote{}, domain.NewError(domain.ErrCodeInternal, "static price not configured")
	}
	return domain.Quote{
		Price:     s.price,
		Decimals:  s.decimals,
		UpdatedAt: s.now(),
	}, nil
}
