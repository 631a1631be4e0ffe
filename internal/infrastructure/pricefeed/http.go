package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/activityhub/backend/domain"
)

// HTTPFeed polls a JSON price endpoint over fasthttp. Responses are cached
// briefly so hot paths do not hammer the upstream, and quotes older than
// MaxAge are rejected rather than served.
type HTTPFeed struct {
	client  *fasthttp.Client
	url     string
	maxAge  time.Duration
	timeout time.Duration
	logger  *zap.Logger

	mu        sync.Mutex
	cached    domain.Quote
	fetchedAt time.Time
}

type feedResponse struct {
	Price     int64 `json:"price"`
	Decimals  int   `json:"decimals"`
	UpdatedAt int64 `json:"updated_at"`
}

func NewHTTPFeed(url string, maxAge time.Duration, logger *zap.Logger) *HTTPFeed {
	if maxAge <= 0 {
		maxAge = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPFeed{
		client: &fasthttp.Client{
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		url:     url,
		maxAge:  maxAge,
		timeout: 5 * time.Second,
		logger:  logger,
	}
}

func (f *HTTPFeed) LatestQuote(ctx context.Context) (domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	if !f.fetchedAt.IsZero() && now.Sub(f.fetchedAt) < 10*time.Second {
		return f.validate(f.cached, now)
	}

	quote, err := f.fetch()
	if err != nil {
		// Fall back to the cached quote as long as it is still fresh.
		if !f.fetchedAt.IsZero() {
			if cached, cacheErr := f.validate(f.cached, now); cacheErr == nil {
				f.logger.Warn("price feed fetch failed, serving cached quote", zap.Error(err))
				return cached, nil
			}
		}
		return domain.Quote{}, domain.WrapError(domain.ErrCodeInternal, "price feed unavailable", err)
	}

	f.cached = quote
	f.fetchedAt = now
	return f.validate(quote, now)
}

func (f *HTTPFeed) fetch() (domain.Quote, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(f.url)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := f.client.DoTimeout(req, resp, f.timeout); err != nil {
		return domain.Quote{}, err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return domain.Quote{}, fmt.Errorf("price feed returned status %d", resp.StatusCode())
	}

	var body feedResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return domain.Quote{}, err
	}
	if body.Price <= 0 {
		return domain.Quote{}, fmt.Errorf("price feed returned non-positive price %d", body.Price)
	}

	decimals := body.Decimals
	if decimals <= 0 {
		decimals = domain.QuoteDecimals
	}
	updated := time.Unix(body.UpdatedAt, 0)
	if body.UpdatedAt == 0 {
		updated = time.Now()
	}

	return domain.Quote{
		Price:     body.Price,
		Decimals:  decimals,
		UpdatedAt: updated,
	}, nil
}

func (f *HTTPFeed) validate(quote domain.Quote, now time.Time) (domain.Quote, error) {
	if quote.Price <= 0 {
		return domain.Quote{}, domain.NewError(domain.ErrCodeInternal, "no quote available")
	}
	if quote.Age(now) > f.maxAge {
		return domain.Quote{}, domain.NewError(domain.ErrCodeInternal, "price quote is stale")
	}
	return quote, nil
}
