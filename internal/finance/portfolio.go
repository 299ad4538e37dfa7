package finance

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// PriceSource returns the latest market price and display name of a ticker.
type PriceSource interface {
	LatestPrice(ctx context.Context, ticker string) (price decimal.Decimal, name string, err error)
}

// PortfolioStore is what the price sync needs from persistence.
type PortfolioStore interface {
	ListTickers(ctx context.Context) ([]string, error)
	UpdateStockValuation(ctx context.Context, ticker string, price decimal.Decimal, name *string) (int64, error)
}

// SyncResult reports a price refresh. Failed maps each ticker that could not
// be refreshed to the reason.
type SyncResult struct {
	UpdatedTickers []string                   `json:"updated_tickers"`
	Prices         map[string]decimal.Decimal `json:"prices"`
	UpdatedRows    int64                      `json:"updated_rows"`
	Failed         map[string]string          `json:"failed"`
}

// Partial reports whether at least one ticker failed.
func (r SyncResult) Partial() bool {
	return len(r.Failed) > 0
}

// PriceSyncer refreshes the current value of every held ticker.
type PriceSyncer struct {
	store       PortfolioStore
	source      PriceSource
	concurrency int
	log         zerolog.Logger
}

// NewPriceSyncer syncs at most concurrency tickers at a time. Values below
// one are raised to one.
func NewPriceSyncer(store PortfolioStore, source PriceSource, concurrency int, log zerolog.Logger) *PriceSyncer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &PriceSyncer{
		store:       store,
		source:      source,
		concurrency: concurrency,
		log:         log.With().Str("component", "price_sync").Logger(),
	}
}

// Sync fetches a price per ticker and rewrites current_value for all of
// that ticker's purchases. One ticker failing does not stop the others; only
// a failure to list tickers is returned as an error.
func (s *PriceSyncer) Sync(ctx context.Context) (SyncResult, error) {
	result := SyncResult{
		UpdatedTickers: []string{},
		Prices:         map[string]decimal.Decimal{},
		Failed:         map[string]string{},
	}

	tickers, err := s.store.ListTickers(ctx)
	if err != nil {
		return result, err
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, ticker := range tickers {
		g.Go(func() error {
			rows, price, err := s.syncTicker(gctx, ticker)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to sync ticker price")
				result.Failed[ticker] = err.Error()
				return nil
			}
			result.UpdatedTickers = append(result.UpdatedTickers, ticker)
			result.Prices[ticker] = price
			result.UpdatedRows += rows
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(result.UpdatedTickers)
	s.log.Info().
		Int("tickers", len(tickers)).
		Int("updated", len(result.UpdatedTickers)).
		Int("failed", len(result.Failed)).
		Msg("Synced stock prices")
	return result, nil
}

func (s *PriceSyncer) syncTicker(ctx context.Context, ticker string) (int64, decimal.Decimal, error) {
	price, name, err := s.source.LatestPrice(ctx, ticker)
	if err != nil {
		return 0, decimal.Zero, err
	}
	var namePtr *string
	if name != "" {
		namePtr = &name
	}
	rows, err := s.store.UpdateStockValuation(ctx, ticker, price, namePtr)
	if err != nil {
		return 0, decimal.Zero, err
	}
	return rows, price, nil
}
