// Package marketdata fetches stock quotes from the Yahoo Finance chart API.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const DefaultBaseURL = "https://query1.finance.yahoo.com"

// ErrNoQuote is returned when the upstream has no price for a ticker.
var ErrNoQuote = errors.New("no quote available")

// Quote is the subset of chart metadata exposed by the API.
type Quote struct {
	Ticker           string           `json:"ticker"`
	Name             string           `json:"name"`
	Price            decimal.Decimal  `json:"price"`
	PreviousClose    *decimal.Decimal `json:"previous_close"`
	Change           *decimal.Decimal `json:"change"`
	ChangePercent    *decimal.Decimal `json:"change_percent"`
	FiftyTwoWeekHigh *decimal.Decimal `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  *decimal.Decimal `json:"fifty_two_week_low"`
	DayHigh          *decimal.Decimal `json:"day_high"`
	DayLow           *decimal.Decimal `json:"day_low"`
	Volume           *int64           `json:"volume"`
	Currency         string           `json:"currency"`
	Exchange         string           `json:"exchange"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta chartMeta `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartMeta struct {
	Symbol               string   `json:"symbol"`
	Currency             string   `json:"currency"`
	FullExchangeName     string   `json:"fullExchangeName"`
	LongName             string   `json:"longName"`
	ShortName            string   `json:"shortName"`
	RegularMarketPrice   *float64 `json:"regularMarketPrice"`
	ChartPreviousClose   *float64 `json:"chartPreviousClose"`
	FiftyTwoWeekHigh     *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow      *float64 `json:"fiftyTwoWeekLow"`
	RegularMarketDayHigh *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow  *float64 `json:"regularMarketDayLow"`
	RegularMarketVolume  *int64   `json:"regularMarketVolume"`
}

// Client talks to the chart endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "marketdata").Logger(),
	}
}

// Quote fetches the latest daily chart metadata for ticker.
func (c *Client) Quote(ctx context.Context, ticker string) (Quote, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.baseURL, url.PathEscape(ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Quote{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; fintrack)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("ticker", ticker).Msg("Error connecting to quote API")
		return Quote{}, fmt.Errorf("quote API connection error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Quote{}, fmt.Errorf("%w for %s", ErrNoQuote, ticker)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Quote{}, fmt.Errorf("quote API error: %d - %s", resp.StatusCode, string(body))
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		c.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to decode quote response")
		return Quote{}, err
	}
	if chart.Chart.Error != nil {
		return Quote{}, fmt.Errorf("%w for %s: %s", ErrNoQuote, ticker, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || chart.Chart.Result[0].Meta.RegularMarketPrice == nil {
		return Quote{}, fmt.Errorf("%w for %s", ErrNoQuote, ticker)
	}

	return newQuote(ticker, chart.Chart.Result[0].Meta), nil
}

// LatestPrice returns the regular market price and display name of ticker.
func (c *Client) LatestPrice(ctx context.Context, ticker string) (decimal.Decimal, string, error) {
	q, err := c.Quote(ctx, ticker)
	if err != nil {
		return decimal.Zero, "", err
	}
	return q.Price, q.Name, nil
}

func newQuote(ticker string, m chartMeta) Quote {
	q := Quote{
		Ticker:           ticker,
		Name:             m.LongName,
		Price:            decimal.NewFromFloat(*m.RegularMarketPrice),
		PreviousClose:    optional(m.ChartPreviousClose),
		FiftyTwoWeekHigh: optional(m.FiftyTwoWeekHigh),
		FiftyTwoWeekLow:  optional(m.FiftyTwoWeekLow),
		DayHigh:          optional(m.RegularMarketDayHigh),
		DayLow:           optional(m.RegularMarketDayLow),
		Volume:           m.RegularMarketVolume,
		Currency:         m.Currency,
		Exchange:         m.FullExchangeName,
	}
	if m.Symbol != "" {
		q.Ticker = m.Symbol
	}
	if q.Name == "" {
		q.Name = m.ShortName
	}
	if q.Name == "" {
		q.Name = q.Ticker
	}
	if q.PreviousClose != nil && !q.PreviousClose.IsZero() {
		change := q.Price.Sub(*q.PreviousClose)
		pct := change.Div(*q.PreviousClose).Mul(decimal.NewFromInt(100)).Round(2)
		change = change.Round(4)
		q.Change = &change
		q.ChangePercent = &pct
	}
	return q
}

func optional(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}
