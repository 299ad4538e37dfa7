package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"fintrack/internal/finance"
	"fintrack/internal/marketdata"
	"fintrack/internal/ratelimit"
	"fintrack/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	testStore  *store.Memory
	testQuotes *fakeQuotes
	testRouter *gin.Engine

	// the recurring processor in tests always runs on this day
	testToday = time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)
)

// TestMain sets up the test environment
func TestMain(m *testing.M) {
	// Set gin to test mode
	gin.SetMode(gin.TestMode)

	setupTestRouter()

	os.Exit(m.Run())
}

// fakeQuotes serves canned quotes for both the quote endpoint and the
// price sync.
type fakeQuotes struct {
	quotes map[string]marketdata.Quote
	errs   map[string]error
}

func (f *fakeQuotes) Quote(_ context.Context, ticker string) (marketdata.Quote, error) {
	if err, ok := f.errs[ticker]; ok {
		return marketdata.Quote{}, err
	}
	q, ok := f.quotes[ticker]
	if !ok {
		return marketdata.Quote{}, marketdata.ErrNoQuote
	}
	return q, nil
}

func (f *fakeQuotes) LatestPrice(ctx context.Context, ticker string) (decimal.Decimal, string, error) {
	q, err := f.Quote(ctx, ticker)
	if err != nil {
		return decimal.Zero, "", err
	}
	return q.Price, q.Name, nil
}

func newTestLimiters(counters ratelimit.Store, max int) Limiters {
	return Limiters{
		Read:  ratelimit.New("read", counters, time.Minute, max),
		Write: ratelimit.New("write", counters, time.Minute, max),
		API:   ratelimit.New("api", counters, time.Minute, max),
	}
}

func newTestServer(st store.Store, quotes *fakeQuotes, limiters Limiters) *Server {
	return newTestServerWithLog(st, quotes, limiters, zerolog.Nop())
}

func newTestServerWithLog(st store.Store, quotes *fakeQuotes, limiters Limiters, log zerolog.Logger) *Server {
	return NewServer(ServerOptions{
		Store:          st,
		Processor:      finance.NewProcessor(st, log, finance.WithClock(func() time.Time { return testToday }), finance.WithLocation(time.UTC)),
		Syncer:         finance.NewPriceSyncer(st, quotes, 2, log),
		Quotes:         quotes,
		Limiters:       limiters,
		AllowedOrigins: []string{"http://localhost:3000"},
		Log:            log,
	})
}

// setupTestRouter configures the test router with a fresh in-memory store
func setupTestRouter() {
	testStore = store.NewMemory()
	testQuotes = &fakeQuotes{quotes: map[string]marketdata.Quote{}, errs: map[string]error{}}
	srv := newTestServer(testStore, testQuotes, newTestLimiters(ratelimit.NewMemoryStore(), 1_000_000))
	testRouter = srv.Router()
}

// cleanupTestData starts every test from empty tables
func cleanupTestData() {
	setupTestRouter()
}

// createTestCategory creates a test category and returns it
func createTestCategory(t *testing.T, name string, kind finance.Kind) finance.Category {
	t.Helper()
	category, err := testStore.CreateCategory(context.Background(), finance.NewCategory{
		Name:  name,
		Type:  kind,
		Color: finance.DefaultColor,
		Icon:  finance.DefaultIcon,
	})
	assertNoError(t, err)
	return category
}

// createTestTransaction inserts a row directly through the store
func createTestTransaction(t *testing.T, kind finance.Kind, categoryID uuid.UUID, amount, date, notes string) finance.Transaction {
	t.Helper()
	in := finance.NewTransaction{
		Amount:     decimal.RequireFromString(amount),
		CategoryID: categoryID,
		Date:       mustDate(t, date),
	}
	if notes != "" {
		in.Notes = &notes
	}
	tx, err := testStore.CreateTransaction(context.Background(), kind, in)
	assertNoError(t, err)
	return tx
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := finance.ParseDate(s)
	assertNoError(t, err)
	return d
}

// makeRequest helper function for making HTTP requests
func makeRequest(method, url string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	testRouter.ServeHTTP(recorder, req)

	return recorder
}

// makeJSONRequest marshals payload and sends it as the request body
func makeJSONRequest(t *testing.T, method, url string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	assertNoError(t, err)
	return makeRequest(method, url, bytes.NewBuffer(body))
}

// parseJSONResponse helper function to parse JSON response
func parseJSONResponse(recorder *httptest.ResponseRecorder, target interface{}) error {
	return json.Unmarshal(recorder.Body.Bytes(), target)
}

// parseErrorResponse decodes an error body
func parseErrorResponse(t *testing.T, recorder *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	assertNoError(t, parseJSONResponse(recorder, &resp))
	return resp
}

// assertStatusCode helper function to assert HTTP status code
func assertStatusCode(t *testing.T, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Errorf("Expected status code %d, got %d", expected, actual)
	}
}

// assertNoError helper function to assert no error occurred
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}

// assertDecimal compares decimals by value, ignoring scale
func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	if !decimal.RequireFromString(expected).Equal(actual) {
		t.Errorf("Expected %s, got %s", expected, actual)
	}
}

var errUpstream = errors.New("upstream unavailable")
