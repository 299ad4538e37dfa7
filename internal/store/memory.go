package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"fintrack/internal/finance"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Memory is an in-process Store. It enforces the same uniqueness and
// reference rules as the PostgreSQL schema, so handlers behave alike on
// both.
type Memory struct {
	mu   *sync.RWMutex
	data *memoryData
	inTx bool
	now  func() time.Time
}

type memoryData struct {
	categories   map[uuid.UUID]finance.Category
	transactions map[uuid.UUID]finance.Transaction
	stocks       map[uuid.UUID]finance.StockPurchase
	lastStamp    time.Time
}

func NewMemory() *Memory {
	return &Memory{
		mu: &sync.RWMutex{},
		data: &memoryData{
			categories:   make(map[uuid.UUID]finance.Category),
			transactions: make(map[uuid.UUID]finance.Transaction),
			stocks:       make(map[uuid.UUID]finance.StockPurchase),
		},
		now: time.Now,
	}
}

func (d *memoryData) clone() *memoryData {
	c := &memoryData{
		categories:   make(map[uuid.UUID]finance.Category, len(d.categories)),
		transactions: make(map[uuid.UUID]finance.Transaction, len(d.transactions)),
		stocks:       make(map[uuid.UUID]finance.StockPurchase, len(d.stocks)),
		lastStamp:    d.lastStamp,
	}
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.transactions {
		c.transactions[k] = v
	}
	for k, v := range d.stocks {
		c.stocks[k] = v
	}
	return c
}

// stamp returns a strictly increasing timestamp so rows created in quick
// succession keep their insertion order.
func (m *Memory) stamp() time.Time {
	t := m.now().UTC().Truncate(time.Microsecond)
	if !t.After(m.data.lastStamp) {
		t = m.data.lastStamp.Add(time.Microsecond)
	}
	m.data.lastStamp = t
	return t
}

func (m *Memory) lock() {
	if !m.inTx {
		m.mu.Lock()
	}
}

func (m *Memory) unlock() {
	if !m.inTx {
		m.mu.Unlock()
	}
}

func (m *Memory) rlock() {
	if !m.inTx {
		m.mu.RLock()
	}
}

func (m *Memory) runlock() {
	if !m.inTx {
		m.mu.RUnlock()
	}
}

// WithTx runs fn against a copy of the data and swaps it in on success.
// Other writers wait until fn returns.
func (m *Memory) WithTx(_ context.Context, fn func(Store) error) error {
	if m.inTx {
		return fn(m)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &Memory{mu: m.mu, data: m.data.clone(), inTx: true, now: m.now}
	if err := fn(tx); err != nil {
		return err
	}
	m.data = tx.data
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() {}

// Categories

func (m *Memory) ListCategories(_ context.Context, kind *finance.Kind) ([]finance.Category, error) {
	m.rlock()
	defer m.runlock()

	categories := []finance.Category{}
	for _, c := range m.data.categories {
		if kind != nil && c.Type != *kind {
			continue
		}
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (m *Memory) GetCategory(_ context.Context, id uuid.UUID) (finance.Category, error) {
	m.rlock()
	defer m.runlock()

	c, ok := m.data.categories[id]
	if !ok {
		return finance.Category{}, finance.ErrNotFound
	}
	return c, nil
}

func (m *Memory) CreateCategory(_ context.Context, in finance.NewCategory) (finance.Category, error) {
	m.lock()
	defer m.unlock()

	for _, c := range m.data.categories {
		if c.Name == in.Name && c.Type == in.Type {
			return finance.Category{}, fmt.Errorf("%w: categories_name_type_key", finance.ErrConflict)
		}
	}
	now := m.stamp()
	c := finance.Category{
		ID:        uuid.New(),
		Name:      in.Name,
		Type:      in.Type,
		Color:     in.Color,
		Icon:      finance.ResolveIcon(in.Icon, in.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.data.categories[c.ID] = c
	return c, nil
}

func (m *Memory) CountCategories(context.Context) (int64, error) {
	m.rlock()
	defer m.runlock()
	return int64(len(m.data.categories)), nil
}

// Transactions

func (m *Memory) checkCategory(kind finance.Kind, id uuid.UUID) error {
	c, ok := m.data.categories[id]
	if !ok || c.Type != kind {
		return fmt.Errorf("%w: transactions_category_kind_fkey", finance.ErrInvalidReference)
	}
	return nil
}

// withCategory returns a copy of t with its category embedded.
func (m *Memory) withCategory(t finance.Transaction) finance.Transaction {
	if c, ok := m.data.categories[t.CategoryID]; ok {
		t.Category = &c
	}
	return t
}

func (m *Memory) CreateTransaction(_ context.Context, kind finance.Kind, in finance.NewTransaction) (finance.Transaction, error) {
	m.lock()
	defer m.unlock()

	if err := m.checkCategory(kind, in.CategoryID); err != nil {
		return finance.Transaction{}, err
	}
	date := finance.Day(in.Date)
	if in.TemplateID != nil {
		if _, ok := m.data.transactions[*in.TemplateID]; !ok {
			return finance.Transaction{}, fmt.Errorf("%w: transactions_template_id_fkey", finance.ErrInvalidReference)
		}
		for _, t := range m.data.transactions {
			if t.TemplateID != nil && *t.TemplateID == *in.TemplateID && t.Date.Equal(date) {
				return finance.Transaction{}, fmt.Errorf("%w: transactions_template_date_key", finance.ErrConflict)
			}
		}
	}

	now := m.stamp()
	t := finance.Transaction{
		ID:          uuid.New(),
		Kind:        kind,
		Amount:      in.Amount,
		CategoryID:  in.CategoryID,
		Date:        date,
		Notes:       copyString(in.Notes),
		IsRecurring: in.IsRecurring,
		TemplateID:  copyUUID(in.TemplateID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.data.transactions[t.ID] = t
	return m.withCategory(t), nil
}

func (m *Memory) GetTransaction(_ context.Context, kind finance.Kind, id uuid.UUID) (finance.Transaction, error) {
	m.rlock()
	defer m.runlock()

	t, ok := m.data.transactions[id]
	if !ok || t.Kind != kind {
		return finance.Transaction{}, finance.ErrNotFound
	}
	return m.withCategory(t), nil
}

func newestFirst(txs []finance.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
}

func (m *Memory) ListTransactions(_ context.Context, kind finance.Kind, filter finance.TransactionFilter) ([]finance.Transaction, error) {
	m.rlock()
	defer m.runlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	txs := []finance.Transaction{}
	for _, t := range m.data.transactions {
		if t.Kind != kind {
			continue
		}
		if filter.Period != nil && !filter.Period.Contains(t.Date) {
			continue
		}
		if search != "" && (t.Notes == nil || !strings.Contains(strings.ToLower(*t.Notes), search)) {
			continue
		}
		txs = append(txs, m.withCategory(t))
	}
	newestFirst(txs)
	return txs, nil
}

func (m *Memory) UpdateTransaction(_ context.Context, kind finance.Kind, id uuid.UUID, in finance.NewTransaction) (finance.Transaction, error) {
	m.lock()
	defer m.unlock()

	t, ok := m.data.transactions[id]
	if !ok || t.Kind != kind {
		return finance.Transaction{}, finance.ErrNotFound
	}
	if err := m.checkCategory(kind, in.CategoryID); err != nil {
		return finance.Transaction{}, err
	}
	date := finance.Day(in.Date)
	if t.TemplateID != nil && !date.Equal(t.Date) {
		for _, other := range m.data.transactions {
			if other.ID != id && other.TemplateID != nil && *other.TemplateID == *t.TemplateID && other.Date.Equal(date) {
				return finance.Transaction{}, fmt.Errorf("%w: transactions_template_date_key", finance.ErrConflict)
			}
		}
	}

	t.Amount = in.Amount
	t.CategoryID = in.CategoryID
	t.Date = date
	t.Notes = copyString(in.Notes)
	t.IsRecurring = in.IsRecurring
	t.UpdatedAt = m.stamp()
	m.data.transactions[id] = t
	return m.withCategory(t), nil
}

func (m *Memory) DeleteTransaction(ctx context.Context, kind finance.Kind, id uuid.UUID) error {
	return m.WithTx(ctx, func(st Store) error {
		tx := st.(*Memory)

		t, ok := tx.data.transactions[id]
		if !ok || t.Kind != kind {
			return finance.ErrNotFound
		}

		var successor *finance.Transaction
		for _, other := range tx.data.transactions {
			if other.TemplateID == nil || *other.TemplateID != id {
				continue
			}
			if successor == nil || other.Date.After(successor.Date) ||
				(other.Date.Equal(successor.Date) && other.CreatedAt.After(successor.CreatedAt)) {
				o := other
				successor = &o
			}
		}
		if successor != nil {
			now := tx.stamp()
			for key, other := range tx.data.transactions {
				if other.TemplateID == nil || *other.TemplateID != id {
					continue
				}
				if key == successor.ID {
					other.TemplateID = nil
					other.IsRecurring = true
				} else {
					newID := successor.ID
					other.TemplateID = &newID
				}
				other.UpdatedAt = now
				tx.data.transactions[key] = other
			}
		}

		delete(tx.data.transactions, id)
		return nil
	})
}

func (m *Memory) SumTransactions(_ context.Context, kind finance.Kind, period finance.Period) (decimal.Decimal, error) {
	m.rlock()
	defer m.runlock()

	total := decimal.Zero
	for _, t := range m.data.transactions {
		if t.Kind == kind && period.Contains(t.Date) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

func (m *Memory) MonthlyTotals(_ context.Context, kind finance.Kind, year int) (map[time.Month]decimal.Decimal, error) {
	m.rlock()
	defer m.runlock()

	totals := make(map[time.Month]decimal.Decimal)
	for _, t := range m.data.transactions {
		if t.Kind != kind || t.Date.Year() != year {
			continue
		}
		totals[t.Date.Month()] = totals[t.Date.Month()].Add(t.Amount)
	}
	return totals, nil
}

func (m *Memory) ListRecurringTemplates(_ context.Context, kind finance.Kind, asOf time.Time) ([]finance.Transaction, error) {
	m.rlock()
	defer m.runlock()

	asOf = finance.Day(asOf)
	templates := []finance.Transaction{}
	for _, t := range m.data.transactions {
		if t.Kind == kind && t.IsTemplate() && !t.Date.After(asOf) {
			templates = append(templates, t)
		}
	}
	sort.Slice(templates, func(i, j int) bool {
		if !templates[i].Date.Equal(templates[j].Date) {
			return templates[i].Date.Before(templates[j].Date)
		}
		return templates[i].CreatedAt.Before(templates[j].CreatedAt)
	})
	return templates, nil
}

func (m *Memory) LatestRecurringInstance(_ context.Context, kind finance.Kind, templateID uuid.UUID) (finance.Transaction, error) {
	m.rlock()
	defer m.runlock()

	series := []finance.Transaction{}
	for _, t := range m.data.transactions {
		if t.Kind != kind {
			continue
		}
		if t.ID == templateID || (t.TemplateID != nil && *t.TemplateID == templateID) {
			series = append(series, t)
		}
	}
	if len(series) == 0 {
		return finance.Transaction{}, finance.ErrNotFound
	}
	newestFirst(series)
	return series[0], nil
}

// Stock purchases

func (m *Memory) ListStockPurchases(_ context.Context, period *finance.Period) ([]finance.StockPurchase, error) {
	m.rlock()
	defer m.runlock()

	purchases := []finance.StockPurchase{}
	for _, s := range m.data.stocks {
		if period != nil && !period.Contains(s.Date) {
			continue
		}
		purchases = append(purchases, s)
	}
	sort.Slice(purchases, func(i, j int) bool {
		if !purchases[i].Date.Equal(purchases[j].Date) {
			return purchases[i].Date.After(purchases[j].Date)
		}
		return purchases[i].CreatedAt.After(purchases[j].CreatedAt)
	})
	return purchases, nil
}

func (m *Memory) GetStockPurchase(_ context.Context, id uuid.UUID) (finance.StockPurchase, error) {
	m.rlock()
	defer m.runlock()

	s, ok := m.data.stocks[id]
	if !ok {
		return finance.StockPurchase{}, finance.ErrNotFound
	}
	return s, nil
}

func applyStock(s *finance.StockPurchase, in finance.NewStockPurchase) {
	s.Ticker = in.Ticker
	s.Name = copyString(in.Name)
	s.Quantity = in.Quantity
	s.PricePerUnit = in.PricePerUnit
	s.Date = finance.Day(in.Date)
	s.Broker = copyString(in.Broker)
	s.Fee = copyDecimal(in.Fee)
	s.Notes = copyString(in.Notes)
	s.CurrentValue = copyDecimal(in.CurrentValue)
	s.Currency = in.Currency
	s.ExchangeRate = copyDecimal(in.ExchangeRate)
}

func (m *Memory) CreateStockPurchase(_ context.Context, in finance.NewStockPurchase) (finance.StockPurchase, error) {
	m.lock()
	defer m.unlock()

	now := m.stamp()
	s := finance.StockPurchase{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
	applyStock(&s, in)
	m.data.stocks[s.ID] = s
	return s, nil
}

func (m *Memory) UpdateStockPurchase(_ context.Context, id uuid.UUID, in finance.NewStockPurchase) (finance.StockPurchase, error) {
	m.lock()
	defer m.unlock()

	s, ok := m.data.stocks[id]
	if !ok {
		return finance.StockPurchase{}, finance.ErrNotFound
	}
	applyStock(&s, in)
	s.UpdatedAt = m.stamp()
	m.data.stocks[id] = s
	return s, nil
}

func (m *Memory) DeleteStockPurchase(_ context.Context, id uuid.UUID) error {
	m.lock()
	defer m.unlock()

	if _, ok := m.data.stocks[id]; !ok {
		return finance.ErrNotFound
	}
	delete(m.data.stocks, id)
	return nil
}

func (m *Memory) ListTickers(context.Context) ([]string, error) {
	m.rlock()
	defer m.runlock()

	seen := make(map[string]struct{})
	tickers := []string{}
	for _, s := range m.data.stocks {
		if _, ok := seen[s.Ticker]; ok {
			continue
		}
		seen[s.Ticker] = struct{}{}
		tickers = append(tickers, s.Ticker)
	}
	sort.Strings(tickers)
	return tickers, nil
}

func (m *Memory) UpdateStockValuation(_ context.Context, ticker string, price decimal.Decimal, name *string) (int64, error) {
	m.lock()
	defer m.unlock()

	var rows int64
	now := m.stamp()
	for id, s := range m.data.stocks {
		if s.Ticker != ticker {
			continue
		}
		value := s.Quantity.Mul(price)
		s.CurrentValue = &value
		if name != nil {
			s.Name = copyString(name)
		}
		s.UpdatedAt = now
		m.data.stocks[id] = s
		rows++
	}
	return rows, nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
