package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fintrack/db/generated"
	"fintrack/internal/finance"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Postgres is the pgx-backed Store.
type Postgres struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
	log     zerolog.Logger
}

// ConnectOptions controls the connection retry loop.
type ConnectOptions struct {
	MaxRetries    int
	RetryInterval time.Duration
}

// Connect opens a pool and pings it, retrying while the database comes up.
func Connect(ctx context.Context, databaseURL string, opts ConnectOptions, log zerolog.Logger) (*Postgres, error) {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}

	var lastErr error
	for i := 0; i < opts.MaxRetries; i++ {
		pool, err := pgxpool.New(ctx, databaseURL)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				log.Info().Msg("Successfully connected to database")
				return NewPostgres(pool, log), nil
			}
			pool.Close()
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", i+1).Msg("Error connecting to database")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.RetryInterval):
		}
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", opts.MaxRetries, lastErr)
}

func NewPostgres(pool *pgxpool.Pool, log zerolog.Logger) *Postgres {
	return &Postgres{
		pool:    pool,
		queries: generated.New(pool),
		log:     log.With().Str("component", "store").Logger(),
	}
}

func (s *Postgres) Ping(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Ping(ctx)
}

func (s *Postgres) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// WithTx implements Store. Nested calls join the outer transaction.
func (s *Postgres) WithTx(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		return fn(s)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&Postgres{queries: s.queries.WithTx(tx), log: s.log})
	})
}

// mapError translates driver errors into the finance sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", finance.ErrConflict, pgErr.ConstraintName)
		case "23503", "23514":
			return fmt.Errorf("%w: %s", finance.ErrInvalidReference, pgErr.ConstraintName)
		}
	}
	return err
}

// Categories

func (s *Postgres) ListCategories(ctx context.Context, kind *finance.Kind) ([]finance.Category, error) {
	var filter pgtype.Text
	if kind != nil {
		filter = pgtype.Text{String: string(*kind), Valid: true}
	}
	rows, err := s.queries.ListCategories(ctx, filter)
	if err != nil {
		return nil, mapError(err)
	}
	categories := make([]finance.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, toCategory(row))
	}
	return categories, nil
}

func (s *Postgres) GetCategory(ctx context.Context, id uuid.UUID) (finance.Category, error) {
	row, err := s.queries.GetCategoryByID(ctx, pgUUID(id))
	if err != nil {
		return finance.Category{}, mapError(err)
	}
	return toCategory(row), nil
}

func (s *Postgres) CreateCategory(ctx context.Context, in finance.NewCategory) (finance.Category, error) {
	row, err := s.queries.CreateCategory(ctx, generated.CreateCategoryParams{
		Name:  in.Name,
		Type:  string(in.Type),
		Color: in.Color,
		Icon:  in.Icon,
	})
	if err != nil {
		return finance.Category{}, mapError(err)
	}
	return toCategory(row), nil
}

func (s *Postgres) CountCategories(ctx context.Context) (int64, error) {
	count, err := s.queries.CountCategories(ctx)
	return count, mapError(err)
}

// Transactions

func (s *Postgres) CreateTransaction(ctx context.Context, kind finance.Kind, in finance.NewTransaction) (finance.Transaction, error) {
	amount, err := pgNumeric(in.Amount)
	if err != nil {
		return finance.Transaction{}, err
	}
	row, err := s.queries.CreateTransaction(ctx, generated.CreateTransactionParams{
		Kind:        string(kind),
		Amount:      amount,
		CategoryID:  pgUUID(in.CategoryID),
		Date:        pgDate(in.Date),
		Notes:       pgText(in.Notes),
		IsRecurring: in.IsRecurring,
		TemplateID:  pgUUIDPtr(in.TemplateID),
	})
	if err != nil {
		return finance.Transaction{}, mapError(err)
	}
	return s.GetTransaction(ctx, kind, uuid.UUID(row.ID.Bytes))
}

func (s *Postgres) GetTransaction(ctx context.Context, kind finance.Kind, id uuid.UUID) (finance.Transaction, error) {
	row, err := s.queries.GetTransaction(ctx, generated.GetTransactionParams{ID: pgUUID(id), Kind: string(kind)})
	if err != nil {
		return finance.Transaction{}, mapError(err)
	}
	tx := toTransaction(row.Transaction)
	category := toCategory(row.Category)
	tx.Category = &category
	return tx, nil
}

func (s *Postgres) ListTransactions(ctx context.Context, kind finance.Kind, filter finance.TransactionFilter) ([]finance.Transaction, error) {
	params := generated.ListTransactionsParams{Kind: string(kind)}
	if filter.Period != nil {
		params.DateFrom = pgDate(filter.Period.From)
		params.DateTo = pgDate(filter.Period.To)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		params.Search = pgtype.Text{String: search, Valid: true}
	}

	rows, err := s.queries.ListTransactions(ctx, params)
	if err != nil {
		return nil, mapError(err)
	}
	txs := make([]finance.Transaction, 0, len(rows))
	for _, row := range rows {
		tx := toTransaction(row.Transaction)
		category := toCategory(row.Category)
		tx.Category = &category
		txs = append(txs, tx)
	}
	return txs, nil
}

func (s *Postgres) UpdateTransaction(ctx context.Context, kind finance.Kind, id uuid.UUID, in finance.NewTransaction) (finance.Transaction, error) {
	amount, err := pgNumeric(in.Amount)
	if err != nil {
		return finance.Transaction{}, err
	}
	_, err = s.queries.UpdateTransaction(ctx, generated.UpdateTransactionParams{
		ID:          pgUUID(id),
		Kind:        string(kind),
		Amount:      amount,
		CategoryID:  pgUUID(in.CategoryID),
		Date:        pgDate(in.Date),
		Notes:       pgText(in.Notes),
		IsRecurring: in.IsRecurring,
	})
	if err != nil {
		return finance.Transaction{}, mapError(err)
	}
	return s.GetTransaction(ctx, kind, id)
}

func (s *Postgres) DeleteTransaction(ctx context.Context, kind finance.Kind, id uuid.UUID) error {
	return s.WithTx(ctx, func(st Store) error {
		q := st.(*Postgres).queries

		if _, err := q.GetTransaction(ctx, generated.GetTransactionParams{ID: pgUUID(id), Kind: string(kind)}); err != nil {
			return mapError(err)
		}

		successor, err := q.GetLatestTemplateInstance(ctx, pgUUID(id))
		switch {
		case err == nil:
			if err := q.PromoteToTemplate(ctx, successor.ID); err != nil {
				return mapError(err)
			}
			if err := q.ReassignTemplateInstances(ctx, generated.ReassignTemplateInstancesParams{
				NewTemplateID: successor.ID,
				OldTemplateID: pgUUID(id),
			}); err != nil {
				return mapError(err)
			}
			s.log.Debug().
				Str("template_id", id.String()).
				Str("successor_id", uuid.UUID(successor.ID.Bytes).String()).
				Msg("Promoted recurring instance to template")
		case !errors.Is(err, pgx.ErrNoRows):
			return mapError(err)
		}

		rows, err := q.DeleteTransaction(ctx, generated.DeleteTransactionParams{ID: pgUUID(id), Kind: string(kind)})
		if err != nil {
			return mapError(err)
		}
		if rows == 0 {
			return finance.ErrNotFound
		}
		return nil
	})
}

func (s *Postgres) SumTransactions(ctx context.Context, kind finance.Kind, period finance.Period) (decimal.Decimal, error) {
	total, err := s.queries.SumTransactions(ctx, generated.SumTransactionsParams{
		Kind:     string(kind),
		DateFrom: pgDate(period.From),
		DateTo:   pgDate(period.To),
	})
	if err != nil {
		return decimal.Zero, mapError(err)
	}
	return fromNumeric(total), nil
}

func (s *Postgres) MonthlyTotals(ctx context.Context, kind finance.Kind, year int) (map[time.Month]decimal.Decimal, error) {
	period := finance.YearPeriod(year)
	rows, err := s.queries.MonthlyTransactionTotals(ctx, generated.MonthlyTransactionTotalsParams{
		Kind:     string(kind),
		DateFrom: pgDate(period.From),
		DateTo:   pgDate(period.To),
	})
	if err != nil {
		return nil, mapError(err)
	}
	totals := make(map[time.Month]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[time.Month(row.Month)] = fromNumeric(row.Total)
	}
	return totals, nil
}

func (s *Postgres) ListRecurringTemplates(ctx context.Context, kind finance.Kind, asOf time.Time) ([]finance.Transaction, error) {
	rows, err := s.queries.ListRecurringTemplates(ctx, generated.ListRecurringTemplatesParams{
		Kind: string(kind),
		AsOf: pgDate(asOf),
	})
	if err != nil {
		return nil, mapError(err)
	}
	txs := make([]finance.Transaction, 0, len(rows))
	for _, row := range rows {
		txs = append(txs, toTransaction(row))
	}
	return txs, nil
}

func (s *Postgres) LatestRecurringInstance(ctx context.Context, kind finance.Kind, templateID uuid.UUID) (finance.Transaction, error) {
	row, err := s.queries.GetLatestRecurringInstance(ctx, generated.GetLatestRecurringInstanceParams{
		Kind:       string(kind),
		TemplateID: pgUUID(templateID),
	})
	if err != nil {
		return finance.Transaction{}, mapError(err)
	}
	return toTransaction(row), nil
}

// Stock purchases

func (s *Postgres) ListStockPurchases(ctx context.Context, period *finance.Period) ([]finance.StockPurchase, error) {
	var params generated.ListStockPurchasesParams
	if period != nil {
		params.DateFrom = pgDate(period.From)
		params.DateTo = pgDate(period.To)
	}
	rows, err := s.queries.ListStockPurchases(ctx, params)
	if err != nil {
		return nil, mapError(err)
	}
	purchases := make([]finance.StockPurchase, 0, len(rows))
	for _, row := range rows {
		purchases = append(purchases, toStockPurchase(row))
	}
	return purchases, nil
}

func (s *Postgres) GetStockPurchase(ctx context.Context, id uuid.UUID) (finance.StockPurchase, error) {
	row, err := s.queries.GetStockPurchase(ctx, pgUUID(id))
	if err != nil {
		return finance.StockPurchase{}, mapError(err)
	}
	return toStockPurchase(row), nil
}

func (s *Postgres) CreateStockPurchase(ctx context.Context, in finance.NewStockPurchase) (finance.StockPurchase, error) {
	f, err := stockFields(in)
	if err != nil {
		return finance.StockPurchase{}, err
	}
	row, err := s.queries.CreateStockPurchase(ctx, generated.CreateStockPurchaseParams{
		Ticker:       in.Ticker,
		Name:         pgText(in.Name),
		Quantity:     f.quantity,
		PricePerUnit: f.price,
		Date:         pgDate(in.Date),
		Broker:       pgText(in.Broker),
		Fee:          f.fee,
		Notes:        pgText(in.Notes),
		CurrentValue: f.currentValue,
		Currency:     in.Currency,
		ExchangeRate: f.exchangeRate,
	})
	if err != nil {
		return finance.StockPurchase{}, mapError(err)
	}
	return toStockPurchase(row), nil
}

func (s *Postgres) UpdateStockPurchase(ctx context.Context, id uuid.UUID, in finance.NewStockPurchase) (finance.StockPurchase, error) {
	f, err := stockFields(in)
	if err != nil {
		return finance.StockPurchase{}, err
	}
	row, err := s.queries.UpdateStockPurchase(ctx, generated.UpdateStockPurchaseParams{
		ID:           pgUUID(id),
		Ticker:       in.Ticker,
		Name:         pgText(in.Name),
		Quantity:     f.quantity,
		PricePerUnit: f.price,
		Date:         pgDate(in.Date),
		Broker:       pgText(in.Broker),
		Fee:          f.fee,
		Notes:        pgText(in.Notes),
		CurrentValue: f.currentValue,
		Currency:     in.Currency,
		ExchangeRate: f.exchangeRate,
	})
	if err != nil {
		return finance.StockPurchase{}, mapError(err)
	}
	return toStockPurchase(row), nil
}

func (s *Postgres) DeleteStockPurchase(ctx context.Context, id uuid.UUID) error {
	rows, err := s.queries.DeleteStockPurchase(ctx, pgUUID(id))
	if err != nil {
		return mapError(err)
	}
	if rows == 0 {
		return finance.ErrNotFound
	}
	return nil
}

func (s *Postgres) ListTickers(ctx context.Context) ([]string, error) {
	tickers, err := s.queries.ListDistinctTickers(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return tickers, nil
}

func (s *Postgres) UpdateStockValuation(ctx context.Context, ticker string, price decimal.Decimal, name *string) (int64, error) {
	p, err := pgNumeric(price)
	if err != nil {
		return 0, err
	}
	rows, err := s.queries.UpdateStockValuation(ctx, generated.UpdateStockValuationParams{
		Price:  p,
		Name:   pgText(name),
		Ticker: ticker,
	})
	return rows, mapError(err)
}

type stockNumerics struct {
	quantity, price, fee, currentValue, exchangeRate pgtype.Numeric
}

func stockFields(in finance.NewStockPurchase) (stockNumerics, error) {
	var f stockNumerics
	var err error
	if f.quantity, err = pgNumeric(in.Quantity); err != nil {
		return f, err
	}
	if f.price, err = pgNumeric(in.PricePerUnit); err != nil {
		return f, err
	}
	if f.fee, err = pgNumericPtr(in.Fee); err != nil {
		return f, err
	}
	if f.currentValue, err = pgNumericPtr(in.CurrentValue); err != nil {
		return f, err
	}
	if f.exchangeRate, err = pgNumericPtr(in.ExchangeRate); err != nil {
		return f, err
	}
	return f, nil
}
