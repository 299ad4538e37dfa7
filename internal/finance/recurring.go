package finance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// RecurringStore is the persistence surface the recurring engine needs.
type RecurringStore interface {
	ListRecurringTemplates(ctx context.Context, kind Kind, asOf time.Time) ([]Transaction, error)
	LatestRecurringInstance(ctx context.Context, kind Kind, templateID uuid.UUID) (Transaction, error)
	CreateTransaction(ctx context.Context, kind Kind, in NewTransaction) (Transaction, error)
}

// ProcessError records a template that could not be processed. A nil ID
// means the templates themselves could not be loaded.
type ProcessError struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

// ProcessResult is the outcome of one kind's recurring run.
type ProcessResult struct {
	Created []uuid.UUID    `json:"created"`
	Errors  []ProcessError `json:"errors"`
}

// BatchResult merges the income and expense runs.
type BatchResult struct {
	Incomes      ProcessResult `json:"incomes"`
	Expenses     ProcessResult `json:"expenses"`
	TotalCreated int           `json:"total_created"`
	TotalErrors  int           `json:"total_errors"`
}

// Processor spawns due instances of recurring templates.
type Processor struct {
	store   RecurringStore
	pattern Pattern
	now     func() time.Time
	loc     *time.Location
	log     zerolog.Logger

	// serializes runs inside this process
	mu sync.Mutex
}

// ProcessorOption customises a Processor.
type ProcessorOption func(*Processor)

// WithClock overrides the time source used to decide "today".
func WithClock(now func() time.Time) ProcessorOption {
	return func(p *Processor) { p.now = now }
}

// WithLocation sets the zone in which "today" is evaluated.
func WithLocation(loc *time.Location) ProcessorOption {
	return func(p *Processor) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// WithPattern changes the cadence the batch runs at. Monthly by default.
func WithPattern(pattern Pattern) ProcessorOption {
	return func(p *Processor) { p.pattern = pattern }
}

// NewProcessor builds a monthly recurring processor.
func NewProcessor(store RecurringStore, log zerolog.Logger, opts ...ProcessorOption) *Processor {
	p := &Processor{
		store:   store,
		pattern: Monthly,
		now:     time.Now,
		loc:     time.Local,
		log:     log.With().Str("component", "recurring").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Today is the current calendar day in the processor's zone.
func (p *Processor) Today() time.Time {
	return Day(p.now().In(p.loc))
}

// Process creates the next instance for every due template of one kind.
// A failing template is recorded and does not stop the others.
func (p *Processor) Process(ctx context.Context, kind Kind) ProcessResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.process(ctx, kind)
}

func (p *Processor) process(ctx context.Context, kind Kind) ProcessResult {
	result := ProcessResult{Created: []uuid.UUID{}, Errors: []ProcessError{}}
	today := p.Today()

	templates, err := p.store.ListRecurringTemplates(ctx, kind, today)
	if err != nil {
		p.log.Error().Err(err).Str("kind", string(kind)).Msg("Error loading recurring templates")
		result.Errors = append(result.Errors, ProcessError{ID: uuid.Nil, Error: err.Error()})
		return result
	}

	for _, template := range templates {
		id, created, err := p.processTemplate(ctx, kind, template, today)
		if err != nil {
			p.log.Error().Err(err).
				Str("kind", string(kind)).
				Str("template_id", template.ID.String()).
				Msg("Error processing recurring template")
			result.Errors = append(result.Errors, ProcessError{ID: template.ID, Error: err.Error()})
			continue
		}
		if created {
			result.Created = append(result.Created, id)
		}
	}

	p.log.Info().
		Str("kind", string(kind)).
		Int("templates", len(templates)).
		Int("created", len(result.Created)).
		Int("errors", len(result.Errors)).
		Msg("Processed recurring templates")

	return result
}

func (p *Processor) processTemplate(ctx context.Context, kind Kind, template Transaction, today time.Time) (uuid.UUID, bool, error) {
	last, err := p.store.LatestRecurringInstance(ctx, kind, template.ID)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("find latest instance: %w", err)
	}
	if !ShouldCreate(last.Date, p.pattern, today) {
		return uuid.Nil, false, nil
	}

	templateID := template.ID
	created, err := p.store.CreateTransaction(ctx, kind, NewTransaction{
		Amount:      template.Amount,
		CategoryID:  template.CategoryID,
		Date:        NextRecurrence(Day(last.Date), p.pattern),
		Notes:       template.Notes,
		IsRecurring: true,
		TemplateID:  &templateID,
	})
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("create instance: %w", err)
	}
	return created.ID, true, nil
}

// ProcessAll runs incomes and expenses concurrently and merges the results.
// It never fails as a whole; callers inspect TotalErrors.
func (p *Processor) ProcessAll(ctx context.Context) BatchResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	var batch BatchResult
	var g errgroup.Group
	g.Go(func() error {
		batch.Incomes = p.process(ctx, KindIncome)
		return nil
	})
	g.Go(func() error {
		batch.Expenses = p.process(ctx, KindExpense)
		return nil
	})
	_ = g.Wait()

	batch.TotalCreated = len(batch.Incomes.Created) + len(batch.Expenses.Created)
	batch.TotalErrors = len(batch.Incomes.Errors) + len(batch.Expenses.Errors)
	return batch
}
