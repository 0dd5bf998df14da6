package importers

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mrlokans/budget-tracker/internal/database"
	"github.com/mrlokans/budget-tracker/internal/entities"
	"github.com/mrlokans/budget-tracker/internal/schema"
)

// RecordError is a single record that could not be applied. It never aborts
// the batch.
type RecordError struct {
	Entity schema.Entity
	Name   string
	Op     string
	Err    error
}

func (e RecordError) Error() string {
	if e.Entity == schema.EntityProfile {
		return fmt.Sprintf("profile %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s '%s': %v", e.Entity, e.Op, e.Name, e.Err)
}

func (e RecordError) Unwrap() error {
	return e.Err
}

// Report summarizes one Apply call. Inserted always holds all five entities.
type Report struct {
	BatchID  string
	Inserted map[schema.Entity]int
	Errors   []RecordError
}

// ErrorMessages renders every record error as text.
func (r Report) ErrorMessages() []string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return msgs
}

// idMap remaps source ids to ids assigned by the target store. A present key
// with a nil value means the source record could not be resolved.
type idMap map[int64]*int64

// lookup returns the remapped id; unmapped or null source ids give null.
func (m idMap) lookup(old *int64) *int64 {
	if old == nil {
		return nil
	}
	return m[*old]
}

func (m idMap) set(old, assigned *int64) {
	if old == nil {
		return
	}
	m[*old] = assigned
}

// Engine merges normalized tables into a store. Calls to Apply never
// interleave, and each resolve-or-create step runs in its own transaction so
// natural-key lookups cannot race with the insert that follows them.
type Engine struct {
	store database.Store
	log   zerolog.Logger
	mu    sync.Mutex
}

func NewEngine(store database.Store, log zerolog.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// Apply writes tables into the store in dependency order: categories,
// wallets, goals, expenses, then the profile. Records that fail are collected
// in the report and processing continues.
func (e *Engine) Apply(tables schema.Tables) Report {
	e.mu.Lock()
	defer e.mu.Unlock()

	run := &applyRun{
		store:      e.store,
		categories: idMap{},
		wallets:    idMap{},
		report: Report{
			BatchID:  uuid.NewString(),
			Inserted: make(map[schema.Entity]int, len(schema.Entities)),
			Errors:   []RecordError{},
		},
	}
	for _, entity := range schema.Entities {
		run.report.Inserted[entity] = 0
	}

	for _, c := range tables.Categories {
		run.category(c)
	}
	for _, w := range tables.Wallets {
		run.wallet(w)
	}
	for _, g := range tables.Goals {
		run.goal(g)
	}
	for _, x := range tables.Expenses {
		run.expense(x)
	}
	if len(tables.Profiles) > 0 {
		run.profile(tables.Profiles[0])
	}

	e.log.Info().
		Str("batch_id", run.report.BatchID).
		Interface("inserted", run.report.Inserted).
		Int("errors", len(run.report.Errors)).
		Msg("import applied")

	return run.report
}

type applyRun struct {
	store      database.Store
	categories idMap
	wallets    idMap
	report     Report
}

func (r *applyRun) fail(entity schema.Entity, name, op string, err error) {
	r.report.Errors = append(r.report.Errors, RecordError{Entity: entity, Name: name, Op: op, Err: err})
}

func (r *applyRun) category(c schema.Category) {
	name := trimmed(c.Name)
	if name == "" {
		return
	}
	category := &entities.Category{
		Name:        name,
		LimitAmount: c.LimitAmount,
		Type:        entities.CategoryTypeVariable,
		Currency:    currencyOrDefault(c.Currency),
	}
	if c.Type != nil {
		category.Type = entities.CategoryType(*c.Type)
	}

	var resolved *int64
	created := false
	err := r.store.Transaction(func(tx database.Store) error {
		existing, err := tx.FindCategoryByName(name)
		if err != nil {
			return err
		}
		if existing == nil {
			if err := tx.CreateCategory(category); err != nil {
				r.fail(schema.EntityCategory, name, "add", err)
			} else {
				created = true
				resolved = &category.ID
				return nil
			}
			// The insert may have lost to a concurrent writer; map to its row.
			if existing, err = tx.FindCategoryByName(name); err != nil {
				return err
			}
		}
		if existing != nil {
			id := existing.ID
			resolved = &id
		}
		return nil
	})
	if err != nil {
		r.fail(schema.EntityCategory, name, "lookup", err)
		resolved = nil
	} else if created {
		r.report.Inserted[schema.EntityCategory]++
	}
	r.categories.set(c.ID, resolved)
}

func (r *applyRun) wallet(w schema.Wallet) {
	name := trimmed(w.Name)
	if name == "" {
		return
	}
	wallet := &entities.Wallet{
		Name:     name,
		Amount:   moneyOrZero(w.Amount),
		Currency: currencyOrDefault(w.Currency),
	}

	var resolved *int64
	created := false
	err := r.store.Transaction(func(tx database.Store) error {
		existing, err := tx.FindWalletByNameAndCurrency(wallet.Name, wallet.Currency)
		if err != nil {
			return err
		}
		if existing == nil {
			if err := tx.CreateWallet(wallet); err != nil {
				r.fail(schema.EntityWallet, name, "add", err)
			} else {
				created = true
				resolved = &wallet.ID
				return nil
			}
			if existing, err = tx.FindWalletByNameAndCurrency(wallet.Name, wallet.Currency); err != nil {
				return err
			}
		}
		if existing != nil {
			id := existing.ID
			resolved = &id
		}
		return nil
	})
	if err != nil {
		r.fail(schema.EntityWallet, name, "lookup", err)
		resolved = nil
	} else if created {
		r.report.Inserted[schema.EntityWallet]++
	}
	r.wallets.set(w.ID, resolved)
}

// goal inserts unconditionally; goals have no natural key.
func (r *applyRun) goal(g schema.Goal) {
	name := trimmed(g.Name)
	if name == "" {
		return
	}
	goal := &entities.Goal{
		Name:          name,
		AmountToReach: moneyOrZero(g.AmountToReach),
		AmountReached: moneyOrZero(g.AmountReached),
		CategoryID:    r.categories.lookup(g.CategoryID),
		Currency:      currencyOrDefault(g.Currency),
		Completed:     g.Completed != nil && *g.Completed,
		StartDate:     g.StartDate,
		EndDate:       g.EndDate,
	}
	if err := r.store.CreateGoal(goal); err != nil {
		r.fail(schema.EntityGoal, name, "add", err)
		return
	}
	r.report.Inserted[schema.EntityGoal]++
}

// expense skips records without a name, cost or date without reporting them.
func (r *applyRun) expense(x schema.Expense) {
	name := trimmed(x.Name)
	if name == "" || !x.Cost.Valid || x.Date == nil || *x.Date == "" {
		return
	}
	expense := &entities.Expense{
		Name:        name,
		CategoryID:  r.categories.lookup(x.CategoryID),
		Cost:        x.Cost.Decimal,
		Date:        *x.Date,
		Description: x.Description,
		WalletID:    r.wallets.lookup(x.WalletID),
	}
	if err := r.store.CreateExpense(expense); err != nil {
		r.fail(schema.EntityExpense, name, "add", err)
		return
	}
	r.report.Inserted[schema.EntityExpense]++
}

func (r *applyRun) profile(p schema.Profile) {
	update := database.ProfileUpdate{
		Name:          p.Name,
		PhotoPath:     p.PhotoPath,
		MonthlyBudget: p.MonthlyBudget,
		SkipMonths:    decodeSkipMonths(p.SkipMonths),
		PasswordHash:  p.PasswordHash,
		MainWalletID:  p.MainWalletID,
		Theme:         p.Theme,
	}
	// Wallets outside this batch keep their raw id so references to rows the
	// store already had still resolve.
	if p.MainWalletID != nil {
		if mapped, ok := r.wallets[*p.MainWalletID]; ok {
			update.MainWalletID = mapped
		}
	}

	if err := r.store.UpsertProfile(update); err != nil {
		r.fail(schema.EntityProfile, textOf(p.Name), "upsert", err)
		return
	}
	r.report.Inserted[schema.EntityProfile] = 1
}

// decodeSkipMonths turns the stored JSON text back into a list. Text that is
// not a JSON array leaves the stored value untouched.
func decodeSkipMonths(text *string) []string {
	if text == nil {
		return nil
	}
	var items []any
	if err := json.Unmarshal([]byte(*text), &items); err != nil || items == nil {
		return nil
	}
	months := make([]string, len(items))
	for i, item := range items {
		if s, ok := item.(string); ok {
			months[i] = s
			continue
		}
		months[i] = fmt.Sprint(item)
	}
	return months
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func textOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func currencyOrDefault(c *string) string {
	if c == nil || *c == "" {
		return entities.DefaultCurrency
	}
	return *c
}

func moneyOrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
