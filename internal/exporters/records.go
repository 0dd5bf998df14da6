package exporters

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mrlokans/budget-tracker/internal/entities"
	"github.com/mrlokans/budget-tracker/internal/schema"
)

const storeTimestampLayout = "2006-01-02 15:04:05"

func categoryRecord(c entities.Category) schema.Category {
	typ := int64(c.Type)
	return schema.Category{
		ID:          &c.ID,
		Name:        &c.Name,
		LimitAmount: c.LimitAmount,
		Type:        &typ,
		Currency:    &c.Currency,
	}
}

func walletRecord(w entities.Wallet) schema.Wallet {
	return schema.Wallet{
		ID:       &w.ID,
		Name:     &w.Name,
		Amount:   decimal.NewNullDecimal(w.Amount),
		Currency: &w.Currency,
	}
}

func expenseRecord(e entities.Expense) schema.Expense {
	return schema.Expense{
		ID:          &e.ID,
		Name:        &e.Name,
		CategoryID:  e.CategoryID,
		Cost:        decimal.NewNullDecimal(e.Cost),
		Date:        &e.Date,
		Description: e.Description,
		WalletID:    e.WalletID,
	}
}

func goalRecord(g entities.Goal) schema.Goal {
	return schema.Goal{
		ID:            &g.ID,
		Name:          &g.Name,
		AmountToReach: decimal.NewNullDecimal(g.AmountToReach),
		AmountReached: decimal.NewNullDecimal(g.AmountReached),
		CategoryID:    g.CategoryID,
		Currency:      &g.Currency,
		Completed:     &g.Completed,
		StartDate:     g.StartDate,
		EndDate:       g.EndDate,
	}
}

func profileRecord(p entities.Profile) schema.Profile {
	r := schema.Profile{
		ID:            &p.ID,
		Name:          &p.Name,
		PhotoPath:     p.PhotoPath,
		MonthlyBudget: decimal.NewNullDecimal(p.MonthlyBudget),
		MainWalletID:  p.MainWalletID,
		SkipMonths:    &p.SkipMonths,
		Theme:         p.Theme,
		PasswordHash:  p.PasswordHash,
	}
	if !p.CreatedAt.IsZero() {
		r.CreatedAt = timestamp(p.CreatedAt)
	}
	if p.LastLogin != nil {
		r.LastLogin = timestamp(*p.LastLogin)
	}
	return r
}

func timestamp(t time.Time) *string {
	s := t.Format(storeTimestampLayout)
	return &s
}
