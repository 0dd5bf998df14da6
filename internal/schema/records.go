package schema

import "github.com/shopspring/decimal"

// Category is a normalized category record. Nil fields are null.
type Category struct {
	ID          *int64
	Name        *string
	LimitAmount decimal.NullDecimal
	Type        *int64
	Currency    *string
}

// Wallet is a normalized wallet record.
type Wallet struct {
	ID       *int64
	Name     *string
	Amount   decimal.NullDecimal
	Currency *string
}

// Expense is a normalized expense record. Date is YYYY-MM-DD text.
type Expense struct {
	ID          *int64
	Name        *string
	CategoryID  *int64
	Cost        decimal.NullDecimal
	Date        *string
	Description *string
	WalletID    *int64
}

// Goal is a normalized goal record. StartDate and EndDate are YYYY-MM-DD text.
type Goal struct {
	ID            *int64
	Name          *string
	AmountToReach decimal.NullDecimal
	AmountReached decimal.NullDecimal
	CategoryID    *int64
	Currency      *string
	Completed     *bool
	StartDate     *string
	EndDate       *string
}

// Profile is a normalized profile record. SkipMonths holds the JSON text
// encoding of the skipped "YYYY-MM" tokens.
type Profile struct {
	ID            *int64
	Name          *string
	PhotoPath     *string
	MonthlyBudget decimal.NullDecimal
	MainWalletID  *int64
	SkipMonths    *string
	Theme         *int64
	PasswordHash  *string
	CreatedAt     *string
	LastLogin     *string
}

func NormalizeCategory(raw RawRecord) Category {
	v := project(EntityCategory, raw)
	return Category{
		ID:          intField(v["id"]),
		Name:        textField(v["name"]),
		LimitAmount: moneyField(v["limit_amount"]),
		Type:        intField(v["type"]),
		Currency:    textField(v["currency"]),
	}
}

func NormalizeWallet(raw RawRecord) Wallet {
	v := project(EntityWallet, raw)
	return Wallet{
		ID:       intField(v["id"]),
		Name:     textField(v["name"]),
		Amount:   moneyField(v["amount"]),
		Currency: textField(v["currency"]),
	}
}

func NormalizeExpense(raw RawRecord) Expense {
	v := project(EntityExpense, raw)
	return Expense{
		ID:          intField(v["id"]),
		Name:        textField(v["name"]),
		CategoryID:  intField(v["category_id"]),
		Cost:        moneyField(v["cost"]),
		Date:        textField(v["date"]),
		Description: textField(v["description"]),
		WalletID:    intField(v["wallet_id"]),
	}
}

func NormalizeGoal(raw RawRecord) Goal {
	v := project(EntityGoal, raw)
	return Goal{
		ID:            intField(v["id"]),
		Name:          textField(v["name"]),
		AmountToReach: moneyField(v["amount_to_reach"]),
		AmountReached: moneyField(v["amount_reached"]),
		CategoryID:    intField(v["category_id"]),
		Currency:      textField(v["currency"]),
		Completed:     boolField(v["completed"]),
		StartDate:     textField(v["start_date"]),
		EndDate:       textField(v["end_date"]),
	}
}

func NormalizeProfile(raw RawRecord) Profile {
	v := project(EntityProfile, raw)
	return Profile{
		ID:            intField(v["id"]),
		Name:          textField(v["name"]),
		PhotoPath:     textField(v["photo_path"]),
		MonthlyBudget: moneyField(v["monthly_budget"]),
		MainWalletID:  intField(v["main_wallet_id"]),
		SkipMonths:    textField(v["skip_months"]),
		Theme:         intField(v["theme"]),
		PasswordHash:  textField(v["password_hash"]),
		CreatedAt:     textField(v["created_at"]),
		LastLogin:     textField(v["last_login"]),
	}
}

// Raw returns the record keyed by canonical column names. Money is rendered
// with two decimals, so normalizing the result yields the same record.
func (c Category) Raw() RawRecord {
	return RawRecord{
		"id":           intValue(c.ID),
		"name":         textValue(c.Name),
		"limit_amount": moneyValue(c.LimitAmount),
		"type":         intValue(c.Type),
		"currency":     textValue(c.Currency),
	}
}

func (w Wallet) Raw() RawRecord {
	return RawRecord{
		"id":       intValue(w.ID),
		"name":     textValue(w.Name),
		"amount":   moneyValue(w.Amount),
		"currency": textValue(w.Currency),
	}
}

func (e Expense) Raw() RawRecord {
	return RawRecord{
		"id":          intValue(e.ID),
		"name":        textValue(e.Name),
		"category_id": intValue(e.CategoryID),
		"cost":        moneyValue(e.Cost),
		"date":        textValue(e.Date),
		"description": textValue(e.Description),
		"wallet_id":   intValue(e.WalletID),
	}
}

func (g Goal) Raw() RawRecord {
	var completed any
	if g.Completed != nil {
		completed = *g.Completed
	}
	return RawRecord{
		"id":              intValue(g.ID),
		"name":            textValue(g.Name),
		"amount_to_reach": moneyValue(g.AmountToReach),
		"amount_reached":  moneyValue(g.AmountReached),
		"category_id":     intValue(g.CategoryID),
		"currency":        textValue(g.Currency),
		"completed":       completed,
		"start_date":      textValue(g.StartDate),
		"end_date":        textValue(g.EndDate),
	}
}

func (p Profile) Raw() RawRecord {
	return RawRecord{
		"id":             intValue(p.ID),
		"name":           textValue(p.Name),
		"photo_path":     textValue(p.PhotoPath),
		"monthly_budget": moneyValue(p.MonthlyBudget),
		"main_wallet_id": intValue(p.MainWalletID),
		"skip_months":    textValue(p.SkipMonths),
		"theme":          intValue(p.Theme),
		"password_hash":  textValue(p.PasswordHash),
		"created_at":     textValue(p.CreatedAt),
		"last_login":     textValue(p.LastLogin),
	}
}

func intField(v any) *int64 {
	if n, ok := v.(int64); ok {
		return &n
	}
	return nil
}

func textField(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func boolField(v any) *bool {
	if b, ok := v.(bool); ok {
		return &b
	}
	return nil
}

func moneyField(v any) decimal.NullDecimal {
	if d, ok := v.(decimal.Decimal); ok {
		return decimal.NewNullDecimal(d)
	}
	return decimal.NullDecimal{}
}

func intValue(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func textValue(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func moneyValue(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.StringFixed(moneyPlaces)
}
