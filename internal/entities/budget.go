package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type CategoryType int

const (
	CategoryTypeVariable CategoryType = 0
	CategoryTypeFixed    CategoryType = 1
)

const DefaultCurrency = "EUR"

// DefaultProfileName is used when the profile row is created without a name.
const DefaultProfileName = "User"

type Category struct {
	ID          int64               `gorm:"primaryKey" json:"id"`
	Name        string              `gorm:"uniqueIndex;not null" json:"name"`
	LimitAmount decimal.NullDecimal `gorm:"type:numeric" json:"limit_amount"`
	Type        CategoryType        `gorm:"not null;default:0" json:"type"`
	Currency    string              `gorm:"size:3;not null;default:'EUR'" json:"currency"`
}

type Wallet struct {
	ID       int64           `gorm:"primaryKey" json:"id"`
	Name     string          `gorm:"index:idx_wallet_name_currency;not null" json:"name"`
	Amount   decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"amount"`
	Currency string          `gorm:"index:idx_wallet_name_currency;size:3;not null;default:'EUR'" json:"currency"`
}

// Expense dates are stored as YYYY-MM-DD text.
type Expense struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	CategoryID  *int64          `gorm:"index" json:"category_id"`
	Cost        decimal.Decimal `gorm:"type:numeric;not null" json:"cost"`
	Date        string          `gorm:"type:text;index;not null" json:"date"`
	Description *string         `gorm:"type:text" json:"description"`
	WalletID    *int64          `gorm:"index" json:"wallet_id"`
}

type Goal struct {
	ID            int64           `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	AmountToReach decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"amount_to_reach"`
	AmountReached decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"amount_reached"`
	CategoryID    *int64          `gorm:"index" json:"category_id"`
	Currency      string          `gorm:"size:3;not null;default:'EUR'" json:"currency"`
	Completed     bool            `gorm:"not null;default:false" json:"completed"`
	StartDate     *string         `gorm:"type:text" json:"start_date"`
	EndDate       *string         `gorm:"type:text" json:"end_date"`
}

// Profile is a singleton row. SkipMonths holds a JSON list of "YYYY-MM" tokens.
type Profile struct {
	ID            int64           `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	PhotoPath     *string         `gorm:"type:text" json:"photo_path"`
	MonthlyBudget decimal.Decimal `gorm:"type:numeric;default:0" json:"monthly_budget"`
	MainWalletID  *int64          `json:"main_wallet_id"`
	SkipMonths    string          `gorm:"type:text;default:'[]'" json:"skip_months"`
	Theme         *int64          `json:"theme"`
	PasswordHash  *string         `gorm:"type:text" json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	LastLogin     *time.Time      `json:"last_login"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
