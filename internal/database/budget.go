package database

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/budget-tracker/internal/entities"
)

// FindCategoryByName returns nil, nil when no category carries the name.
func (d *Database) FindCategoryByName(name string) (*entities.Category, error) {
	var category entities.Category
	err := d.DB.Where("name = ?", name).Take(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (d *Database) CreateCategory(category *entities.Category) error {
	return d.DB.Create(category).Error
}

// FindWalletByNameAndCurrency returns the most recently created wallet with the
// given name and currency, or nil, nil when there is none.
func (d *Database) FindWalletByNameAndCurrency(name, currency string) (*entities.Wallet, error) {
	var wallet entities.Wallet
	err := d.DB.Where("name = ? AND currency = ?", name, currency).
		Order("id DESC").
		Take(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (d *Database) CreateWallet(wallet *entities.Wallet) error {
	return d.DB.Create(wallet).Error
}

func (d *Database) CreateGoal(goal *entities.Goal) error {
	return d.DB.Create(goal).Error
}

func (d *Database) CreateExpense(expense *entities.Expense) error {
	return d.DB.Create(expense).Error
}

func (d *Database) ListCategories() ([]entities.Category, error) {
	var categories []entities.Category
	err := d.DB.Order("id ASC").Find(&categories).Error
	return categories, err
}

func (d *Database) ListWallets() ([]entities.Wallet, error) {
	var wallets []entities.Wallet
	err := d.DB.Order("id ASC").Find(&wallets).Error
	return wallets, err
}

func (d *Database) ListExpenses() ([]entities.Expense, error) {
	var expenses []entities.Expense
	err := d.DB.Order("id ASC").Find(&expenses).Error
	return expenses, err
}

func (d *Database) ListGoals() ([]entities.Goal, error) {
	var goals []entities.Goal
	err := d.DB.Order("id ASC").Find(&goals).Error
	return goals, err
}

func (d *Database) ListProfiles() ([]entities.Profile, error) {
	var profiles []entities.Profile
	err := d.DB.Order("id ASC").Find(&profiles).Error
	return profiles, err
}
