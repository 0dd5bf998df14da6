package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mrlokans/budget-tracker/internal/entities"
)

// ProfileUpdate carries the profile fields an upsert writes. Nil optional
// fields leave the stored value untouched. MainWalletID and Theme are always
// written, so nil clears them.
type ProfileUpdate struct {
	Name          *string
	PhotoPath     *string
	MonthlyBudget decimal.NullDecimal
	SkipMonths    []string
	PasswordHash  *string

	MainWalletID *int64
	Theme        *int64
}

func (u ProfileUpdate) fields() (map[string]any, error) {
	fields := map[string]any{
		"main_wallet_id": u.MainWalletID,
		"theme":          u.Theme,
	}
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.PhotoPath != nil {
		fields["photo_path"] = *u.PhotoPath
	}
	if u.MonthlyBudget.Valid {
		fields["monthly_budget"] = u.MonthlyBudget.Decimal
	}
	if u.SkipMonths != nil {
		encoded, err := json.Marshal(u.SkipMonths)
		if err != nil {
			return nil, fmt.Errorf("failed to encode skip months: %w", err)
		}
		fields["skip_months"] = string(encoded)
	}
	if u.PasswordHash != nil {
		fields["password_hash"] = *u.PasswordHash
	}
	return fields, nil
}

// GetProfile returns the singleton profile row, or nil, nil if none exists.
func (d *Database) GetProfile() (*entities.Profile, error) {
	var profile entities.Profile
	err := d.DB.Order("id ASC").Take(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpsertProfile inserts the profile row when absent (named "User" unless a
// name is supplied) and otherwise updates only the supplied fields.
func (d *Database) UpsertProfile(update ProfileUpdate) error {
	fields, err := update.fields()
	if err != nil {
		return err
	}

	existing, err := d.GetProfile()
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	if existing == nil {
		profile := entities.Profile{
			Name:         entities.DefaultProfileName,
			PhotoPath:    update.PhotoPath,
			MainWalletID: update.MainWalletID,
			SkipMonths:   "[]",
			Theme:        update.Theme,
			PasswordHash: update.PasswordHash,
		}
		if update.Name != nil && *update.Name != "" {
			profile.Name = *update.Name
		}
		if update.MonthlyBudget.Valid {
			profile.MonthlyBudget = update.MonthlyBudget.Decimal
		}
		if s, ok := fields["skip_months"].(string); ok {
			profile.SkipMonths = s
		}
		if err := d.DB.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	}

	fields["updated_at"] = time.Now().UTC()
	if err := d.DB.Model(existing).Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
