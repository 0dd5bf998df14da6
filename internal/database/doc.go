// Package database provides the relational store of the budget tracker.
//
// # Architecture
//
//	database/
//	├── database.go   # Connection setup, migrations, transactions, stats
//	├── budget.go     # Create/lookup/list primitives for the five entities
//	├── profile.go    # Singleton profile upsert
//	├── snapshot.go   # Store-native file copies (VACUUM INTO, online backup)
//	└── audit/        # Audit event persistence
//
// Every statement is committed on its own unless the caller groups work with
// Transaction. Tables use singular names (category, wallet, expense, goal,
// profile) so that snapshot files can be read back without gorm.
//
// # Usage
//
//	db, err := database.NewDatabase("./budget_tracker.db")
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	err = db.Transaction(func(tx database.Store) error {
//		existing, err := tx.FindCategoryByName("Food")
//		...
//	})
//
// # Interface Implementations
//
//   - Database: implements Store (consumed by importers.Engine)
//   - audit.Repository: consumed by audit.Service
package database
