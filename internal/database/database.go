package database

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/mrlokans/budget-tracker/internal/entities"
	"github.com/mrlokans/budget-tracker/internal/logger"
)

// Store is the set of primitives the import engine needs. Every call commits
// on its own unless it runs inside Transaction.
type Store interface {
	FindCategoryByName(name string) (*entities.Category, error)
	CreateCategory(category *entities.Category) error
	FindWalletByNameAndCurrency(name, currency string) (*entities.Wallet, error)
	CreateWallet(wallet *entities.Wallet) error
	CreateGoal(goal *entities.Goal) error
	CreateExpense(expense *entities.Expense) error
	UpsertProfile(update ProfileUpdate) error
	Transaction(fn func(tx Store) error) error
}

var _ Store = (*Database)(nil)

type Database struct {
	DB   *gorm.DB
	path string
	log  zerolog.Logger
}

type Option func(*options)

type options struct {
	log      zerolog.Logger
	logLevel gormlogger.LogLevel
}

// WithLogger routes gorm's SQL logging through the given zerolog logger.
func WithLogger(l zerolog.Logger, level gormlogger.LogLevel) Option {
	return func(o *options) {
		o.log = l
		o.logLevel = level
	}
}

func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	o := options{log: zerolog.Nop(), logLevel: gormlogger.Silent}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Gorm(o.log, o.logLevel),
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows a single writer; one pooled connection keeps
	// transactions from tripping over "database is locked".
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&entities.Category{},
		&entities.Wallet{},
		&entities.Expense{},
		&entities.Goal{},
		&entities.Profile{},
		&entities.AuditEvent{},
	)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	path := dbPath
	if abs, err := filepath.Abs(dbPath); err == nil {
		path = abs
	}

	o.log.Info().Str("path", path).Msg("database initialized")

	return &Database{DB: db, path: path, log: o.log}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Path returns the absolute path of the backing file.
func (d *Database) Path() string {
	return d.path
}

// Transaction runs fn against a Store bound to a single transaction. Returning
// an error from fn rolls back everything fn wrote.
func (d *Database) Transaction(fn func(tx Store) error) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&Database{DB: tx, path: d.path, log: d.log})
	})
}

// Stats returns the number of rows per budget table.
func (d *Database) Stats() (map[string]int64, error) {
	models := map[string]any{
		"category": &entities.Category{},
		"wallet":   &entities.Wallet{},
		"expense":  &entities.Expense{},
		"goal":     &entities.Goal{},
		"profile":  &entities.Profile{},
	}
	stats := make(map[string]int64, len(models))
	for name, model := range models {
		var count int64
		if err := d.DB.Model(model).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", name, err)
		}
		stats[name] = count
	}
	return stats, nil
}
