// Command generate_demo creates a demo budget database with a few months of sample data.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mrlokans/budget-tracker/internal/database"
	"github.com/mrlokans/budget-tracker/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	months := flag.Int("months", 3, "number of months of expenses to generate")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	categories := createCategories(db)
	wallets := createWallets(db)
	addExpenses(db, categories, wallets, *months)
	addGoals(db, categories)

	checking := wallets["Checking"]
	if err := db.UpsertProfile(database.ProfileUpdate{
		Name:          ptr("Demo"),
		MonthlyBudget: decimal.NewNullDecimal(decimal.NewFromInt(2500)),
		MainWalletID:  &checking,
		SkipMonths:    []string{},
	}); err != nil {
		log.Printf("Failed to save profile: %v", err)
	}

	log.Println("Demo database generated successfully!")
}

type categorySeed struct {
	Name  string
	Limit string
	Type  entities.CategoryType
}

func createCategories(db *database.Database) map[string]int64 {
	seeds := []categorySeed{
		{"Groceries", "450", entities.CategoryTypeVariable},
		{"Eating out", "150", entities.CategoryTypeVariable},
		{"Transport", "90", entities.CategoryTypeVariable},
		{"Rent", "", entities.CategoryTypeFixed},
		{"Utilities", "", entities.CategoryTypeFixed},
	}

	ids := make(map[string]int64)
	for _, s := range seeds {
		c := &entities.Category{Name: s.Name, Type: s.Type, Currency: entities.DefaultCurrency}
		if s.Limit != "" {
			c.LimitAmount = decimal.NewNullDecimal(decimal.RequireFromString(s.Limit))
		}
		if err := db.CreateCategory(c); err != nil {
			log.Printf("Failed to create category %s: %v", s.Name, err)
			continue
		}
		ids[s.Name] = c.ID
	}
	return ids
}

func createWallets(db *database.Database) map[string]int64 {
	seeds := []entities.Wallet{
		{Name: "Checking", Amount: decimal.RequireFromString("2140.35"), Currency: "EUR"},
		{Name: "Cash", Amount: decimal.RequireFromString("85.00"), Currency: "EUR"},
		{Name: "Travel card", Amount: decimal.RequireFromString("320.00"), Currency: "USD"},
	}

	ids := make(map[string]int64)
	for i := range seeds {
		w := seeds[i]
		if err := db.CreateWallet(&w); err != nil {
			log.Printf("Failed to create wallet %s: %v", w.Name, err)
			continue
		}
		ids[w.Name] = w.ID
	}
	return ids
}

type recurring struct {
	Name     string
	Category string
	Wallet   string
	Cost     string
	Day      int
}

func addExpenses(db *database.Database, categories, wallets map[string]int64, months int) {
	monthly := []recurring{
		{"Rent", "Rent", "Checking", "950.00", 1},
		{"Electricity", "Utilities", "Checking", "64.20", 5},
		{"Weekly shop", "Groceries", "Checking", "82.45", 6},
		{"Weekly shop", "Groceries", "Checking", "77.10", 13},
		{"Pizza", "Eating out", "Cash", "23.50", 14},
		{"Weekly shop", "Groceries", "Checking", "91.30", 20},
		{"Metro pass", "Transport", "Checking", "49.00", 2},
		{"Taxi", "Transport", "Travel card", "18.75", 22},
	}

	start := time.Now().AddDate(0, -months+1, 0)
	start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.Local)

	count := 0
	for m := 0; m < months; m++ {
		month := start.AddDate(0, m, 0)
		for _, r := range monthly {
			categoryID := categories[r.Category]
			walletID := wallets[r.Wallet]
			e := &entities.Expense{
				Name:       r.Name,
				CategoryID: &categoryID,
				Cost:       decimal.RequireFromString(r.Cost),
				Date:       month.AddDate(0, 0, r.Day-1).Format("2006-01-02"),
				WalletID:   &walletID,
			}
			if err := db.CreateExpense(e); err != nil {
				log.Printf("Failed to add expense %s: %v", r.Name, err)
				continue
			}
			count++
		}
	}
	log.Printf("Added %d expenses over %d months", count, months)
}

func addGoals(db *database.Database, categories map[string]int64) {
	year := time.Now().Year()
	transport := categories["Transport"]
	goals := []entities.Goal{
		{
			Name:          "Emergency fund",
			AmountToReach: decimal.NewFromInt(5000),
			AmountReached: decimal.RequireFromString("1830.00"),
			Currency:      "EUR",
			StartDate:     ptr(fmt.Sprintf("%d-01-01", year)),
		},
		{
			Name:          "New bike",
			AmountToReach: decimal.NewFromInt(900),
			AmountReached: decimal.NewFromInt(900),
			CategoryID:    &transport,
			Currency:      "EUR",
			Completed:     true,
			EndDate:       ptr(fmt.Sprintf("%d-06-30", year)),
		},
	}
	for i := range goals {
		if err := db.CreateGoal(&goals[i]); err != nil {
			log.Printf("Failed to add goal %s: %v", goals[i].Name, err)
		}
	}
}

func ptr(s string) *string {
	return &s
}
