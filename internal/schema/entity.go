// Package schema defines the five interchange entities, their canonical column
// sets, and the normalizer that turns loosely-typed reader output into strict
// per-entity records.
//
// # Canonical columns
//
// Every entity has a fixed, ordered column list. Readers produce RawRecords with
// whatever keys the source happened to carry; normalization keeps only the
// canonical columns (matched case-insensitively), fills the missing ones with
// null, and coerces each value to the column's Kind.
//
// Coercion is total: a value that cannot be parsed becomes null for that field
// only, it never fails the record.
//
// # Usage
//
//	raw := schema.RawTables{
//		schema.EntityCategory: {{"Name": "Food", "type": "1.0"}},
//	}
//	tables := schema.Normalize(raw)
//	// *tables.Categories[0].Type == 1
package schema

import (
	"sort"
	"strings"
)

// Entity names one of the five interchange tables.
type Entity string

const (
	EntityCategory Entity = "category"
	EntityWallet   Entity = "wallet"
	EntityExpense  Entity = "expense"
	EntityGoal     Entity = "goal"
	EntityProfile  Entity = "profile"
)

// Entities lists every entity in the fixed interchange order.
var Entities = []Entity{
	EntityCategory,
	EntityWallet,
	EntityExpense,
	EntityGoal,
	EntityProfile,
}

// ParseEntity maps a table name (case-insensitive) to a known Entity.
func ParseEntity(name string) (Entity, bool) {
	e := Entity(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Entities {
		if e == known {
			return e, true
		}
	}
	return "", false
}

// Kind is the coercion applied to a column during normalization.
type Kind int

const (
	KindInteger Kind = iota
	KindMoney
	KindText
	KindBoolean
	KindDay
	KindTimestamp
	KindJSONText
)

// Column is one canonical column of an entity.
type Column struct {
	Name string
	Kind Kind
}

var columns = map[Entity][]Column{
	EntityCategory: {
		{"id", KindInteger},
		{"name", KindText},
		{"limit_amount", KindMoney},
		{"type", KindInteger}, // 0 variable, 1 fixed
		{"currency", KindText},
	},
	EntityWallet: {
		{"id", KindInteger},
		{"name", KindText},
		{"amount", KindMoney},
		{"currency", KindText},
	},
	EntityExpense: {
		{"id", KindInteger},
		{"name", KindText},
		{"category_id", KindInteger},
		{"cost", KindMoney},
		{"date", KindDay},
		{"description", KindText},
		{"wallet_id", KindInteger},
	},
	EntityGoal: {
		{"id", KindInteger},
		{"name", KindText},
		{"amount_to_reach", KindMoney},
		{"amount_reached", KindMoney},
		{"category_id", KindInteger},
		{"currency", KindText},
		{"completed", KindBoolean},
		{"start_date", KindDay},
		{"end_date", KindDay},
	},
	EntityProfile: {
		{"id", KindInteger},
		{"name", KindText},
		{"photo_path", KindText},
		{"monthly_budget", KindMoney},
		{"main_wallet_id", KindInteger},
		{"skip_months", KindJSONText},
		{"theme", KindInteger},
		{"password_hash", KindText},
		{"created_at", KindTimestamp},
		{"last_login", KindTimestamp},
	},
}

// Columns returns the canonical columns of an entity in their fixed order.
// Unknown entities have no columns.
func Columns(e Entity) []Column {
	return columns[e]
}

// ColumnNames returns the canonical column names of an entity in order.
func ColumnNames(e Entity) []string {
	cols := columns[e]
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// RawRecord is one untyped record as produced by a reader.
type RawRecord map[string]any

// RawTables maps each entity to its records in source order.
type RawTables map[Entity][]RawRecord

// NewRawTables returns RawTables with an empty slice for every entity.
func NewRawTables() RawTables {
	t := make(RawTables, len(Entities))
	for _, e := range Entities {
		t[e] = []RawRecord{}
	}
	return t
}

// project keeps the canonical columns of raw, matched case-insensitively, and
// coerces each one. Missing columns are present with a nil value. When several
// keys match one column, the exact column name wins, then the smallest key.
func project(e Entity, raw RawRecord) map[string]any {
	cols := columns[e]
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	byLower := make(map[string]any, len(raw))
	for _, k := range keys {
		lower := strings.ToLower(strings.TrimSpace(k))
		if _, seen := byLower[lower]; !seen {
			byLower[lower] = raw[k]
		}
	}
	for _, c := range cols {
		if v, ok := raw[c.Name]; ok {
			byLower[c.Name] = v
		}
	}

	out := make(map[string]any, len(cols))
	for _, c := range cols {
		out[c.Name] = coerce(c.Kind, byLower[c.Name])
	}
	return out
}
