package schema

// Tables holds the normalized records of every entity in source order.
type Tables struct {
	Categories []Category
	Wallets    []Wallet
	Expenses   []Expense
	Goals      []Goal
	Profiles   []Profile
}

// Normalize projects and coerces every known entity of raw. Unknown entities
// are ignored and missing ones come back empty.
func Normalize(raw RawTables) Tables {
	t := Tables{
		Categories: make([]Category, 0, len(raw[EntityCategory])),
		Wallets:    make([]Wallet, 0, len(raw[EntityWallet])),
		Expenses:   make([]Expense, 0, len(raw[EntityExpense])),
		Goals:      make([]Goal, 0, len(raw[EntityGoal])),
		Profiles:   make([]Profile, 0, len(raw[EntityProfile])),
	}
	for _, r := range raw[EntityCategory] {
		t.Categories = append(t.Categories, NormalizeCategory(r))
	}
	for _, r := range raw[EntityWallet] {
		t.Wallets = append(t.Wallets, NormalizeWallet(r))
	}
	for _, r := range raw[EntityExpense] {
		t.Expenses = append(t.Expenses, NormalizeExpense(r))
	}
	for _, r := range raw[EntityGoal] {
		t.Goals = append(t.Goals, NormalizeGoal(r))
	}
	for _, r := range raw[EntityProfile] {
		t.Profiles = append(t.Profiles, NormalizeProfile(r))
	}
	return t
}

// Raw converts every record back to its canonical RawRecord form.
func (t Tables) Raw() RawTables {
	out := NewRawTables()
	for _, r := range t.Categories {
		out[EntityCategory] = append(out[EntityCategory], r.Raw())
	}
	for _, r := range t.Wallets {
		out[EntityWallet] = append(out[EntityWallet], r.Raw())
	}
	for _, r := range t.Expenses {
		out[EntityExpense] = append(out[EntityExpense], r.Raw())
	}
	for _, r := range t.Goals {
		out[EntityGoal] = append(out[EntityGoal], r.Raw())
	}
	for _, r := range t.Profiles {
		out[EntityProfile] = append(out[EntityProfile], r.Raw())
	}
	return out
}

// Len returns the number of records held for an entity.
func (t Tables) Len(e Entity) int {
	switch e {
	case EntityCategory:
		return len(t.Categories)
	case EntityWallet:
		return len(t.Wallets)
	case EntityExpense:
		return len(t.Expenses)
	case EntityGoal:
		return len(t.Goals)
	case EntityProfile:
		return len(t.Profiles)
	}
	return 0
}

// Counts returns the record count of every entity.
func (t Tables) Counts() map[Entity]int {
	counts := make(map[Entity]int, len(Entities))
	for _, e := range Entities {
		counts[e] = t.Len(e)
	}
	return counts
}
