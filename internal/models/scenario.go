package models

// Expense is a single payment extracted from a scenario description.
type Expense struct {
	// Payer is the normalized name of the person who fronted the money.
	// Invariant: the payer is always a member of the scenario's
	// effective participant set.
	Payer string `json:"payer"`

	// Amount is a non-negative value in the scenario's currency.
	Amount float64 `json:"amount"`

	// Description is a short label for the expense (e.g., "food").
	Description string `json:"description"`
}

// Balance is one participant's signed net position for a scenario.
// Positive means the group owes them money, negative means they owe the group.
type Balance struct {
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// Settlement is a single directed payment that reduces one debtor's and one
// creditor's outstanding balance. Replaying a scenario's settlements against
// its balances drives every balance to within 0.01 of zero.
type Settlement struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Scenario is one fully processed expense-splitting scenario.
// Scenarios are immutable once created; the only supported mutation is
// whole-record deletion by the owning user.
type Scenario struct {
	// ID is the unique identifier for the scenario (UUID format).
	ID string `json:"id"`

	// UserID is the owning user. A user may only list and delete their
	// own scenarios.
	UserID string `json:"userId"`

	// Category groups scenarios for display (e.g., "trip", "household").
	Category string `json:"category"`

	// Currency is a display label only; no conversion is performed.
	Currency string `json:"currency"`

	// Input is the raw natural-language description the scenario was
	// extracted from.
	Input string `json:"input"`

	// Participants is the effective participant set: normalized,
	// deduplicated, post-exclusion, payer always included.
	Participants []string `json:"participants"`

	Expenses    []Expense    `json:"expenses"`
	Balances    []Balance    `json:"balances"`
	Settlements []Settlement `json:"settlements"`

	// Date is the scenario date as a Unix timestamp (caller-supplied,
	// distinct from CreatedAt).
	Date int64 `json:"date"`

	// Excluded is the scenario-level exclusion list applied uniformly to
	// every expense when deriving sharer sets.
	Excluded []string `json:"excluded"`

	// CreatedAt is the Unix timestamp when the scenario was persisted.
	CreatedAt int64 `json:"createdAt"`
}
