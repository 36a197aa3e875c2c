package models

import "github.com/shopspring/decimal"

// KindItem is the entity kind items dispatch lifecycle hooks under.
const KindItem = "item"

// Item represents a single line item on a list.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// ListID is the list this item belongs to.
	ListID string `json:"listId"`

	// Name is the item's required display name.
	Name string `json:"name"`

	// Description is an optional free-text description.
	Description string `json:"description"`

	// Quantity defaults to 1.
	Quantity int64 `json:"quantity"`

	// Value is the optional unit price. Non-negative when set.
	Value decimal.NullDecimal `json:"value"`

	// Weight is the optional weight in grams.
	Weight decimal.NullDecimal `json:"weight"`

	// UserID is the optional user responsible for the item. Cleared, not
	// cascaded, when that user is removed.
	UserID string `json:"userId,omitempty"`

	// IsActive is the soft-removal flag. Inactive items are excluded from
	// the list's subtotal.
	IsActive bool `json:"isActive"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// Total is the item's line total: unit value times quantity, zero when no
// value is set.
func (i *Item) Total() decimal.Decimal {
	if !i.Value.Valid {
		return decimal.Zero
	}
	return i.Value.Decimal.Mul(decimal.NewFromInt(i.Quantity))
}
