package models

import "github.com/shopspring/decimal"

// KindList is the entity kind lists dispatch lifecycle hooks under.
const KindList = "list"

// List represents a shared shopping/wish list.
type List struct {
	// ID is the unique identifier for the list (UUID format).
	ID string `json:"id"`

	// Title is the display name of the list.
	Title string `json:"title"`

	// Description is an optional free-text description.
	Description string `json:"description"`

	// OwnerID is the user who created the list. Set at creation, immutable.
	OwnerID string `json:"ownerId"`

	// IsPublic controls whether non-participants may view the list.
	IsPublic bool `json:"isPublic"`

	// IsActive is the list's soft-removal flag.
	IsActive bool `json:"isActive"`

	// Threshold is an optional monetary ceiling for the subtotal of the
	// list's active items. Non-negative when set.
	Threshold decimal.NullDecimal `json:"threshold"`

	// ParticipantIDs are the users enrolled on this list. The owner is
	// enrolled by the post-create hook, so inside the creating transaction
	// the slice does not yet contain the owner.
	ParticipantIDs []string `json:"participantIds"`

	// Items are the list's items, active and inactive.
	Items []Item `json:"items"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// HasParticipant reports whether the user is in the participant relation.
func (l *List) HasParticipant(userID string) bool {
	for _, id := range l.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Subtotal sums Total over the list's active items.
func (l *List) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for i := range l.Items {
		if !l.Items[i].IsActive {
			continue
		}
		sum = sum.Add(l.Items[i].Total())
	}
	return sum
}

// Reserve returns threshold minus subtotal, the remaining budget.
// The second return is false when no threshold is set.
func (l *List) Reserve() (decimal.Decimal, bool) {
	if !l.Threshold.Valid {
		return decimal.Decimal{}, false
	}
	return l.Threshold.Decimal.Sub(l.Subtotal()), true
}
