// Package models defines the core domain models for Listly.
//
// # Models
//
//   - List: a shared shopping/wish list with an owner, participants, and items
//   - Item: a line item on a list with quantity, optional unit value and weight
//   - User: a registered account
//
// # Design Principles
//
// 1. **Flat structs**: relationships are ID strings, never pointers, to avoid
// circular references between models.
// 2. **Exact money**: monetary fields use decimal.Decimal with two fractional
// digits, never float64.
// 3. **Soft removal**: items are deactivated, not deleted. A list's subtotal
// only ever counts active items.
//
// Permission names for per-list grants (owner/admin/participant) live in the
// perms package; the models here only carry the participant relation itself.
package models
