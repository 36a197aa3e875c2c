package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tgoncalves/listly/internal/hooks"
	"github.com/tgoncalves/listly/internal/models"
	"github.com/tgoncalves/listly/internal/perms"
	"github.com/tgoncalves/listly/internal/storage"
)

// managerPerms may add/remove participants and edit the list.
var managerPerms = []string{perms.Owner, perms.Admin}

// memberPerms may view a private list and work with its items. The owner
// holds only the "owner" grant, so owner and admin are listed explicitly.
var memberPerms = []string{perms.Owner, perms.Admin, perms.Participant}

// ListService is the query surface for lists: it loads entities, enforces
// permission checks, and invokes the entity operations.
type ListService struct {
	store storage.Store
	perms perms.Store
	hooks *hooks.Registry
}

// NewListService creates a ListService and registers the list lifecycle
// hooks. The post-create hook is deferred: the owner's enrollment and
// "owner" grant become visible only after the creating unit of work
// commits (or inline when the registry runs synchronously).
func NewListService(store storage.Store, permStore perms.Store, registry *hooks.Registry) *ListService {
	s := &ListService{store: store, perms: permStore, hooks: registry}
	registry.RegisterDeferred(models.KindList, hooks.AfterSave, "enroll-owner", s.enrollOwner)
	return s
}

// enrollOwner adds the owner to the participant relation and grants the
// "owner" permission after a list is first persisted.
func (s *ListService) enrollOwner(ctx context.Context, entity any, created bool) error {
	list, ok := entity.(*models.List)
	if !ok || !created {
		return nil
	}
	if err := s.store.AddParticipant(ctx, list.ID, list.OwnerID); err != nil {
		return err
	}
	return s.perms.Assign(ctx, perms.Owner, list.OwnerID, list.ID)
}

// CreateListInput carries the caller-supplied fields for a new list.
type CreateListInput struct {
	Title       string
	Description string
	IsPublic    bool
	Threshold   decimal.NullDecimal
}

// CreateList creates a list owned by ownerID. The insert and its before/after
// save hooks run in one unit of work; the deferred post-create hook (owner
// enrollment and grant) runs after commit.
func (s *ListService) CreateList(ctx context.Context, ownerID string, in CreateListInput) (*models.List, error) {
	if in.Title == "" {
		return nil, ErrMissingTitle
	}
	if in.Threshold.Valid && in.Threshold.Decimal.IsNegative() {
		return nil, ErrNegativeThreshold
	}

	list := &models.List{
		Title:       in.Title,
		Description: in.Description,
		OwnerID:     ownerID,
		IsPublic:    in.IsPublic,
		IsActive:    true,
		Threshold:   in.Threshold,
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.hooks.Dispatch(ctx, models.KindList, hooks.BeforeSave, list, true); err != nil {
			return err
		}
		if err := s.store.CreateList(ctx, list); err != nil {
			return err
		}
		return s.hooks.Dispatch(ctx, models.KindList, hooks.AfterSave, list, true)
	})
	if err != nil {
		slog.Error("CreateList failed", "owner_id", ownerID, "error", err)
		return nil, err
	}

	slog.Info("List created", "list_id", list.ID, "owner_id", ownerID)
	return list, nil
}

// GetList returns the list if it is public or the actor is enrolled on it.
func (s *ListService) GetList(ctx context.Context, actorID, listID string) (*models.List, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.IsPublic {
		return list, nil
	}

	ok, err := perms.HasAny(ctx, s.perms, actorID, listID, memberPerms...)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return list, nil
}

// UpdateListInput carries the editable list fields.
type UpdateListInput struct {
	Title       string
	Description string
	IsPublic    bool
	IsActive    bool
	Threshold   decimal.NullDecimal
}

// UpdateList applies the input to the list. Only owner/admin may edit.
func (s *ListService) UpdateList(ctx context.Context, actorID, listID string, in UpdateListInput) (*models.List, error) {
	if in.Title == "" {
		return nil, ErrMissingTitle
	}
	if in.Threshold.Valid && in.Threshold.Decimal.IsNegative() {
		return nil, ErrNegativeThreshold
	}

	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAny(ctx, actorID, listID, managerPerms); err != nil {
		return nil, err
	}

	list.Title = in.Title
	list.Description = in.Description
	list.IsPublic = in.IsPublic
	list.IsActive = in.IsActive
	list.Threshold = in.Threshold

	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.hooks.Dispatch(ctx, models.KindList, hooks.BeforeSave, list, false); err != nil {
			return err
		}
		if err := s.store.UpdateList(ctx, list); err != nil {
			return err
		}
		return s.hooks.Dispatch(ctx, models.KindList, hooks.AfterSave, list, false)
	})
	if err != nil {
		slog.Error("UpdateList failed", "list_id", listID, "error", err)
		return nil, err
	}

	slog.Info("List updated", "list_id", listID, "actor_id", actorID)
	return list, nil
}

// MyLists returns the lists the user participates in, ordered by creation
// time ascending.
func (s *ListService) MyLists(ctx context.Context, userID string) ([]*models.List, error) {
	return s.store.ListsForUser(ctx, userID)
}

// AddParticipant enrolls userID on the list and grants the "participant"
// permission. The actor must hold owner or admin. Fails with
// ErrAlreadyParticipant when the user already holds "participant".
func (s *ListService) AddParticipant(ctx context.Context, actorID, listID, userID string) (*models.List, error) {
	if _, err := s.store.GetList(ctx, listID); err != nil {
		return nil, err
	}
	if err := s.requireAny(ctx, actorID, listID, managerPerms); err != nil {
		return nil, err
	}

	already, err := s.perms.Has(ctx, perms.Participant, userID, listID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, ErrAlreadyParticipant
	}

	// Relation and grant land together or not at all.
	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.store.AddParticipant(ctx, listID, userID); err != nil {
			return err
		}
		return s.perms.Assign(ctx, perms.Participant, userID, listID)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Participant added", "list_id", listID, "user_id", userID, "actor_id", actorID)
	return s.store.GetList(ctx, listID)
}

// RemoveParticipant removes userID from the list and revokes every
// permission the list type defines for that user. The actor must hold owner
// or admin. Fails with ErrNotParticipant when the user does not hold
// "participant".
func (s *ListService) RemoveParticipant(ctx context.Context, actorID, listID, userID string) (*models.List, error) {
	if _, err := s.store.GetList(ctx, listID); err != nil {
		return nil, err
	}
	if err := s.requireAny(ctx, actorID, listID, managerPerms); err != nil {
		return nil, err
	}

	enrolled, err := s.perms.Has(ctx, perms.Participant, userID, listID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotParticipant
	}

	// The relation delete and the revocations land together or not at all.
	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.store.RemoveParticipant(ctx, listID, userID); err != nil {
			return err
		}
		for _, p := range perms.All {
			if err := s.perms.Revoke(ctx, p, userID, listID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Participant removed", "list_id", listID, "user_id", userID, "actor_id", actorID)
	return s.store.GetList(ctx, listID)
}

// PromoteToAdmin grants the "admin" permission to an existing participant.
// The actor must hold owner or admin. Fails with ErrNotParticipant for
// non-participants and ErrAlreadyAdmin for users already holding admin or
// owner.
func (s *ListService) PromoteToAdmin(ctx context.Context, actorID, listID, userID string) (*models.List, error) {
	if _, err := s.store.GetList(ctx, listID); err != nil {
		return nil, err
	}
	if err := s.requireAny(ctx, actorID, listID, managerPerms); err != nil {
		return nil, err
	}

	enrolled, err := s.perms.Has(ctx, perms.Participant, userID, listID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotParticipant
	}

	elevated, err := perms.HasAny(ctx, s.perms, userID, listID, perms.Admin, perms.Owner)
	if err != nil {
		return nil, err
	}
	if elevated {
		return nil, ErrAlreadyAdmin
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		return s.perms.Assign(ctx, perms.Admin, userID, listID)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Participant promoted to admin", "list_id", listID, "user_id", userID, "actor_id", actorID)
	return s.store.GetList(ctx, listID)
}

// AddItemInput carries the caller-supplied fields for a new item.
type AddItemInput struct {
	Name        string
	Description string
	Quantity    int64
	UserID      string
	Value       decimal.NullDecimal
	Weight      decimal.NullDecimal
}

// AddItem creates a new active item under the list. The actor must be
// enrolled on the list (participant, admin, or owner).
func (s *ListService) AddItem(ctx context.Context, actorID, listID string, in AddItemInput) (*models.Item, error) {
	if in.Name == "" {
		return nil, ErrMissingName
	}
	if in.Quantity < 0 {
		return nil, ErrBadQuantity
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Value.Valid && in.Value.Decimal.IsNegative() {
		return nil, ErrNegativeValue
	}

	if _, err := s.store.GetList(ctx, listID); err != nil {
		return nil, err
	}
	if err := s.requireAny(ctx, actorID, listID, memberPerms); err != nil {
		return nil, err
	}

	item := &models.Item{
		ListID:      listID,
		Name:        in.Name,
		Description: in.Description,
		Quantity:    in.Quantity,
		UserID:      in.UserID,
		Value:       in.Value,
		Weight:      in.Weight,
		IsActive:    true,
	}
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.hooks.Dispatch(ctx, models.KindItem, hooks.BeforeSave, item, true); err != nil {
			return err
		}
		if err := s.store.CreateItem(ctx, item); err != nil {
			return err
		}
		return s.hooks.Dispatch(ctx, models.KindItem, hooks.AfterSave, item, true)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Item added", "list_id", listID, "item_id", item.ID, "actor_id", actorID)
	return item, nil
}

// RemoveItems deactivates the given items of the list in one set-oriented
// update. Returns true iff every requested item belonged to the list and
// was flipped; items of other lists are left untouched.
func (s *ListService) RemoveItems(ctx context.Context, actorID, listID string, itemIDs []string) (bool, error) {
	if _, err := s.store.GetList(ctx, listID); err != nil {
		return false, err
	}
	if err := s.requireAny(ctx, actorID, listID, memberPerms); err != nil {
		return false, err
	}

	n, err := s.store.DeactivateItems(ctx, listID, itemIDs)
	if err != nil {
		return false, err
	}

	slog.Info("Items removed", "list_id", listID, "requested", len(itemIDs), "updated", n, "actor_id", actorID)
	return n == int64(len(itemIDs)), nil
}

// requireAny returns ErrForbidden unless the actor holds at least one of
// the permissions on the list.
func (s *ListService) requireAny(ctx context.Context, actorID, listID string, permissions []string) error {
	ok, err := perms.HasAny(ctx, s.perms, actorID, listID, permissions...)
	if err != nil {
		return fmt.Errorf("permission check: %w", err)
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
