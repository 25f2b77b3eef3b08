package shopping

import (
	"context"

	"github.com/avivm/shoplist/internal/database"
	"github.com/avivm/shoplist/internal/model"
)

// CreateList opens a new named list owned by the creating user.
func (s *Service) CreateList(ctx context.Context, userID int64, name, listType string) (*model.List, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if CleanName(name) == "" {
		return nil, &ValidationError{Reason: "list name is empty"}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, s.mapErr(err)
	}
	if user == nil {
		return nil, &ReferenceError{Entity: "user", ID: userID}
	}
	if !user.IsAuthorized {
		return nil, ErrNotAuthorized
	}

	list, err := s.lists.Create(ctx, CleanName(name), listType, &userID)
	return list, s.mapErr(err)
}

// Freeze stops new item and note mutations on the list; reads continue
// to work. Idempotent.
func (s *Service) Freeze(ctx context.Context, listID int64) (*model.List, error) {
	return s.setFrozen(ctx, listID, true)
}

// Unfreeze lifts a freeze. Idempotent.
func (s *Service) Unfreeze(ctx context.Context, listID int64) (*model.List, error) {
	return s.setFrozen(ctx, listID, false)
}

func (s *Service) setFrozen(ctx context.Context, listID int64, frozen bool) (*model.List, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, s.mapErr(err)
	}
	if list == nil {
		return nil, &ReferenceError{Entity: "list", ID: listID}
	}

	updated, err := s.lists.SetFrozen(ctx, listID, frozen)
	return updated, s.mapErr(err)
}

// Reset deletes every live item on the list along with their notes and
// status tracking (rows are deleted, not archived). The list row,
// historical suggestions, templates and template-usage audit all
// survive. Admin only.
func (s *Service) Reset(ctx context.Context, adminID, listID int64) (int64, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	admin, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		return 0, s.mapErr(err)
	}
	if admin == nil {
		return 0, &ReferenceError{Entity: "user", ID: adminID}
	}
	if !admin.IsAdmin {
		return 0, ErrNotAuthorized
	}

	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return 0, s.mapErr(err)
	}
	if list == nil {
		return 0, &ReferenceError{Entity: "list", ID: listID}
	}

	removed, err := s.items.ResetList(ctx, listID)
	if err != nil {
		return 0, s.mapErr(err)
	}
	s.logger.Info("list reset", "list_id", listID, "items_removed", removed, "admin_id", adminID)
	return removed, nil
}

// Share grants targetID edit rights on the list, or revokes them with
// canEdit=false. Idempotent: one grant per (list, user), re-sharing
// updates it in place. Only the list owner or an admin may share.
func (s *Service) Share(ctx context.Context, actorID, listID, targetID int64, canEdit bool) (*model.ListSharing, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	actor, list, err := s.resolveActor(ctx, listID, actorID)
	if err != nil {
		return nil, s.mapErr(err)
	}
	if !actor.IsAdmin && (list.CreatedBy == nil || *list.CreatedBy != actorID) {
		return nil, ErrNotAuthorized
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, s.mapErr(err)
	}
	if target == nil {
		return nil, &ReferenceError{Entity: "user", ID: targetID}
	}

	sharing, err := s.lists.Share(ctx, listID, targetID, canEdit)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, &ReferenceError{Entity: "user", ID: targetID}
		}
		return nil, s.mapErr(err)
	}
	return sharing, nil
}
