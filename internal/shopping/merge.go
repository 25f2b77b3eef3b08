package shopping

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/avivm/shoplist/internal/database"
	"github.com/avivm/shoplist/internal/model"
)

// AddItem adds rawName to the list, merging into an existing live item
// with the same normalized name and category instead of duplicating it.
// The returned outcome says which happened.
//
// Rejections: empty name -> *ValidationError; unknown list/user ->
// *ReferenceError; frozen list -> ErrListFrozen; caller without edit
// rights -> ErrNotAuthorized.
func (s *Service) AddItem(ctx context.Context, listID, userID int64, rawName, category, note string) (*model.ShoppingItem, AddOutcome, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	user, list, err := s.resolveActor(ctx, listID, userID)
	if err != nil {
		return nil, "", s.mapErr(err)
	}
	ok, err := s.mayEdit(ctx, list, user)
	if err != nil {
		return nil, "", s.mapErr(err)
	}
	if !ok {
		return nil, "", ErrNotAuthorized
	}

	item, outcome, err := s.mergeAdd(ctx, list, userID, rawName, category, note)
	return item, outcome, s.mapErr(err)
}

// mergeAdd is the merge engine proper. It assumes the actor has been
// authorized and attributes the contribution to actorID.
//
// Concurrency: insert first and treat a unique violation on
// (list, category, name_key) as "somebody else created it"; re-fetch
// and merge. The retry covers the small window where the winning row is
// deleted between our failed insert and the re-fetch. No in-process
// lock, so horizontally replicated bot processes stay correct.
func (s *Service) mergeAdd(ctx context.Context, list *model.List, actorID int64, rawName, category, note string) (*model.ShoppingItem, AddOutcome, error) {
	name := CleanName(rawName)
	key := NameKey(rawName)
	if key == "" {
		return nil, "", &ValidationError{Reason: "item name is empty"}
	}
	if list.IsFrozen {
		return nil, "", ErrListFrozen
	}
	if category == "" {
		category = GuessCategory(name)
	}

	var item *model.ShoppingItem
	var outcome AddOutcome

	backoff := retry.WithMaxRetries(3, retry.NewConstant(25*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		existing, err := s.items.GetByKey(ctx, list.ID, category, key)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := s.recordContribution(ctx, existing, actorID, note); err != nil {
				return err
			}
			item, outcome = existing, OutcomeMerged
			return nil
		}

		created, err := s.items.Create(ctx, list.ID, name, key, category, &actorID, note)
		if err != nil {
			if database.IsUniqueViolation(err) {
				// Lost the insert race; merge on the next attempt.
				return retry.RetryableError(err)
			}
			if database.IsForeignKeyViolation(err) {
				return &ReferenceError{Entity: "list", ID: list.ID}
			}
			return err
		}
		item, outcome = created, OutcomeCreated
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return item, outcome, nil
}

// recordContribution attributes a merge to the acting user: their note
// is appended, never overwritten. A user merging without a note is
// still recorded once so the display can name every contributor.
func (s *Service) recordContribution(ctx context.Context, item *model.ShoppingItem, actorID int64, note string) error {
	if note != "" {
		return s.items.AppendNote(ctx, item.ID, actorID, note)
	}
	if item.AddedBy != nil && *item.AddedBy == actorID {
		return nil
	}
	has, err := s.items.HasNote(ctx, item.ID, actorID)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	return s.items.AppendNote(ctx, item.ID, actorID, "")
}

// resolveActor validates the (user, list) pair every mutation starts
// from. Unknown ids are caller bugs and come back as *ReferenceError;
// unauthorized users are rejected outright.
func (s *Service) resolveActor(ctx context.Context, listID, userID int64) (*model.User, *model.List, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, &ReferenceError{Entity: "user", ID: userID}
	}
	if !user.IsAuthorized {
		return nil, nil, ErrNotAuthorized
	}

	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, nil, err
	}
	if list == nil {
		return nil, nil, &ReferenceError{Entity: "list", ID: listID}
	}
	return user, list, nil
}

// mayEdit is the single ownership/sharing check consulted by every
// mutating operation. Admins and list owners may edit; lists without an
// owner (the seeded household list) are editable by any authorized
// user; everyone else needs an edit grant.
func (s *Service) mayEdit(ctx context.Context, list *model.List, user *model.User) (bool, error) {
	if user.IsAdmin {
		return true, nil
	}
	if list.CreatedBy == nil {
		return true, nil
	}
	if *list.CreatedBy == user.ID {
		return true, nil
	}
	sharing, err := s.lists.GetSharing(ctx, list.ID, user.ID)
	if err != nil {
		return false, err
	}
	return sharing != nil && sharing.CanEdit, nil
}

// ListItems returns the list's items grouped for presentation: ordered
// by category and name, each with contributor names and notes.
func (s *Service) ListItems(ctx context.Context, listID int64) ([]model.ItemView, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, s.mapErr(err)
	}
	if list == nil {
		return nil, &ReferenceError{Entity: "list", ID: listID}
	}

	views, err := s.items.ListViews(ctx, listID)
	return views, s.mapErr(err)
}

// ItemsByUser returns every item the user personally added, across all
// lists, for the "my items" view.
func (s *Service) ItemsByUser(ctx context.Context, userID int64) ([]model.ShoppingItem, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, s.mapErr(err)
	}
	if user == nil {
		return nil, &ReferenceError{Entity: "user", ID: userID}
	}

	items, err := s.items.ListByUser(ctx, userID)
	return items, s.mapErr(err)
}

// DeleteItem removes one item. Allowed for admins and for the user who
// added the item. Returns the item name for the confirmation message.
func (s *Service) DeleteItem(ctx context.Context, userID, itemID int64) (string, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", s.mapErr(err)
	}
	if user == nil {
		return "", &ReferenceError{Entity: "user", ID: userID}
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return "", s.mapErr(err)
	}
	if item == nil {
		return "", &ReferenceError{Entity: "item", ID: itemID}
	}

	if !user.IsAdmin && (item.AddedBy == nil || *item.AddedBy != userID) {
		return "", ErrNotAuthorized
	}

	name, err := s.items.Delete(ctx, itemID)
	return name, s.mapErr(err)
}

// MarkItemStatus records the acting user's own view of an item's
// fulfillment: bought, not_found or pending. One row per (item, user);
// repeated calls update in place.
func (s *Service) MarkItemStatus(ctx context.Context, userID, itemID int64, status string) error {
	switch status {
	case model.StatusPending, model.StatusBought, model.StatusNotFound:
	default:
		return &ValidationError{Reason: "unknown status " + status}
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return s.mapErr(err)
	}
	if user == nil {
		return &ReferenceError{Entity: "user", ID: userID}
	}
	if !user.IsAuthorized {
		return ErrNotAuthorized
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return s.mapErr(err)
	}
	if item == nil {
		return &ReferenceError{Entity: "item", ID: itemID}
	}

	return s.mapErr(s.items.UpsertStatus(ctx, itemID, userID, status))
}
