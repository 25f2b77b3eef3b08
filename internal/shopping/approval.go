package shopping

import (
	"context"
	"strings"

	"github.com/avivm/shoplist/internal/database"
	"github.com/avivm/shoplist/internal/model"
)

// SubmitItemSuggestion proposes adding an item to a list. The proposal
// waits in the admin review queue until resolved.
func (s *Service) SubmitItemSuggestion(ctx context.Context, userID, listID int64, rawName, category string) (*model.Suggestion, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if NameKey(rawName) == "" {
		return nil, &ValidationError{Reason: "item name is empty"}
	}
	if _, _, err := s.resolveActor(ctx, listID, userID); err != nil {
		return nil, s.mapErr(err)
	}

	sg, err := s.suggestions.Create(ctx, &model.Suggestion{
		Kind:         model.SuggestionKindItem,
		SuggestedBy:  userID,
		ListID:       &listID,
		ItemName:     CleanName(rawName),
		ItemCategory: category,
	})
	return sg, s.mapErr(err)
}

// SubmitCategorySuggestion proposes a new custom category. The key is
// normalized to a lowercase snake form so "Pet Supplies" and
// "pet_supplies" collide at approval time rather than coexisting.
func (s *Service) SubmitCategorySuggestion(ctx context.Context, userID int64, key, emoji, nameEN, nameHE string) (*model.Suggestion, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	key = categoryKey(key)
	if key == "" {
		return nil, &ValidationError{Reason: "category key is empty"}
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

	sg, err := s.suggestions.Create(ctx, &model.Suggestion{
		Kind:          model.SuggestionKindCategory,
		SuggestedBy:   userID,
		CategoryKey:   key,
		CategoryEmoji: emoji,
		NameEN:        nameEN,
		NameHE:        nameHE,
	})
	return sg, s.mapErr(err)
}

func categoryKey(raw string) string {
	return strings.ReplaceAll(strings.ToLower(CleanName(raw)), " ", "_")
}

// Resolve applies an admin's decision to a pending suggestion. Both
// outcomes are terminal; re-submission needs a new suggestion.
//
// Approving a category that already exists fails with
// ErrDuplicateCategory and leaves the suggestion pending so it can
// still be rejected. Approving an item routes it through the merge
// engine against the suggestion's target list, attributed to the
// original proposer.
func (s *Service) Resolve(ctx context.Context, adminID, suggestionID int64, approve bool) (*model.Suggestion, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	admin, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		return nil, s.mapErr(err)
	}
	if admin == nil {
		return nil, &ReferenceError{Entity: "user", ID: adminID}
	}
	if !admin.IsAdmin {
		return nil, ErrNotAuthorized
	}

	sg, err := s.suggestions.GetByID(ctx, suggestionID)
	if err != nil {
		return nil, s.mapErr(err)
	}
	if sg == nil {
		return nil, &ReferenceError{Entity: "suggestion", ID: suggestionID}
	}
	if sg.Status != model.SuggestionPending {
		return nil, ErrAlreadyResolved
	}

	if !approve {
		resolved, err := s.suggestions.MarkResolved(ctx, sg.ID, model.SuggestionRejected, adminID)
		if err != nil {
			return nil, s.mapErr(err)
		}
		if !resolved {
			return nil, ErrAlreadyResolved
		}
		return s.refreshed(ctx, sg.ID)
	}

	switch sg.Kind {
	case model.SuggestionKindCategory:
		return s.approveCategory(ctx, sg, adminID)
	case model.SuggestionKindItem:
		return s.approveItem(ctx, sg, adminID)
	default:
		return nil, &ValidationError{Reason: "unknown suggestion kind " + sg.Kind}
	}
}

func (s *Service) approveCategory(ctx context.Context, sg *model.Suggestion, adminID int64) (*model.Suggestion, error) {
	cat, resolved, err := s.suggestions.ApproveCategory(ctx, sg, adminID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			// Rolled back: the suggestion is still pending.
			return nil, ErrDuplicateCategory
		}
		return nil, s.mapErr(err)
	}
	if !resolved {
		return nil, ErrAlreadyResolved
	}

	s.logger.Info("category suggestion approved",
		"suggestion_id", sg.ID, "category_key", cat.Key, "approved_by", adminID)
	return s.refreshed(ctx, sg.ID)
}

// approveItem stamps the suggestion and lands the item in one
// transaction, mirroring approveCategory: a resolver that loses the
// conditional stamp writes nothing, so a concurrent reject can never
// end up rejected with the item still on the list.
func (s *Service) approveItem(ctx context.Context, sg *model.Suggestion, adminID int64) (*model.Suggestion, error) {
	listID := model.DefaultListID
	if sg.ListID != nil {
		listID = *sg.ListID
	}
	list, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, s.mapErr(err)
	}
	if list == nil {
		return nil, &ReferenceError{Entity: "list", ID: listID}
	}
	if list.IsFrozen {
		return nil, ErrListFrozen
	}

	name := CleanName(sg.ItemName)
	key := NameKey(sg.ItemName)
	if key == "" {
		return nil, &ValidationError{Reason: "item name is empty"}
	}
	category := sg.ItemCategory
	if category == "" {
		category = GuessCategory(name)
	}

	created, resolved, err := s.suggestions.ApproveItem(ctx, sg, adminID, list.ID, name, key, category)
	if err != nil {
		return nil, s.mapErr(err)
	}
	if !resolved {
		return nil, ErrAlreadyResolved
	}

	outcome := OutcomeMerged
	if created {
		outcome = OutcomeCreated
	}

	s.logger.Info("item suggestion approved",
		"suggestion_id", sg.ID, "item_name", sg.ItemName, "outcome", string(outcome), "approved_by", adminID)
	return s.refreshed(ctx, sg.ID)
}

func (s *Service) refreshed(ctx context.Context, id int64) (*model.Suggestion, error) {
	sg, err := s.suggestions.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(err)
	}
	return sg, nil
}

// PendingSuggestions is the admin review queue, oldest first.
func (s *Service) PendingSuggestions(ctx context.Context, adminID int64) ([]model.Suggestion, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	admin, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		return nil, s.mapErr(err)
	}
	if admin == nil {
		return nil, &ReferenceError{Entity: "user", ID: adminID}
	}
	if !admin.IsAdmin {
		return nil, ErrNotAuthorized
	}

	pending, err := s.suggestions.ListPending(ctx)
	return pending, s.mapErr(err)
}
