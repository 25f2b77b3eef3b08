package shopping

import (
	"context"

	"github.com/avivm/shoplist/internal/model"
)

// ApplyResult tallies one template application. ItemsAdded counts only
// freshly created items; entries that merged into existing items are
// reported separately and excluded from the audit's items_added.
type ApplyResult struct {
	ItemsAdded  int
	ItemsMerged int
}

// CreateTemplate stores a reusable bundle of item descriptors. Bundles
// are validated here so ApplyTemplate never has to skip entries.
func (s *Service) CreateTemplate(ctx context.Context, userID int64, name string, items []model.TemplateItem) (*model.Template, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if CleanName(name) == "" {
		return nil, &ValidationError{Reason: "template name is empty"}
	}
	if len(items) == 0 {
		return nil, &ValidationError{Reason: "template has no items"}
	}
	for _, it := range items {
		if NameKey(it.Name) == "" {
			return nil, &ValidationError{Reason: "template item name is empty"}
		}
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

	tpl, err := s.templates.Create(ctx, CleanName(name), items, &userID, false)
	return tpl, s.mapErr(err)
}

// DeleteTemplate removes a template. Regular users may delete their own
// templates; system templates require an admin.
func (s *Service) DeleteTemplate(ctx context.Context, userID, templateID int64) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return s.mapErr(err)
	}
	if user == nil {
		return &ReferenceError{Entity: "user", ID: userID}
	}

	tpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return s.mapErr(err)
	}
	if tpl == nil {
		return &ReferenceError{Entity: "template", ID: templateID}
	}

	if tpl.IsSystem && !user.IsAdmin {
		return ErrNotAuthorized
	}
	if !tpl.IsSystem && !user.IsAdmin && (tpl.CreatedBy == nil || *tpl.CreatedBy != userID) {
		return ErrNotAuthorized
	}

	return s.mapErr(s.templates.Delete(ctx, templateID))
}

// ListTemplates returns the templates visible to the user: their own
// plus system templates.
func (s *Service) ListTemplates(ctx context.Context, userID int64) ([]model.Template, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, s.mapErr(err)
	}
	if user == nil {
		return nil, &ReferenceError{Entity: "user", ID: userID}
	}

	templates, err := s.templates.ListVisible(ctx, userID)
	return templates, s.mapErr(err)
}

// ApplyTemplate runs every bundle entry through the merge engine
// against the target list. A frozen list fails the whole call before
// any item is touched and before the usage counter moves. The usage
// counter and last_used move exactly once per call, and one audit row
// records how many items were actually created.
func (s *Service) ApplyTemplate(ctx context.Context, templateID, listID, userID int64) (ApplyResult, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var result ApplyResult

	user, list, err := s.resolveActor(ctx, listID, userID)
	if err != nil {
		return result, s.mapErr(err)
	}

	tpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return result, s.mapErr(err)
	}
	if tpl == nil {
		return result, &ReferenceError{Entity: "template", ID: templateID}
	}

	if list.IsFrozen {
		return result, ErrListFrozen
	}
	ok, err := s.mayEdit(ctx, list, user)
	if err != nil {
		return result, s.mapErr(err)
	}
	if !ok {
		return result, ErrNotAuthorized
	}

	for _, entry := range tpl.Items {
		name := entry.Name
		if user.Language == "he" && entry.NameHE != "" {
			name = entry.NameHE
		}
		_, outcome, err := s.mergeAdd(ctx, list, userID, name, entry.Category, "")
		if err != nil {
			return ApplyResult{}, s.mapErr(err)
		}
		if outcome == OutcomeCreated {
			result.ItemsAdded++
		} else {
			result.ItemsMerged++
		}
	}

	if err := s.templates.RecordUsage(ctx, templateID, listID, &userID, result.ItemsAdded); err != nil {
		return ApplyResult{}, s.mapErr(err)
	}

	s.logger.Info("template applied",
		"template_id", templateID, "list_id", listID,
		"items_added", result.ItemsAdded, "items_merged", result.ItemsMerged)
	return result, nil
}
