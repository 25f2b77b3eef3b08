package shopping

import (
	"context"
	"errors"
	"testing"

	"github.com/avivm/shoplist/internal/model"
)

func TestResolveRequiresAdmin(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	seedUser(t, s, 1, "Alice", false)

	sg, err := s.SubmitItemSuggestion(ctx, 1, model.DefaultListID, "Halva", "snacks")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := s.Resolve(ctx, 1, sg.ID, true); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("non-admin resolve: err = %v, want ErrNotAuthorized", err)
	}
	if _, err := s.PendingSuggestions(ctx, 1); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("non-admin queue: err = %v, want ErrNotAuthorized", err)
	}
}

func TestRejectIsTerminal(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	seedUser(t, s, 1, "Alice", false)
	seedUser(t, s, 9, "Root", true)

	sg, err := s.SubmitItemSuggestion(ctx, 1, model.DefaultListID, "Halva", "snacks")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	rejected, err := s.Resolve(ctx, 9, sg.ID, false)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != model.SuggestionRejected {
		t.Errorf("status = %q, want rejected", rejected.Status)
	}

	// Neither a second reject nor a late approve may flip it.
	if _, err := s.Resolve(ctx, 9, sg.ID, false); !errors.Is(err, ErrAlreadyResolved) {
		t.Errorf("re-reject: err = %v, want ErrAlreadyResolved", err)
	}
	if _, err := s.Resolve(ctx, 9, sg.ID, true); !errors.Is(err, ErrAlreadyResolved) {
		t.Errorf("approve after reject: err = %v, want ErrAlreadyResolved", err)
	}

	n, _ := s.items.CountByList(ctx, model.DefaultListID)
	if n != 0 {
		t.Errorf("rejected suggestion produced %d items", n)
	}
}

func TestApproveCategorySuggestion(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	seedUser(t, s, 1, "Alice", false)
	seedUser(t, s, 9, "Root", true)

	sg, err := s.SubmitCategorySuggestion(ctx, 1, "Pet Supplies", "🐕", "Pet supplies", "ציוד לחיות")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sg.CategoryKey != "pet_supplies" {
		t.Errorf("key = %q, want pet_supplies", sg.CategoryKey)
	}

	approved, err := s.Resolve(ctx, 9, sg.ID, true)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != model.SuggestionApproved {
		t.Errorf("status = %q, want approved", approved.Status)
	}
	if approved.ApprovedBy == nil || *approved.ApprovedBy != 9 {
		t.Errorf("approved_by = %v, want 9", approved.ApprovedBy)
	}

	cats, err := s.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	found := false
	for _, c := range cats {
		if c.Key == "pet_supplies" {
			found = true
		}
	}
	if !found {
		t.Error("approved category missing from catalog")
	}
}

func TestApproveDuplicateCategoryStaysPending(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	seedUser(t, s, 1, "Alice", false)
	seedUser(t, s, 9, "Root", true)

	// "dairy" is part of the seeded catalog.
	sg, err := s.SubmitCategorySuggestion(ctx, 1, "dairy", "", "Dairy again", "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := s.Resolve(ctx, 9, sg.ID, true); !errors.Is(err, ErrDuplicateCategory) {
		t.Fatalf("approve duplicate: err = %v, want ErrDuplicateCategory", err)
	}

	// Still pending, so the admin can reject it instead.
	pending, err := s.PendingSuggestions(ctx, 9)
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != sg.ID {
		t.Fatalf("queue = %v, want the duplicate suggestion still pending", pending)
	}
	if _, err := s.Resolve(ctx, 9, sg.ID, false); err != nil {
		t.Errorf("reject after failed approve: %v", err)
	}
}

func TestApproveItemSuggestionMerges(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	seedUser(t, s, 1, "Alice", false)
	seedUser(t, s, 2, "Bob", false)
	seedUser(t, s, 9, "Root", true)

	// Alice already has milk on the list; Bob's suggestion must merge
	// into it rather than duplicate.
	if _, _, err := s.AddItem(ctx, model.DefaultListID, 1, "Milk", "dairy", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	sg, err := s.SubmitItemSuggestion(ctx, 2, model.DefaultListID, "milk", "dairy")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	approved, err := s.Resolve(ctx, 9, sg.ID, true)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != model.SuggestionApproved {
		t.Errorf("status = %q, want approved", approved.Status)
	}

	views, err := s.ListItems(ctx, model.DefaultListID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 item after merge, got %d", len(views))
	}
	// The merge is attributed to the proposer, not the admin.
	if len(views[0].Notes) != 1 || views[0].Notes[0].UserName != "Bob" {
		t.Errorf("notes = %+v, want one record naming Bob", views[0].Notes)
	}
}

func TestApproveItemSuggestionCreates(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	seedUser(t, s, 1, "Alice", false)
	seedUser(t, s, 9, "Root", true)

	sg, err := s.SubmitItemSuggestion(ctx, 1, model.DefaultListID, "Halva", "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := s.Resolve(ctx, 9, sg.ID, true); err != nil {
		t.Fatalf("approve: %v", err)
	}

	views, _ := s.ListItems(ctx, model.DefaultListID)
	if len(views) != 1 || views[0].Name != "Halva" {
		t.Fatalf("views = %+v, want Halva on the list", views)
	}
	if views[0].AddedByName != "Alice" {
		t.Errorf("added_by_name = %q, want the proposer", views[0].AddedByName)
	}
}

func TestSubmitSuggestionValidation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	seedUser(t, s, 1, "Alice", false)

	var ve *ValidationError
	if _, err := s.SubmitItemSuggestion(ctx, 1, model.DefaultListID, "  ", ""); !errors.As(err, &ve) {
		t.Errorf("empty item name: err = %v, want *ValidationError", err)
	}
	if _, err := s.SubmitCategorySuggestion(ctx, 1, "  ", "", "", ""); !errors.As(err, &ve) {
		t.Errorf("empty category key: err = %v, want *ValidationError", err)
	}
}
