package store

import (
	"context"
	"testing"

	"github.com/avivm/shoplist/internal/database"
	"github.com/avivm/shoplist/internal/model"
)

func TestSuggestionCreateAndListPending(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSuggestionStore(db)
	us := NewUserStore(db)
	ctx := context.Background()

	mustUser(t, us, 1, "Alice")

	sg, err := ss.Create(ctx, &model.Suggestion{
		Kind:         model.SuggestionKindItem,
		SuggestedBy:  1,
		ItemName:     "Halva",
		ItemCategory: "snacks",
	})
	if err != nil {
		t.Fatalf("create suggestion: %v", err)
	}
	if sg.Status != model.SuggestionPending {
		t.Errorf("status = %q, want %q", sg.Status, model.SuggestionPending)
	}
	if sg.ItemName != "Halva" {
		t.Errorf("item_name = %q, want Halva", sg.ItemName)
	}

	pending, err := ss.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != sg.ID {
		t.Fatalf("pending = %v, want the one suggestion", pending)
	}
}

func TestSuggestionMarkResolvedOnce(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSuggestionStore(db)
	us := NewUserStore(db)
	ctx := context.Background()

	mustUser(t, us, 1, "Alice")
	mustUser(t, us, 2, "Admin")

	sg, err := ss.Create(ctx, &model.Suggestion{
		Kind:        model.SuggestionKindItem,
		SuggestedBy: 1,
		ItemName:    "Tahini",
	})
	if err != nil {
		t.Fatalf("create suggestion: %v", err)
	}

	ok, err := ss.MarkResolved(ctx, sg.ID, model.SuggestionRejected, 2)
	if err != nil {
		t.Fatalf("mark resolved: %v", err)
	}
	if !ok {
		t.Fatal("first resolve should win")
	}

	// Second resolve loses the conditional update.
	ok, err = ss.MarkResolved(ctx, sg.ID, model.SuggestionApproved, 2)
	if err != nil {
		t.Fatalf("re-resolve: %v", err)
	}
	if ok {
		t.Error("second resolve should not update")
	}

	got, _ := ss.GetByID(ctx, sg.ID)
	if got.Status != model.SuggestionRejected {
		t.Errorf("status = %q, want %q", got.Status, model.SuggestionRejected)
	}
	if got.ApprovedBy == nil || *got.ApprovedBy != 2 {
		t.Errorf("approved_by = %v, want 2", got.ApprovedBy)
	}
	if got.ResolvedAt == nil {
		t.Error("resolved_at should be stamped")
	}
}

func TestApproveItemCreatesAndMerges(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSuggestionStore(db)
	is := NewItemStore(db)
	us := NewUserStore(db)
	ctx := context.Background()

	mustUser(t, us, 1, "Alice")
	mustUser(t, us, 2, "Bob")
	mustUser(t, us, 9, "Admin")
	listID := model.DefaultListID

	sg, err := ss.Create(ctx, &model.Suggestion{
		Kind: model.SuggestionKindItem, SuggestedBy: 1, ListID: &listID, ItemName: "Milk",
	})
	if err != nil {
		t.Fatalf("create suggestion: %v", err)
	}

	created, resolved, err := ss.ApproveItem(ctx, sg, 9, listID, "Milk", "milk", "dairy")
	if err != nil {
		t.Fatalf("approve item: %v", err)
	}
	if !created || !resolved {
		t.Fatalf("created=%v resolved=%v, want both true", created, resolved)
	}

	item, err := is.GetByKey(ctx, listID, "dairy", "milk")
	if err != nil || item == nil {
		t.Fatalf("item after approve = %v, %v", item, err)
	}
	if item.AddedBy == nil || *item.AddedBy != 1 {
		t.Errorf("added_by = %v, want the proposer", item.AddedBy)
	}

	// A second proposer's approval merges and records them once.
	sg2, err := ss.Create(ctx, &model.Suggestion{
		Kind: model.SuggestionKindItem, SuggestedBy: 2, ListID: &listID, ItemName: "milk",
	})
	if err != nil {
		t.Fatalf("create suggestion: %v", err)
	}
	created, resolved, err = ss.ApproveItem(ctx, sg2, 9, listID, "milk", "milk", "dairy")
	if err != nil {
		t.Fatalf("approve item: %v", err)
	}
	if created || !resolved {
		t.Fatalf("created=%v resolved=%v, want merged and resolved", created, resolved)
	}
	notes, _ := is.NotesForItem(ctx, item.ID)
	if len(notes) != 1 || notes[0].UserID == nil || *notes[0].UserID != 2 {
		t.Fatalf("notes = %+v, want one contributor record for Bob", notes)
	}
}

func TestApproveItemAfterRejectAddsNothing(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSuggestionStore(db)
	is := NewItemStore(db)
	us := NewUserStore(db)
	ctx := context.Background()

	mustUser(t, us, 1, "Alice")
	mustUser(t, us, 9, "Admin")
	listID := model.DefaultListID

	sg, err := ss.Create(ctx, &model.Suggestion{
		Kind: model.SuggestionKindItem, SuggestedBy: 1, ListID: &listID, ItemName: "Milk",
	})
	if err != nil {
		t.Fatalf("create suggestion: %v", err)
	}

	// A competing reject wins the stamp first.
	if _, err := ss.MarkResolved(ctx, sg.ID, model.SuggestionRejected, 9); err != nil {
		t.Fatalf("reject: %v", err)
	}

	created, resolved, err := ss.ApproveItem(ctx, sg, 9, listID, "Milk", "milk", "dairy")
	if err != nil {
		t.Fatalf("approve after reject: %v", err)
	}
	if created || resolved {
		t.Fatalf("created=%v resolved=%v, want neither", created, resolved)
	}

	// The rejected suggestion must not have left an item behind.
	n, err := is.CountByList(ctx, listID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("rejected suggestion left %d item(s) on the list", n)
	}
	got, _ := ss.GetByID(ctx, sg.ID)
	if got.Status != model.SuggestionRejected {
		t.Errorf("status = %q, want rejected", got.Status)
	}
}

func TestApproveCategoryMaterializes(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSuggestionStore(db)
	cs := NewCategoryStore(db)
	us := NewUserStore(db)
	ctx := context.Background()

	mustUser(t, us, 1, "Alice")
	mustUser(t, us, 2, "Admin")

	sg, err := ss.Create(ctx, &model.Suggestion{
		Kind:          model.SuggestionKindCategory,
		SuggestedBy:   1,
		CategoryKey:   "pet_food",
		CategoryEmoji: "🐕",
		NameEN:        "Pet food",
		NameHE:        "אוכל לחיות",
	})
	if err != nil {
		t.Fatalf("create suggestion: %v", err)
	}

	cat, resolved, err := ss.ApproveCategory(ctx, sg, 2)
	if err != nil {
		t.Fatalf("approve category: %v", err)
	}
	if !resolved {
		t.Fatal("expected resolved = true")
	}
	if cat.Key != "pet_food" || cat.NameHE != "אוכל לחיות" {
		t.Errorf("category = %+v", cat)
	}

	got, _ := cs.GetByKey(ctx, "pet_food")
	if got == nil {
		t.Fatal("category should be queryable after approval")
	}
}

func TestApproveCategoryDuplicateKeyRollsBack(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSuggestionStore(db)
	us := NewUserStore(db)
	ctx := context.Background()

	mustUser(t, us, 1, "Alice")
	mustUser(t, us, 2, "Admin")

	// "dairy" is seeded; approving a suggestion for it must fail.
	sg, err := ss.Create(ctx, &model.Suggestion{
		Kind:        model.SuggestionKindCategory,
		SuggestedBy: 1,
		CategoryKey: "dairy",
		NameEN:      "Dairy again",
	})
	if err != nil {
		t.Fatalf("create suggestion: %v", err)
	}

	_, _, err = ss.ApproveCategory(ctx, sg, 2)
	if err == nil {
		t.Fatal("expected unique violation for seeded key")
	}
	if !database.IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation = false for %v", err)
	}

	// The rollback must leave the suggestion pending for a retry with a
	// different key.
	got, _ := ss.GetByID(ctx, sg.ID)
	if got.Status != model.SuggestionPending {
		t.Errorf("status = %q, want pending after rollback", got.Status)
	}
}

func TestApproveCategoryAlreadyResolved(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSuggestionStore(db)
	us := NewUserStore(db)
	ctx := context.Background()

	mustUser(t, us, 1, "Alice")
	mustUser(t, us, 2, "Admin")

	sg, err := ss.Create(ctx, &model.Suggestion{
		Kind:        model.SuggestionKindCategory,
		SuggestedBy: 1,
		CategoryKey: "spices",
		NameEN:      "Spices",
	})
	if err != nil {
		t.Fatalf("create suggestion: %v", err)
	}

	if _, err := ss.MarkResolved(ctx, sg.ID, model.SuggestionRejected, 2); err != nil {
		t.Fatalf("reject: %v", err)
	}

	_, resolved, err := ss.ApproveCategory(ctx, sg, 2)
	if err != nil {
		t.Fatalf("approve after reject: %v", err)
	}
	if resolved {
		t.Error("expected resolved = false for a rejected suggestion")
	}
}
