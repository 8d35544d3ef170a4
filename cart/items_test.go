package cart

import (
	"testing"
	"time"

	"andariego/apperr"
	"andariego/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

func lineItem(tour string, people int, pricePerPerson float64) models.LineItem {
	return models.LineItem{
		Tour:           tour,
		StartDate:      time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		People:         people,
		PricePerPerson: pricePerPerson,
		Total:          pricePerPerson * float64(people),
	}
}

func TestNormalizeItemsRejectsEmptyBatch(t *testing.T) {
	_, err := NormalizeItems(nil)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNormalizeItemsFailsWholeBatch(t *testing.T) {
	items := []models.LineItem{
		lineItem("tourA", 2, 100),
		lineItem("", 1, 50),
	}
	if _, err := NormalizeItems(items); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for missing tour ref, got %v", err)
	}

	items[1].Tour = "tourB"
	items[1].People = 0
	if _, err := NormalizeItems(items); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for zero people, got %v", err)
	}

	items[1].People = 1
	items[1].StartDate = time.Time{}
	if _, err := NormalizeItems(items); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for missing start date, got %v", err)
	}
}

func TestNormalizeItemsTrimsTourRef(t *testing.T) {
	items := []models.LineItem{lineItem("  tourA  ", 2, 100)}
	normalized, err := NormalizeItems(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if normalized[0].Tour != "tourA" {
		t.Fatalf("expected trimmed ref, got %q", normalized[0].Tour)
	}
}

func TestCartLifecycle(t *testing.T) {
	c := &models.Cart{
		Items:      []models.LineItem{lineItem("tourA", 2, 100)},
		TotalPrice: 200,
	}

	// add a second line the way the append path does
	c.Items = append(c.Items, lineItem("tourB", 1, 50))
	c.TotalPrice = RecomputeTotal(c.Items)
	if c.TotalPrice != 250 {
		t.Fatalf("expected total 250 after append, got %v", c.TotalPrice)
	}

	// growing the party rewrites the line from the snapshotted price
	people := 3
	if err := UpdateItem(c, "tourA", ItemPatch{People: &people}); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if c.Items[0].Total != 300 {
		t.Fatalf("expected line total 300, got %v", c.Items[0].Total)
	}
	if c.TotalPrice != 350 {
		t.Fatalf("expected cart total 350, got %v", c.TotalPrice)
	}

	if err := RemoveItem(c, "tourA"); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	if len(c.Items) != 1 || c.TotalPrice != 50 {
		t.Fatalf("expected one item totalling 50, got %d items / %v", len(c.Items), c.TotalPrice)
	}

	// the same removal again finds nothing
	if err := RemoveItem(c, "tourA"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if len(c.Items) != 1 || c.TotalPrice != 50 {
		t.Fatalf("failed removal must leave the cart untouched")
	}
}

func TestAddItemsUpdateIsAdditive(t *testing.T) {
	items := []models.LineItem{lineItem("tourA", 2, 100), lineItem("tourB", 1, 50)}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	update := addItemsUpdate(items, 250, now)

	// the declared total travels as an increment, so the stored total is
	// always the pre-existing total plus the declared one
	inc := update["$inc"].(bson.M)
	if inc["totalPrice"] != 250.0 {
		t.Fatalf("expected totalPrice increment 250, got %v", inc["totalPrice"])
	}
	if inc["version"] != 1 {
		t.Fatalf("expected version increment, got %v", inc["version"])
	}

	pushed := update["$push"].(bson.M)["items"].(bson.M)["$each"].([]models.LineItem)
	if len(pushed) != 2 || pushed[0].Tour != "tourA" || pushed[1].Tour != "tourB" {
		t.Fatalf("items must be appended, not replaced: %+v", pushed)
	}

	onInsert := update["$setOnInsert"].(bson.M)
	if id, _ := onInsert["cartid"].(string); len(id) != 12 {
		t.Fatalf("new carts need a generated id, got %v", onInsert["cartid"])
	}
	if onInsert["createdAt"] != now {
		t.Fatalf("new carts need a creation time, got %v", onInsert["createdAt"])
	}
	// userId and isOrdered come from the filter; duplicating them here makes
	// the upsert fail with a path conflict
	if _, ok := onInsert["userId"]; ok {
		t.Fatal("userId must not appear in $setOnInsert")
	}
	if _, ok := onInsert["isOrdered"]; ok {
		t.Fatal("isOrdered must not appear in $setOnInsert")
	}

	if update["$set"].(bson.M)["updatedAt"] != now {
		t.Fatalf("updatedAt must be set on every append")
	}
}

func TestRemoveItemDropsAllMatchingLines(t *testing.T) {
	c := &models.Cart{
		Items: []models.LineItem{
			lineItem("tourA", 2, 100),
			lineItem("tourB", 1, 50),
			lineItem("tourA", 1, 100),
		},
	}
	c.TotalPrice = RecomputeTotal(c.Items)

	if err := RemoveItem(c, "tourA"); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	if len(c.Items) != 1 || c.Items[0].Tour != "tourB" {
		t.Fatalf("expected only tourB to remain, got %+v", c.Items)
	}
	if c.TotalPrice != 50 {
		t.Fatalf("expected total 50, got %v", c.TotalPrice)
	}
}

func TestUpdateItemValidation(t *testing.T) {
	c := &models.Cart{Items: []models.LineItem{lineItem("tourA", 2, 100)}}
	c.TotalPrice = RecomputeTotal(c.Items)

	people := 0
	if err := UpdateItem(c, "tourA", ItemPatch{People: &people}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for zero people, got %v", err)
	}
	if c.Items[0].People != 2 || c.TotalPrice != 200 {
		t.Fatalf("failed patch must leave the cart untouched")
	}

	if err := UpdateItem(c, "tourZ", ItemPatch{}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not-found error for absent tour, got %v", err)
	}
}

func TestUpdateItemPatchesDateAndNotes(t *testing.T) {
	c := &models.Cart{Items: []models.LineItem{lineItem("tourA", 2, 100)}}
	c.TotalPrice = RecomputeTotal(c.Items)

	newDate := time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)
	notes := "window seats please"
	if err := UpdateItem(c, "tourA", ItemPatch{StartDate: &newDate, Notes: &notes}); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if !c.Items[0].StartDate.Equal(newDate) || c.Items[0].Notes != notes {
		t.Fatalf("patch not applied: %+v", c.Items[0])
	}
	if c.TotalPrice != 200 {
		t.Fatalf("date/notes patch must not change the total, got %v", c.TotalPrice)
	}
}
