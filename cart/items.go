package cart

import (
	"time"

	"andariego/apperr"
	"andariego/models"
	"andariego/utils"

	"github.com/pkg/errors"
)

// The functions here are the cart mutation core. They work on in-memory
// values only; the handlers wrap them in atomic or version-checked writes.

// RecomputeTotal sums the line totals. Cart-level aggregates are always
// derived from this, never taken from the client, on every path except the
// additive AddItems append.
func RecomputeTotal(items []models.LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Total
	}
	return total
}

// NormalizeItems coerces references and checks every field constraint. A
// malformed item fails the whole batch.
func NormalizeItems(items []models.LineItem) ([]models.LineItem, error) {
	if len(items) == 0 {
		return nil, errors.Wrap(apperr.ErrValidation, "cart cannot be empty")
	}
	normalized := make([]models.LineItem, 0, len(items))
	for _, item := range items {
		item.Tour = utils.NormalizeRef(item.Tour)
		if item.Tour == "" {
			return nil, errors.Wrap(apperr.ErrValidation, "item is missing its tour reference")
		}
		if item.StartDate.IsZero() {
			return nil, errors.Wrap(apperr.ErrValidation, "item is missing its start date")
		}
		if item.People < 1 {
			return nil, errors.Wrap(apperr.ErrValidation, "people must be at least 1")
		}
		if item.Total < 0 {
			return nil, errors.Wrap(apperr.ErrValidation, "item total cannot be negative")
		}
		normalized = append(normalized, item)
	}
	return normalized, nil
}

// RemoveItem drops every line matching tourID and recomputes the total. The
// cart is left untouched when nothing matched.
func RemoveItem(c *models.Cart, tourID string) error {
	kept := make([]models.LineItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.Tour != tourID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(c.Items) {
		return errors.Wrapf(apperr.ErrNotFound, "tour %s is not in the cart", tourID)
	}
	c.Items = kept
	c.TotalPrice = RecomputeTotal(c.Items)
	return nil
}

// ItemPatch carries the optional per-item updates. A set People rewrites the
// line total from the snapshotted price per person.
type ItemPatch struct {
	People    *int       `json:"people"`
	StartDate *time.Time `json:"startDate"`
	Notes     *string    `json:"notes"`
}

// UpdateItem patches the single line matching tourID in place and recomputes
// the cart total from all lines.
func UpdateItem(c *models.Cart, tourID string, patch ItemPatch) error {
	idx := -1
	for i := range c.Items {
		if c.Items[i].Tour == tourID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return errors.Wrapf(apperr.ErrNotFound, "tour %s is not in the cart", tourID)
	}

	item := &c.Items[idx]
	if patch.People != nil {
		if *patch.People < 1 {
			return errors.Wrap(apperr.ErrValidation, "people must be at least 1")
		}
		item.People = *patch.People
		item.Total = item.PricePerPerson * float64(*patch.People)
	}
	if patch.StartDate != nil {
		if patch.StartDate.IsZero() {
			return errors.Wrap(apperr.ErrValidation, "start date cannot be empty")
		}
		item.StartDate = *patch.StartDate
	}
	if patch.Notes != nil {
		item.Notes = *patch.Notes
	}

	c.TotalPrice = RecomputeTotal(c.Items)
	return nil
}
