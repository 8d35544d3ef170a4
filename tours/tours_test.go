package tours

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestEditTourErrorMapping(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	if code, msg := editTourError(dup); code != http.StatusBadRequest || msg != "Slug already in use" {
		t.Fatalf("duplicate slug must map to 400, got %d %q", code, msg)
	}

	if code, msg := editTourError(mongo.ErrNoDocuments); code != http.StatusNotFound || msg != "Tour not found" {
		t.Fatalf("missing tour must map to 404, got %d %q", code, msg)
	}

	if code, _ := editTourError(errors.New("connection reset")); code != http.StatusInternalServerError {
		t.Fatalf("unknown failures must map to 500, got %d", code)
	}
}
