package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/narendraputra/weddecor-backend/pkg/db/models"
	pkgerrors "github.com/narendraputra/weddecor-backend/pkg/errors"
)

type stubRepo struct {
	decorations []models.Decoration
	lastIDs     []uuid.UUID
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Decoration, error) {
	for i := range s.decorations {
		if s.decorations[i].ID == id {
			return &s.decorations[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Decoration, error) {
	s.lastIDs = ids
	var out []models.Decoration
	for _, decoration := range s.decorations {
		for _, id := range ids {
			if decoration.ID == id {
				out = append(out, decoration)
			}
		}
	}
	return out, nil
}

func TestLoadDeduplicatesIDs(t *testing.T) {
	id := uuid.New()
	repo := &stubRepo{decorations: []models.Decoration{{ID: id, Name: "Rustic Garden Package", IsActive: true}}}
	ldr, err := NewLoader(repo)
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}

	byID, err := ldr.Load(context.Background(), []uuid.UUID{id, id, id})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.lastIDs) != 1 {
		t.Fatalf("expected deduplicated lookup, queried %d ids", len(repo.lastIDs))
	}
	if byID[id].Name != "Rustic Garden Package" {
		t.Fatalf("unexpected decoration %+v", byID[id])
	}
}

func TestLoadReportsMissingAndInactive(t *testing.T) {
	active := uuid.New()
	inactive := uuid.New()
	missing := uuid.New()
	repo := &stubRepo{decorations: []models.Decoration{
		{ID: active, IsActive: true},
		{ID: inactive, IsActive: false},
	}}
	ldr, err := NewLoader(repo)
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}

	_, err = ldr.Load(context.Background(), []uuid.UUID{active, inactive, missing})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected app error, got %T", err)
	}
	details, ok := appErr.Details().(map[string]any)
	if !ok || details["missing"] == nil || details["inactive"] == nil {
		t.Fatalf("expected missing and inactive details, got %v", appErr.Details())
	}
}
