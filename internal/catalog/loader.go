package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/narendraputra/weddecor-backend/pkg/db/models"
	pkgerrors "github.com/narendraputra/weddecor-backend/pkg/errors"
)

// Loader resolves decoration snapshots for cart and checkout. Inactive or
// missing decorations are reported per id so the caller can name them.
type Loader interface {
	Load(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Decoration, error)
}

type loader struct {
	repo Repository
}

func NewLoader(repo Repository) (Loader, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &loader{repo: repo}, nil
}

func (l *loader) Load(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Decoration, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	decorations, err := l.repo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load decorations")
	}

	byID := make(map[uuid.UUID]models.Decoration, len(decorations))
	for _, decoration := range decorations {
		byID[decoration.ID] = decoration
	}

	var missing, inactive []string
	for _, id := range unique {
		decoration, ok := byID[id]
		if !ok {
			missing = append(missing, id.String())
			continue
		}
		if !decoration.IsActive {
			inactive = append(inactive, id.String())
		}
	}
	if len(missing) > 0 || len(inactive) > 0 {
		details := map[string]any{}
		if len(missing) > 0 {
			details["missing"] = missing
		}
		if len(inactive) > 0 {
			details["inactive"] = inactive
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "some decorations are no longer available").
			WithDetails(details)
	}
	return byID, nil
}
