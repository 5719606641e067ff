package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/narendraputra/weddecor-backend/pkg/db/models"
)

// Repository reads the decoration catalog. Catalog writes happen in another
// system; this side only snapshots prices into carts and orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Decoration, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Decoration, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Decoration, error) {
	var decoration models.Decoration
	if err := r.db.WithContext(ctx).First(&decoration, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &decoration, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Decoration, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var decorations []models.Decoration
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&decorations).Error; err != nil {
		return nil, err
	}
	return decorations, nil
}
