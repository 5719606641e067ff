package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/narendraputra/weddecor-backend/pkg/db/models"
	"github.com/narendraputra/weddecor-backend/pkg/enums"
	"github.com/narendraputra/weddecor-backend/pkg/pagination"
)

// Repository defines persistence operations for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	FindByNumberForUpdate(ctx context.Context, orderNumber string) (*models.Order, error)
	FindByIDForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	Update(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	Statistics(ctx context.Context) (*Statistics, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByNumberForUpdate locks the order row for the rest of the transaction.
// The lock clause is Postgres-only; the sqlite used in tests serializes
// writers on its own.
func (r *repository) FindByNumberForUpdate(ctx context.Context, orderNumber string) (*models.Order, error) {
	q := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var order models.Order
	if err := q.Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByIDForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	return r.page(ctx, q, params)
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	q := r.db.WithContext(ctx)
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.PaymentType != nil {
		q = q.Where("payment_type = ?", *filters.PaymentType)
	}
	if filters.DateFrom != nil {
		q = q.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		q = q.Where("created_at <= ?", *filters.DateTo)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		q = q.Where("order_number LIKE ? OR email LIKE ?", like, like)
	}
	return r.page(ctx, q, params)
}

func (r *repository) page(ctx context.Context, q *gorm.DB, params pagination.Params) (*OrderList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Order
	err = q.Preload("Items").
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &OrderList{Orders: rows}
	if len(rows) > limit {
		list.Orders = rows[:limit]
		last := list.Orders[limit-1]
		list.NextCursor = pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		}.Encode()
	}
	return list, nil
}

func (r *repository) Update(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) Statistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{}

	type statusCount struct {
		Status enums.OrderStatus
		Count  int64
	}
	var counts []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, row := range counts {
		stats.TotalOrders += row.Count
		switch row.Status {
		case enums.OrderStatusPending:
			stats.PendingOrders = row.Count
		case enums.OrderStatusDPPaid:
			stats.DPPaidOrders = row.Count
		case enums.OrderStatusPaid:
			stats.PaidOrders = row.Count
		case enums.OrderStatusCompleted:
			stats.CompletedOrders = row.Count
		case enums.OrderStatusCancelled:
			stats.CancelledOrders = row.Count
		case enums.OrderStatusFailed:
			stats.FailedOrders = row.Count
		}
	}

	var settled struct{ Total int64 }
	err = r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total_idr), 0) AS total").
		Where("status IN ?", []enums.OrderStatus{enums.OrderStatusPaid, enums.OrderStatusCompleted}).
		Scan(&settled).Error
	if err != nil {
		return nil, err
	}

	var dp struct {
		Paid        int64
		Outstanding int64
	}
	err = r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(dp_amount_idr), 0) AS paid, COALESCE(SUM(remaining_amount_idr), 0) AS outstanding").
		Where("status = ?", enums.OrderStatusDPPaid).
		Scan(&dp).Error
	if err != nil {
		return nil, err
	}

	stats.RevenueIDR = settled.Total + dp.Paid
	stats.OutstandingIDR = dp.Outstanding
	return stats, nil
}
