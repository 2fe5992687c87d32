package repository

import (
	"context"

	"gorm.io/gorm"

	"hotelpms/internal/domain"
)

type FoodRepository struct {
	db *gorm.DB
}

func NewFoodRepository(db *gorm.DB) *FoodRepository {
	return &FoodRepository{db: db}
}

func (r *FoodRepository) WithTx(tx *gorm.DB) *FoodRepository {
	return &FoodRepository{db: tx}
}

var foodOrderState = []string{"status", "total_amount", "amount_paid", "amount_due", "payment_status", "notes"}

func (r *FoodRepository) CreateMenuItem(ctx context.Context, m *domain.MenuItem) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *FoodRepository) UpdateMenuItem(ctx context.Context, m *domain.MenuItem) error {
	return r.db.WithContext(ctx).Model(m).
		Select("name", "category", "price", "is_available").
		Updates(m).Error
}

func (r *FoodRepository) GetMenuItem(ctx context.Context, id int64) (*domain.MenuItem, error) {
	var m domain.MenuItem
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, mapNotFound(err, "menu item", id)
	}
	return &m, nil
}

func (r *FoodRepository) MenuItemsByID(ctx context.Context, ids []int64) (map[int64]domain.MenuItem, error) {
	out := make(map[int64]domain.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var items []domain.MenuItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, m := range items {
		out[m.ID] = m
	}
	return out, nil
}

func (r *FoodRepository) ListMenu(ctx context.Context, onlyAvailable bool) ([]domain.MenuItem, error) {
	q := r.db.WithContext(ctx).Model(&domain.MenuItem{})
	if onlyAvailable {
		q = q.Where("is_available = ?", true)
	}
	var out []domain.MenuItem
	err := q.Order("category, name").Find(&out).Error
	return out, err
}

func (r *FoodRepository) CreateOrder(ctx context.Context, o *domain.FoodOrder) error {
	return r.db.WithContext(ctx).Omit("KOTs").Create(o).Error
}

func (r *FoodRepository) GetOrder(ctx context.Context, id int64) (*domain.FoodOrder, error) {
	var o domain.FoodOrder
	err := r.db.WithContext(ctx).
		Preload("Items", orderByID).
		Preload("KOTs", func(db *gorm.DB) *gorm.DB { return db.Order("kot_number") }).
		First(&o, id).Error
	if err != nil {
		return nil, mapNotFound(err, "food order", id)
	}
	return &o, nil
}

func (r *FoodRepository) GetOrderForUpdate(ctx context.Context, id int64) (*domain.FoodOrder, error) {
	var o domain.FoodOrder
	err := forUpdate(r.db.WithContext(ctx)).
		Preload("Items", orderByID).
		First(&o, id).Error
	if err != nil {
		return nil, mapNotFound(err, "food order", id)
	}
	return &o, nil
}

func (r *FoodRepository) SaveOrderState(ctx context.Context, o *domain.FoodOrder) error {
	return r.db.WithContext(ctx).Model(o).Select(foodOrderState).Updates(o).Error
}

func (r *FoodRepository) ListOrders(ctx context.Context, bookingID int64) ([]domain.FoodOrder, error) {
	q := r.db.WithContext(ctx).Preload("Items", orderByID)
	if bookingID != 0 {
		q = q.Where("booking_id = ?", bookingID)
	}
	var out []domain.FoodOrder
	err := q.Order("id DESC").Find(&out).Error
	return out, err
}

func (r *FoodRepository) InsertItems(ctx context.Context, items []domain.FoodOrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *FoodRepository) UpdateItem(ctx context.Context, item *domain.FoodOrderItem) error {
	return r.db.WithContext(ctx).Model(item).Select("quantity", "line_total").Updates(item).Error
}

func (r *FoodRepository) DeleteItems(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&domain.FoodOrderItem{}, ids).Error
}

// NextKOTNumber is one past the highest ticket number of the order.
func (r *FoodRepository) NextKOTNumber(ctx context.Context, orderID int64) (int, error) {
	var last int
	err := r.db.WithContext(ctx).Model(&domain.KOTHistory{}).
		Where("food_order_id = ?", orderID).
		Select("COALESCE(MAX(kot_number), 0)").
		Scan(&last).Error
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

func (r *FoodRepository) AppendKOT(ctx context.Context, k *domain.KOTHistory) error {
	return r.db.WithContext(ctx).Create(k).Error
}

func (r *FoodRepository) ListKOT(ctx context.Context, orderID int64) ([]domain.KOTHistory, error) {
	var out []domain.KOTHistory
	err := r.db.WithContext(ctx).Where("food_order_id = ?", orderID).Order("kot_number").Find(&out).Error
	return out, err
}
