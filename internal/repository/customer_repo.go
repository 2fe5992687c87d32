package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"hotelpms/internal/domain"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) WithTx(tx *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: tx}
}

// FindByPhone returns nil, nil when nobody has the phone.
func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.WithContext(ctx).Where("phone = ?", strings.TrimSpace(phone)).Order("id").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CustomerRepository) Update(ctx context.Context, c *domain.Customer) error {
	return r.db.WithContext(ctx).Model(c).
		Select("name", "phone", "email", "id_proof_type", "id_proof_number", "address").
		Updates(c).Error
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64, withBookings bool) (*domain.Customer, error) {
	q := r.db.WithContext(ctx)
	if withBookings {
		q = q.Preload("Bookings", func(db *gorm.DB) *gorm.DB {
			return db.Order("checkin_date DESC")
		})
	}
	var c domain.Customer
	if err := q.First(&c, id).Error; err != nil {
		return nil, mapNotFound(err, "customer", id)
	}
	return &c, nil
}

// Search matches name or phone substrings, newest first.
func (r *CustomerRepository) Search(ctx context.Context, term string, page Page) ([]domain.Customer, int64, error) {
	page = page.normalize()
	q := r.db.WithContext(ctx).Model(&domain.Customer{})
	if term = strings.TrimSpace(term); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Customer
	err := q.Order("id DESC").Limit(page.Limit).Offset(page.Offset).Find(&out).Error
	return out, total, err
}
