package customer

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"hotelpms/internal/domain"
	"hotelpms/internal/pkg/validator"
	"hotelpms/internal/repository"
)

type Service struct {
	customers *repository.CustomerRepository
}

func NewService(db *gorm.DB) *Service {
	return &Service{customers: repository.NewCustomerRepository(db)}
}

func (s *Service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	customers, total, err := s.customers.Search(ctx, q.Search, repository.Page{Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return nil, err
	}
	return &ListResult{Customers: customers, Total: total}, nil
}

// Get returns the customer with their booking history.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id, true)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*domain.Customer, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	c, err := s.customers.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&c.Name, req.Name)
	set(&c.Phone, req.Phone)
	set(&c.Email, req.Email)
	set(&c.IDProofType, req.IDProofType)
	set(&c.IDProofNumber, req.IDProofNumber)
	set(&c.Address, req.Address)

	if c.Name == "" || c.Phone == "" {
		return nil, domain.Invalid("customer name and phone are required")
	}
	if err := s.customers.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return c, nil
}
