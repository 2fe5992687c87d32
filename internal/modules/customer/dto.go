package customer

import "hotelpms/internal/domain"

type UpdateCustomerRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1"`
	Phone         *string `json:"phone" validate:"omitempty,min=3"`
	Email         *string `json:"email" validate:"omitempty,email"`
	IDProofType   *string `json:"id_proof_type"`
	IDProofNumber *string `json:"id_proof_number"`
	Address       *string `json:"address"`
}

type ListQuery struct {
	Search string `form:"search"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

type ListResult struct {
	Customers []domain.Customer `json:"customers"`
	Total     int64             `json:"total"`
}
