package domain

import "time"

type Customer struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"size:255;not null"`
	Phone         string    `json:"phone" gorm:"size:32;index;not null"`
	Email         string    `json:"email,omitempty" gorm:"size:255"`
	IDProofType   string    `json:"id_proof_type,omitempty" gorm:"size:64"`
	IDProofNumber string    `json:"id_proof_number,omitempty" gorm:"size:128"`
	Address       string    `json:"address,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:CustomerID"`
}
