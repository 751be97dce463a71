package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is the business profile printed as the seller on documents.
type Company struct {
	Id          string `json:"id" gorm:"primaryKey"`
	CompanyName string `json:"company_name" gorm:"not null"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Zip         string `json:"zip"`
	Homepage    string `json:"homepage"`
	GSTIN       string `json:"gstin" gorm:"size:15"`
	PhoneNumber string `json:"phone_number"`
	UserId      string `json:"-" gorm:"uniqueIndex"`
	User        User   `json:"user" gorm:"foreignKey:UserId;references:Id"`
}

func (company *Company) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if company.Id == "" {
		company.Id = uuid.NewString()
	}
	return
}
