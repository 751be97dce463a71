package models

import (
	"errors"
	"time"

	"billing-backend/calculator"
)

const (
	PartyCustomer = "customer"
	PartySupplier = "supplier"
)

var ErrPartyKindMismatch = errors.New("party kind does not match invoice kind")

// Party is a customer or a supplier.
type Party struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Kind         string    `json:"kind" gorm:"size:16;not null;index"`
	Name         string    `json:"name" gorm:"not null"`
	ContactName  string    `json:"contact_name"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	MobileNumber string    `json:"mobile_number"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Country      string    `json:"country"`
	Zip          string    `json:"zip"`
	GSTIN        string    `json:"gstin" gorm:"size:15"`
	Active       bool      `json:"active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PartyKindFor is the party kind a document of variant v is issued to.
func PartyKindFor(v calculator.Variant) string {
	switch v {
	case calculator.Purchase, calculator.PurchaseReturn:
		return PartySupplier
	default:
		return PartyCustomer
	}
}
