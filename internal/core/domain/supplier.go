package domain

import (
	"strings"
	"time"
)

// SupplierStatus represents whether a supplier is currently used
type SupplierStatus string

const (
	SupplierActive   SupplierStatus = "active"
	SupplierInactive SupplierStatus = "inactive"
)

// Supplier represents a supplier record
type Supplier struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	ContactPerson string         `json:"contactPerson"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	Address       string         `json:"address"`
	TaxNumber     string         `json:"taxNumber"`
	Status        SupplierStatus `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// Draft returns the editable part of the supplier
func (s Supplier) Draft() SupplierDraft {
	return SupplierDraft{
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		TaxNumber:     s.TaxNumber,
		Status:        s.Status,
	}
}

// SupplierDraft is a supplier without id and timestamps
type SupplierDraft struct {
	Name          string         `json:"name" validate:"required"`
	ContactPerson string         `json:"contactPerson" validate:"required"`
	Email         string         `json:"email" validate:"required,email"`
	Phone         string         `json:"phone" validate:"required"`
	Address       string         `json:"address"`
	TaxNumber     string         `json:"taxNumber"`
	Status        SupplierStatus `json:"status" validate:"oneof=active inactive"`
}

// Validate trims the draft, defaults the status and checks required fields
func (d *SupplierDraft) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	d.ContactPerson = strings.TrimSpace(d.ContactPerson)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Address = strings.TrimSpace(d.Address)
	d.TaxNumber = strings.TrimSpace(d.TaxNumber)
	if d.Status == "" {
		d.Status = SupplierActive
	}

	return structErrors(d).OrNil()
}

// ToSupplier builds a local record from the draft
func (d SupplierDraft) ToSupplier(id string, now time.Time) Supplier {
	return Supplier{
		ID:            id,
		Name:          d.Name,
		ContactPerson: d.ContactPerson,
		Email:         d.Email,
		Phone:         d.Phone,
		Address:       d.Address,
		TaxNumber:     d.TaxNumber,
		Status:        d.Status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
