package model

import "github.com/google/uuid"

type Customer struct {
	Base
	Name    string `gorm:"size:255;not null" json:"name"`
	Street  string `gorm:"size:255" json:"street"`
	Street2 string `gorm:"size:255" json:"street2"`
	City    string `gorm:"size:128" json:"city"`
	Zip     string `gorm:"size:32" json:"zip"`
	State   string `gorm:"size:128" json:"state"`
	Country string `gorm:"size:128" json:"country"`
	Phone   string `gorm:"size:64" json:"phone"`
	Email   string `gorm:"size:255" json:"email"`
}

func (Customer) TableName() string {
	return "customers"
}

// CustomerSnapshot is a copy of the customer's contact data taken at write
// time. Later edits to the customer do not flow into stored snapshots.
type CustomerSnapshot struct {
	CustomerID *uuid.UUID `gorm:"column:id;type:uuid" json:"customer_id"`
	Name       string     `gorm:"size:255" json:"name"`
	Street     string     `gorm:"size:255" json:"street"`
	Street2    string     `gorm:"size:255" json:"street2"`
	City       string     `gorm:"size:128" json:"city"`
	Zip        string     `gorm:"size:32" json:"zip"`
	State      string     `gorm:"size:128" json:"state"`
	Country    string     `gorm:"size:128" json:"country"`
	Phone      string     `gorm:"size:64" json:"phone"`
	Email      string     `gorm:"size:255" json:"email"`
}

func (c Customer) Snapshot() CustomerSnapshot {
	id := c.ID
	return CustomerSnapshot{
		CustomerID: &id,
		Name:       c.Name,
		Street:     c.Street,
		Street2:    c.Street2,
		City:       c.City,
		Zip:        c.Zip,
		State:      c.State,
		Country:    c.Country,
		Phone:      c.Phone,
		Email:      c.Email,
	}
}

// ApplySnapshot writes the address and contact part of s back onto the
// customer. The name is left untouched.
func (c *Customer) ApplySnapshot(s CustomerSnapshot) {
	c.Street = s.Street
	c.Street2 = s.Street2
	c.City = s.City
	c.Zip = s.Zip
	c.State = s.State
	c.Country = s.Country
	c.Phone = s.Phone
	c.Email = s.Email
}
