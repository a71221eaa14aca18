package entity

import "time"

// Customer representa un cliente B2B con su tier comercial.
type Customer struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	CustomerNumber string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName nombre para mostrar en listados y export CSV.
func (c *Customer) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
