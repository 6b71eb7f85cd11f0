package models

import "time"

// Contact is a record owned by exactly one user. UserID is fixed at creation.
type Contact struct {
	ID          int64
	UserID      int64
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	CreatedAt   time.Time
}

// ContactFields are the mutable, client-supplied parts of a Contact.
type ContactFields struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
}

// ContactView is the wire representation of a Contact.
type ContactView struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

func (c *Contact) View() *ContactView {
	return &ContactView{
		ID:          c.ID,
		UserID:      c.UserID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
	}
}

// Apply overwrites the mutable fields.
func (c *Contact) Apply(f ContactFields) {
	c.FirstName = f.FirstName
	c.LastName = f.LastName
	c.Email = f.Email
	c.PhoneNumber = f.PhoneNumber
}
