package models

import "time"

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           int64
	Name         string
	Email        string
	PhoneNumber  string
	PasswordHash string
	CreatedAt    time.Time
}

// UserView is the public projection of a User.
type UserView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// View strips the password hash.
func (u *User) View() *UserView {
	return &UserView{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}
}
