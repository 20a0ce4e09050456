package models

import "time"

// User represents a user account in the system.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Username     string    `json:"username,omitempty"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
}

// Principal is the identity of an authenticated caller.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Principal strips the user down to its public identity.
func (u User) Principal() Principal {
	return Principal{ID: u.ID, Name: u.Name, Email: u.Email}
}
