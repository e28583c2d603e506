package domain

import "time"

// User is an account that can own and collaborate on plant lists.
type User struct {
	Aggregate
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	LastLoginAt  time.Time `json:"last_login_at"`
}

// FullName returns the user's full name, composed from first and last names.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Name returns the best available name to display for the user.
// Prefers FullName, then email.
func (u *User) Name() string {
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Email
}
