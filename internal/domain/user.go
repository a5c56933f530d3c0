package domain

import "time"

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // bcrypt hash
	CreatedAt time.Time `json:"createdAt"`
}

type NewUser struct {
	Username string
	Password string
}

// Build assigns identity and creation time.
func (n NewUser) Build(id string, now time.Time) User {
	return User{ID: id, Username: n.Username, Password: n.Password, CreatedAt: now}
}
