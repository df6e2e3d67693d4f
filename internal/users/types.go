package users

import "time"

// User is a Sagarr account. TautulliUserID links the account to its
// watch history identity; recommendations cannot be generated until an
// admin sets the mapping.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	Thumb          string    `json:"thumb,omitempty"`
	IsAdmin        bool      `json:"isAdmin"`
	PlexID         *int64    `json:"plexId,omitempty"`
	TautulliUserID *int64    `json:"tautulliUserId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`

	passwordHash string
}

// PasswordHash returns the stored bcrypt hash. Not serialized.
func (u *User) PasswordHash() string {
	return u.passwordHash
}

// CreateInput contains fields for creating a user.
type CreateInput struct {
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	PlexID       *int64
}

// Settings is the per-user settings blob stored as JSON.
type Settings struct {
	DateCutoff string `json:"dateCutoff,omitempty"`
}
