package domain

import "github.com/google/uuid"

type User struct {
	ID             uuid.UUID
	Username       string
	Mail           string
	PasswordHash   string
	IsEmailVisible bool
}

// PublicUser is the outward projection of a user. The password hash is
// never included and the mail is blanked unless the user opted in.
type PublicUser struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Mail           string    `json:"mail"`
	IsEmailVisible bool      `json:"isEmailVisible"`
}

func (u User) Public() PublicUser {
	p := PublicUser{
		ID:             u.ID,
		Username:       u.Username,
		IsEmailVisible: u.IsEmailVisible,
	}
	if u.IsEmailVisible {
		p.Mail = u.Mail
	}
	return p
}
