package credentials

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persisted identity record. PasswordHash always holds a bcrypt
// digest, never cleartext, and is excluded from JSON output.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FirstName     string     `bun:"first_name,notnull" json:"firstname,omitempty"`
	LastName      string     `bun:"last_name,notnull" json:"lastname,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	CountryCode   string     `bun:"country_code" json:"country_code,omitempty"`
	MobileNumber  string     `bun:"mobile_number" json:"mobile_number,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// PublicUser is the outward projection of a User. It carries every identity
// attribute except the password hash.
type PublicUser struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"firstname"`
	LastName     string    `json:"lastname"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	CountryCode  string    `json:"country_code"`
	MobileNumber string    `json:"mobile_number"`
}

// Public returns the user's outward projection.
func (u *User) Public() PublicUser {
	if u == nil {
		return PublicUser{}
	}
	return PublicUser{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Username:     u.Username,
		Email:        u.Email,
		CountryCode:  u.CountryCode,
		MobileNumber: u.MobileNumber,
	}
}
