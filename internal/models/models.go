package models

import "time"

const (
	RoleUser  = "user"
	RoleStaff = "staff"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	Email        string `gorm:"not null"                 json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"-"`
}

func (u *User) IsStaff() bool { return u.Role == RoleStaff }

// RevokedToken rows are insert-only; the janitor drops rows older than
// the refresh lifetime, after which no live token can carry that jti.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey"       json:"id"`
	JTI       string    `gorm:"uniqueIndex;not null" json:"jti"`
	RevokedAt time.Time `gorm:"not null;index"   json:"revoked_at"`
}
