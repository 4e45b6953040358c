package user

import (
	"time"

	"gorm.io/gorm"
)

// Roles recognized by the federation platform. A user can hold several,
// e.g. a state delegate who is also a registered player.
const (
	RolePlayer = "player"
	RoleAdmin  = "admin"
	RoleState  = "state"
	RoleClub   = "club"
)

type User struct {
	gorm.Model
	Name             string `gorm:"not null" json:"name"`
	Username         string `gorm:"uniqueIndex;not null" json:"username"`
	Email            string `gorm:"uniqueIndex;not null" json:"email"`
	Password         string `json:"-"`
	Nationality      string `json:"nationality"`
	StateAffiliation string `json:"state_affiliation"`
	Roles            []Role `gorm:"many2many:user_roles" json:"roles"`
}

type Role struct {
	gorm.Model
	Name string `gorm:"unique;not null" json:"name"`
}

type RefreshToken struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Revoked   bool      `gorm:"default:false"`
}
