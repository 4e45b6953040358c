package club

import (
	"gorm.io/gorm"
)

// Club is an affiliated pickleball club. Players joining a club are reflected
// on their digital credential as club_member with the club's name.
type Club struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	State       string `gorm:"index" json:"state"`
	City        string `json:"city"`
	Description string `json:"description"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
	MemberCount int    `gorm:"default:0" json:"member_count"`
}

// ClubMember links a player to a club. A player belongs to at most one club.
type ClubMember struct {
	gorm.Model
	ClubID uint `gorm:"index;not null" json:"club_id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
}

type JoinClubRequest struct {
	ClubID uint `json:"club_id" binding:"required"`
}

type CreateClubRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=120"`
	State       string `json:"state" binding:"omitempty,max=80"`
	City        string `json:"city" binding:"omitempty,max=80"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

type UpdateClubRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=3,max=120"`
	State       *string `json:"state,omitempty" binding:"omitempty,max=80"`
	City        *string `json:"city,omitempty" binding:"omitempty,max=80"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
