package credential

import (
	"time"

	"github.com/fmpickleball/federation-api/pkg/badge"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Affiliation statuses. The server is authoritative; clients only render them.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
	StatusExpired   = "expired"
)

// Club relationship of a credential holder.
const (
	ClubStatusMember      = "club_member"
	ClubStatusIndependent = "independent"
)

// DigitalCredential is the federation-issued digital player identity.
// Addressable by ID internally and by VerificationCode publicly; at most one
// exists per player.
type DigitalCredential struct {
	ID                string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	CredentialNumber  string         `gorm:"uniqueIndex;not null" json:"credential_number"`
	VerificationCode  string         `gorm:"uniqueIndex;not null" json:"verification_code"`
	PlayerName        string         `gorm:"not null" json:"player_name"`
	NRTPLevel         *float64       `json:"nrtp_level"`
	StateAffiliation  *string        `json:"state_affiliation"`
	Nationality       string         `json:"nationality"`
	AffiliationStatus string         `gorm:"type:varchar(20);default:'active';check:affiliation_status IN ('active','inactive','suspended','expired')" json:"affiliation_status"`
	ClubStatus        string         `gorm:"type:varchar(20);default:'independent';check:club_status IN ('club_member','independent')" json:"club_status"`
	ClubName          *string        `json:"club_name,omitempty"`
	RankingPosition   *int           `json:"ranking_position"`
	IssuedDate        time.Time      `json:"issued_date"`
	ExpiryDate        *time.Time     `json:"expiry_date"`
	LastVerified      *time.Time     `json:"last_verified"`
	VerificationCount int            `gorm:"default:0" json:"verification_count"`
	QRCodeURL         *string        `json:"qr_code_url"`
	QRCodeData        string         `json:"qr_code_data"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (DigitalCredential) TableName() string { return "digital_credentials" }

func (dc *DigitalCredential) BeforeCreate(tx *gorm.DB) error {
	if dc.ID == "" {
		dc.ID = uuid.NewString()
	}
	return nil
}

// UpdateCredentialRequest is a partial update; nil fields are left untouched.
type UpdateCredentialRequest struct {
	PlayerName       *string  `json:"player_name,omitempty" binding:"omitempty,min=1,max=120"`
	NRTPLevel        *float64 `json:"nrtp_level,omitempty" binding:"omitempty,min=1,max=7"`
	StateAffiliation *string  `json:"state_affiliation,omitempty" binding:"omitempty,max=80"`
	Nationality      *string  `json:"nationality,omitempty" binding:"omitempty,max=80"`
	RankingPosition  *int     `json:"ranking_position,omitempty" binding:"omitempty,min=1"`
	// Admin-only fields; ignored for non-admin callers.
	AffiliationStatus *string    `json:"affiliation_status,omitempty" binding:"omitempty,oneof=active inactive suspended expired"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
}

// ListParams are the admin collection filters, applied in SQL.
type ListParams struct {
	Page              int
	Limit             int
	AffiliationStatus string
	StateAffiliation  string
	IsVerified        *bool // true: verified at least once
	Search            string
}

// VerificationDetails accompanies every verify response.
type VerificationDetails struct {
	Valid      bool        `json:"valid"`
	VerifiedAt time.Time   `json:"verified_at"`
	Method     string      `json:"method"`
	Warning    string      `json:"warning,omitempty"`
	Badge      badge.Badge `json:"badge"`
}

// VerifyResponse pairs the credential with the verification outcome.
type VerifyResponse struct {
	Credential   *DigitalCredential  `json:"credential"`
	Verification VerificationDetails `json:"verification"`
}
