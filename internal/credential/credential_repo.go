package credential

import (
	"errors"
	"fmt"
	"time"

	"github.com/fmpickleball/federation-api/internal/user"
	"gorm.io/gorm"
)

type CredentialRepository interface {
	Create(cred *DigitalCredential) error
	GetByID(id string) (*DigitalCredential, error)
	GetByUserID(userID uint) (*DigitalCredential, error)
	GetByVerificationCode(code string) (*DigitalCredential, error)
	Update(cred *DigitalCredential) error
	UpdateQRCode(id, qrURL, qrData string) error
	RecordVerification(id string, at time.Time) error
	List(params ListParams) ([]DigitalCredential, int64, error)
	NextSequenceForYear(year int) (int64, error)
	ExpireOverdue(now time.Time) (int64, error)

	GetUser(userID uint) (*user.User, error)
	GetClubName(userID uint) (*string, error)
}

type credentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Create(cred *DigitalCredential) error {
	return r.db.Create(cred).Error
}

func (r *credentialRepository) GetByID(id string) (*DigitalCredential, error) {
	var cred DigitalCredential
	err := r.db.Where("id = ?", id).First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepository) GetByUserID(userID uint) (*DigitalCredential, error) {
	var cred DigitalCredential
	err := r.db.Where("user_id = ?", userID).First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepository) GetByVerificationCode(code string) (*DigitalCredential, error) {
	var cred DigitalCredential
	err := r.db.Where("verification_code = ?", code).First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepository) Update(cred *DigitalCredential) error {
	return r.db.Save(cred).Error
}

func (r *credentialRepository) UpdateQRCode(id, qrURL, qrData string) error {
	return r.db.Model(&DigitalCredential{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"qr_code_url":  qrURL,
			"qr_code_data": qrData,
		}).Error
}

// RecordVerification bumps the counter and stamps last_verified atomically so
// concurrent verifies never lose an increment.
func (r *credentialRepository) RecordVerification(id string, at time.Time) error {
	return r.db.Model(&DigitalCredential{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"verification_count": gorm.Expr("verification_count + 1"),
			"last_verified":      at,
		}).Error
}

func (r *credentialRepository) List(params ListParams) ([]DigitalCredential, int64, error) {
	var creds []DigitalCredential
	var total int64

	query := r.db.Model(&DigitalCredential{})

	if params.AffiliationStatus != "" {
		query = query.Where("affiliation_status = ?", params.AffiliationStatus)
	}
	if params.StateAffiliation != "" {
		query = query.Where("state_affiliation = ?", params.StateAffiliation)
	}
	if params.IsVerified != nil {
		if *params.IsVerified {
			query = query.Where("verification_count > 0")
		} else {
			query = query.Where("verification_count = 0")
		}
	}
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("player_name ILIKE ? OR credential_number ILIKE ? OR verification_code ILIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (params.Page - 1) * params.Limit
	if err := query.Order("credential_number ASC").Offset(offset).Limit(params.Limit).Find(&creds).Error; err != nil {
		return nil, 0, err
	}
	return creds, total, nil
}

// NextSequenceForYear returns the next ordinal for credential numbers issued
// in the given year, derived from the highest number already allocated.
// Includes soft-deleted rows so numbers are never reused. Concurrent creates
// may still observe the same maximum; the unique index on credential_number
// catches that and the caller retries.
func (r *credentialRepository) NextSequenceForYear(year int) (int64, error) {
	prefix := fmt.Sprintf("PB%d", year)
	var maxSeq int64
	err := r.db.Unscoped().Model(&DigitalCredential{}).
		Where("credential_number LIKE ?", prefix+"%").
		Select("COALESCE(MAX(CAST(SUBSTRING(credential_number FROM ?) AS INTEGER)), 0)", len(prefix)+1).
		Scan(&maxSeq).Error
	if err != nil {
		return 0, err
	}
	return maxSeq + 1, nil
}

// ExpireOverdue flips credentials past their expiry date to the expired
// status and reports how many rows changed.
func (r *credentialRepository) ExpireOverdue(now time.Time) (int64, error) {
	res := r.db.Model(&DigitalCredential{}).
		Where("expiry_date IS NOT NULL AND expiry_date < ? AND affiliation_status = ?", now, StatusActive).
		Update("affiliation_status", StatusExpired)
	return res.RowsAffected, res.Error
}

// GetClubName resolves the player's current club membership, nil when the
// player is independent. Queried by table to keep clubs out of this package.
func (r *credentialRepository) GetClubName(userID uint) (*string, error) {
	var names []string
	err := r.db.Table("club_members").
		Select("clubs.name").
		Joins("JOIN clubs ON clubs.id = club_members.club_id").
		Where("club_members.user_id = ? AND club_members.deleted_at IS NULL AND clubs.deleted_at IS NULL", userID).
		Limit(1).
		Scan(&names).Error
	if err != nil || len(names) == 0 {
		return nil, err
	}
	return &names[0], nil
}

func (r *credentialRepository) GetUser(userID uint) (*user.User, error) {
	var u user.User
	if err := r.db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
