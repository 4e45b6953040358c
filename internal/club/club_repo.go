package club

import (
	"errors"

	"github.com/fmpickleball/federation-api/internal/credential"
	"gorm.io/gorm"
)

type ClubRepository interface {
	CreateClub(club *Club) error
	GetClubByID(id uint) (*Club, error)
	FindClubByName(name string) (*Club, error)
	GetAllClubs(page, pageSize int, searchTerm, state string) ([]Club, int64, error)
	UpdateClub(club *Club) error
	DeleteClub(id uint) error

	GetMembership(userID uint) (*ClubMember, error)
	AddMember(member *ClubMember, clubName string) error
	RemoveMember(userID uint) error
}

type clubRepository struct {
	db *gorm.DB
}

func NewClubRepository(db *gorm.DB) ClubRepository {
	return &clubRepository{db: db}
}

func (r *clubRepository) CreateClub(club *Club) error {
	return r.db.Create(club).Error
}

func (r *clubRepository) GetClubByID(id uint) (*Club, error) {
	var club Club
	err := r.db.First(&club, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &club, nil
}

func (r *clubRepository) FindClubByName(name string) (*Club, error) {
	var club Club
	err := r.db.Where("name = ?", name).First(&club).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &club, nil
}

func (r *clubRepository) GetAllClubs(page, pageSize int, searchTerm, state string) ([]Club, int64, error) {
	var clubs []Club
	var total int64

	query := r.db.Model(&Club{}).Where("is_active = ?", true)
	if searchTerm != "" {
		query = query.Where("name ILIKE ? OR city ILIKE ?", "%"+searchTerm+"%", "%"+searchTerm+"%")
	}
	if state != "" {
		query = query.Where("state = ?", state)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("name ASC").Offset(offset).Limit(pageSize).Find(&clubs).Error; err != nil {
		return nil, 0, err
	}
	return clubs, total, nil
}

func (r *clubRepository) UpdateClub(club *Club) error {
	return r.db.Save(club).Error
}

func (r *clubRepository) DeleteClub(id uint) error {
	return r.db.Delete(&Club{}, id).Error
}

func (r *clubRepository) GetMembership(userID uint) (*ClubMember, error) {
	var m ClubMember
	err := r.db.Where("user_id = ?", userID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// AddMember records the membership, bumps the club's counter and mirrors the
// change onto the player's credential in one transaction, so a failed mirror
// rolls the membership back. Players without an issued credential simply
// match no row.
func (r *clubRepository) AddMember(member *ClubMember, clubName string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		if err := tx.Model(&Club{}).Where("id = ?", member.ClubID).
			Update("member_count", gorm.Expr("member_count + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&credential.DigitalCredential{}).
			Where("user_id = ?", member.UserID).
			Updates(map[string]interface{}{
				"club_status": credential.ClubStatusMember,
				"club_name":   clubName,
			}).Error
	})
}

func (r *clubRepository) RemoveMember(userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var m ClubMember
		if err := tx.Where("user_id = ?", userID).First(&m).Error; err != nil {
			return err
		}
		if err := tx.Delete(&m).Error; err != nil {
			return err
		}
		if err := tx.Model(&Club{}).Where("id = ? AND member_count > 0", m.ClubID).
			Update("member_count", gorm.Expr("member_count - 1")).Error; err != nil {
			return err
		}
		return tx.Model(&credential.DigitalCredential{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"club_status": credential.ClubStatusIndependent,
				"club_name":   nil,
			}).Error
	})
}
