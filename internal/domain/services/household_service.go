package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/rules"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
)

// InterfaceHouseholdService defines the household service interface
type InterfaceHouseholdService interface {
	GetAllHouseholds(ctx context.Context, q models.PaginationQuery, purok, search string) ([]models.Household, int64, error)
	GetHouseholdByID(ctx context.Context, id uint) (*models.Household, error)
	GetHouseholdMembers(ctx context.Context, id uint) ([]models.Resident, error)
	CreateHousehold(ctx context.Context, household *models.Household) error
	UpdateHousehold(ctx context.Context, id uint, input *models.Household) (*models.Household, error)
	DeleteHousehold(ctx context.Context, actor Actor, id uint) error
	NextHouseholdNumber(ctx context.Context) (string, error)
}

// HouseholdService manages numbered households
type HouseholdService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewHouseholdService creates a new household service
func NewHouseholdService(db *gorm.DB, cfg *config.Config) InterfaceHouseholdService {
	return &HouseholdService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllHouseholds lists households ordered by number
func (s *HouseholdService) GetAllHouseholds(ctx context.Context, q models.PaginationQuery, purok, search string) ([]models.Household, int64, error) {
	q = q.Normalize()
	query := s.DB.WithContext(ctx).Model(&models.Household{})
	if purok != "" {
		query = query.Where("purok = ?", purok)
	}
	if strings.TrimSpace(search) != "" {
		p := likePattern(search)
		query = query.Where("LOWER(household_number) LIKE ? OR LOWER(household_name) LIKE ?", p, p)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var households []models.Household
	if err := query.Order("household_number ASC").Offset(q.Offset()).Limit(q.PageSize).Find(&households).Error; err != nil {
		return nil, 0, err
	}
	return households, total, nil
}

// 2 GetHouseholdByID loads a household with its members
func (s *HouseholdService) GetHouseholdByID(ctx context.Context, id uint) (*models.Household, error) {
	var household models.Household
	if err := s.DB.WithContext(ctx).First(&household, id).Error; err != nil {
		return nil, notFound(err)
	}
	members, err := s.members(ctx, household.HouseholdNumber)
	if err != nil {
		return nil, err
	}
	household.Members = members
	return &household, nil
}

// 3 GetHouseholdMembers lists the residents of a household, head first
func (s *HouseholdService) GetHouseholdMembers(ctx context.Context, id uint) ([]models.Resident, error) {
	var household models.Household
	if err := s.DB.WithContext(ctx).First(&household, id).Error; err != nil {
		return nil, notFound(err)
	}
	return s.members(ctx, household.HouseholdNumber)
}

func (s *HouseholdService) members(ctx context.Context, number string) ([]models.Resident, error) {
	members := []models.Resident{}
	err := s.DB.WithContext(ctx).
		Where("household_number = ?", number).
		Order("is_family_head DESC, is_wife DESC, birthday ASC, id ASC").
		Find(&members).Error
	return members, err
}

// 4 CreateHousehold stores a household. An empty number is allocated as the
// highest existing HH-NNN plus one.
func (s *HouseholdService) CreateHousehold(ctx context.Context, household *models.Household) error {
	household.HouseholdNumber = strings.TrimSpace(household.HouseholdNumber)
	household.HouseholdName = strings.TrimSpace(household.HouseholdName)
	if err := invalid(rules.ValidateHousehold(household)); err != nil {
		return err
	}
	household.HouseholdNumber = rules.NormalizeHouseholdNumber(household.HouseholdNumber)
	household.ID = 0
	household.MembersCount = 0

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if household.HouseholdNumber == "" {
			number, err := allocateHouseholdNumber(tx)
			if err != nil {
				return err
			}
			household.HouseholdNumber = number
		}
		if err := createHousehold(tx, household); err != nil {
			return err
		}
		// residents may already reference the number
		return recountMembers(tx, household.HouseholdNumber)
	})
}

// 5 UpdateHousehold changes name, purok and number. Residents follow a
// renumbered household.
func (s *HouseholdService) UpdateHousehold(ctx context.Context, id uint, input *models.Household) (*models.Household, error) {
	input.HouseholdNumber = strings.TrimSpace(input.HouseholdNumber)
	input.HouseholdName = strings.TrimSpace(input.HouseholdName)
	if err := invalid(rules.ValidateHousehold(input)); err != nil {
		return nil, err
	}
	input.HouseholdNumber = rules.NormalizeHouseholdNumber(input.HouseholdNumber)

	var household models.Household
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&household, id).Error; err != nil {
			return notFound(err)
		}
		previous := household.HouseholdNumber
		household.HouseholdName = input.HouseholdName
		household.Purok = input.Purok
		if input.HouseholdNumber != "" {
			household.HouseholdNumber = input.HouseholdNumber
		}
		if err := tx.Save(&household).Error; err != nil {
			if isDuplicateKey(err) {
				return fmt.Errorf("%w: household number %s is taken", ErrConflict, household.HouseholdNumber)
			}
			return err
		}
		if previous != household.HouseholdNumber {
			if err := tx.Model(&models.Resident{}).
				Where("household_number = ?", previous).
				Update("household_number", household.HouseholdNumber).Error; err != nil {
				return err
			}
		}
		return recountMembers(tx, household.HouseholdNumber)
	})
	if err != nil {
		return nil, err
	}
	return s.GetHouseholdByID(ctx, id)
}

// 6 DeleteHousehold removes a household that no resident references
func (s *HouseholdService) DeleteHousehold(ctx context.Context, actor Actor, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var household models.Household
		if err := tx.First(&household, id).Error; err != nil {
			return notFound(err)
		}
		var members int64
		if err := tx.Model(&models.Resident{}).Where("household_number = ?", household.HouseholdNumber).Count(&members).Error; err != nil {
			return err
		}
		if members > 0 {
			return fmt.Errorf("%w: %s has %d residents", ErrHouseholdHasMembers, household.HouseholdNumber, members)
		}
		if err := tx.Delete(&household).Error; err != nil {
			return err
		}
		return writeOperationLog(tx, actor, models.OpHouseholdDelete, id, household.HouseholdNumber)
	})
}

// 7 NextHouseholdNumber previews the number the next household would get
func (s *HouseholdService) NextHouseholdNumber(ctx context.Context) (string, error) {
	return allocateHouseholdNumber(s.DB.WithContext(ctx))
}

// allocateHouseholdNumber returns the next free HH-NNN. Two transactions
// may compute the same number; the unique index rejects the second insert.
func allocateHouseholdNumber(tx *gorm.DB) (string, error) {
	var numbers []string
	if err := tx.Model(&models.Household{}).Pluck("household_number", &numbers).Error; err != nil {
		return "", err
	}
	return rules.NextHouseholdNumber(numbers), nil
}

func createHousehold(tx *gorm.DB, household *models.Household) error {
	if err := tx.Create(household).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: household number %s is taken", ErrConflict, household.HouseholdNumber)
		}
		return err
	}
	return nil
}

// openHousehold allocates and creates a household for a new family head.
func openHousehold(tx *gorm.DB, name, purok string) (*models.Household, error) {
	number, err := allocateHouseholdNumber(tx)
	if err != nil {
		return nil, err
	}
	household := &models.Household{HouseholdNumber: number, HouseholdName: name, Purok: purok}
	if err := createHousehold(tx, household); err != nil {
		return nil, err
	}
	return household, nil
}

// recountMembers stores the live resident count of each non-empty number.
func recountMembers(tx *gorm.DB, numbers ...string) error {
	seen := make(map[string]bool, len(numbers))
	for _, number := range numbers {
		if number == "" || seen[number] {
			continue
		}
		seen[number] = true
		var count int64
		if err := tx.Model(&models.Resident{}).Where("household_number = ?", number).Count(&count).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Household{}).Where("household_number = ?", number).Update("members_count", count).Error; err != nil {
			return err
		}
	}
	return nil
}
