package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/rules"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/blob"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/metrics"
	Logger "github.com/iamstorage888/Caridad-BPS-Final-1-sub000/pkg/logger"
)

// ResidentFilter narrows the resident list
type ResidentFilter struct {
	Search          string // first, middle or last name
	HouseholdNumber string
	Purok           string
	Sex             string
	Voter           *bool
}

// InterfaceResidentService defines the resident service interface
type InterfaceResidentService interface {
	GetAllResidents(ctx context.Context, q models.PaginationQuery, filter ResidentFilter) ([]models.Resident, int64, error)
	GetResidentByID(ctx context.Context, id uint) (*models.Resident, error)
	CreateResident(ctx context.Context, actor Actor, resident *models.Resident) error
	UpdateResident(ctx context.Context, actor Actor, id uint, input *models.Resident) (*models.Resident, error)
	DeleteResident(ctx context.Context, actor Actor, id uint) error
	UploadDocument(ctx context.Context, id uint, kind models.IDDocumentKind, r io.Reader, contentType, filename string) (*models.Resident, error)
	RemoveDocument(ctx context.Context, id uint, kind models.IDDocumentKind) (*models.Resident, error)
}

// ResidentService manages resident records and their ID-document images
type ResidentService struct {
	DB      *gorm.DB
	Config  *config.Config
	Blobs   blob.Store
	Metrics *metrics.Metrics
	now     func() time.Time
}

// NewResidentService creates a new resident service
func NewResidentService(db *gorm.DB, cfg *config.Config, blobs blob.Store, m *metrics.Metrics) InterfaceResidentService {
	return &ResidentService{
		DB:      db,
		Config:  cfg,
		Blobs:   blobs,
		Metrics: m,
		now:     time.Now,
	}
}

// 1 GetAllResidents lists residents ordered by last and first name
func (s *ResidentService) GetAllResidents(ctx context.Context, q models.PaginationQuery, filter ResidentFilter) ([]models.Resident, int64, error) {
	q = q.Normalize()
	query := s.DB.WithContext(ctx).Model(&models.Resident{})
	if strings.TrimSpace(filter.Search) != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(middle_name) LIKE ? OR LOWER(last_name) LIKE ?", p, p, p)
	}
	if filter.HouseholdNumber != "" {
		query = query.Where("household_number = ?", filter.HouseholdNumber)
	}
	if filter.Purok != "" {
		query = query.Where("purok = ?", filter.Purok)
	}
	if filter.Sex != "" {
		query = query.Where("sex = ?", filter.Sex)
	}
	if filter.Voter != nil {
		// the stored flag is kept in step with the classifier on every write
		query = query.Where("is_registered_voter = ?", *filter.Voter)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var residents []models.Resident
	if err := query.Order("last_name ASC, first_name ASC, id ASC").Offset(q.Offset()).Limit(q.PageSize).Find(&residents).Error; err != nil {
		return nil, 0, err
	}
	return residents, total, nil
}

// 2 GetResidentByID loads one resident
func (s *ResidentService) GetResidentByID(ctx context.Context, id uint) (*models.Resident, error) {
	var resident models.Resident
	if err := s.DB.WithContext(ctx).First(&resident, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &resident, nil
}

func normalizeResident(r *models.Resident) {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.MiddleName = strings.TrimSpace(r.MiddleName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Suffix = strings.TrimSpace(r.Suffix)
	r.HouseholdNumber = rules.NormalizeHouseholdNumber(strings.TrimSpace(r.HouseholdNumber))
}

func (s *ResidentService) validate(r *models.Resident) error {
	errs := rules.ValidateResident(r, s.now())
	if r.IsFamilyHead && r.HouseholdNumber == "" && !models.IsPurok(r.Purok) {
		errs["purok"] = "purok is required to open a household for a family head"
	}
	return invalid(errs)
}

// 3 CreateResident validates and stores a resident. A family head without a
// household number gets a new household named after their last name.
func (s *ResidentService) CreateResident(ctx context.Context, actor Actor, resident *models.Resident) error {
	normalizeResident(resident)
	if err := s.validate(resident); err != nil {
		return err
	}
	resident.ID = 0
	rules.ClassifyResident(resident)

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if resident.IsFamilyHead && resident.HouseholdNumber == "" {
			household, err := openHousehold(tx, resident.LastName, resident.Purok)
			if err != nil {
				return err
			}
			resident.HouseholdNumber = household.HouseholdNumber
		}
		if err := checkHouseholdRoles(tx, resident); err != nil {
			return err
		}
		if err := tx.Create(resident).Error; err != nil {
			return err
		}
		return recountMembers(tx, resident.HouseholdNumber)
	})
}

// 4 UpdateResident replaces the editable fields of a resident. ID-document
// URLs are managed by UploadDocument and RemoveDocument and are kept.
func (s *ResidentService) UpdateResident(ctx context.Context, actor Actor, id uint, input *models.Resident) (*models.Resident, error) {
	normalizeResident(input)
	if err := s.validate(input); err != nil {
		return nil, err
	}

	var resident models.Resident
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&resident, id).Error; err != nil {
			return notFound(err)
		}
		previousHousehold := resident.HouseholdNumber

		resident.FirstName = input.FirstName
		resident.MiddleName = input.MiddleName
		resident.LastName = input.LastName
		resident.Suffix = input.Suffix
		resident.Sex = input.Sex
		resident.Birthday = input.Birthday
		resident.CivilStatus = input.CivilStatus
		resident.ContactNumber = input.ContactNumber
		resident.Occupation = input.Occupation
		resident.Address = input.Address
		resident.Purok = input.Purok
		resident.HouseholdNumber = input.HouseholdNumber
		resident.IsFamilyHead = input.IsFamilyHead
		resident.IsWife = input.IsWife
		resident.VoterDeclared = input.VoterDeclared
		rules.ClassifyResident(&resident)

		if resident.IsFamilyHead && resident.HouseholdNumber == "" {
			household, err := openHousehold(tx, resident.LastName, resident.Purok)
			if err != nil {
				return err
			}
			resident.HouseholdNumber = household.HouseholdNumber
		}
		if err := checkHouseholdRoles(tx, &resident); err != nil {
			return err
		}
		if err := tx.Save(&resident).Error; err != nil {
			return err
		}
		return recountMembers(tx, previousHousehold, resident.HouseholdNumber)
	})
	if err != nil {
		return nil, err
	}
	return &resident, nil
}

// 5 DeleteResident removes a resident and then, best effort, their
// ID-document images
func (s *ResidentService) DeleteResident(ctx context.Context, actor Actor, id uint) error {
	var resident models.Resident
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&resident, id).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Delete(&models.Resident{}, id).Error; err != nil {
			return err
		}
		if err := recountMembers(tx, resident.HouseholdNumber); err != nil {
			return err
		}
		return writeOperationLog(tx, actor, models.OpResidentDelete, id, resident.FullName())
	})
	if err != nil {
		return err
	}
	s.deleteBlobs(ctx, resident.DocumentURLs()...)
	return nil
}

// 6 UploadDocument stores an ID-document image and records its URL in the
// slot for kind. A replaced image is deleted best effort.
func (s *ResidentService) UploadDocument(ctx context.Context, id uint, kind models.IDDocumentKind, r io.Reader, contentType, filename string) (*models.Resident, error) {
	column, ok := models.DocumentColumn(kind)
	if !ok {
		return nil, invalidField("kind", "unknown document kind")
	}
	if _, err := s.GetResidentByID(ctx, id); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("residents/%d/%s-%s%s", id, kind, uuid.NewString(), strings.ToLower(path.Ext(filename)))
	url, err := s.Blobs.Upload(ctx, key, r, contentType)
	if err != nil {
		Logger.Error("upload of %s for resident %d failed: %v", kind, id, err)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	resident, previous, err := s.setDocument(ctx, id, column, kind, url)
	if err != nil {
		s.deleteBlobs(ctx, url)
		return nil, err
	}
	if previous != url {
		s.deleteBlobs(ctx, previous)
	}
	return resident, nil
}

// 7 RemoveDocument clears the slot for kind and deletes the image best effort
func (s *ResidentService) RemoveDocument(ctx context.Context, id uint, kind models.IDDocumentKind) (*models.Resident, error) {
	column, ok := models.DocumentColumn(kind)
	if !ok {
		return nil, invalidField("kind", "unknown document kind")
	}
	resident, previous, err := s.setDocument(ctx, id, column, kind, "")
	if err != nil {
		return nil, err
	}
	s.deleteBlobs(ctx, previous)
	return resident, nil
}

// setDocument writes url into column, re-derives the voter flag and returns
// the URL it replaced.
func (s *ResidentService) setDocument(ctx context.Context, id uint, column string, kind models.IDDocumentKind, url string) (*models.Resident, string, error) {
	var resident models.Resident
	var previous string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&resident, id).Error; err != nil {
			return notFound(err)
		}
		previous = resident.DocumentURL(kind)
		switch kind {
		case models.NationalIDFront:
			resident.NationalIDFrontURL = url
		case models.NationalIDBack:
			resident.NationalIDBackURL = url
		case models.VotersIDFront:
			resident.VotersIDFrontURL = url
		case models.VotersIDBack:
			resident.VotersIDBackURL = url
		}
		voter := rules.ClassifyResident(&resident)
		return tx.Model(&resident).Updates(map[string]interface{}{
			column:                url,
			"is_registered_voter": voter,
		}).Error
	})
	if err != nil {
		return nil, "", err
	}
	return &resident, previous, nil
}

// deleteBlobs removes images best effort. Failures are logged and counted,
// never returned, and run detached from request cancellation.
func (s *ResidentService) deleteBlobs(ctx context.Context, urls ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := s.Blobs.DeleteByURL(ctx, url); err != nil {
			s.Metrics.BlobDeleteFailures.Inc()
			Logger.Warning("failed to delete ID document %s: %v", url, err)
		}
	}
}

// checkHouseholdRoles enforces at most one family head and one wife per
// household.
func checkHouseholdRoles(tx *gorm.DB, r *models.Resident) error {
	if r.HouseholdNumber == "" {
		return nil
	}
	check := func(column, role string) error {
		var count int64
		if err := tx.Model(&models.Resident{}).
			Where("household_number = ? AND "+column+" = ? AND id <> ?", r.HouseholdNumber, true, r.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: household %s already has a %s", ErrRoleTaken, r.HouseholdNumber, role)
		}
		return nil
	}
	if r.IsFamilyHead {
		if err := check("is_family_head", "family head"); err != nil {
			return err
		}
	}
	if r.IsWife {
		if err := check("is_wife", "wife"); err != nil {
			return err
		}
	}
	return nil
}
