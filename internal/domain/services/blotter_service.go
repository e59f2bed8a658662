package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/rules"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/metrics"
	Logger "github.com/iamstorage888/Caridad-BPS-Final-1-sub000/pkg/logger"
)

// BlotterInput is the body of a blotter write. When IncidentType is Other,
// CustomIncidentType replaces it and is added to the registry.
type BlotterInput struct {
	models.BlotterFields
	CustomIncidentType string
}

// BlotterFilter narrows blotter and archive listings
type BlotterFilter struct {
	Status       models.BlotterStatus
	Location     string
	IncidentType string
	Search       string // complainant or respondent
}

// BlotterWriteResult is the outcome of a write: exactly one of Blotter
// (still active) and Archived (moved to the archive) is set
type BlotterWriteResult struct {
	Blotter  *models.Blotter         `json:"blotter,omitempty"`
	Archived *models.ArchivedBlotter `json:"archived,omitempty"`
}

// ReconcileReport lists what ReconcileArchive repaired
type ReconcileReport struct {
	DuplicatesRemoved []uint   `json:"duplicates_removed"`
	Archived          []uint   `json:"archived"`
	Errors            []string `json:"errors,omitempty"`
}

// InterfaceBlotterService defines the blotter service interface
type InterfaceBlotterService interface {
	GetAllBlotters(ctx context.Context, q models.PaginationQuery, filter BlotterFilter) ([]models.Blotter, int64, error)
	GetBlotterByID(ctx context.Context, id uint) (*models.Blotter, error)
	CreateBlotter(ctx context.Context, actor Actor, input BlotterInput) (*BlotterWriteResult, error)
	UpdateBlotter(ctx context.Context, actor Actor, id uint, input BlotterInput) (*BlotterWriteResult, error)
	UpdateStatus(ctx context.Context, actor Actor, id uint, status models.BlotterStatus) (*BlotterWriteResult, error)
	DeleteBlotter(ctx context.Context, actor Actor, id uint) error
	GetArchivedBlotters(ctx context.Context, q models.PaginationQuery, filter BlotterFilter) ([]models.ArchivedBlotter, int64, error)
	GetArchivedBlotterByID(ctx context.Context, id uint) (*models.ArchivedBlotter, error)
	ReconcileArchive(ctx context.Context, actor Actor) (*ReconcileReport, error)
}

// BlotterService manages active blotters and moves settled or closed ones
// to the archive
type BlotterService struct {
	DB      *gorm.DB
	Config  *config.Config
	Events  InterfaceBlotterEventService
	Metrics *metrics.Metrics
	now     func() time.Time
}

// NewBlotterService creates a new blotter service
func NewBlotterService(db *gorm.DB, cfg *config.Config, events InterfaceBlotterEventService, m *metrics.Metrics) InterfaceBlotterService {
	if events == nil {
		events = NoopBlotterEventService{}
	}
	return &BlotterService{
		DB:      db,
		Config:  cfg,
		Events:  events,
		Metrics: m,
		now:     time.Now,
	}
}

func applyBlotterFilter(query *gorm.DB, filter BlotterFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Location != "" {
		query = query.Where("location = ?", filter.Location)
	}
	if filter.IncidentType != "" {
		query = query.Where("incident_type = ?", filter.IncidentType)
	}
	if strings.TrimSpace(filter.Search) != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(complainant) LIKE ? OR LOWER(respondent) LIKE ?", p, p)
	}
	return query
}

// 1 GetAllBlotters lists active blotters, newest first
func (s *BlotterService) GetAllBlotters(ctx context.Context, q models.PaginationQuery, filter BlotterFilter) ([]models.Blotter, int64, error) {
	q = q.Normalize()
	query := applyBlotterFilter(s.DB.WithContext(ctx).Model(&models.Blotter{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var blotters []models.Blotter
	if err := query.Order("created_at DESC, id DESC").Offset(q.Offset()).Limit(q.PageSize).Find(&blotters).Error; err != nil {
		return nil, 0, err
	}
	return blotters, total, nil
}

// 2 GetBlotterByID loads one active blotter
func (s *BlotterService) GetBlotterByID(ctx context.Context, id uint) (*models.Blotter, error) {
	var blotter models.Blotter
	if err := s.DB.WithContext(ctx).First(&blotter, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &blotter, nil
}

// resolveIncidentType swaps Other for the custom type and returns the name
// to register, if any.
func resolveIncidentType(fields *models.BlotterFields, custom string) (string, error) {
	custom = strings.TrimSpace(custom)
	if fields.IncidentType != rules.OtherIncidentType || custom == "" {
		return "", nil
	}
	if err := validateIncidentTypeName(custom); err != nil {
		return "", invalidField("custom_incident_type", "custom incident type is too long")
	}
	fields.IncidentType = custom
	return custom, nil
}

// 3 CreateBlotter validates and stores a blotter. A blotter filed directly
// as settled or closed goes straight to the archive in the same transaction.
func (s *BlotterService) CreateBlotter(ctx context.Context, actor Actor, input BlotterInput) (*BlotterWriteResult, error) {
	fields := input.BlotterFields
	if fields.Status == "" {
		fields.Status = models.BlotterStatusFiled
	}
	register, err := resolveIncidentType(&fields, input.CustomIncidentType)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := invalid(rules.ValidateBlotter(&fields, now)); err != nil {
		return nil, err
	}

	blotter := &models.Blotter{BlotterFields: fields}
	var archived *models.ArchivedBlotter
	var registered bool
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if registered, err = registerIncidentType(tx, register); err != nil {
			return err
		}
		if err := ensureKnownIncidentType(tx, fields.IncidentType); err != nil {
			return err
		}
		if err := tx.Create(blotter).Error; err != nil {
			return err
		}
		if err := writeOperationLog(tx, actor, models.OpBlotterCreate, blotter.ID,
			fmt.Sprintf("%s vs %s (%s)", blotter.Complainant, blotter.Respondent, blotter.IncidentType)); err != nil {
			return err
		}
		if fields.Status.Terminal() {
			archived, err = archiveTx(tx, actor, blotter, now)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.archiveError(fields.Status, err)
	}

	if registered {
		s.Metrics.IncidentTypesRegistered.Inc()
	}
	s.Events.Publish(BlotterEvent{Kind: BlotterEventCreated, BlotterID: blotter.ID, Status: blotter.Status, Location: blotter.Location})
	return s.finish(blotter, archived, ""), nil
}

// 4 UpdateBlotter replaces the editable fields of an active blotter. An
// empty status keeps the current one.
func (s *BlotterService) UpdateBlotter(ctx context.Context, actor Actor, id uint, input BlotterInput) (*BlotterWriteResult, error) {
	current, err := s.GetBlotterByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := input.BlotterFields
	if fields.Status == "" {
		fields.Status = current.Status
	}
	register, err := resolveIncidentType(&fields, input.CustomIncidentType)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := invalid(rules.ValidateBlotter(&fields, now)); err != nil {
		return nil, err
	}

	var blotter models.Blotter
	var archived *models.ArchivedBlotter
	var registered bool
	var previous models.BlotterStatus
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&blotter, id).Error; err != nil {
			return notFound(err)
		}
		previous = blotter.Status
		if registered, err = registerIncidentType(tx, register); err != nil {
			return err
		}
		if err := ensureKnownIncidentType(tx, fields.IncidentType); err != nil {
			return err
		}
		blotter.BlotterFields = fields
		if err := tx.Save(&blotter).Error; err != nil {
			return err
		}
		if previous != fields.Status {
			if err := writeOperationLog(tx, actor, models.OpBlotterStatus, blotter.ID,
				fmt.Sprintf("%s -> %s", previous, fields.Status)); err != nil {
				return err
			}
		}
		if fields.Status.Terminal() {
			archived, err = archiveTx(tx, actor, &blotter, now)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.archiveError(fields.Status, err)
	}

	if registered {
		s.Metrics.IncidentTypesRegistered.Inc()
	}
	if previous != fields.Status {
		s.Events.Publish(BlotterEvent{Kind: BlotterEventStatusChanged, BlotterID: id, Status: fields.Status, Previous: previous, Location: fields.Location})
	}
	return s.finish(&blotter, archived, previous), nil
}

// 5 UpdateStatus sets the status of an active blotter. Settled and closed
// blotters are moved to the archive: the status write, the archive insert
// and the delete commit together or not at all.
func (s *BlotterService) UpdateStatus(ctx context.Context, actor Actor, id uint, status models.BlotterStatus) (*BlotterWriteResult, error) {
	if !status.Valid() {
		return nil, invalidField("status", "unknown status")
	}

	now := s.now()
	var blotter models.Blotter
	var archived *models.ArchivedBlotter
	var previous models.BlotterStatus
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&blotter, id).Error; err != nil {
			return notFound(err)
		}
		previous = blotter.Status
		if err := tx.Model(&blotter).Update("status", status).Error; err != nil {
			return err
		}
		blotter.Status = status
		if err := writeOperationLog(tx, actor, models.OpBlotterStatus, blotter.ID,
			fmt.Sprintf("%s -> %s", previous, status)); err != nil {
			return err
		}
		if status.Terminal() {
			var err error
			archived, err = archiveTx(tx, actor, &blotter, now)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.archiveError(status, err)
	}

	s.Events.Publish(BlotterEvent{Kind: BlotterEventStatusChanged, BlotterID: id, Status: status, Previous: previous, Location: blotter.Location})
	return s.finish(&blotter, archived, previous), nil
}

// 6 DeleteBlotter removes an active blotter without archiving it
func (s *BlotterService) DeleteBlotter(ctx context.Context, actor Actor, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Blotter{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return writeOperationLog(tx, actor, models.OpBlotterDelete, id, "")
	})
	if err != nil {
		return err
	}
	s.Events.Publish(BlotterEvent{Kind: BlotterEventDeleted, BlotterID: id})
	return nil
}

// 7 GetArchivedBlotters lists the archive, most recently archived first
func (s *BlotterService) GetArchivedBlotters(ctx context.Context, q models.PaginationQuery, filter BlotterFilter) ([]models.ArchivedBlotter, int64, error) {
	q = q.Normalize()
	query := applyBlotterFilter(s.DB.WithContext(ctx).Model(&models.ArchivedBlotter{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var archived []models.ArchivedBlotter
	if err := query.Order("archived_date DESC, id DESC").Offset(q.Offset()).Limit(q.PageSize).Find(&archived).Error; err != nil {
		return nil, 0, err
	}
	return archived, total, nil
}

// 8 GetArchivedBlotterByID loads one archive entry
func (s *BlotterService) GetArchivedBlotterByID(ctx context.Context, id uint) (*models.ArchivedBlotter, error) {
	var archived models.ArchivedBlotter
	if err := s.DB.WithContext(ctx).First(&archived, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &archived, nil
}

// 9 ReconcileArchive repairs blotters left inconsistent by earlier failures:
// active rows whose archive copy already exists are deleted, and active rows
// carrying a terminal status are archived. Each repair commits on its own;
// a failed repair is reported and the scan continues.
func (s *BlotterService) ReconcileArchive(ctx context.Context, actor Actor) (*ReconcileReport, error) {
	db := s.DB.WithContext(ctx)
	report := &ReconcileReport{DuplicatesRemoved: []uint{}, Archived: []uint{}}

	var duplicates []uint
	if err := db.Model(&models.Blotter{}).
		Where("id IN (?)", db.Model(&models.ArchivedBlotter{}).Select("original_id")).
		Order("id ASC").
		Pluck("id", &duplicates).Error; err != nil {
		return nil, err
	}
	for _, id := range duplicates {
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.Blotter{}, id).Error; err != nil {
				return err
			}
			return writeOperationLog(tx, actor, models.OpBlotterRepair, id, "removed active copy of archived blotter")
		})
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("blotter %d: %v", id, err))
			continue
		}
		report.DuplicatesRemoved = append(report.DuplicatesRemoved, id)
		s.Metrics.ReconcileRepairs.WithLabelValues("duplicate").Inc()
	}

	var stranded []models.Blotter
	if err := db.Where("status IN ?", []models.BlotterStatus{models.BlotterStatusSettled, models.BlotterStatusClosed}).
		Order("id ASC").
		Find(&stranded).Error; err != nil {
		return nil, err
	}
	now := s.now()
	for i := range stranded {
		blotter := &stranded[i]
		var archived *models.ArchivedBlotter
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			if archived, err = archiveTx(tx, actor, blotter, now); err != nil {
				return err
			}
			return writeOperationLog(tx, actor, models.OpBlotterRepair, blotter.ID, "archived blotter left active with status "+string(blotter.Status))
		})
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("blotter %d: %v", blotter.ID, err))
			continue
		}
		report.Archived = append(report.Archived, blotter.ID)
		s.Metrics.ReconcileRepairs.WithLabelValues("archive").Inc()
		s.Metrics.BlottersArchived.Inc()
		s.Events.Publish(BlotterEvent{Kind: BlotterEventArchived, BlotterID: blotter.ID, ArchivedID: archived.ID, Status: blotter.Status, Location: blotter.Location})
	}

	if len(report.DuplicatesRemoved)+len(report.Archived) > 0 || len(report.Errors) > 0 {
		Logger.Info("archive reconciliation: %d duplicates removed, %d archived, %d errors",
			len(report.DuplicatesRemoved), len(report.Archived), len(report.Errors))
	}
	return report, nil
}

// archiveTx copies blotter into the archive and deletes the active row.
// The status must already be written. The unique original_id index makes a
// concurrent second archive of the same blotter fail.
func archiveTx(tx *gorm.DB, actor Actor, blotter *models.Blotter, now time.Time) (*models.ArchivedBlotter, error) {
	archived := blotter.Archive(now)
	if err := tx.Create(archived).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: blotter %d is already archived", ErrConflict, blotter.ID)
		}
		return nil, err
	}
	result := tx.Delete(&models.Blotter{}, blotter.ID)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	if err := writeOperationLog(tx, actor, models.OpBlotterArchive, blotter.ID,
		fmt.Sprintf("archived as %d with status %s", archived.ID, blotter.Status)); err != nil {
		return nil, err
	}
	return archived, nil
}

// archiveError classifies a failed write. Failures of a terminal write that
// are not a missing record, a conflict or a validation problem count as
// archive failures.
func (s *BlotterService) archiveError(status models.BlotterStatus, err error) error {
	if !status.Terminal() || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || errors.Is(err, ErrValidation) {
		return err
	}
	s.Metrics.ArchiveFailures.Inc()
	Logger.Error("blotter archive rolled back: %v", err)
	return fmt.Errorf("%w: %v", ErrArchiveFailed, err)
}

func (s *BlotterService) finish(blotter *models.Blotter, archived *models.ArchivedBlotter, previous models.BlotterStatus) *BlotterWriteResult {
	if archived == nil {
		return &BlotterWriteResult{Blotter: blotter}
	}
	s.Metrics.BlottersArchived.Inc()
	s.Events.Publish(BlotterEvent{Kind: BlotterEventArchived, BlotterID: blotter.ID, ArchivedID: archived.ID, Status: archived.Status, Previous: previous, Location: archived.Location})
	return &BlotterWriteResult{Archived: archived}
}
