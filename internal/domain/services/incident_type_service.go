package services

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/rules"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/metrics"
	Logger "github.com/iamstorage888/Caridad-BPS-Final-1-sub000/pkg/logger"
)

// MaxIncidentTypeLength matches the width of the name column.
const MaxIncidentTypeLength = 100

// InterfaceIncidentTypeService defines the incident type registry interface
type InterfaceIncidentTypeService interface {
	List(ctx context.Context) ([]string, error)
	Custom(ctx context.Context) ([]string, error)
	Register(ctx context.Context, name string) (bool, error)
}

// IncidentTypeService merges the built-in incident types with the custom
// ones users have entered
type IncidentTypeService struct {
	DB      *gorm.DB
	Config  *config.Config
	Metrics *metrics.Metrics
}

// NewIncidentTypeService creates a new incident type service
func NewIncidentTypeService(db *gorm.DB, cfg *config.Config, m *metrics.Metrics) InterfaceIncidentTypeService {
	return &IncidentTypeService{
		DB:      db,
		Config:  cfg,
		Metrics: m,
	}
}

// 1 List returns the effective list: defaults, custom types, then Other
func (s *IncidentTypeService) List(ctx context.Context) ([]string, error) {
	custom, err := s.Custom(ctx)
	if err != nil {
		return nil, err
	}
	return rules.MergeIncidentTypes(rules.DefaultIncidentTypes, custom), nil
}

// 2 Custom returns the registered custom types in insertion order
func (s *IncidentTypeService) Custom(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.DB.WithContext(ctx).Model(&models.IncidentType{}).Order("id ASC").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// 3 Register adds name unless it is built in or already registered. It
// reports whether a row was inserted.
func (s *IncidentTypeService) Register(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if err := validateIncidentTypeName(name); err != nil {
		return false, err
	}
	created, err := registerIncidentType(s.DB.WithContext(ctx), name)
	if err != nil {
		return false, err
	}
	if created {
		s.Metrics.IncidentTypesRegistered.Inc()
		Logger.Info("registered custom incident type %q", name)
	}
	return created, nil
}

func validateIncidentTypeName(name string) error {
	if name == "" {
		return invalidField("name", "incident type is required")
	}
	if len([]rune(name)) > MaxIncidentTypeLength {
		return invalidField("name", "incident type is too long")
	}
	return nil
}

// ensureKnownIncidentType rejects a blotter type that is neither built in
// nor registered, so stored blotters never carry a type the list omits.
func ensureKnownIncidentType(tx *gorm.DB, name string) error {
	if rules.IsDefaultIncidentType(name) {
		return nil
	}
	var count int64
	if err := tx.Model(&models.IncidentType{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return invalidField("incident_type", "unknown incident type, choose Other to add a new one")
	}
	return nil
}

// registerIncidentType inserts name with ON CONFLICT DO NOTHING, so two
// concurrent callers registering the same name both succeed and one row
// remains. Built-in names are never stored.
func registerIncidentType(tx *gorm.DB, name string) (bool, error) {
	if name == "" || rules.IsDefaultIncidentType(name) {
		return false, nil
	}
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&models.IncidentType{Name: name})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
