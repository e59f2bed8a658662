package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
	Logger "github.com/iamstorage888/Caridad-BPS-Final-1-sub000/pkg/logger"
)

// InterfaceOperationLogService defines the activity log service interface
type InterfaceOperationLogService interface {
	Record(ctx context.Context, actor Actor, operation string, entityID uint, details string, success bool)
	List(ctx context.Context, q models.PaginationQuery, operation string) ([]models.OperationLog, int64, error)
}

// OperationLogService appends to and reads the activity log
type OperationLogService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewOperationLogService creates a new activity log service
func NewOperationLogService(db *gorm.DB, cfg *config.Config) InterfaceOperationLogService {
	return &OperationLogService{
		DB:     db,
		Config: cfg,
	}
}

func newOperationLog(actor Actor, operation string, entityID uint, details string, success bool) *models.OperationLog {
	return &models.OperationLog{
		OperationType: operation,
		EntityID:      entityID,
		UserID:        actor.UserID,
		Details:       details,
		Timestamp:     time.Now(),
		Success:       success,
		IPAddress:     actor.IP,
	}
}

// writeOperationLog appends an entry using tx, so it commits with the caller.
func writeOperationLog(tx *gorm.DB, actor Actor, operation string, entityID uint, details string) error {
	return tx.Create(newOperationLog(actor, operation, entityID, details, true)).Error
}

// 1 Record appends an entry. Failures are logged and never returned.
func (s *OperationLogService) Record(ctx context.Context, actor Actor, operation string, entityID uint, details string, success bool) {
	entry := newOperationLog(actor, operation, entityID, details, success)
	if err := s.DB.WithContext(ctx).Create(entry).Error; err != nil {
		Logger.Error("failed to record operation %s on %d: %v", operation, entityID, err)
	}
}

// 2 List returns the log newest first, optionally filtered by operation type
func (s *OperationLogService) List(ctx context.Context, q models.PaginationQuery, operation string) ([]models.OperationLog, int64, error) {
	q = q.Normalize()
	query := s.DB.WithContext(ctx).Model(&models.OperationLog{})
	if operation != "" {
		query = query.Where("operation_type = ?", operation)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var logs []models.OperationLog
	if err := query.Order("timestamp DESC, id DESC").Offset(q.Offset()).Limit(q.PageSize).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
