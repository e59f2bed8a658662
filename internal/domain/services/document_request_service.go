package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/rules"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
)

// InterfaceDocumentRequestService defines the document request service interface
type InterfaceDocumentRequestService interface {
	GetAllRequests(ctx context.Context, q models.PaginationQuery, status models.DocumentRequestStatus, search string) ([]models.DocumentRequest, int64, error)
	GetRequestByID(ctx context.Context, id uint) (*models.DocumentRequest, error)
	CreateRequest(ctx context.Context, actor Actor, request *models.DocumentRequest) error
	UpdateRequest(ctx context.Context, id uint, input *models.DocumentRequest) (*models.DocumentRequest, error)
	UpdateRequestStatus(ctx context.Context, actor Actor, id uint, status models.DocumentRequestStatus, remarks string) (*models.DocumentRequest, error)
	DeleteRequest(ctx context.Context, id uint) error
}

// DocumentRequestService manages requests for barangay documents
type DocumentRequestService struct {
	DB     *gorm.DB
	Config *config.Config
	now    func() time.Time
}

// NewDocumentRequestService creates a new document request service
func NewDocumentRequestService(db *gorm.DB, cfg *config.Config) InterfaceDocumentRequestService {
	return &DocumentRequestService{
		DB:     db,
		Config: cfg,
		now:    time.Now,
	}
}

// 1 GetAllRequests lists requests newest first
func (s *DocumentRequestService) GetAllRequests(ctx context.Context, q models.PaginationQuery, status models.DocumentRequestStatus, search string) ([]models.DocumentRequest, int64, error) {
	q = q.Normalize()
	query := s.DB.WithContext(ctx).Model(&models.DocumentRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if strings.TrimSpace(search) != "" {
		p := likePattern(search)
		query = query.Where("LOWER(resident_name) LIKE ? OR LOWER(purpose) LIKE ?", p, p)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var requests []models.DocumentRequest
	if err := query.Order("created_at DESC, id DESC").Offset(q.Offset()).Limit(q.PageSize).Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// 2 GetRequestByID loads one request
func (s *DocumentRequestService) GetRequestByID(ctx context.Context, id uint) (*models.DocumentRequest, error) {
	var request models.DocumentRequest
	if err := s.DB.WithContext(ctx).First(&request, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &request, nil
}

// 3 CreateRequest stores a pending request. A resident id, when given, must
// exist; the resident name is then taken from the record if empty.
func (s *DocumentRequestService) CreateRequest(ctx context.Context, actor Actor, request *models.DocumentRequest) error {
	db := s.DB.WithContext(ctx)
	if request.ResidentID != nil {
		var resident models.Resident
		if err := db.First(&resident, *request.ResidentID).Error; err != nil {
			if err = notFound(err); err == ErrNotFound {
				return invalidField("resident_id", "resident does not exist")
			}
			return err
		}
		if strings.TrimSpace(request.ResidentName) == "" {
			request.ResidentName = resident.FullName()
		}
	}
	request.ResidentName = strings.TrimSpace(request.ResidentName)
	request.Purpose = strings.TrimSpace(request.Purpose)
	request.Status = models.DocumentRequestPending
	if err := invalid(rules.ValidateDocumentRequest(request)); err != nil {
		return err
	}
	request.ID = 0
	request.ProcessedBy = nil
	request.ReleasedAt = nil
	return db.Create(request).Error
}

// 4 UpdateRequest changes the type, purpose, remarks and details
func (s *DocumentRequestService) UpdateRequest(ctx context.Context, id uint, input *models.DocumentRequest) (*models.DocumentRequest, error) {
	request, err := s.GetRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	request.ResidentName = strings.TrimSpace(input.ResidentName)
	request.DocumentType = input.DocumentType
	request.Purpose = strings.TrimSpace(input.Purpose)
	request.Remarks = input.Remarks
	if input.Details != nil {
		request.Details = input.Details
	}
	if err := invalid(rules.ValidateDocumentRequest(request)); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Save(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// 5 UpdateRequestStatus moves a request along. Releasing stamps the release
// time; any change records who processed it.
func (s *DocumentRequestService) UpdateRequestStatus(ctx context.Context, actor Actor, id uint, status models.DocumentRequestStatus, remarks string) (*models.DocumentRequest, error) {
	if !status.Valid() {
		return nil, invalidField("status", "unknown status")
	}
	request, err := s.GetRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status == models.DocumentRequestReleased && status != models.DocumentRequestReleased {
		return nil, fmt.Errorf("%w: request %d was already released", ErrConflict, id)
	}

	updates := map[string]interface{}{"status": status}
	if actor.UserID != 0 {
		updates["processed_by"] = actor.UserID
	}
	if remarks != "" {
		updates["remarks"] = remarks
	}
	if status == models.DocumentRequestReleased && request.ReleasedAt == nil {
		updates["released_at"] = s.now()
	}
	if err := s.DB.WithContext(ctx).Model(request).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetRequestByID(ctx, id)
}

// 6 DeleteRequest removes a request
func (s *DocumentRequestService) DeleteRequest(ctx context.Context, id uint) error {
	result := s.DB.WithContext(ctx).Delete(&models.DocumentRequest{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
