package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/rules"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
)

// SeniorCitizenAge is the age from which a resident counts as a senior
const SeniorCitizenAge = 60

// DashboardStats are the headline numbers of the portal home page
type DashboardStats struct {
	TotalResidents          int64                          `json:"total_residents"`
	TotalHouseholds         int64                          `json:"total_households"`
	Male                    int64                          `json:"male"`
	Female                  int64                          `json:"female"`
	RegisteredVoters        int64                          `json:"registered_voters"`
	SeniorCitizens          int64                          `json:"senior_citizens"`
	ActiveBlotters          int64                          `json:"active_blotters"`
	BlottersByStatus        map[models.BlotterStatus]int64 `json:"blotters_by_status"`
	ArchivedBlotters        int64                          `json:"archived_blotters"`
	PendingDocumentRequests int64                          `json:"pending_document_requests"`
	GeneratedAt             time.Time                      `json:"generated_at"`
}

// InterfaceDashboardService defines the dashboard service interface
type InterfaceDashboardService interface {
	GetStats(ctx context.Context) (*DashboardStats, error)
}

// DashboardService aggregates counts across the portal tables
type DashboardService struct {
	DB     *gorm.DB
	Config *config.Config
	now    func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB, cfg *config.Config) InterfaceDashboardService {
	return &DashboardService{
		DB:     db,
		Config: cfg,
		now:    time.Now,
	}
}

type statusCount struct {
	Status models.BlotterStatus
	Count  int64
}

// 1 GetStats runs the aggregate queries concurrently. Registered voters and
// seniors are computed in Go from the residents' evidence and birthdays, so
// the counts match the classifier and Resident.Age.
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	now := s.now()
	stats := &DashboardStats{GeneratedAt: now, BlottersByStatus: map[models.BlotterStatus]int64{}}
	g, ctx := errgroup.WithContext(ctx)
	db := s.DB

	count := func(dst *int64, model interface{}, query string, args ...interface{}) {
		g.Go(func() error {
			q := db.WithContext(ctx).Model(model)
			if query != "" {
				q = q.Where(query, args...)
			}
			return q.Count(dst).Error
		})
	}
	count(&stats.TotalResidents, &models.Resident{}, "")
	count(&stats.TotalHouseholds, &models.Household{}, "")
	count(&stats.Male, &models.Resident{}, "sex = ?", models.SexMale)
	count(&stats.Female, &models.Resident{}, "sex = ?", models.SexFemale)
	count(&stats.ArchivedBlotters, &models.ArchivedBlotter{}, "")
	count(&stats.PendingDocumentRequests, &models.DocumentRequest{}, "status = ?", models.DocumentRequestPending)

	g.Go(func() error {
		var residents []models.Resident
		if err := db.WithContext(ctx).
			Select("id", "birthday", "national_id_front_url", "national_id_back_url", "voters_id_front_url", "voters_id_back_url", "id_url", "voter_declared").
			Find(&residents).Error; err != nil {
			return err
		}
		var voters, seniors int64
		for i := range residents {
			if rules.IsRegisteredVoter(rules.ResidentVoterEvidence(&residents[i])) {
				voters++
			}
			if residents[i].Age(now) >= SeniorCitizenAge {
				seniors++
			}
		}
		stats.RegisteredVoters = voters
		stats.SeniorCitizens = seniors
		return nil
	})

	var byStatus []statusCount
	g.Go(func() error {
		return db.WithContext(ctx).Model(&models.Blotter{}).
			Select("status, COUNT(*) AS count").
			Group("status").
			Scan(&byStatus).Error
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, sc := range byStatus {
		stats.BlottersByStatus[sc.Status] = sc.Count
		stats.ActiveBlotters += sc.Count
	}
	return stats, nil
}
