package services

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/metrics"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/test/testdb"
)

var testNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		DBDriver:     "sqlite",
		JWTSecretKey: "test-secret",
		SessionTTL:   time.Hour,
		BlobDriver:   "memory",
	}
}

func testMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testdb.Open(t)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// recordingEvents keeps published events for assertions
type recordingEvents struct {
	mu     sync.Mutex
	events []BlotterEvent
}

func (r *recordingEvents) Publish(event BlotterEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingEvents) Disconnect() {}

func (r *recordingEvents) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]string, 0, len(r.events))
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func validBlotterFields() models.BlotterFields {
	return models.BlotterFields{
		Complainant:  "Maria Santos",
		Respondent:   "Jose Rizal",
		IncidentType: "Theft",
		IncidentDate: date(2024, time.March, 10),
		Location:     "Purok 3",
		Details:      "Bicycle taken from the front yard overnight.",
	}
}

func validResident(first, last string) *models.Resident {
	return &models.Resident{
		FirstName: first,
		LastName:  last,
		Sex:       models.SexFemale,
		Birthday:  date(1990, time.June, 1),
		Purok:     "Purok 2",
	}
}
