package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
)

func TestDashboardStats(t *testing.T) {
	db := openTestDB(t)
	cfg := testConfig()
	ctx := context.Background()

	senior := validResident("Lola", "Basyang")
	senior.Birthday = date(1964, time.March, 15) // turns 60 on testNow
	senior.VoterDeclared = true
	almost := validResident("Tito", "Sotto")
	almost.Sex = models.SexMale
	almost.Birthday = date(1964, time.March, 16)
	almost.NationalIDFrontURL = "https://blobs.example.com/id.png"
	young := validResident("Bea", "Alonzo")
	young.IDURL = "ftp://not-a-document"
	for _, r := range []*models.Resident{senior, almost, young} {
		require.NoError(t, db.Create(r).Error)
	}
	require.NoError(t, db.Create(&models.Household{HouseholdNumber: "HH-001", HouseholdName: "Basyang", Purok: "Purok 1"}).Error)
	require.NoError(t, db.Create(&models.DocumentRequest{ResidentName: "Bea Alonzo", DocumentType: models.DocumentClearance, Purpose: "Work", Status: models.DocumentRequestPending}).Error)

	blotters := NewBlotterService(db, cfg, nil, testMetrics()).(*BlotterService)
	blotters.now = func() time.Time { return testNow }
	for _, status := range []models.BlotterStatus{models.BlotterStatusFiled, models.BlotterStatusFiled, models.BlotterStatusMediation, models.BlotterStatusClosed} {
		fields := validBlotterFields()
		fields.Status = status
		_, err := blotters.CreateBlotter(ctx, Actor{}, BlotterInput{BlotterFields: fields})
		require.NoError(t, err)
	}

	svc := NewDashboardService(db, cfg).(*DashboardService)
	svc.now = func() time.Time { return testNow }
	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalResidents)
	assert.Equal(t, int64(1), stats.TotalHouseholds)
	assert.Equal(t, int64(1), stats.Male)
	assert.Equal(t, int64(2), stats.Female)
	assert.Equal(t, int64(2), stats.RegisteredVoters)
	assert.Equal(t, int64(1), stats.SeniorCitizens)
	assert.Equal(t, int64(3), stats.ActiveBlotters)
	assert.Equal(t, int64(2), stats.BlottersByStatus[models.BlotterStatusFiled])
	assert.Equal(t, int64(1), stats.BlottersByStatus[models.BlotterStatusMediation])
	assert.Equal(t, int64(1), stats.ArchivedBlotters)
	assert.Equal(t, int64(1), stats.PendingDocumentRequests)
}
