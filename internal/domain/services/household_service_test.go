package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
)

func newHouseholdService(t *testing.T) (*HouseholdService, *ResidentService) {
	t.Helper()
	db := openTestDB(t)
	cfg := testConfig()
	households := NewHouseholdService(db, cfg).(*HouseholdService)
	residents := NewResidentService(db, cfg, nil, testMetrics()).(*ResidentService)
	return households, residents
}

func TestCreateHouseholdAllocatesNumbers(t *testing.T) {
	svc, _ := newHouseholdService(t)
	ctx := context.Background()

	next, err := svc.NextHouseholdNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "HH-001", next)

	first := &models.Household{HouseholdName: "Rizal", Purok: "Purok 1"}
	require.NoError(t, svc.CreateHousehold(ctx, first))
	assert.Equal(t, "HH-001", first.HouseholdNumber)

	explicit := &models.Household{HouseholdNumber: "HH-010", HouseholdName: "Luna", Purok: "Purok 2"}
	require.NoError(t, svc.CreateHousehold(ctx, explicit))

	third := &models.Household{HouseholdName: "Mabini", Purok: "Purok 3"}
	require.NoError(t, svc.CreateHousehold(ctx, third))
	assert.Equal(t, "HH-011", third.HouseholdNumber)
}

func TestCreateHouseholdValidatesAndRejectsDuplicates(t *testing.T) {
	svc, _ := newHouseholdService(t)
	ctx := context.Background()

	err := svc.CreateHousehold(ctx, &models.Household{HouseholdNumber: "12", HouseholdName: "X", Purok: "Purok 9"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "household_number")
	assert.Contains(t, verr.Fields, "purok")

	require.NoError(t, svc.CreateHousehold(ctx, &models.Household{HouseholdNumber: "HH-002", HouseholdName: "A", Purok: "Purok 1"}))
	err = svc.CreateHousehold(ctx, &models.Household{HouseholdNumber: "HH-002", HouseholdName: "B", Purok: "Purok 1"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestExplicitHouseholdNumbersArePadded(t *testing.T) {
	svc, residents := newHouseholdService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateHousehold(ctx, &models.Household{HouseholdNumber: "HH-001", HouseholdName: "Rizal", Purok: "Purok 1"}))
	err := svc.CreateHousehold(ctx, &models.Household{HouseholdNumber: "HH-1", HouseholdName: "Luna", Purok: "Purok 1"})
	assert.ErrorIs(t, err, ErrConflict)

	short := &models.Household{HouseholdNumber: "HH-7", HouseholdName: "Mabini", Purok: "Purok 2"}
	require.NoError(t, svc.CreateHousehold(ctx, short))
	assert.Equal(t, "HH-007", short.HouseholdNumber)

	updated, err := svc.UpdateHousehold(ctx, short.ID, &models.Household{HouseholdNumber: "HH-8", HouseholdName: "Mabini", Purok: "Purok 2"})
	require.NoError(t, err)
	assert.Equal(t, "HH-008", updated.HouseholdNumber)

	_, err = svc.UpdateHousehold(ctx, short.ID, &models.Household{HouseholdNumber: "HH-1", HouseholdName: "Mabini", Purok: "Purok 2"})
	assert.ErrorIs(t, err, ErrConflict)

	member := validResident("Apolinario", "Mabini")
	member.HouseholdNumber = "HH-8"
	require.NoError(t, residents.CreateResident(ctx, Actor{}, member))
	assert.Equal(t, "HH-008", member.HouseholdNumber)
}

func TestHouseholdMembersAndDeleteGuard(t *testing.T) {
	svc, residents := newHouseholdService(t)
	ctx := context.Background()

	household := &models.Household{HouseholdName: "Aguinaldo", Purok: "Purok 6"}
	require.NoError(t, svc.CreateHousehold(ctx, household))

	member := validResident("Emilio", "Aguinaldo")
	member.HouseholdNumber = household.HouseholdNumber
	member.IsFamilyHead = true
	require.NoError(t, residents.CreateResident(ctx, Actor{}, member))

	got, err := svc.GetHouseholdByID(ctx, household.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MembersCount)
	require.Len(t, got.Members, 1)
	assert.Equal(t, member.ID, got.Members[0].ID)

	err = svc.DeleteHousehold(ctx, Actor{UserID: 1}, household.ID)
	assert.ErrorIs(t, err, ErrHouseholdHasMembers)

	require.NoError(t, residents.DeleteResident(ctx, Actor{}, member.ID))
	require.NoError(t, svc.DeleteHousehold(ctx, Actor{UserID: 1}, household.ID))
	_, err = svc.GetHouseholdByID(ctx, household.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateHouseholdRenumbersMembers(t *testing.T) {
	svc, residents := newHouseholdService(t)
	ctx := context.Background()

	household := &models.Household{HouseholdName: "Silang", Purok: "Purok 7"}
	require.NoError(t, svc.CreateHousehold(ctx, household))
	member := validResident("Diego", "Silang")
	member.HouseholdNumber = household.HouseholdNumber
	require.NoError(t, residents.CreateResident(ctx, Actor{}, member))

	updated, err := svc.UpdateHousehold(ctx, household.ID, &models.Household{HouseholdNumber: "HH-050", HouseholdName: "Silang Family", Purok: "Purok 7"})
	require.NoError(t, err)
	assert.Equal(t, "HH-050", updated.HouseholdNumber)
	assert.Equal(t, "Silang Family", updated.HouseholdName)
	require.Len(t, updated.Members, 1)

	moved, err := residents.GetResidentByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "HH-050", moved.HouseholdNumber)
}

func TestHouseholdListFilters(t *testing.T) {
	svc, _ := newHouseholdService(t)
	ctx := context.Background()
	require.NoError(t, svc.CreateHousehold(ctx, &models.Household{HouseholdName: "Rizal", Purok: "Purok 1"}))
	require.NoError(t, svc.CreateHousehold(ctx, &models.Household{HouseholdName: "Bonifacio", Purok: "Purok 2"}))

	list, total, err := svc.GetAllHouseholds(ctx, models.PaginationQuery{}, "Purok 2", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Bonifacio", list[0].HouseholdName)

	list, _, err = svc.GetAllHouseholds(ctx, models.PaginationQuery{}, "", "riz")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "HH-001", list[0].HouseholdNumber)
}
