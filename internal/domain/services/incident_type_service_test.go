package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/rules"
)

func TestIncidentTypeRegistry(t *testing.T) {
	db := openTestDB(t)
	svc := NewIncidentTypeService(db, testConfig(), testMetrics())
	ctx := context.Background()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, rules.DefaultIncidentTypes, list)

	created, err := svc.Register(ctx, "Loitering")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Register(ctx, " Loitering ")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = svc.Register(ctx, "Theft")
	require.NoError(t, err)
	assert.False(t, created, "built-in types are not stored")

	_, err = svc.Register(ctx, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Loitering", list[len(list)-2])
	assert.Equal(t, "Other", list[len(list)-1])
}

func TestIncidentTypeConcurrentRegistrationKeepsBoth(t *testing.T) {
	db := openTestDB(t)
	svc := NewIncidentTypeService(db, testConfig(), testMetrics())
	ctx := context.Background()

	var wg sync.WaitGroup
	names := []string{"Loitering", "Illegal Parking", "Loitering", "Illegal Parking"}
	errs := make([]error, len(names))
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, name)
		}(i, name)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&models.IncidentType{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	custom, err := svc.Custom(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Loitering", "Illegal Parking"}, custom)
}
