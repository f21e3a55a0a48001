package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shopupgh/shopup-api/internal/models"
	"github.com/shopupgh/shopup-api/internal/utils"
)

type fakeCampusLister struct {
	campuses []models.Campus
	err      error
	calls    int
}

func (f *fakeCampusLister) ListActive() ([]models.Campus, error) {
	f.calls++
	return f.campuses, f.err
}

func TestListCampusesWithoutCache(t *testing.T) {
	lister := &fakeCampusLister{campuses: []models.Campus{
		{ID: "c1", Name: "University of Ghana", City: "Accra"},
		{ID: "c2", Name: "KNUST", City: "Kumasi"},
	}}
	svc := NewCampusService(lister, nil)

	got, err := svc.ListCampuses(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Without a cache every call goes to the store.
	_, err = svc.ListCampuses(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, lister.calls)
}

func TestListCampusesStoreFailure(t *testing.T) {
	lister := &fakeCampusLister{err: fmt.Errorf("connection refused")}
	svc := NewCampusService(lister, nil)

	_, err := svc.ListCampuses(context.Background())
	require.ErrorIs(t, err, utils.ErrStore)
}
