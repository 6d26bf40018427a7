package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/solvento/hrcore/internal/database/testutil"
	"github.com/solvento/hrcore/internal/models"
)

func TestRunPurgesOnlyExpiredRetiredRows(t *testing.T) {
	db := testutil.MustOpenTestDB(t)
	cleaner := NewCleaner(db, WithRetention(24*time.Hour))

	old := time.Now().UTC().Add(-48 * time.Hour)
	recent := time.Now().UTC().Add(-time.Hour)

	expired := models.UserPermission{UserID: 1, Endpoint: "/api/v1/users", Method: "GET"}
	expired.IsDeleted = true
	expired.DeletedAt = &old
	require.NoError(t, db.Create(&expired).Error)

	fresh := models.UserPermission{UserID: 1, Endpoint: "/api/v1/users", Method: "POST"}
	fresh.IsDeleted = true
	fresh.DeletedAt = &recent
	require.NoError(t, db.Create(&fresh).Error)

	live := models.UserPermission{UserID: 1, Endpoint: "/api/v1/users", Method: "PUT"}
	live.IsActive = true
	require.NoError(t, db.Create(&live).Error)

	require.NoError(t, cleaner.Run(context.Background()))

	var remaining []models.UserPermission
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 2)
	for _, g := range remaining {
		require.NotEqual(t, expired.ID, g.ID)
	}
}
