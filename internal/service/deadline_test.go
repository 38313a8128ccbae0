package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Rafuego/symphony-v3/internal/models"
)

func timedRequest(start time.Time, extensionHours int) *models.Request {
	return &models.Request{
		Status:         models.StatusInProgress,
		StartedAt:      &start,
		ExtensionHours: extensionHours,
	}
}

func TestRemainingNotApplicableWithoutStart(t *testing.T) {
	_, ok := Remaining(&models.Request{Status: models.StatusInQueue}, time.Now())
	require.False(t, ok)
}

func TestRemainingJustBeforeDeadline(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	cd, ok := Remaining(timedRequest(start, 0), start.Add(47*time.Hour+59*time.Minute))
	require.True(t, ok)
	require.False(t, cd.Expired)
	require.Equal(t, 0, cd.Hours)
	require.Equal(t, 59, cd.Minutes)
	require.Equal(t, 48, cd.TotalHours)
	require.Greater(t, cd.PercentRemaining, 0.0)
}

func TestRemainingJustAfterDeadline(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	cd, ok := Remaining(timedRequest(start, 0), start.Add(48*time.Hour+time.Second))
	require.True(t, ok)
	require.True(t, cd.Expired)
	require.Equal(t, 0, cd.Hours)
	require.Equal(t, 0, cd.Minutes)
	require.Equal(t, 0.0, cd.PercentRemaining)
}

func TestRemainingExactlyAtDeadlineIsExpired(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	cd, _ := Remaining(timedRequest(start, 0), start.Add(48*time.Hour))
	require.True(t, cd.Expired)
}

func TestRemainingWithExtensions(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	// 48 base + 72 extension = 120h window
	cd, ok := Remaining(timedRequest(start, 72), start.Add(100*time.Hour))
	require.True(t, ok)
	require.False(t, cd.Expired)
	require.Equal(t, 120, cd.TotalHours)
	require.Equal(t, 20, cd.Hours)
	require.Equal(t, 0, cd.Minutes)

	cd, _ = Remaining(timedRequest(start, 72), start.Add(121*time.Hour))
	require.True(t, cd.Expired)
}

func TestRemainingFullWindowAtStart(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	cd, _ := Remaining(timedRequest(start, 0), start)
	require.False(t, cd.Expired)
	require.Equal(t, 48, cd.Hours)
	require.InDelta(t, 100.0, cd.PercentRemaining, 0.001)
}
