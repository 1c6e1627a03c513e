package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"thalassist/internal/domain/repository"
	"thalassist/internal/infra/persistence/memory"

	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// seededRegistry returns a registry holding the demo donors D001 to D005.
func seededRegistry(t *testing.T, now time.Time) repository.DonorRepository {
	t.Helper()

	repo := memory.NewDonorRepository()
	n, err := memory.SeedSampleDonors(context.Background(), repo, now)
	require.NoError(t, err)
	require.Equal(t, 5, n)

	return repo
}

func newTestDonorService(repo repository.DonorRepository, now time.Time) *donorService {
	srv := NewDonorService(DonorServiceParams{DonorRepo: repo, Logger: newDiscardLogger()}).(*donorService)
	srv.now = fixedClock(now)

	return srv
}

func newTestMatchService(repo repository.DonorRepository, now time.Time) *matchService {
	srv := NewMatchService(MatchServiceParams{DonorRepo: repo, Logger: newDiscardLogger()}).(*matchService)
	srv.now = fixedClock(now)

	return srv
}
