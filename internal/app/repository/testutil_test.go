package repository

import (
	"fmt"
	"testing"
	"time"

	"backend/internal/app/ds"
	"backend/internal/app/role"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupRepo поднимает репозиторий на in-memory SQLite с уникальным DSN,
// чтобы тесты не делили базу между собой
func setupRepo(t *testing.T) *Repository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	repo, err := NewWithDB(db)
	require.NoError(t, err)
	return repo
}

func createTestUser(t *testing.T, r *Repository, login string, userRole role.Role) *ds.User {
	t.Helper()

	user, err := r.CreateUser(login, "hash", login+"@test.local", "phone-"+login, "", userRole)
	require.NoError(t, err)
	return user
}

func createTestAd(t *testing.T, r *Repository, creatorID uint) *ds.Ad {
	t.Helper()

	ad, err := r.CreateAd(creatorID, "Fix kitchen sink", "Leaking pipe under the sink", "plumbing")
	require.NoError(t, err)
	return ad
}

// assignTestAd проводит объявление через отклик и назначение
func assignTestAd(t *testing.T, r *Repository, adID, contractorID uint, at time.Time) *ds.Ad {
	t.Helper()

	_, err := r.UpsertWorkRequest(adID, contractorID, "I can do it")
	require.NoError(t, err)

	ad, err := r.AssignAd(adID, contractorID, at, "Moscow, Lenina 1")
	require.NoError(t, err)
	return ad
}
