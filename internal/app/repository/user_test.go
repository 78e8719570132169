package repository

import (
	"testing"
	"time"

	"backend/internal/app/apperr"
	"backend/internal/app/role"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHasRoleWithGrants(t *testing.T) {
	repo := setupRepo(t)
	user := createTestUser(t, repo, "worker", role.Contractor)

	// Статическая роль
	ok, err := repo.UserHasRole(user.ID, user.Role, role.Contractor)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UserHasRole(user.ID, user.Role, role.Support, role.Admin)
	require.NoError(t, err)
	assert.False(t, ok)

	// Динамический грант добавляет роль поверх статической
	require.NoError(t, repo.SetUserRoles(user.ID, []role.Role{role.Contractor, role.Support}))

	ok, err = repo.UserHasRole(user.ID, role.Contractor, role.Support)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSetUserRolesSyncsPrimary(t *testing.T) {
	repo := setupRepo(t)
	user := createTestUser(t, repo, "worker", role.Customer)

	require.NoError(t, repo.SetUserRoles(user.ID, []role.Role{role.Support, role.Contractor}))

	updated, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, role.Support, updated.Role)

	// Повторное назначение полностью заменяет набор
	require.NoError(t, repo.SetUserRoles(user.ID, []role.Role{role.Customer}))

	ok, err := repo.UserHasRole(user.ID, role.Customer, role.Support)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetUserRolesUnknownUser(t *testing.T) {
	repo := setupRepo(t)

	err := repo.SetUserRoles(999, []role.Role{role.Customer})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGetUserByIdentifier(t *testing.T) {
	repo := setupRepo(t)
	user := createTestUser(t, repo, "finder", role.Customer)

	byLogin, err := repo.GetUserByIdentifier("finder")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byLogin.ID)

	byEmail, err := repo.GetUserByIdentifier("finder@test.local")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byPhone, err := repo.GetUserByIdentifier("phone-finder")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byPhone.ID)
}

func TestListContractors(t *testing.T) {
	repo := setupRepo(t)
	customer := createTestUser(t, repo, "customer1", role.Customer)
	top := createTestUser(t, repo, "top", role.Contractor)
	createTestUser(t, repo, "newbie", role.Contractor)

	ad := createTestAd(t, repo, customer.ID)
	assignTestAd(t, repo, ad.ID, top.ID, time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC))
	require.NoError(t, repo.MarkContractorDone(ad.ID, top.ID))
	require.NoError(t, repo.ConfirmAdDone(ad.ID))

	done, err := repo.GetAdForUser(ad.ID, customer.ID, role.Customer)
	require.NoError(t, err)
	_, err = repo.CreateReview(done, customer.ID, 5, "")
	require.NoError(t, err)

	// Без фильтров видны оба, лучший первым
	all, err := repo.ListContractors(0, 0, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, top.ID, all[0].ID)
	assert.InDelta(t, 5.0, all[0].AvgRating, 0.001)
	assert.Equal(t, 1, all[0].CompletedAdsCount)

	// Фильтр по минимальному числу отзывов отсекает новичка
	rated, err := repo.ListContractors(0, 1, "")
	require.NoError(t, err)
	require.Len(t, rated, 1)
	assert.Equal(t, top.ID, rated[0].ID)

	// Сортировка по allow-list: неизвестное поле игнорируется
	byLogin, err := repo.ListContractors(0, 0, "login,drop_table")
	require.NoError(t, err)
	require.Len(t, byLogin, 2)
	assert.Equal(t, "newbie", byLogin[0].Login)
}

func TestGetContractorByID(t *testing.T) {
	repo := setupRepo(t)
	customer := createTestUser(t, repo, "customer1", role.Customer)
	contractor := createTestUser(t, repo, "contractor1", role.Contractor)

	found, err := repo.GetContractorByID(contractor.ID)
	require.NoError(t, err)
	assert.Equal(t, contractor.Login, found.Login)

	// Заказчик не является исполнителем
	_, err = repo.GetContractorByID(customer.ID)
	require.Error(t, err)
	assert.EqualError(t, err, "Contractor not found")
}
