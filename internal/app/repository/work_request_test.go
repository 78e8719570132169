package repository

import (
	"testing"
	"time"

	"backend/internal/app/apperr"
	"backend/internal/app/ds"
	"backend/internal/app/role"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertWorkRequestIdempotent(t *testing.T) {
	repo := setupRepo(t)
	customer := createTestUser(t, repo, "customer1", role.Customer)
	contractor := createTestUser(t, repo, "contractor1", role.Contractor)
	ad := createTestAd(t, repo, customer.ID)

	first, err := repo.UpsertWorkRequest(ad.ID, contractor.ID, "first message")
	require.NoError(t, err)
	assert.Equal(t, ds.RequestStatusPending, first.Status)

	// Повторный отклик не плодит дублей и не меняет PENDING
	again, err := repo.UpsertWorkRequest(ad.ID, contractor.ID, "second message")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "first message", again.Message)

	all, err := repo.GetRequestsForAd(ad.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReRequestAfterCancel(t *testing.T) {
	repo := setupRepo(t)
	customer := createTestUser(t, repo, "customer1", role.Customer)
	contractor := createTestUser(t, repo, "contractor1", role.Contractor)
	ad := createTestAd(t, repo, customer.ID)

	first, err := repo.UpsertWorkRequest(ad.ID, contractor.ID, "first try")
	require.NoError(t, err)
	require.NoError(t, repo.CancelWorkRequest(first.ID))

	// Отозванный отклик возобновляется той же записью с новым сообщением
	revived, err := repo.UpsertWorkRequest(ad.ID, contractor.ID, "second try")
	require.NoError(t, err)
	assert.Equal(t, first.ID, revived.ID)
	assert.Equal(t, ds.RequestStatusPending, revived.Status)
	assert.Equal(t, "second try", revived.Message)
}

func TestReRequestAfterRejection(t *testing.T) {
	repo := setupRepo(t)
	customer := createTestUser(t, repo, "customer1", role.Customer)
	loser := createTestUser(t, repo, "contractor1", role.Contractor)
	winner := createTestUser(t, repo, "contractor2", role.Contractor)
	ad := createTestAd(t, repo, customer.ID)

	lost, err := repo.UpsertWorkRequest(ad.ID, loser.ID, "")
	require.NoError(t, err)
	assignTestAd(t, repo, ad.ID, winner.ID, time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC))

	rejected, err := repo.GetWorkRequestByID(lost.ID)
	require.NoError(t, err)
	require.Equal(t, ds.RequestStatusRejected, rejected.Status)

	revived, err := repo.UpsertWorkRequest(ad.ID, loser.ID, "still interested")
	require.NoError(t, err)
	assert.Equal(t, lost.ID, revived.ID)
	assert.Equal(t, ds.RequestStatusPending, revived.Status)
}

func TestCancelWorkRequestStates(t *testing.T) {
	repo := setupRepo(t)
	customer := createTestUser(t, repo, "customer1", role.Customer)
	contractor := createTestUser(t, repo, "contractor1", role.Contractor)
	ad := createTestAd(t, repo, customer.ID)

	wr, err := repo.UpsertWorkRequest(ad.ID, contractor.ID, "")
	require.NoError(t, err)

	// ACCEPTED отклик тоже отзывается
	_, err = repo.AssignAd(ad.ID, contractor.ID, time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC), "Moscow")
	require.NoError(t, err)
	require.NoError(t, repo.CancelWorkRequest(wr.ID))

	// Из CANCELED отзыв уже невозможен
	err = repo.CancelWorkRequest(wr.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	assert.EqualError(t, err, "This request cannot be canceled now")
}

func TestGetContractorRequestsForAd(t *testing.T) {
	repo := setupRepo(t)
	customer := createTestUser(t, repo, "customer1", role.Customer)
	first := createTestUser(t, repo, "contractor1", role.Contractor)
	second := createTestUser(t, repo, "contractor2", role.Contractor)
	ad := createTestAd(t, repo, customer.ID)

	_, err := repo.UpsertWorkRequest(ad.ID, first.ID, "")
	require.NoError(t, err)
	_, err = repo.UpsertWorkRequest(ad.ID, second.ID, "")
	require.NoError(t, err)

	mine, err := repo.GetContractorRequestsForAd(ad.ID, first.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ContractorID)

	all, err := repo.GetRequestsForAd(ad.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetWorkRequestMissing(t *testing.T) {
	repo := setupRepo(t)
	customer := createTestUser(t, repo, "customer1", role.Customer)
	contractor := createTestUser(t, repo, "contractor1", role.Contractor)
	ad := createTestAd(t, repo, customer.ID)

	_, err := repo.GetWorkRequest(ad.ID, contractor.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.EqualError(t, err, "This contractor has not requested this ad")
}
