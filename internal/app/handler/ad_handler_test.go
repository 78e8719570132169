package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"backend/internal/app/ds"
	"backend/internal/app/dto"
	"backend/internal/app/repository"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAd(t *testing.T, repo *repository.Repository, creatorID uint) *ds.Ad {
	t.Helper()
	ad, err := repo.CreateAd(creatorID, "Paint the fence", "White, two layers", "painting")
	require.NoError(t, err)
	return ad
}

func TestCreateAdOnlyCustomers(t *testing.T) {
	h, repo := setupHandler(t)
	contractor := newTestUser(t, repo, "contractor", role.Contractor)

	c, w := testContext(t, http.MethodPost, gin.H{"title": "T", "category": "c"}, contractor)
	h.CreateAd(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Only customers can create ads")
}

func TestCreateAd(t *testing.T) {
	h, repo := setupHandler(t)
	customer := newTestUser(t, repo, "customer", role.Customer)

	c, w := testContext(t, http.MethodPost, gin.H{
		"title":    "Paint the fence",
		"category": "painting",
	}, customer)
	h.CreateAd(c)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.AdResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ds.AdStatusOpen, resp.Status)
	assert.Equal(t, customer.ID, resp.CreatorID)
	assert.Nil(t, resp.AssignedContractorID)

	// Без обязательных полей запрос отклоняется
	c, w = testContext(t, http.MethodPost, gin.H{"description": "no title"}, customer)
	h.CreateAd(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignAdValidation(t *testing.T) {
	h, repo := setupHandler(t)
	customer := newTestUser(t, repo, "customer", role.Customer)
	contractor := newTestUser(t, repo, "contractor", role.Contractor)
	ad := newTestAd(t, repo, customer.ID)

	_, err := repo.UpsertWorkRequest(ad.ID, contractor.ID, "")
	require.NoError(t, err)

	// Каждое обязательное поле проверяется отдельно
	c, w := testContext(t, http.MethodPost, gin.H{
		"scheduled_at": "2026-09-15T10:00:00Z",
		"location":     "Moscow",
	}, customer, idParam(ad.ID))
	h.AssignAd(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "contractor_id")

	c, w = testContext(t, http.MethodPost, gin.H{
		"contractor_id": contractor.ID,
		"location":      "Moscow",
	}, customer, idParam(ad.ID))
	h.AssignAd(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "scheduled_at")

	// Невалидная дата
	c, w = testContext(t, http.MethodPost, gin.H{
		"contractor_id": contractor.ID,
		"scheduled_at":  "tomorrow morning",
		"location":      "Moscow",
	}, customer, idParam(ad.ID))
	h.AssignAd(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ISO 8601")
}

func TestAssignAdFlow(t *testing.T) {
	h, repo := setupHandler(t)
	customer := newTestUser(t, repo, "customer", role.Customer)
	contractor := newTestUser(t, repo, "contractor", role.Contractor)
	stranger := newTestUser(t, repo, "stranger", role.Contractor)
	ad := newTestAd(t, repo, customer.ID)

	_, err := repo.UpsertWorkRequest(ad.ID, contractor.ID, "")
	require.NoError(t, err)

	body := gin.H{
		"contractor_id": contractor.ID,
		"scheduled_at":  "2026-09-15T10:00:00Z",
		"location":      "Moscow",
	}

	// Исполнитель без отклика не назначается
	c, w := testContext(t, http.MethodPost, gin.H{
		"contractor_id": stranger.ID,
		"scheduled_at":  "2026-09-15T10:00:00Z",
		"location":      "Moscow",
	}, customer, idParam(ad.ID))
	h.AssignAd(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "has not requested this ad")

	c, w = testContext(t, http.MethodPost, body, customer, idParam(ad.ID))
	h.AssignAd(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.AdResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ds.AdStatusAssigned, resp.Status)
	require.NotNil(t, resp.AssignedContractorID)
	assert.Equal(t, contractor.ID, *resp.AssignedContractorID)

	// Повторное назначение — уже не OPEN
	c, w = testContext(t, http.MethodPost, body, customer, idParam(ad.ID))
	h.AssignAd(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Only OPEN ads can be assigned")
}

func TestAssignAdOwnerOnly(t *testing.T) {
	h, repo := setupHandler(t)
	owner := newTestUser(t, repo, "owner", role.Customer)
	other := newTestUser(t, repo, "other", role.Customer)
	contractor := newTestUser(t, repo, "contractor", role.Contractor)
	ad := newTestAd(t, repo, owner.ID)

	_, err := repo.UpsertWorkRequest(ad.ID, contractor.ID, "")
	require.NoError(t, err)

	// Чужой заказчик видит OPEN объявление, но не управляет им
	c, w := testContext(t, http.MethodPost, gin.H{
		"contractor_id": contractor.ID,
		"scheduled_at":  "2026-09-15T10:00:00Z",
		"location":      "Moscow",
	}, other, idParam(ad.ID))
	h.AssignAd(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHiddenAdIsNotFound(t *testing.T) {
	h, repo := setupHandler(t)
	customer := newTestUser(t, repo, "customer", role.Customer)
	contractor := newTestUser(t, repo, "contractor", role.Contractor)
	outsider := newTestUser(t, repo, "outsider", role.Contractor)
	ad := newTestAd(t, repo, customer.ID)

	_, err := repo.UpsertWorkRequest(ad.ID, contractor.ID, "")
	require.NoError(t, err)
	_, err = repo.AssignAd(ad.ID, contractor.ID, time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC), "Moscow")
	require.NoError(t, err)

	// Назначенное другому объявление для постороннего неотличимо от несуществующего
	c, w := testContext(t, http.MethodGet, nil, outsider, idParam(ad.ID))
	h.GetAd(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = testContext(t, http.MethodPost, nil, outsider, idParam(ad.ID))
	h.ContractorDone(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContractorDoneRequiresAssignment(t *testing.T) {
	h, repo := setupHandler(t)
	customer := newTestUser(t, repo, "customer", role.Customer)
	contractor := newTestUser(t, repo, "contractor", role.Contractor)
	ad := newTestAd(t, repo, customer.ID)

	// OPEN объявление видно исполнителю, но он на него не назначен
	c, w := testContext(t, http.MethodPost, nil, contractor, idParam(ad.ID))
	h.ContractorDone(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "not assigned")
}

func TestConfirmDoneTwoPhase(t *testing.T) {
	h, repo := setupHandler(t)
	customer := newTestUser(t, repo, "customer", role.Customer)
	contractor := newTestUser(t, repo, "contractor", role.Contractor)
	ad := newTestAd(t, repo, customer.ID)

	_, err := repo.UpsertWorkRequest(ad.ID, contractor.ID, "")
	require.NoError(t, err)
	_, err = repo.AssignAd(ad.ID, contractor.ID, time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC), "Moscow")
	require.NoError(t, err)

	// Подтверждение раньше отметки исполнителя
	c, w := testContext(t, http.MethodPost, nil, customer, idParam(ad.ID))
	h.ConfirmDone(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "has not marked done yet")

	c, w = testContext(t, http.MethodPost, nil, contractor, idParam(ad.ID))
	h.ContractorDone(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	c, w = testContext(t, http.MethodPost, nil, customer, idParam(ad.ID))
	h.ConfirmDone(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	done, err := repo.GetAdForUser(ad.ID, customer.ID, role.Customer)
	require.NoError(t, err)
	assert.Equal(t, ds.AdStatusDone, done.Status)
}

func TestSubmitReviewRatingRange(t *testing.T) {
	h, repo := setupHandler(t)
	customer := newTestUser(t, repo, "customer", role.Customer)
	contractor := newTestUser(t, repo, "contractor", role.Contractor)
	ad := newTestAd(t, repo, customer.ID)

	_, err := repo.UpsertWorkRequest(ad.ID, contractor.ID, "")
	require.NoError(t, err)
	_, err = repo.AssignAd(ad.ID, contractor.ID, time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC), "Moscow")
	require.NoError(t, err)
	require.NoError(t, repo.MarkContractorDone(ad.ID, contractor.ID))
	require.NoError(t, repo.ConfirmAdDone(ad.ID))

	c, w := testContext(t, http.MethodPost, gin.H{"rating": 6}, customer, idParam(ad.ID))
	h.SubmitReview(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "between 1 and 5")

	c, w = testContext(t, http.MethodPost, gin.H{"rating": 5, "text": "great"}, customer, idParam(ad.ID))
	h.SubmitReview(c)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Дубликат отзыва
	c, w = testContext(t, http.MethodPost, gin.H{"rating": 4}, customer, idParam(ad.ID))
	h.SubmitReview(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already reviewed")
}

func TestCreateAdRequestOnlyOpen(t *testing.T) {
	h, repo := setupHandler(t)
	customer := newTestUser(t, repo, "customer", role.Customer)
	contractor := newTestUser(t, repo, "contractor", role.Contractor)
	ad := newTestAd(t, repo, customer.ID)

	// Заказчик не откликается на объявления
	c, w := testContext(t, http.MethodPost, gin.H{"message": "me"}, customer, idParam(ad.ID))
	h.CreateAdRequest(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, w = testContext(t, http.MethodPost, gin.H{"message": "I can help"}, contractor, idParam(ad.ID))
	h.CreateAdRequest(c)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// После отмены объявления отклики закрыты
	require.NoError(t, repo.CancelAd(ad.ID))
	c, w = testContext(t, http.MethodPost, gin.H{"message": "late"}, contractor, idParam(ad.ID))
	h.CreateAdRequest(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "only request OPEN ads")
}

func TestCancelAdRequestOwnership(t *testing.T) {
	h, repo := setupHandler(t)
	customer := newTestUser(t, repo, "customer", role.Customer)
	contractor := newTestUser(t, repo, "contractor", role.Contractor)
	other := newTestUser(t, repo, "other", role.Contractor)
	ad := newTestAd(t, repo, customer.ID)

	wr, err := repo.UpsertWorkRequest(ad.ID, contractor.ID, "")
	require.NoError(t, err)

	c, w := testContext(t, http.MethodPost, nil, other, idParam(wr.ID))
	h.CancelAdRequest(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, w = testContext(t, http.MethodPost, nil, contractor, idParam(wr.ID))
	h.CancelAdRequest(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestMyScheduleValidation(t *testing.T) {
	h, repo := setupHandler(t)
	customer := newTestUser(t, repo, "customer", role.Customer)
	contractor := newTestUser(t, repo, "contractor", role.Contractor)

	// У заказчика нет расписания
	c, w := testContext(t, http.MethodGet, nil, customer)
	h.MySchedule(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Дата обязательна
	c, w = testContext(t, http.MethodGet, nil, contractor)
	h.MySchedule(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = testContext(t, http.MethodGet, nil, contractor)
	c.Request.URL.RawQuery = "date=2026-09-15"
	h.MySchedule(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.ScheduleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2026-09-15", resp.Date)
	assert.Zero(t, resp.Count)
}
