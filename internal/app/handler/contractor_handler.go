package handler

import (
	"net/http"
	"strconv"

	"backend/internal/app/apperr"
	"backend/internal/app/dto"

	"github.com/gin-gonic/gin"
)

// Публичная витрина исполнителей: листинг с агрегатами отзывов,
// карточка исполнителя и его отзывы

// ListContractors возвращает список исполнителей
// @Summary Список исполнителей
// @Description Возвращает исполнителей с агрегатами отзывов, фильтрами и сортировкой
// @Tags Contractors
// @Produce json
// @Security BearerAuth
// @Param min_avg_rating query number false "Минимальная средняя оценка"
// @Param min_review_count query int false "Минимальное число отзывов"
// @Param ordering query string false "Сортировка, напр. -avg_rating,login"
// @Success 200 {array} repository.ContractorInfo
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/contractors [get]
func (h *APIHandler) ListContractors(c *gin.Context) {
	var minAvgRating float64
	var minReviewCount int
	var err error

	if v := c.Query("min_avg_rating"); v != "" {
		minAvgRating, err = strconv.ParseFloat(v, 64)
		if err != nil {
			h.appError(c, apperr.Validation("min_avg_rating must be a number"))
			return
		}
	}
	if v := c.Query("min_review_count"); v != "" {
		minReviewCount, err = strconv.Atoi(v)
		if err != nil {
			h.appError(c, apperr.Validation("min_review_count must be an integer"))
			return
		}
	}

	contractors, err := h.Repository.ListContractors(minAvgRating, minReviewCount, c.Query("ordering"))
	if err != nil {
		h.appError(c, err)
		return
	}

	c.JSON(http.StatusOK, contractors)
}

// GetContractorProfile возвращает карточку исполнителя
// @Summary Профиль исполнителя
// @Description Возвращает исполнителя с агрегатами и списком отзывов
// @Tags Contractors
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID исполнителя"
// @Success 200 {object} dto.ContractorProfileResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/contractors/{id} [get]
func (h *APIHandler) GetContractorProfile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.appError(c, apperr.Validation("Invalid contractor ID"))
		return
	}

	contractor, err := h.Repository.GetContractorByID(uint(id))
	if err != nil {
		h.appError(c, err)
		return
	}

	avgRating, reviewCount, err := h.Repository.GetContractorAggregates(contractor.ID)
	if err != nil {
		h.appError(c, err)
		return
	}

	completed, err := h.Repository.CountCompletedAds(contractor.ID)
	if err != nil {
		h.appError(c, err)
		return
	}

	reviews, err := h.Repository.GetContractorReviews(contractor.ID, 0, 0)
	if err != nil {
		h.appError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ContractorProfileResponse{
		ID:                contractor.ID,
		Login:             contractor.Login,
		Role:              contractor.Role,
		CompletedAdsCount: completed,
		AvgRating:         avgRating,
		ReviewCount:       reviewCount,
		Reviews:           reviewsToDTO(reviews),
	})
}

// GetContractorReviews возвращает отзывы исполнителя
// @Summary Отзывы исполнителя
// @Description Возвращает отзывы исполнителя с фильтрами по оценке
// @Tags Contractors
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID исполнителя"
// @Param rating query int false "Точная оценка"
// @Param min_rating query int false "Минимальная оценка"
// @Success 200 {object} dto.ContractorReviewsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/contractors/{id}/reviews [get]
func (h *APIHandler) GetContractorReviews(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.appError(c, apperr.Validation("Invalid contractor ID"))
		return
	}

	contractor, err := h.Repository.GetContractorByID(uint(id))
	if err != nil {
		h.appError(c, err)
		return
	}

	rating, _ := strconv.Atoi(c.Query("rating"))
	minRating, _ := strconv.Atoi(c.Query("min_rating"))

	reviews, err := h.Repository.GetContractorReviews(contractor.ID, rating, minRating)
	if err != nil {
		h.appError(c, err)
		return
	}

	avgRating, reviewCount, err := h.Repository.GetContractorAggregates(contractor.ID)
	if err != nil {
		h.appError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ContractorReviewsResponse{
		ContractorID: contractor.ID,
		ReviewCount:  reviewCount,
		AvgRating:    avgRating,
		Reviews:      reviewsToDTO(reviews),
	})
}
