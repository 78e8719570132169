package handler

import (
	"net/http"

	"backend/internal/app/apperr"
	"backend/internal/app/dto"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
)

// Отзыв открывается только после статуса DONE: один отзыв на пару
// (объявление, автор), оценка в диапазоне 1..5

// SubmitReview оставляет отзыв на выполненное объявление
// @Summary Создание отзыва
// @Description Владелец (или персонал) оставляет отзыв исполнителю после завершения работы
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID объявления"
// @Param request body dto.CreateReviewRequest true "Оценка и текст"
// @Success 201 {object} dto.ReviewResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/ads/{id}/review [post]
func (h *APIHandler) SubmitReview(c *gin.Context) {
	ad, userID, userRole, ok := h.loadAd(c)
	if !ok {
		return
	}

	if !h.canManageAd(userID, userRole, ad) {
		h.appError(c, apperr.Forbidden("Only the ad owner can review"))
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if req.Rating < 1 || req.Rating > 5 {
		h.appError(c, apperr.Validation("Rating must be between 1 and 5"))
		return
	}

	review, err := h.Repository.CreateReview(ad, userID, req.Rating, req.Text)
	if err != nil {
		h.appError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ReviewResponse{
		ID:           review.ID,
		AdID:         review.AdID,
		ContractorID: review.ContractorID,
		AuthorID:     review.AuthorID,
		Text:         review.Text,
		Rating:       review.Rating,
		CreatedAt:    review.CreatedAt,
	})
}

// GetAdReviews возвращает отзывы объявления
// @Summary Отзывы объявления
// @Description Доступно владельцу, назначенному исполнителю и персоналу
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID объявления"
// @Success 200 {array} dto.ReviewResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/ads/{id}/reviews [get]
func (h *APIHandler) GetAdReviews(c *gin.Context) {
	ad, userID, userRole, ok := h.loadAd(c)
	if !ok {
		return
	}

	assigned := ad.AssignedContractorID != nil && *ad.AssignedContractorID == userID &&
		h.hasAnyRole(userID, userRole, role.Contractor)
	if !h.canManageAd(userID, userRole, ad) && !assigned {
		h.appError(c, apperr.Forbidden("You cannot view reviews for this ad"))
		return
	}

	reviews, err := h.Repository.GetReviewsForAd(ad.ID)
	if err != nil {
		h.appError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviewsToDTO(reviews))
}
