package handler

import (
	"net/http"
	"strconv"

	"backend/internal/app/apperr"
	"backend/internal/app/ds"
	"backend/internal/app/dto"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
)

// Отклики живут при объявлении: создание и просмотр идут через
// /api/ads/:id/requests, отзыв собственного отклика — по его ID

// GetAdRequests возвращает отклики на объявление
// @Summary Отклики на объявление
// @Description Владелец и персонал видят все отклики, исполнитель — только свои
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID объявления"
// @Success 200 {object} dto.WorkRequestListResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/ads/{id}/requests [get]
func (h *APIHandler) GetAdRequests(c *gin.Context) {
	ad, userID, userRole, ok := h.loadAd(c)
	if !ok {
		return
	}

	var requests []ds.WorkRequest
	var err error
	switch {
	case h.canManageAd(userID, userRole, ad):
		requests, err = h.Repository.GetRequestsForAd(ad.ID)
	case h.hasAnyRole(userID, userRole, role.Contractor):
		requests, err = h.Repository.GetContractorRequestsForAd(ad.ID, userID)
	default:
		h.appError(c, apperr.Forbidden("You cannot view requests for this ad"))
		return
	}
	if err != nil {
		h.appError(c, err)
		return
	}

	out := make([]dto.WorkRequestResponse, len(requests))
	for i := range requests {
		out[i] = workRequestToDTO(&requests[i])
	}
	c.JSON(http.StatusOK, dto.WorkRequestListResponse{Requests: out, Total: len(out)})
}

// CreateAdRequest создает отклик исполнителя
// @Summary Создание отклика
// @Description Исполнитель откликается на OPEN объявление. Повторный отклик после отказа или отзыва возобновляет прежнюю запись
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID объявления"
// @Param request body dto.CreateWorkRequest true "Сообщение исполнителя"
// @Success 201 {object} dto.WorkRequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/ads/{id}/requests [post]
func (h *APIHandler) CreateAdRequest(c *gin.Context) {
	ad, userID, userRole, ok := h.loadAd(c)
	if !ok {
		return
	}

	if !h.hasAnyRole(userID, userRole, role.Contractor) {
		h.appError(c, apperr.Forbidden("Only contractors can request an ad"))
		return
	}

	if ad.Status != ds.AdStatusOpen {
		h.appError(c, apperr.InvalidState("You can only request OPEN ads"))
		return
	}

	var req dto.CreateWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	wr, err := h.Repository.UpsertWorkRequest(ad.ID, userID, req.Message)
	if err != nil {
		h.appError(c, err)
		return
	}

	c.JSON(http.StatusCreated, workRequestToDTO(wr))
}

// CancelAdRequest отзывает отклик исполнителя
// @Summary Отзыв отклика
// @Description Исполнитель отзывает собственный отклик из PENDING или ACCEPTED
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID отклика"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/requests/{id}/cancel [post]
func (h *APIHandler) CancelAdRequest(c *gin.Context) {
	userID, userRole, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		h.appError(c, apperr.Validation("Invalid request ID"))
		return
	}

	wr, err := h.Repository.GetWorkRequestByID(uint(id))
	if err != nil {
		h.appError(c, err)
		return
	}

	if !h.hasAnyRole(userID, userRole, role.Contractor) || wr.ContractorID != userID {
		h.appError(c, apperr.Forbidden("You can only cancel your own request"))
		return
	}

	if err := h.Repository.CancelWorkRequest(wr.ID); err != nil {
		h.appError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "Request canceled", nil)
}
