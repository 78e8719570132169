package handler

import (
	"net/http"
	"strconv"

	"backend/internal/app/apperr"
	"backend/internal/app/ds"
	"backend/internal/app/dto"

	"github.com/gin-gonic/gin"
)

// Тикеты поддержки: автор видит и редактирует свои, персонал видит все,
// отвечает один раз и управляет статусом

func (h *APIHandler) loadTicket(c *gin.Context) (*ds.Ticket, uint, bool, bool) {
	userID, userRole, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return nil, 0, false, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.appError(c, apperr.Validation("Invalid ticket ID"))
		return nil, 0, false, false
	}

	ticket, err := h.Repository.GetTicketByID(uint(id))
	if err != nil {
		h.appError(c, err)
		return nil, 0, false, false
	}

	staff := h.isStaff(userID, userRole)
	if !staff && ticket.CreatorID != userID {
		// Чужой тикет не раскрываем
		h.appError(c, apperr.NotFound("Ticket not found"))
		return nil, 0, false, false
	}
	return ticket, userID, staff, true
}

// CreateTicket создает тикет поддержки
// @Summary Создание тикета
// @Description Создает обращение в поддержку, опционально привязанное к объявлению
// @Tags Tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTicketRequest true "Данные тикета"
// @Success 201 {object} dto.TicketResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/tickets [post]
func (h *APIHandler) CreateTicket(c *gin.Context) {
	userID, userRole, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	// Привязка к объявлению допустима только в пределах видимости автора
	if req.AdID != nil {
		if _, err := h.Repository.GetAdForUser(*req.AdID, userID, userRole); err != nil {
			h.appError(c, err)
			return
		}
	}

	ticket, err := h.Repository.CreateTicket(userID, req.AdID, req.Title, req.Message)
	if err != nil {
		h.appError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ticketToDTO(ticket))
}

// GetTickets возвращает список тикетов
// @Summary Список тикетов
// @Description Персонал видит все тикеты, остальные — только свои
// @Tags Tickets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TicketListResponse
// @Router /api/tickets [get]
func (h *APIHandler) GetTickets(c *gin.Context) {
	userID, userRole, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	tickets, err := h.Repository.GetTickets(userID, h.isStaff(userID, userRole))
	if err != nil {
		h.appError(c, err)
		return
	}

	out := make([]dto.TicketResponse, len(tickets))
	for i := range tickets {
		out[i] = ticketToDTO(&tickets[i])
	}
	c.JSON(http.StatusOK, dto.TicketListResponse{Tickets: out, Total: len(out)})
}

// GetTicket возвращает один тикет
// @Summary Получение тикета
// @Tags Tickets
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID тикета"
// @Success 200 {object} dto.TicketResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/tickets/{id} [get]
func (h *APIHandler) GetTicket(c *gin.Context) {
	ticket, _, _, ok := h.loadTicket(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ticketToDTO(ticket))
}

// UpdateTicket обновляет тикет
// @Summary Обновление тикета
// @Description Автор меняет заголовок и текст; статус и ответ поддержки для автора закрыты. Персонал дополнительно меняет статус
// @Tags Tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID тикета"
// @Param request body dto.UpdateTicketRequest true "Изменяемые поля"
// @Success 200 {object} dto.TicketResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/tickets/{id} [put]
func (h *APIHandler) UpdateTicket(c *gin.Context) {
	ticket, _, staff, ok := h.loadTicket(c)
	if !ok {
		return
	}

	var req dto.UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if !staff {
		if req.Status != nil || req.Reply != nil {
			h.appError(c, apperr.Forbidden("Only support staff can change status or reply"))
			return
		}
		if ticket.Status == ds.TicketStatusClosed {
			h.appError(c, apperr.InvalidState("Cannot edit a closed ticket"))
			return
		}
	}

	if err := h.Repository.UpdateTicket(ticket.ID, req.Title, req.Message); err != nil {
		h.appError(c, err)
		return
	}

	if staff && req.Status != nil {
		s := *req.Status
		if s != ds.TicketStatusOpen && s != ds.TicketStatusInProgress && s != ds.TicketStatusClosed {
			h.appError(c, apperr.Validation("Invalid ticket status"))
			return
		}
		if err := h.Repository.UpdateTicketStatus(ticket.ID, s); err != nil {
			h.appError(c, err)
			return
		}
	}

	updated, err := h.Repository.GetTicketByID(ticket.ID)
	if err != nil {
		h.appError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticketToDTO(updated))
}

// ReplyTicket отвечает на тикет
// @Summary Ответ поддержки на тикет
// @Description Персонал оставляет единственный ответ; первый ответ переводит OPEN в IN_PROGRESS
// @Tags Tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID тикета"
// @Param request body dto.ReplyTicketRequest true "Текст ответа"
// @Success 200 {object} dto.TicketResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/tickets/{id}/reply [post]
func (h *APIHandler) ReplyTicket(c *gin.Context) {
	ticket, _, staff, ok := h.loadTicket(c)
	if !ok {
		return
	}

	if !staff {
		h.appError(c, apperr.Forbidden("Only support staff can reply to tickets"))
		return
	}

	var req dto.ReplyTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	updated, err := h.Repository.ReplyTicket(ticket.ID, req.SupportReply)
	if err != nil {
		h.appError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticketToDTO(updated))
}

// DeleteTicket удаляет тикет
// @Summary Удаление тикета
// @Description Доступно только персоналу
// @Tags Tickets
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID тикета"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/tickets/{id} [delete]
func (h *APIHandler) DeleteTicket(c *gin.Context) {
	ticket, _, staff, ok := h.loadTicket(c)
	if !ok {
		return
	}

	if !staff {
		h.appError(c, apperr.Forbidden("Only support staff can delete tickets"))
		return
	}

	if err := h.Repository.DeleteTicket(ticket.ID); err != nil {
		h.appError(c, err)
		return
	}

	h.successResponse(c, http.StatusOK, "Ticket deleted", nil)
}
