package handler

import (
	"net/http"
	"strconv"
	"strings"

	"backend/internal/app/apperr"
	"backend/internal/app/dto"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
)

// SetUserRoles назначает роли пользователю
// @Summary Назначение ролей пользователю
// @Description Администратор заменяет набор ролей пользователя. Первая роль списка становится основной
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пользователя"
// @Param request body dto.SetRolesRequest true "Список ролей"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/users/{id}/roles [put]
func (h *APIHandler) SetUserRoles(c *gin.Context) {
	userID, userRole, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	if !h.hasAnyRole(userID, userRole, role.Admin) {
		h.appError(c, apperr.Forbidden("Only admin can assign roles"))
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || targetID == 0 {
		h.appError(c, apperr.Validation("Invalid user ID"))
		return
	}

	var req dto.SetRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	roles := make([]role.Role, 0, len(req.Roles))
	for _, s := range req.Roles {
		r := role.Role(strings.ToUpper(strings.TrimSpace(s)))
		if !r.IsValid() {
			h.appError(c, apperr.Validation("Unknown role: "+s))
			return
		}
		roles = append(roles, r)
	}

	if err := h.Repository.SetUserRoles(uint(targetID), roles); err != nil {
		h.appError(c, err)
		return
	}

	user, err := h.Repository.GetUserByID(uint(targetID))
	if err != nil {
		h.appError(c, err)
		return
	}

	c.JSON(http.StatusOK, userToDTO(user))
}
