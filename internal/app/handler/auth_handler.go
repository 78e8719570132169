package handler

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"backend/internal/app/ds"
	"backend/internal/app/dto"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
)

// Register регистрирует нового пользователя
// @Summary Регистрация пользователя
// @Description Создает пользователя с ролью CUSTOMER или CONTRACTOR. Служебные роли при регистрации недоступны
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные пользователя"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/auth/register [post]
func (h *APIHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	exists, err := h.Repository.UserExistsByLogin(req.Login)
	if err != nil {
		h.appError(c, err)
		return
	}
	if exists {
		h.errorResponse(c, http.StatusBadRequest, "A user with this login already exists")
		return
	}

	// Регистрация открыта только для клиентских ролей
	userRole := role.Customer
	if req.Role != "" {
		r := role.Role(strings.ToUpper(req.Role))
		if r != role.Customer && r != role.Contractor {
			h.errorResponse(c, http.StatusBadRequest, "Role must be CUSTOMER or CONTRACTOR")
			return
		}
		userRole = r
	}

	user, err := h.Repository.CreateUser(req.Login, generateHashString(req.Password), req.Email, req.Phone, req.FullName, userRole)
	if err != nil {
		h.appError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userToDTO(user))
}

// Login выполняет вход пользователя
// @Summary Вход пользователя
// @Description Аутентифицирует по логину/email/телефону и паролю, возвращает JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Учетные данные"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/login [post]
func (h *APIHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	user, err := h.Repository.GetUserByIdentifier(req.Login)
	if err != nil || user.Password != generateHashString(req.Password) {
		h.errorResponse(c, http.StatusUnauthorized, "Invalid login or password")
		return
	}

	token := jwt.NewWithClaims(h.Config.JWT.SigningMethod, &ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(h.Config.JWT.ExpiresIn).Unix(),
			IssuedAt:  time.Now().Unix(),
			Issuer:    "backend",
		},
		UserID: user.ID,
		Role:   user.Role,
	})

	tokenString, err := token.SignedString([]byte(h.Config.JWT.Token))
	if err != nil {
		logrus.Error("cannot sign jwt: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "cannot create token")
		return
	}

	h.successResponse(c, http.StatusOK, "Login successful", gin.H{
		"access_token": tokenString,
		"token_type":   "Bearer",
		"expires_in":   int(h.Config.JWT.ExpiresIn.Seconds()),
		"user":         userToDTO(user),
	})
}

// Logout выполняет выход пользователя
// @Summary Выход пользователя
// @Description Помещает текущий JWT в blacklist до истечения срока жизни
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/logout [post]
func (h *APIHandler) Logout(c *gin.Context) {
	jwtStr := c.GetHeader("Authorization")
	if jwtStr == "" {
		h.errorResponse(c, http.StatusUnauthorized, "missing token")
		return
	}
	if len(jwtStr) > 7 && jwtStr[:7] == "Bearer " {
		jwtStr = jwtStr[7:]
	}

	if h.RedisClient != nil {
		err := h.RedisClient.WriteJWTToBlacklist(c.Request.Context(), jwtStr, h.Config.JWT.ExpiresIn)
		if err != nil {
			h.appError(c, err)
			return
		}
	}

	h.successResponse(c, http.StatusOK, "Logged out", nil)
}

// GetProfile возвращает профиль текущего пользователя
// @Summary Профиль текущего пользователя
// @Description Возвращает данные пользователя и его объявления: заказчик — созданные, исполнитель — выполненные
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/profile [get]
func (h *APIHandler) GetProfile(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	user, err := h.Repository.GetUserByID(userID)
	if err != nil {
		h.appError(c, err)
		return
	}

	var ads []ds.Ad
	switch user.Role {
	case role.Customer:
		ads, err = h.Repository.GetAdsByCreator(userID)
	case role.Contractor:
		ads, err = h.Repository.GetDoneAdsByContractor(userID)
	}
	if err != nil {
		h.appError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		User: userToDTO(user),
		Ads:  adsToDTO(ads),
	})
}

// UpdateProfile обновляет данные текущего пользователя
// @Summary Обновление профиля
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateUserRequest true "Изменяемые поля"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/auth/profile [put]
func (h *APIHandler) UpdateProfile(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	var fullName, password *string
	if req.FullName != "" {
		fullName = &req.FullName
	}
	if req.Password != "" {
		hashed := generateHashString(req.Password)
		password = &hashed
	}

	if err := h.Repository.UpdateUser(userID, fullName, password); err != nil {
		h.appError(c, err)
		return
	}

	user, err := h.Repository.GetUserByID(userID)
	if err != nil {
		h.appError(c, err)
		return
	}

	c.JSON(http.StatusOK, userToDTO(user))
}

func generateHashString(s string) string {
	h := sha1.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}
