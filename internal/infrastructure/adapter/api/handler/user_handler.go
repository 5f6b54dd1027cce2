package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
	userUseCase "github.com/amirhossein-jamali/lab-lending/internal/domain/usecase/user"
	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/api/dto"
)

// UserHandler handles borrower HTTP requests
type UserHandler struct {
	userService *userUseCase.UserUseCase
	logger      coreport.Logger
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(userService *userUseCase.UserUseCase, logger coreport.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// Register handles POST /users
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.FullName, req.ContactNumber, req.Email)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// Get handles GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// ListPending handles GET /users/pending
func (h *UserHandler) ListPending(c *gin.Context) {
	users, err := h.userService.ListPending(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.ToUserResponse(user))
	}
	c.JSON(http.StatusOK, responses)
}

// Approve handles POST /users/:id/approve
func (h *UserHandler) Approve(c *gin.Context) {
	user, err := h.userService.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// Decline handles POST /users/:id/decline
func (h *UserHandler) Decline(c *gin.Context) {
	user, err := h.userService.Decline(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
