package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
	itemUseCase "github.com/amirhossein-jamali/lab-lending/internal/domain/usecase/item"
	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/api/dto"
)

// ItemHandler handles item catalog HTTP requests
type ItemHandler struct {
	itemService *itemUseCase.ItemUseCase
	logger      coreport.Logger
}

// NewItemHandler creates a new item handler instance
func NewItemHandler(itemService *itemUseCase.ItemUseCase, logger coreport.Logger) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// Create handles POST /items
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), req.Barcode, req.Name, req.Category, req.Quantity)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToItemResponse(item))
}

// Get handles GET /items/:barcode
func (h *ItemHandler) Get(c *gin.Context) {
	item, err := h.itemService.GetItem(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToItemResponse(item))
}

// List handles GET /items
func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.itemService.ListItems(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	responses := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.ToItemResponse(item))
	}
	c.JSON(http.StatusOK, responses)
}

// Availability handles GET /items/:barcode/availability
func (h *ItemHandler) Availability(c *gin.Context) {
	availability, err := h.itemService.Availability(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAvailabilityResponse(availability))
}
