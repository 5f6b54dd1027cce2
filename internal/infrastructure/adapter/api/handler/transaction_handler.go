package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/persistence"
	transactionUseCase "github.com/amirhossein-jamali/lab-lending/internal/domain/usecase/transaction"
	"github.com/amirhossein-jamali/lab-lending/internal/infrastructure/adapter/api/dto"
)

// TransactionHandler handles borrow transaction HTTP requests
type TransactionHandler struct {
	transactionService *transactionUseCase.Service
	timeProvider       coreport.TimeProvider
	logger             coreport.Logger
}

// NewTransactionHandler creates a new transaction handler instance
func NewTransactionHandler(
	transactionService *transactionUseCase.Service,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		timeProvider:       timeProvider,
		logger:             logger,
	}
}

// Create handles POST /transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	var req dto.CreateBorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}

	lines := make([]transactionUseCase.BorrowLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, transactionUseCase.BorrowLine{
			ItemBarcode: item.ItemBarcode,
			Quantity:    item.Quantity,
		})
	}

	txn, err := h.transactionService.CreateBorrow(c.Request.Context(), transactionUseCase.CreateBorrowRequest{
		UserID:          req.UserID,
		CourseSubject:   req.CourseSubject,
		Professor:       req.Professor,
		ProfAttendance:  req.ProfAttendance,
		RoomNo:          req.RoomNo,
		DurationHours:   req.DurationHours,
		DurationMinutes: req.DurationMinutes,
		Lines:           lines,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn, txn.EffectiveStatus(h.timeProvider.Now())))
}

// Get handles GET /transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	view, err := h.transactionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToViewResponse(view))
}

// List handles GET /transactions
func (h *TransactionHandler) List(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		writeBindError(c, h.logger, err)
		return
	}

	views, err := h.transactionService.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	responses := make([]dto.TransactionResponse, 0, len(views))
	for _, view := range views {
		responses = append(responses, dto.ToViewResponse(view))
	}
	c.JSON(http.StatusOK, responses)
}

// Return handles POST /transactions/:id/return
func (h *TransactionHandler) Return(c *gin.Context) {
	var req dto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}

	lines := make([]entity.ReturnLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, entity.ReturnLine{
			ItemBarcode:      item.ItemBarcode,
			QuantityReturned: item.QuantityReturned,
			Condition:        item.Condition,
		})
	}

	result, err := h.transactionService.ProcessReturn(c.Request.Context(), transactionUseCase.ReturnRequest{
		TransactionID: c.Param("id"),
		Lines:         lines,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	txn := result.Transaction
	c.JSON(http.StatusOK, dto.ReturnResponse{
		Transaction: dto.ToTransactionResponse(txn, txn.EffectiveStatus(h.timeProvider.Now())),
		Completed:   result.Completed,
		Partial:     result.Partial,
	})
}

// Extend handles POST /transactions/:id/extend
func (h *TransactionHandler) Extend(c *gin.Context) {
	var req dto.ExtendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}

	txn, err := h.transactionService.ExtendDuration(c.Request.Context(), transactionUseCase.ExtendRequest{
		TransactionID:   c.Param("id"),
		DurationHours:   req.DurationHours,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn, txn.EffectiveStatus(h.timeProvider.Now())))
}

// Transfer handles POST /transactions/:id/transfer
func (h *TransactionHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}

	var target *transactionUseCase.TransferTarget
	if req.Target != nil {
		target = &transactionUseCase.TransferTarget{
			UserID: req.Target.UserID,
			RoomNo: req.Target.RoomNo,
		}
	}

	result, err := h.transactionService.TransferItems(c.Request.Context(), transactionUseCase.TransferRequest{
		TransactionID: c.Param("id"),
		ItemBarcodes:  req.ItemBarcodes,
		Target:        target,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	now := h.timeProvider.Now()
	resp := dto.TransferResponse{
		Source: dto.ToTransactionResponse(result.Source, result.Source.EffectiveStatus(now)),
	}
	if result.NewBorrow != nil {
		newBorrow := dto.ToTransactionResponse(result.NewBorrow, result.NewBorrow.EffectiveStatus(now))
		resp.NewBorrow = &newBorrow
	}
	c.JSON(http.StatusOK, resp)
}

// Annotate handles PATCH /transactions/:id/annotations
func (h *TransactionHandler) Annotate(c *gin.Context) {
	var req dto.AnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}

	txn, err := h.transactionService.Annotate(c.Request.Context(), transactionUseCase.AnnotationRequest{
		TransactionID:       c.Param("id"),
		FeedbackEmoji:       req.FeedbackEmoji,
		PartialReturnReason: req.PartialReturnReason,
		NotesComments:       req.NotesComments,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn, txn.EffectiveStatus(h.timeProvider.Now())))
}

// Override handles POST /transactions/:id/override
func (h *TransactionHandler) Override(c *gin.Context) {
	var req dto.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.logger, err)
		return
	}

	txn, err := h.transactionService.OverrideStatus(c.Request.Context(), transactionUseCase.OverrideRequest{
		TransactionID: c.Param("id"),
		Status:        entity.ReturnStatus(req.Status),
		Reason:        req.Reason,
		OverriddenBy:  req.OverriddenBy,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn, txn.EffectiveStatus(h.timeProvider.Now())))
}

// Summary handles GET /transactions/summary
func (h *TransactionHandler) Summary(c *gin.Context) {
	topItems := 5
	if raw := c.Query("topItems"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeBindError(c, h.logger, errInvalidQueryParam("topItems"))
			return
		}
		topItems = parsed
	}

	summary, err := h.transactionService.Summarize(c.Request.Context(), topItems)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	counts := make([]dto.StatusCountResponse, 0, len(summary.StatusCounts))
	for _, sc := range summary.StatusCounts {
		counts = append(counts, dto.StatusCountResponse{
			Status: string(sc.Status),
			Count:  sc.Count,
		})
	}
	items := make([]dto.ItemUsageResponse, 0, len(summary.TopItems))
	for _, usage := range summary.TopItems {
		items = append(items, dto.ItemUsageResponse{
			ItemBarcode: usage.ItemBarcode,
			ItemName:    usage.ItemName,
			TimesLent:   usage.TimesLent,
			TotalUnits:  usage.TotalUnits,
		})
	}

	c.JSON(http.StatusOK, dto.SummaryResponse{
		StatusCounts:   counts,
		CurrentOverdue: summary.CurrentOverdue,
		TopItems:       items,
	})
}

// parseTransactionFilter builds a repository filter from list query params
func parseTransactionFilter(c *gin.Context) (persistence.TransactionFilter, error) {
	filter := persistence.TransactionFilter{
		UserID:      c.Query("userId"),
		ItemBarcode: c.Query("itemBarcode"),
		Status:      entity.ReturnStatus(c.Query("status")),
		OpenOnly:    c.Query("open") == "true",
	}

	for name, dst := range map[string]**time.Time{
		"from":      &filter.From,
		"to":        &filter.To,
		"dueBefore": &filter.DueBefore,
	} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errInvalidQueryParam(name)
		}
		*dst = &parsed
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, errInvalidQueryParam("limit")
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, errInvalidQueryParam("offset")
		}
		filter.Offset = offset
	}

	return filter, nil
}

type queryParamError string

func (e queryParamError) Error() string {
	return "invalid query parameter: " + string(e)
}

func errInvalidQueryParam(name string) error {
	return queryParamError(name)
}
