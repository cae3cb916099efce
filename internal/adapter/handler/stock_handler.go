package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pkanok/matstock/internal/core/domain"
	"github.com/pkanok/matstock/internal/core/service"
)

// StockHandler exposes the coordinator over REST. Routes and payload
// field names follow the API this service replaced.
type StockHandler struct {
	svc *service.StockService
	log *logrus.Logger
}

func NewStockHandler(svc *service.StockService, log *logrus.Logger) *StockHandler {
	return &StockHandler{svc: svc, log: log}
}

func (h *StockHandler) Register(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.POST("/receive", h.receive)
	api.GET("/stock", h.stockDashboard)
	api.GET("/stock/raw", h.rawTags)
	api.PUT("/stocks/archive/:id", h.archiveTag)
	api.PUT("/stocks/hide-tag/:id", h.hideTag)
	api.PUT("/stocks/update-qty", h.updateTagQuantity)
	api.GET("/supplies-dashboard", h.suppliesDashboard)
	api.PUT("/supplies/:id", h.adjustSupply)
	api.POST("/transfer-deduct-stock", h.transferDeduct)
	api.GET("/movements", h.movements)
	api.POST("/request-material", h.submitRequest)
	api.GET("/pending-requests", h.pendingRequests)
	api.POST("/requests/process-issue", h.processRequestIssue)
	api.GET("/descriptions", h.descriptions)
}

type ackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type receiveRequest struct {
	SAPID       string `json:"sapid" binding:"required"`
	Description string `json:"description" binding:"required"`
	Group       string `json:"groupmat" binding:"required"`
	Qty         int    `json:"qty" binding:"required"`
	Unit        string `json:"unit" binding:"required"`
	Location    string `json:"location" binding:"required"`
	CreatedAt   string `json:"created_at" binding:"required"`
}

func (h *StockHandler) receive(c *gin.Context) {
	var req receiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, domain.NewValidationError("body", err.Error()))
		return
	}
	createdAt, err := parseDate(req.CreatedAt)
	if err != nil {
		h.writeError(c, domain.NewValidationError("created_at", "unrecognized date format"))
		return
	}

	key := domain.NewItemKey(req.SAPID, req.Description, req.Unit, req.Location)
	if err := h.svc.Receive(c.Request.Context(), key, domain.NewMaterialGroup(req.Group), req.Qty, createdAt); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ackResponse{Success: true, Message: "receive recorded"})
}

func (h *StockHandler) archiveTag(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.svc.ArchiveTag(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ackResponse{Success: true, Message: "tag archived"})
}

func (h *StockHandler) hideTag(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.svc.HideTag(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ackResponse{Success: true, Message: "tag hidden, quantity retained"})
}

type updateQtyRequest struct {
	ID          int64  `json:"id" binding:"required"`
	NewQty      *int   `json:"newQty" binding:"required"`
	SAPID       string `json:"sapid"`
	Description string `json:"description"`
	Group       string `json:"groupmat"`
	Unit        string `json:"unit"`
	Location    string `json:"location"`
}

func (h *StockHandler) updateTagQuantity(c *gin.Context) {
	var req updateQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, domain.NewValidationError("body", err.Error()))
		return
	}

	splitKey := domain.NewItemKey(req.SAPID, req.Description, req.Unit, req.Location)
	err := h.svc.UpdateTagQuantity(c.Request.Context(), req.ID, *req.NewQty, splitKey, domain.NewMaterialGroup(req.Group))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ackResponse{Success: true, Message: "tag quantity updated"})
}

type adjustSupplyRequest struct {
	QtyChange *int `json:"qtyChange" binding:"required"`
}

func (h *StockHandler) adjustSupply(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	var req adjustSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, domain.NewValidationError("qtyChange", "required"))
		return
	}
	if err := h.svc.AdjustSupplyQuantity(c.Request.Context(), id, *req.QtyChange); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ackResponse{Success: true, Message: "supply quantity adjusted"})
}

type transferRequest struct {
	Date        string `json:"date" binding:"required"`
	SAPID       string `json:"sapid" binding:"required"`
	Description string `json:"description" binding:"required"`
	Qty         int    `json:"qty" binding:"required"`
	Unit        string `json:"unit" binding:"required"`
	Location    string `json:"location" binding:"required"`
	JobOrder    string `json:"joborder" binding:"required"`
	Requester   string `json:"requester_name"`
	Department  string `json:"department"`
}

func (h *StockHandler) transferDeduct(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, domain.NewValidationError("body", err.Error()))
		return
	}
	issuedAt, err := parseDate(req.Date)
	if err != nil {
		h.writeError(c, domain.NewValidationError("date", "unrecognized date format"))
		return
	}

	key := domain.NewItemKey(req.SAPID, req.Description, req.Unit, req.Location)
	issue := domain.IssueContext{
		JobOrder:   req.JobOrder,
		Requester:  req.Requester,
		Department: req.Department,
	}
	if err := h.svc.TransferDeduct(c.Request.Context(), key, req.Qty, issue, issuedAt); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ackResponse{Success: true, Message: "stock deducted"})
}

type submitRequestBody struct {
	Description string `json:"description" binding:"required"`
	Qty         int    `json:"qty" binding:"required"`
	Unit        string `json:"unit" binding:"required"`
	Requester   string `json:"requester_name" binding:"required"`
	Department  string `json:"department" binding:"required"`
	RequestDate string `json:"request_date" binding:"required"`
	SAPID       string `json:"sapid"`
	Location    string `json:"location"`
}

func (h *StockHandler) submitRequest(c *gin.Context) {
	var body submitRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.writeError(c, domain.NewValidationError("body", err.Error()))
		return
	}
	requestDate, err := parseDate(body.RequestDate)
	if err != nil {
		h.writeError(c, domain.NewValidationError("request_date", "unrecognized date format"))
		return
	}

	id, err := h.svc.SubmitRequest(c.Request.Context(), domain.MaterialRequest{
		Description: body.Description,
		Quantity:    body.Qty,
		Unit:        body.Unit,
		Requester:   body.Requester,
		Department:  body.Department,
		RequestDate: requestDate,
		SAPID:       body.SAPID,
		Location:    body.Location,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "request submitted", "id": id})
}

type processIssueRequest struct {
	RequestID int64 `json:"requestId" binding:"required"`
	NewQty    int   `json:"newQty"`
}

func (h *StockHandler) processRequestIssue(c *gin.Context) {
	var req processIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, domain.NewValidationError("requestId", "required"))
		return
	}
	if err := h.svc.ProcessRequestIssue(c.Request.Context(), req.RequestID, req.NewQty); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ackResponse{Success: true, Message: "request processed and stock issued"})
}

func (h *StockHandler) stockDashboard(c *gin.Context) {
	h.list(c, func() (any, error) { return h.svc.StockDashboard(c.Request.Context()) })
}

func (h *StockHandler) rawTags(c *gin.Context) {
	h.list(c, func() (any, error) { return h.svc.RawTags(c.Request.Context()) })
}

func (h *StockHandler) suppliesDashboard(c *gin.Context) {
	h.list(c, func() (any, error) { return h.svc.SuppliesDashboard(c.Request.Context()) })
}

func (h *StockHandler) movements(c *gin.Context) {
	h.list(c, func() (any, error) { return h.svc.Movements(c.Request.Context()) })
}

func (h *StockHandler) pendingRequests(c *gin.Context) {
	h.list(c, func() (any, error) { return h.svc.PendingRequests(c.Request.Context()) })
}

func (h *StockHandler) descriptions(c *gin.Context) {
	h.list(c, func() (any, error) { return h.svc.Descriptions(c.Request.Context()) })
}

func (h *StockHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *StockHandler) list(c *gin.Context, fetch func() (any, error)) {
	data, err := fetch()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *StockHandler) writeError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, ackResponse{Success: false, Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, ackResponse{Success: false, Message: "not found"})
	case errors.Is(err, domain.ErrInsufficientStock):
		c.JSON(http.StatusConflict, ackResponse{Success: false, Message: "insufficient stock"})
	default:
		h.log.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, ackResponse{Success: false, Message: "internal error"})
	}
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
