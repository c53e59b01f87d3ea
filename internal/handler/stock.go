package handler

import (
	"net/http"

	"digitask/internal/apierror"
	"digitask/internal/dto"
	"digitask/internal/middleware"
	"digitask/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct {
	stock service.StockService
}

func NewStockHandler(stock service.StockService) *StockHandler {
	return &StockHandler{stock: stock}
}

// Adjust handles POST /api/stock/adjust, the single write entry point for
// the ledger. Transfers return both linked movement rows.
func (h *StockHandler) Adjust(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid warehouse id"))
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid product id"))
		return
	}

	mreq := service.MovementRequest{
		WarehouseID: warehouseID,
		ProductID:   productID,
		Type:        req.MovementType,
		Quantity:    req.Quantity,
		Reason:      req.Reason,
		ReferenceNo: req.ReferenceNo,
	}
	if req.ToWarehouseID != nil {
		toID, err := uuid.Parse(*req.ToWarehouseID)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Invalid target warehouse id"))
			return
		}
		mreq.ToWarehouseID = &toID
	}
	if claims := middleware.GetClaims(c); claims != nil {
		if actorID, err := uuid.Parse(claims.UserID); err == nil {
			mreq.ActorID = &actorID
		}
	}

	movements, err := h.stock.ApplyMovement(c.Request.Context(), mreq)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := dto.AdjustStockResponse{Movements: make([]dto.MovementResponse, 0, len(movements))}
	for i := range movements {
		resp.Movements = append(resp.Movements, service.MovementToResponse(&movements[i]))
	}
	c.JSON(http.StatusCreated, resp)
}

// Balances handles GET /api/stock/balances.
func (h *StockHandler) Balances(c *gin.Context) {
	var filter dto.BalanceFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.stock.Balances(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements handles GET /api/stock/movements: the audit trail, newest first.
func (h *StockHandler) Movements(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.stock.Movements(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Alerts handles GET /api/stock/alerts: balances outside their product's
// min/max window.
func (h *StockHandler) Alerts(c *gin.Context) {
	resp, err := h.stock.Alerts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
