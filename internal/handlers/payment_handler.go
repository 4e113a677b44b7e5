package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mediscan_backend/internal/dto"
	"mediscan_backend/internal/middleware"
	"mediscan_backend/internal/services"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	payments.Use(middleware.AuthMiddleware())
	{
		payments.POST("/create-order", h.CreateOrder)
		payments.POST("/verify-payment", h.VerifyPayment)
	}
}

// CreateOrder godoc
// @Summary      Create a payment order for a plan or custom scan pack
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  dto.CreateOrderRequest  true  "Purchase intent"
// @Success      200  {object}  dto.CreateOrderResponse
// @Failure      400  {object}  apperrors.ErrorResponse
// @Failure      502  {object}  apperrors.ErrorResponse
// @Router       /payments/create-order [post]
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateOrderRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.paymentService.CreateOrder(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyPayment godoc
// @Summary      Verify a payment callback and credit the purchase
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  dto.VerifyPaymentRequest  true  "Provider callback fields"
// @Success      200  {object}  dto.VerifyPaymentResponse
// @Failure      400  {object}  apperrors.ErrorResponse
// @Failure      404  {object}  apperrors.ErrorResponse
// @Router       /payments/verify-payment [post]
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.VerifyPaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.paymentService.VerifyPayment(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
