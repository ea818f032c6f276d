package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ekantin/middlewares"
	"github.com/yeremiapane/ekantin/services"
	"github.com/yeremiapane/ekantin/utils"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Checkout membuat pesanan baru dari keranjang pelanggan.
func (oc *OrderController) Checkout(c *gin.Context) {
	var req services.CheckoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errInvalidBody)
		return
	}

	order, err := oc.orders.Checkout(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Pesanan berhasil dibuat", order)
}

// TrackOrder: pelacakan publik berdasarkan kode pesanan
func (oc *OrderController) TrackOrder(c *gin.Context) {
	order, err := oc.orders.Track(c.Request.Context(), c.Param("id"), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", order)
}

func (oc *OrderController) GetMyOrders(c *gin.Context) {
	orders, err := oc.orders.ListForOwner(c.Request.Context(), middlewares.KantinID(c), c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", orders)
}

type updateTransactionStatusRequest struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

func (oc *OrderController) UpdateTransactionStatus(c *gin.Context) {
	var req updateTransactionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errInvalidBody)
		return
	}

	result, err := oc.orders.UpdateStatus(c.Request.Context(), middlewares.KantinID(c), req.TransactionID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Status transaksi berhasil diupdate", result)
}
