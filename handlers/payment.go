package handlers

import (
	"net/http"

	"dimple/middleware"
	"dimple/models"
	"dimple/services/payment"
	"dimple/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var PaymentService payment.PaymentService
var TelebirrClient *utils.TelebirrClient

// InitiatePayment starts a Telebirr transfer for a pending booking.
func InitiatePayment(c *gin.Context) {
	var req models.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	actor := middleware.GetActor(c)
	attempt, err := PaymentService.Initiate(c.Request.Context(), actor, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, attempt)
}

// VerifyPayment polls the gateway for a transaction's outcome and applies it.
func VerifyPayment(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	actor := middleware.GetActor(c)
	booking, err := PaymentService.VerifyByReference(c.Request.Context(), actor, req.TransactionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// TelebirrWebhook receives the gateway's asynchronous payment notification.
// The signature covers every field except "sign" itself; an invalid signature
// is rejected before any state is touched.
func TelebirrWebhook(c *gin.Context) {
	var payload map[string]string
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	signature := payload["sign"]
	delete(payload, "sign")
	if signature == "" || !TelebirrClient.VerifySignature(payload, signature) {
		zap.L().Warn("Telebirr webhook signature rejected",
			zap.String("transaction_id", payload["outTradeNo"]))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	transactionID := payload["outTradeNo"]
	status := payload["tradeStatus"]
	if transactionID == "" || status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing transaction fields"})
		return
	}

	if err := PaymentService.ApplyPaymentResult(c.Request.Context(), transactionID, utils.NormalizeGatewayStatus(status)); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListPaymentAttempts returns every payment attempt recorded for a booking.
func ListPaymentAttempts(c *gin.Context) {
	actor := middleware.GetActor(c)
	attempts, err := PaymentService.Attempts(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": attempts})
}

// PaymentHistory returns the caller's paid, failed and refunded bookings.
func PaymentHistory(c *gin.Context) {
	actor := middleware.GetActor(c)
	page, limit := pageParams(c)
	bookings, total, err := PaymentService.History(c.Request.Context(), actor, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}
