package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"autumhire/internal/models/request_models"
	"autumhire/internal/services"
	"autumhire/pkg/gateways/instasend"
	"autumhire/pkg/gateways/mpesa"
	"autumhire/pkg/utils"
)

const maxCallbackBody = 1 << 20

type PaymentController struct {
	paymentService services.PaymentServiceInterface
}

func NewPaymentController(paymentService services.PaymentServiceInterface) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// InitiatePayment godoc
// @Summary Start an M-Pesa STK push for a plan
// @Description Sends the payment prompt to the customer's phone. Provider rejections come back as 502 with the provider's message.
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.InitiatePaymentRequest true "Payment request"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /api/instasend/initiate-payment [post]
func (p *PaymentController) InitiatePayment(c *gin.Context) {
	var request request_models.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		bindError(c, err)
		return
	}

	resp, err := p.paymentService.Initiate(c.Request.Context(), optionalActor(c), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "STK push sent")
}

// CheckStatus godoc
// @Summary Payment status
// @Description Answers from the store once the attempt is final, otherwise asks the provider.
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CheckStatusRequest true "Checkout request"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/instasend/check-status [post]
func (p *PaymentController) CheckStatus(c *gin.Context) {
	var request request_models.CheckStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		bindError(c, err)
		return
	}

	resp, err := p.paymentService.CheckStatus(c.Request.Context(), request.CheckoutRequestID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, resp.Status)
}

// InstasendCallback godoc
// @Summary IntaSend webhook
// @Tags Payments
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/instasend/callback [post]
func (p *PaymentController) InstasendCallback(c *gin.Context) {
	body, ok := readCallback(c)
	if !ok {
		return
	}
	if err := p.paymentService.HandleCallback(c.Request.Context(), instasend.ProviderName, body); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Callback received")
}

// MpesaCallback godoc
// @Summary Daraja STK callback
// @Description Acknowledged in the shape Daraja expects.
// @Tags Payments
// @Accept json
// @Produce json
// @Router /api/mpesa/callback [post]
func (p *PaymentController) MpesaCallback(c *gin.Context) {
	body, ok := readCallback(c)
	if !ok {
		return
	}
	err := p.paymentService.HandleCallback(c.Request.Context(), mpesa.ProviderName, body)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
	case errors.Is(err, utils.ErrInvalidCallback):
		c.JSON(http.StatusBadRequest, gin.H{"ResultCode": 1, "ResultDesc": "Rejected"})
	default:
		utils.HandleServiceError(c, err)
	}
}

func readCallback(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxCallbackBody)
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid callback body")
		return nil, false
	}
	return body, true
}
