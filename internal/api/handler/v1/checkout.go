package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Holiuk2005/lotex/internal/api/handler/v1/request"
	"github.com/Holiuk2005/lotex/internal/api/handler/v1/response"
	"github.com/Holiuk2005/lotex/internal/service"
)

type CheckoutService interface {
	CreateOrderPayment(ctx context.Context, buyerID, auctionID, cityRef, warehouseRef string) (service.Order, error)
}

type CheckoutHandler struct {
	svc CheckoutService
}

func NewCheckoutHandler(svc CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		svc: svc,
	}
}

// HandleCreateOrderPayment godoc
// @Summary      Create an order payment
// @Description  Quotes shipping, adds the marketplace commission and opens a payment intent for an auction purchase.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateOrderPaymentRequest  true  "Order details"
// @Success      200  {object}  response.CreateOrderPaymentResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /orders/payment [post]
// @Security     BearerAuth
func (h *CheckoutHandler) HandleCreateOrderPayment(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateOrderPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	order, err := h.svc.CreateOrderPayment(ctx.Request.Context(), userID, req.AuctionID, req.DeliveryCityRef, req.DeliveryWarehouseRef)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuctionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("auction", "ID", req.AuctionID))
		case errors.Is(err, service.ErrInvalidItemPrice),
			errors.Is(err, service.ErrMissingSellerCity),
			errors.Is(err, service.ErrShippingQuote),
			errors.Is(err, service.ErrPaymentNotConfigured):
			response.RenderErr(ctx, response.ErrFailedPrecondition(err))
		default:
			err = fmt.Errorf("v1.HandleCreateOrderPayment -> h.svc.CreateOrderPayment -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.CreateOrderPaymentResponse{
		ClientSecret:            order.ClientSecret,
		CalculatedShippingPrice: order.ShippingPrice,
		Commission:              order.Commission,
		TotalAmount:             order.TotalAmount,
		Currency:                order.Currency,
	})
}
