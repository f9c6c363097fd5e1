package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Holiuk2005/lotex/internal/api/handler/v1/request"
	"github.com/Holiuk2005/lotex/internal/api/handler/v1/response"
	"github.com/Holiuk2005/lotex/internal/domain"
	"github.com/Holiuk2005/lotex/internal/service"
)

type LotteryService interface {
	PurchaseTickets(ctx context.Context, buyerID, lotteryID string, quantity int) ([]string, error)
	DrawWinner(ctx context.Context, lotteryID string) error
	GetLottery(ctx context.Context, id string) (domain.Lottery, error)
}

type LotteryHandler struct {
	svc LotteryService
}

func NewLotteryHandler(svc LotteryService) *LotteryHandler {
	return &LotteryHandler{
		svc: svc,
	}
}

// HandlePurchaseTickets godoc
// @Summary      Purchase lottery tickets
// @Description  Buys up to 10 sequentially numbered tickets in one atomic transaction, debiting the caller's balance.
// @Tags         lotteries
// @Accept       json
// @Produce      json
// @Param        lotteryID  path      string                          true  "Lottery ID"
// @Param        input      body      request.PurchaseTicketsRequest  true  "Purchase details"
// @Success      201  {object}  response.PurchaseTicketsResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /lotteries/{lotteryID}/tickets [post]
// @Security     BearerAuth
func (h *LotteryHandler) HandlePurchaseTickets(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	lotteryID := ctx.Param("lotteryID")

	var req request.PurchaseTicketsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ticketIDs, err := h.svc.PurchaseTickets(ctx.Request.Context(), userID, lotteryID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrLotteryNotFound):
			response.RenderErr(ctx, response.ErrNotFound("lottery", "ID", lotteryID))
		case errors.Is(err, service.ErrLotteryNotActive),
			errors.Is(err, service.ErrLotteryEnded),
			errors.Is(err, service.ErrInvalidTicketPrice),
			errors.Is(err, service.ErrNoTicketsAvailable),
			errors.Is(err, service.ErrInvalidBalance),
			errors.Is(err, service.ErrInsufficientBalance):
			response.RenderErr(ctx, response.ErrFailedPrecondition(err))
		case errors.Is(err, service.ErrTxConflict):
			response.RenderErr(ctx, response.ErrFailedPrecondition(err))
		default:
			err = fmt.Errorf("v1.HandlePurchaseTickets -> h.svc.PurchaseTickets -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.PurchaseTicketsResponse{
		TicketIDs: ticketIDs,
	})
}

// HandleDrawWinner godoc
// @Summary      Draw a lottery winner
// @Description  Ends an active lottery, picks a uniformly random sold ticket and credits the prize to its holder. Administrators only.
// @Tags         lotteries
// @Produce      json
// @Param        lotteryID  path      string  true  "Lottery ID"
// @Success      200  {object}  response.DrawWinnerResponse
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /lotteries/{lotteryID}/draw [post]
// @Security     BearerAuth
func (h *LotteryHandler) HandleDrawWinner(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !isAdmin(ctx) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an administrator", userID)))
		return
	}

	lotteryID := ctx.Param("lotteryID")

	if err := h.svc.DrawWinner(ctx.Request.Context(), lotteryID); err != nil {
		switch {
		case errors.Is(err, service.ErrLotteryNotFound):
			response.RenderErr(ctx, response.ErrNotFound("lottery", "ID", lotteryID))
		case errors.Is(err, service.ErrLotteryNotActive),
			errors.Is(err, service.ErrNoTicketsSold),
			errors.Is(err, service.ErrTxConflict):
			response.RenderErr(ctx, response.ErrFailedPrecondition(err))
		default:
			err = fmt.Errorf("v1.HandleDrawWinner -> h.svc.DrawWinner -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.DrawWinnerResponse{OK: true})
}

// HandleGetLottery godoc
// @Summary      Get a lottery
// @Tags         lotteries
// @Produce      json
// @Param        lotteryID  path      string  true  "Lottery ID"
// @Success      200  {object}  domain.Lottery
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /lotteries/{lotteryID} [get]
// @Security     BearerAuth
func (h *LotteryHandler) HandleGetLottery(ctx *gin.Context) {
	lotteryID := ctx.Param("lotteryID")

	lottery, err := h.svc.GetLottery(ctx.Request.Context(), lotteryID)
	if err != nil {
		if errors.Is(err, service.ErrLotteryNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("lottery", "ID", lotteryID))
			return
		}

		err = fmt.Errorf("v1.HandleGetLottery -> h.svc.GetLottery -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, lottery)
}
