package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Holiuk2005/lotex/internal/api/handler/v1/response"
	"github.com/Holiuk2005/lotex/internal/domain"
	"github.com/Holiuk2005/lotex/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
	GetLedgerEntries(ctx context.Context, userID string) ([]domain.LedgerEntry, error)
}

type TicketReader interface {
	GetUserTickets(ctx context.Context, userID string) ([]domain.Ticket, error)
}

type UserHandler struct {
	svc     UserService
	tickets TicketReader
}

func NewUserHandler(svc UserService, tickets TicketReader) *UserHandler {
	return &UserHandler{
		svc:     svc,
		tickets: tickets,
	}
}

// HandleGetMe godoc
// @Summary      Get the authenticated user
// @Description  Returns the caller's profile including the current balance.
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/me [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleGetMe -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleGetMyTickets godoc
// @Summary      List the authenticated user's tickets
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.Ticket
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/me/tickets [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetMyTickets(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tickets, err := h.tickets.GetUserTickets(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMyTickets -> h.tickets.GetUserTickets -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, tickets)
}

// HandleGetMyTransactions godoc
// @Summary      List the authenticated user's ledger entries
// @Description  Purchases appear as negative amounts, winnings as positive ones.
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.LedgerEntry
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/me/transactions [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetMyTransactions(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	entries, err := h.svc.GetLedgerEntries(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMyTransactions -> h.svc.GetLedgerEntries -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, entries)
}
