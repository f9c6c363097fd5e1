package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Holiuk2005/lotex/internal/api/handler/v1/response"
	"github.com/Holiuk2005/lotex/internal/api/middleware"
)

// currentUserID returns the caller identity set by the JWT middleware.
func currentUserID(ctx *gin.Context) (string, *response.Err) {
	userID := ctx.GetString(middleware.ContextKeyUserID)
	if userID == "" {
		return "", response.ErrUnauthorized(errors.New("user is not authenticated"))
	}

	return userID, nil
}

func isAdmin(ctx *gin.Context) bool {
	return ctx.GetBool(middleware.ContextKeyIsAdmin)
}

// HandleHealthcheck godoc
// @Summary      Healthcheck endpoint
// @Tags         healthcheck
// @Produce      json
// @Success      200 {string} string "ok"
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
