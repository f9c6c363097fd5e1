package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Holiuk2005/lotex/internal/api/handler/v1/response"
	"github.com/Holiuk2005/lotex/internal/domain"
	"github.com/Holiuk2005/lotex/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production!
	},
}

type NotificationService interface {
	GetInbox(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type notificationClient struct {
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// NotificationHandler serves the inbox endpoints and keeps a registry of
// live websocket clients. It implements service.Pusher, so the dispatcher
// can stream a notification to its recipient the moment it is stored.
type NotificationHandler struct {
	svc NotificationService

	clients      map[string]*notificationClient
	clientsMutex sync.RWMutex
	register     chan *notificationClient
	unregister   chan *notificationClient
}

func NewNotificationHandler(svc NotificationService) *NotificationHandler {
	return &NotificationHandler{
		svc:        svc,
		clients:    make(map[string]*notificationClient),
		register:   make(chan *notificationClient),
		unregister: make(chan *notificationClient),
	}
}

// Run owns the client registry until ctx is cancelled.
func (h *NotificationHandler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.clientsMutex.Lock()
			if old, ok := h.clients[client.userID]; ok {
				close(old.send)
			}
			h.clients[client.userID] = client
			h.clientsMutex.Unlock()
		case client := <-h.unregister:
			h.clientsMutex.Lock()
			if current, ok := h.clients[client.userID]; ok && current == client {
				delete(h.clients, client.userID)
				close(client.send)
			}
			h.clientsMutex.Unlock()
		}
	}
}

// Push delivers a notification to the user's live connection, if any.
// A slow client is skipped rather than blocking the dispatcher.
func (h *NotificationHandler) Push(userID string, n domain.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		zap.L().Warn("notifications: marshal push payload", zap.Error(err))
		return
	}

	h.clientsMutex.RLock()
	client, ok := h.clients[userID]
	h.clientsMutex.RUnlock()
	if !ok {
		return
	}

	select {
	case client.send <- payload:
	default:
		zap.L().Warn("notifications: client send buffer full, dropping push",
			zap.String("user_id", userID))
	}
}

// HandleGetNotifications godoc
// @Summary      List the authenticated user's notifications
// @Tags         notifications
// @Produce      json
// @Success      200  {array}   domain.Notification
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /notifications [get]
// @Security     BearerAuth
func (h *NotificationHandler) HandleGetNotifications(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	notifications, err := h.svc.GetInbox(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetNotifications -> h.svc.GetInbox -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, notifications)
}

// HandleMarkNotificationRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        notificationID  path  string  true  "Notification ID"
// @Success      200
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /notifications/{notificationID}/read [post]
// @Security     BearerAuth
func (h *NotificationHandler) HandleMarkNotificationRead(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	notificationID := ctx.Param("notificationID")

	if err := h.svc.MarkRead(ctx.Request.Context(), notificationID, userID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("notification", "ID", notificationID))
			return
		}

		err = fmt.Errorf("v1.HandleMarkNotificationRead -> h.svc.MarkRead -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}

// HandleNotificationStream godoc
// @Summary      Stream notifications over a WebSocket
// @Description  Upgrades the connection and pushes each new notification for the authenticated user as a JSON message.
// @Tags         notifications
// @Produce      json
// @Success      101 {string} string "Switching Protocols to WebSocket"
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /notifications/stream [get]
// @Security     BearerAuth
func (h *NotificationHandler) HandleNotificationStream(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Warn("notifications: websocket upgrade failed", zap.Error(err))
		return
	}

	client := &notificationClient{
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump(h)
}

func (c *notificationClient) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for {
		message, ok := <-c.send
		if !ok {
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
}

// The stream is one-way. readPump exists only to notice the client
// going away.
func (c *notificationClient) readPump(h *NotificationHandler) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("notifications: websocket closed", zap.Error(err))
			}
			break
		}
	}
}
