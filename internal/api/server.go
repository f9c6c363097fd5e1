package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/Holiuk2005/lotex/docs"
	v1 "github.com/Holiuk2005/lotex/internal/api/handler/v1"
	"github.com/Holiuk2005/lotex/internal/api/middleware"
	"github.com/Holiuk2005/lotex/internal/config"
	"github.com/Holiuk2005/lotex/internal/events"
	"github.com/Holiuk2005/lotex/internal/pkg/payment"
	"github.com/Holiuk2005/lotex/internal/pkg/shipping"
	"github.com/Holiuk2005/lotex/internal/repository"
	"github.com/Holiuk2005/lotex/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	// Notifications doubles as the live push sink for the notification
	// dispatcher, so cmd/app needs a handle on it.
	Notifications *v1.NotificationHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB, feed *events.Feed) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	lotteryHandler := s.initLotteryHandler(db)
	userHandler := s.initUserHandler(db)
	checkoutHandler := s.initCheckoutHandler(db, feed)
	notificationHandler := s.initNotificationHandler(db)
	s.Notifications = notificationHandler

	s.MountHandlers(lotteryHandler, userHandler, checkoutHandler, notificationHandler)

	return s
}

func (s *Server) initLotteryHandler(db *gorm.DB) *v1.LotteryHandler {
	repo := repository.NewLotteryRepository(db)
	svc := service.NewLotteryService(repo)
	handler := v1.NewLotteryHandler(svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	repo := repository.NewUserRepository(db)
	svc := service.NewUserService(repo)
	lotterySvc := service.NewLotteryService(repository.NewLotteryRepository(db))
	handler := v1.NewUserHandler(svc, lotterySvc)

	return handler
}

func (s *Server) initCheckoutHandler(db *gorm.DB, feed *events.Feed) *v1.CheckoutHandler {
	repo := repository.NewAuctionRepository(db, feed)
	quoter := shipping.NewClient(s.Config.Shipping)
	payments := payment.NewStripeClient(s.Config.Stripe.SecretKey)
	svc := service.NewCheckoutService(repo, quoter, payments, s.Config.Stripe, s.Config.Shipping)
	handler := v1.NewCheckoutHandler(svc)

	return handler
}

func (s *Server) initNotificationHandler(db *gorm.DB) *v1.NotificationHandler {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	handler := v1.NewNotificationHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(lotteryHandler *v1.LotteryHandler, userHandler *v1.UserHandler, checkoutHandler *v1.CheckoutHandler, notificationHandler *v1.NotificationHandler) {
	const basePath = "/api/v1"

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.POST("/lotteries/:lotteryID/tickets", lotteryHandler.HandlePurchaseTickets)
		authed.POST("/lotteries/:lotteryID/draw", lotteryHandler.HandleDrawWinner)
		authed.GET("/lotteries/:lotteryID", lotteryHandler.HandleGetLottery)

		authed.GET("/users/me", userHandler.HandleGetMe)
		authed.GET("/users/me/tickets", userHandler.HandleGetMyTickets)
		authed.GET("/users/me/transactions", userHandler.HandleGetMyTransactions)

		authed.POST("/orders/payment", checkoutHandler.HandleCreateOrderPayment)

		authed.GET("/notifications", notificationHandler.HandleGetNotifications)
		authed.POST("/notifications/:notificationID/read", notificationHandler.HandleMarkNotificationRead)
		authed.GET("/notifications/stream", notificationHandler.HandleNotificationStream)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Lotex API"
	docs.SwaggerInfo.Description = "Auction marketplace with lottery draws."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
