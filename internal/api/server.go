package api

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/onenightdrink/api/docs"
	v1 "github.com/onenightdrink/api/internal/api/handler/v1"
	"github.com/onenightdrink/api/internal/api/middleware"
	"github.com/onenightdrink/api/internal/config"
	"github.com/onenightdrink/api/internal/repository"
	"github.com/onenightdrink/api/internal/repository/dao"
	"github.com/onenightdrink/api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	bootEpoch time.Time
}

func NewServer(conf *config.AppConfig, db *gorm.DB, bootEpoch time.Time) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config:    conf,
		Router:    engine,
		bootEpoch: bootEpoch,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	barHandler := s.initBarHandler(db)
	passHandler := s.initPassHandler(db)
	partyHandler := s.initPartyHandler(db)
	adminHandler := s.initAdminHandler(db)
	barPortalHandler := s.initBarPortalHandler(db)
	seoHandler := s.initSEOHandler(db)
	s.MountHandlers(authHandler, barHandler, passHandler, partyHandler, adminHandler, barPortalHandler, seoHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewAuthService(userRepo)
	userSvc := service.NewUserService(userRepo)
	handler := v1.NewAuthHandler(s.Config.API, svc, userSvc)

	return handler
}

func (s *Server) initBarHandler(db *gorm.DB) *v1.BarHandler {
	repo := repository.NewBarRepository(dao.NewBarDAO(db))
	svc := service.NewBarService(repo)
	handler := v1.NewBarHandler(svc)

	return handler
}

func (s *Server) initPassHandler(db *gorm.DB) *v1.PassHandler {
	repo := repository.NewPassRepository(dao.NewPassDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	barRepo := repository.NewBarRepository(dao.NewBarDAO(db))
	settingsRepo := repository.NewSettingsRepository(dao.NewSettingsDAO(db))
	svc := service.NewPassService(repo, userRepo, barRepo, settingsRepo)
	handler := v1.NewPassHandler(svc)

	return handler
}

func (s *Server) initPartyHandler(db *gorm.DB) *v1.PartyHandler {
	repo := repository.NewPartyRepository(dao.NewPartyDAO(db))
	passRepo := repository.NewPassRepository(dao.NewPassDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewPartyService(repo, passRepo, userRepo)
	handler := v1.NewPartyHandler(svc)

	return handler
}

func (s *Server) initAdminHandler(db *gorm.DB) *v1.AdminHandler {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	passRepo := repository.NewPassRepository(dao.NewPassDAO(db))
	barRepo := repository.NewBarRepository(dao.NewBarDAO(db))
	barUserRepo := repository.NewBarUserRepository(dao.NewBarUserDAO(db))
	settingsRepo := repository.NewSettingsRepository(dao.NewSettingsDAO(db))
	svc := service.NewAdminService(userRepo, passRepo, barRepo, barUserRepo, settingsRepo)
	handler := v1.NewAdminHandler(svc)

	return handler
}

func (s *Server) initBarPortalHandler(db *gorm.DB) *v1.BarPortalHandler {
	barUserRepo := repository.NewBarUserRepository(dao.NewBarUserDAO(db))
	passRepo := repository.NewPassRepository(dao.NewPassDAO(db))
	barRepo := repository.NewBarRepository(dao.NewBarDAO(db))
	svc := service.NewBarPortalService(barUserRepo, passRepo, barRepo)
	handler := v1.NewBarPortalHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initSEOHandler(db *gorm.DB) *v1.SEOHandler {
	barRepo := repository.NewBarRepository(dao.NewBarDAO(db))
	partyRepo := repository.NewPartyRepository(dao.NewPartyDAO(db))
	handler := v1.NewSEOHandler(s.Config.API.SiteURL, barRepo, partyRepo)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(middleware.CollectMetrics())
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	barHandler *v1.BarHandler,
	passHandler *v1.PassHandler,
	partyHandler *v1.PartyHandler,
	adminHandler *v1.AdminHandler,
	barPortalHandler *v1.BarPortalHandler,
	seoHandler *v1.SEOHandler,
) {
	const basePath = "/api"

	userAuth := middleware.NewAuthenticator(s.Config.API.JWTSigningKey, s.bootEpoch)
	barAuth := middleware.NewAuthenticator(s.Config.API.BarJWTSigningKey, s.bootEpoch)
	loginLimiter := middleware.NewRateLimiter(rate.Limit(5), 30)

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/register", loginLimiter.Handle(), authHandler.HandleRegister)
		public.POST("/auth/login", loginLimiter.Handle(), authHandler.HandleLogin)
		public.POST("/auth/admin/login", loginLimiter.Handle(), authHandler.HandleAdminLogin)

		public.GET("/bars", barHandler.HandleListBars)
		public.GET("/bars/featured", barHandler.HandleListFeaturedBars)
		public.GET("/bars/:barID", barHandler.HandleGetBar)

		public.GET("/parties", partyHandler.HandleListParties)

		public.GET("/health", v1.HandleHealthcheck)
	}

	users := s.Router.Group(basePath, userAuth.VerifyUser())
	{
		users.GET("/auth/me", authHandler.HandleGetMe)
		users.PUT("/auth/profile", authHandler.HandleUpdateProfile)

		users.GET("/passes", passHandler.HandleListPasses)
		users.GET("/passes/my-passes", passHandler.HandleListPasses)
		users.GET("/passes/active", passHandler.HandleListActivePasses)
		users.POST("/passes", passHandler.HandlePurchasePass)

		users.GET("/parties/my-hosted", partyHandler.HandleListHostedParties)
		users.GET("/parties/my-joined", partyHandler.HandleListJoinedParties)
		users.POST("/parties", partyHandler.HandleCreateParty)
		users.POST("/parties/:partyID/join", partyHandler.HandleJoinParty)
		users.DELETE("/parties/:partyID/leave", partyHandler.HandleLeaveParty)
		users.DELETE("/parties/:partyID", partyHandler.HandleCancelParty)
	}

	admin := s.Router.Group(basePath+"/admin", userAuth.VerifyAdmin())
	{
		admin.GET("/members", adminHandler.HandleListMembers)
		admin.PUT("/members/:memberID", adminHandler.HandleUpdateMember)
		admin.DELETE("/members/:memberID", adminHandler.HandleDeleteMember)

		admin.GET("/passes", adminHandler.HandleListPasses)
		admin.POST("/passes/:passID/revoke", adminHandler.HandleRevokePass)
		admin.DELETE("/passes/:passID/revoke", adminHandler.HandleRevokePass)

		admin.GET("/payment-settings", adminHandler.HandleGetPaymentSettings)
		admin.PUT("/payment-settings", adminHandler.HandleUpdatePaymentSettings)
		admin.GET("/ad-settings", adminHandler.HandleGetAdSettings)
		admin.PUT("/ad-settings", adminHandler.HandleUpdateAdSettings)

		admin.POST("/bar-users", adminHandler.HandleCreateBarUser)
		admin.GET("/bar-users", adminHandler.HandleListBarUsers)
	}

	barsAdmin := s.Router.Group(basePath+"/bars", userAuth.VerifyAdmin())
	{
		barsAdmin.POST("", barHandler.HandleCreateBar)
		barsAdmin.PUT("/:barID", barHandler.HandleUpdateBar)
		barsAdmin.DELETE("/:barID", barHandler.HandleDeleteBar)
		barsAdmin.POST("/:barID/toggle-featured", barHandler.HandleToggleFeatured)
	}

	barPortal := s.Router.Group(basePath + "/bar-portal")
	{
		barPortal.POST("/auth/login", loginLimiter.Handle(), barPortalHandler.HandleLogin)

		staff := barPortal.Group("", barAuth.VerifyBar())
		{
			staff.GET("/auth/me", barPortalHandler.HandleGetMe)
			staff.GET("/passes/today", barPortalHandler.HandlePassesToday)
			staff.POST("/passes/verify", barPortalHandler.HandleVerifyPass)
			staff.POST("/passes/collect", barPortalHandler.HandleCollectPass)
			staff.GET("/payments/history", barPortalHandler.HandlePaymentHistory)
			staff.PUT("/bar", barPortalHandler.HandleUpdateBar)
		}
	}

	s.Router.GET("/robots.txt", seoHandler.HandleRobots)
	s.Router.GET("/sitemap.xml", seoHandler.HandleSitemap)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "OneNightDrink API"
	docs.SwaggerInfo.Description = "Bar visit passes, parties, and the bar portal."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
