package routes

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/iamstorage888/Caridad-BPS-Final-1-sub000/docs"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/app/controllers"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/app/middleware"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services/container"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/metrics"
)

// cached GET replies live this long unless a write purges them
const cacheTTL = 30 * time.Second

// SetupRouter builds the gin engine with every route of the portal
func SetupRouter(container *container.ServiceContainer) *gin.Engine {
	cfg := container.GetConfig()
	r := gin.Default()

	r.Use(middleware.Metrics(container.GetService("metrics").(*metrics.Metrics)))
	r.Use(cors(cfg))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registerRoutes(r, container)
	return r
}

func cors(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.CORSOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// registerRoutes configures every API route
func registerRoutes(r *gin.Engine, container *container.ServiceContainer) {
	api := r.Group("/api")
	registerPublicRoutes(api, container)
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes registers the routes that need no session
func registerPublicRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	public := api.Group("")
	public.Use(middleware.IPRateLimiter(10, 20))

	public.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	public.GET("/health", controllers.HandleHealthFunc(container, "ping"))
	public.GET("/health/status", controllers.HandleHealthFunc(container, "status"))

	// slow down password guessing per client
	public.POST("/auth/login", middleware.CombinedRateLimiter(1, 5), controllers.HandleJWTFunc(container, "login"))
}

// registerAuthenticatedRoutes registers the routes behind a session and
// their role gates. Admins pass every gate.
func registerAuthenticatedRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	jwtService := container.GetService("jwt").(services.InterfaceJWTService)
	auth := api.Group("")
	auth.Use(middleware.Authentication(jwtService))
	auth.Use(middleware.IPRateLimiter(30, 50))

	// uploads are limited per account, not per client address
	uploadLimit := middleware.CustomRateLimiter(0.5, 10, func(c *gin.Context) string {
		return strconv.FormatUint(uint64(c.GetUint(middleware.ContextUserID)), 10)
	})

	secretary := middleware.RequireRoles(models.RoleSecretary)
	anyone := middleware.RequireRoles(models.RoleSecretary, models.RoleStaff)
	adminOnly := middleware.RequireRoles()

	// Auth
	auth.POST("/auth/logout", controllers.HandleJWTFunc(container, "logout"))
	auth.GET("/auth/me", controllers.HandleJWTFunc(container, "me"))

	// Users
	users := auth.Group("/users", adminOnly)
	{
		users.GET("", controllers.HandleUserFunc(container, "getUsers"))
		users.GET("/:id", controllers.HandleUserFunc(container, "getUser"))
		users.POST("", controllers.HandleUserFunc(container, "createUser"))
		users.PUT("/:id", controllers.HandleUserFunc(container, "updateUser"))
		users.DELETE("/:id", controllers.HandleUserFunc(container, "deleteUser"))
	}

	// Residents
	residents := auth.Group("/residents", middleware.PurgeOnWrite("/api/dashboard", "/api/households"))
	{
		residents.GET("", anyone, controllers.HandleResidentFunc(container, "getResidents"))
		residents.GET("/:id", anyone, controllers.HandleResidentFunc(container, "getResident"))
		residents.POST("", secretary, controllers.HandleResidentFunc(container, "createResident"))
		residents.PUT("/:id", secretary, controllers.HandleResidentFunc(container, "updateResident"))
		residents.DELETE("/:id", secretary, controllers.HandleResidentFunc(container, "deleteResident"))
		residents.POST("/:id/documents/:kind", secretary, uploadLimit, controllers.HandleResidentFunc(container, "uploadDocument"))
		residents.DELETE("/:id/documents/:kind", secretary, controllers.HandleResidentFunc(container, "removeDocument"))
	}

	// Households
	households := auth.Group("/households", middleware.PurgeOnWrite("/api/dashboard", "/api/households"))
	{
		households.GET("", anyone, controllers.HandleHouseholdFunc(container, "getHouseholds"))
		households.GET("/next-number", anyone, controllers.HandleHouseholdFunc(container, "getNextNumber"))
		households.GET("/:id", anyone, controllers.HandleHouseholdFunc(container, "getHousehold"))
		households.GET("/:id/members", anyone, controllers.HandleHouseholdFunc(container, "getHouseholdMembers"))
		households.POST("", secretary, controllers.HandleHouseholdFunc(container, "createHousehold"))
		households.PUT("/:id", secretary, controllers.HandleHouseholdFunc(container, "updateHousehold"))
		households.DELETE("/:id", secretary, controllers.HandleHouseholdFunc(container, "deleteHousehold"))
	}

	// Blotters; writes may register incident types and move records to the archive
	blotters := auth.Group("/blotters", middleware.PurgeOnWrite("/api/dashboard", "/api/incident-types"))
	{
		blotters.GET("", anyone, controllers.HandleBlotterFunc(container, "getBlotters"))
		blotters.GET("/:id", anyone, controllers.HandleBlotterFunc(container, "getBlotter"))
		blotters.POST("", secretary, controllers.HandleBlotterFunc(container, "createBlotter"))
		blotters.PUT("/:id", secretary, controllers.HandleBlotterFunc(container, "updateBlotter"))
		blotters.PATCH("/:id/status", secretary, controllers.HandleBlotterFunc(container, "updateStatus"))
		blotters.DELETE("/:id", adminOnly, controllers.HandleBlotterFunc(container, "deleteBlotter"))
		blotters.POST("/reconcile", adminOnly, middleware.PathRateLimiter(0.1, 2), controllers.HandleBlotterFunc(container, "reconcile"))
	}
	archived := auth.Group("/archived-blotters", anyone)
	{
		archived.GET("", controllers.HandleBlotterFunc(container, "getArchivedBlotters"))
		archived.GET("/:id", controllers.HandleBlotterFunc(container, "getArchivedBlotter"))
	}

	// Incident types
	incidentTypes := auth.Group("/incident-types", middleware.PurgeOnWrite("/api/incident-types"))
	{
		incidentTypes.GET("", anyone, middleware.Cache(middleware.CacheConfig{Expiration: cacheTTL}), controllers.HandleIncidentTypeFunc(container, "getIncidentTypes"))
		incidentTypes.POST("", secretary, controllers.HandleIncidentTypeFunc(container, "registerIncidentType"))
	}

	// Document requests; staff may file new requests
	documents := auth.Group("/document-requests", middleware.PurgeOnWrite("/api/dashboard"))
	{
		documents.GET("", anyone, controllers.HandleDocumentRequestFunc(container, "getRequests"))
		documents.GET("/:id", anyone, controllers.HandleDocumentRequestFunc(container, "getRequest"))
		documents.POST("", anyone, controllers.HandleDocumentRequestFunc(container, "createRequest"))
		documents.PUT("/:id", secretary, controllers.HandleDocumentRequestFunc(container, "updateRequest"))
		documents.PATCH("/:id/status", secretary, controllers.HandleDocumentRequestFunc(container, "updateStatus"))
		documents.DELETE("/:id", secretary, controllers.HandleDocumentRequestFunc(container, "deleteRequest"))
	}

	// Dashboard
	auth.GET("/dashboard", anyone, middleware.Cache(middleware.CacheConfig{Expiration: cacheTTL}), controllers.HandleDashboardFunc(container))

	// Activity log
	auth.GET("/operation-logs", adminOnly, controllers.HandleOperationLogFunc(container))
}
