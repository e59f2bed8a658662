package container

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/services"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/blob"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/metrics"
	Logger "github.com/iamstorage888/Caridad-BPS-Final-1-sub000/pkg/logger"
)

// Infrastructure are the outside connections the services share. Nil
// fields get in-process defaults.
type Infrastructure struct {
	Sessions services.InterfaceSessionStore
	Blobs    blob.Store
	Events   services.InterfaceBlotterEventService
	Metrics  *metrics.Metrics
}

// ServiceContainer wires every service once and hands them to controllers
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	infra  Infrastructure

	operationLogService    services.InterfaceOperationLogService
	jwtService             services.InterfaceJWTService
	userService            services.InterfaceUserService
	residentService        services.InterfaceResidentService
	householdService       services.InterfaceHouseholdService
	blotterService         services.InterfaceBlotterService
	incidentTypeService    services.InterfaceIncidentTypeService
	documentRequestService services.InterfaceDocumentRequestService
	dashboardService       services.InterfaceDashboardService

	mu sync.RWMutex
}

// NewServiceContainer creates the container
func NewServiceContainer(db *gorm.DB, cfg *config.Config, infra Infrastructure) *ServiceContainer {
	if db == nil {
		panic("database connection is nil")
	}
	if cfg == nil {
		panic("config is nil")
	}

	if infra.Sessions == nil {
		infra.Sessions = services.NewSessionStore(cfg)
	}
	// fall back to in-process sessions when Redis does not answer
	if redisStore, ok := infra.Sessions.(*services.RedisSessionStore); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisStore.Ping(ctx); err != nil {
			Logger.Warning("Redis ping failed: %v, sessions will be kept in memory", err)
			infra.Sessions = services.NewMemorySessionStore()
		}
	}
	if infra.Blobs == nil {
		infra.Blobs = blob.NewMemoryStore(cfg.BlobPublicBaseURL)
	}
	if infra.Events == nil {
		infra.Events = services.NoopBlotterEventService{}
	}
	if infra.Metrics == nil {
		infra.Metrics = metrics.Default()
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		infra:  infra,
	}
	container.initializeServices()
	return container
}

// initializeServices builds every service
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.operationLogService = services.NewOperationLogService(c.db, c.config)
	c.jwtService = services.NewJWTService(c.config, c.db, c.infra.Sessions, c.operationLogService, c.infra.Metrics)
	c.userService = services.NewUserService(c.db, c.config, c.infra.Sessions)

	c.residentService = services.NewResidentService(c.db, c.config, c.infra.Blobs, c.infra.Metrics)
	c.householdService = services.NewHouseholdService(c.db, c.config)
	c.blotterService = services.NewBlotterService(c.db, c.config, c.infra.Events, c.infra.Metrics)
	c.incidentTypeService = services.NewIncidentTypeService(c.db, c.config, c.infra.Metrics)
	c.documentRequestService = services.NewDocumentRequestService(c.db, c.config)
	c.dashboardService = services.NewDashboardService(c.db, c.config)
}

// GetService returns the named service, or nil
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "sessions":
		return c.infra.Sessions
	case "blob":
		return c.infra.Blobs
	case "events":
		return c.infra.Events
	case "metrics":
		return c.infra.Metrics
	case "operation_log":
		return c.operationLogService
	case "jwt":
		return c.jwtService
	case "user":
		return c.userService
	case "resident":
		return c.residentService
	case "household":
		return c.householdService
	case "blotter":
		return c.blotterService
	case "incident_type":
		return c.incidentTypeService
	case "document_request":
		return c.documentRequestService
	case "dashboard":
		return c.dashboardService
	default:
		return nil
	}
}

// GetDB returns the database handle
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// GetConfig returns the configuration
func (c *ServiceContainer) GetConfig() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// Close releases broker connections
func (c *ServiceContainer) Close() {
	c.infra.Events.Disconnect()
}
