package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/chrissnell/laketemp/internal/estimate"
	"github.com/chrissnell/laketemp/internal/log"
	"github.com/chrissnell/laketemp/internal/storage"
	"github.com/chrissnell/laketemp/pkg/config"
)

// apiPrefix is the path prefix of every API route.
const apiPrefix = "/api/v1"

// Controller represents the REST server controller
type Controller struct {
	ctx            context.Context
	wg             *sync.WaitGroup
	configProvider config.ConfigProvider
	serverConfig   config.ServerData
	store          storage.RunStore
	estimator      *estimate.Estimator
	Server         http.Server
	logger         *zap.SugaredLogger
	handlers       *Handlers
}

// NewController creates a new REST server controller. store may be nil, in
// which case simulation runs are not persisted and /runs answers 404.
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, sc config.ServerData, store storage.RunStore, logger *zap.SugaredLogger) (*Controller, error) {
	if configProvider == nil {
		return nil, fmt.Errorf("REST server needs a configuration provider")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	ctrl := &Controller{
		ctx:            ctx,
		wg:             wg,
		configProvider: configProvider,
		serverConfig:   sc,
		store:          store,
		estimator:      estimate.New(nil),
		logger:         logger,
	}

	// If a ListenAddr was not provided, listen on all interfaces
	if sc.ListenAddr == "" {
		logger.Info("server.listen_addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		sc.ListenAddr = "0.0.0.0"
	}

	if sc.Port == 0 {
		logger.Infof("server.port not provided; defaulting to %d", config.DefaultServerPort)
		sc.Port = config.DefaultServerPort
	}
	ctrl.serverConfig = sc

	ctrl.handlers = NewHandlers(ctrl)

	router := ctrl.setupRouter()
	ctrl.Server.Addr = fmt.Sprintf("%v:%v", sc.ListenAddr, sc.Port)
	ctrl.Server.Handler = router

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Infof("Starting REST server on %s...", c.Server.Addr)
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.serverConfig.Cert != "" && c.serverConfig.Key != "" {
			if err := c.Server.ListenAndServeTLS(c.serverConfig.Cert, c.serverConfig.Key); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		c.Server.Shutdown(context.Background())
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(log.HTTPMiddleware(c.logger))

	// Routes live on the root router so a known path with the wrong method
	// answers 405 rather than 404.
	router.HandleFunc(apiPrefix+"/parameters", c.handlers.EstimateParameters).Methods(http.MethodPost)
	router.HandleFunc(apiPrefix+"/simulate", c.handlers.Simulate).Methods(http.MethodPost)
	router.HandleFunc(apiPrefix+"/validate", c.handlers.Validate).Methods(http.MethodPost)
	router.HandleFunc(apiPrefix+"/lakes/{name}/parameters", c.handlers.GetLakeParameters).Methods(http.MethodGet)
	router.HandleFunc(apiPrefix+"/runs/{id}", c.handlers.GetRun).Methods(http.MethodGet)
	router.HandleFunc(apiPrefix+"/health", c.handlers.GetHealth).Methods(http.MethodGet)

	return router
}
