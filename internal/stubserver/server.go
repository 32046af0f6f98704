// Package stubserver is an in-memory implementation of the backend REST
// contract, used for local development and as the counterpart of the client
// in tests.
package stubserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/posadmin/internal/config"
	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/middleware"
	"github.com/simp-lee/posadmin/internal/pkg"
)

// Server is the stub backend: a gin engine over a Store.
type Server struct {
	engine *gin.Engine
	store  *Store
	logger *slog.Logger
	cfg    *config.StubConfig
	now    func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithStore serves an existing store instead of a fresh empty one.
func WithStore(store *Store) Option {
	return func(s *Server) { s.store = store }
}

// WithClock replaces time.Now for token issue and upload timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// New wires the middleware and routes of a stub backend. cfg must already
// be validated.
func New(cfg *config.StubConfig, logger *slog.Logger, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("stub config is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{logger: logger, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = NewStore()
	}

	if cfg.Mode == gin.DebugMode && cfg.Host == "0.0.0.0" {
		logger.Warn("insecure stub config: debug mode on 0.0.0.0 exposes permissive CORS")
	}

	gin.SetMode(cfg.Mode)
	engine := gin.New()
	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(corsOrigins(cfg.Mode, cfg.CORS.AllowOrigins)),
	)
	s.engine = engine
	s.registerRoutes()
	return s, nil
}

// Handler returns the HTTP handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Store returns the tables the server answers from.
func (s *Server) Store() *Store {
	return s.store
}

// corsOrigins allows any origin in debug mode unless an allowlist is
// configured. Release mode without an allowlist denies cross-origin requests.
func corsOrigins(mode string, configured []string) []string {
	if len(configured) > 0 {
		return configured
	}
	if mode == gin.ReleaseMode {
		return nil
	}
	return []string{"*"}
}

func (s *Server) registerRoutes() {
	r := s.engine
	r.GET("/health", s.health)

	images := &imageHandler{store: s.store, now: s.now}
	r.GET("/files/:code/:name", images.serveFile)

	if s.cfg.Auth.Enabled {
		r.POST("/"+domain.PathLogin, newAuthHandler(s.cfg.Auth, s.now).login)
	}

	api := r.Group("/")
	if s.cfg.Auth.Enabled {
		api.Use(middleware.Auth([]byte(s.cfg.Auth.JWTSecret)))
	}

	st := s.store
	mountResource(api.Group(domain.PathCustomerGroups), st.CustomerGroups, resourceOptions[domain.CustomerGroup]{})
	mountResource(api.Group(domain.PathCustomers), st.Customers, resourceOptions[domain.Customer]{})
	mountResource(api.Group(domain.PathProductGroups), st.ProductGroups, resourceOptions[domain.ProductGroup]{})
	mountResource(api.Group(domain.PathProductCategories), st.ProductCategories, resourceOptions[domain.ProductCategory]{})
	mountResource(api.Group(domain.PathProducts), st.Products, resourceOptions[domain.Product]{})
	mountResource(api.Group(domain.PathSizes), st.Sizes, resourceOptions[domain.Size]{})
	mountResource(api.Group(domain.VariantsPath(":itemCode")), st.Variants, resourceOptions[domain.Variant]{
		scope: map[string]string{"itemCode": "itemCode"},
	})
	mountResource(api.Group(domain.PathProductTrees), st.ProductTrees, resourceOptions[domain.ProductTree]{})
	mountResource(api.Group(domain.PathAccompaniments), st.Accompaniments, resourceOptions[domain.Accompaniment]{})
	mountResource(api.Group(domain.PathCombos), st.Combos, resourceOptions[domain.Combo]{})
	mountResource(api.Group(domain.PathDevices), st.Devices, resourceOptions[domain.Device]{})
	mountResource(api.Group(domain.PathPointsOfSale), st.PointsOfSale, resourceOptions[domain.PointOfSale]{})
	mountResource(api.Group(domain.PathOrders), st.Orders, resourceOptions[domain.Order]{
		beforeCreate: func(_ *gin.Context, o *domain.Order) {
			if o.CreatedAt.IsZero() {
				o.CreatedAt = s.now().UTC()
			}
		},
	})

	imageGroup := api.Group(domain.PathImages)
	imageGroup.POST("/upload", images.upload)
	imageGroup.POST("/upload-multiple", images.uploadMultiple)
	mountResource(imageGroup, st.Images, resourceOptions[domain.Image]{
		afterDelete: func(key string, _ domain.Image) { st.dropFile(key) },
	})

	r.NoRoute(func(c *gin.Context) {
		pkg.Error(c, domain.ErrNotFound)
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"auth":   s.cfg.Auth.Enabled,
	})
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully with a 5-second deadline.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	srv := newHTTPServer(addr, s.engine)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("stub server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("server shutdown error", slog.Any("error", err))
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("stub server stopped")
	return nil
}
