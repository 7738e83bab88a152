package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/binkeyit/storefront/config"
	"github.com/binkeyit/storefront/internal/auth"
	"github.com/binkeyit/storefront/internal/db"
	"github.com/binkeyit/storefront/internal/handlers"
	"github.com/binkeyit/storefront/internal/logging"
	"github.com/binkeyit/storefront/internal/mailer"
	"github.com/binkeyit/storefront/internal/metrics"
	"github.com/binkeyit/storefront/internal/middleware"
	"github.com/binkeyit/storefront/internal/mq"
	"github.com/binkeyit/storefront/internal/services"
	"github.com/binkeyit/storefront/internal/storage"
	"github.com/binkeyit/storefront/internal/store"
)

// Server wraps the HTTP server together with the process-scoped resources it
// owns: the database pool, the message queue connection and the email worker.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	logger     *slog.Logger

	db    *sql.DB
	queue *mq.MQ

	workerCancel context.CancelFunc
	stopCleanup  chan struct{}
}

// New wires the whole application from configuration.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	logger := logging.New(os.Stdout)
	slog.SetDefault(logger)

	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	images, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	queue, err := newQueue(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	var provider mailer.Sender
	if cfg.Mail.APIKey != "" {
		resend, err := mailer.NewResendClient(cfg.Mail.APIKey, cfg.Mail.From)
		if err != nil {
			_ = dbConn.Close()
			return nil, err
		}
		provider = resend
	}

	// With a broker, handlers enqueue email jobs and a worker delivers them.
	// Without one, the provider is called synchronously from the request path.
	sender := provider
	var workerCancel context.CancelFunc
	if queue != nil && provider != nil {
		sender = mailer.NewQueueSender(queue)
		worker := mailer.NewWorker(queue, provider, logger)

		var workerCtx context.Context
		workerCtx, workerCancel = context.WithCancel(context.Background())
		go func() {
			if err := worker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("email worker stopped", "err", err)
			}
		}()
	}

	userRepo := store.NewUserRepository(dbConn)
	categoryRepo := store.NewCategoryRepository(dbConn)
	subCategoryRepo := store.NewSubCategoryRepository(dbConn)
	productRepo := store.NewProductRepository(dbConn)
	cartRepo := store.NewCartRepository(dbConn)
	addressRepo := store.NewAddressRepository(dbConn)
	orderRepo := store.NewOrderRepository(dbConn)

	tokens := auth.NewTokenIssuer(cfg.Auth.AccessTokenSecret, cfg.Auth.RefreshTokenSecret)

	userService := services.NewUserService(userRepo, tokens, sender, images, cfg.FrontendURL, logger)
	catalogService := services.NewCatalogService(categoryRepo, subCategoryRepo, productRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	addressService := services.NewAddressService(addressRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, addressRepo, cartRepo, logger)

	gate := handlers.RequireUser(tokens)
	admin := handlers.RequireAdmin(userService)

	stopCleanup := make(chan struct{})
	perSecond := float64(cfg.RateLimit.CredentialPerMinute) / 60
	credentialLimiter := middleware.NewRateLimiter(perSecond, cfg.RateLimit.CredentialPerMinute, stopCleanup)

	instruments := metrics.New()

	router := chi.NewRouter()
	router.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		chimw.Logger,
		chimw.Timeout(60*time.Second),
		instruments.Middleware,
	)
	router.Get("/healthz", handlers.Health(dbConn))
	router.Method(http.MethodGet, "/metrics", instruments.Handler())
	router.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Use(credentialLimiter.Handler)
			handlers.UserRouter(r, userService, tokens)
		})
		r.Route("/category", func(r chi.Router) {
			handlers.CategoryRouter(r, catalogService, gate, admin)
		})
		r.Route("/subcategory", func(r chi.Router) {
			handlers.SubCategoryRouter(r, catalogService, gate, admin)
		})
		r.Route("/product", func(r chi.Router) {
			handlers.ProductRouter(r, catalogService, gate, admin)
		})
		r.Route("/cart", func(r chi.Router) {
			handlers.CartRouter(r, cartService, gate)
		})
		r.Route("/address", func(r chi.Router) {
			handlers.AddressRouter(r, addressService, gate)
		})
		r.Route("/order", func(r chi.Router) {
			handlers.OrderRouter(r, orderService, gate)
		})
		r.Route("/file", func(r chi.Router) {
			handlers.UploadRouter(r, images, gate, admin)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer:   httpServer,
		router:       router,
		logger:       logger,
		db:           dbConn,
		queue:        queue,
		workerCancel: workerCancel,
		stopCleanup:  stopCleanup,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests, then releases owned resources.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	if s.workerCancel != nil {
		s.workerCancel()
	}
	close(s.stopCleanup)
	if s.queue != nil {
		if closeErr := s.queue.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}
	if closeErr := s.db.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	return err
}

func newStorage(ctx context.Context, cfg config.StorageConfig) (*storage.Storage, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "minio":
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, fmt.Errorf("init minio: %w", err)
		}
		st := storage.NewStorage(client)
		if err := st.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensure bucket: %w", err)
		}
		return st, nil
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, fmt.Errorf("init gcs: %w", err)
		}
		st := storage.NewStorage(client)
		if err := st.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensure bucket: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func newQueue(ctx context.Context, cfg config.MQConfig) (*mq.MQ, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "rabbitmq":
		client, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, fmt.Errorf("init rabbitmq: %w", err)
		}
		return mq.New(client), nil
	case "pubsub":
		client, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, fmt.Errorf("init pubsub: %w", err)
		}
		return mq.New(client), nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.Backend)
	}
}
