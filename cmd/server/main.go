package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nossamoto/backend/internal/cache"
	"github.com/nossamoto/backend/internal/config"
	"github.com/nossamoto/backend/internal/handler"
	"github.com/nossamoto/backend/internal/logging"
	"github.com/nossamoto/backend/internal/repository"
	"github.com/nossamoto/backend/internal/service"
	"github.com/nossamoto/backend/internal/storage"
	"github.com/nossamoto/backend/pkg/auth"
	"github.com/nossamoto/backend/pkg/extractor"
	"github.com/nossamoto/backend/pkg/postal"
)

// stores bundles the repositories of the selected driver.
type stores struct {
	db           repository.DB
	motorcycles  repository.MotorcycleRepository
	coefficients repository.CoefficientRepository
	submissions  repository.SubmissionRepository
	close        func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.StoreDriver == config.DriverSQLite {
		kv, err := repository.OpenKVStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &stores{
			db:           kv,
			motorcycles:  repository.NewKVMotorcycleRepository(kv),
			coefficients: repository.NewKVCoefficientRepository(kv),
			submissions:  repository.NewKVSubmissionRepository(kv),
			close:        func() { _ = kv.Close() },
		}, nil
	}

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return &stores{
		db:           pool,
		motorcycles:  repository.NewPgMotorcycleRepository(pool),
		coefficients: repository.NewPgCoefficientRepository(pool),
		submissions:  repository.NewPgSubmissionRepository(pool),
		close:        pool.Close,
	}, nil
}

// sessionSecret returns the configured signing key. Only dev mode without a
// configured key falls back to a random one.
func sessionSecret(cfg *config.Config) ([]byte, error) {
	if cfg.SessionSecret == "" && !cfg.AuthRequired {
		slog.Warn("SESSION_SECRET not set; using a random key, admin sessions end on restart")
		return auth.RandomSessionSecret()
	}
	return auth.SessionSecretBytes(cfg.SessionSecret)
}

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("failed to load config", "error", err)
	}

	ctx := context.Background()
	st, err := openStores(ctx, cfg)
	if err != nil {
		logging.Fatal("failed to open store", "driver", cfg.StoreDriver, "error", err)
	}
	defer st.close()

	h := handler.New(st.db, cfg.FrontendURL)

	// Without Redis the cache lives in process.
	var c cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			slog.Warn("redis unreachable, using in-memory cache", "addr", cfg.RedisAddr, "error", err)
			_ = rc.Close()
		} else {
			defer rc.Close()
			c = rc
			h.AddDependency("cache", rc)
		}
	}

	// Bulk import is disabled without GEMINI_API_KEY.
	var ex extractor.Extractor
	if cfg.GeminiAPIKey != "" {
		gx, err := extractor.NewGeminiExtractor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Warn("extractor disabled", "error", err)
		} else {
			ex = gx
		}
	}

	if !cfg.AdminConfigured() && cfg.AuthRequired {
		slog.Warn("ADMIN_EMAIL / ADMIN_PASSWORD_HASH not set; admin login is disabled")
	}

	motorcycleService := service.NewMotorcycleService(st.motorcycles)
	coefficientService := service.NewCoefficientService(st.coefficients)
	simulationService := service.NewSimulationService(st.motorcycles, st.coefficients, st.submissions)
	addressService := service.NewAddressService(postal.NewViaCEPClient(cfg.PostalBaseURL, cfg.PostalTimeout), c)
	var importOpts []service.ImportOption
	if cfg.ImportArchiveDir != "" {
		importOpts = append(importOpts, service.WithDocumentArchive(storage.NewLocalStorage(cfg.ImportArchiveDir)))
	}
	importService := service.NewImportService(ex, c, st.motorcycles, st.coefficients, importOpts...)
	adminAuthService := service.NewAdminAuthService(cfg.AdminEmail, cfg.AdminPasswordHash)

	secret, err := sessionSecret(cfg)
	if err != nil {
		logging.Fatal("invalid session secret", "error", err)
	}
	sessions := auth.NewSessionManager(secret, cfg.AdminSessionTTL, cfg.CookieSecure)

	motorcycleHandler := handler.NewMotorcycleHandler(motorcycleService)
	coefficientHandler := handler.NewCoefficientHandler(coefficientService)
	simulationHandler := handler.NewSimulationHandler(simulationService)
	addressHandler := handler.NewAddressHandler(addressService)
	importHandler := handler.NewImportHandler(importService, cfg.MaxUploadBytes())
	adminAuthHandler := handler.NewAdminAuthHandler(adminAuthService, sessions)
	legalHandler := handler.NewLegalHandler(handler.LegalConfig{DocsDir: cfg.LegalDocsDir})
	loginLimiter := handler.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("GET /api/legal/{type}", legalHandler.Legal)

	// Application form (public)
	mux.HandleFunc("GET /api/motorcycles", motorcycleHandler.List)
	mux.HandleFunc("POST /api/simulations/quote", simulationHandler.Quote)
	mux.HandleFunc("POST /api/simulations", simulationHandler.Submit)
	mux.HandleFunc("GET /api/address/{postalCode}", addressHandler.Lookup)

	// Admin session
	wrapAdmin := func(next http.Handler) http.Handler {
		if cfg.AuthRequired {
			return auth.RequireAdmin(sessions)(next)
		}
		return auth.DevAdmin(next)
	}
	session := http.Handler(http.HandlerFunc(adminAuthHandler.Session))
	if !cfg.AuthRequired {
		session = auth.DevAdmin(session)
	}
	mux.Handle("POST /api/admin/login", loginLimiter.Middleware(http.HandlerFunc(adminAuthHandler.Login)))
	mux.HandleFunc("POST /api/admin/logout", adminAuthHandler.Logout)
	mux.Handle("GET /api/admin/session", session)

	// Back office
	mux.Handle("GET /api/admin/submissions", wrapAdmin(http.HandlerFunc(simulationHandler.List)))
	mux.Handle("GET /api/admin/submissions/export", wrapAdmin(http.HandlerFunc(simulationHandler.Export)))

	mux.Handle("GET /api/admin/motorcycles", wrapAdmin(http.HandlerFunc(motorcycleHandler.List)))
	mux.Handle("POST /api/admin/motorcycles", wrapAdmin(http.HandlerFunc(motorcycleHandler.Create)))
	mux.Handle("PUT /api/admin/motorcycles/{id}", wrapAdmin(http.HandlerFunc(motorcycleHandler.Replace)))
	mux.Handle("PATCH /api/admin/motorcycles/{id}", wrapAdmin(http.HandlerFunc(motorcycleHandler.Patch)))
	mux.Handle("DELETE /api/admin/motorcycles/{id}", wrapAdmin(http.HandlerFunc(motorcycleHandler.Delete)))

	mux.Handle("GET /api/admin/coefficients", wrapAdmin(http.HandlerFunc(coefficientHandler.List)))
	mux.Handle("POST /api/admin/coefficients", wrapAdmin(http.HandlerFunc(coefficientHandler.Create)))
	mux.Handle("PUT /api/admin/coefficients/{id}", wrapAdmin(http.HandlerFunc(coefficientHandler.Replace)))
	mux.Handle("PATCH /api/admin/coefficients/{id}", wrapAdmin(http.HandlerFunc(coefficientHandler.Patch)))
	mux.Handle("DELETE /api/admin/coefficients/{id}", wrapAdmin(http.HandlerFunc(coefficientHandler.Delete)))

	mux.Handle("POST /api/admin/import/extract", wrapAdmin(http.HandlerFunc(importHandler.Extract)))
	mux.Handle("POST /api/admin/import/{batchID}/confirm", wrapAdmin(http.HandlerFunc(importHandler.Confirm)))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.RequestLogger(handler.SecurityHeaders(h.CORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "store", cfg.StoreDriver, "import_enabled", ex != nil)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
