package main

import (
	"context"
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/allrounder/backend/src/config"
	"github.com/username/allrounder/backend/src/database"
	"github.com/username/allrounder/backend/src/handlers"
	"github.com/username/allrounder/backend/src/logger"
	"github.com/username/allrounder/backend/src/security"
	"github.com/username/allrounder/backend/src/services"
	"github.com/username/allrounder/backend/src/storage"
	"github.com/username/allrounder/backend/src/store"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
			"http://localhost:5173": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Requested-With, Cookie")
			w.Header().Set("Access-Control-Expose-Headers", "X-CSRF-Token")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Allrounder backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid. Must be at least 32 bytes.")
		os.Exit(1)
	}
	if len(config.Cfg.CSRFAuthKey) < 32 {
		logger.L.Error("CSRF_AUTH_KEY must be at least 32 bytes long.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	kvStore := storage.NewSQLiteStore(database.DB)
	appStore := store.New(kvStore)

	logger.L.Info("Initializing price cache...")
	priceCache := cache.New(15*time.Minute, 30*time.Minute)

	logger.L.Info("Initializing services and handlers...")
	authService := security.NewAuthService(config.Cfg.JWTSecret)
	notificationService := services.NewNotificationService()
	priceService := services.NewPriceService(config.Cfg.PriceAPIBaseURL, config.Cfg.PriceFetchTimeout, priceCache)
	swingService := services.NewSwingService()
	goalService := services.NewGoalService(appStore)
	automationService := services.NewAutomationService(
		appStore, priceService, swingService, notificationService,
		config.Cfg.ReportingCurrency, config.Cfg.PriceFetchTimeout,
	)

	userHandler := handlers.NewUserHandler(authService)
	accountHandler := handlers.NewAccountHandler(appStore)
	transactionHandler := handlers.NewTransactionHandler(appStore)
	scheduleHandler := handlers.NewScheduleHandler(appStore)
	goalHandler := handlers.NewGoalHandler(appStore, goalService)
	categoryHandler := handlers.NewCategoryHandler(appStore)
	profileHandler := handlers.NewProfileHandler(appStore)
	automationHandler := handlers.NewAutomationHandler(automationService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	// Public routes.
	apiRouter.HandleFunc("GET /api/auth/csrf", handlers.GetCSRFToken)

	authActionRouter := http.NewServeMux()
	authActionRouter.HandleFunc("POST /login", userHandler.LoginUserHandler)
	authActionRouter.HandleFunc("POST /register", userHandler.RegisterUserHandler)
	authActionRouter.HandleFunc("POST /refresh", userHandler.RefreshTokenHandler)
	authActionRouter.HandleFunc("POST /logout", userHandler.LogoutUserHandler)
	apiRouter.Handle("/api/auth/", http.StripPrefix("/api/auth", handlers.CSRFMiddleware(config.Cfg.CSRFAuthKey)(authActionRouter)))

	csrfProtection := handlers.CSRFMiddleware(config.Cfg.CSRFAuthKey)
	applyCsrfAndAuth := func(handler http.HandlerFunc) http.Handler {
		return csrfProtection(userHandler.AuthMiddleware(handler))
	}

	apiRouter.Handle("GET /api/accounts", applyCsrfAndAuth(accountHandler.HandleListAccounts))
	apiRouter.Handle("POST /api/accounts", applyCsrfAndAuth(accountHandler.HandleCreateAccount))
	apiRouter.Handle("PUT /api/accounts/{id}", applyCsrfAndAuth(accountHandler.HandleUpdateAccount))
	apiRouter.Handle("DELETE /api/accounts/{id}", applyCsrfAndAuth(accountHandler.HandleDeleteAccount))
	apiRouter.Handle("GET /api/balances", applyCsrfAndAuth(accountHandler.HandleGetBalances))

	apiRouter.Handle("GET /api/transactions", applyCsrfAndAuth(transactionHandler.HandleListTransactions))
	apiRouter.Handle("POST /api/transactions", applyCsrfAndAuth(transactionHandler.HandleCreateTransaction))
	apiRouter.Handle("DELETE /api/transactions/{id}", applyCsrfAndAuth(transactionHandler.HandleDeleteTransaction))

	apiRouter.Handle("GET /api/schedules", applyCsrfAndAuth(scheduleHandler.HandleListSchedules))
	apiRouter.Handle("POST /api/schedules", applyCsrfAndAuth(scheduleHandler.HandleCreateSchedule))
	apiRouter.Handle("PATCH /api/schedules/{id}/toggle", applyCsrfAndAuth(scheduleHandler.HandleToggleSchedule))
	apiRouter.Handle("PUT /api/schedules/{id}", applyCsrfAndAuth(scheduleHandler.HandleUpdateSchedule))
	apiRouter.Handle("DELETE /api/schedules/{id}", applyCsrfAndAuth(scheduleHandler.HandleDeleteSchedule))

	apiRouter.Handle("GET /api/goals", applyCsrfAndAuth(goalHandler.HandleListGoals))
	apiRouter.Handle("POST /api/goals", applyCsrfAndAuth(goalHandler.HandleCreateGoal))
	apiRouter.Handle("PUT /api/goals/{id}", applyCsrfAndAuth(goalHandler.HandleUpdateGoal))
	apiRouter.Handle("DELETE /api/goals/{id}", applyCsrfAndAuth(goalHandler.HandleDeleteGoal))
	apiRouter.Handle("POST /api/goals/{id}/progress", applyCsrfAndAuth(goalHandler.HandleSetProgress))
	apiRouter.Handle("POST /api/goals/{id}/tasks", applyCsrfAndAuth(goalHandler.HandleAddTask))
	apiRouter.Handle("PATCH /api/goals/{id}/tasks/{taskId}", applyCsrfAndAuth(goalHandler.HandleToggleTask))
	apiRouter.Handle("DELETE /api/goals/{id}/tasks/{taskId}", applyCsrfAndAuth(goalHandler.HandleDeleteTask))

	apiRouter.Handle("GET /api/categories/{kind}", applyCsrfAndAuth(categoryHandler.HandleListCategories))
	apiRouter.Handle("POST /api/categories/{kind}", applyCsrfAndAuth(categoryHandler.HandleAddCategory))
	apiRouter.Handle("DELETE /api/categories/{kind}/{id}", applyCsrfAndAuth(categoryHandler.HandleDeleteCategory))

	apiRouter.Handle("GET /api/profile", applyCsrfAndAuth(profileHandler.HandleGetProfile))
	apiRouter.Handle("PUT /api/profile", applyCsrfAndAuth(profileHandler.HandleUpdateProfile))

	apiRouter.Handle("POST /api/automation/run", applyCsrfAndAuth(automationHandler.HandleRunNow))

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Allrounder Backend is running"})
		} else if !strings.HasPrefix(r.URL.Path, "/api/") {
			logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
			http.NotFound(w, r)
		}
	})

	if config.Cfg.AutomationEnabled {
		go func() {
			time.Sleep(config.Cfg.AutomationStartupDelay)
			userIDs, err := kvStore.UserIDs()
			if err != nil {
				logger.L.Error("Startup automation pass aborted, cannot list users", "error", err)
				return
			}
			logger.L.Info("Running startup automation pass", "users", len(userIDs))
			automationService.RunStartupPass(context.Background(), userIDs, time.Now())
		}()
	} else {
		logger.L.Info("Daily automation disabled by configuration.")
	}

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
