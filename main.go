package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lifeTrackAPI/handlers"
	"lifeTrackAPI/internal/metrics"
	"lifeTrackAPI/middleware"
	"lifeTrackAPI/services"
)

var (
	dbPool              *pgxpool.Pool
	profileService      *services.ProfileService
	achievementsService *services.AchievementsService
	goalsService        *services.GoalsService
	habitsService       *services.HabitsService
	bucketListService   *services.BucketListService
	financeService      *services.FinanceService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to Postgres")

	profileService = services.NewProfileService(dbPool)
	achievementsService = services.NewAchievementsService(dbPool, profileService)
	goalsService = services.NewGoalsService(dbPool, profileService, achievementsService)
	habitsService = services.NewHabitsService(dbPool, profileService, achievementsService)
	bucketListService = services.NewBucketListService(dbPool, profileService, achievementsService)
	financeService = services.NewFinanceService(dbPool, profileService, achievementsService)

	if err := achievementsService.SeedCatalog(ctx); err != nil {
		log.Fatal("Failed to seed achievement catalog:", err)
	}

	metrics.Register()
	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	profileHandler := handlers.NewProfileHandler(profileService)
	achievementsHandler := handlers.NewAchievementsHandler(achievementsService)
	goalsHandler := handlers.NewGoalsHandler(goalsService)
	habitsHandler := handlers.NewHabitsHandler(habitsService)
	bucketListHandler := handlers.NewBucketListHandler(bucketListService)
	financeHandler := handlers.NewFinanceHandler(financeService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "lifeTrack-api"}`))
	}).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.JWTAuthMiddleware)

	protected.HandleFunc("/profile", profileHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/profile", profileHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/profile/level", profileHandler.GetLevelProgress).Methods("GET")

	protected.HandleFunc("/goals", goalsHandler.GetGoals).Methods("GET")
	protected.HandleFunc("/goals", goalsHandler.CreateGoal).Methods("POST")
	protected.HandleFunc("/goals/stats", goalsHandler.GetGoalStats).Methods("GET")
	protected.HandleFunc("/goals/{id}", goalsHandler.GetGoal).Methods("GET")
	protected.HandleFunc("/goals/{id}", goalsHandler.UpdateGoal).Methods("PUT")
	protected.HandleFunc("/goals/{id}", goalsHandler.DeleteGoal).Methods("DELETE")
	protected.HandleFunc("/goals/{id}/progress", goalsHandler.UpdateGoalProgress).Methods("PUT")
	protected.HandleFunc("/goals/{id}/complete", goalsHandler.CompleteGoal).Methods("POST")
	protected.HandleFunc("/goals/{id}/restore", goalsHandler.RestoreGoal).Methods("POST")

	protected.HandleFunc("/habits", habitsHandler.GetHabits).Methods("GET")
	protected.HandleFunc("/habits", habitsHandler.CreateHabit).Methods("POST")
	protected.HandleFunc("/habits/today", habitsHandler.GetTodayStatus).Methods("GET")
	protected.HandleFunc("/habits/stats", habitsHandler.GetHabitStats).Methods("GET")
	protected.HandleFunc("/habits/{id}", habitsHandler.GetHabit).Methods("GET")
	protected.HandleFunc("/habits/{id}", habitsHandler.UpdateHabit).Methods("PUT")
	protected.HandleFunc("/habits/{id}", habitsHandler.DeleteHabit).Methods("DELETE")
	protected.HandleFunc("/habits/{id}/log", habitsHandler.LogHabit).Methods("POST")
	protected.HandleFunc("/habits/{id}/calendar", habitsHandler.GetHabitCalendar).Methods("GET")

	protected.HandleFunc("/bucket-list", bucketListHandler.GetItems).Methods("GET")
	protected.HandleFunc("/bucket-list", bucketListHandler.CreateItem).Methods("POST")
	protected.HandleFunc("/bucket-list/stats", bucketListHandler.GetBucketStats).Methods("GET")
	protected.HandleFunc("/bucket-list/{id}", bucketListHandler.GetItem).Methods("GET")
	protected.HandleFunc("/bucket-list/{id}", bucketListHandler.UpdateItem).Methods("PUT")
	protected.HandleFunc("/bucket-list/{id}", bucketListHandler.DeleteItem).Methods("DELETE")
	protected.HandleFunc("/bucket-list/{id}/complete", bucketListHandler.CompleteItem).Methods("POST")

	protected.HandleFunc("/finance/dashboard", financeHandler.GetDashboard).Methods("GET")
	protected.HandleFunc("/finance/categories", financeHandler.GetCategories).Methods("GET")
	protected.HandleFunc("/finance/expenses", financeHandler.GetExpenses).Methods("GET")
	protected.HandleFunc("/finance/expenses", financeHandler.CreateExpense).Methods("POST")
	protected.HandleFunc("/finance/expenses/summary", financeHandler.GetExpenseSummary).Methods("GET")
	protected.HandleFunc("/finance/expenses/{id}", financeHandler.GetExpense).Methods("GET")
	protected.HandleFunc("/finance/expenses/{id}", financeHandler.UpdateExpense).Methods("PUT")
	protected.HandleFunc("/finance/expenses/{id}", financeHandler.DeleteExpense).Methods("DELETE")
	protected.HandleFunc("/finance/income", financeHandler.GetIncomes).Methods("GET")
	protected.HandleFunc("/finance/income", financeHandler.CreateIncome).Methods("POST")
	protected.HandleFunc("/finance/income/summary", financeHandler.GetIncomeSummary).Methods("GET")
	protected.HandleFunc("/finance/income/{id}", financeHandler.GetIncome).Methods("GET")
	protected.HandleFunc("/finance/income/{id}", financeHandler.UpdateIncome).Methods("PUT")
	protected.HandleFunc("/finance/income/{id}", financeHandler.DeleteIncome).Methods("DELETE")
	protected.HandleFunc("/finance/budgets", financeHandler.GetBudgets).Methods("GET")
	protected.HandleFunc("/finance/budgets", financeHandler.SetBudget).Methods("POST")
	protected.HandleFunc("/finance/budgets/comparison", financeHandler.GetBudgetComparison).Methods("GET")
	protected.HandleFunc("/finance/budgets/{id}", financeHandler.DeleteBudget).Methods("DELETE")
	protected.HandleFunc("/finance/savings", financeHandler.GetSavingsGoals).Methods("GET")
	protected.HandleFunc("/finance/savings", financeHandler.CreateSavingsGoal).Methods("POST")
	protected.HandleFunc("/finance/savings/stats", financeHandler.GetSavingsStats).Methods("GET")
	protected.HandleFunc("/finance/savings/{id}", financeHandler.GetSavingsGoal).Methods("GET")
	protected.HandleFunc("/finance/savings/{id}", financeHandler.UpdateSavingsGoal).Methods("PUT")
	protected.HandleFunc("/finance/savings/{id}", financeHandler.DeleteSavingsGoal).Methods("DELETE")
	protected.HandleFunc("/finance/savings/{id}/deposit", financeHandler.Deposit).Methods("POST")
	protected.HandleFunc("/finance/budget-check", financeHandler.BudgetCheck).Methods("POST")

	protected.HandleFunc("/achievements", achievementsHandler.GetAchievements).Methods("GET")
	protected.HandleFunc("/achievements/unlocked", achievementsHandler.GetUnlockedAchievements).Methods("GET")
	protected.HandleFunc("/achievements/stats", achievementsHandler.GetAchievementStats).Methods("GET")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
