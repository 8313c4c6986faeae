package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/sword-drill/backend/internal/achievements"
	"github.com/sword-drill/backend/internal/auth"
	"github.com/sword-drill/backend/internal/config"
	"github.com/sword-drill/backend/internal/database"
	"github.com/sword-drill/backend/internal/generator"
	"github.com/sword-drill/backend/internal/middleware"
	"github.com/sword-drill/backend/internal/progress"
	"github.com/sword-drill/backend/internal/scheduler"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	auth.SetSecret(cfg.JWTSecret)

	// Initialize database
	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	catalog, err := achievements.LoadCatalog(cfg.AchievementsPath)
	if err != nil {
		log.Fatalf("Failed to load achievement catalog: %v", err)
	}

	// Initialize services and handlers
	store := progress.NewStore(db)
	service := progress.NewService(store, catalog)
	progressHandler := progress.NewHandler(service)
	authHandler := auth.NewHandler(db)

	gen := generator.NewGenerator(cfg.AnthropicModel, cfg.MockGenerator)
	sched := scheduler.New(service, store, gen)
	sched.Start()
	defer sched.Stop()

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/progress", progressHandler.GetProgress).Methods("GET")
	protected.HandleFunc("/levels/progress", progressHandler.GetLevelProgress).Methods("GET")

	protected.HandleFunc("/quiz/config", progressHandler.QuizConfig).Methods("GET")
	protected.HandleFunc("/quiz/submit", progressHandler.SubmitQuiz).Methods("POST")
	protected.HandleFunc("/quiz/bonus-trivia", progressHandler.BonusTrivia).Methods("POST")
	protected.HandleFunc("/bonus/verse-of-day", progressHandler.VerseOfDay).Methods("POST")

	protected.HandleFunc("/shop/purchase", progressHandler.PurchaseShopItem).Methods("POST")

	protected.HandleFunc("/reviews/start", progressHandler.StartReview).Methods("POST")
	protected.HandleFunc("/reviews/hints", progressHandler.PurchaseHint).Methods("POST")
	protected.HandleFunc("/reviews/complete", progressHandler.CompleteReview).Methods("POST")

	protected.HandleFunc("/verses/personal", progressHandler.AddPersonalVerse).Methods("POST")
	protected.HandleFunc("/verses/personal", progressHandler.ListPersonalVerses).Methods("GET")

	protected.HandleFunc("/leaderboard", progressHandler.Leaderboard).Methods("GET")
	protected.HandleFunc("/trivia/daily", progressHandler.DailyTrivia).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	log.Printf("Server starting on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
