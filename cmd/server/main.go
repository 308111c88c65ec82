package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/walaz05/vivomejor/internal/config"
	"github.com/walaz05/vivomejor/internal/database"
	"github.com/walaz05/vivomejor/internal/game"
	"github.com/walaz05/vivomejor/internal/handlers"
	"github.com/walaz05/vivomejor/internal/jobs"
	"github.com/walaz05/vivomejor/internal/notify"
	"github.com/walaz05/vivomejor/internal/repository"
	cronjobs "github.com/walaz05/vivomejor/internal/scheduler"
	"github.com/walaz05/vivomejor/internal/services"
	"github.com/walaz05/vivomejor/internal/session"
	"github.com/walaz05/vivomejor/pkg/logger"
	"github.com/walaz05/vivomejor/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	defer database.Disconnect(db)

	// --- Repositories ---
	progressRepo := repository.NewProgressRepository(db)
	itemRepo := repository.NewItemRepository(db)
	savingsRepo := repository.NewSavingsRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// --- Per-session state ---
	center := notify.NewCenter(cfg.NotificationWindow)
	sessions := session.NewManager(progressRepo, center, game.LogCuePlayer{})
	defer sessions.Close()
	defer center.Close()

	// --- Services ---
	itemService := services.NewItemService(itemRepo)
	savingsService := services.NewSavingsService(savingsRepo)
	scheduleService := services.NewScheduleService(scheduleRepo)
	noteService := services.NewNoteService(noteRepo)
	chatService := services.NewChatService(chatRepo, itemRepo, services.NewScriptedResponder())

	// --- Handlers ---
	progressHandler := handlers.NewProgressHandler(sessions)
	itemHandler := handlers.NewItemHandler(itemService, sessions)
	savingsHandler := handlers.NewSavingsHandler(savingsService, sessions)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, sessions)
	noteHandler := handlers.NewNoteHandler(noteService, sessions)
	chatHandler := handlers.NewChatHandler(chatService, sessions)
	notificationHandler := handlers.NewNotificationHandler(sessions)
	liveHandler := handlers.NewLiveHandler(cfg.JWTSecret, sessions, itemRepo, savingsRepo, scheduleRepo, noteRepo, chatRepo)

	// Evening streak reminder
	reminder := jobs.NewStreakReminder(itemService, sessions)
	reminderCron := cronjobs.StartReminderCronJobs(reminder, cfg.ReminderCron)
	defer reminderCron.Stop()

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Progress routes
	progressRoutes := router.PathPrefix("/progress").Subrouter()
	progressRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	progressRoutes.HandleFunc("", progressHandler.GetProgressHandler).Methods("GET")
	progressRoutes.HandleFunc("/award", progressHandler.AwardXPHandler).Methods("POST")

	// Habit and goal routes
	itemRoutes := router.PathPrefix("/items").Subrouter()
	itemRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	itemRoutes.HandleFunc("", itemHandler.ListItemsHandler).Methods("GET")
	itemRoutes.HandleFunc("", itemHandler.CreateItemHandler).Methods("POST")
	itemRoutes.HandleFunc("/{id}/complete", itemHandler.CompleteHabitHandler).Methods("POST")
	itemRoutes.HandleFunc("/{id}/toggle", itemHandler.ToggleGoalHandler).Methods("POST")
	itemRoutes.HandleFunc("/{id}", itemHandler.DeleteItemHandler).Methods("DELETE")

	// Savings routes
	savingsRoutes := router.PathPrefix("/savings").Subrouter()
	savingsRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	savingsRoutes.HandleFunc("", savingsHandler.ListSavingsHandler).Methods("GET")
	savingsRoutes.HandleFunc("", savingsHandler.CreateSavingsHandler).Methods("POST")
	savingsRoutes.HandleFunc("/{id}/deposit", savingsHandler.DepositHandler).Methods("POST")
	savingsRoutes.HandleFunc("/{id}", savingsHandler.DeleteSavingsHandler).Methods("DELETE")

	// Schedule routes
	scheduleRoutes := router.PathPrefix("/schedule").Subrouter()
	scheduleRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	scheduleRoutes.HandleFunc("", scheduleHandler.ListScheduleHandler).Methods("GET")
	scheduleRoutes.HandleFunc("/{hour}", scheduleHandler.SetSlotHandler).Methods("PUT")
	scheduleRoutes.HandleFunc("/{hour}", scheduleHandler.ClearSlotHandler).Methods("DELETE")

	// Note routes
	noteRoutes := router.PathPrefix("/notes").Subrouter()
	noteRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	noteRoutes.HandleFunc("", noteHandler.ListNotesHandler).Methods("GET")
	noteRoutes.HandleFunc("", noteHandler.CreateNoteHandler).Methods("POST")
	noteRoutes.HandleFunc("/{id}/toggle", noteHandler.ToggleNoteHandler).Methods("POST")
	noteRoutes.HandleFunc("/{id}", noteHandler.DeleteNoteHandler).Methods("DELETE")

	// Coach chat routes
	chatRoutes := router.PathPrefix("/chat").Subrouter()
	chatRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	chatRoutes.HandleFunc("", chatHandler.HistoryHandler).Methods("GET")
	chatRoutes.HandleFunc("", chatHandler.SendHandler).Methods("POST")

	// Notification routes
	notificationRoutes := router.PathPrefix("/notifications").Subrouter()
	notificationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	notificationRoutes.HandleFunc("", notificationHandler.ListNotificationsHandler).Methods("GET")
	notificationRoutes.HandleFunc("/{id}", notificationHandler.DismissNotificationHandler).Methods("DELETE")

	// Live collection feeds (WebSocket, token in query)
	router.HandleFunc("/live/{collection}", liveHandler.LiveFeedHandler)

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
