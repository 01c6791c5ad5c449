package routes

import (
	"context"
	"time"

	"github.com/fittrack/fittrack-back/internal/cache"
	"github.com/fittrack/fittrack-back/internal/config"
	"github.com/fittrack/fittrack-back/internal/database"
	"github.com/fittrack/fittrack-back/internal/handlers"
	"github.com/fittrack/fittrack-back/internal/middleware"
	"github.com/fittrack/fittrack-back/internal/repository"
	"github.com/fittrack/fittrack-back/internal/repository/mongostore"
	"github.com/fittrack/fittrack-back/internal/services"
	chatws "github.com/fittrack/fittrack-back/internal/websocket"
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Deps are the connections the API is built from. Mongo and Cache are
// optional.
type Deps struct {
	Config *config.Config
	DB     *pgxpool.Pool
	Mongo  *database.Mongo
	Cache  *cache.RedisCache
	Hub    *chatws.Hub
	Log    *zap.Logger
}

func RegisterRoutes(app *fiber.App, deps Deps) error {
	cfg := deps.Config
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	userRepo := repository.NewUserRepository(deps.DB)
	workoutRepo := repository.NewWorkoutRepository(deps.DB)
	workoutMoodRepo := repository.NewWorkoutMoodRepository(deps.DB)
	moodGoalRepo := repository.NewMoodGoalRepository(deps.DB)
	playlistRepo := repository.NewPlaylistRepository(deps.DB)
	conversationRepo := repository.NewConversationRepository(deps.DB)

	var preferenceStore services.PreferenceStore = repository.NewBuddyPreferenceRepository(deps.DB)
	var moodEntryStore services.MoodEntryStore = repository.NewMoodEntryRepository(deps.DB)
	if deps.Mongo != nil {
		preferenceStore = mongostore.NewPreferenceStore(deps.Mongo.DB.Collection(database.BuddyPreferencesCollection))
		moodEntryStore = mongostore.NewMoodEntryStore(deps.Mongo.DB.Collection(database.MoodEntriesCollection))
		log.Info("using mongodb for buddy preferences and mood entries")
	}

	var matchCache services.MatchCache
	var songCache services.SongSearchCache
	if deps.Cache != nil {
		matchCache = deps.Cache
		songCache = deps.Cache
	}

	var storageService services.StorageService
	if cfg.StorageEnabled() {
		storageService = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	accountService := services.NewAccountService(userRepo, storageService, cfg.JWTSecret, log)
	buddyService := services.NewBuddyService(preferenceStore, userRepo, matchCache, cfg.MatchCacheTTL, log)
	emotionalService := services.NewEmotionalStateService(moodEntryStore, workoutMoodRepo, moodGoalRepo, workoutRepo, log)
	workoutService := services.NewWorkoutService(deps.DB, workoutRepo, log)
	songCatalogue := services.NewSongCatalogue(cfg.SongSearchPrimaryURL, cfg.SongSearchBackupURL, log)
	playlistService := services.NewPlaylistService(playlistRepo, songCatalogue, songCache, log)
	chatService := services.NewChatService(deps.DB, conversationRepo, preferenceStore, log)

	authHandler := handlers.NewAuthHandler(accountService)
	profileHandler := handlers.NewProfileHandler(accountService)
	buddyHandler := handlers.NewBuddyHandler(buddyService)
	emotionalHandler := handlers.NewEmotionalStateHandler(emotionalService)
	workoutHandler := handlers.NewWorkoutHandler(workoutService)
	playlistHandler := handlers.NewPlaylistHandler(playlistService)
	chatHandler := handlers.NewChatHandler(chatService, deps.Hub, cfg.JWTSecret)

	var mongoPinger pinger
	if deps.Mongo != nil {
		mongoPinger = deps.Mongo
	}
	app.Get("/health", healthHandler(mongoPinger))
	if err := registerDocsRoutes(app, cfg); err != nil {
		return err
	}

	api := app.Group("/api")
	authRequired := middleware.AuthRequired(cfg.JWTSecret)

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	users := api.Group("/users", authRequired)
	users.Get("/me", profileHandler.Me)
	users.Post("/avatar", profileHandler.UploadAvatar)

	buddy := api.Group("/buddy", authRequired)
	buddy.Post("/preferences", buddyHandler.SavePreferences)
	buddy.Get("/preferences", buddyHandler.GetPreferences)
	buddy.Get("/matches", buddyHandler.FindMatches)
	buddy.Put("/deactivate", buddyHandler.Deactivate)

	emotional := api.Group("/emotional-state", authRequired)
	emotional.Post("", emotionalHandler.CreateEntry)
	emotional.Get("/trends", emotionalHandler.Trends)
	emotional.Get("/latest", emotionalHandler.Latest)
	emotional.Post("/pre-workout", emotionalHandler.PreWorkout)
	emotional.Post("/post-workout", emotionalHandler.PostWorkout)
	emotional.Get("/workout-trends", emotionalHandler.WorkoutTrends)
	emotional.Post("/goals", emotionalHandler.SetGoal)
	emotional.Get("/goals/progress", emotionalHandler.GoalsProgress)
	emotional.Put("/goals/:id/achieve", emotionalHandler.AchieveGoal)

	workouts := api.Group("/workouts", authRequired)
	workouts.Post("", workoutHandler.AddWorkouts)
	workouts.Get("", workoutHandler.ListByDate)
	workouts.Get("/dashboard", workoutHandler.Dashboard)
	workouts.Get("/:id", workoutHandler.GetWorkout)

	api.Get("/music/search", playlistHandler.Search)
	music := api.Group("/music", authRequired)
	music.Post("/create", playlistHandler.Create)
	music.Get("/user", playlistHandler.List)
	music.Post("/add-song", playlistHandler.AddSong)
	music.Delete("/:playlistId/songs/:songId", playlistHandler.RemoveSong)
	music.Get("/workout/:workoutType", playlistHandler.ByWorkoutType)

	conversations := api.Group("/conversations", authRequired)
	conversations.Get("", chatHandler.ListConversations)
	conversations.Post("", chatHandler.CreateConversation)
	conversations.Get("/:id/messages", chatHandler.GetMessages)

	api.Use("/ws", chatHandler.WebSocketAuth)
	api.Get("/ws", websocket.New(chatHandler.HandleWebSocket))

	return nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

// healthHandler reports the MongoDB connection as connected, disconnected
// or disabled.
func healthHandler(p pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := "disabled"
		if p != nil {
			ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
			defer cancel()
			status = "connected"
			if err := p.Ping(ctx); err != nil {
				status = "disconnected"
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "mongodb": status})
	}
}
