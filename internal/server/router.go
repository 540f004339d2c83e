package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"learnsync-go/internal/auth"
	"learnsync-go/internal/library"
	"learnsync-go/internal/notification"
	"learnsync-go/internal/progress"
)

// Server wires every handler into one routing table.
type Server struct {
	authService   *auth.Service
	authHandler   *auth.Handler
	library       *library.Handler
	progress      *progress.Handler
	notifications *notification.Handler
	cronSecret    string
	logger        *slog.Logger
}

func New(
	authService *auth.Service,
	authHandler *auth.Handler,
	libraryHandler *library.Handler,
	progressHandler *progress.Handler,
	notificationHandler *notification.Handler,
	cronSecret string,
	logger *slog.Logger,
) *Server {
	return &Server{
		authService:   authService,
		authHandler:   authHandler,
		library:       libraryHandler,
		progress:      progressHandler,
		notifications: notificationHandler,
		cronSecret:    cronSecret,
		logger:        logger,
	}
}

func plain(h http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		h(w, r)
	}
}

func (s *Server) Routes() http.Handler {
	router := httprouter.New()

	router.GET("/health", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.POST("/api/auth/register", plain(s.authHandler.Register))
	router.POST("/api/auth/login", plain(s.authHandler.Login))
	router.POST("/api/auth/refresh", plain(s.authHandler.RefreshToken))
	router.GET("/api/auth/me", s.authService.RequireAuth(plain(s.authHandler.Me)))

	router.GET("/api/folders", s.authService.RequireAuth(s.library.ListFolders))
	router.POST("/api/folders", s.authService.RequireAuth(s.library.CreateFolder))
	router.PATCH("/api/folders/:folderID", s.authService.RequireAuth(s.library.UpdateFolder))
	router.DELETE("/api/folders/:folderID", s.authService.RequireAuth(s.library.DeleteFolder))
	router.GET("/api/folders/:folderID/playlists", s.authService.RequireAuth(s.library.ListPlaylists))
	router.POST("/api/folders/:folderID/playlists", s.authService.RequireAuth(s.library.ImportPlaylist))

	router.GET("/api/playlists/:playlistID", s.authService.RequireAuth(s.library.GetPlaylist))
	router.DELETE("/api/playlists/:playlistID", s.authService.RequireAuth(s.library.DeletePlaylist))

	router.POST("/api/videos/:videoID/toggle", s.authService.RequireAuth(s.progress.ToggleVideo))
	router.GET("/api/stats", s.authService.RequireAuth(s.progress.GetStats))

	router.GET("/api/notifications", s.authService.RequireAuth(s.notifications.List))
	router.PUT("/api/notifications/:notificationID/read", s.authService.RequireAuth(s.notifications.MarkRead))
	router.POST("/api/push/subscriptions", s.authService.RequireAuth(s.notifications.Subscribe))
	router.GET("/api/notifications/events", s.authService.RequireAuth(s.notifications.StreamEvents))

	router.POST("/api/cron/daily-reminders", cronGuard(s.cronSecret, s.notifications.RunDailyReminders))
	router.POST("/api/cron/weekly-reports", cronGuard(s.cronSecret, s.notifications.RunWeeklyReports))
	router.POST("/api/cron/streak-celebrations", cronGuard(s.cronSecret, s.notifications.RunStreakCelebrations))

	return requestLogger(s.logger, router)
}
