package app

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"campusmate/client/internal/admin"
	"campusmate/client/internal/chat"
	"campusmate/client/internal/client"
	"campusmate/client/internal/config"
	"campusmate/client/internal/upload"
	"campusmate/client/internal/view"
)

// Run wires the application together and dispatches to the surface named by
// the first argument. The exit code follows the usual convention: 0 on
// success, 1 on failure, 2 for an unknown surface.
func Run(args []string) int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this
		// critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)

	api := client.New(cfg.APIURL)
	slog.Info("Using CampusMate backend", "api_url", cfg.APIURL, "school_id", cfg.SchoolID)

	surface := "chat"
	if len(args) > 0 {
		surface = args[0]
	}

	ctx := context.Background()

	switch surface {
	case "chat":
		controller := chat.NewController(api, cfg.SchoolID)
		chatView := view.NewChatView(controller, os.Stdin, os.Stdout)
		if err := chatView.Run(ctx); err != nil {
			slog.Error("Chat view failed", "error", err)
			return 1
		}
	case "upload":
		coordinator := upload.NewCoordinator(api, cfg.SchoolID)
		uploadView := view.NewUploadView(coordinator, cfg.UploadMode, os.Stdin, os.Stdout)
		if err := uploadView.Run(ctx); err != nil {
			slog.Error("Upload view failed", "error", err)
			return 1
		}
	case "admin":
		service := admin.NewService(api, cfg.SchoolID)
		adminView := view.NewAdminView(service, os.Stdout)
		if err := adminView.Run(ctx, args[1:]); err != nil {
			return 1
		}
	default:
		view.NotFound(os.Stdout, surface)
		return 2
	}

	return 0
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
