package main

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"

	"marketpulse/internal/app"
)

// Embedded page template and static assets
//
//go:embed all:web
var webFiles embed.FS

func main() {
	var webFS fs.FS
	if sub, err := fs.Sub(webFiles, "web"); err == nil {
		webFS = sub
	} else {
		slog.Warn("Web assets unavailable, serving API only", slog.String("error", err.Error()))
	}

	application, err := app.NewApplication(webFS)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
