package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"colorbook/internal/config"
	"colorbook/internal/favorites"
	"colorbook/internal/ui"
)

func main() {
	var (
		configPath = flag.String("config", "", "settings file (.toml, .yaml or .yml)")
		image      = flag.String("image", "", "line art to color")
		svg        = flag.String("svg", "", "SVG page to color region by region")
		width      = flag.Int("width", 0, "canvas width in pixels")
		height     = flag.Int("height", 0, "canvas height in pixels")
		watchArt   = flag.Bool("watch", false, "reload the line art when the file changes")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("[MAIN] %v", err)
		}
	}
	if *width > 0 {
		cfg.Canvas.Width = *width
	}
	if *height > 0 {
		cfg.Canvas.Height = *height
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[MAIN] invalid settings: %v", err)
	}

	// Favorites go to stdout as JSON lines for whatever stores them.
	enc := json.NewEncoder(os.Stdout)
	onFavorite := func(f favorites.Favorite) {
		if err := enc.Encode(f); err != nil {
			log.Printf("[MAIN] favorite %q not written: %v", f.Name, err)
		}
	}

	log.Printf("[MAIN] starting, canvas %dx%d", cfg.Canvas.Width, cfg.Canvas.Height)
	err := ui.RunApp(ui.Options{
		Config:     cfg,
		Image:      *image,
		SVG:        *svg,
		Watch:      *watchArt,
		OnFavorite: onFavorite,
	})
	if err != nil {
		log.Fatalf("[MAIN] %v", err)
	}
}
