package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/pixelweaver/gallery_viewer/pkg/album"
	"github.com/pixelweaver/gallery_viewer/pkg/cache"
	"github.com/pixelweaver/gallery_viewer/pkg/config"
	"github.com/pixelweaver/gallery_viewer/pkg/export"
	"github.com/pixelweaver/gallery_viewer/pkg/ui"
	"github.com/pixelweaver/gallery_viewer/pkg/updater"
	"github.com/pixelweaver/gallery_viewer/pkg/version"
	"github.com/pixelweaver/gallery_viewer/pkg/watcher"
)

// watchQuiet is the debounce window for filesystem reloads.
const watchQuiet = 500 * time.Millisecond

func main() {
	help := flag.Bool("help", false, "Show help")
	showVersion := flag.Bool("version", false, "Show version")
	dir := flag.String("dir", "", "Photo directory (overrides config)")
	configPath := flag.String("config", "", "Config file path")
	speed := flag.Float64("speed", 0, "Animation speed multiplier (overrides config)")
	exportPath := flag.String("export", "", "Write a contact sheet PNG and exit")
	serve := flag.Bool("serve", false, "Serve an album preview over HTTP and exit")
	noCache := flag.Bool("no-cache", false, "Disable the thumbnail cache")
	debug := flag.Bool("debug", false, "Log debug output to gv.log")
	flag.Parse()

	if *debug {
		f, err := tea.LogToFile("gv.log", "gv")
		if err != nil {
			fmt.Printf("Error opening debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	if *help {
		fmt.Println("Usage: gv [options]")
		fmt.Println("\nA TUI photo gallery with a drag-to-dismiss detail view.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *showVersion {
		fmt.Println("gv version " + version.Version)
		os.Exit(0)
	}

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *dir != "" {
		cfg.Library = *dir
	}
	if *speed != 0 {
		cfg.AnimationSpeed = *speed
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	photos, err := album.Scan(cfg.Library)
	if err != nil {
		fmt.Printf("Error scanning %s: %v\n", cfg.Library, err)
		os.Exit(1)
	}

	// Non-interactive modes first
	if *exportPath != "" {
		if err := export.WriteContactSheet(photos, *exportPath, export.DefaultSheetOptions); err != nil {
			fmt.Printf("Error exporting contact sheet: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Wrote " + *exportPath)
		os.Exit(0)
	}
	if *serve {
		if err := export.StartPreviewWithConfig(photos, export.DefaultPreviewConfig()); err != nil {
			fmt.Printf("Error serving preview: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println("gv requires an interactive terminal (use -export or -serve otherwise).")
		os.Exit(1)
	}

	var thumbs *cache.DB
	if !*noCache && cfg.CachePath != "" {
		if db, err := cache.Open(cfg.CachePath); err == nil {
			thumbs = db
			defer db.Close()
		}
		// A broken cache only costs decode time; run without it.
	}

	// Check for a newer release in the background; report after the TUI exits.
	updateCh := make(chan string, 1)
	go func() {
		tag, url, err := updater.CheckForUpdates()
		if err != nil || tag == "" {
			updateCh <- ""
			return
		}
		updateCh <- fmt.Sprintf("gv %s is available: %s", tag, url)
	}()

	m := ui.NewModel(photos, cfg, thumbs)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	w, err := watcher.Watch(cfg.Library, watchQuiet, func() {
		p.Send(ui.AlbumChangedMsg{})
	})
	if err == nil {
		defer w.Close()
	}
	// Watcher failure is non-fatal: manual reloads still work.

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running gallery: %v\n", err)
		os.Exit(1)
	}

	select {
	case notice := <-updateCh:
		if notice != "" {
			fmt.Println(notice)
		}
	default:
	}
}
