// This file implements a local preview server for an album. It serves a
// browsable HTML index with no-cache headers and auto-opens the browser.
package export

import (
	"context"
	"fmt"
	"html/template"
	"image/png"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pixelweaver/gallery_viewer/pkg/album"
)

// DefaultPreviewPort is the default port for the preview server.
const DefaultPreviewPort = 9000

// PreviewPortRange defines the range of ports to try if default is unavailable.
const (
	PreviewPortRangeStart = DefaultPreviewPort
	PreviewPortRangeEnd   = DefaultPreviewPort + 100
)

// previewThumbPx is the edge size of on-the-fly preview thumbnails.
const previewThumbPx = 320

// PreviewServer serves an album over HTTP for browser preview.
type PreviewServer struct {
	photos []album.Photo
	byID   map[int]album.Photo
	port   int
	server *http.Server
}

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	// Port is the port to serve on (0 for auto-select)
	Port int

	// OpenBrowser determines whether to auto-open a browser
	OpenBrowser bool

	// Quiet suppresses status messages
	Quiet bool
}

// DefaultPreviewConfig returns sensible defaults for preview configuration.
func DefaultPreviewConfig() PreviewConfig {
	return PreviewConfig{
		Port:        0, // Auto-select
		OpenBrowser: true,
		Quiet:       false,
	}
}

// NewPreviewServer creates a preview server for the given album.
func NewPreviewServer(photos []album.Photo, port int) *PreviewServer {
	byID := make(map[int]album.Photo, len(photos))
	for _, p := range photos {
		byID[p.ID] = p
	}
	s := &PreviewServer{photos: photos, byID: byID, port: port}

	mux := http.NewServeMux()
	mux.Handle("/", noCacheMiddleware(http.HandlerFunc(s.indexHandler)))
	mux.Handle("/photo/", noCacheMiddleware(http.HandlerFunc(s.photoHandler)))
	mux.Handle("/thumb/", noCacheMiddleware(http.HandlerFunc(s.thumbHandler)))
	mux.HandleFunc("/__preview__/status", s.statusHandler)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	return s
}

// Start starts the preview server and blocks until stopped.
func (p *PreviewServer) Start() error {
	if len(p.photos) == 0 {
		return fmt.Errorf("no photos to preview")
	}
	return p.server.ListenAndServe()
}

// StartWithGracefulShutdown starts the server with signal handling for clean shutdown.
func (p *PreviewServer) StartWithGracefulShutdown() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := p.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return p.server.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

// Stop gracefully stops the preview server.
func (p *PreviewServer) Stop() error {
	if p.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.server.Shutdown(ctx)
}

// Port returns the port the server is running on.
func (p *PreviewServer) Port() int {
	return p.port
}

// URL returns the full URL of the preview server.
func (p *PreviewServer) URL() string {
	return fmt.Sprintf("http://localhost:%d", p.port)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>gv album preview</title>
<style>
body { background: #282a36; color: #f8f8f2; font-family: sans-serif; margin: 2rem; }
h1 { color: #bd93f9; }
.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(200px, 1fr)); gap: 1rem; }
.cell img { width: 100%; display: block; border-radius: 4px; }
.cell a { color: #8be9fd; text-decoration: none; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>Album preview</h1>
<p>{{len .}} photos</p>
<div class="grid">
{{range .}}<div class="cell">
<a href="/photo/{{.ID}}"><img src="/thumb/{{.ID}}" alt="{{.Name}}" loading="lazy"></a>
<a href="/photo/{{.ID}}">{{.Name}}</a>
</div>
{{end}}</div>
</body>
</html>
`))

func (p *PreviewServer) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, p.photos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// photoHandler serves an original photo file by id.
func (p *PreviewServer) photoHandler(w http.ResponseWriter, r *http.Request) {
	photo, ok := p.photoFromPath(r.URL.Path, "/photo/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, photo.Path)
}

// thumbHandler renders a fit-cropped PNG thumbnail on the fly.
func (p *PreviewServer) thumbHandler(w http.ResponseWriter, r *http.Request) {
	photo, ok := p.photoFromPath(r.URL.Path, "/thumb/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	img, err := album.Load(photo.Path)
	if err != nil {
		http.Error(w, "unreadable photo", http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, album.Fit(img, previewThumbPx, previewThumbPx)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (p *PreviewServer) photoFromPath(path, prefix string) (album.Photo, bool) {
	id, err := strconv.Atoi(strings.TrimPrefix(path, prefix))
	if err != nil {
		return album.Photo{}, false
	}
	photo, ok := p.byID[id]
	return photo, ok
}

// statusHandler returns the preview server status as JSON.
func (p *PreviewServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	fmt.Fprintf(w, `{"status":"running","port":%d,"photo_count":%d}`, p.port, len(p.photos))
}

// noCacheMiddleware adds headers to prevent browser caching.
func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// FindAvailablePort finds an available port in the given range.
func FindAvailablePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", start, end)
}

// StartPreviewWithConfig starts a preview server for the album with the
// given configuration and blocks until interrupted.
func StartPreviewWithConfig(photos []album.Photo, config PreviewConfig) error {
	port := config.Port
	if port == 0 {
		var err error
		port, err = FindAvailablePort(PreviewPortRangeStart, PreviewPortRangeEnd)
		if err != nil {
			return fmt.Errorf("could not find available port: %w", err)
		}
	}

	server := NewPreviewServer(photos, port)

	if config.OpenBrowser {
		go func() {
			time.Sleep(500 * time.Millisecond)
			if err := openInBrowser(server.URL()); err != nil && !config.Quiet {
				fmt.Printf("Could not open browser: %v\n", err)
				fmt.Printf("Open %s in your browser\n", server.URL())
			}
		}()
	}

	if !config.Quiet {
		fmt.Printf("Preview server running at %s\n", server.URL())
		fmt.Printf("Serving %d photos\n", len(photos))
		fmt.Println("Press Ctrl+C to stop")
	}

	return server.StartWithGracefulShutdown()
}

// openInBrowser opens the URL with the platform's default opener.
func openInBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
