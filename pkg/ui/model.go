// Package ui hosts the gallery in a Bubble Tea program: it renders the grid
// and detail views, translates terminal mouse events into gesture samples,
// and drives the settle animations the controller hands back.
package ui

import (
	"context"
	"image"
	"runtime"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
	"golang.org/x/sync/errgroup"

	"github.com/pixelweaver/gallery_viewer/pkg/album"
	"github.com/pixelweaver/gallery_viewer/pkg/cache"
	"github.com/pixelweaver/gallery_viewer/pkg/config"
	"github.com/pixelweaver/gallery_viewer/pkg/exif"
	"github.com/pixelweaver/gallery_viewer/pkg/export"
	"github.com/pixelweaver/gallery_viewer/pkg/gallery"
	"github.com/pixelweaver/gallery_viewer/pkg/geom"
	"github.com/pixelweaver/gallery_viewer/pkg/gesture"
	"github.com/pixelweaver/gallery_viewer/pkg/registry"
	"github.com/pixelweaver/gallery_viewer/pkg/transition"
)

// Terminal cells are far coarser than touch points. Gesture math runs in
// point space so the drag constants keep their proportions; these factors
// convert a cell coordinate to points (a terminal row is about twice as
// tall as a column is wide).
const (
	pointsPerCol = 20.0
	pointsPerRow = 40.0
)

// thumbSourcePx bounds the pixel size thumbnails are decoded to. Cells
// re-crop from this source at whatever size the current layout needs.
const thumbSourcePx = 256

// frameRate is the settle animation's tick rate.
const frameRate = 60

// speedSteps are the animation-speed multipliers the s key cycles through.
var speedSteps = []float64{0.25, 0.5, 1, 2}

// AlbumChangedMsg asks the model to rescan the library. The filesystem
// watcher sends it via Program.Send.
type AlbumChangedMsg struct{}

type thumbsLoadedMsg struct {
	images map[int]image.Image
}

type albumReloadedMsg struct {
	photos []album.Photo
	err    error
}

type exportDoneMsg struct {
	path string
	err  error
}

type infoLoadedMsg struct {
	id  int
	res exif.Result
}

type clearStatusMsg struct{}

// frameMsg is one animation tick.
type frameMsg time.Time

// Model is the program's root model.
type Model struct {
	theme Theme
	cfg   config.Config

	// Album data
	photos  []album.Photo
	images  map[int]image.Image // fitted thumbnail sources by photo id
	thumbs  *cache.DB           // may be nil (cache disabled)
	loading bool

	// Interaction core
	cells   *registry.CellRegistry
	ctrl    *gallery.Controller
	rec     *gesture.Recognizer
	settle  *transition.Settle // drag settle in flight
	opening *transition.Settle // open morph in flight

	// clock yields gesture timestamps; swapped out by tests.
	clock func() time.Duration

	// UI state
	width, height int
	cursor        int
	rowOffset     int
	visible       []int // indexes into photos after search filtering
	searching     bool
	search        textinput.Model
	spin          spinner.Model
	status        string
	statusIsErr   bool
	showHelp      bool
	speedIdx      int
	arts          artCache

	// Metadata overlay
	meta     *exif.Reader
	info     *exif.Result
	showInfo bool
}

// NewModel builds the root model. thumbs may be nil to disable the cache.
func NewModel(photos []album.Photo, cfg config.Config, thumbs *cache.DB) Model {
	cells := registry.New()
	ctrl := gallery.NewController(cells, cfg.Spring.Params(), cfg.AnimationSpeed)

	ti := textinput.New()
	ti.Placeholder = "filter photos"
	ti.Prompt = "/"
	ti.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	start := time.Now()
	m := Model{
		theme:    DefaultTheme(),
		cfg:      cfg,
		photos:   photos,
		images:   make(map[int]image.Image),
		thumbs:   thumbs,
		loading:  len(photos) > 0,
		cells:    cells,
		ctrl:     ctrl,
		rec:      gesture.NewRecognizer(1.5 * pointsPerCol),
		clock:    func() time.Duration { return time.Since(start) },
		search:   ti,
		spin:     sp,
		speedIdx: speedIndex(cfg.AnimationSpeed),
		arts:     artCache{arts: make(map[artKey]string)},
		meta: exif.NewReaderWithOptions(exif.NewDetector(),
			exif.WithReadTimeout(time.Duration(cfg.ExifTimeoutSec)*time.Second)),
	}
	m.refilter()
	return m
}

func speedIndex(speed float64) int {
	for i, s := range speedSteps {
		if s == speed {
			return i
		}
	}
	return 2 // 1x
}

// Init starts the spinner and the thumbnail load.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if len(m.photos) > 0 {
		cmds = append(cmds, loadThumbs(m.photos, m.thumbs))
	}
	return tea.Batch(cmds...)
}

// loadThumbs decodes every photo to a bounded thumbnail source, hitting the
// cache first. Broken photos are silently skipped; the grid shows a blank
// cell for them.
func loadThumbs(photos []album.Photo, db *cache.DB) tea.Cmd {
	return func() tea.Msg {
		images := make(map[int]image.Image, len(photos))
		var mu sync.Mutex

		g := new(errgroup.Group)
		g.SetLimit(runtime.NumCPU())
		for _, p := range photos {
			g.Go(func() error {
				if db != nil {
					if img, ok := db.Get(p.Path, p.ModTime, thumbSourcePx, thumbSourcePx); ok {
						mu.Lock()
						images[p.ID] = img
						mu.Unlock()
						return nil
					}
				}
				img, err := album.Load(p.Path)
				if err != nil {
					return nil
				}
				img = album.Fit(img, thumbSourcePx, thumbSourcePx)
				if db != nil {
					_ = db.Put(p.Path, p.ModTime, thumbSourcePx, thumbSourcePx, img)
				}
				mu.Lock()
				images[p.ID] = img
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
		return thumbsLoadedMsg{images: images}
	}
}

func frameTick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// Update is the event loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.arts.invalidate()
		m.reportLayout()
		return m, nil

	case thumbsLoadedMsg:
		m.images = msg.images
		m.loading = false
		m.arts.invalidate()
		return m, nil

	case AlbumChangedMsg:
		return m, reloadAlbum(m.cfg.Library)

	case albumReloadedMsg:
		if msg.err != nil {
			return m.withError(msg.err.Error())
		}
		m.photos = msg.photos
		m.loading = len(msg.photos) > 0
		// Ids are positions in the photo slice, so a reload that shrank the
		// album can leave the open detail pointing past the end. Close it
		// rather than render a photo that no longer exists.
		if id, ok := m.ctrl.Detail(); ok && id >= len(msg.photos) {
			m.ctrl.Close()
			m.settle = nil
			m.opening = nil
			m.showInfo = false
			m.info = nil
		}
		m.refilter()
		m.clampCursor()
		m.reportLayout()
		return m, loadThumbs(m.photos, m.thumbs)

	case exportDoneMsg:
		if msg.err != nil {
			return m.withError("export failed: " + msg.err.Error())
		}
		return m.withStatus("contact sheet written to " + msg.path)

	case infoLoadedMsg:
		if id, ok := m.ctrl.Detail(); ok && id == msg.id {
			res := msg.res
			m.info = &res
			m.showInfo = true
		}
		return m, nil

	case clearStatusMsg:
		m.status = ""
		m.statusIsErr = false
		return m, nil

	case frameMsg:
		return m.stepAnimations()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func reloadAlbum(root string) tea.Cmd {
	return func() tea.Msg {
		photos, err := album.Scan(root)
		return albumReloadedMsg{photos: photos, err: err}
	}
}

// stepAnimations advances the active settles one frame and fires the
// controller's completion callback when the drag settle comes to rest.
func (m Model) stepAnimations() (tea.Model, tea.Cmd) {
	if m.opening != nil {
		m.opening.Step()
		if m.opening.Done() {
			m.opening = nil
		}
	}
	if m.settle != nil {
		m.settle.Step()
		if m.settle.Done() {
			m.settle = nil
			m.ctrl.FinishSettle()
			m.arts.invalidate()
		}
	}
	if m.opening != nil || m.settle != nil {
		return m, frameTick()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	pt := geom.Pt(float64(msg.X)*pointsPerCol, float64(msg.Y)*pointsPerRow)
	now := m.clock()

	switch m.ctrl.Phase() {
	case gallery.PhaseIdle:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if id, ok := m.photoAt(msg.X, msg.Y); ok {
				return m.openDetail(id)
			}
		}

	case gallery.PhaseDetailOpen, gallery.PhaseDragging:
		switch {
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m.rec.Press(pt, now)

		case msg.Action == tea.MouseActionMotion:
			sample, dragging := m.rec.Move(pt, now)
			if !dragging {
				break
			}
			if m.ctrl.Phase() == gallery.PhaseDetailOpen {
				// First recognized move: the drag supersedes any open morph
				// still in flight.
				m.opening = nil
				m.ctrl.BeginDrag(sample)
			} else {
				m.ctrl.Drag(sample)
			}

		case msg.Action == tea.MouseActionRelease:
			if m.rec.Release() {
				// Tap won the race: straight to idle, no settle.
				m.ctrl.Tap()
				m.settle = nil
				m.opening = nil
				m.showInfo = false
				m.info = nil
				return m, nil
			}
			if anim := m.ctrl.EndDrag(); anim != nil {
				m.settle = transition.NewSettle(*anim, frameRate)
				return m, frameTick()
			}
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.showInfo {
		m.showInfo = false
		m.info = nil
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch m.ctrl.Phase() {
	case gallery.PhaseIdle:
		return m.handleGridKey(msg)
	case gallery.PhaseDetailOpen:
		return m.handleDetailKey(msg)
	}
	// Dragging and settling ignore the keyboard.
	return m, nil
}

func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-m.cfg.Columns)
	case "down", "j":
		m.moveCursor(m.cfg.Columns)
	case "enter":
		if id, ok := m.cursorPhoto(); ok {
			return m.openDetail(id)
		}
	case "y":
		return m.yankPath()
	case "E":
		return m.exportSheet()
	case "s":
		return m.cycleSpeed()
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		// Keyboard close behaves like the tap: immediate, no settle.
		m.ctrl.Tap()
		m.settle = nil
		m.opening = nil
		m.showInfo = false
		m.info = nil
	case "y":
		return m.yankPath()
	case "i":
		return m.loadInfo()
	case "s":
		return m.cycleSpeed()
	case "?":
		m.showHelp = true
	}
	return m, nil
}

// loadInfo fetches exif metadata for the open photo in the background.
func (m Model) loadInfo() (tea.Model, tea.Cmd) {
	id, ok := m.ctrl.Detail()
	if !ok {
		return m, nil
	}
	path := m.photos[id].Path
	reader := m.meta
	return m, func() tea.Msg {
		return infoLoadedMsg{id: id, res: reader.Read(context.Background(), path)}
	}
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.SetValue("")
		m.search.Blur()
		m.refilter()
		m.clampCursor()
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refilter()
	m.clampCursor()
	m.reportLayout()
	return m, cmd
}

// openDetail runs Idle -> DetailOpen and starts the host-driven open morph
// from the photo's grid cell to the screen center.
func (m Model) openDetail(id int) (tea.Model, tea.Cmd) {
	if !m.ctrl.Select(id) {
		return m, nil
	}
	if from, ok := m.cells.Lookup(id); ok {
		m.opening = transition.NewSettle(transition.Animation{
			From:   from.Sub(m.ctrl.DetailCenter()),
			Spring: m.cfg.Spring.Params(),
			Speed:  m.ctrl.Speed(),
		}, frameRate)
		return m, frameTick()
	}
	return m, nil
}

func (m Model) yankPath() (tea.Model, tea.Cmd) {
	id, ok := m.currentPhoto()
	if !ok {
		return m, nil
	}
	if err := clipboard.WriteAll(m.photos[id].Path); err != nil {
		return m.withError("clipboard: " + err.Error())
	}
	return m.withStatus("copied " + m.photos[id].Name)
}

func (m Model) exportSheet() (tea.Model, tea.Cmd) {
	photos := make([]album.Photo, len(m.photos))
	copy(photos, m.photos)
	out := "contact-sheet.png"
	return m, func() tea.Msg {
		err := export.WriteContactSheet(photos, out, export.DefaultSheetOptions)
		return exportDoneMsg{path: out, err: err}
	}
}

func (m Model) cycleSpeed() (tea.Model, tea.Cmd) {
	m.speedIdx = (m.speedIdx + 1) % len(speedSteps)
	m.ctrl.SetSpeed(speedSteps[m.speedIdx])
	return m.withStatus(speedLabel(speedSteps[m.speedIdx]))
}

// currentPhoto is the detail photo when one is open, else the cursor photo.
func (m Model) currentPhoto() (int, bool) {
	if id, ok := m.ctrl.Detail(); ok {
		return id, true
	}
	return m.cursorPhoto()
}

func (m Model) cursorPhoto() (int, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return 0, false
	}
	return m.photos[m.visible[m.cursor]].ID, true
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
	m.scrollToCursor()
	m.reportLayout()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// refilter recomputes the visible photo list from the search query.
func (m *Model) refilter() {
	query := m.search.Value()
	if query == "" {
		m.visible = make([]int, len(m.photos))
		for i := range m.photos {
			m.visible[i] = i
		}
		return
	}

	names := make([]string, len(m.photos))
	for i, p := range m.photos {
		names[i] = p.Name
	}
	matches := fuzzy.Find(query, names)
	m.visible = make([]int, len(matches))
	for i, match := range matches {
		m.visible[i] = match.Index
	}
}

func (m Model) withStatus(s string) (tea.Model, tea.Cmd) {
	m.status = s
	m.statusIsErr = false
	return m, clearStatusAfter(3 * time.Second)
}

func (m Model) withError(s string) (tea.Model, tea.Cmd) {
	m.status = s
	m.statusIsErr = true
	return m, clearStatusAfter(5 * time.Second)
}

// displayOffset is what the renderer uses: the animated offset while a
// settle or open morph runs, the live drag offset otherwise.
func (m Model) displayOffset() geom.Size {
	switch {
	case m.settle != nil:
		return m.settle.Offset()
	case m.opening != nil:
		return m.opening.Offset()
	default:
		return m.ctrl.Offset()
	}
}

func speedLabel(speed float64) string {
	switch speed {
	case 0.25:
		return "speed 0.25x"
	case 0.5:
		return "speed 0.5x"
	case 2:
		return "speed 2x"
	default:
		return "speed 1x"
	}
}
