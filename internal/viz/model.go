package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/oledwalk/internal/bus"
	"github.com/san-kum/oledwalk/internal/config"
	"github.com/san-kum/oledwalk/internal/display"
	"github.com/san-kum/oledwalk/internal/metrics"
	"github.com/san-kum/oledwalk/internal/walk"
	"github.com/san-kum/oledwalk/internal/world"
)

const (
	frameInterval = time.Second / 30
	minSpeed      = 0.25
	maxSpeed      = 16
	gifScale      = 4
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model previews a walk on an emulated panel. The engine drives the real
// display driver; what is drawn is read back from the emulator's RAM, so
// the preview shows exactly the bytes the hardware would receive.
type Model struct {
	cfg      config.Config
	emu      *bus.Emulator
	drv      *display.Driver
	engine   *walk.Engine
	rec      *metrics.Recorder
	canvas   *Canvas
	target   int
	running  bool
	speed    float64
	wait     time.Duration
	last     walk.Step
	err      error
	showHelp bool
	gifPath  string
	frames   []*image.Paletted
	logger   *slog.Logger
}

// NewModel initializes the emulated panel and draws the first frame. A
// target of zero walks until quit.
func NewModel(cfg config.Config, target int, rng *rand.Rand, logger *slog.Logger) (Model, error) {
	if logger == nil {
		logger = slog.Default()
	}
	emu := bus.NewEmulator()
	drv := display.New(emu, cfg.Display, logger)
	if err := drv.Initialize(); err != nil {
		return Model{}, err
	}
	canvas, err := world.New(cfg)
	if err != nil {
		return Model{}, err
	}

	engine := walk.New(cfg, canvas, drv, rng)
	rec := metrics.NewRecorder()
	engine.AddObserver(rec)
	if err := engine.Start(); err != nil {
		return Model{}, err
	}

	return Model{
		cfg:     cfg,
		emu:     emu,
		drv:     drv,
		engine:  engine,
		rec:     rec,
		canvas:  CanvasFor(cfg.Display.Width, cfg.Display.Height),
		target:  target,
		running: true,
		speed:   1,
		logger:  logger,
	}, nil
}

// RecordTo makes the "g" key capture frames into a GIF at path.
func (m Model) RecordTo(path string) Model {
	m.gifPath = path
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and advances the walk on ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.step()
			}
		case "r":
			m.reset()
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, minSpeed)
		case "t":
			NextTheme()
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil && !m.done() {
			m.wait -= time.Duration(float64(frameInterval) * m.speed)
			if m.wait <= 0 {
				m.step()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) done() bool {
	return m.target > 0 && m.engine.State().Steps >= m.target
}

func (m *Model) step() {
	if m.err != nil || m.done() {
		return
	}
	pause, err := m.engine.Step()
	if err != nil {
		m.err = err
		m.logger.Error("preview step failed", "err", err)
		return
	}
	m.wait = pause
	m.last = m.engine.LastStep()
	if m.frames != nil {
		m.captureFrame()
	}
}

func (m *Model) reset() {
	m.rec.Reset()
	m.wait = 0
	m.last = walk.Step{}
	m.err = m.engine.Reset()
}

// Close blanks the emulated panel and releases it.
func (m Model) Close() error {
	m.drv.Clear()
	if err := m.drv.Present(); err != nil {
		return err
	}
	return m.drv.Close()
}

// Summary reports the walk so far.
func (m Model) Summary() metrics.Summary {
	return m.rec.Summary(m.target)
}

func (m Model) snapshot() *image.Gray {
	d := m.cfg.Display
	return m.emu.Snapshot(d.Width, d.Height, d.ColumnOffset)
}

func (m *Model) toggleRecording() {
	if m.gifPath == "" {
		return
	}
	if m.frames == nil {
		m.frames = make([]*image.Paletted, 0)
		m.captureFrame()
		return
	}
	if err := m.saveGIF(); err != nil {
		m.logger.Error("saving recording failed", "path", m.gifPath, "err", err)
	}
	m.frames = nil
}

func (m *Model) captureFrame() {
	src := m.snapshot()
	b := src.Bounds()
	img := image.NewPaletted(image.Rect(0, 0, b.Dx()*gifScale, b.Dy()*gifScale), color.Palette{color.Black, color.White})
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if src.GrayAt(b.Min.X+x, b.Min.Y+y).Y == 0 {
				continue
			}
			for py := 0; py < gifScale; py++ {
				for px := 0; px < gifScale; px++ {
					img.SetColorIndex(x*gifScale+px, y*gifScale+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() error {
	if len(m.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 50)
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

// View renders the panel next to the walk stats.
func (m Model) View() string {
	m.canvas.Draw(m.snapshot())
	panel := panelStyle().Render(m.canvas.String())

	st := m.engine.State()
	s := m.rec.Summary(m.target)

	var b strings.Builder
	b.WriteString(headerStyle().Render("OLED RANDOM WALK") + "\n\n")

	status := "WALKING"
	switch {
	case m.err != nil:
		status = "FAILED"
	case m.done():
		status = "FINISHED"
	case !m.running:
		status = "PAUSED"
	}
	if m.frames != nil {
		status += " ● REC"
	}
	b.WriteString(statusStyle(!m.running).Render(status) + "\n\n")

	steps := fmt.Sprintf("%d", st.Steps)
	if m.target > 0 {
		steps = fmt.Sprintf("%d/%d", st.Steps, m.target)
	}
	b.WriteString(label("Step") + value(steps) + "\n")
	if m.target > 0 {
		b.WriteString(label("") + ProgressBar(float64(st.Steps)/float64(m.target), 20) + "\n")
	}
	b.WriteString(label("Position") + value(fmt.Sprintf("%.1f, %.1f px", st.X, st.Y)) + "\n")
	b.WriteString(label("Energy") + value(fmt.Sprintf("%.2f", st.Energy)) + "\n")
	b.WriteString(label("") + lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(Sparkline(s.Energy, 20)) + "\n")
	b.WriteString(label("Walked") + value(fmt.Sprintf("%.1f m", s.Values["distance_m"])) + "\n")
	b.WriteString(label("Rests") + value(fmt.Sprintf("%.0f", s.Values["rests"])) + "\n")
	if m.last.Index > 0 {
		b.WriteString(label("Last") + value(fmt.Sprintf("%s %.1f m", m.last.Direction.Name, m.last.Distance)) + "\n")
	}
	b.WriteString(label("Speed") + value(fmt.Sprintf("x%g", m.speed)) + "\n")
	if m.err != nil {
		b.WriteString("\n" + errorStyle().Render(m.err.Error()) + "\n")
	}
	b.WriteString(hintStyle().Render("SP:Pause N:Step R:Reset Q:Quit\n+/-:Speed T:Theme G:Record ?:Help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, panel, statsStyle.Render(b.String()))
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

const helpText = `
  Space  pause or resume
  N      single step while paused
  R      clear the trail and start over
  + / -  double or halve walking speed
  T      cycle panel color
  G      start or stop GIF recording
  Q      quit
`
