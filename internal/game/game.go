// Package game is the ebiten host: it owns the window, turns mouse input
// into gesture signals, ticks the simulation once per frame and draws the
// particles with their overlays.
package game

import (
	"context"
	"errors"
	"image/color"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/hand-particles/internal/config"
	"github.com/iburimskiy/hand-particles/internal/gesture"
	"github.com/iburimskiy/hand-particles/internal/logging"
	"github.com/iburimskiy/hand-particles/internal/sim"
	"github.com/iburimskiy/hand-particles/internal/sonify"
	"github.com/iburimskiy/hand-particles/internal/source"
)

const (
	dotSize         = 16
	pointScale      = 2.0
	particleOpacity = 0.8
	waveBands       = 64
)

type traceResult struct {
	path   string
	frames []source.TraceFrame
	err    error
}

type Game struct {
	ctx    context.Context
	logger *slog.Logger
	driver *sim.Driver
	audio  *sonify.Output
	loop   bool

	width    int
	height   int
	camera   camera
	dot      *ebiten.Image
	rotation float64
	fps      atomic.Uint64

	// trace playback
	player     *source.TracePlayer
	stopPlayer context.CancelFunc
	traceName  string
	traces     chan traceResult
	dialogOpen bool
	wg         sync.WaitGroup

	// waveform strip
	waveData []float64

	// input edge detection
	prevKey     map[ebiten.Key]bool
	mouseActive bool

	// button state
	buttonHovered bool
	buttonPressed bool

	// state
	paused    bool
	showDebug bool
	lastErr   error
}

type Option func(*Game)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Game) {
		g.logger = logger
	}
}

// WithAudio enables the mute key and the waveform strip.
func WithAudio(out *sonify.Output) Option {
	return func(g *Game) {
		g.audio = out
	}
}

// WithLoop replays opened traces until another is opened or the game exits.
func WithLoop(loop bool) Option {
	return func(g *Game) {
		g.loop = loop
	}
}

// WithWindowSize sets the logical screen size the game lays out, projects
// and reads the cursor in.
func WithWindowSize(width, height int) Option {
	return func(g *Game) {
		g.width = width
		g.height = height
	}
}

// New creates the host for driver. Trace players started by the game stop
// when ctx is canceled or Close is called.
func New(ctx context.Context, driver *sim.Driver, opts ...Option) *Game {
	g := &Game{
		ctx:       ctx,
		driver:    driver,
		width:     config.WindowWidth,
		height:    config.WindowHeight,
		dot:       newDotImage(dotSize),
		traces:    make(chan traceResult, 1),
		prevKey:   map[ebiten.Key]bool{},
		showDebug: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = logging.NewNop()
	}
	g.camera = newCamera(g.width, g.height)
	return g
}

// FPS is the last measured frame rate. Safe for concurrent use.
func (g *Game) FPS() float64 {
	return math.Float64frombits(g.fps.Load())
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) || g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if justPressed(ebiten.KeyD) {
		g.showDebug = !g.showDebug
	}
	if justPressed(ebiten.KeyP) {
		g.paused = !g.paused
		g.logger.Debug("simulation pause toggled", "paused", g.paused)
	}
	if justPressed(ebiten.KeyM) && g.audio != nil {
		g.audio.ToggleMute()
	}
	if justPressed(ebiten.KeyO) {
		g.openTraceDialog()
	}

	// Handle button interactions
	mouseX, mouseY := ebiten.CursorPosition()
	g.buttonHovered = mouseX >= config.ButtonX && mouseX <= config.ButtonX+config.ButtonWidth &&
		mouseY >= config.ButtonY && mouseY <= config.ButtonY+config.ButtonHeight

	if g.buttonHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.buttonPressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.buttonPressed && g.buttonHovered {
			g.openTraceDialog()
		}
		g.buttonPressed = false
	}

	select {
	case res := <-g.traces:
		g.dialogOpen = false
		g.handleTrace(res)
	default:
	}

	if !g.buttonPressed {
		g.updateMouseHand(mouseX, mouseY)
	}

	if !g.paused {
		g.driver.Tick()
		g.rotation += config.RotationSpeed
	}

	if g.audio != nil {
		g.waveData = bandLevels(g.audio.Tap().Snapshot(2048), g.waveData, waveBands, config.SmoothingFactor)
	}
	g.fps.Store(math.Float64bits(ebiten.ActualFPS()))
	return nil
}

// updateMouseHand publishes a synthesized hand while a mouse button is held
// and a single empty signal on release.
func (g *Game) updateMouseHand(mouseX, mouseY int) {
	x, y := normalizeCursor(mouseX, mouseY, g.width, g.height)
	frame, active := mouseFrame(mouseState{
		left:  ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		right: ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		shift: ebiten.IsKeyPressed(ebiten.KeyShift),
		x:     x,
		y:     y,
	})
	if !active {
		if g.mouseActive {
			g.driver.Publish(gesture.Signal{})
			g.mouseActive = false
		}
		return
	}

	sig, err := gesture.Interpret(frame)
	if err != nil {
		g.lastErr = err
		return
	}
	g.driver.Publish(sig)
	g.mouseActive = true
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 4, G: 4, B: 10, A: 255})

	g.drawParticles(screen)
	g.drawLandmarks(screen)
	g.drawButton(screen)
	g.drawProgressBar(screen)
	g.drawWaveform(screen)

	status := "Left: repel | Right: attract | Shift+Left: expand | O: open trace | D: debug | P: pause | Esc/Q: quit"
	if g.audio != nil {
		status += " | M: mute"
	}
	if g.paused {
		status = "Paused - P to resume | " + status
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)

	if g.showDebug {
		for i, line := range debugLines(g.driver.Snapshot(), g.FPS()) {
			ebitenutil.DebugPrintAt(screen, line, config.ButtonX, config.ButtonY+config.ButtonHeight+16+i*16)
		}
	}
}

func (g *Game) drawParticles(screen *ebiten.Image) {
	positions := g.driver.Positions()
	colors := g.driver.Colors()
	sizes := g.driver.Sizes()

	op := &ebiten.DrawImageOptions{}
	op.Blend = ebiten.BlendLighter
	for i := 0; i < g.driver.Len(); i++ {
		x, y, scale, ok := g.camera.project(particlePosition(positions, i), g.rotation)
		if !ok {
			continue
		}
		d := math.Max(1, float64(sizes[i])*scale*pointScale)

		op.GeoM.Reset()
		op.GeoM.Scale(d/dotSize, d/dotSize)
		op.GeoM.Translate(x-d/2, y-d/2)
		op.ColorScale.Reset()
		op.ColorScale.Scale(
			colors[i*3]*particleOpacity,
			colors[i*3+1]*particleOpacity,
			colors[i*3+2]*particleOpacity,
			particleOpacity,
		)
		screen.DrawImage(g.dot, op)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

func (g *Game) openTraceDialog() {
	if g.dialogOpen {
		return
	}
	g.dialogOpen = true
	go func() {
		path, frames, err := selectTrace()
		g.traces <- traceResult{path: path, frames: frames, err: err}
	}()
}

func (g *Game) handleTrace(res traceResult) {
	if res.err != nil {
		g.lastErr = res.err
		g.logger.Error("failed to open trace", "path", res.path, "error", res.err)
		return
	}
	if res.frames == nil {
		return
	}
	g.lastErr = nil
	g.PlayTrace(res.path, res.frames)
}

// PlayTrace replaces any running trace player with one replaying frames.
// name labels the progress bar.
func (g *Game) PlayTrace(name string, frames []source.TraceFrame) {
	g.stopTrace()
	g.traceName = name

	ctx, cancel := context.WithCancel(g.ctx)
	player := source.NewTracePlayer(frames, source.WithLoop(g.loop), source.WithPlayerLogger(g.logger))
	g.player = player
	g.stopPlayer = cancel

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		if err := player.Run(ctx, g.driver); err != nil {
			g.logger.Error("trace playback failed", "error", err)
		}
	}()
}

func (g *Game) stopTrace() {
	if g.stopPlayer != nil {
		g.stopPlayer()
		g.stopPlayer = nil
	}
	g.player = nil
}

// Close stops trace playback and waits for the player to exit.
func (g *Game) Close() {
	g.stopTrace()
	g.wg.Wait()
}

func selectTrace() (string, []source.TraceFrame, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Hand Trace"),
		zenity.FileFilters{{
			Name:     "Hand traces",
			Patterns: []string{"*.jsonl", "*.json"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil, nil
		}
		return "", nil, err
	}

	frames, err := source.LoadTrace(filename)
	if err != nil {
		return filename, nil, err
	}
	return filename, frames, nil
}
