package game

import (
	"image/color"
	"math"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/hand-particles/internal/config"
	"github.com/iburimskiy/hand-particles/internal/gesture"
	"github.com/iburimskiy/hand-particles/internal/particle"
	"github.com/iburimskiy/hand-particles/internal/vec"
)

var (
	connectorColor = color.RGBA{R: 0x63, G: 0x66, B: 0xf1, A: 255}
	jointFill      = color.RGBA{R: 0x8b, G: 0x5c, B: 0xf6, A: 255}
	jointStroke    = color.RGBA{R: 0xec, G: 0x48, B: 0x99, A: 255}
)

// newDotImage renders a soft white disc with premultiplied alpha.
func newDotImage(size int) *ebiten.Image {
	pix := make([]byte, size*size*4)
	c := float64(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)-c, float64(y)-c) / c
			a := clamp01(1 - d)
			v := byte(a * a * 255)
			i := (y*size + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, v
		}
	}
	img := ebiten.NewImage(size, size)
	img.WritePixels(pix)
	return img
}

func particlePosition(positions []float32, i int) vec.Vec3 {
	return vec.Vec3{
		X: float64(positions[i*3]),
		Y: float64(positions[i*3+1]),
		Z: float64(positions[i*3+2]),
	}
}

// drawLandmarks draws the hands of the last consumed signal as skeletons in
// an inset at the top right.
func (g *Game) drawLandmarks(screen *ebiten.Image) {
	insetX := float64(g.width - config.InsetWidth - 20)
	insetY := 40.0

	vector.DrawFilledRect(screen, float32(insetX), float32(insetY), config.InsetWidth, config.InsetHeight, color.RGBA{R: 20, G: 25, B: 35, A: 160}, false)
	vector.StrokeRect(screen, float32(insetX), float32(insetY), config.InsetWidth, config.InsetHeight, 1, color.RGBA{R: 60, G: 70, B: 90, A: 255}, false)

	hands := g.driver.Signal().Hands
	if len(hands) == 0 {
		ebitenutil.DebugPrintAt(screen, "no hands", int(insetX)+8, int(insetY)+8)
		return
	}

	point := func(l gesture.Landmark) (float32, float32) {
		return float32(insetX + clamp01(l.X)*config.InsetWidth), float32(insetY + clamp01(l.Y)*config.InsetHeight)
	}
	for _, hand := range hands {
		for _, c := range gesture.HandConnections {
			x1, y1 := point(hand[c[0]])
			x2, y2 := point(hand[c[1]])
			vector.StrokeLine(screen, x1, y1, x2, y2, 2, connectorColor, true)
		}
		for _, l := range hand {
			x, y := point(l)
			vector.DrawFilledCircle(screen, x, y, 3, jointFill, true)
			vector.StrokeCircle(screen, x, y, 3, 1, jointStroke, true)
		}
	}
}

func (g *Game) drawButton(screen *ebiten.Image) {
	// Button background
	var bgColor color.Color
	if g.buttonPressed {
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255} // Pressed
	} else if g.buttonHovered {
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255} // Hovered
	} else {
		bgColor = color.RGBA{R: 100, G: 120, B: 160, A: 255} // Normal
	}

	vector.DrawFilledRect(screen, config.ButtonX, config.ButtonY, config.ButtonWidth, config.ButtonHeight, bgColor, false)
	vector.StrokeRect(screen, config.ButtonX, config.ButtonY, config.ButtonWidth, config.ButtonHeight, 2, color.RGBA{R: 150, G: 170, B: 200, A: 255}, false)

	text := "Open Trace"
	if g.dialogOpen {
		text = "Opening..."
	}
	textWidth := len(text) * 6 // debug font glyph width
	textX := config.ButtonX + (config.ButtonWidth-textWidth)/2
	textY := config.ButtonY + (config.ButtonHeight-16)/2
	ebitenutil.DebugPrintAt(screen, text, textX, textY)
}

// drawProgressBar shows how far the running trace player has got.
func (g *Game) drawProgressBar(screen *ebiten.Image) {
	if g.player == nil || g.player.Duration() == 0 {
		return
	}

	barHeight := 12
	barY := g.height - 130
	barWidth := g.width - 40
	barX := 20

	progress := clamp01(g.player.Progress())
	duration := g.player.Duration()

	vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), color.RGBA{R: 25, G: 30, B: 40, A: 200}, false)
	vector.StrokeRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), 2, color.RGBA{R: 70, G: 80, B: 100, A: 255}, false)

	if progress > 0 {
		fillWidth := progress * float64(barWidth)
		r, gv, b := colorful.Hsv(particle.WrapHue(g.driver.Snapshot().CurrentHue), 0.8, 0.9).RGB255()
		vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(fillWidth), float32(barHeight), color.RGBA{R: r, G: gv, B: b, A: 180}, false)
	}

	indicatorX := float64(barX) + progress*float64(barWidth)
	vector.DrawFilledCircle(screen, float32(indicatorX), float32(barY+barHeight/2), 6, color.White, false)

	label := formatDuration(time.Duration(progress*float64(duration))) + " / " + formatDuration(duration)
	if g.traceName != "" {
		label = filepath.Base(g.traceName) + "  " + label
	}
	ebitenutil.DebugPrintAt(screen, label, barX, barY+barHeight+4)
}

// drawWaveform draws the sonification levels as a bar strip along the bottom.
func (g *Game) drawWaveform(screen *ebiten.Image) {
	if g.audio == nil || len(g.waveData) == 0 {
		return
	}

	barHeight := 60
	barY := g.height - barHeight - 20
	barWidth := g.width - 40
	barX := 20
	segmentWidth := float64(barWidth) / waveBands

	vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), color.RGBA{R: 20, G: 25, B: 35, A: 200}, false)
	vector.StrokeRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), 2, color.RGBA{R: 60, G: 70, B: 90, A: 255}, false)

	hue := g.driver.Snapshot().CurrentHue
	for i, level := range g.waveData {
		segmentX := float64(barX) + float64(i)*segmentWidth
		segmentHeight := math.Max(2, level*float64(barHeight-10))

		r, gv, b := colorful.Hsv(particle.WrapHue(hue+float64(i)/waveBands*60), 0.8, 0.9).RGB255()
		segmentColor := color.RGBA{R: r, G: gv, B: b, A: uint8(100 + 155*level)}

		segmentY := float64(barY) + float64(barHeight) - segmentHeight
		vector.DrawFilledRect(screen, float32(segmentX), float32(segmentY), float32(segmentWidth-1), float32(segmentHeight), segmentColor, false)
	}

	label := "Audio"
	if g.audio.Muted() {
		label = "Audio (muted)"
	}
	ebitenutil.DebugPrintAt(screen, label, barX, barY-15)
}
