// Package terminal hosts the pet inside a terminal. Each cell shows two
// vertically stacked pixels using the upper half block, so one cell covers
// CellUnits x 2*CellUnits overlay units.
package terminal

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/overlay-pet/internal/engine/sprite"
	"github.com/Faultbox/overlay-pet/internal/host"
	"github.com/Faultbox/overlay-pet/internal/logger"
	"github.com/Faultbox/overlay-pet/internal/pet"
)

// CellUnits is the width of one terminal cell in overlay units.
const CellUnits = 10

const halfBlock = '▀'

// Host implements host.Overlay on a tcell screen.
type Host struct {
	screen tcell.Screen
	bg     color.RGBA

	mu      sync.Mutex
	next    host.Handle
	windows map[host.Handle]*window
}

// window is the area of the screen one pet occupies.
type window struct {
	raster *sprite.Rasterizer
	frames map[pet.Phase]*image.RGBA
	cols   int
	rows   int

	col, row int
	last     *image.RGBA // nil until first drawn
}

// New creates a host on an initialised screen.
func New(screen tcell.Screen, background color.RGBA) *Host {
	return &Host{
		screen:  screen,
		bg:      background,
		windows: make(map[host.Handle]*window),
	}
}

// ScreenBounds implements host.Overlay.
func (h *Host) ScreenBounds() (int, int) {
	cols, rows := h.screen.Size()
	return cols * CellUnits, rows * 2 * CellUnits
}

// CreateWindow implements host.Overlay.
func (h *Host) CreateWindow(size int) (host.Handle, error) {
	px := size / CellUnits
	if px < 2 {
		return 0, fmt.Errorf("sprite size %d too small for terminal", size)
	}
	cols, rows := h.screen.Size()
	if cols < px || rows*2 < px {
		return 0, host.Unavailable("create window", fmt.Errorf("terminal %dx%d too small", cols, rows))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	h.windows[h.next] = &window{
		raster: sprite.NewRasterizer(px),
		frames: make(map[pet.Phase]*image.RGBA),
		cols:   px,
		rows:   (px + 1) / 2,
	}
	logger.Debug("terminal window created", zap.Uint64("handle", uint64(h.next)), zap.Int("cells", px))
	return h.next, nil
}

// MoveAndRedraw implements host.Overlay.
func (h *Host) MoveAndRedraw(handle host.Handle, x, y float64, frame sprite.FrameSpec) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	w, ok := h.windows[handle]
	if !ok {
		return host.Unavailable("move", fmt.Errorf("unknown window %d", handle))
	}

	img, ok := w.frames[frame.Phase]
	if !ok {
		src := w.raster.Render(frame)
		img = image.NewRGBA(src.Rect)
		copy(img.Pix, src.Pix)
		w.frames[frame.Phase] = img
	}

	if w.last != nil {
		h.clear(w)
	}
	w.col = int(x) / CellUnits
	w.row = int(y) / (2 * CellUnits)
	h.paint(w, img)
	w.last = img

	h.screen.Show()
	return nil
}

// RemoveWindow implements host.Overlay.
func (h *Host) RemoveWindow(handle host.Handle) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	w, ok := h.windows[handle]
	if !ok {
		return host.Unavailable("remove", fmt.Errorf("unknown window %d", handle))
	}
	delete(h.windows, handle)
	if w.last != nil {
		h.clear(w)
		h.screen.Show()
	}
	logger.Debug("terminal window removed", zap.Uint64("handle", uint64(handle)))
	return nil
}

// Repaint clears the screen and draws every window at its last position.
func (h *Host) Repaint() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.screen.Fill(' ', h.style(h.bg, h.bg))
	for _, w := range h.windows {
		if w.last != nil {
			h.paint(w, w.last)
		}
	}
	h.screen.Show()
}

func (h *Host) clear(w *window) {
	st := h.style(h.bg, h.bg)
	for r := 0; r < w.rows; r++ {
		for c := 0; c < w.cols; c++ {
			h.screen.SetContent(w.col+c, w.row+r, ' ', nil, st)
		}
	}
}

func (h *Host) paint(w *window, img *image.RGBA) {
	for r := 0; r < w.rows; r++ {
		for c := 0; c < w.cols; c++ {
			upper := img.RGBAAt(c, 2*r)
			lower := img.RGBAAt(c, 2*r+1)
			if upper.A == 0 && lower.A == 0 {
				h.screen.SetContent(w.col+c, w.row+r, ' ', nil, h.style(h.bg, h.bg))
				continue
			}
			h.screen.SetContent(w.col+c, w.row+r, halfBlock, nil, h.style(over(upper, h.bg), over(lower, h.bg)))
		}
	}
}

func (h *Host) style(fg, bg color.RGBA) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(fg.R), int32(fg.G), int32(fg.B))).
		Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B)))
}

// over composites premultiplied c onto an opaque background.
func over(c, bg color.RGBA) color.RGBA {
	inv := 255 - uint32(c.A)
	return color.RGBA{
		R: uint8(uint32(c.R) + uint32(bg.R)*inv/255),
		G: uint8(uint32(c.G) + uint32(bg.G)*inv/255),
		B: uint8(uint32(c.B) + uint32(bg.B)*inv/255),
		A: 255,
	}
}
