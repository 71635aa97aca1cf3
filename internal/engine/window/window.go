// Package window is the desktop overlay host: one borderless, always-on-top
// SDL2 window per pet that is moved around the display and redrawn each tick.
package window

import (
	"fmt"
	"image"
	"image/color"
	"runtime"
	"sync"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/overlay-pet/internal/engine/sprite"
	"github.com/Faultbox/overlay-pet/internal/host"
	"github.com/Faultbox/overlay-pet/internal/logger"
	"github.com/Faultbox/overlay-pet/internal/pet"
)

func init() {
	// SDL video calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds host configuration.
type Config struct {
	Title        string
	DisplayIndex int
	Background   color.RGBA // fills the window behind the sprite
}

// Host implements host.Overlay on top of SDL2.
type Host struct {
	config Config
	origin sdl.Rect // bounds of the display the pet lives on

	mu      sync.Mutex
	next    host.Handle
	windows map[host.Handle]*overlay
}

// overlay is one pet window with its cached frames.
type overlay struct {
	win      *sdl.Window
	renderer *sdl.Renderer
	raster   *sprite.Rasterizer
	frames   map[pet.Phase]*sdl.Texture
	size     int32
}

// New initialises SDL video and selects the display.
func New(cfg Config) (*Host, error) {
	logger.Info("initializing SDL2", zap.Int("display", cfg.DisplayIndex))
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// The pet must react to the first click even when another app has focus.
	sdl.SetHint(sdl.HINT_MOUSE_FOCUS_CLICKTHROUGH, "1")

	displays, err := sdl.GetNumVideoDisplays()
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GetNumVideoDisplays failed: %w", err)
	}
	if cfg.DisplayIndex < 0 || cfg.DisplayIndex >= displays {
		logger.Warn("display out of range, using primary",
			zap.Int("display", cfg.DisplayIndex),
			zap.Int("displays", displays),
		)
		cfg.DisplayIndex = 0
	}

	bounds, err := sdl.GetDisplayBounds(cfg.DisplayIndex)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GetDisplayBounds failed: %w", err)
	}

	logger.Info("display selected",
		zap.Int("display", cfg.DisplayIndex),
		zap.Int32("x", bounds.X),
		zap.Int32("y", bounds.Y),
		zap.Int32("width", bounds.W),
		zap.Int32("height", bounds.H),
	)

	return &Host{
		config:  cfg,
		origin:  bounds,
		windows: make(map[host.Handle]*overlay),
	}, nil
}

// Origin returns the top-left corner of the display in global coordinates.
// Pet coordinates are relative to it.
func (h *Host) Origin() (x, y int32) {
	return h.origin.X, h.origin.Y
}

// ScreenBounds implements host.Overlay.
func (h *Host) ScreenBounds() (int, int) {
	return int(h.origin.W), int(h.origin.H)
}

// CreateWindow implements host.Overlay.
func (h *Host) CreateWindow(size int) (host.Handle, error) {
	if size <= 0 {
		return 0, fmt.Errorf("invalid sprite size %d", size)
	}

	flags := uint32(sdl.WINDOW_BORDERLESS | sdl.WINDOW_ALWAYS_ON_TOP | sdl.WINDOW_SKIP_TASKBAR | sdl.WINDOW_SHOWN)
	win, err := sdl.CreateWindow(
		h.config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(size),
		int32(size),
		flags,
	)
	if err != nil {
		return 0, host.Unavailable("create window", fmt.Errorf("SDL_CreateWindow failed: %w", err))
	}

	renderer, err := sdl.CreateRenderer(win, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_TARGETTEXTURE)
	if err != nil {
		// Software rendering still supports target textures.
		renderer, err = sdl.CreateRenderer(win, -1, sdl.RENDERER_SOFTWARE)
		if err != nil {
			win.Destroy()
			return 0, host.Unavailable("create window", fmt.Errorf("SDL_CreateRenderer failed: %w", err))
		}
	}

	h.mu.Lock()
	h.next++
	handle := h.next
	h.windows[handle] = &overlay{
		win:      win,
		renderer: renderer,
		raster:   sprite.NewRasterizer(size),
		frames:   make(map[pet.Phase]*sdl.Texture),
		size:     int32(size),
	}
	h.mu.Unlock()

	logger.Debug("overlay window created", zap.Uint64("handle", uint64(handle)), zap.Int("size", size))
	return handle, nil
}

// MoveAndRedraw implements host.Overlay.
func (h *Host) MoveAndRedraw(handle host.Handle, x, y float64, frame sprite.FrameSpec) error {
	o, err := h.lookup(handle, "move")
	if err != nil {
		return err
	}

	o.win.SetPosition(h.origin.X+int32(x), h.origin.Y+int32(y))

	tex, err := o.frame(frame)
	if err != nil {
		return host.Unavailable("redraw", err)
	}

	bg := h.config.Background
	if err := o.renderer.SetDrawColor(bg.R, bg.G, bg.B, bg.A); err != nil {
		return host.Unavailable("redraw", err)
	}
	if err := o.renderer.Clear(); err != nil {
		return host.Unavailable("redraw", err)
	}
	if err := o.renderer.Copy(tex, nil, nil); err != nil {
		return host.Unavailable("redraw", err)
	}
	o.renderer.Present()
	return nil
}

// RemoveWindow implements host.Overlay.
func (h *Host) RemoveWindow(handle host.Handle) error {
	h.mu.Lock()
	o, ok := h.windows[handle]
	delete(h.windows, handle)
	h.mu.Unlock()

	if !ok {
		return host.Unavailable("remove", fmt.Errorf("unknown window %d", handle))
	}
	o.destroy()
	logger.Debug("overlay window removed", zap.Uint64("handle", uint64(handle)))
	return nil
}

// Owns reports whether an SDL window id belongs to one of the pet windows.
func (h *Host) Owns(windowID uint32) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, o := range h.windows {
		if id, err := o.win.GetID(); err == nil && id == windowID {
			return true
		}
	}
	return false
}

// Close destroys every window and shuts SDL down.
func (h *Host) Close() {
	logger.Info("closing overlay host")

	h.mu.Lock()
	for handle, o := range h.windows {
		o.destroy()
		delete(h.windows, handle)
	}
	h.mu.Unlock()

	sdl.Quit()
}

func (h *Host) lookup(handle host.Handle, op string) (*overlay, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	o, ok := h.windows[handle]
	if !ok {
		return nil, host.Unavailable(op, fmt.Errorf("unknown window %d", handle))
	}
	return o, nil
}

// frame returns the texture for spec, rasterising it on first use.
func (o *overlay) frame(spec sprite.FrameSpec) (*sdl.Texture, error) {
	if tex, ok := o.frames[spec.Phase]; ok {
		return tex, nil
	}

	tex, err := o.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGBA8888), sdl.TEXTUREACCESS_TARGET, o.size, o.size)
	if err != nil {
		return nil, fmt.Errorf("SDL_CreateTexture failed: %w", err)
	}
	if err := tex.SetBlendMode(sdl.BLENDMODE_BLEND); err != nil {
		tex.Destroy()
		return nil, err
	}
	if err := o.paint(tex, o.raster.Render(spec)); err != nil {
		tex.Destroy()
		return nil, err
	}

	o.frames[spec.Phase] = tex
	return tex, nil
}

// paint copies img into tex one visible pixel at a time. The draw colour takes
// straight alpha, so the rasterised pixels are un-premultiplied first.
func (o *overlay) paint(tex *sdl.Texture, img *image.RGBA) error {
	if err := o.renderer.SetRenderTarget(tex); err != nil {
		return fmt.Errorf("SDL_SetRenderTarget failed: %w", err)
	}
	defer o.renderer.SetRenderTarget(nil)

	o.renderer.SetDrawBlendMode(sdl.BLENDMODE_NONE)
	o.renderer.SetDrawColor(0, 0, 0, 0)
	o.renderer.Clear()

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := sprite.Straight(img.RGBAAt(x, y))
			if c.A == 0 {
				continue
			}
			o.renderer.SetDrawColor(c.R, c.G, c.B, c.A)
			if err := o.renderer.DrawPoint(int32(x), int32(y)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (o *overlay) destroy() {
	for _, tex := range o.frames {
		tex.Destroy()
	}
	o.renderer.Destroy()
	o.win.Destroy()
}
