// Package main is the entry point for the desktop overlay pet.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/overlay-pet/internal/app"
	"github.com/Faultbox/overlay-pet/internal/config"
	"github.com/Faultbox/overlay-pet/internal/engine/audio"
	"github.com/Faultbox/overlay-pet/internal/engine/debug"
	"github.com/Faultbox/overlay-pet/internal/engine/input"
	"github.com/Faultbox/overlay-pet/internal/engine/looper"
	"github.com/Faultbox/overlay-pet/internal/engine/window"
	"github.com/Faultbox/overlay-pet/internal/game/states"
	"github.com/Faultbox/overlay-pet/internal/logger"
	"github.com/Faultbox/overlay-pet/internal/permission"
	"github.com/Faultbox/overlay-pet/internal/pet"
)

// maxWait bounds how long the loop sleeps so input stays responsive.
const maxWait = 8 * time.Millisecond

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Overlay Pet ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if dir := config.SnapshotDir(); dir != "" {
		files, err := debug.NewSnapshot(dir, "pet", pet.DefaultSize).CaptureAll()
		if err != nil {
			logger.Error("snapshot failed", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("frames written", zap.Strings("files", files))
		return
	}

	if err := run(cfg); err != nil {
		logger.Error("pet error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("pet closed normally")
}

func run(cfg *config.Config) error {
	bg, err := config.ParseHexColor(cfg.Overlay.Background)
	if err != nil {
		return err
	}

	win, err := window.New(window.Config{
		Title:        "Overlay Pet",
		DisplayIndex: cfg.Overlay.DisplayIndex,
		Background:   bg,
	})
	if err != nil {
		return fmt.Errorf("failed to create overlay host: %w", err)
	}
	defer win.Close()

	l := looper.New(nil)
	perm := permission.New(cfg, l, nil)
	machine := states.NewMachine(app.SessionConfig(cfg), l, win, perm.HasOverlayPermission())

	sounds := audio.New(cfg.Audio.Volume)
	sounds.SetEnabled(cfg.Audio.Enabled)
	if cfg.Audio.Enabled {
		if err := sounds.Init(); err != nil {
			logger.Warn("audio unavailable", zap.Error(err))
		}
		defer sounds.Close()
	}
	machine.OnIntent(sounds.OnIntent)

	ctrl := app.New(machine, perm)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	exiting := false
	quit := func() { exiting = true }

	ctrl.OnEvent(func(ev app.Event) {
		switch ev.Kind {
		case app.ShowToast:
			logger.Info(ev.Message)
		case app.ShowPermissionDialog:
			l.Post(ctrl.RequestPermission)
		}
	})
	ctrl.OnPermission(func(granted bool) {
		if !granted {
			logger.Warn("overlay permission refused, exiting")
			quit()
			return
		}
		if !exiting && machine.Status() == states.Idle {
			ctrl.Start()
		}
	})

	in := input.New(l.Now)
	in.SetOrigin(win.Origin())

	ctrl.Start()

	for {
		select {
		case <-ctx.Done():
			quit()
		default:
		}

		if in.Update() {
			quit()
		}
		for _, ev := range in.Events() {
			switch ev.Type {
			case input.EventPointer:
				ctrl.OnPointerEvent(ev.Pointer)
			case input.EventWindowClosed:
				if win.Owns(ev.WindowID) {
					ctrl.HostFailed(fmt.Errorf("window %d closed", ev.WindowID))
				}
			case input.EventKeyDown:
				switch ev.Key {
				case sdl.SCANCODE_ESCAPE, sdl.SCANCODE_Q:
					quit()
				case sdl.SCANCODE_SPACE:
					ctrl.Toggle()
				}
			}
		}

		l.RunPending()

		if exiting {
			switch machine.Status() {
			case states.Idle:
				return nil
			case states.Running:
				ctrl.Stop()
			}
		}
		sleep(l)
	}
}

// sleep waits until the next task is due, at most maxWait.
func sleep(l *looper.Looper) {
	wait := maxWait
	if next, ok := l.NextDeadline(); ok {
		wait = min(wait, max(0, time.Until(next)))
	}
	if wait > 0 {
		sdl.Delay(uint32(wait / time.Millisecond))
	}
}
