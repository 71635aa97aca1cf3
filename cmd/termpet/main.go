// Package main is the entry point for the terminal pet.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/overlay-pet/internal/app"
	"github.com/Faultbox/overlay-pet/internal/config"
	"github.com/Faultbox/overlay-pet/internal/engine/audio"
	"github.com/Faultbox/overlay-pet/internal/engine/looper"
	"github.com/Faultbox/overlay-pet/internal/engine/terminal"
	"github.com/Faultbox/overlay-pet/internal/game/states"
	"github.com/Faultbox/overlay-pet/internal/logger"
	"github.com/Faultbox/overlay-pet/internal/permission"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// The screen belongs to the pet, so logs only go to a file.
	logFile := cfg.Logging.LogFile
	if logFile == "" {
		logFile = filepath.Join(config.ConfigDir(), "termpet.log")
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, logger.DefaultFileConfig(logFile), nil); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Terminal Pet ===")

	if err := run(cfg); err != nil {
		logger.Error("pet error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("pet closed normally")
}

func run(cfg *config.Config) error {
	bg, err := config.ParseHexColor(cfg.Overlay.Background)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	term := terminal.New(screen, bg)
	term.Repaint()

	l := looper.New(nil)
	perm := permission.New(cfg, l, nil)
	machine := states.NewMachine(app.SessionConfig(cfg), l, term, perm.HasOverlayPermission())

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
	quit := func() {
		exiting = true
		switch machine.Status() {
		case states.Idle:
			cancel()
		case states.Running:
			ctrl.Stop()
		}
	}
	machine.OnTransition(func(tr states.Transition) {
		if !exiting {
			return
		}
		switch tr.To {
		case states.Idle:
			cancel()
		case states.Running:
			ctrl.Stop()
		}
	})

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

	in := terminal.NewInput(l.Now)
	go terminal.Pump(screen, func(ev tcell.Event) {
		l.Post(func() {
			cmd, pointer := in.Translate(ev)
			switch cmd {
			case terminal.CmdPointer:
				ctrl.OnPointerEvent(pointer)
			case terminal.CmdToggle:
				ctrl.Toggle()
			case terminal.CmdPermission:
				ctrl.RequestPermission()
			case terminal.CmdResize:
				// Bounds are fixed per session; a resize only repaints.
				screen.Sync()
				term.Repaint()
			case terminal.CmdQuit:
				quit()
			}
		})
	})

	l.Post(ctrl.Start)

	if err := l.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
