// Package permission asks the user whether the pet may be shown above other
// windows and remembers the answer in the config file.
package permission

import (
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/overlay-pet/internal/config"
	"github.com/Faultbox/overlay-pet/internal/engine/looper"
	"github.com/Faultbox/overlay-pet/internal/logger"
)

const (
	dialogTitle   = "Overlay Pet"
	dialogMessage = "Allow the pet to be drawn on top of other windows?"
)

// Asker shows a yes/no question and blocks until it is answered.
type Asker func(title, message string) bool

// NativeAsker uses the platform's message box.
func NativeAsker(title, message string) bool {
	return dialog.Message("%s", message).Title(title).YesNo()
}

// Poster hands work to the thread that owns the config.
type Poster interface {
	Post(fn func()) looper.Token
}

// Provider is a host.PermissionProvider backed by a native dialog. The grant
// is stored in the config and saved whenever it changes.
type Provider struct {
	cfg  *config.Config
	post Poster
	ask  Asker
}

// New creates a provider. A nil ask uses NativeAsker.
func New(cfg *config.Config, post Poster, ask Asker) *Provider {
	if ask == nil {
		ask = NativeAsker
	}
	return &Provider{cfg: cfg, post: post, ask: ask}
}

// HasOverlayPermission returns the stored grant.
func (p *Provider) HasOverlayPermission() bool {
	return p.cfg.Overlay.PermissionGranted
}

// RequestPermission shows the dialog without blocking the caller. onResult
// runs on the poster's thread.
func (p *Provider) RequestPermission(onResult func(granted bool)) {
	go func() {
		granted := p.ask(dialogTitle, dialogMessage)
		p.post.Post(func() {
			p.record(granted)
			onResult(granted)
		})
	}()
}

func (p *Provider) record(granted bool) {
	if p.cfg.Overlay.PermissionGranted == granted {
		return
	}
	p.cfg.Overlay.PermissionGranted = granted
	if err := p.cfg.Save(); err != nil {
		logger.Warn("failed to save permission", zap.Error(err))
		return
	}
	logger.Info("permission saved", zap.Bool("granted", granted), zap.String("path", p.cfg.Path()))
}
