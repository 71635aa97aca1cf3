package permission

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/overlay-pet/internal/config"
	"github.com/Faultbox/overlay-pet/internal/engine/looper"
	"github.com/Faultbox/overlay-pet/internal/host"
)

var _ host.PermissionProvider = (*Provider)(nil)

// await runs the looper until fn has been called or the timeout passes.
func await(t *testing.T, l *looper.Looper, done *bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !*done {
		select {
		case <-l.Wake():
			l.RunPending()
		case <-deadline:
			t.Fatal("timed out waiting for permission result")
		}
	}
}

func TestRequestPermission(t *testing.T) {
	tests := []struct {
		name   string
		answer bool
	}{
		{"granted", true},
		{"denied", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			cfg := config.Default()
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("failed to save config: %v", err)
			}

			l := looper.New(nil)
			var asked string
			p := New(cfg, l, func(title, message string) bool {
				asked = message
				return tt.answer
			})

			if p.HasOverlayPermission() {
				t.Fatal("expected no permission before asking")
			}

			var done, got bool
			p.RequestPermission(func(granted bool) {
				done = true
				got = granted
			})
			await(t, l, &done)

			if asked == "" {
				t.Error("expected the user to be asked")
			}
			if got != tt.answer {
				t.Errorf("expected %v, got %v", tt.answer, got)
			}
			if p.HasOverlayPermission() != tt.answer {
				t.Errorf("expected stored grant %v", tt.answer)
			}

			saved, err := config.LoadFile(path)
			if err != nil {
				t.Fatalf("failed to reload config: %v", err)
			}
			if saved.Overlay.PermissionGranted != tt.answer {
				t.Errorf("expected saved grant %v, got %v", tt.answer, saved.Overlay.PermissionGranted)
			}
		})
	}
}
