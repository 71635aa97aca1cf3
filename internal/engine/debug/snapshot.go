// Package debug writes rendered pet frames to disk for inspection.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/Faultbox/overlay-pet/internal/engine/sprite"
	"github.com/Faultbox/overlay-pet/internal/pet"
)

// Phases lists the frames written by CaptureAll, in cycle order.
var Phases = []pet.Phase{pet.PhaseIdle, pet.PhaseWalk, pet.PhaseHappy}

// Snapshot renders frames and saves them as PNG files.
type Snapshot struct {
	outputDir string
	prefix    string
	raster    *sprite.Rasterizer
}

// NewSnapshot creates a writer producing px by px images.
func NewSnapshot(outputDir, prefix string, px int) *Snapshot {
	return &Snapshot{
		outputDir: outputDir,
		prefix:    prefix,
		raster:    sprite.NewRasterizer(px),
	}
}

// Filename returns the path a phase's frame is written to.
func (s *Snapshot) Filename(phase pet.Phase) string {
	name := fmt.Sprintf("%s_%s.png", s.prefix, phase)
	if s.outputDir != "" {
		name = filepath.Join(s.outputDir, name)
	}
	return name
}

// CaptureFrame renders the frame for phase and writes it.
func (s *Snapshot) CaptureFrame(phase pet.Phase) (string, error) {
	if s.outputDir != "" {
		if err := os.MkdirAll(s.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := s.Filename(phase)
	if err := writePNG(filename, s.raster.Render(sprite.FrameFor(phase))); err != nil {
		return "", err
	}
	return filename, nil
}

// CaptureAll writes one file per phase.
func (s *Snapshot) CaptureAll() ([]string, error) {
	files := make([]string, 0, len(Phases))
	for _, p := range Phases {
		name, err := s.CaptureFrame(p)
		if err != nil {
			return files, fmt.Errorf("capturing %s: %w", p, err)
		}
		files = append(files, name)
	}
	return files, nil
}

func writePNG(filename string, img image.Image) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return file.Close()
}
