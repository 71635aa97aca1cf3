// Package audio plays the pet's short feedback chirps.
package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
	"go.uber.org/zap"

	"github.com/Faultbox/overlay-pet/internal/engine/gesture"
	"github.com/Faultbox/overlay-pet/internal/logger"
)

// DefaultSampleRate is the sample rate the speaker is opened with.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned when playing before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// Sound identifies a chirp.
type Sound int

const (
	SoundNone Sound = iota
	SoundTap
	SoundDoubleTap
	SoundFling
)

func (s Sound) String() string {
	switch s {
	case SoundNone:
		return "none"
	case SoundTap:
		return "tap"
	case SoundDoubleTap:
		return "double_tap"
	case SoundFling:
		return "fling"
	default:
		return fmt.Sprintf("sound(%d)", int(s))
	}
}

// note is one step of a chirp. A zero freq is a rest.
type note struct {
	freq float64
	dur  time.Duration
}

var chirps = map[Sound][]note{
	SoundTap: {
		{880, 60 * time.Millisecond},
	},
	SoundDoubleTap: {
		{880, 50 * time.Millisecond},
		{0, 30 * time.Millisecond},
		{1320, 50 * time.Millisecond},
	},
	SoundFling: {
		{660, 40 * time.Millisecond},
		{990, 40 * time.Millisecond},
		{1320, 40 * time.Millisecond},
	},
}

// SoundFor returns the chirp for an intent, or SoundNone.
func SoundFor(in gesture.Intent) Sound {
	switch in.Kind {
	case gesture.IntentSingleTap:
		return SoundTap
	case gesture.IntentDoubleTap:
		return SoundDoubleTap
	case gesture.IntentFling:
		return SoundFling
	default:
		return SoundNone
	}
}

// Manager owns the speaker and mixes chirps into it.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	enabled     bool
	sampleRate  beep.SampleRate
	volume      float64 // 0.0 to 1.0

	mixer *beep.Mixer
}

// New creates a manager. Nothing is played until Init.
func New(volume float64) *Manager {
	return &Manager{
		enabled:    true,
		sampleRate: DefaultSampleRate,
		volume:     clamp(volume, 0, 1),
		mixer:      &beep.Mixer{},
	}
}

// Init opens the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)

	m.initialized = true
	return nil
}

// Close silences the speaker.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	m.initialized = false
}

// IsInitialized returns whether the speaker is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetVolume sets the chirp volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clamp(vol, 0, 1)
}

// Volume returns the chirp volume.
func (m *Manager) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// SetEnabled mutes or unmutes chirps.
func (m *Manager) SetEnabled(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = on
}

// Enabled reports whether chirps are played.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// OnIntent plays the chirp for an applied intent. It is meant to be
// registered as an intent listener and never fails the caller.
func (m *Manager) OnIntent(in gesture.Intent) {
	s := SoundFor(in)
	if s == SoundNone || !m.Enabled() {
		return
	}
	if err := m.Play(s); err != nil && !errors.Is(err, ErrNotInitialized) {
		logger.Debug("chirp failed", zap.Stringer("sound", s), zap.Error(err))
	}
}

// Play mixes a chirp into the speaker output.
func (m *Manager) Play(s Sound) error {
	m.mu.RLock()
	initialized := m.initialized
	vol := m.volume
	sr := m.sampleRate
	m.mu.RUnlock()

	if !initialized {
		return ErrNotInitialized
	}

	st, err := chirp(sr, s, vol)
	if err != nil {
		return err
	}

	speaker.Lock()
	m.mixer.Add(st)
	speaker.Unlock()
	return nil
}

// chirp builds the finite streamer for s at volume vol.
func chirp(sr beep.SampleRate, s Sound, vol float64) (beep.Streamer, error) {
	notes, ok := chirps[s]
	if !ok {
		return nil, fmt.Errorf("unknown sound %v", s)
	}

	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		samples := sr.N(n.dur)
		if n.freq == 0 {
			parts = append(parts, beep.Silence(samples))
			continue
		}
		tone, err := generators.SineTone(sr, n.freq)
		if err != nil {
			return nil, fmt.Errorf("tone %v Hz: %w", n.freq, err)
		}
		parts = append(parts, beep.Take(samples, tone))
	}

	return &effects.Volume{
		Streamer: beep.Seq(parts...),
		Base:     2,
		Volume:   volumeToDb(vol),
		Silent:   vol <= 0,
	}, nil
}

// chirpLength returns the number of samples s lasts at sr.
func chirpLength(sr beep.SampleRate, s Sound) int {
	n := 0
	for _, nt := range chirps[s] {
		n += sr.N(nt.dur)
	}
	return n
}

// volumeToDb converts a 0-1 volume to the exponent effects.Volume expects
// with Base 2, so that vol=0.5 is one halving.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return math.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
