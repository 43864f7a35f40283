// Package organya renders Organya music (the sequencer format used by
// Cave Story and its derivatives) to interleaved stereo float32 PCM.
//
// A Player combines a soundbank (melody wavetables plus percussion
// samples) and a song (sixteen event channels, tempo, loop points). Pull
// audio with WriteNext or RenderSamples, or start device playback with
// Play.
package organya

import (
	"errors"
	"io"
	"os"
	"sync"

	intaudio "github.com/orgtone/organya-go/internal/audio"
	"github.com/orgtone/organya-go/internal/org"
	intseq "github.com/orgtone/organya-go/internal/sequencer"
	"github.com/orgtone/organya-go/internal/synth"
)

// Interpolation selects how voices reconstruct output between source
// samples.
type Interpolation = synth.Interpolation

const (
	InterpolationNone     = synth.InterpolationNone
	InterpolationLagrange = synth.InterpolationLagrange
)

// ErrMalformed reports a structurally invalid song or soundbank.
var ErrMalformed = org.ErrMalformed

// TrackCount is the number of channels in a song: tracks 0-7 are melody,
// 8-15 percussion.
const TrackCount = org.TrackCount

type PlayerOption func(*playerConfig)

type playerConfig struct {
	interpolation Interpolation
	masterVolume  float64
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{interpolation: InterpolationNone, masterVolume: 1}
}

// WithInterpolation sets the initial voice interpolation mode.
func WithInterpolation(interp Interpolation) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.interpolation = interp
	}
}

// WithMasterVolume sets the initial master volume scalar; 1 is unity.
func WithMasterVolume(volume float64) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.masterVolume = volume
	}
}

// Player is the public rendering surface. It starts out over an empty
// soundbank and a default song, producing silence until both are loaded.
// A failed load leaves the previously loaded data playing.
//
// WriteNext and the control methods are safe for concurrent use with a
// running audio backend; the render path itself is single-threaded.
type Player struct {
	mu         sync.Mutex
	seq        *intseq.Sequencer
	sampleRate int
	audio      *intaudio.Player
}

func NewPlayer(sampleRate int, opts ...PlayerOption) (*Player, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	seq := intseq.New(sampleRate)
	seq.SetInterpolation(cfg.interpolation)
	seq.SetMasterVolume(clampVolume(cfg.masterVolume))
	return &Player{
		seq:        seq,
		sampleRate: sampleRate,
	}, nil
}

// LoadSoundbank parses soundbank bytes and swaps them in.
func (p *Player) LoadSoundbank(data []byte) error {
	bank, err := org.ParseSoundbank(data)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq.SetSoundbank(bank)
	return nil
}

// ReadSoundbank reads a whole soundbank from r and swaps it in.
func (p *Player) ReadSoundbank(r io.Reader) error {
	bank, err := org.ReadSoundbank(r)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq.SetSoundbank(bank)
	return nil
}

// LoadSoundbankFile loads a soundbank from a file.
func (p *Player) LoadSoundbankFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return p.LoadSoundbank(data)
}

// LoadSong parses song bytes, swaps the song in, and seeks to the
// beginning.
func (p *Player) LoadSong(data []byte) error {
	song, err := org.ParseSong(data)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq.SetSong(song)
	return nil
}

// ReadSong reads a whole song from r and swaps it in.
func (p *Player) ReadSong(r io.Reader) error {
	song, err := org.ReadSong(r)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq.SetSong(song)
	return nil
}

// LoadSongFile loads a song from a file.
func (p *Player) LoadSongFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return p.LoadSong(data)
}

// WriteNext advances the song and fills dst with interleaved stereo
// frames. The stream is unbounded; the song loops at its repeat point
// forever.
func (p *Player) WriteNext(dst []float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq.Process(dst)
}

// Seek moves the playhead to a tick position.
func (p *Player) Seek(position uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq.Seek(position)
}

// Position returns the playhead's current tick.
func (p *Player) Position() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seq.Position()
}

// SetMuted mutes or unmutes one of the sixteen tracks.
func (p *Player) SetMuted(track int, muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq.SetMuted(track, muted)
}

// Muted reports whether a track is muted.
func (p *Player) Muted(track int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seq.Muted(track)
}

// SetMasterVolume sets the runtime volume scalar, clamped at zero.
func (p *Player) SetMasterVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq.SetMasterVolume(clampVolume(volume))
}

// MasterVolume returns the current master volume scalar.
func (p *Player) MasterVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return float64(p.seq.MasterVolume())
}

// SetInterpolation switches the voice reconstruction mode; it takes
// effect on the next rendered frame.
func (p *Player) SetInterpolation(interp Interpolation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq.SetInterpolation(interp)
}

// SampleRate returns the output rate the player renders at.
func (p *Player) SampleRate() int {
	return p.sampleRate
}

// Play starts playback on the system audio device. Rendering continues
// until Pause or Stop; loading a new song mid-playback switches the
// stream over at the next buffer.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		backend, err := intaudio.NewPlayer(p.sampleRate, p)
		if err != nil {
			return err
		}
		p.audio = backend
	}
	p.audio.Play()
	return nil
}

// Pause suspends device playback; the playhead holds its position.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Pause()
	}
}

// Stop tears down the device playback started by Play.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		return nil
	}
	err := p.audio.Stop()
	p.audio = nil
	return err
}

func clampVolume(volume float64) float32 {
	if volume < 0 {
		return 0
	}
	return float32(volume)
}
