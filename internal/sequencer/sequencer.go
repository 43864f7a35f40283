// Package sequencer schedules Organya song events against the synth
// carriers and drives the per-sample render loop.
package sequencer

import (
	"github.com/orgtone/organya-go/internal/org"
	"github.com/orgtone/organya-go/internal/synth"
)

const (
	melodyTracks     = 8
	percussionTracks = 8
)

// trackCursor is one channel's read position into its event list: the
// next event to consume.
type trackCursor struct {
	index int
	muted bool
}

// Sequencer owns the sixteen channel carriers and the song clock. Tick
// cadence is derived from the song tempo through a fractional sample
// accumulator; at each tick the pending event of every channel is applied
// and note lengths are burned down. The render path allocates nothing.
type Sequencer struct {
	song              *org.Song
	bank              *org.Soundbank
	melodies          [melodyTracks]synth.Melody
	percussions       [percussionTracks]synth.Percussion
	cursors           [org.TrackCount]trackCursor
	position          uint32
	lastPosition      uint32
	samplesToNextTick float64
	sampleRate        int
	volumeRamp        int
	masterVolume      float32
	interpolation     synth.Interpolation
}

// New returns a sequencer over the default song and an empty soundbank,
// which renders silence until real data is loaded.
func New(sampleRate int) *Sequencer {
	s := &Sequencer{
		song:         org.DefaultSong(),
		bank:         &org.Soundbank{},
		sampleRate:   sampleRate,
		volumeRamp:   sampleRate / 250,
		masterVolume: 1,
	}
	s.loadInstruments()
	s.Seek(0)
	return s
}

// SetSong swaps in a parsed song, rebuilds every carrier from it, and
// seeks to the beginning.
func (s *Sequencer) SetSong(song *org.Song) {
	s.song = song
	s.samplesToNextTick = 0
	s.loadInstruments()
	s.Seek(0)
}

// SetSoundbank swaps in a parsed soundbank and rebuilds the carriers so
// they pick up the new wave data. The song position is unchanged.
func (s *Sequencer) SetSoundbank(bank *org.Soundbank) {
	s.bank = bank
	s.loadInstruments()
}

func (s *Sequencer) loadInstruments() {
	for i := range s.melodies {
		tr := &s.song.Tracks[i]
		wave := s.bank.MelodyWave(int(tr.Instrument))
		s.melodies[i].SetInstrument(wave, tr.Pizzicato, tr.Finetune, s.sampleRate, s.volumeRamp)
	}
	for i := range s.percussions {
		tr := &s.song.Tracks[melodyTracks+i]
		wave := s.bank.PercussionWave(int(tr.Instrument))
		s.percussions[i].SetInstrument(wave, s.sampleRate, s.volumeRamp)
	}
}

// Seek moves the playhead to a tick position and re-aims every channel
// cursor at its first event at or past that position. Sounding voices are
// left alone; the loop wrap relies on that to carry notes across the
// boundary.
func (s *Sequencer) Seek(position uint32) {
	s.position = position
	s.lastPosition = position
	for i := range s.cursors {
		events := s.song.Tracks[i].Events
		cur := &s.cursors[i]
		cur.index = len(events)
		for j := range events {
			if events[j].Position >= position {
				cur.index = j
				break
			}
		}
	}
}

// Position returns the playhead's current tick.
func (s *Sequencer) Position() uint32 {
	return s.position
}

// SetMuted silences a track's event processing. Out-of-range tracks are
// ignored.
func (s *Sequencer) SetMuted(track int, muted bool) {
	if track < 0 || track >= org.TrackCount {
		return
	}
	s.cursors[track].muted = muted
}

// Muted reports whether a track is muted.
func (s *Sequencer) Muted(track int) bool {
	if track < 0 || track >= org.TrackCount {
		return false
	}
	return s.cursors[track].muted
}

// SetMasterVolume scales the final mix; 1 is unity.
func (s *Sequencer) SetMasterVolume(volume float32) {
	s.masterVolume = volume
}

// MasterVolume returns the current master volume scalar.
func (s *Sequencer) MasterVolume() float32 {
	return s.masterVolume
}

// SetInterpolation selects the voice reconstruction mode.
func (s *Sequencer) SetInterpolation(interp synth.Interpolation) {
	s.interpolation = interp
}

// SampleRate returns the output rate the sequencer was built for.
func (s *Sequencer) SampleRate() int {
	return s.sampleRate
}

// tick applies one song step: melody events first, then percussion, then
// the playhead advance and loop wrap. The pre-wrap lastPosition is kept
// so note-off logic on the boundary still observes a real delta.
func (s *Sequencer) tick() {
	s.tickMelodies()
	s.tickPercussions()
	s.lastPosition = s.position
	s.position++
	if s.position >= s.song.RepeatEnd {
		last := s.lastPosition
		s.Seek(s.song.RepeatStart)
		s.lastPosition = last
	}
	s.samplesToNextTick += float64(s.sampleRate) * float64(s.song.TempoMS) / 1000
}

func (s *Sequencer) tickMelodies() {
	for i := range s.melodies {
		mel := &s.melodies[i]
		cur := &s.cursors[i]
		events := s.song.Tracks[i].Events
		if cur.index < len(events) && !cur.muted {
			ev := &events[cur.index]
			if ev.Position == s.position {
				if ev.Pitch != org.PropertyUnused {
					mel.NoteOn(ev.Pitch, ev.Length)
				}
				if ev.Volume != org.PropertyUnused {
					mel.SetEventVolume(ev.Volume)
				}
				if ev.Pan != org.PropertyUnused {
					mel.SetEventPan(ev.Pan)
				}
				cur.index++
			}
		}
		mel.TickLength()
	}
}

func (s *Sequencer) tickPercussions() {
	for i := range s.percussions {
		perc := &s.percussions[i]
		cur := &s.cursors[melodyTracks+i]
		if cur.muted {
			continue
		}
		events := s.song.Tracks[melodyTracks+i].Events
		if cur.index >= len(events) {
			continue
		}
		ev := &events[cur.index]
		if ev.Position != s.position {
			continue
		}
		if ev.Pitch != org.PropertyUnused {
			perc.NoteOn(ev.Pitch)
		}
		if ev.Volume != org.PropertyUnused {
			perc.SetEventVolume(ev.Volume)
		}
		if ev.Pan != org.PropertyUnused {
			perc.SetEventPan(ev.Pan)
		}
		cur.index++
	}
}

// Process fills dst with interleaved stereo frames. At most one tick
// fires per frame; every voice is then summed into the frame and the
// master volume applied.
func (s *Sequencer) Process(dst []float32) {
	for f := 0; f+1 < len(dst); f += 2 {
		if s.samplesToNextTick <= 0 {
			s.tick()
		}
		s.samplesToNextTick--
		var out [2]float32
		for i := range s.melodies {
			s.melodies[i].WriteSample(&out, s.interpolation)
		}
		for i := range s.percussions {
			s.percussions[i].WriteSample(&out, s.interpolation)
		}
		dst[f] = out[0] * s.masterVolume
		dst[f+1] = out[1] * s.masterVolume
	}
}
