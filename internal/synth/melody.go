package synth

// pitchUnused mirrors the event sentinel: no note is currently held.
const pitchUnused = 0xFF

// Melody is one melody channel's playback unit. The channel waveform is
// baked into eight size variants, one per octave group, and each variant
// carries two voices so a sustained note change can fade the old voice
// while the new one starts without a phase gap.
type Melody struct {
	pairs     [8][2]Voice
	pitch     uint8
	volume    uint8
	pan       uint8
	ticks     uint32
	alt       int
	pizzicato bool
	finetune  uint16
	outRate   int
	ramp      int
}

// SetInstrument rebuilds the eight size variants from a 256-sample melody
// waveform and resets all playback state. Each variant subsamples the
// waveform at stride 256/size, wrapping; pizzicato channels retile the
// variant into a longer one-shot buffer.
func (m *Melody) SetInstrument(wave []int8, pizzicato bool, finetune uint16, outRate, ramp int) {
	m.pitch = pitchUnused
	m.volume = 200
	m.pan = 6
	m.ticks = 0
	m.alt = 0
	m.pizzicato = pizzicato
	m.finetune = finetune
	m.outRate = outRate
	m.ramp = ramp
	for g := range m.pairs {
		count := sizeTable[g]
		if pizzicato {
			count *= 4 + g*4
		}
		data := make([]int8, count)
		stride := 256 / sizeTable[g]
		wi := 0
		for k := range data {
			data[k] = wave[wi]
			wi = (wi + stride) & 0xFF
		}
		// Both voices of the pair read the same immutable variant.
		m.pairs[g][0].Init(data, outRate, ramp)
		m.pairs[g][1].Init(data, outRate, ramp)
	}
}

// activeVoice is only valid while a note is held (pitch != pitchUnused).
func (m *Melody) activeVoice() *Voice {
	return &m.pairs[m.pitch/12][m.alt]
}

// NoteOn starts a note of the given length in ticks. On a sustained channel
// an already-ringing note is stopped on its current voice and the new note
// starts on the pair's other voice, overlapping the old voice's fade.
// Pizzicato channels retrigger the same voice as a one-shot; if it is
// still sounding it is stopped first so the playhead rewinds while the
// fractional phase carries over.
func (m *Melody) NoteOn(pitch, length uint8) {
	if m.pitch != pitchUnused {
		active := m.activeVoice()
		if m.pizzicato {
			if active.playing {
				active.Stop()
			}
		} else {
			active.Stop()
			m.alt ^= 1
		}
	}
	m.pitch = pitch
	m.ticks = uint32(length)
	for g := range m.pairs {
		hz := melodyFrequency(g, pitch, m.finetune)
		m.pairs[g][0].SetFrequency(hz, m.outRate)
		m.pairs[g][1].SetFrequency(hz, m.outRate)
	}
	m.activeVoice().Play(!m.pizzicato)
}

// SetEventVolume records an event volume (0-127) and applies it to the
// ringing voice, if any.
func (m *Melody) SetEventVolume(volume uint8) {
	m.volume = volume
	if m.pitch != pitchUnused {
		m.activeVoice().SetVolume(eventVolumeDB(volume), m.ramp)
	}
}

// SetEventPan records an event pan step (0-12) and applies it to the
// ringing voice, if any.
func (m *Melody) SetEventPan(pan uint8) {
	m.pan = pan
	if m.pitch != pitchUnused {
		m.activeVoice().SetPan(eventPanDB(pan), m.ramp)
	}
}

// TickLength burns one tick of the held note and releases it on expiry.
// Pizzicato notes finish on their own as one-shots; sustained notes need
// the explicit stop.
func (m *Melody) TickLength() {
	if m.ticks == 0 {
		if m.pitch != pitchUnused && !m.pizzicato {
			m.activeVoice().Stop()
			m.pitch = pitchUnused
		}
		return
	}
	m.ticks--
}

// WriteSample adds one stereo sample from all sixteen voices into out.
func (m *Melody) WriteSample(out *[2]float32, interp Interpolation) {
	for g := range m.pairs {
		m.pairs[g][0].WriteSample(out, interp)
		m.pairs[g][1].WriteSample(out, interp)
	}
}
