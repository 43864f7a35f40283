package synth

// Percussion is one percussion channel: a single one-shot voice over a
// drum sample. The event pitch sets the playback rate directly.
type Percussion struct {
	voice   Voice
	pitch   uint8
	volume  uint8
	pan     uint8
	outRate int
	ramp    int
}

// SetInstrument points the channel at a drum sample (nil for an empty bank
// slot) and resets playback state.
func (p *Percussion) SetInstrument(wave []int8, outRate, ramp int) {
	p.pitch = pitchUnused
	p.volume = 200
	p.pan = 6
	p.outRate = outRate
	p.ramp = ramp
	p.voice.Init(wave, outRate, ramp)
}

// NoteOn retriggers the drum at the event pitch. Stopping first arms the
// silence tail, so the retrigger keeps its fractional phase.
func (p *Percussion) NoteOn(pitch uint8) {
	p.voice.Stop()
	p.pitch = pitch
	p.voice.SetFrequency(percussionFrequency(pitch), p.outRate)
	p.voice.Play(false)
}

// SetEventVolume applies an event volume (0-127).
func (p *Percussion) SetEventVolume(volume uint8) {
	p.volume = volume
	p.voice.SetVolume(eventVolumeDB(volume), p.ramp)
}

// SetEventPan applies an event pan step (0-12).
func (p *Percussion) SetEventPan(pan uint8) {
	p.pan = pan
	p.voice.SetPan(eventPanDB(pan), p.ramp)
}

// WriteSample adds one stereo sample into out.
func (p *Percussion) WriteSample(out *[2]float32, interp Interpolation) {
	p.voice.WriteSample(out, interp)
}
