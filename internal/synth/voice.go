package synth

import "math"

// Interpolation selects how a voice reconstructs output between source
// samples.
type Interpolation int

const (
	// InterpolationNone plays the newest source sample as-is.
	InterpolationNone Interpolation = iota
	// InterpolationLagrange fits a four-point cubic through the sample ring.
	InterpolationLagrange
)

// Voice is a single monophonic playback unit: a signed 8-bit wavetable, a
// fractional playhead, per-ear volume ramps, and a rolling ring of the
// last eight source samples feeding the interpolator. Voices add their
// output into a shared stereo accumulator; a stopped voice keeps running
// for eight more source samples so the interpolator walks off onto
// silence instead of stale data.
type Voice struct {
	data              []int8
	samples           [8]float32
	position          int
	subPosition       float32
	positionIncrement float32
	ring              int
	playing           bool
	looping           bool
	volume            float32
	panLeft           float32
	panRight          float32
	volumeLeft        float32
	volumeRight       float32
	targetVolumeLeft  float32
	targetVolumeRight float32
	volumeTicks       int
	totalSamples      uint32
	silenceTimer      int
}

// Init points the voice at a wavetable and resets all playback state.
// The first volume and pan after Init apply instantly instead of ramping.
func (v *Voice) Init(data []int8, outRate, volumeRamp int) {
	v.data = data
	v.samples = [8]float32{}
	v.position = 0
	v.subPosition = 0
	v.silenceTimer = 0
	v.totalSamples = 0
	v.volume = 1
	v.panLeft = 1
	v.panRight = 1
	v.SetFrequency(22050, outRate)
	v.SetVolume(0, volumeRamp)
	v.SetPan(0, volumeRamp)
	v.volumeLeft = v.targetVolumeLeft
	v.volumeRight = v.targetVolumeRight
	v.playing = false
	v.looping = false
	v.volumeTicks = 0
	v.ring = 0
}

// SetFrequency sets the playback rate in Hz. Rates outside the format's
// 16-bit range are clamped.
func (v *Voice) SetFrequency(hz, outRate int) {
	if hz < 0 {
		hz = 0
	}
	if hz > math.MaxUint16 {
		hz = math.MaxUint16
	}
	v.positionIncrement = float32(hz) / float32(outRate)
}

// SetVolume sets loudness in scaled decibels: -10000 is silence, 0 unity.
// The per-ear gains ramp toward the new target over ramp samples, except
// on a voice that has not produced a sample yet, where it applies at once.
func (v *Voice) SetVolume(db, ramp int) {
	if db < -10000 {
		db = -10000
	}
	if db > 0 {
		db = 0
	}
	v.volume = float32(math.Pow(10, float64(db)/2000))
	v.retarget(ramp)
}

// SetPan attenuates one ear: negative values duck the right ear, positive
// the left, in the same scaled-decibel domain as SetVolume.
func (v *Voice) SetPan(db, ramp int) {
	if db < 0 {
		if db < -10000 {
			db = -10000
		}
		v.panLeft = 1
		v.panRight = float32(math.Pow(10, float64(db)/2000))
	} else {
		db = -db
		if db < -10000 {
			db = -10000
		}
		v.panLeft = float32(math.Pow(10, float64(db)/2000))
		v.panRight = 1
	}
	v.retarget(ramp)
}

func (v *Voice) retarget(ramp int) {
	v.targetVolumeLeft = v.volume * v.panLeft
	v.targetVolumeRight = v.volume * v.panRight
	if v.totalSamples == 0 {
		v.volumeLeft = v.targetVolumeLeft
		v.volumeRight = v.targetVolumeRight
		v.volumeTicks = 0
	} else {
		v.volumeTicks = ramp
	}
}

// Play starts or retriggers the voice. A retrigger during the silence
// tail keeps the fractional phase so back-to-back notes stay
// phase-continuous.
func (v *Voice) Play(looping bool) {
	if !v.playing {
		v.position = 0
		if v.silenceTimer == 0 {
			v.subPosition = 0
		}
	}
	v.playing = true
	v.looping = looping
}

// Stop halts playback and arms the eight-sample silence tail.
func (v *Voice) Stop() {
	v.playing = false
	v.silenceTimer = 8
}

// WriteSample adds one stereo sample to out and advances the playhead.
// A voice that is neither playing nor in its silence tail contributes
// nothing.
func (v *Voice) WriteSample(out *[2]float32, interp Interpolation) {
	if !v.playing && v.silenceTimer == 0 {
		return
	}
	if v.volumeTicks > 0 {
		v.volumeLeft += (v.targetVolumeLeft - v.volumeLeft) / float32(v.volumeTicks)
		v.volumeRight += (v.targetVolumeRight - v.volumeRight) / float32(v.volumeTicks)
		v.volumeTicks--
	}
	sample := v.interpolate(interp)
	out[0] += sample * v.volumeLeft
	out[1] += sample * v.volumeRight

	lastPosition := v.position
	v.subPosition += v.positionIncrement
	whole := int(v.subPosition)
	v.position += whole
	v.subPosition -= float32(whole)

	// Feed the ring with every source sample the playhead crossed. When
	// stopped, crossings push zeros and burn down the silence tail.
	for i := 0; i < v.position-lastPosition; i++ {
		v.ring = (v.ring + 1) & 7
		switch {
		case !v.playing:
			v.samples[v.ring] = 0
			if v.silenceTimer > 0 {
				v.silenceTimer--
			}
		case v.looping:
			v.samples[v.ring] = float32(v.data[(lastPosition+i)%len(v.data)]) / 128
		case lastPosition+i >= len(v.data):
			v.samples[v.ring] = 0
		default:
			v.samples[v.ring] = float32(v.data[lastPosition+i]) / 128
		}
	}
	v.totalSamples++

	if v.playing {
		if v.position >= len(v.data) {
			if v.looping {
				v.position %= len(v.data)
			} else {
				v.playing = false
				v.silenceTimer = 8
			}
		}
	} else {
		v.position = 0
	}
}

func (v *Voice) interpolate(interp Interpolation) float32 {
	if interp == InterpolationLagrange {
		return v.interpolateLagrange()
	}
	return v.samples[v.ring]
}

// interpolateLagrange evaluates the cubic through the four newest ring
// samples at the fractional playhead. With taps a..d at ring offsets
// -3..0, the polynomial passes through b at t=0 and c at t=1.
func (v *Voice) interpolateLagrange() float32 {
	a := v.samples[(v.ring+5)&7]
	b := v.samples[(v.ring+6)&7]
	c := v.samples[(v.ring+7)&7]
	d := v.samples[v.ring]
	t := v.subPosition
	c0 := b
	c1 := fma32(1.0/6.0, -d, fma32(1.0/2.0, -b, fma32(1.0/3.0, -a, c)))
	c2 := fma32(1.0/2.0, a+c, -b)
	c3 := fma32(1.0/6.0, d-a, (b-c)/2)
	return fma32(fma32(fma32(c3, t, c2), t, c1), t, c0)
}

func fma32(x, y, z float32) float32 {
	return float32(math.FMA(float64(x), float64(y), float64(z)))
}
