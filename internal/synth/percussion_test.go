package synth

import "testing"

func TestPercussionNoteOnPlaysOneShot(t *testing.T) {
	var p Percussion
	p.SetInstrument(constWave(64, 100), 44100, 176)

	p.NoteOn(55) // 55*800+100 = 44100 Hz
	if !p.voice.playing || p.voice.looping {
		t.Fatalf("drum should play one-shot: playing=%v looping=%v", p.voice.playing, p.voice.looping)
	}
	if want := float32(1); p.voice.positionIncrement != want {
		t.Fatalf("increment = %v, want %v", p.voice.positionIncrement, want)
	}

	var out [2]float32
	p.WriteSample(&out, InterpolationNone)
	out = [2]float32{}
	p.WriteSample(&out, InterpolationNone)
	want := float32(100) / 128
	if out[0] != want || out[1] != want {
		t.Fatalf("frame 1 = %v, want %v in both ears", out, want)
	}
}

func TestPercussionRetriggerArmsSilenceTail(t *testing.T) {
	var p Percussion
	p.SetInstrument(constWave(64, 100), 44100, 176)

	p.NoteOn(54) // fractional increment, 43300/44100
	var out [2]float32
	for i := 0; i < 10; i++ {
		p.WriteSample(&out, InterpolationNone)
	}
	sub := p.voice.subPosition
	p.NoteOn(54)
	// The stop before the retrigger preserves fractional phase.
	if p.voice.subPosition != sub {
		t.Fatalf("retrigger reset the phase: %v -> %v", sub, p.voice.subPosition)
	}
	if p.voice.position != 0 {
		t.Fatalf("retrigger should rewind the playhead, position = %d", p.voice.position)
	}
}

func TestPercussionEmptySlotStaysSilent(t *testing.T) {
	var p Percussion
	p.SetInstrument(nil, 44100, 176)

	p.NoteOn(30)
	out := [2]float32{}
	for i := 0; i < 20; i++ {
		p.WriteSample(&out, InterpolationNone)
	}
	if out != [2]float32{} {
		t.Fatalf("empty drum slot contributed audio: %v", out)
	}
}
