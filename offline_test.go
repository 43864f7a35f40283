package organya

import (
	"encoding/binary"
	"testing"
	"time"
)

func TestRenderSamplesFrameCount(t *testing.T) {
	pl, err := NewPlayer(44100)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if got := len(pl.RenderSamples(512)); got != 1024 {
		t.Fatalf("RenderSamples(512) returned %d floats, want 1024", got)
	}
	if got := len(pl.RenderDuration(250 * time.Millisecond)); got != 22050 {
		t.Fatalf("RenderDuration(250ms) returned %d floats, want 22050", got)
	}
}

func TestEncodeWAVFloat32LEHeader(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1}
	wav := EncodeWAVFloat32LE(samples, 44100, 2)

	if len(wav) != 44+16 {
		t.Fatalf("wav length = %d, want 60", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Fatalf("container markers wrong: %q %q %q", wav[0:4], wav[8:12], wav[36:40])
	}
	if got := binary.LittleEndian.Uint16(wav[20:]); got != 3 {
		t.Fatalf("format tag = %d, want 3 (IEEE float)", got)
	}
	if got := binary.LittleEndian.Uint16(wav[22:]); got != 2 {
		t.Fatalf("channels = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:]); got != 44100 {
		t.Fatalf("sample rate = %d, want 44100", got)
	}
	if got := binary.LittleEndian.Uint16(wav[34:]); got != 32 {
		t.Fatalf("bits per sample = %d, want 32", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:]); got != 16 {
		t.Fatalf("data size = %d, want 16", got)
	}
	if got := binary.LittleEndian.Uint32(wav[44+4:]); got != 0x3F000000 {
		t.Fatalf("sample 1 bits = %#x, want 0.5", got)
	}
}
