package organya

import (
	"encoding/binary"
	"math"
	"time"
)

// RenderSamples renders the next frames stereo frames and returns them
// as interleaved float32 samples.
func (p *Player) RenderSamples(frames int) []float32 {
	out := make([]float32, frames*2)
	p.WriteNext(out)
	return out
}

// RenderDuration renders the next d worth of audio at the player's
// sample rate.
func (p *Player) RenderDuration(d time.Duration) []float32 {
	frames := int(d.Seconds() * float64(p.sampleRate))
	return p.RenderSamples(frames)
}

// EncodeWAVFloat32LE wraps interleaved float32 samples in a WAV
// container (format tag 3, IEEE float).
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
