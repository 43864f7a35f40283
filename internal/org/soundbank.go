package org

import (
	"fmt"
	"io"
)

const (
	// MelodyWaveCount is the number of melody wavetables in a bank.
	MelodyWaveCount = 100
	// MelodyWaveSize is the length of one melody wavetable in samples.
	MelodyWaveSize = 256
	// PercussionSlotCount is the number of percussion records in a bank.
	PercussionSlotCount = 42

	melodyBlockSize = MelodyWaveCount * MelodyWaveSize
)

// Soundbank holds the wave data a song plays from: 100 fixed-size signed
// melody wavetables and up to 42 variable-length percussion samples.
// Percussion samples are stored unsigned on disk and recentered to signed
// here, so voices consume both kinds the same way. A Soundbank is
// immutable after parsing; callers may share the returned slices freely.
type Soundbank struct {
	melody     [melodyBlockSize]int8
	percussion [PercussionSlotCount][]int8
}

// MelodyWave returns the 256-sample wavetable for a melody instrument.
func (b *Soundbank) MelodyWave(instrument int) []int8 {
	return b.melody[instrument*MelodyWaveSize : (instrument+1)*MelodyWaveSize]
}

// PercussionWave returns the sample for a percussion instrument, or nil
// when the bank leaves that slot empty.
func (b *Soundbank) PercussionWave(instrument int) []int8 {
	return b.percussion[instrument]
}

// ParseSoundbank decodes a soundbank: a 25,600-byte melody block followed
// by 42 length-prefixed percussion records.
func ParseSoundbank(data []byte) (*Soundbank, error) {
	if len(data) < melodyBlockSize+PercussionSlotCount*4 {
		return nil, fmt.Errorf("soundbank truncated: %w", ErrMalformed)
	}
	bank := &Soundbank{}
	for i, v := range data[:melodyBlockSize] {
		bank.melody[i] = int8(v)
	}
	r := byteReader{buf: data[melodyBlockSize:]}
	for i := range bank.percussion {
		length, ok := r.u32()
		if !ok {
			return nil, fmt.Errorf("percussion %d length truncated: %w", i, ErrMalformed)
		}
		if length == 0 {
			continue
		}
		raw, ok := r.take(int(length))
		if !ok {
			return nil, fmt.Errorf("percussion %d sample truncated: %w", i, ErrMalformed)
		}
		wave := make([]int8, length)
		for j, v := range raw {
			wave[j] = int8(v - 128)
		}
		bank.percussion[i] = wave
	}
	return bank, nil
}

// ReadSoundbank reads a whole soundbank from r and parses it.
func ReadSoundbank(r io.Reader) (*Soundbank, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read soundbank: %w", err)
	}
	return ParseSoundbank(data)
}
