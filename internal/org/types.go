// Package org holds the Organya data model and the binary parsers for
// song (.org) and soundbank files.
package org

import "errors"

// ErrMalformed reports a structural violation of the song or soundbank
// binary layout.
var ErrMalformed = errors.New("malformed Organya data")

// PropertyUnused marks an event field (pitch, volume, pan) as "no change".
const PropertyUnused uint8 = 0xFF

// Event is one step on a track. Position is the tick the event fires on;
// the remaining fields either carry a value or PropertyUnused.
type Event struct {
	Position uint32
	Pitch    uint8
	Length   uint8
	Volume   uint8
	Pan      uint8
}

// Track is one of the sixteen channels of a song. Tracks 0-7 drive melody
// instruments, tracks 8-15 percussion.
type Track struct {
	Finetune   uint16
	Instrument uint8
	Pizzicato  bool
	Events     []Event
}

const TrackCount = 16

// Song is a parsed Organya song. The playhead jumps back to RepeatStart
// when it reaches RepeatEnd.
type Song struct {
	Version         uint8
	TempoMS         uint16
	BeatsPerMeasure uint8
	StepsPerBeat    uint8
	RepeatStart     uint32
	RepeatEnd       uint32
	Tracks          [TrackCount]Track
}

// DefaultSong returns the empty song a player starts out with: standard
// tempo and repeat window, the stock instrument assignment, no events.
func DefaultSong() *Song {
	s := &Song{
		Version:         1,
		TempoMS:         125,
		BeatsPerMeasure: 4,
		StepsPerBeat:    4,
		RepeatStart:     0,
		RepeatEnd:       1600,
	}
	for i := range s.Tracks {
		s.Tracks[i].Finetune = 1000
	}
	for i := 0; i < 8; i++ {
		s.Tracks[i].Instrument = uint8(i * 11)
	}
	for i, ins := range [...]uint8{0, 2, 5, 6, 4, 8} {
		s.Tracks[8+i].Instrument = ins
	}
	return s
}
