package org

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// songHeaderSize covers magic, version digits, tempo, beats/steps, the
// repeat window, and the sixteen per-track headers.
const songHeaderSize = 4 + 2 + 2 + 1 + 1 + 4 + 4 + TrackCount*6

var songMagic = []byte("Org-")

// ParseSong decodes an Organya song. Event fields are normalized on the
// way in: out-of-range pitches become PropertyUnused, zero lengths become
// one tick, and out-of-range pans snap to center.
func ParseSong(data []byte) (*Song, error) {
	if len(data) < songHeaderSize {
		return nil, fmt.Errorf("song header truncated: %w", ErrMalformed)
	}
	r := byteReader{buf: data}
	magic, _ := r.take(4)
	if !bytes.Equal(magic, songMagic) {
		return nil, fmt.Errorf("bad song magic: %w", ErrMalformed)
	}
	d1, _ := r.u8()
	d2, _ := r.u8()
	version := (d1-'0')*10 + (d2 - '0')
	if version < 1 || version > 3 {
		return nil, fmt.Errorf("unsupported song version %d: %w", version, ErrMalformed)
	}

	song := &Song{Version: version}
	song.TempoMS, _ = r.u16()
	song.BeatsPerMeasure, _ = r.u8()
	song.StepsPerBeat, _ = r.u8()
	song.RepeatStart, _ = r.u32()
	song.RepeatEnd, _ = r.u32()
	for i := range song.Tracks {
		tr := &song.Tracks[i]
		tr.Finetune, _ = r.u16()
		tr.Instrument, _ = r.u8()
		pizzicato, _ := r.u8()
		if version > 1 {
			tr.Pizzicato = pizzicato == 1
		}
		if i < 8 && tr.Instrument >= MelodyWaveCount ||
			i >= 8 && tr.Instrument >= PercussionSlotCount {
			tr.Instrument = 0
		}
		count, _ := r.u16()
		tr.Events = make([]Event, count)
	}

	// Event tables follow, one per track, serialized column-major:
	// count positions, then count bytes each of pitch, length, volume, pan.
	for i := range song.Tracks {
		tr := &song.Tracks[i]
		n := len(tr.Events)
		table, ok := r.take(n * 8)
		if !ok {
			return nil, fmt.Errorf("track %d event table truncated: %w", i, ErrMalformed)
		}
		for j := range tr.Events {
			ev := &tr.Events[j]
			ev.Position = binary.LittleEndian.Uint32(table[j*4:])
			ev.Pitch = table[n*4+j]
			ev.Length = table[n*5+j]
			ev.Volume = table[n*6+j]
			ev.Pan = table[n*7+j]
			if ev.Pitch >= 96 {
				ev.Pitch = PropertyUnused
			}
			if ev.Length == 0 {
				ev.Length = 1
			}
			if ev.Pan > 12 && ev.Pan != PropertyUnused {
				ev.Pan = 6
			}
		}
	}
	return song, nil
}

// ReadSong reads a whole song from r and parses it.
func ReadSong(r io.Reader) (*Song, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read song: %w", err)
	}
	return ParseSong(data)
}
