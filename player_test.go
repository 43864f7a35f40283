package organya

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// minimalSong builds an eventless song binary with the given version
// digits.
func minimalSong(version string) []byte {
	var buf bytes.Buffer
	buf.WriteString("Org-")
	buf.WriteString(version)
	binary.Write(&buf, binary.LittleEndian, uint16(125)) // tempo
	buf.WriteByte(4)                                     // beats per measure
	buf.WriteByte(4)                                     // steps per beat
	binary.Write(&buf, binary.LittleEndian, uint32(0))   // repeat start
	binary.Write(&buf, binary.LittleEndian, uint32(40))  // repeat end
	for i := 0; i < TrackCount; i++ {
		binary.Write(&buf, binary.LittleEndian, uint16(1000)) // finetune
		buf.WriteByte(0)                                      // instrument
		buf.WriteByte(0)                                      // pizzicato
		binary.Write(&buf, binary.LittleEndian, uint16(0))    // event count
	}
	return buf.Bytes()
}

func minimalBank() []byte {
	var buf bytes.Buffer
	buf.Write(make([]byte, 100*256))
	for i := 0; i < 42; i++ {
		binary.Write(&buf, binary.LittleEndian, uint32(0))
	}
	return buf.Bytes()
}

func TestNewPlayerRejectsBadSampleRate(t *testing.T) {
	for _, rate := range []int{0, -44100} {
		if _, err := NewPlayer(rate); err == nil {
			t.Fatalf("NewPlayer(%d) should fail", rate)
		}
	}
}

func TestPlayerMasterVolumeRuntimeAPI(t *testing.T) {
	pl, err := NewPlayer(44100)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if got := pl.MasterVolume(); got != 1 {
		t.Fatalf("default master volume = %v, want 1", got)
	}
	pl.SetMasterVolume(0.35)
	if got := pl.MasterVolume(); float32(got) != 0.35 {
		t.Fatalf("master volume = %v, want 0.35", got)
	}
	pl.SetMasterVolume(-2)
	if got := pl.MasterVolume(); got != 0 {
		t.Fatalf("master volume should clamp to 0, got %v", got)
	}
}

func TestPlayerRendersSilenceBeforeLoad(t *testing.T) {
	pl, err := NewPlayer(44100)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	buf := make([]float32, 1024)
	pl.WriteNext(buf)
	for i, s := range buf {
		if s != 0 {
			t.Fatalf("sample %d = %v, want silence before any load", i, s)
		}
	}
}

func TestPlayerLoadSongValidation(t *testing.T) {
	pl, err := NewPlayer(44100)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	cases := []struct {
		name string
		data []byte
		ok   bool
	}{
		{"version 2", minimalSong("02"), true},
		{"version 1", minimalSong("01"), true},
		{"version 3", minimalSong("03"), true},
		{"version 0", minimalSong("00"), false},
		{"version 4", minimalSong("04"), false},
		{"bad magic", append([]byte("Foo-"), minimalSong("02")[4:]...), false},
		{"truncated", minimalSong("02")[:40], false},
	}
	for _, tc := range cases {
		err := pl.LoadSong(tc.data)
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrMalformed) {
			t.Fatalf("%s: error = %v, want ErrMalformed", tc.name, err)
		}
	}
}

func TestPlayerLoadSoundbankValidation(t *testing.T) {
	pl, err := NewPlayer(44100)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	bank := minimalBank()
	if err := pl.LoadSoundbank(bank); err != nil {
		t.Fatalf("minimal bank should load: %v", err)
	}
	if err := pl.LoadSoundbank(bank[:25599]); !errors.Is(err, ErrMalformed) {
		t.Fatalf("short bank error = %v, want ErrMalformed", err)
	}
}

func TestPlayerFailedLoadKeepsState(t *testing.T) {
	pl, err := NewPlayer(44100)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if err := pl.LoadSong(minimalSong("02")); err != nil {
		t.Fatalf("load: %v", err)
	}
	pl.Seek(17)
	if err := pl.LoadSong([]byte("garbage")); err == nil {
		t.Fatalf("garbage should not load")
	}
	if got := pl.Position(); got != 17 {
		t.Fatalf("failed load moved the playhead to %d, want 17", got)
	}
}

func TestPlayerReadersLoadFromStreams(t *testing.T) {
	pl, err := NewPlayer(44100)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if err := pl.ReadSoundbank(bytes.NewReader(minimalBank())); err != nil {
		t.Fatalf("read soundbank: %v", err)
	}
	if err := pl.ReadSong(bytes.NewReader(minimalSong("02"))); err != nil {
		t.Fatalf("read song: %v", err)
	}
}

func TestPlayerMuteIgnoresBadTrack(t *testing.T) {
	pl, err := NewPlayer(44100)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	pl.SetMuted(-1, true)
	pl.SetMuted(TrackCount, true)
	if pl.Muted(-1) || pl.Muted(TrackCount) {
		t.Fatalf("out-of-range tracks should never report muted")
	}
	pl.SetMuted(3, true)
	if !pl.Muted(3) {
		t.Fatalf("track 3 should report muted")
	}
}
