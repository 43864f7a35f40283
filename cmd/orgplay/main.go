// Command orgplay renders an Organya song to raw PCM, a WAV file, or the
// system audio device.
//
// Usage:
//
//	orgplay [flags] <soundbank> <song.org>
//
// The default output is interleaved stereo float32 PCM on stdout, suited
// for piping into an audio sink; writing raw PCM to a terminal is
// refused.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/orgtone/organya-go"
)

func main() {
	log.SetFlags(0)
	var (
		rate     = flag.Int("rate", 44100, "output sample rate (Hz)")
		interp   = flag.String("interp", "lagrange", "interpolation: none|lagrange")
		volume   = flag.Float64("volume", 1.0, "master volume scalar")
		mute     = flag.String("mute", "", "comma-separated track numbers to mute (0-15)")
		duration = flag.Duration("duration", 0, "how long to render (0 = until interrupted; required for -out wav)")
		output   = flag.String("out", "pcm", "output backend: pcm|wav|play")
		outFile  = flag.String("o", "", "output file (default stdout for pcm/wav)")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <soundbank> <song.org>\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	mode, err := parseInterpolation(*interp)
	if err != nil {
		log.Fatal(err)
	}
	pl, err := organya.NewPlayer(*rate,
		organya.WithInterpolation(mode),
		organya.WithMasterVolume(*volume),
	)
	if err != nil {
		log.Fatal(err)
	}
	if err := pl.LoadSoundbankFile(flag.Arg(0)); err != nil {
		log.Fatalf("load soundbank: %v", err)
	}
	if err := pl.LoadSongFile(flag.Arg(1)); err != nil {
		log.Fatalf("load song: %v", err)
	}
	tracks, err := parseTrackList(*mute)
	if err != nil {
		log.Fatal(err)
	}
	for _, tr := range tracks {
		pl.SetMuted(tr, true)
	}

	switch *output {
	case "pcm":
		err = streamPCM(pl, *outFile, *duration)
	case "wav":
		err = writeWAV(pl, *outFile, *duration)
	case "play":
		err = playLive(pl, *duration)
	default:
		err = fmt.Errorf("unknown -out backend %q (expected pcm|wav|play)", *output)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func parseInterpolation(name string) (organya.Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none":
		return organya.InterpolationNone, nil
	case "lagrange":
		return organya.InterpolationLagrange, nil
	default:
		return organya.InterpolationNone, fmt.Errorf("invalid -interp %q (expected none|lagrange)", name)
	}
}

func parseTrackList(list string) ([]int, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil, nil
	}
	var tracks []int
	for _, part := range strings.Split(list, ",") {
		tr, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || tr < 0 || tr >= organya.TrackCount {
			return nil, fmt.Errorf("invalid -mute track %q", part)
		}
		tracks = append(tracks, tr)
	}
	return tracks, nil
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return os.Stdout, nil
	}
	return os.Create(path)
}

// streamPCM writes raw interleaved stereo float32 frames until the
// duration elapses or SIGINT/SIGTERM arrives.
func streamPCM(pl *organya.Player, path string, duration time.Duration) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return fmt.Errorf("refusing to write raw PCM to a terminal; pipe me to a %d Hz float32 stereo audio sink", pl.SampleRate())
	}
	if path != "" {
		defer out.Close()
	}

	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupted)

	const chunkFrames = 1024
	buf := make([]float32, chunkFrames*2)
	raw := make([]byte, chunkFrames*8)
	remaining := -1
	if duration > 0 {
		remaining = int(duration.Seconds() * float64(pl.SampleRate()))
	}
	for remaining != 0 {
		select {
		case <-interrupted:
			return nil
		default:
		}
		frames := chunkFrames
		if remaining > 0 && remaining < frames {
			frames = remaining
		}
		pl.WriteNext(buf[:frames*2])
		for i, s := range buf[:frames*2] {
			binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(s))
		}
		if _, err := out.Write(raw[:frames*8]); err != nil {
			return err
		}
		if remaining > 0 {
			remaining -= frames
		}
	}
	return nil
}

func writeWAV(pl *organya.Player, path string, duration time.Duration) error {
	if duration <= 0 {
		return fmt.Errorf("-out wav needs a positive -duration")
	}
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if path != "" {
		defer out.Close()
	}
	samples := pl.RenderDuration(duration)
	_, err = out.Write(organya.EncodeWAVFloat32LE(samples, pl.SampleRate(), 2))
	return err
}

// playLive plays through the system audio device until the duration
// elapses or SIGINT/SIGTERM arrives.
func playLive(pl *organya.Player, duration time.Duration) error {
	if err := pl.Play(); err != nil {
		return err
	}
	defer pl.Stop()

	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupted)

	if duration > 0 {
		select {
		case <-interrupted:
		case <-time.After(duration):
		}
		return nil
	}
	<-interrupted
	return nil
}
