package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"snake-obstacles/internal/config"
	"snake-obstacles/internal/session"
)

const sampleRate = 44100

// soundBank plays the game's effects and music. Files from the config are
// used when set, generated tones otherwise.
type soundBank struct {
	eat      *audio.Player
	gameOver *audio.Player
	music    *audio.Player
	log      *slog.Logger
}

func newSoundBank(ctx *audio.Context, assets config.Assets, logger *slog.Logger) (*soundBank, error) {
	b := &soundBank{log: logger}
	var err error
	if b.eat, err = effectPlayer(ctx, assets.EatSound, 880, 0.1); err != nil {
		return nil, err
	}
	if b.gameOver, err = effectPlayer(ctx, assets.GameOverSound, 220, 0.4); err != nil {
		b.Close()
		return nil, err
	}
	if b.music, err = musicPlayer(ctx, assets.Music); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *soundBank) Play(s session.Sound) {
	var p *audio.Player
	switch s {
	case session.SoundEat:
		p = b.eat
	case session.SoundGameOver:
		p = b.gameOver
	}
	if p == nil {
		return
	}
	if err := p.Rewind(); err != nil {
		b.log.Warn("rewind sound", "sound", s, "err", err)
	}
	p.Play()
}

func (b *soundBank) PlayMusicLoop() {
	if b.music != nil {
		b.music.Play()
	}
}

func (b *soundBank) Close() error {
	var errs []error
	for _, p := range []*audio.Player{b.eat, b.gameOver, b.music} {
		if p != nil {
			errs = append(errs, p.Close())
		}
	}
	return errors.Join(errs...)
}

func effectPlayer(ctx *audio.Context, path string, freq, durSec float64) (*audio.Player, error) {
	if path == "" {
		return ctx.NewPlayerFromBytes(beep(freq, durSec)), nil
	}
	s, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	pcm, err := io.ReadAll(s)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ctx.NewPlayerFromBytes(pcm), nil
}

func musicPlayer(ctx *audio.Context, path string) (*audio.Player, error) {
	var loop *audio.InfiniteLoop
	if path == "" {
		pcm := arpeggio()
		loop = audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm)))
	} else {
		s, err := decodeFile(path)
		if err != nil {
			return nil, err
		}
		loop = audio.NewInfiniteLoop(s, s.Length())
	}
	p, err := ctx.NewPlayer(loop)
	if err != nil {
		return nil, fmt.Errorf("music player: %w", err)
	}
	return p, nil
}

type pcmStream interface {
	io.ReadSeeker
	Length() int64
}

// decodeFile decodes a .wav or .mp3 file to 16-bit stereo PCM at sampleRate.
func decodeFile(path string) (pcmStream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load sound: %w", err)
	}
	r := bytes.NewReader(data)
	var s pcmStream
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		s, err = wav.DecodeWithSampleRate(sampleRate, r)
	case ".mp3":
		s, err = mp3.DecodeWithSampleRate(sampleRate, r)
	default:
		return nil, fmt.Errorf("load sound %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return s, nil
}

// beep is a decaying sine tone.
func beep(freq, durSec float64) []byte {
	n := int(float64(sampleRate) * durSec)
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		v := int16(math.Sin(2*math.Pi*freq*t) * 4000 * math.Pow(math.E, -3*t))
		putStereo(buf[i*4:], v)
	}
	return buf
}

// arpeggio is a C major arpeggio, a quarter second per note.
func arpeggio() []byte {
	notes := []float64{261.63, 329.63, 392.00, 523.25}
	perNote := int(float64(sampleRate) * 0.25)
	buf := make([]byte, perNote*len(notes)*4)
	off := 0
	for _, freq := range notes {
		for i := 0; i < perNote; i++ {
			t := float64(i) / sampleRate
			v := int16(math.Sin(2*math.Pi*freq*t) * 2000 * math.Pow(math.E, -2*t))
			putStereo(buf[off:], v)
			off += 4
		}
	}
	return buf
}

func putStereo(dst []byte, v int16) {
	for ch := 0; ch < 2; ch++ {
		dst[ch*2] = byte(v)
		dst[ch*2+1] = byte(v >> 8)
	}
}
