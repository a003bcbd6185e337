package audio_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/andrei-vlg/shopmind/pkg/audio"
)

// buildWAV assembles a minimal RIFF/WAVE file around the given PCM samples.
func buildWAV(format, channels, sampleRate, bitDepth int, samples []int16) []byte {
	var pcm bytes.Buffer
	for _, s := range samples {
		binary.Write(&pcm, binary.LittleEndian, s)
	}

	var fmtChunk bytes.Buffer
	binary.Write(&fmtChunk, binary.LittleEndian, uint16(format))
	binary.Write(&fmtChunk, binary.LittleEndian, uint16(channels))
	binary.Write(&fmtChunk, binary.LittleEndian, uint32(sampleRate))
	byteRate := sampleRate * channels * bitDepth / 8
	binary.Write(&fmtChunk, binary.LittleEndian, uint32(byteRate))
	binary.Write(&fmtChunk, binary.LittleEndian, uint16(channels*bitDepth/8))
	binary.Write(&fmtChunk, binary.LittleEndian, uint16(bitDepth))

	var body bytes.Buffer
	body.WriteString("WAVE")
	body.WriteString("fmt ")
	binary.Write(&body, binary.LittleEndian, uint32(fmtChunk.Len()))
	body.Write(fmtChunk.Bytes())
	body.WriteString("data")
	binary.Write(&body, binary.LittleEndian, uint32(pcm.Len()))
	body.Write(pcm.Bytes())

	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func TestDecode_ValidFile(t *testing.T) {
	t.Parallel()
	wav := buildWAV(1, 1, 16000, 16, []int16{0, 16384, -16384, 32767, -32768})

	got, err := audio.DecodePCM16Mono16k(wav)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []float32{0, 0.5, -0.5, 32767.0 / 32768, -1}
	if len(got) != len(want) {
		t.Fatalf("samples = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("sample[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecode_RejectsNonWAV(t *testing.T) {
	t.Parallel()
	for _, payload := range [][]byte{
		nil,
		[]byte("not audio at all"),
		[]byte("RIFF\x00\x00\x00\x00JUNK"),
	} {
		if _, err := audio.DecodePCM16Mono16k(payload); !errors.Is(err, audio.ErrNotWAV) {
			t.Errorf("payload %q: err = %v, want ErrNotWAV", payload, err)
		}
	}
}

func TestDecode_RejectsWrongFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		wav   []byte
		field string
	}{
		{"stereo", buildWAV(1, 2, 16000, 16, []int16{0}), "channel count"},
		{"44.1kHz", buildWAV(1, 1, 44100, 16, []int16{0}), "sample rate"},
		{"8-bit", buildWAV(1, 1, 16000, 8, []int16{0}), "bit depth"},
		{"float encoding", buildWAV(3, 1, 16000, 16, []int16{0}), "audio format"},
	}
	for _, tt := range tests {
		_, err := audio.DecodePCM16Mono16k(tt.wav)
		var fe *audio.FormatError
		if !errors.As(err, &fe) {
			t.Errorf("%s: err = %v, want FormatError", tt.name, err)
			continue
		}
		if fe.Field != tt.field {
			t.Errorf("%s: field = %q, want %q", tt.name, fe.Field, tt.field)
		}
	}
}

func TestDecode_MissingChunks(t *testing.T) {
	t.Parallel()
	// A valid RIFF/WAVE header with no chunks at all.
	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(4))
	out.WriteString("WAVE")

	if _, err := audio.DecodePCM16Mono16k(out.Bytes()); err == nil {
		t.Fatal("want error for missing fmt/data chunks, got nil")
	}
}
