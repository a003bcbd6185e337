// Package audio decodes the single audio format the speech engine accepts:
// 16 kHz mono 16-bit little-endian PCM WAV. Anything else is rejected up
// front rather than resampled, so inference never runs on audio the acoustic
// model was not trained for.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Format requirements for input WAV files.
const (
	RequiredSampleRate = 16000
	RequiredChannels   = 1
	RequiredBitDepth   = 16
)

// ErrNotWAV is returned when the payload is not a RIFF/WAVE container at all.
var ErrNotWAV = errors.New("audio: not a RIFF/WAVE file")

// FormatError describes a WAV file that parsed correctly but does not match
// the required format.
type FormatError struct {
	Field string
	Got   int
	Want  int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("audio: %s is %d, want %d (expect 16 kHz mono 16-bit PCM LE WAV)", e.Field, e.Got, e.Want)
}

const (
	formatPCM = 1

	// Size of the fixed fields in a "fmt " chunk. Extension bytes beyond
	// this are tolerated and skipped.
	fmtChunkMinSize = 16
)

// DecodePCM16Mono16k parses a WAV payload, validates the strict format gate
// and returns the samples scaled to [-1, 1].
func DecodePCM16Mono16k(data []byte) ([]float32, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, ErrNotWAV
	}

	var (
		fmtSeen bool
		pcm     []byte
	)

	// Walk the chunk list. Chunks are word-aligned: an odd-sized chunk is
	// followed by a pad byte.
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if size < 0 || body+size > len(data) {
			return nil, fmt.Errorf("audio: truncated %q chunk", id)
		}

		switch id {
		case "fmt ":
			if size < fmtChunkMinSize {
				return nil, fmt.Errorf("audio: fmt chunk too short (%d bytes)", size)
			}
			if err := checkFormat(data[body : body+fmtChunkMinSize]); err != nil {
				return nil, err
			}
			fmtSeen = true
		case "data":
			pcm = data[body : body+size]
		}

		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if !fmtSeen {
		return nil, errors.New("audio: missing fmt chunk")
	}
	if pcm == nil {
		return nil, errors.New("audio: missing data chunk")
	}

	samples := make([]float32, len(pcm)/2)
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(pcm[2*i:]))
		v := float32(s) / 32768
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		samples[i] = v
	}
	return samples, nil
}

func checkFormat(b []byte) error {
	audioFormat := int(binary.LittleEndian.Uint16(b[0:2]))
	channels := int(binary.LittleEndian.Uint16(b[2:4]))
	sampleRate := int(binary.LittleEndian.Uint32(b[4:8]))
	bitDepth := int(binary.LittleEndian.Uint16(b[14:16]))

	switch {
	case audioFormat != formatPCM:
		return &FormatError{Field: "audio format", Got: audioFormat, Want: formatPCM}
	case channels != RequiredChannels:
		return &FormatError{Field: "channel count", Got: channels, Want: RequiredChannels}
	case sampleRate != RequiredSampleRate:
		return &FormatError{Field: "sample rate", Got: sampleRate, Want: RequiredSampleRate}
	case bitDepth != RequiredBitDepth:
		return &FormatError{Field: "bit depth", Got: bitDepth, Want: RequiredBitDepth}
	}
	return nil
}
