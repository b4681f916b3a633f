package main

import (
	"math"

	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/rcp"
)

const toneHz = 440.0

// toneStream produces an endless 440 Hz sine, routed through the RSP
// sample path, as 16-bit stereo LE PCM for the audio player.
type toneStream struct {
	rsp   *rcp.RSP
	phase float64
}

func newToneStream(rsp *rcp.RSP) *toneStream {
	return &toneStream{rsp: rsp}
}

func (t *toneStream) Read(p []byte) (int, error) {
	frames := len(p) / 4 // 2 channels × 2 bytes
	if frames == 0 {
		return 0, nil
	}

	raw := make([]float32, frames)
	for i := range raw {
		raw[i] = float32(0.25 * math.Sin(t.phase))
		t.phase += 2 * math.Pi * toneHz / sampleRate
	}
	processed := t.rsp.ProcessSamples(raw)

	for i, s := range processed {
		v := int16(s * math.MaxInt16)
		p[i*4+0] = byte(v)
		p[i*4+1] = byte(v >> 8)
		p[i*4+2] = byte(v)
		p[i*4+3] = byte(v >> 8)
	}
	return frames * 4, nil
}
