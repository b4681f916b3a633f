package rcp

// ScratchSize is the size of each RSP scratch memory (IMEM and DMEM).
const ScratchSize = 0x1000

// sampleGain is the fixed attenuation applied to audio samples.
const sampleGain = 0.8

// RSP is the audio/geometry signal processor stub. Its scratch memories,
// program counter and status word are opaque to the CPU core in this
// design; the two processing entry points below are the whole contract.
type RSP struct {
	IMEM   [ScratchSize]byte
	DMEM   [ScratchSize]byte
	PC     uint32
	Status uint32
}

// NewRSP returns an RSP with cleared scratch memories.
func NewRSP() *RSP {
	return &RSP{}
}

// ProcessSamples applies the fixed gain to every sample, preserving order
// and length. Pure function; no RSP state is touched.
func (r *RSP) ProcessSamples(samples []float32) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = s * sampleGain
	}
	return out
}

// RunDisplayList reports the length of the display list as the number of
// primitives processed. The bytes are not interpreted.
func (r *RSP) RunDisplayList(dl []byte) int {
	return len(dl)
}
