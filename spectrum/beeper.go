package spectrum

// DefaultSampleRate matches the audio backend.
const DefaultSampleRate = 44100

// Beeper turns the EAR and MIC output bits into mono float32 samples by
// sampling the port latch at the audio rate.
type Beeper struct {
	Volume float32

	tPerSample float64
	acc        float64
	buf        []float32
}

func NewBeeper(sampleRate int) *Beeper {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Beeper{
		Volume:     0.25,
		tPerSample: float64(ClockHz) / float64(sampleRate),
		buf:        make([]float32, 0, sampleRate/FramesPerSec+1),
	}
}

// Advance accounts for t T-states spent with the given output levels.
func (b *Beeper) Advance(t int, ear, mic bool) {
	b.acc += float64(t)
	if b.acc < b.tPerSample {
		return
	}
	var level float32
	if ear {
		level += b.Volume
	}
	if mic {
		level += b.Volume / 8
	}
	for b.acc >= b.tPerSample {
		b.acc -= b.tPerSample
		b.buf = append(b.buf, level)
	}
}

// Drain returns the samples produced since the last call. The returned
// slice is only valid until the next Advance.
func (b *Beeper) Drain() []float32 {
	out := b.buf
	b.buf = b.buf[:0]
	return out
}

func (b *Beeper) Reset() {
	b.acc = 0
	b.buf = b.buf[:0]
}
