package main

import "sync"

// sampleRing carries beeper samples from the frame loop to the audio
// callback. Writes that would overrun drop the newest samples; reads that
// underrun repeat the last sample so a late frame clicks less.
type sampleRing struct {
	mu   sync.Mutex
	buf  []float32
	r, n int
	last float32
}

func newSampleRing(size int) *sampleRing {
	return &sampleRing{buf: make([]float32, size)}
}

func (s *sampleRing) Write(samples []float32) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	written := 0
	for _, v := range samples {
		if s.n == len(s.buf) {
			break
		}
		s.buf[(s.r+s.n)%len(s.buf)] = v
		s.n++
		written++
	}
	return written
}

func (s *sampleRing) Read(out []float32) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	got := 0
	for i := range out {
		if s.n == 0 {
			out[i] = s.last
			continue
		}
		s.last = s.buf[s.r]
		out[i] = s.last
		s.r = (s.r + 1) % len(s.buf)
		s.n--
		got++
	}
	return got
}

func (s *sampleRing) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}
