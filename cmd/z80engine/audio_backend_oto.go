//go:build !headless

// audio_backend_oto.go - OTO v3 beeper output

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/intuitionamiga/z80engine
License: GPLv3 or later
*/

package main

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"
)

// OtoPlayer pulls mono float32 samples out of a sampleRing.
type OtoPlayer struct {
	ctx    *oto.Context
	player *oto.Player
	ring   *sampleRing

	sampleBuf []float32
	mutex     sync.Mutex
}

func NewOtoPlayer(sampleRate int, ring *sampleRing) (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, errors.Wrap(err, "audio: open device")
	}
	<-ready

	p := &OtoPlayer{ctx: ctx, ring: ring, sampleBuf: make([]float32, 1024)}
	p.player = ctx.NewPlayer(p)
	return p, nil
}

// Read implements io.Reader for oto.
func (op *OtoPlayer) Read(p []byte) (int, error) {
	n := len(p) / 4
	if len(op.sampleBuf) < n {
		op.sampleBuf = make([]float32, n)
	}
	samples := op.sampleBuf[:n]
	op.ring.Read(samples)
	for i, v := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return n * 4, nil
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	if op.player != nil {
		op.player.Play()
	}
}

func (op *OtoPlayer) Close() error {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	if op.player == nil {
		return nil
	}
	err := op.player.Close()
	op.player = nil
	return errors.Wrap(err, "audio: close")
}
