//go:build headless

package main

import (
	"sync"
	"time"
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio:null")
}

// OtoPlayer in headless builds is a null sink that pulls the graph in real
// time, so voices still drain and end-of-song callbacks still fire.
type OtoPlayer struct {
	mutex      sync.Mutex
	started    bool
	graph      *AudioGraph
	sampleRate int
	stop       chan struct{}
}

func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	return &OtoPlayer{sampleRate: sampleRate}, nil
}

func (op *OtoPlayer) SetupPlayer(graph *AudioGraph) {
	op.mutex.Lock()
	op.graph = graph
	op.mutex.Unlock()
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	if op.started || op.graph == nil {
		return
	}
	op.started = true
	op.stop = make(chan struct{})
	go op.drain(op.graph, op.stop)
}

func (op *OtoPlayer) drain(graph *AudioGraph, stop <-chan struct{}) {
	const tick = 10 * time.Millisecond
	buf := make([][2]float64, op.sampleRate*int(tick)/int(time.Second))
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			graph.Stream(buf)
		}
	}
}

func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	if op.started {
		close(op.stop)
		op.started = false
	}
}

func (op *OtoPlayer) Close() {
	op.Stop()
}
