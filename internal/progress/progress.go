/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

// Package progress streams mergeconfig.Status events to a caller-supplied
// callback asynchronously, the same dual-write shape as
// pkg/logsink.DualWriteSink: every event is queued on a buffered channel
// and a background goroutine drains it into the callback, non-blocking
// and drop-on-overflow so a slow or absent callback never stalls the
// apply driver.
package progress

import (
	"context"
	"sync"

	"github.com/ardikabs/d-merge/pkg/mergeconfig"
)

// DefaultBufferSize matches pkg/logsink.DualWriteSink's channel size.
const DefaultBufferSize = 100

// Reporter fans Status events out to an optional callback.
type Reporter struct {
	callback func(mergeconfig.Status)

	ch      chan mergeconfig.Status
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
}

// NewReporter returns a Reporter that forwards events to callback (which
// may be nil, in which case events are simply dropped). The returned
// Reporter must be stopped with Stop once the run finishes.
func NewReporter(callback func(mergeconfig.Status)) *Reporter {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Reporter{
		callback: callback,
		ch:       make(chan mergeconfig.Status, DefaultBufferSize),
		ctx:      ctx,
		cancel:   cancel,
	}
	r.wg.Add(1)
	go r.loop()
	return r
}

func (r *Reporter) loop() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ctx.Done():
			r.drain()
			return
		case ev, ok := <-r.ch:
			if !ok {
				return
			}
			r.deliver(ev)
		}
	}
}

func (r *Reporter) drain() {
	for {
		select {
		case ev, ok := <-r.ch:
			if !ok {
				return
			}
			r.deliver(ev)
		default:
			return
		}
	}
}

func (r *Reporter) deliver(ev mergeconfig.Status) {
	if r.callback == nil {
		return
	}
	r.callback(ev)
}

// Report queues one status event, non-blocking: if the buffer is full the
// event is dropped rather than stalling the caller.
func (r *Reporter) Report(ev mergeconfig.Status) {
	r.mu.RLock()
	stopped := r.stopped
	r.mu.RUnlock()
	if stopped {
		return
	}
	select {
	case r.ch <- ev:
	default:
	}
}

// Stop drains any queued events through the callback and shuts the
// background goroutine down.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()
}
