/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package progress

import (
	"sync"
	"testing"
	"time"

	"github.com/ardikabs/d-merge/pkg/mergeconfig"
)

func TestReporter_DeliversToCallback(t *testing.T) {
	var mu sync.Mutex
	var got []mergeconfig.Status

	r := NewReporter(func(s mergeconfig.Status) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, s)
	})

	r.Report(mergeconfig.Status{Stage: "collecting"})
	r.Report(mergeconfig.Status{Stage: "applying"})
	r.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("delivered %d events, want 2", len(got))
	}
	if got[0].Stage != "collecting" || got[1].Stage != "applying" {
		t.Errorf("got %v, want stages [collecting applying] in order", got)
	}
}

func TestReporter_NilCallbackNeverPanics(t *testing.T) {
	r := NewReporter(nil)
	r.Report(mergeconfig.Status{Stage: "done"})
	r.Stop()
}

func TestReporter_ReportAfterStopIsNoop(t *testing.T) {
	delivered := make(chan struct{}, 1)
	r := NewReporter(func(mergeconfig.Status) {
		select {
		case delivered <- struct{}{}:
		default:
		}
	})
	r.Stop()
	r.Report(mergeconfig.Status{Stage: "late"})

	select {
	case <-delivered:
		t.Errorf("expected no delivery after Stop")
	case <-time.After(50 * time.Millisecond):
	}
}
