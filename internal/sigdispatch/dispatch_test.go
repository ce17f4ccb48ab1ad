//go:build unix

package sigdispatch_test

import (
	"errors"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"burrow/internal/sigdispatch"
)

func TestShutdownSignalProducesReasonAfterAction(t *testing.T) {
	var actionRan atomic.Bool
	dispatcher := sigdispatch.New(nil)
	dispatcher.HandleShutdown(syscall.SIGUSR1, func(os.Signal) error {
		actionRan.Store(true)
		return nil
	})
	reasons := dispatcher.Start()
	defer dispatcher.Stop()

	if err := syscall.Kill(os.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatalf("self-signal: %v", err)
	}

	select {
	case reason := <-reasons:
		if reason.Signal != syscall.SIGUSR1 {
			t.Fatalf("reason carries %v, want SIGUSR1", reason.Signal)
		}
		if !actionRan.Load() {
			t.Fatal("action should run before the reason is emitted")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for shutdown reason")
	}
}

func TestActionErrorCannotVetoShutdown(t *testing.T) {
	dispatcher := sigdispatch.New(nil)
	dispatcher.HandleShutdown(syscall.SIGUSR2, func(os.Signal) error {
		return errors.New("refusing to die")
	})
	reasons := dispatcher.Start()
	defer dispatcher.Stop()

	if err := syscall.Kill(os.Getpid(), syscall.SIGUSR2); err != nil {
		t.Fatalf("self-signal: %v", err)
	}

	select {
	case reason := <-reasons:
		if reason.Signal != syscall.SIGUSR2 {
			t.Fatalf("reason carries %v, want SIGUSR2", reason.Signal)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown reason must be emitted even when the action fails")
	}
}

func TestNonShutdownSignalEmitsNoReason(t *testing.T) {
	var hupCount atomic.Int32
	dispatcher := sigdispatch.New(nil)
	dispatcher.Handle(syscall.SIGHUP, func(os.Signal) error {
		hupCount.Add(1)
		return nil
	})
	reasons := dispatcher.Start()
	defer dispatcher.Stop()

	if err := syscall.Kill(os.Getpid(), syscall.SIGHUP); err != nil {
		t.Fatalf("self-signal: %v", err)
	}

	deadline := time.After(3 * time.Second)
	for hupCount.Load() == 0 {
		select {
		case reason := <-reasons:
			t.Fatalf("unexpected shutdown reason %v for non-shutdown signal", reason)
		case <-deadline:
			t.Fatal("timed out waiting for SIGHUP action")
		case <-time.After(10 * time.Millisecond):
		}
	}

	select {
	case reason := <-reasons:
		t.Fatalf("unexpected shutdown reason %v", reason)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBindAfterStartPanics(t *testing.T) {
	dispatcher := sigdispatch.New(nil)
	dispatcher.HandleShutdown(syscall.SIGTERM, nil)
	dispatcher.Start()
	defer dispatcher.Stop()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when binding after Start")
		}
	}()
	dispatcher.Handle(syscall.SIGHUP, nil)
}
