package cli

import (
	"context"
	"errors"
	"testing"
)

func TestSignalContext(t *testing.T) {
	ctx, stop := SignalContext(context.Background())

	select {
	case <-ctx.Done():
		t.Fatal("context cancelled before any signal")
	default:
	}

	stop()
	if !errors.Is(ctx.Err(), context.Canceled) {
		t.Errorf("ctx.Err() after stop = %v, want context.Canceled", ctx.Err())
	}

	stop()
}

func TestSignalContext_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := SignalContext(parent)
	defer stop()

	cancel()
	<-ctx.Done()
}
