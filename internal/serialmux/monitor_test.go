package serialmux

import (
	"context"
	"testing"
	"time"

	"github.com/banshee-data/scan3d/internal/monitoring"
)

func muteLog(t *testing.T) {
	t.Helper()
	old := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.Logf = old })
}

func TestLinesDeliversEachLine(t *testing.T) {
	muteLog(t)
	port := NewTestablePort()
	port.BlockReads = true
	port.AddReadData([]byte("90,0,145\n0,45,200\n"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lines := Lines(ctx, port)

	want := []string{"90,0,145", "0,45,200"}
	for _, w := range want {
		select {
		case got, ok := <-lines:
			if !ok {
				t.Fatalf("channel closed early, still expecting %q", w)
			}
			if got != w {
				t.Errorf("line = %q, want %q", got, w)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", w)
		}
	}

	// Closing the port ends the stream and closes the channel.
	port.Close()
	select {
	case _, ok := <-lines:
		if ok {
			t.Fatal("expected channel close after port close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close after port close")
	}
}

func TestLinesStopsOnContextCancel(t *testing.T) {
	muteLog(t)
	port := NewTestablePort()
	port.AddReadData([]byte("1,2,3\n4,5,6\n7,8,9\n"))

	ctx, cancel := context.WithCancel(context.Background())
	lines := Lines(ctx, port)

	// Take one line, then cancel without draining.
	select {
	case <-lines:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first line")
	}
	cancel()

	select {
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close after cancel")
	case _, ok := <-lines:
		if ok {
			// One buffered handoff may still land; the close must follow.
			select {
			case _, ok := <-lines:
				if ok {
					t.Fatal("stream kept producing after cancel")
				}
			case <-time.After(2 * time.Second):
				t.Fatal("channel did not close after cancel")
			}
		}
	}
}

func TestSetReadTimeout(t *testing.T) {
	port := NewTestablePort()
	if err := SetReadTimeout(port, 5*time.Second); err != nil {
		t.Fatalf("SetReadTimeout error: %v", err)
	}
	if port.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", port.ReadTimeout)
	}
}

func TestTestablePortBlockingRead(t *testing.T) {
	port := NewTestablePort()
	port.BlockReads = true

	got := make(chan string, 1)
	go func() {
		buf := make([]byte, 16)
		n, err := port.Read(buf)
		if err != nil {
			got <- "error: " + err.Error()
			return
		}
		got <- string(buf[:n])
	}()

	// The read must not return before data arrives.
	select {
	case v := <-got:
		t.Fatalf("read returned %q before data was added", v)
	case <-time.After(50 * time.Millisecond):
	}

	port.AddReadData([]byte("data"))
	select {
	case v := <-got:
		if v != "data" {
			t.Errorf("read = %q, want %q", v, "data")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("read did not return after data was added")
	}
}
