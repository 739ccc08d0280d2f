package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = format
	})
	Logf("warning: %s", "bad line")
	if got != "warning: %s" {
		t.Errorf("custom logger saw %q", got)
	}

	// nil installs a no-op, not a nil func.
	got = ""
	SetLogger(nil)
	Logf("dropped")
	if got != "" {
		t.Error("no-op logger forwarded a message")
	}
}

func TestLogfDefaultIsUsable(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf is nil by default")
	}
}
