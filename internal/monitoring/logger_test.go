package monitoring

import "testing"

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("custom logger was not called")
	}

	// nil installs a no-op: must not panic and must not call anything
	SetLogger(nil)
	Logf("dropped")

	called = false
	SetLogger(func(format string, v ...interface{}) { called = true })
	Logf("test")
	if !called {
		t.Error("replacement logger should have been called")
	}
}

func TestSetVerbose(t *testing.T) {
	original := Logf
	defer func() {
		Logf = original
		SetVerbose(false)
	}()

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, format)
	})

	Debugf("before verbose")
	if len(lines) != 0 {
		t.Fatalf("Debugf emitted %d lines while muted", len(lines))
	}

	SetVerbose(true)
	Debugf("trace %d", 1)
	if len(lines) != 1 {
		t.Fatalf("expected 1 debug line, got %d", len(lines))
	}

	SetVerbose(false)
	Debugf("after off")
	if len(lines) != 1 {
		t.Fatalf("Debugf should be muted again, got %d lines", len(lines))
	}
}

func TestLogfDefault(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logf panicked: %v", r)
		}
	}()
	Logf("test message: %s", "value")
}
