package recognize

import (
	"context"
	"errors"
	"image"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// fakeEngine is a scriptable recognizer for cascade tests.
type fakeEngine struct {
	name       string
	text       string
	err        error
	delay      time.Duration
	generative bool
	calls      atomic.Int32
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Generative() bool { return f.generative }

func (f *fakeEngine) Recognize(ctx context.Context, region image.Image) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func testRegion() image.Image {
	return image.NewGray(image.Rect(0, 0, 12, 6))
}

func TestCascade_PrimaryWins(t *testing.T) {
	primary := &fakeEngine{name: "primary", text: "from primary"}
	fallback := &fakeEngine{name: "fallback", text: "from fallback"}

	c := NewCascade(primary, fallback, 0)
	text, err := c.Recognize(context.Background(), testRegion())
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if text != "from primary" {
		t.Errorf("text: got %q", text)
	}
	if got := fallback.calls.Load(); got != 0 {
		t.Errorf("fallback calls: got %d, want 0", got)
	}
}

func TestCascade_FallsBackOnError(t *testing.T) {
	primary := &fakeEngine{name: "primary", err: errors.New("engine crashed")}
	fallback := &fakeEngine{name: "fallback", text: "from fallback"}

	c := NewCascade(primary, fallback, 0)
	text, err := c.Recognize(context.Background(), testRegion())
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if text != "from fallback" {
		t.Errorf("text: got %q", text)
	}
	if primary.calls.Load() != 1 || fallback.calls.Load() != 1 {
		t.Errorf("calls: primary %d fallback %d", primary.calls.Load(), fallback.calls.Load())
	}
}

func TestCascade_BothFail(t *testing.T) {
	primary := &fakeEngine{name: "primary", err: errors.New("crash one")}
	fallback := &fakeEngine{name: "fallback", err: errors.New("crash two")}

	c := NewCascade(primary, fallback, 0)
	_, err := c.Recognize(context.Background(), testRegion())
	if err == nil {
		t.Fatal("expected error when both engines fail")
	}
	msg := err.Error()
	if !strings.Contains(msg, "all recognizers failed") {
		t.Errorf("error: %v", err)
	}
	if !strings.Contains(msg, "crash one") || !strings.Contains(msg, "crash two") {
		t.Errorf("error drops a cause: %v", err)
	}
}

func TestCascade_NoFallback(t *testing.T) {
	primary := &fakeEngine{name: "primary", err: errors.New("engine crashed")}

	c := NewCascade(primary, nil, 0)
	_, err := c.Recognize(context.Background(), testRegion())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "primary") {
		t.Errorf("error does not name the engine: %v", err)
	}
}

func TestCascade_TimeoutTriggersFallback(t *testing.T) {
	primary := &fakeEngine{name: "primary", text: "too late", delay: 2 * time.Second}
	fallback := &fakeEngine{name: "fallback", text: "rescued"}

	c := NewCascade(primary, fallback, 50*time.Millisecond)
	text, err := c.Recognize(context.Background(), testRegion())
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if text != "rescued" {
		t.Errorf("text: got %q", text)
	}
}

func TestCascade_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	primary := &fakeEngine{name: "primary", text: "unused", delay: time.Second}
	c := NewCascade(primary, nil, 0)

	_, err := c.Recognize(ctx, testRegion())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error: got %v, want context.Canceled", err)
	}
}

func TestCascade_Name(t *testing.T) {
	with := NewCascade(&fakeEngine{name: "a"}, &fakeEngine{name: "b"}, 0)
	if got := with.Name(); got != "a+b" {
		t.Errorf("name: got %q, want a+b", got)
	}
	without := NewCascade(&fakeEngine{name: "a"}, nil, 0)
	if got := without.Name(); got != "a" {
		t.Errorf("name: got %q, want a", got)
	}
}

func TestCascade_Generative(t *testing.T) {
	tests := []struct {
		name     string
		primary  *fakeEngine
		fallback Recognizer
		want     bool
	}{
		{"neither", &fakeEngine{}, &fakeEngine{}, false},
		{"primary generative", &fakeEngine{generative: true}, &fakeEngine{}, true},
		{"fallback generative", &fakeEngine{}, &fakeEngine{generative: true}, true},
		{"no fallback", &fakeEngine{}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCascade(tt.primary, tt.fallback, 0)
			if got := c.Generative(); got != tt.want {
				t.Errorf("Generative() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsGenerative(t *testing.T) {
	if IsGenerative(NewTesseract("")) {
		t.Error("tesseract must not count as generative")
	}
	if !IsGenerative(&fakeEngine{generative: true}) {
		t.Error("generative engine not detected")
	}

	v, err := NewVision(VisionConfig{Endpoint: "http://vision.local/ocr"})
	if err != nil {
		t.Fatal(err)
	}
	if !IsGenerative(v) {
		t.Error("vision engine must count as generative")
	}
}
