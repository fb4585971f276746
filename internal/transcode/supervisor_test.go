package transcode

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"video-compressor/internal/config"
	"video-compressor/internal/models"
)

type nopLogger struct{}

func (nopLogger) InitLogger()                                 {}
func (nopLogger) Debug(args ...interface{})                   {}
func (nopLogger) Debugf(template string, args ...interface{}) {}
func (nopLogger) Info(args ...interface{})                    {}
func (nopLogger) Infof(template string, args ...interface{})  {}
func (nopLogger) Warn(args ...interface{})                    {}
func (nopLogger) Warnf(template string, args ...interface{})  {}
func (nopLogger) Error(args ...interface{})                   {}
func (nopLogger) Errorf(template string, args ...interface{}) {}
func (nopLogger) Fatal(args ...interface{})                   {}
func (nopLogger) Fatalf(template string, args ...interface{}) {}

type recordingHub struct {
	mu     sync.Mutex
	events []models.ProgressEvent
}

func (h *recordingHub) Broadcast(event models.ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *recordingHub) all() []models.ProgressEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.ProgressEvent(nil), h.events...)
}

// fakeTranscoder writes a script that mimics ffmpeg's stderr chatter and
// exits with the given code.
func fakeTranscoder(t *testing.T, stderrLines []string, exitCode int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	for _, line := range stderrLines {
		b.WriteString("echo '" + line + "' >&2\n")
	}
	if exitCode != 0 {
		b.WriteString("exit 1\n")
	}
	path := filepath.Join(t.TempDir(), "fake-ffmpeg")
	if err := os.WriteFile(path, []byte(b.String()), 0o755); err != nil {
		t.Fatalf("writing fake transcoder: %v", err)
	}
	return path
}

func newTestSupervisor(hub *recordingHub, ffmpegPath string) *Supervisor {
	cfg := &config.Config{}
	cfg.Transcode.FFmpegPath = ffmpegPath
	return NewSupervisor(cfg, hub, nopLogger{})
}

func TestRunSuccessEndsWithHundredPercent(t *testing.T) {
	hub := &recordingHub{}
	bin := fakeTranscoder(t, []string{
		"Duration: 00:02:00.00, start: 0.000000, bitrate: 1205 kb/s",
		"frame=  100 fps= 25 q=28.0 size= 512kB time=00:01:00.00 bitrate= 100.0kbits/s speed=1.2x",
		"frame=  190 fps= 25 q=28.0 size= 900kB time=00:01:54.00 bitrate= 100.0kbits/s speed=1.2x",
	}, 0)

	s := newTestSupervisor(hub, bin)
	outcome := s.Run(&models.UploadJob{InputPath: "in.mp4", OutputPath: "out.mp4"})

	if !outcome.Success {
		t.Fatalf("expected success, got failure: %s", outcome.Reason)
	}
	if outcome.OutputPath != "out.mp4" {
		t.Fatalf("unexpected output path %q", outcome.OutputPath)
	}

	events := hub.all()
	if len(events) < 3 {
		t.Fatalf("expected at least 3 events, got %d", len(events))
	}
	if events[0].Progress != 50 {
		t.Fatalf("expected first event 50%%, got %d", events[0].Progress)
	}
	if events[len(events)-1].Progress != 100 {
		t.Fatalf("expected final event 100%%, got %d", events[len(events)-1].Progress)
	}
}

func TestRunNonzeroExitIsCompressionFailure(t *testing.T) {
	hub := &recordingHub{}
	bin := fakeTranscoder(t, []string{
		"Duration: 00:02:00.00, start: 0.000000",
		"in.mp4: corrupt input packet",
	}, 1)

	s := newTestSupervisor(hub, bin)
	outcome := s.Run(&models.UploadJob{InputPath: "in.mp4", OutputPath: "out.mp4"})

	if outcome.Success {
		t.Fatal("expected failure outcome")
	}
	if outcome.Reason != "compression failed" {
		t.Fatalf("unexpected reason %q", outcome.Reason)
	}
	for _, event := range hub.all() {
		if event.Progress == 100 {
			t.Fatal("must not broadcast 100%% on failure")
		}
	}
}

func TestRunStartErrorResolvesImmediately(t *testing.T) {
	hub := &recordingHub{}
	s := newTestSupervisor(hub, filepath.Join(t.TempDir(), "missing-binary"))

	outcome := s.Run(&models.UploadJob{InputPath: "in.mp4", OutputPath: "out.mp4"})

	if outcome.Success {
		t.Fatal("expected failure outcome for unstartable process")
	}
	if !strings.Contains(outcome.Reason, "failed to start transcoder") {
		t.Fatalf("unexpected reason %q", outcome.Reason)
	}
	if len(hub.all()) != 0 {
		t.Fatal("no events expected when the process never started")
	}
}

func TestConcurrentJobsBothReachHundred(t *testing.T) {
	hub := &recordingHub{}
	bin := fakeTranscoder(t, []string{
		"Duration: 00:02:00.00, start: 0.000000",
		"frame= 100 time=00:01:00.00 speed=1.2x",
	}, 0)
	s := newTestSupervisor(hub, bin)

	done := make(chan models.TranscodeOutcome, 2)
	for i := 0; i < 2; i++ {
		go func() {
			done <- s.Run(&models.UploadJob{InputPath: "in.mp4", OutputPath: "out.mp4"})
		}()
	}
	for i := 0; i < 2; i++ {
		if outcome := <-done; !outcome.Success {
			t.Fatalf("expected success, got %s", outcome.Reason)
		}
	}

	hundreds := 0
	for _, event := range hub.all() {
		if event.Progress == 100 {
			hundreds++
		}
	}
	if hundreds != 2 {
		t.Fatalf("expected one 100%% event per job, got %d", hundreds)
	}
}

func TestRunWithoutDurationStillCompletes(t *testing.T) {
	hub := &recordingHub{}
	bin := fakeTranscoder(t, []string{
		"frame= 10 time=00:00:05.00 speed=1x",
	}, 0)

	s := newTestSupervisor(hub, bin)
	outcome := s.Run(&models.UploadJob{InputPath: "in.mp4", OutputPath: "out.mp4"})

	if !outcome.Success {
		t.Fatalf("expected success, got %s", outcome.Reason)
	}
	events := hub.all()
	if len(events) != 1 || events[0].Progress != 100 {
		t.Fatalf("expected only the final 100%% event, got %v", events)
	}
}
