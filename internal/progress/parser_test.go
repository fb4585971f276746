package progress

import (
	"testing"
)

func TestParserComputesPercentFromDurationAndTime(t *testing.T) {
	p := NewParser()

	events := p.Feed("Duration: 00:02:00.00, start: 0.000000, bitrate: 1205 kb/s\n")
	if len(events) != 0 {
		t.Fatalf("expected no events from duration line, got %d", len(events))
	}

	events = p.Feed("frame=  100 fps= 25 q=28.0 size=    512kB time=00:01:00.00 bitrate= 100.0kbits/s speed=1.2x\r")
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Progress != 50 {
		t.Fatalf("expected 50%%, got %d", events[0].Progress)
	}
	if events[0].Type != "progress" {
		t.Fatalf("unexpected event type %q", events[0].Type)
	}
}

func TestParserRoundsPercent(t *testing.T) {
	p := NewParser()
	p.Feed("Duration: 00:01:30.00, start: 0.000000\n")

	events := p.Feed("time=00:01:00.00 speed=1x\r")
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	// 60/90*100 = 66.67 rounds to 67
	if events[0].Progress != 67 {
		t.Fatalf("expected 67%%, got %d", events[0].Progress)
	}
}

func TestParserSilentWithoutDuration(t *testing.T) {
	p := NewParser()

	events := p.Feed("time=00:00:10.00 bitrate= 100.0kbits/s\r")
	events = append(events, p.Feed("time=00:00:20.00 bitrate= 100.0kbits/s\r")...)
	if len(events) != 0 {
		t.Fatalf("expected no events without a duration line, got %d", len(events))
	}
}

func TestParserHandlesMarkerSplitAcrossChunks(t *testing.T) {
	p := NewParser()
	p.Feed("Dur")
	if events := p.Feed("ation: 00:02:00.00, start: 0.000000\n"); len(events) != 0 {
		t.Fatalf("expected no events yet, got %d", len(events))
	}

	if events := p.Feed("frame= 50 time=00:0"); len(events) != 0 {
		t.Fatalf("expected no events from partial marker, got %d", len(events))
	}
	events := p.Feed("0:30.00 speed=1x\r")
	if len(events) != 1 {
		t.Fatalf("expected 1 event after marker completes, got %d", len(events))
	}
	if events[0].Progress != 25 {
		t.Fatalf("expected 25%%, got %d", events[0].Progress)
	}
}

func TestParserEmitsEveryMarkerInChunk(t *testing.T) {
	p := NewParser()
	p.Feed("Duration: 00:01:40.00\n")

	events := p.Feed("time=00:00:25.00 x\rtime=00:00:50.00 x\rtime=00:01:15.00 x\r")
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i, want := range []int{25, 50, 75} {
		if events[i].Progress != want {
			t.Fatalf("event %d: expected %d%%, got %d", i, want, events[i].Progress)
		}
	}
}

func TestParserIgnoresMalformedTimestamps(t *testing.T) {
	p := NewParser()
	p.Feed("Duration: 00:02:00.00\n")

	if events := p.Feed("time=N/A bitrate=N/A\rtime=garbage\r"); len(events) != 0 {
		t.Fatalf("expected malformed markers to be ignored, got %d events", len(events))
	}

	events := p.Feed("time=00:01:00.00 ok\r")
	if len(events) != 1 || events[0].Progress != 50 {
		t.Fatalf("expected recovery after malformed input, got %v", events)
	}
}

func TestParserDoesNotReEmitUnterminatedMarker(t *testing.T) {
	p := NewParser()
	p.Feed("Duration: 00:02:00.00\n")

	events := p.Feed("time=00:01:00.00")
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	events = p.Feed(" speed=1x\rtime=00:01:30.00 speed=1x\r")
	if len(events) != 1 {
		t.Fatalf("expected only the new marker, got %d events", len(events))
	}
	if events[0].Progress != 75 {
		t.Fatalf("expected 75%%, got %d", events[0].Progress)
	}
}

func TestParserCanOverreportPastHundred(t *testing.T) {
	p := NewParser()
	p.Feed("Duration: 00:01:40.00\n")

	// duration drift: the hub clamps, the parser reports what the tool said
	events := p.Feed("time=00:01:41.00 speed=1x\r")
	if len(events) != 1 || events[0].Progress != 101 {
		t.Fatalf("expected raw 101%%, got %v", events)
	}
}

func TestTimestampSeconds(t *testing.T) {
	secs, err := timestampSeconds("01:02:03.50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secs != 3723.5 {
		t.Fatalf("expected 3723.5, got %f", secs)
	}

	if _, err = timestampSeconds("02:03.50"); err == nil {
		t.Fatal("expected error for two-part timestamp")
	}
}
