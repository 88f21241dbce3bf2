package bounty

import (
	"fmt"
	"testing"

	"bountyhub-backend/core/bounty"
)

func TestRecorderBoundedTail(t *testing.T) {
	r := NewRecorder(3)
	for i := 0; i < 5; i++ {
		r.Record(bounty.Event{Type: bounty.EventContributionAdded, BountyID: i})
	}

	got := r.Recent(10)
	if len(got) != 3 {
		t.Fatalf("kept %d events, want 3", len(got))
	}
	for i, evt := range got {
		if want := i + 2; evt.BountyID != want {
			t.Errorf("event[%d].BountyID = %d, want %d", i, evt.BountyID, want)
		}
	}
}

func TestRecorderRecentLimit(t *testing.T) {
	r := NewRecorder(10)
	for i := 0; i < 4; i++ {
		r.Record(bounty.Event{BountyID: i})
	}

	got := r.Recent(2)
	if len(got) != 2 {
		t.Fatalf("Recent(2) returned %d events", len(got))
	}
	// newest last
	if got[0].BountyID != 2 || got[1].BountyID != 3 {
		t.Errorf("Recent(2) = %d,%d, want 2,3", got[0].BountyID, got[1].BountyID)
	}
}

func TestPublishEventFanout(t *testing.T) {
	var seen []string
	for i := 0; i < 2; i++ {
		i := i
		RegisterEventSink(func(evt bounty.Event) {
			seen = append(seen, fmt.Sprintf("sink%d:%s", i, evt.Type))
		})
	}

	PublishEvent(bounty.Event{Type: bounty.EventBountyIssued})
	if len(seen) < 2 {
		t.Fatalf("fanout reached %d sinks, want at least 2", len(seen))
	}
}
