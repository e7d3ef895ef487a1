package catalog

import (
	"errors"
	"testing"
	"time"

	"inkwell/internal/domain"
)

func TestNew_EmbeddedCatalogIsValid(t *testing.T) {
	c, err := New(time.UTC)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if c == nil {
		t.Fatal("New() returned nil catalog")
	}
}

func TestPickDaily_StableWithinDay(t *testing.T) {
	c, err := New(time.UTC)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	morning := time.Date(2025, 6, 10, 0, 1, 0, 0, time.UTC)
	evening := time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)

	if c.PickDaily(morning).ID != c.PickDaily(evening).ID {
		t.Error("same calendar day returned different challenges")
	}
}

func TestPickDaily_RotatesAcrossDays(t *testing.T) {
	c, err := New(time.UTC)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	day := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	first := c.PickDaily(day).ID

	// With more than one challenge in the file, the next day must rotate.
	next := c.PickDaily(day.AddDate(0, 0, 1)).ID
	if first == next {
		t.Errorf("consecutive days returned the same challenge %q", first)
	}
}

func TestPickDaily_RotatesAtLocalMidnight(t *testing.T) {
	// In UTC+2, 23:30 UTC June 9 and 10:00 UTC June 10 are the same local
	// day; the rotation must not flip between them.
	loc := time.FixedZone("UTC+2", 2*60*60)
	c, err := New(loc)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	lateEvening := time.Date(2025, 6, 9, 23, 30, 0, 0, time.UTC)
	nextMorning := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	if c.PickDaily(lateEvening).ID != c.PickDaily(nextMorning).ID {
		t.Error("challenge rotated mid-local-day")
	}

	// 21:00 UTC June 9 is still June 9 locally, so it picks the previous
	// day's challenge.
	beforeLocalMidnight := time.Date(2025, 6, 9, 21, 0, 0, 0, time.UTC)
	if c.PickDaily(beforeLocalMidnight).ID == c.PickDaily(nextMorning).ID {
		t.Error("local midnight did not advance the rotation")
	}
}

func TestGetByID(t *testing.T) {
	c, err := New(time.UTC)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	// Round-trip today's pick through the ID lookup.
	picked := c.PickDaily(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	got, err := c.GetByID(picked.ID)
	if err != nil {
		t.Fatalf("GetByID(%q) failed: %v", picked.ID, err)
	}
	if got.CorrectIndex < 0 || got.CorrectIndex >= len(got.Options) {
		t.Errorf("challenge %q has answer key %d outside its %d options", got.ID, got.CorrectIndex, len(got.Options))
	}

	_, err = c.GetByID("no-such-challenge")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID on unknown id: got %v, want ErrNotFound", err)
	}
}
