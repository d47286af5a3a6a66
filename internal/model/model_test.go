package model

import (
	"testing"
	"time"
)

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	in := time.Date(2026, 3, 10, 22, 45, 30, 0, loc)
	got := DateOnly(in)

	want := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC)
	next := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	if !SameDay(morning, evening) {
		t.Fatal("expected same day")
	}
	if SameDay(evening, next) {
		t.Fatal("expected different days")
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses {
		if !s.Valid() {
			t.Fatalf("expected %s valid", s)
		}
	}
	if Status("MAYBE").Valid() {
		t.Fatal("expected MAYBE invalid")
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("LATE")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s != StatusLate {
		t.Fatalf("expected LATE, got %s", s)
	}
	if _, err := ParseStatus("late"); err == nil {
		t.Fatal("expected lowercase to be rejected")
	}
}

func TestStatusInfo(t *testing.T) {
	info := StatusPresent.Info()
	if info.Label != "Present" || info.Color == "" {
		t.Fatalf("unexpected info %+v", info)
	}
}
