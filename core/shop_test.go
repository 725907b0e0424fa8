package core

import (
	"testing"
	"time"
)

func at(s string) *ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return &c
}

func TestIsOpenAt(t *testing.T) {
	day := func(hhmm string) time.Time {
		c := at(hhmm)
		return time.Date(2024, 6, 3, c.Hour, c.Minute, 0, 0, time.UTC)
	}
	tests := []struct {
		name  string
		hours OperatingHours
		at    string
		want  bool
	}{
		{name: "unknown", hours: OperatingHours{}, at: "12:00", want: false},
		{name: "inside", hours: OperatingHours{Open: at("09:00"), Close: at("22:00")}, at: "12:00", want: true},
		{name: "closing minute", hours: OperatingHours{Open: at("09:00"), Close: at("22:00")}, at: "22:00", want: false},
		{name: "overnight", hours: OperatingHours{Open: at("18:00"), Close: at("02:00")}, at: "01:30", want: true},
		{name: "whole day", hours: OperatingHours{Open: at("00:00"), Close: at("00:00")}, at: "04:00", want: true},
		{
			name:  "in break",
			hours: OperatingHours{Open: at("09:00"), Close: at("22:00"), BreakStart: at("15:00"), BreakEnd: at("17:00")},
			at:    "16:00", want: false,
		},
		{
			name:  "zero length break",
			hours: OperatingHours{Open: at("09:00"), Close: at("22:00"), BreakStart: at("00:00"), BreakEnd: at("00:00")},
			at:    "12:00", want: true,
		},
		{
			name:  "half break",
			hours: OperatingHours{Open: at("09:00"), Close: at("22:00"), BreakStart: at("15:00")},
			at:    "16:00", want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hours.IsOpenAt(day(tt.at)); got != tt.want {
				t.Fatalf("IsOpenAt(%s) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestOpensWithin(t *testing.T) {
	now := time.Date(2024, 6, 3, 8, 30, 0, 0, time.UTC)
	tests := []struct {
		name  string
		hours OperatingHours
		now   time.Time
		want  bool
	}{
		{name: "opens soon", hours: OperatingHours{Open: at("09:00"), Close: at("22:00")}, now: now, want: true},
		{name: "opens later", hours: OperatingHours{Open: at("11:00"), Close: at("22:00")}, now: now, want: false},
		{name: "already open", hours: OperatingHours{Open: at("08:00"), Close: at("22:00")}, now: now, want: false},
		{
			name:  "break ends soon",
			hours: OperatingHours{Open: at("09:00"), Close: at("22:00"), BreakStart: at("15:00"), BreakEnd: at("17:00")},
			now:   time.Date(2024, 6, 3, 16, 30, 0, 0, time.UTC), want: true,
		},
		{
			name:  "zero length break is not a reopening",
			hours: OperatingHours{Open: at("11:00"), Close: at("22:00"), BreakStart: at("09:00"), BreakEnd: at("09:00")},
			now:   now, want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hours.OpensWithin(tt.now, time.Hour); got != tt.want {
				t.Fatalf("OpensWithin = %v, want %v", got, tt.want)
			}
		})
	}
}
