package core

import (
	"testing"
	"time"
)

func TestMonthOf(t *testing.T) {
	ts := time.Date(2024, 3, 25, 13, 45, 0, 0, time.UTC)
	key := MonthOf(ts)
	if key.Year != 2024 || key.Month != time.March {
		t.Fatalf("got %+v", key)
	}
	if key.String() != "2024-03" {
		t.Fatalf("got %q, want 2024-03", key.String())
	}
}

func TestMonthKeyOrdering(t *testing.T) {
	dec := MonthKey{Year: 2023, Month: time.December}
	jan := MonthKey{Year: 2024, Month: time.January}
	feb := MonthKey{Year: 2024, Month: time.February}

	if !dec.Before(jan) || !jan.Before(feb) {
		t.Fatal("chronological ordering broken")
	}
	if jan.Before(dec) {
		t.Fatal("reverse ordering should be false")
	}
	// The zero-padded string form must sort the same way.
	if !(dec.String() < jan.String() && jan.String() < feb.String()) {
		t.Fatalf("lexicographic order diverges: %s %s %s", dec, jan, feb)
	}
}

func TestDayOfWeek(t *testing.T) {
	// 2024-03-25 is a Monday.
	if got := DayOfWeek(time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)); got != time.Monday {
		t.Fatalf("got %v, want Monday", got)
	}
}

func TestMonthPeriodOf(t *testing.T) {
	cases := []struct {
		day  int
		want MonthPeriod
	}{
		{1, EarlyMonth},
		{10, EarlyMonth},
		{11, MidMonth},
		{20, MidMonth},
		{21, LateMonth},
		{31, LateMonth},
	}
	for _, tc := range cases {
		if got := MonthPeriodOf(tc.day); got != tc.want {
			t.Fatalf("MonthPeriodOf(%d) = %q, want %q", tc.day, got, tc.want)
		}
	}
}

func TestMonthPeriodOfIsTotal(t *testing.T) {
	// Every representable day of month must map somewhere.
	for day := 1; day <= 31; day++ {
		switch MonthPeriodOf(day) {
		case EarlyMonth, MidMonth, LateMonth:
		default:
			t.Fatalf("day %d mapped nowhere", day)
		}
	}
}
