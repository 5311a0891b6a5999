//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package sample

import (
	"testing"
	"time"
)

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000)
		v2 := f2.Int(0, 1000)
		if v1 != v2 {
			t.Errorf("Same seed produced different values: %d != %d", v1, v2)
		}
	}
}

func TestFakerInitials(t *testing.T) {
	f := NewFakerWithSeed(1)
	for i := 0; i < 20; i++ {
		if got := f.Initials(); len(got) != 2 {
			t.Errorf("Initials() = %q, want two letters", got)
		}
	}
}

func TestFakerDigits(t *testing.T) {
	f := NewFaker()
	d := f.Digits(6)
	if len(d) != 6 {
		t.Errorf("Digits(6) length = %d, want 6", len(d))
	}
	for _, c := range d {
		if c < '0' || c > '9' {
			t.Errorf("Digits contains non-digit: %c", c)
		}
	}
}

func TestFakerDateRange(t *testing.T) {
	f := NewFaker()
	start := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2017, 12, 31, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 50; i++ {
		d := f.DateRange(start, end)
		if d.Before(start) || d.After(end) {
			t.Errorf("DateRange returned %v outside [%v, %v]", d, start, end)
		}
	}
}

func TestFakerChance(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		if f.Chance(0) {
			t.Fatal("Chance(0) returned true")
		}
	}
	hits := 0
	for i := 0; i < 100; i++ {
		if f.Chance(1) {
			hits++
		}
	}
	if hits != 100 {
		t.Errorf("Chance(1) hit %d of 100", hits)
	}
}

func TestChoose(t *testing.T) {
	f := NewFaker()
	items := []string{"a", "b", "c"}

	for i := 0; i < 10; i++ {
		choice := Choose(f, items)
		found := false
		for _, item := range items {
			if choice == item {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Choose returned item not in list: %s", choice)
		}
	}

	if got := Choose(f, []string{}); got != "" {
		t.Errorf("Choose on empty slice = %q, want zero value", got)
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFaker()
	items := []string{"rare", "common"}
	weights := []int{1, 99}

	counts := make(map[string]int)
	for i := 0; i < 1000; i++ {
		counts[ChooseWeighted(f, items, weights)]++
	}

	if counts["common"] < counts["rare"] {
		t.Errorf("Weighted choice not respected: %v", counts)
	}
}
