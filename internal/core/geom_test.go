package core

import "testing"

func TestPointDistances(t *testing.T) {
	a := Pt(2, 3)
	b := Pt(5, -1)

	if got := a.DistSq(b); got != 25 {
		t.Errorf("DistSq() = %d, expected 25", got)
	}
	if got := a.Manhattan(b); got != 7 {
		t.Errorf("Manhattan() = %d, expected 7", got)
	}
	if got := a.Add(1, -1); got != Pt(3, 2) {
		t.Errorf("Add() = %v", got)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestSignAndToward(t *testing.T) {
	if Sign(-4) != -1 || Sign(0) != 0 || Sign(9) != 1 {
		t.Error("Sign returned wrong values")
	}
	if Toward(3) != 1 || Toward(-3) != -1 {
		t.Error("Toward should follow the sign of non-zero deltas")
	}
	if Toward(0) != -1 {
		t.Error("Toward(0) should step negatively")
	}
}

func TestActionDelta(t *testing.T) {
	tests := []struct {
		action Action
		dx, dy int
		ok     bool
	}{
		{ActionUp, 0, -1, true},
		{ActionDown, 0, 1, true},
		{ActionLeft, -1, 0, true},
		{ActionRight, 1, 0, true},
		{ActionEscape, 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.action.String(), func(t *testing.T) {
			dx, dy, ok := tc.action.Delta()
			if dx != tc.dx || dy != tc.dy || ok != tc.ok {
				t.Errorf("Delta() = (%d, %d, %v), expected (%d, %d, %v)", dx, dy, ok, tc.dx, tc.dy, tc.ok)
			}
		})
	}
}
