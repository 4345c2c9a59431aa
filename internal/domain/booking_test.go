package domain

import "testing"

func TestValidBookingTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		ok   bool
	}{
		{name: "pending to accepted", from: BookingPending, to: BookingAccepted, ok: true},
		{name: "pending to rejected", from: BookingPending, to: BookingRejected, ok: true},
		{name: "pending to cancelled", from: BookingPending, to: BookingCancelled, ok: true},
		{name: "accepted to in_progress", from: BookingAccepted, to: BookingInProgress, ok: true},
		{name: "in_progress to completed", from: BookingInProgress, to: BookingCompleted, ok: true},
		{name: "pending skips to completed", from: BookingPending, to: BookingCompleted, ok: false},
		{name: "completed is terminal", from: BookingCompleted, to: BookingCancelled, ok: false},
		{name: "cancelled is terminal", from: BookingCancelled, to: BookingPending, ok: false},
		{name: "rejected is terminal", from: BookingRejected, to: BookingAccepted, ok: false},
		{name: "no self transition", from: BookingPending, to: BookingPending, ok: false},
		{name: "unknown status", from: "limbo", to: BookingAccepted, ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidBookingTransition(tc.from, tc.to); got != tc.ok {
				t.Fatalf("ValidBookingTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.ok)
			}
		})
	}
}
