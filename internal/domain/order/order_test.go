package order

import (
	"strings"
	"testing"
	"time"
)

func TestReceiptNumberFormat(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	num := NewReceiptNumber("br01", now)
	parts := strings.Split(num, "-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %q", num)
	}
	if parts[0] != "BR01" {
		t.Fatalf("expected upper-cased branch code, got %q", parts[0])
	}
	if parts[1] != "20260901" {
		t.Fatalf("expected date segment 20260901, got %q", parts[1])
	}
	if len(parts[2]) != 4 {
		t.Fatalf("expected 4-char suffix, got %q", parts[2])
	}
}

func TestReceiptNumbersDistinct(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{})
	dup := 0
	for i := 0; i < 50; i++ {
		n := NewReceiptNumber("BR01", now)
		if _, ok := seen[n]; ok {
			dup++
		}
		seen[n] = struct{}{}
	}
	// The 4-char suffix makes collisions rare but possible; near-simultaneous
	// calls must still mostly differ, collisions are handled by caller retry.
	if dup > 2 {
		t.Fatalf("too many duplicate receipt numbers: %d", dup)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	o := &Order{Status: StatusDraft}
	if err := o.Confirm(); err != nil {
		t.Fatalf("draft order must confirm: %v", err)
	}
	if o.Status != StatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", o.Status)
	}
	if err := o.Confirm(); err == nil {
		t.Fatal("confirming twice must fail")
	}
	if err := o.Cancel(); err != nil {
		t.Fatalf("confirmed order can be cancelled: %v", err)
	}
	if err := o.Cancel(); err == nil {
		t.Fatal("cancelling a cancelled order must fail")
	}
}
