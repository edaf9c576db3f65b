package wizard

import "testing"

func TestCollectGathersAllViolations(t *testing.T) {
	errs := Collect(
		RequireNonEmpty("material", ""),
		RequireNonEmpty("color", ""),
		RequireRange("wearLevel", 130, 0, 100),
		RequireNonEmpty("filler", "down"),
	)
	if len(errs) != 3 {
		t.Fatalf("expected 3 violations in one pass, got %d", len(errs))
	}
}

func TestRequirePhone(t *testing.T) {
	for _, ok := range []string{"+7 912 345-67-89", "89123456789", "(495) 123-45-67"} {
		if v := RequirePhone("phone", ok); v != nil {
			t.Fatalf("expected %q to be accepted: %s", ok, v.Reason)
		}
	}
	for _, bad := range []string{"", "abc", "12", "+7-abc-def"} {
		if v := RequirePhone("phone", bad); v == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestRequireRange(t *testing.T) {
	if v := RequireRange("percent", 51, 0, 50); v == nil {
		t.Fatal("51 percent must be rejected")
	}
	if v := RequireRange("percent", 50, 0, 50); v != nil {
		t.Fatal("boundary value must be accepted")
	}
}
