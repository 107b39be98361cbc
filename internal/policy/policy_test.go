package policy

import (
	"context"
	"testing"
	"time"
)

func TestStatic_CooldownHours(t *testing.T) {
	src := Static{Cooldown: 6 * time.Hour}
	if got := src.CooldownHours(context.Background()); got != 6*time.Hour {
		t.Errorf("CooldownHours = %v, want 6h", got)
	}
}

func TestStatic_ZeroCooldown(t *testing.T) {
	src := Static{}
	if got := src.CooldownHours(context.Background()); got != 0 {
		t.Errorf("CooldownHours = %v, want 0", got)
	}
}

func TestDefaultCooldown(t *testing.T) {
	if DefaultCooldownHours != 24 {
		t.Errorf("DefaultCooldownHours = %d, want 24", DefaultCooldownHours)
	}
}
