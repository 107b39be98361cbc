package model

import (
	"testing"
	"time"
)

func dirPtr(d Direction) *Direction {
	return &d
}

func TestDirection_Valid(t *testing.T) {
	tests := []struct {
		input Direction
		want  bool
	}{
		{DirectionHot, true},
		{DirectionCold, true},
		{"", false},
		{"warm", false},
		{"HOT", false},
	}

	for _, tt := range tests {
		if got := tt.input.Valid(); got != tt.want {
			t.Errorf("Direction(%q).Valid() = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDirection_Delta(t *testing.T) {
	if DirectionHot.Delta() != 1 {
		t.Errorf("hot delta = %d, want 1", DirectionHot.Delta())
	}
	if DirectionCold.Delta() != -1 {
		t.Errorf("cold delta = %d, want -1", DirectionCold.Delta())
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		existing   *Direction
		requested  Direction
		wantAction Action
		wantDelta  int
	}{
		{"none then hot creates", nil, DirectionHot, ActionCreated, 1},
		{"none then cold creates", nil, DirectionCold, ActionCreated, -1},
		{"hot then hot removes", dirPtr(DirectionHot), DirectionHot, ActionRemoved, -1},
		{"cold then cold removes", dirPtr(DirectionCold), DirectionCold, ActionRemoved, 1},
		{"hot then cold changes", dirPtr(DirectionHot), DirectionCold, ActionChanged, -2},
		{"cold then hot changes", dirPtr(DirectionCold), DirectionHot, ActionChanged, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, delta := Resolve(tt.existing, tt.requested)
			if action != tt.wantAction {
				t.Errorf("action = %q, want %q", action, tt.wantAction)
			}
			if delta != tt.wantDelta {
				t.Errorf("delta = %d, want %d", delta, tt.wantDelta)
			}
		})
	}
}

func TestCooldownBlocked(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cooldown := 24 * time.Hour

	tests := []struct {
		name       string
		existing   *Direction
		requested  Direction
		lastUpdate time.Time
		want       bool
	}{
		{"no prior vote never blocked", nil, DirectionHot, now.Add(-time.Minute), false},
		{"same direction never blocked", dirPtr(DirectionHot), DirectionHot, now.Add(-time.Minute), false},
		{"change within window blocked", dirPtr(DirectionCold), DirectionHot, now.Add(-11 * time.Hour), true},
		{"change just inside window blocked", dirPtr(DirectionHot), DirectionCold, now.Add(-24*time.Hour + time.Second), true},
		{"change at exactly the window allowed", dirPtr(DirectionHot), DirectionCold, now.Add(-24 * time.Hour), false},
		{"change after window allowed", dirPtr(DirectionCold), DirectionHot, now.Add(-25 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CooldownBlocked(tt.existing, tt.requested, tt.lastUpdate, cooldown, now)
			if got != tt.want {
				t.Errorf("CooldownBlocked = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCooldownBlocked_ZeroCooldownNeverBlocks(t *testing.T) {
	now := time.Now()
	if CooldownBlocked(dirPtr(DirectionHot), DirectionCold, now, 0, now) {
		t.Error("zero cooldown must never block a direction change")
	}
}

// dealLedger is a pure in-memory mirror of the cast transaction, used to
// exercise the state machine across sequences of casts without a database.
type dealLedger struct {
	authorID    int64
	temperature int
	frozen      bool
	karma       map[int64]int64 // by user ID
	votes       map[int64]Direction
	lastUpdate  map[int64]time.Time
}

func newDealLedger(authorID int64) *dealLedger {
	return &dealLedger{
		authorID:   authorID,
		karma:      make(map[int64]int64),
		votes:      make(map[int64]Direction),
		lastUpdate: make(map[int64]time.Time),
	}
}

// cast applies one vote the way the engine does: cooldown check, resolve,
// ledger write, temperature delta, and the mirrored karma delta for the
// author unless they voted on their own deal.
func (l *dealLedger) cast(userID int64, requested Direction, cooldown time.Duration, now time.Time) (Action, bool) {
	if l.frozen {
		return "", false
	}

	var existing *Direction
	if d, ok := l.votes[userID]; ok {
		existing = &d
	}

	if CooldownBlocked(existing, requested, l.lastUpdate[userID], cooldown, now) {
		return "", false
	}

	action, delta := Resolve(existing, requested)
	switch action {
	case ActionRemoved:
		delete(l.votes, userID)
		delete(l.lastUpdate, userID)
	default:
		l.votes[userID] = requested
		l.lastUpdate[userID] = now
	}

	l.temperature += delta
	if userID != l.authorID {
		l.karma[l.authorID] += int64(delta)
	}
	return action, true
}

func TestCastSequence_ToggleRoundTrip(t *testing.T) {
	l := newDealLedger(1)
	now := time.Now()

	// hot, then hot again: vote removed, everything back to zero
	l.cast(2, DirectionHot, 24*time.Hour, now)
	action, ok := l.cast(2, DirectionHot, 24*time.Hour, now.Add(time.Minute))

	if !ok || action != ActionRemoved {
		t.Fatalf("second same-direction cast = (%q, %v), want (removed, true)", action, ok)
	}
	if l.temperature != 0 {
		t.Errorf("temperature = %d, want 0", l.temperature)
	}
	if l.karma[1] != 0 {
		t.Errorf("author karma = %d, want 0", l.karma[1])
	}
	if _, exists := l.votes[2]; exists {
		t.Error("ledger row should be gone after removal")
	}
}

func TestCastSequence_SameDirectionRecastNeverCooldownBlocked(t *testing.T) {
	l := newDealLedger(1)
	now := time.Now()

	l.cast(2, DirectionHot, 24*time.Hour, now)

	// Immediate recast of the same direction is a removal, not a change,
	// so the cooldown does not apply.
	if _, ok := l.cast(2, DirectionHot, 24*time.Hour, now.Add(time.Second)); !ok {
		t.Fatal("same-direction recast must not be cooldown blocked")
	}
}

func TestCastSequence_TemperatureMatchesVoteSum(t *testing.T) {
	l := newDealLedger(1)
	now := time.Now()
	cooldown := time.Duration(0)

	casts := []struct {
		userID int64
		dir    Direction
	}{
		{2, DirectionHot},
		{3, DirectionHot},
		{4, DirectionCold},
		{2, DirectionCold}, // change
		{3, DirectionHot},  // remove
		{5, DirectionHot},
	}

	for i, c := range casts {
		if _, ok := l.cast(c.userID, c.dir, cooldown, now.Add(time.Duration(i)*time.Minute)); !ok {
			t.Fatalf("cast %d unexpectedly blocked", i)
		}
	}

	// Temperature must equal the signed sum of surviving ledger rows.
	sum := 0
	for _, d := range l.votes {
		sum += d.Delta()
	}
	if l.temperature != sum {
		t.Errorf("temperature = %d, ledger sum = %d", l.temperature, sum)
	}
}

func TestCastSequence_SelfVoteSkipsKarma(t *testing.T) {
	l := newDealLedger(1)
	now := time.Now()

	// Author votes on their own deal: temperature moves, karma does not.
	l.cast(1, DirectionHot, 24*time.Hour, now)

	if l.temperature != 1 {
		t.Errorf("temperature = %d, want 1", l.temperature)
	}
	if l.karma[1] != 0 {
		t.Errorf("author karma = %d, want 0 (self-vote)", l.karma[1])
	}
}

func TestCastSequence_FrozenRejectsAllCasts(t *testing.T) {
	l := newDealLedger(1)
	now := time.Now()

	l.cast(2, DirectionHot, 24*time.Hour, now)
	l.frozen = true

	// Freeze blocks every cast shape: create, remove, change.
	if _, ok := l.cast(3, DirectionHot, 24*time.Hour, now.Add(time.Minute)); ok {
		t.Error("create on frozen deal must be rejected")
	}
	if _, ok := l.cast(2, DirectionHot, 24*time.Hour, now.Add(time.Minute)); ok {
		t.Error("removal on frozen deal must be rejected")
	}
	if _, ok := l.cast(2, DirectionCold, 0, now.Add(time.Minute)); ok {
		t.Error("change on frozen deal must be rejected")
	}
	if l.temperature != 1 {
		t.Errorf("temperature = %d, want 1 (unchanged while frozen)", l.temperature)
	}
}

func TestCastSequence_FullScenario(t *testing.T) {
	l := newDealLedger(1)
	cooldown := 24 * time.Hour
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// User 2 casts hot: created, temperature 1, author karma +1.
	action, ok := l.cast(2, DirectionHot, cooldown, now)
	if !ok || action != ActionCreated || l.temperature != 1 || l.karma[1] != 1 {
		t.Fatalf("step 1 = (%q, %v, temp=%d, karma=%d), want (created, true, 1, 1)",
			action, ok, l.temperature, l.karma[1])
	}

	// Hot again: removed, back to zero.
	action, ok = l.cast(2, DirectionHot, cooldown, now.Add(time.Hour))
	if !ok || action != ActionRemoved || l.temperature != 0 || l.karma[1] != 0 {
		t.Fatalf("step 2 = (%q, %v, temp=%d, karma=%d), want (removed, true, 0, 0)",
			action, ok, l.temperature, l.karma[1])
	}

	// Cold: created fresh (removal cleared the row), temperature -1.
	action, ok = l.cast(2, DirectionCold, cooldown, now.Add(2*time.Hour))
	if !ok || action != ActionCreated || l.temperature != -1 || l.karma[1] != -1 {
		t.Fatalf("step 3 = (%q, %v, temp=%d, karma=%d), want (created, true, -1, -1)",
			action, ok, l.temperature, l.karma[1])
	}

	// Eleven hours later, a switch to hot is a direction change inside the
	// cooldown window and must be rejected with no state change.
	_, ok = l.cast(2, DirectionHot, cooldown, now.Add(13*time.Hour))
	if ok {
		t.Fatal("step 4: direction change inside cooldown must be blocked")
	}
	if l.temperature != -1 || l.karma[1] != -1 {
		t.Errorf("blocked cast mutated state: temp=%d karma=%d", l.temperature, l.karma[1])
	}
}
