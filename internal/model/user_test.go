package model

import "testing"

func TestLevelFor(t *testing.T) {
	tests := []struct {
		karma int64
		want  Level
	}{
		{-500, LevelBronze},
		{0, LevelBronze},
		{199, LevelBronze},
		{200, LevelSilver},
		{999, LevelSilver},
		{1000, LevelGold},
		{4999, LevelGold},
		{5000, LevelPlatinum},
		{1_000_000, LevelPlatinum},
	}

	for _, tt := range tests {
		if got := LevelFor(tt.karma); got != tt.want {
			t.Errorf("LevelFor(%d) = %q, want %q", tt.karma, got, tt.want)
		}
	}
}

func TestLevelFor_IsMonotonic(t *testing.T) {
	rank := map[Level]int{
		LevelBronze:   0,
		LevelSilver:   1,
		LevelGold:     2,
		LevelPlatinum: 3,
	}

	prev := LevelFor(-10_000)
	for karma := int64(-10_000); karma <= 10_000; karma += 50 {
		cur := LevelFor(karma)
		if rank[cur] < rank[prev] {
			t.Fatalf("level dropped from %q to %q at karma %d", prev, cur, karma)
		}
		prev = cur
	}
}
