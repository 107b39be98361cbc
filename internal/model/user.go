package model

import "time"

// Level is a user's reputation tier, derived from karma.
type Level string

const (
	LevelBronze   Level = "bronze"
	LevelSilver   Level = "silver"
	LevelGold     Level = "gold"
	LevelPlatinum Level = "platinum"
)

// Karma thresholds for each tier. Bronze has no floor: karma may go negative.
const (
	SilverKarma   = 200
	GoldKarma     = 1000
	PlatinumKarma = 5000
)

// LevelFor derives the reputation tier for a karma value. Applied every time
// karma changes, including negative deltas.
func LevelFor(karma int64) Level {
	switch {
	case karma >= PlatinumKarma:
		return LevelPlatinum
	case karma >= GoldKarma:
		return LevelGold
	case karma >= SilverKarma:
		return LevelSilver
	default:
		return LevelBronze
	}
}

// User is the reputation slice of the user entity: karma and its derived
// level. Account data is owned by the user directory.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username,omitempty"`
	Karma     int64     `json:"karma"`
	Level     Level     `json:"level"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserResponse is the API response for reputation lookups.
type UserResponse struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username,omitempty"`
	Karma    int64  `json:"karma"`
	Level    Level  `json:"level"`
}
