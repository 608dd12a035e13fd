package cache

import "time"

// Config holds cache TTLs.
type Config struct {
	FeedTTL         time.Duration
	PublicationTTL  time.Duration
	ProfileTTL      time.Duration
	ProfileMissTTL  time.Duration
	PlaybackTTL     time.Duration
	PlaybackFailTTL time.Duration
	SessionTTL      time.Duration
	ChallengeTTL    time.Duration
}

// DefaultConfig returns the TTLs used in production.
func DefaultConfig() Config {
	return Config{
		FeedTTL:         30 * time.Second, // explore moves fast
		PublicationTTL:  2 * time.Minute,
		ProfileTTL:      10 * time.Minute,
		ProfileMissTTL:  30 * time.Second,
		PlaybackTTL:     1 * time.Hour, // playback URLs are stable per CID
		PlaybackFailTTL: 5 * time.Minute,
		SessionTTL:      7 * 24 * time.Hour,
		ChallengeTTL:    5 * time.Minute,
	}
}
