package enums

import "fmt"

// UserTier is a customer segment derived purely from cumulative paid spend.
// It is never persisted; reporting recomputes it on read.
type UserTier string

const (
	UserTierBronze   UserTier = "bronze"
	UserTierSilver   UserTier = "silver"
	UserTierGold     UserTier = "gold"
	UserTierPlatinum UserTier = "platinum"
)

var validUserTiers = []UserTier{
	UserTierBronze,
	UserTierSilver,
	UserTierGold,
	UserTierPlatinum,
}

// String implements fmt.Stringer.
func (u UserTier) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserTier.
func (u UserTier) IsValid() bool {
	for _, candidate := range validUserTiers {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserTier converts raw input into a UserTier.
func ParseUserTier(value string) (UserTier, error) {
	for _, candidate := range validUserTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user tier %q", value)
}
