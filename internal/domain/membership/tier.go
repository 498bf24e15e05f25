package membership

import "strings"

// Tier is the canonical membership level derived from a package's display name.
type Tier string

const (
	TierFree    Tier = "FREE"
	TierBasic   Tier = "BASIC"
	TierPremium Tier = "PREMIUM"
	TierVIP     Tier = "VIP"
)

// String returns the string representation of Tier
func (t Tier) String() string {
	return string(t)
}

// IsValid returns true if the tier is a known value
func (t Tier) IsValid() bool {
	switch t {
	case TierFree, TierBasic, TierPremium, TierVIP:
		return true
	}
	return false
}

// DisplayName returns a human-readable name for the tier
func (t Tier) DisplayName() string {
	switch t {
	case TierVIP:
		return "VIP"
	case TierPremium:
		return "Premium"
	case TierBasic:
		return "Basic"
	default:
		return "Free"
	}
}

// tierRule maps a package-name keyword to a tier. Rules are evaluated in
// slice order and the first match wins, so "VIP Premium Bundle" is VIP.
type tierRule struct {
	keyword string
	tier    Tier
}

// The rule order is part of the contract: VIP beats every other keyword,
// then Basic, then Premium. Changing it changes which tier mixed names get.
var tierRules = []tierRule{
	{"vip", TierVIP},
	{"basic", TierBasic},
	{"premium", TierPremium},
}

// ClassifyTier maps a free-text package name to its canonical tier using
// case-insensitive substring matching. It is total: names that match no
// rule classify as Free.
func ClassifyTier(packageName string) Tier {
	name := strings.ToLower(packageName)
	for _, rule := range tierRules {
		if strings.Contains(name, rule.keyword) {
			return rule.tier
		}
	}
	return TierFree
}
