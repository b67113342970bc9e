package domain

// Tier is a three-level classification that drives marker color.
type Tier string

const (
	TierLow    Tier = "LOW"
	TierMedium Tier = "MEDIUM"
	TierHigh   Tier = "HIGH"
)

// String returns the string representation of Tier.
func (t Tier) String() string {
	return string(t)
}

// IsValid checks if the tier is a valid value.
func (t Tier) IsValid() bool {
	return t == TierLow || t == TierMedium || t == TierHigh
}

// LoadStatus tells whether a trip travelled near full capacity.
type LoadStatus string

const (
	LoadFull    LoadStatus = "FULL"
	LoadPartial LoadStatus = "PARTIAL"
)

// String returns the string representation of LoadStatus.
func (s LoadStatus) String() string {
	return string(s)
}
