package coupon

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusRecalled Status = "recalled"
)

func (s Status) String() string {
	return string(s)
}

// IsValid reports whether s is a known status. There is no transition
// graph: any status may move to any other, including out of recalled.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusRecalled:
		return true
	default:
		return false
	}
}

type DiscountKind string

const (
	DiscountPercentage  DiscountKind = "percentage"
	DiscountFixedAmount DiscountKind = "fixed_amount"
)

func (k DiscountKind) String() string {
	return string(k)
}

type ExpiryKind string

const (
	ExpiryAbsolute ExpiryKind = "absolute"
	ExpiryRelative ExpiryKind = "relative"
)

func (k ExpiryKind) String() string {
	return string(k)
}
