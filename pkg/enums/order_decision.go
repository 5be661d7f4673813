package enums

import "fmt"

// OrderDecision is the action an admin takes on a pending order.
type OrderDecision string

const (
	OrderDecisionConfirm OrderDecision = "confirm"
	OrderDecisionReject  OrderDecision = "reject"
)

var validOrderDecisions = []OrderDecision{
	OrderDecisionConfirm,
	OrderDecisionReject,
}

func (d OrderDecision) IsValid() bool {
	for _, candidate := range validOrderDecisions {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseOrderDecision converts the raw string to OrderDecision.
func ParseOrderDecision(value string) (OrderDecision, error) {
	for _, candidate := range validOrderDecisions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order decision %q", value)
}
