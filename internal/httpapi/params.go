package httpapi

import (
	"fmt"

	"prophex/internal/common"

	"github.com/google/uuid"
)

func parseSide(raw string) (common.Side, error) {
	switch raw {
	case "bid":
		return common.Bid, nil
	case "ask":
		return common.Ask, nil
	default:
		return 0, fmt.Errorf("invalid side %q, expected bid or ask", raw)
	}
}

func parseOutcome(raw string) (common.Outcome, error) {
	switch raw {
	case "yes":
		return common.Yes, nil
	case "no":
		return common.No, nil
	default:
		return 0, fmt.Errorf("invalid outcome %q, expected yes or no", raw)
	}
}

func parseUUID(raw string) (common.OrderId, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return common.OrderId{}, fmt.Errorf("invalid order id %q: %w", raw, err)
	}
	return id, nil
}
