// Package common holds the small closed enumerations and identifiers shared
// by every layer of the matching core: sides, outcomes, order ids and
// account references. Keeping them here (rather than in engine or book, as
// a separate core package did) avoids an import cycle between book,
// market and actor.
package common

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Side is the direction of an order: BID (buy) or ASK (sell).
type Side int

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	switch s {
	case Bid:
		return "BID"
	case Ask:
		return "ASK"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON renders a Side as "bid" or "ask".
func (s Side) MarshalJSON() ([]byte, error) {
	switch s {
	case Bid:
		return json.Marshal("bid")
	case Ask:
		return json.Marshal("ask")
	default:
		return nil, fmt.Errorf("common: invalid side %d", s)
	}
}

// UnmarshalJSON parses "bid" or "ask".
func (s *Side) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "bid":
		*s = Bid
	case "ask":
		*s = Ask
	default:
		return fmt.Errorf("common: invalid side %q", str)
	}
	return nil
}

// Outcome selects which of a market's two books an order belongs to.
type Outcome int

const (
	Yes Outcome = iota
	No
)

func (o Outcome) String() string {
	switch o {
	case Yes:
		return "YES"
	case No:
		return "NO"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON renders an Outcome as "yes" or "no".
func (o Outcome) MarshalJSON() ([]byte, error) {
	switch o {
	case Yes:
		return json.Marshal("yes")
	case No:
		return json.Marshal("no")
	default:
		return nil, fmt.Errorf("common: invalid outcome %d", o)
	}
}

// UnmarshalJSON parses "yes" or "no".
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "yes":
		*o = Yes
	case "no":
		*o = No
	default:
		return fmt.Errorf("common: invalid outcome %q", str)
	}
	return nil
}

// OrderId is an opaque, globally unique 128-bit order identifier, assigned
// at admission time.
type OrderId = uuid.UUID

// NewOrderId generates a fresh OrderId.
func NewOrderId() OrderId { return uuid.New() }

// AccountRef identifies an owner of an order or a counterparty in a trade.
// It is an opaque string at the core boundary; settlement-layer code is
// free to interpret it as a chain address.
type AccountRef string

// MarketId identifies a market. The core does not validate its format or
// existence beyond routing on it; that is the facade/registry's job.
type MarketId uint64
