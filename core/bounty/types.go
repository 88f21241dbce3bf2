package bounty

import "time"

// Stage is the lifecycle stage of a bounty.
type Stage string

const (
	StageDraft  Stage = "draft"
	StageActive Stage = "active"
	StageDead   Stage = "dead"
)

// Valid reports whether s is one of the three known stages.
func (s Stage) Valid() bool {
	switch s {
	case StageDraft, StageActive, StageDead:
		return true
	}
	return false
}

// Bounty is one escrowed task. Balance and OwedAmount are maintained in
// sats; OwedAmount is the total committed to accepted-but-unpaid
// fulfillments and must never exceed Balance.
type Bounty struct {
	Issuer            string         `json:"issuer"`
	Arbiter           string         `json:"arbiter,omitempty"`
	Deadline          time.Time      `json:"deadline"`
	Data              string         `json:"data"`
	FulfillmentAmount int64          `json:"fulfillment_amount_sats"`
	PaysTokens        bool           `json:"pays_tokens"`
	TokenRef          string         `json:"token_ref,omitempty"`
	Stage             Stage          `json:"stage"`
	Balance           int64          `json:"balance_sats"`
	OwedAmount        int64          `json:"owed_amount_sats"`
	NumAccepted       int            `json:"num_accepted"`
	NumPaid           int            `json:"num_paid"`
	CreatedAt         time.Time      `json:"created_at"`
	Fulfillments      []*Fulfillment `json:"fulfillments,omitempty"`
}

// Fulfillment is one worker submission against a bounty. Accepted and Paid
// transition false->true exactly once and are never reversed; Paid implies
// Accepted.
type Fulfillment struct {
	Fulfiller string    `json:"fulfiller"`
	Data      string    `json:"data"`
	Accepted  bool      `json:"accepted"`
	Paid      bool      `json:"paid"`
	CreatedAt time.Time `json:"created_at"`
}

// TxContext carries the explicit per-call identity, clock, and attached
// native value. Guards evaluate Caller and Now; nothing is ambient.
type TxContext struct {
	Caller   string
	Now      time.Time
	Attached int64
}

// Summary is the read-model view of a bounty returned by queries.
type Summary struct {
	ID                int       `json:"id"`
	Issuer            string    `json:"issuer"`
	Arbiter           string    `json:"arbiter,omitempty"`
	Deadline          time.Time `json:"deadline"`
	Data              string    `json:"data"`
	FulfillmentAmount int64     `json:"fulfillment_amount_sats"`
	PaysTokens        bool      `json:"pays_tokens"`
	TokenRef          string    `json:"token_ref,omitempty"`
	Stage             Stage     `json:"stage"`
	Balance           int64     `json:"balance_sats"`
	OwedAmount        int64     `json:"owed_amount_sats"`
	NumAccepted       int       `json:"num_accepted"`
	NumPaid           int       `json:"num_paid"`
	NumFulfillments   int       `json:"num_fulfillments"`
	CreatedAt         time.Time `json:"created_at"`
}

// FulfillmentView is the read-model view of a single fulfillment.
type FulfillmentView struct {
	BountyID  int       `json:"bounty_id"`
	ID        int       `json:"id"`
	Fulfiller string    `json:"fulfiller"`
	Data      string    `json:"data"`
	Accepted  bool      `json:"accepted"`
	Paid      bool      `json:"paid"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter captures list filters for bounty queries.
type Filter struct {
	Stage  Stage
	Issuer string
	Limit  int
	Offset int
}

// Event is one notification emitted after a successful state change.
// FulfillmentID is -1 for bounty-level events.
type Event struct {
	Type          string    `json:"type"`
	BountyID      int       `json:"bounty_id"`
	FulfillmentID int       `json:"fulfillment_id"`
	Actor         string    `json:"actor"`
	AmountSats    int64     `json:"amount_sats,omitempty"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"created_at"`
}

// Event types, one per mutating operation.
const (
	EventBountyIssued         = "bounty_issued"
	EventBountyActivated      = "bounty_activated"
	EventBountyKilled         = "bounty_killed"
	EventBountyChanged        = "bounty_changed"
	EventIssuerTransferred    = "issuer_transferred"
	EventDeadlineExtended     = "deadline_extended"
	EventPayoutIncreased      = "payout_increased"
	EventContributionAdded    = "contribution_added"
	EventFulfillmentSubmitted = "fulfillment_submitted"
	EventFulfillmentUpdated   = "fulfillment_updated"
	EventFulfillmentAccepted  = "fulfillment_accepted"
	EventFulfillmentPaid      = "fulfillment_paid"
)
