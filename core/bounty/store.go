package bounty

import "context"

// Store persists the append-only bounty and fulfillment sequences. The
// engine is authoritative; the store is written through after an operation
// commits and read once on startup. Identifiers are positional: LoadAll
// must return bounties ordered by id with their fulfillments ordered by id.
type Store interface {
	LoadAll(ctx context.Context) ([]*Bounty, error)
	SaveBounty(ctx context.Context, id int, b *Bounty) error
	SaveFulfillment(ctx context.Context, bountyID, fulfillmentID int, f *Fulfillment) error
	Close()
}
