package bounty

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Engine is the escrow-and-payout core: an append-only arena of bounty
// records, each owning an append-only arena of fulfillments. Indices are
// the stable public identifiers, never reused or reordered.
//
// Every mutating operation runs as one serialized transaction under the
// engine mutex: guards first (no mutation on rejection), bookkeeping
// second, the external value transfer last. The mutex is released around
// outbound PayOut calls so untrusted transfer code observes already-updated
// state and cannot re-enter a payout; a failed transfer is compensated by
// the inverse bookkeeping deltas before the error is returned.
type Engine struct {
	mu       sync.Mutex
	owner    string
	transfer ValueTransfer
	store    Store
	publish  func(Event)
	bounties []*Bounty
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore attaches write-through persistence. Persistence failures are
// logged, not surfaced: the in-memory arena stays authoritative.
func WithStore(s Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithEventSink sets the notification callback invoked exactly once per
// successful mutating operation, after the state change.
func WithEventSink(fn func(Event)) Option {
	return func(e *Engine) { e.publish = fn }
}

// NewEngine creates an engine owned by owner, settling transfers through
// the given adapter.
func NewEngine(owner string, transfer ValueTransfer, opts ...Option) *Engine {
	e := &Engine{owner: owner, transfer: transfer}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Restore loads the persisted arena. Call once before serving.
func (e *Engine) Restore(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	loaded, err := e.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("restore bounties: %w", err)
	}
	e.mu.Lock()
	e.bounties = loaded
	e.mu.Unlock()
	if len(loaded) > 0 {
		log.Printf("restored %d bounties", len(loaded))
	}
	return nil
}

// bounty returns the record at id or ErrNotFound. Callers hold e.mu.
func (e *Engine) bounty(id int) (*Bounty, error) {
	if id < 0 || id >= len(e.bounties) {
		return nil, fmt.Errorf("%w: bounty %d", ErrNotFound, id)
	}
	return e.bounties[id], nil
}

// fulfillment returns the record at fid or ErrNotFound. Callers hold e.mu.
func (e *Engine) fulfillment(b *Bounty, bountyID, fid int) (*Fulfillment, error) {
	if fid < 0 || fid >= len(b.Fulfillments) {
		return nil, fmt.Errorf("%w: bounty %d fulfillment %d", ErrNotFound, bountyID, fid)
	}
	return b.Fulfillments[fid], nil
}

func (b *Bounty) payment(id int) Payment {
	return Payment{BountyID: id, PaysTokens: b.PaysTokens, TokenRef: b.TokenRef}
}

// snapshot clones the bounty row without its fulfillments, for persistence
// and read models built outside the lock.
func (b *Bounty) snapshot() *Bounty {
	cp := *b
	cp.Fulfillments = nil
	return &cp
}

func (e *Engine) persistBounty(ctx context.Context, id int, b *Bounty) {
	if e.store == nil {
		return
	}
	if err := e.store.SaveBounty(ctx, id, b); err != nil {
		log.Printf("persist bounty %d: %v", id, err)
	}
}

func (e *Engine) persistFulfillment(ctx context.Context, bountyID, fid int, f *Fulfillment) {
	if e.store == nil {
		return
	}
	if err := e.store.SaveFulfillment(ctx, bountyID, fid, f); err != nil {
		log.Printf("persist bounty %d fulfillment %d: %v", bountyID, fid, err)
	}
}

func (e *Engine) emit(evt Event) {
	if e.publish == nil {
		return
	}
	e.publish(evt)
}

func bountyEvent(typ string, bountyID int, actor string, amount int64, msg string, now time.Time) Event {
	return Event{
		Type:          typ,
		BountyID:      bountyID,
		FulfillmentID: -1,
		Actor:         actor,
		AmountSats:    amount,
		Message:       msg,
		CreatedAt:     now,
	}
}

// --- Queries (pure reads) ---

// NumBounties returns the number of issued bounties.
func (e *Engine) NumBounties() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.bounties)
}

// GetBounty returns the summary of one bounty.
func (e *Engine) GetBounty(id int) (Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, err := e.bounty(id)
	if err != nil {
		return Summary{}, err
	}
	return b.summary(id), nil
}

func (b *Bounty) summary(id int) Summary {
	return Summary{
		ID:                id,
		Issuer:            b.Issuer,
		Arbiter:           b.Arbiter,
		Deadline:          b.Deadline,
		Data:              b.Data,
		FulfillmentAmount: b.FulfillmentAmount,
		PaysTokens:        b.PaysTokens,
		TokenRef:          b.TokenRef,
		Stage:             b.Stage,
		Balance:           b.Balance,
		OwedAmount:        b.OwedAmount,
		NumAccepted:       b.NumAccepted,
		NumPaid:           b.NumPaid,
		NumFulfillments:   len(b.Fulfillments),
		CreatedAt:         b.CreatedAt,
	}
}

// ListBounties returns summaries matching the filter, ordered by id.
func (e *Engine) ListBounties(filter Filter) []Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Summary, 0, len(e.bounties))
	for id, b := range e.bounties {
		if filter.Stage != "" && b.Stage != filter.Stage {
			continue
		}
		if filter.Issuer != "" && b.Issuer != filter.Issuer {
			continue
		}
		out = append(out, b.summary(id))
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []Summary{}
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out
}

// GetFulfillment returns one fulfillment by composite id.
func (e *Engine) GetFulfillment(bountyID, fid int) (FulfillmentView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, err := e.bounty(bountyID)
	if err != nil {
		return FulfillmentView{}, err
	}
	f, err := e.fulfillment(b, bountyID, fid)
	if err != nil {
		return FulfillmentView{}, err
	}
	return FulfillmentView{
		BountyID:  bountyID,
		ID:        fid,
		Fulfiller: f.Fulfiller,
		Data:      f.Data,
		Accepted:  f.Accepted,
		Paid:      f.Paid,
		CreatedAt: f.CreatedAt,
	}, nil
}

// NumFulfillments returns the fulfillment count for a bounty.
func (e *Engine) NumFulfillments(bountyID int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, err := e.bounty(bountyID)
	if err != nil {
		return 0, err
	}
	return len(b.Fulfillments), nil
}

// Totals returns the escrowed and owed sums across all bounties, for
// metrics.
func (e *Engine) Totals() (balance, owed int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, b := range e.bounties {
		balance += b.Balance
		owed += b.OwedAmount
	}
	return balance, owed
}
