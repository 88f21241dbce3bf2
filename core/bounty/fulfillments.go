package bounty

import (
	"context"
	"fmt"
	"time"
)

// Fulfillment operations. Fulfillment ids are submission-order indices,
// stable forever.

func fulfillmentEvent(typ string, bountyID, fid int, actor string, amount int64, msg string, now time.Time) Event {
	return Event{
		Type:          typ,
		BountyID:      bountyID,
		FulfillmentID: fid,
		Actor:         actor,
		AmountSats:    amount,
		Message:       msg,
		CreatedAt:     now,
	}
}

// FulfillBounty submits new work against an Active bounty before its
// deadline. The issuer and the arbiter may not fulfill their own bounty.
func (e *Engine) FulfillBounty(ctx context.Context, tx TxContext, id int, data string) (int, error) {
	e.mu.Lock()
	b, err := e.bounty(id)
	if err != nil {
		e.mu.Unlock()
		return 0, err
	}
	if !b.inStage(StageActive) {
		e.mu.Unlock()
		return 0, ErrWrongStage
	}
	if !b.beforeDeadline(tx.Now) {
		e.mu.Unlock()
		return 0, ErrPastDeadline
	}
	if tx.Caller == "" || b.isIssuerOrArbiter(tx.Caller) {
		e.mu.Unlock()
		return 0, fmt.Errorf("%w: issuer and arbiter cannot fulfill their own bounty", ErrUnauthorized)
	}
	fid := len(b.Fulfillments)
	f := &Fulfillment{
		Fulfiller: tx.Caller,
		Data:      data,
		CreatedAt: tx.Now,
	}
	b.Fulfillments = append(b.Fulfillments, f)
	snap := *f
	e.mu.Unlock()

	e.persistFulfillment(ctx, id, fid, &snap)
	e.emit(fulfillmentEvent(EventFulfillmentSubmitted, id, fid, tx.Caller, 0, "fulfillment submitted", tx.Now))
	return fid, nil
}

// UpdateFulfillment lets the original fulfiller revise the submission data
// until it has been accepted.
func (e *Engine) UpdateFulfillment(ctx context.Context, tx TxContext, id, fid int, data string) error {
	e.mu.Lock()
	b, err := e.bounty(id)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	f, err := e.fulfillment(b, id, fid)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if tx.Caller != f.Fulfiller {
		e.mu.Unlock()
		return ErrUnauthorized
	}
	if f.Accepted {
		e.mu.Unlock()
		return ErrAlreadyAccepted
	}
	f.Data = data
	snap := *f
	e.mu.Unlock()

	e.persistFulfillment(ctx, id, fid, &snap)
	e.emit(fulfillmentEvent(EventFulfillmentUpdated, id, fid, tx.Caller, 0, "fulfillment updated", tx.Now))
	return nil
}

// AcceptFulfillment commits one fulfillment amount of the balance to the
// fulfiller. Callable by the issuer, or by the arbiter when one is set,
// while the bounty is Active. The solvency check runs at the current rate,
// independent of what held at activation time.
func (e *Engine) AcceptFulfillment(ctx context.Context, tx TxContext, id, fid int) error {
	e.mu.Lock()
	b, err := e.bounty(id)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	f, err := e.fulfillment(b, id, fid)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if !b.inStage(StageActive) {
		e.mu.Unlock()
		return ErrWrongStage
	}
	if !b.isIssuerOrArbiter(tx.Caller) {
		e.mu.Unlock()
		return ErrUnauthorized
	}
	if f.Accepted {
		e.mu.Unlock()
		return ErrAlreadyAccepted
	}
	if b.OwedAmount+b.FulfillmentAmount > b.Balance {
		e.mu.Unlock()
		return ErrUnderfunded
	}
	f.Accepted = true
	b.NumAccepted++
	b.OwedAmount += b.FulfillmentAmount
	amount := b.FulfillmentAmount
	bSnap := b.snapshot()
	fSnap := *f
	e.mu.Unlock()

	e.persistBounty(ctx, id, bSnap)
	e.persistFulfillment(ctx, id, fid, &fSnap)
	e.emit(fulfillmentEvent(EventFulfillmentAccepted, id, fid, tx.Caller, amount, "fulfillment accepted", tx.Now))
	return nil
}

// FulfillmentPayment pays the fulfiller their committed share. Only the
// fulfiller of the record may collect, exactly once, and only after
// acceptance. Payment stays possible after the bounty is Dead: KillBounty
// leaves the owed amount escrowed precisely so accepted work is never
// stranded. Balance and owed are decremented before the external transfer
// runs; a failed transfer restores them along with the paid flag.
func (e *Engine) FulfillmentPayment(ctx context.Context, tx TxContext, id, fid int) error {
	e.mu.Lock()
	b, err := e.bounty(id)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	f, err := e.fulfillment(b, id, fid)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if tx.Caller != f.Fulfiller {
		e.mu.Unlock()
		return ErrUnauthorized
	}
	if !f.Accepted {
		e.mu.Unlock()
		return ErrNotAccepted
	}
	if f.Paid {
		e.mu.Unlock()
		return ErrAlreadyPaid
	}
	amount := b.FulfillmentAmount
	f.Paid = true
	b.NumPaid++
	b.OwedAmount -= amount
	b.Balance -= amount
	pay := b.payment(id)
	recipient := f.Fulfiller
	e.mu.Unlock()

	if err := e.transfer.PayOut(ctx, pay, recipient, amount); err != nil {
		e.mu.Lock()
		f.Paid = false
		b.NumPaid--
		b.OwedAmount += amount
		b.Balance += amount
		e.mu.Unlock()
		return err
	}

	e.mu.Lock()
	bSnap := b.snapshot()
	fSnap := *f
	e.mu.Unlock()
	e.persistBounty(ctx, id, bSnap)
	e.persistFulfillment(ctx, id, fid, &fSnap)
	e.emit(fulfillmentEvent(EventFulfillmentPaid, id, fid, tx.Caller, amount, "fulfillment paid", tx.Now))
	return nil
}
