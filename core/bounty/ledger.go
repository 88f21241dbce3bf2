package bounty

import (
	"context"
	"fmt"
	"time"
)

// Bounty-level operations. Guard order is fixed: existence, stage, role,
// deadline, amounts, then funding. A rejected guard leaves no trace.

// IssueBounty creates a new bounty in Draft with zero balance. The caller
// becomes the issuer. No value may be attached.
func (e *Engine) IssueBounty(ctx context.Context, tx TxContext, deadline time.Time, data string, fulfillmentAmount int64, arbiter string, paysTokens bool, tokenRef string) (int, error) {
	if tx.Caller == "" {
		return 0, fmt.Errorf("%w: issuer identity required", ErrUnauthorized)
	}
	if !deadline.After(tx.Now) {
		return 0, ErrInvalidDeadline
	}
	if fulfillmentAmount <= 0 {
		return 0, ErrZeroAmount
	}
	if tx.Attached != 0 {
		return 0, fmt.Errorf("%w: issue carries no funds (%d attached)", ErrValueMismatch, tx.Attached)
	}

	e.mu.Lock()
	id := len(e.bounties)
	b := &Bounty{
		Issuer:            tx.Caller,
		Arbiter:           arbiter,
		Deadline:          deadline,
		Data:              data,
		FulfillmentAmount: fulfillmentAmount,
		PaysTokens:        paysTokens,
		TokenRef:          tokenRef,
		Stage:             StageDraft,
		CreatedAt:         tx.Now,
	}
	e.bounties = append(e.bounties, b)
	snap := b.snapshot()
	e.mu.Unlock()

	e.persistBounty(ctx, id, snap)
	e.emit(bountyEvent(EventBountyIssued, id, tx.Caller, 0, "bounty issued in draft", tx.Now))
	return id, nil
}

// IssueAndActivateBounty creates a bounty directly in Active, atomically
// pulling deposit from the caller. The deposit must cover at least one
// fulfillment.
func (e *Engine) IssueAndActivateBounty(ctx context.Context, tx TxContext, deadline time.Time, data string, fulfillmentAmount int64, arbiter string, paysTokens bool, tokenRef string, deposit int64) (int, error) {
	if tx.Caller == "" {
		return 0, fmt.Errorf("%w: issuer identity required", ErrUnauthorized)
	}
	if !deadline.After(tx.Now) {
		return 0, ErrInvalidDeadline
	}
	if fulfillmentAmount <= 0 {
		return 0, ErrZeroAmount
	}
	if deposit < fulfillmentAmount {
		return 0, fmt.Errorf("%w: deposit %d below fulfillment amount %d", ErrUnderfunded, deposit, fulfillmentAmount)
	}

	e.mu.Lock()
	id := len(e.bounties)
	pay := Payment{BountyID: id, PaysTokens: paysTokens, TokenRef: tokenRef}
	if err := e.transfer.Collect(ctx, pay, tx.Caller, deposit, tx.Attached); err != nil {
		e.mu.Unlock()
		return 0, err
	}
	b := &Bounty{
		Issuer:            tx.Caller,
		Arbiter:           arbiter,
		Deadline:          deadline,
		Data:              data,
		FulfillmentAmount: fulfillmentAmount,
		PaysTokens:        paysTokens,
		TokenRef:          tokenRef,
		Stage:             StageActive,
		Balance:           deposit,
		CreatedAt:         tx.Now,
	}
	e.bounties = append(e.bounties, b)
	snap := b.snapshot()
	e.mu.Unlock()

	e.persistBounty(ctx, id, snap)
	e.emit(bountyEvent(EventBountyActivated, id, tx.Caller, deposit, "bounty issued and activated", tx.Now))
	return id, nil
}

// Contribute adds value to a bounty's balance. Anyone may contribute while
// the bounty is not Dead and the deadline has not passed. Contributions
// create no obligation and are irrevocable except through normal payout
// paths.
func (e *Engine) Contribute(ctx context.Context, tx TxContext, id int, value int64) error {
	e.mu.Lock()
	b, err := e.bounty(id)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if b.isDead() {
		e.mu.Unlock()
		return ErrWrongStage
	}
	if !b.beforeDeadline(tx.Now) {
		e.mu.Unlock()
		return ErrPastDeadline
	}
	if value <= 0 {
		e.mu.Unlock()
		return ErrZeroAmount
	}
	if err := e.transfer.Collect(ctx, b.payment(id), tx.Caller, value, tx.Attached); err != nil {
		e.mu.Unlock()
		return err
	}
	b.Balance += value
	snap := b.snapshot()
	e.mu.Unlock()

	e.persistBounty(ctx, id, snap)
	e.emit(bountyEvent(EventContributionAdded, id, tx.Caller, value, "contribution added", tx.Now))
	return nil
}

// ActivateBounty funds (optionally) and transitions a Draft bounty to
// Active. The resulting balance must cover one fulfillment on top of what
// is already owed.
func (e *Engine) ActivateBounty(ctx context.Context, tx TxContext, id int, value int64) error {
	e.mu.Lock()
	b, err := e.bounty(id)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if !b.isIssuer(tx.Caller) {
		e.mu.Unlock()
		return ErrUnauthorized
	}
	if !b.inStage(StageDraft) {
		e.mu.Unlock()
		return ErrWrongStage
	}
	if !b.beforeDeadline(tx.Now) {
		e.mu.Unlock()
		return ErrPastDeadline
	}
	if value < 0 {
		e.mu.Unlock()
		return ErrZeroAmount
	}
	if b.Balance+value < b.FulfillmentAmount+b.OwedAmount {
		e.mu.Unlock()
		return ErrUnderfunded
	}
	if value > 0 {
		if err := e.transfer.Collect(ctx, b.payment(id), tx.Caller, value, tx.Attached); err != nil {
			e.mu.Unlock()
			return err
		}
	} else if tx.Attached != 0 {
		e.mu.Unlock()
		return fmt.Errorf("%w: attached %d, declared 0", ErrValueMismatch, tx.Attached)
	}
	b.Balance += value
	b.Stage = StageActive
	snap := b.snapshot()
	e.mu.Unlock()

	e.persistBounty(ctx, id, snap)
	e.emit(bountyEvent(EventBountyActivated, id, tx.Caller, value, "bounty activated", tx.Now))
	return nil
}

// KillBounty drains the uncommitted balance back to the issuer and moves
// the bounty to Dead. Funds owed to accepted fulfillments stay escrowed.
// The drained amount is removed from the balance before the external
// transfer runs; a failed transfer restores both balance and stage.
func (e *Engine) KillBounty(ctx context.Context, tx TxContext, id int) error {
	e.mu.Lock()
	b, err := e.bounty(id)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if b.isDead() {
		e.mu.Unlock()
		return ErrWrongStage
	}
	if !b.isIssuer(tx.Caller) {
		e.mu.Unlock()
		return ErrUnauthorized
	}
	prevStage := b.Stage
	drain := b.Balance - b.OwedAmount
	b.Balance = b.OwedAmount
	b.Stage = StageDead
	pay := b.payment(id)
	issuer := b.Issuer
	e.mu.Unlock()

	if drain > 0 {
		if err := e.transfer.PayOut(ctx, pay, issuer, drain); err != nil {
			e.mu.Lock()
			b.Balance += drain
			b.Stage = prevStage
			e.mu.Unlock()
			return err
		}
	}

	e.mu.Lock()
	snap := b.snapshot()
	e.mu.Unlock()
	e.persistBounty(ctx, id, snap)
	e.emit(bountyEvent(EventBountyKilled, id, tx.Caller, drain, "bounty killed, uncommitted balance drained", tx.Now))
	return nil
}

// TransferIssuer hands the bounty to a new issuer. Permitted in any
// non-Dead stage.
func (e *Engine) TransferIssuer(ctx context.Context, tx TxContext, id int, newIssuer string) error {
	e.mu.Lock()
	b, err := e.bounty(id)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if b.isDead() {
		e.mu.Unlock()
		return ErrWrongStage
	}
	if !b.isIssuer(tx.Caller) {
		e.mu.Unlock()
		return ErrUnauthorized
	}
	b.Issuer = newIssuer
	snap := b.snapshot()
	e.mu.Unlock()

	e.persistBounty(ctx, id, snap)
	e.emit(bountyEvent(EventIssuerTransferred, id, tx.Caller, 0, "issuer transferred to "+newIssuer, tx.Now))
	return nil
}

// draftEdit runs an issuer-only, Draft-only field write under the lock and
// persists the result.
func (e *Engine) draftEdit(ctx context.Context, tx TxContext, id int, edit func(*Bounty) error) error {
	e.mu.Lock()
	b, err := e.bounty(id)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if !b.isIssuer(tx.Caller) {
		e.mu.Unlock()
		return ErrUnauthorized
	}
	if !b.inStage(StageDraft) {
		e.mu.Unlock()
		return ErrWrongStage
	}
	if err := edit(b); err != nil {
		e.mu.Unlock()
		return err
	}
	snap := b.snapshot()
	e.mu.Unlock()

	e.persistBounty(ctx, id, snap)
	e.emit(bountyEvent(EventBountyChanged, id, tx.Caller, 0, "bounty changed", tx.Now))
	return nil
}

// ChangeData replaces the description blob of a Draft bounty.
func (e *Engine) ChangeData(ctx context.Context, tx TxContext, id int, data string) error {
	return e.draftEdit(ctx, tx, id, func(b *Bounty) error {
		b.Data = data
		return nil
	})
}

// ChangeDeadline rewrites the deadline of a Draft bounty. The new deadline
// must be strictly in the future.
func (e *Engine) ChangeDeadline(ctx context.Context, tx TxContext, id int, deadline time.Time) error {
	return e.draftEdit(ctx, tx, id, func(b *Bounty) error {
		if !deadline.After(tx.Now) {
			return ErrInvalidDeadline
		}
		b.Deadline = deadline
		return nil
	})
}

// ChangeArbiter replaces the arbiter of a Draft bounty. An empty arbiter
// disables arbiter acceptance.
func (e *Engine) ChangeArbiter(ctx context.Context, tx TxContext, id int, arbiter string) error {
	return e.draftEdit(ctx, tx, id, func(b *Bounty) error {
		b.Arbiter = arbiter
		return nil
	})
}

// ChangeFulfillmentAmount rewrites the per-fulfillment reward of a Draft
// bounty.
func (e *Engine) ChangeFulfillmentAmount(ctx context.Context, tx TxContext, id int, amount int64) error {
	return e.draftEdit(ctx, tx, id, func(b *Bounty) error {
		if amount <= 0 {
			return ErrZeroAmount
		}
		b.FulfillmentAmount = amount
		return nil
	})
}

// ChangePaysTokens switches a Draft bounty between native-currency and
// token accounting and rewrites the token ref. Any balance already escrowed
// is returned to the issuer in the old currency first; a failed refund
// aborts the switch.
func (e *Engine) ChangePaysTokens(ctx context.Context, tx TxContext, id int, paysTokens bool, tokenRef string) error {
	e.mu.Lock()
	b, err := e.bounty(id)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if !b.isIssuer(tx.Caller) {
		e.mu.Unlock()
		return ErrUnauthorized
	}
	if !b.inStage(StageDraft) {
		e.mu.Unlock()
		return ErrWrongStage
	}
	oldPay := b.payment(id)
	oldTokens, oldRef := b.PaysTokens, b.TokenRef
	refund := b.Balance
	b.Balance = 0
	b.PaysTokens = paysTokens
	b.TokenRef = tokenRef
	issuer := b.Issuer
	e.mu.Unlock()

	if refund > 0 {
		if err := e.transfer.PayOut(ctx, oldPay, issuer, refund); err != nil {
			e.mu.Lock()
			b.Balance += refund
			b.PaysTokens = oldTokens
			b.TokenRef = oldRef
			e.mu.Unlock()
			return err
		}
	}

	e.mu.Lock()
	snap := b.snapshot()
	e.mu.Unlock()
	e.persistBounty(ctx, id, snap)
	e.emit(bountyEvent(EventBountyChanged, id, tx.Caller, refund, "payment mode changed", tx.Now))
	return nil
}

// ExtendDeadline pushes the deadline strictly later than the current one.
// Permitted in any non-Dead stage.
func (e *Engine) ExtendDeadline(ctx context.Context, tx TxContext, id int, deadline time.Time) error {
	e.mu.Lock()
	b, err := e.bounty(id)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if b.isDead() {
		e.mu.Unlock()
		return ErrWrongStage
	}
	if !b.isIssuer(tx.Caller) {
		e.mu.Unlock()
		return ErrUnauthorized
	}
	if !deadline.After(b.Deadline) {
		e.mu.Unlock()
		return fmt.Errorf("%w: new deadline must be later than the current one", ErrInvalidDeadline)
	}
	b.Deadline = deadline
	snap := b.snapshot()
	e.mu.Unlock()

	e.persistBounty(ctx, id, snap)
	e.emit(bountyEvent(EventDeadlineExtended, id, tx.Caller, 0, "deadline extended", tx.Now))
	return nil
}

// IncreasePayout raises the per-fulfillment reward mid-flight. The balance
// must already cover the retroactive increase for every accepted-but-unpaid
// fulfillment; those obligations are topped up at the new rate.
// Already-paid fulfillments are not topped up.
func (e *Engine) IncreasePayout(ctx context.Context, tx TxContext, id int, newAmount int64) error {
	e.mu.Lock()
	b, err := e.bounty(id)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if b.isDead() {
		e.mu.Unlock()
		return ErrWrongStage
	}
	if !b.isIssuer(tx.Caller) {
		e.mu.Unlock()
		return ErrUnauthorized
	}
	if newAmount <= b.FulfillmentAmount {
		e.mu.Unlock()
		return fmt.Errorf("%w: new amount %d not greater than current %d", ErrZeroAmount, newAmount, b.FulfillmentAmount)
	}
	unpaid := int64(b.NumAccepted - b.NumPaid)
	delta := newAmount - b.FulfillmentAmount
	if b.Balance < b.OwedAmount+delta*unpaid {
		e.mu.Unlock()
		return ErrUnderfunded
	}
	b.OwedAmount += delta * unpaid
	b.FulfillmentAmount = newAmount
	snap := b.snapshot()
	e.mu.Unlock()

	e.persistBounty(ctx, id, snap)
	e.emit(bountyEvent(EventPayoutIncreased, id, tx.Caller, newAmount, "fulfillment amount increased", tx.Now))
	return nil
}
