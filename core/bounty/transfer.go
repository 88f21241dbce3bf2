package bounty

import (
	"context"
	"fmt"
	"sync"
)

// Payment identifies the funding mode of the bounty a transfer belongs to.
type Payment struct {
	BountyID   int
	PaysTokens bool
	TokenRef   string
}

// ValueTransfer moves escrowed value in and out of the engine. Collect must
// move exactly amount units from payer or fail; PayOut must move exactly
// amount units to recipient or fail. Implementations talk to external,
// possibly hostile code: the engine orders its bookkeeping around these
// calls accordingly.
type ValueTransfer interface {
	Collect(ctx context.Context, p Payment, payer string, amount, attached int64) error
	PayOut(ctx context.Context, p Payment, recipient string, amount int64) error
}

// NativeBank settles native-currency payouts.
type NativeBank interface {
	Send(ctx context.Context, to string, amount int64) error
}

// TokenContract is the fungible-token interface the engine calls into.
// Both methods follow the standard approve+transferFrom pattern and report
// success with a boolean; a non-true return is a failed transfer even when
// err is nil.
type TokenContract interface {
	TransferFrom(ctx context.Context, from, to string, amount int64) (bool, error)
	Transfer(ctx context.Context, to string, amount int64) (bool, error)
}

// TokenRegistry resolves a bounty's token ref to its contract.
type TokenRegistry interface {
	Token(ref string) (TokenContract, bool)
}

// Vault is the standard ValueTransfer: native value is checked against the
// attached amount and paid out through a NativeBank; token value moves
// through the referenced TokenContract with the vault's escrow address as
// custodian.
type Vault struct {
	bank       NativeBank
	tokens     TokenRegistry
	escrowAddr string
}

// NewVault creates a Vault holding escrowed funds under escrowAddr.
func NewVault(bank NativeBank, tokens TokenRegistry, escrowAddr string) *Vault {
	return &Vault{bank: bank, tokens: tokens, escrowAddr: escrowAddr}
}

// Collect enforces the exact-amount rule: for native bounties the attached
// value must equal the declared amount bit-for-bit; for token bounties no
// native value may ride along and the token contract must move exactly the
// declared amount.
func (v *Vault) Collect(ctx context.Context, p Payment, payer string, amount, attached int64) error {
	if !p.PaysTokens {
		if attached != amount {
			return fmt.Errorf("%w: attached %d, declared %d", ErrValueMismatch, attached, amount)
		}
		return nil
	}
	if attached != 0 {
		return fmt.Errorf("%w: token bounty cannot carry native value (%d attached)", ErrValueMismatch, attached)
	}
	tok, ok := v.tokens.Token(p.TokenRef)
	if !ok {
		return fmt.Errorf("%w: unknown token %q", ErrTransferFailed, p.TokenRef)
	}
	moved, err := tok.TransferFrom(ctx, payer, v.escrowAddr, amount)
	if err != nil {
		return fmt.Errorf("%w: transferFrom: %v", ErrTransferFailed, err)
	}
	if !moved {
		return fmt.Errorf("%w: transferFrom returned false", ErrTransferFailed)
	}
	return nil
}

// PayOut moves amount units of the bounty's currency to recipient. Failure
// must abort the caller's whole operation.
func (v *Vault) PayOut(ctx context.Context, p Payment, recipient string, amount int64) error {
	if !p.PaysTokens {
		if err := v.bank.Send(ctx, recipient, amount); err != nil {
			return fmt.Errorf("%w: %v", ErrTransferFailed, err)
		}
		return nil
	}
	tok, ok := v.tokens.Token(p.TokenRef)
	if !ok {
		return fmt.Errorf("%w: unknown token %q", ErrTransferFailed, p.TokenRef)
	}
	moved, err := tok.Transfer(ctx, recipient, amount)
	if err != nil {
		return fmt.Errorf("%w: transfer: %v", ErrTransferFailed, err)
	}
	if !moved {
		return fmt.Errorf("%w: transfer returned false", ErrTransferFailed)
	}
	return nil
}

// MemoryBank is an in-process NativeBank keeping per-address balances. It
// backs dev deployments and tests.
type MemoryBank struct {
	mu       sync.Mutex
	balances map[string]int64
}

func NewMemoryBank() *MemoryBank {
	return &MemoryBank{balances: make(map[string]int64)}
}

func (m *MemoryBank) Send(_ context.Context, to string, amount int64) error {
	if to == "" {
		return fmt.Errorf("send to empty address")
	}
	if amount < 0 {
		return fmt.Errorf("negative send amount %d", amount)
	}
	m.mu.Lock()
	m.balances[to] += amount
	m.mu.Unlock()
	return nil
}

// Balance returns the credited balance of an address.
func (m *MemoryBank) Balance(addr string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[addr]
}

// MemoryToken is an in-process TokenContract with balances and allowances.
type MemoryToken struct {
	mu         sync.Mutex
	holder     string
	balances   map[string]int64
	allowances map[string]int64 // from -> amount approved for the engine escrow
}

func NewMemoryToken(holder string) *MemoryToken {
	return &MemoryToken{
		holder:     holder,
		balances:   make(map[string]int64),
		allowances: make(map[string]int64),
	}
}

// Mint credits amount to addr.
func (t *MemoryToken) Mint(addr string, amount int64) {
	t.mu.Lock()
	t.balances[addr] += amount
	t.mu.Unlock()
}

// Approve lets the escrow pull up to amount from addr.
func (t *MemoryToken) Approve(addr string, amount int64) {
	t.mu.Lock()
	t.allowances[addr] = amount
	t.mu.Unlock()
}

func (t *MemoryToken) TransferFrom(_ context.Context, from, to string, amount int64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if amount <= 0 || t.allowances[from] < amount || t.balances[from] < amount {
		return false, nil
	}
	t.allowances[from] -= amount
	t.balances[from] -= amount
	t.balances[to] += amount
	return true, nil
}

func (t *MemoryToken) Transfer(_ context.Context, to string, amount int64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if amount <= 0 || t.balances[t.holder] < amount {
		return false, nil
	}
	t.balances[t.holder] -= amount
	t.balances[to] += amount
	return true, nil
}

// BalanceOf returns addr's token balance.
func (t *MemoryToken) BalanceOf(addr string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balances[addr]
}

// MemoryTokenRegistry is a fixed map of token refs to contracts.
type MemoryTokenRegistry struct {
	mu     sync.Mutex
	tokens map[string]TokenContract
}

func NewMemoryTokenRegistry() *MemoryTokenRegistry {
	return &MemoryTokenRegistry{tokens: make(map[string]TokenContract)}
}

func (r *MemoryTokenRegistry) Register(ref string, tok TokenContract) {
	r.mu.Lock()
	r.tokens[ref] = tok
	r.mu.Unlock()
}

func (r *MemoryTokenRegistry) Token(ref string) (TokenContract, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tok, ok := r.tokens[ref]
	return tok, ok
}
