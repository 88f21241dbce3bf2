package bounty

import (
	"context"
	"errors"
	"testing"
)

func TestVaultCollect(t *testing.T) {
	ctx := context.Background()

	t.Run("native requires exact attached value", func(t *testing.T) {
		v := NewVault(NewMemoryBank(), NewMemoryTokenRegistry(), "escrow")
		p := Payment{BountyID: 0}

		if err := v.Collect(ctx, p, "alice", 100, 100); err != nil {
			t.Errorf("exact attach failed: %v", err)
		}
		if err := v.Collect(ctx, p, "alice", 100, 99); !errors.Is(err, ErrValueMismatch) {
			t.Errorf("short attach err = %v, want ErrValueMismatch", err)
		}
		if err := v.Collect(ctx, p, "alice", 100, 101); !errors.Is(err, ErrValueMismatch) {
			t.Errorf("over attach err = %v, want ErrValueMismatch", err)
		}
	})

	t.Run("token pulls through transferFrom", func(t *testing.T) {
		reg := NewMemoryTokenRegistry()
		tok := NewMemoryToken("escrow")
		reg.Register("widget", tok)
		tok.Mint("alice", 200)
		tok.Approve("alice", 150)
		v := NewVault(NewMemoryBank(), reg, "escrow")
		p := Payment{BountyID: 0, PaysTokens: true, TokenRef: "widget"}

		if err := v.Collect(ctx, p, "alice", 150, 0); err != nil {
			t.Fatalf("Collect failed: %v", err)
		}
		if got := tok.BalanceOf("escrow"); got != 150 {
			t.Errorf("escrow balance = %d, want 150", got)
		}

		// allowance spent
		if err := v.Collect(ctx, p, "alice", 50, 0); !errors.Is(err, ErrTransferFailed) {
			t.Errorf("err = %v, want ErrTransferFailed", err)
		}
	})

	t.Run("token rejects riding native value", func(t *testing.T) {
		reg := NewMemoryTokenRegistry()
		reg.Register("widget", NewMemoryToken("escrow"))
		v := NewVault(NewMemoryBank(), reg, "escrow")
		p := Payment{PaysTokens: true, TokenRef: "widget"}
		if err := v.Collect(ctx, p, "alice", 100, 100); !errors.Is(err, ErrValueMismatch) {
			t.Errorf("err = %v, want ErrValueMismatch", err)
		}
	})

	t.Run("unknown token ref", func(t *testing.T) {
		v := NewVault(NewMemoryBank(), NewMemoryTokenRegistry(), "escrow")
		p := Payment{PaysTokens: true, TokenRef: "missing"}
		if err := v.Collect(ctx, p, "alice", 100, 0); !errors.Is(err, ErrTransferFailed) {
			t.Errorf("err = %v, want ErrTransferFailed", err)
		}
	})
}

func TestVaultPayOut(t *testing.T) {
	ctx := context.Background()

	t.Run("native credits the bank", func(t *testing.T) {
		bank := NewMemoryBank()
		v := NewVault(bank, NewMemoryTokenRegistry(), "escrow")
		if err := v.PayOut(ctx, Payment{}, "bob", 75); err != nil {
			t.Fatalf("PayOut failed: %v", err)
		}
		if got := bank.Balance("bob"); got != 75 {
			t.Errorf("bank balance = %d, want 75", got)
		}
	})

	t.Run("token pays from escrow holdings", func(t *testing.T) {
		reg := NewMemoryTokenRegistry()
		tok := NewMemoryToken("escrow")
		reg.Register("widget", tok)
		tok.Mint("escrow", 100)
		v := NewVault(NewMemoryBank(), reg, "escrow")
		p := Payment{PaysTokens: true, TokenRef: "widget"}

		if err := v.PayOut(ctx, p, "bob", 60); err != nil {
			t.Fatalf("PayOut failed: %v", err)
		}
		if got := tok.BalanceOf("bob"); got != 60 {
			t.Errorf("recipient balance = %d, want 60", got)
		}

		// escrow only holds 40 now
		if err := v.PayOut(ctx, p, "bob", 50); !errors.Is(err, ErrTransferFailed) {
			t.Errorf("overdraw err = %v, want ErrTransferFailed", err)
		}
	})

	t.Run("empty recipient fails", func(t *testing.T) {
		v := NewVault(NewMemoryBank(), NewMemoryTokenRegistry(), "escrow")
		if err := v.PayOut(ctx, Payment{}, "", 10); !errors.Is(err, ErrTransferFailed) {
			t.Errorf("err = %v, want ErrTransferFailed", err)
		}
	})
}
