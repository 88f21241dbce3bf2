package bounty

import (
	"context"
	"testing"
	"time"

	"bountyhub-backend/core/bounty"
)

func testBounty(issuer string) *bounty.Bounty {
	return &bounty.Bounty{
		Issuer:            issuer,
		Deadline:          time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		Data:              "task",
		FulfillmentAmount: 100,
		Stage:             bounty.StageDraft,
		CreatedAt:         time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	for id := 0; id < 3; id++ {
		if err := s.SaveBounty(ctx, id, testBounty("alice")); err != nil {
			t.Fatalf("SaveBounty(%d) failed: %v", id, err)
		}
	}
	f := &bounty.Fulfillment{Fulfiller: "bob", Data: "work"}
	if err := s.SaveFulfillment(ctx, 1, 0, f); err != nil {
		t.Fatalf("SaveFulfillment failed: %v", err)
	}

	loaded, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("loaded %d bounties, want 3", len(loaded))
	}
	if loaded[0].Issuer != "alice" || loaded[0].FulfillmentAmount != 100 {
		t.Errorf("bounty fields lost: %+v", loaded[0])
	}
	if len(loaded[1].Fulfillments) != 1 || loaded[1].Fulfillments[0].Fulfiller != "bob" {
		t.Errorf("fulfillments lost: %+v", loaded[1].Fulfillments)
	}
	if len(loaded[0].Fulfillments) != 0 || len(loaded[2].Fulfillments) != 0 {
		t.Error("fulfillments attached to the wrong bounty")
	}
}

func TestMemoryStoreUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	b := testBounty("alice")
	if err := s.SaveBounty(ctx, 0, b); err != nil {
		t.Fatalf("SaveBounty failed: %v", err)
	}
	b.Stage = bounty.StageActive
	b.Balance = 250
	if err := s.SaveBounty(ctx, 0, b); err != nil {
		t.Fatalf("SaveBounty upsert failed: %v", err)
	}

	loaded, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if loaded[0].Stage != bounty.StageActive || loaded[0].Balance != 250 {
		t.Errorf("upsert not applied: stage=%s balance=%d", loaded[0].Stage, loaded[0].Balance)
	}
}

func TestMemoryStoreSequenceHole(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.SaveBounty(ctx, 0, testBounty("alice")); err != nil {
		t.Fatalf("SaveBounty failed: %v", err)
	}
	if err := s.SaveBounty(ctx, 2, testBounty("bob")); err != nil {
		t.Fatalf("SaveBounty failed: %v", err)
	}

	if _, err := s.LoadAll(ctx); err == nil {
		t.Error("LoadAll accepted a sequence hole")
	}
}

func TestMemoryStoreFulfillmentNeedsBounty(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	f := &bounty.Fulfillment{Fulfiller: "bob"}
	if err := s.SaveFulfillment(ctx, 5, 0, f); err == nil {
		t.Error("SaveFulfillment accepted an unknown bounty")
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	b := testBounty("alice")
	if err := s.SaveBounty(ctx, 0, b); err != nil {
		t.Fatalf("SaveBounty failed: %v", err)
	}
	b.Balance = 999

	loaded, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if loaded[0].Balance != 0 {
		t.Errorf("store aliases caller memory: balance = %d", loaded[0].Balance)
	}
}

func TestEngineRestoreFromStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	tx := func(caller string, attached int64) bounty.TxContext {
		return bounty.TxContext{Caller: caller, Now: base, Attached: attached}
	}

	vault := bounty.NewVault(bounty.NewMemoryBank(), bounty.NewMemoryTokenRegistry(), "escrow")
	e := bounty.NewEngine("owner", vault, bounty.WithStore(s))

	id, err := e.IssueAndActivateBounty(ctx, tx("alice", 200), base.Add(24*time.Hour),
		"task", 100, "", false, "", 200)
	if err != nil {
		t.Fatalf("IssueAndActivateBounty failed: %v", err)
	}
	fid, err := e.FulfillBounty(ctx, tx("bob", 0), id, "work")
	if err != nil {
		t.Fatalf("FulfillBounty failed: %v", err)
	}
	if err := e.AcceptFulfillment(ctx, tx("alice", 0), id, fid); err != nil {
		t.Fatalf("AcceptFulfillment failed: %v", err)
	}

	// A fresh engine over the same store sees identical state.
	restored := bounty.NewEngine("owner", vault, bounty.WithStore(s))
	if err := restored.Restore(ctx); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	sum, err := restored.GetBounty(id)
	if err != nil {
		t.Fatalf("GetBounty failed: %v", err)
	}
	if sum.Stage != bounty.StageActive || sum.Balance != 200 || sum.OwedAmount != 100 {
		t.Errorf("restored stage/balance/owed = %s/%d/%d, want active/200/100",
			sum.Stage, sum.Balance, sum.OwedAmount)
	}
	f, err := restored.GetFulfillment(id, fid)
	if err != nil {
		t.Fatalf("GetFulfillment failed: %v", err)
	}
	if f.Fulfiller != "bob" || !f.Accepted || f.Paid {
		t.Errorf("restored fulfillment = %+v", f)
	}
}
