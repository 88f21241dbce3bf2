package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bountyhub-backend/core/bounty"
	"bountyhub-backend/models"
	"bountyhub-backend/services"
)

func newTestHandler() *BountyHandler {
	bank := bounty.NewMemoryBank()
	tokens := bounty.NewMemoryTokenRegistry()
	vault := bounty.NewVault(bank, tokens, "escrow")
	engine := bounty.NewEngine("owner", vault)
	return NewBountyHandler(engine, services.NewPaymentService("escrow"))
}

func doJSON(t *testing.T, h *BountyHandler, method, path string, body interface{}) (*httptest.ResponseRecorder, *models.APIResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.Bounties(rec, req)

	resp := &models.APIResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), resp); err != nil {
		return rec, nil
	}
	return rec, resp
}

func issueRequest(amount int64) models.IssueBountyRequest {
	return models.IssueBountyRequest{
		Caller:            "alice",
		Deadline:          time.Now().Add(24 * time.Hour).Unix(),
		Data:              "write docs",
		FulfillmentAmount: amount,
	}
}

func TestBountyEndpoints(t *testing.T) {
	t.Run("issue and get", func(t *testing.T) {
		h := newTestHandler()
		rec, resp := doJSON(t, h, http.MethodPost, "/api/bounties", issueRequest(100))
		if rec.Code != http.StatusOK {
			t.Fatalf("issue status = %d, body %s", rec.Code, rec.Body.String())
		}
		if resp == nil || !resp.Success {
			t.Fatalf("issue response not successful: %+v", resp)
		}

		rec, resp = doJSON(t, h, http.MethodGet, "/api/bounties/0", nil)
		if rec.Code != http.StatusOK || !resp.Success {
			t.Fatalf("get status = %d", rec.Code)
		}
		data := resp.Data.(map[string]interface{})
		if data["stage"] != "draft" {
			t.Errorf("stage = %v, want draft", data["stage"])
		}
	})

	t.Run("issue and activate with deposit", func(t *testing.T) {
		h := newTestHandler()
		req := issueRequest(100)
		req.Activate = true
		req.DepositSats = 250
		req.AttachedSats = 250
		rec, resp := doJSON(t, h, http.MethodPost, "/api/bounties", req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		data := resp.Data.(map[string]interface{})
		if data["stage"] != "active" || data["balance_sats"] != float64(250) {
			t.Errorf("stage/balance = %v/%v", data["stage"], data["balance_sats"])
		}
	})

	t.Run("unknown bounty returns 404", func(t *testing.T) {
		h := newTestHandler()
		rec, resp := doJSON(t, h, http.MethodGet, "/api/bounties/42", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
		if resp.Success || resp.Error == nil || resp.Error.Error != "not_found" {
			t.Errorf("error envelope = %+v", resp.Error)
		}
	})

	t.Run("non-numeric id returns 400", func(t *testing.T) {
		h := newTestHandler()
		rec, _ := doJSON(t, h, http.MethodGet, "/api/bounties/abc", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("contribute value mismatch returns 400", func(t *testing.T) {
		h := newTestHandler()
		doJSON(t, h, http.MethodPost, "/api/bounties", issueRequest(100))

		rec, resp := doJSON(t, h, http.MethodPost, "/api/bounties/0/contribute",
			models.FundBountyRequest{Caller: "bob", ValueSats: 60, AttachedSats: 30})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if resp.Error == nil || resp.Error.Error != "value_mismatch" {
			t.Errorf("error = %+v", resp.Error)
		}
	})

	t.Run("activate underfunded returns 402", func(t *testing.T) {
		h := newTestHandler()
		doJSON(t, h, http.MethodPost, "/api/bounties", issueRequest(100))

		rec, resp := doJSON(t, h, http.MethodPost, "/api/bounties/0/activate",
			models.FundBountyRequest{Caller: "alice", ValueSats: 50, AttachedSats: 50})
		if rec.Code != http.StatusPaymentRequired {
			t.Errorf("status = %d, want 402", rec.Code)
		}
		if resp.Error == nil || resp.Error.Error != "underfunded" {
			t.Errorf("error = %+v", resp.Error)
		}
	})

	t.Run("kill by stranger returns 403", func(t *testing.T) {
		h := newTestHandler()
		doJSON(t, h, http.MethodPost, "/api/bounties", issueRequest(100))

		rec, _ := doJSON(t, h, http.MethodPost, "/api/bounties/0/kill",
			models.CallerRequest{Caller: "mallory"})
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("draft patch applies present fields only", func(t *testing.T) {
		h := newTestHandler()
		doJSON(t, h, http.MethodPost, "/api/bounties", issueRequest(100))

		data := "revised"
		amount := int64(175)
		rec, resp := doJSON(t, h, http.MethodPatch, "/api/bounties/0",
			models.ChangeBountyRequest{Caller: "alice", Data: &data, FulfillmentAmount: &amount})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		got := resp.Data.(map[string]interface{})
		if got["data"] != "revised" || got["fulfillment_amount_sats"] != float64(175) {
			t.Errorf("patched fields = %v/%v", got["data"], got["fulfillment_amount_sats"])
		}
	})

	t.Run("funding qr returns a png", func(t *testing.T) {
		h := newTestHandler()
		doJSON(t, h, http.MethodPost, "/api/bounties", issueRequest(100))

		req := httptest.NewRequest(http.MethodGet, "/api/bounties/0/qr", nil)
		rec := httptest.NewRecorder()
		h.Bounties(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("content type = %s, want image/png", ct)
		}
		if rec.Body.Len() == 0 {
			t.Error("empty QR body")
		}
	})

	t.Run("list with stage filter", func(t *testing.T) {
		h := newTestHandler()
		doJSON(t, h, http.MethodPost, "/api/bounties", issueRequest(100))
		req := issueRequest(100)
		req.Activate = true
		req.DepositSats = 100
		req.AttachedSats = 100
		doJSON(t, h, http.MethodPost, "/api/bounties", req)

		rec, resp := doJSON(t, h, http.MethodGet, "/api/bounties?stage=active", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		data := resp.Data.(map[string]interface{})
		if data["total"] != float64(1) {
			t.Errorf("total = %v, want 1", data["total"])
		}
	})
}

func TestFulfillmentEndpoints(t *testing.T) {
	activeBounty := func(t *testing.T, h *BountyHandler) {
		t.Helper()
		req := issueRequest(100)
		req.Activate = true
		req.DepositSats = 250
		req.AttachedSats = 250
		rec, _ := doJSON(t, h, http.MethodPost, "/api/bounties", req)
		if rec.Code != http.StatusOK {
			t.Fatalf("setup issue failed: %s", rec.Body.String())
		}
	}

	t.Run("submit accept pay", func(t *testing.T) {
		h := newTestHandler()
		activeBounty(t, h)

		rec, resp := doJSON(t, h, http.MethodPost, "/api/bounties/0/fulfillments",
			models.FulfillmentRequest{Caller: "bob", Data: "work"})
		if rec.Code != http.StatusOK {
			t.Fatalf("submit status = %d, body %s", rec.Code, rec.Body.String())
		}
		fdata := resp.Data.(map[string]interface{})
		fid := int(fdata["id"].(float64))

		rec, _ = doJSON(t, h, http.MethodPost,
			fmt.Sprintf("/api/bounties/0/fulfillments/%d/accept", fid),
			models.CallerRequest{Caller: "alice"})
		if rec.Code != http.StatusOK {
			t.Fatalf("accept status = %d, body %s", rec.Code, rec.Body.String())
		}

		rec, resp = doJSON(t, h, http.MethodPost,
			fmt.Sprintf("/api/bounties/0/fulfillments/%d/pay", fid),
			models.CallerRequest{Caller: "bob"})
		if rec.Code != http.StatusOK {
			t.Fatalf("pay status = %d, body %s", rec.Code, rec.Body.String())
		}
		fdata = resp.Data.(map[string]interface{})
		if fdata["paid"] != true {
			t.Errorf("paid = %v, want true", fdata["paid"])
		}
	})

	t.Run("double accept returns 409", func(t *testing.T) {
		h := newTestHandler()
		activeBounty(t, h)
		doJSON(t, h, http.MethodPost, "/api/bounties/0/fulfillments",
			models.FulfillmentRequest{Caller: "bob", Data: "work"})
		doJSON(t, h, http.MethodPost, "/api/bounties/0/fulfillments/0/accept",
			models.CallerRequest{Caller: "alice"})

		rec, resp := doJSON(t, h, http.MethodPost, "/api/bounties/0/fulfillments/0/accept",
			models.CallerRequest{Caller: "alice"})
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
		if resp.Error == nil || resp.Error.Error != "already_accepted" {
			t.Errorf("error = %+v", resp.Error)
		}
	})

	t.Run("pay before accept returns 409", func(t *testing.T) {
		h := newTestHandler()
		activeBounty(t, h)
		doJSON(t, h, http.MethodPost, "/api/bounties/0/fulfillments",
			models.FulfillmentRequest{Caller: "bob", Data: "work"})

		rec, resp := doJSON(t, h, http.MethodPost, "/api/bounties/0/fulfillments/0/pay",
			models.CallerRequest{Caller: "bob"})
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
		if resp.Error == nil || resp.Error.Error != "not_accepted" {
			t.Errorf("error = %+v", resp.Error)
		}
	})

	t.Run("issuer self-fulfill returns 403", func(t *testing.T) {
		h := newTestHandler()
		activeBounty(t, h)

		rec, _ := doJSON(t, h, http.MethodPost, "/api/bounties/0/fulfillments",
			models.FulfillmentRequest{Caller: "alice", Data: "self"})
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("list fulfillments", func(t *testing.T) {
		h := newTestHandler()
		activeBounty(t, h)
		doJSON(t, h, http.MethodPost, "/api/bounties/0/fulfillments",
			models.FulfillmentRequest{Caller: "bob", Data: "one"})
		doJSON(t, h, http.MethodPost, "/api/bounties/0/fulfillments",
			models.FulfillmentRequest{Caller: "dave", Data: "two"})

		rec, resp := doJSON(t, h, http.MethodGet, "/api/bounties/0/fulfillments", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		data := resp.Data.(map[string]interface{})
		if data["total"] != float64(2) {
			t.Errorf("total = %v, want 2", data["total"])
		}
	})
}
