package mcp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"bountyhub-backend/core/bounty"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the mcp-go server with the bounty engine
type MCPServer struct {
	mcpServer *server.MCPServer
	engine    *bounty.Engine
}

// NewMCPServer creates a new MCP server using the mcp-go library
func NewMCPServer(engine *bounty.Engine) *MCPServer {
	mcpServer := server.NewMCPServer(
		"BountyHub MCP Server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		mcpServer: mcpServer,
		engine:    engine,
	}

	s.registerTools()

	return s
}

// GetMCPServer returns the underlying MCP server for transport setup
func (s *MCPServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// registerTools registers all MCP tools with the server
func (s *MCPServer) registerTools() {
	// Bounty tools
	s.registerIssueBountyTool()
	s.registerListBountiesTool()
	s.registerGetBountyTool()
	s.registerContributeTool()
	s.registerActivateBountyTool()
	s.registerKillBountyTool()
	s.registerExtendDeadlineTool()
	s.registerIncreasePayoutTool()

	// Fulfillment tools
	s.registerFulfillBountyTool()
	s.registerUpdateFulfillmentTool()
	s.registerAcceptFulfillmentTool()
	s.registerFulfillmentPaymentTool()
	s.registerGetFulfillmentTool()
}

func (s *MCPServer) registerIssueBountyTool() {
	tool := mcp.NewTool("issue_bounty",
		mcp.WithDescription("Issue a new bounty. Created in draft unless activate is true, in which case deposit_sats funds it directly into the active stage"),
		mcp.WithString("caller", mcp.Required(), mcp.Description("Identity of the issuer")),
		mcp.WithString("deadline", mcp.Required(), mcp.Description("Submission deadline (ISO 8601 format)")),
		mcp.WithString("data", mcp.Description("Task description or reference")),
		mcp.WithNumber("fulfillment_amount_sats", mcp.Required(), mcp.Description("Reward paid per accepted fulfillment, in satoshis")),
		mcp.WithString("arbiter", mcp.Description("Optional arbiter identity")),
		mcp.WithBoolean("pays_tokens", mcp.Description("Pay in tokens instead of native satoshis")),
		mcp.WithString("token_ref", mcp.Description("Token contract reference when pays_tokens is true")),
		mcp.WithBoolean("activate", mcp.Description("Fund and activate in the same call")),
		mcp.WithNumber("deposit_sats", mcp.Description("Initial deposit when activate is true")),
		mcp.WithNumber("attached_sats", mcp.Description("Native value attached to the call")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		caller, err := request.RequireString("caller")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		deadlineStr, err := request.RequireString("deadline")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		deadline, err := time.Parse(time.RFC3339, deadlineStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("deadline must be ISO 8601: %v", err)), nil
		}

		amount := toInt64(args["fulfillment_amount_sats"])
		tx := bounty.TxContext{
			Caller:   caller,
			Now:      time.Now().UTC(),
			Attached: toInt64(args["attached_sats"]),
		}

		var id int
		if toBool(args["activate"]) {
			id, err = s.engine.IssueAndActivateBounty(ctx, tx, deadline,
				toString(args["data"]), amount, toString(args["arbiter"]),
				toBool(args["pays_tokens"]), toString(args["token_ref"]),
				toInt64(args["deposit_sats"]))
		} else {
			id, err = s.engine.IssueBounty(ctx, tx, deadline,
				toString(args["data"]), amount, toString(args["arbiter"]),
				toBool(args["pays_tokens"]), toString(args["token_ref"]))
		}
		if err != nil {
			return mcp.NewToolResultError(NewEngineError("issue_bounty", err).Error()), nil
		}

		summary, err := s.engine.GetBounty(id)
		if err != nil {
			return mcp.NewToolResultError(NewEngineError("issue_bounty", err).Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Bounty %d issued:\n\n%+v", id, summary)), nil
	})
}

func (s *MCPServer) registerListBountiesTool() {
	tool := mcp.NewTool("list_bounties",
		mcp.WithDescription("List bounties with optional filtering"),
		mcp.WithString("stage", mcp.Description("Filter by stage (draft|active|dead)")),
		mcp.WithString("issuer", mcp.Description("Filter by issuer identity")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of bounties to return")),
		mcp.WithNumber("offset", mcp.Description("Number of bounties to skip")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		filter := bounty.Filter{
			Stage:  bounty.Stage(toString(args["stage"])),
			Issuer: toString(args["issuer"]),
			Limit:  int(toInt64(args["limit"])),
			Offset: int(toInt64(args["offset"])),
		}
		if filter.Stage != "" && !filter.Stage.Valid() {
			return mcp.NewToolResultError("unknown stage filter, expected draft|active|dead"), nil
		}
		if filter.Limit == 0 {
			filter.Limit = 50
		}

		bounties := s.engine.ListBounties(filter)

		result := map[string]interface{}{
			"bounties":    bounties,
			"total_count": len(bounties),
		}

		return mcp.NewToolResultText(fmt.Sprintf("Found %d bounties:\n\n%+v", len(bounties), result)), nil
	})
}

func (s *MCPServer) registerGetBountyTool() {
	tool := mcp.NewTool("get_bounty",
		mcp.WithDescription("Get details of a specific bounty"),
		mcp.WithNumber("bounty_id", mcp.Required(), mcp.Description("ID of bounty to retrieve")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := requireID(request, "bounty_id")
		if !ok {
			return mcp.NewToolResultError(NewMissingFieldError("get_bounty", "bounty_id").Error()), nil
		}

		summary, err := s.engine.GetBounty(id)
		if err != nil {
			return mcp.NewToolResultError(NewEngineError("get_bounty", err).Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Bounty details:\n\n%+v", summary)), nil
	})
}

func (s *MCPServer) registerContributeTool() {
	tool := mcp.NewTool("contribute",
		mcp.WithDescription("Contribute funds to a bounty's escrowed balance. Contributions are irrevocable"),
		mcp.WithNumber("bounty_id", mcp.Required(), mcp.Description("ID of bounty to fund")),
		mcp.WithString("caller", mcp.Required(), mcp.Description("Identity of the contributor")),
		mcp.WithNumber("value_sats", mcp.Required(), mcp.Description("Contribution amount in satoshis")),
		mcp.WithNumber("attached_sats", mcp.Description("Native value attached to the call")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		id, ok := requireID(request, "bounty_id")
		if !ok {
			return mcp.NewToolResultError(NewMissingFieldError("contribute", "bounty_id").Error()), nil
		}
		caller, err := request.RequireString("caller")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		tx := bounty.TxContext{Caller: caller, Now: time.Now().UTC(), Attached: toInt64(args["attached_sats"])}
		if err := s.engine.Contribute(ctx, tx, id, toInt64(args["value_sats"])); err != nil {
			return mcp.NewToolResultError(NewEngineError("contribute", err).Error()), nil
		}

		summary, err := s.engine.GetBounty(id)
		if err != nil {
			return mcp.NewToolResultError(NewEngineError("contribute", err).Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Contribution recorded:\n\n%+v", summary)), nil
	})
}

func (s *MCPServer) registerActivateBountyTool() {
	tool := mcp.NewTool("activate_bounty",
		mcp.WithDescription("Activate a draft bounty, optionally adding funds in the same call"),
		mcp.WithNumber("bounty_id", mcp.Required(), mcp.Description("ID of bounty to activate")),
		mcp.WithString("caller", mcp.Required(), mcp.Description("Identity of the issuer")),
		mcp.WithNumber("value_sats", mcp.Description("Additional funds to add while activating")),
		mcp.WithNumber("attached_sats", mcp.Description("Native value attached to the call")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		id, ok := requireID(request, "bounty_id")
		if !ok {
			return mcp.NewToolResultError(NewMissingFieldError("activate_bounty", "bounty_id").Error()), nil
		}
		caller, err := request.RequireString("caller")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		tx := bounty.TxContext{Caller: caller, Now: time.Now().UTC(), Attached: toInt64(args["attached_sats"])}
		if err := s.engine.ActivateBounty(ctx, tx, id, toInt64(args["value_sats"])); err != nil {
			return mcp.NewToolResultError(NewEngineError("activate_bounty", err).Error()), nil
		}

		summary, err := s.engine.GetBounty(id)
		if err != nil {
			return mcp.NewToolResultError(NewEngineError("activate_bounty", err).Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Bounty activated:\n\n%+v", summary)), nil
	})
}

func (s *MCPServer) registerKillBountyTool() {
	tool := mcp.NewTool("kill_bounty",
		mcp.WithDescription("End a bounty and drain the uncommitted balance back to the issuer. Funds owed to accepted fulfillments stay escrowed"),
		mcp.WithNumber("bounty_id", mcp.Required(), mcp.Description("ID of bounty to kill")),
		mcp.WithString("caller", mcp.Required(), mcp.Description("Identity of the issuer")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := requireID(request, "bounty_id")
		if !ok {
			return mcp.NewToolResultError(NewMissingFieldError("kill_bounty", "bounty_id").Error()), nil
		}
		caller, err := request.RequireString("caller")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		tx := bounty.TxContext{Caller: caller, Now: time.Now().UTC()}
		if err := s.engine.KillBounty(ctx, tx, id); err != nil {
			return mcp.NewToolResultError(NewEngineError("kill_bounty", err).Error()), nil
		}

		summary, err := s.engine.GetBounty(id)
		if err != nil {
			return mcp.NewToolResultError(NewEngineError("kill_bounty", err).Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Bounty killed:\n\n%+v", summary)), nil
	})
}

func (s *MCPServer) registerExtendDeadlineTool() {
	tool := mcp.NewTool("extend_deadline",
		mcp.WithDescription("Move a bounty deadline further into the future"),
		mcp.WithNumber("bounty_id", mcp.Required(), mcp.Description("ID of bounty")),
		mcp.WithString("caller", mcp.Required(), mcp.Description("Identity of the issuer")),
		mcp.WithString("new_deadline", mcp.Required(), mcp.Description("New deadline (ISO 8601 format), must be later than the current one")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := requireID(request, "bounty_id")
		if !ok {
			return mcp.NewToolResultError(NewMissingFieldError("extend_deadline", "bounty_id").Error()), nil
		}
		caller, err := request.RequireString("caller")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		deadlineStr, err := request.RequireString("new_deadline")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		deadline, err := time.Parse(time.RFC3339, deadlineStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("new_deadline must be ISO 8601: %v", err)), nil
		}

		tx := bounty.TxContext{Caller: caller, Now: time.Now().UTC()}
		if err := s.engine.ExtendDeadline(ctx, tx, id, deadline); err != nil {
			return mcp.NewToolResultError(NewEngineError("extend_deadline", err).Error()), nil
		}

		summary, err := s.engine.GetBounty(id)
		if err != nil {
			return mcp.NewToolResultError(NewEngineError("extend_deadline", err).Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Deadline extended:\n\n%+v", summary)), nil
	})
}

func (s *MCPServer) registerIncreasePayoutTool() {
	tool := mcp.NewTool("increase_payout",
		mcp.WithDescription("Raise the per-fulfillment reward. Accepted-but-unpaid fulfillments are topped up to the new rate"),
		mcp.WithNumber("bounty_id", mcp.Required(), mcp.Description("ID of bounty")),
		mcp.WithString("caller", mcp.Required(), mcp.Description("Identity of the issuer")),
		mcp.WithNumber("new_amount_sats", mcp.Required(), mcp.Description("New fulfillment amount, must exceed the current one")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		id, ok := requireID(request, "bounty_id")
		if !ok {
			return mcp.NewToolResultError(NewMissingFieldError("increase_payout", "bounty_id").Error()), nil
		}
		caller, err := request.RequireString("caller")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		tx := bounty.TxContext{Caller: caller, Now: time.Now().UTC()}
		if err := s.engine.IncreasePayout(ctx, tx, id, toInt64(args["new_amount_sats"])); err != nil {
			return mcp.NewToolResultError(NewEngineError("increase_payout", err).Error()), nil
		}

		summary, err := s.engine.GetBounty(id)
		if err != nil {
			return mcp.NewToolResultError(NewEngineError("increase_payout", err).Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Payout increased:\n\n%+v", summary)), nil
	})
}

func (s *MCPServer) registerFulfillBountyTool() {
	tool := mcp.NewTool("fulfill_bounty",
		mcp.WithDescription("Submit a fulfillment against an active bounty"),
		mcp.WithNumber("bounty_id", mcp.Required(), mcp.Description("ID of bounty to fulfill")),
		mcp.WithString("caller", mcp.Required(), mcp.Description("Identity of the fulfiller")),
		mcp.WithString("data", mcp.Description("Submission data or reference")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		id, ok := requireID(request, "bounty_id")
		if !ok {
			return mcp.NewToolResultError(NewMissingFieldError("fulfill_bounty", "bounty_id").Error()), nil
		}
		caller, err := request.RequireString("caller")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		tx := bounty.TxContext{Caller: caller, Now: time.Now().UTC()}
		fid, err := s.engine.FulfillBounty(ctx, tx, id, toString(args["data"]))
		if err != nil {
			return mcp.NewToolResultError(NewEngineError("fulfill_bounty", err).Error()), nil
		}

		result := map[string]interface{}{
			"bounty_id":      id,
			"fulfillment_id": fid,
			"message":        "Fulfillment submitted. Await issuer or arbiter acceptance.",
		}

		return mcp.NewToolResultText(fmt.Sprintf("Fulfillment submitted:\n\n%+v", result)), nil
	})
}

func (s *MCPServer) registerUpdateFulfillmentTool() {
	tool := mcp.NewTool("update_fulfillment",
		mcp.WithDescription("Revise a fulfillment's submission data before it is accepted"),
		mcp.WithNumber("bounty_id", mcp.Required(), mcp.Description("ID of bounty")),
		mcp.WithNumber("fulfillment_id", mcp.Required(), mcp.Description("ID of fulfillment to update")),
		mcp.WithString("caller", mcp.Required(), mcp.Description("Identity of the original fulfiller")),
		mcp.WithString("data", mcp.Description("Revised submission data")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		id, ok := requireID(request, "bounty_id")
		if !ok {
			return mcp.NewToolResultError(NewMissingFieldError("update_fulfillment", "bounty_id").Error()), nil
		}
		fid, ok := requireID(request, "fulfillment_id")
		if !ok {
			return mcp.NewToolResultError(NewMissingFieldError("update_fulfillment", "fulfillment_id").Error()), nil
		}
		caller, err := request.RequireString("caller")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		tx := bounty.TxContext{Caller: caller, Now: time.Now().UTC()}
		if err := s.engine.UpdateFulfillment(ctx, tx, id, fid, toString(args["data"])); err != nil {
			return mcp.NewToolResultError(NewEngineError("update_fulfillment", err).Error()), nil
		}

		f, err := s.engine.GetFulfillment(id, fid)
		if err != nil {
			return mcp.NewToolResultError(NewEngineError("update_fulfillment", err).Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Fulfillment updated:\n\n%+v", f)), nil
	})
}

func (s *MCPServer) registerAcceptFulfillmentTool() {
	tool := mcp.NewTool("accept_fulfillment",
		mcp.WithDescription("Accept a fulfillment, committing one fulfillment amount of the balance to its fulfiller"),
		mcp.WithNumber("bounty_id", mcp.Required(), mcp.Description("ID of bounty")),
		mcp.WithNumber("fulfillment_id", mcp.Required(), mcp.Description("ID of fulfillment to accept")),
		mcp.WithString("caller", mcp.Required(), mcp.Description("Identity of the issuer or arbiter")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := requireID(request, "bounty_id")
		if !ok {
			return mcp.NewToolResultError(NewMissingFieldError("accept_fulfillment", "bounty_id").Error()), nil
		}
		fid, ok := requireID(request, "fulfillment_id")
		if !ok {
			return mcp.NewToolResultError(NewMissingFieldError("accept_fulfillment", "fulfillment_id").Error()), nil
		}
		caller, err := request.RequireString("caller")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		tx := bounty.TxContext{Caller: caller, Now: time.Now().UTC()}
		if err := s.engine.AcceptFulfillment(ctx, tx, id, fid); err != nil {
			return mcp.NewToolResultError(NewEngineError("accept_fulfillment", err).Error()), nil
		}

		f, err := s.engine.GetFulfillment(id, fid)
		if err != nil {
			return mcp.NewToolResultError(NewEngineError("accept_fulfillment", err).Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Fulfillment accepted:\n\n%+v", f)), nil
	})
}

func (s *MCPServer) registerFulfillmentPaymentTool() {
	tool := mcp.NewTool("fulfillment_payment",
		mcp.WithDescription("Collect payment for an accepted fulfillment"),
		mcp.WithNumber("bounty_id", mcp.Required(), mcp.Description("ID of bounty")),
		mcp.WithNumber("fulfillment_id", mcp.Required(), mcp.Description("ID of accepted fulfillment")),
		mcp.WithString("caller", mcp.Required(), mcp.Description("Identity of the fulfiller")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := requireID(request, "bounty_id")
		if !ok {
			return mcp.NewToolResultError(NewMissingFieldError("fulfillment_payment", "bounty_id").Error()), nil
		}
		fid, ok := requireID(request, "fulfillment_id")
		if !ok {
			return mcp.NewToolResultError(NewMissingFieldError("fulfillment_payment", "fulfillment_id").Error()), nil
		}
		caller, err := request.RequireString("caller")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		tx := bounty.TxContext{Caller: caller, Now: time.Now().UTC()}
		if err := s.engine.FulfillmentPayment(ctx, tx, id, fid); err != nil {
			return mcp.NewToolResultError(NewEngineError("fulfillment_payment", err).Error()), nil
		}

		f, err := s.engine.GetFulfillment(id, fid)
		if err != nil {
			return mcp.NewToolResultError(NewEngineError("fulfillment_payment", err).Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Fulfillment paid:\n\n%+v", f)), nil
	})
}

func (s *MCPServer) registerGetFulfillmentTool() {
	tool := mcp.NewTool("get_fulfillment",
		mcp.WithDescription("Get details of a specific fulfillment"),
		mcp.WithNumber("bounty_id", mcp.Required(), mcp.Description("ID of bounty")),
		mcp.WithNumber("fulfillment_id", mcp.Required(), mcp.Description("ID of fulfillment to retrieve")),
	)

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := requireID(request, "bounty_id")
		if !ok {
			return mcp.NewToolResultError(NewMissingFieldError("get_fulfillment", "bounty_id").Error()), nil
		}
		fid, ok := requireID(request, "fulfillment_id")
		if !ok {
			return mcp.NewToolResultError(NewMissingFieldError("get_fulfillment", "fulfillment_id").Error()), nil
		}

		f, err := s.engine.GetFulfillment(id, fid)
		if err != nil {
			return mcp.NewToolResultError(NewEngineError("get_fulfillment", err).Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Fulfillment details:\n\n%+v", f)), nil
	})
}

// requireID extracts a required integer id argument.
func requireID(request mcp.CallToolRequest, field string) (int, bool) {
	val, ok := request.GetArguments()[field]
	if !ok || val == nil {
		return 0, false
	}
	return int(toInt64(val)), true
}

// Helper function to convert interface{} to string
func toString(val interface{}) string {
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

// Helper function to convert interface{} to int64
func toInt64(val interface{}) int64 {
	if i, ok := val.(int64); ok {
		return i
	}
	if i, ok := val.(int); ok {
		return int64(i)
	}
	if f, ok := val.(float64); ok {
		return int64(f)
	}
	if str, ok := val.(string); ok {
		if i, err := strconv.ParseInt(str, 10, 64); err == nil {
			return i
		}
	}
	return 0
}

// Helper function to convert interface{} to bool
func toBool(val interface{}) bool {
	if b, ok := val.(bool); ok {
		return b
	}
	return false
}
