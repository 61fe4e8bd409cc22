package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rmfwatch/rmf-dashboard/internal/model"
	"github.com/rmfwatch/rmf-dashboard/internal/service"
)

// MCPHandler exposes the fund query surface as MCP tools over a single
// JSON-RPC 2.0 endpoint, so LLM clients can call the same operations the
// REST API serves.
type MCPHandler struct {
	fundService *service.FundService
	navService  *service.NavService
}

// NewMCPHandler creates a new MCPHandler with the provided services.
func NewMCPHandler(fundService *service.FundService, navService *service.NavService) *MCPHandler {
	return &MCPHandler{
		fundService: fundService,
		navService:  navService,
	}
}

// JSON-RPC 2.0 error codes used by the dispatcher.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// toolDescriptor describes one MCP tool for tools/list.
type toolDescriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// toolResult is the MCP content wrapper around a tool's JSON payload.
type toolResult struct {
	Content []toolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type toolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Dispatch handles POST requests carrying one JSON-RPC message.
//
// Endpoint: POST /api/mcp
// Methods: initialize, tools/list, tools/call
func (h *MCPHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusOK, rpcResponse{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: codeParseError, Message: "invalid JSON-RPC request"},
		})
		return
	}

	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}

	switch req.Method {
	case "initialize":
		resp.Result = map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities":    map[string]interface{}{"tools": map[string]interface{}{}},
			"serverInfo": map[string]interface{}{
				"name":    "rmf-dashboard",
				"version": "1.0.0",
			},
		}
	case "tools/list":
		resp.Result = map[string]interface{}{"tools": toolCatalog()}
	case "tools/call":
		result, rpcErr := h.callTool(r.Context(), req.Params)
		if rpcErr != nil {
			resp.Error = rpcErr
		} else {
			resp.Result = result
		}
	default:
		resp.Error = &rpcError{Code: codeMethodNotFound, Message: "unknown method: " + req.Method}
	}

	respondJSON(w, http.StatusOK, resp)
}

func toolCatalog() []toolDescriptor {
	number := map[string]interface{}{"type": "number"}
	str := map[string]interface{}{"type": "string"}
	objectSchema := func(required []string, props map[string]interface{}) map[string]interface{} {
		schema := map[string]interface{}{
			"type":       "object",
			"properties": props,
		}
		if len(required) > 0 {
			schema["required"] = required
		}
		return schema
	}

	return []toolDescriptor{
		{
			Name:        "search_funds",
			Description: "Search Thai RMF funds by name, AMC, category, risk level, or minimum YTD return.",
			InputSchema: objectSchema(nil, map[string]interface{}{
				"query": str, "amc": str, "category": str, "sortBy": str,
				"minRisk": number, "maxRisk": number, "minYtd": number, "limit": number,
			}),
		},
		{
			Name:        "get_fund",
			Description: "Get the full record of one RMF fund by symbol.",
			InputSchema: objectSchema([]string{"symbol"}, map[string]interface{}{"symbol": str}),
		},
		{
			Name:        "top_funds",
			Description: "List the best-performing RMF funds for a return horizon (ytd, 1y, 3y, 5y).",
			InputSchema: objectSchema(nil, map[string]interface{}{
				"horizon": str, "limit": number, "riskLevel": number,
			}),
		},
		{
			Name:        "get_nav_history",
			Description: "Get a fund's trailing NAV history with daily changes and period statistics.",
			InputSchema: objectSchema([]string{"symbol"}, map[string]interface{}{
				"symbol": str, "days": number,
			}),
		},
	}
}

func (h *MCPHandler) callTool(ctx context.Context, params json.RawMessage) (*toolResult, *rpcError) {
	var call struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "invalid tools/call params"}
	}

	switch call.Name {
	case "search_funds":
		return h.toolSearchFunds(call.Arguments)
	case "get_fund":
		return h.toolGetFund(call.Arguments)
	case "top_funds":
		return h.toolTopFunds(call.Arguments)
	case "get_nav_history":
		return h.toolNavHistory(ctx, call.Arguments)
	default:
		return nil, &rpcError{Code: codeMethodNotFound, Message: "unknown tool: " + call.Name}
	}
}

func (h *MCPHandler) toolSearchFunds(args json.RawMessage) (*toolResult, *rpcError) {
	var input struct {
		Query    string   `json:"query"`
		AMC      string   `json:"amc"`
		Category string   `json:"category"`
		SortBy   string   `json:"sortBy"`
		MinRisk  *int     `json:"minRisk"`
		MaxRisk  *int     `json:"maxRisk"`
		MinYtd   *float64 `json:"minYtd"`
		Limit    *int     `json:"limit"`
	}
	if err := unmarshalArgs(args, &input); err != nil {
		return nil, err
	}

	limit := 20
	if input.Limit != nil {
		limit = *input.Limit
	}
	result, err := h.fundService.Search(service.SearchFilters{
		Query:        input.Query,
		AMC:          input.AMC,
		Category:     input.Category,
		SortBy:       input.SortBy,
		MinRiskLevel: input.MinRisk,
		MaxRiskLevel: input.MaxRisk,
		MinYTD:       input.MinYtd,
		Limit:        &limit,
	})
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(result)
}

func (h *MCPHandler) toolGetFund(args json.RawMessage) (*toolResult, *rpcError) {
	var input struct {
		Symbol string `json:"symbol"`
	}
	if err := unmarshalArgs(args, &input); err != nil {
		return nil, err
	}
	if input.Symbol == "" {
		return nil, &rpcError{Code: codeInvalidParams, Message: "symbol is required"}
	}

	fund, err := h.fundService.GetBySymbol(input.Symbol)
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(fund)
}

func (h *MCPHandler) toolTopFunds(args json.RawMessage) (*toolResult, *rpcError) {
	var input struct {
		Horizon   string `json:"horizon"`
		Limit     *int   `json:"limit"`
		RiskLevel *int   `json:"riskLevel"`
	}
	if err := unmarshalArgs(args, &input); err != nil {
		return nil, err
	}

	horizon := model.Horizon(input.Horizon)
	if horizon == "" {
		horizon = model.HorizonYTD
	}
	limit := 10
	if input.Limit != nil {
		limit = *input.Limit
	}

	top, err := h.fundService.TopByHorizon(horizon, limit, input.RiskLevel)
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(map[string]interface{}{"horizon": horizon, "funds": top})
}

func (h *MCPHandler) toolNavHistory(ctx context.Context, args json.RawMessage) (*toolResult, *rpcError) {
	var input struct {
		Symbol string `json:"symbol"`
		Days   *int   `json:"days"`
	}
	if err := unmarshalArgs(args, &input); err != nil {
		return nil, err
	}
	if input.Symbol == "" {
		return nil, &rpcError{Code: codeInvalidParams, Message: "symbol is required"}
	}

	days := 30
	if input.Days != nil {
		days = *input.Days
	}

	history, err := h.navService.GetHistory(ctx, input.Symbol, days)
	if err != nil {
		return toolError(err), nil
	}
	if history == nil {
		return &toolResult{
			Content: []toolContent{{Type: "text", Text: "no nav history for " + input.Symbol}},
			IsError: true,
		}, nil
	}
	return toolJSON(history)
}

func unmarshalArgs(args json.RawMessage, out interface{}) *rpcError {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, out); err != nil {
		return &rpcError{Code: codeInvalidParams, Message: "invalid tool arguments"}
	}
	return nil
}

// toolJSON wraps a payload as MCP text content.
func toolJSON(payload interface{}) (*toolResult, *rpcError) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &rpcError{Code: codeInternalError, Message: "failed to encode tool result"}
	}
	return &toolResult{
		Content: []toolContent{{Type: "text", Text: string(data)}},
	}, nil
}

// toolError reports a service failure as a tool-level error, per MCP
// convention, so the RPC layer still answers 200.
func toolError(err error) *toolResult {
	return &toolResult{
		Content: []toolContent{{Type: "text", Text: err.Error()}},
		IsError: true,
	}
}
