package ledgerv1

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "splitledger.v1.LedgerService"

// Procedure paths, as used in HTTP routes and in connect.Spec.Procedure.
const (
	LedgerServiceAddParticipantProcedure   = "/splitledger.v1.LedgerService/AddParticipant"
	LedgerServiceListParticipantsProcedure = "/splitledger.v1.LedgerService/ListParticipants"
	LedgerServicePreviewSplitProcedure     = "/splitledger.v1.LedgerService/PreviewSplit"
	LedgerServiceCreateExpenseProcedure    = "/splitledger.v1.LedgerService/CreateExpense"
	LedgerServiceListExpensesProcedure     = "/splitledger.v1.LedgerService/ListExpenses"
	LedgerServiceRecordSettlementProcedure = "/splitledger.v1.LedgerService/RecordSettlement"
	LedgerServiceListSettlementsProcedure  = "/splitledger.v1.LedgerService/ListSettlements"
	LedgerServiceGetBalancesProcedure      = "/splitledger.v1.LedgerService/GetBalances"
)

// LedgerServiceHandler is implemented by the server side of the service.
type LedgerServiceHandler interface {
	AddParticipant(context.Context, *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error)
	ListParticipants(context.Context, *connect.Request[ListParticipantsRequest]) (*connect.Response[ListParticipantsResponse], error)
	PreviewSplit(context.Context, *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error)
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	RecordSettlement(context.Context, *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for svc. It returns the path
// prefix to mount the handler on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(LedgerServiceAddParticipantProcedure, connect.NewUnaryHandler(LedgerServiceAddParticipantProcedure, svc.AddParticipant, opts...))
	mux.Handle(LedgerServiceListParticipantsProcedure, connect.NewUnaryHandler(LedgerServiceListParticipantsProcedure, svc.ListParticipants, opts...))
	mux.Handle(LedgerServicePreviewSplitProcedure, connect.NewUnaryHandler(LedgerServicePreviewSplitProcedure, svc.PreviewSplit, opts...))
	mux.Handle(LedgerServiceCreateExpenseProcedure, connect.NewUnaryHandler(LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opts...))
	mux.Handle(LedgerServiceListExpensesProcedure, connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(LedgerServiceRecordSettlementProcedure, connect.NewUnaryHandler(LedgerServiceRecordSettlementProcedure, svc.RecordSettlement, opts...))
	mux.Handle(LedgerServiceListSettlementsProcedure, connect.NewUnaryHandler(LedgerServiceListSettlementsProcedure, svc.ListSettlements, opts...))
	mux.Handle(LedgerServiceGetBalancesProcedure, connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...))
	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient calls a remote LedgerService.
type LedgerServiceClient interface {
	AddParticipant(context.Context, *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error)
	ListParticipants(context.Context, *connect.Request[ListParticipantsRequest]) (*connect.Response[ListParticipantsResponse], error)
	PreviewSplit(context.Context, *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error)
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	RecordSettlement(context.Context, *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
}

// NewLedgerServiceClient constructs a client for the service at baseURL
// (for example, http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &ledgerServiceClient{
		addParticipant:   connect.NewClient[AddParticipantRequest, AddParticipantResponse](httpClient, baseURL+LedgerServiceAddParticipantProcedure, opts...),
		listParticipants: connect.NewClient[ListParticipantsRequest, ListParticipantsResponse](httpClient, baseURL+LedgerServiceListParticipantsProcedure, opts...),
		previewSplit:     connect.NewClient[PreviewSplitRequest, PreviewSplitResponse](httpClient, baseURL+LedgerServicePreviewSplitProcedure, opts...),
		createExpense:    connect.NewClient[CreateExpenseRequest, CreateExpenseResponse](httpClient, baseURL+LedgerServiceCreateExpenseProcedure, opts...),
		listExpenses:     connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		recordSettlement: connect.NewClient[RecordSettlementRequest, RecordSettlementResponse](httpClient, baseURL+LedgerServiceRecordSettlementProcedure, opts...),
		listSettlements:  connect.NewClient[ListSettlementsRequest, ListSettlementsResponse](httpClient, baseURL+LedgerServiceListSettlementsProcedure, opts...),
		getBalances:      connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	addParticipant   *connect.Client[AddParticipantRequest, AddParticipantResponse]
	listParticipants *connect.Client[ListParticipantsRequest, ListParticipantsResponse]
	previewSplit     *connect.Client[PreviewSplitRequest, PreviewSplitResponse]
	createExpense    *connect.Client[CreateExpenseRequest, CreateExpenseResponse]
	listExpenses     *connect.Client[ListExpensesRequest, ListExpensesResponse]
	recordSettlement *connect.Client[RecordSettlementRequest, RecordSettlementResponse]
	listSettlements  *connect.Client[ListSettlementsRequest, ListSettlementsResponse]
	getBalances      *connect.Client[GetBalancesRequest, GetBalancesResponse]
}

func (c *ledgerServiceClient) AddParticipant(ctx context.Context, req *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListParticipants(ctx context.Context, req *connect.Request[ListParticipantsRequest]) (*connect.Response[ListParticipantsResponse], error) {
	return c.listParticipants.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) PreviewSplit(ctx context.Context, req *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error) {
	return c.previewSplit.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListSettlements(ctx context.Context, req *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func unimplemented(method string) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New(LedgerServiceName+"."+method+" is not implemented"))
}

func (UnimplementedLedgerServiceHandler) AddParticipant(context.Context, *connect.Request[AddParticipantRequest]) (*connect.Response[AddParticipantResponse], error) {
	return nil, unimplemented("AddParticipant")
}

func (UnimplementedLedgerServiceHandler) ListParticipants(context.Context, *connect.Request[ListParticipantsRequest]) (*connect.Response[ListParticipantsResponse], error) {
	return nil, unimplemented("ListParticipants")
}

func (UnimplementedLedgerServiceHandler) PreviewSplit(context.Context, *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error) {
	return nil, unimplemented("PreviewSplit")
}

func (UnimplementedLedgerServiceHandler) CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return nil, unimplemented("CreateExpense")
}

func (UnimplementedLedgerServiceHandler) ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return nil, unimplemented("ListExpenses")
}

func (UnimplementedLedgerServiceHandler) RecordSettlement(context.Context, *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error) {
	return nil, unimplemented("RecordSettlement")
}

func (UnimplementedLedgerServiceHandler) ListSettlements(context.Context, *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error) {
	return nil, unimplemented("ListSettlements")
}

func (UnimplementedLedgerServiceHandler) GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return nil, unimplemented("GetBalances")
}
