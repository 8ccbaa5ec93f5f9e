package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/journal"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/ledgerv1"
)

// LedgerService implements the Connect LedgerService on top of a journal.
type LedgerService struct {
	ledgerv1.UnimplementedLedgerServiceHandler
	journal *journal.Journal
}

// NewLedgerService creates a new LedgerService backed by j.
func NewLedgerService(j *journal.Journal) *LedgerService {
	return &LedgerService{journal: j}
}

// toConnectError maps journal and calculator errors to Connect codes.
func toConnectError(err error) error {
	var unknown *calculator.UnknownParticipantError
	switch {
	case errors.As(err, &unknown):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, journal.ErrParticipantExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case calculator.IsValidation(err),
		errors.Is(err, journal.ErrEmptyName),
		errors.Is(err, journal.ErrSelfSettlement):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// AddParticipant registers a participant.
func (s *LedgerService) AddParticipant(ctx context.Context, req *connect.Request[ledgerv1.AddParticipantRequest]) (*connect.Response[ledgerv1.AddParticipantResponse], error) {
	slog.Info("AddParticipant request received", "name", req.Msg.Name)

	p, err := s.journal.AddParticipant(ctx, req.Msg.Name)
	if err != nil {
		slog.Error("AddParticipant failed", "name", req.Msg.Name, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Participant added", "name", p.Name)

	return connect.NewResponse(&ledgerv1.AddParticipantResponse{
		Participant: toParticipant(p),
	}), nil
}

// ListParticipants returns participants in registration order.
func (s *LedgerService) ListParticipants(ctx context.Context, req *connect.Request[ledgerv1.ListParticipantsRequest]) (*connect.Response[ledgerv1.ListParticipantsResponse], error) {
	participants := s.journal.Participants()

	out := make([]ledgerv1.Participant, len(participants))
	for i, p := range participants {
		out[i] = toParticipant(p)
	}

	slog.Debug("ListParticipants successful", "count", len(out))

	return connect.NewResponse(&ledgerv1.ListParticipantsResponse{Participants: out}), nil
}

// PreviewSplit computes shares without recording an expense.
func (s *LedgerService) PreviewSplit(ctx context.Context, req *connect.Request[ledgerv1.PreviewSplitRequest]) (*connect.Response[ledgerv1.PreviewSplitResponse], error) {
	slog.Debug("PreviewSplit request received",
		"amount", req.Msg.Amount,
		"paid_by", req.Msg.PaidBy,
		"split_type", req.Msg.SplitType,
		"participants", req.Msg.Participants,
	)

	split, err := calculator.ParseSplit(req.Msg.SplitType, req.Msg.Values)
	if err != nil {
		slog.Error("PreviewSplit failed", "error", err)
		return nil, toConnectError(err)
	}

	shares, err := s.journal.PreviewExpense(journal.NewExpense{
		Amount:       req.Msg.Amount,
		PaidBy:       req.Msg.PaidBy,
		Participants: req.Msg.Participants,
		Split:        split,
	})
	if err != nil {
		slog.Error("PreviewSplit failed", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ledgerv1.PreviewSplitResponse{Shares: toShares(shares)}), nil
}

// CreateExpense splits and records an expense.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[ledgerv1.CreateExpenseRequest]) (*connect.Response[ledgerv1.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"description", req.Msg.Description,
		"amount", req.Msg.Amount,
		"paid_by", req.Msg.PaidBy,
		"split_type", req.Msg.SplitType,
		"participants_count", len(req.Msg.Participants),
	)

	split, err := calculator.ParseSplit(req.Msg.SplitType, req.Msg.Values)
	if err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return nil, toConnectError(err)
	}

	expense, err := s.journal.CreateExpense(ctx, journal.NewExpense{
		Description:  req.Msg.Description,
		Amount:       req.Msg.Amount,
		PaidBy:       req.Msg.PaidBy,
		Participants: req.Msg.Participants,
		Split:        split,
	})
	if err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense created", "expense_id", expense.ID)

	return connect.NewResponse(&ledgerv1.CreateExpenseResponse{Expense: toExpense(expense)}), nil
}

// ListExpenses returns all expenses in creation order.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[ledgerv1.ListExpensesRequest]) (*connect.Response[ledgerv1.ListExpensesResponse], error) {
	expenses := s.journal.Expenses()

	out := make([]ledgerv1.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toExpense(e)
	}

	slog.Debug("ListExpenses successful", "count", len(out))

	return connect.NewResponse(&ledgerv1.ListExpensesResponse{Expenses: out}), nil
}

// RecordSettlement records a payment between two participants.
func (s *LedgerService) RecordSettlement(ctx context.Context, req *connect.Request[ledgerv1.RecordSettlementRequest]) (*connect.Response[ledgerv1.RecordSettlementResponse], error) {
	slog.Info("RecordSettlement request received",
		"from", req.Msg.From,
		"to", req.Msg.To,
		"amount", req.Msg.Amount,
	)

	settlement, err := s.journal.RecordSettlement(ctx, journal.NewSettlement{
		From:   req.Msg.From,
		To:     req.Msg.To,
		Amount: req.Msg.Amount,
		Note:   req.Msg.Note,
	})
	if err != nil {
		slog.Error("RecordSettlement failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Settlement recorded", "settlement_id", settlement.ID)

	return connect.NewResponse(&ledgerv1.RecordSettlementResponse{Settlement: toSettlement(settlement)}), nil
}

// ListSettlements returns all settlements in creation order.
func (s *LedgerService) ListSettlements(ctx context.Context, req *connect.Request[ledgerv1.ListSettlementsRequest]) (*connect.Response[ledgerv1.ListSettlementsResponse], error) {
	settlements := s.journal.Settlements()

	out := make([]ledgerv1.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = toSettlement(st)
	}

	return connect.NewResponse(&ledgerv1.ListSettlementsResponse{Settlements: out}), nil
}

// GetBalances derives the simplified debts and per-member totals.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[ledgerv1.GetBalancesRequest]) (*connect.Response[ledgerv1.GetBalancesResponse], error) {
	balances := s.journal.Balances()

	edges := balances.Edges()
	debts := make([]ledgerv1.Debt, len(edges))
	for i, e := range edges {
		debts[i] = ledgerv1.Debt{From: e.From, To: e.To, Amount: e.Amount}
	}

	members := balances.Members()
	memberBalances := make([]ledgerv1.MemberBalance, len(members))
	for i, m := range members {
		memberBalances[i] = ledgerv1.MemberBalance{
			Name:       m.Name,
			NetBalance: m.NetBalance,
			Status:     string(m.Status()),
		}
	}

	slog.Debug("GetBalances successful", "debts", len(debts))

	return connect.NewResponse(&ledgerv1.GetBalancesResponse{
		Debts:   debts,
		Members: memberBalances,
		Settled: balances.IsSettled(),
	}), nil
}

func toParticipant(p models.Participant) ledgerv1.Participant {
	return ledgerv1.Participant{Name: p.Name, JoinedAt: p.JoinedAt}
}

func toShares(shares models.Shares) []ledgerv1.Share {
	out := make([]ledgerv1.Share, len(shares))
	for i, sh := range shares {
		out[i] = ledgerv1.Share{Participant: sh.Participant, Amount: sh.Amount}
	}
	return out
}

func toExpense(e models.Expense) ledgerv1.Expense {
	return ledgerv1.Expense{
		ID:           e.ID,
		Description:  e.Description,
		Amount:       e.Amount,
		PaidBy:       e.PaidBy,
		Participants: e.Participants,
		SplitType:    string(e.Policy),
		Shares:       toShares(e.Shares),
		CreatedAt:    e.CreatedAt,
	}
}

func toSettlement(s models.Settlement) ledgerv1.Settlement {
	return ledgerv1.Settlement{
		ID:        s.ID,
		From:      s.From,
		To:        s.To,
		Amount:    s.Amount,
		Note:      s.Note,
		CreatedAt: s.CreatedAt,
	}
}
