package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/ledgerv1"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with its procedure, peer, duration and a few request fields that identify
// what the call touched. Client mistakes log at warn; Internal and Unknown
// failures log at error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"peer", req.Peer().Addr,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			attrs = append(attrs, requestAttrs(req.Any())...)

			var connectErr *connect.Error
			switch {
			case err == nil:
				attrs = append(attrs, responseAttrs(resp)...)
				slog.Info("RPC ok", attrs...)
			case errors.As(err, &connectErr) && !isServerFault(connectErr.Code()):
				attrs = append(attrs, "code", connectErr.Code(), "error", connectErr.Message())
				slog.Warn("RPC error", attrs...)
			default:
				attrs = append(attrs, "code", connect.CodeOf(err), "error", err)
				slog.Error("RPC error", attrs...)
			}

			return resp, err
		}
	}
}

func isServerFault(code connect.Code) bool {
	return code == connect.CodeInternal || code == connect.CodeUnknown
}

// requestAttrs names the records a write touches. Reads carry no fields.
func requestAttrs(msg any) []any {
	switch m := msg.(type) {
	case *ledgerv1.AddParticipantRequest:
		return []any{"participant", m.Name}
	case *ledgerv1.PreviewSplitRequest:
		return []any{"paid_by", m.PaidBy, "amount", m.Amount.String(), "split_type", m.SplitType}
	case *ledgerv1.CreateExpenseRequest:
		return []any{"paid_by", m.PaidBy, "amount", m.Amount.String(), "split_type", m.SplitType}
	case *ledgerv1.RecordSettlementRequest:
		return []any{"from", m.From, "to", m.To, "amount", m.Amount.String()}
	}
	return nil
}

func responseAttrs(resp connect.AnyResponse) []any {
	if resp == nil {
		return nil
	}
	switch m := resp.Any().(type) {
	case *ledgerv1.CreateExpenseResponse:
		return []any{"expense_id", m.Expense.ID}
	case *ledgerv1.RecordSettlementResponse:
		return []any{"settlement_id", m.Settlement.ID}
	case *ledgerv1.GetBalancesResponse:
		return []any{"debts", len(m.Debts)}
	}
	return nil
}
