package services

import (
	"context"
	"payfast/entity"
)

type Gateway interface {
	Ping(ctx context.Context, token string, testing bool) (bool, error)
	Cancel(ctx context.Context, token string, testing bool) (*entity.CancelResult, error)
	Notify(ctx context.Context, data []byte) error
	BuildPaymentForm(form *entity.PaymentForm) ([]entity.Pair, error)
	History(ctx context.Context, token string) ([]entity.GatewayCall, error)
}
