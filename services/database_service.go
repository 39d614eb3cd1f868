package services

import (
	"context"
	"payfast/entity"
)

type Database interface {
	WriteLogMessage(data Data) error

	SaveGatewayCall(ctx context.Context, call *entity.GatewayCall) error
	GetGatewayCalls(ctx context.Context, token string) ([]entity.GatewayCall, error)

	SaveNotification(ctx context.Context, notification *entity.Notification) error
}

type Data interface {
	DataType() string
}
