package usecase

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"brittlebones-backend/pkg/email"
	"brittlebones-backend/pkg/payfast"
	"brittlebones-backend/pkg/redis"
)

const (
	StatusOK            = "ok"
	StatusNotConfigured = "not_configured"
	StatusDisabled      = "disabled"
	StatusUnavailable   = "unavailable"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	sender  email.Sender
	builder *payfast.Builder
	redis   *goredis.Client
}

// NewHealthUsecase reports readiness of the outbound dependencies. Any of
// them may be nil.
func NewHealthUsecase(sender email.Sender, builder *payfast.Builder, redisClient *goredis.Client) HealthUsecase {
	return &healthUsecase{
		sender:  sender,
		builder: builder,
		redis:   redisClient,
	}
}

// Check never fails the process: the service keeps answering even with
// every dependency missing.
func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status":  StatusOK,
		"mail":    StatusNotConfigured,
		"payfast": StatusNotConfigured,
		"redis":   StatusDisabled,
	}

	if u.sender != nil && u.sender.IsConfigured() {
		status["mail"] = StatusOK
	}
	if u.builder != nil && u.builder.IsConfigured() {
		status["payfast"] = StatusOK
	}

	if u.redis != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := redis.HealthCheck(pingCtx, u.redis); err != nil {
			status["redis"] = StatusUnavailable
		} else {
			status["redis"] = StatusOK
		}
	}

	return status
}
