package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/photoshare/internal/audit"
	"github.com/khanghh/photoshare/internal/common"
	"github.com/khanghh/photoshare/internal/events"
	"github.com/spf13/cast"
)

// paramID parses a positive numeric path parameter.
func paramID(ctx *fiber.Ctx, name string) (uint, error) {
	id, err := cast.ToUintE(ctx.Params(name))
	if err != nil || id == 0 {
		return 0, common.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}

func queryUint(ctx *fiber.Ctx, name string) (uint, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, nil
	}
	val, err := cast.ToUintE(raw)
	if err != nil {
		return 0, common.NewValidationError(name, "must be a non-negative integer")
	}
	return val, nil
}

func queryInt(ctx *fiber.Ctx, name string, fallback int) (int, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback, nil
	}
	val, err := cast.ToIntE(raw)
	if err != nil || val < 0 {
		return 0, common.NewValidationError(name, "must be a non-negative integer")
	}
	return val, nil
}

func queryFloat(ctx *fiber.Ctx, name string) (float64, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, nil
	}
	val, err := cast.ToFloat64E(raw)
	if err != nil || val < 0 {
		return 0, common.NewValidationError(name, "must be a non-negative number")
	}
	return val, nil
}

func clientInfo(ctx *fiber.Ctx) audit.ClientInfo {
	return audit.ClientInfo{
		IP:        ctx.IP(),
		UserAgent: ctx.Get(fiber.HeaderUserAgent),
	}
}

// publishEvent sends a domain event without failing the request.
func publishEvent(ctx context.Context, publisher events.Publisher, event events.Event) {
	event.OccurredAt = time.Now()
	if err := publisher.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish event", "type", event.Type, "error", err)
	}
}
