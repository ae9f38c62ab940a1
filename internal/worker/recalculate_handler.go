package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"pembukuan-web/internal/config"
	"pembukuan-web/internal/repository"
	"pembukuan-web/internal/service"
	"pembukuan-web/internal/utils"
)

type RecalculateTaskHandler struct {
	inventory *service.InventoryService
}

func NewRecalculateTaskHandler(db *sqlx.DB, redis *redis.Client, cfg *config.Config) *RecalculateTaskHandler {
	inventoryRepo := repository.NewInventoryRepository(db)
	return &RecalculateTaskHandler{
		inventory: service.NewInventoryService(inventoryRepo, utils.GetLogger()),
	}
}

func (h *RecalculateTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload InventoryRecalculatePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if err := h.inventory.Recalculate(ctx, payload.ProductName); err != nil {
		return fmt.Errorf("failed to recalculate card for %s: %w", payload.ProductName, err)
	}
	return nil
}
