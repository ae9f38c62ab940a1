package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"pembukuan-web/internal/config"
	"pembukuan-web/internal/repository"
	"pembukuan-web/internal/service"
	"pembukuan-web/internal/utils"
)

type DepreciationTaskHandler struct {
	depreciation *service.DepreciationService
}

func NewDepreciationTaskHandler(db *sqlx.DB, redis *redis.Client, cfg *config.Config) *DepreciationTaskHandler {
	log := utils.GetLogger()
	accountRepo := repository.NewAccountRepository(db)
	journalRepo := repository.NewJournalRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	postingRepo := repository.NewPostingRepository(db)

	ledger := service.NewLedgerService(journalRepo, accountRepo, redis, cfg.BalanceCacheTTL, log)
	return &DepreciationTaskHandler{
		depreciation: service.NewDepreciationService(assetRepo, ledger, postingRepo, log),
	}
}

func (h *DepreciationTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload DepreciationPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	periodDate, err := time.Parse("2006-01-02", payload.PeriodDate)
	if err != nil {
		return fmt.Errorf("invalid period date %q: %w", payload.PeriodDate, err)
	}

	_, _, err = h.depreciation.ComputeAndPost(ctx, payload.AssetID, payload.Period, payload.PeriodType, periodDate)
	if err != nil {
		// A fully depreciated asset or an exhausted period is a final
		// state, not a reason to retry the task.
		if service.IsValidation(err) {
			utils.GetLogger().WithError(err).WithField("asset_id", payload.AssetID).
				Warn("depreciation task skipped")
			return nil
		}
		return fmt.Errorf("failed to post depreciation for asset %d: %w", payload.AssetID, err)
	}
	return nil
}
