package worker

import (
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"pembukuan-web/internal/config"
)

func RegisterHandlers(mux *asynq.ServeMux, db *sqlx.DB, redis *redis.Client, cfg *config.Config) {
	recalculate := NewRecalculateTaskHandler(db, redis, cfg)
	depreciation := NewDepreciationTaskHandler(db, redis, cfg)

	mux.HandleFunc(TypeInventoryRecalculate, recalculate.Handle)
	mux.HandleFunc(TypeDepreciationPost, depreciation.Handle)
}
