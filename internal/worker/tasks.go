package worker

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeInventoryRecalculate = "inventory:recalculate"
	TypeDepreciationPost     = "depreciation:post"
)

type InventoryRecalculatePayload struct {
	ProductName string `json:"product_name"`
}

type DepreciationPostPayload struct {
	AssetID    int    `json:"asset_id"`
	Period     int    `json:"period"`
	PeriodType string `json:"period_type"`
	PeriodDate string `json:"period_date"`
}

// NewInventoryRecalculateTask builds the task that replays a product's
// inventory card after a historical edit.
func NewInventoryRecalculateTask(productName string) (*asynq.Task, error) {
	payload, err := json.Marshal(InventoryRecalculatePayload{ProductName: productName})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeInventoryRecalculate, payload), nil
}

// NewDepreciationPostTask builds the task that computes and posts one
// asset's depreciation for a period.
func NewDepreciationPostTask(assetID, period int, periodType, periodDate string) (*asynq.Task, error) {
	payload, err := json.Marshal(DepreciationPostPayload{
		AssetID:    assetID,
		Period:     period,
		PeriodType: periodType,
		PeriodDate: periodDate,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDepreciationPost, payload), nil
}
