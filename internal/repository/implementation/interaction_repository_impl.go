package implementation

import (
	"context"

	"gorm.io/gorm"

	"profile-concierge-be/internal/mapper"
	"profile-concierge-be/internal/model"
	"profile-concierge-be/internal/repository/contract"
	"profile-concierge-be/internal/repository/specification"
	"profile-concierge-be/pkg/convo/telemetry"
)

type interactionRepository struct {
	db     *gorm.DB
	mapper *mapper.InteractionMapper
}

func NewInteractionRepository(db *gorm.DB) contract.IInteractionRepository {
	return &interactionRepository{
		db:     db,
		mapper: mapper.NewInteractionMapper(),
	}
}

// AppendTurn writes the interaction row and, when present, its
// retrieval-quality row in one transaction. Append-only: no updates.
func (r *interactionRepository) AppendTurn(ctx context.Context, record telemetry.TurnRecord) error {
	interaction, quality := r.mapper.ToModels(record)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(interaction).Error; err != nil {
			return err
		}
		if quality != nil {
			if err := tx.Create(quality).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *interactionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]telemetry.InteractionRecord, error) {
	var models []model.Interaction
	db := applySpecifications(r.db.WithContext(ctx), specs)
	if err := db.Find(&models).Error; err != nil {
		return nil, err
	}
	records := make([]telemetry.InteractionRecord, 0, len(models))
	for i := range models {
		records = append(records, r.mapper.ToRecord(&models[i]))
	}
	return records, nil
}

func (r *interactionRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	db := applySpecifications(r.db.WithContext(ctx).Model(&model.Interaction{}), specs)
	err := db.Count(&count).Error
	return count, err
}
