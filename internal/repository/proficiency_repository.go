package repository

import (
	"context"

	"github.com/vytor/quizflash/internal/models"
)

// ProficiencyRepository handles stored proficiency results
type ProficiencyRepository interface {
	Insert(ctx context.Context, result models.ProficiencyResult) (int64, error)
	// Latest returns the newest result for mode, or for any mode when mode
	// is empty. Nil without error when there is none.
	Latest(ctx context.Context, userID int64, mode models.ProficiencyMode) (*models.ProficiencyResult, error)
	List(ctx context.Context, userID int64, mode models.ProficiencyMode, limit int) ([]models.ProficiencyResult, error)
}
