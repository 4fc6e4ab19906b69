package postgres

import (
	"context"

	"github.com/uptrace/bun"

	"trivia-service/internal/domain"
)

type clueRow struct {
	bun.BaseModel `bun:"table:clues"`

	ID       int64       `bun:"id,pk,autoincrement"`
	Round    int         `bun:"round"`
	Value    int         `bun:"value"`
	Category string      `bun:"category"`
	Data     domain.Clue `bun:"data,type:jsonb"`
}

// InsertClues loads corpus entries in bulk. The filterable columns are
// duplicated out of the document for indexing.
func InsertClues(ctx context.Context, db *bun.DB, clues []domain.Clue) error {
	if len(clues) == 0 {
		return nil
	}
	rows := make([]clueRow, 0, len(clues))
	for _, clue := range clues {
		rows = append(rows, clueRow{
			Round:    clue.Round,
			Value:    clue.Value,
			Category: clue.Category,
			Data:     clue,
		})
	}
	if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return storeErr("insert clues", err)
	}
	return nil
}
