package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-service/internal/domain"
)

// ClueCorpus samples clues from Postgres. The filter translates to a WHERE
// clause over the indexed round/value/category columns; the random draw is
// delegated to the database so it stays uniform over currently-matching rows.
type ClueCorpus struct {
	pool *pgxpool.Pool
}

func NewClueCorpus(pool *pgxpool.Pool) *ClueCorpus {
	return &ClueCorpus{pool: pool}
}

func (c *ClueCorpus) SampleOne(ctx context.Context, filter domain.ClueFilter) (domain.Clue, error) {
	where, args := buildWhere(filter)
	query := `SELECT data FROM clues WHERE ` + where + ` ORDER BY random() LIMIT 1`

	var raw []byte
	err := c.pool.QueryRow(ctx, query, args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Clue{}, domain.ErrNoMatchingClue
	}
	if err != nil {
		return domain.Clue{}, storeErr("sample clue", err)
	}

	var clue domain.Clue
	if err := json.Unmarshal(raw, &clue); err != nil {
		return domain.Clue{}, storeErr("unmarshal clue", err)
	}
	return clue, nil
}

func (c *ClueCorpus) Count(ctx context.Context, filter domain.ClueFilter) (int64, error) {
	where, args := buildWhere(filter)
	query := `SELECT count(*) FROM clues WHERE ` + where

	var n int64
	if err := c.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, storeErr("count clues", err)
	}
	return n, nil
}

// buildWhere renders the filter as SQL. Shape mirrors the filter contract:
// (value-ceiling disjunction) AND (category disjunction, when terms exist).
func buildWhere(filter domain.ClueFilter) (string, []interface{}) {
	args := []interface{}{filter.Round1Max, filter.Round2Max}
	var b strings.Builder
	b.WriteString(`((round = 1 AND value <= $1) OR (round = 2 AND value <= $2) OR round = 3)`)

	if len(filter.CategoryTerms) > 0 {
		b.WriteString(` AND (`)
		for i, term := range filter.CategoryTerms {
			if i > 0 {
				b.WriteString(` OR `)
			}
			args = append(args, "%"+term+"%")
			b.WriteString(`category ILIKE $` + strconv.Itoa(len(args)))
		}
		b.WriteString(`)`)
	}
	return b.String(), args
}
