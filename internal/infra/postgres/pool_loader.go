package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AllieBaig/lingoquest/internal/domain"
)

// PoolLoader loads question pool JSONB from Postgres, one row per category.
type PoolLoader struct {
	pool *pgxpool.Pool
}

func NewPoolLoader(pool *pgxpool.Pool) *PoolLoader {
	return &PoolLoader{pool: pool}
}

func (l *PoolLoader) LoadPools(ctx context.Context) (domain.Pools, error) {
	rows, err := l.pool.Query(ctx, `SELECT category, items FROM question_pools`)
	if err != nil {
		return nil, fmt.Errorf("load pools: %w", err)
	}
	defer rows.Close()

	pools := domain.Pools{}
	for rows.Next() {
		var category string
		var raw []byte
		if err := rows.Scan(&category, &raw); err != nil {
			return nil, fmt.Errorf("scan pool row: %w", err)
		}
		var items []domain.PoolItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("unmarshal pool %q: %w", category, err)
		}
		pools[domain.Category(category)] = items
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pools: %w", err)
	}
	if len(pools) == 0 {
		return nil, domain.ErrPoolNotFound
	}
	if err := domain.ValidatePools(pools); err != nil {
		return nil, err
	}
	return pools, nil
}
