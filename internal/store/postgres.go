package store

import (
	"AdminAPI/internal/query"
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// DefaultFetchCap bounds a single collection fetch when no cap is configured.
const DefaultFetchCap = 10000

// Querier is the subset of pgxpool.Pool used by Postgres.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres reads documents(tenant_id, collection, id, data, created_at).
type Postgres struct {
	db       Querier
	fetchCap int
}

func NewPostgres(db Querier, fetchCap int) *Postgres {
	if fetchCap <= 0 {
		fetchCap = DefaultFetchCap
	}
	return &Postgres{db: db, fetchCap: fetchCap}
}

func (p *Postgres) fetchQuery(tenant, collection string) (string, []any, error) {
	return sq.Select("id", "data", "created_at").
		From("documents").
		Where(sq.Eq{"tenant_id": tenant, "collection": collection}).
		OrderBy("created_at DESC", "id").
		Limit(uint64(p.fetchCap)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

func (p *Postgres) Fetch(ctx context.Context, tenant, collection string) ([]query.Record, error) {
	sqlText, args, err := p.fetchQuery(tenant, collection)
	if err != nil {
		return nil, fmt.Errorf("build fetch query: %w", err)
	}
	rows, err := p.db.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", collection, err)
	}
	defer rows.Close()

	var out []query.Record
	for rows.Next() {
		var (
			id        string
			data      []byte
			createdAt time.Time
		)
		if err := rows.Scan(&id, &data, &createdAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		rec, err := documentRecord(id, data, createdAt)
		if err != nil {
			return nil, fmt.Errorf("document %s/%s: %w", collection, id, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", collection, err)
	}
	return out, nil
}

// documentRecord decodes the jsonb body and fills id and createdAt from the row
// when the body does not carry them.
func documentRecord(id string, data []byte, createdAt time.Time) (query.Record, error) {
	rec, err := decodeRecord(data)
	if err != nil {
		return nil, err
	}
	if _, ok := rec["id"]; !ok {
		rec["id"] = id
	}
	if _, ok := rec[query.DefaultSortField]; !ok {
		rec[query.DefaultSortField] = FormatTimestamp(createdAt)
	}
	return rec, nil
}
