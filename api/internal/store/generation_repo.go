package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	KindTutor    = "tutor"
	KindPractice = "practice"

	StatusOK        = "ok"
	StatusEmpty     = "empty"
	StatusMalformed = "malformed"
	StatusError     = "error"
)

// Generation is one provider call as seen by the audit log.
type Generation struct {
	ID        string
	CreatedAt time.Time
	Kind      string
	Engine    string
	Model     string
	Subject   string
	Topic     string
	Status    string
	Error     string
	LatencyMS int64
}

type GenerationRepo struct{ DB *DB }

func NewGenerationRepo(db *DB) *GenerationRepo { return &GenerationRepo{DB: db} }

// Insert writes g, filling ID and CreatedAt when they are zero.
func (r *GenerationRepo) Insert(ctx context.Context, g Generation) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	q := r.DB.Dialect.Rebind(`
insert into generations(id, created_at, kind, engine, model, subject, topic, status, error, latency_ms)
values (?,?,?,?,?,?,?,?,?,?)`)
	_, err := r.DB.ExecContext(ctx, q,
		g.ID, g.CreatedAt, g.Kind, g.Engine, g.Model, g.Subject, g.Topic, g.Status, g.Error, g.LatencyMS)
	return err
}

// StatusCount is one row of the per-kind outcome summary.
type StatusCount struct {
	Kind   string `json:"kind"`
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// CountByStatus summarises outcomes for calls made at or after since.
func (r *GenerationRepo) CountByStatus(ctx context.Context, since time.Time) ([]StatusCount, error) {
	q := r.DB.Dialect.Rebind(`
select kind, status, count(*)
from generations
where created_at >= ?
group by kind, status
order by kind, status`)
	rows, err := r.DB.QueryContext(ctx, q, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatusCount
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Kind, &c.Status, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
