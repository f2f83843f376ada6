package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/alexanderjulianmartinez/adswatch/pkg/types"
)

// Querier is the subset of *sql.DB the inspector reads through.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Options struct {
	TreeID      string
	RecentLimit int
	Timeout     time.Duration
	Logger      *zap.Logger
}

type Inspector struct {
	q       Querier
	dialect Dialect
	treeID  string
	limit   int
	timeout time.Duration
	log     *zap.Logger
}

// Open connects to the database named by rawURL and verifies it with a ping.
func Open(ctx context.Context, rawURL string, opts Options) (*Inspector, error) {
	target := Redact(rawURL)
	secret := password(rawURL)

	dialect, err := ParseDialect(rawURL)
	if err != nil {
		return nil, &ConnectError{Target: target, Err: scrub(err, secret)}
	}

	db, err := sql.Open(dialect.Driver, dialect.DSN)
	if err != nil {
		return nil, &ConnectError{Target: target, Err: scrub(err, secret)}
	}
	db.SetMaxOpenConns(1)

	inspector := New(db, dialect, opts)

	pingCtx, cancel := context.WithTimeout(ctx, inspector.timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, &ConnectError{Target: target, Err: scrub(fmt.Errorf("%s ping failed: %w", dialect.Name, err), secret)}
	}

	inspector.log.Debug("connected", zap.String("dialect", dialect.Name), zap.String("target", target))
	return inspector, nil
}

// New wraps an already open connection. Zero options fall back to the
// tool defaults.
func New(q Querier, dialect Dialect, opts Options) *Inspector {
	i := &Inspector{
		q:       q,
		dialect: dialect,
		treeID:  opts.TreeID,
		limit:   opts.RecentLimit,
		timeout: opts.Timeout,
		log:     opts.Logger,
	}
	if i.treeID == "" {
		i.treeID = "default"
	}
	if i.limit <= 0 {
		i.limit = 3
	}
	if i.timeout <= 0 {
		i.timeout = 5 * time.Second
	}
	if i.log == nil {
		i.log = zap.NewNop()
	}
	return i
}

// Close releases the underlying connection when the inspector owns one.
func (i *Inspector) Close() error {
	if c, ok := i.q.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (i *Inspector) CountActiveNullifiers(ctx context.Context) (int64, error) {
	return i.count(ctx, "count active nullifiers",
		"SELECT COUNT(*) FROM nullifiers WHERE is_active = true")
}

func (i *Inspector) FetchRecentNullifiers(ctx context.Context) ([]types.Nullifier, error) {
	const step = "fetch recent nullifiers"
	query := "SELECT value, tree_index, created_at FROM nullifiers WHERE is_active = true ORDER BY created_at DESC LIMIT " + i.dialect.Placeholder(1)

	var out []types.Nullifier
	err := i.query(ctx, step, query, []any{i.limit}, func(rows *sql.Rows) error {
		var n types.Nullifier
		if err := rows.Scan(&n.Value, &n.TreeIndex, &n.CreatedAt); err != nil {
			return err
		}
		out = append(out, n)
		return nil
	})
	return out, err
}

func (i *Inspector) CountStateCommits(ctx context.Context) (int64, error) {
	return i.count(ctx, "count state commits", "SELECT COUNT(*) FROM ads_state_commits")
}

func (i *Inspector) FetchRecentCommits(ctx context.Context) ([]types.StateCommit, error) {
	const step = "fetch recent state commits"
	query := "SELECT batch_id, created_at FROM ads_state_commits ORDER BY created_at DESC LIMIT " + i.dialect.Placeholder(1)

	var out []types.StateCommit
	err := i.query(ctx, step, query, []any{i.limit}, func(rows *sql.Rows) error {
		var c types.StateCommit
		if err := rows.Scan(&c.BatchID, &c.CreatedAt); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

// FetchTreeState returns nil without error when the tree has no row.
func (i *Inspector) FetchTreeState(ctx context.Context) (*types.TreeState, error) {
	const step = "fetch tree state"
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	defer i.trace(step, time.Now())

	query := "SELECT tree_id, total_nullifiers, next_available_index, updated_at FROM tree_state WHERE tree_id = " + i.dialect.Placeholder(1)

	var ts types.TreeState
	err := i.q.QueryRowContext(ctx, query, i.treeID).
		Scan(&ts.TreeID, &ts.TotalNullifiers, &ts.NextAvailableIndex, &ts.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &QueryError{Step: step, Err: err}
	}
	return &ts, nil
}

func (i *Inspector) FetchRecentBatches(ctx context.Context) ([]types.ProofBatch, error) {
	const step = "fetch recent proof batches"
	query := "SELECT id, transaction_count, proof_status, created_at FROM proof_batches ORDER BY created_at DESC LIMIT " + i.dialect.Placeholder(1)

	var out []types.ProofBatch
	err := i.query(ctx, step, query, []any{i.limit}, func(rows *sql.Rows) error {
		var (
			b      types.ProofBatch
			count  sql.NullInt64
			status sql.NullString
		)
		if err := rows.Scan(&b.ID, &count, &status, &b.CreatedAt); err != nil {
			return err
		}
		b.TransactionCount = count.Int64
		b.ProofStatus = types.ProofStatusPending
		if status.Valid && status.String != "" {
			b.ProofStatus = status.String
		}
		out = append(out, b)
		return nil
	})
	return out, err
}

func (i *Inspector) count(ctx context.Context, step, query string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	defer i.trace(step, time.Now())

	var n int64
	if err := i.q.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, &QueryError{Step: step, Err: err}
	}
	return n, nil
}

func (i *Inspector) query(ctx context.Context, step, query string, args []any, scan func(*sql.Rows) error) error {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	defer i.trace(step, time.Now())

	rows, err := i.q.QueryContext(ctx, query, args...)
	if err != nil {
		return &QueryError{Step: step, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return &QueryError{Step: step, Err: err}
		}
	}
	if err := rows.Err(); err != nil {
		return &QueryError{Step: step, Err: err}
	}
	return nil
}

func (i *Inspector) trace(step string, start time.Time) {
	i.log.Debug("inspection step", zap.String("step", step), zap.Duration("elapsed", time.Since(start)))
}
