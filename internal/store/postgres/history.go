package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
	"github.com/mic325hkg/CathayPriceChecker/internal/search"
)

// ErrRunNotFound is returned by GetRun for an unknown id.
var ErrRunNotFound = errors.New("search run not found")

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// HistoryStore persists completed search runs.
type HistoryStore struct {
	db *sqlx.DB
}

// Open connects to dsn with the pq driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func NewHistoryStore(db *sqlx.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	initSQL := `
CREATE TABLE IF NOT EXISTS search_runs(
  id UUID PRIMARY KEY,
  created_at TIMESTAMPTZ NOT NULL,
  hub TEXT NOT NULL,
  destination TEXT NOT NULL,
  depart_date DATE NOT NULL,
  return_date DATE NOT NULL,
  origins JSONB NOT NULL DEFAULT '[]',
  earning_table_version TEXT,
  candidate_count INTEGER NOT NULL DEFAULT 0,
  searches INTEGER NOT NULL DEFAULT 0,
  failed_searches INTEGER NOT NULL DEFAULT 0,
  deadline_exceeded BOOLEAN NOT NULL DEFAULT FALSE,
  elapsed_ms BIGINT NOT NULL DEFAULT 0,
  request JSONB NOT NULL,
  coverage JSONB NOT NULL,
  candidates JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_search_runs_created ON search_runs(created_at);
CREATE INDEX IF NOT EXISTS idx_search_runs_route ON search_runs(hub, destination);
`
	_, err := db.ExecContext(ctx, initSQL)
	return err
}

// RunSummary is a listed run without its candidates.
type RunSummary struct {
	ID                  string      `db:"id" json:"id"`
	CreatedAt           time.Time   `db:"created_at" json:"created_at"`
	Hub                 string      `db:"hub" json:"hub"`
	Destination         string      `db:"destination" json:"destination"`
	DepartDate          time.Time   `db:"depart_date" json:"depart_date"`
	ReturnDate          time.Time   `db:"return_date" json:"return_date"`
	Origins             StringSlice `db:"origins" json:"origins"`
	EarningTableVersion *string     `db:"earning_table_version" json:"earning_table_version"`
	CandidateCount      int         `db:"candidate_count" json:"candidate_count"`
	Searches            int         `db:"searches" json:"searches"`
	FailedSearches      int         `db:"failed_searches" json:"failed_searches"`
	DeadlineExceeded    bool        `db:"deadline_exceeded" json:"deadline_exceeded"`
	ElapsedMS           int64       `db:"elapsed_ms" json:"elapsed_ms"`
}

// RunRecord is a stored run.
type RunRecord struct {
	RunSummary
	Request    JSONB[search.Request]             `db:"request" json:"-"`
	Coverage   JSONB[search.Coverage]            `db:"coverage" json:"-"`
	Candidates JSONB[[]domain.EnrichedCandidate] `db:"candidates" json:"-"`
}

// Result rebuilds the run as the engine returned it.
func (r *RunRecord) Result() *search.Result {
	return &search.Result{
		RunID:               r.ID,
		Request:             r.Request.V,
		StartedAt:           r.CreatedAt,
		FinishedAt:          r.CreatedAt.Add(time.Duration(r.ElapsedMS) * time.Millisecond),
		Elapsed:             time.Duration(r.ElapsedMS) * time.Millisecond,
		EarningTableVersion: r.EarningTableVersion,
		Candidates:          r.Candidates.V,
		Coverage:            r.Coverage.V,
	}
}

// NewRunRecord flattens res for storage.
func NewRunRecord(res *search.Result) (*RunRecord, error) {
	if _, err := uuid.Parse(res.RunID); err != nil {
		return nil, fmt.Errorf("run id %q: %w", res.RunID, err)
	}
	candidates := res.Candidates
	if candidates == nil {
		candidates = []domain.EnrichedCandidate{}
	}
	return &RunRecord{
		RunSummary: RunSummary{
			ID:                  res.RunID,
			CreatedAt:           res.StartedAt.UTC(),
			Hub:                 res.Request.Hub,
			Destination:         res.Request.Destination,
			DepartDate:          res.Request.Depart,
			ReturnDate:          res.Request.Return,
			Origins:             StringSlice(res.Coverage.OriginsQueried),
			EarningTableVersion: res.EarningTableVersion,
			CandidateCount:      len(res.Candidates),
			Searches:            res.Coverage.Searches,
			FailedSearches:      res.Coverage.FailedSearches,
			DeadlineExceeded:    res.Coverage.DeadlineExceeded,
			ElapsedMS:           res.Elapsed.Milliseconds(),
		},
		Request:    JSONB[search.Request]{V: res.Request},
		Coverage:   JSONB[search.Coverage]{V: res.Coverage},
		Candidates: JSONB[[]domain.EnrichedCandidate]{V: candidates},
	}, nil
}

// Record implements search.Recorder.
func (h *HistoryStore) Record(ctx context.Context, res *search.Result) error {
	rec, err := NewRunRecord(res)
	if err != nil {
		return err
	}
	return h.SaveRun(ctx, rec)
}

func (h *HistoryStore) SaveRun(ctx context.Context, rec *RunRecord) error {
	stmt := `
INSERT INTO search_runs (id, created_at, hub, destination, depart_date, return_date, origins,
  earning_table_version, candidate_count, searches, failed_searches, deadline_exceeded, elapsed_ms,
  request, coverage, candidates)
VALUES (:id, :created_at, :hub, :destination, :depart_date, :return_date, :origins,
  :earning_table_version, :candidate_count, :searches, :failed_searches, :deadline_exceeded, :elapsed_ms,
  :request, :coverage, :candidates)
ON CONFLICT (id) DO NOTHING;
`
	if _, err := h.db.NamedExecContext(ctx, stmt, rec); err != nil {
		return fmt.Errorf("insert search run id=%s: %w", rec.ID, err)
	}
	return nil
}

func (h *HistoryStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrRunNotFound
	}
	var rec RunRecord
	query := `
SELECT id, created_at, hub, destination, depart_date, return_date, origins, earning_table_version,
  candidate_count, searches, failed_searches, deadline_exceeded, elapsed_ms, request, coverage, candidates
FROM search_runs
WHERE id = $1
`
	if err := h.db.GetContext(ctx, &rec, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// ListFilter narrows ListRuns. Empty fields match everything.
type ListFilter struct {
	Hub         string
	Destination string
	Limit       int
}

// ListRuns returns run summaries, newest first.
func (h *HistoryStore) ListRuns(ctx context.Context, f ListFilter) ([]RunSummary, error) {
	if f.Limit <= 0 || f.Limit > maxListLimit {
		f.Limit = defaultListLimit
	}
	rows := []RunSummary{}
	query := `
SELECT id, created_at, hub, destination, depart_date, return_date, origins, earning_table_version,
  candidate_count, searches, failed_searches, deadline_exceeded, elapsed_ms
FROM search_runs
WHERE ($1 = '' OR hub = $1) AND ($2 = '' OR destination = $2)
ORDER BY created_at DESC
LIMIT $3
`
	err := h.db.SelectContext(ctx, &rows, query, f.Hub, f.Destination, f.Limit)
	return rows, err
}

// PruneRuns deletes runs created before the cutoff and returns how many were removed.
func (h *HistoryStore) PruneRuns(ctx context.Context, before time.Time) (int64, error) {
	res, err := h.db.ExecContext(ctx, "DELETE FROM search_runs WHERE created_at < $1", before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (h *HistoryStore) Ping(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
