package submission

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/eqcoach/eqcoach/pkg/assessment"
)

// ErrNotFound is returned when a result does not exist or belongs to
// another user.
var ErrNotFound = errors.New("result not found")

// Record is one stored assessment result.
type Record struct {
	ID         string
	UserID     string
	Answers    []int
	Result     assessment.Result
	StorageRef string
	CreatedAt  time.Time
}

// Repository persists result records.
type Repository interface {
	Insert(ctx context.Context, rec *Record) error
	ListByUser(ctx context.Context, userID string) ([]Record, error)
	LatestByUser(ctx context.Context, userID string) (*Record, error)
	GetByID(ctx context.Context, userID, resultID string) (*Record, error)
}

// PostgresRepository implements Repository on the assessment_results table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a Postgres-backed Repository.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectResult = `SELECT id, user_id, answers, total_score, total_max,
        interpretation, domain_scores, storage_ref, created_at
 FROM assessment_results`

// Insert stores rec and fills in its CreatedAt.
func (r *PostgresRepository) Insert(ctx context.Context, rec *Record) error {
	answersJSON, err := json.Marshal(rec.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	domainsJSON, err := json.Marshal(rec.Result.DomainScores)
	if err != nil {
		return fmt.Errorf("marshal domain scores: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO assessment_results (id, user_id, answers, total_score, total_max, interpretation, domain_scores, storage_ref)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		rec.ID, rec.UserID, answersJSON,
		rec.Result.TotalScore, rec.Result.TotalMax, rec.Result.Interpretation,
		domainsJSON, rec.StorageRef,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert result row: %w", err)
	}
	return nil
}

// ListByUser returns all results for a user, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx,
		selectResult+` WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

// LatestByUser returns the user's most recent result.
func (r *PostgresRepository) LatestByUser(ctx context.Context, userID string) (*Record, error) {
	row := r.db.QueryRowContext(ctx,
		selectResult+` WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`,
		userID,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// GetByID returns one result if it belongs to userID.
func (r *PostgresRepository) GetByID(ctx context.Context, userID, resultID string) (*Record, error) {
	row := r.db.QueryRowContext(ctx,
		selectResult+` WHERE id = $1 AND user_id = $2`,
		resultID, userID,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec         Record
		answersJSON []byte
		domainsJSON []byte
	)
	if err := row.Scan(
		&rec.ID, &rec.UserID, &answersJSON,
		&rec.Result.TotalScore, &rec.Result.TotalMax, &rec.Result.Interpretation,
		&domainsJSON, &rec.StorageRef, &rec.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan result: %w", err)
	}
	if err := json.Unmarshal(answersJSON, &rec.Answers); err != nil {
		return nil, fmt.Errorf("decode answers of %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal(domainsJSON, &rec.Result.DomainScores); err != nil {
		return nil, fmt.Errorf("decode domain scores of %s: %w", rec.ID, err)
	}
	return &rec, nil
}
