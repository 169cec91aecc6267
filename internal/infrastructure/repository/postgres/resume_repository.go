package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

// ResumeRepository stores one row per submission. Claims, verification and
// score are JSONB documents written as the pipeline advances.
type ResumeRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewResumeRepository(db *sql.DB) *ResumeRepository {
	return &ResumeRepository{db: db, now: time.Now}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *ResumeRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026101501)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS resumes (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	usernames JSONB NOT NULL DEFAULT '{}'::jsonb,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	claims JSONB,
	verification JSONB,
	score JSONB,
	final_score DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_resumes_status ON resumes(status);
CREATE INDEX IF NOT EXISTS idx_resumes_created_at ON resumes(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ResumeRepository) Create(ctx context.Context, resume *domain.Resume) error {
	usernames, err := json.Marshal(resume.Usernames)
	if err != nil {
		return fmt.Errorf("marshal usernames: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO resumes (
	id, filename, mime_type, storage_path, usernames, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		resume.ID, resume.Filename, resume.MimeType, resume.StoragePath, usernames,
		string(resume.Status), resume.Error, resume.CreatedAt, resume.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert resume: %w", err)
	}
	return nil
}

func (r *ResumeRepository) GetByID(ctx context.Context, id string) (*domain.Resume, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, mime_type, storage_path, usernames, status, error_message, claims, verification, score, created_at, updated_at
FROM resumes
WHERE id = $1
`, id)

	var (
		resume                                             domain.Resume
		status                                             string
		usernamesRaw, claimsRaw, verificationRaw, scoreRaw []byte
	)
	err := row.Scan(
		&resume.ID, &resume.Filename, &resume.MimeType, &resume.StoragePath, &usernamesRaw,
		&status, &resume.Error, &claimsRaw, &verificationRaw, &scoreRaw,
		&resume.CreatedAt, &resume.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrResumeNotFound, "get resume", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan resume: %w", err)
	}
	resume.Status = domain.ResumeStatus(status)

	if err := json.Unmarshal(usernamesRaw, &resume.Usernames); err != nil {
		return nil, fmt.Errorf("unmarshal usernames: %w", err)
	}
	if resume.Claims, err = decodeOptional[domain.Claims](claimsRaw); err != nil {
		return nil, fmt.Errorf("unmarshal claims: %w", err)
	}
	if resume.Verification, err = decodeOptional[domain.VerificationResult](verificationRaw); err != nil {
		return nil, fmt.Errorf("unmarshal verification: %w", err)
	}
	if resume.Score, err = decodeOptional[domain.ScoreBreakdown](scoreRaw); err != nil {
		return nil, fmt.Errorf("unmarshal score: %w", err)
	}
	return &resume, nil
}

func (r *ResumeRepository) UpdateStatus(ctx context.Context, id string, status domain.ResumeStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE resumes
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, r.now().UTC())
	if err != nil {
		return fmt.Errorf("update resume status: %w", err)
	}
	return requireRow(res, "update resume status", id)
}

func (r *ResumeRepository) SaveClaims(ctx context.Context, id string, claims domain.Claims) error {
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("marshal claims: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE resumes
SET claims = $2, updated_at = $3
WHERE id = $1
`, id, claimsJSON, r.now().UTC())
	if err != nil {
		return fmt.Errorf("save claims: %w", err)
	}
	return requireRow(res, "save claims", id)
}

func (r *ResumeRepository) SaveVerification(ctx context.Context, id string, result domain.VerificationResult, score domain.ScoreBreakdown) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}
	scoreJSON, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("marshal score: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE resumes
SET verification = $2, score = $3, final_score = $4, updated_at = $5
WHERE id = $1
`, id, resultJSON, scoreJSON, score.Final, r.now().UTC())
	if err != nil {
		return fmt.Errorf("save verification: %w", err)
	}
	return requireRow(res, "save verification", id)
}

func requireRow(res sql.Result, op, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return domain.WrapError(domain.ErrResumeNotFound, op, fmt.Errorf("id %s", id))
	}
	return nil
}

// decodeOptional maps a NULL column to nil.
func decodeOptional[T any](raw []byte) (*T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
