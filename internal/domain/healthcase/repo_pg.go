package healthcase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const caseColumns = `id, user_id, symptoms, ai_analysis, severity, category, status,
	created_at, updated_at`

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Create(ctx context.Context, hc *HealthCase) error {
	if hc.ID == uuid.Nil {
		hc.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO health_cases (id, user_id, symptoms, ai_analysis, severity, category, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		hc.ID, hc.UserID, hc.Symptoms, hc.AIAnalysis, hc.Severity, hc.Category, hc.Status,
	).Scan(&hc.CreatedAt, &hc.UpdatedAt)
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID) ([]*HealthCase, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+caseColumns+` FROM health_cases
		WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []*HealthCase
	for rows.Next() {
		hc, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, hc)
	}
	return cases, rows.Err()
}

func (r *repoPG) GetOwned(ctx context.Context, id, userID uuid.UUID) (*HealthCase, error) {
	return scanCase(r.pool.QueryRow(ctx, `
		SELECT `+caseColumns+` FROM health_cases
		WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *repoPG) UpdateOwned(ctx context.Context, id, userID uuid.UUID, patch Patch) (*HealthCase, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id, userID}
	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Symptoms != nil {
		add("symptoms", *patch.Symptoms)
	}
	if patch.Severity != nil {
		add("severity", *patch.Severity)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.AIAnalysis != nil {
		add("ai_analysis", *patch.AIAnalysis)
	}

	query := fmt.Sprintf(`
		UPDATE health_cases SET %s
		WHERE id = $1 AND user_id = $2
		RETURNING %s`, strings.Join(sets, ", "), caseColumns)
	return scanCase(r.pool.QueryRow(ctx, query, args...))
}

func scanCase(row pgx.Row) (*HealthCase, error) {
	var hc HealthCase
	err := row.Scan(
		&hc.ID, &hc.UserID, &hc.Symptoms, &hc.AIAnalysis,
		&hc.Severity, &hc.Category, &hc.Status, &hc.CreatedAt, &hc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &hc, nil
}
