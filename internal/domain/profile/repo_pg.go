package profile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileColumns = `id, email, full_name, phone_number, date_of_birth, address, city,
	zip_code, blood_type, height, weight, allergies, chronic_conditions,
	current_medications, emergency_contact_name, emergency_contact_phone,
	insurance_provider, insurance_number, medical_history, latitude, longitude,
	created_at, updated_at`

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, userID))
}

// Upsert writes the given columns in a single statement. The column set
// varies per call, so the statement is assembled dynamically; values always
// travel as parameters, never spliced into the SQL.
func (r *repoPG) Upsert(ctx context.Context, userID uuid.UUID, fields map[string]any) (*Profile, error) {
	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	insertCols := []string{"id"}
	placeholders := []string{"$1"}
	updates := []string{"updated_at = NOW()"}
	args := []any{userID}
	for i, col := range cols {
		insertCols = append(insertCols, col)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		args = append(args, fields[col])
	}

	query := fmt.Sprintf(`
		INSERT INTO profiles (%s) VALUES (%s)
		ON CONFLICT (id) DO UPDATE SET %s
		RETURNING %s`,
		strings.Join(insertCols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
		profileColumns,
	)
	return scanProfile(r.pool.QueryRow(ctx, query, args...))
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	var medicalHistory *string
	err := row.Scan(
		&p.ID, &p.Email, &p.FullName, &p.PhoneNumber, &p.DateOfBirth,
		&p.Address, &p.City, &p.ZipCode, &p.BloodType, &p.Height, &p.Weight,
		&p.Allergies, &p.ChronicConditions, &p.CurrentMedications,
		&p.EmergencyContactName, &p.EmergencyContactPhone,
		&p.InsuranceProvider, &p.InsuranceNumber, &medicalHistory,
		&p.Latitude, &p.Longitude, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if medicalHistory != nil {
		p.MedicalHistory = *medicalHistory
	}
	return &p, nil
}
