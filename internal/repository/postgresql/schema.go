package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hrms-lite/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
)

const schema = `
CREATE TABLE IF NOT EXISTS employees (
	id          BIGSERIAL PRIMARY KEY,
	employee_id VARCHAR(20)  NOT NULL UNIQUE,
	full_name   VARCHAR(100) NOT NULL,
	email       VARCHAR(255) NOT NULL UNIQUE,
	department  VARCHAR(50)  NOT NULL,
	created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS attendance (
	id          BIGSERIAL PRIMARY KEY,
	employee_id BIGINT      NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
	date        DATE        NOT NULL,
	status      VARCHAR(10) NOT NULL CHECK (status IN ('Present', 'Absent')),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT unique_employee_date UNIQUE (employee_id, date)
);

CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance (date);
CREATE INDEX IF NOT EXISTS idx_attendance_employee_id ON attendance (employee_id);
`

// EnsureSchema creates the tables the API needs when they are missing.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// constraintViolation returns the violated constraint name when err is the given pg error code.
func constraintViolation(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}
