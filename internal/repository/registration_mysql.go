package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/vibe-gaming/enrollment/internal/db"
	"github.com/vibe-gaming/enrollment/internal/domain"
)

const registrationColumns = "session_id, name, email, phone, status, external_ref, device_id, created_at, attached_at"

type registrationMySQLRepository struct {
	db *sqlx.DB
}

func newRegistrationMySQLRepository(db *sqlx.DB) *registrationMySQLRepository {
	return &registrationMySQLRepository{
		db: db,
	}
}

func (r *registrationMySQLRepository) Create(ctx context.Context, registration *domain.Registration) error {
	const op = "repository.registration.Create"

	const query = `
    INSERT INTO registration (session_id, name, email, phone, status, created_at)
    VALUES (:session_id, :name, :email, :phone, :status, :created_at)
    `

	res, err := r.db.NamedExecContext(ctx, query, registration)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == db.DuplicateEntry {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("%s: insert registration failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows != 1 {
		return fmt.Errorf("%s: expected 1 row affected, got %d", op, rows)
	}

	return nil
}

func (r *registrationMySQLRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Registration, error) {
	const op = "repository.registration.GetBySessionID"

	query := "SELECT " + registrationColumns + " FROM registration WHERE session_id = ?"

	var registration domain.Registration
	if err := r.db.GetContext(ctx, &registration, query, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select registration failed: %w", op, err)
	}

	return &registration, nil
}

func (r *registrationMySQLRepository) ListByStatus(ctx context.Context, status domain.RegistrationStatus, limit int) ([]domain.Registration, error) {
	const op = "repository.registration.ListByStatus"

	query := "SELECT " + registrationColumns + " FROM registration WHERE status = ? ORDER BY created_at ASC, session_id ASC LIMIT ?"

	registrations := make([]domain.Registration, 0)
	if err := r.db.SelectContext(ctx, &registrations, query, status, limit); err != nil {
		return nil, fmt.Errorf("%s: select registrations failed: %w", op, err)
	}

	return registrations, nil
}

func (r *registrationMySQLRepository) Attach(ctx context.Context, sessionID string, externalRef string, deviceID string, at time.Time) error {
	const op = "repository.registration.Attach"

	const query = `
    UPDATE registration
    SET status = ?, external_ref = ?, device_id = ?, attached_at = ?
    WHERE session_id = ? AND status IN (?, ?)
    `

	res, err := r.db.ExecContext(ctx, query,
		domain.StatusActive, externalRef, deviceID, at,
		sessionID, domain.StatusPending, domain.StatusWaitingForExternalAttachment,
	)
	if err != nil {
		return fmt.Errorf("%s: update registration failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows == 1 {
		return nil
	}

	if _, err := r.GetBySessionID(ctx, sessionID); err != nil {
		return err
	}

	return domain.ErrAlreadyAttached
}

func (r *registrationMySQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
