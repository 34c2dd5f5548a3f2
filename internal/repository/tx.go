package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrMentorshipActive is returned when the mentor already mentors the solution.
	ErrMentorshipActive = errors.New("solution mentorship already active")
	// ErrMentorshipMissing is returned when no active mentorship exists to end.
	ErrMentorshipMissing = errors.New("solution mentorship not active")
)

// withTx runs fn inside a transaction, rolling back on any error.
func withTx(ctx context.Context, db *sqlx.DB, label string, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s transaction: %w", label, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit %s transaction: %w", label, err)
	}
	return nil
}
