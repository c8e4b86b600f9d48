package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Language     string    `json:"language"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateAccount inserts an account and its player in one transaction.
func CreateAccount(ctx context.Context, db *sql.DB, username, passwordHash, language string) (*Account, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO accounts(username, password_hash, language) VALUES (?, ?, ?)`,
		username, passwordHash, language,
	)
	if IsUniqueConstraint(err) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO players(id) VALUES (?)`, id); err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return GetAccountByID(ctx, db, id)
}

const accountColumns = `id, username, password_hash, language, created_at`

func scanAccount(row *sql.Row) (*Account, error) {
	var a Account
	var created int64
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Language, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.CreatedAt = unixTime(created)
	return &a, nil
}

func GetAccountByID(ctx context.Context, q Querier, id int64) (*Account, error) {
	return scanAccount(q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
}

func GetAccountByUsername(ctx context.Context, q Querier, username string) (*Account, error) {
	return scanAccount(q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username))
}

// SetAccountLanguage stores the language used for mission descriptions and packets.
func SetAccountLanguage(ctx context.Context, q Querier, accountID int64, language string) error {
	if language != "en" && language != "fr" {
		return ErrInvalidLanguage
	}
	res, err := q.ExecContext(ctx, `UPDATE accounts SET language = ? WHERE id = ?`, language, accountID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
