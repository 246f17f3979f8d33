// Package postgresdb provides the PostgreSQL-based implementation of the
// storage interface for persisting users and their shortened URLs.
package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/patric-chuzhbe/shortie/internal/models"
	"github.com/patric-chuzhbe/shortie/internal/user"
)

// PostgresDB is a PostgreSQL-backed implementation of the storage interface.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

type initOptions struct {
	DBPreReset bool
}

// InitOption defines a functional option for configuring database initialization.
type InitOption func(*initOptions)

// WithDBPreReset drops the public schema tables before running migrations.
// It exists for integration test setups.
func WithDBPreReset(value bool) InitOption {
	return func(options *initOptions) {
		options.DBPreReset = value
	}
}

// New establishes a connection to the PostgreSQL database,
// runs schema migrations, and returns a configured PostgresDB instance.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
	optionsProto ...InitOption,
) (*PostgresDB, error) {
	options := &initOptions{
		DBPreReset: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if options.DBPreReset {
		if err := result.resetDB(ctx); err != nil {
			return nil, fmt.Errorf("pre-reset of the database failed: %w", err)
		}
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("setting the goose dialect failed: %w", err)
	}

	if err := goose.Up(result.database, migrationsDir); err != nil {
		return nil, fmt.Errorf("applying migrations failed: %w", err)
	}

	return result, nil
}

// CreateUser inserts a new user record and returns the generated UUID.
func (db *PostgresDB) CreateUser(ctx context.Context, usr *user.User) (string, error) {
	row := db.database.QueryRowContext(
		ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id`,
		usr.Username,
		usr.PasswordHash,
	)
	var userID string
	err := row.Scan(&userID)
	if err != nil {
		return "", err
	}

	return userID, nil
}

// FindUserByUsername fetches a user by the unique username.
func (db *PostgresDB) FindUserByUsername(ctx context.Context, username string) (*user.User, bool, error) {
	row := db.database.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash FROM users WHERE username = $1`,
		username,
	)

	return scanUser(row)
}

// FindUserByID fetches a user by their UUID.
func (db *PostgresDB) FindUserByID(ctx context.Context, userID string) (*user.User, bool, error) {
	if userID == "" {
		return nil, false, nil
	}

	row := db.database.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash FROM users WHERE id = $1`,
		userID,
	)

	return scanUser(row)
}

// InsertURL creates a new URL record.
func (db *PostgresDB) InsertURL(ctx context.Context, url *models.URL) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			INSERT INTO urls (id, slug, url, name, user_id, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
		`,
		url.ID,
		url.Slug,
		url.URL,
		url.Name,
		url.UserID,
		url.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// FindURLsByUser retrieves all URL records owned by the user, oldest first.
func (db *PostgresDB) FindURLsByUser(ctx context.Context, userID string) ([]models.URL, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`
			SELECT id, slug, url, name, user_id, created_at
				FROM urls
				WHERE user_id = $1
				ORDER BY created_at, id
		`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.URL{}
	for rows.Next() {
		var url models.URL
		err = rows.Scan(&url.ID, &url.Slug, &url.URL, &url.Name, &url.UserID, &url.CreatedAt)
		if err != nil {
			return nil, err
		}

		result = append(result, url)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return result, nil
}

// FindURLByUserAndTarget looks up the user's record for the given target URL.
// It backs the duplicate-submission precheck.
func (db *PostgresDB) FindURLByUserAndTarget(ctx context.Context, userID, target string) (*models.URL, bool, error) {
	row := db.database.QueryRowContext(
		ctx,
		`
			SELECT id, slug, url, name, user_id, created_at
				FROM urls
				WHERE user_id = $1 AND url = $2
		`,
		userID,
		target,
	)

	return scanURL(row)
}

// FindURLBySlug resolves a slug to its record regardless of owner.
func (db *PostgresDB) FindURLBySlug(ctx context.Context, slug string) (*models.URL, bool, error) {
	row := db.database.QueryRowContext(
		ctx,
		`
			SELECT id, slug, url, name, user_id, created_at
				FROM urls
				WHERE slug = $1
		`,
		slug,
	)

	return scanURL(row)
}

// Ping verifies connectivity with the PostgreSQL database within the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(ctxWithTimeout)
}

// Close closes the database connection and releases any associated resources.
func (db *PostgresDB) Close() error {
	err := db.database.Close()
	if err != nil {
		return err
	}

	return nil
}

func scanUser(row *sql.Row) (*user.User, bool, error) {
	var usr user.User
	err := row.Scan(&usr.ID, &usr.Username, &usr.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &usr, true, nil
}

func scanURL(row *sql.Row) (*models.URL, bool, error) {
	var url models.URL
	err := row.Scan(&url.ID, &url.Slug, &url.URL, &url.Name, &url.UserID, &url.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &url, true, nil
}

func (db *PostgresDB) resetDB(ctx context.Context) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			DO $$
			DECLARE
				r RECORD;
			BEGIN
				FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
					EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
				END LOOP;
			END $$;
		`,
	)
	if err != nil {
		return fmt.Errorf("dropping the public schema tables failed: %w", err)
	}
	return nil
}
