package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)

	CreateDistribution(ctx context.Context, d Distribution) (Distribution, error)
	ListDistributions(ctx context.Context, userID int) ([]Distribution, error)
}

// pgxConn is the subset of *pgxpool.Pool the store needs.
type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// a pgx pool allows the app to reuse and efficiently manage a set of connections to the database,
// rather than opening and closing a new connection for every query.
type PostgresStore struct {
	conn pgxConn
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}

	return &PostgresStore{conn: pool}, nil
}

// EnsureSchema creates the users and distributions tables when missing.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.conn.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (p *PostgresStore) Close() {
	p.conn.Close()
}

func (p *PostgresStore) CreateUser(ctx context.Context, username, passwordHash string) (User, error) {
	query := `
        INSERT INTO users (username, password)
        VALUES ($1, $2)
        RETURNING id;
    `

	u := User{Username: username, PasswordHash: passwordHash}
	err := p.conn.QueryRow(ctx, query, username, passwordHash).Scan(&u.Id)
	if err != nil {
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (p *PostgresStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var user User
	query := `SELECT id, username, password FROM users WHERE username = $1 LIMIT 1`
	err := p.conn.QueryRow(ctx, query, username).Scan(&user.Id, &user.Username, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return User{}, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

func (p *PostgresStore) CreateDistribution(ctx context.Context, d Distribution) (Distribution, error) {
	blob, err := encodeShares(d.Distribution)
	if err != nil {
		return Distribution{}, err
	}

	query := `
        INSERT INTO distributions (user_id, amount, friends, spender, description, distribution)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id;
    `

	friends := d.Friends
	if friends == nil {
		friends = []string{}
	}

	err = p.conn.QueryRow(ctx, query, d.UserId, d.Amount, friends, d.Spender, d.Description, blob).Scan(&d.Id)
	if err != nil {
		return Distribution{}, fmt.Errorf("failed to create distribution: %w", err)
	}

	return d, nil
}

func (p *PostgresStore) ListDistributions(ctx context.Context, userID int) ([]Distribution, error) {
	query := `
        SELECT id, user_id, amount, friends, spender, description, distribution
        FROM distributions
        WHERE user_id = $1;
    `

	rows, err := p.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list distributions for user %d: %w", userID, err)
	}
	defer rows.Close()

	distributions := []Distribution{}
	for rows.Next() {
		var (
			d    Distribution
			blob string
		)
		err := rows.Scan(&d.Id, &d.UserId, &d.Amount, &d.Friends, &d.Spender, &d.Description, &blob)
		if err != nil {
			return nil, fmt.Errorf("failed to scan distribution: %w", err)
		}

		d.Distribution, err = decodeShares(blob)
		if err != nil {
			return nil, fmt.Errorf("distribution %d: %w", d.Id, err)
		}
		distributions = append(distributions, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return distributions, nil
}
