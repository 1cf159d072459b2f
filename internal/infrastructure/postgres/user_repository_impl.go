package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BenjaminMehrez/ChallengeWithYari/internal/domain/entity"
	"github.com/BenjaminMehrez/ChallengeWithYari/internal/domain/repository"
)

const userColumns = `id, email, username, password_hash, pokemons, is_active, is_superuser, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.Password, &u.Pokemons,
		&u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if u.Pokemons == nil {
		u.Pokemons = []entity.PokemonRef{}
	}
	return u, nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return repository.ErrDuplicate
	}
	return err
}

func (r *UserRepository) Create(u *entity.User) error {
	ctx := context.Background()
	if u.Pokemons == nil {
		u.Pokemons = []entity.PokemonRef{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, username, password_hash, pokemons, is_active, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Username, u.Password, u.Pokemons, u.IsActive, u.IsSuperuser)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapPgError(err)
	}
	return nil
}

func (r *UserRepository) GetByID(id string) (*entity.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(username string) (*entity.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+userColumns+`
		FROM users
		WHERE username = $1
	`, username)
	return scanUser(row)
}

func (r *UserRepository) List(skip, limit int) ([]*entity.User, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at
		OFFSET $1 LIMIT $2
	`, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *UserRepository) ListActive(skip, limit int) ([]*entity.User, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+userColumns+`
		FROM users
		WHERE is_active
		ORDER BY created_at
		OFFSET $1 LIMIT $2
	`, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// SearchByUsername matches the term as a case-insensitive substring.
func (r *UserRepository) SearchByUsername(term string, skip, limit int) ([]*entity.User, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+userColumns+`
		FROM users
		WHERE username ILIKE '%' || $1 || '%'
		ORDER BY username
		OFFSET $2 LIMIT $3
	`, term, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]*entity.User, error) {
	users := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update overwrites the whole row, including the embedded pokemon
// collection. Last write wins; there is no optimistic-concurrency token.
func (r *UserRepository) Update(u *entity.User) error {
	ctx := context.Background()
	u.UpdatedAt = time.Now()
	if u.Pokemons == nil {
		u.Pokemons = []entity.PokemonRef{}
	}

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, username = $2, password_hash = $3, pokemons = $4,
		    is_active = $5, is_superuser = $6, updated_at = $7
		WHERE id = $8
	`, u.Email, u.Username, u.Password, u.Pokemons, u.IsActive, u.IsSuperuser, u.UpdatedAt, u.ID)
	if err != nil {
		return mapPgError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(id string) error {
	res, err := r.pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

func (r *UserRepository) CountAll() (int, error) {
	var n int
	err := r.pool.QueryRow(context.Background(), `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}

func (r *UserRepository) CountActive() (int, error) {
	var n int
	err := r.pool.QueryRow(context.Background(), `SELECT count(*) FROM users WHERE is_active`).Scan(&n)
	return n, err
}

var _ repository.UserRepository = (*UserRepository)(nil)
