package repository

import (
	"context"
	"time"

	"github.com/AlibekovAA/book-reviews/internal/common/db"
	"github.com/AlibekovAA/book-reviews/internal/common/logger"
	"github.com/AlibekovAA/book-reviews/internal/common/resilience"
	"github.com/AlibekovAA/book-reviews/internal/user/domain"
)

const userColumns = `id, username, email, password_hash, created_at, updated_at`

type PgRepository struct {
	db  db.Querier
	cb  *resilience.CircuitBreaker
	log *logger.Logger
}

func NewPgRepository(q db.Querier, cb *resilience.CircuitBreaker, log *logger.Logger) *PgRepository {
	return &PgRepository{db: q, cb: cb, log: log}
}

// Create inserts the user and relies on users_email_lower_key to reject a
// concurrent signup with the same email.
func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	return r.cb.Call(ctx, func(ctx context.Context) error {
		start := time.Now()
		_, err := r.db.Exec(
			ctx,
			`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
			string(user.ID),
			user.Username,
			domain.NormalizeEmail(user.Email),
			user.PasswordHash,
			user.CreatedAt,
			user.UpdatedAt,
		)
		if _, dup := db.UniqueViolation(err); dup {
			db.MeasureQueryDuration("create_user", db.TableUsers, start)
			return ErrEmailAlreadyExists
		}
		return db.HandleExecError(err, "create_user", db.TableUsers, start)
	})
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, "find_user_by_email", `SELECT `+userColumns+` FROM users WHERE LOWER(email) = $1`, domain.NormalizeEmail(email))
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	return r.findOne(ctx, "find_user_by_id", `SELECT `+userColumns+` FROM users WHERE id = $1`, string(id))
}

func (r *PgRepository) findOne(ctx context.Context, operation, query string, arg string) (domain.User, error) {
	var user domain.User
	err := r.cb.Call(ctx, func(ctx context.Context) error {
		return db.RetryWithBackoff(ctx, r.log, operation, db.DefaultRetryConfig, func(ctx context.Context) error {
			start := time.Now()
			u, err := scanUser(r.db.QueryRow(ctx, query, arg))
			if err != nil {
				return db.HandleQueryError(err, ErrUserNotFound, operation, db.TableUsers, start)
			}
			db.MeasureQueryDuration(operation, db.TableUsers, start)
			user = u
			return nil
		})
	})
	return user, err
}

// UpdateProfile applies only the non-nil fields in one statement and
// returns the stored row.
func (r *PgRepository) UpdateProfile(ctx context.Context, id domain.ID, update domain.ProfileUpdate) (domain.User, error) {
	var email *string
	if update.Email != nil {
		normalized := domain.NormalizeEmail(*update.Email)
		email = &normalized
	}

	var user domain.User
	err := r.cb.Call(ctx, func(ctx context.Context) error {
		start := time.Now()
		u, err := scanUser(r.db.QueryRow(
			ctx,
			`UPDATE users
			 SET username = COALESCE($2, username),
			     email = COALESCE($3, email),
			     updated_at = $4
			 WHERE id = $1
			 RETURNING `+userColumns,
			string(id),
			update.Username,
			email,
			update.UpdatedAt,
		))
		if _, dup := db.UniqueViolation(err); dup {
			db.MeasureQueryDuration("update_profile", db.TableUsers, start)
			return ErrEmailAlreadyExists
		}
		if err != nil {
			return db.HandleQueryError(err, ErrUserNotFound, "update_profile", db.TableUsers, start)
		}
		db.MeasureQueryDuration("update_profile", db.TableUsers, start)
		user = u
		return nil
	})
	return user, err
}

// FindUsernames resolves display names for a batch of user ids. Ids that
// no longer resolve are absent from the result.
func (r *PgRepository) FindUsernames(ctx context.Context, ids []domain.ID) (map[domain.ID]string, error) {
	names := make(map[domain.ID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	args := make([]string, len(ids))
	for i, id := range ids {
		args[i] = string(id)
	}

	err := r.cb.Call(ctx, func(ctx context.Context) error {
		return db.RetryWithBackoff(ctx, r.log, "find_usernames", db.DefaultRetryConfig, func(ctx context.Context) error {
			start := time.Now()
			rows, err := r.db.Query(ctx, `SELECT id, username FROM users WHERE id = ANY($1::uuid[])`, args)
			if err != nil {
				return db.HandleQueryError(err, nil, "find_usernames", db.TableUsers, start)
			}
			defer rows.Close()

			for rows.Next() {
				var id, username string
				if err := rows.Scan(&id, &username); err != nil {
					return db.HandleQueryError(err, nil, "find_usernames", db.TableUsers, start)
				}
				names[domain.ID(id)] = username
			}
			return db.HandleQueryError(rows.Err(), nil, "find_usernames", db.TableUsers, start)
		})
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		user domain.User
		id   string
	)
	if err := row.Scan(&id, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return domain.User{}, err
	}
	user.ID = domain.ID(id)
	return user, nil
}
