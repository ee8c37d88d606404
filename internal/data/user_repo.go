package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vmelnyk/contacts-api/internal/core"
	"github.com/vmelnyk/contacts-api/internal/data/pgxutil"
	"github.com/vmelnyk/contacts-api/internal/domain/model"
)

// UserRepo implements the UserRepository interface using PostgreSQL.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo instance.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

const userColumns = "id, username, email, hashed_password, avatar, confirmed, created_at"

// FindByID retrieves a user by primary key.
func (r *UserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByUsername retrieves a user by unique username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// FindByEmail retrieves a user by unique email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &user, nil
}

// Create inserts a new, unconfirmed user. Uniqueness races are resolved
// by the database's unique indexes, not by application-level locking;
// violations are translated here into distinct sentinels.
func (r *UserRepo) Create(
	ctx context.Context,
	req model.CreateUserRequest,
	hashedPassword string,
	avatar *string,
) (*model.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `
			INSERT INTO users (username, email, hashed_password, avatar)
			VALUES ($1, $2, $3, $4)
			RETURNING ` + userColumns

		rows, err := conn.Query(ctx, query, req.Username, req.Email, hashedPassword, avatar)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		return nil, r.mapWriteErr(err)
	}

	return &user, nil
}

// ConfirmEmail sets the confirmed flag for the given email. Confirming an
// already-confirmed user is a no-op at this layer.
func (r *UserRepo) ConfirmEmail(ctx context.Context, email string) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `UPDATE users SET confirmed = true WHERE email = $1`, email)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrUserNotFound
		}
		return nil
	})
	if errors.Is(err, ErrUserNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("confirm email: %w", err)
	}
	return nil
}

// UpdateAvatar stores a new avatar URL for the given email.
func (r *UserRepo) UpdateAvatar(ctx context.Context, email, url string) (*model.User, error) {
	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `UPDATE users SET avatar = $1 WHERE email = $2 RETURNING ` + userColumns
		rows, err := conn.Query(ctx, query, url, email)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update avatar: %w", err)
	}

	return &user, nil
}

// mapWriteErr translates unique-constraint violations into sentinel
// errors the service layer turns into conflicts. The constraint name
// distinguishes which field collided.
func (r *UserRepo) mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return ErrDuplicateEmail
		}
		return ErrDuplicateUsername
	}
	return err
}

// Ensure UserRepo implements the UserRepository interface.
var _ core.UserRepository = (*UserRepo)(nil)
