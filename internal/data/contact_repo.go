package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vmelnyk/contacts-api/internal/core"
	"github.com/vmelnyk/contacts-api/internal/data/pgxutil"
	"github.com/vmelnyk/contacts-api/internal/domain/model"
)

// ContactRepo implements the ContactRepository interface using PostgreSQL.
// Every query is scoped by user_id so ownership checks cannot be skipped.
type ContactRepo struct {
	DB *sql.DB
}

// NewContactRepo creates a new ContactRepo instance.
func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{DB: db}
}

const contactColumns = "id, name, surname, email, phone, birth_date, extra_info, user_id"

// Create creates a new contact owned by the given user.
func (r *ContactRepo) Create(
	ctx context.Context,
	userID int64,
	req model.CreateContactRequest,
) (*model.Contact, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var contact model.Contact
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `
			INSERT INTO contacts (name, surname, email, phone, birth_date, extra_info, user_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING ` + contactColumns

		rows, err := conn.Query(ctx, query,
			req.Name, req.Surname, req.Email, req.Phone, req.BirthDate, req.ExtraInfo, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		contact, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Contact])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	return &contact, nil
}

// GetByID retrieves a contact by id within the given user's address book.
func (r *ContactRepo) GetByID(ctx context.Context, userID, contactID int64) (*model.Contact, error) {
	var contact model.Contact
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND user_id = $2`
		rows, err := conn.Query(ctx, query, contactID, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		contact, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Contact])
		return err
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact by id: %w", err)
	}

	return &contact, nil
}

// List retrieves the user's contacts with optional substring filters.
func (r *ContactRepo) List(
	ctx context.Context,
	userID int64,
	opts model.ContactListOptions,
) ([]*model.Contact, error) {
	opts.Normalize()

	var contacts []model.Contact
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1`
		args := []any{userID}

		if opts.Name != nil && *opts.Name != "" {
			args = append(args, "%"+*opts.Name+"%")
			query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
		}
		if opts.Surname != nil && *opts.Surname != "" {
			args = append(args, "%"+*opts.Surname+"%")
			query += fmt.Sprintf(" AND surname ILIKE $%d", len(args))
		}
		if opts.Email != nil && *opts.Email != "" {
			args = append(args, "%"+*opts.Email+"%")
			query += fmt.Sprintf(" AND email ILIKE $%d", len(args))
		}

		query += " ORDER BY id"

		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))

		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		contacts, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Contact])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}

	result := make([]*model.Contact, len(contacts))
	for i := range contacts {
		result[i] = &contacts[i]
	}

	return result, nil
}

// Replace overwrites every mutable field of a contact.
func (r *ContactRepo) Replace(
	ctx context.Context,
	userID, contactID int64,
	req model.CreateContactRequest,
) (*model.Contact, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var contact model.Contact
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `
			UPDATE contacts
			SET name = $1, surname = $2, email = $3, phone = $4, birth_date = $5, extra_info = $6
			WHERE id = $7 AND user_id = $8
			RETURNING ` + contactColumns

		rows, err := conn.Query(ctx, query,
			req.Name, req.Surname, req.Email, req.Phone, req.BirthDate, req.ExtraInfo,
			contactID, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		contact, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Contact])
		return err
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("replace contact: %w", err)
	}

	return &contact, nil
}

// Update applies a partial update; nil fields keep their current value.
func (r *ContactRepo) Update(
	ctx context.Context,
	userID, contactID int64,
	req model.UpdateContactRequest,
) (*model.Contact, error) {
	query, args := buildContactUpdate(userID, contactID, req)
	if query == "" {
		// Nothing to change; return the current row.
		return r.GetByID(ctx, userID, contactID)
	}

	var contact model.Contact
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		contact, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Contact])
		return err
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}

	return &contact, nil
}

func buildContactUpdate(userID, contactID int64, req model.UpdateContactRequest) (string, []any) {
	set := ""
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("%s = $%d", column, len(args))
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Surname != nil {
		add("surname", *req.Surname)
	}
	if req.Email != nil {
		add("email", *req.Email)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.BirthDate != nil {
		add("birth_date", *req.BirthDate)
	}
	if req.ExtraInfo != nil {
		add("extra_info", *req.ExtraInfo)
	}

	if len(args) == 0 {
		return "", nil
	}

	args = append(args, contactID)
	idIdx := len(args)
	args = append(args, userID)
	userIdx := len(args)

	query := fmt.Sprintf(
		"UPDATE contacts SET %s WHERE id = $%d AND user_id = $%d RETURNING %s",
		set, idIdx, userIdx, contactColumns,
	)
	return query, args
}

// Delete removes a contact. Returns false when no owned row matched.
func (r *ContactRepo) Delete(ctx context.Context, userID, contactID int64) (bool, error) {
	var deleted bool
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx,
			`DELETE FROM contacts WHERE id = $1 AND user_id = $2`, contactID, userID)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete contact: %w", err)
	}

	return deleted, nil
}

// UpcomingBirthdays lists contacts whose birthday falls within the next
// `days` days. The window compares month/day only and handles the wrap
// across a month or year boundary.
func (r *ContactRepo) UpcomingBirthdays(
	ctx context.Context,
	userID int64,
	days int,
) ([]*model.Contact, error) {
	if days <= 0 {
		days = 7
	}

	var contacts []model.Contact
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		// to_char(.., 'MMDD') gives a lexically comparable month-day key.
		// A window that wraps past December 31 splits into two ranges.
		query := `
			SELECT ` + contactColumns + `
			FROM contacts
			WHERE user_id = $1
			  AND (
				CASE WHEN to_char(CURRENT_DATE, 'MMDD') <= to_char(CURRENT_DATE + $2::int, 'MMDD')
				THEN to_char(birth_date, 'MMDD')
					BETWEEN to_char(CURRENT_DATE, 'MMDD') AND to_char(CURRENT_DATE + $2::int, 'MMDD')
				ELSE to_char(birth_date, 'MMDD') >= to_char(CURRENT_DATE, 'MMDD')
					OR to_char(birth_date, 'MMDD') <= to_char(CURRENT_DATE + $2::int, 'MMDD')
				END
			  )
			ORDER BY to_char(birth_date, 'MMDD')`

		rows, err := conn.Query(ctx, query, userID, days)
		if err != nil {
			return err
		}
		defer rows.Close()

		contacts, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Contact])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("upcoming birthdays: %w", err)
	}

	result := make([]*model.Contact, len(contacts))
	for i := range contacts {
		result[i] = &contacts[i]
	}

	return result, nil
}

// Ensure ContactRepo implements the ContactRepository interface.
var _ core.ContactRepository = (*ContactRepo)(nil)
