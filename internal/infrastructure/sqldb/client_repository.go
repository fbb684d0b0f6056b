package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/martijn/clientdb/internal/core/domain"
	"github.com/martijn/clientdb/internal/core/repository"
)

type clientRepository struct {
	db *DB
}

func NewClientRepository(db *DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (first_name, surname, email)
		VALUES (?, ?, ?)
	`
	return r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		id, err := r.db.insertID(ctx, tx, query, "client_id",
			client.FirstName,
			client.Surname,
			client.Email,
		)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", classifyError(err))
		}
		client.ID = id
		return nil
	})
}

func (r *clientRepository) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	var client domain.Client
	err := r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			SELECT client_id, first_name, surname, email
			FROM clients
			WHERE client_id = ?
		`
		err := tx.GetContext(ctx, &client, tx.Rebind(query), id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to find client: %w", classifyError(err))
		}

		client.Phones = []string{}
		query = `
			SELECT phone_number
			FROM phone_numbers
			WHERE client_id = ?
			ORDER BY phone_id
		`
		if err := tx.SelectContext(ctx, &client.Phones, tx.Rebind(query), id); err != nil {
			return fmt.Errorf("failed to list phone numbers: %w", classifyError(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Update(ctx context.Context, id int64, update domain.ClientUpdate) error {
	query, args := BuildUpdateQuery(id, update)
	if query == "" {
		return nil
	}

	return r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("failed to update client: %w", classifyError(err))
		}
		return nil
	})
}

// Delete removes the client's phone numbers and then the client in one
// transaction.
func (r *clientRepository) Delete(ctx context.Context, id int64) error {
	return r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM phone_numbers WHERE client_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete phone numbers: %w", classifyError(err))
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM clients WHERE client_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete client: %w", classifyError(err))
		}
		return nil
	})
}

func (r *clientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	query := `
		SELECT c.client_id, c.first_name, c.surname, c.email, pn.phone_number
		FROM clients c
		LEFT JOIN phone_numbers pn ON pn.client_id = c.client_id
		ORDER BY c.client_id, pn.phone_id
	`

	clients := []*domain.Client{}
	err := r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := tx.QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", classifyError(err))
		}
		defer rows.Close()

		var current *domain.Client
		for rows.Next() {
			var client domain.Client
			var phone sql.NullString
			err := rows.Scan(
				&client.ID,
				&client.FirstName,
				&client.Surname,
				&client.Email,
				&phone,
			)
			if err != nil {
				return fmt.Errorf("failed to scan client: %w", err)
			}

			if current == nil || current.ID != client.ID {
				client.Phones = []string{}
				current = &client
				clients = append(clients, current)
			}
			if phone.Valid {
				current.Phones = append(current.Phones, phone.String)
			}
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating clients: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *clientRepository) Find(ctx context.Context, search domain.ClientSearch) ([]int64, error) {
	query, args := BuildSearchQuery(search)

	ids := []int64{}
	err := r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &ids, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("failed to find clients: %w", classifyError(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *clientRepository) AddPhone(ctx context.Context, clientID int64, number string) error {
	query := `
		INSERT INTO phone_numbers (phone_number, client_id)
		VALUES (?, ?)
	`
	return r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), number, clientID); err != nil {
			return fmt.Errorf("failed to add phone number: %w", classifyError(err))
		}
		return nil
	})
}

func (r *clientRepository) DeletePhone(ctx context.Context, clientID int64, number string) error {
	query := `
		DELETE FROM phone_numbers
		WHERE client_id = ? AND phone_number = ?
	`
	return r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), clientID, number); err != nil {
			return fmt.Errorf("failed to delete phone number: %w", classifyError(err))
		}
		return nil
	})
}
