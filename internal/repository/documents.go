package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Tx выполняет операции с документами внутри одной транзакции.
type Tx interface {
	// GetForUpdate читает документ и блокирует его строку до конца транзакции.
	GetForUpdate(ctx context.Context, collection, id string) (json.RawMessage, error)
	// Put перезаписывает существующий документ.
	Put(ctx context.Context, collection, id string, doc json.RawMessage) error
}

type pgTx struct {
	tx pgx.Tx
}

func (t pgTx) GetForUpdate(ctx context.Context, collection, id string) (json.RawMessage, error) {
	var raw []byte
	err := t.tx.QueryRow(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`,
		collection, id,
	).Scan(&raw)
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
		}
		return nil, fmt.Errorf("lock document: %w", err)
	}
	return raw, nil
}

func (t pgTx) Put(ctx context.Context, collection, id string, doc json.RawMessage) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE documents SET doc = $3::jsonb, updated_at = now() WHERE collection = $1 AND id = $2`,
		collection, id, string(doc),
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return nil
}

// InTx выполняет fn в одной транзакции. Конфликты сериализации и взаимные
// блокировки приводят к повтору всей транзакции.
func (r *PostgresRepository) InTx(ctx context.Context, fn func(Tx) error) error {
	return r.withRetry(ctx, func() error {
		tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		if err := fn(pgTx{tx: tx}); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
}

// ListDocuments возвращает документы коллекции в порядке создания.
func (r *PostgresRepository) ListDocuments(ctx context.Context, collection string) ([]json.RawMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT doc FROM documents WHERE collection = $1 ORDER BY created_at, id`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("select documents: %w", err)
	}
	defer rows.Close()

	res := make([]json.RawMessage, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		res = append(res, raw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// GetDocument возвращает документ по идентичности.
func (r *PostgresRepository) GetDocument(ctx context.Context, collection, id string) (json.RawMessage, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&raw)
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return raw, nil
}

// InsertDocument сохраняет новый документ.
func (r *PostgresRepository) InsertDocument(ctx context.Context, collection, id string, doc json.RawMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3::jsonb)`,
		collection, id, string(doc),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s/%s", ErrDocumentExists, collection, id)
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// DeleteDocument удаляет документ.
func (r *PostgresRepository) DeleteDocument(ctx context.Context, collection, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return nil
}
