package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"shop_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type postgresStockLedger struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresStockLedger(db *sql.DB, logger *logrus.Logger) domain.StockLedger {
	return &postgresStockLedger{
		db:  db,
		log: logger,
	}
}

// mergeLineItems collapses duplicate product lines into one quantity each
// and returns the result in ascending product-id order. The stable order
// keeps concurrent batches locking rows in the same sequence.
func mergeLineItems(items []domain.LineItem) []domain.LineItem {
	quantities := make(map[int]int, len(items))
	for _, item := range items {
		quantities[item.ProductID] += item.Quantity
	}

	merged := make([]domain.LineItem, 0, len(quantities))
	for productID, quantity := range quantities {
		merged = append(merged, domain.LineItem{ProductID: productID, Quantity: quantity})
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].ProductID < merged[j].ProductID
	})
	return merged
}

// Reserve applies the whole batch in a single transaction. Each product is
// decremented with a conditional update that refuses to take stock below
// zero; a blind decrement would oversell under concurrent load. Zero rows
// affected means either the product is missing or its stock is short. Any
// failed line rolls the entire transaction back.
func (r *postgresStockLedger) Reserve(ctx context.Context, items []domain.LineItem) error {
	if len(items) == 0 {
		return errors.New("reservation batch cannot be empty")
	}
	for _, item := range items {
		if item.ProductID <= 0 {
			return fmt.Errorf("invalid product ID %d in reservation batch", item.ProductID)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("quantity must be positive for product %d", item.ProductID)
		}
	}

	merged := mergeLineItems(items)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Ledger: Failed to begin reservation transaction: %v", err)
		return fmt.Errorf("%w: could not start reservation", domain.ErrStoreUnavailable)
	}
	defer func() {
		// No-op after a successful commit.
		_ = tx.Rollback()
	}()

	query := `
        UPDATE products
        SET stock = stock - $2, sold = sold + $2, updated_at = NOW()
        WHERE id = $1 AND stock >= $2`

	insufficient := []int{}
	for _, item := range merged {
		result, err := tx.ExecContext(ctx, query, item.ProductID, item.Quantity)
		if err != nil {
			r.log.Errorf("Ledger: Conditional decrement failed for product %d: %v", item.ProductID, err)
			return fmt.Errorf("%w: could not reserve stock", domain.ErrStoreUnavailable)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			r.log.Errorf("Ledger: Failed to read rows affected for product %d: %v", item.ProductID, err)
			return fmt.Errorf("%w: could not confirm reservation", domain.ErrStoreUnavailable)
		}
		if rowsAffected > 0 {
			continue
		}

		// The update matched nothing: distinguish a missing product from a
		// stock shortfall, then keep collecting offenders so the caller can
		// fix the whole cart at once.
		var stock int
		err = tx.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = $1`, item.ProductID).Scan(&stock)
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Ledger: Product %d not found in reservation batch", item.ProductID)
			return &domain.NotFoundError{Entity: "product", ID: item.ProductID}
		}
		if err != nil {
			r.log.Errorf("Ledger: Failed to inspect stock for product %d: %v", item.ProductID, err)
			return fmt.Errorf("%w: could not inspect stock", domain.ErrStoreUnavailable)
		}

		r.log.Warnf("Ledger: Insufficient stock for product %d (available: %d, requested: %d)", item.ProductID, stock, item.Quantity)
		insufficient = append(insufficient, item.ProductID)
	}

	if len(insufficient) > 0 {
		return &domain.InsufficientStockError{ProductIDs: insufficient}
	}

	if err := tx.Commit(); err != nil {
		r.log.Errorf("Ledger: Failed to commit reservation: %v", err)
		return fmt.Errorf("%w: could not commit reservation", domain.ErrStoreUnavailable)
	}

	r.log.Infof("Ledger: Reserved stock for %d product(s)", len(merged))
	return nil
}

// Release undoes a previously successful reservation. It is compensation
// only; normal order flow never adds stock back.
func (r *postgresStockLedger) Release(ctx context.Context, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	merged := mergeLineItems(items)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Ledger: Failed to begin release transaction: %v", err)
		return fmt.Errorf("%w: could not start release", domain.ErrStoreUnavailable)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
        UPDATE products
        SET stock = stock + $2, sold = sold - $2, updated_at = NOW()
        WHERE id = $1`

	for _, item := range merged {
		if _, err := tx.ExecContext(ctx, query, item.ProductID, item.Quantity); err != nil {
			r.log.Errorf("Ledger: Failed to release stock for product %d: %v", item.ProductID, err)
			return fmt.Errorf("%w: could not release stock", domain.ErrStoreUnavailable)
		}
	}

	if err := tx.Commit(); err != nil {
		r.log.Errorf("Ledger: Failed to commit release: %v", err)
		return fmt.Errorf("%w: could not commit release", domain.ErrStoreUnavailable)
	}

	r.log.Infof("Ledger: Released stock for %d product(s)", len(merged))
	return nil
}
