package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"royalsmart/internal/domain"
)

var ErrReceiptNotFound = errors.New("receipt not found")

type ReceiptRepo struct{ db *sqlx.DB }

func NewReceiptRepo(db *sqlx.DB) *ReceiptRepo { return &ReceiptRepo{db: db} }

const receiptCols = `
  id, listing_id, receipt_number, buyer_name, buyer_phone, buyer_address,
  purchase_price, seller_signature, pc_specs_json, notes, sale_date, deleted_at`

// Create persists a receipt. sale_date is always stamped here, never
// accepted from the caller; required-field validation happens upstream.
func (r *ReceiptRepo) Create(rc domain.Receipt) (*domain.Receipt, error) {
	rc.SaleDate = nowISO()
	if _, err := r.db.NamedExec(`
	  INSERT INTO receipts(
	    id, listing_id, receipt_number, buyer_name, buyer_phone, buyer_address,
	    purchase_price, seller_signature, pc_specs_json, notes, sale_date
	  ) VALUES (
	    :id, :listing_id, :receipt_number, :buyer_name, :buyer_phone, :buyer_address,
	    :purchase_price, :seller_signature, :pc_specs_json, :notes, :sale_date
	  )`, rc); err != nil {
		return nil, err
	}
	return &rc, nil
}

// Get excludes soft-deleted rows unless includeDeleted is set.
func (r *ReceiptRepo) Get(id string, includeDeleted bool) (*domain.Receipt, error) {
	q := `SELECT ` + receiptCols + ` FROM receipts WHERE id = ?`
	if !includeDeleted {
		q += ` AND deleted_at IS NULL`
	}
	var rc domain.Receipt
	err := r.db.Get(&rc, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReceiptNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

// List returns receipts ordered by sale date descending.
func (r *ReceiptRepo) List(includeDeleted bool) ([]domain.Receipt, error) {
	q := `SELECT ` + receiptCols + ` FROM receipts`
	if !includeDeleted {
		q += ` WHERE deleted_at IS NULL`
	}
	q += ` ORDER BY sale_date DESC`
	var out []domain.Receipt
	err := r.db.Select(&out, q)
	return out, err
}

// SoftDelete stamps deleted_at; receipts are never hard-deleted or mutated
// otherwise. Idempotent on already-deleted rows.
func (r *ReceiptRepo) SoftDelete(id string) error {
	res, err := r.db.Exec(`
	  UPDATE receipts SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		nowISO(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// distinguish "missing" from "already deleted": both are fine
		var exists int
		if err := r.db.Get(&exists, `SELECT COUNT(*) FROM receipts WHERE id = ?`, id); err != nil {
			return err
		}
		if exists == 0 {
			return ErrReceiptNotFound
		}
	}
	return nil
}
