package domain

import (
	"database/sql"
	"encoding/json"
)

// Receipt is an immutable record of a completed sale. pc_specs_json is a
// frozen copy of the listing hardware at sale time, never re-derived.
type Receipt struct {
	ID              string         `db:"id"`
	ListingID       sql.NullString `db:"listing_id"`
	ReceiptNumber   string         `db:"receipt_number"`
	BuyerName       string         `db:"buyer_name"`
	BuyerPhone      string         `db:"buyer_phone"`
	BuyerAddress    string         `db:"buyer_address"`
	PurchasePrice   float64        `db:"purchase_price"`
	SellerSignature string         `db:"seller_signature"`
	SpecsJSON       string         `db:"pc_specs_json"`
	Notes           string         `db:"notes"`
	SaleDate        string         `db:"sale_date"`
	DeletedAt       sql.NullString `db:"deleted_at"`
}

// ReceiptView is the external snake_case shape of a receipt.
type ReceiptView struct {
	ID              string          `json:"id"`
	ListingID       *string         `json:"listing_id"`
	ReceiptNumber   string          `json:"receipt_number"`
	BuyerName       string          `json:"buyer_name"`
	BuyerPhone      string          `json:"buyer_phone"`
	BuyerAddress    string          `json:"buyer_address,omitempty"`
	PurchasePrice   float64         `json:"purchase_price"`
	SellerSignature string          `json:"seller_signature,omitempty"`
	PCSpecsSnapshot json.RawMessage `json:"pc_specs_snapshot,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	SaleDate        string          `json:"sale_date"`
	DeletedAt       *string         `json:"deleted_at,omitempty"`
}

// View converts a stored receipt to its external shape.
func (r Receipt) View() ReceiptView {
	v := ReceiptView{
		ID:              r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		BuyerName:       r.BuyerName,
		BuyerPhone:      r.BuyerPhone,
		BuyerAddress:    r.BuyerAddress,
		PurchasePrice:   r.PurchasePrice,
		SellerSignature: r.SellerSignature,
		Notes:           r.Notes,
		SaleDate:        r.SaleDate,
	}
	if r.ListingID.Valid {
		id := r.ListingID.String
		v.ListingID = &id
	}
	if r.SpecsJSON != "" {
		v.PCSpecsSnapshot = json.RawMessage(r.SpecsJSON)
	}
	if r.DeletedAt.Valid {
		ts := r.DeletedAt.String
		v.DeletedAt = &ts
	}
	return v
}
