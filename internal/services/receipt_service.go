package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"royalsmart/internal/domain"
	"royalsmart/internal/repos"
)

// ErrValidation marks caller input problems, distinct from storage errors.
var ErrValidation = errors.New("invalid receipt")

var receiptValidate = validator.New(validator.WithRequiredStructEnabled())

// ReceiptInput is the caller-supplied receipt body. sale_date is not
// accepted here; the store stamps it.
type ReceiptInput struct {
	ListingID       string          `json:"listing_id"`
	ReceiptNumber   string          `json:"receipt_number" validate:"required"`
	BuyerName       string          `json:"buyer_name" validate:"required"`
	BuyerPhone      string          `json:"buyer_phone" validate:"required"`
	BuyerAddress    string          `json:"buyer_address"`
	PurchasePrice   *float64        `json:"purchase_price" validate:"required"`
	SellerSignature string          `json:"seller_signature"`
	PCSpecsSnapshot json.RawMessage `json:"pc_specs_snapshot"`
	Notes           string          `json:"notes"`
}

type ReceiptService struct {
	Receipts *repos.ReceiptRepo
}

func NewReceiptService(receipts *repos.ReceiptRepo) *ReceiptService {
	return &ReceiptService{Receipts: receipts}
}

// Create validates required fields before touching storage; a missing field
// fails here and writes nothing.
func (s *ReceiptService) Create(in ReceiptInput) (*domain.ReceiptView, error) {
	if err := receiptValidate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	rc := domain.Receipt{
		ID:              uuid.NewString(),
		ReceiptNumber:   in.ReceiptNumber,
		BuyerName:       in.BuyerName,
		BuyerPhone:      in.BuyerPhone,
		BuyerAddress:    in.BuyerAddress,
		PurchasePrice:   *in.PurchasePrice,
		SellerSignature: in.SellerSignature,
		SpecsJSON:       string(in.PCSpecsSnapshot),
		Notes:           in.Notes,
	}
	if in.ListingID != "" {
		rc.ListingID = sql.NullString{String: in.ListingID, Valid: true}
	}

	created, err := s.Receipts.Create(rc)
	if err != nil {
		return nil, err
	}
	v := created.View()
	return &v, nil
}

func (s *ReceiptService) Get(id string, includeDeleted bool) (*domain.ReceiptView, error) {
	rc, err := s.Receipts.Get(id, includeDeleted)
	if err != nil {
		return nil, err
	}
	v := rc.View()
	return &v, nil
}

func (s *ReceiptService) List(includeDeleted bool) ([]domain.ReceiptView, error) {
	rows, err := s.Receipts.List(includeDeleted)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ReceiptView, 0, len(rows))
	for _, rc := range rows {
		out = append(out, rc.View())
	}
	return out, nil
}

func (s *ReceiptService) Delete(id string) error {
	return s.Receipts.SoftDelete(id)
}
