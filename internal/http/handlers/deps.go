package handlers

import (
	"royalsmart/internal/config"
	"royalsmart/internal/repos"
	"royalsmart/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ScanHandler    *ScanHandler
	ListingHandler *ListingHandler
	ReceiptHandler *ReceiptHandler
	PageHandler    *PageHandler
}

func NewDeps(db *sqlx.DB, scans repos.ScanStore, cfg config.Config, auth *services.AuthService) *Deps {
	listingRepo := repos.NewListingRepo(db)
	receiptRepo := repos.NewReceiptRepo(db)

	listingSvc := services.NewListingService(listingRepo, cfg.MediaBaseURL)
	publishSvc := services.NewPublishService(scans, listingRepo)
	receiptSvc := services.NewReceiptService(receiptRepo)

	return &Deps{
		ScanHandler:    &ScanHandler{Scans: scans},
		ListingHandler: &ListingHandler{Listings: listingSvc, Publish: publishSvc},
		ReceiptHandler: &ReceiptHandler{Receipts: receiptSvc},
		PageHandler:    &PageHandler{Listings: listingSvc, Receipts: receiptSvc, Scans: scans},
	}
}
