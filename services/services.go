package services

import (
	"bytes"
	"fmt"
	"image/png"
	"strconv"
	"time"

	"github.com/skip2/go-qrcode"

	"bountyhub-backend/models"
)

// PaymentService builds funding references and QR codes for bounty
// contributions.
type PaymentService struct {
	escrowAddr string
}

// NewPaymentService creates a payment service custodying funds under
// escrowAddr.
func NewPaymentService(escrowAddr string) *PaymentService {
	return &PaymentService{escrowAddr: escrowAddr}
}

// FundingURI returns the payment reference a contributor scans to fund a
// bounty: the escrow address qualified by the bounty id and a suggested
// amount.
func (s *PaymentService) FundingURI(bountyID int, amountSats int64) string {
	uri := s.escrowAddr + "?bounty=" + strconv.Itoa(bountyID)
	if amountSats > 0 {
		uri += "&amount=" + strconv.FormatInt(amountSats, 10)
	}
	return uri
}

// GenerateFundingQR renders the funding reference as a PNG QR code.
func (s *PaymentService) GenerateFundingQR(bountyID int, amountSats int64) ([]byte, error) {
	qr, err := qrcode.New(s.FundingURI(bountyID, amountSats), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(256)); err != nil {
		return nil, fmt.Errorf("failed to encode QR code to PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// HealthService handles health check business logic.
type HealthService struct{}

// NewHealthService creates a new health service.
func NewHealthService() *HealthService {
	return &HealthService{}
}

// GetHealthStatus returns current health status.
func (s *HealthService) GetHealthStatus() *models.HealthResponse {
	return &models.HealthResponse{
		Status:    "healthy",
		Message:   "Bounty engine is running",
		Timestamp: time.Now().Unix(),
	}
}
