package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"TransitGuard/domain"
	"TransitGuard/internal/utils"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type (
	PaymentService interface {
		CreateTransaction(ctx context.Context, req domain.PaymentRequest, userID, packageID string) (*domain.PaymentResponse, error)
		// ParseOrderID recovers the user and coin package encoded into a
		// Snap order id by CreateTransaction.
		ParseOrderID(orderID string) (userID, packageID string, err error)
	}

	paymentService struct {
		client snap.Client
	}
)

func NewPaymentService() PaymentService {
	env := midtrans.Sandbox
	if utils.GetConfig("IsProd") == "true" {
		env = midtrans.Production
	}

	var client snap.Client
	client.New(utils.GetConfig("SERVER_KEY"), env)

	return &paymentService{client: client}
}

func (s *paymentService) CreateTransaction(ctx context.Context, req domain.PaymentRequest, userID, packageID string) (*domain.PaymentResponse, error) {
	orderID := fmt.Sprintf("coin:%s:%s:%d", userID, packageID, time.Now().Unix())

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: req.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: req.Email,
		},
	}

	resp, err := s.client.CreateTransaction(snapReq)
	if err != nil {
		return nil, err
	}

	return &domain.PaymentResponse{Invoice: resp.RedirectURL}, nil
}

func (s *paymentService) ParseOrderID(orderID string) (string, string, error) {
	parts := strings.Split(orderID, ":")
	if len(parts) != 4 || parts[0] != "coin" {
		return "", "", domain.ErrPaymentFailed
	}
	return parts[1], parts[2], nil
}
