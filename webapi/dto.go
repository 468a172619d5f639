package webapi

import (
	"time"

	"github.com/minipay/minipay/pkg/domain/account"
	accountsvc "github.com/minipay/minipay/pkg/service/account"
)

//revive:disable

// CreateAccountRequest selects the type of account to open.
type CreateAccountRequest struct {
	Type string `json:"type" validate:"required,oneof=MAIN SAVING"`
}

// ChargeRequest is the body for topping up a main account.
type ChargeRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// WithdrawRequest is the body for withdrawing from a main account.
type WithdrawRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// DepositRequest is the body for depositing into a main account.
type DepositRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// TransferRequest is the body for transfers out of the :id account.
type TransferRequest struct {
	ToAccountID string `json:"to_account_id" validate:"required,uuid4"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
}

// AccountDTO is the API representation of an account.
type AccountDTO struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Type           string     `json:"type"`
	Amount         int64      `json:"amount"`
	LimitAmount    int64      `json:"limit_amount,omitempty"`
	LastChargeDate *time.Time `json:"last_charge_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ChargeResponseDTO reports the account state after a charge.
type ChargeResponseDTO struct {
	AccountID      string `json:"account_id"`
	NewAmount      int64  `json:"new_amount"`
	RemainingLimit int64  `json:"remaining_limit"`
}

// WithdrawResponseDTO reports a completed withdrawal.
type WithdrawResponseDTO struct {
	AccountID string `json:"account_id"`
	Withdrawn int64  `json:"withdrawn"`
}

// DepositResponseDTO reports a completed deposit.
type DepositResponseDTO struct {
	AccountID string `json:"account_id"`
	NewAmount int64  `json:"new_amount"`
}

// TransferResponseDTO reports both balances after a transfer.
type TransferResponseDTO struct {
	FromAccountID string `json:"from_account_id"`
	FromAmount    int64  `json:"from_amount"`
	ToAccountID   string `json:"to_account_id"`
	ToAmount      int64  `json:"to_amount"`
}

// ToAccountDTO maps a domain account to its API representation.
func ToAccountDTO(a *account.Account) AccountDTO {
	dto := AccountDTO{
		ID:        a.ID.String(),
		UserID:    a.UserID.String(),
		Type:      string(a.Type),
		Amount:    a.Amount,
		CreatedAt: a.CreatedAt,
	}
	if a.IsMain() {
		dto.LimitAmount = a.LimitAmount
		if !a.LastChargeDate.IsZero() {
			d := a.LastChargeDate
			dto.LastChargeDate = &d
		}
	}
	return dto
}

// ToTransferDTO maps a service transfer result to its API representation.
func ToTransferDTO(r *accountsvc.TransferResult) TransferResponseDTO {
	return TransferResponseDTO{
		FromAccountID: r.FromAccountID.String(),
		FromAmount:    r.FromAmount,
		ToAccountID:   r.ToAccountID.String(),
		ToAmount:      r.ToAmount,
	}
}
