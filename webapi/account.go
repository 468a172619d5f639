package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/minipay/minipay/pkg/domain/account"
	accountsvc "github.com/minipay/minipay/pkg/service/account"
)

// CreateAccount returns a handler that opens a main or saving account for
// the acting user.
func CreateAccount(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		input, err := BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err
		}
		var a *account.Account
		if input.Type == string(account.TypeSaving) {
			a, err = svc.CreateSavingAccount(c.Context(), userID)
		} else {
			a, err = svc.CreateMainAccount(c.Context(), userID)
		}
		if err != nil {
			log.Errorf("failed to create account: %v", err)
			return DomainErrorJSON(c, "Failed to create account", err)
		}
		return SuccessResponseJSON(c, fiber.StatusCreated, "Account created", ToAccountDTO(a))
	}
}

// ListAccounts returns a handler that lists the acting user's accounts.
func ListAccounts(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		accts, err := svc.GetAccounts(c.Context(), userID)
		if err != nil {
			log.Errorf("failed to list accounts: %v", err)
			return DomainErrorJSON(c, "Failed to list accounts", err)
		}
		out := make([]AccountDTO, 0, len(accts))
		for _, a := range accts {
			out = append(out, ToAccountDTO(a))
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Accounts", out)
	}
}

// Charge returns a handler that tops up a main account within the daily limit.
func Charge(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		accountID, err := pathAccountID(c)
		if err != nil {
			return err
		}
		input, err := BindAndValidate[ChargeRequest](c)
		if input == nil {
			return err
		}
		res, err := svc.ChargeMainAccount(c.Context(), userID, accountID, input.Amount)
		if err != nil {
			return DomainErrorJSON(c, "Failed to charge account", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Account charged", ChargeResponseDTO{
			AccountID:      res.AccountID.String(),
			NewAmount:      res.NewAmount,
			RemainingLimit: res.RemainingLimit,
		})
	}
}

// Withdraw returns a handler that withdraws from a main account, auto
// charging a shortfall within the daily limit.
func Withdraw(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		accountID, err := pathAccountID(c)
		if err != nil {
			return err
		}
		input, err := BindAndValidate[WithdrawRequest](c)
		if input == nil {
			return err
		}
		withdrawn, err := svc.Withdrawal(c.Context(), userID, accountID, input.Amount)
		if err != nil {
			return DomainErrorJSON(c, "Failed to withdraw", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Withdrawal completed", WithdrawResponseDTO{
			AccountID: accountID.String(),
			Withdrawn: withdrawn,
		})
	}
}

// Deposit returns a handler that deposits into a main account. Standalone
// deposits carry no origin; compensation applies only to the deposit leg of
// a transfer.
func Deposit(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := currentUserID(c); err != nil {
			return err
		}
		accountID, err := pathAccountID(c)
		if err != nil {
			return err
		}
		input, err := BindAndValidate[DepositRequest](c)
		if input == nil {
			return err
		}
		newAmount, err := svc.Deposit(c.Context(), accountID, input.Amount, nil)
		if err != nil {
			return DomainErrorJSON(c, "Failed to deposit", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Deposit completed", DepositResponseDTO{
			AccountID: accountID.String(),
			NewAmount: newAmount,
		})
	}
}

// TransferToSaving returns a handler that moves funds from the :id account
// into one of the acting user's saving accounts.
func TransferToSaving(svc *accountsvc.Service) fiber.Handler {
	return transferHandler(svc, func(c *fiber.Ctx, svc *accountsvc.Service, in transferInput) (*accountsvc.TransferResult, error) {
		return svc.SendToSavingAccount(c.Context(), in.userID, in.fromID, in.toID, in.amount)
	})
}

// SendToOthers returns a handler that remits funds from the acting user's
// main account to another user's main account.
func SendToOthers(svc *accountsvc.Service) fiber.Handler {
	return transferHandler(svc, func(c *fiber.Ctx, svc *accountsvc.Service, in transferInput) (*accountsvc.TransferResult, error) {
		return svc.SendToOthers(c.Context(), in.userID, in.fromID, in.toID, in.amount)
	})
}
