// Package webapi exposes the account operations over HTTP using Fiber.
// Authentication is handled upstream; the acting user arrives in the
// X-User-ID header.
package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	accountsvc "github.com/minipay/minipay/pkg/service/account"
)

type transferInput struct {
	userID uuid.UUID
	fromID uuid.UUID
	toID   uuid.UUID
	amount int64
}

type transferFunc func(c *fiber.Ctx, svc *accountsvc.Service, in transferInput) (*accountsvc.TransferResult, error)

func transferHandler(svc *accountsvc.Service, run transferFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c)
		if err != nil {
			return err
		}
		fromID, err := pathAccountID(c)
		if err != nil {
			return err
		}
		input, err := BindAndValidate[TransferRequest](c)
		if input == nil {
			return err
		}
		toID, err := uuid.Parse(input.ToAccountID)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid destination account ID", err.Error())
		}
		res, err := run(c, svc, transferInput{userID: userID, fromID: fromID, toID: toID, amount: input.Amount})
		if err != nil {
			return DomainErrorJSON(c, "Transfer failed", err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Transfer completed", ToTransferDTO(res))
	}
}

// New builds the Fiber application with every account route registered.
func New(svc *accountsvc.Service) *fiber.App {
	app := fiber.New(fiber.Config{AppName: "minipay"})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return SuccessResponseJSON(c, fiber.StatusOK, "ok", nil)
	})

	app.Post("/accounts", CreateAccount(svc))
	app.Get("/accounts", ListAccounts(svc))
	app.Post("/accounts/:id/charge", Charge(svc))
	app.Post("/accounts/:id/withdraw", Withdraw(svc))
	app.Post("/accounts/:id/deposit", Deposit(svc))
	app.Post("/accounts/:id/transfer", TransferToSaving(svc))
	app.Post("/accounts/:id/send", SendToOthers(svc))

	return app
}
