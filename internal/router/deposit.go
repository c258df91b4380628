package router

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arpeggio-fi/arpeggio/internal/cpi"
	"github.com/arpeggio-fi/arpeggio/internal/lend/jupiter"
	"github.com/arpeggio-fi/arpeggio/internal/lend/kamino"
)

// DepositContext is a detected lending venue with its parsed accounts.
// Exactly one venue field is populated; Protocol names which.
type DepositContext struct {
	Protocol Protocol

	Kamino  *kamino.DepositAccounts
	Jupiter *jupiter.DepositAccounts
}

// DetectDeposit resolves which lending venue the account list targets and
// parses its account context. An empty list returns ErrNotEnoughAccounts; an
// unrecognized or disabled first account returns ErrInvalidAccountData.
func (r *Router) DetectDeposit(accounts []*cpi.AccountView) (*DepositContext, error) {
	if len(accounts) == 0 {
		return nil, fmt.Errorf("router: %w", cpi.ErrNotEnoughAccounts)
	}
	detector := accounts[0].Address

	for _, p := range r.deposits {
		if !detector.Equals(p.ProgramID()) {
			continue
		}
		ctx := &DepositContext{Protocol: p}
		var err error
		switch p {
		case ProtocolKamino:
			ctx.Kamino, err = kamino.ParseDepositAccounts(accounts)
		case ProtocolJupiter:
			ctx.Jupiter, err = jupiter.ParseDepositAccounts(accounts)
		}
		if err != nil {
			return nil, err
		}
		r.log.Debug("detected lending venue", zap.Stringer("protocol", p))
		return ctx, nil
	}

	return nil, fmt.Errorf("router: no venue matches account 0: %w", cpi.ErrInvalidAccountData)
}

// DepositSigned dispatches the deposit to the detected venue.
func (c *DepositContext) DepositSigned(inv cpi.Invoker, amount uint64, seeds []cpi.SignerSeeds) error {
	switch c.Protocol {
	case ProtocolKamino:
		return c.Kamino.DepositSigned(inv, amount, seeds)
	case ProtocolJupiter:
		return c.Jupiter.DepositSigned(inv, amount, seeds)
	}
	return fmt.Errorf("router: %w", cpi.ErrInvalidAccountData)
}

// Deposit dispatches the deposit without PDA signing.
func (c *DepositContext) Deposit(inv cpi.Invoker, amount uint64) error {
	return c.DepositSigned(inv, amount, nil)
}

// DepositSigned detects the venue from accounts and executes the deposit in
// one call, with every venue enabled.
func DepositSigned(inv cpi.Invoker, accounts []*cpi.AccountView, amount uint64, seeds []cpi.SignerSeeds) error {
	ctx, err := defaultRouter.DetectDeposit(accounts)
	if err != nil {
		return err
	}
	return ctx.DepositSigned(inv, amount, seeds)
}

// Deposit is DepositSigned without PDA signing.
func Deposit(inv cpi.Invoker, accounts []*cpi.AccountView, amount uint64) error {
	return DepositSigned(inv, accounts, amount, nil)
}
