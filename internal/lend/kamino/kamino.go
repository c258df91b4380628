// Package kamino adapts the Kamino Lend program's
// DepositReserveLiquidityAndObligationCollateralV2 flow.
//
// A Kamino deposit is a sequence of CPIs, not a single instruction: every
// reserve touched by the obligation has to be refreshed, then the obligation
// itself, and only then can the deposit land. The sequence aborts on the first
// failed step.
package kamino

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/arpeggio-fi/arpeggio/internal/cpi"
)

// ProgramID is the deployed Kamino Lend program.
var ProgramID = solana.MustPublicKeyFromBase58("KLend2g3cP87fffoy8q1mQqGKjrxjC8boSyAYavgmjD")

var (
	refreshReserveDiscriminator    = [8]byte{2, 218, 138, 235, 79, 201, 25, 102}
	refreshObligationDiscriminator = [8]byte{33, 132, 147, 228, 151, 192, 72, 89}
	depositDiscriminator           = [8]byte{216, 224, 191, 27, 204, 151, 102, 175}
)

const (
	minDepositAccounts = 19

	// maxTailReserves bounds the obligation refresh account list; Kamino
	// obligations reference at most this many reserves beyond the target.
	maxTailReserves = 13
)

// DepositAccounts is the account context for a Kamino deposit.
//
// Account order:
//  0. kaminoLendingProgram                 - target program (also fills optional slots)
//  1. owner                                - writable signer
//  2. obligation                           - writable
//  3. lendingMarket
//  4. lendingMarketAuthority
//  5. reserve                              - writable
//  6. reserveLiquidityMint
//  7. reserveLiquiditySupply               - writable
//  8. reserveCollateralMint                - writable
//  9. reserveDestinationDepositCollateral  - writable
// 10. userSourceLiquidity                  - writable
// 11. placeholderUserDestinationCollateral
// 12. collateralTokenProgram
// 13. liquidityTokenProgram
// 14. instructionSysvar
// 15. obligationFarmUserState              - writable
// 16. reserveFarmState                     - writable
// 17. farmsProgram
// 18. scopeOracle
// 19+ tail reserves owned by Kamino (refreshed before the obligation)
type DepositAccounts struct {
	KaminoLendingProgram                 *cpi.AccountView
	Owner                                *cpi.AccountView
	Obligation                           *cpi.AccountView
	LendingMarket                        *cpi.AccountView
	LendingMarketAuthority               *cpi.AccountView
	Reserve                              *cpi.AccountView
	ReserveLiquidityMint                 *cpi.AccountView
	ReserveLiquiditySupply               *cpi.AccountView
	ReserveCollateralMint                *cpi.AccountView
	ReserveDestinationDepositCollateral  *cpi.AccountView
	UserSourceLiquidity                  *cpi.AccountView
	PlaceholderUserDestinationCollateral *cpi.AccountView
	CollateralTokenProgram               *cpi.AccountView
	LiquidityTokenProgram                *cpi.AccountView
	InstructionSysvar                    *cpi.AccountView
	ObligationFarmUserState              *cpi.AccountView
	ReserveFarmState                     *cpi.AccountView
	FarmsProgram                         *cpi.AccountView
	ScopeOracle                          *cpi.AccountView

	// ReserveAccounts holds the tail reserves that must be refreshed
	// alongside the target before the obligation refresh.
	ReserveAccounts []*cpi.AccountView
}

var _ cpi.Depositor = (*DepositAccounts)(nil)

// ParseDepositAccounts destructures the flat account list. Trailing accounts
// owned by the Kamino program are collected as tail reserves; the scan stops
// at the first account with a different owner, so unrelated trailing accounts
// are ignored.
func ParseDepositAccounts(accounts []*cpi.AccountView) (*DepositAccounts, error) {
	if len(accounts) < minDepositAccounts {
		return nil, fmt.Errorf("kamino: %w", cpi.ErrNotEnoughAccounts)
	}

	remaining := accounts[minDepositAccounts:]
	tail := 0
	for _, r := range remaining {
		if !r.OwnedBy(ProgramID) || tail >= maxTailReserves {
			break
		}
		tail++
	}

	return &DepositAccounts{
		KaminoLendingProgram:                 accounts[0],
		Owner:                                accounts[1],
		Obligation:                           accounts[2],
		LendingMarket:                        accounts[3],
		LendingMarketAuthority:               accounts[4],
		Reserve:                              accounts[5],
		ReserveLiquidityMint:                 accounts[6],
		ReserveLiquiditySupply:               accounts[7],
		ReserveCollateralMint:                accounts[8],
		ReserveDestinationDepositCollateral:  accounts[9],
		UserSourceLiquidity:                  accounts[10],
		PlaceholderUserDestinationCollateral: accounts[11],
		CollateralTokenProgram:               accounts[12],
		LiquidityTokenProgram:                accounts[13],
		InstructionSysvar:                    accounts[14],
		ObligationFarmUserState:              accounts[15],
		ReserveFarmState:                     accounts[16],
		FarmsProgram:                         accounts[17],
		ScopeOracle:                          accounts[18],
		ReserveAccounts:                      remaining[:tail],
	}, nil
}

// refreshReserve issues a RefreshReserve CPI for one reserve. The three
// optional oracle slots (pyth, switchboard price, switchboard twap) are
// filled with the program id; only the scope oracle is live.
func (a *DepositAccounts) refreshReserve(inv cpi.Invoker, reserve *cpi.AccountView, seeds []cpi.SignerSeeds) error {
	metas := []*solana.AccountMeta{
		{PublicKey: reserve.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.KaminoLendingProgram.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.KaminoLendingProgram.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.KaminoLendingProgram.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.ScopeOracle.Address, IsSigner: false, IsWritable: false},
	}

	views := []*cpi.AccountView{
		reserve,
		a.KaminoLendingProgram,
		a.KaminoLendingProgram,
		a.KaminoLendingProgram,
		a.ScopeOracle,
	}

	return inv.InvokeSigned(&cpi.Invocation{
		ProgramID: ProgramID,
		Accounts:  metas,
		Views:     views,
		Data:      refreshReserveDiscriminator[:],
	}, seeds)
}

// refreshObligation issues a RefreshObligation CPI listing every reserve the
// obligation references.
func (a *DepositAccounts) refreshObligation(inv cpi.Invoker, seeds []cpi.SignerSeeds) error {
	metas := make([]*solana.AccountMeta, 0, 2+len(a.ReserveAccounts))
	metas = append(metas,
		&solana.AccountMeta{PublicKey: a.Obligation.Address, IsSigner: false, IsWritable: true},
		&solana.AccountMeta{PublicKey: a.LendingMarket.Address, IsSigner: false, IsWritable: false},
	)

	views := make([]*cpi.AccountView, 0, 2+len(a.ReserveAccounts))
	views = append(views, a.Obligation, a.LendingMarket)

	for _, r := range a.ReserveAccounts {
		metas = append(metas, &solana.AccountMeta{PublicKey: r.Address, IsSigner: false, IsWritable: false})
		views = append(views, r)
	}

	return inv.InvokeSigned(&cpi.Invocation{
		ProgramID: ProgramID,
		Accounts:  metas,
		Views:     views,
		Data:      refreshObligationDiscriminator[:],
	}, seeds)
}

// DepositSigned runs the full deposit sequence: refresh the target reserve,
// refresh each tail reserve, refresh the obligation, then deposit. The first
// failing CPI aborts the sequence and its error is returned unchanged.
func (a *DepositAccounts) DepositSigned(inv cpi.Invoker, amount uint64, seeds []cpi.SignerSeeds) error {
	if err := a.refreshReserve(inv, a.Reserve, seeds); err != nil {
		return err
	}
	for _, r := range a.ReserveAccounts {
		if err := a.refreshReserve(inv, r, seeds); err != nil {
			return err
		}
	}
	if err := a.refreshObligation(inv, seeds); err != nil {
		return err
	}

	metas := []*solana.AccountMeta{
		{PublicKey: a.Owner.Address, IsSigner: true, IsWritable: true},
		{PublicKey: a.Obligation.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.LendingMarket.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.LendingMarketAuthority.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.Reserve.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.ReserveLiquidityMint.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.ReserveLiquiditySupply.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.ReserveCollateralMint.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.ReserveDestinationDepositCollateral.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserSourceLiquidity.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.PlaceholderUserDestinationCollateral.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.CollateralTokenProgram.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.LiquidityTokenProgram.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.InstructionSysvar.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.ObligationFarmUserState.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.ReserveFarmState.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.FarmsProgram.Address, IsSigner: false, IsWritable: false},
	}

	views := []*cpi.AccountView{
		a.Owner, a.Obligation, a.LendingMarket, a.LendingMarketAuthority,
		a.Reserve, a.ReserveLiquidityMint, a.ReserveLiquiditySupply,
		a.ReserveCollateralMint, a.ReserveDestinationDepositCollateral,
		a.UserSourceLiquidity, a.PlaceholderUserDestinationCollateral,
		a.CollateralTokenProgram, a.LiquidityTokenProgram,
		a.InstructionSysvar, a.ObligationFarmUserState,
		a.ReserveFarmState, a.FarmsProgram,
	}

	var buf [16]byte
	copy(buf[0:8], depositDiscriminator[:])
	binary.LittleEndian.PutUint64(buf[8:16], amount)

	return inv.InvokeSigned(&cpi.Invocation{
		ProgramID: ProgramID,
		Accounts:  metas,
		Views:     views,
		Data:      buf[:],
	}, seeds)
}

// Deposit runs the deposit sequence with the immediate caller as authority.
func (a *DepositAccounts) Deposit(inv cpi.Invoker, amount uint64) error {
	return a.DepositSigned(inv, amount, nil)
}
