// Package jupiter adapts the Jupiter Earn program's deposit instruction,
// which exchanges liquidity tokens for fTokens representing the position.
package jupiter

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/arpeggio-fi/arpeggio/internal/cpi"
)

// ProgramID is the Jupiter Earn program.
//
// TODO: fill in the mainnet address once Jupiter Earn ships; the zero key
// never collides with a routed account so detection stays safe.
var ProgramID = solana.PublicKey{}

var depositDiscriminator = [8]byte{242, 35, 198, 137, 82, 225, 242, 182}

const (
	minDepositAccounts = 18
	depositDataLen     = 16 // disc + amount
)

// DepositAccounts is the account context for a Jupiter Earn deposit.
//
// Account order:
//  0. lendingProgram  - target program (detection only)
//  1. signer          - writable signer
//  2. depositorTokenAccount - writable
//  3. recipientTokenAccount - writable, receives fTokens
//  4. mint
//  5. lendingAdmin
//  6. lending         - writable
//  7. fTokenMint      - writable
//  8. supplyTokenReservesLiquidity - writable
//  9. lendingSupplyPositionOnLiquidity - writable
// 10. rateModel
// 11. vault           - writable
// 12. liquidity       - writable
// 13. liquidityProgram - writable
// 14. rewardsRateModel
// 15. tokenProgram
// 16. associatedTokenProgram
// 17. systemProgram
type DepositAccounts struct {
	LendingProgram                   *cpi.AccountView
	Signer                           *cpi.AccountView
	DepositorTokenAccount            *cpi.AccountView
	RecipientTokenAccount            *cpi.AccountView
	Mint                             *cpi.AccountView
	LendingAdmin                     *cpi.AccountView
	Lending                          *cpi.AccountView
	FTokenMint                       *cpi.AccountView
	SupplyTokenReservesLiquidity     *cpi.AccountView
	LendingSupplyPositionOnLiquidity *cpi.AccountView
	RateModel                        *cpi.AccountView
	Vault                            *cpi.AccountView
	Liquidity                        *cpi.AccountView
	LiquidityProgram                 *cpi.AccountView
	RewardsRateModel                 *cpi.AccountView
	TokenProgram                     *cpi.AccountView
	AssociatedTokenProgram           *cpi.AccountView
	SystemProgram                    *cpi.AccountView
}

var _ cpi.Depositor = (*DepositAccounts)(nil)

// ParseDepositAccounts destructures the flat account list positionally; extra
// trailing accounts are ignored.
func ParseDepositAccounts(accounts []*cpi.AccountView) (*DepositAccounts, error) {
	if len(accounts) < minDepositAccounts {
		return nil, fmt.Errorf("jupiter: %w", cpi.ErrNotEnoughAccounts)
	}
	return &DepositAccounts{
		LendingProgram:                   accounts[0],
		Signer:                           accounts[1],
		DepositorTokenAccount:            accounts[2],
		RecipientTokenAccount:            accounts[3],
		Mint:                             accounts[4],
		LendingAdmin:                     accounts[5],
		Lending:                          accounts[6],
		FTokenMint:                       accounts[7],
		SupplyTokenReservesLiquidity:     accounts[8],
		LendingSupplyPositionOnLiquidity: accounts[9],
		RateModel:                        accounts[10],
		Vault:                            accounts[11],
		Liquidity:                        accounts[12],
		LiquidityProgram:                 accounts[13],
		RewardsRateModel:                 accounts[14],
		TokenProgram:                     accounts[15],
		AssociatedTokenProgram:           accounts[16],
		SystemProgram:                    accounts[17],
	}, nil
}

// DepositSigned issues the Jupiter Earn deposit CPI.
func (a *DepositAccounts) DepositSigned(inv cpi.Invoker, amount uint64, seeds []cpi.SignerSeeds) error {
	metas := []*solana.AccountMeta{
		{PublicKey: a.Signer.Address, IsSigner: true, IsWritable: true},
		{PublicKey: a.DepositorTokenAccount.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.RecipientTokenAccount.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.Mint.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.LendingAdmin.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.Lending.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.FTokenMint.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.SupplyTokenReservesLiquidity.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.LendingSupplyPositionOnLiquidity.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.RateModel.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.Vault.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.Liquidity.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.LiquidityProgram.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.RewardsRateModel.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.TokenProgram.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.AssociatedTokenProgram.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.SystemProgram.Address, IsSigner: false, IsWritable: false},
	}

	views := []*cpi.AccountView{
		a.Signer, a.DepositorTokenAccount, a.RecipientTokenAccount, a.Mint,
		a.LendingAdmin, a.Lending, a.FTokenMint,
		a.SupplyTokenReservesLiquidity, a.LendingSupplyPositionOnLiquidity,
		a.RateModel, a.Vault, a.Liquidity, a.LiquidityProgram,
		a.RewardsRateModel, a.TokenProgram, a.AssociatedTokenProgram,
		a.SystemProgram,
	}

	var buf [depositDataLen]byte
	copy(buf[0:8], depositDiscriminator[:])
	binary.LittleEndian.PutUint64(buf[8:16], amount)

	return inv.InvokeSigned(&cpi.Invocation{
		ProgramID: ProgramID,
		Accounts:  metas,
		Views:     views,
		Data:      buf[:],
	}, seeds)
}

// Deposit executes the deposit with the immediate caller as authority.
func (a *DepositAccounts) Deposit(inv cpi.Invoker, amount uint64) error {
	return a.DepositSigned(inv, amount, nil)
}
