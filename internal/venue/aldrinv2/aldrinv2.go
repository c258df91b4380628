// Package aldrinv2 adapts the Aldrin V2 (curved) AMM program's swap
// instruction. V2 adds the curve account to the V1 layout.
package aldrinv2

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/arpeggio-fi/arpeggio/internal/cpi"
)

// ProgramID is the deployed Aldrin V2 program.
var ProgramID = solana.MustPublicKeyFromBase58("CURVGoZn8zycx6FXwwevgBTB2gVvdbGTEpvMJDbgs2t4")

var swapDiscriminator = [8]byte{248, 198, 158, 145, 225, 117, 135, 200}

const (
	minSwapAccounts = 12
	swapDataLen     = 25
)

// Side is the order direction.
type Side byte

const (
	SideBid Side = 0
	SideAsk Side = 1
)

// SwapData carries the order side.
type SwapData struct {
	Side Side
}

// ParseSwapData reads the side byte; values outside the enum fail.
func ParseSwapData(data []byte) (SwapData, error) {
	if len(data) < 1 {
		return SwapData{}, fmt.Errorf("aldrinv2: %w", cpi.ErrInvalidInstructionData)
	}
	switch Side(data[0]) {
	case SideBid, SideAsk:
		return SwapData{Side: Side(data[0])}, nil
	default:
		return SwapData{}, fmt.Errorf("aldrinv2: side byte %d: %w", data[0], cpi.ErrInvalidInstructionData)
	}
}

// SwapAccounts is the account context for Aldrin V2's swap instruction, with
// account 0 being the program itself (detection only).
type SwapAccounts struct {
	Program             *cpi.AccountView
	Pool                *cpi.AccountView
	PoolSigner          *cpi.AccountView
	PoolMint            *cpi.AccountView
	BaseTokenVault      *cpi.AccountView
	QuoteTokenVault     *cpi.AccountView
	FeePoolTokenAccount *cpi.AccountView
	WalletAuthority     *cpi.AccountView
	UserBaseToken       *cpi.AccountView
	UserQuoteToken      *cpi.AccountView
	Curve               *cpi.AccountView
	TokenProgram        *cpi.AccountView
}

var _ cpi.Swapper[SwapData] = (*SwapAccounts)(nil)

// ParseSwapAccounts destructures the flat account list positionally; extra
// trailing accounts are ignored.
func ParseSwapAccounts(accounts []*cpi.AccountView) (*SwapAccounts, error) {
	if len(accounts) < minSwapAccounts {
		return nil, fmt.Errorf("aldrinv2: %w", cpi.ErrNotEnoughAccounts)
	}
	return &SwapAccounts{
		Program:             accounts[0],
		Pool:                accounts[1],
		PoolSigner:          accounts[2],
		PoolMint:            accounts[3],
		BaseTokenVault:      accounts[4],
		QuoteTokenVault:     accounts[5],
		FeePoolTokenAccount: accounts[6],
		WalletAuthority:     accounts[7],
		UserBaseToken:       accounts[8],
		UserQuoteToken:      accounts[9],
		Curve:               accounts[10],
		TokenProgram:        accounts[11],
	}, nil
}

// SwapSigned issues the Aldrin V2 swap CPI.
func (a *SwapAccounts) SwapSigned(inv cpi.Invoker, inAmount, minimumOutAmount uint64, data SwapData, seeds []cpi.SignerSeeds) error {
	metas := []*solana.AccountMeta{
		{PublicKey: a.Pool.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.PoolSigner.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.PoolMint.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.BaseTokenVault.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.QuoteTokenVault.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.FeePoolTokenAccount.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.WalletAuthority.Address, IsSigner: true, IsWritable: false},
		{PublicKey: a.UserBaseToken.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserQuoteToken.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.Curve.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.TokenProgram.Address, IsSigner: false, IsWritable: false},
	}

	views := []*cpi.AccountView{
		a.Pool, a.PoolSigner, a.PoolMint, a.BaseTokenVault,
		a.QuoteTokenVault, a.FeePoolTokenAccount, a.WalletAuthority,
		a.UserBaseToken, a.UserQuoteToken, a.Curve, a.TokenProgram,
	}

	var buf [swapDataLen]byte
	copy(buf[0:8], swapDiscriminator[:])
	binary.LittleEndian.PutUint64(buf[8:16], inAmount)
	binary.LittleEndian.PutUint64(buf[16:24], minimumOutAmount)
	buf[24] = byte(data.Side)

	return inv.InvokeSigned(&cpi.Invocation{
		ProgramID: ProgramID,
		Accounts:  metas,
		Views:     views,
		Data:      buf[:],
	}, seeds)
}

// Swap executes the swap with the immediate caller as authority.
func (a *SwapAccounts) Swap(inv cpi.Invoker, inAmount, minimumOutAmount uint64, data SwapData) error {
	return a.SwapSigned(inv, inAmount, minimumOutAmount, data, nil)
}
