// Package futarchy adapts the Futarchy AMM program's swap instruction.
package futarchy

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/arpeggio-fi/arpeggio/internal/cpi"
)

// ProgramID is the deployed Futarchy program.
var ProgramID = solana.MustPublicKeyFromBase58("FUTARELBfJfQ8RDGhg1wdhddq1odMAJUePHFuBYfUxKq")

var swapDiscriminator = [8]byte{248, 198, 158, 145, 225, 117, 135, 200}

const (
	minSwapAccounts = 10
	swapDataLen     = 25 // disc + inAmount + swapType + minOut
)

// SwapType is the trade direction.
type SwapType byte

const (
	SwapTypeBuy  SwapType = 0
	SwapTypeSell SwapType = 1
)

// SwapData carries the trade direction.
type SwapData struct {
	SwapType SwapType
}

// ParseSwapData reads the direction byte; values outside the enum fail.
func ParseSwapData(data []byte) (SwapData, error) {
	if len(data) < 1 {
		return SwapData{}, fmt.Errorf("futarchy: %w", cpi.ErrInvalidInstructionData)
	}
	switch SwapType(data[0]) {
	case SwapTypeBuy, SwapTypeSell:
		return SwapData{SwapType: SwapType(data[0])}, nil
	default:
		return SwapData{}, fmt.Errorf("futarchy: swap type byte %d: %w", data[0], cpi.ErrInvalidInstructionData)
	}
}

// SwapAccounts is the account context for Futarchy's swap instruction, with
// account 0 being the program itself (detection only).
type SwapAccounts struct {
	Program        *cpi.AccountView
	DAO            *cpi.AccountView
	UserBaseToken  *cpi.AccountView
	UserQuoteToken *cpi.AccountView
	AmmBaseVault   *cpi.AccountView
	AmmQuoteVault  *cpi.AccountView
	User           *cpi.AccountView
	TokenProgram   *cpi.AccountView
	EventAuthority *cpi.AccountView
	ProgramRef     *cpi.AccountView
}

var _ cpi.Swapper[SwapData] = (*SwapAccounts)(nil)

// ParseSwapAccounts destructures the flat account list positionally; extra
// trailing accounts are ignored.
func ParseSwapAccounts(accounts []*cpi.AccountView) (*SwapAccounts, error) {
	if len(accounts) < minSwapAccounts {
		return nil, fmt.Errorf("futarchy: %w", cpi.ErrNotEnoughAccounts)
	}
	return &SwapAccounts{
		Program:        accounts[0],
		DAO:            accounts[1],
		UserBaseToken:  accounts[2],
		UserQuoteToken: accounts[3],
		AmmBaseVault:   accounts[4],
		AmmQuoteVault:  accounts[5],
		User:           accounts[6],
		TokenProgram:   accounts[7],
		EventAuthority: accounts[8],
		ProgramRef:     accounts[9],
	}, nil
}

// SwapSigned issues the Futarchy swap CPI. The swap type byte sits between
// the amount fields in the wire layout.
func (a *SwapAccounts) SwapSigned(inv cpi.Invoker, inAmount, minimumOutAmount uint64, data SwapData, seeds []cpi.SignerSeeds) error {
	metas := []*solana.AccountMeta{
		{PublicKey: a.DAO.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserBaseToken.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserQuoteToken.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.AmmBaseVault.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.AmmQuoteVault.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.User.Address, IsSigner: true, IsWritable: false},
		{PublicKey: a.TokenProgram.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.EventAuthority.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.ProgramRef.Address, IsSigner: false, IsWritable: false},
	}

	views := []*cpi.AccountView{
		a.DAO, a.UserBaseToken, a.UserQuoteToken, a.AmmBaseVault,
		a.AmmQuoteVault, a.User, a.TokenProgram, a.EventAuthority,
		a.ProgramRef,
	}

	var buf [swapDataLen]byte
	copy(buf[0:8], swapDiscriminator[:])
	binary.LittleEndian.PutUint64(buf[8:16], inAmount)
	buf[16] = byte(data.SwapType)
	binary.LittleEndian.PutUint64(buf[17:25], minimumOutAmount)

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
