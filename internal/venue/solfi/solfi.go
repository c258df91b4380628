// Package solfi adapts the SolFi market maker program's swap instruction.
package solfi

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/arpeggio-fi/arpeggio/internal/cpi"
)

// ProgramID is the deployed SolFi program.
var ProgramID = solana.MustPublicKeyFromBase58("SoLFiHG9TfgtdUXUjWAxi3LtvYuFyDLVhBWxdMZxyCe")

const (
	swapSelector    byte = 7
	minSwapAccounts      = 9
	swapDataLen          = 18 // selector + inAmount + minOut + isQuoteToBase
)

// SwapData carries the swap direction flag.
type SwapData struct {
	IsQuoteToBase bool
}

// ParseSwapData reads the direction byte following the universal amount fields.
func ParseSwapData(data []byte) (SwapData, error) {
	if len(data) < 1 {
		return SwapData{}, fmt.Errorf("solfi: %w", cpi.ErrInvalidInstructionData)
	}
	return SwapData{IsQuoteToBase: data[0] != 0}, nil
}

// SwapAccounts is the account context for SolFi's swap instruction.
//
// Account order:
//  0. program                - target program (detection only)
//  1. tokenTransferAuthority - writable, signer
//  2. market                 - writable
//  3. baseVault              - writable
//  4. quoteVault             - writable
//  5. userBaseATA            - writable
//  6. userQuoteATA           - writable
//  7. tokenProgram
//  8. instructionsSysvar
type SwapAccounts struct {
	Program                *cpi.AccountView
	TokenTransferAuthority *cpi.AccountView
	Market                 *cpi.AccountView
	BaseVault              *cpi.AccountView
	QuoteVault             *cpi.AccountView
	UserBaseATA            *cpi.AccountView
	UserQuoteATA           *cpi.AccountView
	TokenProgram           *cpi.AccountView
	InstructionsSysvar     *cpi.AccountView
}

var _ cpi.Swapper[SwapData] = (*SwapAccounts)(nil)

// ParseSwapAccounts destructures the flat account list positionally; extra
// trailing accounts are ignored.
func ParseSwapAccounts(accounts []*cpi.AccountView) (*SwapAccounts, error) {
	if len(accounts) < minSwapAccounts {
		return nil, fmt.Errorf("solfi: %w", cpi.ErrNotEnoughAccounts)
	}
	return &SwapAccounts{
		Program:                accounts[0],
		TokenTransferAuthority: accounts[1],
		Market:                 accounts[2],
		BaseVault:              accounts[3],
		QuoteVault:             accounts[4],
		UserBaseATA:            accounts[5],
		UserQuoteATA:           accounts[6],
		TokenProgram:           accounts[7],
		InstructionsSysvar:     accounts[8],
	}, nil
}

// SwapSigned issues the SolFi swap CPI.
func (a *SwapAccounts) SwapSigned(inv cpi.Invoker, inAmount, minimumOutAmount uint64, data SwapData, seeds []cpi.SignerSeeds) error {
	metas := []*solana.AccountMeta{
		{PublicKey: a.TokenTransferAuthority.Address, IsSigner: true, IsWritable: true},
		{PublicKey: a.Market.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.BaseVault.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.QuoteVault.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserBaseATA.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserQuoteATA.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.TokenProgram.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.InstructionsSysvar.Address, IsSigner: false, IsWritable: false},
	}

	views := []*cpi.AccountView{
		a.TokenTransferAuthority, a.Market, a.BaseVault, a.QuoteVault,
		a.UserBaseATA, a.UserQuoteATA, a.TokenProgram, a.InstructionsSysvar,
	}

	var buf [swapDataLen]byte
	buf[0] = swapSelector
	binary.LittleEndian.PutUint64(buf[1:9], inAmount)
	binary.LittleEndian.PutUint64(buf[9:17], minimumOutAmount)
	if data.IsQuoteToBase {
		buf[17] = 1
	}

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
