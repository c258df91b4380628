// Package solfiv2 adapts the SolFi V2 program's swap instruction. V2 adds the
// oracle and config accounts plus explicit mints and per-side token programs.
package solfiv2

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/arpeggio-fi/arpeggio/internal/cpi"
)

// ProgramID is the deployed SolFi V2 program.
var ProgramID = solana.MustPublicKeyFromBase58("SV2EYYJyRz2YhfXwXnhNAevDEui5Q6yrfyo13WtupPF")

const (
	swapSelector    byte = 7
	minSwapAccounts      = 14
	swapDataLen          = 18
)

// SwapData carries the swap direction flag.
type SwapData struct {
	IsQuoteToBase bool
}

// ParseSwapData reads the direction byte following the universal amount fields.
func ParseSwapData(data []byte) (SwapData, error) {
	if len(data) < 1 {
		return SwapData{}, fmt.Errorf("solfiv2: %w", cpi.ErrInvalidInstructionData)
	}
	return SwapData{IsQuoteToBase: data[0] != 0}, nil
}

// SwapAccounts is the account context for SolFi V2's swap instruction.
//
// Account order:
//  0. program                - target program (detection only)
//  1. tokenTransferAuthority - writable, signer
//  2. market                 - writable
//  3. oracle
//  4. config
//  5. baseVault              - writable
//  6. quoteVault             - writable
//  7. userBaseATA            - writable
//  8. userQuoteATA           - writable
//  9. baseMint
// 10. quoteMint
// 11. baseTokenProgram
// 12. quoteTokenProgram
// 13. instructionsSysvar
type SwapAccounts struct {
	Program                *cpi.AccountView
	TokenTransferAuthority *cpi.AccountView
	Market                 *cpi.AccountView
	Oracle                 *cpi.AccountView
	Config                 *cpi.AccountView
	BaseVault              *cpi.AccountView
	QuoteVault             *cpi.AccountView
	UserBaseATA            *cpi.AccountView
	UserQuoteATA           *cpi.AccountView
	BaseMint               *cpi.AccountView
	QuoteMint              *cpi.AccountView
	BaseTokenProgram       *cpi.AccountView
	QuoteTokenProgram      *cpi.AccountView
	InstructionsSysvar     *cpi.AccountView
}

var _ cpi.Swapper[SwapData] = (*SwapAccounts)(nil)

// ParseSwapAccounts destructures the flat account list positionally; extra
// trailing accounts are ignored.
func ParseSwapAccounts(accounts []*cpi.AccountView) (*SwapAccounts, error) {
	if len(accounts) < minSwapAccounts {
		return nil, fmt.Errorf("solfiv2: %w", cpi.ErrNotEnoughAccounts)
	}
	return &SwapAccounts{
		Program:                accounts[0],
		TokenTransferAuthority: accounts[1],
		Market:                 accounts[2],
		Oracle:                 accounts[3],
		Config:                 accounts[4],
		BaseVault:              accounts[5],
		QuoteVault:             accounts[6],
		UserBaseATA:            accounts[7],
		UserQuoteATA:           accounts[8],
		BaseMint:               accounts[9],
		QuoteMint:              accounts[10],
		BaseTokenProgram:       accounts[11],
		QuoteTokenProgram:      accounts[12],
		InstructionsSysvar:     accounts[13],
	}, nil
}

// SwapSigned issues the SolFi V2 swap CPI.
func (a *SwapAccounts) SwapSigned(inv cpi.Invoker, inAmount, minimumOutAmount uint64, data SwapData, seeds []cpi.SignerSeeds) error {
	metas := []*solana.AccountMeta{
		{PublicKey: a.TokenTransferAuthority.Address, IsSigner: true, IsWritable: true},
		{PublicKey: a.Market.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.Oracle.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.Config.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.BaseVault.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.QuoteVault.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserBaseATA.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserQuoteATA.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.BaseMint.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.QuoteMint.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.BaseTokenProgram.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.QuoteTokenProgram.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.InstructionsSysvar.Address, IsSigner: false, IsWritable: false},
	}

	views := []*cpi.AccountView{
		a.TokenTransferAuthority, a.Market, a.Oracle, a.Config,
		a.BaseVault, a.QuoteVault, a.UserBaseATA, a.UserQuoteATA,
		a.BaseMint, a.QuoteMint, a.BaseTokenProgram, a.QuoteTokenProgram,
		a.InstructionsSysvar,
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
