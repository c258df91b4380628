// Package manifest adapts the Manifest order book program's swap instruction.
package manifest

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/arpeggio-fi/arpeggio/internal/cpi"
)

// ProgramID is the deployed Manifest program.
var ProgramID = solana.MustPublicKeyFromBase58("MNFSTqtC93rEfYHB6hF82sKdZpUDFWkViLByLd1k1Ms")

const (
	swapSelector    byte = 13
	minSwapAccounts      = 15
	swapDataLen          = 19 // selector + inAmount + minOut + isBaseIn + isExactIn
)

// SwapData is the Manifest-specific tail of the instruction payload.
type SwapData struct {
	IsBaseIn  bool
	IsExactIn bool
}

// ParseSwapData reads the two flag bytes following the universal amount fields.
func ParseSwapData(data []byte) (SwapData, error) {
	if len(data) < 2 {
		return SwapData{}, fmt.Errorf("manifest: %w", cpi.ErrInvalidInstructionData)
	}
	return SwapData{
		IsBaseIn:  data[0] != 0,
		IsExactIn: data[1] != 0,
	}, nil
}

// SwapAccounts is the account context for Manifest's swap instruction.
//
// Account order:
//  0. program         - target program (detection only)
//  1. payer           - writable, signer
//  2. owner           - signer
//  3. market          - writable
//  4. systemProgram
//  5. traderBase      - writable
//  6. traderQuote     - writable
//  7. baseVault       - writable
//  8. quoteVault      - writable
//  9. tokenProgramBase
// 10. baseMint
// 11. tokenProgramQuote
// 12. quoteMint
// 13. global          - writable
// 14. globalVault     - writable
type SwapAccounts struct {
	Program           *cpi.AccountView
	Payer             *cpi.AccountView
	Owner             *cpi.AccountView
	Market            *cpi.AccountView
	SystemProgram     *cpi.AccountView
	TraderBase        *cpi.AccountView
	TraderQuote       *cpi.AccountView
	BaseVault         *cpi.AccountView
	QuoteVault        *cpi.AccountView
	TokenProgramBase  *cpi.AccountView
	BaseMint          *cpi.AccountView
	TokenProgramQuote *cpi.AccountView
	QuoteMint         *cpi.AccountView
	Global            *cpi.AccountView
	GlobalVault       *cpi.AccountView
}

var _ cpi.Swapper[SwapData] = (*SwapAccounts)(nil)

// ParseSwapAccounts destructures the flat account list positionally. Extra
// trailing accounts are ignored so callers may pass a superset. Signer and
// writability flags are not checked here; Manifest enforces them during the
// CPI with venue-specific errors.
func ParseSwapAccounts(accounts []*cpi.AccountView) (*SwapAccounts, error) {
	if len(accounts) < minSwapAccounts {
		return nil, fmt.Errorf("manifest: %w", cpi.ErrNotEnoughAccounts)
	}
	return &SwapAccounts{
		Program:           accounts[0],
		Payer:             accounts[1],
		Owner:             accounts[2],
		Market:            accounts[3],
		SystemProgram:     accounts[4],
		TraderBase:        accounts[5],
		TraderQuote:       accounts[6],
		BaseVault:         accounts[7],
		QuoteVault:        accounts[8],
		TokenProgramBase:  accounts[9],
		BaseMint:          accounts[10],
		TokenProgramQuote: accounts[11],
		QuoteMint:         accounts[12],
		Global:            accounts[13],
		GlobalVault:       accounts[14],
	}, nil
}

// SwapSigned issues the Manifest swap CPI. The account metadata list must
// stay in the exact order the program fixes.
func (a *SwapAccounts) SwapSigned(inv cpi.Invoker, inAmount, minimumOutAmount uint64, data SwapData, seeds []cpi.SignerSeeds) error {
	metas := []*solana.AccountMeta{
		{PublicKey: a.Payer.Address, IsSigner: true, IsWritable: true},
		{PublicKey: a.Owner.Address, IsSigner: true, IsWritable: false},
		{PublicKey: a.Market.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.SystemProgram.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.TraderBase.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.TraderQuote.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.BaseVault.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.QuoteVault.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.TokenProgramBase.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.BaseMint.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.TokenProgramQuote.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.QuoteMint.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.Global.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.GlobalVault.Address, IsSigner: false, IsWritable: true},
	}

	views := []*cpi.AccountView{
		a.Payer, a.Owner, a.Market, a.SystemProgram,
		a.TraderBase, a.TraderQuote, a.BaseVault, a.QuoteVault,
		a.TokenProgramBase, a.BaseMint, a.TokenProgramQuote, a.QuoteMint,
		a.Global, a.GlobalVault,
	}

	var buf [swapDataLen]byte
	buf[0] = swapSelector
	binary.LittleEndian.PutUint64(buf[1:9], inAmount)
	binary.LittleEndian.PutUint64(buf[9:17], minimumOutAmount)
	if data.IsBaseIn {
		buf[17] = 1
	}
	if data.IsExactIn {
		buf[18] = 1
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
