// Package gamma adapts the Gamma concentrated AMM program's swap instruction.
// Gamma takes no payload beyond the universal amount fields.
package gamma

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/arpeggio-fi/arpeggio/internal/cpi"
)

// ProgramID is the deployed Gamma program.
var ProgramID = solana.MustPublicKeyFromBase58("GAMMA7meSFWaBXF25oSUgmGRwaW6sCMFLmBNiMSdbHVT")

var swapDiscriminator = [8]byte{248, 198, 158, 145, 225, 117, 135, 200}

const (
	minSwapAccounts = 14
	swapDataLen     = 24 // disc + inAmount + minOut
)

// SwapData is empty; the instruction carries only the amount fields.
type SwapData struct{}

// ParseSwapData ignores trailing bytes; Gamma has no extra payload.
func ParseSwapData(data []byte) (SwapData, error) {
	return SwapData{}, nil
}

// SwapAccounts is the account context for Gamma's swap instruction.
//
// Account order:
//  0. program            - target program (detection only)
//  1. payer              - signer
//  2. authority
//  3. ammConfig
//  4. poolState          - writable
//  5. inputTokenAccount  - writable
//  6. outputTokenAccount - writable
//  7. inputVault         - writable
//  8. outputVault        - writable
//  9. inputTokenProgram
// 10. outputTokenProgram
// 11. inputTokenMint
// 12. outputTokenMint
// 13. observationState   - writable
type SwapAccounts struct {
	Program            *cpi.AccountView
	Payer              *cpi.AccountView
	Authority          *cpi.AccountView
	AmmConfig          *cpi.AccountView
	PoolState          *cpi.AccountView
	InputTokenAccount  *cpi.AccountView
	OutputTokenAccount *cpi.AccountView
	InputVault         *cpi.AccountView
	OutputVault        *cpi.AccountView
	InputTokenProgram  *cpi.AccountView
	OutputTokenProgram *cpi.AccountView
	InputTokenMint     *cpi.AccountView
	OutputTokenMint    *cpi.AccountView
	ObservationState   *cpi.AccountView
}

var _ cpi.Swapper[SwapData] = (*SwapAccounts)(nil)

// ParseSwapAccounts destructures the flat account list positionally; extra
// trailing accounts are ignored.
func ParseSwapAccounts(accounts []*cpi.AccountView) (*SwapAccounts, error) {
	if len(accounts) < minSwapAccounts {
		return nil, fmt.Errorf("gamma: %w", cpi.ErrNotEnoughAccounts)
	}
	return &SwapAccounts{
		Program:            accounts[0],
		Payer:              accounts[1],
		Authority:          accounts[2],
		AmmConfig:          accounts[3],
		PoolState:          accounts[4],
		InputTokenAccount:  accounts[5],
		OutputTokenAccount: accounts[6],
		InputVault:         accounts[7],
		OutputVault:        accounts[8],
		InputTokenProgram:  accounts[9],
		OutputTokenProgram: accounts[10],
		InputTokenMint:     accounts[11],
		OutputTokenMint:    accounts[12],
		ObservationState:   accounts[13],
	}, nil
}

// SwapSigned issues the Gamma swap CPI.
func (a *SwapAccounts) SwapSigned(inv cpi.Invoker, inAmount, minimumOutAmount uint64, _ SwapData, seeds []cpi.SignerSeeds) error {
	metas := []*solana.AccountMeta{
		{PublicKey: a.Payer.Address, IsSigner: true, IsWritable: false},
		{PublicKey: a.Authority.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.AmmConfig.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.PoolState.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.InputTokenAccount.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.OutputTokenAccount.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.InputVault.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.OutputVault.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.InputTokenProgram.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.OutputTokenProgram.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.InputTokenMint.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.OutputTokenMint.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.ObservationState.Address, IsSigner: false, IsWritable: true},
	}

	views := []*cpi.AccountView{
		a.Payer, a.Authority, a.AmmConfig, a.PoolState,
		a.InputTokenAccount, a.OutputTokenAccount, a.InputVault,
		a.OutputVault, a.InputTokenProgram, a.OutputTokenProgram,
		a.InputTokenMint, a.OutputTokenMint, a.ObservationState,
	}

	var buf [swapDataLen]byte
	copy(buf[0:8], swapDiscriminator[:])
	binary.LittleEndian.PutUint64(buf[8:16], inAmount)
	binary.LittleEndian.PutUint64(buf[16:24], minimumOutAmount)

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
