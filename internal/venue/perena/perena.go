// Package perena adapts the Perena Numeraire stable-swap program.
package perena

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/arpeggio-fi/arpeggio/internal/cpi"
)

// ProgramID is the deployed Perena Numeraire program.
var ProgramID = solana.MustPublicKeyFromBase58("NUMERUNsFCP3kuNmWZuXtm1AaQCPj9uw6Guv2Ekoi5P")

// Anchor discriminator for the swap instruction.
var swapDiscriminator = [8]byte{248, 198, 158, 145, 225, 117, 135, 200}

const (
	minSwapAccounts = 12
	swapDataLen     = 26 // disc + inIndex + outIndex + inAmount + minOut
)

// SwapData selects the pool-internal token indices for the swap.
type SwapData struct {
	InIndex  byte
	OutIndex byte
}

// ParseSwapData reads the two index bytes following the universal amount fields.
func ParseSwapData(data []byte) (SwapData, error) {
	if len(data) < 2 {
		return SwapData{}, fmt.Errorf("perena: %w", cpi.ErrInvalidInstructionData)
	}
	return SwapData{InIndex: data[0], OutIndex: data[1]}, nil
}

// SwapAccounts is the account context for Perena's swap instruction.
//
// Account order:
//  0. program          - target program (detection only)
//  1. pool             - writable
//  2. inMint           - writable
//  3. outMint          - writable
//  4. inTrader         - writable
//  5. outTrader        - writable
//  6. inVault          - writable
//  7. outVault         - writable
//  8. numeraireConfig
//  9. payer            - writable, signer
// 10. tokenProgram
// 11. token2022Program
type SwapAccounts struct {
	Program          *cpi.AccountView
	Pool             *cpi.AccountView
	InMint           *cpi.AccountView
	OutMint          *cpi.AccountView
	InTrader         *cpi.AccountView
	OutTrader        *cpi.AccountView
	InVault          *cpi.AccountView
	OutVault         *cpi.AccountView
	NumeraireConfig  *cpi.AccountView
	Payer            *cpi.AccountView
	TokenProgram     *cpi.AccountView
	Token2022Program *cpi.AccountView
}

var _ cpi.Swapper[SwapData] = (*SwapAccounts)(nil)

// ParseSwapAccounts destructures the flat account list positionally; extra
// trailing accounts are ignored.
func ParseSwapAccounts(accounts []*cpi.AccountView) (*SwapAccounts, error) {
	if len(accounts) < minSwapAccounts {
		return nil, fmt.Errorf("perena: %w", cpi.ErrNotEnoughAccounts)
	}
	return &SwapAccounts{
		Program:          accounts[0],
		Pool:             accounts[1],
		InMint:           accounts[2],
		OutMint:          accounts[3],
		InTrader:         accounts[4],
		OutTrader:        accounts[5],
		InVault:          accounts[6],
		OutVault:         accounts[7],
		NumeraireConfig:  accounts[8],
		Payer:            accounts[9],
		TokenProgram:     accounts[10],
		Token2022Program: accounts[11],
	}, nil
}

// SwapSigned issues the Perena swap CPI. Note the index bytes precede the
// amount fields in the wire layout.
func (a *SwapAccounts) SwapSigned(inv cpi.Invoker, inAmount, minimumOutAmount uint64, data SwapData, seeds []cpi.SignerSeeds) error {
	metas := []*solana.AccountMeta{
		{PublicKey: a.Pool.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.InMint.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.OutMint.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.InTrader.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.OutTrader.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.InVault.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.OutVault.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.NumeraireConfig.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.Payer.Address, IsSigner: true, IsWritable: true},
		{PublicKey: a.TokenProgram.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.Token2022Program.Address, IsSigner: false, IsWritable: false},
	}

	views := []*cpi.AccountView{
		a.Pool, a.InMint, a.OutMint, a.InTrader, a.OutTrader,
		a.InVault, a.OutVault, a.NumeraireConfig, a.Payer,
		a.TokenProgram, a.Token2022Program,
	}

	var buf [swapDataLen]byte
	copy(buf[0:8], swapDiscriminator[:])
	buf[8] = data.InIndex
	buf[9] = data.OutIndex
	binary.LittleEndian.PutUint64(buf[10:18], inAmount)
	binary.LittleEndian.PutUint64(buf[18:26], minimumOutAmount)

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
