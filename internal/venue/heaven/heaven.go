// Package heaven adapts the Heaven DEX program's swap instruction. Heaven
// appends a borsh-encoded event string to the payload; it is usually empty
// but callers can attach up to MaxEventLen bytes.
package heaven

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/arpeggio-fi/arpeggio/internal/cpi"
)

// ProgramID is the deployed Heaven program.
var ProgramID = solana.MustPublicKeyFromBase58("HEAVENoP2qxoeuF8Dj2oT1GHEnu49U5mJYkdeC8BAX2o")

var swapDiscriminator = [8]byte{248, 198, 158, 145, 225, 117, 135, 200}

const (
	minSwapAccounts = 17
	fixedDataLen    = 28 // disc + inAmount + minOut + u32 event length prefix

	// MaxEventLen bounds the variable event tail. Longer payloads fail
	// rather than truncate.
	MaxEventLen = 256
)

// SwapData carries the opaque event bytes forwarded to Heaven.
type SwapData struct {
	Event []byte
}

// ParseSwapData accepts the whole remaining payload as the event span.
// Length is validated at encode time against MaxEventLen.
func ParseSwapData(data []byte) (SwapData, error) {
	return SwapData{Event: data}, nil
}

// SwapAccounts is the account context for Heaven's swap instruction.
//
// Account order:
//  0. program             - target program (detection only)
//  1. tokenAOwner
//  2. tokenBOwner
//  3. ataProgram
//  4. systemProgram
//  5. poolState           - writable
//  6. user                - signer
//  7. tokenAMint
//  8. tokenBMint
//  9. userTokenA          - writable
// 10. userTokenB          - writable
// 11. poolTokenA          - writable
// 12. poolTokenB          - writable
// 13. protocolConfig      - writable
// 14. instructionsSysvar
// 15. chainlinkProgram
// 16. chainlinkSolUsdFeed
type SwapAccounts struct {
	Program             *cpi.AccountView
	TokenAOwner         *cpi.AccountView
	TokenBOwner         *cpi.AccountView
	ATAProgram          *cpi.AccountView
	SystemProgram       *cpi.AccountView
	PoolState           *cpi.AccountView
	User                *cpi.AccountView
	TokenAMint          *cpi.AccountView
	TokenBMint          *cpi.AccountView
	UserTokenA          *cpi.AccountView
	UserTokenB          *cpi.AccountView
	PoolTokenA          *cpi.AccountView
	PoolTokenB          *cpi.AccountView
	ProtocolConfig      *cpi.AccountView
	InstructionsSysvar  *cpi.AccountView
	ChainlinkProgram    *cpi.AccountView
	ChainlinkSolUsdFeed *cpi.AccountView
}

var _ cpi.Swapper[SwapData] = (*SwapAccounts)(nil)

// ParseSwapAccounts destructures the flat account list positionally; extra
// trailing accounts are ignored.
func ParseSwapAccounts(accounts []*cpi.AccountView) (*SwapAccounts, error) {
	if len(accounts) < minSwapAccounts {
		return nil, fmt.Errorf("heaven: %w", cpi.ErrNotEnoughAccounts)
	}
	return &SwapAccounts{
		Program:             accounts[0],
		TokenAOwner:         accounts[1],
		TokenBOwner:         accounts[2],
		ATAProgram:          accounts[3],
		SystemProgram:       accounts[4],
		PoolState:           accounts[5],
		User:                accounts[6],
		TokenAMint:          accounts[7],
		TokenBMint:          accounts[8],
		UserTokenA:          accounts[9],
		UserTokenB:          accounts[10],
		PoolTokenA:          accounts[11],
		PoolTokenB:          accounts[12],
		ProtocolConfig:      accounts[13],
		InstructionsSysvar:  accounts[14],
		ChainlinkProgram:    accounts[15],
		ChainlinkSolUsdFeed: accounts[16],
	}, nil
}

// SwapSigned issues the Heaven swap CPI. The event span is length-prefixed
// per borsh string encoding; an empty event still produces the 4-byte zero
// prefix. Events beyond MaxEventLen fail before anything is invoked.
func (a *SwapAccounts) SwapSigned(inv cpi.Invoker, inAmount, minimumOutAmount uint64, data SwapData, seeds []cpi.SignerSeeds) error {
	if len(data.Event) > MaxEventLen {
		return fmt.Errorf("heaven: event length %d: %w", len(data.Event), cpi.ErrInvalidInstructionData)
	}

	metas := []*solana.AccountMeta{
		{PublicKey: a.TokenAOwner.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.TokenBOwner.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.ATAProgram.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.SystemProgram.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.PoolState.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.User.Address, IsSigner: true, IsWritable: false},
		{PublicKey: a.TokenAMint.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.TokenBMint.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.UserTokenA.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserTokenB.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.PoolTokenA.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.PoolTokenB.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.ProtocolConfig.Address, IsSigner: false, IsWritable: true},
		{PublicKey: a.InstructionsSysvar.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.ChainlinkProgram.Address, IsSigner: false, IsWritable: false},
		{PublicKey: a.ChainlinkSolUsdFeed.Address, IsSigner: false, IsWritable: false},
	}

	views := []*cpi.AccountView{
		a.TokenAOwner, a.TokenBOwner, a.ATAProgram, a.SystemProgram,
		a.PoolState, a.User, a.TokenAMint, a.TokenBMint,
		a.UserTokenA, a.UserTokenB, a.PoolTokenA, a.PoolTokenB,
		a.ProtocolConfig, a.InstructionsSysvar, a.ChainlinkProgram,
		a.ChainlinkSolUsdFeed,
	}

	// Fixed maximum buffer; only the used prefix is sent.
	var buf [fixedDataLen + MaxEventLen]byte
	copy(buf[0:8], swapDiscriminator[:])
	binary.LittleEndian.PutUint64(buf[8:16], inAmount)
	binary.LittleEndian.PutUint64(buf[16:24], minimumOutAmount)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(len(data.Event)))
	copy(buf[fixedDataLen:], data.Event)

	return inv.InvokeSigned(&cpi.Invocation{
		ProgramID: ProgramID,
		Accounts:  metas,
		Views:     views,
		Data:      buf[:fixedDataLen+len(data.Event)],
	}, seeds)
}

// Swap executes the swap with the immediate caller as authority.
func (a *SwapAccounts) Swap(inv cpi.Invoker, inAmount, minimumOutAmount uint64, data SwapData) error {
	return a.SwapSigned(inv, inAmount, minimumOutAmount, data, nil)
}
