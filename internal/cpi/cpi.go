// Package cpi holds the primitives shared by every venue adapter: borrowed
// account views, program-derived signer seeds, and the invoke capability the
// host runtime provides for issuing cross-program calls.
package cpi

import (
	"github.com/gagliardetto/solana-go"
)

// AccountView is a borrowed handle to a ledger account supplied for the
// duration of one call. Adapters read the address and owner and never take
// ownership of the underlying account state.
type AccountView struct {
	Address  solana.PublicKey
	Owner    solana.PublicKey
	Writable bool
	Signer   bool
}

// OwnedBy reports whether the account is owned by the given program.
func (v *AccountView) OwnedBy(program solana.PublicKey) bool {
	return v.Owner.Equals(program)
}

// SignerSeeds is one ordered group of seed spans authorizing a CPI on behalf
// of a program-derived address. An empty seed list means the immediate caller
// signs for itself.
type SignerSeeds [][]byte

// Invocation is one fully assembled cross-program call: the target program,
// the account metadata list in the exact order the program fixes, the borrowed
// views backing those metas (same order, duplicates preserved), and the raw
// instruction bytes.
type Invocation struct {
	ProgramID solana.PublicKey
	Accounts  []*solana.AccountMeta
	Views     []*AccountView
	Data      []byte
}

// Instruction renders the invocation as a solana-go instruction, for callers
// that assemble transactions out of the built CPIs.
func (inv *Invocation) Instruction() solana.Instruction {
	return solana.NewInstruction(inv.ProgramID, inv.Accounts, inv.Data)
}

// Invoker is the invoke-with-signer capability of the host runtime. The
// runtime enforces signer and writability semantics downstream; adapters only
// assemble the call. Implementations must execute synchronously and return
// the external program's failure verbatim.
type Invoker interface {
	InvokeSigned(inv *Invocation, seeds []SignerSeeds) error
}

// Swapper is the contract every swap venue adapter implements, parameterized
// by the venue's extra instruction payload type. SwapSigned authorizes the CPI
// with program-derived seeds; Swap is SwapSigned with no seeds.
type Swapper[D any] interface {
	SwapSigned(inv Invoker, inAmount, minimumOutAmount uint64, data D, seeds []SignerSeeds) error
	Swap(inv Invoker, inAmount, minimumOutAmount uint64, data D) error
}

// Depositor is the contract every lending venue adapter implements.
type Depositor interface {
	DepositSigned(inv Invoker, amount uint64, seeds []SignerSeeds) error
	Deposit(inv Invoker, amount uint64) error
}
