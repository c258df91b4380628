package solfi

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpeggio-fi/arpeggio/internal/cpi"
	"github.com/arpeggio-fi/arpeggio/internal/cpi/cpitest"
)

func testAccounts(n int) []*cpi.AccountView {
	accounts := make([]*cpi.AccountView, n)
	for i := range accounts {
		raw := make([]byte, 32)
		raw[0] = byte(i + 1)
		accounts[i] = &cpi.AccountView{Address: solana.PublicKeyFromBytes(raw)}
	}
	if n > 0 {
		accounts[0].Address = ProgramID
	}
	return accounts
}

func TestParseSwapAccounts(t *testing.T) {
	_, err := ParseSwapAccounts(testAccounts(8))
	assert.ErrorIs(t, err, cpi.ErrNotEnoughAccounts)

	accounts := testAccounts(9)
	ctx, err := ParseSwapAccounts(accounts)
	require.NoError(t, err)
	assert.Equal(t, ProgramID, ctx.Program.Address)
	assert.Same(t, accounts[8], ctx.InstructionsSysvar)
}

func TestParseSwapData(t *testing.T) {
	data, err := ParseSwapData([]byte{1})
	require.NoError(t, err)
	assert.True(t, data.IsQuoteToBase)

	data, err = ParseSwapData([]byte{0})
	require.NoError(t, err)
	assert.False(t, data.IsQuoteToBase)

	_, err = ParseSwapData(nil)
	assert.ErrorIs(t, err, cpi.ErrInvalidInstructionData)
}

func TestSwapSignedEncoding(t *testing.T) {
	ctx, err := ParseSwapAccounts(testAccounts(9))
	require.NoError(t, err)

	rec := cpitest.New()
	err = ctx.Swap(rec, 3_000_000, 2_900_000, SwapData{IsQuoteToBase: true})
	require.NoError(t, err)
	require.Len(t, rec.Calls, 1)

	call := rec.Calls[0].Invocation
	assert.Equal(t, ProgramID, call.ProgramID)
	require.Len(t, call.Accounts, 8)

	require.Len(t, call.Data, 18)
	assert.Equal(t, byte(7), call.Data[0])
	assert.Equal(t, uint64(3_000_000), binary.LittleEndian.Uint64(call.Data[1:9]))
	assert.Equal(t, uint64(2_900_000), binary.LittleEndian.Uint64(call.Data[9:17]))
	assert.Equal(t, byte(1), call.Data[17])

	// Base-to-quote direction leaves the flag byte zero.
	require.NoError(t, ctx.Swap(rec, 1, 1, SwapData{}))
	assert.Equal(t, byte(0), rec.Calls[1].Invocation.Data[17])

	assert.True(t, call.Accounts[0].IsSigner)
	assert.True(t, call.Accounts[0].IsWritable)
	assert.True(t, call.Accounts[1].IsWritable)
	assert.False(t, call.Accounts[7].IsWritable)
}
