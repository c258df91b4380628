package solfiv2

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
	tests := []struct {
		name    string
		count   int
		wantErr error
	}{
		{name: "exact minimum", count: 14},
		{name: "extra trailing accounts ignored", count: 18},
		{name: "one short", count: 13, wantErr: cpi.ErrNotEnoughAccounts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := testAccounts(tt.count)
			ctx, err := ParseSwapAccounts(accounts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Same(t, accounts[3], ctx.Oracle)
			assert.Same(t, accounts[13], ctx.InstructionsSysvar)
		})
	}
}

func TestParseSwapData(t *testing.T) {
	data, err := ParseSwapData([]byte{1})
	require.NoError(t, err)
	assert.True(t, data.IsQuoteToBase)

	_, err = ParseSwapData(nil)
	assert.ErrorIs(t, err, cpi.ErrInvalidInstructionData)
}

func TestSwapSignedEncoding(t *testing.T) {
	accounts := testAccounts(14)
	ctx, err := ParseSwapAccounts(accounts)
	require.NoError(t, err)

	rec := cpitest.New()
	err = ctx.Swap(rec, 55, 44, SwapData{})
	require.NoError(t, err)
	require.Len(t, rec.Calls, 1)

	call := rec.Calls[0].Invocation
	assert.Equal(t, ProgramID, call.ProgramID)
	// V2 appends oracle, config, mints, and the per-side token programs.
	require.Len(t, call.Accounts, 13)
	assert.Equal(t, accounts[3].Address, call.Accounts[2].PublicKey)
	assert.Equal(t, accounts[4].Address, call.Accounts[3].PublicKey)
	assert.False(t, call.Accounts[2].IsWritable)
	assert.False(t, call.Accounts[3].IsWritable)

	// Same 18-byte selector-7 layout as V1.
	require.Len(t, call.Data, 18)
	assert.Equal(t, byte(7), call.Data[0])
	assert.Equal(t, uint64(55), binary.LittleEndian.Uint64(call.Data[1:9]))
	assert.Equal(t, uint64(44), binary.LittleEndian.Uint64(call.Data[9:17]))
	assert.Equal(t, byte(0), call.Data[17])
}
