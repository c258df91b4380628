package manifest

import (
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
		{name: "exact minimum", count: 15},
		{name: "extra trailing accounts ignored", count: 20},
		{name: "one short", count: 14, wantErr: cpi.ErrNotEnoughAccounts},
		{name: "empty", count: 0, wantErr: cpi.ErrNotEnoughAccounts},
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
			assert.Equal(t, ProgramID, ctx.Program.Address)
			assert.Same(t, accounts[14], ctx.GlobalVault)
		})
	}
}

func TestParseSwapData(t *testing.T) {
	data, err := ParseSwapData([]byte{1, 0})
	require.NoError(t, err)
	assert.True(t, data.IsBaseIn)
	assert.False(t, data.IsExactIn)

	_, err = ParseSwapData([]byte{1})
	assert.ErrorIs(t, err, cpi.ErrInvalidInstructionData)
}

func TestSwapSignedEncoding(t *testing.T) {
	ctx, err := ParseSwapAccounts(testAccounts(15))
	require.NoError(t, err)

	rec := cpitest.New()
	err = ctx.Swap(rec, 100_000_000, 1, SwapData{IsBaseIn: true, IsExactIn: true})
	require.NoError(t, err)
	require.Len(t, rec.Calls, 1)

	call := rec.Calls[0].Invocation
	assert.Equal(t, ProgramID, call.ProgramID)
	assert.Len(t, call.Accounts, 14)

	want := []byte{
		13,
		0, 225, 245, 5, 0, 0, 0, 0, // 100_000_000
		1, 0, 0, 0, 0, 0, 0, 0, // 1
		1, 1,
	}
	assert.Equal(t, want, call.Data)

	// Signer and writability roles are part of the wire contract.
	assert.True(t, call.Accounts[0].IsSigner)
	assert.True(t, call.Accounts[0].IsWritable)
	assert.True(t, call.Accounts[1].IsSigner)
	assert.False(t, call.Accounts[1].IsWritable)
	assert.True(t, call.Accounts[2].IsWritable)
}

func TestSwapFailurePropagates(t *testing.T) {
	ctx, err := ParseSwapAccounts(testAccounts(15))
	require.NoError(t, err)

	wantErr := assert.AnError
	rec := cpitest.FailingAt(0, wantErr)
	err = ctx.Swap(rec, 1, 1, SwapData{})
	assert.ErrorIs(t, err, wantErr)
	assert.Empty(t, rec.Calls)
}
