package aldrinv2

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

func TestParseSwapData(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    Side
		wantErr bool
	}{
		{name: "bid", data: []byte{0}, want: SideBid},
		{name: "ask", data: []byte{1}, want: SideAsk},
		{name: "invalid side byte", data: []byte{7}, wantErr: true},
		{name: "empty", data: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ParseSwapData(tt.data)
			if tt.wantErr {
				assert.ErrorIs(t, err, cpi.ErrInvalidInstructionData)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, data.Side)
		})
	}
}

func TestParseSwapAccounts(t *testing.T) {
	_, err := ParseSwapAccounts(testAccounts(11))
	assert.ErrorIs(t, err, cpi.ErrNotEnoughAccounts)

	accounts := testAccounts(12)
	ctx, err := ParseSwapAccounts(accounts)
	require.NoError(t, err)
	assert.Same(t, accounts[10], ctx.Curve)
	assert.Same(t, accounts[11], ctx.TokenProgram)
}

func TestSwapSignedEncoding(t *testing.T) {
	accounts := testAccounts(12)
	ctx, err := ParseSwapAccounts(accounts)
	require.NoError(t, err)

	rec := cpitest.New()
	err = ctx.Swap(rec, 66, 60, SwapData{Side: SideAsk})
	require.NoError(t, err)
	require.Len(t, rec.Calls, 1)

	call := rec.Calls[0].Invocation
	assert.Equal(t, ProgramID, call.ProgramID)

	// V2 slots the read-only curve account between the user token accounts
	// and the token program.
	require.Len(t, call.Accounts, 11)
	assert.Equal(t, accounts[10].Address, call.Accounts[9].PublicKey)
	assert.False(t, call.Accounts[9].IsWritable)
	assert.Equal(t, accounts[11].Address, call.Accounts[10].PublicKey)
	assert.True(t, call.Accounts[6].IsSigner)

	require.Len(t, call.Data, 25)
	assert.Equal(t, swapDiscriminator[:], call.Data[0:8])
	assert.Equal(t, uint64(66), binary.LittleEndian.Uint64(call.Data[8:16]))
	assert.Equal(t, uint64(60), binary.LittleEndian.Uint64(call.Data[16:24]))
	assert.Equal(t, byte(1), call.Data[24])
}
