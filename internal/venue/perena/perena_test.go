package perena

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
	data, err := ParseSwapData([]byte{2, 0})
	require.NoError(t, err)
	assert.Equal(t, byte(2), data.InIndex)
	assert.Equal(t, byte(0), data.OutIndex)

	_, err = ParseSwapData([]byte{2})
	assert.ErrorIs(t, err, cpi.ErrInvalidInstructionData)
}

func TestSwapEncoding(t *testing.T) {
	ctx, err := ParseSwapAccounts(testAccounts(12))
	require.NoError(t, err)

	rec := cpitest.New()
	require.NoError(t, ctx.Swap(rec, 30, 29, SwapData{InIndex: 1, OutIndex: 2}))

	data := rec.Calls[0].Invocation.Data
	require.Len(t, data, 26)
	assert.Equal(t, byte(1), data[8])
	assert.Equal(t, byte(2), data[9])
	assert.Equal(t, uint64(30), binary.LittleEndian.Uint64(data[10:18]))
	assert.Equal(t, uint64(29), binary.LittleEndian.Uint64(data[18:26]))
}
