package futarchy

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
	data, err := ParseSwapData([]byte{1})
	require.NoError(t, err)
	assert.Equal(t, SwapTypeSell, data.SwapType)

	_, err = ParseSwapData([]byte{3})
	assert.ErrorIs(t, err, cpi.ErrInvalidInstructionData)

	_, err = ParseSwapData(nil)
	assert.ErrorIs(t, err, cpi.ErrInvalidInstructionData)
}

func TestSwapDataLayout(t *testing.T) {
	// Futarchy orders the payload disc, inAmount, swapType, minOut; the
	// direction byte sits between the amounts, not after them.
	ctx, err := ParseSwapAccounts(testAccounts(10))
	require.NoError(t, err)

	rec := cpitest.New()
	err = ctx.Swap(rec, 11, 22, SwapData{SwapType: SwapTypeSell})
	require.NoError(t, err)

	data := rec.Calls[0].Invocation.Data
	require.Len(t, data, 25)
	assert.Equal(t, uint64(11), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, byte(1), data[16])
	assert.Equal(t, uint64(22), binary.LittleEndian.Uint64(data[17:25]))
}

func TestParseSwapAccountsShort(t *testing.T) {
	_, err := ParseSwapAccounts(testAccounts(9))
	assert.ErrorIs(t, err, cpi.ErrNotEnoughAccounts)
}
