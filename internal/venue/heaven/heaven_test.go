package heaven

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
	_, err := ParseSwapAccounts(testAccounts(16))
	assert.ErrorIs(t, err, cpi.ErrNotEnoughAccounts)

	ctx, err := ParseSwapAccounts(testAccounts(17))
	require.NoError(t, err)
	assert.Equal(t, ProgramID, ctx.Program.Address)
}

func TestSwapEmptyEvent(t *testing.T) {
	ctx, err := ParseSwapAccounts(testAccounts(17))
	require.NoError(t, err)

	rec := cpitest.New()
	err = ctx.Swap(rec, 42, 40, SwapData{})
	require.NoError(t, err)
	require.Len(t, rec.Calls, 1)

	data := rec.Calls[0].Invocation.Data
	require.Len(t, data, 28)
	assert.Equal(t, swapDiscriminator[:], data[0:8])
	assert.Equal(t, uint64(42), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, uint64(40), binary.LittleEndian.Uint64(data[16:24]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[24:28]))
}

func TestSwapEventTail(t *testing.T) {
	ctx, err := ParseSwapAccounts(testAccounts(17))
	require.NoError(t, err)

	event := []byte("route=aggregator")
	rec := cpitest.New()
	err = ctx.Swap(rec, 1, 1, SwapData{Event: event})
	require.NoError(t, err)

	data := rec.Calls[0].Invocation.Data
	require.Len(t, data, 28+len(event))
	assert.Equal(t, uint32(len(event)), binary.LittleEndian.Uint32(data[24:28]))
	assert.Equal(t, event, data[28:])
}

func TestSwapEventTooLong(t *testing.T) {
	ctx, err := ParseSwapAccounts(testAccounts(17))
	require.NoError(t, err)

	rec := cpitest.New()
	err = ctx.Swap(rec, 1, 1, SwapData{Event: make([]byte, MaxEventLen+1)})
	assert.ErrorIs(t, err, cpi.ErrInvalidInstructionData)
	// Over-length events must fail before any CPI goes out.
	assert.Empty(t, rec.Calls)
}

func TestSwapMaxEvent(t *testing.T) {
	ctx, err := ParseSwapAccounts(testAccounts(17))
	require.NoError(t, err)

	rec := cpitest.New()
	err = ctx.Swap(rec, 1, 1, SwapData{Event: make([]byte, MaxEventLen)})
	require.NoError(t, err)
	assert.Len(t, rec.Calls[0].Invocation.Data, 28+MaxEventLen)
}
