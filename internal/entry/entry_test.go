package entry

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpeggio-fi/arpeggio/internal/cpi"
	"github.com/arpeggio-fi/arpeggio/internal/cpi/cpitest"
	"github.com/arpeggio-fi/arpeggio/internal/router"
)

func venueAccounts(p router.Protocol, n int) []*cpi.AccountView {
	accounts := make([]*cpi.AccountView, n)
	for i := range accounts {
		raw := make([]byte, 32)
		raw[0] = byte(i + 1)
		accounts[i] = &cpi.AccountView{Address: solana.PublicKeyFromBytes(raw)}
	}
	if n > 0 {
		accounts[0].Address = p.ProgramID()
	}
	return accounts
}

func swapInstruction(inAmount, minOut uint64, payload ...byte) []byte {
	data := make([]byte, 17, 17+len(payload))
	data[0] = 1
	binary.LittleEndian.PutUint64(data[1:9], inAmount)
	binary.LittleEndian.PutUint64(data[9:17], minOut)
	return append(data, payload...)
}

func TestProcessSwap(t *testing.T) {
	r := router.New(nil, nil, nil)
	rec := cpitest.New()
	accounts := venueAccounts(router.ProtocolManifest, 20)

	err := Process(r, rec, accounts, swapInstruction(1000, 990, 1, 0), nil)
	require.NoError(t, err)
	require.Len(t, rec.Calls, 1)

	data := rec.Calls[0].Invocation.Data
	assert.Equal(t, byte(13), data[0])
	assert.Equal(t, uint64(1000), binary.LittleEndian.Uint64(data[1:9]))
	assert.Equal(t, uint64(990), binary.LittleEndian.Uint64(data[9:17]))
}

func TestProcessDeposit(t *testing.T) {
	r := router.New(nil, nil, nil)
	rec := cpitest.New()
	accounts := venueAccounts(router.ProtocolKamino, 19)

	data := make([]byte, 9)
	binary.LittleEndian.PutUint64(data[1:9], 500)

	err := Process(r, rec, accounts, data, nil)
	require.NoError(t, err)
	// refresh target, refresh obligation, deposit
	require.Len(t, rec.Calls, 3)

	deposit := rec.Calls[2].Invocation.Data
	assert.Equal(t, uint64(500), binary.LittleEndian.Uint64(deposit[8:16]))
}

func TestProcessMalformed(t *testing.T) {
	r := router.New(nil, nil, nil)
	accounts := venueAccounts(router.ProtocolManifest, 20)

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "unknown selector", data: []byte{9, 0, 0, 0, 0, 0, 0, 0, 0}},
		{name: "deposit amount short", data: []byte{0, 1, 2}},
		{name: "swap amounts short", data: []byte{1, 1, 2, 3, 4, 5, 6, 7, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := cpitest.New()
			err := Process(r, rec, accounts, tt.data, nil)
			assert.ErrorIs(t, err, cpi.ErrInvalidInstructionData)
			assert.Empty(t, rec.Calls)
		})
	}
}

func TestProcessSwapBadPayload(t *testing.T) {
	r := router.New(nil, nil, nil)
	rec := cpitest.New()
	accounts := venueAccounts(router.ProtocolManifest, 20)

	// Manifest needs two payload bytes after the amounts.
	err := Process(r, rec, accounts, swapInstruction(1, 1), nil)
	assert.ErrorIs(t, err, cpi.ErrInvalidInstructionData)
	assert.Empty(t, rec.Calls)
}
