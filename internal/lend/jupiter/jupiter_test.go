package jupiter

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

func TestParseDepositAccounts(t *testing.T) {
	_, err := ParseDepositAccounts(testAccounts(17))
	assert.ErrorIs(t, err, cpi.ErrNotEnoughAccounts)

	ctx, err := ParseDepositAccounts(testAccounts(18))
	require.NoError(t, err)
	assert.Equal(t, ProgramID, ctx.LendingProgram.Address)
}

func TestDepositEncoding(t *testing.T) {
	accounts := testAccounts(18)
	ctx, err := ParseDepositAccounts(accounts)
	require.NoError(t, err)

	rec := cpitest.New()
	require.NoError(t, ctx.Deposit(rec, 123_456))
	require.Len(t, rec.Calls, 1)

	call := rec.Calls[0].Invocation
	assert.Equal(t, ProgramID, call.ProgramID)
	require.Len(t, call.Accounts, 17)
	assert.True(t, call.Accounts[0].IsSigner)
	assert.True(t, call.Accounts[0].IsWritable)
	assert.Equal(t, accounts[1].Address, call.Accounts[0].PublicKey)

	require.Len(t, call.Data, 16)
	assert.Equal(t, depositDiscriminator[:], call.Data[0:8])
	assert.Equal(t, uint64(123_456), binary.LittleEndian.Uint64(call.Data[8:16]))
}
