package cpi

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnedBy(t *testing.T) {
	program := solana.MustPublicKeyFromBase58("KLend2g3cP87fffoy8q1mQqGKjrxjC8boSyAYavgmjD")

	view := &AccountView{Owner: program}
	assert.True(t, view.OwnedBy(program))
	assert.False(t, view.OwnedBy(solana.PublicKey{}))
}

func TestInvocationInstruction(t *testing.T) {
	program := solana.MustPublicKeyFromBase58("MNFSTqtC93rEfYHB6hF82sKdZpUDFWkViLByLd1k1Ms")
	raw := make([]byte, 32)
	raw[0] = 7
	account := solana.PublicKeyFromBytes(raw)

	inv := &Invocation{
		ProgramID: program,
		Accounts: []*solana.AccountMeta{
			{PublicKey: account, IsSigner: true, IsWritable: true},
		},
		Data: []byte{1, 2, 3},
	}

	ix := inv.Instruction()
	assert.Equal(t, program, ix.ProgramID())

	accounts := ix.Accounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, account, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsSigner)

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
}
