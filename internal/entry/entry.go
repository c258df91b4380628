// Package entry decodes the top-level instruction wire format and forwards to
// the router.
//
// Layout: byte 0 selects the operation, then the universal amount fields in
// little endian, then the venue payload.
//
//	deposit: [0][amount u64]
//	swap:    [1][inAmount u64][minimumOutAmount u64][payload...]
package entry

import (
	"encoding/binary"
	"fmt"

	"github.com/arpeggio-fi/arpeggio/internal/cpi"
	"github.com/arpeggio-fi/arpeggio/internal/router"
)

const (
	opDeposit byte = 0
	opSwap    byte = 1
)

// Process decodes data, detects the venue from accounts with r, and issues
// the resulting CPIs through inv. Malformed data returns
// ErrInvalidInstructionData before any CPI.
func Process(r *router.Router, inv cpi.Invoker, accounts []*cpi.AccountView, data []byte, seeds []cpi.SignerSeeds) error {
	if len(data) < 1 {
		return fmt.Errorf("entry: empty instruction: %w", cpi.ErrInvalidInstructionData)
	}

	switch data[0] {
	case opDeposit:
		if len(data) < 9 {
			return fmt.Errorf("entry: deposit needs 8 amount bytes: %w", cpi.ErrInvalidInstructionData)
		}
		amount := binary.LittleEndian.Uint64(data[1:9])

		ctx, err := r.DetectDeposit(accounts)
		if err != nil {
			return err
		}
		return ctx.DepositSigned(inv, amount, seeds)

	case opSwap:
		if len(data) < 17 {
			return fmt.Errorf("entry: swap needs 16 amount bytes: %w", cpi.ErrInvalidInstructionData)
		}
		inAmount := binary.LittleEndian.Uint64(data[1:9])
		minimumOutAmount := binary.LittleEndian.Uint64(data[9:17])

		ctx, err := r.DetectSwap(accounts)
		if err != nil {
			return err
		}
		swapData, err := ctx.ParseData(data[17:])
		if err != nil {
			return err
		}
		return ctx.SwapSigned(inv, inAmount, minimumOutAmount, swapData, seeds)
	}

	return fmt.Errorf("entry: unknown operation %d: %w", data[0], cpi.ErrInvalidInstructionData)
}
