package cpi

import "errors"

// Failure taxonomy shared by every adapter. External CPI failures are not
// part of this set; they propagate verbatim from the Invoker.
var (
	// ErrNotEnoughAccounts means fewer accounts were supplied than a venue's
	// fixed minimum, or the account list was empty at detection time.
	ErrNotEnoughAccounts = errors.New("not enough account keys")

	// ErrInvalidInstructionData means the payload was shorter than required,
	// carried an unknown discriminator byte, or exceeded a fixed maximum.
	ErrInvalidInstructionData = errors.New("invalid instruction data")

	// ErrInvalidAccountData means no enabled venue matched the detected
	// address, or a context and payload disagreed on the venue during dispatch.
	ErrInvalidAccountData = errors.New("invalid account data")
)
