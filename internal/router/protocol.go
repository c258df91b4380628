// Package router detects which venue an account list targets and dispatches
// swaps and deposits to the matching adapter.
//
// Detection reads account 0, the venue program account every context puts
// first, and compares its address against the known program ids in a fixed
// priority order. Which venues participate is a runtime choice; disabled
// venues are skipped as if unknown.
package router

import (
	"github.com/gagliardetto/solana-go"

	"github.com/arpeggio-fi/arpeggio/internal/lend/jupiter"
	"github.com/arpeggio-fi/arpeggio/internal/lend/kamino"
	"github.com/arpeggio-fi/arpeggio/internal/venue/aldrin"
	"github.com/arpeggio-fi/arpeggio/internal/venue/aldrinv2"
	"github.com/arpeggio-fi/arpeggio/internal/venue/futarchy"
	"github.com/arpeggio-fi/arpeggio/internal/venue/gamma"
	"github.com/arpeggio-fi/arpeggio/internal/venue/heaven"
	"github.com/arpeggio-fi/arpeggio/internal/venue/manifest"
	"github.com/arpeggio-fi/arpeggio/internal/venue/perena"
	"github.com/arpeggio-fi/arpeggio/internal/venue/solfi"
	"github.com/arpeggio-fi/arpeggio/internal/venue/solfiv2"
)

// Protocol identifies one integrated venue.
type Protocol uint8

const (
	ProtocolUnknown Protocol = iota

	ProtocolPerena
	ProtocolSolFi
	ProtocolSolFiV2
	ProtocolManifest
	ProtocolHeaven
	ProtocolAldrin
	ProtocolAldrinV2
	ProtocolFutarchy
	ProtocolGamma

	ProtocolKamino
	ProtocolJupiter
)

func (p Protocol) String() string {
	switch p {
	case ProtocolPerena:
		return "perena"
	case ProtocolSolFi:
		return "solfi"
	case ProtocolSolFiV2:
		return "solfiv2"
	case ProtocolManifest:
		return "manifest"
	case ProtocolHeaven:
		return "heaven"
	case ProtocolAldrin:
		return "aldrin"
	case ProtocolAldrinV2:
		return "aldrinv2"
	case ProtocolFutarchy:
		return "futarchy"
	case ProtocolGamma:
		return "gamma"
	case ProtocolKamino:
		return "kamino"
	case ProtocolJupiter:
		return "jupiter"
	default:
		return "unknown"
	}
}

// ParseProtocol maps a venue name, as used in configuration, back to its
// Protocol. Unknown names return ProtocolUnknown.
func ParseProtocol(name string) Protocol {
	for _, p := range allProtocols {
		if p.String() == name {
			return p
		}
	}
	return ProtocolUnknown
}

// SwapProtocols lists the swap venues in detection priority order.
var SwapProtocols = []Protocol{
	ProtocolPerena,
	ProtocolSolFi,
	ProtocolSolFiV2,
	ProtocolManifest,
	ProtocolHeaven,
	ProtocolAldrin,
	ProtocolAldrinV2,
	ProtocolFutarchy,
	ProtocolGamma,
}

// DepositProtocols lists the lending venues in detection priority order.
var DepositProtocols = []Protocol{
	ProtocolKamino,
	ProtocolJupiter,
}

var allProtocols = append(append([]Protocol{}, SwapProtocols...), DepositProtocols...)

// ProgramID returns the on-chain program id used to detect p.
func (p Protocol) ProgramID() solana.PublicKey {
	switch p {
	case ProtocolPerena:
		return perena.ProgramID
	case ProtocolSolFi:
		return solfi.ProgramID
	case ProtocolSolFiV2:
		return solfiv2.ProgramID
	case ProtocolManifest:
		return manifest.ProgramID
	case ProtocolHeaven:
		return heaven.ProgramID
	case ProtocolAldrin:
		return aldrin.ProgramID
	case ProtocolAldrinV2:
		return aldrinv2.ProgramID
	case ProtocolFutarchy:
		return futarchy.ProgramID
	case ProtocolGamma:
		return gamma.ProgramID
	case ProtocolKamino:
		return kamino.ProgramID
	case ProtocolJupiter:
		return jupiter.ProgramID
	default:
		return solana.PublicKey{}
	}
}
