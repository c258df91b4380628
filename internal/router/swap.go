package router

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arpeggio-fi/arpeggio/internal/cpi"
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

// Router dispatches account lists to venue adapters. The zero value is not
// usable; construct with New.
type Router struct {
	log      *zap.Logger
	swaps    []Protocol
	deposits []Protocol
}

// New builds a Router limited to the given venue sets. Nil slices enable
// every known venue of that kind. Detection priority follows SwapProtocols
// and DepositProtocols regardless of the order venues are listed here.
func New(log *zap.Logger, swaps, deposits []Protocol) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Router{log: log.Named("router")}
	r.swaps = filterOrdered(SwapProtocols, swaps)
	r.deposits = filterOrdered(DepositProtocols, deposits)
	return r
}

// filterOrdered keeps the canonical ordering, restricted to enabled. A nil
// enabled set means everything.
func filterOrdered(canonical, enabled []Protocol) []Protocol {
	if enabled == nil {
		return canonical
	}
	set := make(map[Protocol]struct{}, len(enabled))
	for _, p := range enabled {
		set[p] = struct{}{}
	}
	out := make([]Protocol, 0, len(canonical))
	for _, p := range canonical {
		if _, ok := set[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

var defaultRouter = New(nil, nil, nil)

// SwapContext is a detected swap venue with its parsed accounts. Exactly one
// venue field is populated; Protocol names which.
type SwapContext struct {
	Protocol Protocol

	Perena   *perena.SwapAccounts
	SolFi    *solfi.SwapAccounts
	SolFiV2  *solfiv2.SwapAccounts
	Manifest *manifest.SwapAccounts
	Heaven   *heaven.SwapAccounts
	Aldrin   *aldrin.SwapAccounts
	AldrinV2 *aldrinv2.SwapAccounts
	Futarchy *futarchy.SwapAccounts
	Gamma    *gamma.SwapAccounts
}

// SwapData is a venue-tagged swap payload. Only the field matching Protocol
// is meaningful.
type SwapData struct {
	Protocol Protocol

	Perena   perena.SwapData
	SolFi    solfi.SwapData
	SolFiV2  solfiv2.SwapData
	Manifest manifest.SwapData
	Heaven   heaven.SwapData
	Aldrin   aldrin.SwapData
	AldrinV2 aldrinv2.SwapData
	Futarchy futarchy.SwapData
	Gamma    gamma.SwapData
}

// DetectSwap resolves which swap venue the account list targets and parses
// its account context. An empty list returns ErrNotEnoughAccounts; an
// unrecognized or disabled first account returns ErrInvalidAccountData.
func (r *Router) DetectSwap(accounts []*cpi.AccountView) (*SwapContext, error) {
	if len(accounts) == 0 {
		return nil, fmt.Errorf("router: %w", cpi.ErrNotEnoughAccounts)
	}
	detector := accounts[0].Address

	for _, p := range r.swaps {
		if !detector.Equals(p.ProgramID()) {
			continue
		}
		ctx := &SwapContext{Protocol: p}
		var err error
		switch p {
		case ProtocolPerena:
			ctx.Perena, err = perena.ParseSwapAccounts(accounts)
		case ProtocolSolFi:
			ctx.SolFi, err = solfi.ParseSwapAccounts(accounts)
		case ProtocolSolFiV2:
			ctx.SolFiV2, err = solfiv2.ParseSwapAccounts(accounts)
		case ProtocolManifest:
			ctx.Manifest, err = manifest.ParseSwapAccounts(accounts)
		case ProtocolHeaven:
			ctx.Heaven, err = heaven.ParseSwapAccounts(accounts)
		case ProtocolAldrin:
			ctx.Aldrin, err = aldrin.ParseSwapAccounts(accounts)
		case ProtocolAldrinV2:
			ctx.AldrinV2, err = aldrinv2.ParseSwapAccounts(accounts)
		case ProtocolFutarchy:
			ctx.Futarchy, err = futarchy.ParseSwapAccounts(accounts)
		case ProtocolGamma:
			ctx.Gamma, err = gamma.ParseSwapAccounts(accounts)
		}
		if err != nil {
			return nil, err
		}
		r.log.Debug("detected swap venue", zap.Stringer("protocol", p))
		return ctx, nil
	}

	return nil, fmt.Errorf("router: no venue matches account 0: %w", cpi.ErrInvalidAccountData)
}

// ParseData decodes the venue payload for the detected venue and tags the
// result with the same protocol.
func (c *SwapContext) ParseData(data []byte) (*SwapData, error) {
	d := &SwapData{Protocol: c.Protocol}
	var err error
	switch c.Protocol {
	case ProtocolPerena:
		d.Perena, err = perena.ParseSwapData(data)
	case ProtocolSolFi:
		d.SolFi, err = solfi.ParseSwapData(data)
	case ProtocolSolFiV2:
		d.SolFiV2, err = solfiv2.ParseSwapData(data)
	case ProtocolManifest:
		d.Manifest, err = manifest.ParseSwapData(data)
	case ProtocolHeaven:
		d.Heaven, err = heaven.ParseSwapData(data)
	case ProtocolAldrin:
		d.Aldrin, err = aldrin.ParseSwapData(data)
	case ProtocolAldrinV2:
		d.AldrinV2, err = aldrinv2.ParseSwapData(data)
	case ProtocolFutarchy:
		d.Futarchy, err = futarchy.ParseSwapData(data)
	case ProtocolGamma:
		d.Gamma, err = gamma.ParseSwapData(data)
	default:
		return nil, fmt.Errorf("router: %w", cpi.ErrInvalidAccountData)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// SwapSigned dispatches the swap to the detected venue. The data tag must
// match the context tag; a mismatch returns ErrInvalidAccountData without
// issuing any CPI.
func (c *SwapContext) SwapSigned(inv cpi.Invoker, inAmount, minimumOutAmount uint64, data *SwapData, seeds []cpi.SignerSeeds) error {
	if data == nil || data.Protocol != c.Protocol {
		return fmt.Errorf("router: swap data does not match detected venue: %w", cpi.ErrInvalidAccountData)
	}
	switch c.Protocol {
	case ProtocolPerena:
		return c.Perena.SwapSigned(inv, inAmount, minimumOutAmount, data.Perena, seeds)
	case ProtocolSolFi:
		return c.SolFi.SwapSigned(inv, inAmount, minimumOutAmount, data.SolFi, seeds)
	case ProtocolSolFiV2:
		return c.SolFiV2.SwapSigned(inv, inAmount, minimumOutAmount, data.SolFiV2, seeds)
	case ProtocolManifest:
		return c.Manifest.SwapSigned(inv, inAmount, minimumOutAmount, data.Manifest, seeds)
	case ProtocolHeaven:
		return c.Heaven.SwapSigned(inv, inAmount, minimumOutAmount, data.Heaven, seeds)
	case ProtocolAldrin:
		return c.Aldrin.SwapSigned(inv, inAmount, minimumOutAmount, data.Aldrin, seeds)
	case ProtocolAldrinV2:
		return c.AldrinV2.SwapSigned(inv, inAmount, minimumOutAmount, data.AldrinV2, seeds)
	case ProtocolFutarchy:
		return c.Futarchy.SwapSigned(inv, inAmount, minimumOutAmount, data.Futarchy, seeds)
	case ProtocolGamma:
		return c.Gamma.SwapSigned(inv, inAmount, minimumOutAmount, data.Gamma, seeds)
	}
	return fmt.Errorf("router: %w", cpi.ErrInvalidAccountData)
}

// Swap dispatches the swap without PDA signing.
func (c *SwapContext) Swap(inv cpi.Invoker, inAmount, minimumOutAmount uint64, data *SwapData) error {
	return c.SwapSigned(inv, inAmount, minimumOutAmount, data, nil)
}

// SwapSigned detects the venue from accounts and executes the swap in one
// call, with every venue enabled.
func SwapSigned(inv cpi.Invoker, accounts []*cpi.AccountView, inAmount, minimumOutAmount uint64, data *SwapData, seeds []cpi.SignerSeeds) error {
	ctx, err := defaultRouter.DetectSwap(accounts)
	if err != nil {
		return err
	}
	return ctx.SwapSigned(inv, inAmount, minimumOutAmount, data, seeds)
}

// Swap is SwapSigned without PDA signing.
func Swap(inv cpi.Invoker, accounts []*cpi.AccountView, inAmount, minimumOutAmount uint64, data *SwapData) error {
	return SwapSigned(inv, accounts, inAmount, minimumOutAmount, data, nil)
}
