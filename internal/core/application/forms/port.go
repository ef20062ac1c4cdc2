package forms

import (
	"context"

	"github.com/metwallet/walletd/internal/core/application/selectors"
	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/metwallet/walletd/internal/core/ports"
	"github.com/metwallet/walletd/pkg/sanitizer"
	"github.com/metwallet/walletd/pkg/units"
)

// PortForm exports MET from the active chain to another enabled chain. The
// port fee is estimated along with the gas limit.
type PortForm struct {
	*form
}

func NewPortForm(deps Deps) *PortForm {
	client := deps.Client
	return &PortForm{newForm(deps, func(s domain.State) map[string]string {
		values := initialGasValues(client, s, selectors.ActiveChainConfig(s).MetDefaultGasLimit)
		values[FieldMetAmount] = ""
		values[FieldFee] = ""
		values[FieldDestination] = ""
		if destinations := selectors.PortDestinations(s); len(destinations) > 0 {
			values[FieldDestination] = destinations[0].Value
		}
		return values
	})}
}

func (p *PortForm) OnInputChange(id, value string) {
	p.setInput(id, value, false)
	if id == FieldMetAmount || id == FieldDestination {
		p.scheduleGasEstimate("port", p.gasLimitCall)
		schedule(p.form, p.estimateDebouncer, &p.estimate, "port", p.feeCall, p.applyFee)
	}
}

// portRequest holds the fields shared by port gas and fee estimates.
type portRequest struct {
	chain, from, value, destination string
}

func (p *PortForm) request(values map[string]string) (portRequest, bool) {
	s := p.deps.Store.State()
	destination, ok := s.Config.Chains[values[FieldDestination]]
	if !ok {
		return portRequest{}, false
	}
	value, err := p.deps.Client.ToWei(sanitizer.Sanitize(values[FieldMetAmount]), units.UnitEther)
	if err != nil {
		return portRequest{}, false
	}
	return portRequest{
		chain:       selectors.ActiveChain(s),
		from:        selectors.ActiveAddress(s),
		value:       value,
		destination: destination.Symbol,
	}, true
}

func (p *PortForm) gasLimitCall(values map[string]string) (func(context.Context) (uint64, error), bool) {
	r, ok := p.request(values)
	if !ok {
		return nil, false
	}
	req := ports.GasLimitRequest{
		Chain:            r.chain,
		From:             r.from,
		Value:            r.value,
		DestinationChain: r.destination,
	}
	return func(ctx context.Context) (uint64, error) {
		return p.deps.Client.GetPortGasLimit(ctx, req)
	}, true
}

func (p *PortForm) feeCall(values map[string]string) (func(context.Context) (string, error), bool) {
	r, ok := p.request(values)
	if !ok || !isGreaterThanZero(values[FieldMetAmount]) {
		return nil, false
	}
	req := ports.PortFeesRequest{
		Chain:            r.chain,
		From:             r.from,
		Value:            r.value,
		DestinationChain: r.destination,
	}
	return func(ctx context.Context) (string, error) {
		return p.deps.Client.GetPortFees(ctx, req)
	}, true
}

func (p *PortForm) applyFee(fee string, err error, ok bool) {
	p.values[FieldFee] = fee
	p.estimateError = ""
	if ok && err != nil {
		p.estimateError = err.Error()
	}
}

// OnMaxClick sets the MET amount to the whole MET balance.
func (p *PortForm) OnMaxClick() {
	p.OnInputChange(FieldMetAmount, maxMet(p.deps.Client, p.deps.Store.State()))
}

func (p *PortForm) Validate() Errors {
	errs := p.validate()
	p.setErrors(errs)
	return errs
}

func (p *PortForm) validate() Errors {
	s := p.deps.Store.State()
	values := p.State().Values
	errs := ValidateMetAmount(p.deps.Client, values[FieldMetAmount], maxMet(p.deps.Client, s)).merge(
		ValidateGasPrice(p.deps.Client, values[FieldGasPrice]),
		ValidateGasLimit(p.deps.Client, values[FieldGasLimit]),
		validateDestination(s, values[FieldDestination]),
	)
	return errs
}

func validateDestination(s domain.State, destination string) Errors {
	errs := Errors{}
	if destination == "" {
		errs[FieldDestination] = "Destination chain is required"
		return errs
	}
	for _, d := range selectors.PortDestinations(s) {
		if d.Value == destination {
			return errs
		}
	}
	errs[FieldDestination] = "Invalid destination chain"
	return errs
}

// Submit ports the MET amount and returns the hash of the export
// transaction.
func (p *PortForm) Submit(ctx context.Context, password string) (string, error) {
	return p.submit(ctx, "port", password, p.validate, func(
		ctx context.Context, s domain.State, values map[string]string, params ports.TxParams,
	) (string, error) {
		value, err := p.deps.Client.ToWei(sanitizer.Sanitize(values[FieldMetAmount]), units.UnitEther)
		if err != nil {
			return "", err
		}
		fee := values[FieldFee]
		if fee == "" {
			fee = "0"
		}
		destination := s.Config.Chains[values[FieldDestination]]
		return p.deps.Client.PortMetronome(ctx, ports.PortRequest{
			TxParams:              params,
			Value:                 value,
			Fee:                   fee,
			DestinationChain:      destination.Symbol,
			DestinationMetAddress: destination.MetTokenAddress,
		})
	})
}
