package forms

import (
	"context"

	"github.com/metwallet/walletd/internal/core/application/selectors"
	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/metwallet/walletd/internal/core/ports"
)

// RetryImportForm submits again the import of a failed export into the
// active chain.
type RetryImportForm struct {
	*form
	data domain.PortOperation
}

// NewRetryImportForm returns the form retrying the import of data, usually
// one of the failed imports of the active chain.
func NewRetryImportForm(deps Deps, data domain.PortOperation) *RetryImportForm {
	client := deps.Client
	return &RetryImportForm{
		form: newForm(deps, func(s domain.State) map[string]string {
			return initialGasValues(client, s, selectors.ActiveChainConfig(s).MetDefaultGasLimit)
		}),
		data: data,
	}
}

// ImportData returns the export being imported.
func (r *RetryImportForm) ImportData() domain.PortOperation {
	return r.data
}

func (r *RetryImportForm) OnInputChange(id, value string) {
	r.setInput(id, value, false)
}

// EstimateGas schedules the estimation of the import gas limit.
func (r *RetryImportForm) EstimateGas() {
	r.scheduleGasEstimate("retry-import", r.gasLimitCall)
}

func (r *RetryImportForm) gasLimitCall(map[string]string) (func(context.Context) (uint64, error), bool) {
	s := r.deps.Store.State()
	from := selectors.ActiveAddress(s)
	if from == "" {
		return nil, false
	}
	req := ports.ImportGasLimitRequest{
		Chain:           selectors.ActiveChain(s),
		From:            from,
		OriginChain:     r.data.OriginChain,
		CurrentBurnHash: r.data.CurrentBurnHash,
		Value:           r.data.Value,
		Fee:             r.data.Fee,
	}
	return func(ctx context.Context) (uint64, error) {
		return r.deps.Client.GetImportGasLimit(ctx, req)
	}, true
}

// OnMaxClick is a no-op, the imported amount is fixed by the export.
func (r *RetryImportForm) OnMaxClick() {}

func (r *RetryImportForm) Validate() Errors {
	errs := r.validate()
	r.setErrors(errs)
	return errs
}

func (r *RetryImportForm) validate() Errors {
	values := r.State().Values
	return ValidateGasPrice(r.deps.Client, values[FieldGasPrice]).merge(
		ValidateGasLimit(r.deps.Client, values[FieldGasLimit]),
	)
}

// Submit sends the import transaction and returns its hash.
func (r *RetryImportForm) Submit(ctx context.Context, password string) (string, error) {
	return r.submit(ctx, "retry-import", password, r.validate, func(
		ctx context.Context, s domain.State, _ map[string]string, params ports.TxParams,
	) (string, error) {
		chain := selectors.ActiveChainConfig(s)
		return r.deps.Client.RetryImport(ctx, ports.RetryImportRequest{
			TxParams:              params,
			OriginChain:           r.data.OriginChain,
			CurrentBurnHash:       r.data.CurrentBurnHash,
			BurnSequence:          r.data.BurnSequence,
			DestinationChain:      chain.Symbol,
			DestinationMetAddress: chain.MetTokenAddress,
			To:                    r.data.To,
			Value:                 r.data.Value,
			Fee:                   r.data.Fee,
			ExtraData:             r.data.ExtraData,
		})
	})
}
