package commission_fee

const (
	idxBuyRate  = 0.0015
	idxSellRate = 0.0025
)

// IDXRetailCommissionFee charges a share of the traded value, with the sell side
// carrying the exchange transaction tax.
type IDXRetailCommissionFee struct{}

func NewIDXRetailCommissionFee() CommissionFee {
	return &IDXRetailCommissionFee{}
}

func (c *IDXRetailCommissionFee) Calculate(side Side, quantity float64, price float64) float64 {
	if quantity <= 0 || price <= 0 {
		return 0
	}

	value := quantity * price
	if side == SideSell {
		return value * idxSellRate
	}

	return value * idxBuyRate
}
