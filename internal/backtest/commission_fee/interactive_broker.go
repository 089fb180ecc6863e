package commission_fee

// InteractiveBrokerCommissionFee charges per share with a minimum per fill.
type InteractiveBrokerCommissionFee struct {
}

func NewInteractiveBrokerCommissionFee() CommissionFee {
	return &InteractiveBrokerCommissionFee{}
}

func (c *InteractiveBrokerCommissionFee) Calculate(_ Side, quantity float64, _ float64) float64 {
	if quantity <= 0 {
		return 0
	}

	fee := 0.005 * quantity
	if fee < 1.0 {
		return 1.0
	}

	return fee
}
