package commission_fee

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

type CommissionFee interface {
	// Calculate the commission fee for a fill and returns the fee in the quote currency
	Calculate(side Side, quantity float64, price float64) float64
}

type Broker string

const (
	BrokerInteractiveBroker Broker = "interactive_broker"
	BrokerIDXRetail         Broker = "idx_retail"
	BrokerZero              Broker = "zero_commission"
)

var AllBrokers = []any{
	BrokerInteractiveBroker,
	BrokerIDXRetail,
	BrokerZero,
}

func GetCommissionFeeHandler(broker Broker) CommissionFee {
	switch broker {
	case BrokerInteractiveBroker:
		return NewInteractiveBrokerCommissionFee()
	case BrokerIDXRetail:
		return NewIDXRetailCommissionFee()
	case BrokerZero:
		return NewZeroCommissionFee()
	default:
		return NewZeroCommissionFee()
	}
}
