package commission_fee

// InteractiveBrokerCommissionFee charges per share with a one dollar minimum.
type InteractiveBrokerCommissionFee struct {
}

func NewInteractiveBrokerCommissionFee() CommissionFee {
	return &InteractiveBrokerCommissionFee{}
}

func (c *InteractiveBrokerCommissionFee) Calculate(shares int64, price float64) float64 {
	fee := 0.005 * float64(shares)
	if fee < 1.0 {
		return 1.0
	}

	return fee
}
