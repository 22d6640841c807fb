package commission_fee

// PercentageCommissionFee charges a fixed fraction of the traded notional, on entry and exit alike.
type PercentageCommissionFee struct {
	rate float64
}

func NewPercentageCommissionFee(rate float64) CommissionFee {
	return &PercentageCommissionFee{rate: rate}
}

// Calculate returns shares * price * rate.
func (c *PercentageCommissionFee) Calculate(shares int64, price float64) float64 {
	return float64(shares) * price * c.rate
}
