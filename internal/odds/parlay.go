package odds

// DefaultStake is the stake used when the caller does not supply one.
// The stake is an input to Payout, not a constant of the pricing algorithm.
const DefaultStake = 10.0

// ParlayPrice is the combined price of a multi-leg parlay
type ParlayPrice struct {
	Decimal  float64 `json:"decimal"`
	American int     `json:"american"`
}

// PriceParlay combines leg American odds into a single parlay price.
// Fewer than two legs has no parlay price: the result is nil, a
// distinguishable "not applicable", never a zero price.
func PriceParlay(legOdds []int) (*ParlayPrice, error) {
	if len(legOdds) < 2 {
		return nil, nil
	}

	product := 1.0
	for _, american := range legOdds {
		decimal, err := ToDecimal(american)
		if err != nil {
			return nil, err
		}
		product *= decimal
	}

	american, err := ToAmerican(product)
	if err != nil {
		return nil, err
	}

	return &ParlayPrice{Decimal: product, American: american}, nil
}

// Payout returns the total return (stake included) for a stake placed at the
// given American price.
func Payout(parlayAmerican int, stake float64) float64 {
	if parlayAmerican > 0 {
		return stake + stake*float64(parlayAmerican)/100.0
	}
	return stake + stake*100.0/float64(-parlayAmerican)
}
