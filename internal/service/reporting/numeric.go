package reporting

import "github.com/shopspring/decimal"

// noWeightCost is reported as the live cost of a year whose weighings carry
// no weight.
const noWeightCost = -1

// ratio returns num/den rounded half-up to places decimals. den must not be
// zero.
func ratio(num, den int64, places int32) float64 {
	value := decimal.NewFromInt(num).Div(decimal.NewFromInt(den)).Round(places)
	f, _ := value.Float64()
	return f
}

// percentage returns part/total*100 rounded half-up to two decimals.
func percentage(part, total int64) float64 {
	value := decimal.NewFromInt(part).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(total)).Round(2)
	f, _ := value.Float64()
	return f
}

// runningAverage accumulates a sum and a count for an integer mean.
type runningAverage struct {
	sum   int64
	count int64
}

func (a *runningAverage) add(v int64) {
	a.sum += v
	a.count++
}

// mean truncates toward zero.
func (a runningAverage) mean() int64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / a.count
}
