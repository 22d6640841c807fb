package types

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

type IndicatorType string

const (
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeMACD           IndicatorType = "macd"
	IndicatorTypeMA             IndicatorType = "ma"
	IndicatorTypeBollingerBands IndicatorType = "bollinger_bands"
)

// IndicatorName names a single output column of the indicator engine.
type IndicatorName string

const (
	IndicatorRSI           IndicatorName = "RSI"
	IndicatorMACD          IndicatorName = "MACD"
	IndicatorMACDSignal    IndicatorName = "MACD_Signal"
	IndicatorMACDHistogram IndicatorName = "MACD_Histogram"
	IndicatorSMAShort      IndicatorName = "SMA_Short"
	IndicatorSMALong       IndicatorName = "SMA_Long"
	IndicatorBBUpper       IndicatorName = "BB_Upper"
	IndicatorBBMiddle      IndicatorName = "BB_Middle"
	IndicatorBBLower       IndicatorName = "BB_Lower"
)

// AllIndicatorNames lists every column in output order.
var AllIndicatorNames = []IndicatorName{
	IndicatorRSI,
	IndicatorMACD,
	IndicatorMACDSignal,
	IndicatorMACDHistogram,
	IndicatorSMAShort,
	IndicatorSMALong,
	IndicatorBBUpper,
	IndicatorBBMiddle,
	IndicatorBBLower,
}

// Column holds one value per bar. A None entry means the lookback window was not yet full.
type Column []optional.Option[float64]

// NewColumn returns a column of n undefined values.
func NewColumn(n int) Column {
	col := make(Column, n)
	for i := range col {
		col[i] = optional.None[float64]()
	}

	return col
}

// At returns the value at index i, or None when i is out of range.
func (c Column) At(i int) optional.Option[float64] {
	if i < 0 || i >= len(c) {
		return optional.None[float64]()
	}

	return c[i]
}

// Defined counts the defined values in the column.
func (c Column) Defined() int {
	count := 0

	for _, v := range c {
		if v.IsSome() {
			count++
		}
	}

	return count
}

// IndicatorSet is the columnar output of the indicator engine, aligned index-for-index with its series.
type IndicatorSet struct {
	RSI           Column
	MACD          Column
	MACDSignal    Column
	MACDHistogram Column
	SMAShort      Column
	SMALong       Column
	BBUpper       Column
	BBMiddle      Column
	BBLower       Column
}

// NewIndicatorSet returns a set whose columns are all undefined for n bars.
func NewIndicatorSet(n int) IndicatorSet {
	return IndicatorSet{
		RSI:           NewColumn(n),
		MACD:          NewColumn(n),
		MACDSignal:    NewColumn(n),
		MACDHistogram: NewColumn(n),
		SMAShort:      NewColumn(n),
		SMALong:       NewColumn(n),
		BBUpper:       NewColumn(n),
		BBMiddle:      NewColumn(n),
		BBLower:       NewColumn(n),
	}
}

// Len returns the number of bars the set covers.
func (s IndicatorSet) Len() int {
	return len(s.RSI)
}

// Column returns the column with the given name.
func (s IndicatorSet) Column(name IndicatorName) (Column, bool) {
	switch name {
	case IndicatorRSI:
		return s.RSI, true
	case IndicatorMACD:
		return s.MACD, true
	case IndicatorMACDSignal:
		return s.MACDSignal, true
	case IndicatorMACDHistogram:
		return s.MACDHistogram, true
	case IndicatorSMAShort:
		return s.SMAShort, true
	case IndicatorSMALong:
		return s.SMALong, true
	case IndicatorBBUpper:
		return s.BBUpper, true
	case IndicatorBBMiddle:
		return s.BBMiddle, true
	case IndicatorBBLower:
		return s.BBLower, true
	default:
		return nil, false
	}
}

// Validate checks that every column covers exactly n bars.
func (s IndicatorSet) Validate(n int) error {
	for _, name := range AllIndicatorNames {
		col, _ := s.Column(name)
		if len(col) != n {
			return errors.Newf(errors.ErrCodeMisalignedIndicators, "indicator %s has %d values, series has %d bars", name, len(col), n)
		}
	}

	return nil
}

// Snapshot returns the indicator values at bar i.
func (s IndicatorSet) Snapshot(i int) IndicatorSnapshot {
	return IndicatorSnapshot{
		RSI:           s.RSI.At(i),
		MACD:          s.MACD.At(i),
		MACDSignal:    s.MACDSignal.At(i),
		MACDHistogram: s.MACDHistogram.At(i),
		SMAShort:      s.SMAShort.At(i),
		SMALong:       s.SMALong.At(i),
		BBUpper:       s.BBUpper.At(i),
		BBMiddle:      s.BBMiddle.At(i),
		BBLower:       s.BBLower.At(i),
	}
}

// IndicatorSnapshot is the set of indicator values for a single bar.
type IndicatorSnapshot struct {
	RSI           optional.Option[float64]
	MACD          optional.Option[float64]
	MACDSignal    optional.Option[float64]
	MACDHistogram optional.Option[float64]
	SMAShort      optional.Option[float64]
	SMALong       optional.Option[float64]
	BBUpper       optional.Option[float64]
	BBMiddle      optional.Option[float64]
	BBLower       optional.Option[float64]
}

// Values returns the defined values keyed by indicator name. Undefined values are omitted.
func (s IndicatorSnapshot) Values() map[IndicatorName]float64 {
	values := make(map[IndicatorName]float64)
	add := func(name IndicatorName, v optional.Option[float64]) {
		if v.IsSome() {
			values[name] = v.Unwrap()
		}
	}

	add(IndicatorRSI, s.RSI)
	add(IndicatorMACD, s.MACD)
	add(IndicatorMACDSignal, s.MACDSignal)
	add(IndicatorMACDHistogram, s.MACDHistogram)
	add(IndicatorSMAShort, s.SMAShort)
	add(IndicatorSMALong, s.SMALong)
	add(IndicatorBBUpper, s.BBUpper)
	add(IndicatorBBMiddle, s.BBMiddle)
	add(IndicatorBBLower, s.BBLower)

	return values
}

// Slice returns the bars in [from, to) as a new set. Columns are copied so the result does not alias s.
func (s IndicatorSet) Slice(from, to int) IndicatorSet {
	cut := func(c Column) Column {
		out := make(Column, to-from)
		copy(out, c[from:to])

		return out
	}

	return IndicatorSet{
		RSI:           cut(s.RSI),
		MACD:          cut(s.MACD),
		MACDSignal:    cut(s.MACDSignal),
		MACDHistogram: cut(s.MACDHistogram),
		SMAShort:      cut(s.SMAShort),
		SMALong:       cut(s.SMALong),
		BBUpper:       cut(s.BBUpper),
		BBMiddle:      cut(s.BBMiddle),
		BBLower:       cut(s.BBLower),
	}
}
