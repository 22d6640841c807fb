package types

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type IndicatorSetTestSuite struct {
	suite.Suite
}

func TestIndicatorSetSuite(t *testing.T) {
	suite.Run(t, new(IndicatorSetTestSuite))
}

func (suite *IndicatorSetTestSuite) TestNewIndicatorSetIsUndefined() {
	set := NewIndicatorSet(5)

	suite.Equal(5, set.Len())

	for _, name := range AllIndicatorNames {
		col, ok := set.Column(name)
		suite.True(ok, name)
		suite.Len(col, 5)
		suite.Equal(0, col.Defined())
	}

	_, ok := set.Column("unknown")
	suite.False(ok)
}

func (suite *IndicatorSetTestSuite) TestValidateDetectsMisalignment() {
	set := NewIndicatorSet(3)
	suite.NoError(set.Validate(3))

	set.BBLower = NewColumn(2)
	err := set.Validate(3)
	suite.Error(err)
	suite.Equal(errors.ErrCodeMisalignedIndicators, errors.GetCode(err))
}

func (suite *IndicatorSetTestSuite) TestSnapshotValuesOmitUndefined() {
	set := NewIndicatorSet(2)
	set.RSI[1] = optional.Some(25.0)
	set.SMAShort[1] = optional.Some(101.5)

	values := set.Snapshot(1).Values()
	suite.Equal(map[IndicatorName]float64{
		IndicatorRSI:      25.0,
		IndicatorSMAShort: 101.5,
	}, values)

	suite.Empty(set.Snapshot(0).Values())
	// out of range reads are undefined rather than panicking
	suite.True(set.Snapshot(10).RSI.IsNone())
}

func (suite *IndicatorSetTestSuite) TestSlice() {
	set := NewIndicatorSet(4)
	set.MACD[2] = optional.Some(1.5)

	sliced := set.Slice(1, 3)
	suite.Equal(2, sliced.Len())
	suite.NoError(sliced.Validate(2))
	suite.Equal(1.5, sliced.MACD[1].Unwrap())

	sliced.MACD[1] = optional.Some(9.0)
	suite.Equal(1.5, set.MACD[2].Unwrap())
}
