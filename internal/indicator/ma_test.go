package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-backtest/internal/types"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type MATestSuite struct {
	suite.Suite
}

func TestMASuite(t *testing.T) {
	suite.Run(t, new(MATestSuite))
}

func (suite *MATestSuite) TestNewMA() {
	ma := NewMA().(*MA)

	suite.Equal(20, ma.shortPeriod)
	suite.Equal(50, ma.longPeriod)
	suite.Equal(types.IndicatorTypeMA, ma.Name())
}

func (suite *MATestSuite) TestConfig() {
	ma := NewMA()

	suite.NoError(ma.Config(5, 10))
	suite.Equal(errors.ErrCodeMissingParameter, errors.GetCode(ma.Config(5)))
	suite.Equal(errors.ErrCodeInvalidType, errors.GetCode(ma.Config(5, "10")))
	suite.Equal(errors.ErrCodeInvalidPeriod, errors.GetCode(ma.Config(0, 10)))
}

func (suite *MATestSuite) TestWarmUpMatchesDirectRecomputation() {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i%7)*1.3 - float64(i%3)*0.7
	}

	set := types.NewIndicatorSet(len(closes))
	suite.Require().NoError(NewMA().Compute(closes, &set))

	check := func(col types.Column, period int) {
		for i := range closes {
			if i < period-1 {
				suite.True(col[i].IsNone(), "bar %d should be undefined", i)
				continue
			}

			sum := 0.0
			for j := i - period + 1; j <= i; j++ {
				sum += closes[j]
			}

			suite.Equal(sum/float64(period), col[i].Unwrap(), "bar %d", i)
		}
	}

	check(set.SMAShort, 20)
	check(set.SMALong, 50)
	suite.Equal(41, set.SMAShort.Defined())
	suite.Equal(11, set.SMALong.Defined())
}

func (suite *MATestSuite) TestFlatSeriesShortEqualsLong() {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100
	}

	set := types.NewIndicatorSet(len(closes))
	suite.Require().NoError(NewMA().Compute(closes, &set))

	suite.Equal(set.SMAShort[59].Unwrap(), set.SMALong[59].Unwrap())
	suite.Equal(100.0, set.SMALong[59].Unwrap())
}
