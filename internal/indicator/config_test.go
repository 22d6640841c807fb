package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestDefaultConfigIsValid() {
	suite.NoError(DefaultConfig().Validate())
}

func (suite *ConfigTestSuite) TestYAMLOverridesDefaults() {
	cfg := DefaultConfig()
	err := yaml.Unmarshal([]byte("rsi_period: 7\nma_short: 5\nma_long: 10\n"), &cfg)
	suite.Require().NoError(err)

	suite.Equal(7, cfg.RSIPeriod)
	suite.Equal(5, cfg.MAShort)
	suite.Equal(10, cfg.MALong)
	suite.Equal(26, cfg.MACDSlow)
	suite.NoError(cfg.Validate())
}

func (suite *ConfigTestSuite) TestZeroValueIsInvalid() {
	suite.Error(Config{}.Validate())
}

func (suite *ConfigTestSuite) TestIndicatorsAreConfigured() {
	cfg := DefaultConfig()
	cfg.RSIPeriod = 9

	indicators, err := cfg.Indicators()
	suite.Require().NoError(err)
	suite.Len(indicators, 4)
	suite.Equal(9, indicators[0].(*RSI).period)
}
