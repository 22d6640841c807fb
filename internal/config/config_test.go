package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-backtest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v2"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestDefault() {
	config := Default()

	suite.NoError(config.Validate())
	suite.Equal(10000.0, config.Backtest.InitialCapital)
	suite.Equal(14, config.Indicators.RSIPeriod)
}

func (suite *ConfigTestSuite) TestParsePartial() {
	config, err := Parse([]byte(`
backtest:
  initial_capital: 50000
  broker: zero_commission
indicators:
  rsi_period: 7
`))
	suite.Require().NoError(err)

	suite.Equal(50000.0, config.Backtest.InitialCapital)
	suite.Equal(0.001, config.Backtest.Commission)
	suite.Equal(commission_fee.BrokerZero, config.Backtest.Broker)
	suite.Equal(7, config.Indicators.RSIPeriod)
	suite.Equal(26, config.Indicators.MACDSlow)
}

func (suite *ConfigTestSuite) TestParseEmpty() {
	config, err := Parse([]byte(""))
	suite.Require().NoError(err)
	suite.Equal(Default().Indicators, config.Indicators)
}

func (suite *ConfigTestSuite) TestParseInvalid() {
	testCases := []struct {
		name string
		yaml string
	}{
		{name: "malformed", yaml: "backtest: [1, 2"},
		{name: "negative capital", yaml: "backtest:\n  initial_capital: -1\n"},
		{name: "unknown broker", yaml: "backtest:\n  broker: robinhood\n"},
		{name: "fast not below slow", yaml: "indicators:\n  macd_fast: 30\n  macd_slow: 26\n"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := Parse([]byte(tc.yaml))
			suite.Error(err)
			suite.True(errors.IsInvalidConfiguration(err))
		})
	}
}

func (suite *ConfigTestSuite) TestLoad() {
	path := filepath.Join(suite.T().TempDir(), "config.yaml")

	data, err := yaml.Marshal(Default())
	suite.Require().NoError(err)
	suite.Require().NoError(os.WriteFile(path, data, 0644))

	config, err := Load(path)
	suite.Require().NoError(err)
	suite.Equal(Default().Backtest.InitialCapital, config.Backtest.InitialCapital)
	suite.Equal(Default().Indicators, config.Indicators)
}

func (suite *ConfigTestSuite) TestLoadMissingFile() {
	_, err := Load(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.Error(err)
	suite.True(errors.IsInvalidConfiguration(err))
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	config := Default()

	schema, err := config.GenerateSchemaJSON()
	suite.Require().NoError(err)
	suite.Contains(schema, "argo-backtest-config")
	suite.Contains(schema, "initial_capital")
	suite.Contains(schema, "rsi_period")
	suite.Contains(schema, "interactive_broker")
}
