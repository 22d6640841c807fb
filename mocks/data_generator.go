package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-backtest/internal/types"
)

// DataGenerator generates synthetic daily bars for tests and CLI demos.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how a series is generated.
type GeneratorConfig struct {
	Symbol    string
	StartTime time.Time
	// Interval is the duration between each bar
	Interval     time.Duration
	Count        int
	InitialPrice float64
	// Volatility is the per-bar standard deviation of returns (0.01 = 1%)
	Volatility float64
	// Trend is the total drift spread across the series (-0.5 to 0.5 for bearish to bullish)
	Trend float64
	// Cycle adds a sine wave with this period in bars. Zero disables it.
	Cycle int
	// CycleAmplitude is the relative height of the sine wave (0.05 = 5% of the initial price)
	CycleAmplitude float64
	VolumeBase     int64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a year of daily bars with mild noise.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartTime:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:       24 * time.Hour,
		Count:          252,
		InitialPrice:   100.0,
		Volatility:     0.015,
		Trend:          0.0,
		Cycle:          0,
		CycleAmplitude: 0,
		VolumeBase:     1_000_000,
		VolumeVariance: 0.3,
	}
}

// Generate creates a Series following a geometric Brownian motion, optionally overlaid with a cycle.
// Prices stay strictly positive and timestamps strictly increase.
func (g *DataGenerator) Generate(config GeneratorConfig) types.Series {
	series := make(types.Series, config.Count)
	base := config.InitialPrice
	currentTime := config.StartTime
	drift := 0.0

	if config.Count > 0 {
		drift = config.Trend / float64(config.Count)
	}

	for i := 0; i < config.Count; i++ {
		// Box-Muller transform for a standard normal draw
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		open := g.price(base, config, i)

		base *= 1 + config.Volatility*z + drift
		if base <= 0 {
			base = config.InitialPrice * 0.01
		}

		closePrice := g.price(base, config, i+1)

		spread := config.Volatility * open * 0.5
		high := math.Max(open, closePrice) + math.Abs(g.rng.Float64()*spread)
		low := math.Min(open, closePrice) - math.Abs(g.rng.Float64()*spread)
		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volume := float64(config.VolumeBase) * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = 0
		}

		series[i] = types.Bar{
			Symbol: config.Symbol,
			Time:   currentTime,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(closePrice, 4),
			Volume: int64(volume),
		}

		currentTime = currentTime.Add(config.Interval)
	}

	return series
}

// price applies the optional cycle on top of the random walk level.
func (g *DataGenerator) price(level float64, config GeneratorConfig, bar int) float64 {
	if config.Cycle <= 0 {
		return level
	}

	wave := config.CycleAmplitude * config.InitialPrice * math.Sin(2*math.Pi*float64(bar)/float64(config.Cycle))
	if level+wave <= 0 {
		return level
	}

	return level + wave
}

// GenerateMultiSymbol generates one independent series per symbol.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) map[string]types.Series {
	all := make(map[string]types.Series, len(symbols))

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		// Vary initial price and volatility slightly per symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		all[symbol] = g.Generate(config)
	}

	return all
}

// GenerateYear returns 252 reproducible daily bars for symbol.
func GenerateYear(symbol string) types.Series {
	config := DefaultConfig()
	config.Symbol = symbol

	return NewDataGenerator(42).Generate(config)
}

// GenerateCyclical returns reproducible bars with a pronounced cycle, which makes every strategy trade.
func GenerateCyclical(symbol string, count int) types.Series {
	config := DefaultConfig()
	config.Symbol = symbol
	config.Count = count
	config.Volatility = 0.005
	config.Cycle = 60
	config.CycleAmplitude = 0.2

	return NewDataGenerator(7).Generate(config)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
