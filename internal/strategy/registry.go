package strategy

import (
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// Registry holds the named rules a run can select.
type Registry interface {
	Register(rule Rule) error
	Get(name string) (Rule, error)
	Names() []string
}

type registryV1 struct {
	rules map[string]Rule
	mu    sync.RWMutex
}

// NewRegistry creates an empty rule registry.
func NewRegistry() Registry {
	return &registryV1{
		rules: make(map[string]Rule),
	}
}

// NewDefaultRegistry creates a registry holding rsi_macd, ma_crossover and combined.
func NewDefaultRegistry() Registry {
	return &registryV1{
		rules: map[string]Rule{
			RSIMACDName:     NewRSIMACDRule(),
			MACrossoverName: NewMACrossoverRule(),
			CombinedName:    NewCombinedRule(),
		},
	}
}

func (r *registryV1) Register(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[rule.Name()]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyExists, "strategy %s already registered", rule.Name())
	}

	r.rules[rule.Name()] = rule

	return nil
}

// Get returns the rule with the given name or an ErrCodeInvalidStrategy error.
func (r *registryV1) Get(name string) (Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, exists := r.rules[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeInvalidStrategy, "unknown strategy %q", name)
	}

	return rule, nil
}

// Names returns the registered rule names in sorted order.
func (r *registryV1) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
