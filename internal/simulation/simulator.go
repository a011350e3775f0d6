package simulation

import (
	"fmt"
	"log"
	"time"

	"portfolio-sim/internal/model"
)

// Simulator is one investment strategy: a state machine that walks the
// calendar day by day and returns one or more accounts with populated balance
// histories.
type Simulator interface {
	Name() string
	Run(p Params) ([]*model.Account, error)
}

// QuoteSource supplies daily close prices and company names for a ticker.
// The fetch happens once per simulator invocation, outside the day loop.
type QuoteSource interface {
	DailyCloses(ticker string, start, end time.Time) ([]model.SeriesPoint, error)
	// ResolveName returns a display name for the ticker, defaulting to a
	// placeholder on failure. It never fails.
	ResolveName(ticker string) string
}

// RateSource supplies a daily interest-rate series (percentage points).
type RateSource interface {
	DailyRates(start, end time.Time) ([]model.SeriesPoint, error)
}

// AccountCache memoizes a computed account per simulation fingerprint. It is
// advisory: a miss or a race just means redundant recomputation, never a wrong
// result.
type AccountCache interface {
	GetAccount(key string) (*model.Account, bool)
	SetAccount(key string, acct *model.Account)
}

// Result is one entry of the orchestrator's result map: either a populated
// account list or an error descriptor. Callers must check which.
type Result struct {
	Accounts []*model.Account `json:"accounts,omitempty"`
	Err      string           `json:"error,omitempty"`
}

// Failed reports whether this entry is an error descriptor.
func (r Result) Failed() bool { return r.Err != "" }

// Orchestrator runs every registered simulator for a shared parameter set,
// isolating per-strategy failures. Registration order is preserved for
// iteration, but consumers of the result map must not depend on it.
type Orchestrator struct {
	names []string
	sims  map[string]Simulator
}

func NewOrchestrator(sims ...Simulator) *Orchestrator {
	o := &Orchestrator{sims: make(map[string]Simulator)}
	for _, s := range sims {
		o.Register(s)
	}
	return o
}

// Register adds a simulator under its own name. Re-registering a name
// replaces the simulator but keeps its original position.
func (o *Orchestrator) Register(s Simulator) {
	name := s.Name()
	if _, exists := o.sims[name]; !exists {
		o.names = append(o.names, name)
	}
	o.sims[name] = s
}

// Names returns the registered simulator names in registration order.
func (o *Orchestrator) Names() []string {
	out := make([]string, len(o.names))
	copy(out, o.names)
	return out
}

// RunAll invokes every registered simulator with the shared params. The
// returned map always has one entry per registered simulator; a failing
// simulator (error or panic) maps to an error descriptor and never prevents
// its siblings from completing.
func (o *Orchestrator) RunAll(p Params) map[string]Result {
	return o.runSubset(o.names, p)
}

// RunSelected runs only the named simulators. Unknown names get an error
// descriptor entry so the caller can tell a typo from an empty result.
func (o *Orchestrator) RunSelected(names []string, p Params) map[string]Result {
	if len(names) == 0 {
		return o.RunAll(p)
	}
	return o.runSubset(names, p)
}

func (o *Orchestrator) runSubset(names []string, p Params) map[string]Result {
	results := make(map[string]Result, len(names))
	for _, name := range names {
		sim, ok := o.sims[name]
		if !ok {
			results[name] = Result{Err: fmt.Sprintf("unknown simulation %q", name)}
			continue
		}
		results[name] = runIsolated(sim, p)
	}
	return results
}

// runIsolated converts both returned errors and panics into an error
// descriptor so one misbehaving strategy cannot abort the batch.
func runIsolated(sim Simulator, p Params) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Simulation] %s panicked: %v", sim.Name(), r)
			res = Result{Err: fmt.Sprintf("panic: %v", r)}
		}
	}()

	accounts, err := sim.Run(p)
	if err != nil {
		log.Printf("[Simulation] %s failed: %v", sim.Name(), err)
		return Result{Err: err.Error()}
	}
	return Result{Accounts: accounts}
}
