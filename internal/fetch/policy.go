package fetch

import (
	"math/rand/v2"
	"time"
)

// userAgents is the fixed pool a RandomPolicy draws from on every request.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/117.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_14_6) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.5993.70 Safari/537.36",
}

// Policy supplies the per-request user-agent string and inter-request delay.
// Injecting it keeps randomness out of the fetch logic so tests can use a
// deterministic zero-delay policy.
type Policy interface {
	UserAgent() string
	Delay() time.Duration
}

// RandomPolicy rotates user agents and sleeps a uniform random duration in
// [Min, Max] between requests.
type RandomPolicy struct {
	Min, Max time.Duration
}

// NewRandomPolicy builds a RandomPolicy from millisecond bounds.
func NewRandomPolicy(minMS, maxMS int) RandomPolicy {
	if maxMS < minMS {
		maxMS = minMS
	}
	return RandomPolicy{
		Min: time.Duration(minMS) * time.Millisecond,
		Max: time.Duration(maxMS) * time.Millisecond,
	}
}

func (p RandomPolicy) UserAgent() string {
	return userAgents[rand.IntN(len(userAgents))]
}

func (p RandomPolicy) Delay() time.Duration {
	if p.Max <= p.Min {
		return p.Min
	}
	return p.Min + time.Duration(rand.Int64N(int64(p.Max-p.Min)))
}

// FixedPolicy returns a constant agent and delay. Tests use it with a zero
// delay.
type FixedPolicy struct {
	Agent string
	Wait  time.Duration
}

func (p FixedPolicy) UserAgent() string    { return p.Agent }
func (p FixedPolicy) Delay() time.Duration { return p.Wait }
