package battery

import (
	"fmt"
	"math"
)

// State is the battery charge regime. Thresholds on the current level
// determine the state; there is no hidden mode beyond the level itself.
type State string

const (
	StateFull     State = "full"
	StateNormal   State = "normal"
	StateLow      State = "low"
	StateDepleted State = "depleted"
)

type Config struct {
	Capacity     float64 // full charge, percent-normalized
	DrainPerStep float64 // fixed cost per move
	LowThreshold float64 // at or below this, state is Low
}

const (
	DefaultCapacity     = 100.0
	DefaultDrainPerStep = 5.0

	// DefaultLowFraction sets the Low threshold at 20% of capacity.
	DefaultLowFraction = 0.2
)

// Battery is a finite per-episode energy store. Every move drains it by a
// fixed amount; charging restores it to capacity in a single action.
type Battery struct {
	capacity     float64
	current      float64
	drainPerStep float64
	lowThreshold float64

	totalConsumed float64
	chargeCycles  int
}

func New(cfg Config) (*Battery, error) {
	if cfg.Capacity == 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.DrainPerStep == 0 {
		cfg.DrainPerStep = DefaultDrainPerStep
	}
	if cfg.LowThreshold == 0 {
		cfg.LowThreshold = DefaultLowFraction * cfg.Capacity
	}
	if cfg.Capacity < 0 || cfg.DrainPerStep < 0 || cfg.LowThreshold < 0 {
		return nil, fmt.Errorf("battery config must be non-negative: %+v", cfg)
	}
	if cfg.LowThreshold > cfg.Capacity {
		return nil, fmt.Errorf("low threshold %g exceeds capacity %g", cfg.LowThreshold, cfg.Capacity)
	}
	return &Battery{
		capacity:     cfg.Capacity,
		current:      cfg.Capacity,
		drainPerStep: cfg.DrainPerStep,
		lowThreshold: cfg.LowThreshold,
	}, nil
}

// Drain consumes one move's worth of energy, clamping at zero. It returns
// false once the battery is depleted; the caller decides what depletion
// means (for an episode, termination in failure).
func (b *Battery) Drain() bool {
	amount := b.drainPerStep
	if amount > b.current {
		amount = b.current
	}
	b.current -= amount
	b.totalConsumed += amount
	return b.current > 0
}

// Charge restores the battery to full capacity. Charging is instantaneous
// in this model: one action, full restore. Only a charge that actually
// raises the level counts as a cycle.
func (b *Battery) Charge() {
	if b.current < b.capacity {
		b.chargeCycles++
	}
	b.current = b.capacity
}

func (b *Battery) State() State {
	switch {
	case b.current <= 0:
		return StateDepleted
	case b.current <= b.lowThreshold:
		return StateLow
	case b.current >= b.capacity:
		return StateFull
	default:
		return StateNormal
	}
}

func (b *Battery) Depleted() bool {
	return b.current <= 0
}

// Percent is the current level as a fraction of capacity, in [0, 100].
func (b *Battery) Percent() float64 {
	if b.capacity == 0 {
		return 0
	}
	return b.current / b.capacity * 100
}

func (b *Battery) Current() float64 {
	return b.current
}

func (b *Battery) Capacity() float64 {
	return b.capacity
}

func (b *Battery) LowThreshold() float64 {
	return b.lowThreshold
}

func (b *Battery) DrainPerStep() float64 {
	return b.drainPerStep
}

// StepsRemaining is the number of full moves the current charge still
// affords. A zero drain rate means the budget never binds.
func (b *Battery) StepsRemaining() int {
	if b.drainPerStep <= 0 {
		return math.MaxInt32
	}
	return int(math.Floor(b.current / b.drainPerStep))
}

func (b *Battery) TotalConsumed() float64 {
	return b.totalConsumed
}

func (b *Battery) ChargeCycles() int {
	return b.chargeCycles
}
