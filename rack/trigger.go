package rack

const (
	defaultTriggerLow  = 0.1
	defaultTriggerHigh = 0.9
)

// Trigger is a Schmitt-style rising-edge detector. It arms when the input
// falls to Low or below and fires once when it then reaches High.
type Trigger struct {
	low, high float64
	latched   bool
}

// NewTrigger returns a trigger with the default [0.1, 0.9] hysteresis, which
// suits a momentary button param in [0, 1].
func NewTrigger() Trigger {
	return Trigger{low: defaultTriggerLow, high: defaultTriggerHigh}
}

// NewTriggerThresholds returns a trigger with custom hysteresis. If low is
// not below high the thresholds are swapped.
func NewTriggerThresholds(low, high float64) Trigger {
	if low > high {
		low, high = high, low
	}

	return Trigger{low: low, high: high}
}

// Process feeds one value and reports whether a rising edge occurred.
func (t *Trigger) Process(v float64) bool {
	if t.latched {
		if v <= t.low {
			t.latched = false
		}
		return false
	}

	if v >= t.high {
		t.latched = true
		return true
	}

	return false
}

// IsHigh reports whether the trigger is currently latched high.
func (t *Trigger) IsHigh() bool { return t.latched }

// Reset re-arms the trigger.
func (t *Trigger) Reset() { t.latched = false }
