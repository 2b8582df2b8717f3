package rack

// ClockDivider fires once every Division calls to Process.
type ClockDivider struct {
	clock    uint32
	division uint32
}

// NewClockDivider returns a divider firing every division calls. Values
// below 1 are treated as 1.
func NewClockDivider(division int) ClockDivider {
	d := ClockDivider{}
	d.SetDivision(division)
	return d
}

// SetDivision changes the period without resetting the phase beyond it.
func (d *ClockDivider) SetDivision(division int) {
	if division < 1 {
		division = 1
	}

	d.division = uint32(division)
	if d.clock >= d.division {
		d.clock = 0
	}
}

// Division returns the period.
func (d *ClockDivider) Division() int { return int(d.division) }

// Reset makes the next Process call start a new period.
func (d *ClockDivider) Reset() { d.clock = 0 }

// Process advances the divider and reports whether this call fires. The
// first call after construction or Reset fires.
func (d *ClockDivider) Process() bool {
	if d.division == 0 {
		d.division = 1
	}

	fire := d.clock == 0
	d.clock++
	if d.clock >= d.division {
		d.clock = 0
	}

	return fire
}

// Pending returns how many calls to Process remain before the next fire.
func (d *ClockDivider) Pending() int {
	if d.clock == 0 {
		return 0
	}

	return int(d.division - d.clock)
}

// Advance is equivalent to n calls to Process, none of which may fire.
// n is capped at Pending.
func (d *ClockDivider) Advance(n int) {
	n = min(n, d.Pending())
	if n <= 0 {
		return
	}

	d.clock += uint32(n)
	if d.clock >= d.division {
		d.clock = 0
	}
}
