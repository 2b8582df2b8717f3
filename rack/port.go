package rack

// Port is one audio-rate jack. The host sets Connected when a cable is
// patched and writes Voltage each frame; modules read both on the audio
// thread.
type Port struct {
	Voltage   float64
	Connected bool
}

// VoltageOr returns the port voltage, or fallback when nothing is patched.
func (p *Port) VoltageOr(fallback float64) float64 {
	if !p.Connected {
		return fallback
	}

	return p.Voltage
}

// CountConnected returns how many ports have a cable attached.
func CountConnected(ports []Port) int {
	n := 0
	for i := range ports {
		if ports[i].Connected {
			n++
		}
	}

	return n
}

// ProcessArgs carries per-frame host information into Process.
type ProcessArgs struct {
	SampleRate float64
	SampleTime float64
	Frame      int64
}

// NewProcessArgs returns args for the given sample rate at frame 0.
func NewProcessArgs(sampleRate float64) ProcessArgs {
	st := 0.0
	if sampleRate > 0 {
		st = 1 / sampleRate
	}

	return ProcessArgs{SampleRate: sampleRate, SampleTime: st}
}
