package gpio

// ScriptedEdge is one scripted transition for FakeCapturer.
type ScriptedEdge struct {
	T uint64 // microseconds
	V uint8  // 0 or 1
}

// FakeCapturer is a test double that replays a scripted edge sequence
// synchronously when Start is called.
type FakeCapturer struct {
	// Edges contains the scripted transitions, delivered in order to
	// the handler passed to Start.
	Edges []ScriptedEdge

	// StartError, if set, is returned by Start instead of replaying.
	StartError error

	// PowerEnabled tracks the last value set via SetPowerEnable.
	PowerEnabled bool

	// PowerEnableError, if set, will be returned by SetPowerEnable.
	PowerEnableError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeCapturer creates a FakeCapturer with the given scripted edges.
func NewFakeCapturer(edges []ScriptedEdge) *FakeCapturer {
	return &FakeCapturer{Edges: edges}
}

// Start replays all scripted edges to handler and returns.
func (f *FakeCapturer) Start(handler EdgeHandler) error {
	if f.StartError != nil {
		return f.StartError
	}
	for _, e := range f.Edges {
		handler(e.T, e.V)
	}
	return nil
}

// SetPowerEnable records the requested power state.
func (f *FakeCapturer) SetPowerEnable(on bool) error {
	if f.PowerEnableError != nil {
		return f.PowerEnableError
	}
	f.PowerEnabled = on
	return nil
}

// Close marks the capturer as closed.
func (f *FakeCapturer) Close() error {
	f.Closed = true
	return nil
}
