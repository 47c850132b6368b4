package casregistry

// Usage restricts which binaries accept a backend.
type Usage uint8

const (
	// UsageCLI marks backends available to xdao-iface.
	UsageCLI Usage = 1 << iota
	// UsageDaemon marks backends a store daemon may serve from.
	UsageDaemon
)

func (u Usage) allows(want Usage) bool { return u&want != 0 }
