package writingcmd

// FeatureGates exposes runtime feature toggles required by writing command handlers.
// Callers supply closures that read Config.Features.Writing so handlers stay
// decoupled from configuration.
type FeatureGates struct {
	WritingEnabled func() bool
}

func (g FeatureGates) writingEnabled() bool {
	if g.WritingEnabled == nil {
		return true
	}
	return g.WritingEnabled()
}
