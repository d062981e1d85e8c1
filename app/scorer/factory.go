package scorer

import (
	"fmt"
)

// Strategy selection modes.
const (
	ModeAuto   = "auto"
	ModeRemote = "remote"
	ModeLocal  = "local"
)

// NewStrategy selects the scoring strategy from configuration. This is the
// single decision point: ModeAuto picks remote when an API key is present
// and falls back to the local heuristic otherwise.
func NewStrategy(mode string, remote RemoteConfig) (Strategy, error) {
	switch mode {
	case ModeRemote:
		return NewRemote(remote)
	case ModeLocal:
		return NewHeuristic(), nil
	case ModeAuto, "":
		if remote.APIKey != "" {
			return NewRemote(remote)
		}
		return NewHeuristic(), nil
	default:
		return nil, fmt.Errorf("unknown scoring mode: %s", mode)
	}
}
