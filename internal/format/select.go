package format

import (
	"errors"

	"github.com/formatkit/execfmt/internal/config"
)

// ErrConfigInvalid is returned when formatting is attempted against a
// configuration that resolved with diagnostics.
var ErrConfigInvalid = errors.New("cannot format because the configuration was not valid")

// Select returns the commands to run for path, in configured order.
//
// Commands with an associations glob participate whenever their glob
// matches. Commands without one are fallbacks: the first whose
// extension or file-name matcher hits is selected, and only while no
// glob command has matched; the scan stops at that point. An empty
// selection is a valid outcome, not an error.
func Select(cfg *config.Config, path string) ([]*config.CommandSpec, error) {
	if !cfg.IsValid {
		return nil, ErrConfigInvalid
	}

	var selected []*config.CommandSpec
	for i := range cfg.Commands {
		cmd := &cfg.Commands[i]
		if cmd.Associations != "" {
			if cmd.MatchesAssociations(path) {
				selected = append(selected, cmd)
			}
		} else if len(selected) == 0 && cmd.MatchesExtsOrFileNames(path) {
			selected = append(selected, cmd)
			break
		}
	}
	return selected, nil
}
