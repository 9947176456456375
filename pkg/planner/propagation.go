package planner

import (
	"github.com/arthur-debert/buildenv/pkg/logging"
	"github.com/arthur-debert/buildenv/pkg/types"
)

// FoldPropagated folds the queued propagated packages in rounds until no
// new ones turn up. Every package gets the next priority from a counter
// starting at types.PropagatedPriorityBase, and collisions are ignored
// while it is folded.
func (p *Planner) FoldPropagated() error {
	defer logging.LogOperationStart(p.logger, "propagation closure")()

	counter := types.PropagatedPriorityBase
	rounds := 0
	for len(p.postponed) > 0 {
		round := p.postponed
		p.postponed = nil
		p.queued = make(map[string]bool)
		rounds++

		p.logger.Debug().
			Int("round", rounds).
			Int("packages", len(round)).
			Msg("Folding propagated packages")

		for _, root := range round {
			prio := counter
			counter++

			if _, err := p.fs.Stat(root); err != nil {
				p.logger.Debug().
					Str("package", root).
					Msg("Propagated package does not exist, skipping")
				p.done[root] = true
				continue
			}

			if err := p.addIgnoringCollisions(root, prio); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Planner) addIgnoringCollisions(root string, prio int) error {
	saved := p.ignoreCollisions
	p.ignoreCollisions = true
	defer func() { p.ignoreCollisions = saved }()

	return p.AddPackage(root, prio)
}
