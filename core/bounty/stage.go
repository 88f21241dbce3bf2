package bounty

import "time"

// Stage machine: Draft -> Active (activate, or direct creation), any
// non-Dead stage -> Dead (kill). Dead is terminal.

func (b *Bounty) inStage(s Stage) bool { return b.Stage == s }

func (b *Bounty) isDead() bool { return b.Stage == StageDead }

// beforeDeadline uses strict <: the deadline moment itself is already
// expired.
func (b *Bounty) beforeDeadline(now time.Time) bool {
	return now.Before(b.Deadline)
}
