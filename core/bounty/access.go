package bounty

// Role predicates are evaluated against the caller identity at call time.
// Nothing is cached: a transferred issuer takes effect on the next call.

func (b *Bounty) isIssuer(caller string) bool {
	return caller != "" && caller == b.Issuer
}

// isArbiter is true only when an arbiter is configured.
func (b *Bounty) isArbiter(caller string) bool {
	return b.Arbiter != "" && caller == b.Arbiter
}

func (b *Bounty) isIssuerOrArbiter(caller string) bool {
	return b.isIssuer(caller) || b.isArbiter(caller)
}

// IsOwner reports whether caller is the engine's contract owner.
func (e *Engine) IsOwner(caller string) bool {
	return caller != "" && caller == e.owner
}
