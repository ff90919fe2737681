package secondary

import "context"

// ProposalRequest carries the stage context an external generator needs.
// RequiredPayloads holds the approved artifacts the stage consumes, keyed
// by artifact type.
type ProposalRequest struct {
	Stage            string
	ProjectID        string
	SeedInput        string
	Inputs           map[string]string
	RequiredPayloads map[string][]byte
}

// Proposal is a candidate set of draft payloads, keyed by artifact type.
// The payloads are untrusted until the stage handler vets them.
type Proposal struct {
	Payloads  map[string][]byte
	Generator string
	Mode      string
	Notes     string
}

// Proposer defines the secondary port for draft generation. Implementations
// may call a remote model and can fail or time out; every stage handler
// that uses one must define a deterministic fallback.
type Proposer interface {
	Propose(ctx context.Context, req ProposalRequest) (*Proposal, error)
}
