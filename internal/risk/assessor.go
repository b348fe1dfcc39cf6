package risk

import "context"

// Assessor turns a submitted reading into an Assessment. The local heuristic
// and the remote prediction client both implement it.
type Assessor interface {
	Assess(ctx context.Context, in Input) (Assessment, error)
}

// LocalAssessor applies an input policy and scores with Compute.
type LocalAssessor struct {
	Policy Policy
}

func NewLocalAssessor(policy Policy) *LocalAssessor {
	return &LocalAssessor{Policy: policy}
}

func (a *LocalAssessor) Assess(_ context.Context, in Input) (Assessment, error) {
	r, err := a.Policy.Apply(in, ScoredFields())
	if err != nil {
		return Assessment{}, err
	}
	return Compute(r), nil
}
