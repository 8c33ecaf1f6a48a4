package labels

import (
	"feesim/core/types"
)

// Majority is the winning vote of a rotation, or undetermined when no unique
// winner exists.
type Majority string

const (
	MajorityAgree        Majority = "AGREE"
	MajorityDisagree     Majority = "DISAGREE"
	MajorityTimeout      Majority = "TIMEOUT"
	MajorityUndetermined Majority = "UNDETERMINED"
)

// Determined reports whether the majority resolved to a concrete vote.
func (m Majority) Determined() bool {
	return m == MajorityAgree || m == MajorityDisagree || m == MajorityTimeout
}

// Matches reports whether the supplied vote kind sits on the majority side.
func (m Majority) Matches(kind types.VoteKind) bool {
	switch m {
	case MajorityAgree:
		return kind == types.VoteAgree
	case MajorityDisagree:
		return kind == types.VoteDisagree
	case MajorityTimeout:
		return kind == types.VoteTimeout
	}
	return false
}

// Tally counts the Agree/Disagree/Timeout votes of a rotation, including the
// leader's self-vote when a leader acted. Idle votes are excluded: the
// idleness adjuster rewrites them before labeling, and any survivors carry no
// opinion. NotApplicable entries never enter the tally.
func Tally(rotation types.Rotation) Majority {
	var agree, disagree, timeout int
	count := func(kind types.VoteKind) {
		switch kind {
		case types.VoteAgree:
			agree++
		case types.VoteDisagree:
			disagree++
		case types.VoteTimeout:
			timeout++
		}
	}
	for _, entry := range rotation.Votes {
		count(entry.Vote.Kind)
	}
	if rotation.HasLeaderAction() {
		count(rotation.Action.Vote.Kind)
	}
	return winner(agree, disagree, timeout)
}

// TallyValidators counts only the validator votes of a rotation, leaving the
// leader's self-vote out. Appeal outcomes are decided on validator votes
// alone.
func TallyValidators(rotation types.Rotation) Majority {
	var agree, disagree, timeout int
	for _, entry := range rotation.Votes {
		switch entry.Vote.Kind {
		case types.VoteAgree:
			agree++
		case types.VoteDisagree:
			disagree++
		case types.VoteTimeout:
			timeout++
		}
	}
	return winner(agree, disagree, timeout)
}

func winner(agree, disagree, timeout int) Majority {
	best := agree
	if disagree > best {
		best = disagree
	}
	if timeout > best {
		best = timeout
	}
	if best == 0 {
		return MajorityUndetermined
	}
	unique := 0
	var result Majority
	if agree == best {
		unique++
		result = MajorityAgree
	}
	if disagree == best {
		unique++
		result = MajorityDisagree
	}
	if timeout == best {
		unique++
		result = MajorityTimeout
	}
	if unique != 1 {
		return MajorityUndetermined
	}
	return result
}
