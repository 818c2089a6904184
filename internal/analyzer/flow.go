package analyzer

// FlowSummary is the per-statement flow-analysis result of spec §4.2's
// "Function return analysis": whether every exit path returns, and whether
// any return carried a value / carried none.
type FlowSummary struct {
	AlwaysReturns bool
	AnyWith       bool
	AnyWithout    bool
}

func orSummary(a, b FlowSummary) FlowSummary {
	return FlowSummary{
		AlwaysReturns: a.AlwaysReturns && b.AlwaysReturns,
		AnyWith:       a.AnyWith || b.AnyWith,
		AnyWithout:    a.AnyWithout || b.AnyWithout,
	}
}
