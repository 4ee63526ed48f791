package domain

// RecapFilterAll selects submissions for every roster.
const RecapFilterAll = "all"

type RecapEntry struct {
	Record   SubmissionRecord
	Analysis Analysis
}

type RecapTotals struct {
	Submissions  int
	StatusCounts StatusCounts
	PrelekResult float64
}

// SumRecap adds up the analyses of the given entries.
func SumRecap(entries []RecapEntry) RecapTotals {
	var t RecapTotals
	for _, e := range entries {
		t.Submissions++
		t.StatusCounts = t.StatusCounts.Add(e.Analysis.StatusCounts)
		t.PrelekResult += e.Analysis.PrelekResult
	}
	return t
}
