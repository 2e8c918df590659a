package tskit

// PairwiseDiversity computes the mean number of pairwise differences
// across samples, per the supplemented `tree_sequence_get_pairwise_diversity`
// behavior (tree_sequence.c:2339-2388): weighted pair-counts are
// accumulated across all sites and divided once by n*(n-1)/2 at the end,
// not per site, so the result is not sensitive to the number of sites
// visited between flushes. Requires 2 <= len(samples) <= sample_size
// (CodeBadParamValue otherwise) and every visited site to be biallelic
// (exactly one mutation); a site with more or fewer mutations is
// CodeUnsupportedOperation, not silently skipped.
func PairwiseDiversity(ts *TreeSequence, samples []NodeId) (float64, error) {
	n := len(samples)
	if n < 2 || n > ts.SampleSize() {
		return 0, newErr(CodeBadParamValue, "", -1, "need 2 <= len(samples) <= %d, have %d", ts.SampleSize(), n)
	}

	t, err := NewSparseTree(ts, LeafCounts)
	if err != nil {
		return 0, err
	}
	if err := t.SetTrackedLeaves(samples); err != nil {
		return 0, err
	}

	var sum float64
	ok, err := t.First()
	if err != nil {
		return 0, err
	}
	for ok {
		for _, siteID := range t.Sites() {
			site, err := ts.GetSite(siteID)
			if err != nil {
				return 0, err
			}
			if len(site.Mutations) != 1 {
				return 0, newErr(CodeUnsupportedOperation, "", int(siteID), "site is not biallelic: %d mutations", len(site.Mutations))
			}
			mut, err := ts.GetMutation(site.Mutations[0])
			if err != nil {
				return 0, err
			}
			count, err := t.NumTrackedLeaves(mut.Node)
			if err != nil {
				return 0, err
			}
			sum += float64(count) * float64(n-count)
		}
		ok, err = t.Next()
		if err != nil {
			return 0, err
		}
	}

	denom := float64(n) * float64(n-1) / 2
	return sum / denom, nil
}
