package service

import "math"

// Digest summarises the distribution of stored keys. Percentiles use the
// nearest-rank method over all occurrences.
type Digest struct {
	Seq      uint64 `json:"seq"`
	Count    int    `json:"count"`
	Distinct int    `json:"distinct"`
	Min      int64  `json:"min"`
	P50      int64  `json:"p50"`
	P90      int64  `json:"p90"`
	P99      int64  `json:"p99"`
	Max      int64  `json:"max"`
}

func (s *IndexService) Digest() Digest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := Digest{
		Seq:      s.seq.Current(),
		Count:    s.tree.Count(),
		Distinct: s.tree.Distinct(),
	}
	if d.Count == 0 {
		return d
	}
	d.Min, _ = s.tree.Min()
	d.Max, _ = s.tree.Max()
	d.P50 = s.percentile(50, d.Count)
	d.P90 = s.percentile(90, d.Count)
	d.P99 = s.percentile(99, d.Count)
	return d
}

// percentile must run with the lock held and n > 0.
func (s *IndexService) percentile(p float64, n int) int64 {
	k := int(math.Ceil(p / 100 * float64(n)))
	k = min(max(k, 1), n)
	v, _ := s.tree.Select(k)
	return v
}
