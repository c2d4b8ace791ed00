package uniq6

import "slices"

// processBucket loads one bucket's records, sorts them, and counts distinct
// values by comparing each element to its predecessor (the first element,
// if any, always counts). Adjacent counting is only correct after the full
// sort; the two steps are deliberately fused here so no caller can run one
// without the other.
//
// The spill file is removed unconditionally, empty buckets included, so a
// completed run leaves no backing storage behind.
func (s *bucketSet) processBucket(bucket int) (uint64, error) {
	addrs, err := s.load(bucket)
	if err != nil {
		return 0, err
	}

	slices.SortFunc(addrs, Addr.Compare)

	var distinct uint64
	for i, a := range addrs {
		if i == 0 || a != addrs[i-1] {
			distinct++
		}
	}

	if err := s.remove(bucket); err != nil {
		return 0, err
	}
	return distinct, nil
}
