package review

import "fmt"

// Progress reports how far through the file list the reviewer is: N of Total,
// where Total is the last index. It has no influence on navigation.
type Progress struct {
	N     int
	Total int
}

// Update records that the file at index of count files is displayed
func (p *Progress) Update(index, count int) {
	p.N = index
	p.Total = count - 1
}

// Percent returns N/Total as a percentage; a single file counts as complete
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 100
	}
	return float64(p.N) / float64(p.Total) * 100
}

func (p Progress) String() string {
	return fmt.Sprintf("%d/%d (%.0f%%)", p.N, p.Total, p.Percent())
}
