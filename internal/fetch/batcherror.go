package fetch

import (
	"fmt"
	"sort"
	"strings"
)

// BatchError reports every identifier that failed within one Download call,
// keyed by drifter ID. The rest of the batch completed normally.
type BatchError struct {
	Failed map[int64]error
}

func (e *BatchError) Error() string {
	ids := make([]int64, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	fmt.Fprintf(&b, "%d drifter fetches failed:", len(ids))
	for i, id := range ids {
		if i == 5 {
			fmt.Fprintf(&b, " and %d more", len(ids)-i)
			break
		}
		fmt.Fprintf(&b, " %d (%v)", id, e.Failed[id])
	}
	return b.String()
}
