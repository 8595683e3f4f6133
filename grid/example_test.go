package grid_test

import (
	"fmt"
	"time"

	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/grid"
)

// ExampleGenerate enumerates 45-minute slots in a two-hour morning window.
//
// Complexity: O(W/15min).
func ExampleGenerate() {
	loc := time.FixedZone("Asia/Seoul", 9*3600)
	w := core.Window{
		Start: time.Date(2026, 1, 20, 9, 0, 0, 0, loc),
		End:   time.Date(2026, 1, 20, 11, 0, 0, 0, loc),
	}
	slots, _ := grid.Generate(w, 45*time.Minute)
	for _, s := range slots {
		fmt.Printf("%d %s %s-%s\n", s.Index, s.ID, s.Start.Format("15:04"), s.End.Format("15:04"))
	}

	// Output:
	// 0 20260120T0900 09:00-09:45
	// 1 20260120T0915 09:15-10:00
	// 2 20260120T0930 09:30-10:15
	// 3 20260120T0945 09:45-10:30
	// 4 20260120T1000 10:00-10:45
	// 5 20260120T1015 10:15-11:00
}
