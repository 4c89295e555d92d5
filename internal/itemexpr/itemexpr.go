// Package itemexpr parses the free-text "item numbers" expression entered at
// sale time into a total quantity.
package itemexpr

import (
	"strconv"
	"strings"
)

// Parse returns the total quantity implied by a comma-separated expression.
// Each token is either a range "a-b" (inclusive, contributing b-a+1 when
// a <= b, zero otherwise) or a bare integer counted as a quantity. A
// non-numeric single token counts as quantity 1; malformed ranges contribute
// zero. The result does not depend on token order.
func Parse(expr string) int {
	if expr == "" {
		return 0
	}

	total := 0
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if strings.Contains(part, "-") {
			bounds := strings.SplitN(part, "-", 2)
			start, err1 := strconv.Atoi(strings.TrimSpace(bounds[0]))
			end, err2 := strconv.Atoi(strings.TrimSpace(bounds[1]))
			if err1 != nil || err2 != nil {
				continue
			}
			if start <= end {
				total += end - start + 1
			}
			continue
		}

		if n, err := strconv.Atoi(part); err == nil {
			total += n
		} else {
			// Tokens like "A12" still describe one physical item.
			total++
		}
	}

	return total
}
