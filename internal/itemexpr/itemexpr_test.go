package itemexpr

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want int
	}{
		{"empty", "", 0},
		{"single quantity", "40", 40},
		{"simple range", "1-5", 5},
		{"range plus quantity", "1,3-5,7", 9},
		{"inverted range is zero", "5-1", 0},
		{"degenerate range", "4-4", 1},
		{"malformed range skipped", "a-b", 0},
		{"half malformed range skipped", "1-x", 0},
		{"non-numeric token counts as one", "A12", 1},
		{"mixed tokens", "A12,2,3-4", 5},
		{"whitespace tolerated", " 1 - 3 , 2 ", 5},
		{"trailing comma", "2,", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.expr); got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.expr, got, tt.want)
			}
		})
	}
}

func TestProperty_RangeQuantityIsInclusiveSpan(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a-b with a<=b yields b-a+1", prop.ForAll(
		func(a, span int) bool {
			b := a + span
			return Parse(fmt.Sprintf("%d-%d", a, b)) == span+1
		},
		gen.IntRange(0, 10000),
		gen.IntRange(0, 500),
	))

	properties.Property("a-b with a>b yields 0", prop.ForAll(
		func(b, excess int) bool {
			a := b + excess
			return Parse(fmt.Sprintf("%d-%d", a, b)) == 0
		},
		gen.IntRange(0, 10000),
		gen.IntRange(1, 500),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_TotalIsOrderIndependent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("shuffling tokens preserves the total", prop.ForAll(
		func(quantities []int, seed int64) bool {
			tokens := make([]string, 0, len(quantities)+1)
			for _, q := range quantities {
				tokens = append(tokens, fmt.Sprintf("%d", q))
			}
			tokens = append(tokens, "2-6")

			original := Parse(strings.Join(tokens, ","))

			r := rand.New(rand.NewSource(seed))
			r.Shuffle(len(tokens), func(i, j int) {
				tokens[i], tokens[j] = tokens[j], tokens[i]
			})

			return Parse(strings.Join(tokens, ",")) == original
		},
		gen.SliceOf(gen.IntRange(0, 100)),
		gen.Int64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
