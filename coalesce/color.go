package coalesce

import (
	"fmt"

	"github.com/xujuntwt95329/binaryen/diag"
	"github.com/xujuntwt95329/binaryen/interference"
	"github.com/xujuntwt95329/binaryen/ir"
)

// Coloring is the result of one greedy-coloring run.
type Coloring struct {
	ColorOf       []int // new slot per original index
	RemovedCopies int
	MaxColor      int
}

// GreedyColor processes order (a permutation of [0,numLocals)) in
// sequence, assigning each index the color that resolves the most
// copy-affinity weight among colors it doesn't interfere with.
// Parameters must occupy order[0:numParams] and are forced to colors
// equal to their own index.
func GreedyColor(numLocals, numParams int, types []ir.Type, interf *interference.Graph, weights PairWeights, order []int) Coloring {
	colorOf := make([]int, numLocals)
	for i := range colorOf {
		colorOf[i] = -1
	}
	colorType := make(map[int]ir.Type)
	colorMembers := make(map[int][]int)
	nextColor := 0
	removed := 0

	for _, k := range order {
		if k < numParams {
			colorOf[k] = k
			colorType[k] = types[k]
			colorMembers[k] = append(colorMembers[k], k)
			if k+1 > nextColor {
				nextColor = k + 1
			}
			continue
		}

		bestColor := -1
		bestResolved := -1
		for c := 0; c < nextColor; c++ {
			if colorType[c] != types[k] {
				continue
			}
			interferes := false
			for _, m := range colorMembers[c] {
				if interf.Interferes(k, m) {
					interferes = true
					break
				}
			}
			if interferes {
				continue
			}
			resolved := 0
			for _, m := range colorMembers[c] {
				resolved += weights.Weight(k, m)
			}
			if resolved > bestResolved {
				bestResolved = resolved
				bestColor = c
			}
		}

		if bestColor < 0 {
			bestColor = nextColor
			nextColor++
			colorType[bestColor] = types[k]
			bestResolved = 0
		}
		colorOf[k] = bestColor
		colorMembers[bestColor] = append(colorMembers[bestColor], k)
		removed += bestResolved
		if diag.CoalesceLoggingEnabled {
			fmt.Printf("coalesce: index %d -> color %d (resolved %d)\n", k, bestColor, bestResolved)
		}
	}

	if diag.CoalesceValidationEnabled {
		for i := 0; i < numLocals; i++ {
			for j := i + 1; j < numLocals; j++ {
				diag.Assert(colorOf[i] < 0 || colorOf[i] != colorOf[j] || !interf.Interferes(i, j), "coalesce.GreedyColor",
					"interfering indices %d and %d share color %d", i, j, colorOf[i])
			}
		}
	}

	return Coloring{ColorOf: colorOf, RemovedCopies: removed, MaxColor: nextColor}
}
