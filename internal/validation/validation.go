// Package validation provides structural checks over block trees and the
// input validation used by the preview server.
//
// Block validation never fails: it walks the whole tree and accumulates every
// finding so callers can decide remediation (surface to the user, or repair
// missing ids via the identity fingerprint).
package validation

import (
	"fmt"

	"github.com/sparktype/blockdown/internal/types"
)

// Result is a complete structural report over a block sequence.
type Result struct {
	// IsValid is true iff Errors is empty
	IsValid bool `json:"isValid"`
	// Errors holds human-readable findings in document order, parents before
	// descendants
	Errors []string `json:"errors"`
}

// ValidateBlocks checks every block in the sequence, recursing into all
// regions. Missing id and missing type are independent findings and can both
// fire on the same block. It does not check id uniqueness or whether a type
// is registered; those are policy decisions for the callers that own them.
func ValidateBlocks(blocks []*types.Block) Result {
	var errs []string
	for i, block := range blocks {
		errs = validateBlock(block, fmt.Sprintf("block %d", i), errs)
	}
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// validateBlock appends findings for one block and its descendants.
func validateBlock(block *types.Block, path string, errs []string) []string {
	label := path
	if block.ID != "" {
		label = fmt.Sprintf("%s (id %q)", path, block.ID)
	}

	if block.ID == "" {
		errs = append(errs, fmt.Sprintf("%s: missing id", label))
	}
	if block.Type == "" {
		errs = append(errs, fmt.Sprintf("%s: missing type", label))
	}

	for i := range block.Regions {
		region := &block.Regions[i]
		for j, child := range region.Blocks {
			childPath := fmt.Sprintf("%s > region %q > block %d", path, region.Name, j)
			errs = validateBlock(child, childPath, errs)
		}
	}
	return errs
}
