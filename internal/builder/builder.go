// Package builder turns a scanned token stream into a block tree.
//
// The text format is flat: containers are delimited by sequential open/end
// tokens rather than textual nesting, and region boundaries are sibling
// marker tokens. The builder therefore keeps an explicit stack of in-progress
// container frames instead of descending recursively over text, which
// resolves arbitrarily deep nesting without lookahead.
package builder

import (
	"github.com/sparktype/blockdown/internal/decoder"
	blockerrors "github.com/sparktype/blockdown/internal/errors"
	"github.com/sparktype/blockdown/internal/identity"
	"github.com/sparktype/blockdown/internal/scanner"
	"github.com/sparktype/blockdown/internal/types"
)

// DefaultRegion is the implicit region name for container children that
// appear before any explicit region marker.
const DefaultRegion = "main"

// frame tracks one open container while its children accumulate.
type frame struct {
	body decoder.Body
	// sealed holds the finished regions in first-appearance order
	sealed []types.Region
	// name of the region currently collecting children; empty while in the
	// implicit bucket before the first marker
	name string
	// current is the child list of the open region
	current []*types.Block
}

// seal closes the open region bucket. The implicit bucket is dropped when it
// collected nothing; a repeated region name replaces the earlier children but
// keeps the region's original position in the order.
func (f *frame) seal() {
	name := f.name
	if name == "" {
		if len(f.current) == 0 {
			return
		}
		name = DefaultRegion
	}
	for i := range f.sealed {
		if f.sealed[i].Name == name {
			f.sealed[i].Blocks = f.current
			f.current = nil
			return
		}
	}
	f.sealed = append(f.sealed, types.Region{Name: name, Blocks: f.current})
	f.current = nil
}

// Build consumes a token stream and constructs the top-level block sequence.
// It fails wholesale on structural errors; no partial tree is returned.
func Build(tokens []scanner.Token) ([]*types.Block, error) {
	var top []*types.Block
	var stack []*frame

	appendBlock := func(b *types.Block) {
		if len(stack) == 0 {
			top = append(top, b)
			return
		}
		f := stack[len(stack)-1]
		f.current = append(f.current, b)
	}

	for _, tok := range tokens {
		switch tok.Kind {
		case scanner.TokenContentOpen:
			body, err := decoder.Decode(tok.Body, tok.Line)
			if err != nil {
				return nil, err
			}
			appendBlock(newBlock(body, nil))

		case scanner.TokenContainerOpen:
			body, err := decoder.Decode(tok.Body, tok.Line)
			if err != nil {
				return nil, err
			}
			stack = append(stack, &frame{body: body})

		case scanner.TokenRegionMarker:
			if len(stack) == 0 {
				// A marker outside any container has nothing to delimit
				continue
			}
			f := stack[len(stack)-1]
			f.seal()
			f.name = tok.Region

		case scanner.TokenEnd:
			if len(stack) == 0 {
				return nil, blockerrors.UnmatchedBlockEnd(tok.Line)
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			f.seal()
			appendBlock(newBlock(f.body, f.sealed))
		}
	}

	if len(stack) > 0 {
		return nil, blockerrors.UnclosedContainer(len(stack))
	}

	return top, nil
}

// newBlock constructs a block from its decoded body, deriving the id from the
// payload fingerprint when the body carries no explicit id.
func newBlock(body decoder.Body, regions []types.Region) *types.Block {
	id := body.ID
	if id == "" {
		id = identity.Fingerprint(body.Type, body.Content, body.Config)
	}
	return &types.Block{
		ID:      id,
		Type:    body.Type,
		Content: body.Content,
		Config:  body.Config,
		Regions: regions,
		Extra:   body.Extra,
	}
}
