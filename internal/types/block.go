// Package types provides the shared block document model used throughout the
// Blockdown engine. This package contains only data definitions to avoid
// circular dependencies between the scanner, builder, serializer, and
// validation packages.
package types

// Block is the atomic unit of a block document. A Block is either a content
// (leaf) block with no regions, or a container block holding one or more
// named, ordered regions of child blocks.
type Block struct {
	// ID uniquely identifies the block within a document. When a block body
	// carries no explicit id, the builder derives one from the block's
	// semantic payload so identity stays stable across re-parses.
	ID string `json:"id"`
	// Type is the namespaced block kind (e.g. "core:rich_text",
	// "core:two_column")
	Type string `json:"type"`
	// Content is the semantic payload specific to Type (e.g. {"text": "..."})
	Content map[string]interface{} `json:"content,omitempty"`
	// Config holds presentation or behavioral parameters (layout, sizing,
	// nested provider settings such as config.cloudinary.cloudName)
	Config map[string]interface{} `json:"config,omitempty"`
	// Regions holds the named child lists of a container block, in the order
	// their markers first appeared in the source text. Empty for content
	// blocks. A slice (not a map) so that region order survives round-trips.
	Regions []Region `json:"regions,omitempty"`
	// Extra preserves unrecognized top-level body keys opaquely. They are
	// carried through serialization but are not part of the block contract.
	Extra map[string]interface{} `json:"extra,omitempty"`
}

// Region is a named, ordered slot for child blocks within a container.
type Region struct {
	// Name is the region identifier from its ---region:<name>--- marker
	Name string `json:"name"`
	// Blocks are the region's children in document order
	Blocks []*Block `json:"blocks"`
}

// IsContainer reports whether the block holds any child regions.
func (b *Block) IsContainer() bool {
	return len(b.Regions) > 0
}

// Region returns the named region and whether it exists.
func (b *Block) Region(name string) (*Region, bool) {
	for i := range b.Regions {
		if b.Regions[i].Name == name {
			return &b.Regions[i], true
		}
	}
	return nil, false
}

// RegionNames returns the region names in their recorded order.
func (b *Block) RegionNames() []string {
	names := make([]string, len(b.Regions))
	for i := range b.Regions {
		names[i] = b.Regions[i].Name
	}
	return names
}

// Walk visits the block and every descendant in document order (parent before
// children, regions in recorded order). Walking stops early if fn returns
// false.
func (b *Block) Walk(fn func(*Block) bool) bool {
	if !fn(b) {
		return false
	}
	for i := range b.Regions {
		for _, child := range b.Regions[i].Blocks {
			if !child.Walk(fn) {
				return false
			}
		}
	}
	return true
}

// Document is an ordered sequence of top-level blocks parsed from one source
// file. Insertion order is significant and preserved through round-trips.
type Document struct {
	// Path is the source file the document was parsed from, empty for
	// documents parsed from in-memory text
	Path string `json:"path,omitempty"`
	// Blocks are the top-level blocks in document order
	Blocks []*Block `json:"blocks"`
}

// Count returns the total number of blocks in the document, including every
// nested child.
func (d *Document) Count() int {
	n := 0
	for _, b := range d.Blocks {
		b.Walk(func(*Block) bool {
			n++
			return true
		})
	}
	return n
}
