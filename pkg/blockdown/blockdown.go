// Package blockdown is the public surface of the SparkType block document
// engine. External collaborators (editing surfaces, autosave pipelines, site
// storage) consume the engine only through the operations here: parse text
// into a block tree, serialize a tree back to text, validate a tree, and
// derive stable fingerprints.
//
// All operations are pure, synchronous, and safe for concurrent use on
// independent inputs. Callers sharing a text buffer across goroutines must
// sequence their own edits; the engine holds no state between calls.
package blockdown

import (
	"github.com/sparktype/blockdown/internal/builder"
	"github.com/sparktype/blockdown/internal/errors"
	"github.com/sparktype/blockdown/internal/identity"
	"github.com/sparktype/blockdown/internal/scanner"
	"github.com/sparktype/blockdown/internal/serializer"
	"github.com/sparktype/blockdown/internal/types"
	"github.com/sparktype/blockdown/internal/validation"
)

// Block is the atomic unit of a block document. See the types package for
// field documentation.
type Block = types.Block

// Region is a named, ordered slot for child blocks within a container.
type Region = types.Region

// Document is an ordered sequence of top-level blocks from one source file.
type Document = types.Document

// Result is a structural validation report.
type Result = validation.Result

// ParseError is the typed failure returned by Parse.
type ParseError = errors.ParseError

// DefaultRegion is the implicit region name assigned to container children
// that appear before any explicit region marker.
const DefaultRegion = builder.DefaultRegion

// Parse converts block document text into its top-level block sequence.
// Empty or whitespace-only input yields an empty (nil) sequence. Malformed
// input fails wholesale with a *ParseError; no partial tree is returned.
func Parse(text string) ([]*Block, error) {
	return builder.Build(scanner.Scan(text))
}

// Serialize renders a block sequence as fenced block text, the inverse of
// Parse. An empty sequence serializes to "". Re-parsing the output yields a
// tree semantically equal to the input; textual formatting is not guaranteed
// byte-identical.
func Serialize(blocks []*Block) (string, error) {
	return serializer.Serialize(blocks)
}

// Validate walks the block sequence and reports every structural finding
// (missing id, missing type) in document order. It never fails.
func Validate(blocks []*Block) Result {
	return validation.ValidateBlocks(blocks)
}

// Fingerprint derives the deterministic stable id for a block's semantic
// payload. Identical (type, content, config) triples always produce the same
// fingerprint; regions and explicit ids do not participate.
func Fingerprint(blockType string, content, config map[string]interface{}) string {
	return identity.Fingerprint(blockType, content, config)
}
