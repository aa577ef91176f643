// Package scanner tokenizes block document text into an ordered stream of
// fence and region-marker tokens.
//
// The scanner is a flat, line-oriented tokenizer: container nesting is not
// expressed by textual nesting but by sequential ContainerOpen ... End token
// pairs, which the builder resolves with a stack. Prose outside fences is not
// part of the block format and is skipped.
package scanner

import (
	"strings"
)

// TokenKind identifies the lexical role of a token.
type TokenKind int

const (
	// TokenContentOpen is a ```block:content fence; Body carries the raw
	// text up to the closing fence
	TokenContentOpen TokenKind = iota
	// TokenContainerOpen is a ```block:container fence; Body carries the raw
	// text up to the closing fence
	TokenContainerOpen
	// TokenEnd is a ```block:end fence closing the innermost open container
	TokenEnd
	// TokenRegionMarker is a bare ---region:<name>--- line; Region carries
	// the name
	TokenRegionMarker
)

// String returns the string representation of the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenContentOpen:
		return "content-open"
	case TokenContainerOpen:
		return "container-open"
	case TokenEnd:
		return "end"
	case TokenRegionMarker:
		return "region-marker"
	default:
		return "unknown"
	}
}

// Token is one lexical element of a block document.
type Token struct {
	Kind TokenKind
	// Body is the undecoded fence payload for open tokens, empty otherwise
	Body string
	// Region is the marker name for region-marker tokens, empty otherwise
	Region string
	// Line is the 1-based line number of the fence opener or marker
	Line int
}

const (
	fenceDelimiter = "```"

	infoContent   = "block:content"
	infoContainer = "block:container"
	infoEnd       = "block:end"

	regionPrefix = "---region:"
	regionSuffix = "---"
)

// Scan splits raw text into its ordered token stream. Text with no fences,
// including empty text, yields an empty stream. Scan never fails: an
// unterminated fence simply consumes the rest of the input as its body, and
// the structural error surfaces later when the builder finds the container
// unclosed.
func Scan(text string) []Token {
	var tokens []Token

	lines := splitLines(text)
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if name, ok := regionName(line); ok {
			tokens = append(tokens, Token{
				Kind:   TokenRegionMarker,
				Region: name,
				Line:   i + 1,
			})
			continue
		}

		info, ok := fenceInfo(line)
		if !ok {
			continue
		}

		openLine := i + 1
		var body []string
		for i++; i < len(lines); i++ {
			if strings.TrimRight(lines[i], " \t") == fenceDelimiter {
				break
			}
			body = append(body, lines[i])
		}

		switch info {
		case infoContent:
			tokens = append(tokens, Token{
				Kind: TokenContentOpen,
				Body: strings.Join(body, "\n"),
				Line: openLine,
			})
		case infoContainer:
			tokens = append(tokens, Token{
				Kind: TokenContainerOpen,
				Body: strings.Join(body, "\n"),
				Line: openLine,
			})
		case infoEnd:
			tokens = append(tokens, Token{
				Kind: TokenEnd,
				Line: openLine,
			})
		}
	}

	return tokens
}

// fenceInfo extracts a block fence info string from a line, if the line opens
// one of the recognized block fences.
func fenceInfo(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, fenceDelimiter) {
		return "", false
	}
	info := strings.TrimSpace(strings.TrimPrefix(trimmed, fenceDelimiter))
	switch info {
	case infoContent, infoContainer, infoEnd:
		return info, true
	}
	return "", false
}

// regionName extracts the name from a ---region:<name>--- marker line. The
// marker must be the only content on the line.
func regionName(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, regionPrefix) || !strings.HasSuffix(trimmed, regionSuffix) {
		return "", false
	}
	name := trimmed[len(regionPrefix) : len(trimmed)-len(regionSuffix)]
	if name == "" || strings.ContainsAny(name, " \t") {
		return "", false
	}
	return name, true
}

// splitLines splits text on newlines, tolerating CRLF endings. Empty text
// yields no lines.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
