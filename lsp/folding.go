// Copyright © 2026 The apexls authors

package lsp

import (
	"strings"

	"github.com/luthersystems/apexls/analysis"
	"github.com/luthersystems/apexls/astutil"
	"github.com/luthersystems/apexls/syntax"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// foldableKinds are the brace-delimited bodies offered for folding.
var foldableKinds = map[string]bool{
	syntax.KindClassBody:       true,
	syntax.KindInterfaceBody:   true,
	syntax.KindEnumBody:        true,
	syntax.KindConstructorBody: true,
	syntax.KindBlock:           true,
	syntax.KindSwitchBlock:     true,
}

// textDocumentFoldingRange handles the textDocument/foldingRange request.
// It returns folding ranges for multi-line bodies and consecutive line
// comments.
func (s *Server) textDocumentFoldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	doc.mu.Lock()
	root := doc.root
	content := doc.Content
	doc.mu.Unlock()

	ranges := bodyFoldingRanges(content, root)
	ranges = append(ranges, commentFoldingRanges(content)...)
	return ranges, nil
}

// bodyFoldingRanges emits a folding range for each foldable body that
// spans more than one line. The closing brace line stays visible.
func bodyFoldingRanges(content string, root *syntax.Node) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange
	astutil.Walk(root, func(n, _ *syntax.Node, _ int) bool {
		if !foldableKinds[n.Kind] {
			return true
		}
		startLine, _ := analysis.PositionAt(content, n.Start)
		endLine, _ := analysis.PositionAt(content, n.End)
		if endLine-1 > startLine {
			kind := string(protocol.FoldingRangeKindRegion)
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: safeUint(startLine),
				EndLine:   safeUint(endLine - 1),
				Kind:      &kind,
			})
		}
		return true
	})
	return ranges
}

// commentFoldingRanges detects consecutive lines starting with "//" and
// produces a folding range for each block of 2+ lines.
func commentFoldingRanges(content string) []protocol.FoldingRange {
	lines := strings.Split(content, "\n")
	var ranges []protocol.FoldingRange

	emit := func(start, end int) {
		if end > start {
			kind := string(protocol.FoldingRangeKindComment)
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: safeUint(start),
				EndLine:   safeUint(end),
				Kind:      &kind,
			})
		}
	}
	blockStart := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			if blockStart < 0 {
				blockStart = i
			}
			continue
		}
		if blockStart >= 0 {
			emit(blockStart, i-1)
		}
		blockStart = -1
	}
	if blockStart >= 0 {
		emit(blockStart, len(lines)-1)
	}
	return ranges
}
