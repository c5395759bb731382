// Copyright © 2026 The apexls authors

package repl

import (
	"context"
	"strings"
)

// completer implements readline.AutoCompleter with the completion engine.
type completer struct {
	ctx context.Context
	s   *session
}

// Do returns the suffixes completing the identifier before pos and the
// length of the typed prefix.
func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	input := string(line[:pos])
	if strings.HasPrefix(input, ":") {
		rest, ok := strings.CutPrefix(input, ":hover ")
		if !ok {
			return nil, 0
		}
		input = rest
	}
	res, err := c.s.complete(c.ctx, input)
	if err != nil || len(res.Items) == 0 {
		return nil, 0
	}
	prefix := res.Context.Prefix
	out := make([][]rune, 0, len(res.Items))
	for _, cand := range res.Items {
		name := cand.Name()
		if len(name) < len(prefix) {
			continue
		}
		out = append(out, []rune(name[len(prefix):]))
	}
	return out, len([]rune(prefix))
}
