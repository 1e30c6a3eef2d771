package diagrams

import (
	"bytes"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const fence = "```"

// Block is one fenced diagram found in a file. Start and End are byte offsets
// into the scanned source; End points just past the closing fence.
type Block struct {
	Start int
	End   int
	Code  string
}

// Scan finds fenced blocks opened by a line "```<language>" and closed by a
// line "```". Unterminated fences are ignored.
func Scan(source []byte, language string) []Block {
	open := fence + strings.TrimSpace(language)

	var (
		blocks    []Block
		inBlock   bool
		start     int
		codeStart int
	)
	for pos := 0; pos < len(source); {
		lineEnd := len(source)
		next := len(source)
		if idx := bytes.IndexByte(source[pos:], '\n'); idx >= 0 {
			lineEnd = pos + idx
			next = lineEnd + 1
		}
		line := strings.TrimRight(string(source[pos:lineEnd]), " \t\r")

		switch {
		case !inBlock && strings.EqualFold(line, open):
			inBlock = true
			start = pos
			codeStart = next
		case inBlock && line == fence:
			blocks = append(blocks, Block{
				Start: start,
				End:   pos + len(fence),
				Code:  strings.TrimSpace(string(source[codeStart:pos])),
			})
			inBlock = false
		}
		pos = next
	}
	return blocks
}

// ScanBody scans only the body of a content file, leaving front matter out.
// Offsets are relative to source.
func ScanBody(source []byte, bodyOffset int, language string) []Block {
	if bodyOffset < 0 || bodyOffset > len(source) {
		bodyOffset = 0
	}
	blocks := Scan(source[bodyOffset:], language)
	for i := range blocks {
		blocks[i].Start += bodyOffset
		blocks[i].End += bodyOffset
	}
	return blocks
}

// DiagramID is the artifact stem for the n-th diagram of slug.
func DiagramID(slug string, n int) string {
	return fmt.Sprintf("%s-diagram-%d", slug, n)
}

// NextIndex returns one past the largest diagram index source already
// references for slug, so fresh diagrams never overwrite earlier artifacts.
func NextIndex(source []byte, slug string) int {
	pattern := regexp.MustCompile(`(?:^|[/"'\s])` + regexp.QuoteMeta(slug) + `-diagram-(\d+)-(?:light|dark)\.svg`)
	next := 0
	for _, match := range pattern.FindAllSubmatch(source, -1) {
		n, err := strconv.Atoi(string(match[1]))
		if err != nil {
			continue
		}
		next = max(next, n+1)
	}
	return next
}

// Snippet is the markup that replaces a rendered block. Theme selection is
// left to the page's CSS.
func Snippet(publicPath, id string) string {
	base := strings.TrimRight(publicPath, "/")
	if base == "" {
		base = "/diagrams"
	}
	return fmt.Sprintf(`<div class="mermaid-diagram">
  <img src="%[1]s/%[2]s-light.svg" alt="Diagram" class="block dark:hidden w-full" />
  <img src="%[1]s/%[2]s-dark.svg" alt="Diagram" class="hidden dark:block w-full" />
</div>`, base, id)
}

// Replacement swaps the bytes of Block for Text.
type Replacement struct {
	Block Block
	Text  string
}

// Rewrite applies replacements by position, last block first, so earlier
// offsets stay valid. Blocks with identical content are never confused.
func Rewrite(source []byte, replacements []Replacement) []byte {
	if len(replacements) == 0 {
		return source
	}
	ordered := slices.Clone(replacements)
	slices.SortFunc(ordered, func(a, b Replacement) int {
		return b.Block.Start - a.Block.Start
	})

	out := slices.Clone(source)
	for _, r := range ordered {
		if r.Block.Start < 0 || r.Block.End > len(out) || r.Block.Start > r.Block.End {
			continue
		}
		out = slices.Concat(out[:r.Block.Start], []byte(r.Text), out[r.Block.End:])
	}
	return out
}
