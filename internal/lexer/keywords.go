package lexer

// Keywords lists the reserved words of the scripted language in a stable order.
var Keywords = []string{
	"var", "if", "then", "elseif", "else", "end",
	"while", "do", "for", "foreach", "in", "to", "by",
	"switch", "case", "default", "break", "continue",
	"return", "fail", "true", "false", "null", "and", "or", "not",
}

// TypeKeywords lists the accepted type annotations.
var TypeKeywords = []string{"number", "string", "boolean", "object", "array"}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool {
	switch s {
	case "var", "if", "then", "elseif", "else", "end",
		"while", "do", "for", "foreach", "in", "to", "by",
		"switch", "case", "default", "break", "continue",
		"return", "fail", "true", "false", "null", "and", "or", "not":
		return true
	}
	return false
}

// IsTypeKeyword reports whether s is one of the annotation types.
func IsTypeKeyword(s string) bool {
	switch s {
	case "number", "string", "boolean", "object", "array":
		return true
	}
	return false
}

// BlockKind identifies a construct that opens a block closed by `end`.
type BlockKind uint8

const (
	BlockNone BlockKind = iota
	BlockIf
	BlockWhile
	BlockFor
	BlockForeach
	BlockSwitch
)

func (k BlockKind) String() string {
	switch k {
	case BlockIf:
		return "if"
	case BlockWhile:
		return "while"
	case BlockFor:
		return "for"
	case BlockForeach:
		return "foreach"
	case BlockSwitch:
		return "switch"
	}
	return "none"
}

// IsLoop reports whether k is a looping construct.
func (k BlockKind) IsLoop() bool {
	return k == BlockWhile || k == BlockFor || k == BlockForeach
}

// BlockOpeners enumerates every block-opening construct.
var BlockOpeners = []BlockKind{BlockIf, BlockWhile, BlockFor, BlockForeach, BlockSwitch}

// IsBlockBoundary reports whether a line starting with s sits on a block
// boundary (it closes or continues a block).
func IsBlockBoundary(s string) bool {
	switch s {
	case "end", "else", "elseif", "case", "default":
		return true
	}
	return false
}

// IsTerminator reports whether s starts an unconditional terminating statement.
func IsTerminator(s string) bool {
	return s == "return" || s == "fail"
}

// FindBlockOpener returns the leftmost block-opening keyword of masked at or
// after column from, and its column. It returns BlockNone, -1 when there is none.
func FindBlockOpener(masked string, from int) (BlockKind, int) {
	best, bestCol := BlockNone, -1
	for _, kind := range BlockOpeners {
		col := IndexWord(masked, kind.String(), from)
		if col < 0 {
			continue
		}
		if bestCol < 0 || col < bestCol {
			best, bestCol = kind, col
		}
	}
	return best, bestCol
}
