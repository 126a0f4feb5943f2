package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexUnclosedString Code = 1001

	// Block structure
	BlkUnexpectedEnd      Code = 2001
	BlkUnclosedBlock      Code = 2002
	BlkLoopControlOutside Code = 2003
	BlkUnreachableCode    Code = 2004

	// Line rules
	RuleInvalidLoopStep  Code = 3001
	RuleInvalidPause     Code = 3002
	RuleUnknownType      Code = 3003
	RuleHostFunctionCall Code = 3004

	// Semantic
	SemaUndefinedVariable Code = 4001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		LexUnclosedString:     "Unclosed string literal",
		BlkUnexpectedEnd:      "Unexpected end",
		BlkUnclosedBlock:      "Unclosed block",
		BlkLoopControlOutside: "Loop control statement outside of loop",
		BlkUnreachableCode:    "Unreachable code",
		RuleInvalidLoopStep:   "Invalid loop step",
		RuleInvalidPause:      "Invalid pause duration",
		RuleUnknownType:       "Unknown type annotation",
		RuleHostFunctionCall:  "Host function call",
		SemaUndefinedVariable: "Undefined variable",
	}
)

// ID returns the stable wire form of the code, e.g. SCR2001.
func (c Code) ID() string {
	if c == UnknownCode {
		return "SCR0000"
	}
	return fmt.Sprintf("SCR%04d", int(c))
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
