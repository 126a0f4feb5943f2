package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"kr.dev/diff"

	"scriptls/internal/lexer"
)

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func TestFormat_ReindentsBlocks(t *testing.T) {
	in := lines(
		"var total = 0",
		"foreach o in orders do",
		"if o.amount > 0 then",
		"      total = total + o.amount",
		"  elseif o.amount < 0 then",
		"Log(o)",
		"else",
		"continue",
		"end",
		"end   ",
		"",
		"   # done",
	)
	want := lines(
		"var total = 0",
		"foreach o in orders do",
		"    if o.amount > 0 then",
		"        total = total + o.amount",
		"    elseif o.amount < 0 then",
		"        Log(o)",
		"    else",
		"        continue",
		"    end",
		"end",
		"",
		"# done",
	)
	diff.Test(t, t.Errorf, string(Format(in, Options{})), want)
}

func TestFormat_SwitchArms(t *testing.T) {
	in := lines(
		"switch kind",
		"case 1 then",
		"Log(1)",
		"case 2 then",
		"if x then Log(2) end",
		"default",
		"Log(0)",
		"end",
	)
	want := lines(
		"switch kind",
		"  case 1 then",
		"    Log(1)",
		"  case 2 then",
		"    if x then Log(2) end",
		"  default",
		"    Log(0)",
		"end",
	)
	diff.Test(t, t.Errorf, string(Format(in, Options{IndentWidth: 2})), want)
}

func TestFormat_Idempotent(t *testing.T) {
	in := "while a do\r\n\tif b then\r\n  Push(xs ,1,  2)\r\nend\r\n end\r\nend"
	once := Format(in, Options{UseTabs: true})
	twice := Format(string(once), Options{UseTabs: true})
	assert.Equal(t, string(once), string(twice))
	assert.Equal(t, "while a do\n\tif b then\n\t\tPush(xs, 1, 2)\n\tend\nend\nend\n", string(once))
	assert.False(t, Changed(string(once), Options{UseTabs: true}))
	assert.True(t, Changed(in, Options{UseTabs: true}))
}

func TestFormat_KeywordsInStringsDoNotIndent(t *testing.T) {
	in := lines(`var s = "if while"`, `Log(s)`)
	assert.Equal(t, in, string(Format(in, Options{})))
}

func TestFormat_Empty(t *testing.T) {
	assert.Empty(t, Format("", Options{}))
	assert.Empty(t, Format("  \n\n", Options{}))
}

func TestFormat_SingleTrailingNewline(t *testing.T) {
	cases := map[string]string{
		"if x then\ny = 1\nend": "if x then\n    y = 1\nend\n",
		"a = 1\n\n\n":           "a = 1\n",
		"a = 1\n  \n\t\n":       "a = 1\n",
		"a = 1\n\nb = 2\n":      "a = 1\n\nb = 2\n",
	}
	for in, want := range cases {
		got := string(Format(in, Options{}))
		assert.Equal(t, want, got, "input %q", in)
		assert.False(t, Changed(got, Options{}), "output of %q must be stable", in)
	}
}

func TestNormalizeCommas(t *testing.T) {
	cases := map[string]string{
		`f(a ,b,  c)`:           `f(a, b, c)`,
		`f("x , y",1)`:          `f("x , y", 1)`,
		`var xs = [1,2,]`:       `var xs = [1, 2,]`,
		`f(a,b)   # keep , here`: `f(a, b) # keep , here`,
		`no commas   # a,b`:     `no commas   # a,b`,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeCommas(lexer.ScanLine(in)), "input %q", in)
	}
}
