package marq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, source string) *Input {
	t.Helper()
	tokens, err := Lex(source)
	require.NoError(t, err)
	input, err := Parse(tokens)
	require.NoError(t, err)
	return input
}

func TestParseDirectives(t *testing.T) {
	input := mustParse(t, "@__debug_print @macro_path ui::frag h1;")

	require.Len(t, input.Configs, 2)
	_, ok := input.Configs[0].(DebugPrintConfig)
	assert.True(t, ok, "first directive should be debug print")
	mp, ok := input.Configs[1].(MacroPathConfig)
	require.True(t, ok, "second directive should be macro path")
	require.Len(t, mp.Path.Segments, 2)
	assert.Equal(t, "ui", mp.Path.Segments[0].Name.Text)
	assert.Equal(t, "frag", mp.Path.Segments[1].Name.Text)
	require.Len(t, input.Root.Stmts, 1)
}

func TestParseUnknownDirective(t *testing.T) {
	tokens, err := Lex("@bogus h1;")
	require.NoError(t, err)
	_, err = Parse(tokens)

	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, []string{"`__debug_print`", "`macro_path`"}, syntaxErr.Expected)
}

func TestParseStatementDispatch(t *testing.T) {
	input := mustParse(t, `
		if ready { done; }
		match v { _ => { x; } }
		for x in xs { + x; }
		+ "text";
		br;
	`)

	stmts := input.Root.Stmts
	require.Len(t, stmts, 5)
	assert.IsType(t, &IfStmt{}, stmts[0])
	assert.IsType(t, &MatchStmt{}, stmts[1])
	assert.IsType(t, &ForStmt{}, stmts[2])
	assert.IsType(t, &TextStmt{}, stmts[3])
	assert.IsType(t, &NodeStmt{}, stmts[4])
}

func TestParseStatementDispatchError(t *testing.T) {
	tokens, err := Lex("; h1;")
	require.NoError(t, err)
	_, err = Parse(tokens)

	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, Pos{Line: 1, Column: 1}, syntaxErr.Position)
	assert.Equal(t, stmtAlternatives, syntaxErr.Expected)
}

// The head expression of if/for/match must stop before the block's opening
// brace even when the expression contains braced groups at nested depth.
func TestParseHeadExpressionNoEagerBrace(t *testing.T) {
	input := mustParse(t, "if check(map{1: 2}) { done; }")

	stmt := input.Root.Stmts[0].(*IfStmt)
	require.Len(t, stmt.Cond.Tokens, 9)
	assert.Equal(t, "check", stmt.Cond.Tokens[0].Text)
	assert.Equal(t, ")", stmt.Cond.Tokens[len(stmt.Cond.Tokens)-1].Text)
}

func TestParseIfElse(t *testing.T) {
	input := mustParse(t, "if ok { a; } else { b; }")

	stmt := input.Root.Stmts[0].(*IfStmt)
	require.NotNil(t, stmt.Else)
	require.Len(t, stmt.Else.Stmts, 1)

	input = mustParse(t, "if ok { a; }")
	stmt = input.Root.Stmts[0].(*IfStmt)
	assert.Nil(t, stmt.Else)
}

func TestParseMatchArms(t *testing.T) {
	input := mustParse(t, `match label {
		First(i) if i > 3 => { h2 { + i; } }
		| Second(i) | Third(i) => { h3; }
	}`)

	stmt := input.Root.Stmts[0].(*MatchStmt)
	require.Len(t, stmt.Arms, 2)

	guarded := stmt.Arms[0]
	require.NotNil(t, guarded.Guard)
	assert.Equal(t, "i", guarded.Guard.Tokens[0].Text)
	require.Len(t, guarded.Body.Stmts, 1)

	alternation := stmt.Arms[1]
	assert.Nil(t, alternation.Guard)
	assert.Equal(t, "|", alternation.Pat.Tokens[0].Text, "leading bar is part of the pattern")
}

// Arm bodies are always blocks; a bare expression arm is a syntax error at
// the expression's position.
func TestParseMatchArmRequiresBlock(t *testing.T) {
	tokens, err := Lex("match v { _ => foo }")
	require.NoError(t, err)
	_, err = Parse(tokens)

	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, []string{"`{`"}, syntaxErr.Expected)
}

func TestParseForPattern(t *testing.T) {
	input := mustParse(t, "for (i, datum) in data.iter().enumerate() { + i; }")

	stmt := input.Root.Stmts[0].(*ForStmt)
	assert.Equal(t, "(", stmt.Pat.Tokens[0].Text)
	assert.Equal(t, "data", stmt.Iter.Tokens[0].Text)
}

func TestParseElementPath(t *testing.T) {
	input := mustParse(t, "ui::list<T>::item { br; }")

	stmt := input.Root.Stmts[0].(*NodeStmt)
	assert.False(t, stmt.Element.Leading)
	require.Len(t, stmt.Element.Segments, 3)
	assert.Equal(t, "list", stmt.Element.Segments[1].Name.Text)
	require.Len(t, stmt.Element.Segments[1].Generics, 3)
	assert.IsType(t, Children{}, stmt.Body)
}

// A leading `::` is only reachable where a bare path is parsed, never at
// statement position, where dispatch demands an identifier.
func TestParseLeadingPathSeparator(t *testing.T) {
	path, err := ParseEntry("::ui::frag")
	require.NoError(t, err)
	assert.True(t, path.Leading)
	require.Len(t, path.Segments, 2)

	input := mustParse(t, "@macro_path ::ui::frag br;")
	mp := input.Configs[0].(MacroPathConfig)
	assert.True(t, mp.Path.Leading)

	tokens, err := Lex("::ui::item { br; }")
	require.NoError(t, err)
	_, err = Parse(tokens)

	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, Pos{Line: 1, Column: 1}, syntaxErr.Position)
	assert.Equal(t, stmtAlternatives, syntaxErr.Expected)
}

// Parentheses after an element reference always belong to the argument
// list, never to the path itself.
func TestParsePathRefusesCallSyntax(t *testing.T) {
	input := mustParse(t, "item(width = w);")

	stmt := input.Root.Stmts[0].(*NodeStmt)
	require.Len(t, stmt.Element.Segments, 1)
	named, ok := stmt.Args.(NamedArgs)
	require.True(t, ok)
	require.Len(t, named.Args, 1)
}

func TestParseNodeArgs(t *testing.T) {
	t.Run("named with shorthand and hyphens", func(t *testing.T) {
		input := mustParse(t, `li(data-length = field.len(), active, class = "row") { + field; }`)

		stmt := input.Root.Stmts[0].(*NodeStmt)
		named := stmt.Args.(NamedArgs)
		require.Len(t, named.Args, 3)

		hyphenated := named.Args[0]
		require.Len(t, hyphenated.Name, 2)
		assert.Equal(t, "data", hyphenated.Name[0].Text)
		assert.Equal(t, "length", hyphenated.Name[1].Text)
		require.NotNil(t, hyphenated.Value)

		shorthand := named.Args[1]
		assert.Equal(t, "active", shorthand.Name[0].Text)
		assert.Nil(t, shorthand.Value)
	})

	t.Run("spread", func(t *testing.T) {
		input := mustParse(t, "img = props.clone();")

		stmt := input.Root.Stmts[0].(*NodeStmt)
		spread, ok := stmt.Args.(SpreadArgs)
		require.True(t, ok)
		assert.Equal(t, "props", spread.Value.Tokens[0].Text)
		assert.IsType(t, SelfClosing{}, stmt.Body)
	})

	t.Run("none", func(t *testing.T) {
		input := mustParse(t, "br;")

		stmt := input.Root.Stmts[0].(*NodeStmt)
		assert.IsType(t, NoArgs{}, stmt.Args)
	})

	t.Run("invalid opener", func(t *testing.T) {
		tokens, err := Lex("br ]")
		require.NoError(t, err)
		_, err = Parse(tokens)

		var syntaxErr *SyntaxError
		require.ErrorAs(t, err, &syntaxErr)
		assert.Equal(t, []string{"`=`", "`(`", "`{`", "`;`"}, syntaxErr.Expected)
	})
}

func TestParseLetStatement(t *testing.T) {
	input := mustParse(t, "let field = datum.field; + field;")

	require.Len(t, input.Root.Stmts, 2)
	let := input.Root.Stmts[0].(*LetStmt)
	assert.Equal(t, "field", let.Pat.Tokens[0].Text)
	assert.Equal(t, "datum", let.Value.Tokens[0].Text)
}

func TestParseErrorPositions(t *testing.T) {
	cases := []struct {
		name   string
		source string
		pos    Pos
	}{
		{"missing semicolon after text", "+ name", Pos{1, 7}},
		{"missing arm arrow", "match v { _ foo }", Pos{1, 17}},
		{"unclosed block", "div { + x;", Pos{1, 11}},
		{"empty condition", "if { x; }", Pos{1, 4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := Lex(tc.source)
			require.NoError(t, err)
			_, err = Parse(tokens)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tc.pos, syntaxErr.Position)
		})
	}
}

func TestParseEntry(t *testing.T) {
	path, err := ParseEntry("ui::markup::html")
	require.NoError(t, err)
	assert.Len(t, path.Segments, 3)

	_, err = ParseEntry("ui::html extra")
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)

	_, err = ParseEntry("")
	assert.Error(t, err)
}
