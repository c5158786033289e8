package marq

import "fmt"

// Compile resolves in's leading directives over the default settings and
// lowers the root block into the output token stream.
func Compile(in *Input) ([]Token, error) {
	return DefaultSettings().Apply(in.Configs).Compile(in.Root)
}

// Compile lowers root into the output stream: the root block's leading lets
// re-emitted as plain statements, followed by one invocation of the resolved
// entry point wrapping the compiled fragment tree. When the debug-print
// setting is on, the rendered output is also printed.
func (s Settings) Compile(root Block) ([]Token, error) {
	e := &emitter{entry: s.Entry.pathTokens()}
	out, err := e.block(root)
	if err != nil {
		return nil, err
	}
	if s.DebugPrint {
		fmt.Println(Render(out))
	}
	return out, nil
}

type emitter struct {
	entry []Token
}

func identAt(text string, pos Pos) Token { return Token{Kind: Ident, Text: text, Pos: pos} }
func punctAt(text string, pos Pos) Token { return Token{Kind: Punct, Text: text, Pos: pos} }

// entryAt re-emits the entry-point path stamped with the position of the
// construct invoking it.
func (e *emitter) entryAt(pos Pos) []Token {
	out := make([]Token, len(e.entry))
	for i, t := range e.entry {
		t.Pos = pos
		out[i] = t
	}
	return out
}

// block lowers one block: the leading contiguous run of lets re-emitted
// unchanged so later children can reference the bindings, then one
// fragment-constructor call over the remaining statements in source order.
func (e *emitter) block(b Block) ([]Token, error) {
	var out []Token
	rest := b.Stmts
	for len(rest) > 0 {
		let, ok := rest[0].(*LetStmt)
		if !ok {
			break
		}
		out = append(out, identAt("let", let.Let))
		out = append(out, let.Pat.Tokens...)
		out = append(out, punctAt("=", let.Value.Start))
		out = append(out, let.Value.Tokens...)
		out = append(out, punctAt(";", let.Let))
		rest = rest[1:]
	}

	out = append(out, e.entryAt(b.Start)...)
	out = append(out, punctAt("(", b.Start))
	for i, stmt := range rest {
		child, err := e.stmt(stmt)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			out = append(out, punctAt(",", stmt.Pos()))
		}
		out = append(out, child...)
	}
	return append(out, punctAt(")", b.Start)), nil
}

// bracedBlock wraps a lowered block in braces so its locals plus
// constructor form one block expression inside another construct.
func (e *emitter) bracedBlock(b Block) ([]Token, error) {
	inner, err := e.block(b)
	if err != nil {
		return nil, err
	}
	out := append([]Token{punctAt("{", b.Start)}, inner...)
	return append(out, punctAt("}", b.Start)), nil
}

// stmt lowers one non-leading statement to a child-fragment expression.
// A let reaching this point sits after non-let content, which is the one
// error the emitter can raise; everything else is total because the AST is
// already grammar-valid.
func (e *emitter) stmt(stmt Stmt) ([]Token, error) {
	switch s := stmt.(type) {
	case *IfStmt:
		return e.ifStmt(s)
	case *MatchStmt:
		return e.matchStmt(s)
	case *ForStmt:
		return e.forStmt(s)
	case *LetStmt:
		return nil, &OrderingViolation{Position: s.Let}
	case *TextStmt:
		out := append([]Token{punctAt("{", s.Plus)}, s.Value.Tokens...)
		return append(out, punctAt("}", s.Plus)), nil
	case *NodeStmt:
		return e.nodeStmt(s)
	default:
		return nil, fmt.Errorf("unknown statement type: %T", stmt)
	}
}

func (e *emitter) ifStmt(s *IfStmt) ([]Token, error) {
	then, err := e.bracedBlock(s.Then)
	if err != nil {
		return nil, err
	}
	out := []Token{punctAt("{", s.If), identAt("if", s.If)}
	out = append(out, s.Cond.Tokens...)
	out = append(out, then...)
	if s.Else != nil {
		elseBody, err := e.bracedBlock(*s.Else)
		if err != nil {
			return nil, err
		}
		out = append(out, identAt("else", s.Else.Start))
		out = append(out, elseBody...)
	} else {
		// The implicit else branch is an explicit empty-fragment call so
		// both branches yield a fragment regardless of host type inference.
		out = append(out, identAt("else", s.If), punctAt("{", s.If))
		out = append(out, e.entryAt(s.If)...)
		out = append(out, punctAt("(", s.If), punctAt(")", s.If), punctAt("}", s.If))
	}
	return append(out, punctAt("}", s.If)), nil
}

// matchStmt passes scrutinee, patterns, and guards through unmodified and
// lowers each arm body to a fragment. Arm order and guard order stay exactly
// as written, so first-match-wins semantics carry over unchanged.
func (e *emitter) matchStmt(s *MatchStmt) ([]Token, error) {
	out := []Token{punctAt("{", s.Match), identAt("match", s.Match)}
	out = append(out, s.Scrutinee.Tokens...)
	out = append(out, punctAt("{", s.Brace))
	for _, arm := range s.Arms {
		out = append(out, arm.Pat.Tokens...)
		if arm.Guard != nil {
			out = append(out, identAt("if", arm.Guard.Start))
			out = append(out, arm.Guard.Tokens...)
		}
		out = append(out, punctAt("=>", arm.Body.Start))
		body, err := e.bracedBlock(arm.Body)
		if err != nil {
			return nil, err
		}
		out = append(out, body...)
	}
	return append(out, punctAt("}", s.Brace), punctAt("}", s.Match)), nil
}

// forStmt converts the iterable to an external iterator and lowers the body
// into a mapping closure: a lazy per-iteration fragment sequence the
// enclosing fragment constructor consumes at its own pace. Nothing is
// materialized eagerly.
func (e *emitter) forStmt(s *ForStmt) ([]Token, error) {
	body, err := e.bracedBlock(s.Body)
	if err != nil {
		return nil, err
	}
	out := []Token{punctAt("{", s.For), identAt("iter", s.In), punctAt("(", s.In)}
	out = append(out, s.Iter.Tokens...)
	out = append(out, punctAt(")", s.In), punctAt(".", s.In), identAt("map", s.In), punctAt("(", s.In))
	out = append(out, punctAt("|", s.In))
	out = append(out, s.Pat.Tokens...)
	out = append(out, punctAt("|", s.In))
	out = append(out, body...)
	return append(out, punctAt(")", s.In), punctAt("}", s.For)), nil
}

func (e *emitter) nodeStmt(s *NodeStmt) ([]Token, error) {
	path := s.Element.pathTokens()
	args := emitArgs(s.Args)
	switch b := s.Body.(type) {
	case SelfClosing:
		out := append([]Token{punctAt("<", b.Semi)}, path...)
		out = append(out, args...)
		return append(out, punctAt("/>", b.Semi)), nil
	case Children:
		inner, err := e.bracedBlock(b.Block)
		if err != nil {
			return nil, err
		}
		out := append([]Token{punctAt("<", b.Block.Start)}, path...)
		out = append(out, args...)
		out = append(out, punctAt(">", b.Block.Start))
		out = append(out, inner...)
		out = append(out, punctAt("</", b.Block.Start))
		out = append(out, path...)
		return append(out, punctAt(">", b.Block.Start)), nil
	default:
		return nil, fmt.Errorf("unknown node body type: %T", s.Body)
	}
}

// emitArgs lowers an argument set in source order. Named arguments become
// `name = { value }`, shorthand arguments reference the in-scope binding of
// the same name, and a spread becomes a single expand-remaining marker.
func emitArgs(args NodeArgs) []Token {
	switch a := args.(type) {
	case NamedArgs:
		var out []Token
		for _, arg := range a.Args {
			out = append(out, argName(arg)...)
			if arg.Value != nil {
				out = append(out, punctAt("=", arg.Value.Start), punctAt("{", arg.Value.Start))
				out = append(out, arg.Value.Tokens...)
				out = append(out, punctAt("}", arg.Value.Start))
			} else {
				out = append(out, punctAt("=", arg.Pos()), punctAt("{", arg.Pos()))
				out = append(out, argName(arg)...)
				out = append(out, punctAt("}", arg.Pos()))
			}
		}
		return out
	case SpreadArgs:
		return append([]Token{punctAt("..", a.Eq)}, a.Value.Tokens...)
	default:
		return nil
	}
}

// argName re-emits an argument name with its hyphens verbatim.
func argName(arg Arg) []Token {
	var out []Token
	for i, seg := range arg.Name {
		if i > 0 {
			out = append(out, punctAt("-", seg.Pos))
		}
		out = append(out, seg)
	}
	return out
}
