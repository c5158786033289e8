package marq

// Parse builds an Input from a token stream. Parsing is recursive descent
// with one token of lookahead; the first structural mismatch aborts the
// whole invocation with a SyntaxError naming the valid alternatives at that
// position. No error recovery and no partial AST.
func Parse(tokens []Token) (*Input, error) {
	p := &parser{s: NewStream(tokens)}
	return p.parseInput()
}

type parser struct {
	s *Stream
}

// stmtAlternatives is what a statement may start with, reported verbatim
// when dispatch fails.
var stmtAlternatives = []string{"`if`", "`match`", "`for`", "`let`", "`+`", "identifier"}

func (p *parser) parseInput() (*Input, error) {
	in := &Input{}
	for p.s.Peek().isPunct("@") {
		cfg, err := p.parseConfig()
		if err != nil {
			return nil, err
		}
		in.Configs = append(in.Configs, cfg)
	}

	start := p.s.Peek().Pos
	var stmts []Stmt
	for p.s.Peek().Kind != EOF {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	in.Root = Block{Start: start, Stmts: stmts}
	return in, nil
}

func (p *parser) parseConfig() (Config, error) {
	at := p.s.Next() // `@`
	switch tok := p.s.Peek(); {
	case tok.isIdent("__debug_print"):
		p.s.Next()
		return DebugPrintConfig{At: at.Pos}, nil
	case tok.isIdent("macro_path"):
		p.s.Next()
		path, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		return MacroPathConfig{At: at.Pos, Path: path}, nil
	default:
		return nil, &SyntaxError{Position: tok.Pos, Expected: []string{"`__debug_print`", "`macro_path`"}}
	}
}

// parseStmt dispatches on a single lookahead token: the four statement
// keywords, `+` for text, or an identifier opening a node.
func (p *parser) parseStmt() (Stmt, error) {
	switch tok := p.s.Peek(); {
	case tok.isIdent("if"):
		return p.parseIf()
	case tok.isIdent("match"):
		return p.parseMatch()
	case tok.isIdent("for"):
		return p.parseFor()
	case tok.isIdent("let"):
		return p.parseLet()
	case tok.isPunct("+"):
		return p.parseText()
	case tok.Kind == Ident:
		return p.parseNode()
	default:
		return nil, &SyntaxError{Position: tok.Pos, Expected: stmtAlternatives}
	}
}

func (p *parser) parseIf() (Stmt, error) {
	ifTok := p.s.Next()
	cond, err := p.captureRaw("expression", "{")
	if err != nil {
		return nil, err
	}
	then, err := p.parseBracedBlock()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{If: ifTok.Pos, Cond: cond, Then: then}
	if p.s.Peek().isIdent("else") {
		p.s.Next()
		elseBlock, err := p.parseBracedBlock()
		if err != nil {
			return nil, err
		}
		stmt.Else = &elseBlock
	}
	return stmt, nil
}

func (p *parser) parseMatch() (Stmt, error) {
	matchTok := p.s.Next()
	scrutinee, err := p.captureRaw("expression", "{")
	if err != nil {
		return nil, err
	}
	brace, err := p.expectPunct("{")
	if err != nil {
		return nil, err
	}
	var arms []Arm
	for !p.s.Peek().isPunct("}") && p.s.Peek().Kind != EOF {
		arm, err := p.parseArm()
		if err != nil {
			return nil, err
		}
		arms = append(arms, arm)
	}
	if _, err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return &MatchStmt{Match: matchTok.Pos, Scrutinee: scrutinee, Brace: brace.Pos, Arms: arms}, nil
}

func (p *parser) parseArm() (Arm, error) {
	pat, err := p.captureRaw("pattern", "if", "=>")
	if err != nil {
		return Arm{}, err
	}
	arm := Arm{Pat: pat}
	if p.s.Peek().isIdent("if") {
		p.s.Next()
		guard, err := p.captureRaw("expression", "=>")
		if err != nil {
			return Arm{}, err
		}
		arm.Guard = &guard
	}
	if _, err := p.expectPunct("=>"); err != nil {
		return Arm{}, err
	}
	arm.Body, err = p.parseBracedBlock()
	if err != nil {
		return Arm{}, err
	}
	return arm, nil
}

func (p *parser) parseFor() (Stmt, error) {
	forTok := p.s.Next()
	pat, err := p.captureRaw("pattern", "in")
	if err != nil {
		return nil, err
	}
	inTok := p.s.Next() // `in`, the capture's stop token
	iter, err := p.captureRaw("expression", "{")
	if err != nil {
		return nil, err
	}
	body, err := p.parseBracedBlock()
	if err != nil {
		return nil, err
	}
	return &ForStmt{For: forTok.Pos, Pat: pat, In: inTok.Pos, Iter: iter, Body: body}, nil
}

func (p *parser) parseLet() (Stmt, error) {
	letTok := p.s.Next()
	pat, err := p.captureRaw("pattern", "=")
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct("="); err != nil {
		return nil, err
	}
	value, err := p.captureRaw("expression", ";")
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return &LetStmt{Let: letTok.Pos, Pat: pat, Value: value}, nil
}

func (p *parser) parseText() (Stmt, error) {
	plus := p.s.Next()
	value, err := p.captureRaw("expression", ";")
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return &TextStmt{Plus: plus.Pos, Value: value}, nil
}

func (p *parser) parseNode() (Stmt, error) {
	path, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	args, err := p.parseNodeArgs()
	if err != nil {
		return nil, err
	}
	body, err := p.parseNodeBody()
	if err != nil {
		return nil, err
	}
	return &NodeStmt{Element: path, Args: args, Body: body}, nil
}

// parsePath reads a namespace-qualified identifier chain with optional
// generics per segment. It deliberately never consumes a `(` group: node
// arguments own the parentheses, so call syntax cannot blur into the
// element reference.
func (p *parser) parsePath() (Path, error) {
	path := Path{Start: p.s.Peek().Pos}
	if p.s.Peek().isPunct("::") {
		p.s.Next()
		path.Leading = true
	}
	for {
		name := p.s.Peek()
		if name.Kind != Ident {
			return Path{}, &SyntaxError{Position: name.Pos, Expected: []string{"identifier"}}
		}
		p.s.Next()
		seg := PathSegment{Name: name}
		if p.s.Peek().isPunct("<") {
			generics, err := p.captureGenerics()
			if err != nil {
				return Path{}, err
			}
			seg.Generics = generics
		}
		path.Segments = append(path.Segments, seg)
		if !p.s.Peek().isPunct("::") {
			return path, nil
		}
		p.s.Next()
	}
}

// captureGenerics consumes a balanced angle-bracket group, brackets
// included.
func (p *parser) captureGenerics() ([]Token, error) {
	var out []Token
	depth := 0
	for {
		tok := p.s.Peek()
		if tok.Kind == EOF {
			return nil, &SyntaxError{Position: tok.Pos, Expected: []string{"`>`"}}
		}
		switch {
		case tok.isPunct("<"):
			depth++
		case tok.isPunct(">"):
			depth--
		}
		out = append(out, p.s.Next())
		if depth == 0 {
			return out, nil
		}
	}
}

func (p *parser) parseNodeArgs() (NodeArgs, error) {
	switch tok := p.s.Peek(); {
	case tok.isPunct("="):
		eq := p.s.Next()
		value, err := p.captureRaw("expression", ";", "{")
		if err != nil {
			return nil, err
		}
		return SpreadArgs{Eq: eq.Pos, Value: value}, nil
	case tok.isPunct("("):
		return p.parseNamedArgs()
	case tok.isPunct("{") || tok.isPunct(";"):
		return NoArgs{}, nil
	default:
		return nil, &SyntaxError{Position: tok.Pos, Expected: []string{"`=`", "`(`", "`{`", "`;`"}}
	}
}

func (p *parser) parseNamedArgs() (NodeArgs, error) {
	paren := p.s.Next() // `(`
	args := NamedArgs{Paren: paren.Pos}
	for !p.s.Peek().isPunct(")") {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		args.Args = append(args.Args, arg)
		switch tok := p.s.Peek(); {
		case tok.isPunct(","):
			p.s.Next() // trailing comma allowed
		case tok.isPunct(")"):
		default:
			return nil, &SyntaxError{Position: tok.Pos, Expected: []string{"`,`", "`)`"}}
		}
	}
	p.s.Next() // `)`
	return args, nil
}

// parseArg reads one argument: identifier segments joined by literal
// hyphens, optionally followed by `= value`. A valueless argument is
// shorthand for `name = name`.
func (p *parser) parseArg() (Arg, error) {
	var arg Arg
	for {
		name := p.s.Peek()
		if name.Kind != Ident {
			return Arg{}, &SyntaxError{Position: name.Pos, Expected: []string{"identifier"}}
		}
		arg.Name = append(arg.Name, p.s.Next())
		if !p.s.Peek().isPunct("-") {
			break
		}
		p.s.Next()
	}
	if p.s.Peek().isPunct("=") {
		p.s.Next()
		value, err := p.captureRaw("expression", ",", ")")
		if err != nil {
			return Arg{}, err
		}
		arg.Value = &value
	}
	return arg, nil
}

func (p *parser) parseNodeBody() (NodeBody, error) {
	switch tok := p.s.Peek(); {
	case tok.isPunct(";"):
		p.s.Next()
		return SelfClosing{Semi: tok.Pos}, nil
	case tok.isPunct("{"):
		block, err := p.parseBracedBlock()
		if err != nil {
			return nil, err
		}
		return Children{Block: block}, nil
	default:
		return nil, &SyntaxError{Position: tok.Pos, Expected: []string{"`;`", "`{`"}}
	}
}

func (p *parser) parseBracedBlock() (Block, error) {
	brace, err := p.expectPunct("{")
	if err != nil {
		return Block{}, err
	}
	block := Block{Start: brace.Pos}
	for !p.s.Peek().isPunct("}") && p.s.Peek().Kind != EOF {
		stmt, err := p.parseStmt()
		if err != nil {
			return Block{}, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	if _, err := p.expectPunct("}"); err != nil {
		return Block{}, err
	}
	return block, nil
}

// captureRaw collects an opaque expression or pattern: raw tokens up to,
// but not including, the first stop token at bracket depth zero. Parens,
// square brackets, and braces nest; a `{` listed as a stop makes this the
// no-eager-brace mode used for if/for/match heads, where the block's
// opening brace must stay unconsumed.
func (p *parser) captureRaw(what string, stops ...string) (Expr, error) {
	start := p.s.Peek().Pos
	var tokens []Token
	depth := 0
	for {
		tok := p.s.Peek()
		if depth == 0 && matchesStop(tok, stops) {
			break
		}
		switch {
		case tok.Kind == EOF:
			return Expr{}, &SyntaxError{Position: tok.Pos, Expected: quoteStops(stops)}
		case tok.isPunct("(") || tok.isPunct("[") || tok.isPunct("{"):
			depth++
		case tok.isPunct(")") || tok.isPunct("]") || tok.isPunct("}"):
			if depth == 0 {
				return Expr{}, &SyntaxError{Position: tok.Pos, Expected: quoteStops(stops)}
			}
			depth--
		}
		tokens = append(tokens, p.s.Next())
	}
	if len(tokens) == 0 {
		return Expr{}, &SyntaxError{Position: start, Expected: []string{what}}
	}
	return Expr{Start: start, Tokens: tokens}, nil
}

func matchesStop(tok Token, stops []string) bool {
	if tok.Kind != Ident && tok.Kind != Punct {
		return false
	}
	for _, stop := range stops {
		if tok.Text == stop {
			return true
		}
	}
	return false
}

func quoteStops(stops []string) []string {
	out := make([]string, len(stops))
	for i, stop := range stops {
		out[i] = "`" + stop + "`"
	}
	return out
}

func (p *parser) expectPunct(text string) (Token, error) {
	tok := p.s.Peek()
	if !tok.isPunct(text) {
		return Token{}, &SyntaxError{Position: tok.Pos, Expected: []string{"`" + text + "`"}}
	}
	return p.s.Next(), nil
}
