package marq

// Input is one whole parsed template invocation: leading translator
// directives followed by the root block. It is built once by the parser and
// consumed exactly once by the emitter.
type Input struct {
	Configs []Config
	Root    Block
}

// Config is a leading `@` directive configuring the translator itself.
type Config interface {
	config()
}

// DebugPrintConfig is the `@__debug_print` directive. It makes the
// translator print the rendered output stream after compilation.
type DebugPrintConfig struct {
	At Pos
}

// MacroPathConfig is the `@macro_path <path>` directive selecting the
// fragment-constructor entry point that wraps the compiled tree.
type MacroPathConfig struct {
	At   Pos
	Path Path
}

func (DebugPrintConfig) config() {}
func (MacroPathConfig) config()  {}

// Block is one brace-delimited nesting level: an ordered statement
// sequence. Start is the position of the opening construct (the brace, or
// the first token for the root block).
type Block struct {
	Start Pos
	Stmts []Stmt
}

// Stmt is a template statement. The concrete types are IfStmt, MatchStmt,
// ForStmt, LetStmt, TextStmt, and NodeStmt.
type Stmt interface {
	stmt()
	Pos() Pos
}

// Expr is an opaque captured expression or pattern: a raw token run with
// the position of its first token. The translator never interprets these,
// it only re-emits them.
type Expr struct {
	Start  Pos
	Tokens []Token
}

// IfStmt is `if cond { ... }` with an optional `else { ... }`.
type IfStmt struct {
	If   Pos
	Cond Expr
	Then Block
	Else *Block
}

// MatchStmt is `match scrutinee { arms... }`.
type MatchStmt struct {
	Match     Pos
	Scrutinee Expr
	Brace     Pos
	Arms      []Arm
}

// Arm is one match arm. The pattern may use leading-bar alternation; the
// body is always a braced block, never a bare expression.
type Arm struct {
	Pat   Expr
	Guard *Expr
	Body  Block
}

// ForStmt is `for pat in iterable { ... }`.
type ForStmt struct {
	For  Pos
	Pat  Expr
	In   Pos
	Iter Expr
	Body Block
}

// LetStmt is `let pat = expr ;`. Valid only in a block's leading
// contiguous run of lets.
type LetStmt struct {
	Let   Pos
	Pat   Expr
	Value Expr
}

// TextStmt is `+ expr ;`, a text child of the surrounding fragment.
type TextStmt struct {
	Plus  Pos
	Value Expr
}

// NodeStmt is an element: a path reference, optional arguments, and a body
// that is either self-closing or a child block.
type NodeStmt struct {
	Element Path
	Args    NodeArgs
	Body    NodeBody
}

func (*IfStmt) stmt()    {}
func (*MatchStmt) stmt() {}
func (*ForStmt) stmt()   {}
func (*LetStmt) stmt()   {}
func (*TextStmt) stmt()  {}
func (*NodeStmt) stmt()  {}

func (s *IfStmt) Pos() Pos    { return s.If }
func (s *MatchStmt) Pos() Pos { return s.Match }
func (s *ForStmt) Pos() Pos   { return s.For }
func (s *LetStmt) Pos() Pos   { return s.Let }
func (s *TextStmt) Pos() Pos  { return s.Plus }
func (s *NodeStmt) Pos() Pos  { return s.Element.Pos() }

// Path is a namespace-qualified identifier chain with optional
// angle-bracketed generics per segment, e.g. `ui::list<T>::item`. A path is
// never followed by a parenthesized call; parentheses after an element
// reference always belong to its arguments.
type Path struct {
	Start    Pos
	Leading  bool // leading `::`
	Segments []PathSegment
}

// PathSegment is one identifier in a Path, with its raw generics tokens
// (including the surrounding angle brackets) if any.
type PathSegment struct {
	Name     Token
	Generics []Token
}

func (p Path) Pos() Pos { return p.Start }

// pathTokens flattens the path back into the token run it was parsed from.
func (p Path) pathTokens() []Token {
	var out []Token
	if p.Leading {
		out = append(out, Token{Kind: Punct, Text: "::", Pos: p.Start})
	}
	for i, seg := range p.Segments {
		if i > 0 {
			out = append(out, Token{Kind: Punct, Text: "::", Pos: seg.Name.Pos})
		}
		out = append(out, seg.Name)
		out = append(out, seg.Generics...)
	}
	return out
}

// NodeArgs is a node's argument set: NoArgs, NamedArgs, or SpreadArgs.
type NodeArgs interface {
	nodeArgs()
}

// NoArgs marks a node written without an argument list.
type NoArgs struct{}

// NamedArgs is a parenthesized, ordered argument list.
type NamedArgs struct {
	Paren Pos
	Args  []Arg
}

// SpreadArgs is `= expr`: one expression supplying the entire argument set.
type SpreadArgs struct {
	Eq    Pos
	Value Expr
}

func (NoArgs) nodeArgs()     {}
func (NamedArgs) nodeArgs()  {}
func (SpreadArgs) nodeArgs() {}

// Arg is one named argument. Name holds the identifier segments joined by
// literal hyphens in source (`data-length` keeps its hyphen in the emitted
// attribute name). A nil Value is shorthand for an in-scope binding with the
// same name.
type Arg struct {
	Name  []Token
	Value *Expr
}

func (a Arg) Pos() Pos { return a.Name[0].Pos }

// NodeBody is SelfClosing (`;`) or Children (a braced block).
type NodeBody interface {
	nodeBody()
}

// SelfClosing is a node body terminated by `;`: a tagged element with no
// children.
type SelfClosing struct {
	Semi Pos
}

// Children is a braced child block.
type Children struct {
	Block Block
}

func (SelfClosing) nodeBody() {}
func (Children) nodeBody()    {}
