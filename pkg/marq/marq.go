// Package marq translates a compact, HTML-like templating language into
// calls against a markup-builder API. The translation is compile-time only:
// the output is itself code, a token stream to be compiled or evaluated by
// whatever host embeds it. Nothing is executed or rendered here.
//
// The pipeline is two independent stages plus a thin front-end:
//
//   - [Lex]: raw template source to a token stream
//   - [Parse]: token stream to an [Input] (directives + root block)
//   - [Compile]: Input to the output token stream, wrapping the lowered
//     fragment tree in the entry point resolved from the directives
//
// [Translate] chains all three. Each invocation is synchronous and
// independent; no state survives between calls.
package marq

// Translate runs the whole pipeline on raw template source and renders the
// resulting token stream as text. On any error the invocation produces no
// output, only the diagnostic.
func Translate(source string) (string, error) {
	tokens, err := Lex(source)
	if err != nil {
		return "", err
	}
	input, err := Parse(tokens)
	if err != nil {
		return "", err
	}
	out, err := Compile(input)
	if err != nil {
		return "", err
	}
	return Render(out), nil
}

// ParseEntry parses a qualified entry-point reference, such as
// `ui::markup::html`, for use in [Settings]. The whole source must be one
// path.
func ParseEntry(source string) (Path, error) {
	tokens, err := Lex(source)
	if err != nil {
		return Path{}, err
	}
	p := &parser{s: NewStream(tokens)}
	path, err := p.parsePath()
	if err != nil {
		return Path{}, err
	}
	if tok := p.s.Peek(); tok.Kind != EOF {
		return Path{}, &SyntaxError{Position: tok.Pos, Expected: []string{"end of input"}}
	}
	return path, nil
}
