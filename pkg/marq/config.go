package marq

// DefaultEntry returns the built-in markup-constructor reference used when
// no `@macro_path` directive selects another entry point.
func DefaultEntry() Path {
	return Path{Segments: []PathSegment{{Name: Token{Kind: Ident, Text: "html"}}}}
}

// Settings are the translator options resolved from the leading directives.
type Settings struct {
	Entry      Path
	DebugPrint bool
}

// DefaultSettings returns the built-in entry point with debug printing off.
func DefaultSettings() Settings {
	return Settings{Entry: DefaultEntry()}
}

// Apply folds directives into s. Each recognized directive kind sets its
// corresponding setting; unrecognized directives never reach this point
// because the parser rejects them.
func (s Settings) Apply(configs []Config) Settings {
	for _, cfg := range configs {
		switch cfg := cfg.(type) {
		case DebugPrintConfig:
			s.DebugPrint = true
		case MacroPathConfig:
			s.Entry = cfg.Path
		}
	}
	return s
}
