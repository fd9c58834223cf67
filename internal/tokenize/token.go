package tokenize

// Kind identifies the structural role of a token.
type Kind string

const (
	Blank             Kind = "blank"
	PageMarker        Kind = "page-marker"
	Header            Kind = "header"
	CreatureName      Kind = "creature-name"
	CreatureLevel     Kind = "creature-level"
	CreatureAlignment Kind = "creature-alignment"
	CreatureSize      Kind = "creature-size"
	CreatureTrait     Kind = "creature-trait"
	StatField         Kind = "stat-field"
	Ability           Kind = "ability"
	ListItem          Kind = "list-item"
	OrderedItem       Kind = "ordered-list-item"
	Paragraph         Kind = "paragraph"
)

// Token is one structural unit of a document. Content is the fully merged,
// trimmed payload; continuation lines are joined with single spaces. Level is
// set only for Header tokens.
type Token struct {
	Kind    Kind
	Content string
	Level   int
}
