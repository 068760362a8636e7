package jsx

// Node is one item of parsed markup: *Element, *Text or *Expr.
type Node interface {
	node()
}

// Element is a tag with attributes and children. A fragment (<>...</>) is
// an Element with an empty Name.
type Element struct {
	Name        string
	Attrs       []Attr
	Children    []Node
	SelfClosing bool

	// closed is set when the element was terminated by its own end tag.
	closed bool
}

// AttrKind distinguishes how an attribute value was written.
type AttrKind int

const (
	// AttrBare is a valueless attribute: <input disabled />.
	AttrBare AttrKind = iota
	// AttrString is a quoted (or unquoted) literal value.
	AttrString
	// AttrExpr is a brace-delimited value: href={url}.
	AttrExpr
	// AttrSpread is {...props}.
	AttrSpread
)

// Attr is one attribute of an Element.
type Attr struct {
	Name  string
	Kind  AttrKind
	Value string // literal value for AttrString, without quotes
	Quote byte   // quote character used in the source, 0 if unquoted
	Expr  *Expr  // value for AttrExpr and AttrSpread
}

// Text is literal character data, kept verbatim.
type Text struct {
	Value string
}

// Expr is an embedded-expression island: the source between { and }.
// Markup nested inside the expression is parsed eagerly and replaced in
// masked by placeholder identifiers so the JavaScript lexer never sees it.
type Expr struct {
	Source string

	masked  string
	islands [][]Node

	// start and end are the offsets of '{' and just past '}' in the
	// parsed text.
	start, end int
}

func (*Element) node() {}
func (*Text) node()    {}
func (*Expr) node()    {}

// IsComponent reports whether a tag name refers to a component rather than
// an HTML element: it starts with an uppercase letter ("Header",
// "Icons.Star").
func IsComponent(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// voidElements never have children or an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// rawTextElements hold character data that is not markup.
var rawTextElements = map[string]bool{
	"script": true,
	"style":  true,
}
