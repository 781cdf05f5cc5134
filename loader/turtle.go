package loader

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/c360studio/recipegraph/graph"
	"github.com/c360studio/recipegraph/vocabulary/standard"
)

// parseTurtle parses the Turtle subset emitted by the per-source converters:
// prefix directives, IRIs, prefixed names, the "a" keyword, string literals
// with escapes, language tags and datatypes, numeric/boolean abbreviations,
// predicate-object and object lists, blank nodes and blank node property
// lists, and comments.
func parseTurtle(input string, source SourceTag) (*graph.Graph, error) {
	p := &turtleParser{
		scan:     newScanner(input),
		source:   source,
		prefixes: make(map[string]string),
		g:        graph.New(),
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.g, nil
}

// parseNTriples parses line-based N-Triples. The shared scanner handles the
// token forms; prefixed names and directives are rejected.
func parseNTriples(input string, source SourceTag) (*graph.Graph, error) {
	p := &turtleParser{
		scan:      newScanner(input),
		source:    source,
		prefixes:  make(map[string]string),
		g:         graph.New(),
		plainOnly: true,
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.g, nil
}

type turtleParser struct {
	scan      *scanner
	source    SourceTag
	prefixes  map[string]string
	base      string
	g         *graph.Graph
	bnodeN    int
	plainOnly bool
}

func (p *turtleParser) errf(format string, args ...any) error {
	return &ParseError{Source: p.source, Line: p.scan.line, Msg: fmt.Sprintf(format, args...)}
}

func (p *turtleParser) parse() error {
	for {
		tok, err := p.scan.next()
		if err != nil {
			return p.errf("%v", err)
		}
		switch tok.kind {
		case tokEOF:
			return nil
		case tokPrefixDirective:
			if p.plainOnly {
				return p.errf("directives are not allowed in N-Triples")
			}
			if err := p.parsePrefix(tok.value == "PREFIX"); err != nil {
				return err
			}
		case tokBaseDirective:
			if p.plainOnly {
				return p.errf("directives are not allowed in N-Triples")
			}
			if err := p.parseBase(tok.value == "BASE"); err != nil {
				return err
			}
		default:
			p.scan.push(tok)
			if err := p.parseTriples(); err != nil {
				return err
			}
		}
	}
}

func (p *turtleParser) parsePrefix(sparqlForm bool) error {
	name, err := p.scan.next()
	if err != nil {
		return p.errf("%v", err)
	}
	if name.kind != tokPNameNS {
		return p.errf("expected prefix name, got %q", name.value)
	}
	iri, err := p.scan.next()
	if err != nil {
		return p.errf("%v", err)
	}
	if iri.kind != tokIRI {
		return p.errf("expected IRI after @prefix, got %q", iri.value)
	}
	p.prefixes[strings.TrimSuffix(name.value, ":")] = p.resolve(iri.value)

	if !sparqlForm {
		dot, err := p.scan.next()
		if err != nil {
			return p.errf("%v", err)
		}
		if dot.kind != tokDot {
			return p.errf("expected '.' after @prefix directive")
		}
	}
	return nil
}

func (p *turtleParser) parseBase(sparqlForm bool) error {
	iri, err := p.scan.next()
	if err != nil {
		return p.errf("%v", err)
	}
	if iri.kind != tokIRI {
		return p.errf("expected IRI after @base, got %q", iri.value)
	}
	p.base = iri.value
	if !sparqlForm {
		dot, err := p.scan.next()
		if err != nil {
			return p.errf("%v", err)
		}
		if dot.kind != tokDot {
			return p.errf("expected '.' after @base directive")
		}
	}
	return nil
}

func (p *turtleParser) parseTriples() error {
	subject, err := p.parseSubject()
	if err != nil {
		return err
	}
	if err := p.parsePredicateObjectList(subject); err != nil {
		return err
	}
	dot, err := p.scan.next()
	if err != nil {
		return p.errf("%v", err)
	}
	if dot.kind != tokDot {
		return p.errf("expected '.' at end of statement, got %q", dot.value)
	}
	return nil
}

func (p *turtleParser) parseSubject() (string, error) {
	tok, err := p.scan.next()
	if err != nil {
		return "", p.errf("%v", err)
	}
	switch tok.kind {
	case tokIRI:
		return p.resolve(tok.value), nil
	case tokPName:
		return p.expandPName(tok.value)
	case tokBlankNode:
		return tok.value, nil
	case tokOpenBracket:
		if p.plainOnly {
			return "", p.errf("blank node property lists are not allowed in N-Triples")
		}
		return p.parseBlankNodePropertyList()
	default:
		return "", p.errf("expected subject, got %q", tok.value)
	}
}

func (p *turtleParser) parsePredicateObjectList(subject string) error {
	for {
		predicate, err := p.parseVerb()
		if err != nil {
			return err
		}
		if err := p.parseObjectList(subject, predicate); err != nil {
			return err
		}

		tok, err := p.scan.next()
		if err != nil {
			return p.errf("%v", err)
		}
		if tok.kind != tokSemicolon {
			p.scan.push(tok)
			return nil
		}
		// A ';' may be trailing before '.' or ']'.
		tok, err = p.scan.next()
		if err != nil {
			return p.errf("%v", err)
		}
		if tok.kind == tokDot || tok.kind == tokCloseBracket {
			p.scan.push(tok)
			return nil
		}
		p.scan.push(tok)
	}
}

func (p *turtleParser) parseVerb() (string, error) {
	tok, err := p.scan.next()
	if err != nil {
		return "", p.errf("%v", err)
	}
	switch tok.kind {
	case tokA:
		return standard.RdfType, nil
	case tokIRI:
		return p.resolve(tok.value), nil
	case tokPName:
		return p.expandPName(tok.value)
	default:
		return "", p.errf("expected predicate, got %q", tok.value)
	}
}

func (p *turtleParser) parseObjectList(subject, predicate string) error {
	for {
		object, err := p.parseObject()
		if err != nil {
			return err
		}
		p.g.Add(graph.Triple{Subject: subject, Predicate: predicate, Object: object})

		tok, err := p.scan.next()
		if err != nil {
			return p.errf("%v", err)
		}
		if tok.kind != tokComma {
			p.scan.push(tok)
			return nil
		}
	}
}

func (p *turtleParser) parseObject() (graph.Object, error) {
	tok, err := p.scan.next()
	if err != nil {
		return graph.Object{}, p.errf("%v", err)
	}
	switch tok.kind {
	case tokIRI:
		return graph.URI(p.resolve(tok.value)), nil
	case tokPName:
		iri, err := p.expandPName(tok.value)
		if err != nil {
			return graph.Object{}, err
		}
		return graph.URI(iri), nil
	case tokBlankNode:
		return graph.URI(tok.value), nil
	case tokOpenBracket:
		if p.plainOnly {
			return graph.Object{}, p.errf("blank node property lists are not allowed in N-Triples")
		}
		id, err := p.parseBlankNodePropertyList()
		if err != nil {
			return graph.Object{}, err
		}
		return graph.URI(id), nil
	case tokString:
		return p.parseLiteralTail(tok.value)
	case tokInteger:
		return graph.TypedLiteral(tok.value, standard.XsdInteger), nil
	case tokDecimal:
		return graph.TypedLiteral(tok.value, standard.XsdDecimal), nil
	case tokBoolean:
		return graph.TypedLiteral(tok.value, standard.XsdBoolean), nil
	default:
		return graph.Object{}, p.errf("expected object, got %q", tok.value)
	}
}

// parseLiteralTail handles the optional language tag or datatype following a
// string literal.
func (p *turtleParser) parseLiteralTail(value string) (graph.Object, error) {
	tok, err := p.scan.next()
	if err != nil {
		return graph.Object{}, p.errf("%v", err)
	}
	switch tok.kind {
	case tokLangTag:
		return graph.LangLiteral(value, tok.value), nil
	case tokCarets:
		dt, err := p.scan.next()
		if err != nil {
			return graph.Object{}, p.errf("%v", err)
		}
		switch dt.kind {
		case tokIRI:
			return graph.TypedLiteral(value, p.resolve(dt.value)), nil
		case tokPName:
			iri, err := p.expandPName(dt.value)
			if err != nil {
				return graph.Object{}, err
			}
			return graph.TypedLiteral(value, iri), nil
		default:
			return graph.Object{}, p.errf("expected datatype IRI, got %q", dt.value)
		}
	default:
		p.scan.push(tok)
		return graph.Literal(value), nil
	}
}

// parseBlankNodePropertyList reads "[ po-list ]" and returns a fresh blank
// node identifier carrying the enclosed properties.
func (p *turtleParser) parseBlankNodePropertyList() (string, error) {
	p.bnodeN++
	id := fmt.Sprintf("_:b%d", p.bnodeN)

	tok, err := p.scan.next()
	if err != nil {
		return "", p.errf("%v", err)
	}
	if tok.kind == tokCloseBracket {
		return id, nil
	}
	p.scan.push(tok)

	if err := p.parsePredicateObjectList(id); err != nil {
		return "", err
	}
	closeTok, err := p.scan.next()
	if err != nil {
		return "", p.errf("%v", err)
	}
	if closeTok.kind != tokCloseBracket {
		return "", p.errf("expected ']' to close blank node, got %q", closeTok.value)
	}
	return id, nil
}

func (p *turtleParser) resolve(iri string) string {
	if p.base == "" || strings.Contains(iri, "://") || strings.HasPrefix(iri, "urn:") {
		return iri
	}
	return p.base + iri
}

func (p *turtleParser) expandPName(pname string) (string, error) {
	if p.plainOnly {
		return "", p.errf("prefixed names are not allowed in N-Triples")
	}
	idx := strings.Index(pname, ":")
	if idx < 0 {
		return "", p.errf("malformed prefixed name %q", pname)
	}
	prefix, local := pname[:idx], pname[idx+1:]
	ns, ok := p.prefixes[prefix]
	if !ok {
		return "", p.errf("undeclared prefix %q", prefix)
	}
	return ns + unescapeLocal(local), nil
}

// unescapeLocal removes PN_LOCAL_ESC backslash escapes.
func unescapeLocal(local string) string {
	if !strings.Contains(local, "\\") {
		return local
	}
	var sb strings.Builder
	escaped := false
	for _, r := range local {
		if escaped {
			sb.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Token scanner.

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIRI
	tokPName
	tokPNameNS
	tokBlankNode
	tokString
	tokInteger
	tokDecimal
	tokBoolean
	tokLangTag
	tokCarets
	tokDot
	tokSemicolon
	tokComma
	tokOpenBracket
	tokCloseBracket
	tokA
	tokPrefixDirective
	tokBaseDirective
)

type token struct {
	kind  tokenKind
	value string
}

type scanner struct {
	input  []rune
	pos    int
	line   int
	pushed []token
}

func newScanner(input string) *scanner {
	return &scanner{input: []rune(input), line: 1}
}

func (s *scanner) push(t token) {
	s.pushed = append(s.pushed, t)
}

func (s *scanner) peekRune() (rune, bool) {
	if s.pos >= len(s.input) {
		return 0, false
	}
	return s.input[s.pos], true
}

func (s *scanner) readRune() (rune, bool) {
	r, ok := s.peekRune()
	if ok {
		s.pos++
		if r == '\n' {
			s.line++
		}
	}
	return r, ok
}

func (s *scanner) skipSpaceAndComments() {
	for {
		r, ok := s.peekRune()
		if !ok {
			return
		}
		if unicode.IsSpace(r) {
			s.readRune()
			continue
		}
		if r == '#' {
			for {
				c, ok := s.readRune()
				if !ok || c == '\n' {
					break
				}
			}
			continue
		}
		return
	}
}

func (s *scanner) next() (token, error) {
	if n := len(s.pushed); n > 0 {
		t := s.pushed[n-1]
		s.pushed = s.pushed[:n-1]
		return t, nil
	}

	s.skipSpaceAndComments()
	r, ok := s.peekRune()
	if !ok {
		return token{kind: tokEOF}, nil
	}

	switch {
	case r == '<':
		return s.scanIRI()
	case r == '"' || r == '\'':
		return s.scanString(r)
	case r == '.':
		s.readRune()
		return token{kind: tokDot, value: "."}, nil
	case r == ';':
		s.readRune()
		return token{kind: tokSemicolon, value: ";"}, nil
	case r == ',':
		s.readRune()
		return token{kind: tokComma, value: ","}, nil
	case r == '[':
		s.readRune()
		return token{kind: tokOpenBracket, value: "["}, nil
	case r == ']':
		s.readRune()
		return token{kind: tokCloseBracket, value: "]"}, nil
	case r == '^':
		s.readRune()
		if c, _ := s.peekRune(); c != '^' {
			return token{}, fmt.Errorf("unexpected '^'")
		}
		s.readRune()
		return token{kind: tokCarets, value: "^^"}, nil
	case r == '@':
		return s.scanAtKeyword()
	case r == '_':
		return s.scanBlankNode()
	case r == '+' || r == '-' || unicode.IsDigit(r):
		return s.scanNumber()
	default:
		return s.scanWord()
	}
}

func (s *scanner) scanIRI() (token, error) {
	s.readRune() // consume '<'
	var sb strings.Builder
	for {
		r, ok := s.readRune()
		if !ok {
			return token{}, fmt.Errorf("unterminated IRI")
		}
		if r == '>' {
			return token{kind: tokIRI, value: sb.String()}, nil
		}
		if r == '\n' {
			return token{}, fmt.Errorf("newline inside IRI")
		}
		sb.WriteRune(r)
	}
}

func (s *scanner) scanString(quote rune) (token, error) {
	s.readRune() // consume opening quote

	// Detect long-form triple quotes.
	long := false
	if c, _ := s.peekRune(); c == quote {
		s.readRune()
		if c2, _ := s.peekRune(); c2 == quote {
			s.readRune()
			long = true
		} else {
			// Empty short string.
			return token{kind: tokString, value: ""}, nil
		}
	}

	var sb strings.Builder
	for {
		r, ok := s.readRune()
		if !ok {
			return token{}, fmt.Errorf("unterminated string literal")
		}
		if r == '\\' {
			esc, err := s.scanEscape()
			if err != nil {
				return token{}, err
			}
			sb.WriteString(esc)
			continue
		}
		if r == quote {
			if !long {
				return token{kind: tokString, value: sb.String()}, nil
			}
			if c, _ := s.peekRune(); c == quote {
				s.readRune()
				if c2, _ := s.peekRune(); c2 == quote {
					s.readRune()
					return token{kind: tokString, value: sb.String()}, nil
				}
				sb.WriteRune(quote)
				sb.WriteRune(quote)
				continue
			}
			sb.WriteRune(quote)
			continue
		}
		if r == '\n' && !long {
			return token{}, fmt.Errorf("newline inside string literal")
		}
		sb.WriteRune(r)
	}
}

func (s *scanner) scanEscape() (string, error) {
	r, ok := s.readRune()
	if !ok {
		return "", fmt.Errorf("unterminated escape sequence")
	}
	switch r {
	case 't':
		return "\t", nil
	case 'n':
		return "\n", nil
	case 'r':
		return "\r", nil
	case 'b':
		return "\b", nil
	case 'f':
		return "\f", nil
	case '"':
		return "\"", nil
	case '\'':
		return "'", nil
	case '\\':
		return "\\", nil
	case 'u', 'U':
		width := 4
		if r == 'U' {
			width = 8
		}
		var hex strings.Builder
		for i := 0; i < width; i++ {
			c, ok := s.readRune()
			if !ok {
				return "", fmt.Errorf("unterminated unicode escape")
			}
			hex.WriteRune(c)
		}
		code, err := strconv.ParseUint(hex.String(), 16, 32)
		if err != nil {
			return "", fmt.Errorf("invalid unicode escape %q", hex.String())
		}
		return string(rune(code)), nil
	default:
		return "", fmt.Errorf("invalid escape sequence \\%c", r)
	}
}

func (s *scanner) scanAtKeyword() (token, error) {
	s.readRune() // consume '@'
	var sb strings.Builder
	for {
		r, ok := s.peekRune()
		if !ok || (!unicode.IsLetter(r) && r != '-') {
			break
		}
		s.readRune()
		sb.WriteRune(r)
	}
	word := sb.String()
	switch word {
	case "prefix":
		return token{kind: tokPrefixDirective, value: "@prefix"}, nil
	case "base":
		return token{kind: tokBaseDirective, value: "@base"}, nil
	default:
		// Language tag following a string literal.
		return token{kind: tokLangTag, value: word}, nil
	}
}

func (s *scanner) scanBlankNode() (token, error) {
	s.readRune() // consume '_'
	if c, _ := s.peekRune(); c != ':' {
		return token{}, fmt.Errorf("malformed blank node label")
	}
	s.readRune()
	var sb strings.Builder
	sb.WriteString("_:")
	for {
		r, ok := s.peekRune()
		if !ok || (!unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '.') {
			break
		}
		s.readRune()
		sb.WriteRune(r)
	}
	value := sb.String()
	// A trailing '.' belongs to the statement terminator.
	for strings.HasSuffix(value, ".") {
		value = value[:len(value)-1]
		s.pos--
	}
	return token{kind: tokBlankNode, value: value}, nil
}

func (s *scanner) scanNumber() (token, error) {
	var sb strings.Builder
	decimal := false
	if r, _ := s.peekRune(); r == '+' || r == '-' {
		s.readRune()
		sb.WriteRune(r)
	}
	for {
		r, ok := s.peekRune()
		if !ok {
			break
		}
		if unicode.IsDigit(r) {
			s.readRune()
			sb.WriteRune(r)
			continue
		}
		if r == '.' {
			// Only a digit after '.' makes it part of the number; otherwise
			// the '.' terminates the statement.
			if s.pos+1 < len(s.input) && unicode.IsDigit(s.input[s.pos+1]) {
				s.readRune()
				sb.WriteRune(r)
				decimal = true
				continue
			}
		}
		break
	}
	kind := tokInteger
	if decimal {
		kind = tokDecimal
	}
	return token{kind: kind, value: sb.String()}, nil
}

// scanWord reads a bare word: the "a" keyword, booleans, SPARQL-style
// directives, or a prefixed name.
func (s *scanner) scanWord() (token, error) {
	var sb strings.Builder
	for {
		r, ok := s.peekRune()
		if !ok {
			break
		}
		if unicode.IsSpace(r) || strings.ContainsRune(";,[]()#\"'<>", r) {
			break
		}
		if r == '.' {
			// Dot is part of a prefixed name only when followed by a name
			// character; otherwise it terminates the statement.
			if s.pos+1 < len(s.input) && isLocalChar(s.input[s.pos+1]) {
				s.readRune()
				sb.WriteRune(r)
				continue
			}
			break
		}
		s.readRune()
		sb.WriteRune(r)
	}
	word := sb.String()
	if word == "" {
		r, _ := s.peekRune()
		return token{}, fmt.Errorf("unexpected character %q", r)
	}

	switch word {
	case "a":
		return token{kind: tokA, value: "a"}, nil
	case "true", "false":
		return token{kind: tokBoolean, value: word}, nil
	case "PREFIX", "prefix":
		return token{kind: tokPrefixDirective, value: "PREFIX"}, nil
	case "BASE", "base":
		return token{kind: tokBaseDirective, value: "BASE"}, nil
	}

	if strings.HasSuffix(word, ":") {
		return token{kind: tokPNameNS, value: word}, nil
	}
	if strings.Contains(word, ":") {
		return token{kind: tokPName, value: word}, nil
	}
	return token{}, fmt.Errorf("unexpected token %q", word)
}

func isLocalChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '%' || r == ':'
}
