// Package graph provides the in-memory triple set that flows through the
// unification pipeline.
package graph

import "fmt"

// Object is the object position of a triple: either a URI reference or a
// literal with optional language tag or datatype IRI. The zero Kind is URI
// so object URIs compare naturally.
type Object struct {
	Value    string
	Literal  bool
	Lang     string
	Datatype string
}

// URI returns a URI reference object.
func URI(value string) Object {
	return Object{Value: value}
}

// Literal returns a plain literal object.
func Literal(value string) Object {
	return Object{Value: value, Literal: true}
}

// LangLiteral returns a language-tagged literal object.
func LangLiteral(value, lang string) Object {
	return Object{Value: value, Literal: true, Lang: lang}
}

// TypedLiteral returns a datatyped literal object.
func TypedLiteral(value, datatype string) Object {
	return Object{Value: value, Literal: true, Datatype: datatype}
}

func (o Object) String() string {
	if !o.Literal {
		return "<" + o.Value + ">"
	}
	switch {
	case o.Lang != "":
		return fmt.Sprintf("%q@%s", o.Value, o.Lang)
	case o.Datatype != "":
		return fmt.Sprintf("%q^^<%s>", o.Value, o.Datatype)
	default:
		return fmt.Sprintf("%q", o.Value)
	}
}

// Triple is an atomic (subject, predicate, object) fact. Triples are value
// types: identity is exact field equality, and a triple is never mutated
// after creation.
type Triple struct {
	Subject   string
	Predicate string
	Object    Object
}

func (t Triple) String() string {
	return fmt.Sprintf("<%s> <%s> %s .", t.Subject, t.Predicate, t.Object)
}
