package ast

import "github.com/occ-lang/occ/internal/ident"

// WellKnownClasses holds the generic classes the for-in and
// list-comprehension desugarings target: Maybe<T> (the option type
// getNext() returns), its Just<T> subclass (the present case), and
// Iterator<T> (the protocol getIterator() returns, with a single
// getNext() -> Maybe<T> method). These are ordinary generic
// ClassDeclarations, not special-cased in the code generator the way
// CoreClasses are; they exist so the desugared for-in shape in §4.1 has
// concrete declarations to resolve against.
var WellKnownClasses struct {
	Maybe, Just, Iterator *ClassDeclaration
}

func init() {
	tParam := func(owner *ClassDeclaration) *AbstractGenericType {
		return &AbstractGenericType{Ident: ident.New("T"), Owner: owner}
	}

	maybe := &ClassDeclaration{Ident: ident.New("Maybe"), Body: &Block{}}
	maybe.FormalGenerics = []*AbstractGenericType{tParam(maybe)}
	maybe.Methods = []*FunctionDeclaration{
		{Ident: ident.New("hasValue"), Kind: METHOD, Owner: maybe,
			DeclaredReturnType: CoreClasses.Bool.Ident},
	}

	just := &ClassDeclaration{Ident: ident.New("Just"), Body: &Block{}}
	just.FormalGenerics = []*AbstractGenericType{tParam(just)}
	just.SuperDecls = []*ClassDeclaration{maybe}
	just.Methods = []*FunctionDeclaration{
		{Ident: ident.New("getValue"), Kind: METHOD, Owner: just},
	}

	iterator := &ClassDeclaration{Ident: ident.New("Iterator"), Body: &Block{}}
	iterator.FormalGenerics = []*AbstractGenericType{tParam(iterator)}
	iterator.Methods = []*FunctionDeclaration{
		{Ident: ident.New("getNext"), Kind: METHOD, Owner: iterator},
	}

	WellKnownClasses.Maybe = maybe
	WellKnownClasses.Just = just
	WellKnownClasses.Iterator = iterator
}
