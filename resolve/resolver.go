// Package resolve turns a dotted field access expression, written as it
// would appear in Java source inside a caller class, into a chain of
// receiver casts and field loads.
//
// Names are tried against a fixed list of interpretations in order: this,
// super, fields of the caller, fields of enclosing classes, enclosing and
// nested class names, the caller's own name, classes of the caller's
// package and finally qualified class names. The first interpretation that
// matches the leading token decides the outcome.
package resolve

import (
	"errors"
	"fmt"

	"github.com/dhamidi/fieldpath/access"
	"github.com/dhamidi/fieldpath/chain"
	"github.com/dhamidi/fieldpath/typemodel"
	"github.com/tliron/commonlog"
)

// DefaultPackage is tried last for unqualified class names.
const DefaultPackage = "java.lang"

// Resolver resolves expressions against one type model. It keeps no
// per-call state and is safe for concurrent use when the model is.
type Resolver struct {
	model   typemodel.Model
	checker *access.Checker
	log     commonlog.Logger
}

// New returns a resolver over m with an access checker for the same model.
func New(m typemodel.Model) *Resolver {
	return &Resolver{
		model:   m,
		checker: access.NewChecker(m),
		log:     commonlog.GetLogger("fieldpath.resolve"),
	}
}

// Checker returns the access checker the resolver applies to field loads.
func (r *Resolver) Checker() *access.Checker { return r.checker }

// Resolve returns the chain that reaches the field named by expression
// from code in caller. The chain is not normalized.
func (r *Resolver) Resolve(caller typemodel.ClassID, expression string) (*chain.Chain, error) {
	toks, err := tokenize(expression)
	if err != nil {
		return nil, err
	}
	if caller == typemodel.NoClass || r.model.Name(caller) == "" {
		return nil, &Error{Kind: Malformed, Expression: expression, Message: "no caller class"}
	}
	s := &state{
		model:   r.model,
		checker: r.checker,
		log:     r.log,
		caller:  caller,
		toks:    toks,
	}
	if err := s.enterStart(); err != nil {
		r.log.Debugf("%s in %s: %v", expression, r.model.Name(caller), err)
		return nil, err
	}
	return chain.New(caller, s.elements...), nil
}

// state is the cursor and output of a single Resolve call.
type state struct {
	model    typemodel.Model
	checker  *access.Checker
	log      commonlog.Logger
	caller   typemodel.ClassID
	toks     *tokens
	elements []chain.Element
}

// A rule is one interpretation of the leading token. It reports whether
// it matched; once a rule matched, its error is final.
type rule struct {
	name string
	try  func(s *state, tok string) (bool, error)
}

var startRules = []rule{
	{"this", (*state).tryThis},
	{"super", (*state).trySuper},
	{"field", (*state).tryCallerField},
	{"enclosing field", (*state).tryNestedField},
	{"enclosing class", (*state).tryOuterClass},
	{"nested class", (*state).tryInnerClass},
	{"same class", (*state).trySameClass},
	{"package class", (*state).tryPackageClass},
	{"qualified name", (*state).tryQualifiedName},
	{"package-relative name", (*state).tryPackageRelativeName},
	{"default package name", (*state).tryDefaultPackageName},
}

func (s *state) enterStart() error {
	tok, _ := s.toks.peek()
	for _, r := range startRules {
		matched, err := r.try(s, tok)
		if matched || err != nil {
			s.log.Debugf("%s", ruleOutcome(tok, r.name, err))
			return err
		}
	}
	return s.errorf(Unrecognized, 0, "unrecognized symbol %q", tok)
}

func ruleOutcome(tok, name string, err error) string {
	if err != nil {
		return fmt.Sprintf("%q matched %s and failed: %v", tok, name, err)
	}
	return fmt.Sprintf("%q resolved as %s", tok, name)
}

func (s *state) tryThis(tok string) (bool, error) {
	if tok != "this" {
		return false, nil
	}
	s.toks.next()
	return true, s.enterThis(s.caller)
}

func (s *state) trySuper(tok string) (bool, error) {
	if tok != "super" {
		return false, nil
	}
	s.toks.next()
	return true, s.enterSuper(s.caller)
}

func (s *state) tryCallerField(tok string) (bool, error) {
	f, err := typemodel.FieldOnHierarchy(s.model, s.caller, tok)
	if err != nil {
		return false, nil
	}
	s.toks.next()
	return true, s.enterFieldReference(s.caller, s.caller, f, false)
}

func (s *state) tryNestedField(tok string) (bool, error) {
	for outer := s.model.EnclosingClass(s.caller); outer != typemodel.NoClass; outer = s.model.EnclosingClass(outer) {
		f, err := typemodel.FieldOnHierarchy(s.model, outer, tok)
		if err != nil {
			continue
		}
		s.toks.next()
		return true, s.enterNestedField(outer, f)
	}
	return false, nil
}

func (s *state) tryOuterClass(tok string) (bool, error) {
	for outer := s.model.EnclosingClass(s.caller); outer != typemodel.NoClass; outer = s.model.EnclosingClass(outer) {
		if s.model.SimpleName(outer) == tok {
			s.toks.next()
			return true, s.enterClass(outer)
		}
	}
	return false, nil
}

func (s *state) tryInnerClass(tok string) (bool, error) {
	if nested, ok := s.nestedClass(s.caller, tok); ok {
		s.toks.next()
		return true, s.enterClass(nested)
	}
	return false, nil
}

func (s *state) trySameClass(tok string) (bool, error) {
	if s.model.SimpleName(s.caller) != tok {
		return false, nil
	}
	s.toks.next()
	return true, s.enterClass(s.caller)
}

func (s *state) tryPackageClass(tok string) (bool, error) {
	c, ok := s.loadClass(qualify(s.model.PackageOf(s.caller), tok))
	if !ok {
		return false, nil
	}
	s.toks.next()
	return true, s.enterClass(c)
}

func (s *state) tryQualifiedName(string) (bool, error) {
	return s.enterPackage("")
}

func (s *state) tryPackageRelativeName(string) (bool, error) {
	pkg := s.model.PackageOf(s.caller)
	if pkg == "" {
		return false, nil
	}
	return s.enterPackage(pkg)
}

func (s *state) tryDefaultPackageName(string) (bool, error) {
	return s.enterPackage(DefaultPackage)
}

// enterPackage consumes tokens as package segments under prefix until
// they name a class. The cursor is restored when no prefix matches.
func (s *state) enterPackage(prefix string) (bool, error) {
	mark := s.toks.mark()
	name := prefix
	for {
		tok, ok := s.toks.next()
		if !ok {
			break
		}
		name = qualify(name, tok)
		if c, ok := s.loadClass(name); ok {
			s.log.Debugf("package prefix %q names class %s", name, s.model.Name(c))
			return true, s.enterClass(c)
		}
	}
	s.toks.reset(mark)
	return false, nil
}

// enterThis handles "this" and "C.this", optionally followed by one
// field of target.
func (s *state) enterThis(target typemodel.ClassID) error {
	if err := s.emitThis(target); err != nil {
		return err
	}
	tok, ok := s.toks.next()
	if !ok {
		return nil
	}
	f, err := typemodel.FieldOnHierarchy(s.model, target, tok)
	if err != nil {
		return s.wrapf(Unrecognized, s.toks.last(), err, "unrecognized symbol %q after this", tok)
	}
	return s.enterFieldReference(target, target, f, false)
}

// enterSuper handles "super.f" and "C.super.f". The field is looked up
// from the superclass of target; access is checked through target.
func (s *state) enterSuper(target typemodel.ClassID) error {
	super := s.model.Superclass(target)
	if super == typemodel.NoClass {
		return s.errorf(NoSuperclass, s.toks.last(), "%s has no superclass", s.model.Name(target))
	}
	if err := s.emitThis(target); err != nil {
		return err
	}
	tok, ok := s.toks.next()
	if !ok {
		return s.errorf(PrematureEnd, s.toks.len(), "expected a field name after super")
	}
	f, err := typemodel.FieldOnHierarchy(s.model, super, tok)
	if err != nil {
		return s.wrapf(Unrecognized, s.toks.last(), err, "unrecognized symbol %q after super", tok)
	}
	return s.enterFieldReference(super, target, f, false)
}

// emitThis appends the receiver for an instance of target as seen from
// the caller.
func (s *state) emitThis(target typemodel.ClassID) error {
	s.elements = append(s.elements, chain.NewThisReference(s.caller))
	if target == s.caller {
		return nil
	}
	q, err := chain.NewQualifiedThisReference(s.model, s.caller, target)
	if err != nil {
		return s.wrapf(BadQualifiedThis, s.toks.last(), err, "cannot cast this to %s", s.model.Name(target))
	}
	if static := s.staticBetween(target); static != typemodel.NoClass {
		return s.errorf(StaticContext, s.toks.last(), "%s is static and has no enclosing instance of %s",
			s.model.Name(static), s.model.Name(target))
	}
	s.elements = append(s.elements, q)
	return nil
}

// staticBetween returns the first static class on the way from the caller
// out to outer, outer excluded, or NoClass.
func (s *state) staticBetween(outer typemodel.ClassID) typemodel.ClassID {
	for c := s.caller; c != outer && c != typemodel.NoClass; c = s.model.EnclosingClass(c) {
		if s.model.Modifiers(c).IsStatic() {
			return c
		}
	}
	return typemodel.NoClass
}

func (s *state) enterNestedField(outer typemodel.ClassID, f typemodel.Field) error {
	if f.IsStatic() {
		return s.enterFieldReference(outer, outer, f, true)
	}
	if err := s.emitThis(outer); err != nil {
		return err
	}
	return s.enterFieldReference(outer, outer, f, false)
}

// enterFieldReference appends a load of f through membering and follows
// any remaining tokens into the field's type. receiver is the static type
// the protected access rule is checked against.
func (s *state) enterFieldReference(membering, receiver typemodel.ClassID, f typemodel.Field, fromStatic bool) error {
	pos := s.toks.last()
	desc := typemodel.Describe(s.model, f)
	if fromStatic && !f.IsStatic() {
		return s.errorf(StaticContext, pos, "cannot reference instance field %s from a static context", desc)
	}
	if err := s.checker.Check(receiver, f, s.caller); err != nil {
		var ae *access.Error
		if errors.As(err, &ae) {
			return s.wrapf(IllegalAccess, pos, err, "%s field %s", ae.Visibility, desc)
		}
		return s.wrapf(IllegalAccess, pos, err, "field %s", desc)
	}
	if f.IsPrivate() && s.caller != membering && s.checker.AreNestMates(s.caller, membering) {
		return s.errorf(Unsupported, pos, "private field %s of nestmate %s", desc, s.model.Name(membering))
	}
	ref, err := chain.NewFieldReference(s.model, membering, f)
	if err != nil {
		return s.wrapf(Unrecognized, pos, err, "field %s", desc)
	}
	s.elements = append(s.elements, ref)
	s.log.Debugf("field %s through %s", desc, s.model.Name(membering))

	tok, ok := s.toks.next()
	if !ok {
		return nil
	}
	if ref.FieldType == typemodel.NoClass {
		return s.errorf(UnknownType, s.toks.last(), "type %s of field %s is not known", f.Type, desc)
	}
	next, err := typemodel.FieldOnHierarchy(s.model, ref.FieldType, tok)
	if err != nil {
		return s.wrapf(Unrecognized, s.toks.last(), err, "unrecognized symbol %q in %s", tok, s.model.Name(ref.FieldType))
	}
	return s.enterFieldReference(ref.FieldType, ref.FieldType, next, false)
}

// enterClass continues after a name that denotes class c. A class alone
// is not a value, so another token is required.
func (s *state) enterClass(c typemodel.ClassID) error {
	s.log.Debugf("class %s", s.model.Name(c))
	tok, ok := s.toks.next()
	if !ok {
		return s.errorf(PrematureEnd, s.toks.len(), "%s is a class, expected this, super or a static field after it", s.model.Name(c))
	}
	switch tok {
	case "this":
		return s.enterThis(c)
	case "super":
		return s.enterSuper(c)
	}
	if f, err := typemodel.FieldOnHierarchy(s.model, c, tok); err == nil {
		return s.enterFieldReference(c, c, f, true)
	}
	if nested, ok := s.nestedClass(c, tok); ok {
		return s.enterClass(nested)
	}
	return s.errorf(Unrecognized, s.toks.last(), "unrecognized symbol %q in %s", tok, s.model.Name(c))
}

func (s *state) nestedClass(c typemodel.ClassID, simpleName string) (typemodel.ClassID, bool) {
	for _, n := range s.model.DeclaredNestedClasses(c) {
		if s.model.SimpleName(n) == simpleName {
			return n, true
		}
	}
	return typemodel.NoClass, false
}

// loadClass finds a named class; primitives and arrays cannot be named
// as a qualifier.
func (s *state) loadClass(name string) (typemodel.ClassID, bool) {
	c, ok := s.model.LoadClass(name)
	if !ok {
		return typemodel.NoClass, false
	}
	switch s.model.Kind(c) {
	case typemodel.KindPrimitive, typemodel.KindArray:
		return typemodel.NoClass, false
	}
	return c, true
}

func (s *state) errorf(kind Kind, pos int, format string, args ...any) error {
	return &Error{Kind: kind, Expression: s.toks.expr, Position: pos, Message: fmt.Sprintf(format, args...)}
}

func (s *state) wrapf(kind Kind, pos int, cause error, format string, args ...any) error {
	return &Error{Kind: kind, Expression: s.toks.expr, Position: pos, Message: fmt.Sprintf(format, args...), Err: cause}
}

func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
