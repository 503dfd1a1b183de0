package gate

import "reflect"

// SubjectType identifies a resource kind. SubjectAll is the wildcard kind.
type SubjectType string

const SubjectAll SubjectType = "all"

// Subject is anything an action can target: a bare SubjectType or an
// entity instance carrying its kind.
type Subject interface {
	Kind() SubjectType
}

// Kind makes a bare SubjectType usable as a Subject.
func (t SubjectType) Kind() SubjectType { return t }

// IsType reports whether s is a bare type token rather than an instance.
func IsType(s Subject) bool {
	_, ok := s.(SubjectType)
	return ok
}

// Attributer exposes instance fields to conditions.
type Attributer interface {
	Attr(name string) (any, bool)
}

// Condition restricts a rule to the instances it matches.
type Condition interface {
	Match(subject Subject) bool
}

// ConditionFunc adapts a predicate to Condition.
type ConditionFunc func(subject Subject) bool

func (f ConditionFunc) Match(subject Subject) bool { return f(subject) }

// Fields is a condition requiring every named attribute to equal its value.
// Example: gate.Fields{"id": user.ID}
type Fields map[string]any

// Match returns false for subjects that do not expose attributes, and for
// values that are not comparable (slices, maps, funcs).
func (f Fields) Match(subject Subject) bool {
	a, ok := subject.(Attributer)
	if !ok {
		return false
	}
	for name, want := range f {
		got, ok := a.Attr(name)
		if !ok || !equal(got, want) {
			return false
		}
	}
	return true
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	t := reflect.TypeOf(a)
	if t != reflect.TypeOf(b) || !t.Comparable() {
		return false
	}
	return a == b
}

// Rule is one compiled grant: Action on Subject, optionally restricted by
// Condition. Inverted rules revoke instead of grant.
type Rule struct {
	Action    Action
	Subject   SubjectType
	Condition Condition
	Inverted  bool
}

// Conditional reports whether the rule needs an instance to be evaluated.
func (r Rule) Conditional() bool { return r.Condition != nil }

// Matches checks r against a requested action on subject.
// A conditional rule never matches a bare type.
func (r Rule) Matches(action Action, subject Subject) bool {
	if !r.Action.Covers(action) {
		return false
	}
	if r.Subject != SubjectAll && r.Subject != subject.Kind() {
		return false
	}
	if r.Condition == nil {
		return true
	}
	if IsType(subject) {
		return false
	}
	return r.Condition.Match(subject)
}
