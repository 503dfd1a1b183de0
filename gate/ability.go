package gate

// Builder collects rules for one user. Rule functions receive a *Builder and
// call Can (or Cannot) zero or more times.
type Builder struct {
	rules []Rule
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Can grants action on subject. An optional condition limits the grant to
// matching instances; only the first condition is used.
func (b *Builder) Can(action Action, subject SubjectType, cond ...Condition) *Builder {
	b.rules = append(b.rules, newRule(action, subject, false, cond))
	return b
}

// Cannot revokes action on subject. A matching inverted rule denies even
// when a grant also matches.
func (b *Builder) Cannot(action Action, subject SubjectType, cond ...Condition) *Builder {
	b.rules = append(b.rules, newRule(action, subject, true, cond))
	return b
}

func newRule(action Action, subject SubjectType, inverted bool, cond []Condition) Rule {
	r := Rule{Action: action, Subject: subject, Inverted: inverted}
	if len(cond) > 0 {
		r.Condition = cond[0]
	}
	return r
}

// Build compiles the collected rules. The Builder can keep collecting
// afterwards without affecting the returned Ability.
func (b *Builder) Build() *Ability {
	a := &Ability{index: make(map[SubjectType][]Rule)}
	for _, r := range b.rules {
		a.index[r.Subject] = append(a.index[r.Subject], r)
	}
	a.size = len(b.rules)
	return a
}

// Ability is the compiled, read-only rule set of one user.
type Ability struct {
	index map[SubjectType][]Rule
	size  int
}

// Can reports whether action on subject is permitted. Rules for the
// subject's own kind and for SubjectAll are considered. A bare type is
// only satisfied by unconditional rules.
func (a *Ability) Can(action Action, subject Subject) bool {
	if a == nil || subject == nil {
		return false
	}
	kind := subject.Kind()
	allowed := false
	for _, set := range [2][]Rule{a.index[kind], a.index[SubjectAll]} {
		for _, r := range set {
			if !r.Matches(action, subject) {
				continue
			}
			if r.Inverted {
				return false
			}
			allowed = true
		}
	}
	return allowed
}

// Cannot is the negation of Can.
func (a *Ability) Cannot(action Action, subject Subject) bool {
	return !a.Can(action, subject)
}

// Rules returns a copy of the rules, grouped by subject type.
func (a *Ability) Rules() []Rule {
	out := make([]Rule, 0, a.size)
	for _, set := range a.index {
		out = append(out, set...)
	}
	return out
}

// Len returns the number of compiled rules.
func (a *Ability) Len() int { return a.size }
