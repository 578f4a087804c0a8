package filter

// ReferencedNames returns the attribute names f references at the top level
// of its AND chain: f itself if it is a comparison, plus the comparison
// children of f and of any AND nested directly under an AND. Names under OR
// or NOT do not count.
func (f *Filter) ReferencedNames() map[string]struct{} {
	names := make(map[string]struct{})
	f.collectAndNames(names)
	return names
}

func (f *Filter) collectAndNames(names map[string]struct{}) {
	switch f.op {
	case OpMatchAll, OpOr, OpNot:
	case OpAnd:
		for _, c := range f.children {
			c.collectAndNames(names)
		}
	default:
		names[f.attr] = struct{}{}
	}
}

// SatisfiesMandatory reports whether every name in mandatory is referenced
// by f as defined by ReferencedNames.
func (f *Filter) SatisfiesMandatory(mandatory []string) bool {
	if len(mandatory) == 0 {
		return true
	}
	return satisfies(f.ReferencedNames(), mandatory)
}

func satisfies(referenced map[string]struct{}, mandatory []string) bool {
	for _, name := range mandatory {
		if _, ok := referenced[name]; !ok {
			return false
		}
	}
	return true
}

// MandatoryChecker caches the referenced names of one filter for repeated
// mandatory checks.
type MandatoryChecker struct {
	referenced map[string]struct{}
}

// NewMandatoryChecker prepares mandatory checks against f.
func NewMandatoryChecker(f *Filter) MandatoryChecker {
	return MandatoryChecker{referenced: f.ReferencedNames()}
}

// Satisfied reports whether every mandatory name is referenced.
func (m MandatoryChecker) Satisfied(mandatory []string) bool {
	return satisfies(m.referenced, mandatory)
}
