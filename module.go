package latfix

// Module is the fully elaborated, read-only external input: relation
// argument sorts, built-in function implementations, rules, axioms, and
// named fixpoint specs selecting subsets of the latter two.
type Module struct {
	Relations     map[Name]Sort
	Functions     map[Name]Function
	Rules         map[Name]*Rule
	Axioms        map[Name]Axiom
	FixpointSpecs map[Name]FixpointSpec
}

// FixpointSpec names the axioms and rules that participate in one
// Generate call.
type FixpointSpec struct {
	AxiomNames []Name
	RuleNames  []Name
}

// ValidateModule checks a Module for configuration errors that must be
// caught before the loop starts: unknown relation/function names, sort
// mismatches in declared axioms or rules, missing fixpoint-spec entries,
// and rule conclusions that reference a variable never bound by a
// premise or let in the rule's body.
func ValidateModule(mod *Module) error {
	for name, fn := range mod.Functions {
		if !fn.ReturnSort.valid() {
			return configErrorf("function %q: invalid return sort", name)
		}
	}
	for name, rule := range mod.Rules {
		if err := checkRule(mod, rule); err != nil {
			return wrapConfigError(err, "rule %q", name)
		}
	}
	for name, axiom := range mod.Axioms {
		declared, ok := mod.Relations[axiom.Prop.Relation]
		if !ok {
			return configErrorf("axiom %q: unknown relation %q", name, axiom.Prop.Relation)
		}
		if !axiom.Prop.Arg.Sort.Equal(declared) {
			return configErrorf("axiom %q: argument sort %s does not match relation %q's declared sort %s",
				name, axiom.Prop.Arg.Sort, axiom.Prop.Relation, declared)
		}
		if !axiom.Prop.IsConcrete() {
			return configErrorf("axiom %q: argument is not concrete", name)
		}
	}
	for name, spec := range mod.FixpointSpecs {
		for _, an := range spec.AxiomNames {
			if _, ok := mod.Axioms[an]; !ok {
				return configErrorf("fixpoint spec %q: unknown axiom %q", name, an)
			}
		}
		for _, rn := range spec.RuleNames {
			if _, ok := mod.Rules[rn]; !ok {
				return configErrorf("fixpoint spec %q: unknown rule %q", name, rn)
			}
		}
	}
	return nil
}

func (s Sort) valid() bool {
	switch s.Kind {
	case SortTuple:
		for _, e := range s.Elems {
			if !e.valid() {
				return false
			}
		}
		return true
	case SortUnit, SortBool, SortNat, SortPredicate:
		return true
	default:
		return false
	}
}

// checkRule walks a rule's clause tree carrying the in-scope variable
// sorts (populated by Quantification and Let) and, separately, which of
// those variables have actually been grounded by a Premise or a Let
// binding by the time the Conclusion is reached, rejecting a rule whose
// conclusion uses a variable not bound anywhere in its body.
func checkRule(mod *Module, r *Rule) error {
	scope := map[Name]Sort{}
	bound := map[Name]bool{}
	return checkClauseNode(mod, r, scope, bound)
}

func checkClauseNode(mod *Module, r *Rule, scope map[Name]Sort, bound map[Name]bool) error {
	if r == nil {
		return nil
	}
	switch r.Kind {
	case ClauseQuantification:
		scope[r.Quant.Name] = r.Quant.Sort
		return checkClauseNode(mod, r.Rest, scope, bound)
	case ClausePremise:
		declared, ok := mod.Relations[r.Premise.Relation]
		if !ok {
			return configErrorf("premise references unknown relation %q", r.Premise.Relation)
		}
		sort, err := checkTermSort(mod, r.Premise.Arg, scope)
		if err != nil {
			return err
		}
		if !sort.Equal(declared) {
			return configErrorf("premise %q: argument sort %s does not match relation's declared sort %s", r.Premise.Relation, sort, declared)
		}
		markBound(r.Premise.Arg, bound)
		return checkClauseNode(mod, r.Rest, scope, bound)
	case ClauseLet:
		sort, err := checkTermSort(mod, r.LetTerm, scope)
		if err != nil {
			return err
		}
		scope[r.LetName] = sort
		bound[r.LetName] = true
		return checkClauseNode(mod, r.Rest, scope, bound)
	case ClauseFilter:
		sort, err := checkTermSort(mod, r.Cond, scope)
		if err != nil {
			return err
		}
		if !sort.Equal(BoolSort()) {
			return configErrorf("filter condition has sort %s, expected Bool", sort)
		}
		return checkClauseNode(mod, r.Rest, scope, bound)
	case ClauseConclusion:
		declared, ok := mod.Relations[r.Conclusion.Relation]
		if !ok {
			return configErrorf("conclusion references unknown relation %q", r.Conclusion.Relation)
		}
		sort, err := checkTermSort(mod, r.Conclusion.Arg, scope)
		if err != nil {
			return err
		}
		if !sort.Equal(declared) {
			return configErrorf("conclusion %q: argument sort %s does not match relation's declared sort %s", r.Conclusion.Relation, sort, declared)
		}
		for _, v := range freeVars(r.Conclusion.Arg) {
			if !bound[v] {
				return configErrorf("variable %q appears in the conclusion but is not bound by any premise or let in the rule body", v)
			}
		}
		return nil
	default:
		return configErrorf("unknown clause kind %v", r.Kind)
	}
}

func markBound(t Term, bound map[Name]bool) {
	if t.Kind == KindVar {
		bound[t.Name] = true
		return
	}
	for _, a := range t.Args {
		markBound(a, bound)
	}
}

func freeVars(t Term) []Name {
	switch t.Kind {
	case KindVar:
		return []Name{t.Name}
	default:
		var out []Name
		for _, a := range t.Args {
			out = append(out, freeVars(a)...)
		}
		return out
	}
}

// checkTermSort infers (and validates) a term's sort against the module's
// declared relations/functions and the rule's in-scope variables.
func checkTermSort(mod *Module, t Term, scope map[Name]Sort) (Sort, error) {
	switch t.Kind {
	case KindVar:
		sort, ok := scope[t.Name]
		if !ok {
			return Sort{}, configErrorf("unbound variable %q", t.Name)
		}
		return sort, nil
	case KindConstructor:
		return checkConstructorSort(mod, t, scope)
	case KindApplication:
		fn, ok := mod.Functions[t.Function]
		if !ok {
			return Sort{}, configErrorf("reference to unknown function %q", t.Function)
		}
		if len(t.Args) != len(fn.ArgSorts) {
			return Sort{}, configErrorf("function %q: expected %d arguments, got %d", t.Function, len(fn.ArgSorts), len(t.Args))
		}
		for i, a := range t.Args {
			sort, err := checkTermSort(mod, a, scope)
			if err != nil {
				return Sort{}, err
			}
			if !sort.Equal(fn.ArgSorts[i]) {
				return Sort{}, configErrorf("function %q: argument %d has sort %s, expected %s", t.Function, i, sort, fn.ArgSorts[i])
			}
		}
		return fn.ReturnSort, nil
	default:
		return Sort{}, configErrorf("unknown term kind %v", t.Kind)
	}
}

func checkConstructorSort(mod *Module, t Term, scope map[Name]Sort) (Sort, error) {
	switch t.Ctor {
	case CtorUnit:
		return UnitSort(), nil
	case CtorTrue, CtorFalse:
		return BoolSort(), nil
	case CtorZero:
		return NatSort(), nil
	case CtorSuc:
		if len(t.Args) != 1 {
			return Sort{}, configErrorf("Suc: expected 1 argument, got %d", len(t.Args))
		}
		sort, err := checkTermSort(mod, t.Args[0], scope)
		if err != nil {
			return Sort{}, err
		}
		if !sort.Equal(NatSort()) {
			return Sort{}, configErrorf("Suc: argument has sort %s, expected Nat", sort)
		}
		return NatSort(), nil
	case CtorTuple:
		elems := make([]Sort, len(t.Args))
		for i, a := range t.Args {
			sort, err := checkTermSort(mod, a, scope)
			if err != nil {
				return Sort{}, err
			}
			elems[i] = sort
		}
		return TupleSort(elems...), nil
	case CtorAtom:
		if t.Sort.Kind != SortPredicate {
			return Sort{}, configErrorf("Atom: term carries sort %s, expected a PredicateSort", t.Sort)
		}
		if t.Atom == "" {
			return Sort{}, configErrorf("Atom: term has no identity")
		}
		return t.Sort, nil
	default:
		return Sort{}, configErrorf("unknown constructor tag %v", t.Ctor)
	}
}
