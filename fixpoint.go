package latfix

import (
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// FixpointEnv is the mutable state the semi-naive loop owns for the
// duration of one Generate call: the gas budget, the
// database being saturated, the set of live (partial) rules, and the
// patch worklist. No external observer may mutate it while a loop is
// running; the loop itself is single-threaded.
type FixpointEnv struct {
	Gas          int
	DB           *Database
	Queue        *Queue
	Module       *Module
	Logger       *logrus.Logger
	rules        map[uuid.UUID]PartialRule
	order        PatchOrder
	iterations   int
	initialProps []Proposition
}

// Option configures a FixpointEnv at construction time.
type Option func(*FixpointEnv)

func WithLogger(l *logrus.Logger) Option {
	return func(e *FixpointEnv) { e.Logger = l }
}

func WithPatchOrder(order PatchOrder) Option {
	return func(e *FixpointEnv) { e.order = order }
}

// WithInitialPropositions seeds the database directly (not via the
// queue) before any axiom patch is enqueued. With initial_gas = 0 the
// loop never runs, so only these (and no axiom) end up in the final
// database.
func WithInitialPropositions(props []Proposition) Option {
	return func(e *FixpointEnv) { e.initialProps = props }
}

// NewFixpointEnv validates mod, looks up the named fixpoint spec,
// normalizes and registers its rules, and seeds the queue with one
// ConclusionPatch per axiom the fixpoint spec names. Propositions supplied via
// WithInitialPropositions are inserted directly into the database,
// ahead of any seeding or looping.
func NewFixpointEnv(mod *Module, specName Name, initialGas int, opts ...Option) (*FixpointEnv, error) {
	if err := ValidateModule(mod); err != nil {
		return nil, err
	}
	spec, ok := mod.FixpointSpecs[specName]
	if !ok {
		return nil, configErrorf("unknown fixpoint spec %q", specName)
	}

	env := &FixpointEnv{
		Gas:    initialGas,
		DB:     NewDatabase(),
		Module: mod,
		Logger: defaultLogger(),
		rules:  map[uuid.UUID]PartialRule{},
		order:  DefaultPatchOrder,
	}
	for _, opt := range opts {
		opt(env)
	}
	env.Queue = NewQueue(env.order)

	for _, p := range env.initialProps {
		env.DB.Insert(p)
	}

	for _, ruleName := range spec.RuleNames {
		rule, ok := mod.Rules[ruleName]
		if !ok {
			return nil, configErrorf("fixpoint spec %q: unknown rule %q", specName, ruleName)
		}
		env.registerRule(PartialRule{Name: ruleName, Body: NormalizeRule(rule)})
	}
	for _, axiomName := range spec.AxiomNames {
		axiom, ok := mod.Axioms[axiomName]
		if !ok {
			return nil, configErrorf("fixpoint spec %q: unknown axiom %q", specName, axiomName)
		}
		env.Queue.Insert(ConclusionPatch(axiom.Prop))
	}

	return env, nil
}

func (env *FixpointEnv) registerRule(pr PartialRule) {
	id := hashPartialRule(pr)
	if _, exists := env.rules[id]; exists {
		return
	}
	env.rules[id] = pr
}

func (env *FixpointEnv) liveRules() []PartialRule {
	out := make([]PartialRule, 0, len(env.rules))
	for _, pr := range env.rules {
		out = append(out, pr)
	}
	return out
}

// Run drains the queue (or exhausts gas): each
// iteration pops a patch (applying the subsumption filter), dispatches it
// to learn, and enqueues every child patch learn returns. It terminates
// when the queue drains — a true least fixpoint relative to the supplied
// rules and axioms — or when gas reaches zero, a bounded-effort
// approximation; gas exhaustion is not an error.
func (env *FixpointEnv) Run() *Database {
	for env.Gas > 0 {
		patch, ok := env.Queue.Pop(env.DB)
		if !ok {
			break
		}
		env.Gas--
		env.iterations++
		env.Logger.WithFields(logrus.Fields{
			"patch_kind": patch.Kind,
			"patch_id":   patchID(patch),
			"gas":        env.Gas,
		}).Debug("latfix: popped patch")

		for _, child := range env.learn(patch) {
			env.Queue.Insert(child)
		}
	}
	env.Logger.WithFields(logrus.Fields{
		"facts":         len(env.DB.Propositions()),
		"gas_remaining": env.Gas,
		"iterations":    env.iterations,
	}).Info("latfix: generate finished")
	return env.DB
}

// Generate is the external entry point: given a Module, a
// FixpointSpecName, and an initial gas budget, it runs one fixpoint to
// completion (or exhaustion) and returns the resulting database.
func Generate(mod *Module, specName Name, initialGas int, opts ...Option) (*Database, error) {
	env, err := NewFixpointEnv(mod, specName, initialGas, opts...)
	if err != nil {
		return nil, err
	}
	return env.Run(), nil
}

func (env *FixpointEnv) learn(p Patch) []Patch {
	switch p.Kind {
	case PatchConclusion:
		return env.learnConclusion(p.Conclusion)
	case PatchApply:
		return env.learnApply(p.Apply)
	default:
		panicInvariant(KindMalformedRuleShape, "learn: unknown patch kind %v", p.Kind)
		return nil
	}
}

// learnConclusion implements learn(ConclusionPatch p):
// evaluate, insert (dropping the patch with no children if it was
// subsumed), then try every live rule against the newly learned fact.
func (env *FixpointEnv) learnConclusion(p Proposition) []Patch {
	evaluated := EvaluateProposition(p, env.Module.Functions)
	if !env.DB.Insert(evaluated) {
		return nil
	}
	var children []Patch
	for _, pr := range env.liveRules() {
		children = append(children, applyRule(pr, evaluated, env.Module)...)
	}
	return children
}

// learnApply implements learn(ApplyPatch r): register r so
// future facts are also tried against it, then try it against every
// current candidate.
func (env *FixpointEnv) learnApply(pr PartialRule) []Patch {
	env.registerRule(pr)
	var children []Patch
	for _, prop := range env.DB.Candidates() {
		children = append(children, applyRule(pr, prop, env.Module)...)
	}
	return children
}

// applyRule is the central routine: walk rule.Body
// looking for the first Premise to unify against prop, processing any
// Quantification/Let/Filter encountered along the way exactly as the
// residual walk does.
func applyRule(pr PartialRule, prop Proposition, mod *Module) []Patch {
	return applyClause(pr.Body, prop, mod)
}

func applyClause(node *Rule, prop Proposition, mod *Module) []Patch {
	switch node.Kind {
	case ClauseQuantification:
		return applyClause(node.Rest, prop, mod)
	case ClauseLet:
		val := EvaluateTerm(node.LetTerm, mod.Functions)
		rest := substituteRule(node.Rest, Substitution{node.LetName: val})
		return applyClause(rest, prop, mod)
	case ClauseFilter:
		// Reachable here only for a rule whose body opens with a Filter
		// before any Premise; table marks this combination
		// as belonging to the residual walk, but the evaluation rule is
		// identical either way, so this falls through to the same logic.
		cond := EvaluateTerm(node.Cond, mod.Functions)
		if !isTrue(cond) {
			return nil
		}
		return applyClause(node.Rest, prop, mod)
	case ClausePremise:
		sub, ok := UnifyPropositions(node.Premise, prop, mod.Functions)
		if !ok {
			return nil
		}
		rest := substituteRule(node.Rest, sub)
		return residualWalk(rest, mod)
	case ClauseConclusion:
		panicInvariant(KindMalformedRuleShape, "applyRule: rule has no premise left to consume %v", prop)
		return nil
	default:
		panicInvariant(KindMalformedRuleShape, "applyRule: unknown clause kind %v", node.Kind)
		return nil
	}
}

// residualWalk processes a rule body after its first premise has been
// consumed: Let/Filter evaluate and continue as before; a
// further Premise defers matching to a later loop iteration via a single
// ApplyPatch; a Conclusion fires a ConclusionPatch once its substitution
// is asserted concrete.
func residualWalk(node *Rule, mod *Module) []Patch {
	switch node.Kind {
	case ClauseQuantification:
		return residualWalk(node.Rest, mod)
	case ClauseLet:
		val := EvaluateTerm(node.LetTerm, mod.Functions)
		rest := substituteRule(node.Rest, Substitution{node.LetName: val})
		return residualWalk(rest, mod)
	case ClauseFilter:
		cond := EvaluateTerm(node.Cond, mod.Functions)
		if !isTrue(cond) {
			return nil
		}
		return residualWalk(node.Rest, mod)
	case ClausePremise:
		return []Patch{ApplyPatch(PartialRule{Name: "<residual>", Body: node})}
	case ClauseConclusion:
		// Evaluate before wrapping in a patch: the Queue's subsumption check
		// compares a ConclusionPatch's proposition against the database
		// without evaluating it first, so it must already be in normal form
		// by the time it is enqueued. EvaluateTerm itself panics
		// (KindUnreachableVariable) if substitution left an unbound Var
		// behind, which a validated rule's premises/lets never should.
		return []Patch{ConclusionPatch(EvaluateProposition(node.Conclusion, mod.Functions))}
	default:
		panicInvariant(KindMalformedRuleShape, "residualWalk: unknown clause kind %v", node.Kind)
		return nil
	}
}

func isTrue(t Term) bool {
	return t.Kind == KindConstructor && t.Ctor == CtorTrue
}
