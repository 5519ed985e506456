package latfix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addModule() *Module {
	x := VarTerm("X", NatSort())
	y := VarTerm("Y", NatSort())
	rule := QuantifyRule(Quantification{Name: "X", Sort: NatSort()},
		QuantifyRule(Quantification{Name: "Y", Sort: NatSort()},
			PremiseRule(Proposition{Relation: "nat", Arg: x},
				PremiseRule(Proposition{Relation: "nat", Arg: y},
					ConcludeRule(Proposition{
						Relation: "sum",
						Arg:      AppTerm("plus", NatSort(), x, y),
					}),
				),
			),
		),
	)
	return &Module{
		Relations: map[Name]Sort{"nat": NatSort(), "sum": NatSort()},
		Functions: map[Name]Function{
			"plus": {
				ArgSorts:   []Sort{NatSort(), NatSort()},
				ReturnSort: NatSort(),
				Impl: func(args []Term) Term {
					return NatTerm(NatValue(args[0]) + NatValue(args[1]))
				},
			},
		},
		Rules: map[Name]*Rule{"addRule": rule},
		Axioms: map[Name]Axiom{
			"n1": {Name: "n1", Prop: Proposition{Relation: "nat", Arg: NatTerm(1)}},
			"n2": {Name: "n2", Prop: Proposition{Relation: "nat", Arg: NatTerm(2)}},
		},
		FixpointSpecs: map[Name]FixpointSpec{
			"sumSpec": {AxiomNames: []Name{"n1", "n2"}, RuleNames: []Name{"addRule"}},
		},
	}
}

func TestValidateModuleAcceptsWellFormed(t *testing.T) {
	require.NoError(t, ValidateModule(addModule()))
}

func TestValidateModuleRejectsUnknownAxiomRelation(t *testing.T) {
	mod := addModule()
	mod.Axioms["bad"] = Axiom{Name: "bad", Prop: Proposition{Relation: "ghost", Arg: NatTerm(1)}}
	err := ValidateModule(mod)
	require.Error(t, err)
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestValidateModuleRejectsSortMismatchInAxiom(t *testing.T) {
	mod := addModule()
	mod.Axioms["bad"] = Axiom{Name: "bad", Prop: Proposition{Relation: "nat", Arg: TrueTerm()}}
	require.Error(t, ValidateModule(mod))
}

func TestValidateModuleRejectsUnboundConclusionVariable(t *testing.T) {
	mod := addModule()
	z := VarTerm("Z", NatSort())
	badRule := QuantifyRule(Quantification{Name: "Z", Sort: NatSort()},
		ConcludeRule(Proposition{Relation: "sum", Arg: z}),
	)
	mod.Rules["bad"] = badRule
	err := ValidateModule(mod)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not bound")
}

func TestValidateModuleRejectsUnknownFixpointSpecReferences(t *testing.T) {
	mod := addModule()
	mod.FixpointSpecs["bad"] = FixpointSpec{AxiomNames: []Name{"nope"}}
	require.Error(t, ValidateModule(mod))
}

func TestValidateModuleRejectsNonConcreteAxiom(t *testing.T) {
	mod := addModule()
	mod.Axioms["bad"] = Axiom{Name: "bad", Prop: Proposition{Relation: "nat", Arg: VarTerm("X", NatSort())}}
	require.Error(t, ValidateModule(mod))
}
