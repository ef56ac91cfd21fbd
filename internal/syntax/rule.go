package syntax

// Rule tags the grammar production a Node was built from.
type Rule uint8

const (
	RuleInvalid Rule = iota
	RuleFile
	RuleTraitDecl
	RuleVisibility
	RuleTraitKeyword
	RuleIdent
	RuleTypeParams
	RuleTypeParam
	RuleTraitBounds
	RuleWherePredicate
	RuleTraitMethods
	RuleFnSignature
	RuleFnDecl
	RuleFnKeyword
	RuleFnDeclParams
	RuleFnParam
	RuleSelfParam
	RuleFnReturns
	RuleType
	RuleTypeArgs
	RuleTupleType
	RuleArrayType
	RuleIntLit
	RuleCodeBlock
)

var ruleNames = [...]string{
	RuleInvalid:        "invalid",
	RuleFile:           "file",
	RuleTraitDecl:      "trait_decl",
	RuleVisibility:     "visibility",
	RuleTraitKeyword:   "trait_keyword",
	RuleIdent:          "ident",
	RuleTypeParams:     "type_params",
	RuleTypeParam:      "type_param",
	RuleTraitBounds:    "trait_bounds",
	RuleWherePredicate: "where_predicate",
	RuleTraitMethods:   "trait_methods",
	RuleFnSignature:    "fn_signature",
	RuleFnDecl:         "fn_decl",
	RuleFnKeyword:      "fn_keyword",
	RuleFnDeclParams:   "fn_decl_params",
	RuleFnParam:        "fn_param",
	RuleSelfParam:      "self_param",
	RuleFnReturns:      "fn_returns",
	RuleType:           "type",
	RuleTypeArgs:       "type_args",
	RuleTupleType:      "tuple_type",
	RuleArrayType:      "array_type",
	RuleIntLit:         "int_lit",
	RuleCodeBlock:      "code_block",
}

func (r Rule) String() string {
	if int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return "unknown"
}
