package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Syntax
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynUnclosedDelimiter   Code = 2002
	SynExpectSemicolon     Code = 2012
	SynGenericsOnSignature Code = 2031
	SynDuplicateClause     Code = 2032
	SynUnexpectedTopLevel  Code = 2101
	SynExpectIdentifier    Code = 2102
	SynExpectType          Code = 2202
	SynExpectColon         Code = 2204

	// Lowering errors
	LowInfo                 Code = 3000
	LowReservedIdent        Code = 3001
	LowEmptyIdent           Code = 3002
	LowSelfAsType           Code = 3003
	LowArrayLength          Code = 3004
	LowBuiltinTypeArgs      Code = 3005
	LowSelfParamPosition    Code = 3006
	LowDuplicateParam       Code = 3007
	LowDuplicateTypeParam   Code = 3008
	LowUndeclaredWhereParam Code = 3009
	LowDuplicateTrait       Code = 3010

	// Style lints (always warnings)
	LintNonClassCaseTraitName Code = 3101
	LintNonSnakeCaseFnName    Code = 3102
	LintNonClassCaseTypeParam Code = 3103

	// I/O
	IOLoadFileError Code = 4001

	// Project / configuration
	ProjInfo          Code = 5000
	ProjInvalidConfig Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynUnclosedDelimiter:        "Unclosed delimiter",
	SynExpectSemicolon:          "Expect semicolon",
	SynGenericsOnSignature:      "Generic parameters on interface signature",
	SynDuplicateClause:          "Duplicate generic clause",
	SynUnexpectedTopLevel:       "Unexpected top level",
	SynExpectIdentifier:         "Expect identifier",
	SynExpectType:               "Expect type",
	SynExpectColon:              "Expect colon",
	LowInfo:                     "Lowering information",
	LowReservedIdent:            "Reserved word used as a name",
	LowEmptyIdent:               "Empty identifier",
	LowSelfAsType:               "'self' used as a type",
	LowArrayLength:              "Invalid array length",
	LowBuiltinTypeArgs:          "Builtin type takes no type arguments",
	LowSelfParamPosition:        "'self' parameter must come first",
	LowDuplicateParam:           "Duplicate parameter name",
	LowDuplicateTypeParam:       "Duplicate type parameter",
	LowUndeclaredWhereParam:     "Undeclared type parameter in where clause",
	LowDuplicateTrait:           "Duplicate trait declaration",
	LintNonClassCaseTraitName:   "Trait name is not UpperCamelCase",
	LintNonSnakeCaseFnName:      "Function name is not snake_case",
	LintNonClassCaseTypeParam:   "Type parameter name is not UpperCamelCase",
	IOLoadFileError:             "Failed to load file",
	ProjInfo:                    "Project information",
	ProjInvalidConfig:           "Invalid project configuration",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3100 && ic < 3200:
		return fmt.Sprintf("LNT%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

// ParseCode resolves a code id such as "LNT3103" back to its Code.
func ParseCode(id string) (Code, bool) {
	for c := range codeDescription {
		if c.ID() == id {
			return c, true
		}
	}
	return UnknownCode, false
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
