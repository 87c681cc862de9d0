package token

import "strings"

// Keyword is a reserved-word tag drawn from the fixed BASIC vocabulary.
// Every Keyword-kind Token carries one of these.
type Keyword int

const (
	KeywordNone Keyword = iota

	// Statement keywords.
	KeywordLET
	KeywordPRINT
	KeywordINPUT
	KeywordDIM
	KeywordFOR
	KeywordTO
	KeywordSTEP
	KeywordNEXT
	KeywordIF
	KeywordTHEN
	KeywordELSE
	KeywordGOTO
	KeywordGOSUB
	KeywordRETURN
	KeywordON
	KeywordDATA
	KeywordREAD
	KeywordRESTORE
	KeywordDEF
	KeywordFN
	KeywordUSR
	KeywordREM
	KeywordSTOP
	KeywordEND
	KeywordBEEP
	KeywordCLS
	KeywordPOKE
	KeywordOUT
	KeywordOPEN
	KeywordCLOSE
	KeywordLINE
	KeywordCIRCLE
	KeywordPAINT
	KeywordPSET
	KeywordPRESET
	KeywordDRAW
	KeywordCOLOR
	KeywordSCREEN
	KeywordLOCATE
	KeywordWIDTH
	KeywordKEY
	KeywordTRON
	KeywordTROFF
	KeywordCLEAR
	KeywordSAVE
	KeywordLOAD
	KeywordBSAVE
	KeywordBLOAD
	KeywordCSAVE
	KeywordCLOAD

	// Keyword-form operators (matched by tag, not text, per spec §9).
	KeywordMOD
	KeywordAND
	KeywordOR
	KeywordXOR
	KeywordEQV
	KeywordIMP
	KeywordNOT

	// Function-classified keywords (§4.2: "function call" production).
	KeywordSIN
	KeywordCOS
	KeywordTAN
	KeywordATN
	KeywordPI
	KeywordEXP
	KeywordLOG
	KeywordSQR
	KeywordABS
	KeywordFIX
	KeywordINT
	KeywordSGN
	KeywordRND
	KeywordFRE
	KeywordCINT
	KeywordCSNG
	KeywordPEEK
	KeywordINP
	KeywordASC
	KeywordCHR
	KeywordLEN
	KeywordMID
	KeywordSTRINGDOLLAR
	KeywordVAL
	KeywordINKEY
	KeywordSTR
	KeywordBIN
	KeywordOCT
	KeywordHEX
	KeywordCSRLIN
	KeywordPOS
	KeywordLPOS
	KeywordEOF
	KeywordPOINT
	KeywordAT
	KeywordTAB
	KeywordSPC
)

// keywordNames is the canonical spelling of each tag, used both for
// case-insensitive matching at lex time and for dump/debug output.
// MID, STRINGDOLLAR, CHR, INKEY, STR map to their `$`-suffixed source
// spelling because the lexer keeps the `$` in the word it looks up.
var keywordNames = map[Keyword]string{
	KeywordLET:     "LET",
	KeywordPRINT:   "PRINT",
	KeywordINPUT:   "INPUT",
	KeywordDIM:     "DIM",
	KeywordFOR:     "FOR",
	KeywordTO:      "TO",
	KeywordSTEP:    "STEP",
	KeywordNEXT:    "NEXT",
	KeywordIF:      "IF",
	KeywordTHEN:    "THEN",
	KeywordELSE:    "ELSE",
	KeywordGOTO:    "GOTO",
	KeywordGOSUB:   "GOSUB",
	KeywordRETURN:  "RETURN",
	KeywordON:      "ON",
	KeywordDATA:    "DATA",
	KeywordREAD:    "READ",
	KeywordRESTORE: "RESTORE",
	KeywordDEF:     "DEF",
	KeywordFN:      "FN",
	KeywordUSR:     "USR",
	KeywordREM:     "REM",
	KeywordSTOP:    "STOP",
	KeywordEND:     "END",
	KeywordBEEP:    "BEEP",
	KeywordCLS:     "CLS",
	KeywordPOKE:    "POKE",
	KeywordOUT:     "OUT",
	KeywordOPEN:    "OPEN",
	KeywordCLOSE:   "CLOSE",
	KeywordLINE:    "LINE",
	KeywordCIRCLE:  "CIRCLE",
	KeywordPAINT:   "PAINT",
	KeywordPSET:    "PSET",
	KeywordPRESET:  "PRESET",
	KeywordDRAW:    "DRAW",
	KeywordCOLOR:   "COLOR",
	KeywordSCREEN:  "SCREEN",
	KeywordLOCATE:  "LOCATE",
	KeywordWIDTH:   "WIDTH",
	KeywordKEY:     "KEY",
	KeywordTRON:    "TRON",
	KeywordTROFF:   "TROFF",
	KeywordCLEAR:   "CLEAR",
	KeywordSAVE:    "SAVE",
	KeywordLOAD:    "LOAD",
	KeywordBSAVE:   "BSAVE",
	KeywordBLOAD:   "BLOAD",
	KeywordCSAVE:   "CSAVE",
	KeywordCLOAD:   "CLOAD",

	KeywordMOD: "MOD",
	KeywordAND: "AND",
	KeywordOR:  "OR",
	KeywordXOR: "XOR",
	KeywordEQV: "EQV",
	KeywordIMP: "IMP",
	KeywordNOT: "NOT",

	KeywordSIN:          "SIN",
	KeywordCOS:          "COS",
	KeywordTAN:          "TAN",
	KeywordATN:          "ATN",
	KeywordPI:           "PI",
	KeywordEXP:          "EXP",
	KeywordLOG:          "LOG",
	KeywordSQR:          "SQR",
	KeywordABS:          "ABS",
	KeywordFIX:          "FIX",
	KeywordINT:          "INT",
	KeywordSGN:          "SGN",
	KeywordRND:          "RND",
	KeywordFRE:          "FRE",
	KeywordCINT:         "CINT",
	KeywordCSNG:         "CSNG",
	KeywordPEEK:         "PEEK",
	KeywordINP:          "INP",
	KeywordASC:          "ASC",
	KeywordCHR:          "CHR$",
	KeywordLEN:          "LEN",
	KeywordMID:          "MID$",
	KeywordSTRINGDOLLAR: "STRING$",
	KeywordVAL:          "VAL",
	KeywordINKEY:        "INKEY$",
	KeywordSTR:          "STR$",
	KeywordBIN:          "BIN$",
	KeywordOCT:          "OCT$",
	KeywordHEX:          "HEX$",
	KeywordCSRLIN:       "CSRLIN",
	KeywordPOS:          "POS",
	KeywordLPOS:         "LPOS",
	KeywordEOF:          "EOF",
	KeywordPOINT:        "POINT",
	KeywordAT:           "AT",
	KeywordTAB:          "TAB",
	KeywordSPC:          "SPC",
}

// keywordsByName is built once from keywordNames for case-insensitive
// reverse lookup during lexing.
var keywordsByName map[string]Keyword

func init() {
	keywordsByName = make(map[string]Keyword, len(keywordNames))
	for tag, name := range keywordNames {
		keywordsByName[name] = tag
	}
}

// LookupKeyword returns the tag for a case-insensitive identifier text,
// and whether the text is a reserved word at all. text should already
// have any trailing `$` included for the function keywords that carry
// one (CHR$, MID$, STRING$, INKEY$, STR$, BIN$, OCT$, HEX$).
func LookupKeyword(text string) (Keyword, bool) {
	tag, ok := keywordsByName[strings.ToUpper(text)]
	return tag, ok
}

// String returns the canonical spelling of the tag.
func (k Keyword) String() string {
	if name, ok := keywordNames[k]; ok {
		return name
	}
	return "NONE"
}

// functionKeywords is the fixed set of function-classified keywords per
// spec §1/§4.2: these may be followed by a `(` argument list inside an
// expression rather than starting a statement.
var functionKeywords = map[Keyword]bool{
	KeywordSIN: true, KeywordCOS: true, KeywordTAN: true, KeywordATN: true,
	KeywordPI: true, KeywordEXP: true, KeywordLOG: true, KeywordSQR: true,
	KeywordABS: true, KeywordFIX: true, KeywordINT: true, KeywordSGN: true,
	KeywordRND: true, KeywordFRE: true, KeywordCINT: true, KeywordCSNG: true,
	KeywordPEEK: true, KeywordINP: true, KeywordASC: true, KeywordCHR: true,
	KeywordLEN: true, KeywordMID: true, KeywordSTRINGDOLLAR: true,
	KeywordVAL: true, KeywordINKEY: true, KeywordSTR: true, KeywordBIN: true,
	KeywordOCT: true, KeywordHEX: true, KeywordCSRLIN: true, KeywordPOS: true,
	KeywordLPOS: true, KeywordEOF: true, KeywordPOINT: true, KeywordAT: true,
	KeywordTAB: true, KeywordSPC: true,
}

// IsFunction reports whether k is one of the function-classified keywords
// that can appear as an expression node rather than a statement leader.
func (k Keyword) IsFunction() bool {
	return functionKeywords[k]
}

// logicalOperatorKeywords is the set of reserved words that double as
// binary/unary operators inside expressions (spec §9: matched by tag,
// not text).
var logicalOperatorKeywords = map[Keyword]bool{
	KeywordMOD: true, KeywordAND: true, KeywordOR: true, KeywordXOR: true,
	KeywordEQV: true, KeywordIMP: true, KeywordNOT: true,
}

// IsOperator reports whether k is a keyword-form operator.
func (k Keyword) IsOperator() bool {
	return logicalOperatorKeywords[k]
}

// NonFoldableFunctions is the set of functions the validator must not
// constant-fold even when all arguments are constant (spec §4.3).
var NonFoldableFunctions = map[Keyword]bool{
	KeywordRND: true, KeywordINKEY: true, KeywordPOINT: true,
	KeywordEOF: true, KeywordPEEK: true, KeywordINP: true,
	KeywordPOS: true, KeywordCSRLIN: true, KeywordLPOS: true,
}
