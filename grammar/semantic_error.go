package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoProduction            = newSemanticError("a grammar needs at least one syntactic production")
	semErrNoTerminal              = newSemanticError("a grammar needs at least one terminal")
	semErrTermCannotBeSkipped     = newSemanticError("a terminal used in productions cannot be skipped")
	semErrUndefinedSym            = newSemanticError("undefined symbol")
	semErrDuplicateProduction     = newSemanticError("duplicate production")
	semErrDuplicateProductionName = newSemanticError("duplicate production name")
	semErrDuplicateTerminal       = newSemanticError("duplicate terminal")
	semErrDuplicateName           = newSemanticError("duplicate names are not allowed between terminals and non-terminals")
	semErrDirInvalidName          = newSemanticError("invalid directive name")
	semErrDirInvalidParam         = newSemanticError("invalid parameter")
	semErrCyclicDerivation        = newSemanticError("a non-terminal derives itself without consuming any input")
	semErrLexSpec                 = newSemanticError("invalid lexical specification")
)
