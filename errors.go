package tskit

import "fmt"

// Code is a closed taxonomy of error kinds returned by the fallible
// operations of this package. No other error values are ever returned
// across a package API boundary.
type Code uint16

const (
	_ Code = iota

	// structural: validator failures, fatal to load
	CodeBadEdgeset
	CodeBadEdgesetNoLeftAtZero
	CodeBadEdgesetNonmatchingRight
	CodeBadRecordInterval
	CodeZeroChildren
	CodeUnsortedChildren
	CodeBadNodeTimeOrdering
	CodeRecordsNotTimeSorted
	CodeNullNodeInRecord
	CodeNodeOutOfBounds
	CodeSiteOutOfBounds
	CodeNodeSampleInternal
	CodeBadSitePosition
	CodeUnsortedSites
	CodeUnsortedMutations
	CodeBadAlphabet
	CodeLengthMismatch
	CodeInsufficientSamples

	// operational: caller bugs, surfaced rather than panicked
	CodeBadParamValue
	CodeOutOfBounds
	CodeNotInitialised
	CodeBadSamples
	CodeDuplicateSample
	CodeCannotSimplify
	CodeUnsupportedOperation

	// resource: allocation and persistence
	CodeNoMemory
	CodeFileFormat
	CodeFileVersionTooOld
	CodeFileVersionTooNew
)

var codeNames = map[Code]string{
	CodeBadEdgeset:                 "BadEdgeset",
	CodeBadEdgesetNoLeftAtZero:     "BadEdgesetNoLeftAtZero",
	CodeBadEdgesetNonmatchingRight: "BadEdgesetNonmatchingRight",
	CodeBadRecordInterval:          "BadRecordInterval",
	CodeZeroChildren:               "ZeroChildren",
	CodeUnsortedChildren:           "UnsortedChildren",
	CodeBadNodeTimeOrdering:        "BadNodeTimeOrdering",
	CodeRecordsNotTimeSorted:       "RecordsNotTimeSorted",
	CodeNullNodeInRecord:           "NullNodeInRecord",
	CodeNodeOutOfBounds:            "NodeOutOfBounds",
	CodeSiteOutOfBounds:            "SiteOutOfBounds",
	CodeNodeSampleInternal:         "NodeSampleInternal",
	CodeBadSitePosition:            "BadSitePosition",
	CodeUnsortedSites:              "UnsortedSites",
	CodeUnsortedMutations:          "UnsortedMutations",
	CodeBadAlphabet:                "BadAlphabet",
	CodeLengthMismatch:             "LengthMismatch",
	CodeInsufficientSamples:        "InsufficientSamples",
	CodeBadParamValue:              "BadParamValue",
	CodeOutOfBounds:                "OutOfBounds",
	CodeNotInitialised:             "NotInitialised",
	CodeBadSamples:                 "BadSamples",
	CodeDuplicateSample:            "DuplicateSample",
	CodeCannotSimplify:             "CannotSimplify",
	CodeUnsupportedOperation:       "UnsupportedOperation",
	CodeNoMemory:                   "NoMemory",
	CodeFileFormat:                 "FileFormat",
	CodeFileVersionTooOld:          "FileVersionTooOld",
	CodeFileVersionTooNew:          "FileVersionTooNew",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "Unknown"
}

// Error is the single error type returned by this package's fallible
// operations. Callers that only care about the kind of failure should use
// [errors.Is] against the Err* sentinels below; callers that want row-level
// context can inspect the fields directly.
type Error struct {
	Code  Code
	Table string // e.g. "edgeset", "site"; empty if not table-specific
	Row   int    // row index within Table; -1 if not applicable
	Msg   string
}

func (e *Error) Error() string {
	if e.Table != "" && e.Row >= 0 {
		return fmt.Sprintf("tskit: %s: %s[%d]: %s", e.Code, e.Table, e.Row, e.Msg)
	}
	return fmt.Sprintf("tskit: %s: %s", e.Code, e.Msg)
}

// Is makes errors.Is(err, ErrXxx) work by comparing on Code alone, so a
// sentinel with no row/table context matches any concrete *Error of the
// same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func newErr(code Code, table string, row int, format string, args ...any) *Error {
	return &Error{Code: code, Table: table, Row: row, Msg: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is. Each carries no row/table context; use Error's
// Is method (matching on Code) to compare against a concrete error.
var (
	ErrBadEdgeset                 = &Error{Code: CodeBadEdgeset}
	ErrBadEdgesetNoLeftAtZero     = &Error{Code: CodeBadEdgesetNoLeftAtZero}
	ErrBadEdgesetNonmatchingRight = &Error{Code: CodeBadEdgesetNonmatchingRight}
	ErrBadRecordInterval          = &Error{Code: CodeBadRecordInterval}
	ErrZeroChildren               = &Error{Code: CodeZeroChildren}
	ErrUnsortedChildren           = &Error{Code: CodeUnsortedChildren}
	ErrBadNodeTimeOrdering        = &Error{Code: CodeBadNodeTimeOrdering}
	ErrRecordsNotTimeSorted       = &Error{Code: CodeRecordsNotTimeSorted}
	ErrNullNodeInRecord           = &Error{Code: CodeNullNodeInRecord}
	ErrNodeOutOfBounds            = &Error{Code: CodeNodeOutOfBounds}
	ErrSiteOutOfBounds            = &Error{Code: CodeSiteOutOfBounds}
	ErrNodeSampleInternal         = &Error{Code: CodeNodeSampleInternal}
	ErrBadSitePosition            = &Error{Code: CodeBadSitePosition}
	ErrUnsortedSites              = &Error{Code: CodeUnsortedSites}
	ErrUnsortedMutations          = &Error{Code: CodeUnsortedMutations}
	ErrBadAlphabet                = &Error{Code: CodeBadAlphabet}
	ErrLengthMismatch             = &Error{Code: CodeLengthMismatch}
	ErrInsufficientSamples        = &Error{Code: CodeInsufficientSamples}
	ErrBadParamValue              = &Error{Code: CodeBadParamValue}
	ErrOutOfBounds                = &Error{Code: CodeOutOfBounds}
	ErrNotInitialised             = &Error{Code: CodeNotInitialised}
	ErrBadSamples                 = &Error{Code: CodeBadSamples}
	ErrDuplicateSample            = &Error{Code: CodeDuplicateSample}
	ErrCannotSimplify             = &Error{Code: CodeCannotSimplify}
	ErrUnsupportedOperation       = &Error{Code: CodeUnsupportedOperation}
	ErrNoMemory                   = &Error{Code: CodeNoMemory}
	ErrFileFormat                 = &Error{Code: CodeFileFormat}
	ErrFileVersionTooOld          = &Error{Code: CodeFileVersionTooOld}
	ErrFileVersionTooNew          = &Error{Code: CodeFileVersionTooNew}
)
