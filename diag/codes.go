package diag

// Code identifies one diagnostic condition in a closed, documented
// vocabulary. Error codes use SCREAMING_SNAKE; warning codes use
// kebab-case. Consumers compare codes, never message text.
type Code string

// Request validation errors.
const (
	// CodeMissingID indicates the request id is empty.
	CodeMissingID Code = "VALIDATION_MISSING_ID"
	// CodeMissingSource indicates the request carries no source text.
	CodeMissingSource Code = "VALIDATION_MISSING_SOURCE"
	// CodeInvalidFormat indicates the format is not a known identifier.
	CodeInvalidFormat Code = "VALIDATION_INVALID_FORMAT"
	// CodeUnsupportedFormat indicates a known format absent from the
	// caller's allow-list.
	CodeUnsupportedFormat Code = "VALIDATION_UNSUPPORTED_FORMAT"
	// CodeMissingOptions indicates the request options block is absent.
	CodeMissingOptions Code = "VALIDATION_MISSING_OPTIONS"
	// CodeInvalidRequest covers malformed request payloads.
	CodeInvalidRequest Code = "INVALID_REQUEST"
)

// Front matter errors.
const (
	// CodeInvalidTitle indicates a non-string title value.
	CodeInvalidTitle Code = "FRONTMATTER_INVALID_TITLE"
	// CodeInvalidAuthor indicates an author that is neither a string nor
	// a list of strings.
	CodeInvalidAuthor Code = "FRONTMATTER_INVALID_AUTHOR"
	// CodeInvalidDate indicates a non-string or unparseable date value.
	CodeInvalidDate Code = "FRONTMATTER_INVALID_DATE"
	// CodeInvalidTags indicates tags that are not a list of strings.
	CodeInvalidTags Code = "FRONTMATTER_INVALID_TAGS"
	// CodeInvalidKeywords indicates keywords that are not a list of strings.
	CodeInvalidKeywords Code = "FRONTMATTER_INVALID_KEYWORDS"
	// CodeInvalidDescription indicates a non-string description value.
	CodeInvalidDescription Code = "FRONTMATTER_INVALID_DESCRIPTION"
	// CodeInvalidLang indicates a non-string language value.
	CodeInvalidLang Code = "FRONTMATTER_INVALID_LANG"
)

// Bibliography and citation errors.
const (
	// CodeInvalidStyle indicates an unknown citation style identifier.
	CodeInvalidStyle Code = "BIB_INVALID_STYLE"
	// CodeMissingBibliography indicates citation resolution was requested
	// without a bibliography to resolve against.
	CodeMissingBibliography Code = "MISSING_BIBLIOGRAPHY"
)

// Content errors.
const (
	// CodeInvalidMath indicates a math expression that failed syntax checks.
	CodeInvalidMath Code = "MATH_INVALID_EXPRESSION"
	// CodeMalformedURL indicates an external link target that does not
	// parse as a URL.
	CodeMalformedURL Code = "LINK_MALFORMED_URL"
)

// Conversion errors.
const (
	// CodeConversionFailed indicates the pipeline aborted before handoff.
	CodeConversionFailed Code = "CONVERSION_FAILED"
)

// Warning codes. Warnings never affect Result.Valid.
const (
	// WarnMissingTitle flags front matter without a title.
	WarnMissingTitle Code = "missing-title"
	// WarnUnresolvedCitation flags a citation key absent from the
	// bibliography.
	WarnUnresolvedCitation Code = "unresolved-citation"
	// WarnDuplicateBibKey flags a bibliography key that appears more
	// than once.
	WarnDuplicateBibKey Code = "duplicate-bib-key"
	// WarnBrokenAnchor flags an internal link whose anchor matches no
	// heading in the document.
	WarnBrokenAnchor Code = "broken-anchor"
	// WarnMalformedTable flags a table row whose cell count disagrees
	// with its header.
	WarnMalformedTable Code = "malformed-table"
	// WarnUntermFence flags a code fence left open at end of input.
	WarnUntermFence Code = "unterminated-fence"
	// WarnUnknownLanguage flags a fenced code block language with no
	// registered lexer.
	WarnUnknownLanguage Code = "unknown-language"
	// WarnEmptySection flags a section heading with no content beneath it.
	WarnEmptySection Code = "empty-section"
	// WarnCheckerUnavailable flags math expressions accepted without
	// verification because the external checker was unreachable.
	WarnCheckerUnavailable Code = "checker-unavailable"
)
