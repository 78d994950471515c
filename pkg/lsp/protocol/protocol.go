// Package protocol defines the subset of LSP wire types the engine speaks
// with its language backends and its callers. Backends return results in
// the coordinate space of the virtual document they were handed; the
// compose package rewrites them into composite-document coordinates.
package protocol

import "strings"

type DocumentURI string

// Path strips the file scheme prefix.
func (u DocumentURI) Path() string {
	return strings.TrimPrefix(strings.TrimPrefix(string(u), "file://"), "file:")
}

type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

type DiagnosticSeverity uint32

const (
	SeverityError DiagnosticSeverity = iota + 1
	SeverityWarning
	SeverityInformation
	SeverityHint
)

type Diagnostic struct {
	// Range is nil for compile-time errors that carry no location.
	Range    *Range             `json:"range,omitempty"`
	Severity DiagnosticSeverity `json:"severity,omitempty"`
	Source   string             `json:"source,omitempty"`
	Message  string             `json:"message"`
}

type CompletionItemKind uint32

const (
	KindText CompletionItemKind = iota + 1
	KindMethod
	KindFunction
	KindConstructor
	KindField
	KindVariable
	KindClass
	KindInterface
	KindModule
	KindProperty
	KindUnit
	KindValue
	KindEnum
	KindKeyword
	KindSnippet
	KindColor
	KindFile
	KindReference
	KindFolder
	KindEnumMember
	KindConstant
	KindStruct
	KindEvent
	KindOperator
	KindTypeParameter
)

type CompletionItem struct {
	Label         string             `json:"label"`
	Kind          CompletionItemKind `json:"kind,omitempty"`
	Detail        string             `json:"detail,omitempty"`
	Documentation string             `json:"documentation,omitempty"`
	SortText      string             `json:"sortText,omitempty"`
	FilterText    string             `json:"filterText,omitempty"`
	InsertText    string             `json:"insertText,omitempty"`
	// TextEdit is the insertion edit, positioned against the document the
	// completion was computed for.
	TextEdit *TextEdit `json:"textEdit,omitempty"`
}

type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

// Token is one semantic token in absolute coordinates. The relative
// uint32 encoding of the wire format is produced at the very edge, after
// all projection is done.
type Token struct {
	Range     Range  `json:"range"`
	Type      string `json:"type"`
	Modifiers uint32 `json:"modifiers"`
}

type InlayHint struct {
	Position Position `json:"position"`
	Label    string   `json:"label"`
}

type FormattingOptions struct {
	TabSize      int  `json:"tabSize"`
	InsertSpaces bool `json:"insertSpaces"`
}

// IndentString is the single-level indentation unit the options describe.
func (o FormattingOptions) IndentString() string {
	if !o.InsertSpaces {
		return "\t"
	}
	if o.TabSize <= 0 {
		return "  "
	}
	return strings.Repeat(" ", o.TabSize)
}
