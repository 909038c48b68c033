// Package parser provides an error-tolerant parser for OneScript source code.
//
// # Overview
//
// OneScript keywords have a Latin and a Cyrillic spelling, matched without
// regard to case. Both spellings may be mixed freely, even inside a single
// construct:
//
//	Если a > 0 Then
//	    Сообщить("positive");
//	EndIf;
//
// The parser turns source text into a tree of Nodes rooted at a source_file
// node, plus an ordered list of Diagnostics.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (tree)    │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │                   │
//	                           ▼                   ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │  Keyword    │     │ Diagnostics │
//	                    │  Table      │     │  & Errors   │
//	                    └─────────────┘     └─────────────┘
//
// The lexer never resolves keywords, apart from the literal keywords Null,
// Undefined, True and False, which become their own token kinds. Every
// other keyword is an identifier token; the parser probes the keyword table
// only at positions where a keyword may appear. An identifier that happens to
// spell a keyword stays an identifier everywhere else, so "For each = 1 To 3"
// is a counted loop over a variable named each.
//
// # Usage
//
//	p := parser.ParseSourceFile(r, parser.WithFile("main.os"))
//	tree := p.Finish()
//	if err := p.Err(); err != nil {
//	    // err is an ErrorList; tree is still usable
//	}
//
// # Source Context
//
// Every node carries a Span. Positions hold a byte offset, a 1-based line
// and a 1-based column counted in runes. Span.End is exclusive.
//
// # Fields
//
// Children that play a named role carry it in Node.Field: func_name,
// proc_name, type_name, target and value are stable attachment points, next
// to condition, body, left, operator, right, operand, object, property,
// index, arguments, default, variable, iterable, from, to, then, else,
// event, handler and name.
//
// # Error Recovery
//
// The parser never stops at the first error. A failure produces an error
// node at the failure point and a Diagnostic, then parsing resumes:
//
//  1. Statement-level: skip to the next ';' or to a keyword that opens or
//     closes a block
//  2. Block-level: a missing closing keyword is reported at the token that
//     ended the block; a closer that belongs to an enclosing construct is left
//     for that construct
//  3. Expression-level: a zero-width error node stands in for a missing
//     operand
//
// Finish always returns a tree. Err returns nil only when no diagnostic was
// produced.
//
// # Concurrency
//
// A Parser is not safe for concurrent use. The keyword table is built once at
// package initialization and never modified, so separate Parsers may run in
// parallel.
package parser
