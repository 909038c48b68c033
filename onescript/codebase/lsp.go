package codebase

import (
	"context"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/dhamidi/onescript/onescript/parser"
	"github.com/dhamidi/onescript/project"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "onescript"

var lspLog = commonlog.GetLogger("onescript.lsp")

type LSPServer struct {
	codebase *Codebase
	handler  protocol.Handler
	server   *server.Server
	version  string
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentCompletion:     ls.textDocumentCompletion,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	proj, err := project.LoadFrom(rootDir)
	if err != nil {
		lspLog.Warningf("load project: %v, using defaults", err)
		proj = &project.Project{RootDir: rootDir, Config: project.DefaultConfig()}
	}
	ls.codebase = New(proj)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	go func() {
		if err := ls.codebase.ScanAll(context.Background()); err != nil {
			lspLog.Errorf("scan workspace: %v", err)
		}
	}()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	info := ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publishDiagnostics(ctx, params.TextDocument.URI, info)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			info := ls.codebase.UpdateFile(path, []byte(textChange.Text))
			ls.publishDiagnostics(ctx, params.TextDocument.URI, info)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	var info *FileInfo
	if params.Text != nil {
		info = ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else if info, err = ls.codebase.ScanFile(path); err != nil {
		lspLog.Warningf("%v", err)
		return nil
	}
	ls.publishDiagnostics(ctx, params.TextDocument.URI, info)
	return nil
}

func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, info *FileInfo) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: toProtocolDiagnostics(info),
	})
}

func toProtocolDiagnostics(info *FileInfo) []protocol.Diagnostic {
	result := make([]protocol.Diagnostic, 0, len(info.Diagnostics))
	source := lsName
	for _, d := range info.Diagnostics {
		severity := protocol.DiagnosticSeverityError
		if d.Severity == parser.SeverityWarning {
			severity = protocol.DiagnosticSeverityWarning
		}
		code := protocol.IntegerOrString{Value: d.Kind.String()}
		result = append(result, protocol.Diagnostic{
			Range:    toProtocolRange(info.Content, d.Span),
			Severity: &severity,
			Code:     &code,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return result
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	file := ls.codebase.GetFile(path)
	if file == nil {
		return nil, nil
	}

	var symbols []protocol.DocumentSymbol
	for _, sym := range ls.codebase.Symbols(path) {
		detail := sym.Detail
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           sym.Name,
			Detail:         &detail,
			Kind:           toProtocolSymbolKind(sym.Kind),
			Range:          toProtocolRange(file.Content, sym.Span),
			SelectionRange: toProtocolRange(file.Content, sym.NameSpan),
		})
	}
	return symbols, nil
}

func toProtocolSymbolKind(kind SymbolKind) protocol.SymbolKind {
	switch kind {
	case SymbolFunction:
		return protocol.SymbolKindFunction
	case SymbolProcedure:
		return protocol.SymbolKindMethod
	default:
		return protocol.SymbolKindVariable
	}
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	var items []protocol.CompletionItem
	for _, c := range Completions(ls.codebase.Symbols(path)) {
		kind := toProtocolKind(c.Kind)
		detail := c.Detail
		items = append(items, protocol.CompletionItem{
			Label:  c.Label,
			Kind:   &kind,
			Detail: &detail,
		})
	}
	return items, nil
}

type CompletionKind int

const (
	CompletionKindKeyword CompletionKind = iota
	CompletionKindMethod
	CompletionKindVariable
)

type CompletionItem struct {
	Label  string
	Kind   CompletionKind
	Detail string
}

// Completions offers every keyword in both spellings followed by the
// methods and module variables among symbols.
func Completions(symbols []Symbol) []CompletionItem {
	var items []CompletionItem
	for _, kw := range parser.Keywords() {
		if kw == parser.KeywordForEach {
			continue
		}
		seen := make(map[string]bool)
		for _, s := range kw.Spellings() {
			if seen[s] {
				continue
			}
			seen[s] = true
			items = append(items, CompletionItem{Label: s, Kind: CompletionKindKeyword, Detail: kw.String()})
		}
	}

	var declared []CompletionItem
	for _, sym := range symbols {
		item := CompletionItem{Label: sym.Name, Kind: CompletionKindVariable, Detail: sym.Kind.String()}
		if sym.Kind != SymbolVariable {
			item.Kind = CompletionKindMethod
			item.Detail = sym.Detail
		}
		declared = append(declared, item)
	}
	sort.SliceStable(declared, func(i, j int) bool { return declared[i].Label < declared[j].Label })

	return append(items, declared...)
}

func toProtocolKind(kind CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case CompletionKindMethod:
		return protocol.CompletionItemKindMethod
	case CompletionKindVariable:
		return protocol.CompletionItemKindVariable
	default:
		return protocol.CompletionItemKindKeyword
	}
}

func toProtocolRange(content []byte, span parser.Span) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(content, span.Start),
		End:   toProtocolPosition(content, span.End),
	}
}

// toProtocolPosition converts a parser position to a 0-based line and a
// character offset counted in UTF-16 code units.
func toProtocolPosition(content []byte, pos parser.Position) protocol.Position {
	offset := pos.Offset
	if offset > len(content) {
		offset = len(content)
	}
	if offset < 0 {
		offset = 0
	}
	lineStart := strings.LastIndexByte(string(content[:offset]), '\n') + 1

	character := 0
	for rest := content[lineStart:offset]; len(rest) > 0; {
		r, size := utf8.DecodeRune(rest)
		character += len(utf16.Encode([]rune{r}))
		rest = rest[size:]
	}

	line := pos.Line - 1
	if line < 0 {
		line = 0
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(character)}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
