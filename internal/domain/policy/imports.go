package policy

import (
	"path"
	"regexp"
	"sort"
	"strings"
)

// SourceKind classifies a file by the import syntax it uses.
type SourceKind int

const (
	KindUnknown SourceKind = iota
	KindPython
	KindJS
)

func (k SourceKind) String() string {
	switch k {
	case KindPython:
		return "python"
	case KindJS:
		return "js"
	default:
		return "unknown"
	}
}

var kindByExt = map[string]SourceKind{
	".py":  KindPython,
	".pyi": KindPython,
	".js":  KindJS,
	".jsx": KindJS,
	".mjs": KindJS,
	".cjs": KindJS,
	".ts":  KindJS,
	".tsx": KindJS,
	".mts": KindJS,
	".cts": KindJS,
}

// KindForPath returns the source kind for a file path by extension,
// ignoring case.
func KindForPath(p string) SourceKind {
	return kindByExt[strings.ToLower(path.Ext(strings.ReplaceAll(p, "\\", "/")))]
}

// ImportRef is one imported module found in a file.
type ImportRef struct {
	Target string // module specifier, e.g. "src.db.session", "..db" or "@/components/Button"
	Line   int    // 1-based
	Text   string // the statement, comments stripped

	// From and Names describe Python "from X import a, b" statements.
	From  bool
	Names []string
}

var (
	pyImport     = regexp.MustCompile(`^import\s+(.+)$`)
	pyFromImport = regexp.MustCompile(`^from\s+(\.*[\w.]*)\s+import\b(.*)$`)

	jsStatement  = regexp.MustCompile(`^(?:(?:import|export)\b|\})`)
	jsFrom       = regexp.MustCompile(`\bfrom\s*['"]([^'"]+)['"]`)
	jsSideEffect = regexp.MustCompile(`^import\s*['"]([^'"]+)['"]`)
	jsCalls      = []*regexp.Regexp{
		regexp.MustCompile(`\brequire\s*\(\s*['"]([^'"]+)['"]\s*\)`),
		regexp.MustCompile(`\bimport\s*\(\s*['"]([^'"]+)['"]\s*\)`),
	}
)

// ParseImports extracts import targets line by line. It is a shallow scan:
// comments and string literals are skipped, nothing is resolved.
func ParseImports(kind SourceKind, content string) []ImportRef {
	var refs []ImportRef
	var py pyScanner
	var js jsScanner
	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		switch kind {
		case KindPython:
			for _, stmt := range py.statements(line) {
				refs = appendPython(refs, stmt, i+1)
			}
		case KindJS:
			refs = js.appendLine(refs, line, i+1)
		}
	}
	return refs
}

func appendPython(refs []ImportRef, stmt string, n int) []ImportRef {
	if m := pyFromImport.FindStringSubmatch(stmt); m != nil {
		return append(refs, ImportRef{Target: m[1], Line: n, Text: stmt, From: true, Names: importedNames(m[2])})
	}
	if m := pyImport.FindStringSubmatch(stmt); m != nil {
		for _, part := range strings.Split(m[1], ",") {
			fields := strings.Fields(part)
			if len(fields) == 0 {
				continue
			}
			refs = append(refs, ImportRef{Target: fields[0], Line: n, Text: "import " + fields[0]})
		}
	}
	return refs
}

// importedNames returns the names bound by the tail of a from-import,
// without aliases. "*" binds nothing nameable.
func importedNames(tail string) []string {
	tail = strings.NewReplacer("(", " ", ")", " ", "\\", " ").Replace(tail)
	var names []string
	for _, part := range strings.Split(tail, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 || fields[0] == "*" {
			continue
		}
		names = append(names, fields[0])
	}
	return names
}

// pyScanner splits Python source lines into statements. It remembers an
// open triple-quoted string between lines so docstrings are never read as
// code.
type pyScanner struct {
	triple string
}

func (sc *pyScanner) statements(line string) []string {
	i := 0
	if sc.triple != "" {
		end := strings.Index(line, sc.triple)
		if end < 0 {
			return nil
		}
		i = end + len(sc.triple)
		sc.triple = ""
	}

	var stmts []string
	start, quote := i, ""
scan:
	for i < len(line) {
		c := line[i]
		switch {
		case quote != "":
			if c == '\\' {
				i += 2
				continue
			}
			if strings.HasPrefix(line[i:], quote) {
				i += len(quote)
				quote = ""
				continue
			}
			i++
		case strings.HasPrefix(line[i:], `"""`) || strings.HasPrefix(line[i:], `'''`):
			quote = line[i : i+3]
			i += 3
		case c == '"' || c == '\'':
			quote = string(c)
			i++
		case c == '#':
			break scan
		case c == ';':
			stmts = append(stmts, line[start:i])
			i++
			start = i
		default:
			i++
		}
	}
	if i > len(line) {
		i = len(line)
	}
	stmts = append(stmts, line[start:i])
	if len(quote) == 3 {
		sc.triple = quote
	}

	out := stmts[:0]
	for _, s := range stmts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// jsScanner reads JS/TS source one line at a time. It carries block
// comments and template literals across lines, and remembers an import or
// export list left open so its "from" line is still recognized.
type jsScanner struct {
	inComment   bool
	inTemplate  bool
	pendingFrom bool
}

func (sc *jsScanner) appendLine(refs []ImportRef, line string, n int) []ImportRef {
	code, inString := sc.code(line)
	stmt := strings.TrimSpace(code)
	if stmt == "" {
		return refs
	}

	type hit struct {
		pos    int
		target string
	}
	var hits []hit
	seen := map[int]bool{}
	add := func(loc []int) {
		if inString[loc[0]] || seen[loc[2]] {
			return
		}
		seen[loc[2]] = true
		hits = append(hits, hit{pos: loc[2], target: code[loc[2]:loc[3]]})
	}

	statement := jsStatement.MatchString(stmt)
	foundFrom := false
	if statement || sc.pendingFrom {
		for _, loc := range jsFrom.FindAllStringSubmatchIndex(code, -1) {
			if !inString[loc[0]] {
				foundFrom = true
			}
			add(loc)
		}
	}
	if loc := jsSideEffect.FindStringSubmatchIndex(code); loc != nil {
		add(loc)
	}
	for _, re := range jsCalls {
		for _, loc := range re.FindAllStringSubmatchIndex(code, -1) {
			add(loc)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	switch {
	case foundFrom || strings.Contains(code, ";"):
		sc.pendingFrom = false
	case strings.HasPrefix(stmt, "import") || strings.HasPrefix(stmt, "export"):
		sc.pendingFrom = strings.Contains(stmt, "{") && !strings.Contains(stmt, "}")
	}

	for _, h := range hits {
		refs = append(refs, ImportRef{Target: h.target, Line: n, Text: stmt})
	}
	return refs
}

// code returns line without comments, plus a flag per byte of the result
// marking bytes inside a string or template literal.
func (sc *jsScanner) code(line string) (string, []bool) {
	var b strings.Builder
	var inString []bool
	emit := func(c byte, str bool) {
		b.WriteByte(c)
		inString = append(inString, str)
	}

	var quote byte
	if sc.inTemplate {
		quote = '`'
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case sc.inComment:
			if strings.HasPrefix(line[i:], "*/") {
				sc.inComment = false
				i++
			}
		case quote != 0:
			emit(c, true)
			if c == '\\' && i+1 < len(line) {
				i++
				emit(line[i], true)
				continue
			}
			if c == quote {
				quote = 0
			}
		case strings.HasPrefix(line[i:], "//"):
			i = len(line)
		case strings.HasPrefix(line[i:], "/*"):
			sc.inComment = true
			i++
		case c == '\'' || c == '"' || c == '`':
			quote = c
			emit(c, true)
		default:
			emit(c, false)
		}
	}
	sc.inTemplate = quote == '`'
	return b.String(), inString
}
