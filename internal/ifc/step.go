package ifc

import (
	"fmt"
	"strconv"
	"strings"
)

// A STEP physical file is a list of instance statements:
//
//	#12=IFCSPACE('2O2Fr$t4X7Zf8NOew3FLOH',#5,'001',$,'Office',#13,#14,'Ufficio 001',.ELEMENT.,.INTERNAL.,$);
//
// Only the handful of entity types the import flow needs are interpreted;
// everything else is kept as an uninspected raw statement.

type instance struct {
	id   int
	typ  string
	args []string
}

// parseStatements splits the DATA section into instance statements. Statements
// may span lines and contain ';' inside quoted strings, so the split walks the
// text instead of scanning lines.
func parseStatements(data string) ([]instance, error) {
	var out []instance
	inString := false
	start := 0
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c == '\'' {
			// STEP escapes a quote by doubling it; a doubled quote keeps
			// the string open.
			if inString && i+1 < len(data) && data[i+1] == '\'' {
				i++
				continue
			}
			inString = !inString
			continue
		}
		if c == ';' && !inString {
			stmt := strings.TrimSpace(data[start:i])
			start = i + 1
			if stmt == "" {
				continue
			}
			inst, ok, err := parseStatement(stmt)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, inst)
			}
		}
	}
	return out, nil
}

// parseStatement decodes one "#id=TYPE(args)" statement. Non-instance lines
// (header remnants, comments) are skipped.
func parseStatement(stmt string) (instance, bool, error) {
	if !strings.HasPrefix(stmt, "#") {
		return instance{}, false, nil
	}
	eq := strings.IndexByte(stmt, '=')
	if eq < 0 {
		return instance{}, false, nil
	}
	id, err := strconv.Atoi(strings.TrimSpace(stmt[1:eq]))
	if err != nil {
		return instance{}, false, fmt.Errorf("bad instance id in %q: %w", truncate(stmt), err)
	}
	rest := strings.TrimSpace(stmt[eq+1:])
	open := strings.IndexByte(rest, '(')
	if open < 0 || !strings.HasSuffix(rest, ")") {
		return instance{}, false, fmt.Errorf("malformed instance #%d: %q", id, truncate(stmt))
	}
	typ := strings.ToUpper(strings.TrimSpace(rest[:open]))
	args := splitArgs(rest[open+1 : len(rest)-1])
	return instance{id: id, typ: typ, args: args}, true, nil
}

// splitArgs splits an argument list on top-level commas, respecting nested
// parentheses and quoted strings.
func splitArgs(s string) []string {
	var args []string
	depth := 0
	inString := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\'' {
			if inString && i+1 < len(s) && s[i+1] == '\'' {
				i++
				continue
			}
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" || len(args) > 0 {
		args = append(args, tail)
	}
	return args
}

// argString decodes a quoted STEP string argument. "$" and "*" decode to "".
func argString(arg string) string {
	if len(arg) < 2 || arg[0] != '\'' || arg[len(arg)-1] != '\'' {
		return ""
	}
	return strings.ReplaceAll(arg[1:len(arg)-1], "''", "'")
}

// argRef decodes an entity reference "#123". Returns 0 when the argument is
// not a reference.
func argRef(arg string) int {
	if !strings.HasPrefix(arg, "#") {
		return 0
	}
	id, err := strconv.Atoi(arg[1:])
	if err != nil {
		return 0
	}
	return id
}

// argRefList decodes a "(#1,#2,...)" aggregate into entity ids.
func argRefList(arg string) []int {
	if len(arg) < 2 || arg[0] != '(' || arg[len(arg)-1] != ')' {
		return nil
	}
	parts := splitArgs(arg[1 : len(arg)-1])
	refs := make([]int, 0, len(parts))
	for _, p := range parts {
		if id := argRef(p); id != 0 {
			refs = append(refs, id)
		}
	}
	return refs
}

// argValue decodes a property value. STEP wraps typed values in a select such
// as IFCLABEL('x'), IFCBOOLEAN(.T.) or IFCAREAMEASURE(23.5); bare literals
// appear as well. Unknown shapes decode to the raw text.
func argValue(arg string) any {
	arg = strings.TrimSpace(arg)
	if arg == "" || arg == "$" || arg == "*" {
		return nil
	}
	// Unwrap one level of typed select.
	if open := strings.IndexByte(arg, '('); open > 0 && strings.HasSuffix(arg, ")") && !strings.HasPrefix(arg, "(") {
		return argValue(arg[open+1 : len(arg)-1])
	}
	if strings.HasPrefix(arg, "'") {
		return argString(arg)
	}
	switch arg {
	case ".T.":
		return true
	case ".F.":
		return false
	}
	if strings.HasPrefix(arg, ".") && strings.HasSuffix(arg, ".") {
		// Enumeration literal, e.g. .ELEMENT.
		return strings.Trim(arg, ".")
	}
	if f, err := strconv.ParseFloat(arg, 64); err == nil {
		return f
	}
	return arg
}

func truncate(s string) string {
	if len(s) > 80 {
		return s[:80] + "..."
	}
	return s
}
