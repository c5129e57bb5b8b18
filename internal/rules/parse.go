package rules

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// parser tokenizes a rules file line by line: a token is a maximal run of
// non-whitespace, "#" starts a comment to end-of-line, and blank lines are
// skipped (§4.1, §6.1).
type parser struct {
	scanner   *bufio.Scanner
	tokens    []string
	line      string
	lineCount int
	name      string
}

func newParser(name string, f *os.File) *parser {
	return &parser{scanner: bufio.NewScanner(f), name: name}
}

func (p *parser) syntaxError() error {
	if p.line == "" {
		return fmt.Errorf("Syntax error in rules file line %d: unexpected end of file", p.lineCount)
	}
	return fmt.Errorf("Syntax error in rules file line %d: %s", p.lineCount, p.line)
}

func tokenize(line string) []string {
	var tokens []string
	for _, tok := range strings.Fields(line) {
		if strings.HasPrefix(tok, "#") {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// nextLine advances to the next non-blank, non-comment-only line. It returns
// false at end of file.
func (p *parser) nextLine() bool {
	for p.scanner.Scan() {
		p.lineCount++
		p.line = p.scanner.Text()
		p.tokens = tokenize(p.line)
		if len(p.tokens) > 0 {
			return true
		}
	}
	p.line = ""
	p.tokens = nil
	return false
}

func parseSingleInt(tokens []string, stmt string, value *int) bool {
	if len(tokens) == 2 && tokens[0] == stmt {
		n, err := strconv.Atoi(tokens[1])
		if err != nil {
			return false
		}
		*value = n
		return true
	}
	return false
}

func parseIntVect(tokens []string, stmt string, value *[]int) bool {
	if len(tokens) >= 2 && tokens[0] == stmt {
		vec := make([]int, len(tokens)-1)
		for i := 1; i < len(tokens); i++ {
			n, err := strconv.Atoi(tokens[i])
			if err != nil {
				return false
			}
			vec[i-1] = n
		}
		*value = vec
		return true
	}
	return false
}

func (p *parser) parseBram() (*BramDesc, error) {
	if len(p.tokens) != 2 {
		return nil, p.syntaxError()
	}
	data := &BramDesc{Name: p.tokens[1]}

	for p.nextLine() {
		if len(p.tokens) == 1 && p.tokens[0] == "endbram" {
			return data, nil
		}

		switch {
		case parseSingleInt(p.tokens, "groups", &data.Groups):
		case parseSingleInt(p.tokens, "abits", &data.Abits):
		case parseSingleInt(p.tokens, "dbits", &data.Dbits):
		case len(p.tokens) == 2 && p.tokens[0] == "init":
			n, err := strconv.Atoi(p.tokens[1])
			if err != nil {
				return nil, p.syntaxError()
			}
			data.Init = n != 0
		case parseIntVect(p.tokens, "ports", &data.Ports):
		case parseIntVect(p.tokens, "wrmode", &data.Wrmode):
		case parseIntVect(p.tokens, "enable", &data.Enable):
		case parseIntVect(p.tokens, "transp", &data.Transp):
		case parseIntVect(p.tokens, "clocks", &data.Clocks):
		case parseIntVect(p.tokens, "clkpol", &data.Clkpol):
		default:
			return nil, p.syntaxError()
		}
	}

	return nil, p.syntaxError()
}

func (p *parser) parseMatch() (*MatchRule, error) {
	if len(p.tokens) != 2 {
		return nil, p.syntaxError()
	}
	data := &MatchRule{Name: p.tokens[1]}

	for p.nextLine() {
		if len(p.tokens) == 1 && p.tokens[0] == "endmatch" {
			return data, nil
		}

		if len(p.tokens) == 3 && (p.tokens[0] == "min" || p.tokens[0] == "max") {
			value, err := strconv.Atoi(p.tokens[2])
			if err != nil {
				return nil, p.syntaxError()
			}
			limit := Limit{Prop: p.tokens[1], Value: value}
			if p.tokens[0] == "min" {
				data.MinLimits = append(data.MinLimits, limit)
			} else {
				data.MaxLimits = append(data.MaxLimits, limit)
			}
			continue
		}

		return nil, p.syntaxError()
	}

	return nil, p.syntaxError()
}

// Parse reads and parses a rules file, returning a Library on success, or a
// ConfigError-shaped error (unreadable file or syntax error) otherwise.
func Parse(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Can't open rules file %q: %w", path, err)
	}
	defer f.Close()

	lib := NewLibrary()
	p := newParser(path, f)

	for p.nextLine() {
		switch p.tokens[0] {
		case "bram":
			desc, err := p.parseBram()
			if err != nil {
				return nil, err
			}
			lib.Brams[desc.Name] = desc
		case "match":
			match, err := p.parseMatch()
			if err != nil {
				return nil, err
			}
			lib.Matches = append(lib.Matches, *match)
		default:
			return nil, p.syntaxError()
		}
	}

	if err := p.scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading rules file %q: %w", path, err)
	}

	return lib, nil
}

// Validate checks that every match rule names a known BRAM descriptor,
// mirroring the ConfigError the original tool raises lazily the first time
// handle_cell reaches an undefined resource.
func (l *Library) Validate() error {
	for i, m := range l.Matches {
		if _, ok := l.Brams[m.Name]; !ok {
			return fmt.Errorf("no bram description for resource %q found (match rule #%d)", m.Name, i)
		}
	}
	return nil
}
