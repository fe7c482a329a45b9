// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package conf

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// ParseListLiteral parses a list of quoted strings written like "['test', "train"]".
// Elements may be quoted with single or double quotes; a backslash escapes the next
// character. A trailing comma is allowed and "[]" yields an empty list.
func ParseListLiteral(literal string) ([]string, error) {
	p := &listParser{input: []rune(strings.TrimSpace(literal))}
	return p.parse()
}

// FormatListLiteral renders given elements as a list literal accepted by ParseListLiteral.
func FormatListLiteral(elems []string) string {
	quoted := make([]string, 0, len(elems))
	for _, elem := range elems {
		escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(elem)
		quoted = append(quoted, "'"+escaped+"'")
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

type listParser struct {
	input []rune
	pos   int
}

func (p *listParser) parse() ([]string, error) {
	if !p.consume('[') {
		return nil, errors.New("list literal has to start with '['")
	}

	list := []string{}
	for {
		p.skipSpaces()
		if p.consume(']') {
			break
		}

		elem, err := p.quoted()
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", len(list))
		}
		list = append(list, elem)

		p.skipSpaces()
		if p.consume(']') {
			break
		}
		if !p.consume(',') {
			return nil, errors.Errorf("expected ',' or ']' at position %d", p.pos)
		}
	}

	p.skipSpaces()
	if p.pos != len(p.input) {
		return nil, errors.Errorf("unexpected %q after the end of the list", string(p.input[p.pos:]))
	}

	return list, nil
}

func (p *listParser) quoted() (string, error) {
	if p.pos >= len(p.input) {
		return "", errors.New("unexpected end of input")
	}

	quote := p.input[p.pos]
	if quote != '\'' && quote != '"' {
		return "", errors.Errorf("expected quoted string at position %d", p.pos)
	}
	p.pos++

	var elem strings.Builder
	for p.pos < len(p.input) {
		r := p.input[p.pos]
		p.pos++
		switch {
		case r == '\\' && p.pos < len(p.input):
			elem.WriteRune(p.input[p.pos])
			p.pos++
		case r == quote:
			return elem.String(), nil
		default:
			elem.WriteRune(r)
		}
	}

	return "", errors.New("unterminated string")
}

func (p *listParser) consume(r rune) bool {
	if p.pos < len(p.input) && p.input[p.pos] == r {
		p.pos++
		return true
	}
	return false
}

func (p *listParser) skipSpaces() {
	for p.pos < len(p.input) && unicode.IsSpace(p.input[p.pos]) {
		p.pos++
	}
}
