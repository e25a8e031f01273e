package annotation

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MetaInfo identifies who is speaking in a document and about what.
type MetaInfo struct {
	ID      int64  `json:"id"`
	Speaker string `json:"speaker"`
	Topic   string `json:"topic"`
}

// parseMetaInfo reads the meta_info column, a Python mapping literal such as
// {'speaker': 'A', 'topic': 'travel'}. String literals are unescaped with
// Python rules and re-quoted as YAML double-quoted scalars, then the result
// is parsed as a YAML flow mapping. Bare scalars must be Python literals:
// None, True, False or a number.
func parseMetaInfo(raw string) (speaker, topic string, err error) {
	src, err := pyStringsToYAML(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: meta_info: %v", ErrParse, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return "", "", fmt.Errorf("%w: meta_info: %v", ErrParse, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return "", "", fmt.Errorf("%w: meta_info is not a mapping", ErrParse)
	}
	v, err := pyValue(doc.Content[0])
	if err != nil {
		return "", "", fmt.Errorf("%w: meta_info: %v", ErrParse, err)
	}
	m := v.(map[string]any)
	if speaker, err = metaString(m, "speaker"); err != nil {
		return "", "", err
	}
	if topic, err = metaString(m, "topic"); err != nil {
		return "", "", err
	}
	return speaker, topic, nil
}

func metaString(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("%w: meta_info has no %q", ErrParse, key)
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case nil:
		return "", nil
	case bool:
		if t {
			return "True", nil
		}
		return "False", nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return FormatSeconds(t), nil
	default:
		return "", fmt.Errorf("%w: meta_info %q is not a scalar", ErrParse, key)
	}
}

// pyValue converts a parsed node into Go values following Python literal
// semantics.
func pyValue(n *yaml.Node) (any, error) {
	if n.Style&yaml.TaggedStyle != 0 || n.Anchor != "" {
		return nil, fmt.Errorf("line %d: unexpected %q", n.Line, n.Tag)
	}
	switch n.Kind {
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := pyValue(n.Content[i])
			if err != nil {
				return nil, err
			}
			v, err := pyValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			if ks, ok := k.(string); ok {
				m[ks] = v
			}
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, len(n.Content))
		for i, c := range n.Content {
			v, err := pyValue(c)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case yaml.ScalarNode:
		if n.Style&yaml.DoubleQuotedStyle != 0 {
			return n.Value, nil
		}
		if n.Style == 0 {
			return pyScalar(n.Value, n.Line)
		}
	}
	return nil, fmt.Errorf("line %d: unsupported value %q", n.Line, n.Value)
}

func pyScalar(s string, line int) (any, error) {
	switch s {
	case "None":
		return nil, nil
	case "True":
		return true, nil
	case "False":
		return false, nil
	}
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return i, nil
	}
	if s != "" && strings.Trim(s, "0123456789.eE+-_") == "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, nil
		}
	}
	return nil, fmt.Errorf("line %d: %q is not a literal", line, s)
}

// pyStringsToYAML rewrites every Python string literal in src as a YAML
// double-quoted scalar holding the same text. Everything outside string
// literals is copied unchanged.
func pyStringsToYAML(src string) (string, error) {
	var b strings.Builder
	rs := []rune(src)
	for i := 0; i < len(rs); i++ {
		q := rs[i]
		if q != '\'' && q != '"' {
			b.WriteRune(q)
			continue
		}
		s, end, err := unquotePy(rs, i)
		if err != nil {
			return "", err
		}
		b.WriteString(strconv.Quote(s))
		i = end
	}
	return b.String(), nil
}

// unquotePy decodes the string literal opening at rs[start] and returns its
// value and the index of the closing quote.
func unquotePy(rs []rune, start int) (string, int, error) {
	q := rs[start]
	var b strings.Builder
	for i := start + 1; i < len(rs); i++ {
		c := rs[i]
		switch {
		case c == q:
			return b.String(), i, nil
		case c == '\n':
			return "", 0, fmt.Errorf("newline in string literal at offset %d", i)
		case c != '\\':
			b.WriteRune(c)
			continue
		}
		if i+1 >= len(rs) {
			break
		}
		i++
		switch e := rs[i]; e {
		case '\n':
		case '\\', '\'', '"':
			b.WriteRune(e)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case 'x', 'u', 'U':
			width := map[rune]int{'x': 2, 'u': 4, 'U': 8}[e]
			if i+width >= len(rs) {
				return "", 0, fmt.Errorf("truncated \\%c escape at offset %d", e, i)
			}
			n, err := strconv.ParseUint(string(rs[i+1:i+1+width]), 16, 32)
			if err != nil {
				return "", 0, fmt.Errorf("invalid \\%c escape at offset %d", e, i)
			}
			b.WriteRune(rune(n))
			i += width
		case '0', '1', '2', '3', '4', '5', '6', '7':
			n := 0
			j := i
			for ; j < len(rs) && j < i+3 && rs[j] >= '0' && rs[j] <= '7'; j++ {
				n = n*8 + int(rs[j]-'0')
			}
			b.WriteRune(rune(n))
			i = j - 1
		default:
			// unknown escapes keep their backslash
			b.WriteRune('\\')
			b.WriteRune(e)
		}
	}
	return "", 0, fmt.Errorf("unterminated string literal at offset %d", start)
}
