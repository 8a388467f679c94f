package builtins

import (
	"strconv"
	"strings"

	"ivory/object"
)

// renderTemplate implements the brace-style mini-language permitted by
// spec.md §4.6: `{}` consumes the next positional arg in order, `{N}`
// selects arg N explicitly, and a `:` spec after the index/empty
// selector may carry a `<`/`>` justification, a width, and a radix
// specifier (`b`, `o`, `x`, `X`) for Number arguments.
//
// Grammar of one placeholder's body: [index] [':' [just] [width] [radix]]
func renderTemplate(tmpl string, args []object.Value) (string, error) {
	var out strings.Builder
	auto := 0

	i := 0
	for i < len(tmpl) {
		ch := tmpl[i]
		if ch == '{' {
			end := strings.IndexByte(tmpl[i:], '}')
			if end == -1 {
				return "", newError("unterminated placeholder in format template")
			}
			body := tmpl[i+1 : i+end]
			rendered, nextAuto, err := renderPlaceholder(body, args, auto)
			if err != nil {
				return "", err
			}
			out.WriteString(rendered)
			auto = nextAuto
			i += end + 1
			continue
		}
		out.WriteByte(ch)
		i++
	}

	return out.String(), nil
}

func renderPlaceholder(body string, args []object.Value, auto int) (string, int, error) {
	indexPart := body
	specPart := ""
	if colon := strings.IndexByte(body, ':'); colon != -1 {
		indexPart = body[:colon]
		specPart = body[colon+1:]
	}

	index := auto
	nextAuto := auto + 1
	if indexPart != "" {
		parsed, err := strconv.Atoi(indexPart)
		if err != nil {
			return "", auto, newError("invalid placeholder index %q", indexPart)
		}
		index = parsed
		nextAuto = auto // an explicit index does not consume an auto slot
	}

	if index < 0 || index >= len(args) {
		return "", auto, newError("placeholder index %d out of range (have %d args)", index, len(args))
	}

	rendered, err := applySpec(args[index], specPart)
	if err != nil {
		return "", auto, err
	}
	return rendered, nextAuto, nil
}

func applySpec(value object.Value, spec string) (string, error) {
	justify := byte(0) // '<' or '>'
	width := 0
	radix := 0

	i := 0
	if i < len(spec) && (spec[i] == '<' || spec[i] == '>') {
		justify = spec[i]
		i++
	}
	widthStart := i
	for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
		i++
	}
	if i > widthStart {
		w, err := strconv.Atoi(spec[widthStart:i])
		if err != nil {
			return "", newError("invalid format width %q", spec[widthStart:i])
		}
		width = w
	}
	if i < len(spec) {
		switch spec[i] {
		case 'b':
			radix = 2
		case 'o':
			radix = 8
		case 'x':
			radix = 16
		case 'X':
			radix = -16 // uppercase hex
		default:
			return "", newError("unknown format specifier %q", spec[i:])
		}
		i++
	}

	text, err := renderValue(value, radix)
	if err != nil {
		return "", err
	}

	if width > len(text) {
		pad := strings.Repeat(" ", width-len(text))
		if justify == '<' {
			text += pad
		} else {
			// default justification (no explicit '<') is right-aligned
			text = pad + text
		}
	}

	return text, nil
}

func renderValue(value object.Value, radix int) (string, error) {
	if radix == 0 {
		return value.Inspect(), nil
	}

	num, ok := value.(*object.Number)
	if !ok {
		return "", newError("radix format specifier requires a Number argument, got %s", value.Type())
	}

	n := int64(num.Value)
	switch radix {
	case 2:
		return strconv.FormatInt(n, 2), nil
	case 8:
		return strconv.FormatInt(n, 8), nil
	case 16:
		return strconv.FormatInt(n, 16), nil
	case -16:
		return strings.ToUpper(strconv.FormatInt(n, 16)), nil
	}
	return "", newError("unsupported radix %d", radix)
}
