package fill

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/usestring/formpilot-mcp/pkg/match"
	"github.com/usestring/formpilot-mcp/pkg/page"
	"github.com/usestring/formpilot-mcp/pkg/types"
)

// Control selectors, queried inside the question element.
const (
	selText     = `input[type="text"], input[type="email"], textarea`
	selRadio    = `[role="radio"]`
	selCheckbox = `[role="checkbox"]`
	selDropdown = `select, [role="combobox"], [role="listbox"]`
	selOption   = `option, [role="option"]`
)

// errListAnswer is returned when a single-choice question gets a list.
var errListAnswer = errors.New("answer must be a single string, got a list")

var digitRun = regexp.MustCompile(`\d+`)

// result is what a filler did. intended is the state the verification pass
// expects to read back.
type result struct {
	status   string
	detail   string
	warning  string
	intended []string
}

func noMatch(format string, args ...any) result {
	return result{status: types.StatusNoMatch, detail: fmt.Sprintf(format, args...)}
}

func filled(intended ...string) result {
	return result{status: types.StatusFilled, intended: intended}
}

// fillText assigns the answer directly. A list answer is joined with commas,
// as a DOM value assignment would stringify it.
func fillText(el page.Element, answer types.Answer) (result, error) {
	input, ok := el.Query(selText)
	if !ok {
		return noMatch("no text control"), nil
	}

	text := answer.String()
	if answer.IsList() {
		text = strings.Join(answer.Values(), ",")
	}

	input.Focus()
	input.SetValue(text)
	input.Dispatch(page.EventInput)
	input.Dispatch(page.EventChange)
	input.Blur()
	return filled(text), nil
}

// fillMultipleChoice activates the first radio whose label matches.
func fillMultipleChoice(el page.Element, answer types.Answer) (result, error) {
	if answer.IsList() {
		return result{}, errListAnswer
	}
	text := answer.String()

	for _, radio := range el.QueryAll(selRadio) {
		label := page.Label(radio)
		if match.Match(label, text) {
			radio.Click()
			return filled(label), nil
		}
	}
	return noMatch("no choice matches %q", text), nil
}

// fillCheckboxes activates every unchecked checkbox matching any answer
// string. Boxes already checked stay checked, matching or not.
func fillCheckboxes(el page.Element, answer types.Answer) (result, error) {
	answers := answer.Values()

	var matched []string
	clicked := 0
	for _, box := range el.QueryAll(selCheckbox) {
		label := page.Label(box)
		if !match.Any(label, answers) {
			continue
		}
		matched = append(matched, label)
		if !box.Checked() {
			box.Click()
			clicked++
		}
	}

	if len(matched) == 0 {
		return noMatch("no checkbox matches %q", answers), nil
	}
	res := filled(matched...)
	res.detail = fmt.Sprintf("%d matched, %d activated", len(matched), clicked)
	return res, nil
}

// fillDropdown selects the first option whose text matches. Native selects
// get a value assignment and a change notification; role-based lists get a
// synthetic click on the option.
func fillDropdown(el page.Element, answer types.Answer) (result, error) {
	if answer.IsList() {
		return result{}, errListAnswer
	}
	text := answer.String()

	dropdown, ok := el.Query(selDropdown)
	if !ok {
		return noMatch("no dropdown control"), nil
	}

	for _, opt := range dropdown.QueryAll(selOption) {
		optText := opt.Text()
		if !match.Match(optText, text) {
			continue
		}
		if opt.Tag() == "option" {
			dropdown.SetValue(opt.Value())
			dropdown.Dispatch(page.EventChange)
		} else {
			opt.Click()
		}
		return filled(optText), nil
	}
	return noMatch("no option matches %q", text), nil
}

// fillScale activates the radio whose value equals the answer's number.
func fillScale(el page.Element, answer types.Answer, fallback int) (result, error) {
	target, guessed, ok := scaleTarget(answer.String(), fallback)
	if !ok {
		return noMatch("no number in answer %q", answer.String()), nil
	}

	want := strconv.Itoa(target)
	for _, radio := range el.QueryAll(selRadio) {
		v, ok := leadingInt(scaleValue(radio))
		if ok && v == target {
			radio.Click()
			res := filled(want)
			if guessed {
				res.warning = fmt.Sprintf("scale answer %q has no number; fallback %d used", answer.String(), target)
			}
			return res, nil
		}
	}
	return noMatch("no scale point %d", target), nil
}

// scaleTarget parses a leading integer, else the first run of digits, else
// returns the fallback with guessed set. A fallback of zero or less means
// there is no target.
func scaleTarget(answer string, fallback int) (target int, guessed bool, ok bool) {
	if n, ok := leadingInt(answer); ok {
		return n, false, true
	}
	if m := digitRun.FindString(answer); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n, false, true
		}
	}
	if fallback <= 0 {
		return 0, false, false
	}
	return fallback, true, true
}

// scaleValue prefers the explicit data-value over the accessible label.
func scaleValue(radio page.Element) string {
	if v, ok := radio.Attr("data-value"); ok && v != "" {
		return v
	}
	v, _ := radio.Attr("aria-label")
	return v
}

// leadingInt parses an optionally signed integer at the start of s after
// leading whitespace, ignoring whatever follows it.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
