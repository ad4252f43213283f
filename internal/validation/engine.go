// Package validation decides field and form validity for the gallery's
// dialog forms and derives the visual state (error classes, messages,
// submit enablement) from it.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nfrund/mesto/internal/domain"
)

// Input types with native constraint checks.
const (
	TypeText = "text"
	TypeURL  = "url"
)

// ErrInvalid is matched by every *Error returned from Form.Check.
var ErrInvalid = errors.New("form is invalid")

// Settings binds the selectors and CSS classes the engine drives.
type Settings struct {
	FormSelector         string
	InputSelector        string
	SubmitButtonSelector string
	InactiveButtonClass  string
	InputErrorClass      string
	ErrorClass           string
}

// DefaultSettings returns the classes used by the Mesto markup.
func DefaultSettings() Settings {
	return Settings{
		FormSelector:         ".popup__form",
		InputSelector:        ".popup__input",
		SubmitButtonSelector: ".popup__button",
		InactiveButtonClass:  "popup__button_disabled",
		InputErrorClass:      "popup__input_type_error",
		ErrorClass:           "popup__error_visible",
	}
}

// FormClass, InputClass and SubmitClass return the class names behind the
// corresponding selectors.
func (s Settings) FormClass() string   { return classOf(s.FormSelector) }
func (s Settings) InputClass() string  { return classOf(s.InputSelector) }
func (s Settings) SubmitClass() string { return classOf(s.SubmitButtonSelector) }

func classOf(selector string) string {
	return strings.TrimPrefix(selector, ".")
}

// Rule mirrors the native constraint attributes of one input.
type Rule struct {
	Name      string
	Type      string
	Required  bool
	MinLength int
	MaxLength int
	Pattern   string
	// PatternMessage replaces the generic message on pattern mismatch.
	PatternMessage string
}

// Engine evaluates constraints. It is safe for concurrent use once forms
// are configured.
type Engine struct {
	validate *validator.Validate
	lang     language.Tag
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguage selects the language of validation messages.
func WithLanguage(tag language.Tag) Option {
	return func(e *Engine) {
		e.lang = tag
	}
}

// NewEngine creates an engine producing Russian messages unless told
// otherwise.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		validate: validator.New(),
		lang:     language.Russian,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Form is a set of rules bound to one form element.
type Form struct {
	ID       string
	settings Settings
	rules    []Rule
	patterns map[string]*regexp.Regexp
	engine   *Engine
}

// Configure binds rules to the form identified by formID.
func (e *Engine) Configure(formID string, settings Settings, rules ...Rule) (*Form, error) {
	if formID == "" {
		return nil, fmt.Errorf("configure form: empty form id")
	}
	f := &Form{
		ID:       formID,
		settings: settings,
		rules:    make([]Rule, 0, len(rules)),
		patterns: make(map[string]*regexp.Regexp),
		engine:   e,
	}
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("configure form %s: rule without a field name", formID)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("configure form %s: duplicate field %q", formID, r.Name)
		}
		seen[r.Name] = true

		switch r.Type {
		case "":
			r.Type = TypeText
		case TypeText, TypeURL:
		default:
			return nil, fmt.Errorf("configure form %s: field %q has unsupported type %q", formID, r.Name, r.Type)
		}
		if r.MinLength < 0 || r.MaxLength < 0 || (r.MaxLength > 0 && r.MinLength > r.MaxLength) {
			return nil, fmt.Errorf("configure form %s: field %q has inconsistent length bounds", formID, r.Name)
		}
		if r.Pattern != "" {
			re, err := regexp.Compile("^(?:" + r.Pattern + ")$")
			if err != nil {
				return nil, fmt.Errorf("configure form %s: field %q pattern: %w", formID, r.Name, err)
			}
			f.patterns[r.Name] = re
		}
		f.rules = append(f.rules, r)
	}
	return f, nil
}

// Settings returns the selectors and classes bound to the form.
func (f *Form) Settings() Settings { return f.settings }

// Rules returns the bound rules in declaration order.
func (f *Form) Rules() []Rule {
	out := make([]Rule, len(f.rules))
	copy(out, f.rules)
	return out
}

// Rule looks up the rule for one field.
func (f *Form) Rule(name string) (Rule, bool) {
	for _, r := range f.rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// Revalidate evaluates every bound field against values and shows the
// resulting errors.
func (f *Form) Revalidate(values map[string]string) State {
	return f.evaluate(values, true)
}

// Clear returns the neutral state for values: nothing is flagged, but the
// submit control still reflects whether the values would pass.
func (f *Form) Clear(values map[string]string) State {
	return f.evaluate(values, false)
}

// Check revalidates values and returns an *Error when the form is invalid.
func (f *Form) Check(values map[string]string) (State, error) {
	st := f.Revalidate(values)
	if st.FormValid {
		return st, nil
	}
	verr := &Error{Form: f.ID, Fields: make(map[string]string)}
	for name, fs := range st.Fields {
		if !fs.Valid {
			verr.Fields[name] = fs.Message
		}
	}
	return st, verr
}

func (f *Form) evaluate(values map[string]string, show bool) State {
	p := f.engine.printer()
	st := State{
		settings:  f.settings,
		Fields:    make(map[string]FieldState, len(f.rules)),
		FormValid: true,
	}
	for _, r := range f.rules {
		msg := f.fieldMessage(r, values[r.Name], p)
		fs := FieldState{Valid: msg == "", Message: msg}
		if show && !fs.Valid {
			fs.Shown = true
		}
		st.Fields[r.Name] = fs
		st.FormValid = st.FormValid && fs.Valid
	}
	return st
}

// fieldMessage returns "" for a valid value and the constraint message
// otherwise. Checks run in browser order: missing value, type, pattern,
// then length.
func (f *Form) fieldMessage(r Rule, value string, p *message.Printer) string {
	if value == "" {
		if r.Required {
			return p.Sprintf(msgValueMissing)
		}
		return ""
	}

	if r.Type == TypeURL {
		if err := f.engine.validate.Var(value, "url"); err != nil {
			return p.Sprintf(msgTypeMismatchURL)
		}
	}

	if re, ok := f.patterns[r.Name]; ok && !re.MatchString(value) {
		if r.PatternMessage != "" {
			return r.PatternMessage
		}
		return p.Sprintf(msgPatternMismatch)
	}

	length := utf8.RuneCountInString(value)
	if r.MaxLength > 0 {
		if err := f.engine.validate.Var(value, "max="+strconv.Itoa(r.MaxLength)); err != nil {
			return p.Sprintf(msgTooLong, r.MaxLength, length)
		}
	}
	if r.MinLength > 0 {
		if err := f.engine.validate.Var(value, "min="+strconv.Itoa(r.MinLength)); err != nil {
			return p.Sprintf(msgTooShort, r.MinLength, length)
		}
	}
	return ""
}

// Error is a local, field-level validation failure. It never reaches the
// network.
type Error struct {
	Form   string
	Fields map[string]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return fmt.Sprintf("form %s is invalid: %s", e.Form, strings.Join(parts, "; "))
}

// Is lets errors.Is match ErrInvalid and domain.ErrInvalidInput, so handlers
// map a rejected form like any other invalid input.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid || target == domain.ErrInvalidInput
}
