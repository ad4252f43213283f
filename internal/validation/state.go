package validation

// FieldState is the validity of one field. Shown is false in the neutral
// state produced by Form.Clear, even for invalid values.
type FieldState struct {
	Valid   bool
	Message string
	Shown   bool
}

// State is the transient ValidationState of one form. It lives as long as
// the dialog holding the form stays open.
type State struct {
	settings  Settings
	Fields    map[string]FieldState
	FormValid bool
}

// Field returns the state of one field. Unknown fields are valid.
func (s State) Field(name string) FieldState {
	if fs, ok := s.Fields[name]; ok {
		return fs
	}
	return FieldState{Valid: true}
}

// VisibleMessage is the text of the error element next to the field.
func (s State) VisibleMessage(name string) string {
	fs := s.Field(name)
	if !fs.Shown {
		return ""
	}
	return fs.Message
}

// InputClass returns the class list of the field's input.
func (s State) InputClass(name string) string {
	class := s.settings.InputClass()
	if s.Field(name).Shown {
		class += " " + s.settings.InputErrorClass
	}
	return class
}

// ErrorShown reports whether the error element of the field is visible.
func (s State) ErrorShown(name string) bool {
	return s.Field(name).Shown
}

// ErrorVisibleClass returns the class that reveals an error element, or ""
// when the field's error stays hidden.
func (s State) ErrorVisibleClass(name string) string {
	if s.ErrorShown(name) {
		return s.settings.ErrorClass
	}
	return ""
}

// SubmitDisabled reports whether the submit control must be disabled.
func (s State) SubmitDisabled() bool {
	return !s.FormValid
}

// SubmitClass returns the class list of the submit control.
func (s State) SubmitClass() string {
	class := s.settings.SubmitClass()
	if s.SubmitDisabled() {
		class += " " + s.settings.InactiveButtonClass
	}
	return class
}
