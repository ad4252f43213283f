package gallery

import (
	"fmt"

	"github.com/nfrund/mesto/internal/modal"
	"github.com/nfrund/mesto/internal/validation"
)

// Dialogs of the page.
const (
	DialogProfile modal.ID = "edit"
	DialogAvatar  modal.ID = "edit-avatar"
	DialogNewCard modal.ID = "new-card"
	DialogImage   modal.ID = "image"
	DialogDelete  modal.ID = "remove-card"
	DialogInfo    modal.ID = "info"
)

// Form ids.
const (
	FormProfile = "edit-profile"
	FormAvatar  = "edit-avatar"
	FormNewCard = "new-place"
	FormDelete  = "remove-card"
)

// Field names.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldAvatar      = "avatar"
	FieldPlaceName   = "place-name"
	FieldLink        = "link"
)

const (
	textPattern        = `[a-zA-Zа-яА-ЯёЁ\- ]+`
	textPatternMessage = "Разрешены только латинские, кириллические буквы, знаки дефиса и пробелы"
)

type fieldDef struct {
	Name        string
	Type        string
	Placeholder string
	// Modifier is the popup__input_type_* class of the input.
	Modifier string
}

type formDef struct {
	ID           string
	Dialog       modal.ID
	Title        string
	SubmitLabel  string
	LoadingLabel string
	Fields       []fieldDef
	form         *validation.Form
}

func (d formDef) submitURL() string   { return "/forms/" + d.ID + "/submit" }
func (d formDef) validateURL() string { return "/forms/" + d.ID + "/validate" }
func (d formDef) elementID() string   { return "form-" + d.ID }
func (d formDef) fieldsID() string    { return d.elementID() + "-fields" }
func (d formDef) submitID() string    { return d.elementID() + "-submit" }
func (d formDef) errorID() string     { return d.elementID() + "-error" }
func (d formDef) inputID(name string) string {
	return d.elementID() + "-" + name
}

// Forms holds the configured dialog forms.
type Forms struct {
	Profile formDef
	Avatar  formDef
	NewCard formDef
	Delete  formDef
}

func newForms(engine *validation.Engine) (*Forms, error) {
	settings := validation.DefaultSettings()
	defs := &Forms{
		Profile: formDef{
			ID: FormProfile, Dialog: DialogProfile, Title: "Редактировать профиль",
			SubmitLabel: "Сохранить", LoadingLabel: "Сохранение...",
			Fields: []fieldDef{
				{Name: FieldName, Type: validation.TypeText, Placeholder: "Имя", Modifier: "popup__input_type_name"},
				{Name: FieldDescription, Type: validation.TypeText, Placeholder: "Занятие", Modifier: "popup__input_type_description"},
			},
		},
		Avatar: formDef{
			ID: FormAvatar, Dialog: DialogAvatar, Title: "Обновить аватар",
			SubmitLabel: "Сохранить", LoadingLabel: "Сохранение...",
			Fields: []fieldDef{
				{Name: FieldAvatar, Type: validation.TypeURL, Placeholder: "Ссылка на картинку", Modifier: "popup__input_type_url"},
			},
		},
		NewCard: formDef{
			ID: FormNewCard, Dialog: DialogNewCard, Title: "Новое место",
			SubmitLabel: "Создать", LoadingLabel: "Создание...",
			Fields: []fieldDef{
				{Name: FieldPlaceName, Type: validation.TypeText, Placeholder: "Название", Modifier: "popup__input_type_card-name"},
				{Name: FieldLink, Type: validation.TypeURL, Placeholder: "Ссылка на картинку", Modifier: "popup__input_type_url"},
			},
		},
		Delete: formDef{
			ID: FormDelete, Dialog: DialogDelete, Title: "Вы уверены?",
			SubmitLabel: "Да", LoadingLabel: "Удаление...",
		},
	}

	rules := map[string][]validation.Rule{
		FormProfile: {
			{Name: FieldName, Type: validation.TypeText, Required: true, MinLength: 2, MaxLength: 40,
				Pattern: textPattern, PatternMessage: textPatternMessage},
			{Name: FieldDescription, Type: validation.TypeText, Required: true, MinLength: 2, MaxLength: 200,
				Pattern: textPattern, PatternMessage: textPatternMessage},
		},
		FormAvatar: {
			{Name: FieldAvatar, Type: validation.TypeURL, Required: true},
		},
		FormNewCard: {
			{Name: FieldPlaceName, Type: validation.TypeText, Required: true, MinLength: 2, MaxLength: 30,
				Pattern: textPattern, PatternMessage: textPatternMessage},
			{Name: FieldLink, Type: validation.TypeURL, Required: true},
		},
		FormDelete: nil,
	}

	for _, def := range []*formDef{&defs.Profile, &defs.Avatar, &defs.NewCard, &defs.Delete} {
		f, err := engine.Configure(def.ID, settings, rules[def.ID]...)
		if err != nil {
			return nil, fmt.Errorf("configure %s form: %w", def.ID, err)
		}
		def.form = f
	}
	return defs, nil
}

// byID looks a form up by its id.
func (f *Forms) byID(id string) (formDef, bool) {
	for _, def := range []formDef{f.Profile, f.Avatar, f.NewCard, f.Delete} {
		if def.ID == id {
			return def, true
		}
	}
	return formDef{}, false
}
