package validation

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys double as the English text.
const (
	msgValueMissing    = "Please fill out this field."
	msgTypeMismatchURL = "Please enter a URL."
	msgPatternMismatch = "Please match the requested format."
	msgTooShort        = "Please lengthen this text to %[1]d characters or more (you are currently using %[2]d characters)."
	msgTooLong         = "Please shorten this text to %[1]d characters or less (you are currently using %[2]d characters)."
)

// messages holds the browser-style constraint messages.
var messages = func() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	ru := map[string]string{
		msgValueMissing:    "Заполните это поле.",
		msgTypeMismatchURL: "Введите URL.",
		msgPatternMismatch: "Введите данные в указанном формате.",
		msgTooShort:        "Минимально допустимое количество символов: %[1]d. Длина текста сейчас: %[2]d.",
		msgTooLong:         "Максимально допустимое количество символов: %[1]d. Длина текста сейчас: %[2]d.",
	}
	for key, text := range ru {
		if err := b.SetString(language.Russian, key, text); err != nil {
			panic(err)
		}
	}
	return b
}()

func (e *Engine) printer() *message.Printer {
	return message.NewPrinter(e.lang, message.Catalog(messages))
}
