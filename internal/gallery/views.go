package gallery

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"

	"github.com/nfrund/mesto/internal/cards"
	"github.com/nfrund/mesto/internal/domain"
	"github.com/nfrund/mesto/internal/modal"
	"github.com/nfrund/mesto/web/src/templates/components"
	"github.com/nfrund/mesto/web/src/templates/layouts"
)

const placesListID = "places-list"

const statsTitle = "Статистика карточек"

func dialogFor(id modal.ID) modal.Dialog {
	return modal.Dialog{
		ID:        id,
		TypeClass: "popup_type_" + string(id),
		CloseURL:  "/dialogs/" + string(id) + "/close",
	}
}

// cardCallbacks wires card controls to the gallery routes.
func cardCallbacks() cards.Callbacks {
	return cards.Callbacks{
		OnPreviewPicture: func(p cards.Picture) g.Node {
			return g.Group([]g.Node{
				hx.Post("/dialogs/" + string(DialogImage) + "/open"),
				vals(map[string]string{"name": p.Name, "link": p.Link}),
				hx.Target("#" + dialogFor(DialogImage).ElementID()),
				hx.Swap("outerHTML"),
			})
		},
		OnLike: func(cardID string, liked bool, refs cards.LikeRefs) g.Node {
			return g.Group([]g.Node{
				hx.Post("/cards/" + cardID + "/like"),
				vals(map[string]string{"liked": strconv.FormatBool(liked)}),
				hx.Target("#" + refs.Group),
				hx.Swap("outerHTML"),
			})
		},
		OnDelete: func(cardID, unitRef string) g.Node {
			return g.Group([]g.Node{
				hx.Post("/cards/" + cardID + "/delete-request"),
				vals(map[string]string{"unit": unitRef}),
				hx.Target("#" + dialogFor(DialogDelete).ElementID()),
				hx.Swap("outerHTML"),
			})
		},
	}
}

func vals(v map[string]string) g.Node {
	b, _ := json.Marshal(v)
	return g.Attr("hx-vals", string(b))
}

func openTrigger(id modal.ID) g.Node {
	return g.Group([]g.Node{
		hx.Post("/dialogs/" + string(id) + "/open"),
		hx.Target("#" + dialogFor(id).ElementID()),
		hx.Swap("outerHTML"),
	})
}

// pageView renders the whole gallery page with every dialog closed.
func pageView(user domain.User, units []cards.Unit, dialogs []g.Node, loadErr string) g.Node {
	nodes := make([]g.Node, 0, len(units))
	for _, u := range units {
		nodes = append(nodes, u)
	}
	return layouts.Base("Mesto",
		h.Header(
			h.Class("header page__section"),
			h.Button(
				h.Type("button"),
				h.Class("header__logo logo"),
				g.Attr("aria-label", statsTitle),
				g.Text("Mesto"),
				openTrigger(DialogInfo),
			),
		),
		h.Main(
			h.Class("content"),
			g.If(loadErr != "", h.P(h.Class("page__error"), g.Text(loadErr))),
			h.Section(
				h.Class("profile page__section"),
				avatarNode(user.Avatar, false),
				h.Div(
					h.Class("profile__info"),
					profileTitleNode(user.Name, false),
					h.Button(h.Type("button"), h.Class("profile__edit-button"), g.Attr("aria-label", "Редактировать профиль"), openTrigger(DialogProfile)),
					profileDescriptionNode(user.About, false),
				),
				h.Button(h.Type("button"), h.Class("profile__add-button"), g.Attr("aria-label", "Добавить место"), openTrigger(DialogNewCard)),
			),
			h.Section(
				h.Class("places page__section"),
				h.Ul(h.ID(placesListID), h.Class("places__list"), g.Group(nodes)),
			),
		),
		g.Group(dialogs),
	)
}

func avatarNode(url string, oob bool) g.Node {
	return h.Div(
		h.ID("profile-avatar"),
		h.Class("profile__image"),
		g.Attr("style", "background-image: "+cssURL(url)+";"),
		g.If(oob, hx.SwapOOB("true")),
		openTrigger(DialogAvatar),
	)
}

// cssURL quotes url as a CSS string so it cannot end the declaration early.
func cssURL(url string) string {
	var b strings.Builder
	b.WriteString(`url("`)
	for _, r := range url {
		switch {
		case r == '"' || r == '\\' || r == '(' || r == ')' || r == ';' || r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, "\\%x ", r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString(`")`)
	return b.String()
}

func profileTitleNode(name string, oob bool) g.Node {
	return h.H1(h.ID("profile-title"), h.Class("profile__title"), g.If(oob, hx.SwapOOB("true")), g.Text(name))
}

func profileDescriptionNode(about string, oob bool) g.Node {
	return h.P(h.ID("profile-description"), h.Class("profile__description"), g.If(oob, hx.SwapOOB("true")), g.Text(about))
}

// prependCardPatch inserts a new unit at the head of the card list.
func prependCardPatch(u cards.Unit) g.Node {
	return h.Ul(hx.SwapOOB("afterbegin:#"+placesListID), u)
}

// removeCardPatch removes a unit from the page.
func removeCardPatch(unitRef string) g.Node {
	return h.Li(h.ID(unitRef), hx.SwapOOB("delete"))
}

// formDialog renders a form dialog in the given state.
func formDialog(v FormView, open bool) g.Node {
	return modal.Render(dialogFor(v.Def.Dialog), open, formContent(v)...)
}

func formContent(v FormView) []g.Node {
	return []g.Node{
		h.H3(h.Class("popup__title"), g.Text(v.Def.Title)),
		h.Form(
			h.ID(v.Def.elementID()),
			h.Class(v.Def.form.Settings().FormClass()),
			h.Name(v.Def.ID),
			g.Attr("novalidate"),
			hx.Post(v.Def.submitURL()),
			hx.Target("#"+dialogFor(v.Def.Dialog).ElementID()),
			hx.Swap("outerHTML"),
			g.Attr("hx-indicator", "#"+v.Def.submitID()),
			g.Attr("hx-disabled-elt", "#"+v.Def.submitID()),
			formFields(v),
		),
	}
}

// fieldsValidatedEvent carries input classes from the validate endpoint
// to the browser, keyed by input id.
const fieldsValidatedEvent = "fields-validated"

// applyInputClasses runs on fieldsValidatedEvent. Inputs are never swapped
// while the user types, only their class attribute changes.
const applyInputClasses = `Object.entries(event.detail).forEach(([id, cls]) => {
  const el = id !== "elt" && document.getElementById(id);
  if (el) el.className = cls;
})`

// formFields renders the inputs, their error slots and the submit button.
// Input events post the form for validation; the answer patches everything
// here except the inputs.
func formFields(v FormView) g.Node {
	fields := make([]g.Node, 0, len(v.Def.Fields))
	for _, f := range v.Def.Fields {
		fields = append(fields, h.Label(
			h.Class("popup__field"),
			h.Input(
				h.ID(v.Def.inputID(f.Name)),
				h.Type(f.Type),
				h.Name(f.Name),
				h.Class(inputClass(v, f)),
				h.Placeholder(f.Placeholder),
				h.Value(v.Values[f.Name]),
				constraintAttrs(v.Def, f.Name),
			),
			errorSpan(v, f, false),
		))
	}

	return h.Div(
		h.ID(v.Def.fieldsID()),
		h.Class("popup__fields"),
		hx.Post(v.Def.validateURL()),
		hx.Trigger("input"),
		hx.Swap("none"),
		g.Attr("hx-sync", "this:replace"),
		g.Attr("hx-on:"+fieldsValidatedEvent, applyInputClasses),
		formError(v, false),
		g.Group(fields),
		submitButtonNode(v, false),
	)
}

// validationPatch is the answer to an input event: out-of-band updates of
// the error slots and the submit button.
func validationPatch(v FormView) []g.Node {
	nodes := []g.Node{formError(v, true)}
	for _, f := range v.Def.Fields {
		nodes = append(nodes, errorSpan(v, f, true))
	}
	return append(nodes, submitButtonNode(v, true))
}

// inputClasses maps input ids to their class attribute for
// fieldsValidatedEvent.
func inputClasses(v FormView) map[string]string {
	classes := make(map[string]string, len(v.Def.Fields))
	for _, f := range v.Def.Fields {
		classes[v.Def.inputID(f.Name)] = inputClass(v, f)
	}
	return classes
}

func inputClass(v FormView, f fieldDef) string {
	return strings.TrimSpace(v.State.InputClass(f.Name) + " " + f.Modifier)
}

func errorSpan(v FormView, f fieldDef, oob bool) g.Node {
	return h.Span(
		h.ID(v.Def.inputID(f.Name)+"-error"),
		h.Class(strings.TrimSpace("popup__error "+v.State.ErrorVisibleClass(f.Name))),
		g.If(oob, hx.SwapOOB("true")),
		g.Text(v.State.VisibleMessage(f.Name)),
	)
}

func formError(v FormView, oob bool) g.Node {
	return h.P(
		h.ID(v.Def.errorID()),
		h.Class("popup__form-error"),
		g.If(v.Error != "", g.Attr("role", "alert")),
		g.If(oob, hx.SwapOOB("true")),
		g.Text(v.Error),
	)
}

func submitButtonNode(v FormView, oob bool) g.Node {
	class := v.State.SubmitClass()
	if v.Locked && !v.State.SubmitDisabled() {
		class += " " + v.Def.form.Settings().InactiveButtonClass
	}
	return h.Button(
		h.ID(v.Def.submitID()),
		h.Type("submit"),
		h.Class(class),
		g.If(v.Locked || v.State.SubmitDisabled(), h.Disabled()),
		g.If(oob, hx.SwapOOB("true")),
		h.Span(h.Class("popup__button-label"), g.Text(v.Label)),
		h.Span(h.Class("popup__button-loading"), g.Text(v.Def.LoadingLabel)),
	)
}

// constraintAttrs mirrors the rule onto the input so the markup documents
// the constraint; evaluation happens server-side.
func constraintAttrs(def formDef, name string) g.Node {
	r, ok := def.form.Rule(name)
	if !ok {
		return nil
	}
	attrs := []g.Node{}
	if r.Required {
		attrs = append(attrs, h.Required())
	}
	if r.MinLength > 0 {
		attrs = append(attrs, g.Attr("minlength", strconv.Itoa(r.MinLength)))
	}
	if r.MaxLength > 0 {
		attrs = append(attrs, g.Attr("maxlength", strconv.Itoa(r.MaxLength)))
	}
	if r.Pattern != "" {
		attrs = append(attrs, g.Attr("pattern", r.Pattern))
	}
	return g.Group(attrs)
}

// imageDialog renders the picture preview.
func imageDialog(p cards.Picture, open bool) g.Node {
	return modal.Render(dialogFor(DialogImage), open, imageContent(p)...)
}

func imageContent(p cards.Picture) []g.Node {
	return []g.Node{
		h.Img(h.Class("popup__image"), h.Src(p.Link), h.Alt(p.Name)),
		h.P(h.Class("popup__caption"), g.Text(p.Name)),
	}
}

// statsDialog renders the aggregate statistics.
func statsDialog(st Stats, errMsg string, open bool) g.Node {
	return modal.Render(dialogFor(DialogInfo), open, statsContent(st, errMsg, open)...)
}

func statsContent(st Stats, errMsg string, filled bool) []g.Node {
	title := h.H3(h.Class("popup__title"), g.Text(statsTitle))
	if !filled {
		return []g.Node{title}
	}
	if errMsg != "" {
		return []g.Node{title, h.P(h.Class("popup__form-error"), g.Attr("role", "alert"), g.Text(errMsg))}
	}

	badges := make([]g.Node, 0, len(st.TopCards))
	for _, c := range st.TopCards {
		badges = append(badges, components.Badge(fmt.Sprintf("%s (%d лайков)", c.Name, c.LikeCount())))
	}
	return []g.Node{
		title,
		h.Dl(
			h.Class("popup__info"),
			components.StatLine("Всего пользователей:", strconv.Itoa(st.Participants)),
			components.StatLine("Всего лайков:", strconv.Itoa(st.TotalLikes)),
			components.StatLine("Максимально лайков от одного:", strconv.Itoa(st.TopContributor.Likes)),
			components.StatLine("Чемпион лайков:", st.TopContributor.User.Name),
		),
		h.P(h.Class("popup__text"), g.Text("Популярные карточки:")),
		h.Ul(h.Class("popup__list"), g.Group(badges)),
	}
}
