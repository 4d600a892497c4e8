package web

import (
	"time"

	"github.com/a-h/templ"
	"github.com/allinone-seolbi/site/internal/model"
)

//go:generate templ generate

// Renderer turns page state into the templ components declared in the
// .templ files of this package.
type Renderer struct {
	content Content
	now     func() time.Time
}

func NewRenderer(content Content) *Renderer {
	return &Renderer{
		content: content,
		now:     time.Now,
	}
}

func (r *Renderer) Content() Content {
	return r.content
}

func (r *Renderer) Home(form *ContactForm) templ.Component {
	if form == nil {
		form = NewContactForm()
	}
	return homePage(r.content, form, r.now().In(model.DisplayZone).Year())
}

func (r *Renderer) Admin(view *AdminView) templ.Component {
	if view == nil {
		view = NewAdminView()
	}
	return adminPage(r.content, view)
}
