package web

import (
	"strings"

	"github.com/allinone-seolbi/site/internal/model"
)

type FormState uint8

const (
	FormEditing FormState = iota
	FormSubmitting
	FormSuccess
	FormError
)

func (s FormState) String() string {
	switch s {
	case FormEditing:
		return "editing"
	case FormSubmitting:
		return "submitting"
	case FormSuccess:
		return "success"
	case FormError:
		return "error"
	}
	return "unknown"
}

const (
	msgFieldsRequired = "이름, 연락처, 상담 문의를 모두 입력해주세요."
	msgSubmitSuccess  = "상담 신청이 완료되었습니다! 빠른 시일 내에 연락드리겠습니다."
	msgSubmitError    = "오류가 발생했습니다. 잠시 후 다시 시도해주세요."
)

// ContactForm tracks the public form through one submission.
type ContactForm struct {
	state FormState

	Name    string
	Phone   string
	Message string
	// Notice is the line shown under the form, if any.
	Notice string
}

func NewContactForm() *ContactForm {
	return &ContactForm{state: FormEditing}
}

func (f *ContactForm) State() FormState {
	return f.state
}

// Edit replaces the field values. A finished submission goes back to
// editing; an in-flight one ignores the call.
func (f *ContactForm) Edit(name, phone, message string) bool {
	if f.state == FormSubmitting {
		return false
	}
	f.state = FormEditing
	f.Name, f.Phone, f.Message = name, phone, message
	f.Notice = ""
	return true
}

// Submit moves an editing form with every field filled in to submitting.
func (f *ContactForm) Submit() bool {
	if f.state != FormEditing {
		return false
	}
	if blank(f.Name) || blank(f.Phone) || blank(f.Message) {
		f.Notice = msgFieldsRequired
		return false
	}
	f.state = FormSubmitting
	f.Notice = ""
	return true
}

// Resolve settles a submitting form with the outcome of the create call.
// On success the fields are cleared; on failure they are kept for a retry.
func (f *ContactForm) Resolve(err error) {
	if f.state != FormSubmitting {
		return
	}
	if err != nil {
		f.state = FormError
		f.Notice = msgSubmitError
		return
	}
	f.state = FormSuccess
	f.Name, f.Phone, f.Message = "", "", ""
	f.Notice = msgSubmitSuccess
}

func (f *ContactForm) Request() model.ContactCreateRequest {
	return model.ContactCreateRequest{
		Name:    f.Name,
		Phone:   f.Phone,
		Message: f.Message,
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
