package web

import (
	"errors"

	"github.com/allinone-seolbi/site/internal/model"
	"github.com/allinone-seolbi/site/internal/services"
)

type AdminState uint8

const (
	AdminUnauthenticated AdminState = iota
	AdminAuthenticated
)

const (
	msgWrongPassword = "비밀번호가 올바르지 않습니다."
	msgLoginFailed   = "로그인 중 오류가 발생했습니다."
	msgNotFound      = "해당 문의를 찾을 수 없습니다."
	msgBadStatus     = "올바르지 않은 상태입니다."
	msgActionFailed  = "요청을 처리하지 못했습니다. 잠시 후 다시 시도해주세요."
	msgListFailed    = "문의 목록을 불러오지 못했습니다."
)

type StatusOption struct {
	Value    string
	Label    string
	Selected bool
}

type AdminRow struct {
	ID          string
	Name        string
	Phone       string
	Message     string
	CreatedAt   string
	StatusLabel string
	StatusClass string
	Options     []StatusOption
}

// AdminView is what the admin page shows for one request.
type AdminView struct {
	state AdminState

	Rows       []AdminRow
	Total      int
	Pending    int
	Consulted  int
	Flash      string
	LoginError string
}

func NewAdminView() *AdminView {
	return &AdminView{state: AdminUnauthenticated}
}

func (v *AdminView) State() AdminState {
	return v.state
}

func (v *AdminView) Authenticated() bool {
	return v.state == AdminAuthenticated
}

func (v *AdminView) LoginFailed(err error) {
	v.state = AdminUnauthenticated
	v.Rows = nil
	if errors.Is(err, services.ErrAuthDenied) {
		v.LoginError = msgWrongPassword
		return
	}
	v.LoginError = msgLoginFailed
}

// Show switches to the authenticated table with a fresh listing.
func (v *AdminView) Show(contacts []*model.Contact) {
	v.state = AdminAuthenticated
	v.LoginError = ""
	v.Rows = make([]AdminRow, 0, len(contacts))
	v.Total, v.Pending, v.Consulted = len(contacts), 0, 0

	for _, c := range contacts {
		switch c.Status {
		case model.ContactStatusPending:
			v.Pending++
		case model.ContactStatusConsulted:
			v.Consulted++
		}
		v.Rows = append(v.Rows, newAdminRow(c))
	}
}

func (v *AdminView) Logout() {
	*v = AdminView{state: AdminUnauthenticated}
}

// FlashFor turns the error code of a failed admin action into the message
// shown above the table.
func FlashFor(code string) string {
	switch code {
	case "":
		return ""
	case services.CodeNotFound:
		return msgNotFound
	case services.CodeValidation:
		return msgBadStatus
	case services.CodeAuthDenied:
		return msgWrongPassword
	default:
		return msgActionFailed
	}
}

func newAdminRow(c *model.Contact) AdminRow {
	row := AdminRow{
		ID:          c.ID.String(),
		Name:        c.Name,
		Phone:       c.Phone,
		Message:     c.Message,
		CreatedAt:   c.CreatedAt.In(model.DisplayZone).Format("2006-01-02 15:04"),
		StatusLabel: c.Status.Label(),
		StatusClass: statusClass(c.Status),
	}
	for _, s := range model.ContactStatuses() {
		row.Options = append(row.Options, StatusOption{
			Value:    s.String(),
			Label:    s.Label(),
			Selected: s == c.Status,
		})
	}
	return row
}

func statusClass(s model.ContactStatus) string {
	switch s {
	case model.ContactStatusPending:
		return "status-pending"
	case model.ContactStatusContacted:
		return "status-contacted"
	case model.ContactStatusConsulted:
		return "status-consulted"
	}
	return ""
}
