package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/allinone-seolbi/site/internal/model"
	"github.com/allinone-seolbi/site/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactForm_SubmitRequiresAllFields(t *testing.T) {
	f := NewContactForm()
	f.Edit("홍길동", "  ", "누수")

	assert.False(t, f.Submit())
	assert.Equal(t, FormEditing, f.State())
	assert.Equal(t, msgFieldsRequired, f.Notice)
}

func TestContactForm_SuccessClearsFields(t *testing.T) {
	f := NewContactForm()
	f.Edit("홍길동", "010-1234-5678", "누수")

	require.True(t, f.Submit())
	assert.Equal(t, FormSubmitting, f.State())
	assert.False(t, f.Edit("x", "y", "z"), "edits are ignored while submitting")
	assert.False(t, f.Submit())

	f.Resolve(nil)
	assert.Equal(t, FormSuccess, f.State())
	assert.Empty(t, f.Name)
	assert.Empty(t, f.Phone)
	assert.Empty(t, f.Message)
	assert.Equal(t, msgSubmitSuccess, f.Notice)

	assert.True(t, f.Edit("김철수", "", ""))
	assert.Equal(t, FormEditing, f.State())
	assert.Empty(t, f.Notice)
}

func TestContactForm_ErrorKeepsFields(t *testing.T) {
	f := NewContactForm()
	f.Edit("홍길동", "010-1234-5678", "누수")
	require.True(t, f.Submit())

	f.Resolve(errors.New("store down"))
	assert.Equal(t, FormError, f.State())
	assert.Equal(t, "홍길동", f.Name)
	assert.Equal(t, msgSubmitError, f.Notice)

	req := f.Request()
	assert.Equal(t, "010-1234-5678", req.Phone)
	assert.Equal(t, "누수", req.Message)
}

func TestContactForm_ResolveOutsideSubmittingIsIgnored(t *testing.T) {
	f := NewContactForm()
	f.Resolve(nil)
	assert.Equal(t, FormEditing, f.State())
}

func TestAdminView_Show(t *testing.T) {
	v := NewAdminView()
	assert.False(t, v.Authenticated())

	created := time.Date(2026, 1, 12, 5, 6, 0, 0, time.UTC)
	v.Show([]*model.Contact{
		{ID: uuid.New(), Name: "a", Status: model.ContactStatusPending, CreatedAt: created},
		{ID: uuid.New(), Name: "b", Status: model.ContactStatusConsulted, CreatedAt: created},
		{ID: uuid.New(), Name: "c", Status: model.ContactStatusContacted, CreatedAt: created},
		{ID: uuid.New(), Name: "d", Status: model.ContactStatusPending, CreatedAt: created},
	})

	assert.True(t, v.Authenticated())
	assert.Equal(t, 4, v.Total)
	assert.Equal(t, 2, v.Pending)
	assert.Equal(t, 1, v.Consulted)
	require.Len(t, v.Rows, 4)
	assert.Equal(t, "2026-01-12 14:06", v.Rows[0].CreatedAt)
	assert.Equal(t, "상담완료", v.Rows[1].StatusLabel)
	assert.Len(t, v.Rows[1].Options, 3)
	assert.True(t, v.Rows[1].Options[2].Selected)

	v.Logout()
	assert.False(t, v.Authenticated())
	assert.Empty(t, v.Rows)
}

func TestAdminView_LoginFailed(t *testing.T) {
	v := NewAdminView()
	v.LoginFailed(fmt.Errorf("%w: wrong secret", services.ErrAuthDenied))
	assert.Equal(t, msgWrongPassword, v.LoginError)

	v.LoginFailed(errors.New("boom"))
	assert.Equal(t, msgLoginFailed, v.LoginError)
}

func TestFlashFor(t *testing.T) {
	assert.Empty(t, FlashFor(""))
	assert.Equal(t, msgNotFound, FlashFor(services.ErrorCode(fmt.Errorf("%w: x", services.ErrNotFound))))
	assert.Equal(t, msgBadStatus, FlashFor(services.CodeValidation))
	assert.Equal(t, msgActionFailed, FlashFor(services.ErrorCode(services.ErrStore)))
	assert.Equal(t, msgActionFailed, FlashFor("anything else"))
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	return NewRenderer(NewContent("올인원설비", "http://pf.kakao.com/_lQxaxon/chat"))
}

func TestRenderer_Home(t *testing.T) {
	r := newTestRenderer(t)

	f := NewContactForm()
	f.Edit("<script>", "010", "")
	f.Submit()

	var buf bytes.Buffer
	require.NoError(t, r.Home(f).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, "<title>올인원설비 | 누수·하수구·설비·인테리어 전문</title>")
	assert.Contains(t, html, `id="contact"`)
	assert.Contains(t, html, "누수 탐지 및 수리")
	assert.Contains(t, html, "6가지 이유로 선택받습니다")
	assert.Contains(t, html, "278-30-01540")
	assert.Contains(t, html, "http://pf.kakao.com/_lQxaxon/chat")
	assert.Contains(t, html, msgFieldsRequired)
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, `value="<script>"`)
	assert.Contains(t, html, `<div class="notice editing">`+msgFieldsRequired+`</div>`)
	assert.Contains(t, html, "서비스: 누수 탐지 및 수리 · 하수구 막힘 해결 · 설비 공사 · 인테리어")
}

func TestRenderer_SanitizesChatURL(t *testing.T) {
	r := NewRenderer(NewContent("올인원설비", "javascript:alert(1)"))

	var buf bytes.Buffer
	require.NoError(t, r.Home(nil).Render(context.Background(), &buf))

	assert.NotContains(t, buf.String(), "javascript:alert")
	assert.Contains(t, buf.String(), string(templ.FailedSanitizationURL))
}

func TestRenderer_StopsOnCancelledContext(t *testing.T) {
	r := newTestRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	assert.ErrorIs(t, r.Admin(nil).Render(ctx, &buf), context.Canceled)
	assert.Empty(t, buf.String())
}

func TestRenderer_AdminLogin(t *testing.T) {
	r := newTestRenderer(t)
	v := NewAdminView()
	v.LoginFailed(services.ErrAuthDenied)

	var buf bytes.Buffer
	require.NoError(t, r.Admin(v).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, "관리자 로그인")
	assert.Contains(t, html, msgWrongPassword)
	assert.NotContains(t, html, "상담 문의 목록")
}

func TestRenderer_AdminTable(t *testing.T) {
	r := newTestRenderer(t)
	v := NewAdminView()
	id := uuid.New()
	v.Show([]*model.Contact{{ID: id, Name: "홍길동", Phone: "010-1234-5678", Message: "보일러", Status: model.ContactStatusContacted, CreatedAt: time.Now()}})
	v.Flash = msgNotFound

	var buf bytes.Buffer
	require.NoError(t, r.Admin(v).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, "<title>올인원설비 관리자 페이지</title>")
	assert.Contains(t, html, "상담 문의 목록")
	assert.Contains(t, html, "/admin/contacts/"+id.String()+"/status")
	assert.Contains(t, html, `<option value="CONTACTED" selected>연락완료</option>`)
	assert.Contains(t, html, msgNotFound)
}

func TestRenderer_AdminEmptyTable(t *testing.T) {
	r := newTestRenderer(t)
	v := NewAdminView()
	v.Show(nil)

	var buf bytes.Buffer
	require.NoError(t, r.Admin(v).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "아직 접수된 문의가 없습니다.")
}
