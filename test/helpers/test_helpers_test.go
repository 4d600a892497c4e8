package helpers

import (
	"testing"
	"time"

	"github.com/allinone-seolbi/site/internal/model"
	"github.com/allinone-seolbi/site/internal/repository"
	xhttp "github.com/allinone-seolbi/site/pkg/http"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestCtx_UsableAsContext(t *testing.T) {
	ctx := NewRequestCtx("GET", "/admin")

	assert.NotNil(t, ctx.Done())
	assert.NoError(t, ctx.Err())
	assert.Equal(t, "/admin", string(ctx.Path()))
	assert.Equal(t, "GET", string(ctx.Method()))
}

func TestDo_HandlerReachesStore(t *testing.T) {
	repo := repository.NewContactRepository(SetupTestDB(t))

	done := make(chan error, 1)
	go Do(func(ctx *xhttp.RequestCtx) {
		_, err := repo.Create(ctx, &model.Contact{
			ID:        uuid.New(),
			Name:      "홍길동",
			Phone:     "010-1234-5678",
			Message:   "욕실 누수",
			Status:    model.ContactStatusPending,
			CreatedAt: time.Now(),
		})
		done <- err
	}, "POST", "/api/contact", []byte(`{}`), nil)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("store call did not finish")
	}
}

func TestPostForm_CarriesFormAndCookies(t *testing.T) {
	var name, session string
	ctx := PostForm(func(ctx *xhttp.RequestCtx) {
		name = string(ctx.PostArgs().Peek("name"))
		session = string(ctx.Request.Header.Cookie("admin_session"))
		assert.NoError(t, ctx.Err())
	}, "/contact", map[string]string{"name": "홍길동"}, map[string]string{"admin_session": "token"})

	assert.Equal(t, "홍길동", name)
	assert.Equal(t, "token", session)
	assert.Equal(t, "POST", string(ctx.Method()))
}
