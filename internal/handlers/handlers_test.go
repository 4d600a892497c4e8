package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/allinone-seolbi/site/internal/model"
	"github.com/allinone-seolbi/site/internal/services"
	xhttp "github.com/allinone-seolbi/site/pkg/http"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Create(ctx context.Context, req model.ContactCreateRequest) (*model.Contact, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *MockContactService) List(ctx context.Context) ([]*model.Contact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Contact), args.Error(1)
}

func (m *MockContactService) UpdateStatus(ctx context.Context, id string, status string) (*model.Contact, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *MockContactService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContactService) Export(ctx context.Context) (string, []byte, error) {
	args := m.Called(ctx)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).([]byte), args.Error(2)
}

func (m *MockContactService) Stats(ctx context.Context) (*services.ContactStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ContactStats), args.Error(1)
}

const testSecret = "letmein"

func newTestAuth(t *testing.T) *services.AuthService {
	t.Helper()
	issuer, err := services.NewTokenIssuer("test-signing-key", time.Hour)
	require.NoError(t, err)
	return services.NewAuthService(services.AuthConfig{Password: testSecret}, issuer)
}

func adminToken(t *testing.T, auth *services.AuthService) string {
	t.Helper()
	token, err := auth.Authenticate(context.Background(), testSecret)
	require.NoError(t, err)
	return token.Token
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

func setupFormContext(path string, form map[string]string) *xhttp.RequestCtx {
	var parts []string
	for k, v := range form {
		args := fasthttp.AcquireArgs()
		args.Set(k, v)
		parts = append(parts, args.String())
		fasthttp.ReleaseArgs(args)
	}
	ctx := setupTestContext("POST", path, []byte(strings.Join(parts, "&")))
	ctx.Request.Header.SetContentType("application/x-www-form-urlencoded")
	return ctx
}

func decodeError(t *testing.T, ctx *xhttp.RequestCtx) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp), string(ctx.Response.Body()))
	return resp
}

func storeErr() error {
	return fmt.Errorf("%w: connection refused", services.ErrStore)
}
