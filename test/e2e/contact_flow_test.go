package e2e

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/allinone-seolbi/site/internal/handlers"
	"github.com/allinone-seolbi/site/internal/model"
	"github.com/allinone-seolbi/site/internal/notifier"
	"github.com/allinone-seolbi/site/internal/processor"
	"github.com/allinone-seolbi/site/internal/queue"
	"github.com/allinone-seolbi/site/internal/repository"
	"github.com/allinone-seolbi/site/internal/services"
	"github.com/allinone-seolbi/site/internal/web"
	"github.com/allinone-seolbi/site/internal/webhook"
	xhttp "github.com/allinone-seolbi/site/pkg/http"
	"github.com/allinone-seolbi/site/pkg/redis"
	"github.com/allinone-seolbi/site/test/fixtures"
	"github.com/allinone-seolbi/site/test/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestEnvironment struct {
	Adapter  redis.RedisAdapter
	Queue    *queue.Queue
	Contacts *services.ContactService
	Sink     *helpers.WebhookSink
	Webhook  *webhook.Client
	Handler  xhttp.RequestHandler
}

func queueConfig() queue.QueueConfig {
	return queue.QueueConfig{
		Name:              "contact:notifications",
		ConsumerGroup:     "notifier",
		ConsumerName:      "e2e",
		MaxRetries:        3,
		VisibilityTimeout: 100 * time.Millisecond,
		PollInterval:      20 * time.Millisecond,
		EnableDLQ:         true,
	}
}

// setupE2EEnvironment wires the api the way cmd/api does in queue mode, on
// SQLite and miniredis.
func setupE2EEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	db := helpers.SetupTestDB(t)
	_, adapter := helpers.SetupTestRedis(t, "site:")

	q, err := queue.NewQueue(adapter, queueConfig())
	require.NoError(t, err)

	sink, webhookCfg := helpers.StartWebhookSink(t)
	webhookCfg.Username = fixtures.WebhookSender

	contacts := services.NewContactService(repository.NewContactRepository(db), notifier.NewQueuePublisher(q))

	tokens, err := services.NewTokenIssuer(fixtures.TokenKey, time.Hour)
	require.NoError(t, err)
	auth := services.NewAuthService(services.AuthConfig{Password: fixtures.AdminSecret}, tokens)
	gate := handlers.NewAdminGate(auth, false)

	renderer := web.NewRenderer(web.NewContent(fixtures.SiteName, fixtures.SiteChatURL))

	r := xhttp.CreateDefaultRouter()
	handlers.RegisterPageRoutes(r, handlers.NewPageHandler(contacts, auth, gate, renderer))
	api := r.Group("/api")
	handlers.RegisterContactRoutes(api, handlers.NewContactHandler(contacts), gate)
	handlers.RegisterAuthRoutes(api, handlers.NewAuthHandler(auth))
	handlers.RegisterHealthRoutes(api, handlers.NewHealthHandler(services.NewHealthService().Register("postgres", db).Register("redis", adapter)))

	return &TestEnvironment{
		Adapter:  adapter,
		Queue:    q,
		Contacts: contacts,
		Sink:     sink,
		Webhook:  webhook.NewClient(webhookCfg),
		Handler:  r.Handler,
	}
}

func (env *TestEnvironment) startNotifier(t *testing.T) *processor.ProcessorService {
	t.Helper()
	svc := processor.NewProcessorService(env.Adapter, processor.Config{
		Queue:     queueConfig(),
		Consumers: 1,
		Workers:   2,
	})
	svc.RegisterProcessor(processor.NewNotificationProcessor(env.Webhook, processor.NewIdempotencyService(env.Adapter, processor.DefaultIdempotencyConfig())))
	require.NoError(t, svc.Start())
	t.Cleanup(svc.Stop)
	return svc
}

func (env *TestEnvironment) login(t *testing.T) string {
	t.Helper()
	ctx := helpers.Do(env.Handler, "POST", "/api/admin/auth", fixtures.PasswordJSON(fixtures.AdminSecret), nil)
	require.Equal(t, xhttp.StatusOK, ctx.Response.StatusCode())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (env *TestEnvironment) list(t *testing.T, token string) []model.Contact {
	t.Helper()
	ctx := helpers.Do(env.Handler, "GET", "/api/admin/contacts", nil, helpers.Bearer(token))
	require.Equal(t, xhttp.StatusOK, ctx.Response.StatusCode())
	var resp struct {
		Contacts []model.Contact `json:"contacts"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	return resp.Contacts
}

func submit(t *testing.T, env *TestEnvironment, req model.ContactCreateRequest) model.Contact {
	t.Helper()
	ctx := helpers.Do(env.Handler, "POST", "/api/contact", fixtures.ContactJSON(req, "CONSULTED"), nil)
	require.Equal(t, xhttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))
	var resp struct {
		Success bool          `json:"success"`
		Contact model.Contact `json:"contact"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	require.True(t, resp.Success)
	return resp.Contact
}

func TestE2E_SubmitThenAdminManages(t *testing.T) {
	env := setupE2EEnvironment(t)

	first := submit(t, env, fixtures.LeakRequest)
	time.Sleep(5 * time.Millisecond)
	second := submit(t, env, fixtures.BoilerRequest)
	assert.Equal(t, model.ContactStatusPending, first.Status, "caller status is ignored")

	// gate
	ctx := helpers.Do(env.Handler, "POST", "/api/admin/auth", fixtures.PasswordJSON("wrong"), nil)
	assert.Equal(t, xhttp.StatusUnauthorized, ctx.Response.StatusCode())
	ctx = helpers.Do(env.Handler, "GET", "/api/admin/contacts", nil, nil)
	assert.Equal(t, xhttp.StatusUnauthorized, ctx.Response.StatusCode())

	token := env.login(t)
	listed := env.list(t, token)
	require.Len(t, listed, 2)
	assert.Equal(t, second.ID, listed[0].ID, "newest first")
	assert.Equal(t, first.ID, listed[1].ID)
	assert.Equal(t, listed, env.list(t, token))

	// invalid status leaves the record alone
	ctx = helpers.Do(env.Handler, "PATCH", "/api/admin/contacts/"+first.ID.String(), fixtures.StatusJSON("DONE"), helpers.Bearer(token))
	assert.Equal(t, xhttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, model.ContactStatusPending, env.list(t, token)[1].Status)

	ctx = helpers.Do(env.Handler, "PATCH", "/api/admin/contacts/"+first.ID.String(), fixtures.StatusJSON("CONTACTED"), helpers.Bearer(token))
	assert.Equal(t, xhttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, model.ContactStatusContacted, env.list(t, token)[1].Status)

	ctx = helpers.Do(env.Handler, "PATCH", "/api/admin/contacts/00000000-0000-0000-0000-000000000000", fixtures.StatusJSON("CONTACTED"), helpers.Bearer(token))
	assert.Equal(t, xhttp.StatusNotFound, ctx.Response.StatusCode())

	ctx = helpers.Do(env.Handler, "DELETE", "/api/admin/contacts/"+first.ID.String(), nil, helpers.Bearer(token))
	assert.Equal(t, xhttp.StatusOK, ctx.Response.StatusCode())
	ctx = helpers.Do(env.Handler, "DELETE", "/api/admin/contacts/"+first.ID.String(), nil, helpers.Bearer(token))
	assert.Equal(t, xhttp.StatusNotFound, ctx.Response.StatusCode())

	remaining := env.list(t, token)
	require.Len(t, remaining, 1)
	assert.Equal(t, second.ID, remaining[0].ID)

	ctx = helpers.Do(env.Handler, "GET", "/api/admin/contacts/export", nil, helpers.Bearer(token))
	assert.Equal(t, xhttp.StatusOK, ctx.Response.StatusCode())
	assert.NotEmpty(t, ctx.Response.Body())
}

func TestE2E_InvalidSubmissionStoresAndQueuesNothing(t *testing.T) {
	env := setupE2EEnvironment(t)

	ctx := helpers.Do(env.Handler, "POST", "/api/contact", fixtures.ContactJSON(fixtures.BlankPhoneRequest, ""), nil)
	assert.Equal(t, xhttp.StatusBadRequest, ctx.Response.StatusCode())

	assert.Empty(t, env.list(t, env.login(t)))

	stats, err := env.Queue.GetStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalMessages)
}

func TestE2E_NotificationDeliveredOnce(t *testing.T) {
	env := setupE2EEnvironment(t)
	env.startNotifier(t)

	contact := submit(t, env, fixtures.LeakRequest)

	helpers.AssertEventually(t, 3*time.Second, func() bool {
		return len(env.Sink.Payloads()) == 1
	}, "notification was not delivered")

	payload := env.Sink.Payloads()[0]
	assert.Equal(t, fixtures.WebhookSender, payload.Username)
	require.Len(t, payload.Embeds, 1)
	assert.Equal(t, fixtures.LeakRequest.Name, payload.Embeds[0].Fields[0].Value)
	assert.Equal(t, fixtures.LeakRequest.Phone, payload.Embeds[0].Fields[1].Value)

	// the same contact published again is not announced twice
	_, err := env.Queue.PublishJSON(context.Background(), model.NewContactNotification(&contact), nil)
	require.NoError(t, err)
	time.Sleep(200 * time.Millisecond)
	assert.Len(t, env.Sink.Payloads(), 1)
}

func TestE2E_SinkFailureDoesNotFailSubmission(t *testing.T) {
	env := setupE2EEnvironment(t)
	env.Sink.SetStatus(500)
	env.startNotifier(t)

	submit(t, env, fixtures.BoilerRequest)

	helpers.AssertEventually(t, 3*time.Second, func() bool {
		return len(env.Sink.Payloads()) >= 1
	}, "webhook was never attempted")
	assert.Len(t, env.list(t, env.login(t)), 1)
}

func TestE2E_AdminPages(t *testing.T) {
	env := setupE2EEnvironment(t)

	ctx := helpers.PostForm(env.Handler, "/contact", map[string]string{
		"name":    fixtures.LeakRequest.Name,
		"phone":   fixtures.LeakRequest.Phone,
		"message": fixtures.LeakRequest.Message,
	}, nil)
	require.Equal(t, xhttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), "상담 신청이 완료되었습니다")

	ctx = helpers.PostForm(env.Handler, "/admin/login", map[string]string{"password": fixtures.AdminSecret}, nil)
	require.Equal(t, xhttp.StatusSeeOther, ctx.Response.StatusCode())
	session := helpers.Cookie(ctx, handlers.SessionCookie)
	require.NotEmpty(t, session)
	cookies := map[string]string{handlers.SessionCookie: session}

	page := helpers.Get(env.Handler, "/admin", cookies)
	require.Equal(t, xhttp.StatusOK, page.Response.StatusCode())
	body := string(page.Response.Body())
	assert.Contains(t, body, fixtures.LeakRequest.Name)
	assert.Contains(t, body, "대기중")

	contacts, err := env.Contacts.List(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	id := contacts[0].ID.String()

	ctx = helpers.PostForm(env.Handler, "/admin/contacts/"+id+"/status", map[string]string{"status": "CONSULTED"}, cookies)
	assert.Equal(t, xhttp.StatusSeeOther, ctx.Response.StatusCode())
	assert.True(t, helpers.HasSuffix(ctx, "/admin"))

	contacts, err = env.Contacts.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.ContactStatusConsulted, contacts[0].Status)

	ctx = helpers.PostForm(env.Handler, "/admin/contacts/"+id+"/delete", nil, cookies)
	assert.True(t, helpers.HasSuffix(ctx, "/admin"))
	ctx = helpers.PostForm(env.Handler, "/admin/contacts/"+id+"/delete", nil, cookies)
	assert.True(t, helpers.HasSuffix(ctx, "/admin?error=NOT_FOUND"))

	ctx = helpers.Do(env.Handler, "GET", "/api/health", nil, nil)
	assert.Equal(t, xhttp.StatusOK, ctx.Response.StatusCode())
}
