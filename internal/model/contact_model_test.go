package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactStatus_ZeroValueIsPending(t *testing.T) {
	var s ContactStatus
	assert.Equal(t, ContactStatusPending, s)
	assert.Equal(t, "PENDING", s.String())
	assert.Equal(t, "대기중", s.Label())
}

func TestParseContactStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    ContactStatus
		wantErr bool
	}{
		{in: "PENDING", want: ContactStatusPending},
		{in: "CONTACTED", want: ContactStatusContacted},
		{in: "상담완료", want: ContactStatusConsulted},
		{in: "연락완료", want: ContactStatusContacted},
		{in: "pending", wantErr: true},
		{in: "Contacted", wantErr: true},
		{in: " CONSULTED ", wantErr: true},
		{in: "DONE", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseContactStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContactStatus_JSON(t *testing.T) {
	b, err := json.Marshal(ContactStatusConsulted)
	require.NoError(t, err)
	assert.Equal(t, `"CONSULTED"`, string(b))

	var s ContactStatus
	assert.Error(t, json.Unmarshal([]byte(`"ARCHIVED"`), &s))
	assert.Error(t, json.Unmarshal([]byte(`2`), &s))

	_, err = json.Marshal(ContactStatus(9))
	assert.Error(t, err)
}

func TestContactStatus_Scan(t *testing.T) {
	var s ContactStatus
	require.NoError(t, s.Scan([]byte("CONTACTED")))
	assert.Equal(t, ContactStatusContacted, s)

	assert.Error(t, s.Scan("WHATEVER"))
	assert.Error(t, s.Scan(int64(1)))

	v, err := ContactStatusConsulted.Value()
	require.NoError(t, err)
	assert.Equal(t, "CONSULTED", v)
}

func TestContactCreateRequest_Validate(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		req := ContactCreateRequest{Name: "홍길동", Phone: "010-1234-5678", Message: "욕실 누수"}
		assert.NoError(t, req.Validate())
	})

	t.Run("whitespace only counts as missing", func(t *testing.T) {
		req := ContactCreateRequest{Name: "  ", Phone: "010", Message: "\n\t"}
		err := req.Validate()
		var missing *MissingFieldsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"name", "message"}, missing.Fields)
	})

	t.Run("phone format is not checked", func(t *testing.T) {
		req := ContactCreateRequest{Name: "a", Phone: "not a phone", Message: "b"}
		assert.NoError(t, req.Validate())
	})
}

func TestContact_JSONShape(t *testing.T) {
	id := uuid.New()
	c := Contact{ID: id, Name: "홍길동", Phone: "010", Message: "m", Status: ContactStatusContacted, CreatedAt: time.Unix(0, 0).UTC()}

	b, err := json.Marshal(c)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, id.String(), out["id"])
	assert.Equal(t, "CONTACTED", out["status"])
	assert.Contains(t, out, "created_at")
}

func TestNewContactNotification(t *testing.T) {
	c := &Contact{ID: uuid.New(), Name: "n", Phone: "p", Message: "m", CreatedAt: time.Now()}
	n := NewContactNotification(c)
	assert.Equal(t, c.ID, n.ContactID)
	assert.Equal(t, c.CreatedAt, n.SubmittedAt)
}
