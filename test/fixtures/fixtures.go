package fixtures

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/allinone-seolbi/site/internal/model"
	"github.com/google/uuid"
)

const (
	AdminSecret   = "e2e-admin-secret"
	TokenKey      = "e2e-signing-key"
	SiteName      = "올인원설비"
	SiteChatURL   = "http://pf.kakao.com/_lQxaxon/chat"
	WebhookSender = "올인원 알림"
)

var (
	LeakRequest = model.ContactCreateRequest{
		Name:    "홍길동",
		Phone:   "010-1234-5678",
		Message: "욕실 천장에서 물이 샙니다",
	}

	BoilerRequest = model.ContactCreateRequest{
		Name:    "김철수",
		Phone:   "010-9876-5432",
		Message: "보일러 점검 부탁드립니다",
	}

	BlankPhoneRequest = model.ContactCreateRequest{
		Name:    "이영희",
		Phone:   "   ",
		Message: "배관 교체 견적 문의",
	}
)

// ContactJSON encodes req as the public API expects, adding a status the
// server must ignore.
func ContactJSON(req model.ContactCreateRequest, status string) []byte {
	body := map[string]string{
		"name":    req.Name,
		"phone":   req.Phone,
		"message": req.Message,
	}
	if status != "" {
		body["status"] = status
	}
	b, _ := json.Marshal(body)
	return b
}

func StatusJSON(status string) []byte {
	return []byte(fmt.Sprintf(`{"status":%q}`, status))
}

func PasswordJSON(secret string) []byte {
	return []byte(fmt.Sprintf(`{"password":%q}`, secret))
}

func NewContact(name string, createdAt time.Time, status model.ContactStatus) *model.Contact {
	return &model.Contact{
		ID:        uuid.New(),
		Name:      name,
		Phone:     "010-0000-0000",
		Message:   name + " 문의",
		Status:    status,
		CreatedAt: createdAt,
	}
}
