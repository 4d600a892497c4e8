package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ContactStatus is where an inquiry stands in the follow-up process.
// The zero value is ContactStatusPending.
type ContactStatus uint8

const (
	ContactStatusPending ContactStatus = iota
	ContactStatusContacted
	ContactStatusConsulted
)

var contactStatusNames = [...]string{
	ContactStatusPending:   "PENDING",
	ContactStatusContacted: "CONTACTED",
	ContactStatusConsulted: "CONSULTED",
}

var contactStatusLabels = [...]string{
	ContactStatusPending:   "대기중",
	ContactStatusContacted: "연락완료",
	ContactStatusConsulted: "상담완료",
}

// ContactStatuses lists every status in display order.
func ContactStatuses() []ContactStatus {
	return []ContactStatus{ContactStatusPending, ContactStatusContacted, ContactStatusConsulted}
}

func (s ContactStatus) Valid() bool {
	return int(s) < len(contactStatusNames)
}

func (s ContactStatus) String() string {
	if !s.Valid() {
		return fmt.Sprintf("ContactStatus(%d)", uint8(s))
	}
	return contactStatusNames[s]
}

// Label is the Korean text shown to admins.
func (s ContactStatus) Label() string {
	if !s.Valid() {
		return s.String()
	}
	return contactStatusLabels[s]
}

// ParseContactStatus accepts the canonical name or the Korean label, exactly
// as written.
func ParseContactStatus(v string) (ContactStatus, error) {
	for i, name := range contactStatusNames {
		if v == name || v == contactStatusLabels[i] {
			return ContactStatus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown contact status %q", v)
}

func (s ContactStatus) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid contact status %d", uint8(s))
	}
	return json.Marshal(s.String())
}

func (s *ContactStatus) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	parsed, err := ParseContactStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value stores the status by name so the column stays readable.
func (s ContactStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid contact status %d", uint8(s))
	}
	return s.String(), nil
}

func (s *ContactStatus) Scan(src any) error {
	var v string
	switch t := src.(type) {
	case string:
		v = t
	case []byte:
		v = string(t)
	default:
		return fmt.Errorf("cannot scan %T into ContactStatus", src)
	}
	parsed, err := ParseContactStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type Contact struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Phone     string        `json:"phone"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// ContactCreateRequest is a submission from the public form. Any status the
// caller sends is ignored; new contacts always start pending.
type ContactCreateRequest struct {
	Name    string `json:"name"    form:"name"    validate:"required"`
	Phone   string `json:"phone"   form:"phone"   validate:"required"`
	Message string `json:"message" form:"message" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize trims surrounding whitespace from every field.
func (r ContactCreateRequest) Normalize() ContactCreateRequest {
	return ContactCreateRequest{
		Name:    strings.TrimSpace(r.Name),
		Phone:   strings.TrimSpace(r.Phone),
		Message: strings.TrimSpace(r.Message),
	}
}

// Validate checks the trimmed request and reports every missing field.
func (r ContactCreateRequest) Validate() error {
	err := validate.Struct(r.Normalize())
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, strings.ToLower(fe.Field()))
	}
	return &MissingFieldsError{Fields: missing}
}

type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// ContactNotification is what gets announced to the notification sink after
// a contact is stored.
type ContactNotification struct {
	ContactID   uuid.UUID `json:"contact_id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func NewContactNotification(c *Contact) ContactNotification {
	return ContactNotification{
		ContactID:   c.ID,
		Name:        c.Name,
		Phone:       c.Phone,
		Message:     c.Message,
		SubmittedAt: c.CreatedAt,
	}
}

// DisplayZone is the zone timestamps are shown in to people.
var DisplayZone = time.FixedZone("KST", 9*60*60)
