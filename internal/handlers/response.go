package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/allinone-seolbi/site/internal/model"
	"github.com/allinone-seolbi/site/internal/services"
	xhttp "github.com/allinone-seolbi/site/pkg/http"
	"github.com/allinone-seolbi/site/pkg/logger"
)

type errorResponse struct {
	Error  string   `json:"error"`
	Code   string   `json:"code"`
	Fields []string `json:"fields,omitempty"`
}

var errorMessages = map[string]string{
	services.CodeValidation:  "입력값이 올바르지 않습니다.",
	services.CodeNotFound:    "해당 문의를 찾을 수 없습니다.",
	services.CodeAuthDenied:  "인증에 실패했습니다.",
	services.CodeServerError: "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요.",
}

var codeStatus = map[string]int{
	services.CodeValidation:  xhttp.StatusBadRequest,
	services.CodeNotFound:    xhttp.StatusNotFound,
	services.CodeAuthDenied:  xhttp.StatusUnauthorized,
	services.CodeServerError: xhttp.StatusInternalServerError,
}

// readJSON decodes the body; a malformed one is a validation failure.
func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", services.ErrValidation, err)
	}
	return nil
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Error("failed to encode response", "error", err)
		ctx.Error(xhttp.StatusText(xhttp.StatusInternalServerError), xhttp.StatusInternalServerError)
		return
	}
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

// writeError answers with the status and Korean message for err's code.
// Internal failures are logged here so callers don't have to.
func writeError(ctx *xhttp.RequestCtx, err error) {
	code := services.ErrorCode(err)
	resp := errorResponse{Error: errorMessages[code], Code: code}

	var missing *model.MissingFieldsError
	if errors.As(err, &missing) {
		resp.Error = "필수 항목을 모두 입력해주세요."
		resp.Fields = missing.Fields
	}
	if code == services.CodeServerError {
		logger.Error("request failed", "path", string(ctx.Path()), "error", err)
	}

	writeJSON(ctx, codeStatus[code], resp)
}

func pathParam(ctx *xhttp.RequestCtx, name string) string {
	if v, ok := ctx.UserValue(name).(string); ok {
		return v
	}
	return ""
}
