package panel

import (
	"errors"
	"fmt"
)

// statusError 面板返回的非 2xx 响应
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("panel returned status %d: %s", e.status, e.body)
}

// asStatusError 判断错误链中是否包含 statusError
func asStatusError(err error, target **statusError) bool {
	return errors.As(err, target)
}

// StatusCode 返回错误对应的 HTTP 状态码，非面板状态错误返回 0
func StatusCode(err error) int {
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return statusErr.status
	}
	return 0
}
