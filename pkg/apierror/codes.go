package apierror

import "net/http"

// 预定义错误码
// 业务层通过 errors.Is 按 Code 判断错误类型，HTTP 层直接使用 HTTPStatus 渲染
var (
	// ErrInsufficientFunds 账户余额不足以完成扣款
	ErrInsufficientFunds = &Error{
		Code:       "InsufficientFunds",
		Message:    "The account balance is not sufficient for this operation.",
		HTTPStatus: http.StatusPaymentRequired,
	}

	// ErrOutOfStock 套餐库存已耗尽
	ErrOutOfStock = &Error{
		Code:       "OutOfStock",
		Message:    "The requested plan has no remaining stock.",
		HTTPStatus: http.StatusConflict,
	}

	// ErrAlreadyOwned 套餐限制每个账户只能持有一个实例
	ErrAlreadyOwned = &Error{
		Code:       "AlreadyOwned",
		Message:    "The account already holds an instance of this plan.",
		HTTPStatus: http.StatusConflict,
	}

	// ErrNoCapacity 没有节点能满足资源需求
	ErrNoCapacity = &Error{
		Code:       "NoCapacity",
		Message:    "There is not enough capacity in the fleet to fulfill your request. Wait for additional capacity to become available.",
		HTTPStatus: http.StatusServiceUnavailable,
	}

	// ErrUpstreamUnavailable 无法访问编排面板（库存查询失败）
	ErrUpstreamUnavailable = &Error{
		Code:       "UpstreamUnavailable",
		Message:    "The orchestration panel could not be reached.",
		HTTPStatus: http.StatusBadGateway,
	}

	// ErrUpstreamFailure 编排面板的变更调用失败
	ErrUpstreamFailure = &Error{
		Code:       "UpstreamFailure",
		Message:    "The orchestration panel failed to apply the requested change.",
		HTTPStatus: http.StatusBadGateway,
	}

	// ErrGraceExpired 实例的宽限期已结束，不能再续费
	ErrGraceExpired = &Error{
		Code:       "GraceExpired",
		Message:    "The grace period for this instance has elapsed. It can no longer be renewed.",
		HTTPStatus: http.StatusConflict,
	}

	// ErrNotFound 请求的资源不存在
	ErrNotFound = &Error{
		Code:       "NotFound",
		Message:    "The requested resource does not exist.",
		HTTPStatus: http.StatusNotFound,
	}

	// ErrValidation 请求参数校验失败
	ErrValidation = &Error{
		Code:       "ValidationError",
		Message:    "The request parameters are invalid.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrInternalError 未知的内部错误
	ErrInternalError = &Error{
		Code:       "InternalError",
		Message:    "The request processing has failed because of an unknown error, exception, or failure.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
