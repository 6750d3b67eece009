// Package apierror 提供带错误码的错误类型，用于所有服务的统一错误处理
//
// 错误响应格式：
//
//	{
//	    "errors": [
//	        {
//	            "code": "InsufficientFunds",
//	            "message": "The account balance is not sufficient for this operation."
//	        }
//	    ],
//	    "requestID": "ea966190-f9aa-478e-9ede-example"
//	}
//
// 使用示例：
//
//	// 直接使用预定义的错误
//	return nil, apierror.ErrOutOfStock
//
//	// 包装底层错误，保留错误码和 HTTP 状态码
//	return nil, apierror.WrapError(apierror.ErrUpstreamFailure, "create server", err)
//
//	// 判断错误类型
//	if errors.Is(err, apierror.ErrInsufficientFunds) { ... }
//
// 预定义错误变量：
//
//   - ErrInsufficientFunds: 余额不足
//   - ErrOutOfStock: 套餐库存耗尽
//   - ErrAlreadyOwned: 账户已持有该套餐的实例
//   - ErrNoCapacity: 节点容量不足
//   - ErrUpstreamUnavailable: 编排面板不可达
//   - ErrUpstreamFailure: 编排面板调用失败
//   - ErrGraceExpired: 宽限期已结束
//   - ErrNotFound: 资源不存在
//   - ErrValidation: 请求参数校验失败
//   - ErrInternalError: 内部错误
package apierror
