// Package ginx 提供 gin 框架的 handler 适配器，支持自动参数绑定和响应处理
//
// 请求体使用 JSON 绑定，URI/Query/Form 参数会作为补充绑定。
// 如果参数类型实现了 IsValid() error 方法，绑定成功后会自动调用校验。
// 错误响应对 *apierror.Error 特殊处理：使用其 HTTPStatus 和错误码序列化。
//
// 支持多种 handler 函数签名：
//
//	// 1. 有参数，有返回值，有 error
//	func(c *gin.Context, args *Args) (resp, error)
//
//	// 2. 有参数，只有 error
//	func(c *gin.Context, args *Args) error
//
//	// 3. 无参数，有返回值，有 error
//	func(c *gin.Context) (resp, error)
//
//	// 4. 无参数，只有返回值
//	func(c *gin.Context) resp
//
//	// 5. 无参数，无返回值
//	func(c *gin.Context)
//
// 使用示例：
//
//	router := gin.Default()
//
//	router.POST("/store/purchase", ginx.Adapt5(func(c *gin.Context, args *PurchaseInstanceRequest) (*PurchaseInstanceResponse, error) {
//	    return &PurchaseInstanceResponse{...}, nil
//	}))
//
//	router.GET("/health", ginx.Adapt2(func(c *gin.Context) string {
//	    return "ok"
//	}))
package ginx
