// Package idgen 提供递增 ID 生成器
//
// 使用 Sonyflake 算法生成全局唯一且递增的 ID。
// Sonyflake 是 Snowflake 算法的改进版本，生成的 ID 具有以下特性：
//   - 全局唯一
//   - 时间有序（递增）
//   - 64 位整数
//   - 分布式友好
//
// 生成的 ID 格式：
//   - 实例 ID: srv-{递增数字}
//   - 套餐 ID: plan-{递增数字}
//   - 账户 ID: acct-{递增数字}
//
// 使用方式：
//
// 方式一：使用包级别的便捷函数（推荐，使用默认生成器）
//
//	instanceID, err := idgen.GenerateInstanceID()
//	// instanceID: "srv-1234567890"
//
//	planID, err := idgen.GeneratePlanID()
//	// planID: "plan-1234567891"
//
// 方式二：创建自定义生成器
//
//	gen := idgen.New()
//	instanceID, err := gen.GenerateInstanceID()
package idgen
