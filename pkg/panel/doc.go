// Package panel 提供编排面板的 HTTP 客户端
//
// 面板是实例真正运行的地方：节点库存、网络分配、实例的创建/暂停/恢复/删除
// 都通过面板 API 完成。客户端的几个关键行为：
//
//   - 库存查询（ListNodes / ListFreeAllocations）每次都实时翻页取全量，
//     不做任何缓存，保证并发的外部变更能立即反映到调度决策中
//   - 只读查询带指数退避重试；变更类调用（创建/暂停/删除）绝不自动重试，
//     由调用方决定补偿或下个周期重试
//   - Suspend/Unsuspend/Delete 对已不存在的目标（404）视为成功，
//     保证生命周期清扫可以安全地重复执行
//
// 所有请求都带有界超时，超时与其他远程失败同等对待。
package panel
