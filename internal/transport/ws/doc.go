// Package ws 基于 gorilla/websocket 的传输实现
//
// 每个 WebSocket 文本帧是一个 JSON 数据包：
//
//	入站事件: {"type":"event","id":7,"data":["say","hi"]}
//	确认回应: {"type":"ack","id":7,"data":["ok"]}
//	服务端推送: {"type":"event","data":["news","x"]}
//
// 每个连接一个读循环，入站数据包在读循环 goroutine 上同步处理；
// 读循环结束即视为断开。
package ws
