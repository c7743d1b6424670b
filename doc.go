// Package busmsg 是套接字传输与进程内发布订阅总线之间的消息归一化层
//
// 每个连接上到达的具名事件被解析出发送者（actor）与接收者（target），
// 组装成统一的消息 (action, actor, target, content) 后发布到总线上。
//
// # 嵌入使用
//
//	server := memory.NewServer() // 或任意实现 busmsg.Server 的传输
//	m, err := busmsg.Listen(server, busmsg.WithActions("say", "join"))
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	m.SetActor(func(ctx context.Context, conn busmsg.Conn) (string, error) {
//	    return lookupUser(ctx, conn.ID())
//	})
//
//	closer, _ := m.OnMessage(func(e busmsg.EvtMessageReceived) {
//	    fmt.Println(e.Message.Action(), e.Message.Actor(), e.Message.Target())
//	})
//	defer closer.Close()
//
// # 独立服务
//
// Node 以 WebSocket 传输、Prometheus 指标和 Fx 生命周期组装出一个完整服务，
// 命令行入口 cmd/busmsg 即基于它。
//
//	cfg, _ := config.Load("busmsg.yaml")
//	node, err := busmsg.NewNode(cfg)
//	if err != nil {
//	    return err
//	}
//	if err := node.Start(ctx); err != nil {
//	    return err
//	}
//	defer node.Stop(context.Background())
//
// # 事件
//
//   - action: EvtActionRegistered，新动作注册
//   - message: EvtMessageReceived，消息解析完成
//   - error: EvtResolveFailed，actor 或 target 解析失败
//
// 事件至多投递一次：订阅者缓冲区满时事件被丢弃。
package busmsg
