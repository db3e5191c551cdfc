package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	datawire "github.com/dep2p/go-datawire"
	"github.com/dep2p/go-datawire/pkg/address"
)

// ════════════════════════════════════════════════════════════════════════════
//                              serve
// ════════════════════════════════════════════════════════════════════════════

// printer 打印收到的消息
type printer struct {
	name string
}

func (p printer) OnMessage(ev *datawire.Event) {
	var link string
	if ev.Link != nil {
		link = ev.Link.Name()
	}
	fmt.Printf("[%s] %s: %s\n", p.name, link, ev.Message.Text())
}

func (p printer) OnLinkRemoteOpen(ev *datawire.Event) {
	src, _ := ev.Link.RemoteSource()
	tgt, _ := ev.Link.RemoteTarget()
	logger.Info("链路已打开", "handler", p.name, "link", ev.Link.Name(), "source", src, "target", tgt)
}

func runServe(ctx context.Context, args []string) error {
	var (
		common  commonFlags
		listen  []string
		routes  []string
		noRoot  bool
		reject  bool
		quiesce time.Duration
	)
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	common.register(fs, datawire.PresetNameServer)
	fs.StringSliceVarP(&listen, "listen", "l", nil, "监听地址（host:port，可重复）")
	fs.StringArrayVarP(&routes, "route", "r", nil, "注册打印处理器的地址（可重复，以 / 结尾为前缀）")
	fs.BoolVar(&noRoot, "no-root", false, "不设置根处理器")
	fs.BoolVar(&reject, "reject", true, "拒绝没有处理器的入站链路")
	fs.DurationVar(&quiesce, "quiesce", 0, "空闲时重复触发 quiesced 的间隔（0 表示不重复）")
	if err := fs.Parse(args); err != nil {
		return ignoreHelp(err)
	}

	opts := common.options()
	if len(listen) > 0 {
		opts = append(opts, datawire.WithListenAddrs(listen...))
	}
	if !noRoot {
		opts = append(opts, datawire.WithRoot(printer{name: "root"}))
	}
	for _, r := range routes {
		if err := address.Validate(r); err != nil {
			return err
		}
		opts = append(opts, datawire.WithRoute(r, printer{name: r}))
	}
	if fs.Changed("reject") {
		opts = append(opts, datawire.WithRejectUnrouted(reject))
	}
	if quiesce > 0 {
		opts = append(opts, datawire.WithQuiesceInterval(quiesce))
	}

	return runNode(ctx, opts, func(node *datawire.Node) error {
		fmt.Printf("📦 %s\n", datawire.VersionInfo())
		for _, a := range node.ListenAddrs() {
			fmt.Printf("监听 %s\n", a)
		}
		fmt.Println("按 Ctrl+C 退出")
		return nil
	})
}

// ════════════════════════════════════════════════════════════════════════════
//                              send
// ════════════════════════════════════════════════════════════════════════════

// sender 链路打开后关闭，连接关闭后结束命令
type sender struct {
	link   *datawire.Link
	count  int
	finish context.CancelCauseFunc
}

// OnLinkRemoteOpen 排队的消息已在打开时发出
func (s *sender) OnLinkRemoteOpen(ev *datawire.Event) {
	fmt.Printf("已发送 %d 条消息到 %s\n", s.count, s.link.Descriptor().Target)
	_ = s.link.Stop()
}

func (s *sender) OnLinkError(ev *datawire.Event) {
	s.finish(ev.Err)
}

func (s *sender) OnTransportClosed(ev *datawire.Event) {
	s.finish(ev.Err)
}

func runSend(ctx context.Context, args []string) error {
	var (
		common commonFlags
		name   string
		repeat int
		subj   string
	)
	fs := pflag.NewFlagSet("send", pflag.ContinueOnError)
	common.register(fs, datawire.PresetNameClient)
	fs.StringVar(&name, "name", "", "链路名称")
	fs.IntVarP(&repeat, "repeat", "n", 1, "重复发送次数")
	fs.StringVarP(&subj, "subject", "s", "", "消息主题")
	if err := fs.Parse(args); err != nil {
		return ignoreHelp(err)
	}
	if fs.NArg() < 2 {
		return errors.New("用法: datawire send [flags] //host[:port]/address <text>...")
	}
	target, text := fs.Arg(0), strings.Join(fs.Args()[1:], " ")

	ctx, finish := context.WithCancelCause(ctx)
	s := &sender{finish: finish}
	err := runNode(ctx, common.options(), func(node *datawire.Node) error {
		opts := []datawire.LinkOption{datawire.WithLinkHandler(s)}
		if name != "" {
			opts = append(opts, datawire.WithLinkName(name))
		}
		l, err := node.Link("send "+target, opts...)
		if err != nil {
			return err
		}
		s.link = l
		for i := 0; i < repeat; i++ {
			msg := datawire.NewTextMessage(text)
			msg.Subject = subj
			if err := l.Send(msg); err != nil {
				return err
			}
			s.count++
		}
		return nil
	})
	if err != nil {
		return err
	}
	return causeOf(ctx)
}

// ════════════════════════════════════════════════════════════════════════════
//                              listen
// ════════════════════════════════════════════════════════════════════════════

func runListen(ctx context.Context, args []string) error {
	var (
		common commonFlags
		count  int
	)
	fs := pflag.NewFlagSet("listen", pflag.ContinueOnError)
	common.register(fs, datawire.PresetNameClient)
	fs.IntVarP(&count, "count", "n", 0, "收到 n 条消息后退出（0 表示不限）")
	if err := fs.Parse(args); err != nil {
		return ignoreHelp(err)
	}
	if fs.NArg() != 1 {
		return errors.New("用法: datawire listen [flags] //host[:port]/address")
	}
	source := fs.Arg(0)

	ctx, finish := context.WithCancelCause(ctx)
	received := 0
	h := datawire.Handlers{
		datawire.Processor(func(ev *datawire.Event, msg *datawire.Message) {
			received++
			fmt.Println(msg.Text())
			if count > 0 && received >= count {
				_ = ev.Link.Close()
				finish(nil)
			}
		}),
		datawire.HandlerFunc(func(ev *datawire.Event) {
			switch ev.Type {
			case datawire.EventLinkError, datawire.EventTransportClosed:
				finish(ev.Err)
			}
		}),
	}

	err := runNode(ctx, common.options(), func(node *datawire.Node) error {
		_, err := node.Link("recv "+source, datawire.WithLinkHandler(h))
		return err
	})
	if err != nil {
		return err
	}
	return causeOf(ctx)
}

// ════════════════════════════════════════════════════════════════════════════
//                              辅助函数
// ════════════════════════════════════════════════════════════════════════════

func ignoreHelp(err error) error {
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	return err
}

// causeOf 返回结束原因；正常结束和用户中断返回 nil
func causeOf(ctx context.Context) error {
	err := context.Cause(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
