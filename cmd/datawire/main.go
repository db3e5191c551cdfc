// Package main 提供 datawire 命令行入口
//
// 子命令：
//
//	datawire serve   [flags]               监听并打印收到的消息
//	datawire send    [flags] <addr> <text>  向地址发送文本消息
//	datawire listen  [flags] <addr>         从地址接收消息
//	datawire version                        显示版本信息
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	datawire "github.com/dep2p/go-datawire"
	"github.com/dep2p/go-datawire/pkg/lib/log"
)

var logger = log.Logger("datawire/cmd")

// command 子命令
type command struct {
	name  string
	usage string
	run   func(ctx context.Context, args []string) error
}

var commands = []command{
	{name: "serve", usage: "监听并打印收到的消息", run: runServe},
	{name: "send", usage: "向地址发送文本消息", run: runSend},
	{name: "listen", usage: "从地址接收消息", run: runListen},
	{name: "version", usage: "显示版本信息", run: runVersion},
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printHelp()
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, c := range commands {
		if c.name == args[0] {
			return c.run(ctx, args[1:])
		}
	}
	printHelp()
	return fmt.Errorf("未知子命令 %q", args[0])
}

func printHelp() {
	fmt.Println("用法: datawire <command> [flags] [args]")
	fmt.Println()
	fmt.Println("子命令:")
	for _, c := range commands {
		fmt.Printf("  %-8s %s\n", c.name, c.usage)
	}
	fmt.Println()
	fmt.Println("使用 datawire <command> --help 查看子命令参数")
}

// ════════════════════════════════════════════════════════════════════════════
//                              公共参数
// ════════════════════════════════════════════════════════════════════════════

// commonFlags 各子命令共享的参数
type commonFlags struct {
	configFile string
	preset     string
	logLevel   string
	metrics    string
}

func (c *commonFlags) register(fs *pflag.FlagSet, preset string) {
	fs.StringVarP(&c.configFile, "config", "c", "", "配置文件路径（.json / .yaml）")
	fs.StringVar(&c.preset, "preset", preset, "预设配置 (server/client/test)")
	fs.StringVar(&c.logLevel, "log-level", "", "日志级别 (debug/info/warn/error)")
	fs.StringVar(&c.metrics, "metrics", "", "/metrics 监听地址（为空时不暴露）")
}

// options 构建节点选项
//
// 优先级：命令行参数 > 配置文件 > 预设。
func (c *commonFlags) options() []datawire.Option {
	var opts []datawire.Option
	if c.configFile != "" {
		opts = append(opts, datawire.WithConfigFile(c.configFile))
	} else {
		opts = append(opts, datawire.WithPreset(c.preset))
	}
	if c.logLevel != "" {
		opts = append(opts, datawire.WithLogLevel(c.logLevel))
	}
	if c.metrics != "" {
		opts = append(opts, datawire.WithMetrics(true, c.metrics))
	}
	return opts
}

// runNode 启动节点，等待 ctx 结束或反应器退出后关闭
func runNode(ctx context.Context, opts []datawire.Option, ready func(*datawire.Node) error) error {
	node, err := datawire.Start(ctx, opts...)
	if err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	defer func() { _ = node.Close() }()

	logger.Info("节点已启动", "version", datawire.Version, "addrs", node.ListenAddrs())
	if ready != nil {
		if err := ready(node); err != nil {
			return err
		}
	}

	select {
	case <-ctx.Done():
		fmt.Println("\n正在关闭节点...")
	case <-node.Done():
	}
	return nil
}

func runVersion(_ context.Context, _ []string) error {
	fmt.Println(datawire.VersionInfo())
	return nil
}
