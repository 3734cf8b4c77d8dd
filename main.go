package main

import (
	"context"
	"fmt"
	"os"

	"lark_reader/core"
	"lark_reader/model"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	flagType       string
	flagWikiSpace  string
	flagRecursive  bool
	flagOutput     string
	flagPretty     bool
	flagConfig     string
	flagNotifyChat string
	flagVerbose    bool

	log *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "lark_reader [token_or_url]",
	Short: "飞书统一文档读取器，支持 docx / doc / sheet / bitable / wiki",
	Long: `飞书统一文档读取器，自动识别文档类型并输出统一格式。

示例:
  # 读取新版文档
  lark_reader docx_xxxxxxxxxxxxxx

  # 读取电子表格
  lark_reader shtcnxxxxxxxxxxxxx --type sheet

  # 从 URL 读取
  lark_reader "https://xxx.feishu.cn/docx/xxxxx"

  # 递归读取整个知识空间
  lark_reader --wiki-space SPACE_ID --recursive`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zapCfg := zap.NewDevelopmentConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		if flagVerbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, _ := zapCfg.Build()
		log = logger.Sugar()
	},
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && flagWikiSpace == "" {
		_ = cmd.Usage()
		return fmt.Errorf("需要提供文档 token/URL 或 --wiki-space")
	}
	if flagOutput != core.OutputJSON && flagOutput != core.OutputText {
		return fmt.Errorf("不支持的输出格式: %s", flagOutput)
	}
	if err := validateType(flagType); err != nil {
		return err
	}

	cfg, err := core.LoadConfig(flagConfig, log)
	if err != nil {
		return err
	}

	ctx := context.Background()
	reader := core.NewReader(cfg, core.WithLogger(log))

	if flagWikiSpace != "" {
		return readWikiSpace(ctx, reader, flagWikiSpace)
	}
	return readDocument(ctx, reader, args[0])
}

func readDocument(ctx context.Context, reader *core.Reader, tokenOrURL string) error {
	result, err := reader.Read(ctx, tokenOrURL, flagType)
	if err != nil {
		notifyError(ctx, reader, tokenOrURL, err)
		return err
	}

	if err = core.WriteResult(os.Stdout, result, flagOutput, flagPretty); err != nil {
		return err
	}

	if flagNotifyChat != "" {
		if err = reader.NotifyCompletion(ctx, flagNotifyChat, tokenOrURL); err != nil {
			log.Warnf("发送群通知失败: %v", err)
		}
	}
	return nil
}

func readWikiSpace(ctx context.Context, reader *core.Reader, spaceID string) error {
	result, err := reader.ReadWikiSpace(ctx, spaceID, flagRecursive)
	if err != nil {
		notifyError(ctx, reader, spaceID, err)
		return err
	}

	if err = core.WriteResult(os.Stdout, result, flagOutput, flagPretty); err != nil {
		return err
	}

	if flagNotifyChat != "" {
		if failed := core.FailedNodes(result.Nodes); len(failed) > 0 {
			err = reader.NotifyFailedNodes(ctx, flagNotifyChat, spaceID, failed)
		} else {
			err = reader.NotifyCompletion(ctx, flagNotifyChat, spaceID)
		}
		if err != nil {
			log.Warnf("发送群通知失败: %v", err)
		}
	}
	return nil
}

func notifyError(ctx context.Context, reader *core.Reader, subject string, readErr error) {
	if flagNotifyChat == "" {
		return
	}
	if err := reader.NotifyError(ctx, flagNotifyChat, subject, readErr); err != nil {
		log.Warnf("发送群通知失败: %v", err)
	}
}

func validateType(docType string) error {
	if docType == "" {
		return nil
	}
	for _, t := range model.DocTypes {
		if docType == t {
			return nil
		}
	}
	return fmt.Errorf("不支持的文档类型: %s (可选: docx/doc/sheet/bitable/wiki)", docType)
}

func init() {
	rootCmd.Flags().StringVarP(&flagType, "type", "t", "", "文档类型 (docx/doc/sheet/bitable/wiki)，默认自动检测")
	rootCmd.Flags().StringVar(&flagWikiSpace, "wiki-space", "", "读取整个知识空间 (提供 space_id)")
	rootCmd.Flags().BoolVarP(&flagRecursive, "recursive", "r", false, "递归读取知识空间全部节点内容")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", core.OutputJSON, "输出格式 (json/text)")
	rootCmd.Flags().BoolVarP(&flagPretty, "pretty", "p", false, "格式化 JSON 输出")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "配置文件路径，默认 "+model.ConfigPath)
	rootCmd.Flags().StringVar(&flagNotifyChat, "notify-chat", "", "读取结束后向该群发送通知卡片 (chat_id)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "输出调试日志")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		msg := core.UserMessage(err)
		fmt.Fprintln(os.Stderr, "错误:", msg)
		os.Exit(1)
	}
}
