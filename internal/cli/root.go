package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/lxb-translator/internal/config"
	"github.com/nerdneilsfield/lxb-translator/internal/logger"
	"github.com/nerdneilsfield/lxb-translator/internal/runner"
	"github.com/nerdneilsfield/lxb-translator/internal/stats"
	"github.com/nerdneilsfield/lxb-translator/pkg/providers/factory"
)

var (
	// 命令行标志变量
	cfgFile       string
	sourceLang    string
	targetLang    string
	providerName  string
	encodingName  string
	extension     string
	cacheFile     string
	glossaryPath  string
	outputDir     string
	minLength     int
	requestLimit  int
	cooldownMS    int
	retryAttempts int
	retryDelayMS  int
	saveEvery     int
	debugMode     bool
	verboseMode   bool // 显示详细日志
	dryRun        bool // 预演模式，只扫描并列出片段
	showVersion   bool
	listProviders bool
)

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lxb-translator [flags] input_dir",
		Short: "lxb-translator 是一个二进制文本资源文件的批量翻译工具",
		Long: `lxb-translator 是一个二进制文本资源文件的批量翻译工具。
它从 .lxb 文件中提取可打印文本片段（$...$ 保护标记原样保留），
通过可配置的翻译后端逐个翻译，再把译文以字节替换写回文件副本。
已翻译的片段缓存在 JSON 文件中，跨运行复用，不重复计费。

支持的翻译提供商:
  - google: Google Translate
  - deeplx: DeepLX (免费 DeepL 替代)
  - ollama: Ollama 本地大语言模型
  - openai: OpenAI GPT 模型
  - gateway: OpenAI 兼容网关`,
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion || listProviders {
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			log := logger.NewConsoleLogger(debugMode, verboseMode)
			defer func() {
				_ = log.Sync()
			}()

			if showVersion {
				fmt.Printf("lxb-translator %s (commit %s, built %s)\n", version, commit, buildDate)
				return
			}

			if listProviders {
				fmt.Println("支持的翻译提供商:")
				for _, p := range factory.SupportedProviders() {
					fmt.Printf("  - %s\n", p)
				}
				return
			}

			// 加载配置
			cfg, err := config.LoadConfig(cfgFile)
			if err != nil {
				log.Error("加载配置失败", zap.Error(err))
				os.Exit(1)
			}

			// 使用命令行参数覆盖配置
			updateConfigFromFlags(cmd, cfg)

			if err := cfg.Validate(); err != nil {
				log.Error("配置无效", zap.Error(err))
				os.Exit(1)
			}

			// 创建翻译提供商
			providerFactory := factory.New()
			provider, err := providerFactory.CreateProvider(cfg.Provider, cfg.ProviderSettings(cfg.Provider))
			if err != nil {
				log.Error("创建翻译提供商失败",
					zap.String("provider", cfg.Provider),
					zap.Error(err))
				os.Exit(1)
			}

			// 打开统计数据库
			statsDB, err := stats.NewDatabase(cfg.StatsFile, log)
			if err != nil {
				log.Warn("打开统计数据库失败，统计将被跳过", zap.Error(err))
				statsDB = nil
			}

			run, err := runner.New(cfg, provider, statsDB, log)
			if err != nil {
				log.Error("初始化运行器失败", zap.Error(err))
				os.Exit(1)
			}
			run.DryRun = dryRun

			if _, err := run.Run(cmd.Context(), args[0]); err != nil {
				log.Error("翻译运行失败", zap.Error(err))
				os.Exit(1)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径")
	rootCmd.PersistentFlags().StringVar(&sourceLang, "source", "", "源语言")
	rootCmd.PersistentFlags().StringVar(&targetLang, "target", "", "目标语言")
	rootCmd.PersistentFlags().StringVar(&providerName, "provider", "", "指定翻译提供商 (google, deeplx, ollama, openai, gateway)")
	rootCmd.PersistentFlags().StringVar(&encodingName, "encoding", "", "文件文本编码 (iso-8859-1, windows-1252, iso-8859-15)")
	rootCmd.PersistentFlags().StringVar(&extension, "extension", "", "要处理的文件扩展名")
	rootCmd.PersistentFlags().StringVar(&cacheFile, "cache-file", "", "翻译缓存文件路径")
	rootCmd.PersistentFlags().StringVar(&glossaryPath, "glossary", "", "词汇表文件路径 (TOML)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output", "", "输出目录 (默认与输入文件同目录)")
	rootCmd.PersistentFlags().IntVar(&minLength, "min-length", 0, "可翻译片段的最小长度")
	rootCmd.PersistentFlags().IntVar(&requestLimit, "request-limit", 0, "触发冷却前允许的请求数")
	rootCmd.PersistentFlags().IntVar(&cooldownMS, "cooldown", 0, "冷却时长 (毫秒)")
	rootCmd.PersistentFlags().IntVar(&retryAttempts, "retry", 0, "单个片段的最大尝试次数")
	rootCmd.PersistentFlags().IntVar(&retryDelayMS, "retry-delay", 0, "重试间隔 (毫秒)")
	rootCmd.PersistentFlags().IntVar(&saveEvery, "save-every", 0, "每多少次成功翻译保存一次缓存")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "启用调试日志")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "显示详细日志")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "预演模式，只扫描并列出片段，不翻译不写文件")
	rootCmd.PersistentFlags().BoolVar(&showVersion, "version", false, "显示版本信息")
	rootCmd.PersistentFlags().BoolVar(&listProviders, "list-providers", false, "列出支持的翻译提供商")

	rootCmd.AddCommand(NewStatsCommand())

	return rootCmd
}

// updateConfigFromFlags 用显式给出的命令行标志覆盖配置
func updateConfigFromFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("source") {
		cfg.SourceLang = sourceLang
	}
	if cmd.Flags().Changed("target") {
		cfg.TargetLang = targetLang
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = providerName
	}
	if cmd.Flags().Changed("encoding") {
		cfg.Encoding = encodingName
	}
	if cmd.Flags().Changed("extension") {
		cfg.Extension = extension
	}
	if cmd.Flags().Changed("cache-file") {
		cfg.CacheFile = cacheFile
	}
	if cmd.Flags().Changed("glossary") {
		cfg.GlossaryPath = glossaryPath
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = outputDir
	}
	if cmd.Flags().Changed("min-length") {
		cfg.MinFragmentLength = minLength
	}
	if cmd.Flags().Changed("request-limit") {
		cfg.RequestLimit = requestLimit
	}
	if cmd.Flags().Changed("cooldown") {
		cfg.CooldownMS = cooldownMS
	}
	if cmd.Flags().Changed("retry") {
		cfg.RetryAttempts = retryAttempts
	}
	if cmd.Flags().Changed("retry-delay") {
		cfg.RetryDelayMS = retryDelayMS
	}
	if cmd.Flags().Changed("save-every") {
		cfg.SaveEvery = saveEvery
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = debugMode
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verboseMode
	}
}
