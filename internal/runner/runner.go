package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/lxb-translator/internal/cache"
	"github.com/nerdneilsfield/lxb-translator/internal/config"
	"github.com/nerdneilsfield/lxb-translator/internal/lxb"
	"github.com/nerdneilsfield/lxb-translator/internal/stats"
	"github.com/nerdneilsfield/lxb-translator/internal/translator"
	"github.com/nerdneilsfield/lxb-translator/pkg/providers"
)

// Runner 批量翻译运行器，按文件名顺序逐个处理输入目录下的二进制文件
type Runner struct {
	cfg      *config.Config
	logger   *zap.Logger
	session  *translator.Session
	scanner  *lxb.Scanner
	rewriter *lxb.Rewriter
	cache    *cache.Cache
	statsDB  *stats.Database
	provider providers.TranslationProvider

	// DryRun 只扫描并报告片段，不翻译也不写输出文件
	DryRun bool
}

// Result 一次运行的结果
type Result struct {
	Files       int
	Fragments   int
	OutputFiles []string
	Counters    translator.Counters
	Duration    time.Duration
}

// New 创建运行器，加载缓存与词汇表
func New(cfg *config.Config, provider providers.TranslationProvider, statsDB *stats.Database, logger *zap.Logger) (*Runner, error) {
	codec, err := lxb.NewCodec(cfg.Encoding)
	if err != nil {
		return nil, err
	}

	translationCache := cache.New(cfg.CacheFile, logger)
	if err := translationCache.Load(); err != nil {
		return nil, fmt.Errorf("failed to load translation cache: %w", err)
	}

	var glossary *config.Glossary
	if cfg.GlossaryPath != "" {
		glossary, err = config.LoadGlossary(cfg.GlossaryPath)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded glossary",
			zap.String("path", cfg.GlossaryPath),
			zap.Int("entries", len(glossary.Translations)))
	}

	return &Runner{
		cfg:      cfg,
		logger:   logger,
		session:  translator.NewSession(cfg, provider, translationCache, glossary, logger),
		scanner:  lxb.NewScanner(cfg.MinFragmentLength, codec, logger),
		rewriter: lxb.NewRewriter(codec),
		cache:    translationCache,
		statsDB:  statsDB,
		provider: provider,
	}, nil
}

// Run 处理输入目录下所有匹配扩展名的文件
func (r *Runner) Run(ctx context.Context, inputDir string) (*Result, error) {
	files, err := r.listInputFiles(inputDir)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		r.logger.Warn("no input files found",
			zap.String("input_dir", inputDir),
			zap.String("extension", r.cfg.Extension))
		return &Result{}, nil
	}

	r.logger.Info("starting translation run",
		zap.String("input_dir", inputDir),
		zap.Int("files", len(files)),
		zap.String("provider", r.provider.GetName()),
		zap.String("source_lang", r.cfg.SourceLang),
		zap.String("target_lang", r.cfg.TargetLang))

	start := time.Now()
	result := &Result{Files: len(files)}

	for _, name := range files {
		fragments, outputPath, err := r.processFile(ctx, filepath.Join(inputDir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to process %s: %w", name, err)
		}
		result.Fragments += fragments
		if outputPath != "" {
			result.OutputFiles = append(result.OutputFiles, outputPath)
		}
	}

	// 运行结束时无条件保存缓存
	if !r.DryRun {
		if err := r.session.Flush(); err != nil {
			r.logger.Warn("failed to save translation cache", zap.Error(err))
		}
	}

	result.Counters = r.session.Counters()
	result.Duration = time.Since(start)

	if r.statsDB != nil && !r.DryRun {
		r.recordRun(result)
	}

	r.renderSummary(result)

	return result, nil
}

// listInputFiles 枚举输入目录，按文件名排序，目录缺失视为致命错误
func (r *Runner) listInputFiles(inputDir string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", inputDir, err)
	}

	derivedSuffix := "-" + r.cfg.TargetLang
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !strings.EqualFold(ext, r.cfg.Extension) {
			continue
		}
		// 未设置 output_dir 时译文与输入同目录，跳过此前运行生成的派生文件
		if strings.HasSuffix(strings.TrimSuffix(entry.Name(), ext), derivedSuffix) {
			r.logger.Debug("skipping derived output file", zap.String("file", entry.Name()))
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

// processFile 扫描单个文件，翻译其片段并写出替换后的副本
func (r *Runner) processFile(ctx context.Context, path string) (int, string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return 0, "", fmt.Errorf("failed to read file: %w", err)
	}

	set, err := r.scanner.Scan(buf)
	if err != nil {
		return 0, "", fmt.Errorf("failed to scan file: %w", err)
	}

	name := filepath.Base(path)
	sourceID := strings.TrimSuffix(name, filepath.Ext(name))

	r.logger.Info("scanned file",
		zap.String("file", name),
		zap.Int("size", len(buf)),
		zap.Int("fragments", set.Len()))

	if r.DryRun {
		for _, fragment := range set.Fragments() {
			r.logger.Info("fragment",
				zap.String("file", name),
				zap.String("kind", fragment.Kind.String()),
				zap.String("text", fragment.Text))
		}
		return set.Len(), "", nil
	}

	bar, _ := pterm.DefaultProgressbar.
		WithTotal(set.Len()).
		WithTitle(name).
		Start()

	out, err := r.rewriter.Apply(buf, set, func(fragment lxb.Fragment) string {
		translated := r.session.Translate(ctx, sourceID, fragment.Text)
		if bar != nil {
			bar.Increment()
		}
		return translated
	})
	if bar != nil {
		bar.Stop()
	}
	if err != nil {
		return 0, "", fmt.Errorf("failed to rewrite file: %w", err)
	}

	outputPath := r.outputPath(path)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return 0, "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return 0, "", fmt.Errorf("failed to write output file: %w", err)
	}

	r.logger.Info("wrote translated file",
		zap.String("file", name),
		zap.String("output", outputPath))

	return set.Len(), outputPath, nil
}

// outputPath 派生输出文件名：<原名>-<目标语言><扩展名>
func (r *Runner) outputPath(inputPath string) string {
	dir := filepath.Dir(inputPath)
	if r.cfg.OutputDir != "" {
		dir = r.cfg.OutputDir
	}
	name := filepath.Base(inputPath)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return filepath.Join(dir, fmt.Sprintf("%s-%s%s", stem, r.cfg.TargetLang, ext))
}

// recordRun 把本次运行写入统计数据库
func (r *Runner) recordRun(result *Result) {
	record := stats.NewRunRecord(r.provider.GetName(), r.cfg.SourceLang, r.cfg.TargetLang)
	record.Files = result.Files
	record.Fragments = result.Fragments
	record.Requests = result.Counters.Requests
	record.Successes = result.Counters.Successes
	record.Failures = result.Counters.Failures
	record.CacheHits = result.Counters.CacheHits
	record.GlossaryHits = result.Counters.GlossaryHits
	record.Cooldowns = result.Counters.Cooldowns
	record.Duration = result.Duration

	if err := r.statsDB.AddRunRecord(record); err != nil {
		r.logger.Warn("failed to record run statistics", zap.Error(err))
	}
}

// renderSummary 渲染最终的总结表格
func (r *Runner) renderSummary(result *Result) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)

	tw.AppendRow(table.Row{"项", "值"})
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"文件数", result.Files})
	tw.AppendRow(table.Row{"片段数", result.Fragments})
	tw.AppendRow(table.Row{"发出请求", result.Counters.Requests})
	tw.AppendRow(table.Row{"翻译成功", result.Counters.Successes})
	tw.AppendRow(table.Row{"翻译失败", result.Counters.Failures})
	tw.AppendRow(table.Row{"缓存命中", result.Counters.CacheHits})
	tw.AppendRow(table.Row{"词汇表命中", result.Counters.GlossaryHits})
	tw.AppendRow(table.Row{"触发冷却", result.Counters.Cooldowns})
	tw.AppendRow(table.Row{"总耗时", result.Duration.Round(time.Millisecond).String()})

	tw.SetStyle(table.StyleLight)
	tw.Render()
}
