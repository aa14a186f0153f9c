package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/lxb-translator/internal/config"
	"github.com/nerdneilsfield/lxb-translator/internal/logger"
	"github.com/nerdneilsfield/lxb-translator/internal/stats"
)

var (
	// stats 命令的标志
	recentLimit int
	exportPath  string
)

// NewStatsCommand 创建 stats 命令
func NewStatsCommand() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "View translation run statistics",
		Long: `View statistics about past translation runs, including:
- Overall translation statistics
- Language pair statistics
- Recent run history

Examples:
  # Show overview of all statistics
  lxb-translator stats

  # Show recent runs
  lxb-translator stats --recent 20

  # Export statistics to JSON
  lxb-translator stats --export stats.json`,
		RunE: runStatsCommand,
	}

	statsCmd.Flags().IntVar(&recentLimit, "recent", 10, "Number of recent runs to show")
	statsCmd.Flags().StringVar(&exportPath, "export", "", "Export statistics to file (JSON format)")
	statsCmd.Flags().Bool("languages", false, "Show only language pair statistics")
	statsCmd.Flags().Bool("runs", false, "Show only recent run history")

	return statsCmd
}

func runStatsCommand(cmd *cobra.Command, args []string) error {
	log := logger.NewLogger(false)
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := stats.NewDatabase(cfg.StatsFile, log)
	if err != nil {
		return fmt.Errorf("failed to open stats database: %w", err)
	}

	if exportPath != "" {
		return exportStats(db, exportPath, log)
	}

	visualizer := stats.NewVisualizer(db)

	showLanguages, _ := cmd.Flags().GetBool("languages")
	showRuns, _ := cmd.Flags().GetBool("runs")

	switch {
	case showLanguages:
		visualizer.ShowLanguagePairs()
	case showRuns:
		visualizer.ShowRecentRuns(recentLimit)
	default:
		visualizer.ShowOverview()
		fmt.Println()
		visualizer.ShowRecentRuns(recentLimit)
	}

	return nil
}

// exportStats 把统计数据导出为 JSON 文件
func exportStats(db *stats.Database, path string, log *zap.Logger) error {
	data, err := json.MarshalIndent(db.GetStats(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	log.Info("exported statistics", zap.String("path", path))
	return nil
}
