package stats

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Visualizer 统计数据可视化器
type Visualizer struct {
	db *Database
}

// NewVisualizer 创建可视化器
func NewVisualizer(db *Database) *Visualizer {
	return &Visualizer{db: db}
}

// ShowOverview 显示总览
func (v *Visualizer) ShowOverview() {
	stats := v.db.GetStats()

	title := color.New(color.FgCyan, color.Bold)
	title.Println("📊 Translation Statistics Overview")
	title.Println(strings.Repeat("=", 50))

	fmt.Println()
	v.printSection("🎯 Overall Statistics", [][]string{
		{"Total Runs", formatNumber(stats.TotalRuns)},
		{"Total Files", formatNumber(stats.TotalFiles)},
		{"Total Fragments", formatNumber(stats.TotalFragments)},
		{"Total Requests", formatNumber(stats.TotalRequests)},
		{"Total Successes", formatNumber(stats.TotalSuccesses)},
		{"Total Failures", formatNumber(stats.TotalFailures)},
		{"Total Cache Hits", formatNumber(stats.TotalCacheHits)},
		{"Database Created", formatTime(stats.CreatedAt)},
		{"Last Updated", formatTime(stats.LastUpdated)},
	})

	fmt.Println()
	v.ShowLanguagePairs()
}

// ShowLanguagePairs 显示语言对统计
func (v *Visualizer) ShowLanguagePairs() {
	stats := v.db.GetStats()

	title := color.New(color.FgMagenta, color.Bold)
	title.Println("🌍 Language Pair Statistics")
	title.Println(strings.Repeat("=", 50))

	if len(stats.LanguagePairs) == 0 {
		fmt.Println("No language pair data available.")
		return
	}

	keys := make([]string, 0, len(stats.LanguagePairs))
	for key := range stats.LanguagePairs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		pair := stats.LanguagePairs[key]
		fmt.Println()
		v.printSection(fmt.Sprintf("  %s → %s", pair.SourceLanguage, pair.TargetLanguage), [][]string{
			{"Runs", formatNumber(pair.RunCount)},
			{"Fragments", formatNumber(pair.FragmentCount)},
			{"Last Used", formatTime(pair.LastUsed)},
		})
	}
}

// ShowRecentRuns 显示最近的运行记录
func (v *Visualizer) ShowRecentRuns(limit int) {
	stats := v.db.GetStats()

	title := color.New(color.FgGreen, color.Bold)
	title.Println("🕒 Recent Runs")
	title.Println(strings.Repeat("=", 50))

	runs := stats.RecentRuns
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	if limit > 0 && len(runs) > limit {
		runs = runs[len(runs)-limit:]
	}

	// 最新的在前
	for i := len(runs) - 1; i >= 0; i-- {
		run := runs[i]
		fmt.Println()
		v.printSection(fmt.Sprintf("  %s (%s)", formatTime(run.Timestamp), run.Provider), [][]string{
			{"Languages", fmt.Sprintf("%s → %s", run.SourceLanguage, run.TargetLanguage)},
			{"Files", strconv.Itoa(run.Files)},
			{"Fragments", strconv.Itoa(run.Fragments)},
			{"Requests", strconv.Itoa(run.Requests)},
			{"Successes", strconv.Itoa(run.Successes)},
			{"Failures", strconv.Itoa(run.Failures)},
			{"Cache Hits", strconv.Itoa(run.CacheHits)},
			{"Duration", formatDuration(run.Duration)},
		})
	}
}

// printSection 打印一节带缩进的键值数据
func (v *Visualizer) printSection(title string, data [][]string) {
	sectionColor := color.New(color.FgYellow, color.Bold)
	sectionColor.Printf("%s\n", title)

	maxLabelLen := 0
	for _, row := range data {
		if len(row[0]) > maxLabelLen {
			maxLabelLen = len(row[0])
		}
	}

	for _, row := range data {
		label := fmt.Sprintf("  %-*s", maxLabelLen, row[0])
		value := row[1]

		labelColor := color.New(color.FgCyan)
		valueColor := color.New(color.FgWhite, color.Bold)

		labelColor.Printf("%s: ", label)
		valueColor.Println(value)
	}
}

func formatNumber(n int64) string {
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(char)
	}
	return result.String()
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d.Nanoseconds())/1e6)
	}

	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}

	return fmt.Sprintf("%.1fh", d.Hours())
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}

	now := time.Now()
	if t.Year() == now.Year() && t.Month() == now.Month() && t.Day() == now.Day() {
		return t.Format("15:04:05")
	}

	if t.Year() == now.Year() {
		return t.Format("Jan 02 15:04")
	}

	return t.Format("2006-01-02 15:04")
}
