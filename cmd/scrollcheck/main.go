// scrollcheck - 无界面的滚动触发检查程序
// 从顶到底逐步滚动页面，记录每个触发区域的进度，并校验：
//   - 进度始终在 [0, 1] 内
//   - 向下滚动时进度不回退
//   - 滚到底部后越过终点的区域进度为 1
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gonewx/vinyl/internal/plugin"
	"github.com/gonewx/vinyl/internal/scrolltrigger"
	"github.com/gonewx/vinyl/internal/smoother"
	"github.com/gonewx/vinyl/pkg/config"
	"github.com/gonewx/vinyl/pkg/page"
)

var (
	pagePath = flag.String("page", config.HomePagePath, "页面配置文件")
	step     = flag.Float64("step", 100, "每步滚动距离")
	settle   = flag.Float64("settle", 2, "每步之后推进的秒数（让 scrub 平滑追上）")
	asYAML   = flag.Bool("yaml", false, "以 YAML 输出采样结果")
	verbose  = flag.Bool("verbose", false, "显示详细调试信息")
)

// ========== 验证报告结构 ==========

type ValidationReport struct {
	TestName string
	Passed   bool
	Message  string
}

var validationReports []ValidationReport

func addReport(testName string, passed bool, message string) {
	validationReports = append(validationReports, ValidationReport{
		TestName: testName,
		Passed:   passed,
		Message:  message,
	})
}

// Sample 一次滚动采样
type Sample struct {
	Offset   float64            `yaml:"offset"`
	Progress map[string]float64 `yaml:"progress"`
	Active   []string           `yaml:"active,omitempty"`
	Pinned   []string           `yaml:"pinned,omitempty"`
}

const frame = 1.0 / 60

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	if *step <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -step must be positive")
		os.Exit(2)
	}

	plugin.Ensure(scrolltrigger.Plugin, smoother.Plugin)

	cfg, err := config.LoadPageConfig(*pagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// 检查只关心最终位置，关闭平滑滚动
	cfg.Smoother.Smooth = 0

	p, err := page.New(page.Options{Config: cfg, Clips: page.ClipDir("data/models")})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := p.Enter(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer p.Leave()

	mgr := p.Triggers()
	addReport("激活", p.Active() && mgr != nil, fmt.Sprintf("route=%s", p.Route()))
	if mgr == nil {
		printReports()
		os.Exit(1)
	}

	var samples []Sample
	last := make(map[string]float64)
	inRange, monotonic := true, true
	maxScroll := p.Document().MaxScroll()

	for offset := 0.0; ; offset += *step {
		if offset > maxScroll {
			offset = maxScroll
		}
		p.Scroll().ScrollTo(offset)
		for i := 0; i < int(*settle/frame); i++ {
			p.Tick(frame)
		}

		s := Sample{Offset: p.Document().ScrollOffset(), Progress: make(map[string]float64)}
		for _, mp := range mgr.Mappers() {
			id := mp.ID()
			prog := mp.Progress()
			s.Progress[id] = prog
			if mp.Active() {
				s.Active = append(s.Active, id)
			}
			if mp.Pinned() {
				s.Pinned = append(s.Pinned, id)
			}
			if prog < 0 || prog > 1 {
				inRange = false
			}
			if prog+1e-9 < last[id] {
				monotonic = false
				log.Printf("[ScrollCheck] %s went back from %.3f to %.3f at %.0f", id, last[id], prog, s.Offset)
			}
			last[id] = prog
		}
		samples = append(samples, s)

		if offset >= maxScroll {
			break
		}
	}

	addReport("进度范围", inRange, "所有进度都在 [0, 1] 内")
	addReport("单调性", monotonic, "向下滚动时进度不回退")

	var unfinished []string
	for _, mp := range mgr.Mappers() {
		if _, end := mp.Offsets(); end <= maxScroll && mp.Progress() < 1-1e-6 {
			unfinished = append(unfinished, fmt.Sprintf("%s=%.3f", mp.ID(), mp.Progress()))
		}
	}
	addReport("终点", len(unfinished) == 0, strings.Join(unfinished, ", "))

	if *asYAML {
		out, err := yaml.Marshal(samples)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
	} else {
		printTable(mgr, samples)
	}

	if !printReports() {
		os.Exit(1)
	}
}

func printTable(mgr *scrolltrigger.Manager, samples []Sample) {
	ids := make([]string, 0, mgr.Len())
	for _, mp := range mgr.Mappers() {
		ids = append(ids, mp.ID())
	}
	fmt.Printf("%8s", "offset")
	for _, id := range ids {
		fmt.Printf(" %10s", id)
	}
	fmt.Println()
	for _, s := range samples {
		fmt.Printf("%8.0f", s.Offset)
		for _, id := range ids {
			mark := " "
			for _, a := range s.Pinned {
				if a == id {
					mark = "*"
				}
			}
			fmt.Printf(" %9.3f%s", s.Progress[id], mark)
		}
		fmt.Println()
	}
}

// printReports 打印验证报告，返回是否全部通过
func printReports() bool {
	fmt.Println("\n========== 验证报告 ==========")
	ok := true
	for _, r := range validationReports {
		mark := "✓"
		if !r.Passed {
			mark = "✗"
			ok = false
		}
		fmt.Printf("%s %s: %s\n", mark, r.TestName, r.Message)
	}
	return ok
}
