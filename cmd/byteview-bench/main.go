// Command byteview-bench runs the pkg/byteview benchmark suite twice - once
// against a baseline revision and once against the working tree - and prints
// a statistical comparison of the two runs: an os/exec-driven "go test
// -bench" invocation for each side, trimmed from a two-project,
// multi-CPU-list comparison down to a single package, two-revision diff.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"time"

	"github.com/watt-toolkit/byteview/internal/benchstatx"
)

const defaultPackage = "./pkg/byteview/..."

func main() {
	var (
		pkgPath   = flag.String("pkg", defaultPackage, "package pattern to benchmark")
		benchTime = flag.String("benchtime", "1s", "time per benchmark, passed to go test -benchtime")
		count     = flag.Int("count", 6, "number of times to run each benchmark")
		baseline  = flag.String("baseline", "", "git revision to compare against (required)")
		filter    = flag.String("run", ".", "benchmark name filter, passed to go test -bench")
	)
	flag.Parse()

	if *baseline == "" {
		log.Fatal("byteview-bench: -baseline is required (e.g. -baseline=HEAD~1)")
	}

	log.Printf("running candidate benchmarks (working tree) for %s...\n", *pkgPath)
	candidate, err := runBenchmarks(*pkgPath, *filter, *benchTime, *count)
	if err != nil {
		log.Fatalf("candidate run failed: %v", err)
	}

	log.Printf("running baseline benchmarks (%s)...\n", *baseline)
	baselineOut, err := runBenchmarksAtRevision(*baseline, *pkgPath, *filter, *benchTime, *count)
	if err != nil {
		log.Fatalf("baseline run failed: %v", err)
	}

	cmp := benchstatx.NewComparison()
	if err := cmp.AddConfig("baseline", baselineOut); err != nil {
		log.Fatalf("adding baseline results: %v", err)
	}
	if err := cmp.AddConfig("candidate", candidate); err != nil {
		log.Fatalf("adding candidate results: %v", err)
	}

	cmp.WriteText(os.Stdout)
}

func runBenchmarks(pkgPath, filter, benchTime string, count int) ([]byte, error) {
	args := []string{
		"test",
		pkgPath,
		"-run=^$",
		"-bench=" + filter,
		"-benchmem",
		"-benchtime=" + benchTime,
		fmt.Sprintf("-count=%d", count),
		"-timeout=10m",
	}

	cmd := exec.Command("go", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	log.Printf("  go test completed in %v\n", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("go test %v: %w\n%s", args, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// runBenchmarksAtRevision checks out rev into a throwaway worktree, runs the
// benchmarks there, and removes the worktree again, so the working tree
// (including any uncommitted changes) is never disturbed.
func runBenchmarksAtRevision(rev, pkgPath, filter, benchTime string, count int) ([]byte, error) {
	dir, err := os.MkdirTemp("", "byteview-bench-baseline-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp worktree dir: %w", err)
	}
	defer os.RemoveAll(dir)

	addCmd := exec.Command("git", "worktree", "add", "--detach", dir, rev)
	if out, err := addCmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("git worktree add %s %s: %w\n%s", dir, rev, err, out)
	}
	defer func() {
		rmCmd := exec.Command("git", "worktree", "remove", "--force", dir)
		if out, err := rmCmd.CombinedOutput(); err != nil {
			log.Printf("warning: failed to clean up worktree %s: %v\n%s", dir, err, out)
		}
	}()

	args := []string{
		"test",
		pkgPath,
		"-run=^$",
		"-bench=" + filter,
		"-benchmem",
		"-benchtime=" + benchTime,
		fmt.Sprintf("-count=%d", count),
		"-timeout=10m",
	}

	cmd := exec.Command("go", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("go test (at %s) %v: %w\n%s", rev, args, err, stderr.String())
	}
	return stdout.Bytes(), nil
}
