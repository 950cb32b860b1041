// Command gramfuzz is the thin CLI surface from spec.md §6: it parses the
// flags the spec lists, builds a session.Session, seeds its corpus, and
// drives mutation rounds against whatever executor.Executor the caller
// wires in. Only executor.NoopExecutor ships in this module (spec.md §1's
// scope boundary: the engine never runs the target itself), so this binary
// is a smoke test of the wiring, not a real fuzzer front end.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/gramfuzz/engine/internal/demogrammar"
	"github.com/gramfuzz/engine/internal/executor"
	"github.com/gramfuzz/engine/internal/session"
)

var (
	outputDir      string
	hangTimeoutMS  int
	seed           int64
	forwardStderr  bool
	mapSizeBias    int
	generations    int
	coresSpec      string
	dictionaryFile string
	extractStrings bool
	enableCmplog   bool
)

var rootCmd = &cobra.Command{
	Use:   "gramfuzz [target]",
	Short: "Structure-aware, coverage-guided grammar fuzzing engine",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVarP(&outputDir, "out", "o", "", "output directory (required)")
	rootCmd.Flags().IntVarP(&hangTimeoutMS, "timeout", "t", 1000, "per-run hang timeout in ms")
	rootCmd.Flags().Int64VarP(&seed, "seed", "s", time.Now().UnixNano(), "PRNG seed")
	rootCmd.Flags().BoolVarP(&forwardStderr, "forward-stderr", "d", false, "forward target stderr")
	rootCmd.Flags().IntVarP(&mapSizeBias, "map-bias", "m", 0, "coverage map size bias added to the target-reported size")
	rootCmd.Flags().IntVarP(&generations, "generations", "g", 100, "initial generations")
	rootCmd.Flags().StringVarP(&coresSpec, "cores", "c", "", "cores spec")
	rootCmd.Flags().StringVarP(&dictionaryFile, "dict", "x", "", "dictionary file, one entry per line, appended to the string pool")
	rootCmd.Flags().BoolVarP(&extractStrings, "strings", "S", false, "extract printable tokens from the target binary and append them to the string pool")
	rootCmd.Flags().BoolVarP(&enableCmplog, "cmplog", "e", false, "enable the cmplog stage (logged only; no comparison trace source is wired in)")
	_ = rootCmd.MarkFlagRequired("out")
}

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9_]+`)

// loadDictionary appends one string per non-empty line of path to the
// session's string pool.
func loadDictionary(s *session.Session, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("gramfuzz: dictionary %s: %w", path, err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			s.RegisterString(line)
		}
	}
	return scanner.Err()
}

// extractTargetStrings shells out to the system strings tool (spec.md §6's
// "-S ... via a system strings-style tool") and appends every printable
// [A-Za-z0-9_]+ token it reports to the session's string pool.
func extractTargetStrings(s *session.Session, target string) error {
	out, err := exec.Command("strings", target).Output()
	if err != nil {
		return fmt.Errorf("gramfuzz: extracting strings from %s: %w", target, err)
	}
	for _, tok := range tokenPattern.FindAll(out, -1) {
		s.RegisterString(string(tok))
	}
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	target := args[0]

	cfg := session.DefaultConfig()
	cfg.Seed = uint64(seed)
	cfg.OutputDir = outputDir
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("gramfuzz: output dir: %w", err)
	}

	sess, err := session.New(cfg, osfs.New(outputDir), executor.NoopExecutor{}, demogrammar.NewTreeGenerator())
	if err != nil {
		return fmt.Errorf("gramfuzz: session: %w", err)
	}
	defer sess.Close()

	if dictionaryFile != "" {
		if err := loadDictionary(sess, dictionaryFile); err != nil {
			return err
		}
	}
	if extractStrings {
		if err := extractTargetStrings(sess, target); err != nil {
			return err
		}
	}

	sess.Log.Info("starting session",
		"target", target, "out", outputDir, "seed", seed, "generations", generations,
		"hang_timeout_ms", hangTimeoutMS, "map_bias", mapSizeBias, "cores", coresSpec,
		"forward_stderr", forwardStderr, "cmplog", enableCmplog)

	if err := sess.Seed(generations); err != nil {
		return fmt.Errorf("gramfuzz: seed: %w", err)
	}

	for _, entry := range sess.Corpus() {
		if _, err := sess.RunMutation(entry); err != nil {
			return fmt.Errorf("gramfuzz: mutation: %w", err)
		}
		sess.RunMinimize(entry)
	}

	sess.Log.Info("session complete", "corpus_size", len(sess.Corpus()))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("gramfuzz: fatal", "error", err)
		os.Exit(1)
	}
}
