package rewrite

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mmr-tortoise/sdkrel/internal/model"
)

// AnyCount disables the substitution-count check for a rule.
// Used for rules whose match count legitimately varies per file, such
// as the scoped dependency block in package.json.
const AnyCount = -1

// Rule is a single line-oriented substitution.
type Rule struct {
	// Name identifies the rule in error messages and logs.
	Name string

	// Pattern is the regular expression matched against each line.
	Pattern *regexp.Regexp

	// Replace is the replacement text. Capture groups are referenced
	// with $1, $2, ... as in regexp.ReplaceAllString.
	Replace string

	// Want is the number of lines this rule must change across the
	// whole file. AnyCount skips the check.
	Want int
}

// Result reports what a rewrite did to a file.
type Result struct {
	// Path is the file that was processed.
	Path string

	// Counts holds the number of lines changed per rule, in rule order.
	Counts []int

	// Changed reports whether the file content differed after applying
	// the rules (and was therefore written back).
	Changed bool
}

// ApplyFile applies the rules to every line of the file at path.
//
// The file is only written back when (a) every rule's substitution
// count matches its expectation and (b) at least one line actually
// changed. On a count mismatch the file is untouched and the error
// carries model.ExitRewriteError.
func ApplyFile(path string, rules []Rule) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitRewriteError,
			fmt.Sprintf("cannot read %s", path), err)
	}

	out, counts := Apply(string(data), rules)

	for i, rule := range rules {
		if rule.Want != AnyCount && counts[i] != rule.Want {
			return nil, model.NewCLIError(model.ExitRewriteError,
				fmt.Sprintf("%s: rule %q changed %d line(s), expected %d",
					path, rule.Name, counts[i], rule.Want))
		}
	}

	result := &Result{Path: path, Counts: counts, Changed: out != string(data)}
	if !result.Changed {
		return result, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitRewriteError,
			fmt.Sprintf("cannot stat %s", path), err)
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return nil, model.WrapCLIError(model.ExitRewriteError,
			fmt.Sprintf("cannot write %s", path), err)
	}

	log.Debug().Str("path", path).Ints("counts", counts).Msg("rewrote manifest")
	return result, nil
}

// Apply runs the rules over every line of content and returns the
// transformed content plus the per-rule count of changed lines.
//
// Rules are applied in order within each line, so a later rule sees
// the output of an earlier one. Line endings are preserved: content is
// split on "\n" and rejoined, leaving any trailing newline intact.
func Apply(content string, rules []Rule) (string, []int) {
	counts := make([]int, len(rules))
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		for j, rule := range rules {
			replaced := rule.Pattern.ReplaceAllString(line, rule.Replace)
			if replaced != line {
				counts[j]++
				line = replaced
			}
		}
		lines[i] = line
	}

	return strings.Join(lines, "\n"), counts
}

// FindFirst returns the first capture group of the first line in the
// file that matches pattern. Used to read a currently pinned version
// back out of a manifest.
func FindFirst(path string, pattern *regexp.Regexp) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if m := pattern.FindStringSubmatch(line); len(m) >= 2 {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("no line in %s matches %s", path, pattern)
}
