// Package file loads declarative policy rules from a TOML file and
// watches it for edits, so operators can change policy without a
// rebuild or restart.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
	"github.com/STiFLeR7/nanocortex/internal/logger"
)

// Ensure RuleSource implements the interface.
var _ driven.RuleSource = (*RuleSource)(nil)

// ruleEntry is the on-disk shape of one rule.
type ruleEntry struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Condition   string `toml:"condition"`
	Verdict     string `toml:"verdict"`
}

// ruleFile is the on-disk shape of the rules file.
type ruleFile struct {
	Rules []ruleEntry `toml:"rules"`
}

// RuleSource loads policy rules from a TOML file.
//
// A rule with an unrecognised condition string still loads (the policy
// evaluator treats it as never-matching); a rule with an unrecognised
// verdict fails the whole load, because silently weakening a DENY to
// something else is the one mistake this file format must not permit.
type RuleSource struct {
	path string
}

// NewRuleSource creates a rule source reading from the given path.
func NewRuleSource(path string) *RuleSource {
	return &RuleSource{path: path}
}

// Path returns the rules file path.
func (s *RuleSource) Path() string {
	return s.path
}

// Load returns the currently authored rules in file order.
// A missing file is domain.ErrNotFound.
func (s *RuleSource) Load() ([]domain.PolicyRule, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("read rules %s: %w", s.path, err)
	}

	var parsed ruleFile
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", s.path, err)
	}

	rules := make([]domain.PolicyRule, 0, len(parsed.Rules))
	for i, entry := range parsed.Rules {
		if entry.Name == "" {
			return nil, fmt.Errorf("%w: rule %d has no name", domain.ErrInvalidInput, i)
		}
		verdict, err := domain.ParseVerdict(entry.Verdict)
		if err != nil {
			return nil, fmt.Errorf("rule %q: unknown verdict %q: %w", entry.Name, entry.Verdict, err)
		}
		rules = append(rules, domain.PolicyRule{
			ID:          domain.NewID(),
			Name:        entry.Name,
			Description: entry.Description,
			Condition:   domain.ParseCondition(entry.Condition),
			Verdict:     verdict,
		})
	}

	return rules, nil
}

// Watch invokes onChange with the freshly loaded rule set whenever the
// file changes, until ctx is cancelled. The parent directory is watched
// rather than the file itself so editors that replace-on-save (write to
// a temp file, then rename) still trigger a reload.
func (s *RuleSource) Watch(ctx context.Context, onChange func([]domain.PolicyRule)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			rules, err := s.Load()
			if err != nil {
				// Keep the last good rule set on a bad edit.
				logger.Warn("Rules reload failed, keeping previous rules: %v", err)
				continue
			}
			logger.Info("Rules file changed: %d rules loaded", len(rules))
			onChange(rules)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Rules watcher error: %v", err)
		}
	}
}
