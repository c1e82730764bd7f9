// Maps stored file names to the logical dataset group they belong to, and groups to their
// visibility tier. Both are driven by tables (see defaults.go) which come from config.
package datasetname

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

type Visibility string

const (
	Public  Visibility = "public"
	Private Visibility = "private"
)

// PatternRule maps any stem fully matching Pattern (case-insensitive) to Group
type PatternRule struct {
	Pattern string `json:"pattern"`
	Group   string `json:"group"`
}

type compiledRule struct {
	re    *regexp.Regexp
	group string
}

// Classifier is immutable once made, safe to share between requests
type Classifier struct {
	rules        []compiledRule
	publicGroups map[string]bool
}

func MakeClassifier(rules []PatternRule, publicGroups []string) (*Classifier, error) {
	result := &Classifier{
		rules:        make([]compiledRule, 0, len(rules)),
		publicGroups: map[string]bool{},
	}

	for c, rule := range rules {
		if len(rule.Group) <= 0 {
			return nil, fmt.Errorf("Pattern rule %v (%v) has no group name", c, rule.Pattern)
		}

		re, err := regexp.Compile("(?i)^(?:" + rule.Pattern + ")$")
		if err != nil {
			return nil, fmt.Errorf("Pattern rule %v (%v) failed to compile: %v", c, rule.Pattern, err)
		}

		result.rules = append(result.rules, compiledRule{re: re, group: rule.Group})
	}

	for _, name := range publicGroups {
		result.publicGroups[name] = true
	}

	return result, nil
}

// Classify returns the group for a stem. First matching rule wins, if none match the stem is its
// own group name. Never fails.
func (c *Classifier) Classify(stem string) string {
	s := strings.TrimSpace(stem)

	for _, rule := range c.rules {
		if rule.re.MatchString(s) {
			return rule.group
		}
	}

	return s
}

// VisibilityOf - exact group name match against the public list, everything else is private
func (c *Classifier) VisibilityOf(groupName string) Visibility {
	if c.publicGroups[groupName] {
		return Public
	}
	return Private
}

// StemOf strips prefix and extension (case-insensitive) from a key. ok is false if the key is not
// under prefix or doesn't have the extension.
func StemOf(key string, prefix string, ext string) (string, bool) {
	if !strings.HasPrefix(key, prefix) {
		return "", false
	}

	rel := key[len(prefix):]
	if len(rel) < len(ext) || !strings.EqualFold(rel[len(rel)-len(ext):], ext) {
		return "", false
	}

	return rel[:len(rel)-len(ext)], true
}

// ArchiveStem returns the file name of an archive key without its extension, eg archives/DCLP3.zip -> DCLP3
func ArchiveStem(key string) string {
	name := path.Base(key)
	return strings.TrimSuffix(name, path.Ext(name))
}
