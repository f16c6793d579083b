// Package cel implements driven.SeverityPolicy with CEL expressions.
//
// Each rule's condition is compiled once against these variables:
//
//	issue_type   string  e.g. "Duplicate"
//	object_type  string  e.g. "Contact"
//	severity     string  the severity proposed by the rule
//	record_id    string
//	owner        string
//	description  string
//	attrs        map(string, string)  rule-specific attributes
//
// Rules are tried in order and the first match wins.
package cel

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/custodia-labs/hygiene/internal/core/domain"
	"github.com/custodia-labs/hygiene/internal/core/ports/driven"
	"github.com/custodia-labs/hygiene/internal/logger"
)

// compiledRule is a severity rule with its program.
type compiledRule struct {
	rule    domain.SeverityRule
	program cel.Program
}

// Policy evaluates severity rules against findings.
type Policy struct {
	env *cel.Env

	mu    sync.RWMutex
	rules []compiledRule
}

var _ driven.SeverityPolicy = (*Policy)(nil)

// NewPolicy creates a policy and compiles rules.
func NewPolicy(rules []domain.SeverityRule) (*Policy, error) {
	env, err := cel.NewEnv(
		cel.Variable("issue_type", cel.StringType),
		cel.Variable("object_type", cel.StringType),
		cel.Variable("severity", cel.StringType),
		cel.Variable("record_id", cel.StringType),
		cel.Variable("owner", cel.StringType),
		cel.Variable("description", cel.StringType),
		cel.Variable("attrs", cel.MapType(cel.StringType, cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating CEL env: %w", err)
	}

	p := &Policy{env: env}
	if err := p.Replace(rules); err != nil {
		return nil, err
	}
	return p, nil
}

// Replace compiles rules and swaps them in. On error the current rules are kept.
func (p *Policy) Replace(rules []domain.SeverityRule) error {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		c, err := p.compile(r)
		if err != nil {
			return err
		}
		compiled = append(compiled, c)
	}

	p.mu.Lock()
	p.rules = compiled
	p.mu.Unlock()
	return nil
}

// Len returns the number of active rules.
func (p *Policy) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.rules)
}

func (p *Policy) compile(r domain.SeverityRule) (compiledRule, error) {
	if !r.Severity.IsValid() {
		return compiledRule{}, fmt.Errorf("%w: rule %s: invalid severity %q", domain.ErrInvalidInput, r.ID, r.Severity)
	}
	if strings.TrimSpace(r.Condition) == "" {
		return compiledRule{}, fmt.Errorf("%w: rule %s: empty condition", domain.ErrInvalidInput, r.ID)
	}

	ast, issues := p.env.Compile(r.Condition)
	if issues != nil && issues.Err() != nil {
		return compiledRule{}, fmt.Errorf("%w: rule %s compilation error: %v", domain.ErrInvalidInput, r.ID, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return compiledRule{}, fmt.Errorf("%w: rule %s must evaluate to bool, got %s",
			domain.ErrInvalidInput, r.ID, ast.OutputType())
	}

	prg, err := p.env.Program(ast)
	if err != nil {
		return compiledRule{}, fmt.Errorf("rule %s program creation error: %w", r.ID, err)
	}
	return compiledRule{rule: r, program: prg}, nil
}

// Override returns the severity of the first rule matching the finding.
// A rule that fails at evaluation time is logged and skipped.
func (p *Policy) Override(f domain.Finding, proposed domain.Severity) (domain.Severity, bool) {
	p.mu.RLock()
	rules := p.rules
	p.mu.RUnlock()
	if len(rules) == 0 {
		return "", false
	}

	attrs := f.Signal.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	vars := map[string]any{
		"issue_type":  string(f.IssueType),
		"object_type": string(f.ObjectType),
		"severity":    string(proposed),
		"record_id":   f.RecordID,
		"owner":       f.RecordOwner,
		"description": f.Description,
		"attrs":       attrs,
	}

	for _, c := range rules {
		out, _, err := c.program.Eval(vars)
		if err != nil {
			logger.Warn("severity rule %s failed on %s: %v", c.rule.ID, f.RecordID, err)
			continue
		}
		if match, ok := out.Value().(bool); ok && match {
			return c.rule.Severity, true
		}
	}
	return "", false
}
