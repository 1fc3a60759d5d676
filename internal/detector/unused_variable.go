package detector

import (
	"fmt"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/parser"
)

// UnusedVariableDetector flags parameters and locals a method never reads
type UnusedVariableDetector struct{}

// NewUnusedVariableDetector creates the unused-variable detector
func NewUnusedVariableDetector() *UnusedVariableDetector {
	return &UnusedVariableDetector{}
}

func (d *UnusedVariableDetector) Name() string              { return "unused-variable" }
func (d *UnusedVariableDetector) Kind() domain.DetectorKind { return domain.KindUnusedVariable }
func (d *UnusedVariableDetector) Family() Family            { return FamilyTree }

func (d *UnusedVariableDetector) Defaults() Thresholds {
	return Thresholds{"high_score": 0.7}
}

type variableCandidate struct {
	name      string
	line      int
	parameter bool
	hasInit   bool
}

func (d *UnusedVariableDetector) Detect(src *parser.Source, settings Settings) ([]domain.Issue, error) {
	highScore := settings.Float("high_score")

	var issues []domain.Issue
	for _, callable := range callables(src.Tree) {
		if callable.HasAnnotation("Override") {
			continue
		}

		public := callable.HasModifier("public")
		used := referencedNames(callable)

		for _, v := range declaredVariables(callable) {
			if v.name == "" || v.name == "_" || used[v.name] {
				continue
			}

			score := 0.5
			if v.parameter {
				score += 0.2
			}
			if public {
				score += 0.1
			}
			if v.hasInit {
				score += 0.1
			}

			severity := domain.SeverityMedium
			if score >= highScore {
				severity = domain.SeverityHigh
			}

			what := "Variable"
			if v.parameter {
				what = "Parameter"
			}
			issues = append(issues, newIssue(d.Kind(), src, v.line, severity,
				fmt.Sprintf("%s '%s' is never used in '%s'", what, v.name, callable.Name),
				fmt.Sprintf("Remove '%s' or use it", v.name),
				fmt.Sprintf("score %.1f", score)))
		}
	}

	return sortByLine(issues), nil
}

// declaredVariables lists the parameters and locals of a callable in declaration order
func declaredVariables(callable *parser.Node) []variableCandidate {
	var vars []variableCandidate

	if !isMainMethod(callable) {
		for _, p := range callable.Params {
			vars = append(vars, variableCandidate{name: p.Name, line: p.Location.StartLine, parameter: true})
		}
	}

	walkScope(callable, func(n *parser.Node) {
		if n.Type != parser.NodeLocalVariable {
			return
		}
		for _, decl := range n.Children {
			vars = append(vars, variableCandidate{
				name:    decl.Name,
				line:    decl.Location.StartLine,
				hasInit: decl.Init != nil,
			})
		}
	})

	return vars
}

// referencedNames collects every identifier read anywhere in the callable body,
// including nested lambdas and anonymous classes
func referencedNames(callable *parser.Node) map[string]bool {
	names := make(map[string]bool)
	for _, stmt := range callable.Body {
		stmt.Walk(func(n *parser.Node) bool {
			if n.Type == parser.NodeIdentifier {
				names[n.Name] = true
			}
			return true
		})
	}
	return names
}

func isMainMethod(callable *parser.Node) bool {
	return callable.Type == parser.NodeMethod && callable.Name == "main" &&
		callable.HasModifier("static") && len(callable.Params) == 1
}
