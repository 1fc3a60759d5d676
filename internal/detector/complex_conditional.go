package detector

import (
	"fmt"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/parser"
)

// ComplexConditionalDetector flags conditions combining too many boolean operators
type ComplexConditionalDetector struct{}

// NewComplexConditionalDetector creates the complex-conditional detector
func NewComplexConditionalDetector() *ComplexConditionalDetector {
	return &ComplexConditionalDetector{}
}

func (d *ComplexConditionalDetector) Name() string { return "complex-conditional" }
func (d *ComplexConditionalDetector) Kind() domain.DetectorKind {
	return domain.KindComplexConditional
}
func (d *ComplexConditionalDetector) Family() Family { return FamilyTree }

func (d *ComplexConditionalDetector) Defaults() Thresholds {
	return Thresholds{"max_operators": 3}
}

func (d *ComplexConditionalDetector) Detect(src *parser.Source, settings Settings) ([]domain.Issue, error) {
	maxOps := settings.Int("max_operators")

	var issues []domain.Issue
	src.Tree.Walk(func(n *parser.Node) bool {
		switch n.Type {
		case parser.NodeIf, parser.NodeWhile, parser.NodeDo, parser.NodeFor, parser.NodeTernary:
		default:
			return true
		}
		if n.Condition == nil {
			return true
		}

		ops := countLogicalOperators(n.Condition)
		if ops > maxOps {
			issues = append(issues, newIssue(d.Kind(), src, n.Condition.Location.StartLine, domain.SeverityMedium,
				fmt.Sprintf("Condition combines %s (max %d)", plural(ops, "boolean operator"), maxOps),
				"Extract the condition into well-named boolean variables or a predicate method",
				fmt.Sprintf("%d && / || operators", ops)))
		}
		return true
	})

	return sortByLine(issues), nil
}

// countLogicalOperators counts && and || in an expression, not descending into lambdas
func countLogicalOperators(expr *parser.Node) int {
	n := 0
	expr.Walk(func(node *parser.Node) bool {
		if node.Type == parser.NodeLambda {
			return false
		}
		if node.Type == parser.NodeBinary && (node.Operator == "&&" || node.Operator == "||") {
			n++
		}
		return true
	})
	return n
}
