package detector

import (
	"fmt"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/parser"
)

// DeepNestingDetector flags methods whose control statements nest too deeply
type DeepNestingDetector struct{}

// NewDeepNestingDetector creates the deep-nesting detector
func NewDeepNestingDetector() *DeepNestingDetector {
	return &DeepNestingDetector{}
}

func (d *DeepNestingDetector) Name() string              { return "deep-nesting" }
func (d *DeepNestingDetector) Kind() domain.DetectorKind { return domain.KindDeepNesting }
func (d *DeepNestingDetector) Family() Family            { return FamilyTree }

func (d *DeepNestingDetector) Defaults() Thresholds {
	return Thresholds{"max_depth": 4}
}

// Detect reports each method once, at its deepest control statement
func (d *DeepNestingDetector) Detect(src *parser.Source, settings Settings) ([]domain.Issue, error) {
	maxDepth := settings.Int("max_depth")

	var issues []domain.Issue
	for _, callable := range callables(src.Tree) {
		depth, line := 0, callable.Location.StartLine
		for _, stmt := range callable.Body {
			if dd, dl := nestingDepth(stmt, 0); dd > depth {
				depth, line = dd, dl
			}
		}
		if depth <= maxDepth {
			continue
		}

		severity := domain.SeverityMedium
		if depth > maxDepth+2 {
			severity = domain.SeverityHigh
		}
		issues = append(issues, newIssue(d.Kind(), src, line, severity,
			fmt.Sprintf("Method '%s' nests control statements %d levels deep (max %d)", callable.Name, depth, maxDepth),
			"Use guard clauses or extract the inner blocks into methods",
			fmt.Sprintf("deepest level reached at line %d", line)))
	}

	return sortByLine(issues), nil
}

// nestingDepth returns the deepest control-statement level below n and the
// line where it is reached. An else-if continues its chain at the same level.
func nestingDepth(n *parser.Node, depth int) (int, int) {
	if n == nil || n.IsCallable() || n.IsTypeDeclaration() || n.Type == parser.NodeLambda {
		return depth, 0
	}

	level := depth
	if n.IsControlFlow() {
		level = depth + 1
	}
	best, bestLine := level, 0
	if level > depth {
		bestLine = n.Location.StartLine
	}

	visit := func(child *parser.Node, childDepth int) {
		if d, line := nestingDepth(child, childDepth); d > best {
			best, bestLine = d, line
		}
	}

	for _, child := range n.Children {
		visit(child, level)
	}
	for _, child := range n.Body {
		visit(child, level)
	}
	if n.Alternate != nil {
		if n.Type == parser.NodeIf && n.Alternate.Type == parser.NodeIf {
			visit(n.Alternate, depth)
		} else {
			visit(n.Alternate, level)
		}
	}
	for _, arg := range n.Arguments {
		visit(arg, level)
	}
	visit(n.Init, level)

	return best, bestLine
}
