package detector

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/parser"
)

var (
	safeEnumPattern       = regexp.MustCompile(`(Status|State|Type|Kind|Mode|Level)`)
	exhaustiveNotePattern = regexp.MustCompile(
		`(?i)(exhaustive|all (cases|values|constants) (are )?(covered|handled)|no default|default (is )?(not needed|unnecessary|omitted))`)
)

// Context class weights of the enclosing code, first match wins
const (
	weightNestedSwitch  = 1.2
	weightConstructor   = 0.9
	weightReturnValue   = 1.1
	weightPublicMethod  = 1.0
	weightPrivateMethod = 0.7
)

// MissingDefaultDetector scores switch statements without a default label by
// how likely a missing branch is to hide a bug
type MissingDefaultDetector struct{}

// NewMissingDefaultDetector creates the missing-default detector
func NewMissingDefaultDetector() *MissingDefaultDetector {
	return &MissingDefaultDetector{}
}

func (d *MissingDefaultDetector) Name() string              { return "missing-default" }
func (d *MissingDefaultDetector) Kind() domain.DetectorKind { return domain.KindMissingDefault }
func (d *MissingDefaultDetector) Family() Family            { return FamilyTree }

func (d *MissingDefaultDetector) Defaults() Thresholds {
	return Thresholds{"min_risk": 0.5, "test_risk_floor": 0.8, "max_cases": 10}
}

// switchAssessment holds the facts the risk model is computed from
type switchAssessment struct {
	subject      string
	caseCount    int
	publicMethod bool
	returnsValue bool
	constructor  bool
	nesting      int
	testMethod   bool

	isEnum      bool
	enumName    string
	typeName    string
	coverage    float64
	emptyCase   bool
	complex     bool
	fallsThru   bool
	exhaustNote bool
}

// Detect assesses every statement switch of the file
func (d *MissingDefaultDetector) Detect(src *parser.Source, settings Settings) ([]domain.Issue, error) {
	enums := collectEnums(src.Tree)

	var issues []domain.Issue
	for _, sw := range src.Tree.FindType(parser.NodeSwitch) {
		if sw.IsExpression || hasDefaultLabel(sw) {
			continue
		}

		a := assessSwitch(src, sw, enums)
		risk := a.risk(settings.Int("max_cases"))

		if risk <= settings.Float("min_risk") {
			continue
		}
		if a.testMethod && risk < settings.Float("test_risk_floor") {
			continue
		}
		if a.isEnum && a.coverage >= 1 && a.safeName() {
			continue
		}

		message := fmt.Sprintf("Switch on '%s' has no default case", a.subject)
		if a.caseCount > 5 {
			message += fmt.Sprintf(" (severe: %d cases)", a.caseCount)
		}
		reason := fmt.Sprintf("risk %.2f", risk)
		if a.isEnum {
			reason += fmt.Sprintf(", enum %s coverage %.0f%%", a.enumName, a.coverage*100)
		}

		issues = append(issues, newIssue(d.Kind(), src, sw.Location.StartLine, a.severity(risk), message,
			"Add a default case that handles or rejects unexpected values", reason))
	}

	return sortByLine(issues), nil
}

func (a *switchAssessment) safeName() bool {
	name := a.enumName
	if name == "" {
		name = a.typeName
	}
	return name != "" && safeEnumPattern.MatchString(name)
}

func (a *switchAssessment) risk(maxCases int) float64 {
	context := 0.0
	if a.publicMethod {
		context += 0.2
	}
	if a.returnsValue {
		context += 0.25
	}
	if a.nesting > 1 {
		context += 0.15
	}
	context += a.classWeight() * 0.3

	completeness := 0.0
	switch {
	case a.isEnum && a.coverage < 1:
		completeness += 0.2 + 0.1*(1-a.coverage)
	case !a.isEnum && a.caseCount < 3:
		completeness += 0.2
	}
	if a.emptyCase {
		completeness += 0.1
	}

	complexity := 0.0
	if a.complex {
		complexity += 0.15
	}
	if a.fallsThru {
		complexity += 0.2
	}
	if maxCases > 0 && a.caseCount > maxCases {
		complexity += 0.1
	}

	safety := 0.0
	if a.safeName() {
		safety += 0.2
	}
	if a.exhaustNote {
		safety += 0.15
	}
	if a.testMethod {
		safety += 0.1
	}

	risk := 0.6 + context + completeness + complexity - safety
	return math.Max(0, math.Min(1.5, risk))
}

func (a *switchAssessment) classWeight() float64 {
	switch {
	case a.nesting > 1:
		return weightNestedSwitch
	case a.constructor:
		return weightConstructor
	case a.returnsValue:
		return weightReturnValue
	case a.publicMethod:
		return weightPublicMethod
	default:
		return weightPrivateMethod
	}
}

func (a *switchAssessment) severity(risk float64) domain.Severity {
	switch {
	case (risk > 1.0 && a.publicMethod) || a.returnsValue:
		return domain.SeverityCritical
	case risk > 0.8 || (a.isEnum && a.coverage < 0.8):
		return domain.SeverityHigh
	default:
		return domain.SeverityMedium
	}
}

// isTestFile matches JUnit naming: FooTest.java, FooTests.java
func isTestFile(path string) bool {
	name := strings.TrimSuffix(filepath.Base(filepath.FromSlash(path)), filepath.Ext(path))
	return strings.HasSuffix(name, "Test") || strings.HasSuffix(name, "Tests")
}

func assessSwitch(src *parser.Source, sw *parser.Node, enums map[string][]string) *switchAssessment {
	a := &switchAssessment{subject: sw.Raw, nesting: 1}

	for p := sw.Parent; p != nil; p = p.Parent {
		if p.Type == parser.NodeSwitch {
			a.nesting++
		}
	}

	callable := sw.EnclosingCallable()
	if callable != nil {
		a.publicMethod = callable.HasModifier("public")
		a.constructor = callable.Type == parser.NodeConstructor
		a.returnsValue = callable.Type == parser.NodeMethod && callable.ValueType != "" && callable.ValueType != "void"
		a.testMethod = callable.HasAnnotation("Test") || strings.HasPrefix(callable.Name, "test")
	}
	if isTestFile(src.Path) {
		a.testMethod = true
	}

	values := caseValues(sw)
	a.caseCount = len(values)

	a.typeName = resolveVariableType(sw, strings.TrimPrefix(sw.Raw, "this."))
	if constants, ok := enums[a.typeName]; ok {
		a.isEnum, a.enumName = true, a.typeName
		a.coverage = enumCoverage(values, constants)
	} else if name, constants, ok := enumContaining(src.Tree, enums, values); ok {
		a.isEnum, a.enumName = true, name
		a.coverage = enumCoverage(values, constants)
	}

	cases := switchCases(sw)
	for i, c := range cases {
		stmts := caseStatements(c)
		if len(stmts) == 0 {
			a.emptyCase = true
		}
		if len(stmts) > 3 || containsControlFlow(stmts) {
			a.complex = true
		}
		if !c.IsArrow && i < len(cases)-1 && len(stmts) > 0 && !endsFlow(stmts[len(stmts)-1]) {
			a.fallsThru = true
		}
	}

	a.exhaustNote = hasExhaustivenessComment(src.Tree, sw)
	return a
}

func hasDefaultLabel(sw *parser.Node) bool {
	for _, c := range sw.Children {
		for _, label := range c.Children {
			if label.Type == parser.NodeSwitchLabel && label.IsDefault {
				return true
			}
		}
	}
	return false
}

func switchCases(sw *parser.Node) []*parser.Node {
	var cases []*parser.Node
	for _, c := range sw.Children {
		if c.Type == parser.NodeSwitchCase {
			cases = append(cases, c)
		}
	}
	return cases
}

// caseValues returns the distinct constants of all case labels, with any
// qualifier removed
func caseValues(sw *parser.Node) []string {
	seen := make(map[string]bool)
	var values []string
	for _, c := range switchCases(sw) {
		for _, label := range c.Children {
			for _, v := range label.Values {
				if i := strings.LastIndex(v, "."); i >= 0 {
					v = v[i+1:]
				}
				if !seen[v] {
					seen[v] = true
					values = append(values, v)
				}
			}
		}
	}
	return values
}

// caseStatements flattens a case body that is a single block
func caseStatements(c *parser.Node) []*parser.Node {
	if len(c.Body) == 1 && c.Body[0].Type == parser.NodeBlock {
		return c.Body[0].Body
	}
	return c.Body
}

func containsControlFlow(stmts []*parser.Node) bool {
	for _, stmt := range stmts {
		found := false
		stmt.Walk(func(n *parser.Node) bool {
			if n.IsControlFlow() {
				found = true
			}
			return !found && n.Type != parser.NodeLambda
		})
		if found {
			return true
		}
	}
	return false
}

// endsFlow reports whether control cannot continue past stmt into the next case
func endsFlow(stmt *parser.Node) bool {
	switch stmt.Type {
	case parser.NodeBreak, parser.NodeReturn, parser.NodeThrow, parser.NodeContinue, parser.NodeYield:
		return true
	case parser.NodeBlock:
		if len(stmt.Body) > 0 {
			return endsFlow(stmt.Body[len(stmt.Body)-1])
		}
	}
	return false
}

// collectEnums maps each enum declared in the file to its constant names
func collectEnums(tree *parser.Node) map[string][]string {
	enums := make(map[string][]string)
	for _, e := range tree.FindType(parser.NodeEnum) {
		var constants []string
		for _, member := range e.Body {
			if member.Type == parser.NodeEnumConstant {
				constants = append(constants, member.Name)
			}
		}
		enums[e.Name] = constants
	}
	return enums
}

// enumContaining finds the first enum of the file, in declaration order, whose
// constants include every case value
func enumContaining(tree *parser.Node, enums map[string][]string, values []string) (string, []string, bool) {
	if len(values) == 0 {
		return "", nil, false
	}
	for _, e := range tree.FindType(parser.NodeEnum) {
		constants := enums[e.Name]
		set := make(map[string]bool, len(constants))
		for _, c := range constants {
			set[c] = true
		}
		all := true
		for _, v := range values {
			if !set[v] {
				all = false
				break
			}
		}
		if all {
			return e.Name, constants, true
		}
	}
	return "", nil, false
}

func enumCoverage(values, constants []string) float64 {
	if len(constants) == 0 {
		return 1
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	covered := 0
	for _, c := range constants {
		if set[c] {
			covered++
		}
	}
	return float64(covered) / float64(len(constants))
}

// resolveVariableType finds the declared simple type of name as seen from n:
// parameters and locals of the enclosing callable, then fields of the
// enclosing types
func resolveVariableType(n *parser.Node, name string) string {
	if name == "" || strings.ContainsAny(name, "().[] ") {
		return ""
	}

	if callable := n.EnclosingCallable(); callable != nil {
		for _, p := range callable.Params {
			if p.Name == name {
				return simpleTypeName(p.ValueType)
			}
		}
		found := ""
		walkScope(callable, func(v *parser.Node) {
			if found != "" {
				return
			}
			switch v.Type {
			case parser.NodeLocalVariable:
				for _, decl := range v.Children {
					if decl.Name == name {
						found = simpleTypeName(v.ValueType)
					}
				}
			case parser.NodeForEach, parser.NodeCatch, parser.NodeLambda:
				for _, p := range v.Params {
					if p.Name == name && p.ValueType != "" {
						found = simpleTypeName(p.ValueType)
					}
				}
			}
		})
		if found != "" {
			return found
		}
	}

	for typ := n.EnclosingType(); typ != nil; typ = typ.EnclosingType() {
		for _, member := range typ.Body {
			if member.Type != parser.NodeField {
				continue
			}
			for _, decl := range member.Children {
				if decl.Name == name {
					return simpleTypeName(member.ValueType)
				}
			}
		}
		for _, p := range typ.Params {
			if p.Name == name {
				return simpleTypeName(p.ValueType)
			}
		}
	}
	return ""
}

func hasExhaustivenessComment(tree *parser.Node, sw *parser.Node) bool {
	from, to := sw.Location.StartLine-1, sw.Location.EndLine
	for _, c := range tree.Comments {
		if c.Location.StartLine >= from && c.Location.StartLine <= to && exhaustiveNotePattern.MatchString(c.Raw) {
			return true
		}
	}
	return false
}
