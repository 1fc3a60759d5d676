package detector

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/parser"
)

// UnnecessaryAbstractionDetector flags abstractions that hold almost nothing
type UnnecessaryAbstractionDetector struct{}

// NewUnnecessaryAbstractionDetector creates the unnecessary-abstraction detector
func NewUnnecessaryAbstractionDetector() *UnnecessaryAbstractionDetector {
	return &UnnecessaryAbstractionDetector{}
}

func (d *UnnecessaryAbstractionDetector) Name() string { return "unnecessary-abstraction" }
func (d *UnnecessaryAbstractionDetector) Kind() domain.DetectorKind {
	return domain.KindUnnecessaryAbstraction
}
func (d *UnnecessaryAbstractionDetector) Family() Family { return FamilyStructural }

func (d *UnnecessaryAbstractionDetector) Defaults() Thresholds {
	return Thresholds{"min_members": 2}
}

func (d *UnnecessaryAbstractionDetector) Detect(src *parser.Source, settings Settings) ([]domain.Issue, error) {
	minMembers := settings.Int("min_members")

	var issues []domain.Issue
	for _, typ := range src.Tree.FindType(parser.NodeClass, parser.NodeInterface) {
		if typ.HasAnnotation("FunctionalInterface") {
			continue
		}

		abstract := typ.Type == parser.NodeInterface || typ.HasModifier("abstract")
		suffixed := strings.HasSuffix(typ.Name, "Base") || strings.HasSuffix(typ.Name, "Adapter")
		if !abstract && !suffixed {
			continue
		}

		members := countMembers(typ)
		if members >= minMembers {
			continue
		}

		severity := domain.SeverityLow
		if members == 0 {
			severity = domain.SeverityMedium
		}

		kind := "Class"
		if typ.Type == parser.NodeInterface {
			kind = "Interface"
		}
		issues = append(issues, newIssue(d.Kind(), src, typ.Location.StartLine, severity,
			fmt.Sprintf("%s '%s' declares only %s", kind, typ.Name, plural(members, "member")),
			"Inline the abstraction into its users or give it a real responsibility",
			fmt.Sprintf("%d members < %d", members, minMembers)))
	}

	return sortByLine(issues), nil
}

// countMembers counts fields, methods, constructors and nested types of a declaration
func countMembers(typ *parser.Node) int {
	n := 0
	for _, member := range typ.Body {
		switch {
		case member.Type == parser.NodeField:
			if len(member.Children) > 1 {
				n += len(member.Children)
			} else {
				n++
			}
		case member.IsCallable(), member.IsTypeDeclaration(), member.Type == parser.NodeInitializer:
			n++
		}
	}
	return n
}
