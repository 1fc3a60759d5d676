package detector

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/parser"
)

// DeficientEncapsulationDetector flags classes that expose their state through
// public fields or a wall of accessors
type DeficientEncapsulationDetector struct{}

// NewDeficientEncapsulationDetector creates the deficient-encapsulation detector
func NewDeficientEncapsulationDetector() *DeficientEncapsulationDetector {
	return &DeficientEncapsulationDetector{}
}

func (d *DeficientEncapsulationDetector) Name() string { return "deficient-encapsulation" }
func (d *DeficientEncapsulationDetector) Kind() domain.DetectorKind {
	return domain.KindDeficientEncapsulation
}
func (d *DeficientEncapsulationDetector) Family() Family { return FamilyStructural }

func (d *DeficientEncapsulationDetector) Defaults() Thresholds {
	return Thresholds{"max_public_ratio": 0.3, "max_accessors": 10, "max_accessor_ratio": 0.5}
}

// Detect checks every class and enum declaration of the file
func (d *DeficientEncapsulationDetector) Detect(src *parser.Source, settings Settings) ([]domain.Issue, error) {
	maxPublicRatio := settings.Float("max_public_ratio")
	maxAccessors := settings.Int("max_accessors")
	maxAccessorRatio := settings.Float("max_accessor_ratio")

	var issues []domain.Issue
	for _, typ := range src.Tree.FindType(parser.NodeClass, parser.NodeEnum) {
		m := measureMembers(typ)

		if m.fields > 0 {
			ratio := float64(m.publicFields) / float64(m.fields)
			if ratio > maxPublicRatio {
				issues = append(issues, newIssue(d.Kind(), src, typ.Location.StartLine, domain.SeverityMedium,
					fmt.Sprintf("Class '%s' exposes %d of %s publicly", typ.Name, m.publicFields, plural(m.fields, "field")),
					"Make fields private and provide behaviour instead of raw access",
					fmt.Sprintf("public field ratio %.2f > %.2f", ratio, maxPublicRatio)))
			}
		}

		if m.members > 0 && m.accessors > maxAccessors {
			ratio := float64(m.accessors) / float64(m.members)
			if ratio > maxAccessorRatio {
				issues = append(issues, newIssue(d.Kind(), src, typ.Location.StartLine, domain.SeverityMedium,
					fmt.Sprintf("Class '%s' has %d getters/setters out of %s", typ.Name, m.accessors, plural(m.members, "member")),
					"Move the logic that uses this data into the class",
					fmt.Sprintf("accessor ratio %.2f > %.2f", ratio, maxAccessorRatio)))
			}
		}
	}

	return sortByLine(issues), nil
}

type memberStats struct {
	fields       int
	publicFields int
	accessors    int
	members      int
}

// measureMembers counts the direct members of a type declaration
func measureMembers(typ *parser.Node) memberStats {
	var m memberStats
	for _, member := range typ.Body {
		switch member.Type {
		case parser.NodeField:
			n := len(member.Children)
			if n == 0 {
				n = 1
			}
			m.fields += n
			m.members += n
			if member.HasModifier("public") && !(member.HasModifier("static") && member.HasModifier("final")) {
				m.publicFields += n
			}
		case parser.NodeMethod:
			m.members++
			if isAccessor(member) {
				m.accessors++
			}
		case parser.NodeConstructor:
			m.members++
		}
	}
	return m
}

// isAccessor reports whether a method looks like a getter or setter
func isAccessor(method *parser.Node) bool {
	name := method.Name
	switch {
	case hasAccessorPrefix(name, "get"), hasAccessorPrefix(name, "is"):
		return len(method.Params) == 0
	case hasAccessorPrefix(name, "set"):
		return len(method.Params) == 1
	}
	return false
}

func hasAccessorPrefix(name, prefix string) bool {
	if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
		return false
	}
	next := name[len(prefix)]
	return next >= 'A' && next <= 'Z'
}
