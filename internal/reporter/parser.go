package reporter

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ludo-technologies/smellscan/domain"
)

var (
	countLinePattern     = regexp.MustCompile(`^([A-Za-z][\w-]*): (\d+)$`)
	fileHeaderPattern    = regexp.MustCompile(`^File: (.+) \(Total: (\d+)\)$`)
	fileSeverityPattern  = regexp.MustCompile(`^  ([A-Za-z]+): (\d+)$`)
	detailedIssuePattern = regexp.MustCompile(
		`^` + regexp.QuoteMeta(domain.IssueMarker) + ` (\S+) \[([^\]]*)\] (.+?):(-?\d+) - (.*)$`)
)

type parseMode int

const (
	modeNone parseMode = iota
	modeSeverity
	modeType
	modeFile
	modeDetailed
)

var sectionModes = map[string]parseMode{
	domain.SectionSeverity: modeSeverity,
	domain.SectionType:     modeType,
	domain.SectionFile:     modeFile,
	domain.SectionDetailed: modeDetailed,
}

// reportParser holds the state of one Parse call
type reportParser struct {
	report      *domain.ParsedReport
	mode        parseMode
	currentFile string
	lineNo      int
}

// Parse reads a text report. Grammar violations are collected in the
// Errors of the returned report; parsing always runs to the end of the text.
func Parse(text string) *domain.ParsedReport {
	p := &reportParser{report: domain.NewParsedReport()}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		p.lineNo++
		p.parseLine(strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		p.fail("%v", err)
	}

	return p.report
}

func (p *reportParser) parseLine(line string) {
	if strings.TrimSpace(line) == "" {
		p.mode = modeNone
		p.currentFile = ""
		return
	}

	if mode, ok := sectionModes[strings.TrimSpace(line)]; ok {
		header := strings.TrimSpace(line)
		if p.report.HasSection(header) {
			p.fail("duplicate section %q", header)
		}
		p.report.Sections = append(p.report.Sections, header)
		p.mode = mode
		p.currentFile = ""
		return
	}

	switch p.mode {
	case modeSeverity:
		p.parseSeverityCount(line)
	case modeType:
		p.parseTypeCount(line)
	case modeFile:
		p.parseFileLine(line)
	case modeDetailed:
		p.parseIssue(line)
	default:
		p.fail("unexpected content outside of a section: %q", line)
	}
}

func (p *reportParser) parseSeverityCount(line string) {
	m := countLinePattern.FindStringSubmatch(line)
	if m == nil {
		p.fail("malformed severity count %q", line)
		return
	}
	sev, ok := domain.ParseSeverity(m[1])
	if !ok {
		p.fail("unknown severity %q", m[1])
		return
	}
	if _, dup := p.report.SeverityCounts[sev]; dup {
		p.fail("severity %s counted twice", sev)
	}
	p.report.SeverityCounts[sev] = p.atoi(m[2])
}

func (p *reportParser) parseTypeCount(line string) {
	m := countLinePattern.FindStringSubmatch(line)
	if m == nil {
		p.fail("malformed issue type count %q", line)
		return
	}
	kind := domain.DetectorKind(m[1])
	if _, dup := p.report.TypeCounts[kind]; dup {
		p.fail("issue type %s counted twice", kind)
	}
	p.report.TypeCounts[kind] = p.atoi(m[2])
}

func (p *reportParser) parseFileLine(line string) {
	if m := fileHeaderPattern.FindStringSubmatch(line); m != nil {
		file := m[1]
		if _, dup := p.report.FileCounts[file]; dup {
			p.fail("file %s listed twice", file)
		}
		p.report.FileCounts[file] = domain.FileCount{
			Total:      p.atoi(m[2]),
			BySeverity: make(map[domain.Severity]int),
		}
		p.currentFile = file
		return
	}

	m := fileSeverityPattern.FindStringSubmatch(line)
	if m == nil {
		p.fail("malformed file breakdown line %q", line)
		return
	}
	if p.currentFile == "" {
		p.fail("severity line %q without a file header", line)
		return
	}
	sev, ok := domain.ParseSeverity(m[1])
	if !ok {
		p.fail("unknown severity %q", m[1])
		return
	}
	fc := p.report.FileCounts[p.currentFile]
	fc.BySeverity[sev] += p.atoi(m[2])
	p.report.FileCounts[p.currentFile] = fc
}

func (p *reportParser) parseIssue(line string) {
	m := detailedIssuePattern.FindStringSubmatch(line)
	if m == nil {
		p.fail("malformed issue line %q", line)
		return
	}

	sev, ok := domain.SeverityFromGlyph(m[1])
	if !ok {
		p.fail("unknown severity glyph %q", m[1])
	}
	issueLine, err := strconv.Atoi(m[4])
	if err != nil {
		p.fail("invalid line number %q", m[4])
		issueLine = -1
	}

	message, suggestion := splitSuggestion(m[5])
	p.report.Issues = append(p.report.Issues, domain.ParsedIssue{
		Severity:   sev,
		Kind:       domain.DetectorKind(m[2]),
		File:       m[3],
		Line:       issueLine,
		Message:    message,
		Suggestion: suggestion,
		SourceLine: p.lineNo,
	})
}

func (p *reportParser) atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		p.fail("invalid count %q", s)
		return 0
	}
	return n
}

func (p *reportParser) fail(format string, args ...interface{}) {
	err := domain.NewFormatError(p.lineNo, fmt.Sprintf(format, args...))
	p.report.Errors = append(p.report.Errors, err.Error())
}

// splitSuggestion splits a description at its last suggestion separator,
// so a message may itself contain the separator text
func splitSuggestion(desc string) (string, string) {
	i := strings.LastIndex(desc, suggestionMarker)
	if i < 0 {
		return strings.TrimSpace(desc), ""
	}
	return strings.TrimSpace(desc[:i]), strings.TrimSpace(desc[i+len(suggestionMarker):])
}
