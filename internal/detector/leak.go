package detector

import (
	"fmt"
	"regexp"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/parser"
)

var (
	resourceTypePattern = regexp.MustCompile(
		`^(\w*(InputStream|OutputStream|Reader|Writer)|Socket|ServerSocket|DatagramSocket|Scanner|` +
			`RandomAccessFile|ZipFile|JarFile|PrintStream|Formatter|FileChannel)$`)
	inMemoryTypePattern = regexp.MustCompile(`^(String|ByteArray|CharArray)`)
	resourceCallPattern = regexp.MustCompile(
		`^(getConnection|createStatement|prepareStatement|prepareCall|executeQuery|openStream|` +
			`newInputStream|newOutputStream|newBufferedReader|newBufferedWriter)$`)
	resourceClosePattern = regexp.MustCompile(`^(close|closeQuietly)$`)

	listenerOpenPattern  = regexp.MustCompile(`^(add\w*Listener|addObserver|register\w*)$`)
	listenerClosePattern = regexp.MustCompile(`^(remove\w*Listener|removeObserver|deleteObserver|unregister\w*)$`)

	threadTypePattern  = regexp.MustCompile(`^(Thread|Timer|ThreadPoolExecutor|ScheduledThreadPoolExecutor|ForkJoinPool)$`)
	threadCallPattern  = regexp.MustCompile(`^new\w*(Pool|Executor|PerTaskExecutor)$`)
	threadClosePattern = regexp.MustCompile(`^(shutdown|shutdownNow|interrupt|cancel)$`)
)

// LeakDetector flags acquisitions in a method without a matching release in
// the same method. One type serves resources, listeners and threads.
type LeakDetector struct {
	name     string
	kind     domain.DetectorKind
	severity domain.Severity
	noun     string
	verb     string

	// opens returns the acquired thing's name when n acquires something
	opens  func(n *parser.Node) (string, bool)
	closer *regexp.Regexp

	// byReceiver matches releases on the receiver of the acquiring call
	// instead of on a bound variable
	byReceiver bool
}

// NewResourceLeakDetector creates the resource-leak detector
func NewResourceLeakDetector() *LeakDetector {
	return &LeakDetector{
		name:     "resource-leak",
		kind:     domain.KindResourceLeak,
		severity: domain.SeverityHigh,
		noun:     "Resource",
		verb:     "closed",
		closer:   resourceClosePattern,
		opens: func(n *parser.Node) (string, bool) {
			switch n.Type {
			case parser.NodeObjectCreation:
				typ := simpleTypeName(n.ValueType)
				return typ, resourceTypePattern.MatchString(typ) && !inMemoryTypePattern.MatchString(typ)
			case parser.NodeMethodInvocation:
				return n.Name, resourceCallPattern.MatchString(n.Name)
			}
			return "", false
		},
	}
}

// NewListenerLeakDetector creates the listener-leak detector
func NewListenerLeakDetector() *LeakDetector {
	return &LeakDetector{
		name:       "listener-leak",
		kind:       domain.KindListenerLeak,
		severity:   domain.SeverityMedium,
		noun:       "Listener",
		verb:       "removed",
		closer:     listenerClosePattern,
		byReceiver: true,
		opens: func(n *parser.Node) (string, bool) {
			if n.Type != parser.NodeMethodInvocation {
				return "", false
			}
			return n.Name, listenerOpenPattern.MatchString(n.Name)
		},
	}
}

// NewThreadLeakDetector creates the thread-leak detector
func NewThreadLeakDetector() *LeakDetector {
	return &LeakDetector{
		name:     "thread-leak",
		kind:     domain.KindThreadLeak,
		severity: domain.SeverityHigh,
		noun:     "Thread",
		verb:     "stopped",
		closer:   threadClosePattern,
		opens: func(n *parser.Node) (string, bool) {
			switch n.Type {
			case parser.NodeObjectCreation:
				typ := simpleTypeName(n.ValueType)
				return typ, threadTypePattern.MatchString(typ)
			case parser.NodeMethodInvocation:
				if n.Object == nil || n.Object.Name != "Executors" {
					return "", false
				}
				return "Executors." + n.Name, threadCallPattern.MatchString(n.Name)
			}
			return "", false
		},
	}
}

func (d *LeakDetector) Name() string              { return d.name }
func (d *LeakDetector) Kind() domain.DetectorKind { return d.kind }
func (d *LeakDetector) Family() Family            { return FamilyTree }

func (d *LeakDetector) Defaults() Thresholds {
	return Thresholds{"exempt_scoped_blocks": 0}
}

// Detect checks the acquisitions of every method and constructor body
func (d *LeakDetector) Detect(src *parser.Source, settings Settings) ([]domain.Issue, error) {
	exemptScoped := settings.Bool("exempt_scoped_blocks")

	var issues []domain.Issue
	for _, callable := range callables(src.Tree) {
		releases := d.releases(callable)
		locals := localNames(callable)

		walkScope(callable, func(n *parser.Node) {
			what, ok := d.opens(n)
			if !ok {
				return
			}

			released := false
			if d.byReceiver {
				released = releases.onReceiver[receiverText(n)]
			} else {
				bound, escapes, scoped := bindingOf(n, locals)
				switch {
				case escapes:
					return
				case scoped && exemptScoped:
					return
				case bound != "":
					released = releases.onVariable[bound] || escapesFromScope(callable, bound)
				default:
					released = releases.any
				}
			}
			if released {
				return
			}

			issues = append(issues, newIssue(d.kind, src, n.Location.StartLine, d.severity,
				fmt.Sprintf("%s '%s' acquired in '%s' is never %s", d.noun, what, callable.Name, d.verb),
				d.suggestion(),
				fmt.Sprintf("no %s call found in the same scope", d.closer.String())))
		})
	}

	return sortByLine(issues), nil
}

func (d *LeakDetector) suggestion() string {
	switch d.kind {
	case domain.KindListenerLeak:
		return "Remove the listener when the owner is disposed"
	case domain.KindThreadLeak:
		return "Shut the thread or executor down when the work is done"
	default:
		return "Close the resource in a finally block or use try-with-resources"
	}
}

type releaseSet struct {
	any        bool
	onVariable map[string]bool
	onReceiver map[string]bool
}

// releases collects every releasing call of the callable, keyed by the
// variable or receiver it acts on
func (d *LeakDetector) releases(callable *parser.Node) releaseSet {
	set := releaseSet{onVariable: make(map[string]bool), onReceiver: make(map[string]bool)}
	for _, stmt := range callable.Body {
		stmt.Walk(func(n *parser.Node) bool {
			if n.Type != parser.NodeMethodInvocation || !d.closer.MatchString(n.Name) {
				return true
			}
			set.any = true
			set.onReceiver[receiverText(n)] = true
			if name := variableName(n.Object); name != "" {
				set.onVariable[name] = true
			}
			for _, arg := range n.Arguments {
				if name := variableName(arg); name != "" {
					set.onVariable[name] = true
				}
			}
			return true
		})
	}
	return set
}

// bindingOf classifies how an acquiring expression is used: bound to a local
// variable, escaping the method, or owned by a try-with-resources block
func bindingOf(n *parser.Node, locals map[string]bool) (bound string, escapes, scoped bool) {
	cur, parent := unwrapExpression(n)
	if parent == nil {
		return "", false, false
	}

	switch parent.Type {
	case parser.NodeVariableDeclarator:
		if parent.Parent != nil && parent.Parent.Type == parser.NodeField {
			return "", true, false
		}
		return parent.Name, false, false
	case parser.NodeResource:
		return parent.Name, false, true
	case parser.NodeReturn, parser.NodeYield:
		return "", true, false
	case parser.NodeObjectCreation, parser.NodeMethodInvocation:
		for _, arg := range parent.Arguments {
			if arg == cur {
				// wrapped or handed over to a callee
				return "", true, false
			}
		}
	case parser.NodeLambda:
		return "", true, false
	case parser.NodeOther:
		if parent.SyntaxType == "assignment_expression" && len(parent.Children) == 2 && parent.Children[1] == cur {
			left := parent.Children[0]
			if left.Type == parser.NodeIdentifier && locals[left.Name] {
				return left.Name, false, false
			}
			return "", true, false
		}
	}
	return "", false, false
}

// unwrapExpression climbs out of parentheses and casts around n
func unwrapExpression(n *parser.Node) (*parser.Node, *parser.Node) {
	cur, parent := n, n.Parent
	for parent != nil && parent.Type == parser.NodeOther &&
		(parent.SyntaxType == "parenthesized_expression" || parent.SyntaxType == "cast_expression") {
		cur, parent = parent, parent.Parent
	}
	return cur, parent
}

// escapesFromScope reports whether the variable is returned, stored in a
// field or handed to a constructor
func escapesFromScope(callable *parser.Node, name string) bool {
	escaped := false
	for _, stmt := range callable.Body {
		stmt.Walk(func(n *parser.Node) bool {
			if escaped || n.Type != parser.NodeIdentifier || n.Name != name {
				return !escaped
			}
			cur, parent := unwrapExpression(n)
			if parent == nil {
				return true
			}
			switch parent.Type {
			case parser.NodeReturn, parser.NodeYield:
				escaped = true
			case parser.NodeObjectCreation:
				for _, arg := range parent.Arguments {
					if arg == cur {
						escaped = true
					}
				}
			case parser.NodeOther:
				if parent.SyntaxType == "assignment_expression" && len(parent.Children) == 2 &&
					parent.Children[1] == cur && parent.Children[0].Type == parser.NodeFieldAccess {
					escaped = true
				}
			}
			return !escaped
		})
	}
	return escaped
}

// localNames returns the names of all parameters and locals of a callable
func localNames(callable *parser.Node) map[string]bool {
	names := make(map[string]bool)
	for _, p := range callable.Params {
		names[p.Name] = true
	}
	walkScope(callable, func(n *parser.Node) {
		switch n.Type {
		case parser.NodeLocalVariable:
			for _, decl := range n.Children {
				names[decl.Name] = true
			}
		case parser.NodeResource:
			names[n.Name] = true
		}
	})
	return names
}

// receiverText is the source text of the object a method is called on
func receiverText(call *parser.Node) string {
	if call.Object == nil {
		return "this"
	}
	switch call.Object.Type {
	case parser.NodeIdentifier:
		return call.Object.Name
	case parser.NodeFieldAccess, parser.NodeMethodInvocation, parser.NodeObjectCreation:
		return call.Object.Raw
	}
	if call.Object.Raw != "" {
		return call.Object.Raw
	}
	return string(call.Object.Type)
}

// variableName returns the name of a plain or this-qualified variable expression
func variableName(n *parser.Node) string {
	if n == nil {
		return ""
	}
	switch n.Type {
	case parser.NodeIdentifier:
		return n.Name
	case parser.NodeFieldAccess:
		if n.Object != nil && n.Object.Raw == "this" {
			return n.Name
		}
	}
	return ""
}
