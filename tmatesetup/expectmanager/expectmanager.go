package expectmanager

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

type Matcher interface {
	// Find returns the interesting part of line and whether line matched.
	Find(line string) (string, bool)
}

type RegexMatcher struct {
	Pattern *regexp.Regexp
}

func NewRegexMatcher(pattern string) (*RegexMatcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexMatcher{Pattern: re}, nil
}

// Find returns the first capture group, or the whole match when the pattern
// has no groups.
func (r *RegexMatcher) Find(line string) (string, bool) {
	m := r.Pattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	if len(m) > 1 {
		return m[1], true
	}
	return m[0], true
}

type Expectation struct {
	Name    string
	Matcher Matcher
	// OnMatch runs on the first match only.
	OnMatch func(value string)
}

type expectationState struct {
	Expectation
	value string
	done  chan struct{}
}

// ExpectManager watches a stream of output for expected lines. It is an
// io.Writer so it can sit behind an io.MultiWriter next to the real output.
type ExpectManager struct {
	mu      sync.Mutex
	pending []byte
	states  []*expectationState
}

func NewExpectManager(expectations ...Expectation) *ExpectManager {
	em := &ExpectManager{}
	for _, exp := range expectations {
		em.states = append(em.states, &expectationState{Expectation: exp, done: make(chan struct{})})
	}
	return em
}

func (em *ExpectManager) Write(p []byte) (int, error) {
	em.mu.Lock()
	em.pending = append(em.pending, p...)
	var lines []string
	for {
		i := bytes.IndexByte(em.pending, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, string(em.pending[:i]))
		em.pending = em.pending[i+1:]
	}
	em.mu.Unlock()

	for _, line := range lines {
		em.Feed(line)
	}
	return len(p), nil
}

// Flush feeds any buffered partial line.
func (em *ExpectManager) Flush() {
	em.mu.Lock()
	line := string(em.pending)
	em.pending = nil
	em.mu.Unlock()

	if line != "" {
		em.Feed(line)
	}
}

// Feed checks a single line against every expectation that has not matched yet.
func (em *ExpectManager) Feed(line string) {
	line = cleanLine(line)

	var fired []*expectationState
	em.mu.Lock()
	for _, st := range em.states {
		if isClosed(st.done) {
			continue
		}
		if v, ok := st.Matcher.Find(line); ok {
			st.value = v
			close(st.done)
			fired = append(fired, st)
		}
	}
	em.mu.Unlock()

	for _, st := range fired {
		if st.OnMatch != nil {
			st.OnMatch(st.value)
		}
	}
}

// Value returns the matched value of the named expectation.
func (em *ExpectManager) Value(name string) (string, bool) {
	em.mu.Lock()
	defer em.mu.Unlock()
	for _, st := range em.states {
		if st.Name == name && isClosed(st.done) {
			return st.value, true
		}
	}
	return "", false
}

// WaitFor blocks until the named expectation matches or ctx is done.
func (em *ExpectManager) WaitFor(ctx context.Context, name string) (string, error) {
	var target *expectationState
	for _, st := range em.states {
		if st.Name == name {
			target = st
			break
		}
	}
	if target == nil {
		return "", fmt.Errorf("no expectation named %q", name)
	}

	select {
	case <-target.done:
		em.mu.Lock()
		defer em.mu.Unlock()
		return target.value, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

// cleanLine strips the terminal noise a pty adds around otherwise plain text.
func cleanLine(line string) string {
	line = ansiEscape.ReplaceAllString(line, "")
	return strings.TrimSpace(strings.TrimRight(line, "\r"))
}

func isClosed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
