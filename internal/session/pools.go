package session

import (
	"fmt"
	"maps"
	"regexp"
	"strconv"
	"strings"
)

// ConsolePool is the pool ninja predefines for jobs that need the terminal.
const ConsolePool = "console"

var validPoolName = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Pool declares a pool limiting how many jobs using it run at once.
// Declaring it again with the same depth is a no-op.
func (s *Session) Pool(name string, depth int) error {
	if s.closed {
		return ErrClosed
	}
	if !validPoolName.MatchString(name) {
		return fmt.Errorf("invalid pool name %q", name)
	}
	if name == ConsolePool {
		return fmt.Errorf("pool %s is built into ninja and cannot be declared", name)
	}
	if depth < 0 {
		return fmt.Errorf("pool %s: depth must not be negative, got %d", name, depth)
	}
	if existing, ok := s.pools[name]; ok {
		if existing != depth {
			return &RedefinitionError{Kind: "pool", Name: name, Existing: strconv.Itoa(existing), New: strconv.Itoa(depth)}
		}
		return nil
	}
	s.pools[name] = depth
	if err := s.w.Pool(name, depth); err != nil {
		return err
	}
	s.logger.Debug("Pool declared.", "pool", name, "depth", depth)
	return s.w.Newline()
}

// Default declares the targets ninja builds when none is named.
func (s *Session) Default(paths ...string) error {
	if s.closed {
		return ErrClosed
	}
	if len(paths) == 0 {
		return invalidTarget(paths)
	}
	for _, p := range paths {
		if p == "" {
			return invalidTarget(paths)
		}
	}
	return s.w.Default(paths...)
}

// Pools returns the declared pools and their depths.
func (s *Session) Pools() map[string]int {
	return maps.Clone(s.pools)
}

// checkPool rejects a statement whose own pool, or whose rule's pool, has
// not been declared. Pools named through a variable are left to ninja.
func (s *Session) checkPool(st Statement) error {
	pool := st.Pool
	if pool == "" {
		pool = s.rules[st.Rule].Pool
	}
	if pool == "" || pool == ConsolePool || strings.Contains(pool, "$") {
		return nil
	}
	if _, ok := s.pools[pool]; !ok {
		return &UnknownPoolError{Pool: pool, Rule: st.Rule}
	}
	return nil
}
