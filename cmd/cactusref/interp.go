package main

import (
	"fmt"
	"os"

	"cactusref/pkg/rc"
)

// loadAndRun reads a graph script from path, parses it, and runs it
// against a fresh Interp.
func loadAndRun(path string) (*Interp, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	forms, err := ParseProgram(string(data))
	if err != nil {
		return nil, err
	}
	in := NewInterp()
	if err := in.Run(forms); err != nil {
		return nil, err
	}
	return in, nil
}

// cell is the payload every node created by a graph script shares: a
// name for diagnostics and the set of Strong handles it owns, recorded
// the way rc.Adopt's own contract requires, one stored clone per unit of
// adoption multiplicity.
type cell struct {
	name   string
	kids   []rc.Strong[cell]
	onFree func(name string)
}

func (c *cell) DropPayload() {
	if c.onFree != nil {
		c.onFree(c.name)
	}
	for i := range c.kids {
		c.kids[i].Drop()
	}
}

// Interp evaluates a parsed graph script against pkg/rc, tracking every
// name a script binds and reporting what happened for the build/gc/dump
// subcommands to print.
type Interp struct {
	strong map[string]rc.Strong[cell]
	weak   map[string]rc.Weak[cell]
	order  []string // node names, in creation order; dump's default root

	NodesCreated int
	EdgesCreated int
	DropsIssued  int
	Freed        []string
}

func NewInterp() *Interp {
	return &Interp{
		strong: make(map[string]rc.Strong[cell]),
		weak:   make(map[string]rc.Weak[cell]),
	}
}

// Run evaluates every form in order and stops at the first error.
func (in *Interp) Run(forms []Expr) error {
	for _, f := range forms {
		if err := in.eval(f); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interp) eval(f Expr) error {
	if f.IsSym() {
		return fmt.Errorf("cactusref: top-level form must be a list, got bare symbol %q", f.Sym)
	}
	if len(f.List) == 0 {
		return fmt.Errorf("cactusref: empty form")
	}
	head := f.List[0]
	if !head.IsSym() {
		return fmt.Errorf("cactusref: form must start with a verb symbol")
	}
	args := f.List[1:]

	switch head.Sym {
	case "node":
		return in.evalNode(args)
	case "adopt":
		return in.evalAdopt(args)
	case "weak":
		return in.evalWeak(args)
	case "upgrade":
		return in.evalUpgrade(args)
	case "drop":
		return in.evalDrop(args)
	default:
		return fmt.Errorf("cactusref: unknown verb %q", head.Sym)
	}
}

func symArgs(verb string, args []Expr, n int) ([]string, error) {
	if len(args) != n {
		return nil, fmt.Errorf("cactusref: (%s ...) wants %d argument(s), got %d", verb, n, len(args))
	}
	out := make([]string, n)
	for i, a := range args {
		if !a.IsSym() {
			return nil, fmt.Errorf("cactusref: (%s ...) argument %d must be a symbol", verb, i)
		}
		out[i] = a.Sym
	}
	return out, nil
}

func (in *Interp) evalNode(args []Expr) error {
	names, err := symArgs("node", args, 1)
	if err != nil {
		return err
	}
	name := names[0]
	if _, exists := in.strong[name]; exists {
		return fmt.Errorf("cactusref: node %q already exists", name)
	}
	in.strong[name] = rc.New(cell{name: name, onFree: func(n string) {
		in.Freed = append(in.Freed, n)
	}})
	in.order = append(in.order, name)
	in.NodesCreated++
	return nil
}

func (in *Interp) evalAdopt(args []Expr) error {
	names, err := symArgs("adopt", args, 2)
	if err != nil {
		return err
	}
	parent, ok := in.strong[names[0]]
	if !ok {
		return fmt.Errorf("cactusref: (adopt %s %s): no such node %q", names[0], names[1], names[0])
	}
	child, ok := in.strong[names[1]]
	if !ok {
		return fmt.Errorf("cactusref: (adopt %s %s): no such node %q", names[0], names[1], names[1])
	}
	pv := parent.Deref()
	pv.kids = append(pv.kids, child.Clone())
	rc.Adopt(parent, child)
	in.EdgesCreated++
	return nil
}

func (in *Interp) evalWeak(args []Expr) error {
	names, err := symArgs("weak", args, 2)
	if err != nil {
		return err
	}
	target, ok := in.strong[names[1]]
	if !ok {
		return fmt.Errorf("cactusref: (weak %s %s): no such node %q", names[0], names[1], names[1])
	}
	if _, exists := in.weak[names[0]]; exists {
		return fmt.Errorf("cactusref: weak handle %q already exists", names[0])
	}
	in.weak[names[0]] = target.Downgrade()
	return nil
}

func (in *Interp) evalUpgrade(args []Expr) error {
	names, err := symArgs("upgrade", args, 2)
	if err != nil {
		return err
	}
	w, ok := in.weak[names[1]]
	if !ok {
		return fmt.Errorf("cactusref: (upgrade %s %s): no such weak handle %q", names[0], names[1], names[1])
	}
	s, ok := w.Upgrade()
	if !ok {
		return fmt.Errorf("cactusref: (upgrade %s %s): %q is dangling", names[0], names[1], names[1])
	}
	if _, exists := in.strong[names[0]]; exists {
		return fmt.Errorf("cactusref: node %q already exists", names[0])
	}
	in.strong[names[0]] = s
	in.order = append(in.order, names[0])
	return nil
}

func (in *Interp) evalDrop(args []Expr) error {
	names, err := symArgs("drop", args, 1)
	if err != nil {
		return err
	}
	name := names[0]
	if s, ok := in.strong[name]; ok {
		delete(in.strong, name)
		s.Drop()
		in.DropsIssued++
		return nil
	}
	if w, ok := in.weak[name]; ok {
		delete(in.weak, name)
		w.Drop()
		return nil
	}
	return fmt.Errorf("cactusref: (drop %s): no such handle %q", name, name)
}

// Root returns the Strong handle to inspect when a command needs one
// node's component: the explicitly named one if given, otherwise the
// first node the script created that is still live.
func (in *Interp) Root(name string) (rc.Strong[cell], error) {
	if name != "" {
		s, ok := in.strong[name]
		if !ok {
			return rc.Strong[cell]{}, fmt.Errorf("cactusref: no such live node %q", name)
		}
		return s, nil
	}
	for _, n := range in.order {
		if s, ok := in.strong[n]; ok {
			return s, nil
		}
	}
	return rc.Strong[cell]{}, fmt.Errorf("cactusref: script has no live nodes to inspect")
}

// LiveNodes returns every name the script still binds to a live Strong
// handle, in the order the names were bound. A node held only by another
// node's payload is not listed.
func (in *Interp) LiveNodes() []string {
	var out []string
	for _, n := range in.order {
		if _, ok := in.strong[n]; ok {
			out = append(out, n)
		}
	}
	return out
}
