package cfg

import "github.com/xujuntwt95329/binaryen/ir"

// frame tracks one lexically enclosing Block or Loop while walking,
// so a Break can resolve its Target node id to a concrete destination
// block without a separate symbol table.
type frame struct {
	marker  ir.NodeID
	isLoop  bool
	dest    int // loop: header block (continue); block: after block (exit)
	reached bool
}

// walker constructs a Graph by a single recursive descent over a
// Function's body, in the manner of wazero's CFG walker harness
// (api.go's CFGWalker-shaped visitor with a currentBasicBlock field):
// it maintains a "current block" pointer that goes nil (-1) inside
// provably unreachable regions, so reads and writes found there are
// neutralized instead of linked into the graph.
type walker struct {
	f      *ir.Function
	blocks []*BasicBlock
	cur    int // -1 means no current block (unreachable)
	frames []frame
}

// Build walks fn's body and returns its CFG. fn must already have a
// valid Body; Build does not mutate fn's signature, only node content
// for actions it neutralizes in unreachable regions.
func Build(fn *ir.Function) *Graph {
	w := &walker{f: fn, cur: -1}
	entry := w.newBlock()
	w.cur = entry

	if fn.Body.Valid() {
		w.visit(fn.Body)
	}

	g := &Graph{Func: fn, Blocks: w.blocks, EntryID: entry}
	for _, b := range g.Blocks {
		if b.LoopHeader {
			g.LoopHeaders = append(g.LoopHeaders, b.ID)
		}
	}
	computeReachability(g)
	return g
}

func (w *walker) newBlock() int {
	id := len(w.blocks)
	w.blocks = append(w.blocks, &BasicBlock{ID: id})
	return id
}

func (w *walker) link(from, to int, back bool) {
	if from < 0 {
		return
	}
	w.blocks[from].Succs = append(w.blocks[from].Succs, Edge{To: to, Back: back})
	w.blocks[to].Preds = append(w.blocks[to].Preds, Edge{To: from, Back: back})
}

func (w *walker) append(kind ActionKind, index int, id ir.NodeID) {
	if w.cur < 0 {
		return
	}
	b := w.blocks[w.cur]
	b.Actions = append(b.Actions, Action{Kind: kind, Index: index, Node: id})
}

// visit walks one node. Reads and Writes encountered while w.cur == -1
// are neutralized in place instead of being recorded, since code that
// can never execute must not contribute to any dataflow fact.
func (w *walker) visit(id ir.NodeID) {
	if !id.Valid() {
		return
	}
	n := w.f.Node(id)
	switch n.Kind {
	case ir.KindRead:
		if w.cur < 0 {
			neutralizeReadInUnreachable(n)
			return
		}
		w.append(ActionRead, n.Index, id)

	case ir.KindWrite:
		w.visit(n.Value)
		if w.cur < 0 {
			neutralizeWriteInUnreachable(w.f, n)
			return
		}
		w.append(ActionWrite, n.Index, id)

	case ir.KindDrop:
		w.visit(n.Value)

	case ir.KindBlock:
		if w.cur < 0 {
			for _, c := range n.Children {
				w.visit(c)
			}
			return
		}
		w.visitBlock(id, n)

	case ir.KindLoop:
		if w.cur < 0 {
			w.visit(n.Body)
			return
		}
		w.visitLoop(id, n)

	case ir.KindIf:
		if w.cur < 0 {
			w.visit(n.Cond)
			w.visit(n.Then)
			w.visit(n.Else)
			return
		}
		w.visitIf(n)

	case ir.KindBreak:
		w.visitBreak(n)

	case ir.KindSwitch:
		w.visitSwitch(n)

	default: // KindOther
		if n.Terminates {
			w.cur = -1
		}
	}
}

func neutralizeReadInUnreachable(n *ir.Node) {
	typ := n.Typ
	*n = ir.Node{Kind: ir.KindOther, Typ: typ, Lit: ir.Literal{Typ: ir.TypeNone}}
}

func neutralizeWriteInUnreachable(f *ir.Function, n *ir.Node) {
	if n.Tee {
		// Evaluates to the written value: splice in the value directly.
		*n = *f.Node(n.Value)
		return
	}
	// Void write: preserve the side effect of evaluating the value.
	value := n.Value
	*n = ir.Node{Kind: ir.KindDrop, Typ: ir.TypeNone, Value: value}
}

func (w *walker) visitBlock(id ir.NodeID, n *ir.Node) {
	after := w.newBlock()
	w.frames = append(w.frames, frame{marker: id, dest: after})
	for _, c := range n.Children {
		w.visit(c)
	}
	w.frames = w.frames[:len(w.frames)-1]
	if len(w.blocks[after].Preds) == 0 {
		// No break targets this block: control just continues in the
		// current block, and the unused after-block stays unreachable.
		return
	}
	w.joinAfter(after)
}

func (w *walker) visitLoop(id ir.NodeID, n *ir.Node) {
	header := w.newBlock()
	w.blocks[header].LoopHeader = true
	w.link(w.cur, header, false)
	w.cur = header

	w.frames = append(w.frames, frame{marker: id, isLoop: true, dest: header})
	w.visit(n.Body)
	w.frames = w.frames[:len(w.frames)-1]

	after := w.newBlock()
	w.joinAfter(after)
}

// joinAfter links the currently reachable block (if any) to after and
// adopts it as the new current block, or leaves the walker unreachable
// if neither fallthrough nor any break reached it.
func (w *walker) joinAfter(after int) {
	if w.cur >= 0 {
		w.link(w.cur, after, false)
	}
	if len(w.blocks[after].Preds) > 0 {
		w.cur = after
	} else {
		w.cur = -1
	}
}

func (w *walker) visitIf(n *ir.Node) {
	w.visit(n.Cond)
	start := w.cur
	after := w.newBlock()

	thenBlk := w.newBlock()
	w.link(start, thenBlk, false)
	w.cur = thenBlk
	w.visit(n.Then)
	if w.cur >= 0 {
		w.link(w.cur, after, false)
	}

	if n.Else.Valid() {
		elseBlk := w.newBlock()
		w.link(start, elseBlk, false)
		w.cur = elseBlk
		w.visit(n.Else)
		if w.cur >= 0 {
			w.link(w.cur, after, false)
		}
	} else {
		w.link(start, after, false)
	}

	if len(w.blocks[after].Preds) > 0 {
		w.cur = after
	} else {
		w.cur = -1
	}
}

func (w *walker) resolve(target ir.NodeID) (dest int, isLoop bool) {
	for i := len(w.frames) - 1; i >= 0; i-- {
		if w.frames[i].marker == target {
			return w.frames[i].dest, w.frames[i].isLoop
		}
	}
	panic("cfg: break target not found among enclosing frames")
}

func (w *walker) visitBreak(n *ir.Node) {
	if n.BreakCond.Valid() {
		w.visit(n.BreakCond)
	}
	w.visit(n.BreakValue)
	if w.cur < 0 {
		return
	}
	dest, isLoop := w.resolve(n.Target)
	w.link(w.cur, dest, isLoop)

	if !n.BreakCond.Valid() {
		// Unconditional: nothing after this point in the current
		// straight-line sequence is reachable.
		w.cur = -1
		return
	}
	cont := w.newBlock()
	w.link(w.cur, cont, false)
	w.cur = cont
}

func (w *walker) visitSwitch(n *ir.Node) {
	w.visit(n.Value)
	if w.cur < 0 {
		return
	}
	for _, t := range n.SwitchTargets {
		dest, isLoop := w.resolve(t)
		w.link(w.cur, dest, isLoop)
	}
	// A switch always dispatches; there is no fallthrough successor.
	w.cur = -1
}

// computeReachability runs a forward reachability pass from the entry
// block and unlinks edges touching unreachable blocks, so a later
// dataflow pass never has to reason about a predecessor that can't
// actually execute.
func computeReachability(g *Graph) {
	seen := make([]bool, len(g.Blocks))
	stack := []int{g.EntryID}
	seen[g.EntryID] = true
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range g.Blocks[id].Succs {
			if !seen[e.To] {
				seen[e.To] = true
				stack = append(stack, e.To)
			}
		}
	}
	for _, b := range g.Blocks {
		if !seen[b.ID] {
			b.Invalid = true
			b.Preds = nil
			b.Succs = nil
			continue
		}
		b.Preds = filterEdges(b.Preds, seen)
		b.Succs = filterEdges(b.Succs, seen)
	}
}

func filterEdges(edges []Edge, seen []bool) []Edge {
	out := edges[:0]
	for _, e := range edges {
		if seen[e.To] {
			out = append(out, e)
		}
	}
	return out
}
